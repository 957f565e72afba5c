package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"os"
	"time"

	"github.com/learnzy/learnzy/internal/errors"
	"github.com/learnzy/learnzy/internal/logging"
)

// checkDeployment probes the read-only endpoints. It deliberately avoids
// starting a quiz so a smoke test run never spends question generation quota.
func checkDeployment(ctx context.Context, baseURL string) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second) //nolint:mnd // 10 seconds
	defer cancel()

	jar, err := cookiejar.New(nil)
	if err != nil {
		return errors.Wrap(err, "new cookie jar")
	}
	client := http.Client{Jar: jar}

	get := func(urlPath string) (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+urlPath, nil)
		if err != nil {
			return nil, errors.Wrap(err, "create request", slog.String("path", urlPath))
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, errors.Wrap(err, "request", slog.String("path", urlPath))
		}
		if resp.StatusCode != http.StatusOK {
			_ = resp.Body.Close()
			return nil, errors.New("unexpected status",
				slog.String("path", urlPath), slog.Int("status", resp.StatusCode))
		}
		return resp, nil
	}

	resp, err := get("/api/healthy")
	if err != nil {
		return err
	}
	_ = resp.Body.Close()

	if resp, err = get("/api/categories"); err != nil {
		return err
	}
	var catalog struct {
		Categories map[string][]string `json:"categories"`
	}
	err = json.NewDecoder(resp.Body).Decode(&catalog)
	_ = resp.Body.Close()
	if err != nil {
		return errors.Wrap(err, "decode categories")
	}
	if len(catalog.Categories) == 0 {
		return errors.New("empty category catalog")
	}

	if resp, err = get("/api/quiz"); err != nil {
		return err
	}
	var state struct {
		State string `json:"state"`
	}
	err = json.NewDecoder(resp.Body).Decode(&state)
	_ = resp.Body.Close()
	if err != nil {
		return errors.Wrap(err, "decode quiz state")
	}
	if state.State == "" {
		return errors.New("quiz state missing from response")
	}
	return nil
}

func main() {
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	logger := slog.New(loggerHandler)
	ctx := context.Background()

	if len(os.Args) != 2 { //nolint:mnd // we expect only hostname to be passed as argument.
		logger.LogAttrs(ctx, slog.LevelError, "usage: smoketest <hostname>")
		os.Exit(1)
	}

	url := "https://" + os.Args[1]
	ctx = logging.WithAttrs(ctx, slog.String("hostname", url))

	if err := checkDeployment(ctx, url); err != nil {
		logger.LogAttrs(ctx, slog.LevelError, "smoke test failed", errors.SlogError(err))
		os.Exit(1)
	}

	logger.LogAttrs(ctx, slog.LevelInfo, "Smoke test successful 🙌")
	os.Exit(0)
}
