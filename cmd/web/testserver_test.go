package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/justinas/nosurf"
	"github.com/learnzy/learnzy/internal/errors"
	"github.com/learnzy/learnzy/internal/logging"
	"github.com/learnzy/learnzy/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// waitForReady calls the specified endpoint until it gets a HTTP 200 Success
// response or until the context is cancelled or the 1-second timeout is reached.
func waitForReady(ctx context.Context, endpoint string) error {
	timeout := 1 * time.Second
	client := http.Client{}
	startTime := time.Now()
	var (
		err  error
		req  *http.Request
		resp *http.Response
	)
	for {
		if req, err = http.NewRequestWithContext(
			ctx,
			http.MethodGet,
			endpoint,
			nil,
		); err != nil {
			return errors.Wrap(err, "create request")
		}

		if resp, err = client.Do(req); err == nil {
			if resp.StatusCode == http.StatusOK {
				if err = resp.Body.Close(); err != nil {
					return errors.Wrap(err, "close response body")
				}
				return nil
			}
			if err = resp.Body.Close(); err != nil {
				return errors.Wrap(err, "close response body")
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			if time.Since(startTime) >= timeout {
				return errors.New("timeout waiting for endpoint to be ready")
			}
			time.Sleep(250 * time.Millisecond)
		}
	}
}

func testLookupEnv(key string) (string, bool) {
	switch key {
	case "LEARNZY_ADDR":
		return "localhost:0", true
	case "LEARNZY_SQLITE_URL":
		return ":memory:", true
	default:
		return "", false
	}
}

// cannedGenerator replaces the OpenAI-backed client so tests never leave the
// process. Setting err makes the next generation attempt fail.
type cannedGenerator struct {
	mu  sync.Mutex
	err error
}

func (g *cannedGenerator) fail(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.err = err
}

func (g *cannedGenerator) GenerateQuestionSet(
	_ context.Context,
	_ models.Category,
	_ models.Difficulty,
	_ string,
) (models.QuestionSet, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.err != nil {
		return nil, g.err
	}
	questions := make(models.QuestionSet, 0, 5)
	for i := 0; i < 5; i++ {
		questions = append(questions, models.Question{
			Text:          fmt.Sprintf("Sample question %d?", i+1),
			CorrectAnswer: "Photosynthesis",
			Options:       []string{"Photosynthesis", "Gravity", "Magnetism", "Evaporation"},
			Tag:           "Science",
		})
	}
	return questions, nil
}

type testServer struct {
	url       string
	client    http.Client
	generator *cannedGenerator
}

// startTestServer starts the test server, waits for it to be ready, and returns the server URL for testing.
func startTestServer(t *testing.T, w io.Writer, lookupEnv func(string) (string, bool)) testServer {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())

	// We need to grab the dynamically allocated port from the log output.
	addrCh := make(chan string, 1)
	logger := slog.New(logging.NewContextHandler(slog.NewTextHandler(w, &slog.HandlerOptions{
		AddSource: false,
		Level:     slog.LevelDebug,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == "Addr" {
				addrCh <- a.Value.String()
			}
			return a
		},
	})))

	generator := &cannedGenerator{}

	// Start the server and wait for it to be ready.
	go func() {
		if err := run(ctx, logger, lookupEnv, generator); err != nil {
			cancel()
			assert.NoError(t, err)
		}
	}()
	select {
	case <-ctx.Done():
		t.Fatal("server failed to start")
		return testServer{} //nolint:exhaustruct // This is unreachable.
	case addr := <-addrCh:
		serverURL := fmt.Sprintf("http://%s", addr)
		if err := waitForReady(ctx, fmt.Sprintf("%s/api/healthy", serverURL)); err != nil {
			require.NoError(t, err)
		}
		jar, err := newUnsafeCookieJar()
		require.NoError(t, err)
		return testServer{
			url:       serverURL,
			client:    http.Client{Jar: jar},
			generator: generator,
		}
	}
}

// Get fetches a URL and returns the response.
func (s *testServer) Get(t *testing.T, urlPath string) *http.Response {
	t.Helper()
	resp, err := s.client.Get(s.url + urlPath)
	require.NoError(t, err)
	return resp
}

// Send issues a request with a JSON body and the CSRF token the server handed
// out on GET /api/quiz.
func (s *testServer) Send(t *testing.T, method, urlPath, csrfToken, body string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, s.url+urlPath, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(nosurf.HeaderName, csrfToken)
	resp, err := s.client.Do(req)
	require.NoError(t, err)
	return resp
}
