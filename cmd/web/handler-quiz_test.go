package main

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/justinas/nosurf"
	"github.com/learnzy/learnzy/internal/errors"
	"github.com/learnzy/learnzy/internal/quiz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decodeJSON reads and closes the response body into a generic map.
func decodeJSON(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer func(body io.ReadCloser) {
		assert.NoError(t, body.Close())
	}(resp.Body)
	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return decoded
}

func Test_application_quizLifecycle(t *testing.T) {
	srv := startTestServer(t, os.Stdout, testLookupEnv)

	// First contact mints the device identity and hands out the CSRF token.
	resp := srv.Get(t, "/api/quiz")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	csrfToken := resp.Header.Get(nosurf.HeaderName)
	require.NotEmpty(t, csrfToken)
	state := decodeJSON(t, resp)
	assert.Equal(t, "idle", state["state"])
	assert.Equal(t, false, state["hasSavedQuiz"])
	assert.Equal(t, float64(0), state["totalPoints"])

	// Mutations without the CSRF token are rejected before any handler runs.
	resp = srv.Send(t, http.MethodPost, "/api/quiz", "", `{"category":"science","difficulty":"medium"}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.NoError(t, resp.Body.Close())

	resp = srv.Send(t, http.MethodPost, "/api/quiz", csrfToken, `{"category":"science","difficulty":"medium","topic":"Plants"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	view := decodeJSON(t, resp)
	assert.Equal(t, "active", view["state"])
	assert.Equal(t, "medium", view["difficulty"])
	assert.Equal(t, float64(5), view["questionCount"])
	assert.Equal(t, float64(quiz.StartingLives), view["lives"])
	question, ok := view["question"].(map[string]any)
	require.True(t, ok, "active view must carry the current question")
	assert.Equal(t, float64(1), question["number"])
	assert.NotContains(t, question, "correctAnswer")

	// A wrong answer costs a life and reveals the correct option.
	resp = srv.Send(t, http.MethodPost, "/api/quiz/answer", csrfToken, `{"answer":"Gravity"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	feedback := decodeJSON(t, resp)
	assert.Equal(t, false, feedback["isCorrect"])
	assert.Equal(t, float64(0), feedback["pointsAwarded"])
	assert.Equal(t, "Photosynthesis", feedback["correctAnswer"])
	assert.Equal(t, float64(quiz.StartingLives-1), feedback["lives"])

	// The feedback pause rejects a second submission for the same question.
	resp = srv.Send(t, http.MethodPost, "/api/quiz/answer", csrfToken, `{"answer":"Gravity"}`)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	require.NoError(t, resp.Body.Close())

	time.Sleep(quiz.AdvanceDelay + 300*time.Millisecond)

	resp = srv.Get(t, "/api/quiz")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	state = decodeJSON(t, resp)
	assert.Equal(t, false, state["awaitingAdvance"])
	question, ok = state["question"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(2), question["number"])

	// Answer matching ignores case. Medium difficulty doubles the base points.
	resp = srv.Send(t, http.MethodPost, "/api/quiz/answer", csrfToken, `{"answer":"photosynthesis"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	feedback = decodeJSON(t, resp)
	assert.Equal(t, true, feedback["isCorrect"])
	assert.Equal(t, float64(200), feedback["pointsAwarded"])
	assert.Equal(t, float64(200), feedback["score"])
	assert.Equal(t, float64(quiz.StartingLives-1), feedback["lives"])

	// Closing abandons the session and clears the saved snapshot.
	resp = srv.Send(t, http.MethodDelete, "/api/quiz", csrfToken, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	view = decodeJSON(t, resp)
	assert.Equal(t, "idle", view["state"])

	resp = srv.Send(t, http.MethodPost, "/api/quiz/resume", csrfToken, "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.NoError(t, resp.Body.Close())

	// Earned points outlive the session that produced them.
	resp = srv.Get(t, "/api/quiz")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	state = decodeJSON(t, resp)
	assert.Equal(t, float64(200), state["totalPoints"])
}

func Test_application_startQuizValidation(t *testing.T) {
	srv := startTestServer(t, os.Stdout, testLookupEnv)

	resp := srv.Get(t, "/api/quiz")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	csrfToken := resp.Header.Get(nosurf.HeaderName)
	require.NoError(t, resp.Body.Close())

	tests := []struct {
		name string
		body string
	}{
		{name: "unknown category", body: `{"category":"astrology","difficulty":"easy"}`},
		{name: "unknown difficulty", body: `{"category":"science","difficulty":"impossible"}`},
		{name: "malformed body", body: `{"category":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := srv.Send(t, http.MethodPost, "/api/quiz", csrfToken, tt.body)
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
			require.NoError(t, resp.Body.Close())
		})
	}

	// Generation failures must not start a session, so the user can retry.
	srv.generator.fail(errors.New("model unavailable"))
	resp = srv.Send(t, http.MethodPost, "/api/quiz", csrfToken, `{"category":"science","difficulty":"easy"}`)
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
	body := decodeJSON(t, resp)
	assert.Equal(t, generationFailedMessage, body["error"])
	srv.generator.fail(nil)

	resp = srv.Get(t, "/api/quiz")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	state := decodeJSON(t, resp)
	assert.Equal(t, "idle", state["state"])
}

func Test_application_resumeConflicts(t *testing.T) {
	srv := startTestServer(t, os.Stdout, testLookupEnv)

	resp := srv.Get(t, "/api/quiz")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	csrfToken := resp.Header.Get(nosurf.HeaderName)
	require.NoError(t, resp.Body.Close())

	resp = srv.Send(t, http.MethodPost, "/api/quiz", csrfToken, `{"category":"math","difficulty":"hard"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NoError(t, resp.Body.Close())

	// Resuming on top of a live session is a conflict.
	resp = srv.Send(t, http.MethodPost, "/api/quiz/resume", csrfToken, "")
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	require.NoError(t, resp.Body.Close())

	// Closing without a session is a conflict as well.
	resp = srv.Send(t, http.MethodDelete, "/api/quiz", csrfToken, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, resp.Body.Close())
	resp = srv.Send(t, http.MethodDelete, "/api/quiz", csrfToken, "")
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	require.NoError(t, resp.Body.Close())
}

func Test_application_categories(t *testing.T) {
	srv := startTestServer(t, os.Stdout, testLookupEnv)

	resp := srv.Get(t, "/api/categories")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeJSON(t, resp)
	categories, ok := body["categories"].(map[string]any)
	require.True(t, ok)
	for _, category := range []string{"science", "technology", "engineering", "math"} {
		assert.Contains(t, categories, category)
	}
}
