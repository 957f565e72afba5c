package main

import (
	"net/http"

	"github.com/justinas/alice"
)

func (app *application) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/healthy", app.healthy)
	mux.HandleFunc("GET /api/categories", app.categories)

	session := alice.New(app.sessionManager.LoadAndSave)

	mux.Handle("GET /api/quiz", session.ThenFunc(app.quizState))
	mux.Handle("POST /api/quiz", session.ThenFunc(app.startQuiz))
	mux.Handle("POST /api/quiz/answer", session.ThenFunc(app.submitAnswer))
	mux.Handle("POST /api/quiz/resume", session.ThenFunc(app.resumeQuiz))
	mux.Handle("DELETE /api/quiz", session.ThenFunc(app.closeQuiz))

	return app.recoverPanic(app.logRequest(secureHeaders(noSurf(mux))))
}
