package main

import (
	"log/slog"
	"net/http"

	"github.com/justinas/nosurf"
	"github.com/learnzy/learnzy/internal/ai"
	"github.com/learnzy/learnzy/internal/errors"
	"github.com/learnzy/learnzy/internal/models"
	"github.com/learnzy/learnzy/internal/quiz"
)

// generationFailedMessage matches the retryable error shown by the original app.
const generationFailedMessage = "Oops! Our learning engine encountered a glitch. Let's try again!"

type quizStateResponse struct {
	quiz.View
	HasSavedQuiz bool `json:"hasSavedQuiz"`
	TotalPoints  int  `json:"totalPoints"`
}

// quizState returns the projection of the device's session plus the CSRF token
// the client needs for the mutating endpoints.
func (app *application) quizState(w http.ResponseWriter, r *http.Request) {
	engine, err := app.engineFor(r)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	hasSaved, err := engine.HasResumable(r.Context())
	if err != nil {
		app.serverError(w, r, err)
		return
	}
	totalPoints, err := engine.TotalPoints(r.Context())
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	w.Header().Set(nosurf.HeaderName, nosurf.Token(r))
	app.writeJSON(w, r, http.StatusOK, quizStateResponse{
		View:         engine.View(),
		HasSavedQuiz: hasSaved,
		TotalPoints:  totalPoints,
	})
}

type startQuizRequest struct {
	Category   string `json:"category"`
	Difficulty string `json:"difficulty"`
	Topic      string `json:"topic"`
}

// startQuiz generates a fresh question set and begins a session with it.
func (app *application) startQuiz(w http.ResponseWriter, r *http.Request) {
	var request startQuizRequest
	if err := app.readJSON(r, &request); err != nil {
		app.clientError(w, r, http.StatusBadRequest, "malformed request body")
		return
	}
	category, err := models.ParseCategory(request.Category)
	if err != nil {
		app.clientError(w, r, http.StatusBadRequest, "unknown category")
		return
	}
	difficulty, err := models.ParseDifficulty(request.Difficulty)
	if err != nil {
		app.clientError(w, r, http.StatusBadRequest, "unknown difficulty")
		return
	}

	engine, err := app.engineFor(r)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	questions, err := app.generator.GenerateQuestionSet(r.Context(), category, difficulty, request.Topic)
	if err != nil {
		// All generation failures are recoverable: no session starts, the
		// user may retry with the same request.
		app.logger.LogAttrs(r.Context(), slog.LevelWarn, "question generation failed", errors.SlogError(err))
		app.clientError(w, r, http.StatusBadGateway, generationFailedMessage)
		return
	}

	if err = engine.Start(r.Context(), questions, difficulty); err != nil {
		app.quizError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusCreated, engine.View())
}

type submitAnswerRequest struct {
	Answer string `json:"answer"`
}

// submitAnswer scores the selected answer and returns the feedback for it.
func (app *application) submitAnswer(w http.ResponseWriter, r *http.Request) {
	var request submitAnswerRequest
	if err := app.readJSON(r, &request); err != nil {
		app.clientError(w, r, http.StatusBadRequest, "malformed request body")
		return
	}

	engine, err := app.engineFor(r)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	result, err := engine.Submit(r.Context(), request.Answer)
	if err != nil {
		app.quizError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, result)
}

// resumeQuiz reactivates the persisted unfinished session, if there is one.
func (app *application) resumeQuiz(w http.ResponseWriter, r *http.Request) {
	engine, err := app.engineFor(r)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	resumed, err := engine.Resume(r.Context())
	if err != nil {
		app.quizError(w, r, err)
		return
	}
	if !resumed {
		app.clientError(w, r, http.StatusNotFound, "no saved quest to continue")
		return
	}
	app.writeJSON(w, r, http.StatusOK, engine.View())
}

// closeQuiz ends the session and clears the saved snapshot.
func (app *application) closeQuiz(w http.ResponseWriter, r *http.Request) {
	engine, err := app.engineFor(r)
	if err != nil {
		app.serverError(w, r, err)
		return
	}

	if err = engine.Close(r.Context()); err != nil {
		app.quizError(w, r, err)
		return
	}
	app.writeJSON(w, r, http.StatusOK, engine.View())
}

// engineFor resolves the request's device to its quiz engine.
func (app *application) engineFor(r *http.Request) (*quiz.Engine, error) {
	deviceID, err := app.deviceID(r)
	if err != nil {
		return nil, err
	}
	return app.engines.forDevice(deviceID), nil
}

// quizError maps engine errors to HTTP responses. State machine rejections are
// conflicts, everything else is a server error.
func (app *application) quizError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, quiz.ErrInvalidState):
		app.clientError(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, quiz.ErrEmptyQuestionSet), errors.Is(err, ai.ErrGenerationFormat):
		app.clientError(w, r, http.StatusBadGateway, generationFailedMessage)
	default:
		app.serverError(w, r, err)
	}
}
