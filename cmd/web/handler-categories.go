package main

import (
	"net/http"

	"github.com/learnzy/learnzy/internal/models"
)

type categoriesResponse struct {
	Categories  map[models.Category][]string `json:"categories"`
	Suggestions []string                     `json:"suggestions,omitempty"`
}

// categories lists the STEM catalog for the quest setup form. With ?category=
// and ?topic= it also returns topic suggestions matching the partial input.
func (app *application) categories(w http.ResponseWriter, r *http.Request) {
	response := categoriesResponse{
		Categories:  models.Catalog,
		Suggestions: nil,
	}

	if topic := r.URL.Query().Get("topic"); topic != "" {
		category, err := models.ParseCategory(r.URL.Query().Get("category"))
		if err != nil {
			app.clientError(w, r, http.StatusBadRequest, "unknown category")
			return
		}
		response.Suggestions = models.TopicSuggestions(category, topic)
	}

	app.writeJSON(w, r, http.StatusOK, response)
}
