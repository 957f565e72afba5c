package main

import (
	"net/http"

	"github.com/learnzy/learnzy/internal/errors"
	"github.com/learnzy/learnzy/internal/random"
)

const deviceIDSessionKey = "deviceID"

const deviceIDLength = 32

// deviceID returns the stable identifier for the requesting browser, minting
// one on first contact. It stands in for the original app's per-browser
// localStorage scope.
func (app *application) deviceID(r *http.Request) (string, error) {
	id := app.sessionManager.GetString(r.Context(), deviceIDSessionKey)
	if id != "" {
		return id, nil
	}

	id, err := random.Letters(deviceIDLength)
	if err != nil {
		return "", errors.Wrap(err, "mint device ID")
	}
	app.sessionManager.Put(r.Context(), deviceIDSessionKey, id)
	return id, nil
}
