package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/phonebook-api/apiserver/internal/services"
	"github.com/phonebook-api/apiserver/internal/store"
	"go.uber.org/zap"
)

// errorWriter turns service errors into HTTP responses.
type errorWriter struct {
	logger *zap.Logger
	// concealNotFound answers unknown identifiers on token protected
	// routes with the unauthorized response.
	concealNotFound bool
}

// public writes err for a route that needs no token.
func (e errorWriter) public(w http.ResponseWriter, r *http.Request, err error, action string) {
	e.write(w, r, err, action, false)
}

// protected writes err for a token protected route.
func (e errorWriter) protected(w http.ResponseWriter, r *http.Request, err error, action string) {
	e.write(w, r, err, action, true)
}

func (e errorWriter) write(w http.ResponseWriter, r *http.Request, err error, action string, protected bool) {
	switch {
	case errors.Is(err, services.ErrInvalidIdentifier),
		errors.Is(err, services.ErrInvalidEmail),
		errors.Is(err, services.ErrInvalidPhone):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, services.ErrUnauthorized.Error())
	case errors.Is(err, services.ErrAccountNotFound):
		if protected && e.concealNotFound {
			writeError(w, http.StatusUnauthorized, services.ErrUnauthorized.Error())
			return
		}
		writeError(w, http.StatusNotFound, services.ErrAccountNotFound.Error())
	case errors.Is(err, services.ErrContactNotFound):
		writeError(w, http.StatusNotFound, services.ErrContactNotFound.Error())
	case errors.Is(err, store.ErrDuplicateEmail),
		errors.Is(err, store.ErrDuplicatePhone),
		errors.Is(err, store.ErrDuplicateContactPhone):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrDeleteFailed):
		e.logFailure(r, err, action)
		writeError(w, http.StatusInternalServerError, services.ErrDeleteFailed.Error())
	default:
		e.logFailure(r, err, action)
		writeError(w, http.StatusInternalServerError, "failed to "+action)
	}
}

func (e errorWriter) logFailure(r *http.Request, err error, action string) {
	e.logger.Error("request failed",
		zap.String("action", action),
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.Error(err),
	)
}
