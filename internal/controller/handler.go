package controller

import (
	"errors"
	"net/http"

	"github.com/sharetube/client/internal/service/room"
)

func (c controller) getRoster(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, envelope{"data": c.room.Table().Rows()})
}

func (c controller) getActivity(w http.ResponseWriter, r *http.Request) {
	s, err := c.snapshot(r.Context())
	if err != nil {
		c.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{"data": s.Activity})
}

func (c controller) getState(w http.ResponseWriter, r *http.Request) {
	s, err := c.snapshot(r.Context())
	if err != nil {
		c.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, envelope{"data": s})
}

func (c controller) intent(fn func() error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := c.room.Do(r.Context(), fn); err != nil {
			c.writeError(w, r, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

type seekInput struct {
	Position *float64 `json:"position" validate:"required,gte=0"`
}

func (c controller) seek(w http.ResponseWriter, r *http.Request) {
	var req seekInput
	if err := readJSON(r, &req); err != nil {
		c.logger.InfoContext(r.Context(), "failed to read seek request", "error", err)
		writeJSON(w, http.StatusUnprocessableEntity, envelope{"error": err.Error()})
		return
	}

	if validationErrors, ok := c.validate.Validate(req); !ok {
		c.logger.InfoContext(r.Context(), "invalid seek request", "errors", validationErrors)
		writeJSON(w, http.StatusBadRequest, envelope{"errors": validationErrors})
		return
	}

	position := *req.Position
	if err := c.room.Do(r.Context(), func() error { return c.room.RequestSeek(position) }); err != nil {
		c.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (c controller) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, room.ErrInvalidPosition):
		status = http.StatusBadRequest
	case errors.Is(err, room.ErrNotConnected):
		status = http.StatusConflict
	case errors.Is(err, room.ErrStopped):
		status = http.StatusServiceUnavailable
	}

	if status == http.StatusInternalServerError {
		c.logger.ErrorContext(r.Context(), "request failed", "error", err)
	} else {
		c.logger.InfoContext(r.Context(), "request rejected", "error", err)
	}

	writeJSON(w, status, envelope{"error": err.Error()})
}
