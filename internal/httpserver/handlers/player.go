package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/myquran/internal/domain"
	"github.com/MrSnakeDoc/myquran/internal/httpserver/deps"
	"github.com/MrSnakeDoc/myquran/internal/logger"
	"github.com/MrSnakeDoc/myquran/internal/player"
)

type playerRequest struct {
	Chapter int  `json:"chapter"`
	Index   *int `json:"index,omitempty"`
}

type playerResponse struct {
	ID       string          `json:"id"`
	Chapter  int             `json:"chapter"`
	Snapshot player.Snapshot `json:"snapshot"`
	Clips    []player.Clip   `json:"clips,omitempty"`
}

// CreatePlayer opens a player session over the verse recitations of a chapter.
func CreatePlayer(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req playerRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, d.Logger, err)
			return
		}
		clips, err := d.Reader.Clips(r.Context(), req.Chapter)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}

		sess := d.Sessions.Create(req.Chapter, clips)
		d.Logger.Debug("player session created",
			logger.String("session", sess.ID),
			logger.Int("chapter", req.Chapter),
			logger.Int("clips", len(clips)))

		writeJSON(w, http.StatusCreated, playerResponse{
			ID:       sess.ID,
			Chapter:  sess.Chapter,
			Snapshot: sess.Controller.Snapshot(),
			Clips:    clips,
		})
	}
}

// GetPlayer returns the current state of a session.
func GetPlayer(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := d.Sessions.Get(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, http.StatusOK, playerResponse{
			ID:       sess.ID,
			Chapter:  sess.Chapter,
			Snapshot: sess.Controller.Snapshot(),
		})
	}
}

// PlayerAction applies select, toggle, next, prev or ended to a session.
// select takes {"index": i}.
func PlayerAction(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := d.Sessions.Get(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}

		c := sess.Controller
		var snap player.Snapshot
		switch action := chi.URLParam(r, "action"); action {
		case "select":
			var req playerRequest
			if err := decodeJSON(r, &req); err != nil {
				writeError(w, d.Logger, err)
				return
			}
			if req.Index == nil {
				writeError(w, d.Logger, fmt.Errorf("%w: select needs an index", domain.ErrInvalidInput))
				return
			}
			if snap, err = c.Select(*req.Index); err != nil {
				writeError(w, d.Logger, err)
				return
			}
		case "toggle":
			snap = c.Toggle()
		case "next":
			snap = c.Next()
		case "prev":
			snap = c.Prev()
		case "ended":
			snap = c.Ended()
		default:
			writeError(w, d.Logger, fmt.Errorf("%w: unknown player action %q", domain.ErrInvalidInput, action))
			return
		}

		writeJSON(w, http.StatusOK, playerResponse{
			ID:       sess.ID,
			Chapter:  sess.Chapter,
			Snapshot: snap,
		})
	}
}

// DeletePlayer closes a session. Unknown ids are a no-op.
func DeletePlayer(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d.Sessions.Delete(chi.URLParam(r, "id"))
		w.WriteHeader(http.StatusNoContent)
	}
}
