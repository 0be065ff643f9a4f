package settings

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/ahorros/internal/http/respond"
	"github.com/MrJamesThe3rd/ahorros/internal/state"
)

type Store interface {
	Snapshot(ctx context.Context) (state.Document, error)
	Update(ctx context.Context, fn func(doc *state.Document) error) error
}

type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.get)
	r.Patch("/", h.update)
}

type settingsResponse struct {
	state.Settings
	Currency string `json:"currency"`
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	doc, err := h.store.Snapshot(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, settingsResponse{Settings: doc.Settings, Currency: doc.Meta.Currency})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req state.SettingsUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	var updated state.Document

	err := h.store.Update(r.Context(), func(doc *state.Document) error {
		next := req.Apply(doc.Settings)
		if err := next.Validate(); err != nil {
			return err
		}

		doc.Settings = next
		updated = *doc

		return nil
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, settingsResponse{Settings: updated.Settings, Currency: updated.Meta.Currency})
}
