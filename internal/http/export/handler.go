package export

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/ahorros/internal/export"
	"github.com/MrJamesThe3rd/ahorros/internal/http/respond"
)

type Handler struct {
	svc *export.Service
}

func NewHandler(svc *export.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.download)
}

// download serves the backup as an attachment. The document is encoded
// before any header is written so a failure still yields a clean error.
func (h *Handler) download(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer

	if _, err := h.svc.Export(r.Context(), &buf); err != nil {
		respond.Error(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", export.Filename(time.Now())))

	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write backup", "error", err)
	}
}
