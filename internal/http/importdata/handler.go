package importdata

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/ahorros/internal/apperrors"
	"github.com/MrJamesThe3rd/ahorros/internal/http/respond"
	"github.com/MrJamesThe3rd/ahorros/internal/importer"
	"github.com/MrJamesThe3rd/ahorros/internal/mapping"
)

const defaultPreviewRows = 5

type Handler struct {
	svc       *importer.Service
	maxUpload int64
}

func NewHandler(svc *importer.Service, maxUpload int64) *Handler {
	return &Handler{svc: svc, maxUpload: maxUpload}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/import/preview", h.preview)
	r.Post("/import", h.importRows)
	r.Post("/restore", h.restore)
}

// upload is one import payload, either an uploaded file or pasted text.
type upload struct {
	format  importer.Format
	payload []byte
	form    func(string) string
}

// readUpload accepts a multipart form with a "file" part or a "text" field.
// The format comes from the "format" field, else from the file name; pasted
// text defaults to tsv.
func (h *Handler) readUpload(w http.ResponseWriter, r *http.Request) (upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)

	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		return upload{}, fmt.Errorf("%w: failed to parse form: %v", apperrors.ErrValidation, err)
	}

	up := upload{form: r.FormValue}

	if f := r.FormValue("format"); f != "" {
		format, err := importer.ParseFormat(f)
		if err != nil {
			return upload{}, err
		}

		up.format = format
	}

	file, header, err := r.FormFile("file")
	if err == nil {
		defer file.Close()

		if up.payload, err = io.ReadAll(file); err != nil {
			return upload{}, fmt.Errorf("%w: reading upload: %v", apperrors.ErrValidation, err)
		}

		if up.format == "" {
			if up.format, err = importer.FormatFromFilename(header.Filename); err != nil {
				return upload{}, err
			}
		}

		return up, nil
	}

	if !errors.Is(err, http.ErrMissingFile) {
		return upload{}, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	text := r.FormValue("text")
	if text == "" {
		return upload{}, fmt.Errorf("%w: file or text field is required", apperrors.ErrValidation)
	}

	up.payload = []byte(text)

	if up.format == "" {
		up.format = importer.FormatPasted
	}

	return up, nil
}

// parseMapping reads the "mapping" form field, a JSON object from field
// name to column header.
func parseMapping(raw string) (mapping.Mapping, error) {
	if raw == "" {
		return nil, nil
	}

	var fields map[string]string
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, fmt.Errorf("%w: mapping must be a JSON object: %v", apperrors.ErrValidation, err)
	}

	m := make(mapping.Mapping, len(fields))

	for k, v := range fields {
		f, err := mapping.ParseField(k)
		if err != nil {
			return nil, err
		}

		m[f] = v
	}

	return m, nil
}

func (h *Handler) preview(w http.ResponseWriter, r *http.Request) {
	up, err := h.readUpload(w, r)
	if err != nil {
		respond.Error(w, err)
		return
	}

	m, err := parseMapping(up.form("mapping"))
	if err != nil {
		respond.Error(w, err)
		return
	}

	n := defaultPreviewRows
	if s := up.form("rows"); s != "" {
		if n, err = strconv.Atoi(s); err != nil || n < 1 {
			respond.BadRequest(w, "invalid rows")
			return
		}
	}

	preview, err := h.svc.Preview(up.format, up.payload, m, n)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, preview)
}

func (h *Handler) importRows(w http.ResponseWriter, r *http.Request) {
	up, err := h.readUpload(w, r)
	if err != nil {
		respond.Error(w, err)
		return
	}

	m, err := parseMapping(up.form("mapping"))
	if err != nil {
		respond.Error(w, err)
		return
	}

	res, err := h.svc.Import(r.Context(), up.format, up.payload, m)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, res)
}

type restoreResponse struct {
	Transactions int `json:"transactions"`
	Goals        int `json:"goals"`
}

// restore takes the backup either as a multipart "file" or as a raw JSON body.
func (h *Handler) restore(w http.ResponseWriter, r *http.Request) {
	var payload []byte

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxUpload))
		if err != nil {
			respond.BadRequest(w, "failed to read body: "+err.Error())
			return
		}

		payload = body
	} else {
		up, err := h.readUpload(w, r)
		if err != nil {
			respond.Error(w, err)
			return
		}

		payload = up.payload
	}

	doc, err := h.svc.Restore(r.Context(), payload)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, restoreResponse{
		Transactions: len(doc.Transactions),
		Goals:        len(doc.Goals),
	})
}
