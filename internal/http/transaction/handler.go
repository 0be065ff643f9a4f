package transaction

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/ahorros/internal/http/respond"
	"github.com/MrJamesThe3rd/ahorros/internal/transaction"
)

type Handler struct {
	svc *transaction.Service
}

func NewHandler(svc *transaction.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/categories", h.categories)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)
	r.Patch("/{id}", h.update)
}

type createTransactionRequest struct {
	Name       string                 `json:"name"`
	Amount     decimal.Decimal        `json:"amount"`
	Category   string                 `json:"category"`
	Type       transaction.Type       `json:"type"`
	Recurrence transaction.Recurrence `json:"recurrence"`
	Date       time.Time              `json:"date"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	if req.Recurrence == "" {
		req.Recurrence = transaction.RecurrenceVariable
	}

	tx, err := h.svc.Create(r.Context(), transaction.CreateParams{
		Name:       req.Name,
		Amount:     req.Amount,
		Category:   req.Category,
		Type:       req.Type,
		Recurrence: req.Recurrence,
		Date:       req.Date,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(tx))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := transaction.ListFilter{
		Search: r.URL.Query().Get("q"),
	}

	if s := r.URL.Query().Get("type"); s != "" && s != "all" {
		filter.Type = new(transaction.Type(s))
	}

	if s := r.URL.Query().Get("from"); s != "" {
		from, err := time.Parse(time.DateOnly, s)
		if err != nil {
			respond.BadRequest(w, "invalid from date, expected YYYY-MM-DD")
			return
		}

		filter.StartDate = &from
	}

	if s := r.URL.Query().Get("to"); s != "" {
		to, err := time.Parse(time.DateOnly, s)
		if err != nil {
			respond.BadRequest(w, "invalid to date, expected YYYY-MM-DD")
			return
		}

		filter.EndDate = new(to.AddDate(0, 0, 1).Add(-time.Nanosecond))
	}

	txs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponseList(txs))
}

func (h *Handler) categories(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, categoriesResponse{
		Income:  transaction.IncomeCategories,
		Expense: transaction.ExpenseCategories,
	})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	tx, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(tx))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respond.Error(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type updateTransactionRequest struct {
	Name       *string                 `json:"name,omitempty"`
	Amount     *decimal.Decimal        `json:"amount,omitempty"`
	Category   *string                 `json:"category,omitempty"`
	Type       *transaction.Type       `json:"type,omitempty"`
	Recurrence *transaction.Recurrence `json:"recurrence,omitempty"`
	Date       *time.Time              `json:"date,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	var req updateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.BadRequest(w, err.Error())
		return
	}

	tx, err := h.svc.Update(r.Context(), chi.URLParam(r, "id"), transaction.UpdateParams{
		Name:       req.Name,
		Amount:     req.Amount,
		Category:   req.Category,
		Type:       req.Type,
		Recurrence: req.Recurrence,
		Date:       req.Date,
	})
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(tx))
}
