package dashboard

import (
	"context"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/ahorros/internal/finance"
	"github.com/MrJamesThe3rd/ahorros/internal/http/respond"
	"github.com/MrJamesThe3rd/ahorros/internal/state"
)

const (
	defaultSimulationMonths = 24
	maxSimulationMonths     = 600
)

type Snapshotter interface {
	Snapshot(ctx context.Context) (state.Document, error)
}

type Handler struct {
	docs Snapshotter
}

func NewHandler(docs Snapshotter) *Handler {
	return &Handler{docs: docs}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/summary", h.summary)
	r.Get("/simulate", h.simulate)
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	doc, err := h.docs.Snapshot(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, finance.Summarize(doc))
}

type simulationResponse struct {
	Monthly         float64                   `json:"monthly"`
	AnnualRate      float64                   `json:"annualRate"`
	Months          int                       `json:"months"`
	WithInterest    float64                   `json:"withInterest"`
	WithoutInterest float64                   `json:"withoutInterest"`
	Gain            float64                   `json:"gain"`
	Points          []finance.ProjectionPoint `json:"points"`
}

// simulate defaults the contribution to the current savings (never below
// zero) and the rate to the stored setting.
func (h *Handler) simulate(w http.ResponseWriter, r *http.Request) {
	doc, err := h.docs.Snapshot(r.Context())
	if err != nil {
		respond.Error(w, err)
		return
	}

	q := r.URL.Query()

	pmt := max(0, finance.MonthlySavings(doc.Transactions).InexactFloat64())
	rate := doc.Settings.MonthlyInterestRate
	months := defaultSimulationMonths

	if s := q.Get("pmt"); s != "" {
		if pmt, err = parseNonNegative(s); err != nil {
			respond.BadRequest(w, "invalid pmt")
			return
		}
	}

	if s := q.Get("rate"); s != "" {
		if rate, err = parseNonNegative(s); err != nil {
			respond.BadRequest(w, "invalid rate")
			return
		}
	}

	if s := q.Get("months"); s != "" {
		if months, err = strconv.Atoi(s); err != nil || months < 0 || months > maxSimulationMonths {
			respond.BadRequest(w, "invalid months")
			return
		}
	}

	points := finance.Projection(pmt, rate, months)
	last := points[len(points)-1]

	if !finite(last.WithInterest) || !finite(last.WithoutInterest) {
		respond.BadRequest(w, "simulation out of range")
		return
	}

	respond.JSON(w, http.StatusOK, simulationResponse{
		Monthly:         pmt,
		AnnualRate:      rate,
		Months:          months,
		WithInterest:    last.WithInterest,
		WithoutInterest: last.WithoutInterest,
		Gain:            finance.InterestGain(points),
		Points:          points,
	})
}

func parseNonNegative(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}

	if !finite(v) || v < 0 {
		return 0, strconv.ErrRange
	}

	return v, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
