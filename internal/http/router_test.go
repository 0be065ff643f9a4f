package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/ahorros/internal/export"
	"github.com/MrJamesThe3rd/ahorros/internal/goal"
	apphttp "github.com/MrJamesThe3rd/ahorros/internal/http"
	"github.com/MrJamesThe3rd/ahorros/internal/http/dashboard"
	exporthttp "github.com/MrJamesThe3rd/ahorros/internal/http/export"
	goalhttp "github.com/MrJamesThe3rd/ahorros/internal/http/goal"
	"github.com/MrJamesThe3rd/ahorros/internal/http/importdata"
	"github.com/MrJamesThe3rd/ahorros/internal/http/settings"
	txhttp "github.com/MrJamesThe3rd/ahorros/internal/http/transaction"
	"github.com/MrJamesThe3rd/ahorros/internal/importer"
	"github.com/MrJamesThe3rd/ahorros/internal/store"
	"github.com/MrJamesThe3rd/ahorros/internal/transaction"
)

type app struct {
	handler http.Handler
	store   *store.Store
	backend *store.MemoryBackend
}

func newApp(t *testing.T) app {
	t.Helper()

	backend := store.NewMemoryBackend()
	s := store.New(backend)

	txSvc := transaction.NewService(s.Transactions())
	goalSvc := goal.NewService(s.Goals())

	h := apphttp.New(apphttp.Handlers{
		Transactions: txhttp.NewHandler(txSvc),
		Goals:        goalhttp.NewHandler(goalSvc),
		Settings:     settings.NewHandler(s),
		Dashboard:    dashboard.NewHandler(s),
		Import:       importdata.NewHandler(importer.NewService(txSvc, s), 1<<20),
		Export:       exporthttp.NewHandler(export.NewService(s)),
	}, []string{"http://localhost:5173"})

	return app{handler: h, store: s, backend: backend}
}

func (a app) do(t *testing.T, method, path, contentType string, body []byte) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)

	return rec
}

func (a app) json(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	return a.do(t, method, path, "application/json", []byte(body))
}

func multipartBody(t *testing.T, fields map[string]string, filename, content string) (string, []byte) {
	t.Helper()

	var buf bytes.Buffer

	mw := multipart.NewWriter(&buf)

	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}

	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}

	require.NoError(t, mw.Close())

	return mw.FormDataContentType(), buf.Bytes()
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))

	return v
}

func TestTransactionsAPI(t *testing.T) {
	a := newApp(t)

	rec := a.json(t, http.MethodPost, "/api/v1/transactions",
		`{"name":"Renta","amount":8500,"category":"Vivienda","type":"expense","recurrence":"fixed"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	created := decode[map[string]any](t, rec)
	id := created["id"].(string)
	assert.True(t, strings.HasPrefix(id, "txn_"))
	assert.Equal(t, 8500.0, created["amount"])

	rec = a.json(t, http.MethodPost, "/api/v1/transactions",
		`{"name":"Renta","amount":8500,"category":"Trabajo","type":"expense"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "category outside the expense vocabulary")

	rec = a.json(t, http.MethodPatch, "/api/v1/transactions/"+id, `{"amount":9000}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 9000.0, decode[map[string]any](t, rec)["amount"])

	rec = a.do(t, http.MethodGet, "/api/v1/transactions?type=expense&q=ren", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)

	rec = a.do(t, http.MethodGet, "/api/v1/transactions?type=income", "", nil)
	assert.Empty(t, decode[[]map[string]any](t, rec))

	rec = a.do(t, http.MethodGet, "/api/v1/transactions?from=2000-01-01", "", nil)
	assert.Len(t, decode[[]map[string]any](t, rec), 1)

	rec = a.do(t, http.MethodGet, "/api/v1/transactions?to=2000-01-01", "", nil)
	assert.Empty(t, decode[[]map[string]any](t, rec))

	rec = a.do(t, http.MethodGet, "/api/v1/transactions?from=01/02/2000", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(t, http.MethodDelete, "/api/v1/transactions/"+id, "", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = a.do(t, http.MethodGet, "/api/v1/transactions/"+id, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGoalsAPI(t *testing.T) {
	a := newApp(t)

	rec := a.json(t, http.MethodPost, "/api/v1/goals", `{"name":"Viaje","targetAmount":1000}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	created := decode[map[string]any](t, rec)
	id := created["id"].(string)
	assert.Equal(t, goal.DefaultIcon, created["icon"])

	rec = a.json(t, http.MethodPost, "/api/v1/goals/"+id+"/deposit", `{"amount":1500}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "deposit above the remaining amount")

	rec = a.json(t, http.MethodPost, "/api/v1/goals/"+id+"/deposit", `{"amount":400}`)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[map[string]any](t, rec)
	assert.Equal(t, 400.0, body["currentAmount"])
	assert.Equal(t, 40.0, body["progress"])

	rec = a.json(t, http.MethodPost, "/api/v1/goals/goal_missing/deposit", `{"amount":1}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSettingsAPI(t *testing.T) {
	a := newApp(t)

	rec := a.do(t, http.MethodGet, "/api/v1/settings", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Usuario", decode[map[string]any](t, rec)["userName"])

	rec = a.json(t, http.MethodPatch, "/api/v1/settings", `{"emergencyFundMonths":6}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 6.0, decode[map[string]any](t, rec)["emergencyFundMonths"])

	rec = a.json(t, http.MethodPatch, "/api/v1/settings", `{"emergencyFundMonths":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStorageFailureSurfaces(t *testing.T) {
	a := newApp(t)

	_, err := a.store.Load(context.Background())
	require.NoError(t, err)

	a.backend.FailWrites = assert.AnError

	rec := a.json(t, http.MethodPost, "/api/v1/goals", `{"name":"Viaje","targetAmount":1000}`)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	a.backend.FailWrites = nil

	rec = a.do(t, http.MethodGet, "/api/v1/goals", "", nil)
	assert.Empty(t, decode[[]map[string]any](t, rec))
}

func TestImportAPI(t *testing.T) {
	a := newApp(t)
	csv := "Concepto,Importe,Tipo\nNómina,\"25,000\",Ingreso\nRenta,-8500,Gasto\nNada,0,\n"

	ct, body := multipartBody(t, map[string]string{"rows": "2"}, "movimientos.csv", csv)
	rec := a.do(t, http.MethodPost, "/api/v1/import/preview", ct, body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	preview := decode[importer.Preview](t, rec)
	assert.Equal(t, 3, preview.Rows)
	assert.Len(t, preview.Candidates, 2)
	assert.Equal(t, "Concepto", preview.Mapping["name"])

	ct, body = multipartBody(t, map[string]string{"mapping": `{"name":"Concepto","amount":"Importe","type":"Tipo"}`}, "movimientos.csv", csv)
	rec = a.do(t, http.MethodPost, "/api/v1/import", ct, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	res := decode[importer.Result](t, rec)
	assert.Equal(t, 2, res.Imported)
	assert.Equal(t, 1, res.Rejected)

	ct, body = multipartBody(t, map[string]string{"mapping": `{"name":"Concepto"}`}, "movimientos.csv", csv)
	rec = a.do(t, http.MethodPost, "/api/v1/import", ct, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	ct, body = multipartBody(t, map[string]string{
		"text":    "name\tamount\nCafé\t-45\n",
		"mapping": `{"name":"name","amount":"amount"}`,
	}, "", "")
	rec = a.do(t, http.MethodPost, "/api/v1/import", ct, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	ct, body = multipartBody(t, map[string]string{"mapping": `{"name":"name","amount":"amount"}`}, "vacio.csv", "name,amount\nx,0\n")
	rec = a.do(t, http.MethodPost, "/api/v1/import", ct, body)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = a.do(t, http.MethodGet, "/api/v1/summary", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3.0, decode[map[string]any](t, rec)["transactionCount"])
}

func TestExportRestoreAPI(t *testing.T) {
	a := newApp(t)

	rec := a.json(t, http.MethodPost, "/api/v1/goals", `{"name":"Viaje","targetAmount":1000}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = a.do(t, http.MethodGet, "/api/v1/export", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "ahorros-backup-")

	backup := rec.Body.Bytes()

	other := newApp(t)

	ct, body := multipartBody(t, nil, "respaldo.json", string(backup))
	rec = other.do(t, http.MethodPost, "/api/v1/restore", ct, body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 1.0, decode[map[string]any](t, rec)["goals"])

	rec = other.json(t, http.MethodPost, "/api/v1/restore", `{"meta":{}}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestSimulateAPI(t *testing.T) {
	a := newApp(t)

	rec := a.do(t, http.MethodGet, "/api/v1/simulate?pmt=1000&rate=12&months=12", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[map[string]any](t, rec)
	assert.InDelta(t, 12682.50, body["withInterest"], 0.01)
	assert.Equal(t, 12000.0, body["withoutInterest"])
	assert.Len(t, body["points"], 13)

	rejected := []string{
		"months=-3",
		"months=601",
		"pmt=NaN&months=12",
		"pmt=-10",
		"rate=Inf",
		"rate=-1",
		"pmt=1e308&months=600",
	}

	for _, query := range rejected {
		rec = a.do(t, http.MethodGet, "/api/v1/simulate?"+query, "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, query)
		assert.Contains(t, rec.Body.String(), `"error"`, query)
	}
}

func TestCORS(t *testing.T) {
	a := newApp(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/transactions", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}
