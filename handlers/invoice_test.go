package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"timebill/billing"
	"timebill/middleware"
	"timebill/models"
)

type stubGenerator struct {
	result *billing.Result
	err    error
	got    billing.Request
}

func (s *stubGenerator) Run(_ context.Context, req billing.Request) (*billing.Result, error) {
	s.got = req
	return s.result, s.err
}

type stubReader struct {
	invoices []models.Invoice
	invoice  *models.Invoice
	err      error
}

func (s *stubReader) List(context.Context) ([]models.Invoice, error) {
	return s.invoices, s.err
}

func (s *stubReader) GetByID(context.Context, uint) (*models.Invoice, error) {
	return s.invoice, s.err
}

func newTestHandler(generator InvoiceGenerator, reader InvoiceReader) *InvoiceHandler {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return NewInvoiceHandler(generator, reader, log)
}

func testRouter(h *InvoiceHandler) *chi.Mux {
	router := chi.NewRouter()
	router.Post("/api/invoices", h.Create)
	router.Get("/api/invoices", h.List)
	router.Get("/api/invoices/{id}", h.Get)
	return router
}

func successResult() *billing.Result {
	path := "/invoices/invoice_9.pdf"
	return &billing.Result{
		Invoice: &models.Invoice{
			ID:           9,
			CustomerID:   7,
			TotalAmount:  decimal.RequireFromString("330"),
			DocumentPath: &path,
		},
		DocumentURL: path,
	}
}

func TestCreateInvoiceSuccess(t *testing.T) {
	generator := &stubGenerator{result: successResult()}
	router := testRouter(newTestHandler(generator, &stubReader{}))

	req := httptest.NewRequest(http.MethodPost, "/api/invoices",
		strings.NewReader(`{"timeEntryIds":[1,2]}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "/invoices/invoice_9.pdf", body["documentUrl"])
	assert.Equal(t, []uint{1, 2}, generator.got.TimeEntryIDs)
}

func TestCreateInvoiceParsesFilters(t *testing.T) {
	generator := &stubGenerator{result: successResult()}
	router := testRouter(newTestHandler(generator, &stubReader{}))

	payload := `{"selectAll":true,"filters":{"startDate":"2025-03-01","endDate":"2025-03-31","customerId":7,"invoiceStatus":"uninvoiced"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/invoices", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, generator.got.SelectAll)
	assert.Equal(t, uint(7), generator.got.Filter.CustomerID)
	require.NotNil(t, generator.got.Filter.StartDate)
	require.NotNil(t, generator.got.Filter.Invoiced)
	assert.False(t, *generator.got.Filter.Invoiced)
}

func TestCreateInvoiceInvalidBody(t *testing.T) {
	router := testRouter(newTestHandler(&stubGenerator{}, &stubReader{}))

	req := httptest.NewRequest(http.MethodPost, "/api/invoices", strings.NewReader("{"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateInvoiceRejectsMalformedFilterDates(t *testing.T) {
	router := testRouter(newTestHandler(&stubGenerator{}, &stubReader{}))

	payload := `{"selectAll":true,"filters":{"startDate":"03/01/2025"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/invoices", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateInvoiceValidationErrorsMapTo400(t *testing.T) {
	generator := &stubGenerator{err: &billing.ValidationError{Reason: "time entries span multiple customers"}}
	router := testRouter(newTestHandler(generator, &stubReader{}))

	req := httptest.NewRequest(http.MethodPost, "/api/invoices",
		strings.NewReader(`{"timeEntryIds":[1,2]}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "time entries span multiple customers", body["error"])
}

func TestCreateInvoiceWorkflowFailuresMapTo500(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		message string
		leak    string
	}{
		{
			"persistence",
			&billing.PersistenceError{Step: "creating invoice", Err: errors.New("pq: connection refused")},
			"error creating invoice",
			"connection refused",
		},
		{
			"render",
			&billing.RenderError{Err: errors.New("glyph table corrupt")},
			"error generating invoice document",
			"glyph table",
		},
		{
			"filesystem",
			&billing.FileSystemError{Step: "saving invoice document", Err: errors.New("disk full")},
			"error saving invoice document",
			"disk full",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := testRouter(newTestHandler(&stubGenerator{err: tc.err}, &stubReader{}))

			req := httptest.NewRequest(http.MethodPost, "/api/invoices",
				strings.NewReader(`{"timeEntryIds":[1]}`))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			require.Equal(t, http.StatusInternalServerError, rec.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			// The body names the failed step; the cause stays server-side.
			assert.Equal(t, tc.message, body["error"])
			assert.NotContains(t, rec.Body.String(), tc.leak)
		})
	}
}

func TestCreateInvoiceLogsActingUser(t *testing.T) {
	log, hook := logrustest.NewNullLogger()
	handler := NewInvoiceHandler(&stubGenerator{result: successResult()}, &stubReader{}, log)
	router := testRouter(handler)

	req := httptest.NewRequest(http.MethodPost, "/api/invoices",
		strings.NewReader(`{"timeEntryIds":[1,2]}`))
	claims := &middleware.Claims{UserID: 12}
	req = req.WithContext(context.WithValue(req.Context(), middleware.ClaimsContextKey, claims))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var logged bool
	for _, entry := range hook.AllEntries() {
		if entry.Message == "invoice created" {
			logged = true
			assert.Equal(t, uint(12), entry.Data["user_id"])
			assert.Equal(t, uint(9), entry.Data["invoice_id"])
		}
	}
	assert.True(t, logged, "expected an invoice created log entry")
}

func TestListInvoices(t *testing.T) {
	reader := &stubReader{invoices: []models.Invoice{{ID: 1}, {ID: 2}}}
	router := testRouter(newTestHandler(&stubGenerator{}, reader))

	req := httptest.NewRequest(http.MethodGet, "/api/invoices", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body, 2)
}

func TestGetInvoiceNotFound(t *testing.T) {
	reader := &stubReader{err: gorm.ErrRecordNotFound}
	router := testRouter(newTestHandler(&stubGenerator{}, reader))

	req := httptest.NewRequest(http.MethodGet, "/api/invoices/42", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetInvoiceRejectsBadID(t *testing.T) {
	router := testRouter(newTestHandler(&stubGenerator{}, &stubReader{}))

	req := httptest.NewRequest(http.MethodGet, "/api/invoices/not-a-number", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
