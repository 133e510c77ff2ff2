package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"timebill/billing"
	"timebill/middleware"
	"timebill/models"
)

const filterDateLayout = "2006-01-02"

// InvoiceGenerator runs the invoice workflow.
type InvoiceGenerator interface {
	Run(ctx context.Context, req billing.Request) (*billing.Result, error)
}

// InvoiceReader serves the read endpoints.
type InvoiceReader interface {
	List(ctx context.Context) ([]models.Invoice, error)
	GetByID(ctx context.Context, id uint) (*models.Invoice, error)
}

type InvoiceHandler struct {
	generator InvoiceGenerator
	invoices  InvoiceReader
	validate  *validator.Validate
	log       *logrus.Logger
}

func NewInvoiceHandler(generator InvoiceGenerator, invoices InvoiceReader, log *logrus.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		generator: generator,
		invoices:  invoices,
		validate:  validator.New(),
		log:       log,
	}
}

type invoiceFilters struct {
	StartDate     string `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
	EndDate       string `json:"endDate" validate:"omitempty,datetime=2006-01-02"`
	CustomerID    uint   `json:"customerId" validate:"omitempty,gt=0"`
	InvoiceStatus string `json:"invoiceStatus" validate:"omitempty,oneof=invoiced uninvoiced"`
}

type createInvoiceRequest struct {
	TimeEntryIDs []uint          `json:"timeEntryIds"`
	SelectAll    bool            `json:"selectAll"`
	Filters      *invoiceFilters `json:"filters"`
}

type invoiceResponse struct {
	models.Invoice
	DocumentURL string `json:"documentUrl"`
}

func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Filters != nil {
		if err := h.validate.Struct(req.Filters); err != nil {
			writeError(w, http.StatusBadRequest, "invalid filters: "+err.Error())
			return
		}
	}

	result, err := h.generator.Run(r.Context(), billing.Request{
		TimeEntryIDs: req.TimeEntryIDs,
		SelectAll:    req.SelectAll,
		Filter:       buildFilter(req.Filters),
	})
	if err != nil {
		var validation *billing.ValidationError
		if errors.As(err, &validation) {
			writeError(w, http.StatusBadRequest, validation.Error())
			return
		}
		h.log.Errorf("generating invoice: %v", err)
		writeError(w, http.StatusInternalServerError, failureMessage(err))
		return
	}

	if claims := middleware.GetClaimsFromContext(r.Context()); claims != nil {
		h.log.WithFields(logrus.Fields{
			"user_id":    claims.UserID,
			"invoice_id": result.Invoice.ID,
		}).Info("invoice created")
	}

	writeJSON(w, http.StatusCreated, invoiceResponse{
		Invoice:     *result.Invoice,
		DocumentURL: result.DocumentURL,
	})
}

func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.invoices.List(r.Context())
	if err != nil {
		h.log.Errorf("listing invoices: %v", err)
		writeError(w, http.StatusInternalServerError, "error listing invoices")
		return
	}
	writeJSON(w, http.StatusOK, invoices)
}

func (h *InvoiceHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid invoice id")
		return
	}

	invoice, err := h.invoices.GetByID(r.Context(), uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusNotFound, "invoice not found")
			return
		}
		h.log.Errorf("fetching invoice %d: %v", id, err)
		writeError(w, http.StatusInternalServerError, "error fetching invoice")
		return
	}
	writeJSON(w, http.StatusOK, invoice)
}

// failureMessage is the outward 500 body. Clients only learn which step
// failed; the wrapped cause stays in the log.
func failureMessage(err error) string {
	var persistence *billing.PersistenceError
	if errors.As(err, &persistence) {
		return "error " + persistence.Step
	}
	var fsErr *billing.FileSystemError
	if errors.As(err, &fsErr) {
		return "error " + fsErr.Step
	}
	var renderErr *billing.RenderError
	if errors.As(err, &renderErr) {
		return "error generating invoice document"
	}
	return "error generating invoice"
}

func buildFilter(filters *invoiceFilters) billing.EntryFilter {
	if filters == nil {
		return billing.EntryFilter{}
	}

	filter := billing.EntryFilter{CustomerID: filters.CustomerID}
	if filters.StartDate != "" {
		if start, err := time.Parse(filterDateLayout, filters.StartDate); err == nil {
			filter.StartDate = &start
		}
	}
	if filters.EndDate != "" {
		if end, err := time.Parse(filterDateLayout, filters.EndDate); err == nil {
			filter.EndDate = &end
		}
	}
	switch filters.InvoiceStatus {
	case "invoiced":
		invoiced := true
		filter.Invoiced = &invoiced
	case "uninvoiced":
		invoiced := false
		filter.Invoiced = &invoiced
	}
	return filter
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
