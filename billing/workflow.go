package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"timebill/models"
	"timebill/render"
)

const (
	stepResolve = "resolving time entries"
	stepClaim   = "claiming time entries"
	stepCreate  = "creating invoice"
	stepRender  = "generating invoice document"
	stepSave    = "saving invoice document"
	stepLink    = "updating invoice with document path"
)

// Result is a successful invoice run: the persisted record and the URL its
// document is served from.
type Result struct {
	Invoice     *models.Invoice
	DocumentURL string
}

// Workflow sequences an invoice run: resolve and validate the entries,
// aggregate the amounts, claim the entries, create the invoice record,
// render and persist the document, then link it. Any failure after the
// claim compensates every prior side effect, so a failed run leaves no
// orphaned invoice and no permanently claimed entries.
type Workflow struct {
	selector *Selector
	entries  EntryStore
	invoices InvoiceStore
	runs     RunStore
	docs     DocumentStore
	render   RenderFunc
	issuer   []string
	log      *logrus.Logger
}

func NewWorkflow(entries EntryStore, invoices InvoiceStore, runs RunStore, docs DocumentStore, render RenderFunc, issuer []string, log *logrus.Logger) *Workflow {
	return &Workflow{
		selector: NewSelector(entries),
		entries:  entries,
		invoices: invoices,
		runs:     runs,
		docs:     docs,
		render:   render,
		issuer:   issuer,
		log:      log,
	}
}

func (w *Workflow) Run(ctx context.Context, req Request) (*Result, error) {
	entries, customer, err := w.selector.Resolve(ctx, req)
	if err != nil {
		w.logStep(stepResolve, err)
		return nil, err
	}

	total, lines := Aggregate(entries, customer)
	ids := entryIDs(entries)

	run := &models.InvoiceRun{
		RunID:  uuid.NewString(),
		Step:   stepClaim,
		Status: models.RunRunning,
	}
	if err := w.runs.Create(ctx, run); err != nil {
		// Run bookkeeping is diagnostic only; it never blocks billing.
		w.log.WithField("run_id", run.RunID).Warnf("creating invoice run record: %v", err)
	}

	if err := w.entries.Claim(ctx, ids); err != nil {
		w.logStep(stepClaim, err)
		w.fail(ctx, run, stepClaim, err, models.RunFailed)
		if errors.Is(err, ErrClaimConflict) {
			return nil, &ValidationError{Reason: "time entries already invoiced"}
		}
		return nil, &PersistenceError{Step: stepClaim, Err: err}
	}

	w.step(ctx, run, stepCreate)
	invoice := &models.Invoice{CustomerID: customer.ID, TotalAmount: total}
	if err := w.invoices.Create(ctx, invoice, ids); err != nil {
		w.compensate(ctx, run, stepCreate, err, nil, "", ids)
		return nil, &PersistenceError{Step: stepCreate, Err: err}
	}
	run.InvoiceID = &invoice.ID

	w.step(ctx, run, stepRender)
	doc := w.buildDocument(invoice, customer, lines)
	data, err := w.render(doc)
	if err != nil {
		w.compensate(ctx, run, stepRender, err, invoice, "", ids)
		return nil, &RenderError{Err: err}
	}

	w.step(ctx, run, stepSave)
	name := fmt.Sprintf("invoice_%d.pdf", invoice.ID)
	if err := w.docs.Write(name, data); err != nil {
		w.compensate(ctx, run, stepSave, err, invoice, name, ids)
		return nil, &FileSystemError{Step: stepSave, Err: err}
	}

	w.step(ctx, run, stepLink)
	docPath := "/invoices/" + name
	if err := w.invoices.SetDocumentPath(ctx, invoice.ID, docPath); err != nil {
		w.compensate(ctx, run, stepLink, err, invoice, name, ids)
		return nil, &PersistenceError{Step: stepLink, Err: err}
	}
	invoice.DocumentPath = &docPath

	run.Status = models.RunCompleted
	run.Step = ""
	if err := w.runs.Update(ctx, run); err != nil {
		w.log.WithField("run_id", run.RunID).Warnf("closing invoice run record: %v", err)
	}

	w.log.WithFields(logrus.Fields{
		"run_id":     run.RunID,
		"invoice_id": invoice.ID,
		"customer":   customer.ShortCode,
		"entries":    len(ids),
		"total":      total.StringFixed(2),
	}).Info("invoice generated")

	return &Result{Invoice: invoice, DocumentURL: docPath}, nil
}

func (w *Workflow) buildDocument(invoice *models.Invoice, customer *models.Customer, lines []Line) render.Document {
	rows := make([]render.Row, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, render.Row{
			Date:        line.Date,
			Description: line.Description,
			Minutes:     line.Minutes,
			Rate:        line.Rate,
			Amount:      line.Amount,
		})
	}
	projectName := ""
	if len(lines) > 0 {
		projectName = lines[0].ProjectName
	}
	return render.Document{
		InvoiceNumber: fmt.Sprintf("%s-%d", customer.ShortCode, invoice.ID),
		CustomerName:  customer.Name,
		PaymentTerms:  customer.PaymentTerms,
		ProjectName:   projectName,
		IssuedAt:      time.Now(),
		Issuer:        w.issuer,
		Rows:          rows,
		Total:         invoice.TotalAmount,
	}
}

// compensate unwinds the side effects of a failed run in reverse order:
// remove the written file, delete the invoice record, release the claim.
func (w *Workflow) compensate(ctx context.Context, run *models.InvoiceRun, step string, cause error, invoice *models.Invoice, fileName string, ids []uint) {
	w.logStep(step, cause)

	if fileName != "" {
		if err := w.docs.Remove(fileName); err != nil {
			w.logStep("removing invoice document", err)
		}
	}
	if invoice != nil {
		if err := w.invoices.Delete(ctx, invoice.ID); err != nil {
			w.logStep("deleting orphaned invoice", err)
		}
	}
	if err := w.entries.Release(ctx, ids); err != nil {
		w.logStep("releasing claimed time entries", err)
	}

	w.fail(ctx, run, step, cause, models.RunCompensated)
}

func (w *Workflow) step(ctx context.Context, run *models.InvoiceRun, step string) {
	run.Step = step
	if err := w.runs.Update(ctx, run); err != nil {
		w.log.WithField("run_id", run.RunID).Warnf("updating invoice run record: %v", err)
	}
}

func (w *Workflow) fail(ctx context.Context, run *models.InvoiceRun, step string, cause error, status models.RunStatus) {
	run.Step = step
	run.Status = status
	run.Error = cause.Error()
	if err := w.runs.Update(ctx, run); err != nil {
		w.log.WithField("run_id", run.RunID).Warnf("updating invoice run record: %v", err)
	}
}

func (w *Workflow) logStep(step string, err error) {
	w.log.WithFields(logrus.Fields{
		"module": "billing",
		"step":   step,
	}).Error(err.Error())
}

func entryIDs(entries []models.TimeEntry) []uint {
	ids := make([]uint, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.ID)
	}
	return ids
}
