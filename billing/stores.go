package billing

import (
	"context"
	"time"

	"timebill/models"
	"timebill/render"
)

// EntryFilter selects time entries by date range, customer and invoiced
// state. Nil fields are ignored.
type EntryFilter struct {
	StartDate  *time.Time
	EndDate    *time.Time
	CustomerID uint
	Invoiced   *bool
}

// EntryStore is the record-store surface the billing workflow needs for
// time entries. FindByIDs and FindByFilter return entries fully joined with
// customer, project, task and user.
type EntryStore interface {
	FindByIDs(ctx context.Context, ids []uint) ([]models.TimeEntry, error)
	FindByFilter(ctx context.Context, filter EntryFilter) ([]models.TimeEntry, error)

	// Claim atomically flips invoiced false->true for exactly the given
	// ids. If any entry was already invoiced the whole claim rolls back
	// and ErrClaimConflict is returned.
	Claim(ctx context.Context, ids []uint) error

	// Release undoes a claim made by this run.
	Release(ctx context.Context, ids []uint) error
}

type InvoiceStore interface {
	// Create persists the invoice and links the given entries to it.
	Create(ctx context.Context, invoice *models.Invoice, entryIDs []uint) error
	SetDocumentPath(ctx context.Context, id uint, path string) error
	// Delete removes the invoice and unlinks its entries.
	Delete(ctx context.Context, id uint) error
}

type RunStore interface {
	Create(ctx context.Context, run *models.InvoiceRun) error
	Update(ctx context.Context, run *models.InvoiceRun) error
}

// DocumentStore persists generated document bytes under a name scoped to
// the invoices directory.
type DocumentStore interface {
	Write(name string, data []byte) error
	Remove(name string) error
}

// RenderFunc turns an invoice document into its byte representation.
type RenderFunc func(doc render.Document) ([]byte, error)
