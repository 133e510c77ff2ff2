package billing

import (
	"context"

	"timebill/models"
)

// Request is the transport-independent input of an invoice run: either an
// explicit id list or a select-all with filters, never both.
type Request struct {
	TimeEntryIDs []uint
	SelectAll    bool
	Filter       EntryFilter
}

// Selector resolves a Request into a concrete entry set and enforces the
// single-customer invariant.
type Selector struct {
	entries EntryStore
}

func NewSelector(entries EntryStore) *Selector {
	return &Selector{entries: entries}
}

func (s *Selector) Resolve(ctx context.Context, req Request) ([]models.TimeEntry, *models.Customer, error) {
	hasIDs := len(req.TimeEntryIDs) > 0
	if !hasIDs && !req.SelectAll {
		return nil, nil, &ValidationError{Reason: "no time entries specified"}
	}
	if hasIDs && req.SelectAll {
		return nil, nil, &ValidationError{Reason: "time entry ids and select-all are mutually exclusive"}
	}

	var (
		entries []models.TimeEntry
		err     error
	)
	if hasIDs {
		entries, err = s.entries.FindByIDs(ctx, req.TimeEntryIDs)
	} else {
		entries, err = s.entries.FindByFilter(ctx, req.Filter)
	}
	if err != nil {
		return nil, nil, &PersistenceError{Step: "fetching time entries", Err: err}
	}
	if len(entries) == 0 {
		return nil, nil, &ValidationError{Reason: "no time entries found"}
	}

	customers := make(map[uint]struct{}, 1)
	for _, entry := range entries {
		customers[entry.CustomerID] = struct{}{}
	}
	if len(customers) > 1 {
		return nil, nil, &ValidationError{Reason: "time entries span multiple customers"}
	}

	customer := entries[0].Customer
	return entries, &customer, nil
}
