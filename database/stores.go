package database

import (
	"context"

	"gorm.io/gorm"

	"timebill/billing"
	"timebill/models"
)

// TimeEntryStore is the GORM-backed billing.EntryStore.
type TimeEntryStore struct {
	db *gorm.DB
}

func NewTimeEntryStore(db *gorm.DB) *TimeEntryStore {
	return &TimeEntryStore{db: db}
}

func (s *TimeEntryStore) joined(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Preload("Customer").
		Preload("Project").
		Preload("Task").
		Preload("User")
}

func (s *TimeEntryStore) FindByIDs(ctx context.Context, ids []uint) ([]models.TimeEntry, error) {
	var entries []models.TimeEntry
	err := s.joined(ctx).Where("id IN ?", ids).Find(&entries).Error
	return entries, err
}

func (s *TimeEntryStore) FindByFilter(ctx context.Context, filter billing.EntryFilter) ([]models.TimeEntry, error) {
	query := s.joined(ctx)
	if filter.StartDate != nil {
		query = query.Where("date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("date <= ?", *filter.EndDate)
	}
	if filter.CustomerID > 0 {
		query = query.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.Invoiced != nil {
		query = query.Where("invoiced = ?", *filter.Invoiced)
	}

	var entries []models.TimeEntry
	err := query.Order("date asc").Find(&entries).Error
	return entries, err
}

// Claim flips invoiced false->true for exactly the given ids in one
// transaction. A shorter-than-expected row count means another run claimed
// some of the entries first; the transaction rolls back and the claim fails.
func (s *TimeEntryStore) Claim(ctx context.Context, ids []uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.TimeEntry{}).
			Where("id IN ? AND invoiced = ?", ids, false).
			Update("invoiced", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected != int64(len(ids)) {
			return billing.ErrClaimConflict
		}
		return nil
	})
}

func (s *TimeEntryStore) Release(ctx context.Context, ids []uint) error {
	return s.db.WithContext(ctx).Model(&models.TimeEntry{}).
		Where("id IN ?", ids).
		Update("invoiced", false).Error
}

// InvoiceStore is the GORM-backed billing.InvoiceStore; it also serves the
// read endpoints.
type InvoiceStore struct {
	db *gorm.DB
}

func NewInvoiceStore(db *gorm.DB) *InvoiceStore {
	return &InvoiceStore{db: db}
}

func (s *InvoiceStore) Create(ctx context.Context, invoice *models.Invoice, entryIDs []uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(invoice).Error; err != nil {
			return err
		}
		return tx.Model(&models.TimeEntry{}).
			Where("id IN ?", entryIDs).
			Update("invoice_id", invoice.ID).Error
	})
}

func (s *InvoiceStore) SetDocumentPath(ctx context.Context, id uint, path string) error {
	return s.db.WithContext(ctx).Model(&models.Invoice{}).
		Where("id = ?", id).
		Update("document_path", path).Error
}

func (s *InvoiceStore) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.TimeEntry{}).
			Where("invoice_id = ?", id).
			Update("invoice_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Invoice{}, id).Error
	})
}

func (s *InvoiceStore) List(ctx context.Context) ([]models.Invoice, error) {
	var invoices []models.Invoice
	err := s.db.WithContext(ctx).
		Preload("Customer").
		Order("created_at desc").
		Find(&invoices).Error
	return invoices, err
}

func (s *InvoiceStore) GetByID(ctx context.Context, id uint) (*models.Invoice, error) {
	var invoice models.Invoice
	err := s.db.WithContext(ctx).
		Preload("Customer").
		Preload("TimeEntries").
		First(&invoice, id).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// RunStore is the GORM-backed billing.RunStore.
type RunStore struct {
	db *gorm.DB
}

func NewRunStore(db *gorm.DB) *RunStore {
	return &RunStore{db: db}
}

func (s *RunStore) Create(ctx context.Context, run *models.InvoiceRun) error {
	return s.db.WithContext(ctx).Create(run).Error
}

func (s *RunStore) Update(ctx context.Context, run *models.InvoiceRun) error {
	return s.db.WithContext(ctx).Save(run).Error
}
