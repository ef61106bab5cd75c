package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudbroker/backend/internal/domain/invoicing"
	"github.com/cloudbroker/backend/internal/domain/shared"
	"github.com/cloudbroker/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInvoiceRepository implements invoicing.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GORM-based invoice repository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByID loads an invoice aggregate with all its items
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*invoicing.Invoice, error) {
	var model models.InvoiceModel
	err := r.db.WithContext(ctx).Preload("Items").First(&model, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find invoice: %w", err)
	}
	return model.ToDomain(), nil
}

// FindByPeriod loads the customer's invoice for one billing period
func (r *GormInvoiceRepository) FindByPeriod(ctx context.Context, customerID uuid.UUID, period invoicing.Period) (*invoicing.Invoice, error) {
	var model models.InvoiceModel
	err := r.db.WithContext(ctx).Preload("Items").
		Where("customer_id = ? AND year = ? AND month = ?", customerID, period.Year, period.Month).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find invoice by period: %w", err)
	}
	return model.ToDomain(), nil
}

// FindByCustomer lists all invoices of a customer, newest period first
func (r *GormInvoiceRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID) ([]*invoicing.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	err := r.db.WithContext(ctx).Preload("Items").
		Where("customer_id = ?", customerID).
		Order("year DESC, month DESC").
		Find(&invoiceModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}

	invoices := make([]*invoicing.Invoice, len(invoiceModels))
	for i := range invoiceModels {
		invoices[i] = invoiceModels[i].ToDomain()
	}
	return invoices, nil
}

// FindPendingBefore lists every pending invoice whose period precedes the given one
func (r *GormInvoiceRepository) FindPendingBefore(ctx context.Context, period invoicing.Period) ([]*invoicing.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	err := r.db.WithContext(ctx).Preload("Items").
		Where("state = ? AND (year < ? OR (year = ? AND month < ?))",
			invoicing.StatePending, period.Year, period.Year, period.Month).
		Order("year ASC, month ASC").
		Find(&invoiceModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pending invoices: %w", err)
	}

	invoices := make([]*invoicing.Invoice, len(invoiceModels))
	for i := range invoiceModels {
		invoices[i] = invoiceModels[i].ToDomain()
	}
	return invoices, nil
}

// GetOrCreate returns the customer's invoice for the period, creating a
// pending one if none exists. The unique index on (customer_id, year,
// month) guards against concurrent creators: when the insert hits the
// constraint the row was created by someone else, so we re-read it and
// report created=false.
func (r *GormInvoiceRepository) GetOrCreate(ctx context.Context, customerID uuid.UUID, period invoicing.Period, taxPercent decimal.Decimal) (*invoicing.Invoice, bool, error) {
	existing, err := r.FindByPeriod(ctx, customerID, period)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, false, err
	}

	invoice, err := invoicing.NewInvoice(customerID, period, taxPercent)
	if err != nil {
		return nil, false, err
	}

	var model models.InvoiceModel
	model.FromDomain(invoice)
	err = r.db.WithContext(ctx).Omit("Items").Create(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
			winner, findErr := r.FindByPeriod(ctx, customerID, period)
			if findErr != nil {
				return nil, false, findErr
			}
			return winner, false, nil
		}
		return nil, false, fmt.Errorf("failed to create invoice: %w", err)
	}

	invoice.Sequence = model.Sequence
	return invoice, true, nil
}

// Save persists the aggregate and its items atomically. Domain entities
// carry their IDs from birth, so both the invoice row and the item rows
// are written as upserts.
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *invoicing.Invoice) error {
	var model models.InvoiceModel
	model.FromDomain(invoice)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		upsert := clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, UpdateAll: true}
		if err := tx.Omit("Items").Clauses(upsert).Create(&model).Error; err != nil {
			return fmt.Errorf("failed to save invoice: %w", err)
		}
		for i := range model.Items {
			model.Items[i].InvoiceID = model.ID
			if err := tx.Clauses(upsert).Create(&model.Items[i]).Error; err != nil {
				return fmt.Errorf("failed to save invoice item: %w", err)
			}
		}
		return nil
	})
}

// isUniqueViolation matches drivers that do not translate constraint
// errors into gorm.ErrDuplicatedKey
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
