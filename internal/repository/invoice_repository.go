package repository

import (
	"context"

	"github.com/kmuchiri/nyumba-api/internal/models"
	"github.com/shopspring/decimal"

	"gorm.io/gorm"
)

// InvoiceRepository defines the interface for invoice data access
type InvoiceRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Invoice, error)
	FindByLeaseIDs(ctx context.Context, leaseIDs []uint) ([]models.Invoice, error)
	Create(ctx context.Context, invoice *models.Invoice) error
	UpdateStatus(ctx context.Context, id uint, status string) error
	SumAmountByLeaseIDs(ctx context.Context, leaseIDs []uint) (decimal.Decimal, error)
}

type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

func (r *invoiceRepository) FindByID(ctx context.Context, id uint) (*models.Invoice, error) {
	var invoice models.Invoice
	err := r.db.WithContext(ctx).First(&invoice, id).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *invoiceRepository) FindByLeaseIDs(ctx context.Context, leaseIDs []uint) ([]models.Invoice, error) {
	if len(leaseIDs) == 0 {
		return nil, nil
	}
	var invoices []models.Invoice
	err := r.db.WithContext(ctx).
		Where("lease_id IN ?", leaseIDs).
		Order("due_date ASC, id ASC").
		Find(&invoices).Error
	return invoices, err
}

func (r *invoiceRepository) Create(ctx context.Context, invoice *models.Invoice) error {
	return r.db.WithContext(ctx).Create(invoice).Error
}

// UpdateStatus writes the cached status projection for one invoice. Only the
// reconciliation engine calls this; the status column is never authoritative.
func (r *invoiceRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	return r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// SumAmountByLeaseIDs returns the total invoiced amount across the given
// leases as a single SQL aggregate.
func (r *invoiceRepository) SumAmountByLeaseIDs(ctx context.Context, leaseIDs []uint) (decimal.Decimal, error) {
	if len(leaseIDs) == 0 {
		return decimal.Zero, nil
	}

	var result struct {
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Where("lease_id IN ?", leaseIDs).
		Scan(&result).Error
	return result.Total, err
}
