package repository

import (
	"context"

	"github.com/kmuchiri/nyumba-api/internal/models"
	"github.com/shopspring/decimal"

	"gorm.io/gorm"
)

// PaymentRepository defines the interface for payment data access. Payments
// are immutable: there is deliberately no Update or Delete.
type PaymentRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Payment, error)
	FindByTransactionRef(ctx context.Context, ref string) (*models.Payment, error)
	FindByLeaseIDs(ctx context.Context, leaseIDs []uint) ([]models.Payment, error)
	Create(ctx context.Context, payment *models.Payment) error
	SumAmountByLeaseIDs(ctx context.Context, leaseIDs []uint) (decimal.Decimal, error)
	List(ctx context.Context, query *ListQuery) ([]models.Payment, int64, error)
}

type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) FindByID(ctx context.Context, id uint) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Preload("Lease.Tenant").
		Preload("Lease.Unit.Property").
		First(&payment, id).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// FindByTransactionRef resolves an external transaction reference to the
// payment that recorded it. Returns gorm.ErrRecordNotFound when unseen.
func (r *paymentRepository) FindByTransactionRef(ctx context.Context, ref string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).
		Where("transaction_ref = ?", ref).
		First(&payment).Error
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) FindByLeaseIDs(ctx context.Context, leaseIDs []uint) ([]models.Payment, error) {
	if len(leaseIDs) == 0 {
		return nil, nil
	}
	var payments []models.Payment
	err := r.db.WithContext(ctx).
		Where("lease_id IN ?", leaseIDs).
		Order("payment_date ASC, id ASC").
		Find(&payments).Error
	return payments, err
}

// Create inserts a payment row. The unique index on transaction_ref is the
// concurrency-control primitive for deduplication: two concurrent deliveries
// of the same external event race here and exactly one wins.
func (r *paymentRepository) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

// SumAmountByLeaseIDs returns the total paid amount across the given leases
// as a single SQL aggregate.
func (r *paymentRepository) SumAmountByLeaseIDs(ctx context.Context, leaseIDs []uint) (decimal.Decimal, error) {
	if len(leaseIDs) == 0 {
		return decimal.Zero, nil
	}

	var result struct {
		Total decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Where("lease_id IN ?", leaseIDs).
		Scan(&result).Error
	return result.Total, err
}

func (r *paymentRepository) List(ctx context.Context, query *ListQuery) ([]models.Payment, int64, error) {
	var payments []models.Payment
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Payment{})

	if method := query.Filters["method"]; method != "" {
		db = db.Where("payments.method = ?", method)
	}
	if val := query.Filters["start_date"]; val != "" {
		db = db.Where("payments.payment_date >= ?", val)
	}
	if val := query.Filters["end_date"]; val != "" {
		endDate := val
		if len(endDate) == 10 {
			endDate += " 23:59:59"
		}
		db = db.Where("payments.payment_date <= ?", endDate)
	}
	if search := query.Filters["search_term"]; search != "" {
		term := "%" + search + "%"
		db = db.Joins("JOIN leases ON leases.id = payments.lease_id").
			Joins("JOIN tenants ON tenants.id = leases.tenant_id").
			Where("tenants.full_name ILIKE ? OR tenants.phone ILIKE ? OR COALESCE(payments.transaction_ref, '') ILIKE ?",
				term, term, term)
	}

	countDb := db.Session(&gorm.Session{})
	if err := countDb.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("Lease.Tenant").
		Preload("Lease.Unit").
		Order("payments.payment_date DESC, payments.id DESC").
		Offset(query.Offset()).
		Limit(query.PerPage).
		Find(&payments).Error
	return payments, total, err
}
