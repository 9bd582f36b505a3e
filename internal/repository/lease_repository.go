package repository

import (
	"context"

	"github.com/kmuchiri/nyumba-api/internal/models"

	"gorm.io/gorm"
)

// LeaseRepository defines the interface for lease data access
type LeaseRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Lease, error)
	FindByTenant(ctx context.Context, tenantID uint) ([]models.Lease, error)
	FindActiveByTenant(ctx context.Context, tenantID uint) (*models.Lease, error)
	FindActiveByUnit(ctx context.Context, unitID uint) (*models.Lease, error)
	FindCurrent(ctx context.Context) ([]models.Lease, error)
	Create(ctx context.Context, lease *models.Lease) error
	Update(ctx context.Context, lease *models.Lease) error
	List(ctx context.Context, query *ListQuery) ([]models.Lease, int64, error)
}

type leaseRepository struct {
	db *gorm.DB
}

// NewLeaseRepository creates a new lease repository
func NewLeaseRepository(db *gorm.DB) LeaseRepository {
	return &leaseRepository{db: db}
}

func (r *leaseRepository) FindByID(ctx context.Context, id uint) (*models.Lease, error) {
	var lease models.Lease
	err := r.db.WithContext(ctx).
		Preload("Tenant").
		Preload("Unit").
		First(&lease, id).Error
	if err != nil {
		return nil, err
	}
	return &lease, nil
}

func (r *leaseRepository) FindByTenant(ctx context.Context, tenantID uint) ([]models.Lease, error) {
	var leases []models.Lease
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("start_date ASC").
		Find(&leases).Error
	return leases, err
}

func (r *leaseRepository) FindActiveByTenant(ctx context.Context, tenantID uint) (*models.Lease, error) {
	var lease models.Lease
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND status IN ?", tenantID,
			[]string{models.LeaseStatusActive, models.LeaseStatusOverdue}).
		Order("start_date DESC").
		First(&lease).Error
	if err != nil {
		return nil, err
	}
	return &lease, nil
}

func (r *leaseRepository) FindActiveByUnit(ctx context.Context, unitID uint) (*models.Lease, error) {
	var lease models.Lease
	err := r.db.WithContext(ctx).
		Where("unit_id = ? AND status IN ?", unitID,
			[]string{models.LeaseStatusActive, models.LeaseStatusOverdue}).
		First(&lease).Error
	if err != nil {
		return nil, err
	}
	return &lease, nil
}

// FindCurrent returns all leases that still carry rent obligations, with the
// tenant preloaded. The reminder scanner iterates this set each tick.
func (r *leaseRepository) FindCurrent(ctx context.Context) ([]models.Lease, error) {
	var leases []models.Lease
	err := r.db.WithContext(ctx).
		Where("status IN ?", []string{models.LeaseStatusActive, models.LeaseStatusOverdue}).
		Preload("Tenant").
		Preload("Unit").
		Order("id ASC").
		Find(&leases).Error
	return leases, err
}

func (r *leaseRepository) Create(ctx context.Context, lease *models.Lease) error {
	return r.db.WithContext(ctx).Create(lease).Error
}

func (r *leaseRepository) Update(ctx context.Context, lease *models.Lease) error {
	return r.db.WithContext(ctx).Save(lease).Error
}

func (r *leaseRepository) List(ctx context.Context, query *ListQuery) ([]models.Lease, int64, error) {
	var leases []models.Lease
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Lease{})

	if status := query.Filters["status"]; status != "" {
		db = db.Where("leases.status = ?", status)
	}
	if search := query.Filters["search_term"]; search != "" {
		term := "%" + search + "%"
		db = db.Joins("JOIN tenants ON tenants.id = leases.tenant_id").
			Joins("JOIN units ON units.id = leases.unit_id").
			Where("tenants.full_name ILIKE ? OR tenants.phone ILIKE ? OR units.label ILIKE ?", term, term, term)
	}

	countDb := db.Session(&gorm.Session{})
	if err := countDb.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Preload("Tenant").
		Preload("Unit").
		Order("leases.start_date DESC").
		Offset(query.Offset()).
		Limit(query.PerPage).
		Find(&leases).Error
	return leases, total, err
}
