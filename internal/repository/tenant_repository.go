package repository

import (
	"context"

	"github.com/kmuchiri/nyumba-api/internal/models"

	"gorm.io/gorm"
)

// TenantRepository defines the interface for tenant data access
type TenantRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Tenant, error)
	FindByPhone(ctx context.Context, phone string) (*models.Tenant, error)
	Create(ctx context.Context, tenant *models.Tenant) error
	Update(ctx context.Context, tenant *models.Tenant) error
	List(ctx context.Context, query *ListQuery) ([]models.Tenant, int64, error)
}

type tenantRepository struct {
	db *gorm.DB
}

// NewTenantRepository creates a new tenant repository
func NewTenantRepository(db *gorm.DB) TenantRepository {
	return &tenantRepository{db: db}
}

func (r *tenantRepository) FindByID(ctx context.Context, id uint) (*models.Tenant, error) {
	var tenant models.Tenant
	err := r.db.WithContext(ctx).First(&tenant, id).Error
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

// FindByPhone looks up a tenant by normalized phone number. Callers are
// expected to normalize with models.NormalizePhone before calling.
func (r *tenantRepository) FindByPhone(ctx context.Context, phone string) (*models.Tenant, error) {
	var tenant models.Tenant
	err := r.db.WithContext(ctx).
		Where("phone = ?", phone).
		First(&tenant).Error
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (r *tenantRepository) Create(ctx context.Context, tenant *models.Tenant) error {
	tenant.Phone = models.NormalizePhone(tenant.Phone)
	return r.db.WithContext(ctx).Create(tenant).Error
}

func (r *tenantRepository) Update(ctx context.Context, tenant *models.Tenant) error {
	tenant.Phone = models.NormalizePhone(tenant.Phone)
	return r.db.WithContext(ctx).Save(tenant).Error
}

func (r *tenantRepository) List(ctx context.Context, query *ListQuery) ([]models.Tenant, int64, error) {
	var tenants []models.Tenant
	var total int64

	db := r.db.WithContext(ctx).Model(&models.Tenant{})

	if search := query.Filters["search_term"]; search != "" {
		term := "%" + search + "%"
		db = db.Where("full_name ILIKE ? OR phone ILIKE ? OR email ILIKE ?", term, term, term)
	}
	if active := query.Filters["active"]; active != "" {
		db = db.Where("active = ?", active == "true")
	}

	countDb := db.Session(&gorm.Session{})
	if err := countDb.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := db.Order("full_name ASC").
		Offset(query.Offset()).
		Limit(query.PerPage).
		Find(&tenants).Error
	return tenants, total, err
}
