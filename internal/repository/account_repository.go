package repository

import (
	"context"

	"github.com/kmuchiri/nyumba-api/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AccountRepository defines the interface for account projection access
type AccountRepository interface {
	FindByTenant(ctx context.Context, tenantID uint) (*models.Account, error)
	Upsert(ctx context.Context, account *models.Account) error
	ListByStatus(ctx context.Context, status string) ([]models.Account, error)
}

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new account repository
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) FindByTenant(ctx context.Context, tenantID uint) (*models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// Upsert overwrites the account row for a tenant in one atomic statement.
// The row is always replaced wholesale; nothing ever patches individual
// columns, which keeps replayed or concurrent reconciliations convergent.
func (r *accountRepository) Upsert(ctx context.Context, account *models.Account) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "tenant_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"total_invoiced", "total_paid", "balance", "status", "reconciled_at", "updated_at",
			}),
		}).
		Create(account).Error
}

// ListByStatus returns all accounts with the given status, tenant preloaded,
// worst balance first. Feeds the arrears report.
func (r *accountRepository) ListByStatus(ctx context.Context, status string) ([]models.Account, error) {
	var accounts []models.Account
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Preload("Tenant").
		Order("balance ASC").
		Find(&accounts).Error
	return accounts, err
}
