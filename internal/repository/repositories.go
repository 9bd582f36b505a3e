package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	Tenant          TenantRepository
	Lease           LeaseRepository
	Invoice         InvoiceRepository
	Payment         PaymentRepository
	Account         AccountRepository
	NotificationLog NotificationLogRepository
	Setting         SettingRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Tenant:          NewTenantRepository(db),
		Lease:           NewLeaseRepository(db),
		Invoice:         NewInvoiceRepository(db),
		Payment:         NewPaymentRepository(db),
		Account:         NewAccountRepository(db),
		NotificationLog: NewNotificationLogRepository(db),
		Setting:         NewSettingRepository(db),
	}
}

// ListQuery carries common pagination/sort/filter parameters
type ListQuery struct {
	Page    int
	PerPage int
	SortBy  string
	SortDir string
	Filters map[string]string
}

// NewListQuery creates a ListQuery with sane defaults
func NewListQuery() *ListQuery {
	return &ListQuery{
		Page:    1,
		PerPage: 20,
		Filters: make(map[string]string),
	}
}

// Offset returns the row offset for the current page
func (q *ListQuery) Offset() int {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PerPage < 1 {
		q.PerPage = 20
	}
	return (q.Page - 1) * q.PerPage
}

// IsDuplicate reports whether err is a unique-constraint violation. GORM's
// TranslateError covers the common case; the SQLSTATE check catches drivers
// that bypass translation.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "SQLSTATE 23505") ||
		strings.Contains(err.Error(), "duplicate key value")
}
