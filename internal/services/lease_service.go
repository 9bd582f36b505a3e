package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kmuchiri/nyumba-api/internal/models"
	"github.com/kmuchiri/nyumba-api/internal/repository"
	"github.com/kmuchiri/nyumba-api/internal/statemachine"
	"github.com/kmuchiri/nyumba-api/pkg/logger"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LeaseService manages lease lifecycle transitions through the lease state
// machine
type LeaseService struct {
	leaseRepo repository.LeaseRepository
}

// NewLeaseService creates a lease service
func NewLeaseService(leaseRepo repository.LeaseRepository) *LeaseService {
	return &LeaseService{leaseRepo: leaseRepo}
}

// CreateLeaseInput is the payload for opening a new lease
type CreateLeaseInput struct {
	TenantID    uint            `json:"tenant_id" binding:"required"`
	UnitID      uint            `json:"unit_id" binding:"required"`
	StartDate   time.Time       `json:"start_date" binding:"required"`
	EndDate     *time.Time      `json:"end_date"`
	MonthlyRent decimal.Decimal `json:"monthly_rent" binding:"required"`
	Deposit     decimal.Decimal `json:"deposit"`
	DueDay      int             `json:"due_day"`
}

// Create opens a new lease in pending state
func (s *LeaseService) Create(ctx context.Context, input *CreateLeaseInput) (*models.Lease, error) {
	if input.DueDay < 0 || input.DueDay > 28 {
		return nil, fmt.Errorf("%w: due_day must be between 1 and 28", ErrMalformedEvent)
	}

	lease := &models.Lease{
		TenantID:    input.TenantID,
		UnitID:      input.UnitID,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		MonthlyRent: input.MonthlyRent,
		Deposit:     input.Deposit,
		DueDay:      input.DueDay,
		Status:      models.LeaseStatusPending,
	}
	if err := s.leaseRepo.Create(ctx, lease); err != nil {
		return nil, fmt.Errorf("create lease: %w", err)
	}
	return lease, nil
}

// Activate transitions a pending lease to active, enforcing one current
// lease per unit.
func (s *LeaseService) Activate(ctx context.Context, leaseID uint) (*models.Lease, error) {
	lease, err := s.findLease(ctx, leaseID)
	if err != nil {
		return nil, err
	}

	existing, err := s.leaseRepo.FindActiveByUnit(ctx, lease.UnitID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check unit occupancy: %w", err)
	}
	if existing != nil && existing.ID != lease.ID {
		return nil, fmt.Errorf("%w: unit %d already has lease %d", ErrDuplicate, lease.UnitID, existing.ID)
	}

	lfsm := statemachine.NewLeaseFSM(lease)
	if err := lfsm.Activate(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	if err := s.leaseRepo.Update(ctx, lease); err != nil {
		return nil, fmt.Errorf("save lease: %w", err)
	}
	logger.Info(fmt.Sprintf("[Lease] lease %d activated for tenant %d", lease.ID, lease.TenantID))
	return lease, nil
}

// MarkOverdue flags an active lease whose account is in arrears
func (s *LeaseService) MarkOverdue(ctx context.Context, leaseID uint) (*models.Lease, error) {
	return s.transition(ctx, leaseID, func(lfsm *statemachine.LeaseFSM) error {
		return lfsm.MarkOverdue(ctx)
	})
}

// CatchUp returns an overdue lease to active once the arrears clear
func (s *LeaseService) CatchUp(ctx context.Context, leaseID uint) (*models.Lease, error) {
	return s.transition(ctx, leaseID, func(lfsm *statemachine.LeaseFSM) error {
		return lfsm.CatchUp(ctx)
	})
}

// Terminate closes out a lease. Terminated leases keep their invoice and
// payment history; they just stop accruing obligations and reminders.
func (s *LeaseService) Terminate(ctx context.Context, leaseID uint) (*models.Lease, error) {
	lease, err := s.transition(ctx, leaseID, func(lfsm *statemachine.LeaseFSM) error {
		return lfsm.Terminate(ctx)
	})
	if err != nil {
		return nil, err
	}
	if lease.EndDate == nil {
		now := time.Now()
		lease.EndDate = &now
		if err := s.leaseRepo.Update(ctx, lease); err != nil {
			return nil, fmt.Errorf("save lease end date: %w", err)
		}
	}
	return lease, nil
}

func (s *LeaseService) transition(ctx context.Context, leaseID uint, apply func(*statemachine.LeaseFSM) error) (*models.Lease, error) {
	lease, err := s.findLease(ctx, leaseID)
	if err != nil {
		return nil, err
	}

	lfsm := statemachine.NewLeaseFSM(lease)
	if err := apply(lfsm); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidState, err)
	}

	if err := s.leaseRepo.Update(ctx, lease); err != nil {
		return nil, fmt.Errorf("save lease: %w", err)
	}
	return lease, nil
}

func (s *LeaseService) findLease(ctx context.Context, leaseID uint) (*models.Lease, error) {
	lease, err := s.leaseRepo.FindByID(ctx, leaseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load lease: %w", err)
	}
	return lease, nil
}
