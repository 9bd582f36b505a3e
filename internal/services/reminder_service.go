package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kmuchiri/nyumba-api/internal/models"
	"github.com/kmuchiri/nyumba-api/internal/repository"
	"github.com/kmuchiri/nyumba-api/pkg/logger"
)

// Skip reasons reported by a reminder scan
const (
	SkipSMSDisabled          = "sms_disabled"
	SkipNoPhone              = "no_phone"
	SkipNoBalanceDue         = "no_balance_due"
	SkipNotDueDay            = "not_due_day"
	SkipAlreadyNotifiedToday = "already_notified_today"
	SkipNotYetLate           = "not_yet_late"
	SkipRecentlyReminded     = "recently_reminded"
	SkipError                = "error"
)

// ScanSummary reports one reminder scan: how many reminders went out and why
// each skipped lease was skipped.
type ScanSummary struct {
	Dispatched int            `json:"dispatched"`
	Skipped    map[string]int `json:"skipped"`
}

func newScanSummary() *ScanSummary {
	return &ScanSummary{Skipped: make(map[string]int)}
}

func (s *ScanSummary) skip(reason string) {
	s.Skipped[reason]++
}

// ReminderService runs the scheduled rent-reminder scans. Upcoming reminders
// go out on each lease's due day; late reminders start the day after the due
// day and repeat on a configurable interval. Both scans are idempotent
// within a day: re-running never double-sends.
type ReminderService struct {
	leaseRepo       repository.LeaseRepository
	notificationLog repository.NotificationLogRepository
	reconciliation  *ReconciliationService
	dispatcher      *DispatcherService
	settings        SettingsProvider

	// now is injectable for deterministic scan tests
	now func() time.Time
}

// NewReminderService creates a reminder scanner
func NewReminderService(
	leaseRepo repository.LeaseRepository,
	notificationLog repository.NotificationLogRepository,
	reconciliation *ReconciliationService,
	dispatcher *DispatcherService,
	settings SettingsProvider,
) *ReminderService {
	return &ReminderService{
		leaseRepo:       leaseRepo,
		notificationLog: notificationLog,
		reconciliation:  reconciliation,
		dispatcher:      dispatcher,
		settings:        settings,
		now:             time.Now,
	}
}

// RunUpcomingReminders notifies tenants whose rent falls due today and whose
// account shows an outstanding balance.
func (s *ReminderService) RunUpcomingReminders(ctx context.Context) (*ScanSummary, error) {
	summary := newScanSummary()
	today := s.now()
	defaultDueDay := s.settings.GetInt(ctx, SettingDefaultRentDueDay, 5)

	leases, err := s.leaseRepo.FindCurrent(ctx)
	if err != nil {
		return nil, fmt.Errorf("load current leases: %w", err)
	}

	for i := range leases {
		lease := &leases[i]

		if today.Day() != lease.RentDueDay(defaultDueDay) {
			summary.skip(SkipNotDueDay)
			continue
		}

		s.remind(ctx, lease, models.ReferenceUpcomingReminder, TemplateRentUpcoming, summary, func(last time.Time) bool {
			return sameDay(last, today)
		})
	}

	logger.Info(fmt.Sprintf("[Reminders] upcoming scan: %d dispatched, %d skipped",
		summary.Dispatched, totalSkipped(summary)))
	return summary, nil
}

// RunLateReminders notifies tenants in arrears once their due day has passed,
// repeating at the configured interval until the balance clears.
func (s *ReminderService) RunLateReminders(ctx context.Context) (*ScanSummary, error) {
	summary := newScanSummary()
	today := s.now()
	defaultDueDay := s.settings.GetInt(ctx, SettingDefaultRentDueDay, 5)
	intervalDays := s.settings.GetInt(ctx, SettingLateReminderIntervalDays, 1)
	if intervalDays < 1 {
		intervalDays = 1
	}

	leases, err := s.leaseRepo.FindCurrent(ctx)
	if err != nil {
		return nil, fmt.Errorf("load current leases: %w", err)
	}

	for i := range leases {
		lease := &leases[i]

		if today.Day() <= lease.RentDueDay(defaultDueDay)+1 {
			summary.skip(SkipNotYetLate)
			continue
		}

		s.remind(ctx, lease, models.ReferenceLateReminder, TemplateRentLate, summary, func(last time.Time) bool {
			return today.Sub(last) < time.Duration(intervalDays)*24*time.Hour
		})
	}

	logger.Info(fmt.Sprintf("[Reminders] late scan: %d dispatched, %d skipped",
		summary.Dispatched, totalSkipped(summary)))
	return summary, nil
}

// remind reconciles the lease's tenant, checks eligibility, and dispatches
// one reminder. tooSoon decides whether a previous send is still fresh
// enough to suppress this one. Per-lease failures are counted and skipped so
// one bad row never aborts the scan.
func (s *ReminderService) remind(
	ctx context.Context,
	lease *models.Lease,
	reference string,
	templateKey string,
	summary *ScanSummary,
	tooSoon func(last time.Time) bool,
) {
	tenant := &lease.Tenant
	if tenant.ID == 0 {
		summary.skip(SkipError)
		return
	}

	if !s.settings.GetBool(ctx, SettingEnableSMSNotifications, true) {
		summary.skip(SkipSMSDisabled)
		return
	}
	if !tenant.SMSOptIn || !tenant.HasPhone() {
		summary.skip(SkipNoPhone)
		return
	}

	snapshot, err := s.reconciliation.Reconcile(ctx, tenant.ID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			logger.Error(fmt.Sprintf("[Reminders] reconcile tenant %d failed: %v", tenant.ID, err))
		}
		summary.skip(SkipError)
		return
	}
	if snapshot.Balance.Sign() >= 0 {
		summary.skip(SkipNoBalanceDue)
		return
	}

	last, err := s.notificationLog.LastSentAt(ctx, tenant.ID, reference)
	if err != nil {
		logger.Error(fmt.Sprintf("[Reminders] reminder history lookup for tenant %d failed: %v", tenant.ID, err))
		summary.skip(SkipError)
		return
	}
	if last != nil && tooSoon(*last) {
		if reference == models.ReferenceUpcomingReminder {
			summary.skip(SkipAlreadyNotifiedToday)
		} else {
			summary.skip(SkipRecentlyReminded)
		}
		return
	}

	template := s.settings.Template(ctx, templateKey)
	message := Compose(template, map[string]string{
		"name":    tenant.FullName,
		"amount":  lease.MonthlyRent.StringFixed(2),
		"balance": snapshot.Balance.Abs().StringFixed(2),
		"unit":    lease.Unit.Label,
	}, SMSMaxLength)

	results := s.dispatcher.Dispatch(ctx, tenant, message, reference)
	if succeeded(results) {
		summary.Dispatched++
	} else {
		summary.skip(SkipError)
	}
}

// succeeded reports whether at least one channel delivered
func succeeded(results map[string]error) bool {
	for _, err := range results {
		if err == nil {
			return true
		}
	}
	return false
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func totalSkipped(summary *ScanSummary) int {
	total := 0
	for _, n := range summary.Skipped {
		total += n
	}
	return total
}
