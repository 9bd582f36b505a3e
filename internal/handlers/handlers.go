package handlers

import (
	"github.com/kmuchiri/nyumba-api/internal/config"
	"github.com/kmuchiri/nyumba-api/internal/jobs"
	"github.com/kmuchiri/nyumba-api/internal/repository"
	"github.com/kmuchiri/nyumba-api/internal/services"
)

// Handlers holds all handler instances
type Handlers struct {
	Health       *HealthHandler
	Webhook      *WebhookHandler
	Tenant       *TenantHandler
	Lease        *LeaseHandler
	Payment      *PaymentHandler
	Account      *AccountHandler
	Notification *NotificationHandler
	Report       *ReportHandler
	Job          *JobHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services, repos *repository.Repositories, cfg *config.Config, worker *jobs.Worker) *Handlers {
	return &Handlers{
		Health:       NewHealthHandler(),
		Webhook:      NewWebhookHandler(svcs.Ingestion, cfg.WebhookSecret),
		Tenant:       NewTenantHandler(repos.Tenant),
		Lease:        NewLeaseHandler(svcs.Lease, repos.Lease),
		Payment:      NewPaymentHandler(svcs.Ingestion, repos.Payment),
		Account:      NewAccountHandler(svcs.Reconciliation),
		Notification: NewNotificationHandler(repos.NotificationLog),
		Report:       NewReportHandler(svcs.Export),
		Job:          NewJobHandler(svcs.Reminder, worker),
	}
}
