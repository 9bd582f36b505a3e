package services

import "errors"

// Sentinel errors returned by the service layer. Handlers map these to HTTP
// status codes; callers test with errors.Is.
var (
	// ErrNotFound indicates the requested entity does not exist
	ErrNotFound = errors.New("record not found")

	// ErrMalformedEvent indicates a payment event missing required fields
	ErrMalformedEvent = errors.New("malformed payment event")

	// ErrTenantNotFound indicates no tenant matched the payer phone number
	ErrTenantNotFound = errors.New("no tenant matches payer phone")

	// ErrNoActiveLease indicates the tenant has no lease that can accept
	// payments
	ErrNoActiveLease = errors.New("tenant has no active lease")

	// ErrInvalidState indicates a lifecycle transition the lease's current
	// state doesn't allow
	ErrInvalidState = errors.New("invalid lease state for transition")

	// ErrDuplicate indicates a uniqueness conflict (e.g. unit already leased)
	ErrDuplicate = errors.New("duplicate record")
)
