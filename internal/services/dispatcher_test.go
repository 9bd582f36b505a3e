package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kmuchiri/nyumba-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dispatcherFixture() (*DispatcherService, *stubChannel, *stubChannel, *mockNotificationLogRepo, *fakeSettings) {
	settings := newFakeSettings()
	logRepo := &mockNotificationLogRepo{}
	email := &stubChannel{name: models.ChannelEmail}
	smsChan := &stubChannel{name: models.ChannelSMS}
	d := NewDispatcherService(settings, logRepo, email, smsChan, time.Second)
	return d, email, smsChan, logRepo, settings
}

func optedInTenant() *models.Tenant {
	return &models.Tenant{
		ID:         1,
		FullName:   "Wanjiku Kamau",
		Phone:      "+254700111222",
		Email:      "wanjiku@example.com",
		SMSOptIn:   true,
		EmailOptIn: true,
	}
}

func TestDispatch_SendsOnAllEnabledChannels(t *testing.T) {
	d, email, smsChan, logRepo, _ := dispatcherFixture()

	results := d.Dispatch(context.Background(), optedInTenant(), "hello", "ref-1")

	require.Len(t, results, 2)
	assert.NoError(t, results[models.ChannelSMS])
	assert.NoError(t, results[models.ChannelEmail])
	assert.Equal(t, []string{"hello"}, email.messages())
	assert.Equal(t, []string{"hello"}, smsChan.messages())

	entries := logRepo.entries()
	require.Len(t, entries, 2)
	for _, entry := range entries {
		assert.Equal(t, models.DeliveryStatusSent, entry.Status)
		require.NotNil(t, entry.Reference)
		assert.Equal(t, "ref-1", *entry.Reference)
	}
}

func TestDispatch_ChannelFailureIsIndependent(t *testing.T) {
	d, email, smsChan, logRepo, _ := dispatcherFixture()
	smsChan.err = errors.New("gateway timeout")

	results := d.Dispatch(context.Background(), optedInTenant(), "hello", "")

	assert.Error(t, results[models.ChannelSMS])
	assert.NoError(t, results[models.ChannelEmail])
	assert.Equal(t, []string{"hello"}, email.messages())

	statuses := map[string]string{}
	for _, entry := range logRepo.entries() {
		statuses[entry.Channel] = entry.Status
	}
	assert.Equal(t, models.DeliveryStatusFailed, statuses[models.ChannelSMS])
	assert.Equal(t, models.DeliveryStatusSent, statuses[models.ChannelEmail])
}

func TestDispatch_RespectsOptOut(t *testing.T) {
	d, email, smsChan, _, _ := dispatcherFixture()

	tenant := optedInTenant()
	tenant.SMSOptIn = false

	results := d.Dispatch(context.Background(), tenant, "hello", "")

	assert.NotContains(t, results, models.ChannelSMS)
	assert.Contains(t, results, models.ChannelEmail)
	assert.Empty(t, smsChan.messages())
	assert.Len(t, email.messages(), 1)
}

func TestDispatch_RespectsGlobalSettings(t *testing.T) {
	d, email, smsChan, _, settings := dispatcherFixture()
	settings.values[SettingEnableSMSNotifications] = "false"
	settings.values[SettingEnableEmailNotifications] = "false"

	results := d.Dispatch(context.Background(), optedInTenant(), "hello", "")

	assert.Empty(t, results)
	assert.Empty(t, email.messages())
	assert.Empty(t, smsChan.messages())
}

func TestDispatch_SkipsMissingContactDetails(t *testing.T) {
	d, email, smsChan, logRepo, _ := dispatcherFixture()

	tenant := optedInTenant()
	tenant.Phone = ""
	tenant.Email = ""

	results := d.Dispatch(context.Background(), tenant, "hello", "")

	assert.Empty(t, results)
	assert.Empty(t, email.messages())
	assert.Empty(t, smsChan.messages())
	assert.Empty(t, logRepo.entries())
}
