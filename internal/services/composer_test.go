package services

import (
	"strings"
	"testing"

	"github.com/kmuchiri/nyumba-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestCompose_SubstitutesPlaceholders(t *testing.T) {
	out := Compose("Dear :name, we received KES :amount.", map[string]string{
		"name":   "Wanjiku",
		"amount": "12000.00",
	}, 0)

	assert.Equal(t, "Dear Wanjiku, we received KES 12000.00.", out)
}

func TestCompose_LongestKeyFirst(t *testing.T) {
	// :balance must not be clobbered by the shorter :bal key
	out := Compose(":bal and :balance", map[string]string{
		"bal":     "X",
		"balance": "Y",
	}, 0)

	assert.Equal(t, "X and Y", out)
}

func TestCompose_MissingPlaceholderLeftIntact(t *testing.T) {
	out := Compose("Dear :name, balance :balance", map[string]string{
		"name": "Otieno",
	}, 0)

	assert.Equal(t, "Dear Otieno, balance :balance", out)
}

func TestCompose_TruncatesToMaxLength(t *testing.T) {
	long := strings.Repeat("a", 300)
	out := Compose(long, nil, SMSMaxLength)

	assert.Len(t, []rune(out), SMSMaxLength)
	assert.True(t, strings.HasSuffix(out, "..."))
}

func TestCompose_ShortMessageNotTruncated(t *testing.T) {
	out := Compose("short message", nil, SMSMaxLength)
	assert.Equal(t, "short message", out)
}

func TestCompose_ExactLimitNotTruncated(t *testing.T) {
	exact := strings.Repeat("b", SMSMaxLength)
	out := Compose(exact, nil, SMSMaxLength)
	assert.Equal(t, exact, out)
}

func TestCompose_TinyLimitTruncatesWithoutEllipsis(t *testing.T) {
	assert.Equal(t, "h", Compose("hello world", nil, 1))
	assert.Equal(t, "he", Compose("hello world", nil, 2))
	assert.Equal(t, "hel", Compose("hello world", nil, 3))
}

func TestCompose_MultiByteRunesCountAsOne(t *testing.T) {
	long := strings.Repeat("ü", 200)
	out := Compose(long, nil, SMSMaxLength)

	assert.Len(t, []rune(out), SMSMaxLength)
	assert.True(t, strings.HasSuffix(out, "..."))
}

func TestCompose_RepeatedPlaceholder(t *testing.T) {
	out := Compose(":name :name", map[string]string{"name": "A"}, 0)
	assert.Equal(t, "A A", out)
}

func TestReceiptTemplateKey(t *testing.T) {
	assert.Equal(t, TemplatePaymentPartial, ReceiptTemplateKey(models.AccountStatusArrears))
	assert.Equal(t, TemplatePaymentCleared, ReceiptTemplateKey(models.AccountStatusCleared))
	assert.Equal(t, TemplatePaymentThankYou, ReceiptTemplateKey(models.AccountStatusCredit))
	assert.Equal(t, TemplatePaymentThankYou, ReceiptTemplateKey("unknown"))
}
