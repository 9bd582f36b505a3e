package services

import (
	"sort"
	"strings"

	"github.com/kmuchiri/nyumba-api/internal/models"
)

// SMSMaxLength is the body limit for a single outbound SMS. One GSM-7
// message is 160 characters; the gateway reserves 14 for its sender tag.
const SMSMaxLength = 146

// Compose renders a message template by substituting :placeholder tokens
// with values from subs, then truncating to maxLength. Substitution matches
// longest keys first so :balance is never clobbered by a :bal entry.
// Placeholders with no entry in subs are left intact. A maxLength of 0 means
// no truncation.
func Compose(template string, subs map[string]string, maxLength int) string {
	keys := make([]string, 0, len(subs))
	for k := range subs {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	message := template
	for _, key := range keys {
		message = strings.ReplaceAll(message, ":"+key, subs[key])
	}

	if maxLength > 0 {
		runes := []rune(message)
		if len(runes) > maxLength {
			// No room for the ellipsis under tiny bounds; hard-cut instead.
			if maxLength <= 3 {
				return string(runes[:maxLength])
			}
			message = string(runes[:maxLength-3]) + "..."
		}
	}
	return message
}

// ReceiptTemplateKey picks the thank-you template variant matching the
// tenant's post-payment account status: arrears gets the partial-payment
// wording, an exactly settled account gets the cleared wording, and a credit
// balance gets the plain thank-you.
func ReceiptTemplateKey(accountStatus string) string {
	switch accountStatus {
	case models.AccountStatusArrears:
		return TemplatePaymentPartial
	case models.AccountStatusCleared:
		return TemplatePaymentCleared
	default:
		return TemplatePaymentThankYou
	}
}
