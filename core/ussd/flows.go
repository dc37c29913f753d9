package ussd

import (
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/kawacukennedy/AgriCredit-Africa-sub000/core/i18n"
)

// Form-data keys collected by the flows. Write-once per flow instance.
const (
	keyLoanType       = "loan_type"
	keyLoanAmount     = "loan_amount"
	keyPaymentMethod  = "payment_method"
	keyPaymentAmount  = "payment_amount"
	keyDeviceType     = "device_type"
	keyDeviceLocation = "device_location"
	keyDeviceSerial   = "device_serial"

	// keyIdempotency is minted when a confirmation step is first rendered
	// and passed to the collaborator so a retried confirm cannot execute a
	// financial call twice.
	keyIdempotency = "idempotency_key"
)

// Confirmation inputs shared by every confirm step.
const (
	inputConfirm = "1"
	inputCancel  = "2"
)

var errAmountOutOfRange = errors.New("amount out of range")

// parseAmount parses a free-form amount and checks it against an inclusive
// range. Parse failures and out-of-range values are indistinguishable to the
// caller; both terminate the flow with an explanatory message.
func parseAmount(input string, min, max int64) (int64, error) {
	amount, err := strconv.ParseInt(strings.TrimSpace(input), 10, 64)
	if err != nil {
		return 0, err
	}
	if amount < min || amount > max {
		return 0, errAmountOutOfRange
	}
	return amount, nil
}

// amountBounds renders the placeholder map for range error messages.
func amountBounds(min, max int64) i18n.M {
	return i18n.M{"min": min, "max": max}
}

// mintIdempotencyKey stores a fresh idempotency key unless one already
// exists for this flow instance (write-once, so a replayed render keeps the
// original key).
func mintIdempotencyKey(sess *Session) {
	sess.Set(keyIdempotency, uuid.NewString())
}

// freeText validates a free-form answer: non-empty after trimming and short
// enough for downstream systems.
func freeText(input string) (string, bool) {
	text := strings.TrimSpace(input)
	if text == "" || len(text) > 60 {
		return "", false
	}
	return text, true
}
