package logger

import (
	"log/slog"
	"strings"
	"time"
)

// Attribute helpers use the empty Attr pattern for nil safety, so calls like
// log.Error("msg", logger.Error(err)) need no explicit nil checks.

// Error creates an attribute for a single error under the key "error".
// Returns an empty Attr for nil errors.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Component creates an attribute for component names.
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Event creates an attribute for event names.
func Event(name string) slog.Attr {
	return slog.String("event", name)
}

// Duration creates an attribute for a duration.
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// Elapsed calculates and logs the duration since the start time.
func Elapsed(start time.Time) slog.Attr {
	return slog.Duration("elapsed", time.Since(start))
}

// Count creates a generic counter attribute.
func Count(key string, n int) slog.Attr {
	return slog.Int(key, n)
}

// SessionID creates an attribute for USSD session identifiers.
func SessionID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("session_id", id)
}

// State creates an attribute for the session's dialog state.
func State(state string) slog.Attr {
	return slog.String("state", state)
}

// Phone creates an attribute for a subscriber MSISDN with the middle digits
// masked. Raw phone numbers must never reach log output.
func Phone(msisdn string) slog.Attr {
	if msisdn == "" {
		return slog.Attr{}
	}
	return slog.String("phone", maskMSISDN(msisdn))
}

// maskMSISDN keeps the first four and last two digits visible.
func maskMSISDN(msisdn string) string {
	if len(msisdn) <= 6 {
		return strings.Repeat("*", len(msisdn))
	}
	return msisdn[:4] + strings.Repeat("*", len(msisdn)-6) + msisdn[len(msisdn)-2:]
}
