package ussd

import "time"

// Config holds engine configuration with environment variable support.
type Config struct {
	// SessionTimeout is the idle timeout after which a session is logically
	// dead. USSD gateways hold dialogs open for a couple of minutes at most.
	SessionTimeout time.Duration `env:"USSD_SESSION_TIMEOUT" envDefault:"180s"`

	// MaxSessionsPerPhone caps concurrent live sessions per subscriber;
	// creating one more evicts the least-recently-active.
	MaxSessionsPerPhone int `env:"USSD_MAX_SESSIONS_PER_PHONE" envDefault:"3"`

	// ServiceTimeout bounds every collaborator call. The gateway expects a
	// response within a few seconds; a slow collaborator becomes a failure
	// END, never an open wait.
	ServiceTimeout time.Duration `env:"USSD_SERVICE_TIMEOUT" envDefault:"5s"`

	// CleanupInterval is the sweep period for stores without native TTL.
	CleanupInterval time.Duration `env:"USSD_CLEANUP_INTERVAL" envDefault:"60s"`

	// DefaultLanguage is used until the subscriber picks a language.
	DefaultLanguage string `env:"USSD_DEFAULT_LANGUAGE" envDefault:"en"`

	// Loan amount bounds, inclusive, in KES.
	MinLoanAmount int64 `env:"USSD_MIN_LOAN_AMOUNT" envDefault:"500"`
	MaxLoanAmount int64 `env:"USSD_MAX_LOAN_AMOUNT" envDefault:"100000"`

	// Payment amount bounds, inclusive, in KES.
	MinPaymentAmount int64 `env:"USSD_MIN_PAYMENT_AMOUNT" envDefault:"10"`
	MaxPaymentAmount int64 `env:"USSD_MAX_PAYMENT_AMOUNT" envDefault:"1000000"`
}

// DefaultConfig returns the configuration used when no environment is
// loaded, mirroring the envDefault values.
func DefaultConfig() Config {
	return Config{
		SessionTimeout:      180 * time.Second,
		MaxSessionsPerPhone: 3,
		ServiceTimeout:      5 * time.Second,
		CleanupInterval:     60 * time.Second,
		DefaultLanguage:     "en",
		MinLoanAmount:       500,
		MaxLoanAmount:       100000,
		MinPaymentAmount:    10,
		MaxPaymentAmount:    1000000,
	}
}
