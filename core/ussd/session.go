package ussd

import (
	"time"
)

// State identifies a node of the dialog state machine. The set of states is
// closed: the dispatcher builds an explicit state-to-handler registry at
// construction and refuses to start with an unhandled flow state.
type State string

const (
	// StateLanguageSelect is the initial state for subscribers with no
	// stored language preference.
	StateLanguageSelect State = "language_selection"

	// StateMainMenu is the root of the menu tree and the only state
	// reachable through global back navigation.
	StateMainMenu State = "main_menu"

	StateLoanApplication    State = "loan_application"
	StateLoanStatus         State = "loan_status"
	StatePaymentMenu        State = "payment_menu"
	StateBalanceCheck       State = "balance_check"
	StateDeviceRegistration State = "device_registration"
	StateMarketPrices       State = "market_prices"
	StateWeatherInfo        State = "weather_info"
	StateSupport            State = "support"
)

// Session is the sole stateful entity of the engine: one live USSD dialog
// reconstructed on every gateway callback.
//
// Step is the flow-local step index, counted from the moment the flow was
// entered. It is stored explicitly and advanced only by flow handlers;
// deriving it from the raw token count breaks under back navigation because
// "0. Back" appends a token without resetting logical progress.
//
// Turns counts gateway turns already processed for this session. A callback
// whose token count does not exceed Turns is a gateway retry of an already
// handled turn and is answered by replaying LastReply, never by re-running
// a handler.
type Session struct {
	ID           string            `json:"id"`
	PhoneNumber  string            `json:"phone_number"`
	State        State             `json:"state"`
	Language     string            `json:"language"`
	Step         int               `json:"step"`
	Turns        int               `json:"turns"`
	LastReply    string            `json:"last_reply"`
	Data         map[string]string `json:"data"`
	CreatedAt    time.Time         `json:"created_at"`
	LastActivity time.Time         `json:"last_activity"`

	// Version supports compare-and-swap saves in the store.
	Version int64 `json:"version"`
}

// NewSession creates a session for the given dialog. A subscriber with a
// stored language preference starts at the main menu; everyone else is asked
// to pick a language first.
func NewSession(id, phoneNumber, language string) *Session {
	now := time.Now()
	state := StateLanguageSelect
	if language != "" {
		state = StateMainMenu
	}
	return &Session{
		ID:           id,
		PhoneNumber:  phoneNumber,
		State:        state,
		Language:     language,
		Data:         make(map[string]string),
		CreatedAt:    now,
		LastActivity: now,
	}
}

// IsExpired reports whether the session is logically dead: not touched for
// longer than the idle timeout. An expired session still present in the
// store is treated as not found.
func (s *Session) IsExpired(timeout time.Duration) bool {
	return time.Since(s.LastActivity) > timeout
}

// Touch refreshes the activity timestamp.
func (s *Session) Touch() {
	s.LastActivity = time.Now()
}

// Set stores a collected form value. Keys are write-once per flow instance;
// the first write wins so a replayed turn cannot overwrite confirmed input.
func (s *Session) Set(key, value string) {
	if s.Data == nil {
		s.Data = make(map[string]string)
	}
	if _, exists := s.Data[key]; exists {
		return
	}
	s.Data[key] = value
}

// Get returns a collected form value, or the empty string.
func (s *Session) Get(key string) string {
	return s.Data[key]
}

// EnterFlow moves the session into a flow state with a clean slate.
func (s *Session) EnterFlow(state State) {
	s.ResetFlow()
	s.State = state
}

// ResetFlow discards all flow progress and collected data and returns the
// session to the main menu. Used for both "0. Back" and explicit cancel.
func (s *Session) ResetFlow() {
	s.State = StateMainMenu
	s.Step = 0
	s.Data = make(map[string]string)
}
