package ussd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/kawacukennedy/AgriCredit-Africa-sub000/core/i18n"
	"github.com/kawacukennedy/AgriCredit-Africa-sub000/core/logger"
)

// flowFunc advances one flow's step machine by a single input. Handlers
// mutate the session (step, collected data) and always resolve to a reply;
// collaborator failures become a generic terminal message, never an error
// that could reach the gateway.
type flowFunc func(ctx context.Context, tr *i18n.Translator, sess *Session, input string) reply

// Dispatcher is the engine's state machine. One Dispatch call handles one
// gateway turn end to end: session reconstruction, routing, flow handling,
// persistence, and rendering.
type Dispatcher struct {
	store   Store
	catalog *i18n.I18n
	menus   *Registry
	svc     Services
	cfg     Config
	log     *slog.Logger

	flows map[State]flowFunc
}

// NewDispatcher wires the state machine. Every flow state must have a
// registered handler; a gap is a construction-time error so adding a state
// cannot silently fall through at runtime.
func NewDispatcher(store Store, catalog *i18n.I18n, svc Services, cfg Config, log *slog.Logger) (*Dispatcher, error) {
	if store == nil {
		return nil, errors.New("ussd: store is required")
	}
	if catalog == nil {
		return nil, errors.New("ussd: translation catalog is required")
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	d := &Dispatcher{
		store:   store,
		catalog: catalog,
		menus:   NewRegistry(),
		svc:     svc,
		cfg:     cfg,
		log:     log,
	}

	d.flows = map[State]flowFunc{
		StateLoanApplication:    d.loanFlow,
		StateLoanStatus:         d.statusFlow,
		StatePaymentMenu:        d.paymentFlow,
		StateBalanceCheck:       d.balanceFlow,
		StateDeviceRegistration: d.deviceFlow,
		StateMarketPrices:       d.marketFlow,
		StateWeatherInfo:        d.weatherFlow,
		StateSupport:            d.supportFlow,
	}

	for _, state := range flowStates {
		if _, ok := d.flows[state]; !ok {
			return nil, fmt.Errorf("ussd: no handler registered for state %q", state)
		}
	}

	return d, nil
}

// flowStates is the closed list of non-menu states; mainMenuTargets maps
// main-menu selections onto them in display order.
var flowStates = []State{
	StateLoanApplication,
	StateLoanStatus,
	StatePaymentMenu,
	StateBalanceCheck,
	StateDeviceRegistration,
	StateMarketPrices,
	StateWeatherInfo,
	StateSupport,
}

// Dispatch handles one gateway callback and always returns a response
// beginning with "CON " or "END ".
func (d *Dispatcher) Dispatch(ctx context.Context, cb Callback) string {
	start := time.Now()
	tokens := Tokenize(cb.Text)

	sess, created, err := d.store.GetOrCreate(ctx, cb.SessionID, cb.PhoneNumber)
	if err != nil {
		d.log.ErrorContext(ctx, "failed to load session",
			logger.Component("ussd"),
			logger.SessionID(cb.SessionID),
			logger.Phone(cb.PhoneNumber),
			logger.Error(err),
		)
		tr := i18n.NewTranslator(d.catalog, "")
		return end(tr.T("error.generic")).render()
	}

	tr := i18n.NewTranslator(d.catalog, sess.Language)

	var r reply
	switch {
	case created:
		// First turn of a (possibly resurrected) dialog. Stale token
		// history from a torn-down predecessor is ignored: the dialog
		// restarts at its initial prompt.
		r = d.initialPrompt(tr, sess)
	case len(tokens) <= sess.Turns && sess.LastReply != "":
		// Gateway retry of an already processed turn: replay, do not
		// re-run handlers or collaborators.
		d.log.DebugContext(ctx, "replaying duplicate turn",
			logger.Component("ussd"),
			logger.SessionID(sess.ID),
			logger.Count("turns", sess.Turns),
		)
		return sess.LastReply
	default:
		r = d.route(ctx, tr, sess, LatestInput(tokens))
	}

	sess.Turns = len(tokens)
	d.finish(ctx, sess, r)

	d.log.InfoContext(ctx, "turn handled",
		logger.Component("ussd"),
		logger.SessionID(sess.ID),
		logger.Phone(sess.PhoneNumber),
		logger.State(string(sess.State)),
		logger.Elapsed(start),
	)
	return r.render()
}

// initialPrompt renders the first screen of a fresh session: language
// selection for unknown subscribers, the main menu otherwise.
func (d *Dispatcher) initialPrompt(tr *i18n.Translator, sess *Session) reply {
	if sess.State == StateLanguageSelect {
		return con(d.renderLanguageMenu(tr))
	}
	return con(d.menus.Render(MenuMain, tr))
}

func (d *Dispatcher) renderLanguageMenu(tr *i18n.Translator) string {
	var b strings.Builder
	b.WriteString(tr.T("language.title"))
	for i, lang := range supportedLanguages {
		fmt.Fprintf(&b, "\n%d. %s", i+1, lang.Label)
	}
	return b.String()
}

// route advances the state machine by one input.
func (d *Dispatcher) route(ctx context.Context, tr *i18n.Translator, sess *Session, input string) reply {
	switch sess.State {
	case StateLanguageSelect:
		return d.selectLanguage(ctx, sess, input)
	case StateMainMenu:
		return d.mainMenu(ctx, tr, sess, input)
	default:
		// Global back navigation: "0" from any depth returns to the main
		// menu and discards the flow's collected data.
		if input == "0" {
			return d.backToMain(tr, sess)
		}
		handler, ok := d.flows[sess.State]
		if !ok {
			// Unreachable: the registry is validated at construction.
			return end(tr.T("error.generic"))
		}
		return handler(ctx, tr, sess, input)
	}
}

// selectLanguage handles the one-time language choice. The selection is
// immutable for the rest of the session and stored as the phone's
// preference for future dialogs.
func (d *Dispatcher) selectLanguage(ctx context.Context, sess *Session, input string) reply {
	idx := -1
	for i := range supportedLanguages {
		if input == fmt.Sprint(i+1) {
			idx = i
			break
		}
	}
	if idx < 0 {
		tr := i18n.NewTranslator(d.catalog, "")
		return end(tr.T("error.invalid_selection"))
	}

	sess.Language = supportedLanguages[idx].Code
	sess.State = StateMainMenu

	if err := d.store.SetLanguage(ctx, sess.PhoneNumber, sess.Language); err != nil {
		// Preference persistence is best effort; the session keeps the
		// chosen language either way.
		d.log.WarnContext(ctx, "failed to store language preference",
			logger.Component("ussd"),
			logger.Phone(sess.PhoneNumber),
			logger.Error(err),
		)
	}

	tr := i18n.NewTranslator(d.catalog, sess.Language)
	return con(d.menus.Render(MenuMain, tr))
}

// mainMenu routes a root-level selection into a flow, or terminates on "0".
func (d *Dispatcher) mainMenu(ctx context.Context, tr *i18n.Translator, sess *Session, input string) reply {
	if input == "0" {
		return end(tr.T("goodbye"))
	}

	idx, ok := d.menus.Select(MenuMain, input)
	if !ok {
		return end(tr.T("error.invalid_selection"))
	}

	sess.EnterFlow(flowStates[idx])

	// Step 0 is flow entry: the handler renders its first prompt.
	return d.flows[sess.State](ctx, tr, sess, "")
}

// backToMain is the "0. Back" transition: a normal state change, not an
// out-of-band cancellation.
func (d *Dispatcher) backToMain(tr *i18n.Translator, sess *Session) reply {
	sess.ResetFlow()
	return con(d.menus.Render(MenuMain, tr))
}

// finish persists or tears down the session after a turn. Terminal replies
// delete the session regardless of collaborator outcome.
func (d *Dispatcher) finish(ctx context.Context, sess *Session, r reply) {
	if r.end {
		if err := d.store.Delete(ctx, sess.ID); err != nil {
			d.log.ErrorContext(ctx, "failed to delete session",
				logger.Component("ussd"),
				logger.SessionID(sess.ID),
				logger.Error(err),
			)
		}
		return
	}

	sess.LastReply = r.render()
	sess.Touch()
	if err := d.store.Save(ctx, sess); err != nil {
		if errors.Is(err, ErrConflict) {
			// A concurrent callback for the same session won the write;
			// the store keeps the winner's state.
			d.log.WarnContext(ctx, "concurrent turn lost save",
				logger.Component("ussd"),
				logger.SessionID(sess.ID),
			)
			return
		}
		d.log.ErrorContext(ctx, "failed to save session",
			logger.Component("ussd"),
			logger.SessionID(sess.ID),
			logger.Error(err),
		)
	}
}

// serviceCtx bounds a collaborator call to the gateway's response budget.
func (d *Dispatcher) serviceCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, d.cfg.ServiceTimeout)
}

// serviceFailure logs a collaborator error and renders the generic terminal
// message. The failure reason is never shown to the handset.
func (d *Dispatcher) serviceFailure(ctx context.Context, tr *i18n.Translator, sess *Session, collaborator string, err error) reply {
	d.log.ErrorContext(ctx, "collaborator call failed",
		logger.Component("ussd"),
		logger.Event(collaborator),
		logger.SessionID(sess.ID),
		logger.Phone(sess.PhoneNumber),
		logger.Error(err),
	)
	return end(tr.T("error.service"))
}
