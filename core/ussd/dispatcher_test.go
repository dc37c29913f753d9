package ussd_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kawacukennedy/AgriCredit-Africa-sub000/core/ussd"
)

// Stub collaborators with function fields and call counters. Defaults return
// happy-path data; tests override per case.

type stubLoans struct {
	submitCalls atomic.Int32
	submitFn    func(ctx context.Context, app ussd.LoanApplication) (ussd.LoanReceipt, error)
	listFn      func(ctx context.Context, phone string) ([]ussd.Loan, error)
	historyFn   func(ctx context.Context, phone string) ([]ussd.PaymentRecord, error)
}

func (s *stubLoans) Submit(ctx context.Context, app ussd.LoanApplication) (ussd.LoanReceipt, error) {
	s.submitCalls.Add(1)
	if s.submitFn != nil {
		return s.submitFn(ctx, app)
	}
	return ussd.LoanReceipt{ApplicationID: "LN-1001"}, nil
}

func (s *stubLoans) ListActive(ctx context.Context, phone string) ([]ussd.Loan, error) {
	if s.listFn != nil {
		return s.listFn(ctx, phone)
	}
	return nil, nil
}

func (s *stubLoans) PaymentHistory(ctx context.Context, phone string) ([]ussd.PaymentRecord, error) {
	if s.historyFn != nil {
		return s.historyFn(ctx, phone)
	}
	return nil, nil
}

type stubPayments struct {
	processCalls atomic.Int32
	processFn    func(ctx context.Context, req ussd.PaymentRequest) (ussd.PaymentReceipt, error)
}

func (s *stubPayments) Process(ctx context.Context, req ussd.PaymentRequest) (ussd.PaymentReceipt, error) {
	s.processCalls.Add(1)
	if s.processFn != nil {
		return s.processFn(ctx, req)
	}
	return ussd.PaymentReceipt{Reference: "PAY-2002"}, nil
}

type stubBalances struct {
	balanceFn func(ctx context.Context, phone string) (ussd.Balance, error)
}

func (s *stubBalances) GetBalance(ctx context.Context, phone string) (ussd.Balance, error) {
	if s.balanceFn != nil {
		return s.balanceFn(ctx, phone)
	}
	return ussd.Balance{Available: 12000, Pending: 500}, nil
}

type stubDevices struct {
	registerFn func(ctx context.Context, reg ussd.DeviceRegistration) (ussd.DeviceReceipt, error)
}

func (s *stubDevices) Register(ctx context.Context, reg ussd.DeviceRegistration) (ussd.DeviceReceipt, error) {
	if s.registerFn != nil {
		return s.registerFn(ctx, reg)
	}
	return ussd.DeviceReceipt{DeviceID: "DEV-3003"}, nil
}

type stubMarket struct {
	priceFn func(ctx context.Context, commodity string) (ussd.MarketPrice, error)
}

func (s *stubMarket) GetPrice(ctx context.Context, commodity string) (ussd.MarketPrice, error) {
	if s.priceFn != nil {
		return s.priceFn(ctx, commodity)
	}
	return ussd.MarketPrice{Commodity: commodity, Price: 45, Unit: "kg", Change: "+2%"}, nil
}

type stubWeather struct {
	weatherFn func(ctx context.Context, location string) (ussd.WeatherReport, error)
}

func (s *stubWeather) GetWeather(ctx context.Context, location string) (ussd.WeatherReport, error) {
	if s.weatherFn != nil {
		return s.weatherFn(ctx, location)
	}
	return ussd.WeatherReport{Temperature: 24, Humidity: 60, Condition: "Partly cloudy"}, nil
}

type harness struct {
	dispatcher *ussd.Dispatcher
	store      *ussd.MemoryStore
	loans      *stubLoans
	payments   *stubPayments
	balances   *stubBalances
	devices    *stubDevices
	market     *stubMarket
	weather    *stubWeather
}

func newHarness(t *testing.T, cfg ussd.Config) *harness {
	t.Helper()

	h := &harness{
		store:    ussd.NewMemoryStore(cfg),
		loans:    &stubLoans{},
		payments: &stubPayments{},
		balances: &stubBalances{},
		devices:  &stubDevices{},
		market:   &stubMarket{},
		weather:  &stubWeather{},
	}

	catalog, err := ussd.NewCatalog(cfg.DefaultLanguage)
	require.NoError(t, err)

	h.dispatcher, err = ussd.NewDispatcher(h.store, catalog, ussd.Services{
		Loans:    h.loans,
		Payments: h.payments,
		Balances: h.balances,
		Devices:  h.devices,
		Market:   h.market,
		Weather:  h.weather,
	}, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	return h
}

func (h *harness) dial(sessionID, text string) string {
	return h.dispatcher.Dispatch(context.Background(), ussd.Callback{
		SessionID:   sessionID,
		PhoneNumber: "+254700000001",
		ServiceCode: "*384*96#",
		Text:        text,
	})
}

// walk replays a dialog turn by turn the way the gateway does: each turn's
// text is the full input history joined by "*". Returns the last response.
func (h *harness) walk(sessionID string, inputs ...string) string {
	resp := h.dial(sessionID, "")
	for i := range inputs {
		resp = h.dial(sessionID, strings.Join(inputs[:i+1], "*"))
	}
	return resp
}

func TestDispatchInitialPrompt(t *testing.T) {
	t.Parallel()
	h := newHarness(t, ussd.DefaultConfig())

	resp := h.dial("sid-1", "")
	assert.Equal(t, "CON Welcome to AgriCredit\n1. English\n2. Kiswahili\n3. Français", resp)
}

func TestDispatchLanguageSelection(t *testing.T) {
	t.Parallel()

	t.Run("english", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, ussd.DefaultConfig())
		resp := h.walk("sid-1", "1")
		assert.True(t, strings.HasPrefix(resp, "CON AgriCredit\n1. Apply for Loan"))
		assert.Contains(t, resp, "8. Help & Support\n0. Exit")
	})

	t.Run("kiswahili carries through the dialog", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, ussd.DefaultConfig())
		resp := h.walk("sid-1", "2")
		assert.Contains(t, resp, "1. Omba Mkopo")

		resp = h.dial("sid-1", "2*1")
		assert.Contains(t, resp, "Chagua Aina ya Mkopo:")
	})

	t.Run("selection becomes the phone preference", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, ussd.DefaultConfig())
		h.walk("sid-1", "3")

		// A later dialog from the same phone skips language selection.
		resp := h.dial("sid-2", "")
		assert.Contains(t, resp, "1. Demander un prêt")
	})

	t.Run("invalid selection terminates", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, ussd.DefaultConfig())
		resp := h.walk("sid-1", "9")
		assert.Equal(t, "END Invalid selection. Please dial again to restart.", resp)
	})
}

func TestDispatchLoanFlow(t *testing.T) {
	t.Parallel()

	t.Run("full application with band amount", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, ussd.DefaultConfig())

		resp := h.walk("sid-1", "1", "1")
		assert.Equal(t, "CON Select Loan Type:\n1. Crop Inputs\n2. Farm Equipment\n3. Livestock\n4. Emergency\n0. Back", resp)

		resp = h.dial("sid-1", "1*1*3")
		assert.Contains(t, resp, "Select Amount:")

		resp = h.dial("sid-1", "1*1*3*2")
		assert.Equal(t, "CON Confirm Loan Application:\nType: Livestock\nAmount: KES 10000\n1. Confirm\n2. Cancel", resp)

		resp = h.dial("sid-1", "1*1*3*2*1")
		assert.Equal(t, "END Your loan application has been received.\nRef: LN-1001\nYou will get an SMS within 24 hours.", resp)
		assert.Equal(t, int32(1), h.loans.submitCalls.Load())
	})

	t.Run("free form amount", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, ussd.DefaultConfig())
		var submitted ussd.LoanApplication
		h.loans.submitFn = func(_ context.Context, app ussd.LoanApplication) (ussd.LoanReceipt, error) {
			submitted = app
			return ussd.LoanReceipt{ApplicationID: "LN-7"}, nil
		}

		resp := h.walk("sid-1", "1", "1", "1", "5") // "5" is Other amount
		assert.Contains(t, resp, "Enter amount in KES (500-100000):")

		resp = h.dial("sid-1", "1*1*1*5*7500")
		assert.Contains(t, resp, "Amount: KES 7500")

		h.dial("sid-1", "1*1*1*5*7500*1")
		assert.Equal(t, "crop_inputs", submitted.LoanType)
		assert.Equal(t, int64(7500), submitted.Amount)
		assert.Equal(t, "+254700000001", submitted.PhoneNumber)
		assert.NotEmpty(t, submitted.IdempotencyKey)
	})

	t.Run("free form amount out of range terminates", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, ussd.DefaultConfig())
		h.walk("sid-1", "1", "1", "1", "5")
		resp := h.dial("sid-1", "1*1*1*5*99")
		assert.Equal(t, "END Invalid amount. Enter a value between KES 500 and KES 100000.", resp)
		assert.Zero(t, h.loans.submitCalls.Load())
	})

	t.Run("cancel at confirmation returns to main menu with cleared data", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, ussd.DefaultConfig())
		h.walk("sid-1", "1", "1", "3", "2")

		resp := h.dial("sid-1", "1*1*3*2*2")
		assert.True(t, strings.HasPrefix(resp, "CON AgriCredit"))
		assert.Zero(t, h.loans.submitCalls.Load())

		// Re-entering the flow collects fresh values.
		var submitted ussd.LoanApplication
		h.loans.submitFn = func(_ context.Context, app ussd.LoanApplication) (ussd.LoanReceipt, error) {
			submitted = app
			return ussd.LoanReceipt{ApplicationID: "LN-8"}, nil
		}
		h.dial("sid-1", "1*1*3*2*2*1")
		h.dial("sid-1", "1*1*3*2*2*1*1")
		h.dial("sid-1", "1*1*3*2*2*1*1*1")
		h.dial("sid-1", "1*1*3*2*2*1*1*1*1")
		assert.Equal(t, "crop_inputs", submitted.LoanType)
		assert.Equal(t, int64(5000), submitted.Amount)
	})

	t.Run("collaborator failure becomes a generic terminal message", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, ussd.DefaultConfig())
		h.loans.submitFn = func(context.Context, ussd.LoanApplication) (ussd.LoanReceipt, error) {
			return ussd.LoanReceipt{}, errors.New("upstream timeout")
		}

		resp := h.walk("sid-1", "1", "1", "1", "1", "1")
		assert.Equal(t, "END Service is temporarily unavailable. Please try again later.", resp)
	})
}

func TestDispatchBackNavigation(t *testing.T) {
	t.Parallel()

	t.Run("exit at main menu", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, ussd.DefaultConfig())
		resp := h.walk("sid-1", "1", "0")
		assert.Equal(t, "END Thank you for using AgriCredit.", resp)
	})

	t.Run("zero inside a flow returns to main menu", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, ussd.DefaultConfig())
		h.walk("sid-1", "1", "1")

		resp := h.dial("sid-1", "1*1*0")
		assert.True(t, strings.HasPrefix(resp, "CON AgriCredit"))

		// The session continues at the main menu, not the abandoned flow.
		resp = h.dial("sid-1", "1*1*0*4")
		assert.Equal(t, "END AgriCredit Balance:\nAvailable: KES 12000\nPending: KES 500", resp)
	})

	t.Run("invalid main menu selection terminates", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, ussd.DefaultConfig())
		resp := h.walk("sid-1", "1", "77")
		assert.Equal(t, "END Invalid selection. Please dial again to restart.", resp)
	})
}

func TestDispatchDuplicateRetry(t *testing.T) {
	t.Parallel()
	h := newHarness(t, ussd.DefaultConfig())

	h.walk("sid-1", "1")
	first := h.dial("sid-1", "1*1")
	assert.Contains(t, first, "Select Loan Type:")

	// Gateway retry of the same turn replays the reply without advancing the
	// dialog.
	replay := h.dial("sid-1", "1*1")
	assert.Equal(t, first, replay)

	// The next real input still lands on the loan type step.
	resp := h.dial("sid-1", "1*1*3")
	assert.Contains(t, resp, "Select Amount:")
}

func TestDispatchRetryAfterTerminalTurn(t *testing.T) {
	t.Parallel()
	h := newHarness(t, ussd.DefaultConfig())

	h.walk("sid-1", "1", "1", "1", "1", "1")
	require.Equal(t, int32(1), h.loans.submitCalls.Load())

	// The terminal reply tore the session down, so a late retry restarts the
	// dialog instead of replaying stale history.
	resp := h.dial("sid-1", "1*1*1*1*1")
	assert.True(t, strings.HasPrefix(resp, "CON AgriCredit"))
	assert.Equal(t, int32(1), h.loans.submitCalls.Load(), "retry must not resubmit")
}

func TestDispatchSessionExpiry(t *testing.T) {
	t.Parallel()
	cfg := ussd.DefaultConfig()
	cfg.SessionTimeout = 50 * time.Millisecond
	h := newHarness(t, cfg)

	h.walk("sid-1", "1", "1")
	time.Sleep(80 * time.Millisecond)

	// The stale token history is ignored: the resurrected dialog restarts at
	// its initial prompt, in the remembered language.
	resp := h.dial("sid-1", "1*1*3")
	assert.True(t, strings.HasPrefix(resp, "CON AgriCredit\n1. Apply for Loan"))
}

func TestDispatchPaymentFlow(t *testing.T) {
	t.Parallel()
	h := newHarness(t, ussd.DefaultConfig())
	var processed ussd.PaymentRequest
	h.payments.processFn = func(_ context.Context, req ussd.PaymentRequest) (ussd.PaymentReceipt, error) {
		processed = req
		return ussd.PaymentReceipt{Reference: "PAY-9"}, nil
	}

	resp := h.walk("sid-1", "1", "3")
	assert.Equal(t, "CON Select Payment Method:\n1. M-Pesa\n2. Airtel Money\n3. Bank Transfer\n0. Back", resp)

	resp = h.dial("sid-1", "1*3*1")
	assert.Contains(t, resp, "Enter amount to pay in KES (10-1000000):")

	resp = h.dial("sid-1", "1*3*1*2500")
	assert.Equal(t, "CON Pay KES 2500 via M-Pesa?\n1. Confirm\n2. Cancel", resp)

	resp = h.dial("sid-1", "1*3*1*2500*1")
	assert.Equal(t, "END Payment of KES 2500 initiated.\nRef: PAY-9\nFollow the prompt on your phone.", resp)
	assert.Equal(t, "mpesa", processed.Method)
	assert.Equal(t, int64(2500), processed.Amount)
	assert.NotEmpty(t, processed.IdempotencyKey)
}

func TestDispatchStatusFlow(t *testing.T) {
	t.Parallel()

	t.Run("active loans", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, ussd.DefaultConfig())
		h.loans.listFn = func(context.Context, string) ([]ussd.Loan, error) {
			return []ussd.Loan{
				{Type: "livestock", Amount: 25000, Status: "disbursed"},
				{Type: "emergency", Amount: 5000, Status: "pending"},
			}, nil
		}

		resp := h.walk("sid-1", "1", "2")
		assert.Equal(t, "CON Loan Status:\n1. Active Loans\n2. Payment History\n0. Back", resp)

		resp = h.dial("sid-1", "1*2*1")
		assert.Equal(t, "END Your Active Loans:\nLivestock: KES 25000 (disbursed)\nEmergency: KES 5000 (pending)", resp)
	})

	t.Run("no active loans", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, ussd.DefaultConfig())
		resp := h.walk("sid-1", "1", "2", "1")
		assert.Equal(t, "END You have no active loans.", resp)
	})

	t.Run("payment history", func(t *testing.T) {
		t.Parallel()
		h := newHarness(t, ussd.DefaultConfig())
		h.loans.historyFn = func(context.Context, string) ([]ussd.PaymentRecord, error) {
			return []ussd.PaymentRecord{
				{Amount: 1200, PaidAt: time.Date(2026, 8, 14, 10, 0, 0, 0, time.UTC)},
			}, nil
		}

		resp := h.walk("sid-1", "1", "2", "2")
		assert.Equal(t, "END Recent Payments:\n14/08: KES 1200", resp)
	})
}

func TestDispatchDeviceFlow(t *testing.T) {
	t.Parallel()
	h := newHarness(t, ussd.DefaultConfig())
	var registered ussd.DeviceRegistration
	h.devices.registerFn = func(_ context.Context, reg ussd.DeviceRegistration) (ussd.DeviceReceipt, error) {
		registered = reg
		return ussd.DeviceReceipt{DeviceID: "DEV-42"}, nil
	}

	resp := h.walk("sid-1", "1", "5")
	assert.Contains(t, resp, "Select Device Type:")

	resp = h.dial("sid-1", "1*5*2")
	assert.Equal(t, "CON Enter your farm location:", resp)

	resp = h.dial("sid-1", "1*5*2*Eldoret")
	assert.Equal(t, "CON Enter the device serial number:", resp)

	resp = h.dial("sid-1", "1*5*2*Eldoret*WS-009")
	assert.Equal(t, "CON Register Device:\nType: Weather Station\nLocation: Eldoret\nSerial: WS-009\n1. Confirm\n2. Cancel", resp)

	resp = h.dial("sid-1", "1*5*2*Eldoret*WS-009*1")
	assert.Equal(t, "END Device registered successfully.\nID: DEV-42", resp)
	assert.Equal(t, "weather_station", registered.DeviceType)
	assert.Equal(t, "Eldoret", registered.Location)
	assert.Equal(t, "WS-009", registered.SerialNumber)
	assert.NotEmpty(t, registered.IdempotencyKey)
}

func TestDispatchMarketFlow(t *testing.T) {
	t.Parallel()
	h := newHarness(t, ussd.DefaultConfig())

	resp := h.walk("sid-1", "1", "6")
	assert.Contains(t, resp, "Select Commodity:")

	resp = h.dial("sid-1", "1*6*1")
	assert.Equal(t, "END Maize: KES 45 per kg\nChange: +2%", resp)
}

func TestDispatchWeatherFlow(t *testing.T) {
	t.Parallel()
	h := newHarness(t, ussd.DefaultConfig())

	resp := h.walk("sid-1", "1", "7")
	assert.Equal(t, "CON Enter your location:", resp)

	resp = h.dial("sid-1", "1*7*Kitale")
	assert.Equal(t, "END Weather for Kitale:\nPartly cloudy, 24C\nHumidity: 60%", resp)
}

func TestDispatchSupportFlow(t *testing.T) {
	t.Parallel()
	h := newHarness(t, ussd.DefaultConfig())
	resp := h.walk("sid-1", "1", "8")
	assert.Equal(t, "END AgriCredit Support:\nCall 0800 720 553 (toll free)\nSMS HELP to 21455\nMon-Sat 8am-6pm", resp)
}

func TestDispatchConcurrentSameSession(t *testing.T) {
	t.Parallel()
	h := newHarness(t, ussd.DefaultConfig())
	h.walk("sid-1", "1")

	var wg sync.WaitGroup
	responses := make([]string, 8)
	for i := range responses {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			responses[i] = h.dial("sid-1", "1*1")
		}(i)
	}
	wg.Wait()

	// Concurrent callbacks may race on the save, but every response is a
	// well-formed reply and the stored session is never corrupted.
	for _, resp := range responses {
		valid := strings.HasPrefix(resp, "CON ") || strings.HasPrefix(resp, "END ")
		assert.True(t, valid, "malformed response %q", resp)
	}

	resp := h.dial("sid-1", "1*1*3")
	valid := strings.HasPrefix(resp, "CON ") || strings.HasPrefix(resp, "END ")
	assert.True(t, valid)
}
