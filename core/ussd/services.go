package ussd

import (
	"context"
	"time"
)

// Collaborator interfaces consumed by the engine. Each is a narrow
// synchronous call that may fail; the engine never retries a collaborator
// within a single dialog, and every call is bounded by Config.ServiceTimeout.
// Requests that move money or create records carry an idempotency key so a
// gateway retry of a confirm turn cannot produce a duplicate transaction.

// LoanApplication is a completed loan request collected by the loan flow.
type LoanApplication struct {
	PhoneNumber    string
	LoanType       string
	Amount         int64
	IdempotencyKey string
}

// LoanReceipt acknowledges a submitted application.
type LoanReceipt struct {
	ApplicationID string
}

// Loan describes an active loan for the status flow.
type Loan struct {
	Type        string
	Amount      int64
	Status      string
	NextPayment time.Time
}

// PaymentRecord is one historical repayment.
type PaymentRecord struct {
	Amount int64
	PaidAt time.Time
}

// LoanService is the loan underwriting collaborator.
type LoanService interface {
	Submit(ctx context.Context, app LoanApplication) (LoanReceipt, error)
	ListActive(ctx context.Context, phoneNumber string) ([]Loan, error)
	PaymentHistory(ctx context.Context, phoneNumber string) ([]PaymentRecord, error)
}

// PaymentRequest is a completed repayment request.
type PaymentRequest struct {
	PhoneNumber    string
	Amount         int64
	Method         string
	IdempotencyKey string
}

// PaymentReceipt acknowledges an initiated payment.
type PaymentReceipt struct {
	Reference string
}

// PaymentService executes repayments through the payment gateway.
type PaymentService interface {
	Process(ctx context.Context, req PaymentRequest) (PaymentReceipt, error)
}

// Balance is the subscriber's platform balance.
type Balance struct {
	Available int64
	Pending   int64
}

// BalanceService reports subscriber balances.
type BalanceService interface {
	GetBalance(ctx context.Context, phoneNumber string) (Balance, error)
}

// DeviceRegistration is a completed IoT device registration request.
type DeviceRegistration struct {
	PhoneNumber    string
	DeviceType     string
	Location       string
	SerialNumber   string
	IdempotencyKey string
}

// DeviceReceipt acknowledges a registered device.
type DeviceReceipt struct {
	DeviceID string
}

// DeviceService persists IoT device registrations.
type DeviceService interface {
	Register(ctx context.Context, reg DeviceRegistration) (DeviceReceipt, error)
}

// MarketPrice is the current price for one commodity.
type MarketPrice struct {
	Commodity string
	Price     int64
	Unit      string
	Change    string
}

// MarketService sources commodity market prices.
type MarketService interface {
	GetPrice(ctx context.Context, commodity string) (MarketPrice, error)
}

// WeatherReport is the current weather for a location.
type WeatherReport struct {
	Temperature float64
	Humidity    int
	Condition   string
}

// WeatherService sources weather data.
type WeatherService interface {
	GetWeather(ctx context.Context, location string) (WeatherReport, error)
}

// Services bundles every collaborator the dispatcher needs.
type Services struct {
	Loans    LoanService
	Payments PaymentService
	Balances BalanceService
	Devices  DeviceService
	Market   MarketService
	Weather  WeatherService
}
