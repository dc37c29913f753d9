// Package platform is the HTTP JSON client for the AgriCredit platform API.
// It implements every collaborator interface the USSD engine consumes: loan
// underwriting, payment execution, balances, device registration, market
// prices, and weather.
//
// Requests carry the API key in an Authorization header and, where the
// payload creates records or moves money, the engine's idempotency key in an
// Idempotency-Key header so gateway retries cannot duplicate transactions.
package platform
