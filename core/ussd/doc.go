// Package ussd implements the conversational session engine behind the
// platform's feature-phone interface.
//
// USSD is stateless per request: every turn arrives as an independent
// gateway callback carrying the session id, the subscriber's MSISDN, and the
// concatenated history of everything entered so far. The engine
// reconstructs the dialog from the session store, advances a menu-tree
// state machine by exactly one input, persists the result with a refreshed
// TTL, and renders a single response prefixed with "CON " (continue) or
// "END " (terminate).
//
// The moving parts:
//
//   - Session: the sole stateful entity, keyed by the gateway session id,
//     holding the dialog state, the flow-local step index, and collected
//     form data.
//   - Store: TTL-bound persistence with per-key atomic read-modify-write.
//     RedisStore is the production implementation so the engine can run as
//     multiple stateless replicas; MemoryStore serves tests and development.
//   - Registry: per-language menu trees rendered through the translation
//     catalog, which fails closed to the default language.
//   - Dispatcher: the state machine. One handler per top-level flow, each a
//     small step machine; global "0" navigation; per-subscriber concurrency
//     capping; duplicate-turn replay; collaborator calls bounded by a
//     timeout and never retried within a dialog.
//
// Nothing inside the engine is allowed to reach the gateway as a fault:
// every code path resolves to a CON or END string, and user-visible
// failures stay generic while the cause is logged.
package ussd
