package ussd

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a session cannot be found in the store.
	ErrNotFound = errors.New("session not found")

	// ErrConflict is returned when a compare-and-swap save loses against a
	// concurrent callback for the same session. The losing turn must not be
	// re-applied; the stored state belongs to the winner.
	ErrConflict = errors.New("session modified concurrently")

	// ErrSaveSession is returned when persisting a session fails.
	ErrSaveSession = errors.New("failed to save session")

	// ErrDeleteSession is returned when deleting a session fails.
	ErrDeleteSession = errors.New("failed to delete session")
)

// Store is the persistence interface for dialog sessions. Implementations
// must provide per-key atomic read-modify-write: GetOrCreate performs the
// liveness check, the per-phone concurrency cap (including eviction of the
// least-recently-active session), and creation as one atomic unit, and Save
// rejects writes over a concurrently modified session with ErrConflict.
type Store interface {
	// GetOrCreate returns the live session for sessionID, or atomically
	// creates a fresh one. The second return value reports creation. An
	// expired session is indistinguishable from an absent one.
	GetOrCreate(ctx context.Context, sessionID, phoneNumber string) (*Session, bool, error)

	// Save persists the session with a refreshed TTL.
	Save(ctx context.Context, sess *Session) error

	// Delete tears the session down explicitly (terminal response).
	Delete(ctx context.Context, sessionID string) error

	// CountLiveForPhone returns the number of live sessions for a phone.
	CountLiveForPhone(ctx context.Context, phoneNumber string) (int, error)

	// EvictOldestForPhone removes the least-recently-active live session
	// for a phone.
	EvictOldestForPhone(ctx context.Context, phoneNumber string) error

	// Language returns the stored language preference for a phone, or the
	// empty string. The preference is the only cross-session state.
	Language(ctx context.Context, phoneNumber string) (string, error)

	// SetLanguage stores the language preference for a phone.
	SetLanguage(ctx context.Context, phoneNumber, language string) error
}
