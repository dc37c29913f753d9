package ussd

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"
)

// MemoryStore implements Store with mutex-guarded maps. Intended for tests
// and single-replica development; production replicas share a RedisStore.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	byPhone  map[string]map[string]struct{}
	langs    map[string]string

	timeout     time.Duration
	maxPerPhone int

	// Sweep lifecycle
	cleanupInterval time.Duration
	logger          *slog.Logger
	cancel          context.CancelFunc
	wg              sync.WaitGroup
	running         bool
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithMemoryStoreLogger sets the logger for sweep operations.
func WithMemoryStoreLogger(logger *slog.Logger) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if logger != nil {
			ms.logger = logger
		}
	}
}

// WithCleanupInterval overrides the sweep period. Zero disables the sweep;
// expired sessions are still invisible to reads, they just linger in memory
// until swept or replaced.
func WithCleanupInterval(interval time.Duration) MemoryStoreOption {
	return func(ms *MemoryStore) {
		ms.cleanupInterval = interval
	}
}

// NewMemoryStore creates an in-memory session store. Call Start to begin
// the background sweep and Stop to halt it.
func NewMemoryStore(cfg Config, opts ...MemoryStoreOption) *MemoryStore {
	ms := &MemoryStore{
		sessions:        make(map[string]*Session),
		byPhone:         make(map[string]map[string]struct{}),
		langs:           make(map[string]string),
		timeout:         cfg.SessionTimeout,
		maxPerPhone:     cfg.MaxSessionsPerPhone,
		cleanupInterval: cfg.CleanupInterval,
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(ms)
	}
	return ms
}

// GetOrCreate implements Store. The whole read-check-evict-create sequence
// runs under one lock, so two concurrent first turns for the same phone
// cannot both pass the cap check.
func (ms *MemoryStore) GetOrCreate(_ context.Context, sessionID, phoneNumber string) (*Session, bool, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if existing, ok := ms.sessions[sessionID]; ok && !existing.IsExpired(ms.timeout) {
		return copySession(existing), false, nil
	}

	// A stale entry under the same ID is replaced, not resurrected.
	ms.removeLocked(sessionID)

	if ms.maxPerPhone > 0 && ms.countLiveLocked(phoneNumber) >= ms.maxPerPhone {
		ms.evictOldestLocked(phoneNumber)
	}

	sess := NewSession(sessionID, phoneNumber, ms.langs[phoneNumber])
	ms.sessions[sessionID] = copySession(sess)
	if ms.byPhone[phoneNumber] == nil {
		ms.byPhone[phoneNumber] = make(map[string]struct{})
	}
	ms.byPhone[phoneNumber][sessionID] = struct{}{}

	return sess, true, nil
}

// Save implements Store with compare-and-swap on Session.Version.
func (ms *MemoryStore) Save(_ context.Context, sess *Session) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	stored, ok := ms.sessions[sess.ID]
	if !ok || stored.IsExpired(ms.timeout) {
		// Evicted or expired mid-turn; the dialog is gone.
		return ErrConflict
	}
	if stored.Version != sess.Version {
		return ErrConflict
	}

	sess.Version++
	ms.sessions[sess.ID] = copySession(sess)
	return nil
}

// Delete implements Store.
func (ms *MemoryStore) Delete(_ context.Context, sessionID string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.removeLocked(sessionID)
	return nil
}

// CountLiveForPhone implements Store.
func (ms *MemoryStore) CountLiveForPhone(_ context.Context, phoneNumber string) (int, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.countLiveLocked(phoneNumber), nil
}

// EvictOldestForPhone implements Store.
func (ms *MemoryStore) EvictOldestForPhone(_ context.Context, phoneNumber string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.evictOldestLocked(phoneNumber)
	return nil
}

// Language implements Store.
func (ms *MemoryStore) Language(_ context.Context, phoneNumber string) (string, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.langs[phoneNumber], nil
}

// SetLanguage implements Store.
func (ms *MemoryStore) SetLanguage(_ context.Context, phoneNumber, language string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.langs[phoneNumber] = language
	return nil
}

// Start launches the background sweep that purges expired entries. No-op
// when the cleanup interval is zero.
func (ms *MemoryStore) Start() {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if ms.running || ms.cleanupInterval <= 0 {
		return
	}
	ms.running = true

	ctx, cancel := context.WithCancel(context.Background())
	ms.cancel = cancel

	ms.wg.Add(1)
	go func() {
		defer ms.wg.Done()
		ticker := time.NewTicker(ms.cleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				removed := ms.sweep()
				if removed > 0 {
					ms.logger.Debug("swept expired sessions", "removed", removed)
				}
			}
		}
	}()
}

// Stop halts the background sweep and waits for it to finish.
func (ms *MemoryStore) Stop() {
	ms.mu.Lock()
	if !ms.running {
		ms.mu.Unlock()
		return
	}
	ms.running = false
	cancel := ms.cancel
	ms.mu.Unlock()

	cancel()
	ms.wg.Wait()
}

func (ms *MemoryStore) sweep() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	removed := 0
	for id, sess := range ms.sessions {
		if sess.IsExpired(ms.timeout) {
			ms.removeLocked(id)
			removed++
		}
	}
	return removed
}

func (ms *MemoryStore) countLiveLocked(phoneNumber string) int {
	count := 0
	for id := range ms.byPhone[phoneNumber] {
		if sess, ok := ms.sessions[id]; ok && !sess.IsExpired(ms.timeout) {
			count++
		}
	}
	return count
}

func (ms *MemoryStore) evictOldestLocked(phoneNumber string) {
	var oldest *Session
	for id := range ms.byPhone[phoneNumber] {
		sess, ok := ms.sessions[id]
		if !ok || sess.IsExpired(ms.timeout) {
			continue
		}
		if oldest == nil || sess.LastActivity.Before(oldest.LastActivity) {
			oldest = sess
		}
	}
	if oldest != nil {
		ms.removeLocked(oldest.ID)
	}
}

func (ms *MemoryStore) removeLocked(sessionID string) {
	sess, ok := ms.sessions[sessionID]
	if !ok {
		return
	}
	delete(ms.sessions, sessionID)
	if ids, ok := ms.byPhone[sess.PhoneNumber]; ok {
		delete(ids, sessionID)
		if len(ids) == 0 {
			delete(ms.byPhone, sess.PhoneNumber)
		}
	}
}

// copySession returns a deep copy so callers never share mutable state with
// the store.
func copySession(sess *Session) *Session {
	cp := *sess
	cp.Data = make(map[string]string, len(sess.Data))
	for k, v := range sess.Data {
		cp.Data[k] = v
	}
	return &cp
}
