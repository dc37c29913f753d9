package ussd

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix = "ussd:session:"
	phoneKeyPrefix   = "ussd:phone:"
	langKeyPrefix    = "ussd:lang:"

	// txRetries bounds optimistic-lock retries. Creation is safe to retry;
	// a Save that keeps losing means a concurrent callback owns the turn.
	txRetries = 3
)

// RedisStore implements Store on a shared Redis so the engine can run as
// multiple stateless replicas. Sessions carry a native TTL equal to the idle
// timeout; a per-phone sorted set scored by last activity provides the
// concurrency-cap index and is updated in the same transaction as the
// session key. All read-modify-write paths use optimistic locking
// (WATCH + MULTI/EXEC).
type RedisStore struct {
	client      *redis.Client
	timeout     time.Duration
	maxPerPhone int
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client *redis.Client, cfg Config) *RedisStore {
	return &RedisStore{
		client:      client,
		timeout:     cfg.SessionTimeout,
		maxPerPhone: cfg.MaxSessionsPerPhone,
	}
}

// GetOrCreate implements Store.
func (rs *RedisStore) GetOrCreate(ctx context.Context, sessionID, phoneNumber string) (*Session, bool, error) {
	sessKey := sessionKeyPrefix + sessionID
	phoneKey := phoneKeyPrefix + phoneNumber

	var (
		out     *Session
		created bool
	)

	txf := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, sessKey).Bytes()
		if err == nil {
			var sess Session
			if uerr := json.Unmarshal(raw, &sess); uerr == nil && !sess.IsExpired(rs.timeout) {
				out, created = &sess, false
				return nil
			}
			// Corrupt or logically expired despite the TTL: recreate.
		} else if !errors.Is(err, redis.Nil) {
			return err
		}

		language, err := tx.Get(ctx, langKeyPrefix+phoneNumber).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}

		now := time.Now()
		cutoff := strconv.FormatInt(now.Add(-rs.timeout).UnixMilli(), 10)

		var evict []string
		if rs.maxPerPhone > 0 {
			live, err := tx.ZRangeByScore(ctx, phoneKey, &redis.ZRangeBy{Min: cutoff, Max: "+inf"}).Result()
			if err != nil && !errors.Is(err, redis.Nil) {
				return err
			}
			// Oldest first; evict enough to stay within the cap.
			for len(live)-len(evict) >= rs.maxPerPhone {
				evict = append(evict, live[len(evict)])
			}
		}

		sess := NewSession(sessionID, phoneNumber, language)
		payload, err := json.Marshal(sess)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for _, id := range evict {
				pipe.Del(ctx, sessionKeyPrefix+id)
				pipe.ZRem(ctx, phoneKey, id)
			}
			pipe.ZRemRangeByScore(ctx, phoneKey, "-inf", "("+cutoff)
			pipe.Set(ctx, sessKey, payload, rs.timeout)
			pipe.ZAdd(ctx, phoneKey, redis.Z{Score: float64(now.UnixMilli()), Member: sessionID})
			pipe.Expire(ctx, phoneKey, 2*rs.timeout)
			return nil
		})
		if err != nil {
			return err
		}

		out, created = sess, true
		return nil
	}

	var err error
	for i := 0; i < txRetries; i++ {
		err = rs.client.Watch(ctx, txf, sessKey, phoneKey)
		if !errors.Is(err, redis.TxFailedErr) {
			break
		}
	}
	if err != nil {
		return nil, false, err
	}
	return out, created, nil
}

// Save implements Store. The stored version is compared under WATCH; a
// mismatch means a concurrent callback already advanced the session and the
// caller's turn must not be applied.
func (rs *RedisStore) Save(ctx context.Context, sess *Session) error {
	sessKey := sessionKeyPrefix + sess.ID
	phoneKey := phoneKeyPrefix + sess.PhoneNumber

	txf := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, sessKey).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrConflict
		}
		if err != nil {
			return err
		}

		var stored Session
		if err := json.Unmarshal(raw, &stored); err != nil {
			return err
		}
		if stored.IsExpired(rs.timeout) || stored.Version != sess.Version {
			return ErrConflict
		}

		next := copySession(sess)
		next.Version++
		payload, err := json.Marshal(next)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, sessKey, payload, rs.timeout)
			pipe.ZAdd(ctx, phoneKey, redis.Z{
				Score:  float64(next.LastActivity.UnixMilli()),
				Member: sess.ID,
			})
			pipe.Expire(ctx, phoneKey, 2*rs.timeout)
			return nil
		})
		if err != nil {
			return err
		}

		sess.Version = next.Version
		return nil
	}

	err := rs.client.Watch(ctx, txf, sessKey)
	if errors.Is(err, redis.TxFailedErr) {
		return ErrConflict
	}
	if err != nil && !errors.Is(err, ErrConflict) {
		return errors.Join(ErrSaveSession, err)
	}
	return err
}

// Delete implements Store.
func (rs *RedisStore) Delete(ctx context.Context, sessionID string) error {
	sessKey := sessionKeyPrefix + sessionID

	raw, err := rs.client.Get(ctx, sessKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return errors.Join(ErrDeleteSession, err)
	}

	var sess Session
	phoneKey := ""
	if uerr := json.Unmarshal(raw, &sess); uerr == nil {
		phoneKey = phoneKeyPrefix + sess.PhoneNumber
	}

	_, err = rs.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, sessKey)
		if phoneKey != "" {
			pipe.ZRem(ctx, phoneKey, sessionID)
		}
		return nil
	})
	if err != nil {
		return errors.Join(ErrDeleteSession, err)
	}
	return nil
}

// CountLiveForPhone implements Store.
func (rs *RedisStore) CountLiveForPhone(ctx context.Context, phoneNumber string) (int, error) {
	cutoff := strconv.FormatInt(time.Now().Add(-rs.timeout).UnixMilli(), 10)
	n, err := rs.client.ZCount(ctx, phoneKeyPrefix+phoneNumber, cutoff, "+inf").Result()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// EvictOldestForPhone implements Store.
func (rs *RedisStore) EvictOldestForPhone(ctx context.Context, phoneNumber string) error {
	phoneKey := phoneKeyPrefix + phoneNumber

	txf := func(tx *redis.Tx) error {
		cutoff := strconv.FormatInt(time.Now().Add(-rs.timeout).UnixMilli(), 10)
		live, err := tx.ZRangeByScore(ctx, phoneKey, &redis.ZRangeBy{Min: cutoff, Max: "+inf", Count: 1}).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if len(live) == 0 {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, sessionKeyPrefix+live[0])
			pipe.ZRem(ctx, phoneKey, live[0])
			return nil
		})
		return err
	}

	var err error
	for i := 0; i < txRetries; i++ {
		err = rs.client.Watch(ctx, txf, phoneKey)
		if !errors.Is(err, redis.TxFailedErr) {
			break
		}
	}
	return err
}

// Language implements Store.
func (rs *RedisStore) Language(ctx context.Context, phoneNumber string) (string, error) {
	lang, err := rs.client.Get(ctx, langKeyPrefix+phoneNumber).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return lang, nil
}

// SetLanguage implements Store. The preference is deliberately long-lived;
// it survives session expiry so returning subscribers skip the language
// prompt.
func (rs *RedisStore) SetLanguage(ctx context.Context, phoneNumber, language string) error {
	return rs.client.Set(ctx, langKeyPrefix+phoneNumber, language, 0).Err()
}
