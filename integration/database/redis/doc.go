// Package redis provides Redis client initialization and health checking for
// the platform's session storage.
//
// Connect wraps the go-redis client with URL validation, exponential backoff
// retry, and a ping verification so a returned client is known to be usable.
// Healthcheck returns a probe function suitable for readiness endpoints.
//
// Configuration comes from the environment:
//
//	REDIS_URL              redis:// or rediss:// connection string
//	REDIS_RETRY_ATTEMPTS   connection attempts before giving up (default 3)
//	REDIS_RETRY_INTERVAL   base backoff interval (default 5s)
//	REDIS_CONNECT_TIMEOUT  overall budget for the connection process (default 30s)
//
// Errors are stable sentinel values checked with errors.Is:
// ErrEmptyConnectionURL, ErrFailedToParseRedisConnString, ErrRedisNotReady,
// and ErrHealthcheckFailed.
package redis
