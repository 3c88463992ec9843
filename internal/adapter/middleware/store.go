package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"toolshare-backend/pkg/id"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// idempStore holds one entry per key: in progress while the handler runs,
// then the recorded response until ttl expires.
type idempStore struct {
	rdb redis.UniversalClient
	ttl time.Duration
}

func (s idempStore) reserve(ctx context.Context, key string, e idempEntry) (bool, error) {
	payload, err := json.Marshal(e)
	if err != nil {
		return false, err
	}
	return s.rdb.SetNX(ctx, key, payload, provisionalLockTTL).Result()
}

// load reports found=false when the key expired between reserve and load.
func (s idempStore) load(ctx context.Context, key string) (idempEntry, bool, error) {
	var e idempEntry
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return e, false, nil
	}
	if err != nil {
		return e, false, err
	}
	if err := json.Unmarshal(raw, &e); err != nil {
		return e, false, err
	}
	return e, true, nil
}

func (s idempStore) finish(ctx context.Context, key string, e idempEntry) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key, payload, s.ttl).Err()
}

// idempKey scopes a request id to the caller and the concrete URL, so the same
// Ax-Request-Id on two different borrow requests never replays the wrong answer.
func idempKey(c echo.Context, requestID string) string {
	r := c.Request()
	return strings.Join([]string{"idemp", "ax", strings.ToLower(r.Method), r.URL.Path, UserID(c), requestID}, ":")
}

// validRequestID accepts a lowercase RFC 4122 UUID (v1-v5) or 32-char lowercase hex.
func validRequestID(s string) bool {
	if id.Valid(s) {
		return true
	}
	if len(s) != 36 || s != strings.ToLower(s) {
		return false
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return false
	}
	return u.Variant() == uuid.RFC4122 && u.Version() >= 1 && u.Version() <= 5
}

// parseRequestAt reads Ax-Request-At as epoch seconds, epoch milliseconds or
// RFC 3339 with an explicit offset.
func parseRequestAt(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, errors.New("missing Ax-Request-At")
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		if n > 1e12 {
			return time.UnixMilli(n).UTC(), nil
		}
		return time.Unix(n, 0).UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, errors.New("Ax-Request-At must be epoch (s/ms) or RFC3339 with timezone")
}

func bodyHash(b []byte) string { s := sha256.Sum256(b); return hex.EncodeToString(s[:]) }
