package redis

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/feedex/internal/db"
)

// unlockScript deletes the key only while it still holds the caller's token.
const unlockScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then return redis.call("DEL", KEYS[1]) else return 0 end`

// extendScript resets the key's expiry only while it still holds the caller's token.
const extendScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then return redis.call("PEXPIRE", KEYS[1], ARGV[2]) else return 0 end`

var errInvalidTTL = errors.New("lock ttl must be positive")

// TryLock acquires a lease with SET NX PX. It returns false when another owner holds it.
func (s *Store) TryLock(ctx context.Context, key, owner string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		return false, errInvalidTTL
	}
	cmd := s.b().Set().Key(key).Value(owner).Nx().PxMilliseconds(ttl.Milliseconds()).Build()
	err := s.do(ctx, cmd).Error()
	if rueidis.IsRedisNil(err) {
		return false, nil
	}
	if err != nil {
		return false, &db.Error{Op: db.OpSet, Key: key, Err: err}
	}
	return true, nil
}

// Extend pushes the expiry of a lease held by owner to ttl from now. It
// returns false if the lease expired or was taken over.
func (s *Store) Extend(ctx context.Context, key, owner string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		return false, errInvalidTTL
	}
	cmd := s.b().Arbitrary("EVAL").Args(extendScript, "1").Keys(key).
		Args(owner, strconv.FormatInt(ttl.Milliseconds(), 10)).Build()
	n, err := s.do(ctx, cmd).AsInt64()
	if err != nil {
		return false, &db.Error{Op: db.OpEval, Key: key, Err: err}
	}
	return n == 1, nil
}

// Unlock releases a lease held by owner. It returns false if the lease
// expired or was taken over before the call.
func (s *Store) Unlock(ctx context.Context, key, owner string) (bool, error) {
	cmd := s.b().Arbitrary("EVAL").Args(unlockScript, "1").Keys(key).Args(owner).Build()
	n, err := s.do(ctx, cmd).AsInt64()
	if err != nil {
		return false, &db.Error{Op: db.OpEval, Key: key, Err: err}
	}
	return n == 1, nil
}
