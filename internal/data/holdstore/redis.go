package holdstore

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Lua scripts run atomically server-side: the check of the current hold and
// the write of the new one are a single step, so concurrent acquirers for
// the same seat can never both observe it free.

const acquireScript = `
local status = redis.call('HGET', KEYS[1], 'status')
if status == 'sold' then
  return 'sold'
end
local token = redis.call('HGET', KEYS[1], 'token')
if token and token ~= ARGV[1] then
  local exp = tonumber(redis.call('HGET', KEYS[1], 'expires_at') or '0')
  if exp == 0 or exp > tonumber(ARGV[4]) then
    return 'held'
  end
  redis.call('HSET', KEYS[1], 'prev_token', token)
end
redis.call('HSET', KEYS[1], 'status', ARGV[2], 'token', ARGV[1], 'kind', ARGV[3], 'expires_at', ARGV[5])
if tonumber(ARGV[5]) > 0 then
  redis.call('PEXPIREAT', KEYS[1], ARGV[5])
else
  redis.call('PERSIST', KEYS[1])
end
redis.call('SADD', KEYS[2], ARGV[6])
return 'ok'
`

const releaseScript = `
local status = redis.call('HGET', KEYS[1], 'status')
if not status or status == 'sold' then
  return 'ok'
end
local exp = tonumber(redis.call('HGET', KEYS[1], 'expires_at') or '0')
if exp ~= 0 and exp <= tonumber(ARGV[2]) then
  redis.call('DEL', KEYS[1])
  return 'ok'
end
if redis.call('HGET', KEYS[1], 'token') ~= ARGV[1] then
  if redis.call('HGET', KEYS[1], 'prev_token') == ARGV[1] then
    return 'ok'
  end
  return 'notholder'
end
redis.call('DEL', KEYS[1])
return 'ok'
`

const commitScript = `
local status = redis.call('HGET', KEYS[1], 'status')
if not status then
  return 'nohold'
end
if status == 'sold' then
  return 'sold'
end
local exp = tonumber(redis.call('HGET', KEYS[1], 'expires_at') or '0')
if exp ~= 0 and exp <= tonumber(ARGV[2]) then
  redis.call('DEL', KEYS[1])
  return 'expired'
end
if redis.call('HGET', KEYS[1], 'token') ~= ARGV[1] then
  if redis.call('HGET', KEYS[1], 'prev_token') == ARGV[1] then
    return 'expired'
  end
  return 'notholder'
end
redis.call('HSET', KEYS[1], 'status', 'sold', 'expires_at', '0')
redis.call('PERSIST', KEYS[1])
return 'ok'
`

// RedisStore keeps reservation state in Redis so multiple API processes
// share one source of truth. Held keys carry a PEXPIREAT matching the
// hold's expiry; sold and reserved keys are persisted.
type RedisStore struct {
	rdb redis.Cmdable
	now func() time.Time
	log *zap.Logger
}

func NewRedisStore(rdb redis.Cmdable, log *zap.Logger) *RedisStore {
	return &RedisStore{
		rdb: rdb,
		now: time.Now,
		log: log.With(zap.String("holdstore", "redis")),
	}
}

func seatHashKey(seatMapID, seatID uuid.UUID) string {
	return fmt.Sprintf("seatchart:seat:%s:%s", seatMapID, seatID)
}

func chartSetKey(seatMapID uuid.UUID) string {
	return fmt.Sprintf("seatchart:chart:%s:seats", seatMapID)
}

func (s *RedisStore) Acquire(ctx context.Context, seatMapID, seatID uuid.UUID, token string, ttl time.Duration, kind HoldKind) (Hold, error) {
	now := s.now()

	statusName := string(StatusHeld)
	expiresAt := now.Add(ttl)
	expMs := expiresAt.UnixMilli()
	if kind == KindOrganizer {
		statusName = string(StatusReserved)
		expiresAt = time.Time{}
		expMs = 0
	}

	result, err := s.rdb.Eval(ctx, acquireScript,
		[]string{seatHashKey(seatMapID, seatID), chartSetKey(seatMapID)},
		token, statusName, string(kind),
		strconv.FormatInt(now.UnixMilli(), 10),
		strconv.FormatInt(expMs, 10),
		seatID.String(),
	).Result()
	if err != nil {
		return Hold{}, fmt.Errorf("acquire hold: %w", err)
	}

	switch result {
	case "ok":
		return Hold{
			SeatMapID: seatMapID,
			SeatID:    seatID,
			Token:     token,
			Kind:      kind,
			ExpiresAt: expiresAt,
		}, nil
	case "held":
		return Hold{}, ErrSeatHeld
	case "sold":
		return Hold{}, ErrSeatSold
	default:
		return Hold{}, fmt.Errorf("acquire hold: unexpected script result %v", result)
	}
}

func (s *RedisStore) Release(ctx context.Context, seatMapID, seatID uuid.UUID, token string) error {
	result, err := s.rdb.Eval(ctx, releaseScript,
		[]string{seatHashKey(seatMapID, seatID)},
		token,
		strconv.FormatInt(s.now().UnixMilli(), 10),
	).Result()
	if err != nil {
		return fmt.Errorf("release hold: %w", err)
	}

	if result == "notholder" {
		return ErrNotHolder
	}
	return nil
}

func (s *RedisStore) Commit(ctx context.Context, seatMapID, seatID uuid.UUID, token string) error {
	result, err := s.rdb.Eval(ctx, commitScript,
		[]string{seatHashKey(seatMapID, seatID)},
		token,
		strconv.FormatInt(s.now().UnixMilli(), 10),
	).Result()
	if err != nil {
		return fmt.Errorf("commit hold: %w", err)
	}

	switch result {
	case "ok":
		return nil
	case "expired":
		return ErrHoldExpired
	case "notholder", "nohold":
		return ErrNotHolder
	case "sold":
		return ErrSeatSold
	default:
		return fmt.Errorf("commit hold: unexpected script result %v", result)
	}
}

func (s *RedisStore) Status(ctx context.Context, seatMapID, seatID uuid.UUID) (SeatStatus, *Hold, error) {
	fields, err := s.rdb.HGetAll(ctx, seatHashKey(seatMapID, seatID)).Result()
	if err != nil {
		return "", nil, fmt.Errorf("seat status: %w", err)
	}

	return s.interpret(seatMapID, seatID, fields)
}

func (s *RedisStore) BulkStatus(ctx context.Context, seatMapID uuid.UUID) (map[uuid.UUID]SeatStatus, error) {
	members, err := s.rdb.SMembers(ctx, chartSetKey(seatMapID)).Result()
	if err != nil {
		return nil, fmt.Errorf("chart seat set: %w", err)
	}

	statuses := make(map[uuid.UUID]SeatStatus, len(members))
	for _, member := range members {
		seatID, err := uuid.Parse(member)
		if err != nil {
			s.log.Warn("skipping malformed seat id in chart set", zap.String("member", member))
			continue
		}

		status, _, err := s.Status(ctx, seatMapID, seatID)
		if err != nil {
			return nil, err
		}
		if status != StatusAvailable {
			statuses[seatID] = status
		}
	}

	return statuses, nil
}

func (s *RedisStore) Close() error {
	return nil
}

// interpret maps a seat hash to its status, applying the lazy expiry check
// in case the key outlived its PEXPIREAT by clock skew.
func (s *RedisStore) interpret(seatMapID, seatID uuid.UUID, fields map[string]string) (SeatStatus, *Hold, error) {
	if len(fields) == 0 {
		return StatusAvailable, nil, nil
	}

	if fields["status"] == string(StatusSold) {
		return StatusSold, nil, nil
	}

	expMs, _ := strconv.ParseInt(fields["expires_at"], 10, 64)
	hold := Hold{
		SeatMapID: seatMapID,
		SeatID:    seatID,
		Token:     fields["token"],
		Kind:      HoldKind(fields["kind"]),
	}
	if expMs > 0 {
		hold.ExpiresAt = time.UnixMilli(expMs)
	}

	if hold.Expired(s.now()) {
		return StatusAvailable, nil, nil
	}

	if hold.Kind == KindOrganizer {
		return StatusReserved, &hold, nil
	}
	return StatusHeld, &hold, nil
}
