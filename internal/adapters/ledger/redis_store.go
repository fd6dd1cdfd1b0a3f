package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/SscSPs/heartchain_backend/internal/apperrors"
	"github.com/SscSPs/heartchain_backend/internal/core/domain"
	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "heartchain:ledger:"

// appendScript writes the record only if its key is new, then updates the
// ordering list and both aggregates in the same atomic step.
var appendScript = redis.NewScript(`
if redis.call('SETNX', KEYS[1], ARGV[1]) == 0 then
  return 0
end
redis.call('LPUSH', KEYS[2], ARGV[2])
redis.call('INCR', KEYS[3])
redis.call('INCRBY', KEYS[4], ARGV[3])
return 1
`)

// RedisStore persists ledger records in Redis so aggregates survive restarts.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a RedisStore. An empty prefix uses the default.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

var _ Store = (*RedisStore)(nil)

func (s *RedisStore) recordKey(txID string) string { return s.prefix + "tx:" + txID }
func (s *RedisStore) orderKey() string            { return s.prefix + "order" }
func (s *RedisStore) countKey() string            { return s.prefix + "count" }
func (s *RedisStore) amountKey() string           { return s.prefix + "amount_paise" }

func (s *RedisStore) Append(ctx context.Context, rec domain.LedgerRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode ledger record: %w", err)
	}

	keys := []string{s.recordKey(rec.TxID), s.orderKey(), s.countKey(), s.amountKey()}
	added, err := appendScript.Run(ctx, s.client, keys, payload, rec.TxID, rec.AmountMinor).Int()
	if err != nil {
		return apperrors.Downstream("redis ledger append", err)
	}
	if added == 0 {
		return fmt.Errorf("ledger record %s: %w", rec.TxID, apperrors.ErrDuplicate)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, txID string) (*domain.LedgerRecord, error) {
	raw, err := s.client.Get(ctx, s.recordKey(txID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Downstream("redis ledger get", err)
	}
	var rec domain.LedgerRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode ledger record %s: %w", txID, err)
	}
	return &rec, nil
}

func (s *RedisStore) Recent(ctx context.Context, limit int) ([]domain.LedgerRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	ids, err := s.client.LRange(ctx, s.orderKey(), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, apperrors.Downstream("redis ledger list", err)
	}
	if len(ids) == 0 {
		return []domain.LedgerRecord{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.recordKey(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, apperrors.Downstream("redis ledger mget", err)
	}

	out := make([]domain.LedgerRecord, 0, len(values))
	for _, v := range values {
		str, ok := v.(string)
		if !ok {
			continue
		}
		var rec domain.LedgerRecord
		if err := json.Unmarshal([]byte(str), &rec); err != nil {
			return nil, fmt.Errorf("failed to decode ledger record: %w", err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *RedisStore) Count(ctx context.Context) (int64, error) {
	return s.counter(ctx, s.countKey())
}

func (s *RedisStore) TotalAmount(ctx context.Context) (int64, error) {
	return s.counter(ctx, s.amountKey())
}

func (s *RedisStore) counter(ctx context.Context, key string) (int64, error) {
	n, err := s.client.Get(ctx, key).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, apperrors.Downstream("redis ledger counter", err)
	}
	return n, nil
}
