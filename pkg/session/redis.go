package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig configures RedisStore. Field tags are read by pkg/config.
type RedisConfig struct {
	Prefix string `env:"SESSION_REDIS_PREFIX" envDefault:"session:"`
}

// RedisStore keeps sessions in Redis as JSON with a TTL matching their expiry.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore creates a store over client.
func NewRedisStore(client redis.UniversalClient, cfg RedisConfig) *RedisStore {
	if cfg.Prefix == "" {
		cfg.Prefix = "session:"
	}
	return &RedisStore{client: client, prefix: cfg.Prefix}
}

func (r *RedisStore) tokenKey(token string) string { return r.prefix + "t:" + token }
func (r *RedisStore) idKey(id string) string       { return r.prefix + "id:" + id }

func (r *RedisStore) Create(ctx context.Context, s *Session) error {
	return r.write(ctx, s, "")
}

func (r *RedisStore) Get(ctx context.Context, token string) (*Session, error) {
	raw, err := r.client.Get(ctx, r.tokenKey(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("session: redis get: %w", err)
	}

	s, err := decode(raw)
	if err != nil {
		return nil, err
	}
	if s.IsExpired() {
		return nil, ErrExpired
	}
	return s, nil
}

func (r *RedisStore) Update(ctx context.Context, s *Session) error {
	old, err := r.client.Get(ctx, r.idKey(s.ID)).Result()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("session: redis get: %w", err)
	}
	return r.write(ctx, s, old)
}

func (r *RedisStore) Delete(ctx context.Context, token string) error {
	s, err := r.Get(ctx, token)
	if errors.Is(err, ErrNotFound) {
		return nil
	}

	keys := []string{r.tokenKey(token)}
	if s != nil {
		keys = append(keys, r.idKey(s.ID))
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("session: redis del: %w", err)
	}
	return nil
}

func (r *RedisStore) Touch(ctx context.Context, token string, lastActiveAt time.Time) error {
	s, err := r.Get(ctx, token)
	if err != nil {
		return err
	}
	s.LastActiveAt = lastActiveAt

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("session: encode: %w", err)
	}
	if err := r.client.SetArgs(ctx, r.tokenKey(token), data, redis.SetArgs{KeepTTL: true, Mode: "XX"}).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("session: redis touch: %w", err)
	}
	return nil
}

// write stores s under its token and drops oldToken when it changed.
func (r *RedisStore) write(ctx context.Context, s *Session, oldToken string) error {
	ttl := s.TTL()
	if ttl <= 0 {
		return ErrExpired
	}

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("session: encode: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, r.tokenKey(s.Token), data, ttl)
		p.Set(ctx, r.idKey(s.ID), s.Token, ttl)
		if oldToken != "" && oldToken != s.Token {
			p.Del(ctx, r.tokenKey(oldToken))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("session: redis write: %w", err)
	}
	return nil
}

func decode(raw []byte) (*Session, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var s Session
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("session: decode: %w", err)
	}
	if s.Values == nil {
		s.Values = make(map[string]any)
	}
	return &s, nil
}
