package pvpchan

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultTTL = 10 * time.Minute

// Store keeps challenges and the per-room pointer to the open one.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Store{rdb: rdb, ttl: ttl}
}

func keyChallenge(code string) string { return "ch:" + strings.TrimSpace(code) }
func keyRoom(room string) string      { return "ch:room:" + strings.TrimSpace(room) }

// Reserve points room at code unless another challenge holds it.
func (s *Store) Reserve(ctx context.Context, room, code string) (bool, error) {
	return s.rdb.SetNX(ctx, keyRoom(room), code, s.ttl).Result()
}

func (s *Store) Save(ctx context.Context, c *Challenge) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, keyChallenge(c.Code), raw, s.ttl).Err()
}

func (s *Store) CodeForRoom(ctx context.Context, room string) (string, error) {
	code, err := s.rdb.Get(ctx, keyRoom(room)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNoChallenge
	}
	return code, err
}

func (s *Store) Load(ctx context.Context, code string) (*Challenge, error) {
	return load(ctx, s.rdb, code)
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func load(ctx context.Context, c getter, code string) (*Challenge, error) {
	raw, err := c.Get(ctx, keyChallenge(code)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoChallenge
	}
	if err != nil {
		return nil, err
	}
	var ch Challenge
	if err := json.Unmarshal(raw, &ch); err != nil {
		return nil, fmt.Errorf("decode challenge: %w", err)
	}
	return &ch, nil
}

// Release drops the room pointer if it still names code.
func (s *Store) Release(ctx context.Context, room, code string) error {
	key := keyRoom(room)
	return s.rdb.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) || (err == nil && cur != code) {
			return nil
		}
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Del(ctx, key)
			return nil
		})
		return err
	}, key)
}

// codeGen returns "CH-" and six upper-case alphanumerics.
func codeGen() (string, error) {
	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	for i := range b {
		b[i] = letters[int(b[i])%len(letters)]
	}
	return "CH-" + string(b), nil
}
