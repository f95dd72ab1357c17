// Package pvpchan lets a player post an open challenge in a room that anyone
// else there can accept.
package pvpchan

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/park285/cheese-chess/internal/obslog"
	"github.com/park285/cheese-chess/internal/pvpchess"
)

type Manager struct {
	rdb   *redis.Client
	store *Store
	games *pvpchess.Manager
	log   *zap.Logger
	now   func() time.Time
	start func(ctx context.Context, room string, white, black pvpchess.Player) (*pvpchess.Game, error)
}

func NewManager(rdb *redis.Client, games *pvpchess.Manager, ttl time.Duration) *Manager {
	return &Manager{rdb: rdb, store: NewStore(rdb, ttl), games: games, log: obslog.L(), now: time.Now, start: games.CreateGame}
}

// Open posts a challenge in room. It fails while the room has a running
// game or another open challenge.
func (m *Manager) Open(ctx context.Context, room string, creator pvpchess.Player, color ColorChoice) (*Challenge, error) {
	if strings.TrimSpace(room) == "" || strings.TrimSpace(creator.ID) == "" {
		return nil, ErrInvalidArgs
	}
	if _, err := m.games.ActiveGame(ctx, room); err == nil {
		return nil, pvpchess.ErrGameInProgress
	} else if !errors.Is(err, pvpchess.ErrGameNotFound) {
		return nil, err
	}

	code, err := codeGen()
	if err != nil {
		return nil, err
	}
	ok, err := m.store.Reserve(ctx, room, code)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrChallengeExists
	}
	ch := &Challenge{
		Code:        code,
		Room:        room,
		State:       StateOpen,
		Color:       color,
		CreatorID:   creator.ID,
		CreatorName: creator.Name,
		CreatedAt:   m.now(),
	}
	if err := m.store.Save(ctx, ch); err != nil {
		_ = m.store.Release(ctx, room, code)
		return nil, err
	}
	m.log.Info("challenge_open", zap.String("code", code), zap.String("room", room), zap.String("creator_id", creator.ID))
	return ch, nil
}

// Pending returns the open challenge of room.
func (m *Manager) Pending(ctx context.Context, room string) (*Challenge, error) {
	code, err := m.store.CodeForRoom(ctx, room)
	if err != nil {
		return nil, err
	}
	return m.store.Load(ctx, code)
}

// Join accepts the room's challenge (or the one named by code) and starts
// the game. Exactly one joiner wins a race; the others get ErrChallengeClaimed.
func (m *Manager) Join(ctx context.Context, room, code string, joiner pvpchess.Player) (*pvpchess.Game, error) {
	if strings.TrimSpace(joiner.ID) == "" {
		return nil, ErrInvalidArgs
	}
	if _, err := m.games.ActiveGame(ctx, room); err == nil {
		return nil, pvpchess.ErrGameInProgress
	} else if !errors.Is(err, pvpchess.ErrGameNotFound) {
		return nil, err
	}
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		c, err := m.store.CodeForRoom(ctx, room)
		if err != nil {
			return nil, err
		}
		code = c
	}

	var ch *Challenge
	key := keyChallenge(code)
	err := m.rdb.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := load(ctx, tx, code)
		if err != nil {
			return err
		}
		if cur.Room != room {
			return ErrNoChallenge
		}
		if cur.State != StateOpen {
			return ErrChallengeClaimed
		}
		if cur.CreatorID == joiner.ID {
			return ErrSelfJoin
		}
		cur.State = StateClaimed
		ch = cur
		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Del(ctx, key)
			return nil
		})
		return err
	}, key)
	if errors.Is(err, redis.TxFailedErr) {
		return nil, ErrChallengeClaimed
	}
	if err != nil {
		return nil, err
	}
	_ = m.store.Release(ctx, room, code)

	creator := pvpchess.Player{ID: ch.CreatorID, Name: ch.CreatorName}
	white, black := creator, joiner
	if ch.Color == ColorBlack || (ch.Color == ColorRandom && rand.IntN(2) == 1) {
		white, black = joiner, creator
	}
	g, err := m.start(ctx, room, white, black)
	if err != nil {
		m.restore(ctx, ch)
		return nil, fmt.Errorf("start challenge %s: %w", code, err)
	}
	m.log.Info("challenge_accepted", zap.String("code", code), zap.String("game_id", g.ID), zap.String("joiner_id", joiner.ID))
	return g, nil
}

// Cancel withdraws the room's challenge. Only its creator may do so.
func (m *Manager) Cancel(ctx context.Context, room, userID string) (*Challenge, error) {
	ch, err := m.Pending(ctx, room)
	if err != nil {
		return nil, err
	}
	if ch.CreatorID != userID {
		return nil, ErrNotChallenger
	}
	if err := m.rdb.Del(ctx, keyChallenge(ch.Code)).Err(); err != nil {
		return nil, err
	}
	if err := m.store.Release(ctx, room, ch.Code); err != nil {
		return nil, err
	}
	m.log.Info("challenge_cancel", zap.String("code", ch.Code), zap.String("room", room))
	return ch, nil
}

// restore reopens a claimed challenge whose game could not be started.
func (m *Manager) restore(ctx context.Context, ch *Challenge) {
	ch.State = StateOpen
	if err := m.store.Save(ctx, ch); err != nil {
		m.log.Warn("challenge_restore_error", zap.String("code", ch.Code), zap.Error(err))
		return
	}
	if ok, err := m.store.Reserve(ctx, ch.Room, ch.Code); err != nil || !ok {
		m.log.Warn("challenge_restore_room", zap.String("code", ch.Code), zap.Bool("reserved", ok), zap.Error(err))
	}
}
