package pvpchess

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	petname "github.com/dustinkirkland/golang-petname"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/park285/cheese-chess/internal/engine"
	"github.com/park285/cheese-chess/internal/obslog"
	"github.com/park285/cheese-chess/internal/render"
)

const defaultTTL = 24 * time.Hour

type Manager struct {
	rdb      *redis.Client
	repo     Repository
	renderer render.BoardRenderer
	log      *zap.Logger
	sim      engine.Simulation
	ttl      time.Duration
	now      func() time.Time
}

type Option func(*Manager)

// WithRepository wires a store for finished games.
func WithRepository(r Repository) Option { return func(m *Manager) { m.repo = r } }

// WithRenderer enables board images in ToDTO.
func WithRenderer(r render.BoardRenderer) Option { return func(m *Manager) { m.renderer = r } }

func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// WithSimulation sets the king-exposure strategy for newly created games.
// Existing games keep the mode they were created with.
func WithSimulation(s engine.Simulation) Option { return func(m *Manager) { m.sim = s } }

func WithTTL(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.ttl = d
		}
	}
}

func NewManager(redisURL string, opts ...Option) (*Manager, error) {
	if strings.TrimSpace(redisURL) == "" {
		return nil, fmt.Errorf("REDIS_URL required for PvP manager")
	}
	ropts, err := parseRedisURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(ropts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return NewManagerWithClient(rdb, opts...), nil
}

func NewManagerWithClient(rdb *redis.Client, opts ...Option) *Manager {
	m := &Manager{rdb: rdb, log: obslog.L(), ttl: defaultTTL, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	if m.repo == nil {
		m.repo = NewMemoryRepository()
	}
	return m
}

func (m *Manager) Close() error {
	if m == nil || m.rdb == nil {
		return nil
	}
	return m.rdb.Close()
}

func (m *Manager) Repository() Repository { return m.repo }

// Redis exposes the client so room-scoped features can share the connection.
func (m *Manager) Redis() *redis.Client { return m.rdb }

// CreateGame starts a game in room. Only one active game per room is allowed.
// white and black may be the same user, who then plays both sides.
func (m *Manager) CreateGame(ctx context.Context, room string, white, black Player) (*Game, error) {
	if m == nil || m.rdb == nil {
		return nil, ErrManagerNotReady
	}
	room = strings.TrimSpace(room)
	white.ID, black.ID = strings.TrimSpace(white.ID), strings.TrimSpace(black.ID)
	if room == "" || white.ID == "" || black.ID == "" {
		return nil, ErrInvalidPlayers
	}

	now := m.now()
	g := &Game{
		ID:         uuid.NewString(),
		Label:      petname.Generate(2, "-"),
		Room:       room,
		WhiteID:    white.ID,
		WhiteName:  displayName(white),
		BlackID:    black.ID,
		BlackName:  displayName(black),
		Moves:      []string{},
		Simulation: m.sim.String(),
		Turn:       White,
		Status:     StatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	raw, err := json.Marshal(g)
	if err != nil {
		return nil, err
	}

	rk := roomKey(room)
	err = m.rdb.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := m.activeIn(ctx, tx, room)
		if err != nil {
			return err
		}
		if cur != nil {
			return ErrGameInProgress
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, gameKey(g.ID), raw, m.ttl)
			pipe.Set(ctx, rk, g.ID, m.ttl)
			return nil
		})
		return err
	}, rk)
	if errors.Is(err, redis.TxFailedErr) {
		return nil, ErrConcurrentUpdate
	}
	if err != nil {
		return nil, err
	}

	m.log.Info("pvp_game_create",
		zap.String("game_id", g.ID),
		zap.String("label", g.Label),
		zap.String("room", g.Room),
		zap.String("white_id", g.WhiteID),
		zap.String("black_id", g.BlackID),
		zap.String("simulation", g.Simulation),
	)
	return g, nil
}

// ActiveGame returns the active game of room or ErrGameNotFound.
func (m *Manager) ActiveGame(ctx context.Context, room string) (*Game, error) {
	if m == nil || m.rdb == nil {
		return nil, ErrManagerNotReady
	}
	g, err := m.activeIn(ctx, m.rdb, strings.TrimSpace(room))
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGameNotFound
	}
	return g, nil
}

// LoadGame returns the game by ID regardless of status.
func (m *Manager) LoadGame(ctx context.Context, id string) (*Game, error) {
	if m == nil || m.rdb == nil {
		return nil, ErrManagerNotReady
	}
	g, err := m.get(ctx, m.rdb, id)
	if err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGameNotFound
	}
	return g, nil
}

// PlayMove applies from→to for userID in the room's active game. Rule
// violations come back as the engine's errors (engine.ErrIllegalMove,
// engine.ErrInvalidNotation) with nothing stored.
func (m *Manager) PlayMove(ctx context.Context, room, userID, from, to string) (*Game, error) {
	g, err := m.ActiveGame(ctx, room)
	if err != nil {
		return nil, err
	}
	userID = strings.TrimSpace(userID)
	oldLen := len(g.Moves)

	err = m.update(ctx, g.ID, func(cur *Game) error {
		if cur.Status != StatusActive || len(cur.Moves) != oldLen {
			return redis.TxFailedErr
		}
		side, ok := cur.colorOf(userID)
		if !ok {
			return ErrNotParticipant
		}
		if side != cur.Turn {
			return ErrNotYourTurn
		}
		eng, err := Replay(cur)
		if err != nil {
			return err
		}
		if err := eng.PlayNotation(from, to); err != nil {
			return err
		}
		last, _ := eng.LastMove()
		cur.Moves = append(cur.Moves, last.String())
		applyEngineState(cur, eng)
		cur.UpdatedAt = m.now()
		g = cur
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.log.Info("pvp_move",
		zap.String("game_id", g.ID),
		zap.String("user_id", userID),
		zap.String("move", g.Moves[len(g.Moves)-1]),
		zap.String("turn", string(g.Turn)),
		zap.String("status", string(g.Status)),
		zap.Bool("in_check", g.InCheck),
	)
	switch g.Status {
	case StatusCheckmate:
		_ = m.persistIfFinal(ctx, g, "checkmate")
	case StatusStalemate:
		_ = m.persistIfFinal(ctx, g, "stalemate")
	}
	return g, nil
}

// Resign ends the room's active game in favour of the resigner's opponent. In a
// hot-seat game the side to move resigns.
func (m *Manager) Resign(ctx context.Context, room, userID string) (*Game, error) {
	g, err := m.ActiveGame(ctx, room)
	if err != nil {
		return nil, err
	}
	userID = strings.TrimSpace(userID)
	err = m.update(ctx, g.ID, func(cur *Game) error {
		if cur.Status != StatusActive {
			return ErrGameNotFound
		}
		side, ok := cur.colorOf(userID)
		if !ok {
			return ErrNotParticipant
		}
		winner := Black
		winnerID := cur.BlackID
		if side == Black {
			winner, winnerID = White, cur.WhiteID
		}
		cur.Status = StatusResigned
		cur.Winner = winnerID
		cur.WinnerColor = winner
		cur.Result = fmt.Sprintf("%s wins by resignation", sideTitle(winner))
		cur.UpdatedAt = m.now()
		g = cur
		return nil
	})
	if err != nil {
		return nil, err
	}
	m.log.Info("pvp_resign",
		zap.String("game_id", g.ID),
		zap.String("resigner", userID),
		zap.String("winner", g.Winner),
	)
	_ = m.persistIfFinal(ctx, g, "resignation")
	return g, nil
}

// Restart aborts the room's active game and starts a fresh one with the same
// players and colours.
func (m *Manager) Restart(ctx context.Context, room, userID string) (*Game, error) {
	g, err := m.ActiveGame(ctx, room)
	if err != nil {
		return nil, err
	}
	userID = strings.TrimSpace(userID)
	err = m.update(ctx, g.ID, func(cur *Game) error {
		if cur.Status != StatusActive {
			return ErrGameNotFound
		}
		if _, ok := cur.colorOf(userID); !ok {
			return ErrNotParticipant
		}
		cur.Status = StatusAborted
		cur.Result = "Game aborted"
		cur.UpdatedAt = m.now()
		g = cur
		return nil
	})
	if err != nil {
		return nil, err
	}
	m.log.Info("pvp_restart", zap.String("game_id", g.ID), zap.String("user_id", userID))
	return m.CreateGame(ctx, g.Room,
		Player{ID: g.WhiteID, Name: g.WhiteName},
		Player{ID: g.BlackID, Name: g.BlackName})
}

// History lists the most recent finished games of room.
func (m *Manager) History(ctx context.Context, room string, limit int) ([]*GameSummary, error) {
	recs, err := m.repo.RecentByRoom(ctx, strings.TrimSpace(room), limit)
	if err != nil {
		return nil, err
	}
	out := make([]*GameSummary, 0, len(recs))
	for _, r := range recs {
		out = append(out, summaryOf(r))
	}
	return out, nil
}

// Replay rebuilds the engine state of g from its move list.
func Replay(g *Game) (*engine.Game, error) {
	sim, err := engine.ParseSimulation(g.Simulation)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptMoveRecord, err)
	}
	eng := engine.NewGame(engine.WithSimulation(sim))
	for i, mv := range g.Moves {
		if len(mv) != 4 {
			return nil, fmt.Errorf("%w: move %d %q", ErrCorruptMoveRecord, i+1, mv)
		}
		if err := eng.PlayNotation(mv[:2], mv[2:]); err != nil {
			return nil, fmt.Errorf("%w: move %d %q: %v", ErrCorruptMoveRecord, i+1, mv, err)
		}
	}
	return eng, nil
}

func applyEngineState(g *Game, eng *engine.Game) {
	g.Turn = colorOf(eng.Turn())
	g.InCheck = eng.InCheck()
	switch eng.State() {
	case engine.Checkmate:
		w, _ := eng.Winner()
		g.Status = StatusCheckmate
		g.WinnerColor = colorOf(w)
		g.Winner = g.WhiteID
		if w == engine.Black {
			g.Winner = g.BlackID
		}
		g.Result = eng.Result()
	case engine.Stalemate:
		g.Status = StatusStalemate
		g.Result = eng.Result()
	}
}

// update runs fn on the stored game under WATCH and writes the result back.
// Errors returned by fn abort the transaction unchanged.
func (m *Manager) update(ctx context.Context, id string, fn func(cur *Game) error) error {
	gk := gameKey(id)
	err := m.rdb.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := m.get(ctx, tx, id)
		if err != nil {
			return err
		}
		if cur == nil {
			return ErrGameNotFound
		}
		if err := fn(cur); err != nil {
			return err
		}
		raw, err := json.Marshal(cur)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, gk, raw, m.ttl)
			if cur.Status.Final() {
				pipe.Del(ctx, roomKey(cur.Room))
			} else {
				pipe.Expire(ctx, roomKey(cur.Room), m.ttl)
			}
			return nil
		})
		return err
	}, gk)
	if errors.Is(err, redis.TxFailedErr) {
		return ErrConcurrentUpdate
	}
	return err
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (m *Manager) get(ctx context.Context, c getter, id string) (*Game, error) {
	raw, err := c.Get(ctx, gameKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var g Game
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, fmt.Errorf("decode game %s: %w", id, err)
	}
	return &g, nil
}

func (m *Manager) activeIn(ctx context.Context, c getter, room string) (*Game, error) {
	id, err := c.Get(ctx, roomKey(room)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	g, err := m.get(ctx, c, id)
	if err != nil || g == nil || g.Status != StatusActive {
		return nil, err
	}
	return g, nil
}

// persistIfFinal saves the final game result to the repository.
func (m *Manager) persistIfFinal(ctx context.Context, g *Game, method string) error {
	if m.repo == nil || g == nil || !g.Status.Final() || g.Status == StatusAborted {
		return nil
	}
	rec := recordOf(g, method)
	if err := m.repo.SaveResult(ctx, rec); err != nil {
		if errors.Is(err, ErrDuplicateGame) {
			return nil
		}
		m.log.Error("pvp_result_persist_error", zap.String("game_id", g.ID), zap.String("result", rec.Result), zap.Error(err))
		return err
	}
	m.log.Info("pvp_result_persist", zap.String("game_id", g.ID), zap.String("result", rec.Result), zap.String("method", method))
	return nil
}

func displayName(p Player) string {
	if n := strings.TrimSpace(p.Name); n != "" {
		return n
	}
	return p.ID
}

func sideTitle(c Color) string {
	if c == Black {
		return "Black"
	}
	return "White"
}

func gameKey(id string) string   { return "chess:game:" + strings.TrimSpace(id) }
func roomKey(room string) string { return "chess:room:" + strings.TrimSpace(room) }

func parseRedisURL(raw string) (*redis.Options, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "redis" && u.Scheme != "rediss" {
		return nil, fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}
	db := 0
	if p := strings.TrimPrefix(u.Path, "/"); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid redis db %q", p)
		}
		db = n
	}
	pass, _ := u.User.Password()
	return &redis.Options{Addr: u.Host, Username: u.User.Username(), Password: pass, DB: db}, nil
}
