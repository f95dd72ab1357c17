package pvpchess

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/park285/cheese-chess/internal/domain"
)

// Repository stores finished games.
type Repository interface {
	SaveResult(ctx context.Context, rec *domain.GameRecord) error
	RecentByRoom(ctx context.Context, room string, limit int) ([]*domain.GameRecord, error)
}

// GameSummary is the history view of a finished game.
type GameSummary struct {
	GameID    string
	Label     string
	WhiteName string
	BlackName string
	Result    string
	Method    string
	MoveCount int
	EndedAt   time.Time
}

func summaryOf(r *domain.GameRecord) *GameSummary {
	return &GameSummary{
		GameID:    r.GameID,
		Label:     r.Label,
		WhiteName: r.WhiteName,
		BlackName: r.BlackName,
		Result:    r.Result,
		Method:    r.ResultMethod,
		MoveCount: len(r.Moves),
		EndedAt:   r.EndedAt,
	}
}

func recordOf(g *Game, method string) *domain.GameRecord {
	rec := &domain.GameRecord{
		GameID:       g.ID,
		Label:        g.Label,
		Room:         g.Room,
		WhiteID:      g.WhiteID,
		WhiteName:    g.WhiteName,
		BlackID:      g.BlackID,
		BlackName:    g.BlackName,
		Result:       g.outcome(),
		ResultMethod: method,
		Moves:        append([]string(nil), g.Moves...),
		StartedAt:    g.CreatedAt,
		EndedAt:      g.UpdatedAt,
	}
	if d := g.UpdatedAt.Sub(g.CreatedAt); d > 0 {
		rec.Duration = d
	}
	rec.PGN = buildPGN(rec)
	return rec
}

// PostgresRepository keeps results in the chess_games table:
//
//	CREATE TABLE chess_games (
//	  id BIGSERIAL PRIMARY KEY, game_id TEXT UNIQUE NOT NULL, label TEXT,
//	  room TEXT NOT NULL, white_id TEXT, white_name TEXT, black_id TEXT,
//	  black_name TEXT, result TEXT, result_method TEXT, moves JSONB, pgn TEXT,
//	  started_at TIMESTAMPTZ, ended_at TIMESTAMPTZ, duration_ms BIGINT);
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(databaseURL string) (*PostgresRepository, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(30 * time.Minute)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &PostgresRepository{db: db}, nil
}

func NewPostgresRepositoryWithDB(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *PostgresRepository) SaveResult(ctx context.Context, rec *domain.GameRecord) error {
	if rec == nil {
		return fmt.Errorf("nil game record")
	}
	moves, err := json.Marshal(rec.Moves)
	if err != nil {
		return fmt.Errorf("marshal moves: %w", err)
	}

	const query = `
		INSERT INTO chess_games (
			game_id, label, room,
			white_id, white_name, black_id, black_name,
			result, result_method, moves, pgn,
			started_at, ended_at, duration_ms
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10::jsonb, $11, $12, $13, $14)
		ON CONFLICT (game_id) DO NOTHING
		RETURNING id`

	var id sql.NullInt64
	err = r.db.QueryRowContext(ctx, query,
		rec.GameID, rec.Label, rec.Room,
		rec.WhiteID, rec.WhiteName, rec.BlackID, rec.BlackName,
		rec.Result, rec.ResultMethod, moves, rec.PGN,
		rec.StartedAt, rec.EndedAt, rec.Duration.Milliseconds(),
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) || (err == nil && !id.Valid) {
		return ErrDuplicateGame
	}
	if err != nil {
		return fmt.Errorf("insert chess game: %w", err)
	}
	rec.ID = id.Int64
	return nil
}

func (r *PostgresRepository) RecentByRoom(ctx context.Context, room string, limit int) ([]*domain.GameRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	const query = `
		SELECT
			id, game_id, label, room,
			white_id, white_name, black_id, black_name,
			result, result_method, moves, pgn,
			started_at, ended_at, duration_ms
		FROM chess_games
		WHERE room = $1
		ORDER BY ended_at DESC
		LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, room, limit)
	if err != nil {
		return nil, fmt.Errorf("select chess games: %w", err)
	}
	defer rows.Close()

	out := make([]*domain.GameRecord, 0, limit)
	for rows.Next() {
		var (
			rec        domain.GameRecord
			movesJSON  []byte
			durationMS sql.NullInt64
		)
		if err := rows.Scan(
			&rec.ID, &rec.GameID, &rec.Label, &rec.Room,
			&rec.WhiteID, &rec.WhiteName, &rec.BlackID, &rec.BlackName,
			&rec.Result, &rec.ResultMethod, &movesJSON, &rec.PGN,
			&rec.StartedAt, &rec.EndedAt, &durationMS,
		); err != nil {
			return nil, fmt.Errorf("scan chess game: %w", err)
		}
		if durationMS.Valid {
			rec.Duration = time.Duration(durationMS.Int64) * time.Millisecond
		}
		if err := json.Unmarshal(movesJSON, &rec.Moves); err != nil {
			return nil, fmt.Errorf("unmarshal moves: %w", err)
		}
		out = append(out, &rec)
	}
	return out, rows.Err()
}

// buildPGN writes a PGN record with coordinate moves ("1. e2e4 e7e5").
func buildPGN(rec *domain.GameRecord) string {
	var b strings.Builder
	date := rec.EndedAt
	if date.IsZero() {
		date = time.Now()
	}
	result := rec.PGNResult()
	fmt.Fprintf(&b, "[Event \"Chat game %s\"]\n", sanitizePGN(rec.Label))
	b.WriteString("[Site \"Iris\"]\n")
	fmt.Fprintf(&b, "[Date \"%04d.%02d.%02d\"]\n", date.Year(), int(date.Month()), date.Day())
	fmt.Fprintf(&b, "[White \"%s\"]\n", sanitizePGN(rec.WhiteName))
	fmt.Fprintf(&b, "[Black \"%s\"]\n", sanitizePGN(rec.BlackName))
	if m := strings.TrimSpace(rec.ResultMethod); m != "" {
		fmt.Fprintf(&b, "[Termination \"%s\"]\n", sanitizePGN(m))
	}
	fmt.Fprintf(&b, "[Result \"%s\"]\n\n", result)

	for i := 0; i < len(rec.Moves); i += 2 {
		fmt.Fprintf(&b, "%d. %s ", i/2+1, rec.Moves[i])
		if i+1 < len(rec.Moves) {
			b.WriteString(rec.Moves[i+1])
			b.WriteByte(' ')
		}
	}
	b.WriteString(result)
	return b.String()
}

func sanitizePGN(s string) string {
	s = strings.ReplaceAll(s, "\\", " ")
	s = strings.ReplaceAll(s, "\"", "'")
	return strings.TrimSpace(s)
}
