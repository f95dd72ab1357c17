package pvpchess

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/park285/cheese-chess/internal/domain"
)

// memrepo is the in-memory Repository used when no database is configured.
type memrepo struct {
	mu     sync.RWMutex
	nextID int64
	byGame map[string]*domain.GameRecord
	byRoom map[string][]*domain.GameRecord
}

func NewMemoryRepository() Repository {
	return &memrepo{
		byGame: make(map[string]*domain.GameRecord),
		byRoom: make(map[string][]*domain.GameRecord),
	}
}

func (m *memrepo) SaveResult(ctx context.Context, rec *domain.GameRecord) error {
	if rec == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := strings.TrimSpace(rec.GameID)
	if _, exists := m.byGame[key]; exists {
		return ErrDuplicateGame
	}
	m.nextID++
	rec.ID = m.nextID
	cp := *rec
	cp.Moves = append([]string(nil), rec.Moves...)
	m.byGame[key] = &cp
	m.byRoom[cp.Room] = append(m.byRoom[cp.Room], &cp)
	return nil
}

func (m *memrepo) RecentByRoom(ctx context.Context, room string, limit int) ([]*domain.GameRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	items := append([]*domain.GameRecord(nil), m.byRoom[room]...)
	sort.Slice(items, func(i, j int) bool {
		if !items[i].EndedAt.Equal(items[j].EndedAt) {
			return items[i].EndedAt.After(items[j].EndedAt)
		}
		return items[i].ID > items[j].ID
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	out := make([]*domain.GameRecord, 0, len(items))
	for _, r := range items {
		cp := *r
		out = append(out, &cp)
	}
	return out, nil
}
