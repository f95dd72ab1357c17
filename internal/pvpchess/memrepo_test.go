package pvpchess

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/park285/cheese-chess/internal/domain"
)

func TestMemoryRepositoryOrderAndDuplicates(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"g1", "g2", "g3"} {
		rec := &domain.GameRecord{GameID: id, Room: "room", Result: "white", EndedAt: base.Add(time.Duration(i) * time.Minute)}
		if err := repo.SaveResult(ctx, rec); err != nil {
			t.Fatalf("SaveResult(%s): %v", id, err)
		}
		if rec.ID != int64(i+1) {
			t.Fatalf("id = %d", rec.ID)
		}
	}
	if err := repo.SaveResult(ctx, &domain.GameRecord{GameID: "g2", Room: "room"}); !errors.Is(err, ErrDuplicateGame) {
		t.Fatalf("duplicate err = %v", err)
	}
	if err := repo.SaveResult(ctx, &domain.GameRecord{GameID: "x", Room: "other"}); err != nil {
		t.Fatalf("other room: %v", err)
	}

	got, err := repo.RecentByRoom(ctx, "room", 2)
	if err != nil {
		t.Fatalf("RecentByRoom: %v", err)
	}
	if len(got) != 2 || got[0].GameID != "g3" || got[1].GameID != "g2" {
		t.Fatalf("recent = %+v", got)
	}
	got[0].GameID = "mutated"
	again, _ := repo.RecentByRoom(ctx, "room", 1)
	if again[0].GameID != "g3" {
		t.Fatalf("repository returned shared records")
	}
}
