package storage

import (
	"context"
	"errors"
	"testing"
)

func TestSettingsRepo_UpsertAndGet(t *testing.T) {
	ctx := context.Background()
	repo := NewSettingsRepo(newTestDB(t))

	if _, err := repo.Get(ctx, "복지"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() error = %v, want ErrNotFound", err)
	}

	order := 2
	if err := repo.Upsert(ctx, FAQSetting{Lvl1Keyword: "복지", Visible: false, Order: &order}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	got, err := repo.Get(ctx, "복지")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Visible || got.Order == nil || *got.Order != 2 {
		t.Errorf("Get() = %+v", got)
	}

	// Read-your-write after an update that clears the order.
	if err := repo.Upsert(ctx, FAQSetting{Lvl1Keyword: "복지", Visible: true}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	got, err = repo.Get(ctx, "복지")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !got.Visible || got.Order != nil {
		t.Errorf("Get() after update = %+v", got)
	}
}

func TestSettingsRepo_Reorder(t *testing.T) {
	ctx := context.Background()
	repo := NewSettingsRepo(newTestDB(t))

	if err := repo.Upsert(ctx, FAQSetting{Lvl1Keyword: "급여", Visible: false}); err != nil {
		t.Fatal(err)
	}
	if err := repo.Reorder(ctx, []string{"IT", "급여", "복지"}); err != nil {
		t.Fatalf("Reorder() error = %v", err)
	}

	settings, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	want := map[string]struct {
		order   int
		visible bool
	}{
		"IT": {1, true},
		"급여": {2, false},
		"복지": {3, true},
	}
	if len(settings) != len(want) {
		t.Fatalf("List() = %d settings, want %d", len(settings), len(want))
	}
	for _, s := range settings {
		w := want[s.Lvl1Keyword]
		if s.Order == nil || *s.Order != w.order || s.Visible != w.visible {
			t.Errorf("%s = order %v visible %v, want %d %v", s.Lvl1Keyword, s.Order, s.Visible, w.order, w.visible)
		}
	}
}
