package retrieval_test

import (
	"context"
	"errors"
	"slices"
	"testing"

	"go.uber.org/mock/gomock"

	"github.com/hyodin/dollkongbot/internal/retrieval"
	"github.com/hyodin/dollkongbot/internal/storage"
	storage_mocks "github.com/hyodin/dollkongbot/internal/storage/mocks"
)

func intPtr(v int) *int {
	return &v
}

func TestVisibility_Apply(t *testing.T) {
	entries := []storage.Lvl1Entry{
		{Keyword: "인사", FirstSeq: 1},
		{Keyword: "복지", FirstSeq: 5},
		{Keyword: "IT", FirstSeq: 9},
		{Keyword: "총무", FirstSeq: 12},
		{Keyword: "보안", FirstSeq: 20},
	}

	tests := []struct {
		name     string
		settings []storage.FAQSetting
		want     []string
	}{
		{
			name: "no settings keeps insertion order",
			want: []string{"인사", "복지", "IT", "총무", "보안"},
		},
		{
			name: "hidden keywords are dropped",
			settings: []storage.FAQSetting{
				{Lvl1Keyword: "IT", Visible: false},
				{Lvl1Keyword: "복지", Visible: true},
			},
			want: []string{"인사", "복지", "총무", "보안"},
		},
		{
			name: "explicit order first",
			settings: []storage.FAQSetting{
				{Lvl1Keyword: "보안", Visible: true, Order: intPtr(1)},
				{Lvl1Keyword: "총무", Visible: true, Order: intPtr(2)},
			},
			want: []string{"보안", "총무", "인사", "복지", "IT"},
		},
		{
			name: "equal order breaks ties alphabetically",
			settings: []storage.FAQSetting{
				{Lvl1Keyword: "총무", Visible: true, Order: intPtr(1)},
				{Lvl1Keyword: "복지", Visible: true, Order: intPtr(1)},
				{Lvl1Keyword: "인사", Visible: false, Order: intPtr(0)},
			},
			want: []string{"복지", "총무", "IT", "보안"},
		},
		{
			name: "settings for unknown keywords are ignored",
			settings: []storage.FAQSetting{
				{Lvl1Keyword: "없음", Visible: true, Order: intPtr(1)},
			},
			want: []string{"인사", "복지", "IT", "총무", "보안"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := retrieval.NewVisibility(tt.settings).Apply(entries)
			if !slices.Equal(got, tt.want) {
				t.Errorf("Apply() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNavigator_Walk(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	chunks := storage_mocks.NewMockChunkStore(ctrl)

	// Every listing is fetched once even though Back revisits it.
	chunks.EXPECT().DistinctLvl1(gomock.Any()).Return([]storage.Lvl1Entry{{Keyword: "복지", FirstSeq: 1}, {Keyword: "IT", FirstSeq: 3}}, nil).Times(1)
	chunks.EXPECT().DistinctLvl2(gomock.Any(), "복지").Return([]string{"휴가"}, nil).Times(1)
	chunks.EXPECT().DistinctLvl3(gomock.Any(), "복지", "휴가").Return([]string{"연차", "반차"}, nil).Times(1)
	chunks.EXPECT().ListByPath(gomock.Any(), "복지", "휴가", "반차").Return([]storage.ChunkRecord{
		{ID: "a", Lvl4: "4시간 단위"},
		{ID: "b", Lvl4: "오전/오후"},
	}, nil).Times(1)

	nav := retrieval.NewNavigator(chunks, retrieval.NewVisibility(nil))

	root, err := nav.Current(ctx)
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	if root.State != retrieval.AtRoot || !slices.Equal(root.Options, []string{"복지", "IT"}) {
		t.Fatalf("root = %+v", root)
	}

	steps := []struct {
		value string
		state retrieval.State
	}{
		{value: "복지", state: retrieval.AtLvl1},
		{value: "휴가", state: retrieval.AtLvl2},
		{value: "반차", state: retrieval.AtLvl3},
	}
	var last retrieval.Listing
	for _, step := range steps {
		last, err = nav.Select(ctx, step.value)
		if err != nil {
			t.Fatalf("Select(%q) error = %v", step.value, err)
		}
		if last.State != step.state {
			t.Errorf("Select(%q).State = %v, want %v", step.value, last.State, step.state)
		}
	}

	if !slices.Equal(last.Path, []string{"복지", "휴가", "반차"}) {
		t.Errorf("Path = %v", last.Path)
	}
	if last.Answer() != "4시간 단위\n\n오전/오후" {
		t.Errorf("Answer() = %q", last.Answer())
	}
	if last.Empty() {
		t.Error("terminal listing with details should not be empty")
	}

	if _, err := nav.Select(ctx, "anything"); !errors.Is(err, retrieval.ErrTerminal) {
		t.Errorf("Select() past terminal error = %v, want ErrTerminal", err)
	}

	// Walk back to the root and down again; the mock allows no refetch.
	for _, want := range []retrieval.State{retrieval.AtLvl2, retrieval.AtLvl1, retrieval.AtRoot, retrieval.AtRoot} {
		l, err := nav.Back(ctx)
		if err != nil {
			t.Fatalf("Back() error = %v", err)
		}
		if l.State != want {
			t.Errorf("Back().State = %v, want %v", l.State, want)
		}
	}
	if _, err := nav.Select(ctx, "복지"); err != nil {
		t.Fatalf("Select() after back error = %v", err)
	}
	if l, err := nav.Reset(ctx); err != nil || l.State != retrieval.AtRoot {
		t.Errorf("Reset() = %+v, %v", l, err)
	}
}

func TestNavigator_InvalidSelection(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	chunks := storage_mocks.NewMockChunkStore(ctrl)
	chunks.EXPECT().DistinctLvl1(gomock.Any()).Return([]storage.Lvl1Entry{{Keyword: "복지"}, {Keyword: "IT", FirstSeq: 2}}, nil)

	hidden := retrieval.NewVisibility([]storage.FAQSetting{{Lvl1Keyword: "IT", Visible: false}})
	nav := retrieval.NewNavigator(chunks, hidden)

	for _, value := range []string{"없는 항목", "IT"} {
		if _, err := nav.Select(ctx, value); !errors.Is(err, retrieval.ErrInvalidSelection) {
			t.Errorf("Select(%q) error = %v, want ErrInvalidSelection", value, err)
		}
	}
	l, err := nav.Current(ctx)
	if err != nil || l.State != retrieval.AtRoot {
		t.Errorf("failed selection should not move: %+v, %v", l, err)
	}
}

func TestNavigator_EmptyListings(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	chunks := storage_mocks.NewMockChunkStore(ctrl)
	chunks.EXPECT().DistinctLvl1(gomock.Any()).Return(nil, nil)

	nav := retrieval.NewNavigator(chunks, retrieval.NewVisibility(nil))
	l, err := nav.Current(ctx)
	if err != nil {
		t.Fatalf("Current() error = %v", err)
	}
	if !l.Empty() {
		t.Errorf("listing with no options should be empty: %+v", l)
	}
	if l.Options == nil {
		t.Error("Options should be an empty slice, not nil")
	}

	if (retrieval.Listing{State: retrieval.AtLvl3}).Empty() != true {
		t.Error("terminal listing without details should be empty")
	}
}

func TestNavigator_StoreError(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	chunks := storage_mocks.NewMockChunkStore(ctrl)
	boom := errors.New("database is locked")
	chunks.EXPECT().DistinctLvl1(gomock.Any()).Return([]storage.Lvl1Entry{{Keyword: "복지"}}, nil)
	chunks.EXPECT().DistinctLvl2(gomock.Any(), "복지").Return(nil, boom)

	nav := retrieval.NewNavigator(chunks, retrieval.NewVisibility(nil))
	if _, err := nav.Select(ctx, "복지"); !errors.Is(err, boom) {
		t.Fatalf("Select() error = %v, want wrapped store error", err)
	}
	// The failed step is not entered.
	l, err := nav.Current(ctx)
	if err != nil || l.State != retrieval.AtRoot {
		t.Errorf("Current() = %+v, %v", l, err)
	}
}

func TestState_String(t *testing.T) {
	if retrieval.AtLvl2.String() != "lvl2" || retrieval.State(9).String() != "State(9)" {
		t.Error("unexpected State strings")
	}
}

func TestSessions(t *testing.T) {
	sessions := retrieval.NewSessions(2, 0)
	nav := retrieval.NewNavigator(nil, retrieval.NewVisibility(nil))

	a := sessions.Create(nav)
	b := sessions.Create(nav)
	if a == b {
		t.Fatal("session IDs should be unique")
	}
	if got, ok := sessions.Get(a); !ok || got != nav {
		t.Error("Get() should return the stored navigator")
	}

	// a was used more recently than b, so b is evicted.
	c := sessions.Create(nav)
	if _, ok := sessions.Get(b); ok {
		t.Error("least recently used session should be evicted")
	}
	if _, ok := sessions.Get(c); !ok {
		t.Error("new session should be present")
	}
	if sessions.Len() != 2 {
		t.Errorf("Len() = %d, want 2", sessions.Len())
	}

	if !sessions.Delete(a) || sessions.Delete(a) {
		t.Error("Delete() should report whether the session existed")
	}
}
