package storage

import (
	"context"
	"reflect"
	"testing"
)

func seedNavigation(t *testing.T) *ChunkRepo {
	t.Helper()
	ctx := context.Background()
	db := newTestDB(t)
	docs := NewDocumentRepo(db)

	first := testChunks("doc-1",
		[4]string{"복지", "휴가", "연차", "15일 부여 | 매년 1월1일"},
		[4]string{"복지", "휴가", "반차", "4시간 단위"},
		[4]string{"급여", "지급일", "정기", "매월 25일"},
		[4]string{"복지", "경조사", "결혼", "5일"},
		[4]string{"복지", "휴가", "연차", "이월 불가"},
	)
	if err := docs.Replace(ctx, &Document{ID: "doc-1", FileName: "faq.xlsx", FileType: "xlsx"}, first); err != nil {
		t.Fatal(err)
	}
	second := testChunks("doc-2", [4]string{"IT", "계정", "비밀번호", "헬프데스크"})
	if err := docs.Replace(ctx, &Document{ID: "doc-2", FileName: "it.csv", FileType: "csv"}, second); err != nil {
		t.Fatal(err)
	}
	return NewChunkRepo(db)
}

func TestChunkRepo_DistinctListings(t *testing.T) {
	ctx := context.Background()
	repo := seedNavigation(t)

	lvl1, err := repo.DistinctLvl1(ctx)
	if err != nil {
		t.Fatalf("DistinctLvl1() error = %v", err)
	}
	var keywords []string
	for _, e := range lvl1 {
		keywords = append(keywords, e.Keyword)
	}
	if want := []string{"복지", "급여", "IT"}; !reflect.DeepEqual(keywords, want) {
		t.Errorf("DistinctLvl1() = %v, want %v", keywords, want)
	}

	tests := []struct {
		name string
		got  func() ([]string, error)
		want []string
	}{
		{
			name: "lvl2 under 복지",
			got:  func() ([]string, error) { return repo.DistinctLvl2(ctx, "복지") },
			want: []string{"휴가", "경조사"},
		},
		{
			name: "lvl3 under 복지 휴가",
			got:  func() ([]string, error) { return repo.DistinctLvl3(ctx, "복지", "휴가") },
			want: []string{"연차", "반차"},
		},
		{
			name: "unknown lvl1",
			got:  func() ([]string, error) { return repo.DistinctLvl2(ctx, "없음") },
			want: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.got()
			if err != nil {
				t.Fatalf("error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestChunkRepo_ListByPath(t *testing.T) {
	repo := seedNavigation(t)

	chunks, err := repo.ListByPath(context.Background(), "복지", "휴가", "연차")
	if err != nil {
		t.Fatalf("ListByPath() error = %v", err)
	}
	if len(chunks) != 2 {
		t.Fatalf("ListByPath() = %d chunks, want 2", len(chunks))
	}
	if chunks[0].Lvl4 != "15일 부여 | 매년 1월1일" || chunks[1].Lvl4 != "이월 불가" {
		t.Errorf("ListByPath() order = %q, %q", chunks[0].Lvl4, chunks[1].Lvl4)
	}
}

func TestChunkRepo_GetByIDs(t *testing.T) {
	ctx := context.Background()
	repo := seedNavigation(t)

	ids, err := repo.ListIDsByDocument(ctx, "doc-1")
	if err != nil || len(ids) != 5 {
		t.Fatalf("ListIDsByDocument() = %v, %v", ids, err)
	}

	got, err := repo.GetByIDs(ctx, []string{ids[1], "unknown", ids[0]})
	if err != nil {
		t.Fatalf("GetByIDs() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("GetByIDs() = %d, want 2", len(got))
	}
	if got[ids[0]].Seq >= got[ids[1]].Seq {
		t.Errorf("seq not in insertion order: %d >= %d", got[ids[0]].Seq, got[ids[1]].Seq)
	}

	empty, err := repo.GetByIDs(ctx, nil)
	if err != nil || len(empty) != 0 {
		t.Errorf("GetByIDs(nil) = %v, %v", empty, err)
	}
}
