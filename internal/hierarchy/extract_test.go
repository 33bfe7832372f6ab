package hierarchy

import (
	"context"
	"errors"
	"testing"

	"github.com/hyodin/dollkongbot/internal/config"
)

func defaultDetection() config.SheetDetectionRules {
	return config.DefaultRules().SheetDetection
}

func header() []string {
	return []string{"대분류", "중분류", "소분류", "상세 내용", "비고"}
}

func TestExtractSheet_ForwardFill(t *testing.T) {
	g := NewGrid("FAQ", [][]string{
		header(),
		{"휴가", "연차", "① 발생", "A"},
		{"", "", "② 사용", "B"},
	}, nil)

	records, warnings, report, err := NewExtractor(defaultDetection()).ExtractSheet(g)
	if err != nil {
		t.Fatalf("ExtractSheet() error = %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("warnings = %v, want none", warnings)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}

	got := records[1]
	if got.Lvl1 != "휴가" || got.Lvl2 != "연차" || got.Lvl3 != "② 사용" {
		t.Errorf("row 2 resolved to (%q, %q, %q), want (휴가, 연차, ② 사용)", got.Lvl1, got.Lvl2, got.Lvl3)
	}
	if got.Row != 3 || got.Col != 4 || got.CellAddress != "D3" {
		t.Errorf("position = row %d col %d %s, want row 3 col 4 D3", got.Row, got.Col, got.CellAddress)
	}
	if report.TotalRows != 2 || report.Records != 2 {
		t.Errorf("report = %+v", report)
	}
}

func TestExtractSheet_MergedRegions(t *testing.T) {
	tests := []struct {
		name   string
		rows   [][]string
		merges []MergedRegion
		want   [][3]string
	}{
		{
			name: "vertical merge keeps anchor value on later rows",
			rows: [][]string{
				header(),
				{"복지", "휴가", "연차", "15일"},
				{"stale", "stale", "반차", "4시간"},
			},
			merges: []MergedRegion{
				{StartRow: 1, StartCol: 0, EndRow: 2, EndCol: 0},
				{StartRow: 1, StartCol: 1, EndRow: 2, EndCol: 1},
			},
			want: [][3]string{{"복지", "휴가", "연차"}, {"복지", "휴가", "반차"}},
		},
		{
			name: "horizontal merge on the same row takes anchor value",
			rows: [][]string{
				header(),
				{"인사", "", "채용 절차", "공고 후 면접"},
			},
			merges: []MergedRegion{
				{StartRow: 1, StartCol: 0, EndRow: 1, EndCol: 1},
			},
			want: [][3]string{{"인사", "인사", "채용 절차"}},
		},
		{
			name: "new value after merge replaces last seen",
			rows: [][]string{
				header(),
				{"복지", "휴가", "연차", "15일"},
				{"", "", "반차", "4시간"},
				{"급여", "지급일", "정기", "매월 25일"},
				{"", "", "상여", "연 2회"},
			},
			merges: []MergedRegion{{StartRow: 1, StartCol: 0, EndRow: 2, EndCol: 0}},
			want: [][3]string{
				{"복지", "휴가", "연차"},
				{"복지", "휴가", "반차"},
				{"급여", "지급일", "정기"},
				{"급여", "지급일", "상여"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, _, _, err := NewExtractor(defaultDetection()).ExtractSheet(NewGrid("S", tt.rows, tt.merges))
			if err != nil {
				t.Fatalf("ExtractSheet() error = %v", err)
			}
			if len(records) != len(tt.want) {
				t.Fatalf("records = %d, want %d", len(records), len(tt.want))
			}
			for i, want := range tt.want {
				got := [3]string{records[i].Lvl1, records[i].Lvl2, records[i].Lvl3}
				if got != want {
					t.Errorf("record %d = %v, want %v", i, got, want)
				}
			}
		})
	}
}

func TestExtractSheet_RowWithoutAncestorIsWarned(t *testing.T) {
	g := NewGrid("FAQ", [][]string{
		header(),
		{"", "", "발생", "A"},
		{"휴가", "", "발생", "B"},
		{"휴가", "연차", "사용", "C"},
		{"", "", "", "D"},
	}, nil)

	records, warnings, report, err := NewExtractor(defaultDetection()).ExtractSheet(g)
	if err != nil {
		t.Fatalf("ExtractSheet() error = %v", err)
	}

	if len(warnings) != 2 {
		t.Fatalf("warnings = %v, want 2", warnings)
	}
	if warnings[0].Row != 2 || warnings[0].Column != "lvl1" {
		t.Errorf("first warning = %+v, want row 2 lvl1", warnings[0])
	}
	if warnings[1].Row != 3 || warnings[1].Column != "lvl2" {
		t.Errorf("second warning = %+v, want row 3 lvl2", warnings[1])
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	if records[1].Lvl3 != "사용" || records[1].Lvl4 != "D" {
		t.Errorf("last record = %+v, want lvl3 inherited as 사용", records[1])
	}
	if report.TotalRows != report.Records+report.Warnings {
		t.Errorf("report %+v loses rows", report)
	}
}

func TestExtractSheet_DetailAndLabels(t *testing.T) {
	g := NewGrid("FAQ", [][]string{
		header(),
		{"복지\n제도", "휴가", "연차", "15일 부여", "매년 1월1일"},
		{"", "", "반차", "4시간 단위", ""},
		{"", "", "병가", "", ""},
		{"", "", "경조", "첫 줄\n둘째 줄", ""},
	}, nil)

	records, _, _, err := NewExtractor(defaultDetection()).ExtractSheet(g)
	if err != nil {
		t.Fatalf("ExtractSheet() error = %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("records = %d, want 4", len(records))
	}

	tests := []struct {
		idx      int
		wantLvl1 string
		wantLvl4 string
	}{
		{0, "복지 제도", "15일 부여 | 매년 1월1일"},
		{1, "복지 제도", "4시간 단위"},
		{2, "복지 제도", ""},
		{3, "복지 제도", "첫 줄\n둘째 줄"},
	}
	for _, tt := range tests {
		if records[tt.idx].Lvl1 != tt.wantLvl1 {
			t.Errorf("record %d lvl1 = %q, want %q", tt.idx, records[tt.idx].Lvl1, tt.wantLvl1)
		}
		if records[tt.idx].Lvl4 != tt.wantLvl4 {
			t.Errorf("record %d lvl4 = %q, want %q", tt.idx, records[tt.idx].Lvl4, tt.wantLvl4)
		}
	}
}

func TestExtractSheet_BlankRowsAreNotCounted(t *testing.T) {
	g := NewGrid("FAQ", [][]string{
		header(),
		{"휴가", "연차", "발생", "A"},
		{},
		{"", "", "", ""},
		{"", "", "사용", "B"},
	}, nil)

	records, warnings, report, err := NewExtractor(defaultDetection()).ExtractSheet(g)
	if err != nil {
		t.Fatalf("ExtractSheet() error = %v", err)
	}
	if len(records) != 2 || len(warnings) != 0 || report.TotalRows != 2 {
		t.Errorf("records=%d warnings=%d total=%d, want 2/0/2", len(records), len(warnings), report.TotalRows)
	}
}

func TestExtractor_WithLayout(t *testing.T) {
	g := NewGrid("raw", [][]string{
		{"x", "휴가", "연차", "발생", "A"},
		{"x", "", "", "사용", "B"},
	}, nil)

	ex := NewExtractor(defaultDetection()).WithLayout(Layout{HeaderRow: -1, Lvl1: 1, Lvl2: 2, Lvl3: 3, Detail: 4, Notes: -1})
	records, _, _, err := ex.ExtractSheet(g)
	if err != nil {
		t.Fatalf("ExtractSheet() error = %v", err)
	}
	if len(records) != 2 || records[1].Lvl1 != "휴가" || records[1].CellAddress != "E2" {
		t.Errorf("records = %+v", records)
	}

	bad := NewExtractor(defaultDetection()).WithLayout(Layout{HeaderRow: -1, Lvl1: 2, Lvl2: 1, Lvl3: 3, Detail: 4, Notes: -1})
	if _, _, _, err := bad.ExtractSheet(g); err == nil {
		t.Error("ExtractSheet() with unordered layout expected error")
	}
}

func TestExtract_Document(t *testing.T) {
	ctx := context.Background()
	ex := NewExtractor(defaultDetection())

	t.Run("sheet without header fails the document", func(t *testing.T) {
		grids := []*Grid{
			NewGrid("good", [][]string{header(), {"a", "b", "c", "d"}}, nil),
			NewGrid("bad", [][]string{{"이름", "전화"}, {"홍길동", "010"}}, nil),
		}
		_, err := ex.Extract(ctx, "faq.xlsx", grids)
		if err == nil {
			t.Fatal("Extract() expected error")
		}
		var pe *DocumentParseError
		if !errors.As(err, &pe) || pe.Sheet != "bad" || !errors.Is(err, ErrNoHeader) {
			t.Errorf("Extract() error = %v, want DocumentParseError on sheet bad", err)
		}
		if !IsParseError(err) {
			t.Error("IsParseError() = false")
		}
	})

	t.Run("blank sheets are skipped", func(t *testing.T) {
		grids := []*Grid{
			NewGrid("empty", [][]string{{"", ""}}, nil),
			NewGrid("faq", [][]string{header(), {"a", "b", "c", "d"}}, nil),
		}
		res, err := ex.Extract(ctx, "faq.xlsx", grids)
		if err != nil {
			t.Fatalf("Extract() error = %v", err)
		}
		if len(res.Records) != 1 || len(res.Sheets) != 2 || !res.Sheets[0].Skipped {
			t.Errorf("result = %+v", res)
		}
	})

	t.Run("document without data", func(t *testing.T) {
		_, err := ex.Extract(ctx, "empty.xlsx", []*Grid{NewGrid("empty", nil, nil)})
		if !errors.Is(err, ErrEmptyDocument) {
			t.Errorf("Extract() error = %v, want ErrEmptyDocument", err)
		}
	})

	t.Run("forward fill resets per sheet", func(t *testing.T) {
		grids := []*Grid{
			NewGrid("one", [][]string{header(), {"a", "b", "c", "d"}}, nil),
			NewGrid("two", [][]string{header(), {"", "b", "c", "d"}}, nil),
		}
		res, err := ex.Extract(ctx, "faq.xlsx", grids)
		if err != nil {
			t.Fatalf("Extract() error = %v", err)
		}
		if len(res.Records) != 1 || len(res.Warnings) != 1 || res.Warnings[0].Sheet != "two" {
			t.Errorf("result = %+v", res)
		}
	})
}

func TestGrid_LiteralWithoutIndex(t *testing.T) {
	g := &Grid{
		Sheet:  "S",
		Rows:   [][]string{header(), {"복지", "휴가", "연차", "x"}, {"", "", "반차", "y"}},
		Merges: []MergedRegion{{StartRow: 1, StartCol: 0, EndRow: 2, EndCol: 0}},
	}
	records, _, _, err := NewExtractor(defaultDetection()).ExtractSheet(g)
	if err != nil {
		t.Fatalf("ExtractSheet() error = %v", err)
	}
	if len(records) != 2 || records[1].Lvl1 != "복지" {
		t.Errorf("records = %+v", records)
	}
}
