package indexer

import (
	"testing"

	"github.com/hyodin/dollkongbot/internal/config"
	"github.com/hyodin/dollkongbot/internal/hierarchy"
)

func TestAssembler_Assemble(t *testing.T) {
	a := NewAssembler(config.DefaultRules().ContextLabels)
	docID := DocumentID("faq.xlsx")

	records := []hierarchy.Record{
		{Sheet: "FAQ", Row: 2, Col: 4, CellAddress: "D2", Lvl1: "복지", Lvl2: "휴가", Lvl3: "연차", Lvl4: "연 15일 부여"},
		{Sheet: "FAQ", Row: 3, Col: 4, CellAddress: "D3", Lvl1: "복지", Lvl2: "휴가", Lvl3: "반차", Lvl4: "  "},
		{Sheet: "FAQ", Row: 4, Col: 4, CellAddress: "D4", Lvl1: "복지", Lvl2: "경조", Lvl3: "결혼", Lvl4: "5일\n유급 | 증빙 필요"},
	}

	chunks := a.Assemble(docID, records)
	if len(chunks) != 2 {
		t.Fatalf("Assemble() = %d chunks, want 2 (blank detail skipped)", len(chunks))
	}

	first := chunks[0]
	if first.SearchText != "복지 > 휴가 > 연차 | 연 15일 부여" {
		t.Errorf("SearchText = %q", first.SearchText)
	}
	wantContext := "분류 체계: 대분류: 복지 > 중분류: 휴가 > 소분류: 연차 | 구분1: 복지 | 상세 내용: 연 15일 부여"
	if first.ContextText != wantContext {
		t.Errorf("ContextText = %q, want %q", first.ContextText, wantContext)
	}
	if first.SourceDocID != docID || first.ID != ChunkID(docID, "FAQ", "D2") {
		t.Errorf("ids = %s / %s", first.SourceDocID, first.ID)
	}

	second := chunks[1]
	if second.Position.Index != 1 || second.Position.CellAddress != "D4" || second.Position.Row != 4 {
		t.Errorf("Position = %+v", second.Position)
	}
	if second.Lvl4 != "5일\n유급 | 증빙 필요" {
		t.Errorf("Lvl4 should keep newlines, got %q", second.Lvl4)
	}
}

func TestAssembler_CustomLabels(t *testing.T) {
	a := NewAssembler(config.ContextLabels{
		Taxonomy: "Path", Lvl1: "L1", Lvl2: "L2", Lvl3: "L3", Category: "Cat", Detail: "Detail",
	})
	got := a.ContextText("a", "b", "c", "d")
	if got != "Path: L1: a > L2: b > L3: c | Cat: a | Detail: d" {
		t.Errorf("ContextText() = %q", got)
	}
}

func TestAssembler_Empty(t *testing.T) {
	a := NewAssembler(config.DefaultRules().ContextLabels)
	if got := a.Assemble("doc", nil); len(got) != 0 {
		t.Errorf("Assemble(nil) = %v", got)
	}
}

func TestChunk_RecordAndPoint(t *testing.T) {
	c := Chunk{
		ID: "id-1", SourceDocID: "doc-1", SearchText: "s", ContextText: "c",
		Lvl1: "복지", Lvl2: "휴가", Lvl3: "연차", Lvl4: "15일",
		Position: Position{Sheet: "FAQ", Row: 2, Col: 4, CellAddress: "D2", Index: 0},
	}

	rec := c.Record()
	if rec.ID != "id-1" || rec.DocumentID != "doc-1" || rec.CellAddress != "D2" || rec.Lvl3 != "연차" {
		t.Errorf("Record() = %+v", rec)
	}

	p := c.Point("faq.xlsx", []float32{1, 2})
	if p.ID != "id-1" || len(p.Vec) != 2 {
		t.Errorf("Point() = %+v", p)
	}
	if p.Meta["file_name"] != "faq.xlsx" || p.Meta["source_doc_id"] != "doc-1" || p.Meta["row"] != 2 {
		t.Errorf("Point() meta = %+v", p.Meta)
	}
}
