package indexer

import (
	"fmt"
	"strings"

	"github.com/hyodin/dollkongbot/internal/config"
	"github.com/hyodin/dollkongbot/internal/hierarchy"
)

// FormatVersion identifies the search and context text layout. Changing either
// format changes embeddings, so it feeds into the index version.
const FormatVersion = "v1"

// Separators used in search text: "{lvl1} > {lvl2} > {lvl3} | {lvl4}".
const (
	PathSeparator   = " > "
	DetailSeparator = " | "
)

// Assembler builds chunks from hierarchy records. It has no side effects.
type Assembler struct {
	labels config.ContextLabels
}

// NewAssembler creates an assembler that writes labels into context text.
func NewAssembler(labels config.ContextLabels) *Assembler {
	return &Assembler{labels: labels}
}

// Assemble converts records of one document into chunks, in record order.
// Records whose detail is blank are hierarchy-only nodes and produce no chunk.
func (a *Assembler) Assemble(documentID string, records []hierarchy.Record) []Chunk {
	chunks := make([]Chunk, 0, len(records))
	for _, r := range records {
		detail := strings.TrimSpace(r.Lvl4)
		if detail == "" {
			continue
		}
		chunks = append(chunks, Chunk{
			ID:          ChunkID(documentID, r.Sheet, r.CellAddress),
			SourceDocID: documentID,
			SearchText:  SearchText(r.Lvl1, r.Lvl2, r.Lvl3, detail),
			ContextText: a.ContextText(r.Lvl1, r.Lvl2, r.Lvl3, detail),
			Lvl1:        r.Lvl1,
			Lvl2:        r.Lvl2,
			Lvl3:        r.Lvl3,
			Lvl4:        detail,
			Position: Position{
				Sheet:       r.Sheet,
				Row:         r.Row,
				Col:         r.Col,
				CellAddress: r.CellAddress,
				Index:       len(chunks),
			},
		})
	}
	return chunks
}

// SearchText is the compact path-plus-detail string that gets embedded.
func SearchText(lvl1, lvl2, lvl3, lvl4 string) string {
	return lvl1 + PathSeparator + lvl2 + PathSeparator + lvl3 + DetailSeparator + lvl4
}

// ContextText is the labelled form handed to the generation model.
func (a *Assembler) ContextText(lvl1, lvl2, lvl3, lvl4 string) string {
	l := a.labels
	return fmt.Sprintf("%s: %s: %s > %s: %s > %s: %s | %s: %s | %s: %s",
		l.Taxonomy, l.Lvl1, lvl1, l.Lvl2, lvl2, l.Lvl3, lvl3,
		l.Category, lvl1,
		l.Detail, lvl4,
	)
}
