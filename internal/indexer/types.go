package indexer

import (
	"github.com/hyodin/dollkongbot/internal/storage"
	"github.com/hyodin/dollkongbot/internal/vectorstore"
)

// Position locates a chunk's source cell inside its document.
type Position struct {
	Sheet       string `json:"sheet"`
	Row         int    `json:"row"`
	Col         int    `json:"col"`
	CellAddress string `json:"cell_address"`
	Index       int    `json:"chunk_index"`
}

// Chunk is the retrievable unit built from one hierarchy record.
// Chunks are never modified after assembly; re-ingesting a document replaces them.
type Chunk struct {
	ID          string   `json:"id"`
	SourceDocID string   `json:"source_doc_id"`
	SearchText  string   `json:"search_text"`
	ContextText string   `json:"context_text"`
	Lvl1        string   `json:"lvl1"`
	Lvl2        string   `json:"lvl2"`
	Lvl3        string   `json:"lvl3"`
	Lvl4        string   `json:"lvl4"`
	Position    Position `json:"position"`
}

// Record converts the chunk to its SQLite row.
func (c Chunk) Record() storage.ChunkRecord {
	return storage.ChunkRecord{
		ID:          c.ID,
		DocumentID:  c.SourceDocID,
		ChunkIndex:  c.Position.Index,
		Sheet:       c.Position.Sheet,
		CellAddress: c.Position.CellAddress,
		Row:         c.Position.Row,
		Col:         c.Position.Col,
		Lvl1:        c.Lvl1,
		Lvl2:        c.Lvl2,
		Lvl3:        c.Lvl3,
		Lvl4:        c.Lvl4,
		SearchText:  c.SearchText,
		ContextText: c.ContextText,
	}
}

// Point converts the chunk and its vector to a vector store point.
func (c Chunk) Point(fileName string, vec []float32) vectorstore.Point {
	return vectorstore.Point{
		ID:  c.ID,
		Vec: vec,
		Meta: map[string]any{
			vectorstore.PayloadSourceDocID: c.SourceDocID,
			vectorstore.PayloadFileName:    fileName,
			vectorstore.PayloadSheet:       c.Position.Sheet,
			vectorstore.PayloadCellAddress: c.Position.CellAddress,
			vectorstore.PayloadRow:         c.Position.Row,
			vectorstore.PayloadCol:         c.Position.Col,
			vectorstore.PayloadChunkIndex:  c.Position.Index,
			vectorstore.PayloadLvl1:        c.Lvl1,
			vectorstore.PayloadLvl2:        c.Lvl2,
			vectorstore.PayloadLvl3:        c.Lvl3,
			vectorstore.PayloadLvl4:        c.Lvl4,
			vectorstore.PayloadSearchText:  c.SearchText,
			vectorstore.PayloadContextText: c.ContextText,
		},
	}
}
