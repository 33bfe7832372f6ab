package indexer

import (
	"crypto/sha256"
	"encoding/hex"
	"math"
	"sort"
	"unicode/utf8"

	"github.com/hyodin/dollkongbot/internal/hierarchy"
)

// Report summarizes one document ingestion. For every sheet the number of
// records plus warnings equals its total data rows.
type Report struct {
	DocumentID string `json:"document_id"`
	FileName   string `json:"file_name"`
	// Records is the number of rows with a fully resolved hierarchy path.
	Records int `json:"records"`
	// Chunks is the number of records with a detail, each stored as one chunk.
	Chunks int `json:"chunks"`
	// SkippedNoDetail counts resolved records with a blank detail.
	SkippedNoDetail int                     `json:"skipped_no_detail"`
	Warnings        []hierarchy.RowWarning  `json:"warnings"`
	Sheets          []hierarchy.SheetReport `json:"sheets"`
	// StaleRemoved counts vector points of the previous version that were removed.
	StaleRemoved int `json:"stale_removed"`
	// SearchTextStats describes search text lengths in runes.
	SearchTextStats TextStats `json:"search_text_stats"`
	IndexVersion    string    `json:"index_version"`
}

// TextStats contains statistics about text lengths.
type TextStats struct {
	Min  int     `json:"min"`
	Max  int     `json:"max"`
	Mean float64 `json:"mean"`
	P95  int     `json:"p95"`
}

// IndexVersion hashes the text format and embedding model so that an index
// built with different settings can be told apart.
func IndexVersion(embeddingModel string) string {
	sum := sha256.Sum256([]byte(FormatVersion + "|" + embeddingModel))
	return hex.EncodeToString(sum[:])[:16]
}

func searchTextStats(chunks []Chunk) TextStats {
	lengths := make([]int, 0, len(chunks))
	for _, c := range chunks {
		lengths = append(lengths, utf8.RuneCountInString(c.SearchText))
	}
	return computeTextStats(lengths)
}

// computeTextStats computes min, max, mean, and p95 from lengths.
func computeTextStats(lengths []int) TextStats {
	if len(lengths) == 0 {
		return TextStats{}
	}

	sorted := make([]int, len(lengths))
	copy(sorted, lengths)
	sort.Ints(sorted)

	sum := 0
	for _, n := range sorted {
		sum += n
	}
	mean := float64(sum) / float64(len(sorted))

	p95Index := int(math.Ceil(float64(len(sorted))*0.95)) - 1
	if p95Index < 0 {
		p95Index = 0
	}

	return TextStats{
		Min:  sorted[0],
		Max:  sorted[len(sorted)-1],
		Mean: math.Round(mean*100) / 100,
		P95:  sorted[p95Index],
	}
}
