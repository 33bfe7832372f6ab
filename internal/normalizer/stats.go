package normalizer

// Stats are running counters for cache tuning.
type Stats struct {
	CacheSize          int     `json:"cache_size"`
	Hits               int64   `json:"cache_hits"`
	Misses             int64   `json:"cache_misses"`
	HitRate            float64 `json:"hit_rate"`
	AnalyzerConfigured bool    `json:"analyzer_configured"`
	AnalyzerFailures   int64   `json:"analyzer_failures"`
}

// Stats returns a snapshot of the counters. HitRate is in [0, 1].
func (n *Normalizer) Stats() Stats {
	hits, misses := n.hits.Load(), n.misses.Load()
	s := Stats{
		CacheSize:          n.cache.Len(),
		Hits:               hits,
		Misses:             misses,
		AnalyzerConfigured: n.analyzerConfigured,
		AnalyzerFailures:   n.analyzerFailures.Load(),
	}
	if total := hits + misses; total > 0 {
		s.HitRate = float64(hits) / float64(total)
	}
	return s
}

// ClearCache drops every cached query. Counters are kept.
func (n *Normalizer) ClearCache() {
	n.cache.Purge()
}
