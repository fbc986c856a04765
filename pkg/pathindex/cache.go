package pathindex

import "github.com/mobinasri/gbwtgraph/pkg/graph"

// Cache memoizes Extract results for sequences at or above a length
// threshold, avoiding repeated re-extraction during repeated subgraph
// queries over hot paths (e.g. an HTTP query service re-answering
// path-offset queries against the same path). Grounded on the C++
// original's LargeRecordCache (original_source/src/internal.cpp), which
// caches decompressed GBWT records above a size threshold to speed up
// repeated LF-mapping (spec §3.NEW). Here there is no LF-mapping cost to
// amortize: Extract returns the index's stored slice whether or not it is
// cached, and ExtractHandles decodes into a new slice on every call.
type Cache struct {
	index     *Index
	threshold int
	cache     map[int][]uint64
}

// NewCache wraps index, caching sequences whose stored length in handles is
// at least thresholdHandles.
func NewCache(index *Index, thresholdHandles int) *Cache {
	return &Cache{index: index, threshold: thresholdHandles, cache: make(map[int][]uint64)}
}

// Extract returns the raw encoded sequence for seqID, populating the cache
// on first access for sequences at or above the threshold.
func (c *Cache) Extract(seqID int) []uint64 {
	if raw, ok := c.cache[seqID]; ok {
		return raw
	}
	raw := c.index.sequences[seqID]
	if len(raw) >= c.threshold {
		c.cache[seqID] = raw
	}
	return raw
}

// ExtractHandles is Extract decoded into handles, the same shape Index.Extract
// returns, so callers can swap a plain Index.Extract call for a cached one
// without changing their result type.
func (c *Cache) ExtractHandles(seqID int) []graph.Handle {
	raw := c.Extract(seqID)
	out := make([]graph.Handle, len(raw))
	for i, v := range raw {
		out[i] = graph.Handle(v)
	}
	return out
}
