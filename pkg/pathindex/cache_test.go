package pathindex

import (
	"testing"

	"github.com/mobinasri/gbwtgraph/pkg/graph"
)

func TestCacheOnlyStoresAboveThreshold(t *testing.T) {
	idx := New()
	small := idx.Insert([]graph.Handle{graph.NewHandle(1, false)}, Metadata{})
	large := idx.Insert(samplePath(), Metadata{})

	c := NewCache(idx, 3)

	c.Extract(idx.ForwardSequenceID(small))
	if _, cached := c.cache[idx.ForwardSequenceID(small)]; cached {
		t.Error("sequence below threshold should not be cached")
	}

	c.Extract(idx.ForwardSequenceID(large))
	if _, cached := c.cache[idx.ForwardSequenceID(large)]; !cached {
		t.Error("sequence at or above threshold should be cached")
	}
}

func TestCacheExtractHandlesDecodesConsistently(t *testing.T) {
	idx := New()
	walk := samplePath()
	p := idx.Insert(walk, Metadata{})
	c := NewCache(idx, 0)

	handles := c.ExtractHandles(idx.ForwardSequenceID(p))
	if len(handles) != len(walk) {
		t.Fatalf("len(handles) = %d, want %d", len(handles), len(walk))
	}
	for i, h := range handles {
		if h != walk[i] {
			t.Errorf("handles[%d] = %v, want %v", i, h, walk[i])
		}
	}
}

func TestCacheReturnsConsistentData(t *testing.T) {
	idx := New()
	p := idx.Insert(samplePath(), Metadata{})
	c := NewCache(idx, 0)

	first := c.Extract(idx.ForwardSequenceID(p))
	second := c.Extract(idx.ForwardSequenceID(p))
	if len(first) != len(second) {
		t.Fatal("cached extract should be stable across calls")
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("extract[%d] differs across calls: %v vs %v", i, first[i], second[i])
		}
	}
}
