package bridge

import (
	"testing"

	"github.com/wudi/ocrbridge/engine"
)

type tableAnalyzer struct{ id int }

func (tableAnalyzer) AnalyzeTextData([]engine.TextRecord) (string, error) { return "", nil }
func (tableAnalyzer) DecryptionData(string) (string, error)               { return "", nil }
func (tableAnalyzer) Close() error                                        { return nil }

func TestHandleIsNeverZero(t *testing.T) {
	var tbl handleTable
	for i := 0; i < 100; i++ {
		h := tbl.insert(tableAnalyzer{id: i})
		if h == 0 {
			t.Fatalf("insert returned zero handle at iteration %d", i)
		}
	}
}

func TestLookupZeroHandleFails(t *testing.T) {
	var tbl handleTable
	tbl.insert(tableAnalyzer{})
	if _, ok := tbl.lookup(0); ok {
		t.Fatalf("lookup(0) succeeded")
	}
	if _, ok := tbl.remove(0); ok {
		t.Fatalf("remove(0) succeeded")
	}
}

func TestLookupOutOfRangeFails(t *testing.T) {
	var tbl handleTable
	h := tbl.insert(tableAnalyzer{})
	if _, ok := tbl.lookup(h + 1000); ok {
		t.Fatalf("lookup of never-issued handle succeeded")
	}
}

func TestRemoveInvalidatesHandle(t *testing.T) {
	var tbl handleTable
	h := tbl.insert(tableAnalyzer{id: 1})
	if _, ok := tbl.remove(h); !ok {
		t.Fatalf("remove of live handle failed")
	}
	if _, ok := tbl.lookup(h); ok {
		t.Fatalf("lookup succeeded after remove")
	}
	if _, ok := tbl.remove(h); ok {
		t.Fatalf("double remove succeeded")
	}
}

func TestSlotReuseBumpsGeneration(t *testing.T) {
	var tbl handleTable
	h1 := tbl.insert(tableAnalyzer{id: 1})
	tbl.remove(h1)
	h2 := tbl.insert(tableAnalyzer{id: 2})
	if h1.index() != h2.index() {
		t.Fatalf("expected slot reuse, got indices %d and %d", h1.index(), h2.index())
	}
	if h1 == h2 {
		t.Fatalf("recycled slot issued an identical handle")
	}
	if _, ok := tbl.lookup(h1); ok {
		t.Fatalf("stale handle resolved after slot reuse")
	}
	a, ok := tbl.lookup(h2)
	if !ok {
		t.Fatalf("fresh handle did not resolve")
	}
	if a.(tableAnalyzer).id != 2 {
		t.Fatalf("fresh handle resolved to wrong instance: %+v", a)
	}
}

func TestLiveCount(t *testing.T) {
	var tbl handleTable
	h1 := tbl.insert(tableAnalyzer{})
	h2 := tbl.insert(tableAnalyzer{})
	if got := tbl.liveCount(); got != 2 {
		t.Fatalf("liveCount = %d, want 2", got)
	}
	tbl.remove(h1)
	tbl.remove(h2)
	if got := tbl.liveCount(); got != 0 {
		t.Fatalf("liveCount = %d, want 0", got)
	}
}
