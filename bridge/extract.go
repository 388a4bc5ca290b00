package bridge

import (
	"fmt"

	"github.com/wudi/ocrbridge/engine"
)

// Record is one element of a foreign record collection. Accessors may fail
// when the foreign side is malformed or its runtime raises an error; such
// failures are confined to the element. Release frees any foreign-side
// references the element holds and must be called exactly once when the
// element is no longer needed.
type Record interface {
	Text() (string, error)
	BBox() (engine.Rect, error)
	Release()
}

// RecordSource is an ordered foreign record collection. At may fail
// per-element without invalidating the rest of the collection.
type RecordSource interface {
	Len() int
	At(i int) (Record, error)
}

// Extract copies every well-formed element of src into an owned TextRecord,
// in order. Malformed elements are skipped, never substituted, and no
// element failure aborts the batch or escapes to the caller. Foreign
// references taken for an element are released before the next element is
// visited.
//
// The returned slice is at most Len() long and preserves the relative order
// of surviving elements; skipped reports how many were dropped.
func Extract(src RecordSource) (records []engine.TextRecord, skipped int) {
	n := src.Len()
	records = make([]engine.TextRecord, 0, n)
	for i := 0; i < n; i++ {
		rec, err := src.At(i)
		if err != nil || rec == nil {
			skipped++
			continue
		}
		bbox, err := rec.BBox()
		if err != nil {
			rec.Release()
			skipped++
			continue
		}
		text, err := rec.Text()
		if err != nil {
			rec.Release()
			skipped++
			continue
		}
		records = append(records, engine.TextRecord{Text: text, BBox: bbox})
		rec.Release()
	}
	return records, skipped
}

// SliceSource adapts an in-process batch to the RecordSource contract for
// callers that already hold native records.
type SliceSource []engine.TextRecord

func (s SliceSource) Len() int { return len(s) }

func (s SliceSource) At(i int) (Record, error) {
	if i < 0 || i >= len(s) {
		return nil, fmt.Errorf("index %d out of range", i)
	}
	return sliceRecord{rec: s[i]}, nil
}

type sliceRecord struct {
	rec engine.TextRecord
}

func (r sliceRecord) Text() (string, error) { return r.rec.Text, nil }

func (r sliceRecord) BBox() (engine.Rect, error) { return r.rec.BBox, nil }

func (r sliceRecord) Release() {}
