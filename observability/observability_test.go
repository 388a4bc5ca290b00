package observability

import (
	"context"
	"testing"
)

func TestNopTracer(t *testing.T) {
	tracer := NopTracer()
	ctx := context.Background()
	ctx2, span := tracer.StartSpan(ctx, "test")
	if ctx2 != ctx {
		t.Fatalf("nop tracer should return same context")
	}
	span.SetTag("key", "value")
	span.SetError(nil)
	span.Finish()
}

func TestFields(t *testing.T) {
	cases := []struct {
		field Field
		key   string
		value interface{}
	}{
		{String("engine", "card"), "engine", "card"},
		{Int("batch", 7), "batch", 7},
		{Int64("scan_type", 2), "scan_type", int64(2)},
		{Uint64("handle", 42), "handle", uint64(42)},
	}
	for _, c := range cases {
		if c.field.Key() != c.key {
			t.Fatalf("unexpected key: %s", c.field.Key())
		}
		if c.field.Value() != c.value {
			t.Fatalf("unexpected value for %s: %v", c.key, c.field.Value())
		}
	}
}
