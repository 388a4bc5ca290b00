package scripting

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dop251/goja"

	"github.com/wudi/ocrbridge/bridge"
	"github.com/wudi/ocrbridge/engine"
)

type GojaEngine struct {
	vm *goja.Runtime
}

func NewEngine() *GojaEngine {
	vm := goja.New()
	return &GojaEngine{vm: vm}
}

func (e *GojaEngine) Execute(ctx context.Context, script string) (interface{}, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	done := make(chan struct{})
	defer close(done)
	defer e.vm.ClearInterrupt()

	go func() {
		select {
		case <-ctx.Done():
			e.vm.Interrupt(ctx.Err())
		case <-done:
		}
	}()

	val, err := e.vm.RunString(script)
	if err != nil {
		if interruptedErr, ok := err.(*goja.InterruptedError); ok {
			if cause := interruptedErr.Unwrap(); cause != nil {
				return nil, cause
			}
			return nil, context.Canceled
		}
		return nil, err
	}
	return val.Export(), nil
}

// RegisterBridge exposes the boundary operations as a global 'ocr' object:
//
//	ocr.createEngine(scanType, licenseKey) -> handle number, 0 on failure
//	ocr.destroyEngine(handle)
//	ocr.analyze(handle, records)           -> {result, skipped} or null
//	ocr.decrypt(handle, input)             -> string or null
//
// 'records' is an array of {text, bbox: {x, y, width, height}} objects.
// Failures are reported in the JS idiom (0 or null), never as thrown Go
// errors; element-level problems inside 'records' are absorbed into the
// skipped count.
func (e *GojaEngine) RegisterBridge(ops BridgeOps) error {
	obj := e.vm.NewObject()

	if err := obj.Set("createEngine", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 2 {
			return e.vm.ToValue(0)
		}
		scanType := engine.ScanType(call.Arguments[0].ToInteger())
		licenseKey := call.Arguments[1].String()
		h, err := ops.CreateEngine(scanType, licenseKey)
		if err != nil {
			return e.vm.ToValue(0)
		}
		return e.vm.ToValue(uint64(h))
	}); err != nil {
		return err
	}

	if err := obj.Set("destroyEngine", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) >= 1 {
			ops.DestroyEngine(handleArg(call.Arguments[0]))
		}
		return goja.Undefined()
	}); err != nil {
		return err
	}

	if err := obj.Set("analyze", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 2 {
			return goja.Null()
		}
		h := handleArg(call.Arguments[0])
		src := newRecordSource(call.Arguments[1])
		result, skipped, err := ops.Analyze(h, src)
		if err != nil {
			return goja.Null()
		}
		out := e.vm.NewObject()
		if err := out.Set("result", result); err != nil {
			return goja.Null()
		}
		if err := out.Set("skipped", skipped); err != nil {
			return goja.Null()
		}
		return out
	}); err != nil {
		return err
	}

	if err := obj.Set("decrypt", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 2 {
			return goja.Null()
		}
		out, err := ops.Decrypt(handleArg(call.Arguments[0]), call.Arguments[1].String())
		if err != nil {
			return goja.Null()
		}
		return e.vm.ToValue(out)
	}); err != nil {
		return err
	}

	return e.vm.Set("ocr", obj)
}

func handleArg(v goja.Value) bridge.Handle {
	n := v.ToInteger()
	if n < 0 {
		return 0
	}
	return bridge.Handle(uint64(n))
}

// newRecordSource wraps a JS value as a bridge.RecordSource. A null,
// undefined, or non-array value yields a nil source, which the bridge
// rejects at the call level without invoking extraction.
func newRecordSource(v goja.Value) bridge.RecordSource {
	if v == nil || goja.IsNull(v) || goja.IsUndefined(v) {
		return nil
	}
	obj, ok := v.(*goja.Object)
	if !ok {
		return nil
	}
	length := 0
	if lv, err := trapGet(obj, "length"); err == nil && lv != nil && !goja.IsUndefined(lv) {
		length = int(lv.ToInteger())
	}
	if length < 0 {
		length = 0
	}
	return &jsRecordSource{arr: obj, length: length}
}

// jsRecordSource walks a JS array, confining every JS-side fault (missing
// property, throwing getter, wrong type) to the element it occurred on. A
// thrown JS exception is caught at the accessor and converted into the
// element's error; it never unwinds into the engine call or the rest of the
// batch.
type jsRecordSource struct {
	arr    *goja.Object
	length int
}

func (s *jsRecordSource) Len() int { return s.length }

func (s *jsRecordSource) At(i int) (bridge.Record, error) {
	v, err := trapGet(s.arr, strconv.Itoa(i))
	if err != nil {
		return nil, err
	}
	if v == nil || goja.IsNull(v) || goja.IsUndefined(v) {
		return nil, fmt.Errorf("element %d is missing", i)
	}
	obj, ok := v.(*goja.Object)
	if !ok {
		return nil, fmt.Errorf("element %d is not an object", i)
	}
	return &jsRecord{obj: obj}, nil
}

type jsRecord struct {
	obj *goja.Object
}

func (r *jsRecord) Text() (string, error) {
	v, err := trapGet(r.obj, "text")
	if err != nil {
		return "", err
	}
	if v == nil || goja.IsNull(v) || goja.IsUndefined(v) {
		return "", fmt.Errorf("text is missing")
	}
	return v.String(), nil
}

func (r *jsRecord) BBox() (engine.Rect, error) {
	v, err := trapGet(r.obj, "bbox")
	if err != nil {
		return engine.Rect{}, err
	}
	if v == nil || goja.IsNull(v) || goja.IsUndefined(v) {
		return engine.Rect{}, fmt.Errorf("bbox is missing")
	}
	box, ok := v.(*goja.Object)
	if !ok {
		return engine.Rect{}, fmt.Errorf("bbox is not an object")
	}
	var rect engine.Rect
	fields := []struct {
		key string
		dst *float64
	}{
		{"x", &rect.X},
		{"y", &rect.Y},
		{"width", &rect.Width},
		{"height", &rect.Height},
	}
	for _, f := range fields {
		fv, err := trapGet(box, f.key)
		if err != nil {
			return engine.Rect{}, err
		}
		if fv == nil || goja.IsNull(fv) || goja.IsUndefined(fv) {
			return engine.Rect{}, fmt.Errorf("bbox field %q is missing", f.key)
		}
		n, err := trapFloat(fv)
		if err != nil {
			return engine.Rect{}, err
		}
		*f.dst = n
	}
	return rect, nil
}

// Release is a no-op: goja values are owned by the runtime and carry no
// reference count to drop.
func (r *jsRecord) Release() {}

// trapGet reads a property, converting a thrown JS exception into an error
// instead of letting it unwind through Go frames.
func trapGet(obj *goja.Object, key string) (v goja.Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			ex, ok := r.(*goja.Exception)
			if !ok {
				panic(r)
			}
			v, err = nil, fmt.Errorf("js accessor %q threw: %w", key, ex)
		}
	}()
	return obj.Get(key), nil
}

// trapFloat converts a JS value to float64, trapping throwing valueOf
// implementations the same way trapGet does.
func trapFloat(v goja.Value) (f float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			ex, ok := r.(*goja.Exception)
			if !ok {
				panic(r)
			}
			f, err = 0, fmt.Errorf("js number conversion threw: %w", ex)
		}
	}()
	return v.ToFloat(), nil
}
