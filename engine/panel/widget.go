package panel

import (
	"encoding/json"
	"math"

	"github.com/Carmen-Shannon/oxy-viewer/common"
	"github.com/pkg/errors"
)

// WidgetKind identifies the control type shown for a binding.
type WidgetKind string

const (
	// WidgetKindNumber is a slider over a numeric range.
	WidgetKindNumber WidgetKind = "number"
	// WidgetKindColor is a 24-bit RGB color picker.
	WidgetKindColor WidgetKind = "color"
)

// NumberBinding is the accessor pair a number widget reads and writes through.
type NumberBinding struct {
	Get func() float32
	Set func(float32)
}

// ColorBinding is the accessor pair a color widget reads and writes through.
// Values are 24-bit 0xRRGGBB integers.
type ColorBinding struct {
	Get func() uint32
	Set func(uint32)
}

// Widget is a single control bound to a piece of scene state.
type Widget interface {
	// ID returns the panel-unique identifier used by the server routes.
	ID() string

	// Label returns the display label.
	Label() string

	// Kind returns the control type.
	Kind() WidgetKind

	// Snapshot describes the widget and its current value.
	Snapshot() WidgetSnapshot

	// apply decodes a user-supplied JSON value and feeds it through Input.
	apply(raw json.RawMessage) error
}

// NumberWidget binds a float32 to a slider with a range and step.
type NumberWidget struct {
	id      string
	label   string
	binding NumberBinding
	min     float32
	max     float32
	step    float32
}

var _ Widget = &NumberWidget{}

func (w *NumberWidget) ID() string       { return w.id }
func (w *NumberWidget) Label() string    { return w.label }
func (w *NumberWidget) Kind() WidgetKind { return WidgetKindNumber }

// Range returns the slider bounds and step.
func (w *NumberWidget) Range() (lo, hi, step float32) {
	return w.min, w.max, w.step
}

// Value reads the bound target.
func (w *NumberWidget) Value() float32 {
	return w.binding.Get()
}

// Input applies a user-driven value: snapped to the step, clamped to [min, max] and written
// through the binding. NaN is ignored.
//
// Parameters:
//   - v: the raw slider value
//
// Returns:
//   - float32: the value written, or the current value if v was rejected
func (w *NumberWidget) Input(v float32) float32 {
	if math.IsNaN(float64(v)) {
		return w.Value()
	}
	if w.step > 0 {
		v = w.min + float32(math.Round(float64((v-w.min)/w.step)))*w.step
	}
	v = common.Clamp(v, w.min, w.max)
	w.binding.Set(v)
	return v
}

// SetValue writes v through the binding without snapping or clamping.
func (w *NumberWidget) SetValue(v float32) {
	w.binding.Set(v)
}

func (w *NumberWidget) Snapshot() WidgetSnapshot {
	return WidgetSnapshot{
		ID:    w.id,
		Label: w.label,
		Kind:  WidgetKindNumber,
		Value: float64(w.Value()),
		Min:   w.min,
		Max:   w.max,
		Step:  w.step,
	}
}

func (w *NumberWidget) apply(raw json.RawMessage) error {
	var v float32
	if err := json.Unmarshal(raw, &v); err != nil {
		return errors.Wrapf(err, "widget %s expects a number", w.id)
	}
	w.Input(v)
	return nil
}

// ColorWidget binds a 24-bit RGB color.
type ColorWidget struct {
	id       string
	label    string
	binding  ColorBinding
	onChange []func(uint32)
}

var _ Widget = &ColorWidget{}

func (w *ColorWidget) ID() string       { return w.id }
func (w *ColorWidget) Label() string    { return w.label }
func (w *ColorWidget) Kind() WidgetKind { return WidgetKindColor }

// Value reads the bound color.
func (w *ColorWidget) Value() uint32 {
	return w.binding.Get() & 0xFFFFFF
}

// OnChange registers fn to run after every user-driven change, with the written value.
// The owner uses it to re-derive its color object from the stored integer.
//
// Returns:
//   - *ColorWidget: the widget, for chaining
func (w *ColorWidget) OnChange(fn func(uint32)) *ColorWidget {
	if fn != nil {
		w.onChange = append(w.onChange, fn)
	}
	return w
}

// Input masks hex to 24 bits, writes it and runs the change callbacks.
func (w *ColorWidget) Input(hex uint32) {
	hex &= 0xFFFFFF
	w.binding.Set(hex)
	for _, fn := range w.onChange {
		fn(hex)
	}
}

// SetValue writes hex through the binding without running change callbacks.
func (w *ColorWidget) SetValue(hex uint32) {
	w.binding.Set(hex)
}

func (w *ColorWidget) Snapshot() WidgetSnapshot {
	hex := w.Value()
	return WidgetSnapshot{
		ID:    w.id,
		Label: w.label,
		Kind:  WidgetKindColor,
		Value: float64(hex),
		Color: common.NewColorHex(hex).HexString(),
	}
}

// apply accepts either "#rrggbb" or an integer.
func (w *ColorWidget) apply(raw json.RawMessage) error {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		hex, err := common.ParseHexColor(s)
		if err != nil {
			return errors.Wrapf(err, "widget %s", w.id)
		}
		w.Input(hex)
		return nil
	}
	var n uint32
	if err := json.Unmarshal(raw, &n); err != nil {
		return errors.Wrapf(err, "widget %s expects \"#rrggbb\" or an integer", w.id)
	}
	w.Input(n)
	return nil
}
