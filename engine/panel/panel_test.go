package panel

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type lightTarget struct {
	ambient    float32
	position   [3]float32
	background uint32
}

func newTestPanel(target *lightTarget) *Panel {
	p := New("Controls")
	ambient := p.AddFolder("Ambient Light")
	ambient.AddNumber("Intensity", func() float32 { return target.ambient }, func(v float32) { target.ambient = v }, 0, 1, 0.01)
	ambient.Close()

	dir := p.AddFolder("Directional Light")
	dir.AddNumber("Position X", func() float32 { return target.position[0] }, func(v float32) { target.position[0] = v }, -10, 10, 0.1)
	dir.Close()

	p.AddColor("Background Color", func() uint32 { return target.background }, func(v uint32) { target.background = v })
	return p
}

func TestNumberWidget_InputClampsToRange(t *testing.T) {
	target := &lightTarget{ambient: 0.5}
	p := newTestPanel(target)
	w, ok := p.Widget("ambient-light.intensity")
	require.True(t, ok)
	n := w.(*NumberWidget)

	tests := []struct {
		in   float32
		want float32
	}{
		{in: 0.25, want: 0.25},
		{in: 1.7, want: 1},
		{in: -3, want: 0},
		{in: 0.123, want: 0.12},
		{in: float32(math.Inf(1)), want: 1},
		{in: float32(math.Inf(-1)), want: 0},
	}
	for _, tt := range tests {
		got := n.Input(tt.in)
		assert.InDelta(t, tt.want, got, 1e-6, "input %v", tt.in)
		assert.InDelta(t, tt.want, target.ambient, 1e-6)
		assert.GreaterOrEqual(t, target.ambient, float32(0))
		assert.LessOrEqual(t, target.ambient, float32(1))
	}
}

func TestNumberWidget_InputIgnoresNaN(t *testing.T) {
	target := &lightTarget{ambient: 0.4}
	p := newTestPanel(target)
	w, _ := p.Widget("ambient-light.intensity")

	got := w.(*NumberWidget).Input(float32(math.NaN()))
	assert.InDelta(t, 0.4, got, 1e-6)
	assert.InDelta(t, 0.4, target.ambient, 1e-6)
}

func TestNumberWidget_SetValueDoesNotClamp(t *testing.T) {
	target := &lightTarget{}
	p := newTestPanel(target)
	w, _ := p.Widget("directional-light.position-x")
	n := w.(*NumberWidget)

	n.SetValue(42)
	assert.Equal(t, float32(42), target.position[0])
	assert.Equal(t, float32(42), n.Value())

	lo, hi, step := n.Range()
	assert.Equal(t, []float32{-10, 10, 0.1}, []float32{lo, hi, step})
}

func TestColorWidget_InputMasksAndNotifies(t *testing.T) {
	target := &lightTarget{}
	p := newTestPanel(target)
	w, ok := p.Widget("background-color")
	require.True(t, ok)
	c := w.(*ColorWidget)

	var changes []uint32
	c.OnChange(func(hex uint32) { changes = append(changes, hex) })

	c.Input(0x87ceeb)
	c.Input(0xff123456)
	assert.Equal(t, uint32(0x123456), target.background)
	assert.Equal(t, []uint32{0x87ceeb, 0x123456}, changes)

	c.SetValue(0xabcdef)
	assert.Equal(t, uint32(0xabcdef), c.Value())
	assert.Len(t, changes, 2, "SetValue does not run change callbacks")
}

func TestPanel_WidgetIDsAreUnique(t *testing.T) {
	p := New("ids")
	f := p.AddFolder("Light")
	a := f.AddNumber("Intensity", func() float32 { return 0 }, func(float32) {}, 0, 1, 0.1)
	b := f.AddNumber("Intensity", func() float32 { return 0 }, func(float32) {}, 0, 1, 0.1)
	nested := f.AddFolder("Shadow Map").AddNumber("Bias!", func() float32 { return 0 }, func(float32) {}, 0, 1, 0)

	assert.Equal(t, "light.intensity", a.ID())
	assert.Equal(t, "light.intensity-2", b.ID())
	assert.Equal(t, "light.shadow-map.bias", nested.ID())
}

func TestPanel_Snapshot(t *testing.T) {
	target := &lightTarget{ambient: 0.5, background: 0x87ceeb}
	p := newTestPanel(target)

	snap := p.Snapshot()
	assert.Equal(t, "Controls", snap.Title)
	require.Len(t, snap.Root.Folders, 2)
	assert.Equal(t, "Ambient Light", snap.Root.Folders[0].Name)
	assert.True(t, snap.Root.Folders[0].Closed)
	require.Len(t, snap.Root.Folders[0].Widgets, 1)
	assert.InDelta(t, 0.5, snap.Root.Folders[0].Widgets[0].Value, 1e-6)

	require.Len(t, snap.Root.Widgets, 1)
	bg := snap.Root.Widgets[0]
	assert.Equal(t, WidgetKindColor, bg.Kind)
	assert.Equal(t, "#87ceeb", bg.Color)
	assert.Equal(t, float64(0x87ceeb), bg.Value)

	p.Root().Folders()[0].Open()
	assert.False(t, p.Snapshot().Root.Folders[0].Closed)
}

func TestPanel_Apply(t *testing.T) {
	target := &lightTarget{}
	p := newTestPanel(target)

	require.NoError(t, p.Apply("ambient-light.intensity", json.RawMessage(`0.75`)))
	assert.InDelta(t, 0.75, target.ambient, 1e-6)

	require.NoError(t, p.Apply("background-color", json.RawMessage(`"#ff8800"`)))
	assert.Equal(t, uint32(0xff8800), target.background)

	require.NoError(t, p.Apply("background-color", json.RawMessage(`255`)))
	assert.Equal(t, uint32(0x0000ff), target.background)

	err := p.Apply("nope", json.RawMessage(`1`))
	assert.True(t, errors.Is(err, ErrUnknownWidget))

	assert.Error(t, p.Apply("ambient-light.intensity", json.RawMessage(`"loud"`)))
	assert.Error(t, p.Apply("background-color", json.RawMessage(`"#zzzzzz"`)))
}
