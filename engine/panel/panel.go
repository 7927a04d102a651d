package panel

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// ErrUnknownWidget is returned when a widget id does not exist on the panel.
var ErrUnknownWidget = errors.New("unknown widget")

// Panel is a tree of folders holding widgets bound to scene state.
// Widgets are created once at startup; reads and writes go through their bindings on the
// render loop (the server routes every access through its dispatcher).
type Panel struct {
	mu *sync.Mutex

	title   string
	root    *Folder
	widgets map[string]Widget
}

// Folder groups widgets under a collapsible heading.
type Folder struct {
	panel   *Panel
	name    string
	path    string
	closed  bool
	widgets []Widget
	folders []*Folder
}

// Snapshot is the JSON description of a panel sent to the front-end.
type Snapshot struct {
	Title string         `json:"title"`
	Root  FolderSnapshot `json:"root"`
}

// FolderSnapshot describes one folder and its contents.
type FolderSnapshot struct {
	Name    string           `json:"name"`
	Closed  bool             `json:"closed"`
	Widgets []WidgetSnapshot `json:"widgets"`
	Folders []FolderSnapshot `json:"folders"`
}

// WidgetSnapshot describes one widget and its current value.
// Color widgets report the integer value and a "#rrggbb" string.
type WidgetSnapshot struct {
	ID    string     `json:"id"`
	Label string     `json:"label"`
	Kind  WidgetKind `json:"kind"`
	Value float64    `json:"value"`
	Min   float32    `json:"min"`
	Max   float32    `json:"max"`
	Step  float32    `json:"step"`
	Color string     `json:"color,omitempty"`
}

// New creates an empty panel.
//
// Parameters:
//   - title: the heading shown by the front-end
//
// Returns:
//   - *Panel: the panel
func New(title string) *Panel {
	p := &Panel{
		mu:      &sync.Mutex{},
		title:   title,
		widgets: make(map[string]Widget),
	}
	p.root = &Folder{panel: p}
	return p
}

// Title returns the panel heading.
func (p *Panel) Title() string {
	return p.title
}

// Root returns the top-level folder.
func (p *Panel) Root() *Folder {
	return p.root
}

// AddFolder adds a top-level folder.
func (p *Panel) AddFolder(name string) *Folder {
	return p.root.AddFolder(name)
}

// AddNumber adds a number widget at the top level.
func (p *Panel) AddNumber(label string, get func() float32, set func(float32), min, max, step float32) *NumberWidget {
	return p.root.AddNumber(label, get, set, min, max, step)
}

// AddColor adds a color widget at the top level.
func (p *Panel) AddColor(label string, get func() uint32, set func(uint32)) *ColorWidget {
	return p.root.AddColor(label, get, set)
}

// Widget looks up a widget by id.
//
// Parameters:
//   - id: the widget id
//
// Returns:
//   - Widget: the widget, or nil
//   - bool: whether the widget exists
func (p *Panel) Widget(id string) (Widget, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	w, ok := p.widgets[id]
	return w, ok
}

// Apply feeds a JSON value from the front-end to a widget as user input.
//
// Parameters:
//   - id: the widget id
//   - raw: the JSON-encoded value
//
// Returns:
//   - error: ErrUnknownWidget, or a decode error
func (p *Panel) Apply(id string, raw json.RawMessage) error {
	w, ok := p.Widget(id)
	if !ok {
		return errors.Wrapf(ErrUnknownWidget, "id %q", id)
	}
	return w.apply(raw)
}

// Snapshot describes every folder and widget with current values read through the bindings.
func (p *Panel) Snapshot() Snapshot {
	return Snapshot{Title: p.title, Root: p.root.snapshot()}
}

// register assigns a unique id derived from the folder path and label.
func (p *Panel) register(f *Folder, label string, w func(id string) Widget) Widget {
	p.mu.Lock()
	defer p.mu.Unlock()

	base := slug(label)
	if f.path != "" {
		base = f.path + "." + base
	}
	id := base
	for i := 2; ; i++ {
		if _, taken := p.widgets[id]; !taken {
			break
		}
		id = fmt.Sprintf("%s-%d", base, i)
	}
	widget := w(id)
	p.widgets[id] = widget
	f.widgets = append(f.widgets, widget)
	return widget
}

// Name returns the folder heading. The root folder has an empty name.
func (f *Folder) Name() string {
	return f.name
}

// AddFolder adds a nested folder.
//
// Parameters:
//   - name: the folder heading
//
// Returns:
//   - *Folder: the new folder, open by default
func (f *Folder) AddFolder(name string) *Folder {
	path := slug(name)
	if f.path != "" {
		path = f.path + "." + path
	}
	child := &Folder{panel: f.panel, name: name, path: path}
	f.panel.mu.Lock()
	f.folders = append(f.folders, child)
	f.panel.mu.Unlock()
	return child
}

// AddNumber binds a float32 to a slider.
//
// Parameters:
//   - label: the display label
//   - get: reads the target
//   - set: writes the target
//   - min, max: the slider bounds applied to user input
//   - step: the slider increment; 0 disables snapping
//
// Returns:
//   - *NumberWidget: the widget
func (f *Folder) AddNumber(label string, get func() float32, set func(float32), min, max, step float32) *NumberWidget {
	w := f.panel.register(f, label, func(id string) Widget {
		return &NumberWidget{
			id:      id,
			label:   label,
			binding: NumberBinding{Get: get, Set: set},
			min:     min,
			max:     max,
			step:    step,
		}
	})
	return w.(*NumberWidget)
}

// AddColor binds a 24-bit RGB integer to a color picker.
//
// Parameters:
//   - label: the display label
//   - get: reads the target
//   - set: writes the target
//
// Returns:
//   - *ColorWidget: the widget; attach OnChange to react to user edits
func (f *Folder) AddColor(label string, get func() uint32, set func(uint32)) *ColorWidget {
	w := f.panel.register(f, label, func(id string) Widget {
		return &ColorWidget{
			id:      id,
			label:   label,
			binding: ColorBinding{Get: get, Set: set},
		}
	})
	return w.(*ColorWidget)
}

// Close collapses the folder in the front-end.
func (f *Folder) Close() *Folder {
	f.panel.mu.Lock()
	defer f.panel.mu.Unlock()
	f.closed = true
	return f
}

// Open expands the folder in the front-end.
func (f *Folder) Open() *Folder {
	f.panel.mu.Lock()
	defer f.panel.mu.Unlock()
	f.closed = false
	return f
}

// Closed reports whether the folder is collapsed.
func (f *Folder) Closed() bool {
	f.panel.mu.Lock()
	defer f.panel.mu.Unlock()
	return f.closed
}

// Widgets returns the folder's widgets in insertion order.
func (f *Folder) Widgets() []Widget {
	f.panel.mu.Lock()
	defer f.panel.mu.Unlock()
	out := make([]Widget, len(f.widgets))
	copy(out, f.widgets)
	return out
}

// Folders returns the nested folders in insertion order.
func (f *Folder) Folders() []*Folder {
	f.panel.mu.Lock()
	defer f.panel.mu.Unlock()
	out := make([]*Folder, len(f.folders))
	copy(out, f.folders)
	return out
}

func (f *Folder) snapshot() FolderSnapshot {
	s := FolderSnapshot{
		Name:    f.name,
		Closed:  f.Closed(),
		Widgets: []WidgetSnapshot{},
		Folders: []FolderSnapshot{},
	}
	for _, w := range f.Widgets() {
		s.Widgets = append(s.Widgets, w.Snapshot())
	}
	for _, child := range f.Folders() {
		s.Folders = append(s.Folders, child.snapshot())
	}
	return s
}

// slug lowercases s and replaces runs of non-alphanumerics with '-'.
func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		return "widget"
	}
	return out
}
