package viewport

import "math"

// Mode gates whether pointer gestures pan the view or paint the grid.
type Mode int

const (
	View Mode = iota
	Edit
)

func (m Mode) String() string {
	switch m {
	case View:
		return "View"
	case Edit:
		return "Edit"
	default:
		return "Unknown"
	}
}

// Cursor styles requested from the host on mode changes.
const (
	CursorPointer   = "pointer"
	CursorCrosshair = "crosshair"
)

// Size is a width/height pair in pixels.
type Size struct {
	W, H float64
}

func (s Size) Scaled(f float64) Size { return Size{W: s.W * f, H: s.H * f} }

// Limits bound the discrete zoom factor.
type Limits struct {
	Min  float64
	Max  float64
	Step float64
}

// DefaultLimits allows 75%, 100% and 125%.
var DefaultLimits = Limits{Min: 0.75, Max: 1.25, Step: 0.25}

// Panner is the host capability toggled by SetMode.
type Panner interface {
	SetPanningEnabled(enabled bool)
	SetCursor(style string)
}

// Viewport tracks the zoom factor and the pixel sizes derived from it. Map
// and cell sizes scale together, so the number of cells never changes.
type Viewport struct {
	baseMap  Size
	baseCell Size
	limits   Limits
	scale    float64
	mode     Mode

	panner    Panner
	onRescale func()
}

type Option func(*Viewport)

func WithLimits(l Limits) Option {
	return func(v *Viewport) { v.limits = l }
}

// WithPanner sets the host capability used when switching modes.
func WithPanner(p Panner) Option {
	return func(v *Viewport) { v.panner = p }
}

// WithRescale registers the hook run after every successful zoom.
func WithRescale(fn func()) Option {
	return func(v *Viewport) { v.onRescale = fn }
}

// New starts at 100%, or at the closest allowed step when 100% lies outside
// the limits.
func New(baseMap, baseCell Size, opts ...Option) *Viewport {
	v := &Viewport{
		baseMap:  baseMap,
		baseCell: baseCell,
		limits:   DefaultLimits,
		scale:    1,
		mode:     View,
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.limits.Step <= 0 {
		v.limits.Step = DefaultLimits.Step
	}
	v.scale = v.snap(1)
	return v
}

// OnRescale replaces the zoom hook. The editor uses it to trigger a full
// repaint once the renderer exists.
func (v *Viewport) OnRescale(fn func()) { v.onRescale = fn }

func (v *Viewport) Scale() float64     { return v.scale }
func (v *Viewport) Mode() Mode         { return v.mode }
func (v *Viewport) Limits() Limits     { return v.limits }
func (v *Viewport) BaseMapSize() Size  { return v.baseMap }
func (v *Viewport) BaseCellSize() Size { return v.baseCell }
func (v *Viewport) MapSize() Size      { return v.baseMap.Scaled(v.scale) }
func (v *Viewport) CellSize() Size     { return v.baseCell.Scaled(v.scale) }

// Percent is the zoom factor as shown in the scale label.
func (v *Viewport) Percent() int { return int(math.Round(v.scale * 100)) }

func (v *Viewport) ZoomIn() bool  { return v.zoomTo(v.scale + v.limits.Step) }
func (v *Viewport) ZoomOut() bool { return v.zoomTo(v.scale - v.limits.Step) }

// Zoom applies a wheel direction: positive zooms in, negative out, zero is
// ignored.
func (v *Viewport) Zoom(direction float64) bool {
	switch {
	case direction > 0:
		return v.ZoomIn()
	case direction < 0:
		return v.ZoomOut()
	}
	return false
}

// SetScale applies s if it lies within the limits, snapped to the nearest
// step that does not pass Max.
func (v *Viewport) SetScale(s float64) bool {
	return v.zoomTo(s)
}

func (v *Viewport) zoomTo(s float64) bool {
	if s < v.limits.Min-eps || s > v.limits.Max+eps {
		return false
	}
	s = v.snap(s)
	if math.Abs(s-v.scale) < eps {
		return false
	}
	v.scale = s
	if v.onRescale != nil {
		v.onRescale()
	}
	return true
}

const eps = 1e-9

// snap returns the step closest to s among Min, Min+Step, ... that do not
// exceed Max.
func (v *Viewport) snap(s float64) float64 {
	l := v.limits
	last := math.Floor((l.Max-l.Min)/l.Step + eps)
	k := math.Round((s - l.Min) / l.Step)
	k = math.Max(0, math.Min(k, last))
	return l.Min + k*l.Step
}

// SetMode switches between panning and painting. It never touches the grid.
func (v *Viewport) SetMode(m Mode) {
	if m != View && m != Edit {
		return
	}
	v.mode = m
	if v.panner == nil {
		return
	}
	switch m {
	case View:
		v.panner.SetPanningEnabled(true)
		v.panner.SetCursor(CursorPointer)
	case Edit:
		v.panner.SetPanningEnabled(false)
		v.panner.SetCursor(CursorCrosshair)
	}
}

// CanPaint reports whether pointer gestures should reach the paint engine.
func (v *Viewport) CanPaint() bool { return v.mode == Edit }
