package main

import (
	"bytes"
	"image/color"
	"log"

	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/mapgrid/paint"
	"github.com/milk9111/mapgrid/viewport"
	"golang.org/x/image/font/gofont/goregular"
)

const toolbarHeight = 48

var (
	modeNames  = []string{"View", "Edit"}
	brushNames = []string{"obstacle", "road", "clear"}
)

// radioBar is a row of toggle buttons of which exactly one is active.
type radioBar struct {
	group   *widget.RadioGroup
	buttons []*widget.Button
}

func (rb *radioBar) SetActive(idx int) {
	if rb == nil || rb.group == nil || idx < 0 || idx >= len(rb.buttons) {
		return
	}
	rb.group.SetActive(rb.buttons[idx])
}

// toolbar is the strip along the top of the window.
type toolbar struct {
	modes   *radioBar
	brushes *radioBar
	zoom    *widget.Label
}

type toolbarCallbacks struct {
	onMode   func(viewport.Mode)
	onBrush  func(name string)
	onExport func()
}

func buildUI(cb toolbarCallbacks, mode viewport.Mode, brush paint.Brush, zoomLabel string, canExport bool) (*ebitenui.UI, *toolbar) {
	ui := &ebitenui.UI{}

	s, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		log.Fatalf("failed to load font: %v", err)
	}
	var fontFace text.Face = &text.GoTextFace{Source: s, Size: 14}
	ui.PrimaryTheme = newToolbarTheme(&fontFace)

	bar := widget.NewContainer(
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(0, toolbarHeight),
		),
		widget.ContainerOpts.Layout(
			widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
				widget.RowLayoutOpts.Spacing(8),
				widget.RowLayoutOpts.Padding(widget.NewInsetsSimple(4)),
			),
		),
		widget.ContainerOpts.BackgroundImage(solidNineSlice(color.RGBA{220, 220, 240, 255})),
	)

	tb := &toolbar{}
	tb.modes = buildRadioBar(bar, ui.PrimaryTheme, &fontFace, modeNames, func(idx int) {
		if cb.onMode != nil {
			cb.onMode(viewport.Mode(idx))
		}
	})
	tb.modes.SetActive(int(mode))

	bar.AddChild(separator())

	tb.brushes = buildRadioBar(bar, ui.PrimaryTheme, &fontFace, brushNames, func(idx int) {
		if cb.onBrush != nil {
			cb.onBrush(brushNames[idx])
		}
	})
	tb.brushes.SetActive(brushIndex(brush))

	bar.AddChild(separator())

	tb.zoom = widget.NewLabel(
		widget.LabelOpts.Text(zoomLabel, &fontFace, &widget.LabelColor{Idle: color.Black, Disabled: color.Gray{Y: 140}}),
	)
	bar.AddChild(tb.zoom)

	// Without a delivery target the export button is not offered at all.
	if canExport {
		bar.AddChild(widget.NewButton(
			widget.ButtonOpts.Image(ui.PrimaryTheme.ButtonTheme.Image),
			widget.ButtonOpts.Text("Export", &fontFace, buttonTextColor),
			widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.MinSize(72, 40)),
			widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
				if cb.onExport != nil {
					cb.onExport()
				}
			}),
		))
	}

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	bar.GetWidget().LayoutData = widget.AnchorLayoutData{
		HorizontalPosition: widget.AnchorLayoutPositionStart,
		VerticalPosition:   widget.AnchorLayoutPositionStart,
		StretchHorizontal:  true,
	}
	root.AddChild(bar)
	ui.Container = root

	return ui, tb
}

func buildRadioBar(parent *widget.Container, theme *widget.Theme, fontFace *text.Face, names []string, onSelect func(idx int)) *radioBar {
	rb := &radioBar{}
	for _, name := range names {
		btn := widget.NewButton(
			widget.ButtonOpts.Image(theme.ButtonTheme.Image),
			widget.ButtonOpts.Text(name, fontFace, buttonTextColor),
			widget.ButtonOpts.ToggleMode(),
			widget.ButtonOpts.WidgetOpts(
				widget.WidgetOpts.MinSize(72, 40),
			),
		)
		rb.buttons = append(rb.buttons, btn)
		parent.AddChild(btn)
	}

	elements := make([]widget.RadioGroupElement, 0, len(rb.buttons))
	for _, b := range rb.buttons {
		elements = append(elements, b)
	}
	rb.group = widget.NewRadioGroup(
		widget.RadioGroupOpts.Elements(elements...),
		widget.RadioGroupOpts.ChangedHandler(func(args *widget.RadioGroupChangedEventArgs) {
			for idx, b := range rb.buttons {
				if args.Active == b {
					onSelect(idx)
					return
				}
			}
		}),
	)
	return rb
}

func separator() *widget.Container {
	return widget.NewContainer(
		widget.ContainerOpts.WidgetOpts(widget.WidgetOpts.MinSize(2, 40)),
		widget.ContainerOpts.BackgroundImage(solidNineSlice(color.RGBA{160, 160, 180, 255})),
	)
}

func brushIndex(b paint.Brush) int {
	for i, name := range brushNames {
		if name == b.String() {
			return i
		}
	}
	return 0
}
