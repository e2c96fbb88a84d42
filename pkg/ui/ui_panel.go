package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	titleHeight   = 24.0
	sectionHeight = 22.0
	widgetGap     = 6.0
	lineHeight    = 16.0
	margin        = 10.0
)

// UIWidget is an interface for all UI widgets
type UIWidget interface {
	Update()
	Draw(screen *ebiten.Image)
	Height() float64
	MoveTo(x, y float64)
}

// PanelSection is a titled group of widgets.
type PanelSection struct {
	Title   string
	Widgets []UIWidget
}

// UIPanel stacks sections of widgets vertically, followed by free text lines.
// Widgets are laid out again on every Draw so the panel can grow.
type UIPanel struct {
	X, Y  float64
	Width float64
	Title string
	Lines []string // shown under the last section, replaced by the caller each frame

	BGColor     color.RGBA
	BorderColor color.RGBA
	SectionBG   color.RGBA

	sections []PanelSection
}

// NewUIPanel creates a new UI panel
func NewUIPanel(x, y, width float64, title string) *UIPanel {
	return &UIPanel{
		X:           x,
		Y:           y,
		Width:       width,
		Title:       title,
		BGColor:     color.RGBA{R: 40, G: 40, B: 45, A: 200},
		BorderColor: color.RGBA{R: 100, G: 100, B: 110, A: 255},
		SectionBG:   color.RGBA{R: 60, G: 60, B: 70, A: 255},
	}
}

// AddSection starts a new section; following widgets belong to it.
func (p *UIPanel) AddSection(title string) {
	p.sections = append(p.sections, PanelSection{Title: title})
}

func (p *UIPanel) add(w UIWidget) {
	if len(p.sections) == 0 {
		p.AddSection("")
	}
	last := &p.sections[len(p.sections)-1]
	last.Widgets = append(last.Widgets, w)
	p.layout()
}

// AddCheckbox adds a checkbox widget to the current section
func (p *UIPanel) AddCheckbox(label string, value bool) *Checkbox {
	c := NewCheckbox(0, 0, label, value)
	p.add(c)
	return c
}

// AddButton adds a button spanning the panel width to the current section
func (p *UIPanel) AddButton(label string, onClick func()) *Button {
	b := NewButton(0, 0, p.Width-2*margin, 20, label, onClick)
	p.add(b)
	return b
}

// layout positions every widget and returns the y just below the last one.
func (p *UIPanel) layout() float64 {
	y := p.Y + titleHeight
	for _, s := range p.sections {
		if s.Title != "" {
			y += sectionHeight
		}
		for _, w := range s.Widgets {
			w.MoveTo(p.X+margin, y)
			y += w.Height() + widgetGap
		}
	}
	return y
}

// Height is the total panel height including text lines.
func (p *UIPanel) Height() float64 {
	return p.layout() - p.Y + float64(len(p.Lines))*lineHeight + widgetGap
}

// Update handles input for all widgets
func (p *UIPanel) Update() {
	for _, s := range p.sections {
		for _, w := range s.Widgets {
			w.Update()
		}
	}
}

// Draw renders the panel and all widgets
func (p *UIPanel) Draw(screen *ebiten.Image) {
	h := p.Height()
	vector.FillRect(screen, float32(p.X), float32(p.Y), float32(p.Width), float32(h), p.BGColor, true)
	vector.StrokeRect(screen, float32(p.X), float32(p.Y), float32(p.Width), float32(h), 2, p.BorderColor, true)
	ebitenutil.DebugPrintAt(screen, p.Title, int(p.X+margin), int(p.Y+5))

	y := p.Y + titleHeight
	for _, s := range p.sections {
		if s.Title != "" {
			vector.FillRect(screen, float32(p.X+5), float32(y), float32(p.Width-10), sectionHeight-4, p.SectionBG, true)
			ebitenutil.DebugPrintAt(screen, s.Title, int(p.X+margin), int(y+1))
			y += sectionHeight
		}
		for _, w := range s.Widgets {
			w.MoveTo(p.X+margin, y)
			w.Draw(screen)
			y += w.Height() + widgetGap
		}
	}
	for _, line := range p.Lines {
		ebitenutil.DebugPrintAt(screen, line, int(p.X+margin), int(y))
		y += lineHeight
	}
}
