package fonts

import (
	"math"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/image/font"
)

// DefaultLineHeight is the line advance as a multiple of the font size.
const DefaultLineHeight = 1.12

// Style selects the font and size text is laid out with.
type Style struct {
	Font       string
	Size       float64
	LineHeight float64 // multiple of Size; 0 uses DefaultLineHeight
}

// LineAdvance returns the distance between baselines in pixels.
func (s Style) LineAdvance() float64 {
	if s.LineHeight <= 0 {
		return s.Size * DefaultLineHeight
	}
	return s.Size * s.LineHeight
}

// Layout is the result of wrapping text into a box.
type Layout struct {
	Lines  []string
	Width  float64 // widest line
	Height float64 // lines × line advance
}

// Measurer wraps text at word boundaries into maxWidth and reports the
// resulting size. Words wider than maxWidth get a line of their own and
// make Width exceed maxWidth.
type Measurer interface {
	Layout(text string, style Style, maxWidth float64) Layout
	// Advance returns the width of s on a single line.
	Advance(s string, style Style) float64
}

// FaceMeasurer measures with real glyph advances from a Library.
type FaceMeasurer struct {
	lib *Library

	mu    sync.Mutex
	faces map[faceKey]font.Face
}

type faceKey struct {
	name string
	size float64
}

// NewFaceMeasurer creates a measurer over lib. A nil lib uses Default().
func NewFaceMeasurer(lib *Library) *FaceMeasurer {
	if lib == nil {
		lib = Default()
	}
	return &FaceMeasurer{lib: lib, faces: make(map[faceKey]font.Face)}
}

// Library returns the font library the measurer draws faces from.
func (m *FaceMeasurer) Library() *Library { return m.lib }

// Advance implements Measurer.
func (m *FaceMeasurer) Advance(s string, style Style) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.advance(s, style)
}

// Layout implements Measurer.
func (m *FaceMeasurer) Layout(text string, style Style, maxWidth float64) Layout {
	m.mu.Lock()
	defer m.mu.Unlock()
	return wrap(text, style, maxWidth, func(s string) float64 { return m.advance(s, style) })
}

// advance must be called with mu held.
func (m *FaceMeasurer) advance(s string, style Style) float64 {
	face := m.face(style)
	if face == nil {
		return ApproxMeasurer{}.Advance(s, style)
	}
	return float64(font.MeasureString(face, s)) / 64
}

func (m *FaceMeasurer) face(style Style) font.Face {
	key := faceKey{style.Font, math.Round(style.Size*4) / 4}
	if f, ok := m.faces[key]; ok {
		return f
	}
	f, err := m.lib.Face(style.Font, key.size)
	if err != nil {
		return nil
	}
	m.faces[key] = f
	return f
}

// DefaultCharWidth is the average glyph advance as a share of the font size
// used by ApproxMeasurer.
const DefaultCharWidth = 0.55

// ApproxMeasurer estimates advances as rune count × size × CharWidth. It is
// deterministic and font independent.
type ApproxMeasurer struct {
	CharWidth float64
}

// Advance implements Measurer.
func (a ApproxMeasurer) Advance(s string, style Style) float64 {
	cw := a.CharWidth
	if cw <= 0 {
		cw = DefaultCharWidth
	}
	return float64(utf8.RuneCountInString(s)) * style.Size * cw
}

// Layout implements Measurer.
func (a ApproxMeasurer) Layout(text string, style Style, maxWidth float64) Layout {
	return wrap(text, style, maxWidth, func(s string) float64 { return a.Advance(s, style) })
}

// wrap breaks text greedily at spaces. Explicit newlines start a new line.
func wrap(text string, style Style, maxWidth float64, advance func(string) float64) Layout {
	var out Layout
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			out.Lines = append(out.Lines, "")
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			candidate := line + " " + w
			if advance(candidate) <= maxWidth {
				line = candidate
				continue
			}
			out.Lines = append(out.Lines, line)
			line = w
		}
		out.Lines = append(out.Lines, line)
	}
	for _, l := range out.Lines {
		out.Width = max(out.Width, advance(l))
	}
	out.Height = float64(len(out.Lines)) * style.LineAdvance()
	return out
}
