// Package fonts provides the embedded Go font family for measuring and
// rendering ad text.
//
// The fonts ship with golang.org/x/image, so the binary needs no font files
// on disk. Additional TrueType fonts can be registered under a name (for
// example from the [fonts] config section) and used by treatments.
package fonts

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/gofont/gosmallcaps"
	"golang.org/x/image/font/opentype"
)

// Built-in font names.
const (
	Regular    = "go-regular"
	Medium     = "go-medium"
	Bold       = "go-bold"
	Italic     = "go-italic"
	BoldItalic = "go-bold-italic"
	Mono       = "go-mono"
	MonoBold   = "go-mono-bold"
	SmallCaps  = "go-smallcaps"
)

// DPI used for all faces. At 72 DPI one point is one pixel, so font sizes
// are canvas pixels.
const DPI = 72

var builtin = map[string][]byte{
	Regular:    goregular.TTF,
	Medium:     gomedium.TTF,
	Bold:       gobold.TTF,
	Italic:     goitalic.TTF,
	BoldItalic: gobolditalic.TTF,
	Mono:       gomono.TTF,
	MonoBold:   gomonobold.TTF,
	SmallCaps:  gosmallcaps.TTF,
}

// Library holds parsed fonts by name. Parsing happens once per font on
// first use. A Library is safe for concurrent use; the faces it returns
// are not and belong to the caller.
type Library struct {
	mu     sync.Mutex
	data   map[string][]byte
	parsed map[string]*opentype.Font
}

// NewLibrary creates a library with the built-in Go fonts.
func NewLibrary() *Library {
	l := &Library{
		data:   make(map[string][]byte, len(builtin)),
		parsed: make(map[string]*opentype.Font),
	}
	for name, ttf := range builtin {
		l.data[name] = ttf
	}
	return l
}

var (
	defaultLibrary     *Library
	defaultLibraryOnce sync.Once
)

// Default returns a process-wide library of built-in fonts.
func Default() *Library {
	defaultLibraryOnce.Do(func() {
		defaultLibrary = NewLibrary()
	})
	return defaultLibrary
}

// Register adds or replaces a font. The data is parsed immediately so bad
// files fail here rather than during composition.
func (l *Library) Register(name string, ttf []byte) error {
	f, err := opentype.Parse(ttf)
	if err != nil {
		return fmt.Errorf("parse font %s: %w", name, err)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.data[name] = ttf
	l.parsed[name] = f
	return nil
}

// RegisterFile registers a TrueType or OpenType file under name.
func (l *Library) RegisterFile(name, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read font %s: %w", name, err)
	}
	return l.Register(name, data)
}

// Has reports whether name is registered.
func (l *Library) Has(name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, ok := l.data[name]
	return ok
}

// Names lists the registered font names in sorted order.
func (l *Library) Names() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	names := make([]string, 0, len(l.data))
	for name := range l.data {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Face returns a new face for name at size pixels. Unknown names fall back
// to Regular.
func (l *Library) Face(name string, size float64) (font.Face, error) {
	f, err := l.font(name)
	if err != nil {
		return nil, err
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{
		Size:    size,
		DPI:     DPI,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("create face %s@%.1f: %w", name, size, err)
	}
	return face, nil
}

func (l *Library) font(name string) (*opentype.Font, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.data[name]; !ok {
		name = Regular
	}
	if f, ok := l.parsed[name]; ok {
		return f, nil
	}
	f, err := opentype.Parse(l.data[name])
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", name, err)
	}
	l.parsed[name] = f
	return f, nil
}
