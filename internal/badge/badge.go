// Package badge formats and measures the repaint counter drawn in the
// corner of a surface when repaint counters are enabled.
package badge

import (
	"bytes"
	"sync"

	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
	xlanguage "golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FontSize is the counter text size in pixels.
const FontSize = 22

// Padding is added on both sides of the counter text.
const Padding = 3

var printer = message.NewPrinter(xlanguage.English)

// Label formats count with thousands separators.
func Label(count int) string {
	return printer.Sprintf("%d", count)
}

// Measurer computes the rendered width of counter labels.
//
// Measurer is safe for concurrent use.
type Measurer struct {
	font *font.Font
	size fixed.Int26_6

	shapers sync.Pool

	mu    sync.Mutex
	cache map[string]fixed.Int26_6
}

// NewMeasurer parses ttf and measures at size pixels.
func NewMeasurer(ttf []byte, size int) (*Measurer, error) {
	face, err := font.ParseTTF(bytes.NewReader(ttf))
	if err != nil {
		return nil, err
	}
	return &Measurer{
		font:    face.Font,
		size:    fixed.I(size),
		shapers: sync.Pool{New: func() any { return &shaping.HarfbuzzShaper{} }},
		cache:   make(map[string]fixed.Int26_6),
	}, nil
}

// Width returns the badge width for label, padding included.
func (m *Measurer) Width(label string) fixed.Int26_6 {
	m.mu.Lock()
	if w, ok := m.cache[label]; ok {
		m.mu.Unlock()
		return w
	}
	m.mu.Unlock()

	runes := []rune(label)
	input := shaping.Input{
		Text:      runes,
		RunStart:  0,
		RunEnd:    len(runes),
		Direction: di.DirectionLTR,
		Face:      font.NewFace(m.font),
		Size:      m.size,
		Script:    language.Latin,
		Language:  language.NewLanguage("en"),
	}
	hb := m.shapers.Get().(*shaping.HarfbuzzShaper)
	out := hb.Shape(input)
	m.shapers.Put(hb)

	w := out.Advance + fixed.I(2*Padding)
	m.mu.Lock()
	m.cache[label] = w
	m.mu.Unlock()
	return w
}

var (
	defaultOnce     sync.Once
	defaultMeasurer *Measurer
)

// Width measures label with the built-in Go Regular face. If the face
// cannot be parsed it falls back to a fixed advance per rune.
func Width(label string) fixed.Int26_6 {
	defaultOnce.Do(func() {
		m, err := NewMeasurer(goregular.TTF, FontSize)
		if err == nil {
			defaultMeasurer = m
		}
	})
	if defaultMeasurer == nil {
		return fixed.I(len([]rune(label))*FontSize/2 + 2*Padding)
	}
	return defaultMeasurer.Width(label)
}
