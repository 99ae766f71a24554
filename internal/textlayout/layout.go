/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package textlayout

// Text measurement for text nodes. Measurement sits behind a Provider so
// tests use the deterministic basic face and the editor can plug in real
// OpenType fonts.

import (
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// FontSpec describes a requested font.
type FontSpec struct {
	Family string // logical family name
	SizePt float64
	Weight int // 100..900
	Italic bool
}

// Metrics provides font metrics in pixels for the resolved face. Scale is
// applied to every advance and metric; providers with a fixed-size face use
// it to honor FontSpec.SizePt.
type Metrics struct {
	Ascent, Descent, LineGap float64
	Scale                    float64
}

func (m Metrics) lineHeight() float64 { return m.Ascent + m.Descent + m.LineGap }

// Line is a single laid out line.
type Line struct {
	Text  string
	Width float64
}

// TextBox is the result of laying out text into a box width.
type TextBox struct {
	Lines   []Line
	Width   float64
	Height  float64
	Metrics Metrics
}

// Provider maps FontSpec to a concrete font.Face.
type Provider interface {
	Resolve(FontSpec) (font.Face, Metrics)
}

// basicNativeSize is the pixel height Face7x13 is drawn at.
const basicNativeSize = 13

// BasicProvider uses x/image/basicfont Face7x13 for deterministic tests. The
// face has one size, so the requested size becomes a scale factor.
type BasicProvider struct{}

func (BasicProvider) Resolve(spec FontSpec) (font.Face, Metrics) {
	f := basicfont.Face7x13
	m := f.Metrics()
	scale := 1.0
	if spec.SizePt > 0 {
		scale = spec.SizePt / basicNativeSize
	}
	return f, Metrics{
		Ascent:  float64(m.Ascent.Round()) * scale,
		Descent: float64(m.Descent.Round()) * scale,
		LineGap: float64(m.Height.Round()-m.Ascent.Round()-m.Descent.Round()) * scale,
		Scale:   scale,
	}
}

// Layout breaks text on spaces to fit maxWidth (0 disables wrapping) and on
// explicit newlines. It does not shape or hyphenate.
func Layout(provider Provider, text string, spec FontSpec, maxWidth float64) TextBox {
	if provider == nil {
		provider = BasicProvider{}
	}
	face, met := provider.Resolve(spec)
	if met.Scale == 0 {
		met.Scale = 1
	}
	drawer := &font.Drawer{Face: face}
	box := TextBox{Metrics: met}
	addLine := func(s string) {
		w := advance(drawer, s) * met.Scale
		box.Lines = append(box.Lines, Line{Text: s, Width: w})
		if w > box.Width {
			box.Width = w
		}
		box.Height += met.lineHeight()
	}
	for _, para := range strings.Split(text, "\n") {
		if maxWidth <= 0 {
			addLine(para)
			continue
		}
		var cur string
		for _, word := range strings.Split(para, " ") {
			next := word
			if cur != "" {
				next = cur + " " + word
			}
			if cur != "" && advance(drawer, next)*met.Scale > maxWidth {
				addLine(cur)
				next = word
			}
			cur = next
		}
		addLine(cur)
	}
	return box
}

func advance(d *font.Drawer, s string) float64 {
	return float64(d.MeasureString(s)) / 64 // fixed.Int26_6 to px
}

// Measure returns the unwrapped size of text.
func Measure(provider Provider, text string, spec FontSpec) (w, h float64) {
	box := Layout(provider, text, spec, 0)
	return box.Width, box.Height
}
