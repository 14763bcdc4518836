package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/gogpu/compositor"
)

// document is the JSON form of a view and its layer tree.
type document struct {
	Viewport        [4]int    `json:"viewport"`
	FixedBackground bool      `json:"fixedBackground"`
	Root            layerDesc `json:"root"`
}

// layerDesc describes one layer. Rectangles are [x, y, width, height] in
// root coordinates.
type layerDesc struct {
	Name   string  `json:"name"`
	Bounds [4]int  `json:"bounds"`
	Clip   *[4]int `json:"clip,omitempty"`

	// List is "negative", "normal" or "positive"; empty means normal.
	List string `json:"list,omitempty"`

	Transform    bool     `json:"transform,omitempty"`
	Transform3D  bool     `json:"transform3d,omitempty"`
	Opacity      *float32 `json:"opacity,omitempty"`
	Filter       bool     `json:"filter,omitempty"`
	Mask         bool     `json:"mask,omitempty"`
	Perspective  bool     `json:"perspective,omitempty"`
	Preserve3D   bool     `json:"preserve3d,omitempty"`
	Position     string   `json:"position,omitempty"`
	OverflowClip bool     `json:"overflowClip,omitempty"`
	Animations   []string `json:"animations,omitempty"`

	Content     string `json:"content,omitempty"`
	Accelerated bool   `json:"accelerated,omitempty"`

	StackingContainer bool `json:"stackingContainer,omitempty"`
	ScrollsOverflow   bool `json:"scrollsOverflow,omitempty"`
	TouchScrolling    bool `json:"touchScrolling,omitempty"`

	Reflection *layerDesc  `json:"reflection,omitempty"`
	Children   []layerDesc `json:"children,omitempty"`
}

var (
	zLists = map[string]compositor.ZList{
		"":         compositor.NormalFlow,
		"normal":   compositor.NormalFlow,
		"negative": compositor.NegativeZ,
		"positive": compositor.PositiveZ,
	}
	positions = map[string]compositor.Position{
		"":         compositor.PositionStatic,
		"static":   compositor.PositionStatic,
		"relative": compositor.PositionRelative,
		"absolute": compositor.PositionAbsolute,
		"fixed":    compositor.PositionFixed,
		"sticky":   compositor.PositionSticky,
	}
	animations = map[string]compositor.Animations{
		"transform": compositor.AnimatingTransform,
		"opacity":   compositor.AnimatingOpacity,
		"filter":    compositor.AnimatingFilter,
	}
	contents = map[string]compositor.ContentKind{
		"":       compositor.ContentNone,
		"none":   compositor.ContentNone,
		"video":  compositor.ContentVideo,
		"canvas": compositor.ContentCanvas,
		"plugin": compositor.ContentPlugin,
		"frame":  compositor.ContentFrame,
	}
)

// decode reads a document and builds its view.
func decode(r io.Reader) (*compositor.View, error) {
	var doc document
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode layer tree: %w", err)
	}
	root, err := doc.Root.build()
	if err != nil {
		return nil, err
	}
	return &compositor.View{
		Root:            root,
		Viewport:        rect(doc.Viewport),
		FixedBackground: doc.FixedBackground,
	}, nil
}

func rect(v [4]int) compositor.Rect { return compositor.XYWH(v[0], v[1], v[2], v[3]) }

func (s *layerDesc) build() (*compositor.Layer, error) {
	l := compositor.NewLayer(s.Name, rect(s.Bounds))
	if s.Clip != nil {
		l.ClipRect = rect(*s.Clip)
	}

	st := &l.Style
	st.Transform = s.Transform || s.Transform3D
	st.Transform3D = s.Transform3D
	if s.Opacity != nil {
		st.Opacity = *s.Opacity
	}
	st.Filter = s.Filter
	st.Mask = s.Mask
	st.Perspective = s.Perspective
	st.Preserve3D = s.Preserve3D
	st.OverflowClip = s.OverflowClip
	st.TouchScrolling = s.TouchScrolling

	var ok bool
	if st.Position, ok = positions[s.Position]; !ok {
		return nil, fmt.Errorf("layer %q: unknown position %q", s.Name, s.Position)
	}
	for _, a := range s.Animations {
		bit, ok := animations[a]
		if !ok {
			return nil, fmt.Errorf("layer %q: unknown animation %q", s.Name, a)
		}
		st.Animations |= bit
	}
	if l.Content.Kind, ok = contents[s.Content]; !ok {
		return nil, fmt.Errorf("layer %q: unknown content %q", s.Name, s.Content)
	}
	l.Content.Accelerated = s.Accelerated

	l.StackingContainer = s.StackingContainer || st.Position != compositor.PositionStatic ||
		st.HasTransform() || st.IsTransparent()
	l.ScrollsOverflow = s.ScrollsOverflow

	if s.Reflection != nil {
		r, err := s.Reflection.build()
		if err != nil {
			return nil, err
		}
		l.SetReflection(r)
	}
	for i := range s.Children {
		child := &s.Children[i]
		list, ok := zLists[child.List]
		if !ok {
			return nil, fmt.Errorf("layer %q: unknown list %q", child.Name, child.List)
		}
		cl, err := child.build()
		if err != nil {
			return nil, err
		}
		l.Append(list, cl)
	}
	return l, nil
}
