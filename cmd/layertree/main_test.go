package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/gogpu/compositor"
)

const sceneA = `{
  "viewport": [0, 0, 800, 600],
  "root": {
    "name": "root",
    "bounds": [0, 0, 800, 600],
    "stackingContainer": true,
    "children": [
      {
        "name": "A",
        "bounds": [10, 10, 100, 100],
        "transform3d": true,
        "children": [{"name": "B", "bounds": [20, 20, 50, 50]}]
      }
    ]
  }
}`

func TestDecode(t *testing.T) {
	view, err := decode(strings.NewReader(sceneA))
	if err != nil {
		t.Fatalf("decode() error = %v", err)
	}
	if view.Root.Name != "root" {
		t.Errorf("Root.Name = %q, want root", view.Root.Name)
	}
	if got, want := view.Viewport, compositor.XYWH(0, 0, 800, 600); got != want {
		t.Errorf("Viewport = %v, want %v", got, want)
	}
	kids := view.Root.List(compositor.NormalFlow)
	if len(kids) != 1 {
		t.Fatalf("root has %d normal-flow children, want 1", len(kids))
	}
	a := kids[0]
	if !a.Style.Transform3D || !a.Style.Transform {
		t.Errorf("A style = %+v, want a 3D transform", a.Style)
	}
	if !a.StackingContainer {
		t.Error("transformed layer is not a stacking container")
	}
	if a.Parent() != view.Root {
		t.Error("A is not parented to root")
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"syntax", `{`, "decode layer tree"},
		{"unknown field", `{"root": {"name": "r", "colour": 1}}`, "unknown field"},
		{"position", `{"root": {"name": "r", "position": "floating"}}`, `unknown position "floating"`},
		{"animation", `{"root": {"name": "r", "animations": ["spin"]}}`, `unknown animation "spin"`},
		{"content", `{"root": {"name": "r", "content": "audio"}}`, `unknown content "audio"`},
		{"list", `{"root": {"name": "r", "children": [{"name": "c", "list": "top"}]}}`, `unknown list "top"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decode(strings.NewReader(tt.doc))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("decode() error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestDecodeReflectionAndLists(t *testing.T) {
	doc := `{"root": {"name": "root", "bounds": [0, 0, 100, 100], "stackingContainer": true,
	  "children": [
	    {"name": "N", "bounds": [0, 0, 10, 10], "list": "negative", "position": "relative"},
	    {"name": "P", "bounds": [0, 0, 10, 10], "list": "positive", "position": "absolute",
	     "reflection": {"name": "R", "bounds": [0, 10, 10, 10]}}
	  ]}}`
	view, err := decode(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("decode() error = %v", err)
	}
	neg := view.Root.List(compositor.NegativeZ)
	pos := view.Root.List(compositor.PositiveZ)
	if len(neg) != 1 || neg[0].Name != "N" {
		t.Errorf("negative list = %v, want [N]", neg)
	}
	if len(pos) != 1 || pos[0].Name != "P" {
		t.Fatalf("positive list = %v, want [P]", pos)
	}
	if r := pos[0].Reflection(); r == nil || r.Name != "R" || !r.IsReflection() {
		t.Errorf("P reflection = %v, want R", r)
	}
}

func TestRun(t *testing.T) {
	var out, errOut bytes.Buffer
	err := run([]string{"-backend", "memory", "-reasons"}, strings.NewReader(sceneA), &out, &errOut)
	if err != nil {
		t.Fatalf("run() error = %v (stderr %q)", err, errOut.String())
	}
	want := "Content Root (0, 0) 800x600 clips\n" +
		"  root (0, 0) 800x600\n" +
		"    A (10, 10) 100x100 draws\n" +
		"root: composited (root)\n" +
		"  A: composited (3D transform)\n" +
		"    B\n"
	if got := out.String(); got != want {
		t.Errorf("run() output =\n%s\nwant\n%s", got, want)
	}
}

func TestRunUnknownBackend(t *testing.T) {
	var out, errOut bytes.Buffer
	err := run([]string{"-backend", "vulkan"}, strings.NewReader(sceneA), &out, &errOut)
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("run() output = %q, want empty without a usable backend", out.String())
	}
}
