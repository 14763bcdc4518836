package compositor

import (
	"slices"
	"testing"
)

func TestReasonsNames(t *testing.T) {
	tests := []struct {
		r       Reasons
		names   []string
		primary string
		str     string
	}{
		{ReasonNone, nil, "", "none"},
		{ReasonRoot, []string{"root"}, "root", "root"},
		{ReasonOverlap | Reason3DTransform, []string{"3D transform", "overlap"}, "3D transform", "3D transform, overlap"},
		{ReasonPreserve3D | ReasonStacking | ReasonPositionFixed,
			[]string{"position: fixed", "stacking", "preserve-3d"}, "position: fixed",
			"position: fixed, stacking, preserve-3d"},
	}
	for _, tt := range tests {
		if got := tt.r.Names(); !slices.Equal(got, tt.names) {
			t.Errorf("Names() = %v, want %v", got, tt.names)
		}
		if got := tt.r.Primary(); got != tt.primary {
			t.Errorf("Primary() = %q, want %q", got, tt.primary)
		}
		if got := tt.r.String(); got != tt.str {
			t.Errorf("String() = %q, want %q", got, tt.str)
		}
	}
}

func TestReasonsHas(t *testing.T) {
	r := ReasonVideo | ReasonOverlap
	tests := []struct {
		x    Reasons
		want bool
	}{
		{ReasonVideo, true},
		{ReasonVideo | ReasonOverlap, true},
		{ReasonVideo | ReasonCanvas, false},
		{ReasonNone, false},
	}
	for _, tt := range tests {
		if got := r.Has(tt.x); got != tt.want {
			t.Errorf("Has(%v) = %v, want %v", tt.x, got, tt.want)
		}
	}
}

func TestEveryReasonNamed(t *testing.T) {
	for r := Reason3DTransform; r <= ReasonRoot; r <<= 1 {
		if r.Primary() == "" {
			t.Errorf("reason %#x has no name", uint32(r))
		}
	}
}

func TestNotCompositedReasonString(t *testing.T) {
	tests := []struct {
		r    NotCompositedReason
		want string
	}{
		{NotCompositedNone, "none"},
		{NotCompositedNonViewContainer, "container is not the view"},
		{NotCompositedNoVisibleContent, "no visible content"},
		{NotCompositedBoundsOutOfView, "bounds out of view"},
	}
	for _, tt := range tests {
		if got := tt.r.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
