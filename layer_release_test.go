//go:build !compositordebug

package compositor

import (
	"log/slog"
	"strings"
	"testing"
)

func TestZOrderedChildOnPlainLayerWarns(t *testing.T) {
	buf := captureLogs(t, slog.LevelWarn)

	l := NewLayer("L", XYWH(0, 0, 100, 100))
	child := l.Append(NegativeZ, NewLayer("N", XYWH(0, 0, 10, 10)))

	if !strings.Contains(buf.String(), "not a stacking container") {
		t.Errorf("log = %q, want a stacking container warning", buf.String())
	}
	if got := l.negZ(); got != nil {
		t.Errorf("negZ() = %v, want nil on a plain layer", got)
	}
	if got := l.List(NegativeZ); len(got) != 1 || got[0] != child {
		t.Errorf("List(NegativeZ) = %v, want [N]", got)
	}

	buf.Reset()
	l.Append(NormalFlow, NewLayer("F", XYWH(0, 0, 10, 10)))
	if buf.Len() != 0 {
		t.Errorf("NormalFlow Append logged %q, want nothing", buf.String())
	}
}
