package compositor

import (
	"strings"

	"github.com/gogpu/compositor/surface"
)

// LayerTreeAsText brings the presentation tree up to date and renders it,
// one surface per line. It returns "" outside compositing mode.
//
// Example output:
//
//	Content Root (0, 0) 800x600 clips
//	  root (0, 0) 800x600
//	  A (10, 10) 100x100 draws
func (c *Compositor) LayerTreeAsText(flags surface.TextFlags) string {
	c.UpdateCompositingLayers(UpdateAfterLayout, nil)
	if c.rootContent == nil {
		return ""
	}
	if err := c.FlushPendingLayerChanges(); err != nil {
		Logger().Warn("compositor: flush before dump", "err", err)
	}
	var b strings.Builder
	c.rootContent.AppendText(&b, 0, flags)
	if flags&surface.TextRepaintRects != 0 && len(c.viewRepaints) > 0 {
		parts := make([]string, len(c.viewRepaints))
		for i, r := range c.viewRepaints {
			parts[i] = formatRect(r)
		}
		b.WriteString("view repaint-rects=[")
		b.WriteString(strings.Join(parts, " "))
		b.WriteString("]\n")
	}
	return b.String()
}
