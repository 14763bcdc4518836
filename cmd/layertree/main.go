// Command layertree runs compositing decisions over a layer tree described
// in JSON and prints the resulting presentation tree.
//
// Usage:
//
//	layertree -in page.json -reasons
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/gogpu/compositor"
	"github.com/gogpu/compositor/surface"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.Fatal(err)
	}
}

// host keeps the root surface attached and ignores flush requests; the
// tool flushes once, synchronously, when dumping.
type host struct{}

func (host) ScheduleCompositingLayerFlush()     {}
func (host) AttachRootSurface(*surface.Surface) {}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("layertree", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		in       = fs.String("in", "", "layer tree JSON file (default stdin)")
		backend  = fs.String("backend", "", "surface backend name (default: best available)")
		force    = fs.Bool("force", false, "force compositing mode")
		debug    = fs.Bool("debug", false, "include debug borders and repaint counters")
		stores   = fs.Bool("stores", false, "include backing store sizes")
		reasons  = fs.Bool("reasons", false, "list why each layer is or is not composited")
		verbose  = fs.Bool("v", false, "log compositing decisions to stderr")
		fixedPos = fs.Bool("fixed", true, "composite fixed and sticky layers")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *verbose {
		compositor.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	r := stdin
	if *in != "" {
		f, err := os.Open(*in)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	view, err := decode(r)
	if err != nil {
		return err
	}

	var factory compositor.SurfaceFactory = surface.Default()
	if *backend != "" {
		factory = namedFactory{reg: surface.Default(), backend: *backend}
	}

	c := compositor.New(view,
		compositor.WithHost(host{}),
		compositor.WithSurfaceFactory(factory),
		compositor.WithForceCompositing(*force),
		compositor.WithDebugBorders(*debug),
		compositor.WithRepaintCounter(*debug),
		compositor.WithFixedPositionCompositing(*fixedPos),
	)
	defer c.Close()

	var flags surface.TextFlags
	if *debug {
		flags |= surface.TextDebug | surface.TextRepaintCounts
	}
	if *stores {
		flags |= surface.TextStores
	}
	fmt.Fprint(stdout, c.LayerTreeAsText(flags))

	if *reasons {
		var b strings.Builder
		writeReasons(&b, c, view.Root, 0)
		fmt.Fprint(stdout, b.String())
	}
	return nil
}

func writeReasons(b *strings.Builder, c *compositor.Compositor, l *compositor.Layer, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
	b.WriteString(l.Name)
	switch {
	case c.IsComposited(l):
		fmt.Fprintf(b, ": composited (%s)", c.ReasonsForCompositing(l))
	case c.NotCompositedReason(l) != compositor.NotCompositedNone:
		fmt.Fprintf(b, ": not composited (%s)", c.NotCompositedReason(l))
	}
	b.WriteByte('\n')
	for _, list := range []compositor.ZList{compositor.NegativeZ, compositor.NormalFlow, compositor.PositiveZ} {
		for _, child := range l.List(list) {
			writeReasons(b, c, child, depth+1)
		}
	}
}

// namedFactory pins surface creation to one backend.
type namedFactory struct {
	reg     *surface.Registry
	backend string
}

func (f namedFactory) NewSurface(name string, client surface.Client) (*surface.Surface, error) {
	return f.reg.NewSurfaceByName(f.backend, name, client)
}

func (f namedFactory) CanCreate() bool {
	e, ok := f.reg.Get(f.backend)
	return ok && e.Available()
}
