package debugger

import (
	"bytes"

	"github.com/bradleyjkemp/memviz"
)

// breakpointGraph is the shape memviz walks to render the live
// breakpoint/watch table as a Graphviz dot graph, behind the CLI
// "breakpoint graph" verb.
type breakpointGraph struct {
	Substituted []Breakpoint
	Watched     []Breakpoint
}

// Graph renders the current breakpoint table as a dot graph string.
func (d *Debugger) Graph() string {
	bps := d.List()
	g := breakpointGraph{}
	for _, bp := range bps {
		if bp.Kind == Substituted {
			g.Substituted = append(g.Substituted, bp)
		} else {
			g.Watched = append(g.Watched, bp)
		}
	}
	var buf bytes.Buffer
	memviz.Map(&buf, &g)
	return buf.String()
}
