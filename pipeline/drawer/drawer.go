// Package drawer renders a pipeline's shape as a Graphviz DOT graph, with
// optional per-stage timings from a measure.Measure.
package drawer

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/dominikbraun/graph"
	"github.com/dominikbraun/graph/draw"
	"github.com/pkg/errors"
	"gopkg.in/go-playground/colors.v1"

	"github.com/kbukum/pipekit/pipeline"
	"github.com/kbukum/pipekit/pipeline/measure"
)

const maxRGB = 240

type options struct {
	measure *measure.Measure
	title   string
	rankdir string
}

// Option configures a Drawer.
type Option func(*options)

// WithMeasure annotates each stage with its average duration and colours
// it from blue (fastest) to red (slowest).
func WithMeasure(m *measure.Measure) Option {
	return func(o *options) { o.measure = m }
}

// WithTitle sets the graph label.
func WithTitle(title string) Option {
	return func(o *options) { o.title = title }
}

// WithRankDir sets the Graphviz layout direction ("LR" by default).
func WithRankDir(dir string) Option {
	return func(o *options) { o.rankdir = dir }
}

// Drawer holds the graph of one pipeline shape.
type Drawer struct {
	graph    graph.Graph[string, string]
	vertices []string
	opts     options
}

// New builds the graph of shape: one vertex per stage, nested pipelines
// flattened as "outer/inner", and one edge per joint labelled with the type
// passed across it.
func New(shape pipeline.Shape, opts ...Option) (*Drawer, error) {
	d := &Drawer{
		graph: graph.New(graph.StringHash, graph.Directed()),
		opts:  options{rankdir: "LR"},
	}
	for _, opt := range opts {
		opt(&d.opts)
	}

	stages := shape.Flatten()
	colours, err := d.colours(stages)
	if err != nil {
		return nil, err
	}

	used := make(map[string]bool, len(stages))
	for i, st := range stages {
		id := uniqueID(st.Name, used)

		attrs := []func(*graph.VertexProperties){graph.VertexAttribute("shape", "box")}
		if mt, ok := d.metric(st.Name); ok {
			attrs = append(attrs,
				graph.VertexAttribute("label", fmt.Sprintf(`%s\n%s (%d calls)`, id, mt.Avg(), mt.Count)),
				graph.VertexAttribute("color", colours[i]),
			)
		}
		if err := d.graph.AddVertex(id, attrs...); err != nil {
			return nil, errors.Wrapf(err, "unable to add vertex %s", id)
		}
		if i > 0 {
			prev := d.vertices[i-1]
			if err := d.graph.AddEdge(prev, id, graph.EdgeAttribute("label", stages[i-1].Output.String())); err != nil {
				return nil, errors.Wrapf(err, "unable to add edge from %s to %s", prev, id)
			}
		}
		d.vertices = append(d.vertices, id)
	}
	return d, nil
}

// uniqueID returns name, or name with the first free " (n)" suffix when
// name is already taken, and marks the result as used.
func uniqueID(name string, used map[string]bool) string {
	id := name
	for n := 2; used[id]; n++ {
		id = fmt.Sprintf("%s (%d)", name, n)
	}
	used[id] = true
	return id
}

// metric finds the measurement for a flattened stage name, falling back to
// the innermost name.
func (d *Drawer) metric(name string) (measure.Metric, bool) {
	if d.opts.measure == nil {
		return measure.Metric{}, false
	}
	if mt, ok := d.opts.measure.Metric(name); ok {
		return mt, true
	}
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		return d.opts.measure.Metric(name[i+1:])
	}
	return measure.Metric{}, false
}

// colours maps each measured stage index to a hex colour between blue and
// red, scaled on its average duration.
func (d *Drawer) colours(stages []pipeline.StageInfo) (map[int]string, error) {
	avgs := make(map[int]time.Duration)
	for i, st := range stages {
		if mt, ok := d.metric(st.Name); ok {
			avgs[i] = mt.Avg()
		}
	}
	if len(avgs) == 0 {
		return nil, nil
	}

	sorted := make([]time.Duration, 0, len(avgs))
	for _, avg := range avgs {
		sorted = append(sorted, avg)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	lo, hi := sorted[0], sorted[len(sorted)-1]

	out := make(map[int]string, len(avgs))
	for i, avg := range avgs {
		fraction := 1.0
		if hi > lo {
			fraction = float64(avg-lo) / float64(hi-lo)
		}
		c, err := colors.RGB(uint8(maxRGB*fraction), 0, uint8(maxRGB*(1-fraction)))
		if err != nil {
			return nil, errors.Wrap(err, "unable to get colour")
		}
		out[i] = c.ToHEX().String()
	}
	return out, nil
}

// Vertices returns the vertex ids in stage order.
func (d *Drawer) Vertices() []string {
	out := make([]string, len(d.vertices))
	copy(out, d.vertices)
	return out
}

// Graph exposes the underlying graph.
func (d *Drawer) Graph() graph.Graph[string, string] { return d.graph }

// Write renders the graph as DOT.
func (d *Drawer) Write(w io.Writer) error {
	var err error
	if d.opts.title != "" {
		err = draw.DOT(d.graph, w,
			draw.GraphAttribute("rankdir", d.opts.rankdir),
			draw.GraphAttribute("label", d.opts.title))
	} else {
		err = draw.DOT(d.graph, w, draw.GraphAttribute("rankdir", d.opts.rankdir))
	}
	return errors.Wrap(err, "unable to render dot")
}

// Draw writes the DOT rendering to path.
func (d *Drawer) Draw(path string) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "unable to create file %s", path)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = errors.Wrapf(cerr, "unable to close file %s", path)
		}
	}()
	return d.Write(file)
}
