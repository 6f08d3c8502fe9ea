// Package charts builds interactive chart artifacts from price history.
package charts

import "io"

// renderable is the subset of a go-echarts chart the artifact needs.
type renderable interface {
	Render(w io.Writer) error
}

// Artifact is an opaque chart produced by a charting tool. It has no
// identity beyond insertion order within a turn and is owned by the
// turn that created it.
type Artifact struct {
	Title string
	chart renderable
}

// Render writes the chart as a self-contained HTML document.
func (a *Artifact) Render(w io.Writer) error {
	return a.chart.Render(w)
}
