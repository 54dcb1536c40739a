package aquinas

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/sync/errgroup"

	"github.com/danpasecinic/aquinas/internal/container"
	"github.com/danpasecinic/aquinas/internal/graph"
	"github.com/danpasecinic/aquinas/internal/ident"
)

type GraphInfo struct {
	Bindings []BindingInfo
}

type BindingInfo struct {
	Reference    string
	Dependencies []string
	Dependents   []string
	Instantiated bool
}

// Graph describes every binding, sorted by reference name, with the
// dependencies its Injectable declared.
func (d *Dock) Graph() GraphInfo {
	g := d.internal.Graph()

	names := g.Nodes()
	bindings := make([]BindingInfo, 0, len(names))
	for _, name := range names {
		_, instantiated := d.internal.Instance(container.Key{ID: ident.For(name), Name: name})
		bindings = append(
			bindings, BindingInfo{
				Reference:    name,
				Dependencies: g.Dependencies(name),
				Dependents:   g.Dependents(name),
				Instantiated: instantiated,
			},
		)
	}

	return GraphInfo{Bindings: bindings}
}

// Validate checks the declared dependencies without constructing anything:
// every declared reference must be bound and no declarations may form a
// cycle. Dependencies reached only through Env.Get are not seen.
func (d *Dock) Validate() error {
	g := d.internal.Graph()

	var problems []string
	if missing := g.Missing(); len(missing) > 0 {
		problems = append(problems, "missing dependencies: "+strings.Join(missing, ", "))
	}
	for _, cycle := range g.Cycles() {
		path := g.CyclePath(cycle[0])
		problems = append(problems, "circular dependency: "+strings.Join(path, " -> "))
	}

	if len(problems) > 0 {
		return errValidationFailed(problems)
	}
	return nil
}

// Warm constructs every binding now instead of on first use. Bindings that
// do not depend on each other are constructed concurrently, level by level.
func (d *Dock) Warm(ctx context.Context) error {
	g := d.internal.Graph()

	levels, err := g.Levels()
	if errors.Is(err, graph.ErrCycleDetected) {
		cycles := g.Cycles()
		return errCircularDependency(g.CyclePath(cycles[0][0]))
	}

	for _, level := range levels {
		eg, egctx := errgroup.WithContext(ctx)
		for _, name := range level {
			eg.Go(
				func() error {
					_, err := d.Resolve(egctx, NewReference[any](name))
					return err
				},
			)
		}
		if err := eg.Wait(); err != nil {
			return err
		}
	}

	d.config.logger.Debug("warmed dock", "count", g.Size())
	return nil
}

func (d *Dock) PrintGraph() {
	d.FprintGraph(os.Stdout)
}

// FprintGraph writes the bindings as a table. ● marks a constructed
// singleton, ○ one that has not been resolved yet.
func (d *Dock) FprintGraph(w io.Writer) {
	info := d.Graph()

	if len(info.Bindings) == 0 {
		_, _ = fmt.Fprintln(w, "(empty dock)")
		return
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"", "Reference", "Dependencies", "Dependents"})

	for _, b := range info.Bindings {
		status := "○"
		if b.Instantiated {
			status = "●"
		}
		tw.AppendRow(
			table.Row{
				status,
				b.Reference,
				strings.Join(b.Dependencies, ", "),
				strings.Join(b.Dependents, ", "),
			},
		)
	}

	tw.Render()
}

func (d *Dock) SprintGraph() string {
	var sb strings.Builder
	d.FprintGraph(&sb)
	return sb.String()
}

func (d *Dock) FprintGraphDOT(w io.Writer) {
	info := d.Graph()

	_, _ = fmt.Fprintln(w, "digraph dock {")
	_, _ = fmt.Fprintln(w, "  rankdir=LR;")
	_, _ = fmt.Fprintln(w, "  node [shape=box];")

	for _, b := range info.Bindings {
		style := ""
		if b.Instantiated {
			style = ", style=filled, fillcolor=lightblue"
		}
		_, _ = fmt.Fprintf(w, "  %q [label=%q%s];\n", b.Reference, b.Reference, style)
	}

	_, _ = fmt.Fprintln(w)

	for _, b := range info.Bindings {
		for _, dep := range b.Dependencies {
			_, _ = fmt.Fprintf(w, "  %q -> %q;\n", b.Reference, dep)
		}
	}

	_, _ = fmt.Fprintln(w, "}")
}

func (d *Dock) SprintGraphDOT() string {
	var sb strings.Builder
	d.FprintGraphDOT(&sb)
	return sb.String()
}
