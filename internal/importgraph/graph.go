// Package importgraph draws which packages each rendered file imports from.
package importgraph

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/goccy/go-graphviz"

	"poet/internal/names"
)

// DefaultPackage labels imports without a package.
const DefaultPackage = "<default>"

// Graph maps a file path to the packages it imports, both sorted.
type Graph struct {
	files map[string][]string
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{files: make(map[string][]string)}
}

// Add records file's imports, given as qualified names with an optional
// " as Alias" suffix. Only the package part is kept.
func (g *Graph) Add(file string, imports []string) {
	pkgs := make(map[string]struct{}, len(imports))
	for _, imp := range imports {
		qualified, _, _ := strings.Cut(imp, " as ")
		pkgs[packageOf(qualified)] = struct{}{}
	}
	g.files[file] = slices.Sorted(maps.Keys(pkgs))
}

// Files returns the recorded file paths in order.
func (g *Graph) Files() []string {
	return slices.Sorted(maps.Keys(g.files))
}

// Packages returns the packages imported by file.
func (g *Graph) Packages(file string) []string {
	return g.files[file]
}

// packageOf returns the package part of an imported class or top-level
// member name.
func packageOf(qualified string) string {
	cn, err := names.ParseClassName(qualified)
	if err != nil || cn.Package() == "" {
		return DefaultPackage
	}
	return cn.Package()
}

// DOT renders the graph in Graphviz DOT, files as boxes and packages as
// ellipses.
func (g *Graph) DOT() string {
	var buf bytes.Buffer
	buf.WriteString("digraph imports {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [fontsize=12];\n")
	buf.WriteString("\n")

	pkgs := make(map[string]struct{})
	for _, file := range g.Files() {
		fmt.Fprintf(&buf, "  %q [shape=box];\n", file)
		for _, p := range g.files[file] {
			pkgs[p] = struct{}{}
		}
	}
	for _, p := range slices.Sorted(maps.Keys(pkgs)) {
		fmt.Fprintf(&buf, "  %q [shape=ellipse];\n", p)
	}

	buf.WriteString("\n")
	for _, file := range g.Files() {
		for _, p := range g.files[file] {
			fmt.Fprintf(&buf, "  %q -> %q;\n", file, p)
		}
	}
	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG lays out dot with Graphviz and returns SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
