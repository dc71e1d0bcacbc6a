package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"poet/internal/importgraph"
	"poet/internal/trace"
)

func newImportsCmd() *cobra.Command {
	var (
		svgPath string
		dot     bool
	)
	cmd := &cobra.Command{
		Use:   "imports [manifest|dir]",
		Short: "Show the imports each file will carry",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			m, files, err := loadProject(ctx, args)
			if err != nil {
				return err
			}
			opt := m.EmitOptions()

			ctx, span := trace.Start(ctx, trace.ScopeStage, "discover")
			defer span.End("")
			graph := importgraph.New()
			out := cmd.OutOrStdout()
			for _, f := range files {
				imports, err := f.DiscoverImports(opt)
				if err != nil {
					return fmt.Errorf("%s: %w", f.Path(), err)
				}
				graph.Add(f.Path(), imports.Strings())
				if dot {
					continue
				}
				fmt.Fprintf(out, "%s\n", f.Path())
				for _, imp := range imports.Strings() {
					fmt.Fprintf(out, "  import %s\n", imp)
				}
			}

			if dot {
				fmt.Fprint(out, graph.DOT())
			}
			if svgPath != "" {
				svg, err := importgraph.RenderSVG(ctx, graph.DOT())
				if err != nil {
					return err
				}
				if err := os.WriteFile(svgPath, svg, 0o644); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&svgPath, "svg", "", "write the import graph as SVG to this path")
	cmd.Flags().BoolVar(&dot, "dot", false, "print the import graph in DOT instead of the list")
	return cmd
}
