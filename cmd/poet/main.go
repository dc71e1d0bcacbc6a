// Command poet renders source files described by a poet.toml or poet.yaml
// manifest.
package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"poet/internal/logx"
	"poet/internal/prof"
	"poet/internal/version"
)

func main() {
	root, finish := newRootCmd()
	err := root.ExecuteContext(context.Background())
	finish()
	if err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. finish stops profiling and flushes the
// tracer; it runs after Execute so that failed commands are covered too.
func newRootCmd() (root *cobra.Command, finish func()) {
	var (
		verbose  bool
		profiles prof.Config
		cleanup  = func() {}
	)
	root = &cobra.Command{
		Use:          "poet",
		Short:        "Render generated source files from a manifest",
		Long:         `poet compiles format templates, discovers imports and lays out generated source files.`,
		Version:      version.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			ctx := logx.WithLogger(cmd.Context(), logx.New(cmd.ErrOrStderr(), verbose))
			cmd.SetContext(ctx)
			done, err := setupTracing(cmd)
			if err != nil {
				return err
			}
			session, err := prof.Start(profiles)
			if err != nil {
				done()
				return err
			}
			cleanup = func() {
				if err := session.Stop(); err != nil {
					logx.FromContext(cmd.Context()).Warn("profiling", "err", err)
				}
				done()
			}
			return nil
		},
	}
	root.SetVersionTemplate("poet {{.Version}}\n")

	flags := root.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	flags.Bool("timings", false, "print per-stage timings")
	flags.Int("max-diagnostics", 64, "maximum number of diagnostics kept per file")
	flags.String("trace", "", "trace output file (- for stderr, .ndjson for NDJSON)")
	flags.String("trace-level", "off", "trace level (off|phase|detail|debug)")
	flags.String("trace-mode", "stream", "trace storage mode (stream|ring|both)")
	flags.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	flags.Int("trace-ring-size", 4096, "events kept in ring mode")
	flags.StringVar(&profiles.CPU, "cpuprofile", "", "write a CPU profile to this file")
	flags.StringVar(&profiles.Mem, "memprofile", "", "write a heap profile to this file")
	flags.StringVar(&profiles.Trace, "exectrace", "", "write a runtime execution trace to this file")

	root.AddCommand(newRenderCmd())
	root.AddCommand(newImportsCmd())
	root.AddCommand(newCacheCmd())
	root.AddCommand(newVersionCmd())
	finish = func() {
		cleanup()
		cleanup = func() {}
	}
	return root, finish
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
