package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fortio.org/safecast"
	"github.com/spf13/cobra"

	"poet/internal/driver"
	"poet/internal/logx"
	"poet/internal/project"
)

var errStale = errors.New("generated files are out of date")

func newRenderCmd() *cobra.Command {
	var (
		stdout  bool
		check   bool
		noCache bool
		uiFlag  string
		jobs    uint
	)
	cmd := &cobra.Command{
		Use:   "render [manifest|dir]",
		Short: "Render every file the manifest describes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := readUIMode(uiFlag)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			log := logx.FromContext(ctx)

			m, files, err := loadProject(ctx, args)
			if err != nil {
				return err
			}
			opts := driver.Options{
				Emit:           m.EmitOptions(),
				Jobs:           m.Render.Jobs,
				Check:          check,
				MaxDiagnostics: intFlag(cmd, "max-diagnostics"),
			}
			if jobs > 0 {
				if opts.Jobs, err = safecast.Conv[int](jobs); err != nil {
					return fmt.Errorf("--jobs: %w", err)
				}
			}
			if !stdout {
				if opts.OutDir, err = m.OutDir(); err != nil {
					return err
				}
			}
			if m.CacheEnabled() && !noCache {
				cache, closeCache := openCache(ctx, m)
				defer closeCache()
				opts.Cache = cache
			}

			var results []driver.Result
			if !stdout && shouldUseTUI(mode) {
				results, err = renderWithUI(ctx, "poet render", files, opts)
			} else {
				results, err = driver.RenderAll(ctx, files, opts)
			}
			if err != nil {
				dumpTraceOnFault(cmd, cmd.ErrOrStderr(), err)
				return err
			}

			sum := driver.Summarize(results)
			if stdout {
				for i, r := range results {
					if r.Failed() {
						continue
					}
					if i > 0 {
						fmt.Fprintln(cmd.OutOrStdout())
					}
					fmt.Fprintf(cmd.OutOrStdout(), "// %s\n%s", r.Path, r.Text)
				}
			}
			printDiagnostics(cmd.ErrOrStderr(), sum.Bag)
			if boolFlag(cmd, "timings") {
				fmt.Fprint(cmd.ErrOrStderr(), sum.Timing.String())
			}
			if sum.Failed > 0 {
				return fmt.Errorf("%d of %d files failed", sum.Failed, sum.Files)
			}
			if check && sum.Changed > 0 {
				var stale []string
				for _, r := range results {
					if r.Changed {
						stale = append(stale, r.Path)
					}
				}
				log.Error("stale files", "files", strings.Join(stale, ", "))
				return fmt.Errorf("%w: %d of %d", errStale, sum.Changed, sum.Files)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&stdout, "stdout", false, "print files instead of writing them")
	cmd.Flags().BoolVar(&check, "check", false, "fail if files on disk differ from the rendered output")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the render cache")
	cmd.Flags().StringVar(&uiFlag, "ui", "auto", "progress view (auto|on|off)")
	cmd.Flags().UintVarP(&jobs, "jobs", "j", 0, "parallel workers (overrides [render].jobs)")
	return cmd
}

// openCache returns the disk cache, layered over redis when cache_url is
// set. A cache that cannot be opened is skipped with a warning.
func openCache(ctx context.Context, m *project.Manifest) (driver.Cache, func()) {
	log := logx.FromContext(ctx)
	disk, err := driver.OpenDiskCache("poet")
	if err != nil {
		log.Warn("disk cache unavailable", "err", err)
	}
	var caches driver.Layered
	if disk != nil {
		caches = append(caches, disk)
	}
	closeFn := func() {}
	if url := strings.TrimSpace(m.Render.CacheURL); url != "" {
		remote, err := driver.OpenRemoteCache(ctx, url, 0)
		if err != nil {
			log.Warn("remote cache unavailable", "err", err)
		} else {
			caches = append(caches, remote)
			closeFn = func() {
				if err := remote.Close(); err != nil {
					log.Warn("closing remote cache", "err", err)
				}
			}
		}
	}
	if len(caches) == 0 {
		return nil, closeFn
	}
	return caches, closeFn
}
