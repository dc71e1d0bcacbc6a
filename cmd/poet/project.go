package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"poet/internal/filespec"
	"poet/internal/logx"
	"poet/internal/project"
	"poet/internal/trace"
)

// resolveManifest accepts a manifest file, a directory to search upwards
// from, or nothing for the working directory.
func resolveManifest(args []string) (string, error) {
	start := "."
	if len(args) > 0 {
		start = args[0]
	}
	info, err := os.Stat(start)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return filepath.Abs(start)
	}
	path, ok, err := project.FindManifest(start)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("no %s, %s or %s found in %s or its parents",
			project.ManifestTOML, project.ManifestYAML, project.ManifestYML, start)
	}
	return path, nil
}

// loadProject loads the manifest and compiles its files.
func loadProject(ctx context.Context, args []string) (*project.Manifest, []filespec.File, error) {
	path, err := resolveManifest(args)
	if err != nil {
		return nil, nil, err
	}
	ctx, span := trace.Start(ctx, trace.ScopeStage, "compile")
	defer span.End("")
	log := logx.FromContext(ctx)

	m, err := project.Load(path)
	if err != nil {
		return nil, nil, err
	}
	files, err := m.BuildFiles(ctx)
	if err != nil {
		return nil, nil, err
	}
	span.WithExtra("files", fmt.Sprint(len(files)))
	log.Debug("manifest loaded", "path", path, "files", len(files))
	return m, files, nil
}

func intFlag(cmd *cobra.Command, name string) int {
	v, err := cmd.Flags().GetInt(name)
	if err != nil {
		return 0
	}
	return v
}

func boolFlag(cmd *cobra.Command, name string) bool {
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		return false
	}
	return v
}
