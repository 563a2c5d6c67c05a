package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/walteh/arboribus/cmd/arboribus/opts"
	"github.com/walteh/arboribus/pkg/config"
	"gitlab.com/tozd/go/errors"
)

// sourceRoot resolves the source root for commands that require an
// existing configuration: the --source flag when given, otherwise a
// climb from the working directory. CWD is read here at the CLI
// boundary only; core packages always receive an explicit root.
func sourceRoot(o *opts.RootOpts) (string, error) {
	if o.Source != "" {
		root, err := filepath.Abs(o.Source)
		if err != nil {
			return "", errors.Errorf("resolving source directory: %w", err)
		}
		if _, err := os.Stat(root); err != nil {
			return "", errors.Errorf("source directory %s does not exist", root)
		}
		return root, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.Errorf("getting working directory: %w", err)
	}
	root, ok := config.FindSourceRoot(cwd)
	if !ok {
		return "", errors.Errorf("no arboribus.toml found in %s or any parent directory, use --source or run from a configured directory", cwd)
	}
	return root, nil
}

// sourceRootOrCwd is the init variant: an unconfigured directory is
// fine, the working directory is the default root.
func sourceRootOrCwd(o *opts.RootOpts) (string, error) {
	if o.Source != "" {
		root, err := filepath.Abs(o.Source)
		if err != nil {
			return "", errors.Errorf("resolving source directory: %w", err)
		}
		if _, err := os.Stat(root); err != nil {
			return "", errors.Errorf("source directory %s does not exist", root)
		}
		return root, nil
	}
	return os.Getwd()
}

// humanSize formats a byte count the way the preview table shows it.
func humanSize(n int64) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%d B", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(n)/(1024*1024))
	}
}
