package commands

import (
	"os"
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/arboribus/cmd/arboribus/opts"
	"github.com/walteh/arboribus/pkg/config"
	"gitlab.com/tozd/go/errors"
)

// NewInitCmd creates the init command
func NewInitCmd(o *opts.RootOpts) *cobra.Command {
	var (
		target string
		name   string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize arboribus configuration",
		Long: `Init creates or updates the arboribus.toml configuration at the source
root and optionally registers a named target directory.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			root, err := sourceRootOrCwd(o)
			if err != nil {
				return err
			}

			cfg, err := config.Load(ctx, root)
			if err != nil {
				return errors.Errorf("loading config: %w", err)
			}

			if target != "" {
				if name == "" {
					name, _ = pterm.DefaultInteractiveTextInput.Show("Enter a name for this target")
					if name == "" {
						return errors.Errorf("a target name is required")
					}
				}

				targetDir, err := filepath.Abs(target)
				if err != nil {
					return errors.Errorf("resolving target directory: %w", err)
				}
				if _, err := os.Stat(targetDir); err != nil {
					return errors.Errorf("target directory %s does not exist", targetDir)
				}

				cfg.Targets[name] = &config.Target{
					Path:            targetDir,
					Patterns:        []string{},
					ExcludePatterns: []string{},
				}
				o.Console.Successf("Added target '%s' -> %s", name, targetDir)
			}

			if err := config.Save(ctx, root, cfg); err != nil {
				return errors.Errorf("saving config: %w", err)
			}

			o.Console.Successf("Configuration saved to %s", config.Path(root))
			return nil
		},
	}

	cmd.Flags().StringVarP(&target, "target", "t", "", "target directory")
	cmd.Flags().StringVarP(&name, "name", "n", "", "target name")

	return cmd
}
