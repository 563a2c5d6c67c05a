package commands

import (
	"path/filepath"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/arboribus/cmd/arboribus/opts"
	"github.com/walteh/arboribus/pkg/config"
	"github.com/walteh/arboribus/pkg/gitindex"
	"github.com/walteh/arboribus/pkg/resolve"
	"gitlab.com/tozd/go/errors"
)

// NewListCmd creates the list command
func NewListCmd(o *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all sync rules and their resolved paths",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			root, err := sourceRoot(o)
			if err != nil {
				return err
			}

			cfg, err := config.Load(ctx, root)
			if err != nil {
				return errors.Errorf("loading config: %w", err)
			}

			if len(cfg.Targets) == 0 {
				o.Console.Warning("No targets configured.")
				return nil
			}

			tracked := gitindex.NewProvider().TrackedSet(ctx, root)

			for _, name := range cfg.TargetNames() {
				target := cfg.Targets[name]
				o.Console.Header("Target: " + name)
				o.Console.Infof("Path: %s", target.Path)

				if len(target.Patterns) == 0 {
					o.Console.Warning("No patterns configured.")
					continue
				}

				data := pterm.TableData{
					{"Pattern", "Exclude Patterns", "Matched Directories", "Target Path"},
				}

				excludes := strings.Join(target.ExcludePatterns, ", ")
				if excludes == "" {
					excludes = "None"
				}

				for _, pattern := range target.Patterns {
					matches := resolve.Patterns(ctx, root, []string{pattern}, resolve.Options{
						ExcludePrefixes: target.ExcludePatterns,
						Tracked:         tracked,
					})

					if len(matches) == 0 {
						data = append(data, []string{pattern, excludes, "No matches for pattern '" + pattern + "'", "N/A"})
						continue
					}

					var rels, targets []string
					for _, m := range matches {
						rel, relErr := filepath.Rel(root, m)
						if relErr != nil {
							continue
						}
						rels = append(rels, rel)
						targets = append(targets, filepath.Join(target.Path, rel))
					}
					data = append(data, []string{pattern, excludes, strings.Join(rels, "\n"), strings.Join(targets, "\n")})
				}

				if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
					return errors.Errorf("rendering table: %w", err)
				}
			}

			return nil
		},
	}

	return cmd
}
