package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/walteh/arboribus/cmd/arboribus/opts"
	"github.com/walteh/arboribus/pkg/config"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// NewPrintConfigCmd creates the print-config command
func NewPrintConfigCmd(o *opts.RootOpts) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "print-config",
		Short: "Print the resolved configuration",
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

			switch format {
			case "json":
				out, err := json.MarshalIndent(cfg, "", "  ")
				if err != nil {
					return errors.Errorf("encoding config as json: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
			case "yaml":
				out, err := yaml.Marshal(cfg)
				if err != nil {
					return errors.Errorf("encoding config as yaml: %w", err)
				}
				fmt.Fprint(cmd.OutOrStdout(), string(out))
			case "table":
				data := pterm.TableData{{"Target", "Path", "Patterns", "Exclude Patterns"}}
				for _, name := range cfg.TargetNames() {
					target := cfg.Targets[name]
					data = append(data, []string{
						name,
						target.Path,
						strings.Join(target.Patterns, "\n"),
						strings.Join(target.ExcludePatterns, "\n"),
					})
				}
				if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
					return errors.Errorf("rendering table: %w", err)
				}
			default:
				return errors.Errorf("unknown format %q, expected table, json, or yaml", format)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "table", "output format (table, json, yaml)")

	return cmd
}
