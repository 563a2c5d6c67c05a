package commands

import (
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/walteh/arboribus/cmd/arboribus/opts"
	"github.com/walteh/arboribus/pkg/config"
	"gitlab.com/tozd/go/errors"
)

// NewAddRuleCmd creates the add-rule command
func NewAddRuleCmd(o *opts.RootOpts) *cobra.Command {
	var (
		pattern        string
		targetName     string
		excludePattern string
	)

	cmd := &cobra.Command{
		Use:   "add-rule",
		Short: "Add a sync rule to a target",
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

			target, ok := cfg.Targets[targetName]
			if !ok {
				return errors.Errorf("target %q not found, use 'arboribus init' first", targetName)
			}

			if !slices.Contains(target.Patterns, pattern) {
				target.Patterns = append(target.Patterns, pattern)
			}
			if excludePattern != "" && !slices.Contains(target.ExcludePatterns, excludePattern) {
				target.ExcludePatterns = append(target.ExcludePatterns, excludePattern)
			}

			if err := config.Save(ctx, root, cfg); err != nil {
				return errors.Errorf("saving config: %w", err)
			}

			o.Console.Successf("Added rule: pattern '%s' to target '%s'", pattern, targetName)
			if excludePattern != "" {
				o.Console.Successf("Added exclude pattern: '%s'", excludePattern)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&pattern, "pattern", "p", "", "glob pattern to include")
	cmd.Flags().StringVarP(&targetName, "target", "t", "", "target name")
	cmd.Flags().StringVarP(&excludePattern, "exclude", "e", "", "exclude pattern")
	_ = cmd.MarkFlagRequired("pattern")
	_ = cmd.MarkFlagRequired("target")

	return cmd
}

// NewRemoveRuleCmd creates the remove-rule command
func NewRemoveRuleCmd(o *opts.RootOpts) *cobra.Command {
	var (
		pattern    string
		targetName string
	)

	cmd := &cobra.Command{
		Use:   "remove-rule",
		Short: "Remove a sync rule from a target",
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

			target, ok := cfg.Targets[targetName]
			if !ok {
				return errors.Errorf("target %q not found", targetName)
			}

			idx := slices.Index(target.Patterns, pattern)
			if idx < 0 {
				o.Console.Warningf("Pattern '%s' not found in target '%s'", pattern, targetName)
				o.Console.Infof("Available patterns: %s", strings.Join(target.Patterns, ", "))
				return nil
			}

			target.Patterns = slices.Delete(target.Patterns, idx, idx+1)
			if err := config.Save(ctx, root, cfg); err != nil {
				return errors.Errorf("saving config: %w", err)
			}

			o.Console.Successf("Removed pattern '%s' from target '%s'", pattern, targetName)
			return nil
		},
	}

	cmd.Flags().StringVarP(&pattern, "pattern", "p", "", "pattern to remove")
	cmd.Flags().StringVarP(&targetName, "target", "t", "", "target name")
	_ = cmd.MarkFlagRequired("pattern")
	_ = cmd.MarkFlagRequired("target")

	return cmd
}
