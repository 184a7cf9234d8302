package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"lens-rules/internal/infrastructure/rulepack"
)

var presetsShow string

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "List rule presets from the rule pack",
	Long: `List the presets of the configured rule pack, or print one preset's expanded text.

Examples:
  lensrun presets
  lensrun presets --show uncertain
  lensrun presets --pack ./pack.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		pack := rulepack.Embedded()
		if cfg.RulesPack != "" {
			var err error
			if pack, err = rulepack.Load(cfg.RulesPack); err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		if presetsShow != "" {
			text, err := pack.Text(presetsShow)
			if err != nil {
				return err
			}
			fmt.Fprint(out, text)
			return nil
		}

		for _, name := range pack.Names() {
			mark := " "
			if name == cfg.RulesPreset {
				mark = "*"
			}
			fmt.Fprintf(out, "%s %s\n", mark, name)
		}
		return nil
	},
}

func init() {
	presetsCmd.Flags().StringVar(&presetsShow, "show", "", "Print the expanded text of a preset")

	rootCmd.AddCommand(presetsCmd)
}
