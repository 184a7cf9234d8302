package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lens-rules/internal/cli"
	"lens-rules/internal/container"
	"lens-rules/internal/infrastructure/annotation"
)

var (
	checkDir            string
	checkRulesFile      string
	checkPreset         string
	checkFormat         string
	checkFailOnFindings bool
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Classify every defect in a directory of annotation files",
	Long: `Compile a ruleset and report the defects that need attention, grouped by file.
Files without such defects are omitted.

Examples:
  lensrun check --dir ./annotations
  lensrun check --dir ./annotations --preset uncertain --format yaml
  lensrun check --dir ./annotations --rules rules.txt --fail-on-findings`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if checkDir == "" {
			return fmt.Errorf("--dir is required")
		}

		c, err := container.New(cfg, logger)
		if err != nil {
			return err
		}

		text, err := rulesText(c)
		if err != nil {
			return err
		}

		rs, err := c.InspectionService.Compile(text)
		if err != nil {
			return fmt.Errorf("compile rules: %w", err)
		}

		files, err := annotation.ListDir(checkDir)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		report, err := c.InspectionService.RunBatch(ctx, rs, files)
		if err != nil {
			return err
		}

		if err := cli.PrintBatch(cmd.OutOrStdout(), report, cli.OutputFormat(checkFormat)); err != nil {
			return err
		}

		if checkFailOnFindings && report.Findings() > 0 {
			return fmt.Errorf("%d defects need attention", report.Findings())
		}
		return nil
	},
}

// rulesText берёт правила из --rules, иначе из пресета.
func rulesText(c *container.Container) (string, error) {
	if checkRulesFile != "" {
		b, err := os.ReadFile(checkRulesFile)
		if err != nil {
			return "", fmt.Errorf("read rules: %w", err)
		}
		return string(b), nil
	}

	preset := checkPreset
	if preset == "" {
		preset = cfg.RulesPreset
	}
	return c.Presets.Text(preset)
}

func init() {
	checkCmd.Flags().StringVar(&checkDir, "dir", "", "Directory with Pascal VOC annotation files")
	checkCmd.Flags().StringVar(&checkRulesFile, "rules", "", "Plain-text rules file (overrides --preset)")
	checkCmd.Flags().StringVar(&checkPreset, "preset", "", "Preset name from the rule pack")
	checkCmd.Flags().StringVar(&checkFormat, "format", "table", "Output format (table, json, yaml)")
	checkCmd.Flags().BoolVar(&checkFailOnFindings, "fail-on-findings", false, "Exit with an error when any defect needs attention")

	rootCmd.AddCommand(checkCmd)
}
