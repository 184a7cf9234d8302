package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"lens-rules/internal/domain/rule"
)

var lintVerbose bool

var lintCmd = &cobra.Command{
	Use:   "lint <rules-file>...",
	Short: "Compile rule files without running them",
	Long: `Compile each rule file and report the first error with its line number.

Examples:
  lensrun lint rules.txt
  lensrun lint --verbose rules.txt uncertain.txt`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		policy, err := rule.ParseVariantPolicy(cfg.VariantPolicy)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		failed := 0
		for _, path := range args {
			b, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read rules: %w", err)
			}

			rs, err := rule.Compile(string(b), rule.WithVariantPolicy(policy))
			if err != nil {
				failed++
				fmt.Fprintf(out, "%s: %v\n", path, err)
				continue
			}

			fmt.Fprintf(out, "%s: ok, %d rules for %d codes (%s)\n", path, rs.Len(), len(rs.Codes()), rs.Fingerprint())
			if lintVerbose {
				printRules(cmd, rs)
			}
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d rule files failed to compile", failed, len(args))
		}
		return nil
	},
}

func printRules(cmd *cobra.Command, rs *rule.Ruleset) {
	out := cmd.OutOrStdout()
	for _, code := range rs.Codes() {
		for _, r := range rs.Rules(code) {
			fmt.Fprintf(out, "  %4d  %s  conditions=%d include=%d exclude=%d\n",
				r.Line, r.Code, len(r.Conditions), len(r.Included), len(r.Excluded))
		}
	}
}

func init() {
	lintCmd.Flags().BoolVar(&lintVerbose, "verbose", false, "Print every compiled rule")

	rootCmd.AddCommand(lintCmd)
}
