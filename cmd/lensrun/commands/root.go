package commands

import (
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"lens-rules/config"
	"lens-rules/internal/logging"
)

var (
	v      = viper.New()
	cfg    *config.Config
	logger zerolog.Logger
)

// rootCmd корневая команда lensrun, общие флаги и загрузка конфигурации.
var rootCmd = &cobra.Command{
	Use:   "lensrun",
	Short: "Run defect rules against lens annotation files",
	Long: `lensrun compiles a plain-text defect ruleset and classifies every defect
in a directory of Pascal VOC annotation files.

Examples:
  lensrun check --dir ./annotations --preset default
  lensrun check --dir ./annotations --rules rules.txt --format json
  lensrun lint rules.txt
  lensrun presets`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()
		v.AutomaticEnv()
		config.SetDefaults(v)

		cfg = config.FromViper(v)
		if err := cfg.Validate(); err != nil {
			return err
		}
		logger = logging.New(cfg.LogLevel, cfg.IsDev())
		return nil
	},
}

// Execute запускает корневую команду.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("log-level", "", "Log level (debug, info, warn, error)")
	flags.String("pack", "", "YAML rule pack with presets (embedded pack if empty)")
	flags.String("policy", "", "Variant policy when +N and -N share a rule (all, include-first)")
	flags.Int("workers", 0, "Annotation files processed in parallel")

	_ = v.BindPFlag("LOG_LEVEL", flags.Lookup("log-level"))
	_ = v.BindPFlag("RULES_PACK", flags.Lookup("pack"))
	_ = v.BindPFlag("VARIANT_POLICY", flags.Lookup("policy"))
	_ = v.BindPFlag("BATCH_WORKERS", flags.Lookup("workers"))
}
