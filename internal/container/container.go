package container

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"lens-rules/config"
	app "lens-rules/internal/application"
	"lens-rules/internal/domain/rule"
	"lens-rules/internal/infrastructure/annotation"
	"lens-rules/internal/infrastructure/rulepack"
	"lens-rules/internal/infrastructure/storage"
)

type Container struct {
	UserService       *app.UserService
	InspectionService *app.InspectionService
	Presets           *rulepack.Pack
}

// New собирает сервисы приложения по конфигурации.
func New(cfg *config.Config, log zerolog.Logger) (*Container, error) {
	presets, err := loadPresets(cfg.RulesPack)
	if err != nil {
		return nil, err
	}

	policy, err := rule.ParseVariantPolicy(cfg.VariantPolicy)
	if err != nil {
		return nil, err
	}

	name, text, err := defaultRules(cfg, presets)
	if err != nil {
		return nil, err
	}
	rs, err := rule.Compile(text, rule.WithVariantPolicy(policy))
	if err != nil {
		return nil, fmt.Errorf("default rules %q: %w", name, err)
	}
	log.Info().Str("rules", name).Int("count", rs.Len()).Str("fingerprint", rs.Fingerprint()).Msg("default rules compiled")

	userRepo := storage.NewMemoryUserRepository(name, text)
	userService := app.NewUserService(userRepo)
	inspectionService := app.NewInspectionService(userService, annotation.NewVOCReader(), presets, app.InspectionConfig{
		Policy:  policy,
		Workers: cfg.BatchWorkers,
		Logger:  log,
	})

	return &Container{
		UserService:       userService,
		InspectionService: inspectionService,
		Presets:           presets,
	}, nil
}

func loadPresets(path string) (*rulepack.Pack, error) {
	if path == "" {
		return rulepack.Embedded(), nil
	}
	return rulepack.Load(path)
}

// defaultRules выбирает правила новых сессий: файл из RULES_FILE или пресет.
func defaultRules(cfg *config.Config, presets *rulepack.Pack) (string, string, error) {
	if cfg.RulesFile != "" {
		b, err := os.ReadFile(cfg.RulesFile)
		if err != nil {
			return "", "", fmt.Errorf("read rules file: %w", err)
		}
		return cfg.RulesFile, string(b), nil
	}

	text, err := presets.Text(cfg.RulesPreset)
	if err != nil {
		return "", "", err
	}
	return cfg.RulesPreset, text, nil
}
