package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"lens-rules/internal/domain/entity"
	"lens-rules/internal/domain/port"
	"lens-rules/internal/domain/rule"
	"lens-rules/internal/telemetry"
)

const customRulesName = "custom"

var (
	ErrNoRules   = errors.New("rules are not set")
	ErrNoPresets = errors.New("rule presets are not configured")
)

// InspectionConfig параметры проверки разметки.
type InspectionConfig struct {
	Policy  rule.VariantPolicy // сочетание +N/-N в одной строке
	Workers int                // параллельных файлов в RunBatch
	Logger  zerolog.Logger
}

type InspectionService struct {
	users   *UserService
	reader  port.AnnotationReader
	presets port.RulePresets
	cfg     InspectionConfig
	log     zerolog.Logger
}

// NewInspectionService создаёт сервис, который прогоняет правила по файлам разметки.
func NewInspectionService(users *UserService, reader port.AnnotationReader, presets port.RulePresets, cfg InspectionConfig) *InspectionService {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	return &InspectionService{
		users:   users,
		reader:  reader,
		presets: presets,
		cfg:     cfg,
		log:     cfg.Logger.With().Str("component", "inspection").Logger(),
	}
}

// Compile собирает свежий Ruleset из текста.
func (s *InspectionService) Compile(text string) (*rule.Ruleset, error) {
	rs, err := rule.Compile(text, rule.WithVariantPolicy(s.cfg.Policy))
	telemetry.CompileResult(err)
	if err != nil {
		s.log.Debug().Err(err).Msg("ruleset rejected")
		return nil, err
	}
	s.log.Debug().Int("rules", rs.Len()).Str("fingerprint", rs.Fingerprint()).Msg("ruleset compiled")
	return rs, nil
}

// SetRules проверяет текст правил и сохраняет его в сессии.
// При ошибке компиляции прежние правила остаются.
func (s *InspectionService) SetRules(ctx context.Context, userID, chatID int64, text string) (*rule.Ruleset, error) {
	rs, err := s.Compile(text)
	if err != nil {
		return nil, err
	}
	if _, err := s.users.SetRules(ctx, userID, chatID, customRulesName, text); err != nil {
		return nil, err
	}
	return rs, nil
}

// UsePreset переключает сессию на именованный набор правил.
func (s *InspectionService) UsePreset(ctx context.Context, userID, chatID int64, name string) (*rule.Ruleset, error) {
	if s.presets == nil {
		return nil, ErrNoPresets
	}
	text, err := s.presets.Text(name)
	if err != nil {
		return nil, err
	}
	rs, err := s.Compile(text)
	if err != nil {
		return nil, fmt.Errorf("preset %q: %w", name, err)
	}
	if _, err := s.users.SetRules(ctx, userID, chatID, name, text); err != nil {
		return nil, err
	}
	return rs, nil
}

// Presets возвращает имена доступных пресетов.
func (s *InspectionService) Presets() []string {
	if s.presets == nil {
		return nil
	}
	return s.presets.Names()
}

// InspectFile прогоняет правила сессии по одному файлу разметки.
// Каждый вызов компилирует правила заново из сохранённого текста.
func (s *InspectionService) InspectFile(ctx context.Context, userID, chatID int64, file string, data []byte) (*entity.FileReport, error) {
	user, err := s.users.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}
	if !user.HasRules() {
		return nil, ErrNoRules
	}

	rs, err := s.Compile(user.RulesText)
	if err != nil {
		return nil, fmt.Errorf("stored rules: %w", err)
	}

	defects, err := s.reader.Read(ctx, file, data)
	if err != nil {
		telemetry.AnnotationFiles.WithLabelValues("error").Inc()
		return nil, err
	}
	telemetry.AnnotationFiles.WithLabelValues("ok").Inc()

	report := Classify(rs, file, defects)
	s.log.Info().
		Int64("user_id", userID).
		Str("file", file).
		Str("rules", user.RulesName).
		Int("defects", report.Defects).
		Int("findings", len(report.Findings)).
		Msg("annotation inspected")
	return &report, nil
}

// RunBatch прогоняет один Ruleset по списку файлов разметки параллельно.
// В отчёт попадают только файлы с дефектами, требующими внимания, в исходном порядке.
func (s *InspectionService) RunBatch(ctx context.Context, rs *rule.Ruleset, files []string) (*entity.BatchReport, error) {
	reports := make([]entity.FileReport, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Workers)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			defects, err := s.reader.ReadFile(gctx, file)
			if err != nil {
				telemetry.AnnotationFiles.WithLabelValues("error").Inc()
				return err
			}
			telemetry.AnnotationFiles.WithLabelValues("ok").Inc()
			reports[i] = Classify(rs, file, defects)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	batch := &entity.BatchReport{
		RunID:       uuid.NewString(),
		Fingerprint: rs.Fingerprint(),
		Files:       len(files),
	}
	for _, r := range reports {
		batch.Defects += r.Defects
		if r.Failed() {
			batch.Reports = append(batch.Reports, r)
		}
	}

	s.log.Info().
		Str("run_id", batch.RunID).
		Str("fingerprint", batch.Fingerprint).
		Int("files", batch.Files).
		Int("defects", batch.Defects).
		Int("findings", batch.Findings()).
		Msg("batch finished")
	return batch, nil
}

// Classify применяет Ruleset ко всем дефектам одного файла.
func Classify(rs *rule.Ruleset, file string, defects []entity.Defect) entity.FileReport {
	report := entity.FileReport{File: file, Defects: len(defects)}
	for _, d := range defects {
		telemetry.DefectsEvaluated.Inc()
		v, ok := rs.Evaluate(d)
		if !ok {
			continue
		}
		telemetry.DefectsActionable.WithLabelValues(v.Code).Inc()
		report.Findings = append(report.Findings, entity.Finding{
			Defect:   d,
			Code:     v.Code,
			RuleLine: v.Line,
			Reason:   v.Message,
		})
	}
	return report
}
