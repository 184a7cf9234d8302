package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	DefectsEvaluated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "lens_defects_evaluated_total",
		Help: "Defects classified against a ruleset",
	})
	DefectsActionable = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lens_defects_actionable_total",
			Help: "Defects that matched a rule, by category code",
		},
		[]string{"code"},
	)
	RulesetCompiles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lens_ruleset_compiles_total",
			Help: "Ruleset compilations by result",
		},
		[]string{"result"},
	)
	AnnotationFiles = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lens_annotation_files_total",
			Help: "Annotation files processed by result",
		},
		[]string{"result"},
	)
)

// Init регистрирует метрики в реестре по умолчанию.
func Init() {
	prometheus.MustRegister(DefectsEvaluated, DefectsActionable, RulesetCompiles, AnnotationFiles)
}

// Handler отдаёт метрики в формате Prometheus.
func Handler() http.Handler {
	return promhttp.Handler()
}

// CompileResult помечает результат компиляции правил.
func CompileResult(err error) {
	if err != nil {
		RulesetCompiles.WithLabelValues("error").Inc()
		return
	}
	RulesetCompiles.WithLabelValues("ok").Inc()
}
