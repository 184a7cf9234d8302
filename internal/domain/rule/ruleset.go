package rule

import (
	"fmt"
	"maps"
	"slices"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// State состояние жизненного цикла Ruleset.
type State int

const (
	StateUncompiled State = iota
	StateCompiled
	StateCompileFailed
)

func (s State) String() string {
	switch s {
	case StateUncompiled:
		return "uncompiled"
	case StateCompiled:
		return "compiled"
	case StateCompileFailed:
		return "compile_failed"
	default:
		return "unknown"
	}
}

// VariantPolicy задаёт сочетание наборов включаемых и исключаемых вариантов.
type VariantPolicy int

const (
	// VariantPolicyAll требует выполнения обоих ограничений, если заданы оба набора.
	VariantPolicyAll VariantPolicy = iota
	// VariantPolicyIncludeFirst проверяет только включения, если они заданы.
	VariantPolicyIncludeFirst
)

// ParseVariantPolicy разбирает имя политики из конфигурации.
func ParseVariantPolicy(s string) (VariantPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return VariantPolicyAll, nil
	case "include-first", "include_first":
		return VariantPolicyIncludeFirst, nil
	default:
		return VariantPolicyAll, fmt.Errorf("unknown variant policy %q", s)
	}
}

// Rule одна скомпилированная строка правил.
// Условия объединяются по И.
type Rule struct {
	Code       string
	Conditions []Condition
	Included   map[uint32]struct{}
	Excluded   map[uint32]struct{}
	Line       int    // номер исходной строки (с 1), задаёт порядок внутри кода
	Source     string // строка правила с нормализованными пробелами
}

func (r *Rule) matches(d DefectView, policy VariantPolicy) bool {
	x, y, w, h := d.Box()
	values := [...]int64{PositionX: x, PositionY: y, Width: w, Height: h}
	for _, c := range r.Conditions {
		if !c.Holds(values[c.Attribute]) {
			return false
		}
	}
	return r.variantAllowed(d, policy)
}

func (r *Rule) variantAllowed(d DefectView, policy VariantPolicy) bool {
	variant, ok := d.VariantIndex()

	if len(r.Included) > 0 {
		if !ok {
			return false
		}
		if _, in := r.Included[variant]; !in {
			return false
		}
		if policy == VariantPolicyIncludeFirst {
			return true
		}
	}

	if len(r.Excluded) > 0 && ok {
		if _, out := r.Excluded[variant]; out {
			return false
		}
	}
	return true
}

// DefectView минимальное представление дефекта, нужное для классификации.
type DefectView interface {
	CategoryCode() string
	VariantIndex() (uint32, bool)
	Box() (x, y, w, h int64)
}

// View простая реализация DefectView.
type View struct {
	Code       string
	Variant    uint32
	HasVariant bool
	X, Y, W, H int64
}

func (v View) CategoryCode() string { return v.Code }
func (v View) VariantIndex() (uint32, bool) { return v.Variant, v.HasVariant }
func (v View) Box() (x, y, w, h int64) { return v.X, v.Y, v.W, v.H }

// Verdict причина, по которой дефект требует внимания.
type Verdict struct {
	Code    string
	Line    int
	Rule    string
	Message string
}

func (v Verdict) String() string {
	return v.Message
}

// Ruleset скомпилированный набор правил, сгруппированный по коду категории.
// После компиляции не изменяется, Evaluate можно вызывать конкурентно.
type Ruleset struct {
	state       State
	err         error
	policy      VariantPolicy
	rulesByCode map[string][]Rule
	count       int
	fingerprint uint64
}

// New создаёт пустой некомпилированный Ruleset.
func New(opts ...Option) *Ruleset {
	rs := &Ruleset{state: StateUncompiled, policy: VariantPolicyAll}
	for _, opt := range opts {
		opt(rs)
	}
	return rs
}

// Compile однократно компилирует текст правил.
// При ошибке Ruleset остаётся в StateCompileFailed и хранит ошибку.
func (rs *Ruleset) Compile(text string) error {
	if rs.state != StateUncompiled {
		return ErrAlreadyCompiled
	}

	compiled, err := compileText(text)
	if err != nil {
		rs.state = StateCompileFailed
		rs.err = err
		return err
	}

	byCode := make(map[string][]Rule)
	sources := make([]string, 0, len(compiled))
	for _, r := range compiled {
		byCode[r.Code] = append(byCode[r.Code], r)
		sources = append(sources, r.Source)
	}

	rs.rulesByCode = byCode
	rs.count = len(compiled)
	rs.fingerprint = xxhash.Sum64String(strings.Join(sources, "\n"))
	rs.state = StateCompiled
	return nil
}

// State возвращает текущее состояние.
func (rs *Ruleset) State() State {
	return rs.state
}

// Err возвращает ошибку неудачной компиляции.
func (rs *Ruleset) Err() error {
	return rs.err
}

// Evaluate классифицирует дефект: первое по порядку объявления правило его кода,
// у которого выполнены все условия и проходит фильтр вариантов, даёт Verdict.
// Вызов до успешной компиляции нарушает контракт и вызывает панику.
func (rs *Ruleset) Evaluate(d DefectView) (Verdict, bool) {
	rs.mustBeCompiled()

	candidates := rs.rulesByCode[d.CategoryCode()]
	for i := range candidates {
		r := &candidates[i]
		if !r.matches(d, rs.policy) {
			continue
		}
		return Verdict{
			Code:    r.Code,
			Line:    r.Line,
			Rule:    r.Source,
			Message: fmt.Sprintf("%s line %d: %s", r.Code, r.Line, r.Source),
		}, true
	}
	return Verdict{}, false
}

// Codes возвращает отсортированный список кодов, для которых есть правила.
func (rs *Ruleset) Codes() []string {
	rs.mustBeCompiled()
	codes := make([]string, 0, len(rs.rulesByCode))
	for code := range rs.rulesByCode {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Rules возвращает копии правил кода в порядке объявления.
// Изменение копий не влияет на скомпилированный набор.
func (rs *Ruleset) Rules(code string) []Rule {
	rs.mustBeCompiled()
	src := rs.rulesByCode[code]
	if src == nil {
		return nil
	}
	out := make([]Rule, len(src))
	for i, r := range src {
		r.Conditions = slices.Clone(r.Conditions)
		r.Included = maps.Clone(r.Included)
		r.Excluded = maps.Clone(r.Excluded)
		out[i] = r
	}
	return out
}

// Len число скомпилированных правил.
func (rs *Ruleset) Len() int {
	rs.mustBeCompiled()
	return rs.count
}

// Fingerprint хэш нормализованного текста правил, связывает отчёт с исходным текстом.
func (rs *Ruleset) Fingerprint() string {
	rs.mustBeCompiled()
	return fmt.Sprintf("%016x", rs.fingerprint)
}

func (rs *Ruleset) mustBeCompiled() {
	if rs == nil || rs.state != StateCompiled {
		state := StateUncompiled
		if rs != nil {
			state = rs.state
		}
		panic(fmt.Errorf("%w (state %s)", ErrNotCompiled, state))
	}
}
