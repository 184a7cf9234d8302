// Package rulepack загружает именованные наборы правил из YAML.
package rulepack

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"

	"lens-rules/internal/domain/port"
)

//go:embed presets.yaml
var embeddedPack []byte

var (
	ErrPresetNotFound = errors.New("preset not found")
	ErrUnresolvedVar  = errors.New("unresolved variable")
)

var placeholder = regexp.MustCompile(`\{([A-Za-z_][A-Za-z0-9_]*)\}`)

type packFile struct {
	Vars     map[string]any    `yaml:"vars"`
	Rulesets map[string]string `yaml:"rulesets"`
}

// Pack набор пресетов с параметрами.
type Pack struct {
	vars     map[string]string
	rulesets map[string]string
}

// Embedded возвращает пакет пресетов, встроенный в бинарник.
func Embedded() *Pack {
	p, err := Parse(embeddedPack)
	if err != nil {
		panic(fmt.Sprintf("embedded rule pack: %v", err))
	}
	return p
}

// Load читает пакет пресетов из файла.
func Load(path string) (*Pack, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rule pack: %w", err)
	}
	return Parse(b)
}

// Parse разбирает YAML пакета. Все пресеты должны раскрываться без ошибок.
func Parse(data []byte) (*Pack, error) {
	var f packFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse rule pack: %w", err)
	}

	p := &Pack{
		vars:     make(map[string]string, len(f.Vars)),
		rulesets: make(map[string]string, len(f.Rulesets)),
	}
	for name, v := range f.Vars {
		s, err := formatVar(v)
		if err != nil {
			return nil, fmt.Errorf("var %q: %w", name, err)
		}
		p.vars[name] = s
	}
	for name, text := range f.Rulesets {
		expanded, err := p.expand(text)
		if err != nil {
			return nil, fmt.Errorf("preset %q: %w", name, err)
		}
		p.rulesets[name] = expanded
	}

	return p, nil
}

// Text возвращает текст пресета с подставленными переменными.
func (p *Pack) Text(name string) (string, error) {
	text, ok := p.rulesets[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrPresetNotFound, name)
	}
	return text, nil
}

// Names возвращает имена пресетов по алфавиту.
func (p *Pack) Names() []string {
	names := make([]string, 0, len(p.rulesets))
	for name := range p.rulesets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (p *Pack) expand(text string) (string, error) {
	var missing string
	out := placeholder.ReplaceAllStringFunc(text, func(m string) string {
		name := m[1 : len(m)-1]
		v, ok := p.vars[name]
		if !ok {
			if missing == "" {
				missing = name
			}
			return m
		}
		return v
	})
	if missing != "" {
		return "", fmt.Errorf("%w: {%s}", ErrUnresolvedVar, missing)
	}
	return out, nil
}

func formatVar(v any) (string, error) {
	switch x := v.(type) {
	case int:
		return strconv.Itoa(x), nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case string:
		return x, nil
	default:
		return "", fmt.Errorf("unsupported value %v", v)
	}
}

// Проверка реализации интерфейса
var _ port.RulePresets = (*Pack)(nil)
