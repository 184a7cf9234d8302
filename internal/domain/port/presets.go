package port

// RulePresets интерфейс источника именованных наборов правил
type RulePresets interface {
	// Text возвращает текст правил пресета с подставленными параметрами
	Text(name string) (string, error)

	// Names возвращает имена пресетов в алфавитном порядке
	Names() []string
}
