package entity

import "strings"

// codeLength длина кода категории в имени дефекта.
const codeLength = 4

// Defect дефект из файла разметки: подпись и прямоугольник в пикселях исходного изображения.
type Defect struct {
	File       string // файл разметки, из которого прочитан дефект
	Label      string // исходная подпись, например "0101-2"
	Code       string // код категории
	Variant    uint32 // индекс варианта, если HasVariant
	HasVariant bool   // есть ли вариант в подписи
	X          int64  // координата X левого верхнего угла
	Y          int64  // координата Y левого верхнего угла
	Width      int64  // ширина области в пикселях
	Height     int64  // высота области в пикселях
}

// NewDefect создаёт дефект, разбирая подпись на код и вариант.
func NewDefect(file, label string, x, y, width, height int64) Defect {
	code, variant, ok := ParseLabel(label)
	return Defect{
		File:       file,
		Label:      label,
		Code:       code,
		Variant:    variant,
		HasVariant: ok,
		X:          x,
		Y:          y,
		Width:      width,
		Height:     height,
	}
}

// ParseLabel делит подпись на четырёхсимвольный код и необязательный номер варианта.
// Разделители "-", "_", "." и пробелы между кодом и вариантом допускаются.
func ParseLabel(label string) (code string, variant uint32, ok bool) {
	label = strings.TrimSpace(label)
	if len(label) <= codeLength {
		return label, 0, false
	}

	code = label[:codeLength]
	rest := strings.TrimLeft(label[codeLength:], "-_. ")
	if rest == "" || len(rest) > 9 {
		return code, 0, false
	}
	for i := 0; i < len(rest); i++ {
		if rest[i] < '0' || rest[i] > '9' {
			return code, 0, false
		}
		variant = variant*10 + uint32(rest[i]-'0')
	}
	return code, variant, true
}

// Center возвращает координаты центра дефекта
func (d Defect) Center() (x, y int64) {
	return d.X + d.Width/2, d.Y + d.Height/2
}

// CategoryCode код категории для движка правил.
func (d Defect) CategoryCode() string {
	return d.Code
}

// VariantIndex номер варианта, если он есть в подписи.
func (d Defect) VariantIndex() (uint32, bool) {
	return d.Variant, d.HasVariant
}

// Box геометрия дефекта: x, y, ширина, высота.
func (d Defect) Box() (x, y, w, h int64) {
	return d.X, d.Y, d.Width, d.Height
}
