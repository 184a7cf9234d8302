package entity

// Finding дефект, который требует внимания, и причина.
type Finding struct {
	Defect   Defect
	Code     string // код сработавшего правила
	RuleLine int    // строка сработавшего правила
	Reason   string // сообщение движка правил
}

// FileReport итог проверки одного файла разметки.
type FileReport struct {
	File     string    // путь или имя файла разметки
	Defects  int       // всего дефектов в файле
	Findings []Finding // дефекты, требующие внимания, в порядке файла
}

// Failed сообщает, есть ли в файле дефекты, требующие внимания.
func (r *FileReport) Failed() bool {
	return len(r.Findings) > 0
}

// BatchReport итог одного запуска правил по набору файлов.
type BatchReport struct {
	RunID       string       // идентификатор запуска
	Fingerprint string       // отпечаток текста правил
	Files       int          // проверено файлов
	Defects     int          // проверено дефектов
	Reports     []FileReport // только файлы с дефектами, требующими внимания
}

// Findings общее число дефектов, требующих внимания.
func (b *BatchReport) Findings() int {
	n := 0
	for i := range b.Reports {
		n += len(b.Reports[i].Findings)
	}
	return n
}
