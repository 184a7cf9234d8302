package port

import (
	"context"

	"lens-rules/internal/domain/entity"
)

// AnnotationReader интерфейс чтения дефектов из файла разметки
type AnnotationReader interface {
	// Read разбирает содержимое файла разметки и возвращает его дефекты
	Read(ctx context.Context, file string, data []byte) ([]entity.Defect, error)

	// ReadFile читает и разбирает файл разметки с диска
	ReadFile(ctx context.Context, path string) ([]entity.Defect, error)
}
