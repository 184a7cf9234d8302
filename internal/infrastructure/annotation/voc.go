package annotation

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"lens-rules/internal/domain/entity"
	"lens-rules/internal/domain/port"
)

// vocAnnotation корневой элемент файла разметки в формате Pascal VOC.
type vocAnnotation struct {
	XMLName xml.Name    `xml:"annotation"`
	Objects []vocObject `xml:"object"`
}

type vocObject struct {
	Name   string `xml:"name"`
	BndBox struct {
		XMin string `xml:"xmin"`
		YMin string `xml:"ymin"`
		XMax string `xml:"xmax"`
		YMax string `xml:"ymax"`
	} `xml:"bndbox"`
}

// VOCReader читает дефекты из XML-разметки Pascal VOC.
type VOCReader struct{}

// NewVOCReader создаёт читатель разметки.
func NewVOCReader() *VOCReader {
	return &VOCReader{}
}

// Read разбирает XML и возвращает дефекты в порядке следования объектов.
func (r *VOCReader) Read(ctx context.Context, file string, data []byte) ([]entity.Defect, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var doc vocAnnotation
	dec := xml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", file, err)
	}

	defects := make([]entity.Defect, 0, len(doc.Objects))
	for i, obj := range doc.Objects {
		box, err := parseBox(obj)
		if err != nil {
			return nil, fmt.Errorf("parse %s: object %d (%q): %w", file, i, obj.Name, err)
		}
		defects = append(defects, entity.NewDefect(file, obj.Name, box[0], box[1], box[2]-box[0], box[3]-box[1]))
	}

	return defects, nil
}

// ReadFile читает файл разметки с диска.
func (r *VOCReader) ReadFile(ctx context.Context, path string) ([]entity.Defect, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read annotation: %w", err)
	}
	return r.Read(ctx, path, data)
}

// ListDir возвращает пути *.xml файлов каталога, отсортированные по имени.
func ListDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list annotations: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".xml") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func parseBox(obj vocObject) ([4]int64, error) {
	var box [4]int64
	raw := [4]string{obj.BndBox.XMin, obj.BndBox.YMin, obj.BndBox.XMax, obj.BndBox.YMax}
	names := [4]string{"xmin", "ymin", "xmax", "ymax"}

	for i, s := range raw {
		v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return box, fmt.Errorf("%s: %w", names[i], err)
		}
		box[i] = v
	}
	if box[2] < box[0] || box[3] < box[1] {
		return box, fmt.Errorf("inverted box (%d,%d)-(%d,%d)", box[0], box[1], box[2], box[3])
	}
	return box, nil
}

// Проверка реализации интерфейса
var _ port.AnnotationReader = (*VOCReader)(nil)
