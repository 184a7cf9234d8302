package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"lens-rules/internal/domain/entity"
)

// OutputFormat формат вывода команд CLI.
type OutputFormat string

const (
	FormatTable OutputFormat = "table"
	FormatJSON  OutputFormat = "json"
	FormatYAML  OutputFormat = "yaml"
)

// findingRow плоское представление дефекта для json/yaml.
type findingRow struct {
	File     string  `json:"file" yaml:"file"`
	Label    string  `json:"label" yaml:"label"`
	Code     string  `json:"code" yaml:"code"`
	Variant  *uint32 `json:"variant,omitempty" yaml:"variant,omitempty"`
	X        int64   `json:"x" yaml:"x"`
	Y        int64   `json:"y" yaml:"y"`
	Width    int64   `json:"w" yaml:"w"`
	Height   int64   `json:"h" yaml:"h"`
	RuleLine int     `json:"ruleLine" yaml:"ruleLine"`
	Reason   string  `json:"reason" yaml:"reason"`
}

type batchDoc struct {
	RunID       string       `json:"runId" yaml:"runId"`
	Fingerprint string       `json:"fingerprint" yaml:"fingerprint"`
	Files       int          `json:"files" yaml:"files"`
	Defects     int          `json:"defects" yaml:"defects"`
	Findings    []findingRow `json:"findings" yaml:"findings"`
}

// PrintBatch печатает отчёт прогона в заданном формате.
func PrintBatch(w io.Writer, report *entity.BatchReport, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return printJSON(w, toDoc(report))
	case FormatYAML:
		return printYAML(w, toDoc(report))
	case FormatTable:
		return printTable(w, report)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func toDoc(report *entity.BatchReport) batchDoc {
	doc := batchDoc{
		RunID:       report.RunID,
		Fingerprint: report.Fingerprint,
		Files:       report.Files,
		Defects:     report.Defects,
		Findings:    []findingRow{},
	}
	for _, fr := range report.Reports {
		for _, f := range fr.Findings {
			row := findingRow{
				File:     fr.File,
				Label:    f.Defect.Label,
				Code:     f.Code,
				X:        f.Defect.X,
				Y:        f.Defect.Y,
				Width:    f.Defect.Width,
				Height:   f.Defect.Height,
				RuleLine: f.RuleLine,
				Reason:   f.Reason,
			}
			if f.Defect.HasVariant {
				variant := f.Defect.Variant
				row.Variant = &variant
			}
			doc.Findings = append(doc.Findings, row)
		}
	}
	return doc
}

func printJSON(w io.Writer, data interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func printYAML(w io.Writer, data interface{}) error {
	encoder := yaml.NewEncoder(w)
	defer encoder.Close()
	encoder.SetIndent(2)
	return encoder.Encode(data)
}

func printTable(w io.Writer, report *entity.BatchReport) error {
	table := tablewriter.NewWriter(w)

	table.Header("File", "Label", "X", "Y", "W", "H", "Line", "Rule")

	for _, fr := range report.Reports {
		for _, f := range fr.Findings {
			if err := table.Append(
				fr.File,
				f.Defect.Label,
				strconv.FormatInt(f.Defect.X, 10),
				strconv.FormatInt(f.Defect.Y, 10),
				strconv.FormatInt(f.Defect.Width, 10),
				strconv.FormatInt(f.Defect.Height, 10),
				strconv.Itoa(f.RuleLine),
				f.Reason,
			); err != nil {
				return err
			}
		}
	}

	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "run %s, rules %s: %d files, %d defects, %d need attention\n",
		report.RunID, report.Fingerprint, report.Files, report.Defects, report.Findings())
	return err
}
