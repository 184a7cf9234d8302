package cli

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"lens-rules/internal/domain/entity"
)

func sampleBatch() *entity.BatchReport {
	return &entity.BatchReport{
		RunID:       "run-1",
		Fingerprint: "00000000deadbeef",
		Files:       2,
		Defects:     5,
		Reports: []entity.FileReport{{
			File:    "a.xml",
			Defects: 3,
			Findings: []entity.Finding{
				{Defect: entity.NewDefect("a.xml", "0101-2", 1400, 1, 20, 5), Code: "0101", RuleLine: 1, Reason: "0101 line 1: 0101 x>1329"},
				{Defect: entity.NewDefect("a.xml", "3202", 10, 2, 3, 4), Code: "3202", RuleLine: 7, Reason: "3202 line 7: 3202"},
			},
		}},
	}
}

func TestPrintBatch_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintBatch(&buf, sampleBatch(), FormatJSON))

	var doc batchDoc
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	require.Equal(t, "run-1", doc.RunID)
	require.Len(t, doc.Findings, 2)
	require.NotNil(t, doc.Findings[0].Variant)
	require.Equal(t, uint32(2), *doc.Findings[0].Variant)
	require.Nil(t, doc.Findings[1].Variant)
	require.Equal(t, 7, doc.Findings[1].RuleLine)
}

func TestPrintBatch_YAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintBatch(&buf, sampleBatch(), FormatYAML))

	var doc batchDoc
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	require.Equal(t, 5, doc.Defects)
	require.Equal(t, "a.xml", doc.Findings[0].File)
}

func TestPrintBatch_Table(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintBatch(&buf, sampleBatch(), FormatTable))

	out := buf.String()
	require.Contains(t, out, "0101-2")
	require.Contains(t, out, "3202 line 7: 3202")
	require.Contains(t, out, "2 files, 5 defects, 2 need attention")
}

func TestPrintBatch_EmptyJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintBatch(&buf, &entity.BatchReport{RunID: "r"}, FormatJSON))
	require.Contains(t, buf.String(), `"findings": []`)

	require.Error(t, PrintBatch(&buf, &entity.BatchReport{}, OutputFormat("xml")))
}
