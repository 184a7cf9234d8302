package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"lens-rules/internal/domain/entity"
	"lens-rules/internal/domain/rule"
	"lens-rules/internal/infrastructure/annotation"
	"lens-rules/internal/infrastructure/rulepack"
	"lens-rules/internal/infrastructure/storage"
)

const annotationXML = `<annotation>
	<object><name>0101-2</name><bndbox><xmin>1400</xmin><ymin>0</ymin><xmax>1410</xmax><ymax>5</ymax></bndbox></object>
	<object><name>0101</name><bndbox><xmin>1400</xmin><ymin>0</ymin><xmax>1430</xmax><ymax>5</ymax></bndbox></object>
	<object><name>9999</name><bndbox><xmin>0</xmin><ymin>0</ymin><xmax>1</xmax><ymax>1</ymax></bndbox></object>
</annotation>`

const cleanXML = `<annotation>
	<object><name>9999</name><bndbox><xmin>0</xmin><ymin>0</ymin><xmax>1</xmax><ymax>1</ymax></bndbox></object>
</annotation>`

func newInspectionService(t *testing.T, defaultRules string) *InspectionService {
	t.Helper()
	repo := storage.NewMemoryUserRepository("default", defaultRules)
	return NewInspectionService(NewUserService(repo), annotation.NewVOCReader(), rulepack.Embedded(), InspectionConfig{
		Workers: 2,
		Logger:  zerolog.Nop(),
	})
}

func TestInspectionService_SetRules(t *testing.T) {
	svc := newInspectionService(t, "")
	ctx := context.Background()

	rs, err := svc.SetRules(ctx, 1, 10, "0101 x>100\n0102")
	require.NoError(t, err)
	require.Equal(t, 2, rs.Len())

	_, err = svc.SetRules(ctx, 1, 10, "0101 z>1")
	require.ErrorIs(t, err, rule.ErrUnknownAttribute)

	user, err := svc.users.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, "0101 x>100\n0102", user.RulesText)
	require.Equal(t, "custom", user.RulesName)
}

func TestInspectionService_UsePreset(t *testing.T) {
	svc := newInspectionService(t, "")
	ctx := context.Background()

	require.Equal(t, []string{"default", "uncertain"}, svc.Presets())

	rs, err := svc.UsePreset(ctx, 1, 10, "uncertain")
	require.NoError(t, err)
	require.Equal(t, 8, rs.Len())

	_, err = svc.UsePreset(ctx, 1, 10, "missing")
	require.ErrorIs(t, err, rulepack.ErrPresetNotFound)

	user, err := svc.users.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, "uncertain", user.RulesName)
}

func TestInspectionService_InspectFile(t *testing.T) {
	svc := newInspectionService(t, "0101 x>1329 x<=1710 w>7*2.5\n0101 x>1329 x<=1710 w<=7*2.5 -2 -3")
	ctx := context.Background()

	report, err := svc.InspectFile(ctx, 1, 10, "lens.xml", []byte(annotationXML))
	require.NoError(t, err)
	require.Equal(t, 3, report.Defects)
	require.Len(t, report.Findings, 1)

	f := report.Findings[0]
	require.Equal(t, "0101", f.Code)
	require.Equal(t, 1, f.RuleLine)
	require.Equal(t, int64(30), f.Defect.Width)
	require.Equal(t, "0101 line 1: 0101 x>1329 x<=1710 w>7*2.5", f.Reason)

	_, err = svc.InspectFile(ctx, 1, 10, "broken.xml", []byte("<annotation>"))
	require.Error(t, err)
}

func TestInspectionService_InspectFileWithoutRules(t *testing.T) {
	svc := newInspectionService(t, "")
	_, err := svc.InspectFile(context.Background(), 1, 10, "lens.xml", []byte(annotationXML))
	require.ErrorIs(t, err, ErrNoRules)
}

func TestInspectionService_RunBatch(t *testing.T) {
	svc := newInspectionService(t, "")
	dir := t.TempDir()
	files := []string{
		filepath.Join(dir, "a.xml"),
		filepath.Join(dir, "b.xml"),
		filepath.Join(dir, "c.xml"),
	}
	require.NoError(t, os.WriteFile(files[0], []byte(annotationXML), 0o644))
	require.NoError(t, os.WriteFile(files[1], []byte(cleanXML), 0o644))
	require.NoError(t, os.WriteFile(files[2], []byte(annotationXML), 0o644))

	rs, err := svc.Compile("0101 x>1329")
	require.NoError(t, err)

	batch, err := svc.RunBatch(context.Background(), rs, files)
	require.NoError(t, err)
	require.NotEmpty(t, batch.RunID)
	require.Equal(t, rs.Fingerprint(), batch.Fingerprint)
	require.Equal(t, 3, batch.Files)
	require.Equal(t, 7, batch.Defects)
	require.Equal(t, 4, batch.Findings())
	require.Len(t, batch.Reports, 2)
	require.Equal(t, files[0], batch.Reports[0].File)
	require.Equal(t, files[2], batch.Reports[1].File)

	_, err = svc.RunBatch(context.Background(), rs, append(files, filepath.Join(dir, "missing.xml")))
	require.Error(t, err)
}

func TestClassify_KeepsFileOrder(t *testing.T) {
	rs, err := rule.Compile("0101\n0102 w>5")
	require.NoError(t, err)

	defects := []entity.Defect{
		entity.NewDefect("f.xml", "0102", 0, 0, 10, 1),
		entity.NewDefect("f.xml", "0101-1", 0, 0, 1, 1),
		entity.NewDefect("f.xml", "0102", 0, 0, 1, 1),
	}
	report := Classify(rs, "f.xml", defects)
	require.Equal(t, 3, report.Defects)
	require.Len(t, report.Findings, 2)
	require.Equal(t, "0102", report.Findings[0].Code)
	require.Equal(t, "0101", report.Findings[1].Code)
}
