// cmd/tools/audit-cli/root_test.go
package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"checklist-audit-workers/internal/integrity"
	"checklist-audit-workers/internal/models"
	buildfoodsafetyreport "checklist-audit-workers/internal/workers/audit/build-food-safety-report"
	buildstoregrid "checklist-audit-workers/internal/workers/audit/build-store-grid"
)

var clockFlags = []string{"--now", "2025-06-15T12:00:00Z", "--tz", "UTC"}

// executeCmd runs the root command with the given args and returns stdout and error.
func executeCmd(args ...string) (string, error) {
	var stdout, stderr bytes.Buffer
	rootCmd := NewRootCmd()
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), err
}

func steps(n int, gap int64) []models.ItemResult {
	items := make([]models.ItemResult, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, models.ItemResult{
			Template:            &models.ItemTemplate{Text: "Step"},
			ResultValue:         "1",
			CompletionTimestamp: models.Timestamp(1000 + int64(i)*gap),
		})
	}
	return items
}

func writeExport(t *testing.T, v interface{}) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "export.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}

func exportLists() []models.ListInstance {
	return []models.ListInstance{
		{
			ID:           "l-1",
			ListTemplate: &models.ListTemplate{Title: "🟧 DFSL Daypart 1"},
			ItemResults:  steps(11, 10),
		},
		{
			ID:              "l-3",
			ListTemplate:    &models.ListTemplate{Title: "DFSL Daypart 3"},
			IncompleteCount: 2,
			ItemResults:     steps(2, 60),
		},
	}
}

func TestRoot_Help(t *testing.T) {
	stdout, err := executeCmd("--help")
	require.NoError(t, err)
	for _, cmd := range []string{"score", "grid", "report", "registry"} {
		assert.Contains(t, stdout, cmd)
	}
}

func TestScore(t *testing.T) {
	path := writeExport(t, exportLists())

	stdout, err := executeCmd(append([]string{"score", "--file", path}, clockFlags...)...)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 2)

	var first, second integrity.Audit
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))

	assert.Equal(t, "l-1", first.ListID)
	assert.True(t, first.Scored)
	require.NotNil(t, first.Integrity.Score)
	assert.Equal(t, 80, *first.Integrity.Score)
	assert.Equal(t, integrity.BandMedium, first.Band)

	assert.Equal(t, "l-3", second.ListID)
	assert.False(t, second.Scored)
	assert.Equal(t, integrity.BandNotApplicable, second.Band)
}

func TestScore_SingleObject(t *testing.T) {
	path := writeExport(t, exportLists()[0])

	stdout, err := executeCmd(append([]string{"score", "--file", path}, clockFlags...)...)
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(stdout), "\n"), 1)
}

func TestScore_Errors(t *testing.T) {
	_, err := executeCmd("score")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file")

	_, err = executeCmd("score", "--file", filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)

	path := writeExport(t, exportLists())
	_, err = executeCmd("score", "--file", path, "--now", "yesterday")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RFC3339")

	_, err = executeCmd("score", "--file", path, "--tz", "Mars/Olympus")
	assert.Error(t, err)
}

func TestGrid(t *testing.T) {
	path := writeExport(t, exportLists())

	stdout, err := executeCmd(append([]string{"grid", "--file", path, "--location", "Store 101"}, clockFlags...)...)
	require.NoError(t, err)

	var row buildstoregrid.StoreGridRow
	require.NoError(t, json.Unmarshal([]byte(stdout), &row))
	assert.Equal(t, "Store 101", row.Name)
	assert.Equal(t, "80%", row.DP1.Score)
	assert.Equal(t, "In Progress", row.DP3.Status)
	assert.Equal(t, "Missing", row.DP5.Status)

	stdout, err = executeCmd(append([]string{"grid", "--file", path, "--location", "Store 101", "--csv"}, clockFlags...)...)
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(stdout)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, buildstoregrid.CSVHeader, records[0])
	assert.Equal(t, []string{"Store 101", "Complete", "80%", "In Progress", "", "Missing", "", "OK"}, records[1])
}

func TestReport(t *testing.T) {
	path := writeExport(t, exportLists())

	stdout, err := executeCmd(append([]string{"report", "--file", path, "--location", "Store 101"}, clockFlags...)...)
	require.NoError(t, err)

	var report buildfoodsafetyreport.FoodSafetyReport
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	assert.Equal(t, "06-15-2025", report.Date)
	assert.Equal(t, "l-1", report.Dayparts.DP1)
	assert.Equal(t, "l-3", report.Dayparts.DP3)

	_, err = executeCmd(append([]string{"report", "--file", path, "--date", "15/06/2025"}, clockFlags...)...)
	assert.Error(t, err)
}

func TestRegistryValidate(t *testing.T) {
	stdout, err := executeCmd("registry", "validate")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Found 4 activities")

	path := filepath.Join(t.TempDir(), "registry.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version":"1","activities":[]}`), 0o600))
	_, err = executeCmd("registry", "validate", "--path", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no activities")
}
