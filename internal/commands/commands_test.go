package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finewise-dev/finewise/internal/config"
	"github.com/finewise-dev/finewise/internal/dashboard"
	"github.com/finewise-dev/finewise/internal/store"
)

func runFinewise(t *testing.T, args ...string) (string, error) {
	t.Helper()
	clock := func() time.Time { return time.Date(2024, time.March, 15, 12, 0, 0, 0, time.Local) }
	cmd := newRootCommand(clock)
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

const sampleCSV = store.Header + `
1,1234567.891,2024-03-02,Rent,flat
2,500,2024-03-05,,misc
3,300,2024-02-10,Food,groceries
4,oops,2024-03-06,Food,typo
5,10,bad-date,Food,typo
6,99,2023-03-01,Food,last year
`

func initProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	_, err := runFinewise(t, "init", dir)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "expenses.csv"), []byte(sampleCSV), 0o644))
	return dir
}

func TestInit_CreatesConfigAndCSV(t *testing.T) {
	dir := t.TempDir()
	out, err := runFinewise(t, "init", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Initialized FineWise project")

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, config.SourceCSV, cfg.Source.Kind)
	assert.Equal(t, "expenses.csv", cfg.Source.Path)

	data, err := os.ReadFile(filepath.Join(dir, "expenses.csv"))
	require.NoError(t, err)
	assert.Equal(t, store.Header+"\n", string(data))
}

func TestInit_RefusesToOverwrite(t *testing.T) {
	dir := t.TempDir()
	_, err := runFinewise(t, "init", dir)
	require.NoError(t, err)

	_, err = runFinewise(t, "init", dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = runFinewise(t, "init", dir, "--force")
	require.NoError(t, err)
}

func TestInit_KeepsExistingCSV(t *testing.T) {
	dir := initProject(t)
	_, err := runFinewise(t, "init", dir, "--force")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "expenses.csv"))
	require.NoError(t, err)
	assert.Equal(t, sampleCSV, string(data))
}

func TestInit_APISource(t *testing.T) {
	dir := t.TempDir()
	_, err := runFinewise(t, "init", dir, "--source", "api", "--api-url", "https://finewise.example/api/v1")
	require.NoError(t, err)

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Equal(t, config.SourceAPI, cfg.Source.Kind)
	assert.Equal(t, "https://finewise.example/api/v1", cfg.Source.BaseURL)

	_, err = os.Stat(filepath.Join(dir, "expenses.csv"))
	assert.True(t, os.IsNotExist(err))
}

func TestInit_UnknownSource(t *testing.T) {
	_, err := runFinewise(t, "init", t.TempDir(), "--source", "ftp")
	require.Error(t, err)
}

func TestReport_Text(t *testing.T) {
	dir := initProject(t)
	out, err := runFinewise(t, "report", "--config", filepath.Join(dir, config.FileName), "--now", "2024-03-15")
	require.NoError(t, err)

	assert.Contains(t, out, "FineWise report for 2024 (as of 2024-03-15)")
	assert.Contains(t, out, "  Mar  ₹12,35,067.89")
	assert.Contains(t, out, "  Feb  ₹300.00")
	assert.Contains(t, out, "Rent           ₹12,34,567.89")
	assert.Contains(t, out, "Uncategorized  ₹500.00")
	assert.Contains(t, out, "▲ ₹12,34,767.89 Increase from last month")
	assert.Contains(t, out, "Top category    Rent")
	assert.Contains(t, out, "₹12,35,067.89 / ₹2,000.00 (100.0%)")
	assert.Contains(t, out, "Alert: approaching budget limit")
	assert.Contains(t, out, "Skipped 2 unusable record(s).")
}

func TestReport_OtherYearCountsEachBadRowOnce(t *testing.T) {
	dir := initProject(t)
	out, err := runFinewise(t, "report", "--config", filepath.Join(dir, config.FileName), "--now", "2024-03-15", "--year", "2023", "--json")
	require.NoError(t, err)

	var v dashboard.View
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	// "oops" (March 2024) and "bad-date" each counted once across three fetches.
	assert.Equal(t, 2, v.Dropped)
	assert.Equal(t, 1, v.Stats.Count)
	assert.Equal(t, "₹99.00", v.Stats.Total.Formatted)
	assert.Equal(t, "Food", v.Stats.TopCategory)
}

func TestReport_JSON(t *testing.T) {
	dir := initProject(t)
	out, err := runFinewise(t, "report", "--config", filepath.Join(dir, config.FileName), "--json")
	require.NoError(t, err)

	var v dashboard.View
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, 2024, v.Year)
	assert.Equal(t, "2024-03-15", v.Date)
	assert.Equal(t, 2, v.Dropped)
	require.Len(t, v.Monthly, 12)
	assert.Equal(t, "₹0.00", v.Monthly[0].Formatted)
	assert.Len(t, v.Categories, 2)
	assert.Equal(t, "increase", string(v.Comparison.Direction))
}

func TestReport_OtherYear(t *testing.T) {
	dir := initProject(t)
	out, err := runFinewise(t, "report", "--config", filepath.Join(dir, config.FileName), "--now", "2024-03-15", "--year", "2023", "--json")
	require.NoError(t, err)

	var v dashboard.View
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, 2023, v.Year)
	assert.Equal(t, "₹99.00", v.Monthly[2].Formatted)
	// Categories and comparison still follow the reference date.
	assert.Equal(t, "₹12,35,067.89", v.Comparison.Current.Formatted)
}

func TestReport_BadFlags(t *testing.T) {
	dir := initProject(t)
	cfgPath := filepath.Join(dir, config.FileName)

	_, err := runFinewise(t, "report", "--config", cfgPath, "--now", "15/03/2024")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --now")

	_, err = runFinewise(t, "report", "--config", cfgPath, "--year", "-4")
	require.Error(t, err)
}

func TestReport_MissingConfigUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	out, err := runFinewise(t, "report", "--config", filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Contains(t, out, "(no expenses)")
	assert.Contains(t, out, "Top category    N/A")
}
