package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/MrJamesThe3rd/invoicer/cmd/importer/internal/cli"
	"github.com/MrJamesThe3rd/invoicer/internal/config"
	"github.com/MrJamesThe3rd/invoicer/internal/importer/csvfile"
)

const sample = "Invoice Code;Issued Date;Owner Name;Contact Name;Subtotal;Taxes;Total;Status\n" +
	"INV1;2024-01-01;Acme;Bob;100;21;121;issued\n" +
	";2024-01-02;Acme;Bob;100;21;abc;draft\n"

func setup(t *testing.T, content string) (*config.Config, string) {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "invoices.csv"), []byte(content), 0o600))

	cfg, err := config.Load()
	require.NoError(t, err)

	return cfg, dir
}

func execute(t *testing.T, cfg *config.Config, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	cmd := cli.NewRootCmd(cfg)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())

	return out.String(), err
}

func TestRun_Summary(t *testing.T) {
	cfg, dir := setup(t, sample)

	out, err := execute(t, cfg, "run", "invoices.csv", "--dir", dir)
	require.NoError(t, err)

	assert.Contains(t, out, "invoices.csv: 2 rows, 1 ok, 1 failed")
	assert.Contains(t, out, "accepted statuses: issued, draft")
	assert.Contains(t, out, "line 3: code: required, total: invalid")
}

func TestRun_JSON(t *testing.T) {
	cfg, dir := setup(t, sample)

	out, err := execute(t, cfg, "run", "invoices.csv", "--dir", dir, "--json")
	require.NoError(t, err)

	var got struct {
		File string `json:"file"`
		OK   []struct {
			Code  string `json:"code"`
			Total string `json:"total"`
		} `json:"ok"`
		KO []struct {
			Line   int `json:"line"`
			Errors []struct {
				Property string `json:"property"`
				Message  string `json:"message"`
			} `json:"errors"`
		} `json:"ko"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))

	assert.Equal(t, "invoices.csv", got.File)
	require.Len(t, got.OK, 1)
	assert.Equal(t, "INV1", got.OK[0].Code)
	assert.Equal(t, "121", got.OK[0].Total)
	require.Len(t, got.KO, 1)
	assert.Equal(t, 3, got.KO[0].Line)
	assert.Len(t, got.KO[0].Errors, 2)
}

func TestRun_Report(t *testing.T) {
	cfg, dir := setup(t, sample)
	path := filepath.Join(t.TempDir(), "report.xlsx")

	out, err := execute(t, cfg, "run", "invoices.csv", "--dir", dir, "--report", path)
	require.NoError(t, err)
	assert.Contains(t, out, "report written to")

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Contains(t, f.GetSheetList(), "Invoices")
	assert.Contains(t, f.GetSheetList(), "Errors")
}

func TestRun_PersistFailureSkipsReport(t *testing.T) {
	cfg, dir := setup(t, sample)
	cfg.DB.Host = "127.0.0.1"
	cfg.DB.Port = 1

	path := filepath.Join(t.TempDir(), "report.xlsx")

	_, err := execute(t, cfg, "run", "invoices.csv", "--dir", dir, "--report", path, "--persist")
	require.Error(t, err)

	assert.NoFileExists(t, path)
}

func TestRun_CustomDelimiter(t *testing.T) {
	cfg, dir := setup(t, "Invoice Code,Issued Date,Owner Name,Contact Name,Subtotal,Taxes,Total,Status\nA,d,o,c,1,0,1,draft\n")

	out, err := execute(t, cfg, "run", "invoices.csv", "--dir", dir, "--delimiter", ",")
	require.NoError(t, err)
	assert.Contains(t, out, "1 rows, 1 ok, 0 failed")
}

func TestRun_MissingFile(t *testing.T) {
	cfg, dir := setup(t, sample)

	_, err := execute(t, cfg, "run", "nope.csv", "--dir", dir)

	var ioErr *csvfile.IOError
	assert.ErrorAs(t, err, &ioErr)
}

func TestRun_SchemaFile(t *testing.T) {
	cfg, dir := setup(t, sample)

	schema := filepath.Join(t.TempDir(), "schema.yaml")
	require.NoError(t, os.WriteFile(schema, []byte("statuses: [issued]\n"), 0o600))

	out, err := execute(t, cfg, "run", "invoices.csv", "--dir", dir, "--schema", schema)
	require.NoError(t, err)
	assert.Contains(t, out, "line 3: code: required, status: invalid, total: invalid")
	assert.Contains(t, out, "accepted statuses: issued\n")
}

func TestValidate(t *testing.T) {
	t.Run("Failing Rows", func(t *testing.T) {
		cfg, dir := setup(t, sample)

		out, err := execute(t, cfg, "validate", "invoices.csv", "--dir", dir)
		assert.ErrorIs(t, err, cli.ErrRowsFailed)
		assert.Contains(t, out, "1 failed")
	})

	t.Run("Clean File", func(t *testing.T) {
		cfg, dir := setup(t, "Invoice Code;Issued Date;Owner Name;Contact Name;Subtotal;Taxes;Total;Status\nA;d;o;c;1;0;1;issued\n")

		_, err := execute(t, cfg, "validate", "invoices.csv", "--dir", dir)
		assert.NoError(t, err)
	})

	t.Run("Missing Argument", func(t *testing.T) {
		cfg, _ := setup(t, sample)

		_, err := execute(t, cfg, "validate")
		assert.Error(t, err)
	})
}
