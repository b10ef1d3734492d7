package xlform

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestConfigRoundTrip(t *testing.T) {
	bold := true
	autoFit := false
	width := 12.0
	cfg := &MappingConfig{
		OutputColumns: []ColumnRule{
			{Name: "Employee", SourceColumn: "Name", Alignment: "left", Width: &width},
			{Name: "Net", SourceColumn: "=Gross - Tax", Alignment: "right",
				Formatting: map[string]any{"number_format": "#,##0.00"}},
			{Name: "Notes", SourceColumn: ""},
		},
		ColumnOrder: []string{"Net", "Employee"},
		HeaderFormatting: &HeaderFormat{
			Bold:            &bold,
			BackgroundColor: "366092",
			FontColor:       "FFFFFF",
			Alignment:       "center",
		},
		GeneralSettings: &GeneralSettings{
			AutoFitColumns: &autoFit,
			FreezePanes:    &FreezePanes{FreezeHeader: true, FreezeColumns: []string{"Employee"}},
		},
		Void: &VoidConfig{Enabled: true, ZeroColumns: []string{"Gross", "Tax"}},
	}

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, SaveConfig(cfg, path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestLoadConfig_InvalidConfigRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	writeFile(t, path, `{"output_columns": []}`)

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output_columns")
}

func TestFreezePanes_LegacyStringShape(t *testing.T) {
	var fp FreezePanes
	require.NoError(t, json.Unmarshal([]byte(`"A2"`), &fp))
	assert.Equal(t, "A2", fp.Ref)

	data, err := json.Marshal(fp)
	require.NoError(t, err)
	assert.JSONEq(t, `"A2"`, string(data))
}

func TestFreezePanes_StructuredShape(t *testing.T) {
	var fp FreezePanes
	require.NoError(t, json.Unmarshal(
		[]byte(`{"freeze_header": true, "freeze_columns": ["Name"]}`), &fp))
	assert.True(t, fp.FreezeHeader)
	assert.Equal(t, []string{"Name"}, fp.FreezeColumns)
	assert.Empty(t, fp.Ref)

	data, err := json.Marshal(fp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"freeze_header": true, "freeze_columns": ["Name"]}`, string(data))
}

func TestDefaultConfigValidates(t *testing.T) {
	assert.NoError(t, ValidateConfig(DefaultConfig()))
}

func TestWriteSampleConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sample.json")
	require.NoError(t, WriteSampleConfig(path))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Len(t, cfg.OutputColumns, 3)
	assert.Equal(t, "Employee Name", cfg.OutputColumns[0].Name)
}

func TestColumnRule_Kind(t *testing.T) {
	assert.Equal(t, RuleBlank, ColumnRule{SourceColumn: ""}.Kind())
	assert.Equal(t, RuleFormula, ColumnRule{SourceColumn: "=A + B"}.Kind())
	assert.Equal(t, RuleDirect, ColumnRule{SourceColumn: "Net Pay"}.Kind())
}
