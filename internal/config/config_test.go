package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/baip-parser-go/internal/config"
)

const validTOML = `
[parse]
thread_sleep = 0.5
inbound_dir = "/data/inbound"
skip_sheets = ["ControlSheet"]
cells_to_extract = ["b1", "B2", "B10"]
cell_order = ["B10", "B1", "B10"]
ignore_if_empty = ["B2"]
file_filter = '[^~].*\.xlsx$'

[cell_map]
b10 = ["name", "description"]

[cell_field_thresholds]
B2 = 1

[header_field_lengths]
name = 10

[logging]
level = "DEBUG"
`

func decodeTOML(t *testing.T, body string) (*config.Config, error) {
	t.Helper()
	return config.Decode(strings.NewReader(body), "toml")
}

func TestDecode(t *testing.T) {
	t.Parallel()

	t.Run("valid toml", func(t *testing.T) {
		t.Parallel()

		cfg, err := decodeTOML(t, validTOML)
		require.NoError(t, err)

		assert.Equal(t, 0.5, cfg.Parse.ThreadSleep)
		assert.Equal(t, "/data/inbound", cfg.Parse.InboundDir)
		assert.Equal(t, []string{"B1", "B2", "B10"}, cfg.Parse.CellsToExtract)
		assert.Equal(t, []string{"B10", "B1", "B10"}, cfg.Parse.CellOrder)
		assert.Equal(t, map[string][]string{"B10": {"name", "description"}}, cfg.CellMap)
		assert.Equal(t, map[string]int{"name": 10}, cfg.HeaderFieldLengths)
		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.True(t, cfg.Parse.WordBoundary, "default kept")
		assert.Equal(t, 1, cfg.Parse.Workers)
	})

	t.Run("valid yaml", func(t *testing.T) {
		t.Parallel()

		body := `
parse:
  thread_sleep: 3
  cells_to_extract: [B1]
cell_map:
  b1: [Element]
`
		cfg, err := config.Decode(strings.NewReader(body), "yaml")
		require.NoError(t, err)

		assert.Equal(t, 3.0, cfg.Parse.ThreadSleep)
		assert.Equal(t, []string{"B1"}, cfg.Parse.CellOrder, "cell_order defaults to cells_to_extract")
		assert.Equal(t, []string{"Element"}, cfg.CellMap["B1"])
	})

	t.Run("defaults are not shared", func(t *testing.T) {
		t.Parallel()

		a := config.Default()
		b := config.Default()
		a.Parse.SkipSheets = append(a.Parse.SkipSheets, "x")
		a.CellMap["B1"] = []string{"y"}

		assert.Empty(t, b.Parse.SkipSheets)
		assert.Empty(t, b.CellMap)
	})
}

func TestDecodeErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		body   string
		option string
	}{
		{"non-numeric sleep", "[parse]\nthread_sleep = \"soon\"\ncells_to_extract = [\"B1\"]\n", ""},
		{"zero sleep", "[parse]\nthread_sleep = 0.0\ncells_to_extract = [\"B1\"]\n", "parse.thread_sleep"},
		{"no cells", "[parse]\nthread_sleep = 1.0\n", "parse.cells_to_extract"},
		{"bad cell", "[parse]\ncells_to_extract = [\"1B\"]\n", "parse.cells_to_extract"},
		{"order not extracted", "[parse]\ncells_to_extract = [\"B1\"]\ncell_order = [\"B2\"]\n", "parse.cell_order"},
		{"ignore not extracted", "[parse]\ncells_to_extract = [\"B1\"]\nignore_if_empty = [\"C1\"]\n", "parse.ignore_if_empty"},
		{"bad filter", "[parse]\ncells_to_extract = [\"B1\"]\nfile_filter = \"(\"\n", "parse.file_filter"},
		{"negative length", "[parse]\ncells_to_extract = [\"B1\"]\n[header_field_lengths]\nname = -1\n", "header_field_lengths.name"},
		{"bad log level", "[parse]\ncells_to_extract = [\"B1\"]\n[logging]\nlevel = \"loud\"\n", "logging.level"},
		{"workers", "[parse]\ncells_to_extract = [\"B1\"]\nworkers = 0\n", "parse.workers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := decodeTOML(t, tt.body)

			var cfgErr *config.ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			if tt.option != "" {
				assert.Equal(t, tt.option, cfgErr.Option)
			}
		})
	}

	t.Run("unknown option", func(t *testing.T) {
		t.Parallel()

		_, err := decodeTOML(t, "[parse]\ncells_to_extract = [\"B1\"]\nthread_slep = 1.0\n")

		var cfgErr *config.ConfigurationError
		assert.ErrorAs(t, err, &cfgErr)
	})
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("reads file by extension", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "parser.toml")
		require.NoError(t, os.WriteFile(path, []byte(validTOML), 0o644))

		cfg, resolved, err := config.Load(path)
		require.NoError(t, err)
		assert.Equal(t, path, resolved)
		assert.Equal(t, []string{"ControlSheet"}, cfg.Parse.SkipSheets)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, _, err := config.Load(filepath.Join(t.TempDir(), "absent.toml"))

		var cfgErr *config.ConfigurationError
		assert.ErrorAs(t, err, &cfgErr)
	})

	t.Run("sample config is valid", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "conf", "config.toml")
		require.NoError(t, config.CreateSample(path))

		cfg, _, err := config.Load(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"name", "description"}, cfg.CellMap["B10"])
	})
}

func TestOptions(t *testing.T) {
	t.Parallel()

	cfg, err := decodeTOML(t, validTOML)
	require.NoError(t, err)

	opts := cfg.Options()

	assert.Equal(t, cfg.Parse.CellOrder, opts.CellOrder)
	assert.Equal(t, map[string]int{"B2": 1}, opts.CellFieldThresholds)
	assert.True(t, opts.ShouldWriteHeaders())
	require.NoError(t, opts.Validate())

	opts.CellMap["B10"][0] = "changed"
	assert.Equal(t, "name", cfg.CellMap["B10"][0], "options own their containers")
}
