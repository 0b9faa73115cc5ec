package contract

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/botscan/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validInput returns a raw input that passes validation.
func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		Limit:       10,
		Workers:     4,
		Precision:   2,
		Output:      "text",
		ScanBackend: "sqlite",
		Color:       "no",
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError bool
	}{
		{"valid minimal config", func(*ConfigRawInput) {}, false},
		{"valid json output", func(in *ConfigRawInput) { in.Output = "JSON" }, false},
		{"invalid output", func(in *ConfigRawInput) { in.Output = "parquet" }, true},
		{"invalid limit (zero)", func(in *ConfigRawInput) { in.Limit = 0 }, true},
		{"invalid limit (too large)", func(in *ConfigRawInput) { in.Limit = MaxResultLimit + 1 }, true},
		{"invalid workers (zero)", func(in *ConfigRawInput) { in.Workers = 0 }, true},
		{"invalid precision (zero)", func(in *ConfigRawInput) { in.Precision = 0 }, true},
		{"invalid precision (too high)", func(in *ConfigRawInput) { in.Precision = 5 }, true},
		{"invalid color", func(in *ConfigRawInput) { in.Color = "sometimes" }, true},
		{"valid timeout", func(in *ConfigRawInput) { in.Timeout = "5s" }, false},
		{"invalid timeout", func(in *ConfigRawInput) { in.Timeout = "soon" }, true},
		{"negative timeout", func(in *ConfigRawInput) { in.Timeout = "-1s" }, true},
		{"valid platform", func(in *ConfigRawInput) { in.Platform = "TikTok" }, false},
		{"invalid platform", func(in *ConfigRawInput) { in.Platform = "myspace" }, true},
		{"invalid scan backend", func(in *ConfigRawInput) { in.ScanBackend = "oracle" }, true},
		{"mysql without connection", func(in *ConfigRawInput) { in.ScanBackend = "mysql" }, true},
		{"invalid history backend", func(in *ConfigRawInput) { in.HistoryBackend = "oracle" }, true},
		{
			"postgres history",
			func(in *ConfigRawInput) {
				in.HistoryBackend = "postgresql"
				in.HistoryDBConnect = "host=localhost dbname=botscan user=u password=p"
			},
			false,
		},
		{
			"shared sqlite file",
			func(in *ConfigRawInput) {
				in.HistoryBackend = "sqlite"
				in.ScanDBConnect = "/tmp/same.db"
				in.HistoryDBConnect = "/tmp/same.db"
			},
			true,
		},
		{"missing url file", func(in *ConfigRawInput) { in.URLFile = "/definitely/not/here.txt" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(input)
			cfg := &Config{}
			err := ProcessAndValidate(cfg, input)
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestProcessAndValidateDefaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, validInput()))
	assert.Equal(t, schema.TextOut, cfg.Output)
	assert.Equal(t, schema.SQLiteBackend, cfg.ScanBackend)
	assert.Equal(t, schema.NoneBackend, cfg.HistoryBackend, "history is off unless configured")
	assert.Equal(t, DefaultTimeout, cfg.Timeout)
	assert.Equal(t, schema.Platform(""), cfg.Platform, "platform is inferred per url by default")
	assert.False(t, cfg.UseColors)
}

func TestProcessTargets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "urls.txt")
	require.NoError(t, os.WriteFile(path, []byte("https://x.com/a/status/1\n\nhttps://youtu.be/b\n"), 0o644))

	input := validInput()
	input.Args = []string{" https://www.tiktok.com/@a/video/1 ", ""}
	input.URLFile = path
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))

	assert.Equal(t, []string{"https://www.tiktok.com/@a/video/1"}, cfg.Inputs)
	assert.Equal(t, []string{"https://x.com/a/status/1", "https://youtu.be/b"}, cfg.URLs)
	assert.Equal(t, []string{"https://www.tiktok.com/@a/video/1", "https://x.com/a/status/1", "https://youtu.be/b"}, cfg.BatchTargets())
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		backend schema.DatabaseBackend
		conn    string
		wantErr bool
	}{
		{schema.SQLiteBackend, "", false},
		{schema.NoneBackend, "", false},
		{schema.MySQLBackend, "user:pass@tcp(localhost:3306)/botscan", false},
		{schema.MySQLBackend, "user:pass@localhost/botscan", true},
		{schema.MySQLBackend, "user:pass@tcp(localhost:3306)", true},
		{schema.PostgreSQLBackend, "host=localhost dbname=botscan", false},
		{schema.PostgreSQLBackend, "dbname=botscan", true},
		{schema.PostgreSQLBackend, "host=localhost", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.backend)+"/"+tt.conn, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.conn)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{Inputs: []string{"a"}, URLs: []string{"b"}, Timeout: time.Second}
	clone := cfg.Clone()
	clone.Inputs[0] = "changed"
	clone.URLs[0] = "changed"
	assert.Equal(t, "a", cfg.Inputs[0])
	assert.Equal(t, "b", cfg.URLs[0])
	assert.Equal(t, time.Second, clone.Timeout)
}

func TestConfigParams(t *testing.T) {
	cfg := &Config{Workers: 3, Platform: schema.TikTok, Inputs: []string{"a"}, URLs: []string{"b", "c"}}
	params := cfg.Params()
	assert.Equal(t, 3, params["workers"])
	assert.Equal(t, "tiktok", params["platform"])
	assert.Equal(t, 3, params["inputs"])
}
