package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/property-pnl/internal/config"
)

func TestInitializeLogger(t *testing.T) {
	tests := []struct {
		name      string
		logging   config.LoggingConfig
		override  string
		wantError bool
	}{
		{"Defaults", config.LoggingConfig{}, "", false},
		{"Console debug", config.LoggingConfig{Level: "debug", Format: "console"}, "", false},
		{"Override wins", config.LoggingConfig{Level: "bogus"}, "warn", false},
		{"Invalid level", config.LoggingConfig{Level: "verbose"}, "", true},
		{"Invalid format", config.LoggingConfig{Format: "xml"}, "", true},
		{"Output file", config.LoggingConfig{OutputFile: filepath.Join(t.TempDir(), "logs", "pnl.log")}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := initializeLogger(tt.logging, tt.override)
			if tt.wantError {
				if err == nil {
					t.Errorf("initializeLogger() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("initializeLogger() error = %v", err)
			}
			_ = logger.Sync()

			if tt.logging.OutputFile != "" {
				if _, err := os.Stat(tt.logging.OutputFile); err != nil {
					t.Errorf("expected log file to be created: %v", err)
				}
			}
		})
	}
}

func writeTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	contents := `logging:
  level: error
output:
  format: pretty
`
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCalculateCommandCSV(t *testing.T) {
	configPath := writeTestConfig(t)
	exportPath := filepath.Join(t.TempDir(), "results.csv")

	out, err := executeRoot(t, "calculate",
		"--config", configPath,
		"--offline",
		"--manual-rate", "2.5",
		"--output-format", "csv",
		"--export-file", exportPath,
	)
	if err != nil {
		t.Fatalf("calculate failed: %v\n%s", err, out)
	}

	if !strings.HasPrefix(out, "Category,MYR Amount,NZD Amount\n") {
		t.Errorf("unexpected CSV output:\n%s", out)
	}
	if !strings.Contains(out, "Net Net Price,684000.00,273600.00") {
		t.Errorf("missing net net price row:\n%s", out)
	}

	exported, err := os.ReadFile(exportPath)
	if err != nil {
		t.Fatalf("failed to read export: %v", err)
	}
	if string(exported) != out {
		t.Errorf("export file differs from stdout output")
	}
}

func TestCalculateCommandConfigFromStdin(t *testing.T) {
	var out bytes.Buffer
	root := newRootCmd()
	root.SetIn(strings.NewReader(`input:
  listedPrice: 1000000
  discountPercent1: 0
  discountPercent2: 0
logging:
  level: error
`))
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"calculate", "--config", "-", "--offline", "--manual-rate", "2.5", "--output-format", "csv"})

	if err := root.Execute(); err != nil {
		t.Fatalf("calculate failed: %v\n%s", err, out.String())
	}
	if !strings.Contains(out.String(), "Net Net Price,1000000.00,400000.00") {
		t.Errorf("expected stdin config to be used:\n%s", out.String())
	}
}

func TestCalculateCommandPrettyChinese(t *testing.T) {
	out, err := executeRoot(t, "calculate",
		"--config", writeTestConfig(t),
		"--offline",
		"--manual-rate", "2.5",
		"--language", "zh",
	)
	if err != nil {
		t.Fatalf("calculate failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "净净价格 | 684,000.00 | 273,600.00") {
		t.Errorf("unexpected pretty output:\n%s", out)
	}
}

func TestCalculateCommandOfflineFallback(t *testing.T) {
	out, err := executeRoot(t, "calculate", "--config", writeTestConfig(t), "--offline")
	if err != nil {
		t.Fatalf("calculate failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "!!!") {
		t.Errorf("expected the default rate substitution to be flagged:\n%s", out)
	}
}

func TestCalculateCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"Missing explicit config", []string{"calculate", "--config", filepath.Join(t.TempDir(), "missing.yaml")}},
		{"Bad output format", []string{"calculate", "--config", writeTestConfig(t), "--offline", "--output-format", "xlsx"}},
		{"Bad log level", []string{"calculate", "--config", writeTestConfig(t), "--log-level", "loud"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := executeRoot(t, tt.args...); err == nil {
				t.Error("expected error but got none")
			}
		})
	}
}

func TestRateCommandOffline(t *testing.T) {
	out, err := executeRoot(t, "rate", "--config", writeTestConfig(t), "--offline")
	if err != nil {
		t.Fatalf("rate failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "1 NZD = 2.5655 MYR (default)") {
		t.Errorf("unexpected rate output: %s", out)
	}
}
