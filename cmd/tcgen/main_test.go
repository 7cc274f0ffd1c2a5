package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

// newTestCmd builds a throwaway command wired to a buffer, since the
// RunE handlers read their context and writer from the command.
func newTestCmd(t *testing.T) (*cobra.Command, *bytes.Buffer) {
	t.Helper()

	buf := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetContext(context.Background())
	return cmd, buf
}

// setConfigFlag points loadConfig at path for one test.
func setConfigFlag(t *testing.T, path string) {
	t.Helper()

	original := flagConfig
	flagConfig = path
	t.Cleanup(func() { flagConfig = original })
}

// TestLoadConfig_ExplicitMissingFile verifies an explicitly named config
// file that does not exist is an error, not a silent fallback.
func TestLoadConfig_ExplicitMissingFile(t *testing.T) {
	setConfigFlag(t, "/nonexistent/path/config.yaml")

	if _, err := loadConfig(); err == nil {
		t.Fatal("loadConfig() should fail for an explicit missing file")
	}
}

// TestLoadConfig_DefaultFallback verifies the built-in defaults are used
// when nothing exists at the default path.
func TestLoadConfig_DefaultFallback(t *testing.T) {
	setConfigFlag(t, "")
	t.Setenv("TCGEN_CONFIG", "")
	oldwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(oldwd) })

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Generator.CSVFile != "nodes_output_new.csv" {
		t.Errorf("Generator.CSVFile = %q, want default", cfg.Generator.CSVFile)
	}
}

// TestLoadConfig_EnvPath verifies TCGEN_CONFIG selects the config file
// when no flag is given.
func TestLoadConfig_EnvPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
generator:
  csv_file: from-env.csv
history:
  enabled: false
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	setConfigFlag(t, "")
	t.Setenv("TCGEN_CONFIG", path)

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if cfg.Generator.CSVFile != "from-env.csv" {
		t.Errorf("Generator.CSVFile = %q, want %q", cfg.Generator.CSVFile, "from-env.csv")
	}
}

// TestRunCheck_Valid verifies legal names pass and report as valid.
func TestRunCheck_Valid(t *testing.T) {
	cmd, buf := newTestCmd(t)

	err := runCheck(cmd, []string{"telegraf/opcua/Temperature", "$SYS/broker/load"})
	if err != nil {
		t.Fatalf("runCheck() error = %v", err)
	}
	if got := buf.String(); strings.Count(got, ": valid") != 2 {
		t.Errorf("output missing valid verdicts:\n%s", got)
	}
}

// TestRunCheck_Invalid verifies an illegal name fails the command and the
// sanitised form is offered.
func TestRunCheck_Invalid(t *testing.T) {
	cmd, buf := newTestCmd(t)

	err := runCheck(cmd, []string{"telegraf/opcua/Temp#1"})
	if err == nil {
		t.Fatal("runCheck() should fail for an invalid name")
	}

	got := buf.String()
	if !strings.Contains(got, "invalid") {
		t.Errorf("output missing invalid verdict:\n%s", got)
	}
	if !strings.Contains(got, "telegraf/opcua/Temp_1") {
		t.Errorf("output missing sanitised form:\n%s", got)
	}
}

// TestRunCheck_TooLong verifies rewriting is not offered when only the
// length rule is violated.
func TestRunCheck_TooLong(t *testing.T) {
	cmd, buf := newTestCmd(t)

	err := runCheck(cmd, []string{strings.Repeat("a", 300)})
	if err == nil {
		t.Fatal("runCheck() should fail for an over-long name")
	}
	if strings.Contains(buf.String(), "sanitised form") {
		t.Errorf("sanitised form offered for a length-only violation:\n%s", buf.String())
	}
}

// TestRunGenerate_EndToEnd drives the generate command against a real
// CSV file and checks the document and summary come out.
func TestRunGenerate_EndToEnd(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "nodes.csv")
	csvContent := "NodeId,CustomName\n" +
		"ns=2;s=Device1.Temperature,Temperature\n" +
		"ns=2;s=Device1.Pressure#Raw,PressureRaw\n"
	if err := os.WriteFile(csvPath, []byte(csvContent), 0600); err != nil {
		t.Fatalf("writing CSV: %v", err)
	}

	configPath := filepath.Join(dir, "config.yaml")
	configContent := `
history:
  enabled: false
logging:
  level: error
  format: text
  output: stderr
`
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	outputPath := filepath.Join(dir, "telegraf.conf")

	setConfigFlag(t, configPath)
	originalCSV, originalOutput := flagCSVFile, flagOutputFile
	flagCSVFile, flagOutputFile = csvPath, outputPath
	t.Cleanup(func() { flagCSVFile, flagOutputFile = originalCSV, originalOutput })

	cmd, buf := newTestCmd(t)
	if err := runGenerate(cmd, nil); err != nil {
		t.Fatalf("runGenerate() error = %v", err)
	}

	doc, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !strings.Contains(string(doc), "telegraf/opcua/Device1.Temperature") {
		t.Error("output missing expected topic")
	}
	if !strings.Contains(string(doc), "telegraf/opcua/Device1.Pressure_Raw") {
		t.Error("output missing sanitised topic")
	}

	summary := buf.String()
	if !strings.Contains(summary, "--- Generation Summary ---") {
		t.Errorf("summary block missing:\n%s", summary)
	}
	if !strings.Contains(summary, "Topics sanitised: 1") {
		t.Errorf("summary missing sanitised count:\n%s", summary)
	}
}

// TestRunGenerate_MissingCSV verifies a missing input file is fatal.
func TestRunGenerate_MissingCSV(t *testing.T) {
	dir := t.TempDir()

	configPath := filepath.Join(dir, "config.yaml")
	configContent := `
history:
  enabled: false
logging:
  level: error
  output: stderr
`
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	setConfigFlag(t, configPath)
	originalCSV, originalOutput := flagCSVFile, flagOutputFile
	flagCSVFile = filepath.Join(dir, "does-not-exist.csv")
	flagOutputFile = filepath.Join(dir, "telegraf.conf")
	t.Cleanup(func() { flagCSVFile, flagOutputFile = originalCSV, originalOutput })

	cmd, _ := newTestCmd(t)
	if err := runGenerate(cmd, nil); err == nil {
		t.Fatal("runGenerate() should fail when the CSV file is missing")
	}
}
