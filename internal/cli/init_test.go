package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("OMONAT_CLI_TEST=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("OMONAT_CLI_TEST", "")
	os.Unsetenv("OMONAT_CLI_TEST")

	if err := LoadEnvFile(path); err != nil {
		t.Fatalf("LoadEnvFile: %v", err)
	}
	if got := os.Getenv("OMONAT_CLI_TEST"); got != "from-file" {
		t.Errorf("OMONAT_CLI_TEST = %q", got)
	}
}

func TestLoadEnvFileKeepsExistingValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	if err := os.WriteFile(path, []byte("OMONAT_CLI_KEEP=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("OMONAT_CLI_KEEP", "from-env")

	if err := LoadEnvFile(path); err != nil {
		t.Fatalf("LoadEnvFile: %v", err)
	}
	if got := os.Getenv("OMONAT_CLI_KEEP"); got != "from-env" {
		t.Errorf("environment should win over the file, got %q", got)
	}
}

func TestLoadEnvFileMissing(t *testing.T) {
	if err := LoadEnvFile(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Errorf("a missing file is not an error, got %v", err)
	}
}

func TestSetupLogger(t *testing.T) {
	if l := SetupLogger("debug"); l == nil {
		t.Fatal("nil logger")
	}
}
