package configuration

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigParsesSectionsAndComments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.cfg")
	content := `; comment line
# another comment

[Interpreter]
max_gosub_depth = 12
max_token_length=120

[HostFuncs]
max_open_files = 3
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if got := c.settings["Interpreter"]["max_gosub_depth"]; got != "12" {
		t.Errorf("max_gosub_depth = %q, want 12", got)
	}
	if got := c.settings["Interpreter"]["max_token_length"]; got != "120" {
		t.Errorf("max_token_length = %q, want 120 (no spaces around '=')", got)
	}
	if got := c.settings["HostFuncs"]["max_open_files"]; got != "3" {
		t.Errorf("max_open_files = %q, want 3", got)
	}
}

func TestLoadConfigCreatesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.cfg")

	c, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config file was not written: %v", err)
	}
	if got := c.settings["Interpreter"]["max_gosub_depth"]; got != "20" {
		t.Errorf("default max_gosub_depth = %q, want 20", got)
	}
	if got := c.settings["Debug"]["log_level"]; got != "INFO" {
		t.Errorf("default log_level = %q, want INFO", got)
	}

	// the written file must parse back to the same settings
	reread, err := loadConfig(path)
	if err != nil {
		t.Fatalf("re-reading default config failed: %v", err)
	}
	for section, keys := range c.settings {
		for key, value := range keys {
			if got := reread.settings[section][key]; got != value {
				t.Errorf("%s.%s round-tripped to %q, want %q", section, key, got, value)
			}
		}
	}
}

func TestLocalOverride(t *testing.T) {
	dir := t.TempDir()
	base := filepath.Join(dir, "settings.cfg")
	local := filepath.Join(dir, "settings.local.cfg")
	if err := os.WriteFile(base, []byte("[Interpreter]\nmax_for_depth = 5\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(local, []byte("[Interpreter]\nmax_for_depth = 9\n"), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := loadConfig(base)
	if err != nil {
		t.Fatal(err)
	}
	if err := c.loadLocalConfig(local); err != nil {
		t.Fatal(err)
	}
	if got := c.settings["Interpreter"]["max_for_depth"]; got != "9" {
		t.Errorf("max_for_depth = %q, want local override 9", got)
	}
}
