package configuration

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

// Config holds the application configuration.
type Config struct {
	settings map[string]map[string]string
	filePath string
	mu       sync.RWMutex
}

var (
	globalConfig *Config
	once         sync.Once
)

// Initialize loads the global configuration. A missing file is created with
// defaults; a settings.local.cfg next to it overrides individual keys.
func Initialize(configPath string) error {
	var err error
	once.Do(func() {
		globalConfig, err = loadConfig(configPath)
		if err != nil {
			return
		}
		localConfigPath := "settings.local.cfg"
		if _, statErr := os.Stat(localConfigPath); statErr == nil {
			// Silent error - loading continues with the base config
			_ = globalConfig.loadLocalConfig(localConfigPath)
		}
	})
	return err
}

func loadConfig(filePath string) (*Config, error) {
	config := &Config{
		settings: make(map[string]map[string]string),
		filePath: filePath,
	}
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		config.createDefaultConfig()
		if err := config.saveToFile(); err != nil {
			return nil, fmt.Errorf("failed to create default config: %v", err)
		}
		return config, nil
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if err := config.parse(bufio.NewScanner(file)); err != nil {
		return nil, err
	}
	return config, nil
}

// loadLocalConfig overlays values from a local override file.
func (c *Config) loadLocalConfig(filePath string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	file, err := os.Open(filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	return c.parse(bufio.NewScanner(file))
}

// parse reads an INI-style stream: [section] headers, key = value pairs,
// blank lines and ';' or '#' comments.
func (c *Config) parse(scanner *bufio.Scanner) error {
	currentSection := ""
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, ";") || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			currentSection = line[1 : len(line)-1]
			if c.settings[currentSection] == nil {
				c.settings[currentSection] = make(map[string]string)
			}
			continue
		}

		if strings.Contains(line, "=") && currentSection != "" {
			parts := strings.SplitN(line, "=", 2)
			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])
			c.settings[currentSection][key] = value
		}
	}
	return scanner.Err()
}

// createDefaultConfig fills in the defaults for every key the system reads.
func (c *Config) createDefaultConfig() {
	// [Interpreter] section: resource bounds of one interpreter instance
	c.settings["Interpreter"] = map[string]string{
		"max_token_length": "80",
		"max_params":       "20",
		"max_gosub_depth":  "20",
		"max_for_depth":    "5",
		"max_error_text":   "80",
	}

	// [HostFuncs] section: limits of the extension-function library
	c.settings["HostFuncs"] = map[string]string{
		"max_open_files":     "10",
		"max_open_databases": "4",
		"input_buffer_size":  "80",
	}

	// [Debug] section
	c.settings["Debug"] = map[string]string{
		"enable_debug_logging": "false",
		"log_level":            "INFO",
		"log_file":             "debug.log",
		"max_log_size_mb":      "10",
		"log_rotation_count":   "3",
		// Selective logging areas
		"log_interp":    "false",
		"log_hostfuncs": "false",
		"log_driver":    "false",
		"log_database":  "false",
		"log_config":    "true",
		"log_general":   "true",
	}
}

func (c *Config) saveToFile() error {
	dir := filepath.Dir(c.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	file, err := os.Create(c.filePath)
	if err != nil {
		return err
	}
	defer file.Close()

	file.WriteString("; TinyScript Configuration File\n")
	file.WriteString("; Generated automatically - modify with care\n")
	file.WriteString(";\n\n")

	sections := []string{"Interpreter", "HostFuncs", "Debug"}
	for _, section := range sections {
		if settings, exists := c.settings[section]; exists {
			file.WriteString(fmt.Sprintf("[%s]\n", section))
			for key, value := range settings {
				file.WriteString(fmt.Sprintf("%s = %s\n", key, value))
			}
			file.WriteString("\n")
		}
	}
	return nil
}

// GetString returns a string value from the configuration.
func GetString(section, key, defaultValue string) string {
	if globalConfig == nil {
		return defaultValue
	}

	globalConfig.mu.RLock()
	defer globalConfig.mu.RUnlock()

	if sectionMap, exists := globalConfig.settings[section]; exists {
		if value, exists := sectionMap[key]; exists {
			return value
		}
	}
	return defaultValue
}

// GetInt returns an integer value from the configuration.
func GetInt(section, key string, defaultValue int) int {
	str := GetString(section, key, "")
	if str == "" {
		return defaultValue
	}
	if value, err := strconv.Atoi(str); err == nil {
		return value
	}
	return defaultValue
}

// GetBool returns a boolean value from the configuration.
func GetBool(section, key string, defaultValue bool) bool {
	str := GetString(section, key, "")
	if str == "" {
		return defaultValue
	}
	if value, err := strconv.ParseBool(str); err == nil {
		return value
	}
	return defaultValue
}

// GetSection returns a copy of all key-value pairs in a section.
func GetSection(sectionName string) map[string]string {
	if globalConfig == nil {
		return make(map[string]string)
	}

	globalConfig.mu.RLock()
	defer globalConfig.mu.RUnlock()

	result := make(map[string]string)
	for key, value := range globalConfig.settings[sectionName] {
		result[key] = value
	}
	return result
}

// SetString sets a string value in the configuration.
func SetString(section, key, value string) {
	if globalConfig == nil {
		return
	}

	globalConfig.mu.Lock()
	defer globalConfig.mu.Unlock()

	if globalConfig.settings[section] == nil {
		globalConfig.settings[section] = make(map[string]string)
	}
	globalConfig.settings[section][key] = value
}

// Save writes the current configuration back to its file.
func Save() error {
	if globalConfig == nil {
		return fmt.Errorf("configuration not initialized")
	}

	globalConfig.mu.RLock()
	defer globalConfig.mu.RUnlock()

	return globalConfig.saveToFile()
}
