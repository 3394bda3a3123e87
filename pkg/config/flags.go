package config

import (
	"errors"
	"flag"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

var configFilePath = flag.String("config_file", "config.txtpb", "Path to the configuration file.")

// InitFlags parses the command line and then applies the config file specified by the -config_file flag.
// Flags given on the command line keep their values over config file entries. It should be called after
// defining all flags and before using them.
func InitFlags() {
	flag.Parse()
	if err := loadConfigFile(*configFilePath, commandLineFlags()); err != nil {
		slog.Error("Failed to load config file; using flag values.", "path", *configFilePath, "error", err)
	}
}

// commandLineFlags returns the names of the flags that have been set so far.
func commandLineFlags() map[string]bool {
	names := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { names[f.Name] = true })
	return names
}

// loadConfigFile applies the config file at `path`, skipping the flags in `commandLine`.
// A missing or unspecified file is not an error.
func loadConfigFile(path string, commandLine map[string]bool) error {
	if path == "" {
		slog.Info("Config file not specified. Skipping config initialization.")
		return nil
	}

	// Read config file.
	configFile, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		slog.Warn("Config file does not exist.", "path", path, "error", err)
		return nil
	}
	if err != nil {
		return err
	}
	configBytes, err := io.ReadAll(configFile)
	_ = configFile.Close()
	if err != nil {
		return err
	}

	// Apply configurations.
	conf, err := parseConfig(configBytes)
	if err != nil {
		return err
	}
	return setConfigFlags(conf, commandLine)
}

// SetTestFlag sets a flag to a specific value for the duration of the test.
func SetTestFlag(t *testing.T, name, value string) {
	t.Helper()
	flagHolder := flag.Lookup(name)
	require.NotNil(t, flagHolder, "Flag %s not found", name)
	if flagHolder != nil { // Revert the flag value back to its original when the test is done.
		prevValue := flagHolder.Value.String()
		t.Cleanup(func() { require.NoError(t, flag.Set(name, prevValue)) })
	}
	require.NoError(t, flag.Set(name, value))
}
