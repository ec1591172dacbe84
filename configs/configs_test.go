package configs

import (
	"io/ioutil"
	"os"
	"path"
	"testing"
)

func Test_DefaultsAreSane(t *testing.T) {
	config := DefaultConfig()
	if config.ActionQueueSize < 1 || config.EventQueueSize < 1 {
		t.Errorf("default queue capacities must be positive: %+v", config)
	}
	if config.DispatchPoolSize < 1 || config.TaskQueueSize < 1 {
		t.Errorf("default binding sizes must be positive: %+v", config)
	}
}

func Test_ReadConfigKeepsDefaultsForAbsentFields(t *testing.T) {
	dir := t.TempDir()
	file := path.Join(dir, "sched.yml")
	contents := "actionQueueSize: 25\nlogLevel: debug\n"
	if err := ioutil.WriteFile(file, []byte(contents), 0o600); err != nil {
		t.Fatal(err)
	}

	config, err := ReadConfigFromFile(file)
	if err != nil {
		t.Fatal(err)
	}
	if config.ActionQueueSize != 25 {
		t.Errorf("actionQueueSize = %d, want 25", config.ActionQueueSize)
	}
	if config.LogLevel != "debug" {
		t.Errorf("logLevel = %q, want debug", config.LogLevel)
	}
	if config.EventQueueSize != DefaultConfig().EventQueueSize {
		t.Errorf("eventQueueSize lost its default: %d", config.EventQueueSize)
	}
}

func Test_ReadConfigMissingFile(t *testing.T) {
	if _, err := ReadConfigFromFile(path.Join(t.TempDir(), "nope.yml")); !os.IsNotExist(err) {
		t.Errorf("expected a not-exist error, got %v", err)
	}
}
