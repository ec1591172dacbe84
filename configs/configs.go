package configs

import (
	"io/ioutil"

	"gopkg.in/yaml.v3"
)

// SchedulerConfig carries the capacities controlling memory use and
// backpressure aggressiveness, plus binding-layer sizing.
type SchedulerConfig struct {
	// ActionQueueSize bounds the inbound action channel. Producers block
	// while it is full.
	ActionQueueSize int `yaml:"actionQueueSize"`

	// EventQueueSize bounds the outbound event channel. Firings block while
	// it is full; events are never dropped.
	EventQueueSize int `yaml:"eventQueueSize"`

	// DispatchPoolSize is the number of workers running event handlers in
	// the binding layer.
	DispatchPoolSize int `yaml:"dispatchPoolSize"`

	// TaskQueueSize bounds the binding layer's deferred-task queue.
	TaskQueueSize int `yaml:"taskQueueSize"`

	LogLevel string `yaml:"logLevel"`
}

func DefaultConfig() SchedulerConfig {
	return SchedulerConfig{
		ActionQueueSize:  10,
		EventQueueSize:   10,
		DispatchPoolSize: 4,
		TaskQueueSize:    32,
		LogLevel:         "info",
	}
}

// ReadConfigFromFile loads a SchedulerConfig from a YAML file. Fields absent
// from the file keep their defaults.
func ReadConfigFromFile(filePath string) (SchedulerConfig, error) {
	data, err := ioutil.ReadFile(filePath)
	if err != nil {
		return SchedulerConfig{}, err
	}
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return SchedulerConfig{}, err
	}
	return config, nil
}
