package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// duration wraps time.Duration so yaml files can use "10s" style
// values.
type duration time.Duration

func (d *duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = duration(v)
	return nil
}

// LinkConfig is one endpoint of the bridge.
type LinkConfig struct {
	// Name identifies the link in logs and metrics, defaults to linkN.
	Name string `yaml:"name"`
	// URL is the connection url, for example
	// serial:///dev/ttyACM0:921600 or udp://:14555@192.168.1.12:14550.
	URL string `yaml:"url"`
	// TxQueueSize overrides the outbound queue capacity.
	TxQueueSize int `yaml:"tx_queue_size"`
}

// Config is the mavbridge yaml configuration.
type Config struct {
	Links []LinkConfig `yaml:"links"`
	// MetricsAddr is the listen address of the Prometheus endpoint,
	// empty disables it.
	MetricsAddr string `yaml:"metrics_addr"`
	LogLevel    string `yaml:"log_level"`
	// StatusEvery is the period of the status log line, default 10s.
	StatusEvery duration `yaml:"status_every"`
}

func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if err := cfg.adjust(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) adjust() error {
	if len(c.Links) == 0 {
		return fmt.Errorf("no links configured")
	}
	if c.StatusEvery <= 0 {
		c.StatusEvery = duration(10 * time.Second)
	}
	names := make(map[string]struct{}, len(c.Links))
	for i := range c.Links {
		l := &c.Links[i]
		if l.URL == "" {
			return fmt.Errorf("link %d: url is required", i)
		}
		if l.Name == "" {
			l.Name = fmt.Sprintf("link%d", i)
		}
		if _, dup := names[l.Name]; dup {
			return fmt.Errorf("duplicate link name %q", l.Name)
		}
		names[l.Name] = struct{}{}
	}
	return nil
}
