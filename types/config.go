package types

import (
	"io/ioutil"
	"time"

	"github.com/juju/errors"
	yaml "gopkg.in/yaml.v2"
)

// Duration decodes yaml values like "30s" or "1m".
type Duration time.Duration

// UnmarshalYAML .
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw string
	if err := unmarshal(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return errors.Trace(err)
	}
	*d = Duration(parsed)
	return nil
}

// Config .
type Config struct {
	Store          StoreConfig `yaml:"store"`
	PluginName     string      `yaml:"plugin_name"`
	RequestTimeout Duration    `yaml:"request_timeout"`
	Pools          []Pool      `yaml:"pools"`
}

// StoreConfig .
type StoreConfig struct {
	// Kind is either "bolt" or "etcd".
	Kind          string   `yaml:"kind"`
	BoltPath      string   `yaml:"bolt_path"`
	EtcdEndpoints []string `yaml:"etcd_endpoints"`
}

// LoadConfig reads a yaml config file and fills defaults.
func LoadConfig(path string) (*Config, error) {
	content, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	config := &Config{}
	if err := yaml.Unmarshal(content, config); err != nil {
		return nil, errors.Trace(err)
	}
	if config.PluginName == "" {
		config.PluginName = "spigot"
	}
	if config.RequestTimeout == 0 {
		config.RequestTimeout = Duration(30 * time.Second)
	}
	if config.Store.Kind == "" {
		config.Store.Kind = "bolt"
	}
	if config.Store.BoltPath == "" {
		config.Store.BoltPath = "/var/lib/spigot/spigot.db"
	}
	for _, pool := range config.Pools {
		if err := pool.Validate(); err != nil {
			return nil, err
		}
	}
	return config, nil
}
