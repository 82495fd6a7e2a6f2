/*
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     https://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package config

import (
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"

	"jinr.ru/greenlab/go-pim/pkg/layout"
)

type LayoutConfig struct {
	Ports          int `yaml:"ports"`
	PortsPerModule int `yaml:"portsPerModule"`
	BusBase        int `yaml:"busBase"`
}

type GatewayConfig struct {
	// Kind is one of mmio, sim
	Kind       string `yaml:"kind"`
	Resource   string `yaml:"resource,omitempty"`
	Size       int    `yaml:"size,omitempty"`
	SimModules int    `yaml:"simModules,omitempty"`
}

type ApiConfig struct {
	IP   string `yaml:"ip"`
	Port int    `yaml:"port"`
}

type PollConfig struct {
	GranularityMs int `yaml:"granularityMs"`
}

// PublishConfig enables publishing of change events to a redis channel
// when RedisAddress is set
type PublishConfig struct {
	RedisAddress string `yaml:"redisAddress,omitempty"`
	Channel      string `yaml:"channel"`
}

type Config struct {
	LogLevel string         `yaml:"logLevel"`
	DBPath   string         `yaml:"dbPath"`
	Layout   *LayoutConfig  `yaml:"layout"`
	Gateway  *GatewayConfig `yaml:"gateway"`
	Api      *ApiConfig     `yaml:"api"`
	Poll     *PollConfig    `yaml:"poll"`
	Publish  *PublishConfig `yaml:"publish"`
	filepath string
}

func (c *Config) Path() string {
	return c.filepath
}

func (c *Config) Persist(overwrite bool) error {
	if _, err := os.Stat(c.filepath); err == nil && !overwrite {
		return ErrConfigFileExists{Path: c.filepath}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	dir := filepath.Dir(c.filepath)
	err = os.MkdirAll(dir, 0755)
	if err != nil {
		return err
	}

	return ioutil.WriteFile(c.filepath, data, 0644)
}

// LoadConfig reads the YAML file. Sections missing in the file keep their current values,
// sections set to null get the defaults back.
func (c *Config) LoadConfig() error {
	data, err := ioutil.ReadFile(c.filepath)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return err
	}
	c.fillDefaults()
	return nil
}

func (c *Config) fillDefaults() {
	defaults := NewConfig(c.filepath)
	if c.Layout == nil {
		c.Layout = defaults.Layout
	}
	if c.Gateway == nil {
		c.Gateway = defaults.Gateway
	}
	if c.Api == nil {
		c.Api = defaults.Api
	}
	if c.Poll == nil {
		c.Poll = defaults.Poll
	}
	if c.Publish == nil {
		c.Publish = defaults.Publish
	}
}

// Load reads the config file if it exists, then the .env file next to it,
// then applies GO_PIM_* environment overrides
func (c *Config) Load() error {
	if err := c.LoadConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	envFile := filepath.Join(filepath.Dir(c.filepath), EnvFile)
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return err
		}
	}
	return c.loadEnv()
}

func (c *Config) loadEnv() error {
	c.fillDefaults()
	str := func(name string, dst *string) {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			*dst = v
		}
	}
	num := func(name string, dst *int) error {
		v, ok := os.LookupEnv(EnvPrefix + name)
		if !ok {
			return nil
		}
		n, err := strconv.ParseInt(v, 0, 64)
		if err != nil {
			return ErrBadEnv{Name: EnvPrefix + name, Value: v}
		}
		*dst = int(n)
		return nil
	}

	str("LOG_LEVEL", &c.LogLevel)
	str("DB_PATH", &c.DBPath)
	str("GATEWAY_KIND", &c.Gateway.Kind)
	str("GATEWAY_RESOURCE", &c.Gateway.Resource)
	str("API_IP", &c.Api.IP)
	str("PUBLISH_REDIS_ADDRESS", &c.Publish.RedisAddress)
	str("PUBLISH_CHANNEL", &c.Publish.Channel)
	for name, dst := range map[string]*int{
		"PORTS":            &c.Layout.Ports,
		"PORTS_PER_MODULE": &c.Layout.PortsPerModule,
		"BUS_BASE":         &c.Layout.BusBase,
		"GATEWAY_SIZE":     &c.Gateway.Size,
		"API_PORT":         &c.Api.Port,
		"POLL_GRANULARITY": &c.Poll.GranularityMs,
	} {
		if err := num(name, dst); err != nil {
			return err
		}
	}
	return nil
}

// PortLayout builds the validated port layout
func (c *Config) PortLayout() (*layout.Layout, error) {
	return layout.New(c.Layout.Ports, c.Layout.PortsPerModule, c.Layout.BusBase)
}

func (c *Config) ApiAddress() string {
	return fmt.Sprintf("%s:%d", c.Api.IP, c.Api.Port)
}

func (c *Config) Granularity() time.Duration {
	if c.Poll.GranularityMs <= 0 {
		return DefaultPollGranularityMs * time.Millisecond
	}
	return time.Duration(c.Poll.GranularityMs) * time.Millisecond
}

func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return filepath.Join(home, ConfigDir, ConfigFile)
}

// NewConfig returns the default configuration bound to the given file path
func NewConfig(path string) *Config {
	return &Config{
		LogLevel: DefaultLogLevel,
		DBPath:   filepath.Join(filepath.Dir(path), DBFile),
		Layout: &LayoutConfig{
			Ports:          DefaultPorts,
			PortsPerModule: DefaultPortsPerModule,
			BusBase:        DefaultBusBase,
		},
		Gateway: &GatewayConfig{
			Kind:       DefaultGatewayKind,
			Resource:   DefaultGatewayResource,
			Size:       DefaultGatewaySize,
			SimModules: DefaultSimModules,
		},
		Api: &ApiConfig{
			IP:   DefaultApiIP,
			Port: DefaultApiPort,
		},
		Poll: &PollConfig{
			GranularityMs: DefaultPollGranularityMs,
		},
		Publish: &PublishConfig{
			Channel: DefaultPublishChannel,
		},
		filepath: path,
	}
}

func NewDefaultConfig() *Config {
	return NewConfig(DefaultConfigPath())
}
