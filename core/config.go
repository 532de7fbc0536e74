package core

import (
	"net"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	DefaultHost        = "127.0.0.1"
	DefaultPort        = 5000
	DefaultTemplateDir = "templates"
	DefaultStaticDir   = "static"
	DefaultLogFormat   = "text"
)

type Config struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	Debug        bool   `yaml:"debug"`
	TemplateDir  string `yaml:"templateDir"`
	StaticDir    string `yaml:"staticDir"`
	DebugHeaders bool   `yaml:"debugHeaders"`
	LogFormat    string `yaml:"logFormat"`
}

func DefaultConfig() Config {
	return Config{
		Host:        DefaultHost,
		Port:        DefaultPort,
		TemplateDir: DefaultTemplateDir,
		StaticDir:   DefaultStaticDir,
		LogFormat:   DefaultLogFormat,
	}
}

// LoadConfig reads a YAML config file. A missing file yields the defaults and
// fields left empty fall back to theirs.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return DefaultConfig(), err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), err
	}

	return cfg.withDefaults(), nil
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Host == "" {
		c.Host = def.Host
	}
	if c.Port == 0 {
		c.Port = def.Port
	}
	if c.TemplateDir == "" {
		c.TemplateDir = def.TemplateDir
	}
	if c.StaticDir == "" {
		c.StaticDir = def.StaticDir
	}
	if c.LogFormat == "" {
		c.LogFormat = def.LogFormat
	}
	return c
}

func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
