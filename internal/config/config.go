package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is looked up in the working directory when no --config
// flag is given. A missing file is not an error; defaults apply.
const DefaultFileName = "trag.yaml"

type File struct {
	Version int    `yaml:"version" json:"version"`
	DB      string `yaml:"db,omitempty" json:"db,omitempty"`
	Test262 string `yaml:"test262,omitempty" json:"test262,omitempty"`
	Cases   string `yaml:"cases,omitempty" json:"cases,omitempty"`
	Engine  Engine `yaml:"engine,omitempty" json:"engine,omitempty"`
	Run     Run    `yaml:"run,omitempty" json:"run,omitempty"`
	Server  Server `yaml:"server,omitempty" json:"server,omitempty"`
}

type Engine struct {
	Binary       string `yaml:"binary,omitempty" json:"binary,omitempty"`
	Repo         string `yaml:"repo,omitempty" json:"repo,omitempty"`
	BuildCommand string `yaml:"build_command,omitempty" json:"build_command,omitempty"`
}

type Run struct {
	MaxJobs        int `yaml:"max_jobs,omitempty" json:"max_jobs,omitempty"`
	TimeoutSeconds int `yaml:"timeout_seconds,omitempty" json:"timeout_seconds,omitempty"`
}

type Server struct {
	Addr string `yaml:"addr,omitempty" json:"addr,omitempty"`
}

func Default() File {
	return File{
		Version: 1,
		DB:      "trag.db",
		Cases:   "test-cases.txt",
		Run: Run{
			MaxJobs:        10,
			TimeoutSeconds: 10,
		},
		Server: Server{
			Addr: ":8112",
		},
	}
}

func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read config file %q: %w", path, err)
	}

	return Parse(data, path)
}

// LoadOptional behaves like Load but treats a missing file as "use defaults".
func LoadOptional(path string) (File, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

func Parse(data []byte, source string) (File, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parse YAML in %q: %w", source, err)
	}

	if errs := cfg.Validate(); len(errs) > 0 {
		return cfg, fmt.Errorf("invalid config in %q: %s", source, strings.Join(errs, "; "))
	}
	return cfg, nil
}

func (cfg File) Validate() []string {
	var errs []string

	if cfg.Version != 1 {
		errs = append(errs, fmt.Sprintf("unsupported config version %d", cfg.Version))
	}
	if cfg.Run.MaxJobs < 0 {
		errs = append(errs, "run.max_jobs must be >= 0")
	}
	if cfg.Run.TimeoutSeconds < 0 {
		errs = append(errs, "run.timeout_seconds must be >= 0")
	}
	if strings.TrimSpace(cfg.DB) == "" {
		errs = append(errs, "db must not be empty")
	}
	if addr := strings.TrimSpace(cfg.Server.Addr); addr != "" && !strings.Contains(addr, ":") {
		errs = append(errs, fmt.Sprintf("server.addr %q must be host:port or :port", addr))
	}

	return errs
}
