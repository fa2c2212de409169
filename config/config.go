// Package config is the run time configuration. Values are read from an
// optional YAML file and can be overridden by command line flags.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/jetsetilly/tileflow/hardware/spec"
	"github.com/jetsetilly/tileflow/resources"
	"gopkg.in/yaml.v3"
)

// the name of the configuration file in the resources directory
const configFile = "config.yaml"

// the valid values for the Display field
const (
	DisplayEbiten   = "EBITEN"
	DisplayTerminal = "TERMINAL"
	DisplayNone     = "NONE"
)

// ErrInvalid is returned by Validate() for an invalid configuration
var ErrInvalid = errors.New("invalid configuration")

// Trace configures the frame trace. An empty path disables the recorder.
type Trace struct {
	JSONL  string `yaml:"jsonl"`
	SQLite string `yaml:"sqlite"`
}

type Config struct {
	// television specification. PAL or NTSC
	Spec string `yaml:"spec"`

	// the frontend. EBITEN, TERMINAL or NONE
	Display string `yaml:"display"`

	// paths to the map and tileset. the built-in demo data is used when the
	// path is empty
	Map     string `yaml:"map"`
	Tileset string `yaml:"tileset"`

	Trace Trace `yaml:"trace"`

	// start running immediately
	Autorun bool `yaml:"autorun"`

	// echo log entries to the terminal as they are created
	Echo bool `yaml:"echo"`
}

// Default returns the configuration used when there is no configuration file
func Default() Config {
	return Config{
		Spec:    "PAL",
		Display: DisplayEbiten,
	}
}

// DefaultPath returns the path to the configuration file in the resources
// directory
func DefaultPath() (string, error) {
	return resources.JoinPath(configFile)
}

// Load the configuration from the file at path. Fields that are not in the
// file have the default value. The default configuration is returned if the
// file does not exist.
func Load(path string) (Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: %w", err)
	}

	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}

	cfg.normalise()
	return cfg, nil
}

// Save the configuration to the file at path
func (cfg Config) Save(path string) error {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func (cfg *Config) normalise() {
	cfg.Spec = strings.ToUpper(strings.TrimSpace(cfg.Spec))
	cfg.Display = strings.ToUpper(strings.TrimSpace(cfg.Display))
}

// Validate the configuration
func (cfg Config) Validate() error {
	if _, err := spec.Lookup(cfg.Spec); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	switch cfg.Display {
	case DisplayEbiten, DisplayTerminal, DisplayNone:
	default:
		return fmt.Errorf("%w: unknown display (%s)", ErrInvalid, cfg.Display)
	}
	return nil
}

func (cfg Config) String() string {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return err.Error()
	}
	return strings.TrimSpace(string(raw))
}

// Flags are the command line flags that can override values in the
// configuration file
type Flags struct {
	flgs *flag.FlagSet

	Path    string
	spec    string
	display string
	mapFile string
	tileset string
	jsonl   string
	sqlite  string
	autorun bool
	echo    bool
}

// Bind adds the configuration flags to the flag set
func Bind(flgs *flag.FlagSet) *Flags {
	f := &Flags{flgs: flgs}
	flgs.StringVar(&f.Path, "config", "", "configuration file. defaults to config.yaml in the resources directory")
	flgs.StringVar(&f.spec, "spec", "PAL", "TV specification: PAL or NTSC")
	flgs.StringVar(&f.display, "display", DisplayEbiten, "display frontend: EBITEN, TERMINAL or NONE")
	flgs.StringVar(&f.mapFile, "map", "", "map file (1000 bytes, optionally zstd compressed with .zst extension)")
	flgs.StringVar(&f.tileset, "tileset", "", "tileset file (2048 bytes, optionally zstd compressed with .zst extension)")
	flgs.StringVar(&f.jsonl, "trace", "", "write a JSONL trace of every frame to the file (zstd compressed)")
	flgs.StringVar(&f.sqlite, "index", "", "write an SQLite index of every frame to the file")
	flgs.BoolVar(&f.autorun, "run", false, "start running immediately")
	flgs.BoolVar(&f.echo, "echo", false, "echo log entries to the terminal")
	return f
}

// Apply the flags that were set on the command line to the configuration
func (f *Flags) Apply(cfg *Config) {
	f.flgs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "spec":
			cfg.Spec = f.spec
		case "display":
			cfg.Display = f.display
		case "map":
			cfg.Map = f.mapFile
		case "tileset":
			cfg.Tileset = f.tileset
		case "trace":
			cfg.Trace.JSONL = f.jsonl
		case "index":
			cfg.Trace.SQLite = f.sqlite
		case "run":
			cfg.Autorun = f.autorun
		case "echo":
			cfg.Echo = f.echo
		}
	})
	cfg.normalise()
}

// Resolve loads the configuration file named by the -config flag, or the
// default configuration file, and applies the command line flags to it
func (f *Flags) Resolve() (Config, error) {
	pth := f.Path
	if pth == "" {
		var err error
		pth, err = DefaultPath()
		if err != nil {
			return Default(), fmt.Errorf("config: %w", err)
		}
	}

	cfg, err := Load(pth)
	if err != nil {
		return cfg, err
	}
	f.Apply(&cfg)

	return cfg, cfg.Validate()
}
