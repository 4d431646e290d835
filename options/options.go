// Package options resolves runtime settings from defaults, an optional YAML
// file, CHROMARING_* environment variables and command-line flags, in that
// order of precedence.
package options

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/richinsley/chromaring/animation"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "CHROMARING_"

// TuningOptions mirror animation.Tuning in the config file.
type TuningOptions struct {
	TargetTau     float64 `yaml:"target_tau"`
	FollowTau     float64 `yaml:"follow_tau"`
	Parallax      float64 `yaml:"parallax"`
	MaxFrameDelta float64 `yaml:"max_frame_delta"`
}

type Options struct {
	Width       int    `yaml:"width"`
	Height      int    `yaml:"height"`
	Fullscreen  bool   `yaml:"fullscreen"`
	VSync       bool   `yaml:"vsync"`
	Headless    bool   `yaml:"headless"`
	Frames      int    `yaml:"frames"`
	FPS         int    `yaml:"fps"`
	LogLevel    string `yaml:"log_level"`
	Development bool   `yaml:"development"`
	MetricsAddr string `yaml:"metrics_addr"`

	Tuning TuningOptions `yaml:"tuning"`

	// ConfigPath and Watch only come from flags.
	ConfigPath string `yaml:"-"`
	Watch      bool   `yaml:"-"`
	Help       bool   `yaml:"-"`
}

// Defaults returns the built-in settings.
func Defaults() Options {
	t := animation.DefaultTuning()
	return Options{
		Width:    1280,
		Height:   720,
		VSync:    true,
		Frames:   600,
		FPS:      60,
		LogLevel: "info",
		Tuning: TuningOptions{
			TargetTau:     t.TargetTau,
			FollowTau:     t.FollowTau,
			Parallax:      t.Parallax,
			MaxFrameDelta: t.MaxFrameDelta,
		},
	}
}

// AnimationTuning converts the tuning section for the animation state.
func (o Options) AnimationTuning() animation.Tuning {
	return animation.Tuning{
		TargetTau:     o.Tuning.TargetTau,
		FollowTau:     o.Tuning.FollowTau,
		Parallax:      o.Tuning.Parallax,
		MaxFrameDelta: o.Tuning.MaxFrameDelta,
	}
}

// Validate rejects settings the renderer cannot run with.
func (o Options) Validate() error {
	var errs []error
	if o.Width <= 0 || o.Height <= 0 {
		errs = append(errs, fmt.Errorf("invalid size %dx%d", o.Width, o.Height))
	}
	if o.FPS <= 0 {
		errs = append(errs, fmt.Errorf("fps must be positive, got %d", o.FPS))
	}
	if o.Frames < 0 {
		errs = append(errs, fmt.Errorf("frames must not be negative, got %d", o.Frames))
	}
	if err := ValidateTuning(o.Tuning); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ValidateTuning rejects negative time constants and a non-positive frame
// delta cap.
func ValidateTuning(t TuningOptions) error {
	var errs []error
	if t.TargetTau < 0 {
		errs = append(errs, fmt.Errorf("target_tau must not be negative, got %v", t.TargetTau))
	}
	if t.FollowTau < 0 {
		errs = append(errs, fmt.Errorf("follow_tau must not be negative, got %v", t.FollowTau))
	}
	if t.Parallax < 0 {
		errs = append(errs, fmt.Errorf("parallax must not be negative, got %v", t.Parallax))
	}
	if t.MaxFrameDelta <= 0 {
		errs = append(errs, fmt.Errorf("max_frame_delta must be positive, got %v", t.MaxFrameDelta))
	}
	return errors.Join(errs...)
}

// LoadFile overlays the YAML file at path onto o. Keys missing from the file
// keep their current values.
func (o *Options) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, o); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

// setting binds one option to its flag, environment variable and setter.
type setting struct {
	name  string
	usage string
	field func(o *Options) any
}

var settings = []setting{
	{"width", "Width of the window or surface", func(o *Options) any { return &o.Width }},
	{"height", "Height of the window or surface", func(o *Options) any { return &o.Height }},
	{"fullscreen", "Open a fullscreen window on the primary monitor", func(o *Options) any { return &o.Fullscreen }},
	{"vsync", "Synchronize buffer swaps with the display", func(o *Options) any { return &o.VSync }},
	{"headless", "Render to an EGL pbuffer instead of a window", func(o *Options) any { return &o.Headless }},
	{"frames", "Frames to render in headless mode (0 runs until interrupted)", func(o *Options) any { return &o.Frames }},
	{"fps", "Frame rate of the fixed clock in headless mode", func(o *Options) any { return &o.FPS }},
	{"log-level", "Log level: debug, info, warn, error", func(o *Options) any { return &o.LogLevel }},
	{"development", "Human readable console logging", func(o *Options) any { return &o.Development }},
	{"metrics-addr", "Serve Prometheus metrics on this address", func(o *Options) any { return &o.MetricsAddr }},
	{"target-tau", "Time constant of the pointer target filter, in seconds", func(o *Options) any { return &o.Tuning.TargetTau }},
	{"follow-tau", "Time constant of the follow filter, in seconds", func(o *Options) any { return &o.Tuning.FollowTau }},
	{"parallax", "Pointer parallax factor", func(o *Options) any { return &o.Tuning.Parallax }},
	{"max-frame-delta", "Largest time step per frame, in seconds", func(o *Options) any { return &o.Tuning.MaxFrameDelta }},
}

// EnvName returns the environment variable for a flag name.
func EnvName(flagName string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(flagName, "-", "_"))
}

// Parse resolves options from args (without the program name). getenv may be
// nil, in which case os.Getenv is used.
func Parse(args []string, getenv func(string) string, output io.Writer) (Options, error) {
	if getenv == nil {
		getenv = os.Getenv
	}

	// Flags are parsed into their own copy so that only the ones actually
	// given override the file and environment.
	fromFlags := Defaults()
	fs := flag.NewFlagSet("chromaring", flag.ContinueOnError)
	if output != nil {
		fs.SetOutput(output)
	}
	for _, s := range settings {
		switch p := s.field(&fromFlags).(type) {
		case *int:
			fs.IntVar(p, s.name, *p, s.usage)
		case *bool:
			fs.BoolVar(p, s.name, *p, s.usage)
		case *float64:
			fs.Float64Var(p, s.name, *p, s.usage)
		case *string:
			fs.StringVar(p, s.name, *p, s.usage)
		}
	}
	fs.StringVar(&fromFlags.ConfigPath, "config", getenv(EnvName("config")), "YAML config file")
	fs.BoolVar(&fromFlags.Watch, "watch", false, "Reload tuning when the config file changes")
	fs.BoolVar(&fromFlags.Help, "help", false, "Show help message")

	if err := fs.Parse(args); err != nil {
		return Options{}, err
	}

	o := Defaults()
	o.ConfigPath = fromFlags.ConfigPath
	o.Watch = fromFlags.Watch
	o.Help = fromFlags.Help
	if o.Help {
		fs.PrintDefaults()
		return o, nil
	}

	if o.ConfigPath != "" {
		if err := o.LoadFile(o.ConfigPath); err != nil {
			return Options{}, err
		}
	}
	if err := o.applyEnv(getenv); err != nil {
		return Options{}, err
	}

	given := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { given[f.Name] = true })
	for _, s := range settings {
		if !given[s.name] {
			continue
		}
		switch p := s.field(&o).(type) {
		case *int:
			*p = *s.field(&fromFlags).(*int)
		case *bool:
			*p = *s.field(&fromFlags).(*bool)
		case *float64:
			*p = *s.field(&fromFlags).(*float64)
		case *string:
			*p = *s.field(&fromFlags).(*string)
		}
	}

	if o.Watch && o.ConfigPath == "" {
		return Options{}, errors.New("-watch requires -config")
	}
	if err := o.Validate(); err != nil {
		return Options{}, err
	}
	return o, nil
}

func (o *Options) applyEnv(getenv func(string) string) error {
	for _, s := range settings {
		name := EnvName(s.name)
		raw := getenv(name)
		if raw == "" {
			continue
		}
		var err error
		switch p := s.field(o).(type) {
		case *int:
			*p, err = strconv.Atoi(raw)
		case *bool:
			*p, err = strconv.ParseBool(raw)
		case *float64:
			*p, err = strconv.ParseFloat(raw, 64)
		case *string:
			*p = raw
		}
		if err != nil {
			return fmt.Errorf("invalid %s=%q: %w", name, raw, err)
		}
	}
	return nil
}
