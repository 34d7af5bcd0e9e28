// Package config loads the optional instrumentation profile file. The
// profile provides defaults beneath command-line flags: the default
// instrumentation mode, the runtime variant, and overrides for the runtime
// symbol paths referenced by generated code.
package config

import (
	"fmt"
	"os"

	"github.com/probekit/go-landmark-instrumentation/internal/codegen"
	"gopkg.in/yaml.v3"
)

// Instrumentation modes accepted by the profile and the --mode flag.
const (
	ModeAuto = "auto"
	ModeOff  = "off"
)

// Profile is the YAML instrumentation profile.
type Profile struct {
	Mode    string  `yaml:"mode"`
	Threads bool    `yaml:"threads"`
	Runtime Runtime `yaml:"runtime"`
}

// Runtime overrides the probe runtime symbols referenced by generated code.
// Empty fields keep the variant's defaults.
type Runtime struct {
	Module   string `yaml:"module"`
	Enter    string `yaml:"enter"`
	Exit     string `yaml:"exit"`
	Register string `yaml:"register"`
}

// Load reads and validates a profile file.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading profile: %w", err)
	}
	p := &Profile{}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("parsing profile %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("profile %s: %w", path, err)
	}
	return p, nil
}

// Validate checks the profile's field values.
func (p *Profile) Validate() error {
	switch p.Mode {
	case "", ModeAuto, ModeOff:
	default:
		return fmt.Errorf("mode must be %q or %q, got %q", ModeAuto, ModeOff, p.Mode)
	}
	return nil
}

// SelectRuntime resolves the probe runtime the profile describes: the
// threaded or plain variant with any symbol overrides applied.
func (p *Profile) SelectRuntime() codegen.Runtime {
	r := codegen.DefaultRuntime()
	if p.Threads {
		r = codegen.ThreadedRuntime()
	}
	return p.Runtime.Apply(r)
}

// Apply overlays the non-empty symbol overrides onto a runtime.
func (o Runtime) Apply(r codegen.Runtime) codegen.Runtime {
	if o.Module != "" {
		r.Module = o.Module
	}
	if o.Enter != "" {
		r.Enter = o.Enter
	}
	if o.Exit != "" {
		r.Exit = o.Exit
	}
	if o.Register != "" {
		r.Register = o.Register
	}
	return r
}

// AutoByDefault reports whether the profile requests auto mode.
func (p *Profile) AutoByDefault() bool {
	return p.Mode == ModeAuto
}
