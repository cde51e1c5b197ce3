// Package automation runs scripted sequences of headless runs from YAML.
package automation

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/particlesim/internal/config"
	"github.com/san-kum/particlesim/internal/experiment"
	"github.com/san-kum/particlesim/internal/optim"
)

// Script is a named list of runs executed in order.
type Script struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step configures one run. Zero fields keep the base config; Params uses
// the same names as the sweep command.
type Step struct {
	Scenario string             `yaml:"scenario"`
	Preset   string             `yaml:"preset"`
	Duration float64            `yaml:"duration"`
	Seed     *uint64            `yaml:"seed"`
	Params   map[string]float64 `yaml:"params"`
	Save     bool               `yaml:"save"`
}

// Saver persists a finished run, e.g. a *storage.Store.
type Saver interface {
	Save(result *experiment.Result) (string, error)
}

// Outcome pairs a step's result with the run id it was saved under.
type Outcome struct {
	Result *experiment.Result
	RunID  string
}

func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScript(data)
}

func ParseScript(data []byte) (*Script, error) {
	var s Script
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("automation: %w", err)
	}
	if len(s.Steps) == 0 {
		return nil, fmt.Errorf("automation: script %q has no steps", s.Name)
	}
	return &s, nil
}

// Config resolves a step against base without running it.
func (st Step) Config(base *config.Config) (*config.Config, error) {
	cfg := *base
	if st.Preset != "" {
		p := config.GetPreset(st.Preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset %q", st.Preset)
		}
		cfg = *p
	}
	if st.Duration > 0 {
		cfg.Duration = st.Duration
	}
	if st.Seed != nil {
		cfg.Seed = *st.Seed
	}
	for name, v := range st.Params {
		set, ok := optim.Params[name]
		if !ok {
			return nil, fmt.Errorf("unknown param %q", name)
		}
		set(&cfg, v)
	}
	return &cfg, cfg.Validate()
}

// Run executes every step. saver may be nil when no step saves. On error the
// outcomes of the steps that finished are returned with it.
func Run(ctx context.Context, s *Script, base *config.Config, saver Saver) ([]Outcome, error) {
	out := make([]Outcome, 0, len(s.Steps))
	reg := experiment.NewRegistry()

	for i, st := range s.Steps {
		scenario := st.Scenario
		if scenario == "" {
			scenario = "rain"
		}
		cfg, err := st.Config(base)
		if err != nil {
			return out, fmt.Errorf("step %d: %w", i+1, err)
		}

		slog.Info("script step", "script", s.Name, "step", i+1, "of", len(s.Steps), "scenario", scenario)

		exp := experiment.New(cfg, scenario)
		if err := exp.Setup(reg, reg.DefaultMetrics(), nil); err != nil {
			return out, fmt.Errorf("step %d setup: %w", i+1, err)
		}
		res, err := exp.Run(ctx)
		if err != nil {
			return out, fmt.Errorf("step %d run: %w", i+1, err)
		}

		o := Outcome{Result: res}
		if st.Save {
			if saver == nil {
				return out, fmt.Errorf("step %d: save requested without a store", i+1)
			}
			if o.RunID, err = saver.Save(res); err != nil {
				return out, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		out = append(out, o)
	}
	return out, nil
}
