// Package optim sweeps world parameters over headless runs.
package optim

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/particlesim/internal/config"
	"github.com/san-kum/particlesim/internal/experiment"
)

// Setter writes one swept value into a config.
type Setter func(cfg *config.Config, v float64)

var Params = map[string]Setter{
	"gravity":        func(c *config.Config, v float64) { c.Gravity = v },
	"rate":           func(c *config.Config, v float64) { c.Rate = v },
	"rotation_rate":  func(c *config.Config, v float64) { c.RotationRate = v },
	"max_frame_time": func(c *config.Config, v float64) { c.MaxFrameTime = v },
	"particles":      func(c *config.Config, v float64) { c.Particles = int(v) },
	"fps":            func(c *config.Config, v float64) { c.FPS = v },
	"jitter":         func(c *config.Config, v float64) { c.Jitter = v },
}

func ParamNames() []string {
	names := make([]string, 0, len(Params))
	for name := range Params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RunFunc runs one configuration to completion.
type RunFunc func(ctx context.Context, cfg *config.Config) (*experiment.Result, error)

// Runner runs a registered scenario with the default metrics.
func Runner(scenario string) RunFunc {
	return func(ctx context.Context, cfg *config.Config) (*experiment.Result, error) {
		reg := experiment.NewRegistry()
		exp := experiment.New(cfg, scenario)
		if err := exp.Setup(reg, reg.DefaultMetrics(), nil); err != nil {
			return nil, err
		}
		return exp.Run(ctx)
	}
}

// Point is one grid cell. Err is set when that configuration failed.
type Point struct {
	Params map[string]float64
	Value  float64
	Err    error
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("optim: %d params but %d ranges", len(params), len(ranges))
	}
	for i, name := range params {
		if _, ok := Params[name]; !ok {
			return nil, fmt.Errorf("optim: unknown param %q (available: %v)", name, ParamNames())
		}
		if len(ranges[i]) == 0 {
			return nil, fmt.Errorf("optim: empty range for %s", name)
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Search runs every combination in row-major order and reports metricName
// for each. It stops early only when ctx is done.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, run RunFunc, metricName string) ([]Point, error) {
	var points []Point
	err := g.searchRecursive(ctx, 0, make(map[string]float64), base, run, metricName, &points)
	return points, err
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	base *config.Config,
	run RunFunc,
	metricName string,
	points *[]Point,
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if depth == len(g.paramNames) {
		cfg := *base
		for name, v := range current {
			Params[name](&cfg, v)
		}

		p := Point{Params: current, Value: math.NaN()}
		result, err := run(ctx, &cfg)
		switch {
		case err != nil:
			p.Err = err
		default:
			v, ok := result.Metrics[metricName]
			if !ok {
				p.Err = fmt.Errorf("optim: no metric %q", metricName)
			}
			p.Value = v
		}
		*points = append(*points, p)
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		next := make(map[string]float64, len(current)+1)
		for k, v := range current {
			next[k] = v
		}
		next[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, next, base, run, metricName, points); err != nil {
			return err
		}
	}
	return nil
}

// Best returns the successful point with the lowest (or highest) value.
func Best(points []Point, maximize bool) (Point, bool) {
	var best Point
	found := false
	for _, p := range points {
		if p.Err != nil {
			continue
		}
		if !found || (maximize && p.Value > best.Value) || (!maximize && p.Value < best.Value) {
			best, found = p, true
		}
	}
	return best, found
}
