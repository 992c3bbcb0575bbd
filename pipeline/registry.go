package pipeline

import (
	"context"
	"fmt"

	"github.com/orayew2002/pic2excel/config"
)

// StageFunc runs one stage of the batch.
type StageFunc func(ctx context.Context) error

// EnabledFunc reports whether a stage should run for cfg.
type EnabledFunc func(cfg *config.Config) bool

// Registry holds named stages in registration order.
type Registry struct {
	stages []entry
}

type entry struct {
	name    string
	enabled EnabledFunc
	run     StageFunc
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends a stage. A nil enabled func means the stage always runs.
func (r *Registry) Register(name string, enabled EnabledFunc, run StageFunc) {
	r.stages = append(r.stages, entry{name: name, enabled: enabled, run: run})
}

// Names lists the registered stages in order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.stages))
	for i, e := range r.stages {
		names[i] = e.name
	}
	return names
}

// Lookup returns the stage registered under name.
func (r *Registry) Lookup(name string) (StageFunc, bool) {
	for _, e := range r.stages {
		if e.name == name {
			return e.run, true
		}
	}
	return nil, false
}

// Run executes every enabled stage in order and returns the names of the
// stages that ran. The first failing stage stops the run.
func (r *Registry) Run(ctx context.Context, cfg *config.Config) ([]string, error) {
	var ran []string

	for _, e := range r.stages {
		if e.enabled != nil && !e.enabled(cfg) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return ran, fmt.Errorf("stage %s: %w", e.name, err)
		}

		ran = append(ran, e.name)
		if err := e.run(ctx); err != nil {
			return ran, fmt.Errorf("stage %s: %w", e.name, err)
		}
	}

	return ran, nil
}
