package skill

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Registry holds skills in registration order and dispatches messages to
// the ones that match.
//
// Registration happens once at startup; Dispatch is read-only afterwards,
// so no locking is needed.
type Registry struct {
	skills []Skill
	logger *slog.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{logger: logger}
}

// Register appends a skill. Registration order is dispatch order.
func (r *Registry) Register(s Skill) {
	r.skills = append(r.skills, s)
	r.logger.Debug("registered skill", "name", s.Name())
}

// Describe lists the registered skills.
func (r *Registry) Describe() []Info {
	infos := make([]Info, 0, len(r.skills))
	for _, s := range r.skills {
		infos = append(infos, Info{Name: s.Name(), Description: s.Description()})
	}
	return infos
}

// Dispatch runs every skill whose CanHandle matches, in registration
// order. An Execute error or panic becomes a failed Result; it never
// propagates. No matching skills yields an empty slice.
func (r *Registry) Dispatch(ctx context.Context, message string) []Result {
	results := make([]Result, 0, len(r.skills))

	for _, s := range r.skills {
		if !s.CanHandle(message) {
			continue
		}

		start := time.Now()
		data, err := r.execute(ctx, s, message)
		if err != nil {
			r.logger.Warn("skill execution failed",
				"skill", s.Name(),
				"error", err,
				"duration", time.Since(start),
			)
			results = append(results, Result{
				Skill:   s.Name(),
				Success: false,
				Error:   err.Error(),
			})
			continue
		}

		r.logger.Debug("skill executed",
			"skill", s.Name(),
			"duration", time.Since(start),
		)
		results = append(results, Result{
			Skill:   s.Name(),
			Success: true,
			Data:    data,
		})
	}

	return results
}

// execute runs a single skill, converting panics into errors.
func (r *Registry) execute(ctx context.Context, s Skill, message string) (data map[string]any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("skill panic: %v", rec)
		}
	}()
	return s.Execute(ctx, message)
}
