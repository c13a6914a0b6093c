package pipeline

import (
	"context"
	"log/slog"
)

// Step is one stage of a site check.
//
// Design decision: steps record failures as findings and return nil. An
// error return is reserved for conditions that make the whole check
// meaningless, such as cancellation.
type Step interface {
	// Do executes the step against the shared assessment.
	Do(ctx context.Context, a *Assessment) error

	// Name returns the step's name for logging.
	Name() string
}

// Pipeline executes steps in the order they were added.
type Pipeline struct {
	steps  []Step
	logger *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates an empty Pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddStep appends a step.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends several steps.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs the steps until one fails, the assessment is halted or the
// context is done.
//
// Design decision: cancellation is checked between steps only. Every
// request inside a step carries its own timeout, so a step never blocks
// beyond its budget.
func (p *Pipeline) Execute(ctx context.Context, a *Assessment) error {
	for _, step := range p.steps {
		if a.Halted {
			p.logger.Debug("pipeline halted", "before", step.Name(), "url", a.BaseURL)
			return nil
		}

		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled", "step", step.Name(), "reason", ctx.Err())
			return ctx.Err()
		default:
		}

		before := a.Level
		if err := step.Do(ctx, a); err != nil {
			p.logger.Error("step failed", "step", step.Name(), "url", a.BaseURL, "error", err)
			return err
		}

		p.logger.Debug("step completed",
			"step", step.Name(),
			"url", a.BaseURL,
			"findings", len(a.Findings),
			"level_before", before.String(),
			"level", a.Level.String(),
		)
	}
	return nil
}

// StepCount returns the number of steps.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the step names in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
