// Package workflow sequences the role handlers through a small state
// machine. The only branch point is the review verdict: approval or iteration
// exhaustion terminates, rejection loops back to code generation.
package workflow

import (
	"context"
	"fmt"
	"time"

	"devcrew/pkg/logx"
	"devcrew/pkg/metrics"
	"devcrew/pkg/roles"
	"devcrew/pkg/state"
)

// State identifies a pipeline stage.
type State string

// Pipeline states.
const (
	StateRequirements State = "REQUIREMENTS"
	StateArchitecture State = "ARCHITECTURE"
	StateCodeGen      State = "CODEGEN"
	StateReview       State = "REVIEW"
	StateDone         State = "DONE"
)

// validTransitions defines the allowed state transitions.
//
//nolint:gochecknoglobals // transition table is immutable
var validTransitions = map[State][]State{
	StateRequirements: {StateArchitecture},
	StateArchitecture: {StateCodeGen},
	StateCodeGen:      {StateReview},
	StateReview:       {StateCodeGen, StateDone},
	StateDone:         {},
}

// IsValidTransition reports whether from -> to is an allowed edge.
func IsValidTransition(from, to State) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Result is the terminal outcome of a pipeline run.
type Result struct {
	Project state.Project
	Outcome state.Outcome
}

// Engine drives a project through the pipeline.
type Engine struct {
	requirements  roles.Handler
	architect     roles.Handler
	codegen       roles.Handler
	review        roles.Handler
	maxIterations int
	recorder      metrics.Recorder
	logger        *logx.Logger
}

// NewEngine creates a pipeline engine over the four role handlers.
func NewEngine(requirements, architect, codegen, review roles.Handler, maxIterations int, rec metrics.Recorder) *Engine {
	if rec == nil {
		rec = metrics.Nop()
	}
	return &Engine{
		requirements:  requirements,
		architect:     architect,
		codegen:       codegen,
		review:        review,
		maxIterations: maxIterations,
		recorder:      rec,
		logger:        logx.NewLogger("workflow"),
	}
}

// Run executes the pipeline to a terminal state. Any role error aborts the
// run; partial state is not returned because no terminal verdict exists.
func (e *Engine) Run(ctx context.Context, userRequest string) (Result, error) {
	start := time.Now()
	p := state.New(userRequest)
	current := StateRequirements

	for current != StateDone {
		if err := ctx.Err(); err != nil {
			return Result{}, fmt.Errorf("pipeline canceled in %s: %w", current, err)
		}

		handler := e.handlerFor(current)
		e.logger.Info("entering %s (iteration %d)", current, p.IterationCount)

		update, err := handler.Run(ctx, p)
		if err != nil {
			return Result{}, fmt.Errorf("%s stage failed: %w", current, err)
		}
		p = state.Merge(p, update)

		next := e.nextState(current, p)
		if !IsValidTransition(current, next) {
			return Result{}, fmt.Errorf("invalid transition %s -> %s", current, next)
		}
		current = next
	}

	outcome := state.OutcomeExhausted
	if p.QAStatus == state.QAApproved {
		outcome = state.OutcomeApproved
	}
	e.recorder.ObserveRun(string(outcome), p.IterationCount, time.Since(start))
	e.logger.Info("pipeline finished: %s after %d iterations", outcome, p.IterationCount)

	return Result{Project: p, Outcome: outcome}, nil
}

// handlerFor maps a non-terminal state to its role handler.
func (e *Engine) handlerFor(s State) roles.Handler {
	switch s {
	case StateRequirements:
		return e.requirements
	case StateArchitecture:
		return e.architect
	case StateCodeGen:
		return e.codegen
	default:
		return e.review
	}
}

// nextState computes the successor state. Review is the only conditional
// edge: approval terminates, exhaustion terminates, rejection reworks.
func (e *Engine) nextState(current State, p state.Project) State {
	switch current {
	case StateRequirements:
		return StateArchitecture
	case StateArchitecture:
		return StateCodeGen
	case StateCodeGen:
		return StateReview
	case StateReview:
		if p.QAStatus == state.QAApproved {
			return StateDone
		}
		if p.IterationCount >= e.maxIterations {
			e.logger.Warn("iteration ceiling %d reached without approval", e.maxIterations)
			return StateDone
		}
		return StateCodeGen
	default:
		return StateDone
	}
}
