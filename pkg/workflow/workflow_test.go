package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devcrew/pkg/state"
)

// stubRole returns scripted updates and records how often it ran.
type stubRole struct {
	name string
	runs int
	fn   func(run int, p state.Project) (state.Update, error)
}

func (s *stubRole) Name() string { return s.name }

func (s *stubRole) Run(_ context.Context, p state.Project) (state.Update, error) {
	s.runs++
	return s.fn(s.runs, p)
}

func passThrough(name string) *stubRole {
	return &stubRole{name: name, fn: func(_ int, _ state.Project) (state.Update, error) {
		return state.Update{Logs: []string{name + " ran"}}, nil
	}}
}

func reviewer(verdict func(run int) state.QAStatus) *stubRole {
	return &stubRole{name: "review", fn: func(run int, p state.Project) (state.Update, error) {
		return state.Update{
			QAStatus:       state.Status(verdict(run)),
			IterationCount: state.Int(p.IterationCount + 1),
		}, nil
	}}
}

func TestTransitionTable(t *testing.T) {
	assert.True(t, IsValidTransition(StateRequirements, StateArchitecture))
	assert.True(t, IsValidTransition(StateReview, StateCodeGen))
	assert.True(t, IsValidTransition(StateReview, StateDone))
	assert.False(t, IsValidTransition(StateRequirements, StateCodeGen))
	assert.False(t, IsValidTransition(StateDone, StateRequirements))
	assert.False(t, IsValidTransition(StateCodeGen, StateDone))
}

func TestRunApprovedFirstIteration(t *testing.T) {
	codegen := passThrough("codegen")
	eng := NewEngine(
		passThrough("requirements"),
		passThrough("architect"),
		codegen,
		reviewer(func(_ int) state.QAStatus { return state.QAApproved }),
		10, nil)

	res, err := eng.Run(context.Background(), "build a thing")
	require.NoError(t, err)
	assert.Equal(t, state.OutcomeApproved, res.Outcome)
	assert.Equal(t, 1, res.Project.IterationCount)
	assert.Equal(t, 1, codegen.runs)
}

func TestRunRejectThenApprove(t *testing.T) {
	codegen := passThrough("codegen")
	eng := NewEngine(
		passThrough("requirements"),
		passThrough("architect"),
		codegen,
		reviewer(func(run int) state.QAStatus {
			if run == 1 {
				return state.QARejected
			}
			return state.QAApproved
		}),
		10, nil)

	res, err := eng.Run(context.Background(), "build a thing")
	require.NoError(t, err)
	assert.Equal(t, state.OutcomeApproved, res.Outcome)
	assert.Equal(t, 2, res.Project.IterationCount)
	assert.Equal(t, 2, codegen.runs, "rejection must loop back to codegen exactly once")
}

func TestRunExhaustsIterationCeiling(t *testing.T) {
	const maxIterations = 4
	codegen := passThrough("codegen")
	review := reviewer(func(_ int) state.QAStatus { return state.QARejected })
	eng := NewEngine(passThrough("requirements"), passThrough("architect"), codegen, review, maxIterations, nil)

	res, err := eng.Run(context.Background(), "build a thing")
	require.NoError(t, err)
	assert.Equal(t, state.OutcomeExhausted, res.Outcome)
	assert.Equal(t, maxIterations, res.Project.IterationCount)
	assert.Equal(t, maxIterations, codegen.runs, "codegen runs exactly once per review cycle")
	assert.Equal(t, maxIterations, review.runs)
}

func TestRunAbortsOnRoleError(t *testing.T) {
	broken := &stubRole{name: "architect", fn: func(_ int, _ state.Project) (state.Update, error) {
		return state.Update{}, errors.New("model unavailable")
	}}
	eng := NewEngine(passThrough("requirements"), broken, passThrough("codegen"),
		reviewer(func(_ int) state.QAStatus { return state.QAApproved }), 10, nil)

	_, err := eng.Run(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ARCHITECTURE")
}

func TestRunHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	eng := NewEngine(passThrough("requirements"), passThrough("architect"), passThrough("codegen"),
		reviewer(func(_ int) state.QAStatus { return state.QAApproved }), 10, nil)

	_, err := eng.Run(ctx, "x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRunAccumulatesLogs(t *testing.T) {
	eng := NewEngine(passThrough("requirements"), passThrough("architect"), passThrough("codegen"),
		reviewer(func(_ int) state.QAStatus { return state.QAApproved }), 10, nil)

	res, err := eng.Run(context.Background(), "x")
	require.NoError(t, err)
	assert.Contains(t, res.Project.Logs, "requirements ran")
	assert.Contains(t, res.Project.Logs, "codegen ran")
}
