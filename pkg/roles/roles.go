// Package roles implements the four pipeline role handlers. Each handler
// turns the current project state into a sparse update; the workflow engine
// owns merging and sequencing. Collaborator failures that survive retry
// propagate as errors and abort the run; recoverable conditions degrade to an
// explicit empty update plus a log entry.
package roles

import (
	"context"
	"fmt"
	"time"

	"devcrew/pkg/agent"
	"devcrew/pkg/agent/llmerrors"
	"devcrew/pkg/config"
	"devcrew/pkg/logx"
	"devcrew/pkg/metrics"
	"devcrew/pkg/state"
)

// Role names, used for logging and metrics labels.
const (
	RoleRequirements = "requirements"
	RoleArchitect    = "architect"
	RoleCodeGen      = "codegen"
	RoleReview       = "review"
)

// Handler is a single pipeline role.
type Handler interface {
	// Name returns the role's stable identifier.
	Name() string
	// Run executes the role against the current project state. The returned
	// update is sparse; the caller merges it. A non-nil error aborts the run.
	Run(ctx context.Context, p state.Project) (state.Update, error)
}

// base carries the collaborators every model-backed role shares.
type base struct {
	name     string
	client   agent.LLMClient
	cfg      config.RoleConfig
	timeout  time.Duration
	recorder metrics.Recorder
	logger   *logx.Logger
}

func newBase(name string, client agent.LLMClient, cfg config.RoleConfig, timeout time.Duration, rec metrics.Recorder) base {
	if rec == nil {
		rec = metrics.Nop()
	}
	return base{
		name:     name,
		client:   client,
		cfg:      cfg,
		timeout:  timeout,
		recorder: rec,
		logger:   logx.NewLogger(name),
	}
}

// Name implements Handler.
func (b *base) Name() string { return b.name }

// complete invokes the model with the role's configured parameters, recording
// the call outcome. The request timeout bounds a single invocation including
// any retries below it.
func (b *base) complete(ctx context.Context, system, user string) (string, error) {
	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := b.client.Complete(ctx, agent.CompletionRequest{
		Messages: []agent.CompletionMessage{
			agent.NewSystemMessage(system),
			agent.NewUserMessage(user),
		},
		Temperature: b.cfg.Temperature,
		MaxTokens:   b.cfg.MaxTokens,
	})

	errorType := ""
	if err != nil {
		errorType = llmerrors.TypeOf(err).String()
	}
	b.recorder.ObserveModelCall(b.name, b.cfg.Model, err == nil, errorType, time.Since(start))

	if err != nil {
		return "", fmt.Errorf("%s model call failed: %w", b.name, err)
	}
	return resp.Content, nil
}
