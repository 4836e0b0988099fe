package roles

import (
	"context"
	"fmt"
	"strings"
	"time"

	"devcrew/pkg/agent"
	"devcrew/pkg/config"
	"devcrew/pkg/metrics"
	"devcrew/pkg/state"
)

// Requirements turns the raw user request into a technical specification.
type Requirements struct {
	base
}

// NewRequirements creates the requirements role handler.
func NewRequirements(client agent.LLMClient, cfg config.RoleConfig, timeout time.Duration, rec metrics.Recorder) *Requirements {
	return &Requirements{base: newBase(RoleRequirements, client, cfg, timeout, rec)}
}

// Run implements Handler.
func (r *Requirements) Run(ctx context.Context, p state.Project) (state.Update, error) {
	r.logger.Info("analyzing request: %.80s", p.UserRequest)

	content, err := r.complete(ctx, requirementsSystemPrompt,
		fmt.Sprintf("Software request:\n\n%s", p.UserRequest))
	if err != nil {
		return state.Update{}, err
	}

	spec := strings.TrimSpace(content)
	return state.Update{
		Requirements: state.String(spec),
		Logs:         []string{fmt.Sprintf("requirements: produced specification (%d chars)", len(spec))},
	}, nil
}
