package roles

import (
	"context"
	"fmt"
	"strings"
	"time"

	"devcrew/pkg/agent"
	"devcrew/pkg/config"
	"devcrew/pkg/metrics"
	"devcrew/pkg/retrieval"
	"devcrew/pkg/state"
	"devcrew/pkg/utils"
)

// contextTokenBudget caps the example section of the architect prompt so
// retrieval hits can never crowd out the specification itself.
const contextTokenBudget = 2000

// Searcher is the slice of the retrieval store the architect consumes.
type Searcher interface {
	Search(ctx context.Context, query string) ([]retrieval.Result, error)
}

// Architect turns a specification into an implementation plan ending in a
// parseable file list. Prior approved work from the retrieval store seeds the
// plan when similar enough; retrieval failure degrades to an unseeded plan.
type Architect struct {
	base
	store   Searcher
	retCfg  config.RetrievalConfig
	counter *utils.TokenCounter
}

// NewArchitect creates the architect role handler. store may be nil, in which
// case planning runs without examples.
func NewArchitect(client agent.LLMClient, cfg config.RoleConfig, retCfg config.RetrievalConfig,
	store Searcher, timeout time.Duration, rec metrics.Recorder) *Architect {
	return &Architect{
		base:    newBase(RoleArchitect, client, cfg, timeout, rec),
		store:   store,
		retCfg:  retCfg,
		counter: utils.DefaultTokenCounter(),
	}
}

// Run implements Handler.
func (a *Architect) Run(ctx context.Context, p state.Project) (state.Update, error) {
	var logs []string

	examples, exampleLog := a.exampleContext(ctx, p)
	if exampleLog != "" {
		logs = append(logs, exampleLog)
	}

	var prompt strings.Builder
	fmt.Fprintf(&prompt, "Technical specification:\n\n%s\n", p.Requirements)
	if examples != "" {
		fmt.Fprintf(&prompt, "\nSimilar past projects for reference (adapt, do not copy blindly):\n\n%s\n", examples)
	}

	content, err := a.complete(ctx, architectSystemPrompt, prompt.String())
	if err != nil {
		return state.Update{}, err
	}

	plan := strings.TrimSpace(content)
	logs = append(logs, fmt.Sprintf("architect: produced plan (%d chars)", len(plan)))
	return state.Update{
		TechStack: state.String(plan),
		Logs:      logs,
	}, nil
}

// exampleContext queries the retrieval store and assembles a bounded example
// section: at most MaxExamples hits, each preview truncated to PreviewChars,
// the whole section truncated to the token budget.
func (a *Architect) exampleContext(ctx context.Context, p state.Project) (section, logEntry string) {
	if a.store == nil {
		return "", ""
	}

	query := p.UserRequest
	if p.Requirements != "" {
		query += "\n" + p.Requirements
	}

	results, err := a.store.Search(ctx, query)
	if err != nil {
		a.logger.Warn("retrieval query failed, planning without examples: %v", err)
		return "", "architect: retrieval unavailable, planned without examples"
	}
	if len(results) == 0 {
		return "", ""
	}

	maxExamples := a.retCfg.MaxExamples
	if maxExamples > 0 && len(results) > maxExamples {
		results = results[:maxExamples]
	}

	var b strings.Builder
	for i, r := range results {
		preview := r.Content
		if a.retCfg.PreviewChars > 0 && len(preview) > a.retCfg.PreviewChars {
			preview = preview[:a.retCfg.PreviewChars]
		}
		fmt.Fprintf(&b, "Example %d (%s from project %s):\n%s\n\n", i+1, r.Path, r.Project, preview)
	}

	section = a.counter.Truncate(b.String(), contextTokenBudget)
	return section, fmt.Sprintf("architect: seeded plan with %d retrieval examples", len(results))
}
