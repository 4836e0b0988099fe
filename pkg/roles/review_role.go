package roles

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"devcrew/pkg/agent"
	"devcrew/pkg/config"
	"devcrew/pkg/metrics"
	"devcrew/pkg/review"
	"devcrew/pkg/state"
)

// Review gates the generated file set in two stages: deterministic static
// checks first, then a model verdict. Either stage rejecting sends the run
// back to codegen with feedback. The iteration counter advances by exactly
// one per Run regardless of verdict.
type Review struct {
	base
}

// NewReview creates the review role handler.
func NewReview(client agent.LLMClient, cfg config.RoleConfig, timeout time.Duration, rec metrics.Recorder) *Review {
	return &Review{base: newBase(RoleReview, client, cfg, timeout, rec)}
}

// Run implements Handler.
func (r *Review) Run(ctx context.Context, p state.Project) (state.Update, error) {
	iteration := p.IterationCount + 1

	if len(p.GeneratedCode) == 0 {
		r.recorder.IncReviewRejection("static")
		return r.reject(iteration, "no files were generated"), nil
	}

	// Stage one: structural checks, no tokens spent.
	if findings := review.CheckFiles(p.GeneratedCode); len(findings) > 0 {
		r.recorder.IncReviewRejection("static")
		var b strings.Builder
		b.WriteString("Static checks failed:\n")
		for _, f := range findings {
			fmt.Fprintf(&b, "- %s\n", f)
		}
		r.logger.Info("iteration %d rejected by static checks (%d findings)", iteration, len(findings))
		return r.reject(iteration, b.String()), nil
	}

	// Stage two: model verdict over the banner-concatenated file set.
	content, err := r.complete(ctx, reviewSystemPrompt, r.submission(p))
	if err != nil {
		return state.Update{}, err
	}

	if approved(content) {
		r.logger.Info("iteration %d approved", iteration)
		return state.Update{
			QAStatus:       state.Status(state.QAApproved),
			QAFeedback:     state.String(""),
			IterationCount: state.Int(iteration),
			Logs:           []string{fmt.Sprintf("review: iteration %d approved", iteration)},
		}, nil
	}

	r.recorder.IncReviewRejection("model")
	r.logger.Info("iteration %d rejected by reviewer", iteration)
	return r.reject(iteration, strings.TrimSpace(content)), nil
}

// submission renders the file set with per-file banners, in stable order.
func (r *Review) submission(p state.Project) string {
	names := make([]string, 0, len(p.GeneratedCode))
	for name := range p.GeneratedCode {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	fmt.Fprintf(&b, "Technical specification:\n\n%s\n\nSubmitted files:\n", p.Requirements)
	for _, name := range names {
		fmt.Fprintf(&b, "\n===== %s =====\n%s\n", name, p.GeneratedCode[name])
	}
	return b.String()
}

// reject builds the standard rejection update.
func (r *Review) reject(iteration int, feedback string) state.Update {
	return state.Update{
		QAStatus:       state.Status(state.QARejected),
		QAFeedback:     state.String(feedback),
		IterationCount: state.Int(iteration),
		Logs:           []string{fmt.Sprintf("review: iteration %d rejected", iteration)},
	}
}

// approved parses the verdict from the leading or trailing token of the
// response. Reviewers sometimes preface or append prose; either position
// counts, and anything else is a rejection.
func approved(response string) bool {
	fields := strings.Fields(strings.TrimSpace(response))
	if len(fields) == 0 {
		return false
	}
	clean := func(s string) string {
		return strings.Trim(strings.ToUpper(s), ".,:;!*`")
	}
	// The leading token wins when it is an explicit verdict; otherwise the
	// trailing token decides.
	if v := clean(fields[0]); v == "APPROVED" || v == "REJECTED" {
		return v == "APPROVED"
	}
	return clean(fields[len(fields)-1]) == "APPROVED"
}
