package roles

import (
	"context"
	"fmt"
	"strings"
	"time"

	"devcrew/pkg/agent"
	"devcrew/pkg/config"
	"devcrew/pkg/metrics"
	"devcrew/pkg/parser"
	"devcrew/pkg/state"
	"devcrew/pkg/workspace"
)

// debugDumpName is where an unparseable model response is preserved for
// inspection before the run aborts.
const debugDumpName = "debug_last_response.txt"

// CodeGen generates the file set from the plan, or regenerates rejected files
// from review feedback. Parsed files are written to the workspace and
// returned as a key-wise update, so untouched files survive rework cycles.
type CodeGen struct {
	base
	ws *workspace.Workspace
}

// NewCodeGen creates the code generation role handler.
func NewCodeGen(client agent.LLMClient, cfg config.RoleConfig, ws *workspace.Workspace,
	timeout time.Duration, rec metrics.Recorder) *CodeGen {
	return &CodeGen{
		base: newBase(RoleCodeGen, client, cfg, timeout, rec),
		ws:   ws,
	}
}

// Run implements Handler.
func (c *CodeGen) Run(ctx context.Context, p state.Project) (state.Update, error) {
	targets := parser.ExtractFileList(p.TechStack)

	var prompt strings.Builder
	fmt.Fprintf(&prompt, "Technical specification:\n\n%s\n", p.Requirements)
	fmt.Fprintf(&prompt, "\nImplementation plan:\n\n%s\n", p.TechStack)

	if len(targets) > 0 {
		fmt.Fprintf(&prompt, "\nImplement exactly these files:\n")
		for _, t := range targets {
			fmt.Fprintf(&prompt, "- %s\n", t)
		}
	} else {
		c.logger.Warn("plan contains no parseable file list, generating from plan prose")
		prompt.WriteString("\nThe plan does not name explicit files. Decide the file set yourself and implement every file the project needs.\n")
	}

	if p.QAStatus == state.QARejected && p.QAFeedback != "" {
		fmt.Fprintf(&prompt, "\nA previous attempt was rejected in review. Fix every issue below and resubmit the affected files:\n\n%s\n", p.QAFeedback)
	}

	content, err := c.complete(ctx, codegenSystemPrompt, prompt.String())
	if err != nil {
		return state.Update{}, err
	}

	files, strategy := parser.ParseCodeBlocksDetail(content)
	c.recorder.IncParseStrategy(string(strategy))

	if len(files) == 0 {
		// Preserve the raw response so the failure can be diagnosed.
		c.ws.Save(debugDumpName, content)
		return state.Update{}, fmt.Errorf("no code blocks found in model response (dumped to %s)", debugDumpName)
	}

	results := c.ws.SaveAll(files)
	saved := 0
	for _, ok := range results {
		if ok {
			saved++
		}
	}

	logs := []string{fmt.Sprintf("codegen: parsed %d files via %s strategy, saved %d/%d",
		len(files), strategy, saved, len(files))}
	if missing := missingFiles(targets, files); len(missing) > 0 {
		c.logger.Warn("planned files absent from response: %s", strings.Join(missing, ", "))
		logs = append(logs, fmt.Sprintf("codegen: %d planned files missing: %s",
			len(missing), strings.Join(missing, ", ")))
	}

	return state.Update{
		GeneratedCode: files,
		Logs:          logs,
	}, nil
}

// missingFiles returns planned targets the response did not produce, in plan
// order. Review catches the gap; this makes it visible in the run log first.
func missingFiles(targets []string, files map[string]string) []string {
	var missing []string
	for _, t := range targets {
		if _, ok := files[t]; !ok {
			missing = append(missing, t)
		}
	}
	return missing
}
