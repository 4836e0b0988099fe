// Package session drives one complete request through the pipeline: clear
// the workspace, run the workflow to a terminal state, archive the output,
// and on approval feed the result back into the retrieval store so future
// runs can learn from it.
package session

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"devcrew/pkg/logx"
	"devcrew/pkg/state"
	"devcrew/pkg/utils"
	"devcrew/pkg/workflow"
)

// Runner is the slice of the workflow engine the session consumes.
type Runner interface {
	Run(ctx context.Context, userRequest string) (workflow.Result, error)
}

// Archiver is the slice of the workspace the session consumes.
type Archiver interface {
	Clear() error
	Archive(dest string) error
}

// Ingester is the slice of the retrieval store the session consumes.
type Ingester interface {
	AddProject(ctx context.Context, project string, files map[string]string) (int, error)
}

// Summary describes a finished session.
type Summary struct {
	RunID       string
	ProjectName string
	Outcome     state.Outcome
	Iterations  int
	Files       []string
	ArchivePath string
	Duration    time.Duration
	Logs        []string
}

// FileCount returns the number of generated files.
func (s Summary) FileCount() int { return len(s.Files) }

// Session ties the workspace lifecycle, workflow engine, and retrieval
// ingest together for a single request.
type Session struct {
	engine     Runner
	workspace  Archiver
	store      Ingester
	archiveDir string
	logger     *logx.Logger
}

// New creates a session driver. store may be nil to disable ingest.
func New(engine Runner, ws Archiver, store Ingester, archiveDir string) *Session {
	return &Session{
		engine:     engine,
		workspace:  ws,
		store:      store,
		archiveDir: archiveDir,
		logger:     logx.NewLogger("session"),
	}
}

// Run executes one request end to end. The workspace is cleared up front so
// stale files from a prior run can never leak into the archive. The archive
// is produced for both terminal outcomes; ingest happens only on approval.
func (s *Session) Run(ctx context.Context, userRequest string) (Summary, error) {
	runID := uuid.NewString()
	start := time.Now()
	s.logger.Info("run %s started: %.80s", runID, userRequest)

	if err := s.workspace.Clear(); err != nil {
		return Summary{}, fmt.Errorf("failed to clear workspace: %w", err)
	}

	result, err := s.engine.Run(ctx, userRequest)
	if err != nil {
		return Summary{}, fmt.Errorf("run %s failed: %w", runID, err)
	}

	name := projectName(userRequest)
	archivePath := filepath.Join(s.archiveDir, fmt.Sprintf("%s_%s.zip", name, runID[:8]))
	if err := s.workspace.Archive(archivePath); err != nil {
		return Summary{}, fmt.Errorf("run %s produced output but archiving failed: %w", runID, err)
	}

	if result.Outcome == state.OutcomeApproved && s.store != nil {
		n, err := s.store.AddProject(ctx, name, result.Project.GeneratedCode)
		if err != nil {
			// The run already succeeded; a failed ingest only costs future
			// retrieval quality.
			s.logger.Warn("run %s: ingest failed: %v", runID, err)
		} else {
			s.logger.Info("run %s: ingested %d chunks as %s", runID, n, name)
		}
	}

	files := make([]string, 0, len(result.Project.GeneratedCode))
	for f := range result.Project.GeneratedCode {
		files = append(files, f)
	}
	sort.Strings(files)

	summary := Summary{
		RunID:       runID,
		ProjectName: name,
		Outcome:     result.Outcome,
		Iterations:  result.Project.IterationCount,
		Files:       files,
		ArchivePath: archivePath,
		Duration:    time.Since(start),
		Logs:        result.Project.Logs,
	}
	s.logger.Info("run %s finished: %s, %d files, %d iterations",
		runID, summary.Outcome, summary.FileCount(), summary.Iterations)
	return summary, nil
}

// projectName derives a stable, filesystem-safe name from the request.
func projectName(userRequest string) string {
	title := strings.TrimSpace(userRequest)
	if idx := strings.IndexByte(title, '\n'); idx >= 0 {
		title = title[:idx]
	}
	return utils.SanitizeProjectName(title)
}
