// Command devcrew runs the multi-role code generation pipeline: a request
// flows through requirements analysis, architecture, code generation, and a
// bounded review/rework loop, ending in a zip artifact.
package main

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"devcrew/pkg/agent"
	"devcrew/pkg/config"
	"devcrew/pkg/logx"
	"devcrew/pkg/metrics"
	"devcrew/pkg/retrieval"
	"devcrew/pkg/roles"
	"devcrew/pkg/session"
	"devcrew/pkg/state"
	"devcrew/pkg/utils"
	"devcrew/pkg/workflow"
	"devcrew/pkg/workspace"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "devcrew [request]",
		Short: "Generate a software project from a natural-language request",
		Long: `devcrew turns a one-line software request into a reviewed, archived
project. Four model-backed roles collaborate: requirements analysis,
architecture, code generation, and review, with rejected iterations looping
back to code generation until approval or the iteration ceiling.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			request := strings.TrimSpace(strings.Join(args, " "))
			if request == "" {
				request, err = promptForRequest()
				if err != nil {
					return err
				}
			}

			return run(cmd.Context(), cfg, request)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "devcrew.yaml", "path to the YAML config file")
	return cmd
}

// promptForRequest reads the request interactively. A non-interactive stdin
// (a pipe or redirect) is read in full instead.
func promptForRequest() (string, error) {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Print("What should I build? ")
	}

	reader := bufio.NewReader(os.Stdin)
	var lines []string
	for {
		line, err := reader.ReadString('\n')
		lines = append(lines, strings.TrimRight(line, "\n"))
		if err != nil {
			break
		}
		if term.IsTerminal(int(os.Stdin.Fd())) {
			// Interactive mode takes a single line.
			break
		}
	}

	request := strings.TrimSpace(strings.Join(lines, "\n"))
	if request == "" {
		return "", fmt.Errorf("no request provided")
	}
	return request, nil
}

func run(ctx context.Context, cfg config.Config, request string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logx.NewLogger("devcrew")

	recorder := metrics.Recorder(metrics.Nop())
	if cfg.MetricsEnabled {
		recorder = metrics.NewPrometheusRecorder(nil)
		go serveMetrics(cfg.MetricsAddr, logger)
	}

	ws, err := workspace.New(cfg.OutputDir)
	if err != nil {
		return fmt.Errorf("failed to open output workspace: %w", err)
	}

	store, err := retrieval.Open(cfg.Retrieval)
	if err != nil {
		return fmt.Errorf("failed to open retrieval store: %w", err)
	}
	defer func() { _ = store.Close() }()

	factory := agent.NewFactory(cfg)
	clients := make(map[string]agent.LLMClient, 4)
	for name, rc := range map[string]config.RoleConfig{
		roles.RoleRequirements: cfg.Requirements,
		roles.RoleArchitect:    cfg.Architect,
		roles.RoleCodeGen:      cfg.CodeGen,
		roles.RoleReview:       cfg.Review,
	} {
		client, err := factory.Get(rc)
		if err != nil {
			return fmt.Errorf("failed to configure %s role: %w", name, err)
		}
		clients[name] = client
	}

	engine := workflow.NewEngine(
		roles.NewRequirements(clients[roles.RoleRequirements], cfg.Requirements, cfg.RequestTimeout, recorder),
		roles.NewArchitect(clients[roles.RoleArchitect], cfg.Architect, cfg.Retrieval, store, cfg.RequestTimeout, recorder),
		roles.NewCodeGen(clients[roles.RoleCodeGen], cfg.CodeGen, ws, cfg.RequestTimeout, recorder),
		roles.NewReview(clients[roles.RoleReview], cfg.Review, cfg.RequestTimeout, recorder),
		cfg.MaxIterations, recorder)

	sess := session.New(engine, ws, store, cfg.ArchiveDir)

	summary, err := sess.Run(ctx, request)
	if err != nil {
		logger.Error("run aborted: %v", err)
		fmt.Fprintln(os.Stderr, "\nLast log entries:")
		for _, e := range logx.RecentEntries(20) {
			fmt.Fprintf(os.Stderr, "  [%s] %s: %s\n", e.AgentID, e.Level, e.Message)
		}
		return err
	}

	printSummary(summary)
	if summary.Outcome != state.OutcomeApproved {
		return fmt.Errorf("stopped after %d iterations without approval", summary.Iterations)
	}
	return nil
}

func serveMetrics(addr string, logger *logx.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("metrics server failed: %v", err)
	}
}

func printSummary(s session.Summary) {
	fmt.Printf("\nRun %s: %s\n", s.RunID, s.Outcome)
	fmt.Printf("  Project:    %s\n", s.ProjectName)
	fmt.Printf("  Iterations: %d\n", s.Iterations)
	fmt.Printf("  Archive:    %s\n", s.ArchivePath)
	fmt.Printf("  Duration:   %s\n", s.Duration.Round(time.Second))
	fmt.Printf("  Files (%d):\n", s.FileCount())
	for _, f := range s.Files {
		fmt.Printf("    %-30s %s\n", f, utils.LanguageForFile(f))
	}
}
