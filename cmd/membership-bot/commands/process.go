// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-15

package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/similigh/membership-bot/internal/core/config"
	"github.com/similigh/membership-bot/internal/core/pipeline"
	"github.com/similigh/membership-bot/internal/integrations/github"
	"github.com/similigh/membership-bot/internal/tui"
	"github.com/similigh/membership-bot/internal/workflow"
)

var (
	eventFile string
	eventName string
	dryRun    bool
	policy    string
	repoName  string
	orgName   string
)

// processCmd represents the process command
var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Process one issue or comment event",
	Long: `Process one GitHub event through the membership workflow.

The event defaults to the one the Actions runner provides through
GITHUB_EVENT_NAME and GITHUB_EVENT_PATH.

Environment variables:
  PLATFORM_TOKEN   Token with issues:write and admin:org (falls back to GITHUB_TOKEN).
  ORG_NAME         Organization to invite members to.`,
	Run: func(cmd *cobra.Command, args []string) {
		runProcess()
	},
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringVar(&eventFile, "event", "", "Path to the event payload JSON (default: $GITHUB_EVENT_PATH)")
	processCmd.Flags().StringVar(&eventName, "event-name", "", "Event name, issues or issue_comment (default: $GITHUB_EVENT_NAME)")
	processCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Log writes without performing them")
	processCmd.Flags().StringVar(&policy, "policy", "", "Approval policy override: two-phase or immediate")
	processCmd.Flags().StringVar(&repoName, "repo", "", "Repository in owner/name format (default: from payload or $GITHUB_REPOSITORY)")
	processCmd.Flags().StringVar(&orgName, "org", "", "Organization name (override)")
}

func runProcess() {
	runEnv, err := config.ParseEnv()
	if err != nil {
		fail(nil, err)
	}

	// 1. Load configuration
	cfg, err := loadConfig(configPath(cfgFile, runEnv), runEnv.Token())
	if err != nil {
		fail(runEnv, err)
	}
	if err := applyPolicy(cfg, policy); err != nil {
		fail(runEnv, err)
	}
	org := resolveOrg(orgName, runEnv, cfg)

	// 2. Load event
	event, err := loadEvent(eventName, eventFile, repoName, runEnv)
	if errors.Is(err, pipeline.ErrUnsupportedEvent) {
		fmt.Printf("[membership-bot] Nothing to do: %v\n", err)
		return
	}
	if err != nil {
		fail(runEnv, err)
	}

	// 3. Initialize GitHub client
	client, err := newPlatformClient(context.Background(), runEnv.Token(), dryRun)
	if err != nil {
		fail(runEnv, err)
	}
	deps := &pipeline.Dependencies{GitHub: client}

	if verbose {
		fmt.Printf("Policy %s, org %q, event %s/%s on %s/%s#%d\n",
			cfg.Policy, org, event.Name, event.Action, event.Owner, event.Repo, event.Issue.Number)
	}

	var result *pipeline.Result
	if runEnv.NonInteractive() {
		// Run directly without TUI in CI environments
		fmt.Println("[membership-bot] Running in CI mode (no TUI)")
		result, err = workflow.New(cfg, org, deps).Handle(context.Background(), event)
	} else {
		result, err = runWithTUI(cfg, org, deps, event)
	}
	if err != nil {
		fail(runEnv, err)
	}

	if runEnv.NonInteractive() {
		out, _ := json.MarshalIndent(result, "", "  ")
		fmt.Println(string(out))
	}
}

// configPath picks the --config flag, then $MEMBERSHIP_CONFIG, then the
// standard locations.
func configPath(flag string, runEnv *config.Env) string {
	if flag != "" {
		return flag
	}
	if runEnv.ConfigPath != "" {
		return runEnv.ConfigPath
	}
	return config.FindConfigPath("")
}

// loadConfig loads the config file at path, or the defaults when there is
// none. Remote configs named by extends are fetched with token.
func loadConfig(path, token string) (*config.Config, error) {
	if path == "" {
		if verbose {
			fmt.Println("No configuration file found. Using defaults and environment variables.")
		}
		return config.Default(), nil
	}

	fetcher := func(ref string) ([]byte, error) {
		org, repo, branch, file, err := config.ParseExtendsRef(ref)
		if err != nil {
			return nil, err
		}
		if token == "" {
			return nil, fmt.Errorf("PLATFORM_TOKEN or GITHUB_TOKEN required to fetch remote config %s", ref)
		}
		return github.NewClient(context.Background(), token).GetFileContent(context.Background(), org, repo, file, branch)
	}

	cfg, err := config.LoadWithInheritance(path, fetcher)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}
	if verbose {
		fmt.Printf("Loaded config from %s\n", path)
	}
	return cfg, nil
}

// applyPolicy overrides the configured policy when the flag is set.
func applyPolicy(cfg *config.Config, flag string) error {
	if flag == "" {
		return nil
	}
	cfg.Policy = config.Policy(strings.ToLower(strings.TrimSpace(flag)))
	return cfg.Validate()
}

// resolveOrg prefers the --org flag, then ORG_NAME, then the config file.
func resolveOrg(flag string, runEnv *config.Env, cfg *config.Config) string {
	for _, v := range []string{flag, runEnv.OrgName, cfg.Org} {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// loadEvent reads and decodes the event payload. Flags take precedence over
// the runner environment.
func loadEvent(name, path, repo string, runEnv *config.Env) (*pipeline.Event, error) {
	if name == "" {
		name = runEnv.EventName
	}
	if path == "" {
		path = runEnv.EventPath
	}
	if name == "" || path == "" {
		return nil, fmt.Errorf("event name and payload are required (--event-name/--event or GITHUB_EVENT_NAME/GITHUB_EVENT_PATH)")
	}

	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read event payload: %w", err)
	}

	event, err := pipeline.DecodeEvent(name, payload)
	if err != nil {
		return nil, err
	}

	if repo == "" {
		repo = runEnv.Repository
	}
	if repo != "" && (event.Owner == "" || event.Repo == "") {
		if err := event.SetRepository(repo); err != nil {
			return nil, err
		}
	}
	if event.Owner == "" || event.Repo == "" {
		return nil, &pipeline.PayloadError{Field: "repository"}
	}
	return event, nil
}

func newPlatformClient(ctx context.Context, token string, dryRun bool) (pipeline.PlatformClient, error) {
	if token == "" {
		return nil, fmt.Errorf("PLATFORM_TOKEN or GITHUB_TOKEN environment variable is required")
	}
	client := github.NewClient(ctx, token)
	if dryRun {
		fmt.Println("[membership-bot] Dry run: writes are logged, not performed")
		return github.NewDryRunClient(client), nil
	}
	return client, nil
}

// fail logs err, annotates the Actions run and exits with status 1.
func fail(runEnv *config.Env, err error) {
	log.Printf("[membership-bot] %v", err)
	if (runEnv != nil && runEnv.InActions()) || (runEnv == nil && os.Getenv("GITHUB_ACTIONS") == "true") {
		fmt.Println(errorAnnotation(err))
	}
	os.Exit(1)
}

// errorAnnotation formats err as a GitHub Actions workflow command.
func errorAnnotation(err error) string {
	msg := strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A").Replace(err.Error())
	return "::error::" + msg
}

func runWithTUI(cfg *config.Config, org string, deps *pipeline.Dependencies, event *pipeline.Event) (*pipeline.Result, error) {
	stepNames := workflow.New(cfg, org, deps).StepNames(event.Kind)

	// Each step reports twice; buffering keeps steps from blocking if the
	// user quits the TUI early.
	statusChan := make(chan tui.PipelineStatusMsg, 2*len(stepNames)+1)
	model := tui.NewModel(stepNames, statusChan)
	p := tea.NewProgram(model)

	type outcome struct {
		result *pipeline.Result
		err    error
	}
	done := make(chan outcome, 1)

	// Run workflow in a goroutine
	go func() {
		result, err := runWorkflow(p, cfg, org, deps, event, statusChan)
		done <- outcome{result, err}
	}()

	if _, err := p.Run(); err != nil {
		return nil, fmt.Errorf("error running TUI: %w", err)
	}

	o := <-done
	return o.result, o.err
}
