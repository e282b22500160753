// SPDX-License-Identifier: Apache-2.0

// Command council runs HHAC deliberation rounds from the terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Stevenfgonzalez/HHAC/pkg/config"
	"github.com/Stevenfgonzalez/HHAC/pkg/core"
	"github.com/Stevenfgonzalez/HHAC/pkg/council"
	"github.com/Stevenfgonzalez/HHAC/pkg/domains"
	"github.com/Stevenfgonzalez/HHAC/pkg/journal"
	"github.com/Stevenfgonzalez/HHAC/pkg/resilience"
	"github.com/Stevenfgonzalez/HHAC/pkg/telemetry"
)

const version = "1.0.0"

type globalFlags struct {
	ConfigPath string
	JSON       bool
	Help       bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	global, args, err := parseGlobalFlags(os.Args[1:])
	if err != nil {
		fatal(err)
	}
	if global.Help || len(args) == 0 {
		printUsage()
		return
	}

	cfg, err := config.Load(global.ConfigPath)
	if err != nil {
		fatal(err)
	}

	telemetry.ConfigureSlog(os.Stderr, cfg.Log.Level, cfg.Log.Format)

	shutdown, err := telemetry.Init(ctx, "hhac-council", version, telemetryConfig(cfg))
	if err != nil {
		fatal(err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdown(shutdownCtx)
	}()

	switch args[0] {
	case "ask":
		runAsk(ctx, global, cfg, args[1:])
	case "candidate":
		runCandidate(ctx, global, cfg, args[1:])
	case "status":
		runStatus(ctx, global, cfg, args[1:])
	case "journal":
		runJournal(ctx, global, cfg, args[1:])
	case "help":
		printUsage()
	case "version":
		fmt.Println(version)
	default:
		fatal(fmt.Errorf("unknown command %q", args[0]))
	}
}

func parseGlobalFlags(args []string) (globalFlags, []string, error) {
	var flags globalFlags
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			return flags, args[i+1:], nil
		}
		if !strings.HasPrefix(arg, "-") {
			return flags, args[i:], nil
		}
		switch {
		case arg == "-h" || arg == "--help":
			flags.Help = true
			return flags, nil, nil
		case arg == "--json":
			flags.JSON = true
		case arg == "--config":
			if i+1 >= len(args) {
				return flags, nil, fmt.Errorf("missing value for --config")
			}
			flags.ConfigPath = args[i+1]
			i++
		case strings.HasPrefix(arg, "--config="):
			flags.ConfigPath = strings.TrimPrefix(arg, "--config=")
		default:
			return flags, nil, fmt.Errorf("unknown global flag %q", arg)
		}
	}
	return flags, nil, nil
}

// buildCouncil assembles the council from configuration: roster (with
// optional lexicon overrides), metrics when telemetry is active, and the
// journal store when enabled. The returned cleanup closes the store.
func buildCouncil(cfg *config.Config) (*council.Council, func(), error) {
	var opts []council.Option

	if cfg.Lexicon.Path != "" {
		lf, err := domains.LoadLexicons(cfg.Lexicon.Path)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, council.WithEvaluators(domains.RosterFrom(lf)))
	}

	if telemetryConfig(cfg).Enabled() {
		metrics, err := telemetry.NewCouncilMetrics()
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, council.WithMetrics(metrics))
	}

	if cfg.Council.RetryAttempts > 1 {
		opts = append(opts, council.WithRetry(
			resilience.DefaultRetryConfig().WithMaxAttempts(cfg.Council.RetryAttempts)))
	}
	if cfg.Council.EvaluationTimeout > 0 {
		opts = append(opts, council.WithEvaluationTimeout(cfg.Council.EvaluationTimeout))
	}

	cleanup := func() {}
	if cfg.Journal.Enabled {
		store, err := openJournal(cfg.Journal)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, council.WithJournal(store))
		cleanup = func() { _ = store.Close() }
	}

	return council.New(opts...), cleanup, nil
}

func telemetryConfig(cfg *config.Config) telemetry.Config {
	return telemetry.Config{
		Exporter:     cfg.Telemetry.Exporter,
		OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
		OTLPInsecure: cfg.Telemetry.OTLPInsecure,
	}
}

func openJournal(cfg config.JournalConfig) (journal.Store, error) {
	switch cfg.Backend {
	case "", "file":
		return journal.NewFileStore(cfg.Path), nil
	case "sqlite":
		return journal.OpenSQLiteStore(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown journal backend %q", cfg.Backend)
	}
}

func runAsk(ctx context.Context, global globalFlags, cfg *config.Config, args []string) {
	cmd := flag.NewFlagSet("ask", flag.ContinueOnError)
	contextPath := cmd.String("context", "", "YAML file with context values")
	var sets multiFlag
	cmd.Var(&sets, "ctx", "Context override key=value (repeatable)")
	if err := cmd.Parse(args); err != nil {
		fatal(err)
	}
	input := strings.TrimSpace(strings.Join(cmd.Args(), " "))
	if input == "" {
		fatal(fmt.Errorf("usage: council ask [--context <path>] [--ctx key=value] <input text>"))
	}

	state, err := buildContext(*contextPath, sets)
	if err != nil {
		fatal(err)
	}

	c, cleanup, err := buildCouncil(cfg)
	if err != nil {
		fatal(err)
	}
	defer cleanup()

	final, cons, err := c.Deliberate(ctx, input, state)
	if err != nil {
		fatal(err)
	}

	if global.JSON {
		printJSON(map[string]any{
			"final":     final,
			"consensus": cons,
		})
		return
	}
	printFinal(final, cons)
}

func runCandidate(ctx context.Context, global globalFlags, cfg *config.Config, args []string) {
	cmd := flag.NewFlagSet("candidate", flag.ContinueOnError)
	contextPath := cmd.String("context", "", "YAML file with context values")
	var sets multiFlag
	cmd.Var(&sets, "ctx", "Context override key=value (repeatable)")
	if err := cmd.Parse(args); err != nil {
		fatal(err)
	}
	recommendation := strings.TrimSpace(strings.Join(cmd.Args(), " "))
	if recommendation == "" {
		fatal(fmt.Errorf("usage: council candidate [--context <path>] [--ctx key=value] <recommendation text>"))
	}

	state, err := buildContext(*contextPath, sets)
	if err != nil {
		fatal(err)
	}

	c, cleanup, err := buildCouncil(cfg)
	if err != nil {
		fatal(err)
	}
	defer cleanup()

	levels, err := c.EvaluateCandidate(ctx, recommendation, state)
	if err != nil {
		fatal(err)
	}

	if global.JSON {
		printJSON(levels)
		return
	}
	writer := newTabWriter()
	writeRow(writer, "DOMAIN", "VERDICT")
	for _, role := range core.Roles() {
		writeRow(writer, string(role), string(levels[role]))
	}
	_ = writer.Flush()
}

type statusResult struct {
	Version      string               `json:"version"`
	Rounds       uint64               `json:"rounds"`
	LastRound    string               `json:"last_round,omitempty"`
	Descriptions map[core.Role]string `json:"descriptions"`
	Journal      *journalStatusResult `json:"journal,omitempty"`
}

type journalStatusResult struct {
	Backend string `json:"backend"`
	Path    string `json:"path"`
	Entries int    `json:"entries"`
}

func runStatus(ctx context.Context, global globalFlags, cfg *config.Config, args []string) {
	if len(args) > 0 {
		fatal(fmt.Errorf("unexpected args: %v", args))
	}

	c, cleanup, err := buildCouncil(cfg)
	if err != nil {
		fatal(err)
	}
	defer cleanup()

	st := c.Status()
	result := statusResult{
		Version:      version,
		Rounds:       st.Rounds,
		Descriptions: st.Descriptions,
	}
	if !st.LastRound.IsZero() {
		result.LastRound = st.LastRound.Format(time.RFC3339)
	}
	if cfg.Journal.Enabled {
		store, err := openJournal(cfg.Journal)
		if err == nil {
			entries, listErr := store.List(ctx, journal.Filter{})
			if listErr == nil {
				result.Journal = &journalStatusResult{
					Backend: cfg.Journal.Backend,
					Path:    cfg.Journal.Path,
					Entries: len(entries),
				}
				if n := len(entries); n > 0 {
					result.Rounds = uint64(n)
					result.LastRound = entries[n-1].CreatedAt.Format(time.RFC3339)
				}
			}
			_ = store.Close()
		}
	}

	if global.JSON {
		printJSON(result)
		return
	}
	fmt.Printf("HHAC council: %s\n", result.Version)
	fmt.Printf("Rounds: %d\n", result.Rounds)
	if result.LastRound != "" {
		fmt.Printf("Last round: %s\n", result.LastRound)
	}
	fmt.Println("Domains:")
	for _, role := range core.Roles() {
		fmt.Printf("  %-8s %s\n", role, result.Descriptions[role])
	}
	if result.Journal != nil {
		fmt.Printf("Journal: %s (%s), %d entries\n",
			result.Journal.Path, result.Journal.Backend, result.Journal.Entries)
	}
}

func runJournal(ctx context.Context, global globalFlags, cfg *config.Config, args []string) {
	if len(args) == 0 || args[0] != "list" {
		fatal(fmt.Errorf("usage: council journal list [--limit N] [--vetoed] [--consensus <level>]"))
	}
	cmd := flag.NewFlagSet("journal list", flag.ContinueOnError)
	limit := cmd.Int("limit", 0, "Keep only the most recent N entries")
	vetoed := cmd.Bool("vetoed", false, "Only vetoed rounds")
	consensusFilter := cmd.String("consensus", "", "Consensus level filter")
	if err := cmd.Parse(args[1:]); err != nil {
		fatal(err)
	}

	if !cfg.Journal.Enabled {
		fatal(fmt.Errorf("journal is not enabled; set journal.enabled in config or HHAC_JOURNAL_ENABLED=true"))
	}
	store, err := openJournal(cfg.Journal)
	if err != nil {
		fatal(err)
	}
	defer store.Close()

	entries, err := store.List(ctx, journal.Filter{
		Consensus:  core.AgreementLevel(*consensusFilter),
		VetoedOnly: *vetoed,
		Limit:      *limit,
	})
	if err != nil {
		fatal(err)
	}

	if global.JSON {
		printJSON(entries)
		return
	}
	writer := newTabWriter()
	writeRow(writer, "TIME", "CONSENSUS", "CONFIDENCE", "RECOMMENDATION")
	for _, e := range entries {
		writeRow(writer,
			e.CreatedAt.Format(time.RFC3339),
			string(e.Consensus),
			fmt.Sprintf("%.0f%%", e.Confidence*100),
			truncate(e.Recommendation, 80))
	}
	_ = writer.Flush()
}

func printFinal(final core.FinalRecommendation, cons core.ConsensusResult) {
	fmt.Println("=== Council Recommendation ===")
	fmt.Println(final.Recommendation)
	fmt.Println()
	fmt.Printf("Reasoning: %s\n", final.Reasoning)
	fmt.Printf("Consensus: %s (confidence %.1f%%)\n", final.Consensus, final.Confidence*100)
	if len(cons.Conflicts) > 0 {
		fmt.Println("Conflicts:")
		for _, c := range cons.Conflicts {
			fmt.Printf("  - %s\n", c)
		}
	}
	if len(final.Alternatives) > 0 {
		fmt.Println("Alternatives:")
		for i, alt := range final.Alternatives {
			fmt.Printf("  %d. %s\n", i+1, alt)
		}
	}
	if len(final.SafetyConcerns) > 0 {
		fmt.Println("Safety Concerns:")
		for _, c := range final.SafetyConcerns {
			fmt.Printf("  - %s\n", c)
		}
	}
	fmt.Println("Domain Insights:")
	for _, role := range core.Roles() {
		fmt.Printf("  %-8s %s\n", role, final.Insights[role])
	}
}

func printUsage() {
	fmt.Print(`HHAC council CLI

Usage:
  council [global flags] <command> [args]

Global flags:
  --config <path>      Path to config YAML
  --json               JSON output

Commands:
  ask [--context <path>] [--ctx key=value] <input text>
  candidate [--context <path>] [--ctx key=value] <recommendation text>
  status
  journal list [--limit N] [--vetoed] [--consensus <level>]
  version

`)
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
