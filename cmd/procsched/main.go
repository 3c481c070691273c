package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/joshharrison/procsched/internal/config"
	"github.com/joshharrison/procsched/internal/cpm"
	"github.com/joshharrison/procsched/internal/graph"
	"github.com/joshharrison/procsched/internal/log"
	"github.com/joshharrison/procsched/internal/planner"
	"github.com/joshharrison/procsched/internal/reporter"
	"github.com/joshharrison/procsched/internal/schederr"
	"github.com/joshharrison/procsched/internal/state"
	"github.com/joshharrison/procsched/internal/taskfile"
	"github.com/joshharrison/procsched/internal/timeline"
	"github.com/joshharrison/procsched/internal/ui"
	"github.com/joshharrison/procsched/internal/viewer"
)

var (
	flagConfig        string
	flagProcessors    int
	flagPolicy        string
	flagWeightWorkers int
	flagLogLevel      string
	flagLogFormat     string
	flagStateDir      string
	flagJSON          bool
	flagGantt         bool
	flagWidth         int
	flagNoSave        bool
	flagFormat        string
	flagPlanID        string
	flagList          bool
	flagPort          int
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", ui.BoldRed("error:"), err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "procsched",
		Short: "Schedule precedence-constrained tasks on a pool of processors",
		Long: `procsched reads a task file (ids, durations and predecessor lists),
schedules it on a fixed pool of identical processors with a critical-path
list-scheduling heuristic, and compares the result against a lowest-id-first
baseline and the unbounded longest-path timeline.

Task files are read from the given path, or from stdin when the path is
omitted or "-".`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default ./"+config.DefaultFile+" if present)")
	rootCmd.PersistentFlags().IntVar(&flagProcessors, "processors", 3, "Number of identical processors")
	rootCmd.PersistentFlags().StringVar(&flagPolicy, "policy", "heuristic", "Policy for the primary schedule (heuristic, baseline)")
	rootCmd.PersistentFlags().IntVar(&flagWeightWorkers, "weight-workers", 4, "Goroutines used to compute critical-path weights")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format (text, json)")
	rootCmd.PersistentFlags().StringVar(&flagStateDir, "state-dir", state.DefaultDir, "Directory for saved plans")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Machine-readable JSON output")

	rootCmd.AddCommand(scheduleCmd())
	rootCmd.AddCommand(timelineCmd())
	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(vizCmd())
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(serveCmd())

	return rootCmd
}

// loadConfig layers explicitly set flags over the config file.
func loadConfig(cmd *cobra.Command) (*config.Config, *log.Logger, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("processors") {
		cfg.Processors = flagProcessors
	}
	if flags.Changed("policy") {
		cfg.Policy = flagPolicy
	}
	if flags.Changed("weight-workers") {
		cfg.WeightWorkers = flagWeightWorkers
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = flagLogLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = flagLogFormat
	}
	if flags.Changed("state-dir") {
		cfg.StateDir = flagStateDir
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	return cfg, cfg.Logger(), nil
}

func planConfig(cfg *config.Config, logger *log.Logger) planner.PlanConfig {
	return planner.PlanConfig{
		Processors:    cfg.Processors,
		Policy:        cfg.Policy,
		WeightWorkers: cfg.WeightWorkers,
		Logger:        logger,
	}
}

func inputPath(args []string) string {
	if len(args) == 0 {
		return "-"
	}
	return args[0]
}

// loadGraph parses and validates a task file.
func loadGraph(path string) (*graph.TaskGraph, error) {
	f, err := taskfile.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}
	g, err := graph.BuildFromRaw(f.Tasks)
	if err != nil {
		return nil, fmt.Errorf("build task graph: %w", err)
	}
	return g, nil
}

// infeasible reports a cycle on stdout. A cycle is an answer, not a
// failure, so the command exits 0.
func infeasible(w io.Writer, line string, err error, logger *log.Logger) error {
	logger.WithError(err).Warn("input is not schedulable")
	if flagJSON {
		var cycle []int
		var se *schederr.Error
		if errors.As(err, &se) {
			cycle = se.Cycle
		}
		return outputJSON(w, map[string]any{"feasible": false, "error": err.Error(), "cycle": cycle})
	}
	fmt.Fprintln(w, line)
	return nil
}

func scheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule [file]",
		Short: "Schedule tasks on the processor pool",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			g, err := loadGraph(inputPath(args))
			if err != nil {
				return err
			}

			plan, err := planner.Generate(cmd.Context(), g, planConfig(cfg, logger))
			if schederr.IsCycle(err) {
				return infeasible(cmd.OutOrStdout(), reporter.InfeasibleSchedule, err, logger)
			}
			if err != nil {
				return fmt.Errorf("generate plan: %w", err)
			}

			if !flagNoSave {
				if err := state.NewStore(cfg.StateDir).Save(plan); err != nil {
					return fmt.Errorf("save plan: %w", err)
				}
			}

			rep := reporter.New(plan)
			if flagJSON {
				data, err := rep.JSON()
				if err != nil {
					return fmt.Errorf("marshal plan: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}

			rep.PrintSchedule(cmd.OutOrStdout())
			fmt.Fprint(cmd.ErrOrStderr(), rep.Summary())
			if flagGantt {
				fmt.Fprintln(cmd.OutOrStdout())
				fmt.Fprintln(cmd.OutOrStdout(), rep.Gantt(flagWidth))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&flagGantt, "gantt", false, "Draw a Gantt chart of the primary schedule")
	cmd.Flags().IntVar(&flagWidth, "width", 80, "Maximum Gantt chart width in columns")
	cmd.Flags().BoolVar(&flagNoSave, "no-save", false, "Do not record the plan in the state directory")

	return cmd
}

func timelineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "timeline [file]",
		Short: "Compute earliest start times with unlimited processors",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			g, err := loadGraph(inputPath(args))
			if err != nil {
				return err
			}

			res, err := timeline.Compute(g)
			if schederr.IsCycle(err) {
				return infeasible(cmd.OutOrStdout(), reporter.InfeasibleTimeline, err, logger)
			}
			if err != nil {
				return fmt.Errorf("compute timeline: %w", err)
			}

			if flagJSON {
				return outputJSON(cmd.OutOrStdout(), res)
			}
			reporter.WriteTimeline(cmd.OutOrStdout(), res)
			return nil
		},
	}
}

func analyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze [file]",
		Short: "Critical path analysis: earliest/latest windows and slack",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			g, err := loadGraph(inputPath(args))
			if err != nil {
				return err
			}

			plan, err := planner.Generate(cmd.Context(), g, planConfig(cfg, logger))
			if schederr.IsCycle(err) {
				return infeasible(cmd.OutOrStdout(), reporter.InfeasibleSchedule, err, logger)
			}
			if err != nil {
				return fmt.Errorf("generate plan: %w", err)
			}

			if flagJSON {
				return outputJSON(cmd.OutOrStdout(), plan.Analysis)
			}
			reporter.New(plan).PrintAnalysis(cmd.OutOrStdout())
			return nil
		},
	}
}

func vizCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "viz [file]",
		Short: "Print the task graph as ASCII waves or Graphviz DOT",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, logger, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			g, err := loadGraph(inputPath(args))
			if err != nil {
				return err
			}

			result, err := cpm.Analyze(g)
			if schederr.IsCycle(err) {
				return infeasible(cmd.OutOrStdout(), reporter.InfeasibleSchedule, err, logger)
			}
			if err != nil {
				return fmt.Errorf("CPM analysis: %w", err)
			}

			switch flagFormat {
			case "dot":
				reporter.WriteDOT(cmd.OutOrStdout(), g, result)
			case "ascii":
				reporter.PrintASCIIDAG(cmd.OutOrStdout(), g, result)
			default:
				return schederr.Validationf("unknown format %q (want ascii or dot)", flagFormat)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&flagFormat, "format", "ascii", "Output format (ascii, dot)")

	return cmd
}

func showCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the last saved plan, a plan by id, or the plan history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			store := state.NewStore(cfg.StateDir)

			if flagList {
				entries, err := store.List()
				if err != nil {
					return err
				}
				if flagJSON {
					return outputJSON(cmd.OutOrStdout(), entries)
				}
				if len(entries) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), ui.Dim("No saved plans."))
					return nil
				}
				for _, e := range entries {
					fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %3d tasks  heuristic %s  baseline %d\n",
						ui.BoldMagenta(e.ID), ui.Dim(e.CreatedAt.Format("2006-01-02 15:04:05")),
						e.TotalTasks, ui.BoldGreen(e.HeuristicMakespan), e.BaselineMakespan)
				}
				return nil
			}

			var plan *planner.Plan
			if flagPlanID != "" {
				plan, err = store.Load(flagPlanID)
			} else {
				plan, err = store.Current()
			}
			if errors.Is(err, state.ErrNoPlan) {
				return fmt.Errorf("%w in %s (run 'procsched schedule' first)", err, cfg.StateDir)
			}
			if err != nil {
				return err
			}

			rep := reporter.New(plan)
			if flagJSON {
				data, err := rep.JSON()
				if err != nil {
					return fmt.Errorf("marshal plan: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}
			rep.PrintSchedule(cmd.OutOrStdout())
			fmt.Fprint(cmd.ErrOrStderr(), rep.Summary())
			return nil
		},
	}

	cmd.Flags().StringVar(&flagPlanID, "plan", "", "Show a historical plan by id")
	cmd.Flags().BoolVar(&flagList, "list", false, "List saved plans, oldest first")

	return cmd
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve POST /schedule over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			ui.PrintLogo()
			fmt.Fprintf(os.Stderr, "🖥️  Listening on %s\n", ui.BoldCyan(fmt.Sprintf("http://localhost:%d", flagPort)))
			fmt.Fprintf(os.Stderr, "   %s\n", ui.Dim("POST /schedule, GET /schedule, GET /healthz (Ctrl-C to stop)"))

			return viewer.New(planConfig(cfg, logger)).ListenAndServe(cmd.Context(), flagPort)
		},
	}

	cmd.Flags().IntVar(&flagPort, "port", 7171, "Port to listen on")

	return cmd
}

func outputJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(w, string(data))
	return nil
}
