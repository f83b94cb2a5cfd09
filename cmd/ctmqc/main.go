package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"
	"github.com/san-kum/ctmqc/internal/config"
	"github.com/san-kum/ctmqc/internal/ensemble"
	"github.com/san-kum/ctmqc/internal/logger"
	"github.com/san-kum/ctmqc/internal/qmom"
	"github.com/san-kum/ctmqc/internal/storage"
	"github.com/san-kum/ctmqc/internal/validate"
	"github.com/san-kum/ctmqc/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir   string
	logLevel  string
	pretty    bool
	seed      int64
	replicas  int
	dofs      int
	stepSize  float64
	recompute bool
	method    string
	dof       int
	save      bool
	// Config file
	configFile string
	// Preset name
	preset string

	log zerolog.Logger
)

// main registers the ctmqc commands and executes the root command.
// It exits with status 1 if command execution returns an error.
func main() {
	rootCmd := &cobra.Command{
		Use:   "ctmqc",
		Short: "quantum momentum kernel for coupled-trajectory dynamics",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log = logger.New(logger.Config{Level: logLevel, Pretty: pretty})
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".ctmqc", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&pretty, "pretty", false, "human-readable logs")

	selfcheckCmd := &cobra.Command{
		Use:   "selfcheck",
		Short: "check gaussian kernel normalisation",
		Args:  cobra.NoArgs,
		RunE:  runSelfcheck,
	}
	selfcheckCmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "compare analytic and finite-difference quantum momentum on a random ensemble",
		Args:  cobra.NoArgs,
		RunE:  runValidate,
	}
	addEnsembleFlags(validateCmd)
	validateCmd.Flags().BoolVar(&save, "save", false, "store the run and its config in the data directory")

	qmCmd := &cobra.Command{
		Use:   "qm",
		Short: "print the quantum momentum of every replica",
		Args:  cobra.NoArgs,
		RunE:  runQuantumMomentum,
	}
	addEnsembleFlags(qmCmd)
	qmCmd.Flags().StringVar(&method, "method", config.DefaultMethod, "evaluation method (fd, analytic)")
	qmCmd.Flags().IntVar(&dof, "dof", 0, "degree of freedom to print")

	densityCmd := &cobra.Command{
		Use:   "density [run_id]",
		Short: "plot the nuclear density of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotDensity,
	}
	densityCmd.Flags().IntVar(&dof, "dof", 0, "degree of freedom")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			names := config.ListPresets()
			sort.Strings(names)
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tREPLICAS\tDOFS\tADAPTIVE\tMETHOD")
			for _, name := range names {
				p := config.Presets[name]
				fmt.Fprintf(w, "%s\t%d\t%d\t%v\t%s\n", name, p.Replicas, p.Dofs, p.RecomputeWidths, p.Method)
			}
			return w.Flush()
		},
	}

	rootCmd.AddCommand(selfcheckCmd, validateCmd, qmCmd, densityCmd, listCmd, showCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addEnsembleFlags(cmd *cobra.Command) {
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().IntVar(&replicas, "replicas", config.DefaultReplicas, "number of replicas")
	cmd.Flags().IntVar(&dofs, "dofs", config.DefaultDofs, "degrees of freedom")
	cmd.Flags().Float64Var(&stepSize, "dx", config.DefaultStepSize, "finite-difference step")
	cmd.Flags().BoolVar(&recompute, "adaptive", false, "recompute widths before each evaluation")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// resolveConfig layers defaults, preset, config file and explicit flags.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	// config file overrides preset
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("replicas") || (preset == "" && configFile == "") {
		cfg.Replicas = replicas
	}
	if cmd.Flags().Changed("dofs") || (preset == "" && configFile == "") {
		cfg.Dofs = dofs
	}
	if cmd.Flags().Changed("dx") {
		cfg.StepSize = stepSize
	}
	if cmd.Flags().Changed("adaptive") {
		cfg.RecomputeWidths = recompute
	}
	if cmd.Flags().Changed("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}
	if f := cmd.Flags().Lookup("method"); f != nil && f.Changed {
		cfg.Method = method
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// the config's log section applies unless the flags were given
	cfg.Log = cfg.Log.Override(logLevel, cmd.Flag("log-level").Changed, pretty, cmd.Flag("pretty").Changed)
	log = logger.New(logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty})
	return cfg, nil
}

func buildEnsemble(cfg *config.Config) (*ensemble.Ensemble, error) {
	rng := rand.New(rand.NewSource(cfg.Seed))
	e, err := ensemble.Random(rng, cfg.Replicas, cfg.Dofs, cfg.States, cfg.GetSpread(), cfg.Params())
	if err != nil {
		return nil, err
	}
	log.Debug().
		Int("replicas", e.Replicas()).
		Int("dofs", e.Dofs()).
		Int64("seed", cfg.Seed).
		Bool("adaptive", e.Params.RecomputeWidths).
		Msg("ensemble generated")
	return e, nil
}

func runSelfcheck(cmd *cobra.Command, args []string) error {
	h := validate.NewHarness(log, seed)
	if err := h.Kernel(); err != nil {
		log.Fatal().Err(err).Msg("numerical model broken")
	}
	fmt.Println(viz.StatusOK.Render("gaussian kernel normalised"))
	return nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	h := validate.NewHarness(log, cfg.Seed)
	if err := h.Kernel(); err != nil {
		log.Fatal().Err(err).Msg("numerical model broken")
	}

	e, err := buildEnsemble(cfg)
	if err != nil {
		return err
	}

	start := time.Now()
	report, err := h.Momentum(e)
	if err != nil {
		log.Fatal().Err(err).Msg("numerical model broken")
	}
	elapsed := time.Since(start)

	fmt.Println(viz.RenderReport(fmt.Sprintf("%d replicas x %d dofs (%v)", e.Replicas(), e.Dofs(), elapsed.Round(time.Microsecond)), report))

	if !save {
		return nil
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(cfg.Seed, e, report)
	if err != nil {
		return err
	}
	if err := st.SaveConfig(runID, cfg); err != nil {
		return err
	}
	log.Info().Str("run_id", runID).Msg("run stored")
	fmt.Printf("run id: %s\n", runID)
	return nil
}

func runQuantumMomentum(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	m, err := qmom.ParseMethod(cfg.Method)
	if err != nil {
		return err
	}
	e, err := buildEnsemble(cfg)
	if err != nil {
		return err
	}
	if err := e.CheckDof(dof); err != nil {
		return err
	}

	qm, err := qmom.ComputeAll(context.Background(), e, m)
	if err != nil {
		return err
	}
	alpha, err := qmom.Alpha(e, dof)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "REPLICA\tPOSITION\tWIDTH\tALPHA\tQM (%s)\n", m)
	for i := 0; i < e.Replicas(); i++ {
		fmt.Fprintf(w, "%d\t%.6f\t%.6f\t%.6g\t%.6g\n", i, e.Positions[i][dof], e.Widths[i][dof], alpha[i], qm[i][dof])
	}
	return w.Flush()
}

func plotDensity(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	positions, widths, err := st.LoadEnsemble(args[0])
	if err != nil {
		return err
	}

	dens, at, err := qmom.DensityProfile(positions, widths, dof)
	if err != nil {
		return err
	}

	fmt.Println(viz.DensityPlot(dens, at, fmt.Sprintf("nuclear density (dof %d)", dof), 80, 15))
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tREPLICAS\tDOFS\tADAPTIVE\tMAX |DIFF|")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%v\t%.2g%%\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Replicas,
			run.Dofs,
			run.RecomputeWidths,
			run.MaxAbsPct,
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	diffs, err := st.LoadDiffs(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("seed: %d\n", meta.Seed)
	fmt.Printf("ensemble: %d replicas x %d dofs (dx=%g, const=%g, adaptive=%v)\n",
		meta.Replicas, meta.Dofs, meta.StepSize, meta.WidthConst, meta.RecomputeWidths)
	fmt.Printf("avg diff: %.2g%% +/- %.2g\n", meta.MeanPct, meta.StdPct)
	fmt.Printf("max diff: %.2g%%\n", meta.MaxAbsPct)
	fmt.Printf("min diff: %.2g%%\n", meta.MinAbsPct)

	if cfg, err := st.LoadConfig(args[0]); err == nil {
		fmt.Printf("method: %s, spread: centre %g std %g, mass %g\n",
			cfg.Method, cfg.Spread.Center, cfg.Spread.Std, cfg.Spread.Mass)
	}

	if len(diffs) == 0 {
		return nil
	}
	pct := make([]float64, len(diffs))
	for i, d := range diffs {
		pct[i] = d.Pct
	}
	fmt.Println()
	fmt.Println(viz.SparklineChart(pct, 60))
	return nil
}
