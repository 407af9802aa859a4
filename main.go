package main

import (
	"context"
	"fmt"
	"os"
	"runtime/debug"
	"strings"
	"time"

	"gioui.org/app"
	"gioui.org/op"
	"gioui.org/unit"
	"gioui.org/x/explorer"
	"git.sr.ht/~gioverse/skel/stream"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gonum.org/v1/plot/vg"

	"git.sr.ht/~pld/paceline/backend"
	"git.sr.ht/~pld/paceline/export"
	"git.sr.ht/~pld/paceline/progress"
)

var version = "dev"

var rootCmd = &cobra.Command{
	Use:           "paceline",
	Short:         "Chart a runner's progress from a current race time toward a goal.",
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		plan, err := loadPlan()
		if err != nil {
			return err
		}
		runGUI(plan, viper.GetString("file"))
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Render the chart headlessly from the configured activity file.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		plan, err := loadPlan()
		if err != nil {
			return err
		}
		return runExport(plan)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the paceline version.",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Println("paceline", version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("file", "", "Path to the activity log JSON file")
	rootCmd.PersistentFlags().String("start-time", "", "Current race time, HH:MM:SS")
	rootCmd.PersistentFlags().String("start-date", "", "First day of the plan, YYYY-MM-DD")
	rootCmd.PersistentFlags().String("goal-time", "", "Target race time, HH:MM:SS")
	rootCmd.PersistentFlags().String("goal-date", "", "Race day, YYYY-MM-DD")
	rootCmd.PersistentFlags().String("week-start", "monday", "Weekday training weeks begin on")
	rootCmd.PersistentFlags().Int("window-weeks", 3, "Weeks shown by the recent-window view")
	rootCmd.PersistentFlags().String("log-level", "info", "Log verbosity")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		log.Fatalf("unable to bind flags: %v", err)
	}

	exportCmd.Flags().String("format", "png", "Export format: png, svg, or html")
	exportCmd.Flags().String("out", "", "Output path (defaults to paceline.<format>)")
	if err := viper.BindPFlags(exportCmd.Flags()); err != nil {
		log.Fatalf("unable to bind export flags: %v", err)
	}
}

func initConfig() {
	viper.SetConfigName("paceline")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME")
	viper.SetEnvPrefix("PACELINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warnf("unable to read config file: %v", err)
		}
	}
	level, err := log.ParseLevel(viper.GetString("log-level"))
	if err != nil {
		log.Warnf("unknown log level %q", viper.GetString("log-level"))
		level = log.InfoLevel
	}
	log.SetLevel(level)
}

// loadPlan resolves the plan from flags, environment, and config file,
// failing fast on anything malformed.
func loadPlan() (progress.Plan, error) {
	var cfg backend.PlanConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return progress.Plan{}, fmt.Errorf("unable to unmarshal config: %w", err)
	}
	return cfg.Plan()
}

func runGUI(plan progress.Plan, file string) {
	go func() {
		w := app.NewWindow(
			app.Title("Paceline"),
			app.Size(unit.Dp(900), unit.Dp(600)),
		)
		expl := explorer.NewExplorer(w)
		ctx := context.Background()
		mutator := stream.NewMutator(ctx, time.Second)
		bundle := backend.NewBundle(ctx, mutator)
		ws := backend.NewWindowState(ctx, bundle, w)
		ui, err := NewUI(ws, expl, plan)
		if err != nil {
			log.Fatalf("unable to build ui: %v", err)
		}
		if file != "" {
			if mut, _ := bundle.Datasource.LoadFromPath(file); mut != nil {
				ui.watchSession(mut)
			}
		}
		if err := loop(w, expl, ui); err != nil {
			log.Fatalf("window closed with error: %v", err)
		}
		os.Exit(0)
	}()
	app.Main()
}

// loop drives the window. A panic escaping a frame build halts further
// rendering and keeps re-submitting the last good frame, so a render bug
// freezes the chart instead of crashing or flooding the log.
func loop(w *app.Window, expl *explorer.Explorer, ui *UI) error {
	var buffers [2]op.Ops
	current := 0
	var haltErr error
	for {
		ev := w.NextEvent()
		expl.ListenEvents(ev)
		switch e := ev.(type) {
		case app.DestroyEvent:
			return e.Err
		case app.FrameEvent:
			if haltErr != nil {
				e.Frame(&buffers[current])
				continue
			}
			next := 1 - current
			gtx := app.NewContext(&buffers[next], e)
			if err := buildFrame(gtx, ui); err != nil {
				haltErr = err
				log.Errorf("rendering halted: %v", err)
				e.Frame(&buffers[current])
				continue
			}
			current = next
			e.Frame(gtx.Ops)
		}
	}
}

func buildFrame(gtx C, ui *UI) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during frame: %v\n%s", r, debug.Stack())
		}
	}()
	ui.Layout(gtx)
	return nil
}

const (
	exportWidth  = 900.0
	exportHeight = 600.0
)

func runExport(plan progress.Plan) error {
	file := viper.GetString("file")
	if file == "" {
		return fmt.Errorf("export requires --file")
	}
	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("unable to open activity log: %w", err)
	}
	res, err := backend.DecodeLog(f)
	f.Close()
	if err != nil {
		return err
	}
	if res.Skipped > 0 {
		log.Warnf("skipped %d activities: %v", res.Skipped, res.Warnings)
	}
	geom := progress.Process(res.Activities, plan, progress.FullSpan,
		progress.DefaultSurface(exportWidth, exportHeight))

	format := viper.GetString("format")
	out := viper.GetString("out")
	if out == "" {
		out = "paceline." + format
	}
	switch format {
	case "png", "svg":
		p, err := export.BuildPlot(geom, plan)
		if err != nil {
			return err
		}
		return export.SavePlot(p, vg.Points(exportWidth), vg.Points(exportHeight), out, format)
	case "html":
		return export.SaveHTML(geom, plan, out)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Debugf("no .env loaded: %v", err)
	}
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
