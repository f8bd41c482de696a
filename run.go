package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/logrusorgru/aurora"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/rlworld/classic/agent"
	"github.com/rlworld/classic/environment/envconfig"
	"github.com/rlworld/classic/experiment"
	"github.com/rlworld/classic/experiment/report"
	"github.com/rlworld/classic/experiment/trackers"
	"github.com/rlworld/classic/utils/progressbar"
)

type runFlags struct {
	env    string
	config string
	steps  uint
	runs   int
	seed   uint64
	cutoff uint
	render string
	out    string
	record bool
}

func runCommand() *cobra.Command {
	var f runFlags

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a random agent for a number of steps and plot the results",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer cancel()
			return run(ctx, f, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.env, "env", "cartpole", "Environment to run, "+
		"cartpole or mountaincar")
	flags.StringVar(&f.config, "config", "", "JSON environment "+
		"configuration, overrides --env, --seed, --cutoff and --render")
	flags.UintVar(&f.steps, "steps", 10_000, "Steps per run")
	flags.IntVar(&f.runs, "runs", 1, "Number of independent runs, run "+
		"concurrently")
	flags.Uint64Var(&f.seed, "seed", defaultSeed(), "Seed of the first "+
		"run, or $"+seedEnv)
	flags.UintVar(&f.cutoff, "cutoff", 0, "Maximum episode length, 0 for "+
		"no limit")
	flags.StringVar(&f.render, "render", string(envconfig.NoRender),
		"Render the first run: none, ascii or frames")
	flags.StringVar(&f.out, "out", defaultOut(), "Output directory, or $"+
		outEnv)
	flags.BoolVar(&f.record, "record", false, "Record every episode as "+
		"JSON lines")
	return cmd
}

// envConfig returns the environment configuration described by the
// flags
func (f runFlags) envConfig() (envconfig.Config, error) {
	if f.config != "" {
		return envconfig.Load(f.config)
	}

	name, err := envconfig.ParseEnvName(f.env)
	if err != nil {
		return envconfig.Config{}, err
	}
	c := envconfig.NewConfig(name, f.cutoff, f.seed)
	c.Render = envconfig.RenderMode(f.render)
	c.FrameDir = filepath.Join(f.out, "frames")
	return c, c.Validate()
}

func run(ctx context.Context, f runFlags, stdout, stderr io.Writer) error {
	if f.runs < 1 {
		return fmt.Errorf("run: need at least one run, got %v", f.runs)
	}
	envConf, err := f.envConfig()
	if err != nil {
		return fmt.Errorf("run: %w", err)
	}
	if err := os.MkdirAll(f.out, 0o755); err != nil {
		return fmt.Errorf("run: %w", err)
	}

	conf := experiment.Config{
		Type:     experiment.OnlineExp,
		MaxSteps: f.steps,
		EnvConf:  envConf,
		Agent:    agent.Random,
	}
	if err := saveConfig(filepath.Join(f.out, "config.json"), conf); err != nil {
		return fmt.Errorf("run: %w", err)
	}

	// Rendering to the terminal would garble the progress bar
	var pbar *progressbar.ProgressBar
	if envConf.Render != envconfig.ASCII {
		pbar = progressbar.NewProgressBar(stderr, 40, int(f.steps)*f.runs,
			time.Second)
		pbar.Display()
		defer pbar.Close()
	}

	returns := make([]*trackers.Return[*mat.VecDense], f.runs)
	lengths := make([]*trackers.EpisodeLength[*mat.VecDense], f.runs)
	exps := make([]experiment.Experiment, 0, f.runs)
	var closers []io.Closer

	defer func() {
		for _, c := range closers {
			c.Close()
		}
	}()

	for i := 0; i < f.runs; i++ {
		returns[i] = trackers.NewReturn[*mat.VecDense](filepath.Join(f.out,
			fmt.Sprintf("return_%d.bin", i)))
		lengths[i] = trackers.NewEpisodeLength[*mat.VecDense](
			filepath.Join(f.out, fmt.Sprintf("length_%d.bin", i)))

		runConf := conf
		var opts []experiment.Option[*mat.VecDense, int]
		if i == 0 && envConf.Render != envconfig.NoRender {
			opts = append(opts, experiment.WithRender[*mat.VecDense, int]())
		} else {
			runConf.EnvConf.Render = envconfig.NoRender
		}
		if pbar != nil {
			opts = append(opts, experiment.WithProgress[*mat.VecDense,
				int](pbar))
		}

		var envOpts []envconfig.Option
		envOpts = append(envOpts, envconfig.WithOutput(stdout))
		if f.record {
			file, err := os.Create(filepath.Join(f.out,
				fmt.Sprintf("episodes_%d.jsonl", i)))
			if err != nil {
				return fmt.Errorf("run: %w", err)
			}
			closers = append(closers, file)
			envOpts = append(envOpts, envconfig.WithRecorder(file))
		}

		exp, err := runConf.CreateExp(i, []trackers.Tracker[*mat.VecDense]{
			returns[i], lengths[i]}, envOpts, opts...)
		if err != nil {
			return fmt.Errorf("run: %w", err)
		}

		// Experiments are closed before the recording files they write to
		closers = append([]io.Closer{exp}, closers...)
		exps = append(exps, exp)
	}

	if err := experiment.RunAll(ctx, exps...); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	for _, exp := range exps {
		if err := exp.Save(); err != nil {
			return fmt.Errorf("run: %w", err)
		}
	}
	if pbar != nil {
		pbar.Close()
	}

	return summarise(f.out, stdout, envConf.Environment, returns, lengths)
}

// summarise prints the mean return of each run and draws the per
// episode returns and lengths of all runs
func summarise(out string, w io.Writer, name envconfig.EnvName,
	returns []*trackers.Return[*mat.VecDense],
	lengths []*trackers.EpisodeLength[*mat.VecDense]) error {
	returnSeries := make([]report.Series, 0, len(returns)+1)
	lengthSeries := make([]report.Series, 0, len(lengths)+1)
	returnRuns := make([][]float64, 0, len(returns))
	lengthRuns := make([][]float64, 0, len(lengths))

	for i := range returns {
		ret, length := returns[i].Data(), lengths[i].Data()
		returnRuns = append(returnRuns, ret)
		lengthRuns = append(lengthRuns, length)

		runName := fmt.Sprintf("run %d", i)
		returnSeries = append(returnSeries, report.Series{Name: runName,
			Values: ret})
		lengthSeries = append(lengthSeries, report.Series{Name: runName,
			Values: length})

		if len(ret) == 0 {
			fmt.Fprintf(w, "%v %v: %v\n", name, runName,
				aurora.Yellow("no finished episodes"))
			continue
		}
		fmt.Fprintf(w, "%v %v: %v episodes, mean return %v\n", name,
			runName, len(ret), aurora.Green(fmt.Sprintf("%.2f",
				stat.Mean(ret, nil))))
	}

	if len(returns) > 1 {
		returnSeries = append(returnSeries, report.Series{Name: "mean",
			Values: report.Mean(returnRuns...)})
		lengthSeries = append(lengthSeries, report.Series{Name: "mean",
			Values: report.Mean(lengthRuns...)})
	}

	figures := []struct {
		file   string
		labels report.Labels
		series []report.Series
	}{
		{"returns", report.Labels{Title: string(name) + " return",
			X: "Episode", Y: "Return"}, returnSeries},
		{"lengths", report.Labels{Title: string(name) + " episode length",
			X: "Episode", Y: "Steps"}, lengthSeries},
	}

	for _, fig := range figures {
		err := report.PlotPNG(filepath.Join(out, fig.file+".png"), fig.labels,
			fig.series...)
		if errors.Is(err, report.ErrNoData) {
			continue
		} else if err != nil {
			return fmt.Errorf("summarise: %w", err)
		}

		if err := writeChart(filepath.Join(out, fig.file+".html"),
			fig.labels, fig.series); err != nil {
			return fmt.Errorf("summarise: %w", err)
		}
	}
	return nil
}

func writeChart(path string, labels report.Labels,
	series []report.Series) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := report.ChartHTML(file, labels, series...); err != nil {
		return err
	}
	return file.Close()
}

func saveConfig(path string, conf experiment.Config) error {
	data, err := json.MarshalIndent(conf, "", "\t")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
