// Package cmd provides the root command and CLI setup for pareto.
package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mouse-blink/pareto/internal/adapter"
	"github.com/mouse-blink/pareto/internal/adapter/solvers"
	"github.com/mouse-blink/pareto/internal/controller"
	"github.com/mouse-blink/pareto/internal/domain"
	m "github.com/mouse-blink/pareto/internal/model"
)

var problemStore adapter.ProblemStore
var ui controller.UI
var logger *zap.Logger

var configFlag string
var verboseFlag bool

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func init() {
	ui = controller.NewSimpleUI(rootCmd)
	problemStore = adapter.NewFileProblemStore()
	logger = zap.NewNop()

	cobra.OnInitialize(initConfig)
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pareto",
		Short: "Interactive multiobjective optimization tool",
		Long: `Pareto solves multiobjective optimization problems interactively with the
synchronous NIMBUS method. Problems are defined in JSON or YAML files; each
round the decision-maker states a reference point, the tool derives a
classification of the objectives from it and computes up to four alternative
Pareto optimal solutions to compare.`,
	}

	cmd.PersistentFlags().StringVar(&configFlag, "config", "", "config file (default $HOME/.pareto.yaml)")
	cmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable debug logging")
	cmd.PersistentFlags().String("problem", "", "path to the problem definition file")
	cmd.PersistentFlags().String("solver", "auto", "solver backend: auto, nelder-mead, or proximal")
	cmd.PersistentFlags().Float64("delta", 0, "utopian offset for the scalarizations (0 uses the default)")
	cmd.PersistentFlags().Float64("rho", 0, "augmentation weight for the scalarizations (0 uses the default)")
	cmd.PersistentFlags().String("archive-dsn", "", "PostgreSQL DSN for the solution archive (file-backed when empty)")
	cmd.PersistentFlags().String("archive-file", ".pareto-archive.json", "JSON file for the solution archive when no DSN is set")
	cmd.PersistentFlags().String("user", "local", "decision-maker identity for the archive")

	_ = viper.BindPFlag("problem", cmd.PersistentFlags().Lookup("problem"))
	_ = viper.BindPFlag("solver", cmd.PersistentFlags().Lookup("solver"))
	_ = viper.BindPFlag("delta", cmd.PersistentFlags().Lookup("delta"))
	_ = viper.BindPFlag("rho", cmd.PersistentFlags().Lookup("rho"))
	_ = viper.BindPFlag("archive_dsn", cmd.PersistentFlags().Lookup("archive-dsn"))
	_ = viper.BindPFlag("archive_file", cmd.PersistentFlags().Lookup("archive-file"))
	_ = viper.BindPFlag("user", cmd.PersistentFlags().Lookup("user"))

	return cmd
}

func initConfig() {
	if configFlag != "" {
		viper.SetConfigFile(configFlag)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.SetConfigType("yaml")
			viper.SetConfigName(".pareto")
		}
	}

	viper.SetEnvPrefix("PARETO")
	viper.AutomaticEnv()

	_ = viper.ReadInConfig()

	if verboseFlag {
		l, err := zap.NewDevelopment()
		if err == nil {
			logger = l
		}
	}
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func loadProblem() (m.Problem, error) {
	path := viper.GetString("problem")
	if path == "" {
		return m.Problem{}, fmt.Errorf("%w: no problem file given, use --problem", m.ErrProblem)
	}

	return problemStore.Load(path)
}

func solverFactory(problem m.Problem) (adapter.SolverFactory, error) {
	switch name := viper.GetString("solver"); name {
	case "auto":
		return solvers.GuessBestSolver(problem)
	case "nelder-mead":
		return solvers.NelderMeadFactory(), nil
	case "proximal":
		return solvers.ProximalFactory(), nil
	default:
		return nil, fmt.Errorf("unknown solver backend %q", name)
	}
}

func newMethod(problem m.Problem) (domain.Method, error) {
	factory, err := solverFactory(problem)
	if err != nil {
		return nil, err
	}

	var scalOpts []domain.ScalarizationOption

	if delta := viper.GetFloat64("delta"); delta > 0 {
		scalOpts = append(scalOpts, domain.WithDelta(delta))
	}

	if rho := viper.GetFloat64("rho"); rho > 0 {
		scalOpts = append(scalOpts, domain.WithRho(rho))
	}

	return domain.NewMethod(problem, factory,
		domain.WithScalarizationOptions(scalOpts...),
		domain.WithLogger(logger))
}

func openArchive(problem m.Problem) (*domain.Archive, m.ArchiveKey, error) {
	var (
		store adapter.ArchiveStore
		err   error
	)

	if dsn := viper.GetString("archive_dsn"); dsn != "" {
		store, err = adapter.NewGormArchiveStore(dsn)
		if err != nil {
			return nil, m.ArchiveKey{}, err
		}
	} else {
		// The file default keeps a session alive across invocations, so
		// start, iterate, and archive compose as separate process runs.
		store = adapter.NewFileArchiveStore(viper.GetString("archive_file"))
	}

	key := m.ArchiveKey{
		Problem: problem.Name,
		User:    viper.GetString("user"),
		Method:  "nimbus",
	}

	return domain.NewArchive(problem, store, logger), key, nil
}

// warnOutOfRange logs reference components that fall outside the attainable
// range an objective's ideal and nadir span. They are still passed through,
// the scalarizations tolerate unreachable aspirations.
func warnOutOfRange(problem m.Problem, reference map[string]float64) {
	for _, obj := range problem.Objectives {
		value, given := reference[obj.Symbol]
		if !given {
			continue
		}

		lower, upper, ok := obj.Bounds()
		if !ok {
			continue
		}

		if value < lower || value > upper {
			logger.Warn("reference component outside the attainable range",
				zap.String("objective", obj.Symbol),
				zap.Float64("value", value),
				zap.Float64("lower", lower),
				zap.Float64("upper", upper))
		}
	}
}

// parseAssignments turns repeated "symbol=value" arguments into a map.
func parseAssignments(pairs []string) (map[string]float64, error) {
	out := make(map[string]float64, len(pairs))

	for _, pair := range pairs {
		symbol, raw, found := strings.Cut(pair, "=")
		if !found {
			return nil, fmt.Errorf("malformed assignment %q, expected symbol=value", pair)
		}

		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed assignment %q: %w", pair, err)
		}

		out[symbol] = value
	}

	return out, nil
}
