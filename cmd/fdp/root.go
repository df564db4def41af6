package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ktritz/fdp/internal/logger"
	"github.com/ktritz/fdp/internal/metrics"
	"github.com/ktritz/fdp/internal/namespace"
	"github.com/ktritz/fdp/internal/plugin"
	"github.com/ktritz/fdp/internal/signal"
)

const (
	pluginDirEnv = "FDP_DIR"
	configDirEnv = "FDP_CONFIG"
)

type rootFlags struct {
	verbose   bool
	pluginDir string
	configDir string
	metrics   bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "fdp",
		Short:         "fdp resolves fusion facility namespaces and their signal metadata",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringVar(&flags.pluginDir, "plugins", os.Getenv(pluginDirEnv), "Plugin root directory (default $"+pluginDirEnv+")")
	cmd.PersistentFlags().BoolVar(&flags.metrics, "metrics", false, "Write collected metrics to stderr when the command finishes")
	cmd.PersistentFlags().StringVar(&flags.configDir, "config", os.Getenv(configDirEnv), "Directory of facility documents (default $"+configDirEnv+")")

	cmd.AddCommand(newMachinesCmd())
	cmd.AddCommand(newResolveCmd(flags))
	cmd.AddCommand(newSignalsCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// session is the namespace a single command invocation works against.
type session struct {
	root    *namespace.Root
	log     *logger.Logger
	metrics *metrics.Metrics
	dump    bool
}

func newSession(cmd *cobra.Command, flags *rootFlags) (*session, error) {
	level := "warn"
	if flags.verbose {
		level = "debug"
	}

	errOut := cmd.ErrOrStderr()
	log, err := logger.New(logger.Options{
		Level:         level,
		HumanReadable: isTerminal(errOut),
		Writer:        errOut,
	})
	if err != nil {
		return nil, newCommandError("start", "configuring logging", err, "Check the --verbose flag value.")
	}

	m := metrics.New()
	opts := []namespace.RootOption{
		namespace.WithLogger(log),
		namespace.WithMetrics(m),
		namespace.WithParser(signal.NewParser(
			signal.WithPathCache(signal.NewPathCache(signal.WithCacheMetrics(m))),
			signal.WithParserLogger(log),
		)),
	}
	if flags.pluginDir != "" {
		opts = append(opts, namespace.WithLoader(plugin.NewLoader(flags.pluginDir,
			plugin.WithLogger(log),
			plugin.WithMetrics(m),
		)))
	}
	if flags.configDir != "" {
		opts = append(opts, namespace.WithConfigDir(flags.configDir))
	}

	return &session{root: namespace.NewRoot(opts...), log: log, metrics: m, dump: flags.metrics}, nil
}

// flushMetrics writes the session's counters to stderr when --metrics is set.
func (s *session) flushMetrics(cmd *cobra.Command) {
	if !s.dump {
		return
	}
	if err := s.metrics.WriteText(cmd.ErrOrStderr()); err != nil {
		s.log.Warn("writing metrics failed", "error", err.Error())
	}
}

func isTerminal(w io.Writer) bool {
	if file, ok := w.(*os.File); ok {
		return term.IsTerminal(int(file.Fd()))
	}
	return false
}
