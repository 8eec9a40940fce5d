package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hanpama/supergraph/composition"
	"github.com/hanpama/supergraph/internal/logging"
	"github.com/hanpama/supergraph/internal/otel"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	err := cmd.Execute()
	if err != nil {
		fmt.Fprintln(stderr, "Error:", err)
	}
	return err
}

type globalFlags struct {
	logLevel       string
	logDevelopment bool
	otelEndpoint   string
	otelService    string
}

// session holds what every composing command sets up before it runs.
type session struct {
	logger   *zap.Logger
	bus      *composition.EventBus
	shutdown func(context.Context) error
}

func (g *globalFlags) open() (*session, error) {
	logger, err := logging.New(g.logLevel, g.logDevelopment)
	if err != nil {
		return nil, err
	}
	bus := composition.NewEventBus()
	logging.Subscribe(bus, logger)
	shutdown, err := otel.Setup(bus, g.otelEndpoint, g.otelService)
	if err != nil {
		return nil, err
	}
	return &session{logger: logger, bus: bus, shutdown: shutdown}, nil
}

func (s *session) close() {
	if err := s.shutdown(context.Background()); err != nil {
		s.logger.Warn("shut down tracing", zap.Error(err))
	}
	_ = s.logger.Sync()
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:           "supergraph",
		Short:         "Compose federated GraphQL subgraphs into a supergraph",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := root.PersistentFlags()
	flags.StringVar(&g.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flags.BoolVar(&g.logDevelopment, "log-development", false, "human readable development logging")
	flags.StringVar(&g.otelEndpoint, "otel-endpoint", "", "OTLP/gRPC collector endpoint; tracing is off when empty")
	flags.StringVar(&g.otelService, "otel-service", "supergraph", "OpenTelemetry service name")

	root.AddCommand(
		newComposeCmd(g),
		newNormalizeCmd(g),
		newRouterProtoCmd(),
		newVersionCmd(),
	)
	return root
}
