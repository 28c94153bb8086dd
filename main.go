package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"meascodec/internal/config"
	"meascodec/internal/convert"
	"meascodec/internal/metrics"
	"meascodec/pkg/meas"
)

// Build metadata - injected at build time
var (
	BuildDate    = "unknown"
	BuildCommit  = "unknown"
	BuildVersion = "dev"
)

// app holds the state shared by the commands of one invocation
type app struct {
	v      *viper.Viper
	out    io.Writer
	errOut io.Writer

	cfg     *config.Config
	logger  *slog.Logger
	metrics *metrics.Metrics
	conv    convert.Converter
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{v: viper.New(), out: out, errOut: errOut}

	root := &cobra.Command{
		Use:   "meascodec",
		Short: "Inspect and convert SOS/SPS measurement documents",
		Long: `meascodec reads and writes the XML messages exchanged with OGC Sensor
Observation Services (SOS 2.0) and Sensor Planning Services (SPS 2.0):
observations with SWE Common results, temporal filters and task status
reports.

Settings come from a YAML file (--config), MEASCODEC_* environment
variables and flags, in increasing precedence.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return a.setup() },
	}
	root.SetOut(out)
	root.SetErr(errOut)

	a.addPersistentFlags(root)
	root.AddCommand(
		a.inspectCmd(),
		a.roundtripCmd(),
		a.validateCmd(),
		a.batchCmd(),
		a.importCmd(),
		a.exampleCmd(),
		a.kindsCmd(),
		versionCmd(),
	)
	return root
}

func (a *app) addPersistentFlags(root *cobra.Command) {
	flags := root.PersistentFlags()
	flags.StringP("config", "c", "", "config file (YAML)")
	flags.String("log-level", "info", "log level: debug, info, warn, error")
	flags.Bool("json", false, "output JSON")
	flags.String("id-prefix", "", "prefix of generated gml:id values (random when empty)")
	flags.String("parameter-prefix", meas.DefaultParameterPrefix, "prefix of generated tasking parameter names")
	flags.Int("indent", meas.DefaultIndent, "indent width of written XML, 0 for compact")
	flags.String("schema-rules", "", "extra structural rules (YAML)")
	flags.String("metrics-file", "", "write Prometheus counters to this textfile")

	for _, name := range []string{"config", "log-level", "json", "id-prefix", "parameter-prefix", "indent", "schema-rules", "metrics-file"} {
		_ = a.v.BindPFlag(name, flags.Lookup(name))
	}
	config.BindEnv(a.v)
}

func (a *app) setup() error {
	cfg, err := config.Resolve(a.v)
	if err != nil {
		return err
	}
	rules, err := cfg.SchemaSettings()
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = slog.New(slog.NewTextHandler(a.errOut, &slog.HandlerOptions{Level: cfg.LogLevel()}))
	a.metrics = metrics.New()
	a.conv = convert.New(
		convert.WithLogger(a.logger),
		convert.WithMetrics(a.metrics),
		convert.WithSchema(rules),
		convert.WithWriteOptions(cfg.WriteOptions()...),
	)
	return nil
}

func (a *app) writeMetrics() error {
	if a.cfg.Metrics.Textfile == "" {
		return nil
	}
	if err := a.metrics.WriteTextfile(a.cfg.Metrics.Textfile); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	a.logger.Debug("metrics written", "path", a.cfg.Metrics.Textfile)
	return nil
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) newTable(header ...any) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(a.out)
	t.AppendHeader(table.Row(header))
	return t
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "meascodec %s (%s) - %s\n", BuildVersion, BuildCommit, BuildDate)
		},
	}
}
