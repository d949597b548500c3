package main

import (
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/arolang/aro-sub008/actions"
	"github.com/arolang/aro-sub008/events"
	"github.com/arolang/aro-sub008/internal/filemon"
	"github.com/arolang/aro-sub008/internal/fsx"
	"github.com/arolang/aro-sub008/internal/metrics"
	"github.com/arolang/aro-sub008/registry"
	"github.com/arolang/aro-sub008/runtimectx"
	"github.com/arolang/aro-sub008/value"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"
)

// config holds process-level runtime settings bound to cobra flags and
// overridable by ARO_* environment variables through viper.
type config struct {
	v *viper.Viper
}

func newConfig() *config {
	v := viper.New()
	v.SetEnvPrefix("aro")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.SetDefault("output-context", "human")
	v.SetDefault("business-activity", "cli")
	return &config{v: v}
}

func (c *config) bind(cmd *cobra.Command) {
	_ = c.v.BindPFlags(cmd.PersistentFlags())
}

func (c *config) outputContext() runtimectx.OutputContext {
	switch c.v.GetString("output-context") {
	case "machine":
		return runtimectx.OutputMachine
	case "developer":
		return runtimectx.OutputDeveloper
	default:
		return runtimectx.OutputHuman
	}
}

// rootCommand assembles the cobra command tree: a root command with
// two subcommands, output-context/business-activity flags bound
// through viper.
func rootCommand() *cobra.Command {
	cfg := newConfig()

	root := &cobra.Command{
		Use:           "aro",
		Short:         "ARO runtime core",
		Long:          "Interprets ARO feature sets against a registry of canonical actions.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().String("output-context", "human", "Log action output format: machine|human|developer")
	root.PersistentFlags().String("business-activity", "cli", "Business activity tag for ad-hoc activations")
	root.PersistentFlags().Float64("outbound-rate-limit", 0, "Requests/sec cap on Request's outbound calls; 0 disables limiting")
	cfg.bind(root)

	root.AddCommand(newActionsCommand())
	root.AddCommand(newVersionCommand())
	return root
}

// defaultMetrics registers the process-wide counters with the default
// Prometheus registerer once, however many runtimes newRuntime builds.
var defaultMetrics = sync.OnceValue(func() *metrics.Metrics {
	return metrics.New(prometheus.DefaultRegisterer)
})

// newRuntime wires a Registry, Bus and ExecutionContext the way a
// hosting application would, registering the filesystem/file-monitor/
// parameter-storage/metrics services cmd/aro owns, plus an optional
// outbound rate limiter when --outbound-rate-limit is set.
func newRuntime(cfg *config) (*registry.Registry, *runtimectx.ExecutionContext) {
	reg := registry.New()
	for _, impl := range actions.All() {
		reg.Register(impl)
	}

	bus := events.New(nil)
	ctx := runtimectx.New("cli", cfg.v.GetString("business-activity"), bus)
	ctx.OutputContextKind = cfg.outputContext()

	runtimectx.Register[fsx.FileSystem](ctx, fsx.NewOS())
	runtimectx.Register[actions.FileMonitorService](ctx, filemon.NewRegistry(bus))
	runtimectx.Register[actions.ParameterStorage](ctx, newEnvParameterStorage())
	runtimectx.Register[*metrics.Metrics](ctx, defaultMetrics())

	if limit := cfg.v.GetFloat64("outbound-rate-limit"); limit > 0 {
		runtimectx.Register[actions.RateLimiter](ctx, rate.NewLimiter(rate.Limit(limit), 1))
	}

	return reg, ctx
}

// envParameterStorage backs the §6 ParameterStorage contract off the
// host process's environment, the "environment variables" half of the
// two CLI contracts the core relies on.
type envParameterStorage struct{}

func newEnvParameterStorage() *envParameterStorage { return &envParameterStorage{} }

func (envParameterStorage) Get(name string) (value.Value, bool) {
	v, ok := os.LookupEnv(name)
	if !ok {
		return value.Value{}, false
	}
	return value.String(v), true
}

func (envParameterStorage) GetAll() map[string]value.Value {
	out := map[string]value.Value{}
	for _, kv := range os.Environ() {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) == 2 {
			out[parts[0]] = value.String(parts[1])
		}
	}
	return out
}
