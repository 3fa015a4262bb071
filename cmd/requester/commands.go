package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/kbukum/requester/casing"
	"github.com/kbukum/requester/config"
	"github.com/kbukum/requester/httpclient"
	"github.com/kbukum/requester/logger"
	"github.com/kbukum/requester/observability"
	"github.com/kbukum/requester/requester"
	"github.com/kbukum/requester/version"
)

type flags struct {
	configFile string
	envFile    string
	url        string
	headers    []string
	timeout    time.Duration
	sudo       string
	query      []string
	data       string
	body       string
	form       []string
	files      []string
	page       int
	perPage    int
	raw        bool
	camelize   bool
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	f := &flags{}
	root := &cobra.Command{
		Use:           "requester",
		Short:         "Send requests to a REST API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&f.configFile, "config", "c", "", "config file (default: searched)")
	pf.StringVar(&f.envFile, "env-file", "", ".env file (default: searched)")
	pf.StringVar(&f.url, "url", "", "API base URL, overrides api.url")
	pf.StringArrayVarP(&f.headers, "header", "H", nil, "extra header as name=value (repeatable)")
	pf.DurationVar(&f.timeout, "timeout", 0, "time allowed until response headers arrive")
	pf.StringVar(&f.sudo, "sudo", "", "perform the call as this user")
	pf.StringArrayVarP(&f.query, "query", "q", nil, "query parameter as key=value (repeatable)")
	pf.BoolVar(&f.raw, "raw", false, "print bodies without formatting")
	pf.BoolVar(&f.camelize, "camelize", false, "print response keys in camelCase")

	for _, m := range requester.Methods {
		root.AddCommand(newMethodCommand(m, f, stdout, stderr))
	}
	root.AddCommand(newVersionCommand(stdout))
	return root
}

func newMethodCommand(method requester.Method, f *flags, stdout, stderr io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   string(method) + " <endpoint>",
		Short: fmt.Sprintf("Send a %s request", method),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), method, args[0], f, stdout, stderr)
		},
	}
	if method == requester.MethodPost || method == requester.MethodPut {
		cmd.Flags().StringVarP(&f.data, "data", "d", "", "JSON body, or @path to read it from a file")
		cmd.Flags().StringVar(&f.body, "body", "", "body sent as-is, or @path to stream a file")
		cmd.Flags().StringArrayVarP(&f.form, "form", "F", nil, "multipart field as key=value (repeatable)")
		cmd.Flags().StringArrayVar(&f.files, "file", nil, "multipart file as field=path (repeatable)")
		cmd.MarkFlagsMutuallyExclusive("data", "body", "form")
		cmd.MarkFlagsMutuallyExclusive("data", "body", "file")
	}
	if method == requester.MethodGet {
		cmd.Flags().IntVar(&f.page, "page", 0, "page number sent as the page query parameter")
		cmd.Flags().IntVar(&f.perPage, "per-page", 0, "page size sent as the per_page query parameter")
	}
	return cmd
}

func newVersionCommand(stdout io.Writer) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !asJSON {
				_, err := fmt.Fprintln(stdout, version.Full())
				return err
			}
			enc := json.NewEncoder(stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(version.Get())
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func run(ctx context.Context, method requester.Method, endpoint string, f *flags, stdout, stderr io.Writer) error {
	cfg, err := loadConfig(f)
	if err != nil {
		return err
	}
	logger.Init(cfg.Logging)
	log := logger.WithComponent("cli")

	metrics, shutdown, err := setupTelemetry(ctx, cfg)
	if err != nil {
		return err
	}
	defer shutdown()

	client, err := httpclient.New(httpclient.Config{TLS: &cfg.API.TLS})
	if err != nil {
		return err
	}
	defer client.Close()

	opts, release, err := f.options()
	if err != nil {
		return err
	}
	defer release()

	r := requester.New(requester.NewHTTPTransport(client),
		requester.WithAgentFiles(cfg.AgentFiles()),
		requester.WithLogger(logger.GetGlobalLogger()),
		requester.WithMetrics(metrics),
	)
	start := time.Now()
	resp, err := r.Do(ctx, method, cfg.Service(), endpoint, opts)
	if err != nil {
		return err
	}
	defer resp.Close()

	log.Debug("response received", logger.MergeWithDuration(
		logger.Fields(logger.FieldEndpoint, endpoint, logger.FieldStatus, resp.Status), time.Since(start)))
	printStatus(stderr, resp)
	if method == requester.MethodStream {
		return printEvents(stdout, resp)
	}
	body := resp.Body
	if f.camelize {
		body = casing.CamelizeKeys(body)
	}
	return printBody(stdout, body, f.raw)
}

func loadConfig(f *flags) (*config.Config, error) {
	var opts []config.LoaderOption
	if f.configFile != "" {
		opts = append(opts, config.WithConfigFile(f.configFile))
	}
	if f.envFile != "" {
		opts = append(opts, config.WithEnvFile(f.envFile))
	}

	cfg := &config.Config{}
	if err := config.LoadConfig("requester", cfg, opts...); err != nil {
		return nil, err
	}
	if err := f.apply(cfg); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setupTelemetry(ctx context.Context, cfg *config.Config) (*observability.Metrics, func(), error) {
	if !cfg.Tracing.Enabled {
		return nil, func() {}, nil
	}
	oc := cfg.Observability()
	tp, err := observability.InitTracer(ctx, oc)
	if err != nil {
		return nil, nil, err
	}
	mp, err := observability.InitMeter(ctx, oc)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return nil, nil, err
	}
	shutdown := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mp.Shutdown(ctx); err != nil {
			logger.Warn("metric shutdown failed", logger.ErrorFields("shutdown", err))
		}
		if err := tp.Shutdown(ctx); err != nil {
			logger.Warn("tracer shutdown failed", logger.ErrorFields("shutdown", err))
		}
	}
	metrics, err := observability.NewMetrics(observability.Meter(observability.TracerName()))
	if err != nil {
		shutdown()
		return nil, nil, err
	}
	return metrics, shutdown, nil
}
