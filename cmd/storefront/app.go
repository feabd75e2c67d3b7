package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/smarttech/storefront/internal/cart"
	"github.com/smarttech/storefront/internal/checkout"
	"github.com/smarttech/storefront/internal/storefront"
	"github.com/smarttech/storefront/pkg/apiclient"
	"github.com/smarttech/storefront/pkg/config"
	pkgerrors "github.com/smarttech/storefront/pkg/errors"
	"github.com/smarttech/storefront/pkg/kv"
	"github.com/smarttech/storefront/pkg/logger"
	"github.com/smarttech/storefront/pkg/metrics"
)

const usage = `usage: storefront [-api URL] [-json] [-metrics] <command> [flags]

shop:
  products                     list the catalog
  product -id N                show one product
  cart show|add|update|remove|clear
  checkout -name -email -phone [-address -city -country -requirements -delivery]
  checkout-status              show an unfinished checkout attempt
  checkout-abandon             forget an unfinished checkout attempt
  chat -message TEXT [-session ID] [-lang en]
  chat-history -session ID
  health

admin:
  admin login|logout|status|me|stats|orders|order|order-update|order-delete
  admin upload-image|upload-video|files|file-delete|product-media
`

// env is what the commands run against. Tests swap in their own store and HTTP client.
type env struct {
	cfg        *config.Config
	logg       *logger.Logger
	store      kv.Store
	httpClient *http.Client
	stdin      io.Reader
	stdout     io.Writer
	stderr     io.Writer
}

type app struct {
	env
	api      *storefront.Client
	cart     *cart.Service
	checkout *checkout.Service
	registry *prometheus.Registry
	asJSON   bool
}

type command func(ctx context.Context, a *app, args []string) error

var commands = map[string]command{
	"products":         cmdProducts,
	"product":          cmdProduct,
	"cart":             cmdCart,
	"checkout":         cmdCheckout,
	"checkout-status":  cmdCheckoutStatus,
	"checkout-abandon": cmdCheckoutAbandon,
	"chat":             cmdChat,
	"chat-history":     cmdChatHistory,
	"health":           cmdHealth,
	"admin":            cmdAdmin,
}

// run parses global flags, dispatches the subcommand and returns the exit code.
func run(ctx context.Context, args []string, e env) int {
	if e.logg == nil {
		e.logg = logger.Nop()
	}
	fs := flag.NewFlagSet("storefront", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	fs.Usage = func() { fmt.Fprint(e.stderr, usage) }
	baseURL := fs.String("api", e.cfg.API.BaseURL, "backend base URL")
	asJSON := fs.Bool("json", false, "print raw JSON")
	showMetrics := fs.Bool("metrics", false, "print request metrics to stderr when done")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}
	name := fs.Arg(0)
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(e.stderr, "unknown command %q\n\n", name)
		fs.Usage()
		return 2
	}

	a, err := newApp(e, *baseURL)
	if err != nil {
		fmt.Fprintln(e.stderr, err)
		return 1
	}
	a.asJSON = *asJSON

	err = cmd(ctx, a, fs.Args()[1:])
	if *showMetrics {
		a.printMetrics()
	}
	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(e.stderr, userMessage(err))
		}
		if errors.Is(err, flag.ErrHelp) || errors.Is(err, errUsage) {
			return 2
		}
		return 1
	}
	return 0
}

func newApp(e env, baseURL string) (*app, error) {
	httpClient := e.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: e.cfg.API.Timeout}
	}
	registry := prometheus.NewRegistry()
	client, err := apiclient.New(baseURL,
		apiclient.WithHTTPClient(httpClient),
		apiclient.WithLogger(e.logg),
		apiclient.WithUserAgent(e.cfg.API.UserAgent),
		apiclient.WithMetrics(metrics.NewAPIClientMetrics(registry)),
	)
	if err != nil {
		return nil, err
	}
	api := storefront.New(client, storefront.NewTokenStore(e.store), e.logg)
	cartStore := cart.NewStore(e.store, e.logg)
	return &app{
		env:      e,
		api:      api,
		cart:     cart.NewService(cartStore),
		checkout: checkout.NewService(api, cartStore, e.store, e.logg),
		registry: registry,
	}, nil
}

var (
	// errReported marks a failure whose message was already printed.
	errReported = errors.New("reported")
	errUsage    = errors.New("invalid usage")
)

func usageError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errUsage, fmt.Sprintf(format, args...))
}

// userMessage turns an error into the line shown to the person at the terminal.
func userMessage(err error) string {
	if apiErr, ok := apiclient.AsError(err); ok {
		return apiErr.Message
	}
	if appErr := pkgerrors.As(err); appErr != nil {
		if details, ok := appErr.Details().(map[string]string); ok && len(details) > 0 {
			fields := make([]string, 0, len(details))
			for field := range details {
				fields = append(fields, field)
			}
			sort.Strings(fields)
			parts := make([]string, 0, len(fields))
			for _, field := range fields {
				parts = append(parts, field+" "+details[field])
			}
			return strings.Join(parts, "; ")
		}
		return appErr.Message()
	}
	return err.Error()
}

func (a *app) printMetrics() {
	families, err := a.registry.Gather()
	if err != nil {
		fmt.Fprintln(a.stderr, "metrics unavailable:", err)
		return
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			switch {
			case m.GetCounter() != nil:
				fmt.Fprintf(a.stderr, "%s{%s} %g\n", mf.GetName(), strings.Join(labels, ","), m.GetCounter().GetValue())
			case m.GetHistogram() != nil:
				h := m.GetHistogram()
				fmt.Fprintf(a.stderr, "%s{%s} count=%d sum=%.3fs\n", mf.GetName(), strings.Join(labels, ","), h.GetSampleCount(), h.GetSampleSum())
			}
		}
	}
}
