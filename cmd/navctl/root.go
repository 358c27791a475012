package main

import (
	"time"

	"consolenav/internal/client"
	"consolenav/internal/config"
	"consolenav/internal/logging"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// globals are the persistent flags shared by every subcommand.
type globals struct {
	baseURL    string
	apiKey     string
	pageSize   int
	maxRetries int
	timeout    time.Duration
	logFormat  string
	logLevel   string

	logger  zerolog.Logger
	console *client.Console
}

func newRootCmd() *cobra.Command {
	cfg := config.LoadEnv()
	g := &globals{}

	root := &cobra.Command{
		Use:           "navctl",
		Short:         "Browse console apps and datasets page by page",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logCfg, err := logging.ParseConfig(g.logFormat, g.logLevel)
			if err != nil {
				return err
			}
			g.logger = logging.New(logCfg, cmd.ErrOrStderr(), cmd.Name())
			g.console = client.NewConsole(client.ConsoleOptions{
				BaseURL:    g.baseURL,
				APIKey:     g.apiKey,
				Timeout:    g.timeout,
				MaxRetries: g.maxRetries,
			})
			return nil
		},
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&g.baseURL, "url", cfg.Client.BaseURL, "console API base URL")
	pf.StringVar(&g.apiKey, "api-key", cfg.Client.APIKey, "workspace API key (csk_...)")
	pf.IntVar(&g.pageSize, "page-size", cfg.Client.PageSize, "items per page")
	pf.IntVar(&g.maxRetries, "retries", cfg.Client.MaxRetries, "retries for transient failures")
	pf.DurationVar(&g.timeout, "timeout", cfg.Client.Timeout, "per-request timeout")
	pf.StringVar(&g.logFormat, "log-format", "console", "log format: json or console")
	pf.StringVar(&g.logLevel, "log-level", "warn", "log level")

	root.AddCommand(
		newListCmd(g, resourceApps),
		newListCmd(g, resourceDatasets),
		newNavCmd(g),
		newCreateCmd(g),
	)
	return root
}
