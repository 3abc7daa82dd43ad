package commands

import (
	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"

	"github.com/ratetrack/ratetrack/internal/api"
	"github.com/ratetrack/ratetrack/internal/config"
	"github.com/ratetrack/ratetrack/internal/logging"
	"github.com/ratetrack/ratetrack/internal/parser"
	"github.com/ratetrack/ratetrack/internal/rules"
)

func newServeCommand() *cobra.Command {
	var (
		addr      string
		rulesPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the statement conversion HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.Setup(logging.ServerConfig())

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if addr == "" {
				addr = cfg.ListenAddr
			}
			if rulesPath == "" {
				rulesPath = cfg.RulesPath
			}

			var table []rules.Rule
			if rulesPath != "" {
				table, err = rules.LoadFile(rulesPath)
				if err != nil {
					return err
				}
				logger.Info("loaded category rules", "path", rulesPath, "count", len(table))
			}

			app := fiber.New(fiber.Config{
				BodyLimit: 32 << 20, // statements are small, scans are not
			})
			h := &api.Handler{
				Registry: parser.NewRegistry(),
				Rules:    table,
				Lang:     cfg.Language,
				Logger:   logger,
			}
			h.Register(app)

			logger.Info("listening", "addr", addr)
			return app.Listen(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default :8080)")
	cmd.Flags().StringVar(&rulesPath, "rules", "", "path to the category rules file")

	return cmd
}

func newParsersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "parsers",
		Short: "List the registered statement formats",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, e := range parser.NewRegistry().Extractors() {
				cmd.Println(e.Name())
			}
			return nil
		},
	}
}
