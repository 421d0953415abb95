package cmd

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"

	"github.com/crednx/statement-engine/internal/api"
	"github.com/crednx/statement-engine/internal/session"
)

var (
	portFlag       int
	sessionDirFlag string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the statement conversion HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := session.NewStore(sessionDirFlag, log)
		if err != nil {
			return err
		}

		app := fiber.New(fiber.Config{
			AppName:   "statement-engine " + api.Version,
			BodyLimit: 32 * 1024 * 1024,
		})
		app.Use(recover.New())
		app.Use(fiberlog.New())

		handler := api.NewHandler(registry, store, log)
		handler.RegisterRoutes(app)

		addr := fmt.Sprintf(":%d", portFlag)
		log.Info().Str("addr", addr).Str("sessions", sessionDirFlag).Msg("starting server")
		return app.Listen(addr)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&portFlag, "port", "p", 8080, "port to listen on")
	serveCmd.Flags().StringVar(&sessionDirFlag, "sessions", "./sessions", "directory for session data")
	rootCmd.AddCommand(serveCmd)
}
