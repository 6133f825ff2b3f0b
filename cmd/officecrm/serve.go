package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/officecrm/internal/artifact"
	"github.com/smallbiznis/officecrm/internal/clock"
	"github.com/smallbiznis/officecrm/internal/config"
	"github.com/smallbiznis/officecrm/internal/document"
	"github.com/smallbiznis/officecrm/internal/followup"
	"github.com/smallbiznis/officecrm/internal/invoice"
	"github.com/smallbiznis/officecrm/internal/lead"
	"github.com/smallbiznis/officecrm/internal/logger"
	"github.com/smallbiznis/officecrm/internal/migration"
	"github.com/smallbiznis/officecrm/internal/numbering"
	"github.com/smallbiznis/officecrm/internal/observability"
	"github.com/smallbiznis/officecrm/internal/payment"
	"github.com/smallbiznis/officecrm/internal/product"
	"github.com/smallbiznis/officecrm/internal/project"
	"github.com/smallbiznis/officecrm/internal/providers"
	"github.com/smallbiznis/officecrm/internal/quotation"
	"github.com/smallbiznis/officecrm/internal/ratelimit"
	"github.com/smallbiznis/officecrm/internal/scheduler"
	"github.com/smallbiznis/officecrm/internal/server"
	"github.com/smallbiznis/officecrm/pkg/db"
	"github.com/smallbiznis/officecrm/pkg/redis"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := fx.New(appOptions()...)
		if err := app.Err(); err != nil {
			return err
		}
		app.Run()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// infraOptions wires configuration, logging, observability and the database.
func infraOptions() []fx.Option {
	return []fx.Option{
		config.Module,
		logger.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		redis.Module,
		clock.Module,
	}
}

func appOptions() []fx.Option {
	return append(infraOptions(),
		migration.Module,
		ratelimit.Module,
		numbering.Module,
		document.Module,
		providers.Module,
		artifact.Module,

		lead.Module,
		product.Module,
		followup.Module,
		quotation.Module,
		invoice.Module,
		payment.Module,
		project.Module,

		scheduler.Module,
		server.Module,
	)
}

func RegisterSnowflake(cfg config.Config) (*snowflake.Node, error) {
	return snowflake.NewNode(cfg.NodeID)
}
