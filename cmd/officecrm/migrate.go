package main

import (
	"context"

	"github.com/smallbiznis/officecrm/internal/config"
	"github.com/smallbiznis/officecrm/internal/migration"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply schema migrations and exit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := fx.New(append(infraOptions(),
			fx.Invoke(func(conn *gorm.DB, cfg config.Config, log *zap.Logger) error {
				if err := migration.Run(conn, cfg); err != nil {
					return err
				}
				log.Info("schema up to date", zap.String("type", cfg.DBType))
				return nil
			}),
		)...)
		if err := app.Err(); err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		if err := app.Start(ctx); err != nil {
			return err
		}
		return app.Stop(ctx)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
