package migration

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/smallbiznis/officecrm/internal/config"
	followupdomain "github.com/smallbiznis/officecrm/internal/followup/domain"
	invoicedomain "github.com/smallbiznis/officecrm/internal/invoice/domain"
	leaddomain "github.com/smallbiznis/officecrm/internal/lead/domain"
	"github.com/smallbiznis/officecrm/internal/numbering"
	paymentdomain "github.com/smallbiznis/officecrm/internal/payment/domain"
	productdomain "github.com/smallbiznis/officecrm/internal/product/domain"
	projectdomain "github.com/smallbiznis/officecrm/internal/project/domain"
	quotationdomain "github.com/smallbiznis/officecrm/internal/quotation/domain"
	"gorm.io/gorm"
)

const migrationsDir = "migrations"

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// Models lists every persisted type, in dependency order.
func Models() []any {
	return []any{
		&leaddomain.Lead{},
		&productdomain.Product{},
		&quotationdomain.Quotation{},
		&quotationdomain.Item{},
		&invoicedomain.Invoice{},
		&invoicedomain.Item{},
		&projectdomain.Project{},
		&paymentdomain.Payment{},
		&projectdomain.Expense{},
		&followupdomain.Followup{},
		&numbering.DocumentSequence{},
	}
}

// Run brings the schema up to date. Postgres uses the versioned SQL
// migrations; the other dialects are auto-migrated from the models.
func Run(conn *gorm.DB, cfg config.Config) error {
	if strings.EqualFold(strings.TrimSpace(cfg.DBType), "postgres") {
		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return RunMigrations(sqlDB)
	}
	if err := conn.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func RunMigrations(db *sql.DB) error {
	if db == nil {
		return errors.New("migration database handle is required")
	}

	sub, err := fs.Sub(embeddedMigrations, migrationsDir)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	source, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	upErr := migrator.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", upErr)
	}
	// Closing the migrator would close the shared *sql.DB.

	return nil
}
