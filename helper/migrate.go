package helper

//nolint:revive
import (
	"errors"
	"fmt"
	"net/url"
	"stayledger/config"
	"stayledger/infras/postgres"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

const SourceURL = "file://migrations/postgres"

// Actions understood by Runner.
const (
	ActionUp     = "up"
	ActionStepUp = "step-up"
	ActionDown   = "down"
	ActionDrop   = "drop"
)

var actions = map[string]func(*migrate.Migrate) error{
	ActionUp:     (*migrate.Migrate).Up,
	ActionStepUp: func(m *migrate.Migrate) error { return m.Steps(1) },
	ActionDown:   func(m *migrate.Migrate) error { return m.Steps(-1) },
	ActionDrop:   (*migrate.Migrate).Down,
}

// Runner applies action to the write database using the migrations under ./migrations/postgres.
func Runner(cfg *config.Config, action string) error {
	dsn := postgres.WriteEndpoint(cfg).DSN(url.Values{
		"x-migrations-table": {cfg.DB.Postgres.MigrationTable},
	})

	return run(SourceURL, dsn, action)
}

// UpFromURL applies every pending migration found at sourceURL to the database at databaseURL.
func UpFromURL(sourceURL, databaseURL string) error {
	return run(sourceURL, databaseURL, ActionUp)
}

func run(sourceURL, databaseURL, action string) error {
	apply, ok := actions[action]
	if !ok {
		return fmt.Errorf("unknown migration action %q", action)
	}

	mig, err := migrate.New(sourceURL, databaseURL)
	if err != nil {
		return fmt.Errorf("error creating migrate instance: %w", err)
	}

	defer func() {
		if srcErr, dbErr := mig.Close(); srcErr != nil || dbErr != nil {
			log.Warn().AnErr("source", srcErr).AnErr("database", dbErr).Msg("failed to close migrator")
		}
	}()

	if err = apply(mig); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration %s failed: %w", action, err)
	}

	version, dirty, _ := mig.Version()
	log.Info().Str("action", action).Uint("version", version).Bool("dirty", dirty).Msg("Database migrations applied")

	return nil
}

func Up(cfg *config.Config) error {
	return Runner(cfg, ActionUp)
}
