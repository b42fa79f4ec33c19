package postgres

//nolint:revive
import (
	"context"
	"fmt"
	"net"
	"net/url"
	"stayledger/config"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	driverName  = "postgres"
	pingTimeout = 5 * time.Second
)

// Connection splits reads from writes. Both may point at the same pool.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

// Endpoint is one side of the read/write split as it appears in configuration.
type Endpoint struct {
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	SSLMode  string
}

// DSN renders e as a postgres URL. Extra query parameters, such as x-migrations-table, are appended.
func (e Endpoint) DSN(extra url.Values) string {
	query := url.Values{}
	if e.SSLMode != "" {
		query.Set("sslmode", e.SSLMode)
	}

	for key, values := range extra {
		for _, value := range values {
			if value != "" {
				query.Add(key, value)
			}
		}
	}

	dsn := url.URL{
		Scheme:   driverName,
		User:     url.UserPassword(e.Username, e.Password),
		Host:     net.JoinHostPort(e.Host, e.Port),
		Path:     "/" + e.Name,
		RawQuery: query.Encode(),
	}

	return dsn.String()
}

// WriteEndpoint is also the endpoint migrations run against.
func WriteEndpoint(cfg *config.Config) Endpoint {
	w := cfg.DB.Postgres.Write

	return Endpoint{
		Host:     w.Host,
		Port:     w.Port,
		Username: w.Username,
		Password: w.Password,
		Name:     cfg.DB.Postgres.Prefix + w.Name,
		SSLMode:  w.SSLMode,
	}
}

func ReadEndpoint(cfg *config.Config) Endpoint {
	r := cfg.DB.Postgres.Read

	return Endpoint{
		Host:     r.Host,
		Port:     r.Port,
		Username: r.Username,
		Password: r.Password,
		Name:     cfg.DB.Postgres.Prefix + r.Name,
		SSLMode:  r.SSLMode,
	}
}

func New(cfg *config.Config) *Connection {
	write := connect(cfg, "write", WriteEndpoint(cfg))

	read := write
	if replica := ReadEndpoint(cfg); replica.Host != "" && replica != WriteEndpoint(cfg) {
		read = connect(cfg, "read", replica)
	}

	return &Connection{Read: read, Write: write}
}

// connect keeps trying for MAX_RETRY attempts and gives up the process when the database never answers.
func connect(cfg *config.Config, role string, endpoint Endpoint) *sqlx.DB {
	attempts := max(cfg.DB.Postgres.MaxRetry, 1)
	wait := time.Duration(max(cfg.DB.Postgres.RetryWaitTime, 1)) * time.Second

	logger := log.With().Str("role", role).Str("host", endpoint.Host).Str("db", endpoint.Name).Logger()

	var err error

	for attempt := 1; attempt <= attempts; attempt++ {
		var db *sqlx.DB

		if db, err = open(endpoint.DSN(nil)); err == nil {
			applyPool(cfg, db)
			logger.Info().Int("attempt", attempt).Msg("Connected to database")

			return db
		}

		logger.Warn().Err(err).Int("attempt", attempt).Dur("wait", wait).Msg("Database not reachable")

		if attempt < attempts {
			time.Sleep(wait)
		}
	}

	logger.Fatal().Err(err).Msg("Giving up on database")

	return nil
}

func open(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

func applyPool(cfg *config.Config, db *sqlx.DB) {
	db.SetMaxOpenConns(max(cfg.DB.Postgres.MaxOpenConns, 1))
	db.SetMaxIdleConns(max(cfg.DB.Postgres.MaxIdleConns, 0))
	db.SetConnMaxLifetime(time.Duration(cfg.DB.Postgres.ConnMaxMinutes) * time.Minute)
}

// NewFromURL opens a single pool used for both reads and writes.
func NewFromURL(dsn string) (*Connection, error) {
	db, err := open(dsn)
	if err != nil {
		return nil, err
	}

	return &Connection{Read: db, Write: db}, nil
}

func (c *Connection) Close() {
	closed := map[*sqlx.DB]bool{}

	for _, db := range []*sqlx.DB{c.Write, c.Read} {
		if db == nil || closed[db] {
			continue
		}

		closed[db] = true

		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close database connection")
		}
	}
}
