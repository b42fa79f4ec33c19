package config

import (
	"fmt"
	"sync"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Server struct {
		Env      string `envconfig:"ENV"`
		LogLevel string `envconfig:"LOG_LEVEL"`
		Port     string `envconfig:"PORT"`
		Host     string `envconfig:"HOST"`
		Shutdown struct {
			CleanupPeriodSeconds int64 `envconfig:"CLEANUP_PERIOD_SECONDS"`
			GracePeriodSeconds   int64 `envconfig:"GRACE_PERIOD_SECONDS"`
		} `envconfig:"SHUTDOWN"`
	} `envconfig:"SERVER"`

	App struct {
		Name     string `envconfig:"APP_NAME"`
		Timezone string `envconfig:"TIMEZONE"`
		CORS     struct {
			AllowCredentials bool     `envconfig:"ALLOW_CREDENTIALS"`
			AllowedHeaders   []string `envconfig:"ALLOWED_HEADERS"`
			AllowedMethods   []string `envconfig:"ALLOWED_METHODS"`
			AllowedOrigins   []string `envconfig:"ALLOWED_ORIGINS"`
			Enable           bool     `envconfig:"ENABLE"`
			MaxAgeSeconds    int      `envconfig:"MAX_AGE_SECONDS"`
		} `envconfig:"CORS"`
		RateLimiter struct {
			Enable        bool `envconfig:"ENABLE"`
			MaxRequests   int  `envconfig:"MAX_REQUESTS"`
			WindowSeconds int  `envconfig:"WINDOW_SECONDS"`
		} `envconfig:"RATE_LIMITER"`
		APIKey string `envconfig:"API_KEY"`
	} `envconfig:"APP"`

	Cache struct {
		Redis struct {
			Primary struct {
				Host     string `envconfig:"HOST"`
				Port     string `envconfig:"PORT"`
				Password string `envconfig:"PASSWORD"`
				DB       int    `envconfig:"DB"`
			} `envconfig:"PRIMARY"`
			PoolSize         int  `envconfig:"POOL_SIZE"          default:"20"`
			TimeoutMillis    int  `envconfig:"TIMEOUT_MILLIS"     default:"200"`
			RequireOnStartup bool `envconfig:"REQUIRE_ON_STARTUP"`
		} `envconfig:"REDIS"`
		TTL int `envconfig:"TTL"`
	} `envconfig:"CACHE"`

	JWT struct {
		AccessSecret  string `envconfig:"ACCESS_SECRET"`
		Issuer        string `envconfig:"ISSUER"`
		Audience      string `envconfig:"AUDIENCE"`
		LeewaySeconds int    `envconfig:"LEEWAY_SECONDS" default:"30"`
	} `envconfig:"JWT"`

	DB struct {
		Postgres struct {
			MaxRetry       int    `envconfig:"MAX_RETRY"`
			RetryWaitTime  int    `envconfig:"RETRY_WAIT_TIME"`
			TxMaxRetry     int    `envconfig:"TX_MAX_RETRY"     default:"3"`
			MaxOpenConns   int    `envconfig:"MAX_OPEN_CONNS"   default:"10"`
			MaxIdleConns   int    `envconfig:"MAX_IDLE_CONNS"   default:"10"`
			ConnMaxMinutes int    `envconfig:"CONN_MAX_MINUTES" default:"30"`
			MigrationTable string `envconfig:"MIGRATION_TABLE"`
			AutoMigrate    bool   `envconfig:"AUTO_MIGRATE"`
			Prefix         string `envconfig:"PREFIX"`
			Read           struct {
				Host     string `envconfig:"HOST"`
				Port     string `envconfig:"PORT"`
				Username string `envconfig:"USER"`
				Password string `envconfig:"PASSWORD"`
				Name     string `envconfig:"NAME"`
				Timezone string `envconfig:"TIMEZONE"`
				SSLMode  string `envconfig:"SSL_MODE"`
			} `envconfig:"READ"`
			Write struct {
				Host     string `envconfig:"HOST"`
				Port     string `envconfig:"PORT"`
				Username string `envconfig:"USER"`
				Password string `envconfig:"PASSWORD"`
				Name     string `envconfig:"NAME"`
				Timezone string `envconfig:"TIMEZONE"`
				SSLMode  string `envconfig:"SSL_MODE"`
			} `envconfig:"WRITE"`
		} `envconfig:"POSTGRES"`
	} `envconfig:"DB"`

	Kafka struct {
		Enable        bool     `envconfig:"ENABLE"`
		Brokers       []string `envconfig:"BROKERS"`
		ConsumerGroup string   `envconfig:"CONSUMER_GROUP" default:"stayledger"`
		SASL          struct {
			Username string `envconfig:"USERNAME"`
			Password string `envconfig:"PASSWORD"`
		} `envconfig:"SASL"`
		Topics struct {
			BookingConfirmed string `envconfig:"BOOKING_CONFIRMED" default:"booking.confirmed"`
			BookingCancelled string `envconfig:"BOOKING_CANCELLED" default:"booking.cancelled"`
		} `envconfig:"TOPICS"`
	} `envconfig:"KAFKA"`

	Booking struct {
		MinAdvanceDays int `envconfig:"MIN_ADVANCE_DAYS"`
		MaxGuests      int `envconfig:"MAX_GUESTS"       default:"16"`
	} `envconfig:"BOOKING"`

	Pricing struct {
		PlatformFeePercent string `envconfig:"PLATFORM_FEE_PERCENT" default:"0"`
	} `envconfig:"PRICING"`

	Payment struct {
		Provider            string `envconfig:"PROVIDER"              default:"sandbox"`
		URL                 string `envconfig:"URL"`
		APIKey              string `envconfig:"API_KEY"`
		TimeoutSeconds      int    `envconfig:"TIMEOUT_SECONDS"       default:"10"`
		PendingStaleSeconds int    `envconfig:"PENDING_STALE_SECONDS" default:"60"`
		ExpireAfterSeconds  int    `envconfig:"EXPIRE_AFTER_SECONDS"  default:"900"`
	} `envconfig:"PAYMENT"`

	Reconciler struct {
		IntervalSeconds  int    `envconfig:"INTERVAL_SECONDS"   default:"30"`
		BatchSize        int    `envconfig:"BATCH_SIZE"         default:"100"`
		UnpaidTTLMinutes int    `envconfig:"UNPAID_TTL_MINUTES" default:"30"`
		ReportDirectory  string `envconfig:"REPORT_DIRECTORY"   default:"reconciler"`
		UploadReport     bool   `envconfig:"UPLOAD_REPORT"`
		ConsumeCancelled bool   `envconfig:"CONSUME_CANCELLED"`
	} `envconfig:"RECONCILER"`

	External struct {
		Otel struct {
			Endpoint    string  `envconfig:"ENDPOINT"`
			SampleRatio float64 `envconfig:"SAMPLE_RATIO" default:"1"`
		} `envconfig:"OTEL"`
		S3 struct {
			BucketName      string `envconfig:"BUCKET_NAME"`
			APIEndpoint     string `envconfig:"API_ENDPOINT"`
			PublicDomain    string `envconfig:"PUBLIC_DOMAIN"`
			Region          string `envconfig:"REGION"            default:"auto"`
			AccessKeyID     string `envconfig:"ACCESS_KEY_ID"`
			SecretAccessKey string `envconfig:"SECRET_ACCESS_KEY"`
		} `envconfig:"S3"`
	} `envconfig:"EXTERNAL"`
}

var (
	conf        Config
	once        sync.Once
	initialized bool
)

func Init() error {
	var err error

	once.Do(func() {
		err = godotenv.Load(".env")
		if err != nil {
			log.Warn().Err(err).Msg("Could not load .env file, continuing with existing environment variables")
		} else {
			log.Info().Msg("Successfully loaded variables from .env file into environment")
		}

		err = envconfig.Process("", &conf)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to process environment variables")
		}

		initialized = true

		log.Info().Msg("Service configuration initialized successfully")
	})

	if err != nil {
		return fmt.Errorf("loading .env file: %w", err)
	}

	return nil
}

func Get() *Config {
	if !initialized {
		if err := Init(); err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize configuration")
		}
	}

	return &conf
}
