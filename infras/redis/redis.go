package redis

import (
	"context"
	"net"
	"stayledger/config"
	"time"

	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const defaultTimeout = 200 * time.Millisecond

// New builds the cache client. Reads and writes go through short timeouts because every
// caller treats the cache as optional. An unreachable server only stops startup when
// RequireOnStartup is set.
func New(cfg *config.Config) *goRedis.Client {
	redisCfg := cfg.Cache.Redis

	timeout := time.Duration(redisCfg.TimeoutMillis) * time.Millisecond
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := goRedis.NewClient(&goRedis.Options{
		Addr:         net.JoinHostPort(redisCfg.Primary.Host, redisCfg.Primary.Port),
		Password:     redisCfg.Primary.Password,
		DB:           redisCfg.Primary.DB,
		PoolSize:     redisCfg.PoolSize,
		DialTimeout:  timeout * 5,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), timeout*5)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		if redisCfg.RequireOnStartup {
			log.Fatal().Err(err).Str("addr", client.Options().Addr).Msg("Failed to connect to Redis")
		}

		log.Warn().Err(err).Str("addr", client.Options().Addr).Msg("Redis unreachable, caching degrades to pass-through")

		return client
	}

	log.Info().
		Int("db", redisCfg.Primary.DB).
		Str("addr", client.Options().Addr).
		Msg("Connected to Redis")

	return client
}
