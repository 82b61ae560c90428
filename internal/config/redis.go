package config

// Redis backs the shared reservation-draft slot on kiosk installs
// where several terminals serve the same visitor session.  Desktop
// installs leave it unconfigured and use the file-backed slot.  If
// the connection cannot be established at startup the constructor
// returns nil and callers degrade to the file store.

import (
    "context"
    "crypto/tls"
    "os"
    "strings"
    "time"

    "github.com/redis/go-redis/v9"
)

// NewRedisClient instantiates a redis client from the loaded Config.
// REDIS_TLS enables TLS when set to "true" or "1".  The returned
// client may be nil if no address is configured or the server does
// not answer a ping within two seconds.
func NewRedisClient(cfg Config) *redis.Client {
    if cfg.RedisAddr == "" {
        return nil
    }
    var tlsConf *tls.Config
    if tlsEnv := os.Getenv("REDIS_TLS"); strings.EqualFold(tlsEnv, "true") || tlsEnv == "1" {
        tlsConf = &tls.Config{InsecureSkipVerify: true}
    }
    client := redis.NewClient(&redis.Options{
        Addr:      cfg.RedisAddr,
        Password:  cfg.RedisPassword,
        DB:        cfg.RedisDB,
        TLSConfig: tlsConf,
    })
    ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
    defer cancel()
    if err := client.Ping(ctx).Err(); err != nil {
        return nil
    }
    return client
}
