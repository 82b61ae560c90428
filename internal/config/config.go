package config // package config loads client configuration from environment variables

import (
    "log"     // log reports configuration errors and halts execution
    "os"      // os provides access to environment variables
    "strconv" // strconv converts strings to other types
    "time"    // time parses duration settings

    "github.com/joho/godotenv" // godotenv loads a local .env file when present
)

// Config holds all runtime configuration for the ticketing client.
// Each field corresponds to an environment variable.  Strings for
// addresses and paths, durations for timeouts.
type Config struct {
    APIBaseURL     string        // base URL of the Cinephoria API
    RequestTimeout time.Duration // per-request HTTP timeout
    LoginWait      time.Duration // how long to wait for a session change after login
    DataDir        string        // directory for the token and draft files
    VenueTimeZone  string        // IANA zone used to format screening times
    RedisAddr      string        // optional redis host:port for the shared draft slot
    RedisPassword  string        // optional redis password
    RedisDB        int           // redis database number
}

// Load reads configuration from the environment.  A .env file in the
// working directory is loaded first when present; a missing file is
// not an error.  Only the API base URL is required; everything else
// has a sensible default for a desktop install.
func Load() Config {
    _ = godotenv.Load()

    return Config{
        APIBaseURL:     must("CINEPHORIA_API_URL"),
        RequestTimeout: dur("CINEPHORIA_REQUEST_TIMEOUT", "10s"),
        LoginWait:      dur("CINEPHORIA_LOGIN_WAIT", "5s"),
        DataDir:        getenv("CINEPHORIA_DATA_DIR", defaultDataDir()),
        VenueTimeZone:  getenv("CINEPHORIA_TZ", "Europe/Paris"),
        RedisAddr:      redisAddr(),
        RedisPassword:  os.Getenv("REDIS_PASSWORD"),
        RedisDB:        atoi(getenv("REDIS_DB", "0")),
    }
}

// must retrieves a required environment variable.  If the variable is
// unset or empty the client logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

// getenv returns the variable's value or a default when unset.
func getenv(key, def string) string {
    if v := os.Getenv(key); v != "" {
        return v
    }
    return def
}

func atoi(s string) int {
    i, _ := strconv.Atoi(s)
    return i
}

func dur(key, def string) time.Duration {
    d, err := time.ParseDuration(getenv(key, def))
    if err != nil {
        log.Fatalf("invalid duration for %s", key)
    }
    return d
}

// redisAddr assembles the redis address the way the server-side stack
// does: REDIS_HOST/REDIS_PORT take precedence over REDIS_ADDR.  An
// empty result means redis is not configured and the file-backed
// draft store is used instead.
func redisAddr() string {
    host := os.Getenv("REDIS_HOST")
    port := os.Getenv("REDIS_PORT")
    if host != "" && port != "" {
        return host + ":" + port
    }
    return os.Getenv("REDIS_ADDR")
}

// defaultDataDir places client state under the user config directory,
// falling back to the working directory when it cannot be resolved.
func defaultDataDir() string {
    base, err := os.UserConfigDir()
    if err != nil {
        return ".cinephoria"
    }
    return base + string(os.PathSeparator) + "cinephoria"
}
