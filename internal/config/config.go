package config // package config loads application configuration from environment variables

import (
	"log"     // log reports configuration errors and halts execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"time"    // time expresses policy durations
)

// Config holds all runtime configuration values.  Each field corresponds
// to an environment variable.  Policy values (session duration, loyalty
// cycle, registry defaults) live here rather than as literals in the
// packages that consume them.
type Config struct {
	Env          string // application environment (e.g. "dev", "prod")
	Port         string // HTTP port to listen on
	StoreBackend string // key/value backend: "memory", "redis" or "mysql"

	DBUser string // MySQL username (mysql backend only)
	DBPass string // MySQL password (optional)
	DBHost string // MySQL host address
	DBPort string // MySQL port number
	DBName string // MySQL database name

	JWTSecret      string // secret used to sign JWTs
	AccessTTLMin   int    // access token time-to-live in minutes
	RefreshTTLDays int    // refresh token time-to-live in days
	BcryptCost     int    // bcrypt cost for password hashing
	AdminEmail     string // registrations with this email receive the ADMIN role

	SessionDuration time.Duration // how long a shoot runs after its start time
	LoyaltyCycle    int           // completed sessions per loyalty cycle; the last one is free
	DefaultCapacity int           // slots assigned to a session created without capacity
	DefaultPriceEUR int           // price assigned to a session created without one
	DefaultLocation string        // meeting point assigned when the admin leaves it blank

	BookingPassword string // initial standard-tier master password (admin can replace)
	RewardPassword  string // initial loyalty-tier master password (admin can replace)
}

// Load reads configuration from environment variables and returns a
// Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  Policy knobs all
// carry defaults so a bare environment still boots a working club.
func Load() Config {
	return Config{
		Env:          must("APP_ENV"),                   // environment (dev/test/prod)
		Port:         must("APP_PORT"),                  // port to bind the HTTP server
		StoreBackend: getenv("STORE_BACKEND", "memory"), // persistence backend selector
		DBUser:       os.Getenv("DB_USER"),              // MySQL user (only for mysql backend)
		DBPass:       os.Getenv("DB_PASS"),              // MySQL password (empty allowed)
		DBHost:       os.Getenv("DB_HOST"),              // MySQL host
		DBPort:       os.Getenv("DB_PORT"),              // MySQL port
		DBName:       os.Getenv("DB_NAME"),              // MySQL database name
		JWTSecret:      must("JWT_SECRET"),                // secret used for signing JWTs
		AccessTTLMin:   mustInt("ACCESS_TOKEN_TTL_MIN"),   // TTL for access tokens in minutes
		RefreshTTLDays: mustInt("REFRESH_TOKEN_TTL_DAYS"), // TTL for refresh tokens in days
		BcryptCost:     mustInt("BCRYPT_COST"),            // bcrypt cost factor
		AdminEmail:     getenv("ADMIN_EMAIL", ""),         // club admin account

		SessionDuration: time.Duration(envIntDefault("SESSION_DURATION_HOURS", 3)) * time.Hour,
		LoyaltyCycle:    envIntDefault("LOYALTY_CYCLE", 10),
		DefaultCapacity: envIntDefault("DEFAULT_CAPACITY", 10),
		DefaultPriceEUR: envIntDefault("DEFAULT_PRICE_EUR", 15),
		DefaultLocation: getenv("DEFAULT_LOCATION", "Madrid"),

		BookingPassword: getenv("BOOKING_PASSWORD", ""),
		RewardPassword:  getenv("REWARD_PASSWORD", ""),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the retrieved string into an integer.
// If conversion fails, the application logs a fatal error and exits.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

// envIntDefault reads an optional integer variable, falling back to def
// when unset or malformed values abort startup.
func envIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, v)
	}
	return n
}
