package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application's configuration values.
type Config struct {
	HostIP            string // Host IP for the server
	RESTPort          int    // Port for the REST API
	DBHost            string // Hostname or IP address for the database
	DBPort            int    // Port number for the database
	DBUser            string // Username for the database
	DBPassword        string // Password for the database
	DBName            string // Name of the database
	RedisAddr         string // Address of the Redis server holding sessions
	RedisPassword     string // Password for Redis, empty when not required
	RedisDB           int    // Redis logical database
	SessionTTLSeconds int    // Lifetime of an idle session snapshot and its token
	GinMode           string // Mode for the Gin framework (e.g., release, debug, test)
	JWTSecret         string // Secret key for JWT signing
	JWTIssuer         string // Issuer claim for JWTs
	MaxLevel          int    // Last campaign level
}

// Envs holds the application's configuration loaded from environment variables.
var Envs = initConfig()

// initConfig initializes and returns the application configuration.
// It loads environment variables from a .env file.
func initConfig() Config {
	// Load .env file if available
	if err := godotenv.Load(); err != nil {
		log.Printf("[APP] [INFO] .env file not found or could not be loaded: %v", err)
	}

	// Populate the Config struct with required environment variables
	return Config{
		DBHost:            mustGetEnv("DB_HOST"),
		DBPort:            mustGetEnvAsInt("DB_PORT"),
		DBUser:            mustGetEnv("DB_USER"),
		DBPassword:        mustGetEnv("DB_PASS"),
		DBName:            mustGetEnv("DB_NAME"),
		RedisAddr:         mustGetEnv("REDIS_ADDR"),
		RedisPassword:     getEnvWithDefault("REDIS_PASSWORD", ""),
		RedisDB:           getEnvAsIntWithDefault("REDIS_DB", 0),
		SessionTTLSeconds: getEnvAsIntWithDefault("SESSION_TTL_SECONDS", 3600),
		GinMode:           getEnvWithDefault("GIN_MODE", "release"),
		JWTSecret:         mustGetEnv("JWT_SECRET"),
		JWTIssuer:         mustGetEnv("JWT_ISSUER"),
		HostIP:            mustGetEnv("HOST_IP"),
		RESTPort:          mustGetEnvAsInt("REST_PORT"),
		MaxLevel:          getEnvAsIntWithDefault("MAX_LEVEL", 8),
	}
}

// mustGetEnv retrieves the value of an environment variable or logs a fatal error if not set.
func mustGetEnv(key string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		log.Fatalf("[APP] [FATAL] Environment variable %s is not set", key)
	}
	return value
}

// mustGetEnvAsInt retrieves the value of an environment variable as an integer or logs a fatal error if not set or cannot be parsed.
func mustGetEnvAsInt(key string) int {
	valueStr := mustGetEnv(key)
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Fatalf("[APP] [FATAL] Environment variable %s must be an integer: %v", key, err)
	}
	return value
}

// getEnvWithDefault retrieves the value of an environment variable or returns a default value if not set.
func getEnvWithDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsIntWithDefault is getEnvWithDefault for integers. A value that
// does not parse is fatal, a missing one is not.
func getEnvAsIntWithDefault(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Fatalf("[APP] [FATAL] Environment variable %s must be an integer: %v", key, err)
	}
	return value
}
