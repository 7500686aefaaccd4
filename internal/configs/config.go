package configs

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type DBconfig struct {
	URL      string
	MaxConns int
}

type RedisConfig struct {
	URL string
}

type RESTconfig struct {
	PORT               string
	CORSAllowedOrigins []string
	RateLimitEnabled   bool
	TrustedProxies     []string
}

type UserServiceConfig struct {
	URL            string
	ContactTimeout time.Duration
	VerifyTimeout  time.Duration
}

type GebetaConfig struct {
	APIKey         string
	RouteURL       string
	MatrixURL      string
	GeocodeURL     string
	TileURL        string
	StaticMapURL   string
	MatrixUnits    string
	RequestTimeout time.Duration
}

// GeoPolicyConfig holds every default coordinate the service may use.
type GeoPolicyConfig struct {
	FallbackLat        float64
	FallbackLon        float64
	ReferenceOriginLat float64
	ReferenceOriginLon float64
}

type DatasetConfig struct {
	RoutesDataPath string
}

type RabbitMQConfig struct {
	Enabled bool
	URL     string
}

type SchedulerConfig struct {
	// CacheClearCron is a robfig/cron spec. Empty disables the job.
	CacheClearCron string
}

type StdoutLogConfig struct {
	Level string
}

type FluentBitConfig struct {
	Host    string
	Port    int
	Enabled bool
	Level   string
}

// AppConfig is the whole service configuration.
type AppConfig struct {
	AppName      string
	Database     DBconfig
	Redis        RedisConfig
	Rest         RESTconfig
	UserService  UserServiceConfig
	Gebeta       GebetaConfig
	GeoPolicy    GeoPolicyConfig
	Dataset      DatasetConfig
	RabbitMQ     RabbitMQConfig
	Scheduler    SchedulerConfig
	FluentBit    FluentBitConfig
	StdoutLogger StdoutLogConfig
}

func loadDotEnv(envPath ...string) {
	var err error
	if len(envPath) > 0 {
		err = godotenv.Load(envPath[0])
	} else {
		err = godotenv.Load()
	}
	if err != nil {
		log.Printf("Info: no .env file loaded (path: %v): %v. Using process environment.\n", envPath, err)
	}
}

// LoadRedisConfig reads only the cache settings, for tools that need
// nothing else.
func LoadRedisConfig(envPath ...string) RedisConfig {
	loadDotEnv(envPath...)
	return RedisConfig{URL: getEnvAsString("REDIS_URL", "redis://localhost:6379/0")}
}

// LoadConfig reads the environment after loading an optional .env file.
func LoadConfig(envPath ...string) (*AppConfig, error) {
	loadDotEnv(envPath...)

	cfg := &AppConfig{}
	cfg.AppName = getEnvAsString("APP_NAME", "search-service")

	cfg.Database.URL = os.Getenv("DATABASE_URL")
	if cfg.Database.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}
	cfg.Database.MaxConns = getEnvAsInt("DATABASE_MAX_CONNS", 10)

	cfg.Redis.URL = getEnvAsString("REDIS_URL", "redis://localhost:6379/0")

	cfg.Rest.PORT = getEnvAsString("PORT", "8000")
	cfg.Rest.CORSAllowedOrigins = getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"})
	cfg.Rest.RateLimitEnabled = getEnvAsBool("RATE_LIMIT_ENABLED", true)
	cfg.Rest.TrustedProxies = getEnvAsList("TRUSTED_PROXIES", nil)

	cfg.UserService.URL = strings.TrimRight(getEnvAsString("USER_MANAGEMENT_URL", "http://localhost:8001"), "/")
	cfg.UserService.ContactTimeout = getEnvAsDuration("CONTACT_TIMEOUT", 10*time.Second)
	cfg.UserService.VerifyTimeout = getEnvAsDuration("AUTH_VERIFY_TIMEOUT", 10*time.Second)

	cfg.Gebeta.APIKey = os.Getenv("GEBETA_API_KEY")
	cfg.Gebeta.RouteURL = getEnvAsString("GEBETA_ONM_URL", "https://mapapi.gebeta.app/api/route/onm/")
	cfg.Gebeta.MatrixURL = getEnvAsString("GEBETA_MATRIX_URL", "https://mapapi.gebeta.app/api/route/matrix/")
	cfg.Gebeta.GeocodeURL = getEnvAsString("GEBETA_GEOCODE_URL", "https://api.gebeta.app/geocode")
	cfg.Gebeta.TileURL = getEnvAsString("GEBETA_TILE_URL", "https://mapapi.gebeta.app/tiles")
	cfg.Gebeta.StaticMapURL = getEnvAsString("GEBETA_STATIC_MAP_URL", "https://mapapi.gebeta.app/staticmap")
	cfg.Gebeta.MatrixUnits = getEnvAsString("GEBETA_MATRIX_UNITS", "meters")
	cfg.Gebeta.RequestTimeout = getEnvAsDuration("GATEWAY_TIMEOUT", 30*time.Second)

	cfg.GeoPolicy.FallbackLat = getEnvAsFloat("GEOCODE_FALLBACK_LAT", 9.03)
	cfg.GeoPolicy.FallbackLon = getEnvAsFloat("GEOCODE_FALLBACK_LON", 38.75)
	cfg.GeoPolicy.ReferenceOriginLat = getEnvAsFloat("REFERENCE_ORIGIN_LAT", 8.5408)
	cfg.GeoPolicy.ReferenceOriginLon = getEnvAsFloat("REFERENCE_ORIGIN_LON", 39.2682)

	cfg.Dataset.RoutesDataPath = getEnvAsString("ROUTES_DATA_PATH", "data/routes.json")

	cfg.RabbitMQ.Enabled = getEnvAsBool("RABBITMQ_ENABLED", false)
	if cfg.RabbitMQ.Enabled {
		cfg.RabbitMQ.URL = os.Getenv("RABBITMQ_URL")
		if cfg.RabbitMQ.URL == "" {
			return nil, fmt.Errorf("RABBITMQ_URL is required when RABBITMQ_ENABLED is true")
		}
	}

	cfg.Scheduler.CacheClearCron = getEnvAsString("CACHE_CLEAR_CRON", "")

	cfg.FluentBit.Enabled = getEnvAsBool("FLUENTBIT_ENABLED", false)
	if cfg.FluentBit.Enabled {
		cfg.FluentBit.Host = os.Getenv("FLUENTBIT_HOST")
		if cfg.FluentBit.Host == "" {
			log.Println("WARNING: FLUENTBIT_ENABLED is true, but FLUENTBIT_HOST is not set. Disabling Fluent Bit.")
			cfg.FluentBit.Enabled = false
		}
		cfg.FluentBit.Port = getEnvAsInt("FLUENTBIT_PORT", 24224)
		cfg.FluentBit.Level = getEnvAsString("FLUENTBIT_LOG_LEVEL", "info")
	}

	cfg.StdoutLogger.Level = getEnvAsString("STDOUT_LOG_LEVEL", "debug")

	return cfg, nil
}

func getEnvAsString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as int: %v. Using default value: %d\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return valueInt
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	v, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as float: %v. Using default value: %v\n", key, valueStr, err, defaultValue)
		return defaultValue
	}
	return v
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valBool, err := strconv.ParseBool(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as bool: %v. Using default value: %t\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return valBool
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	d, err := time.ParseDuration(valStr)
	if err != nil {
		log.Printf("Warning: Environment variable %s (value: %s) could not be parsed as duration: %v. Using default value: %s\n", key, valStr, err, defaultValue)
		return defaultValue
	}
	return d
}

// getEnvAsList splits a comma-separated value, dropping empty items.
func getEnvAsList(key string, defaultValue []string) []string {
	valStr, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(valStr) == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(valStr, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
