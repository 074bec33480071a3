package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timezone, timeout, etc.), standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Server    ServerConfig
	DB        DBConfig
	CORS      CORSConfig
	Log       LogConfig
	JWT       JWTConfig
	Agenda    AgendaConfig
	Telemetry TelemetryConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type DBConfig struct {
	Driver         string `envconfig:"DB_DRIVER" default:"postgres"`
	Host           string `envconfig:"DB_HOST" default:"localhost"`
	Port           string `envconfig:"DB_PORT" default:"5432"`
	User           string `envconfig:"DB_USER"`
	Password       string `envconfig:"DB_PASSWORD"`
	DBName         string `envconfig:"DB_NAME"`
	SSLMode        string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone       string `envconfig:"DB_TIMEZONE" default:"UTC"`
	MaxConns       int32  `envconfig:"DB_MAX_CONNS" default:"20"`
	SQLitePath     string `envconfig:"DB_SQLITE_PATH" default:"slotbook.db"`
	MigrateOnStart bool   `envconfig:"DB_MIGRATE_ON_START" default:"true"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization,Last-Event-ID"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length,Location"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"UTC"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"0"`
}

type JWTConfig struct {
	Secret   string `envconfig:"JWT_SECRET" required:"true"`
	Issuer   string `envconfig:"JWT_ISSUER" default:""`
	Duration string `envconfig:"JWT_DURATION" default:"24h"`
}

// AgendaConfig tunes live agenda subscriptions.
type AgendaConfig struct {
	RefreshInterval   time.Duration `envconfig:"AGENDA_REFRESH_INTERVAL" default:"1m"`
	SubscriberBuffer  int           `envconfig:"AGENDA_SUBSCRIBER_BUFFER" default:"64"`
	HeartbeatInterval time.Duration `envconfig:"AGENDA_HEARTBEAT_INTERVAL" default:"15s"`
}

type TelemetryConfig struct {
	Enabled     bool   `envconfig:"OTEL_ENABLED" default:"true"`
	Endpoint    string `envconfig:"OTEL_ENDPOINT" default:""`
	ServiceName string `envconfig:"OTEL_SERVICE_NAME" default:"slotbook"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

// BuildSQLiteDSN enables WAL and a busy timeout so concurrent writers wait instead of failing.
func (c *DBConfig) BuildSQLiteDSN() string {
	return "file:" + c.SQLitePath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
}

func (c *DBConfig) Validate() error {
	switch c.Driver {
	case DriverPostgres:
		if c.User == "" || c.DBName == "" {
			return fmt.Errorf("DB_USER and DB_NAME are required for driver %q", c.Driver)
		}
		return nil
	case DriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("DB_SQLITE_PATH is required for driver %q", c.Driver)
		}
		return nil
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Driver)
	}
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	if err := cfg.DB.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Driver:   DriverPostgres,
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "UTC",
			MaxConns: 20,
		},
		Log: LogConfig{
			Level:          "error", // Error level only for tests
			TimeZone:       "UTC",
			TimeFormat:     "2006-01-02 15:04:05.000",
			TimeZoneOffset: 0,
		},
		JWT: JWTConfig{
			Secret:   "test-secret-key-for-slot-booking",
			Duration: "1h",
		},
		Agenda: AgendaConfig{
			RefreshInterval:   time.Minute,
			SubscriberBuffer:  64,
			HeartbeatInterval: 15 * time.Second,
		},
		Telemetry: TelemetryConfig{
			Enabled:     false,
			ServiceName: "slotbook-test",
		},
	}
}
