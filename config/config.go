package config

import "time"

type Config struct {
	AppName                       string   `env:"APP_NAME" env-default:"rentease-api"`
	Port                          int      `env:"PORT" env-default:"5000"`
	LogLevel                      string   `env:"LOG_LEVEL" env-default:"info"`
	PrettyLogs                    bool     `env:"PRETTY_LOGS" env-default:"false"`
	HttpServerWriteTimeoutSeconds int      `env:"HTTP_SERVER_WRITE_TIMEOUT_SECONDS" env-default:"10"`
	HttpServerReadTimeoutSeconds  int      `env:"HTTP_SERVER_READ_TIMEOUT_SECONDS" env-default:"10"`
	HttpServerIdleTimeoutSeconds  int      `env:"HTTP_SERVER_IDLE_TIMEOUT_SECONDS" env-default:"10"`
	AllowOrigins                  []string `env:"HTTP_SERVER_ALLOW_ORIGINS" env-default:"*"`
	AllowMethods                  []string `env:"HTTP_SERVER_ALLOW_METHODS" env-default:"GET,POST,PUT,PATCH,DELETE"`
	StartupMaxAttempts            int      `env:"STARTUP_MAX_ATTEMPTS" env-default:"5"`

	// Database driver
	DatabaseDriver string `env:"DB_DRIVER" env-default:"postgres"`
	// Database host
	DatabaseHost string `env:"DB_HOST" env-default:"localhost"`
	// Database port
	DatabasePort string `env:"DB_PORT" env-default:"5432"`
	// Database user
	DatabaseUserName string `env:"DB_USER_NAME" env-default:""`
	// Database user password
	DatabasePassword string `env:"DB_PASSWORD" env-default:""`
	// Database name
	DatabaseName string `env:"DB_NAME" env-default:"rentease"`
	// Database SSL Mode
	DatabaseSSLMode string `env:"DB_SSL_MODE" env-default:"disable"`
	// Max Open Conns
	DatabaseMaxOpenConns int `env:"DB_MAX_OPEN_CONNS" env-default:"25"`
	// Max Idle Conns
	DatabaseMaxIdleConns int `env:"DB_MAX_IDLE_CONNS" env-default:"10"`
	// Conn Max Lifetime
	DatabaseConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" env-default:"10s"`
	// Migration Folder Path
	DatabaseMigrationFolderPath string `env:"DB_MIGRATION_FOLDER_PATH" env-default:"db/pg"`
	// Database Migration Version
	DatabaseMigrationVersion int `env:"DB_MIGRATION_VERSION" env-default:"0"`
	// Database Migration Force
	DatabaseMigrationForce int `env:"DB_MIGRATION_FORCE" env-default:"0"`
	// Database Migration Auto Rollback
	DatabaseMigrationAutoRollback bool `env:"DB_MIGRATION_AUTO_ROLLBACK" env-default:"true"`

	// Auth Enabled - when false, allows X-User-ID/X-User-Email/X-User-Role headers for testing
	AuthEnabled bool `env:"AUTH_ENABLED" env-default:"true"`
	// JWT signing secret (HS256)
	JWTSecret string `env:"JWT_SECRET" env-default:""`
	// Token lifetime
	JWTExpiry time.Duration `env:"JWT_EXPIRY" env-default:"168h"`

	// Login/register rate limiting
	AuthRateLimitEnabled bool          `env:"AUTH_RATE_LIMIT_ENABLED" env-default:"true"`
	AuthRateLimitMax     int64         `env:"AUTH_RATE_LIMIT_MAX" env-default:"10"`
	AuthRateLimitWindow  time.Duration `env:"AUTH_RATE_LIMIT_WINDOW" env-default:"1m"`

	// Redis
	RedisEnabled  bool   `env:"REDIS_ENABLED" env-default:"false"`
	RedisHost     string `env:"REDIS_HOST" env-default:"localhost"`
	RedisPort     int    `env:"REDIS_PORT" env-default:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD" env-default:""`
	RedisDB       int    `env:"REDIS_DB" env-default:"0"`

	// Kafka Producer
	KafkaEnabled      bool     `env:"KAFKA_ENABLED" env-default:"false"`
	KafkaBrokers      []string `env:"KAFKA_BROKERS" env-default:"localhost:9092"`
	KafkaEventTopic   string   `env:"KAFKA_EVENT_TOPIC" env-default:"rentease-events"`
	KafkaBatchSize    int      `env:"KAFKA_BATCH_SIZE" env-default:"100"`
	KafkaBatchTimeout int      `env:"KAFKA_BATCH_TIMEOUT_MS" env-default:"100"`
	KafkaRequiredAcks int      `env:"KAFKA_REQUIRED_ACKS" env-default:"1"`
	KafkaCompression  string   `env:"KAFKA_COMPRESSION" env-default:"snappy"`

	// Razorpay payment gateway
	RazorpayKeyID     string        `env:"RAZORPAY_KEY_ID" env-default:""`
	RazorpayKeySecret string        `env:"RAZORPAY_KEY_SECRET" env-default:""`
	RazorpayBaseURL   string        `env:"RAZORPAY_BASE_URL" env-default:"https://api.razorpay.com"`
	RazorpayTimeout   time.Duration `env:"RAZORPAY_TIMEOUT" env-default:"30s"`

	// Tracing
	TracingEnabled      bool   `env:"TRACING_ENABLED" env-default:"false"`
	TracingOTLPEndpoint string `env:"TRACING_OTLP_ENDPOINT" env-default:"localhost:4317"`
	TracingOTLPProtocol string `env:"TRACING_OTLP_PROTOCOL" env-default:"grpc"`
}
