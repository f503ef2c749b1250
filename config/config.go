package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

// Configuration holds the static settings needed to run the server and the CLI.
type Configuration struct {
	Address         string `env:"ADDRESS" envDefault:":8080"`
	JwtSecret       string `env:"JWT_SECRET,required"`
	JwtExpiresHours int    `env:"JWT_EXPIRES_HOURS" envDefault:"24"`

	MongoDB_ConnectionURI string `env:"MONGODB_CONNECTION_URI,required"`
	MongoDB_DBName        string `env:"MONGODB_DBNAME,required"`

	CORS_Origins          string `env:"CORS_ORIGINS" envDefault:"*"`               // comma separated, * = all
	CORS_AllowCredentials bool   `env:"CORS_ALLOW_CREDENTIALS" envDefault:"false"`
	RateLimit_Max         int    `env:"RATE_LIMIT_MAX" envDefault:"100"`           // 0 disables
	RateLimit_Window      int    `env:"RATE_LIMIT_WINDOW" envDefault:"60"`
	RateLimit_Enabled     bool   `env:"RATE_LIMIT_ENABLED" envDefault:"true"`

	EnableTLS   bool   `env:"ENABLE_TLS" envDefault:"false"`
	TLSCertFile string `env:"TLS_CERT_FILE"`
	TLSKeyFile  string `env:"TLS_KEY_FILE"`

	// Loyverse
	LoyverseAPIURL         string `env:"LOYVERSE_API_URL" envDefault:"https://api.loyverse.com/v1.0"`
	LoyverseAPIKey         string `env:"LOYVERSE_API_KEY"`
	LoyverseWebhookSecret  string `env:"LOYVERSE_WEBHOOK_SECRET"`                                     // empty disables signature checks
	LoyverseHTTPTimeoutSec int    `env:"LOYVERSE_HTTP_TIMEOUT_SECONDS" envDefault:"30"`
	SyncPageDelayMs        int    `env:"SYNC_PAGE_DELAY_MS" envDefault:"100"`

	// Optional infrastructure. Empty values turn the feature off.
	RedisAddress  string `env:"REDIS_ADDRESS"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	AMQPURL       string `env:"AMQP_URL"`
	AMQPExchange  string `env:"AMQP_EXCHANGE" envDefault:"loyverse.data"`
	AMQPBuffer    int    `env:"AMQP_BUFFER" envDefault:"1024"` // queued changes before new ones are dropped

	// Seeded on first start when no admin exists.
	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
	AdminName     string `env:"ADMIN_NAME" envDefault:"Administrator"`
}

// LoyverseTimeout returns the upstream HTTP timeout.
func (c *Configuration) LoyverseTimeout() time.Duration {
	if c.LoyverseHTTPTimeoutSec <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.LoyverseHTTPTimeoutSec) * time.Second
}

// SyncPageDelay returns the pause between page fetches of ranged syncs.
func (c *Configuration) SyncPageDelay() time.Duration {
	if c.SyncPageDelayMs < 0 {
		return 0
	}
	return time.Duration(c.SyncPageDelayMs) * time.Millisecond
}

// CORSOrigins splits CORS_ORIGINS.
func (c *Configuration) CORSOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORS_Origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// getEnvPath walks up from the working directory looking for config/env/<GO_ENV>.env.
func getEnvPath() string {
	goEnv := os.Getenv("GO_ENV")
	if goEnv == "" {
		goEnv = "development"
	}

	currentDir, err := os.Getwd()
	if err != nil {
		// the logger is not initialised yet
		fmt.Printf("Cannot read working directory: %v\n", err)
		return ""
	}

	for {
		envDir := filepath.Join(currentDir, "config", "env")
		if _, err := os.Stat(envDir); err == nil {
			return filepath.Join(envDir, fmt.Sprintf("%s.env", goEnv))
		}
		parent := filepath.Dir(currentDir)
		if parent == currentDir {
			return ""
		}
		currentDir = parent
	}
}

// NewConfig loads the env file when present and parses the process environment.
// Extra files are loaded after the default one. It returns nil when parsing fails.
func NewConfig(files ...string) *Configuration {
	if envPath := getEnvPath(); envPath != "" {
		if err := godotenv.Load(envPath); err != nil {
			fmt.Printf("Env file %s not loaded: %v\n", envPath, err)
		}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			fmt.Printf("Env file %s not loaded: %v\n", f, err)
		}
	}

	cfg := Configuration{}
	if err := env.Parse(&cfg); err != nil {
		fmt.Printf("Failed to parse config: %+v\n", err)
		return nil
	}
	return &cfg
}
