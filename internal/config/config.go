package config

import (
	"bytes"
	"os"
	"strings"

	"github.com/spf13/viper"
)

type AppCfg struct {
	Name      string
	Env       string
	Host      string
	Port      int
	PublicURL string
}

type LogCfg struct {
	Level string
}

type DBCfg struct {
	DSN         string
	MaxOpen     int
	MaxIdle     int
	AutoMigrate bool
}

type RedisCfg struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
}

type MQCfg struct {
	URL   string
	Queue string
}

type S3Cfg struct {
	Endpoint         string
	Region           string
	AccessKey        string
	SecretKey        string
	Bucket           string
	UsePathStyle     bool
	PresignExpireSec int
	SSE              string
}

type TelemetryCfg struct {
	Enabled      bool
	OtlpEndpoint string
	SampleRatio  float64
}

type AuthCfg struct {
	JWTSecret      string
	SessionTTLSec  int
	CookieName     string
	CookieSecure   bool
	AdminEmails    []string
	RateLimitRPS   int
	RateLimitBurst int
}

type GitHubCfg struct {
	ClientID          string
	ClientSecret      string
	WebHost           string
	APIBaseURL        string
	AuthorizeURL      string
	TokenURL          string
	Scope             string
	StateTTLSec       int
	RequestTimeoutSec int
}

type Config struct {
	App       AppCfg
	Log       LogCfg
	Database  DBCfg
	Redis     RedisCfg
	RabbitMQ  MQCfg
	S3        S3Cfg
	Telemetry TelemetryCfg
	Auth      AuthCfg
	GitHub    GitHubCfg
}

// Configured reports whether the external collaborators the portal cannot run
// without (database and GitHub OAuth app) have been provided.
func (c *Config) Configured() bool {
	return c.Database.DSN != "" && c.GitHubConfigured()
}

func (c *Config) GitHubConfigured() bool {
	return c.GitHub.ClientID != "" && c.GitHub.ClientSecret != ""
}

func Load() (*Config, error) {
	base := viper.New()
	base.SetConfigName("config")
	base.SetConfigType("yaml")
	base.AddConfigPath("./configs")
	base.AddConfigPath(".")
	base.AutomaticEnv()
	base.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	base.SetEnvPrefix("APP") // e.g. APP_GITHUB_CLIENTID -> github.clientId

	setDefaults(base)

	if err := base.ReadInConfig(); err == nil {
		// expand ${ENV} once before parsing
		path := base.ConfigFileUsed()
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return parse(os.ExpandEnv(string(raw)))
	}

	// No files are also allowed, using only env + default values
	cfg := new(Config)
	if err := base.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parse(expanded string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewBufferString(expanded)); err != nil {
		return nil, err
	}
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("APP")
	setDefaults(v)

	cfg := new(Config)
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "clientportal")
	v.SetDefault("app.env", "debug")
	v.SetDefault("app.host", "0.0.0.0")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.publicURL", "http://localhost:3000")
	v.SetDefault("log.level", "info")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.maxOpen", 20)
	v.SetDefault("database.maxIdle", 5)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.poolSize", 10)
	v.SetDefault("rabbitmq.url", "")
	v.SetDefault("rabbitmq.queue", "view_invalidation")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.region", "auto")
	v.SetDefault("s3.usePathStyle", true)
	v.SetDefault("s3.presignExpireSec", 900)
	v.SetDefault("telemetry.sampleRatio", 1.0)
	v.SetDefault("auth.jwtSecret", "")
	v.SetDefault("auth.sessionTTLSec", 7*24*3600)
	v.SetDefault("auth.cookieName", "session")
	v.SetDefault("auth.rateLimitRPS", 5)
	v.SetDefault("auth.rateLimitBurst", 10)
	v.SetDefault("github.clientId", "")
	v.SetDefault("github.clientSecret", "")
	v.SetDefault("github.webHost", "github.com")
	v.SetDefault("github.apiBaseURL", "https://api.github.com/")
	v.SetDefault("github.authorizeURL", "https://github.com/login/oauth/authorize")
	v.SetDefault("github.tokenURL", "https://github.com/login/oauth/access_token")
	v.SetDefault("github.scope", "repo")
	v.SetDefault("github.stateTTLSec", 600)
	v.SetDefault("github.requestTimeoutSec", 10)
}
