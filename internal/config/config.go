package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Storage  StorageConfig
	Scoring  ScoringConfig
	Auth     AuthConfig
	Redis    RedisConfig
	RabbitMQ RabbitMQConfig
	S3       S3Config
	Worker   WorkerConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type StorageConfig struct {
	Driver      string
	UploadPath  string
	MaxFileSize int64
}

type ScoringConfig struct {
	Policy       string
	TaxonomyFile string
	// Zero values keep the policy defaults.
	MinWords    int
	MinSections int
	MaxScore    int
}

type AuthConfig struct {
	JWTSecret string
	Issuer    string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type RabbitMQConfig struct {
	URL      string
	Exchange string
}

type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

type WorkerConfig struct {
	Concurrency       int
	RetryMaxAttempts  int
	RetryInitialDelay time.Duration
	PollInterval      time.Duration
}

type LogConfig struct {
	JSON  bool
	Debug bool
}

var defaults = map[string]any{
	"PORT": "3000",
	"ENV":  "development",

	"DB_HOST":     "localhost",
	"DB_PORT":     "5432",
	"DB_USER":     "postgres",
	"DB_PASSWORD": "postgres",
	"DB_NAME":     "resume_analyzer",

	"STORAGE_DRIVER": "local",
	"UPLOAD_PATH":    "./uploads",
	"MAX_FILE_SIZE":  int64(10485760),

	"SCORING_POLICY":       "enhanced",
	"TAXONOMY_FILE":        "",
	"SCORING_MIN_WORDS":    0,
	"SCORING_MIN_SECTIONS": 0,
	"SCORING_MAX_SCORE":    0,

	"AUTH_JWT_SECRET": "",
	"AUTH_JWT_ISSUER": "",

	"REDIS_ADDR":     "",
	"REDIS_PASSWORD": "",
	"REDIS_DB":       0,
	"REDIS_TTL":      "10m",

	"RABBITMQ_URL":      "",
	"RABBITMQ_EXCHANGE": "resume_events",

	"S3_BUCKET":     "",
	"S3_REGION":     "auto",
	"S3_ENDPOINT":   "",
	"S3_ACCESS_KEY": "",
	"S3_SECRET_KEY": "",

	"WORKER_CONCURRENCY":   3,
	"RETRY_MAX_ATTEMPTS":   3,
	"RETRY_INITIAL_DELAY":  "2s",
	"WORKER_POLL_INTERVAL": "10s",

	"LOG_JSON":  false,
	"LOG_DEBUG": false,
}

// Load reads the environment, after merging an optional .env file.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using environment and default values.")
	}

	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			Port: v.GetString("PORT"),
			Env:  v.GetString("ENV"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
		},
		Storage: StorageConfig{
			Driver:      v.GetString("STORAGE_DRIVER"),
			UploadPath:  v.GetString("UPLOAD_PATH"),
			MaxFileSize: v.GetInt64("MAX_FILE_SIZE"),
		},
		Scoring: ScoringConfig{
			Policy:       v.GetString("SCORING_POLICY"),
			TaxonomyFile: v.GetString("TAXONOMY_FILE"),
			MinWords:     v.GetInt("SCORING_MIN_WORDS"),
			MinSections:  v.GetInt("SCORING_MIN_SECTIONS"),
			MaxScore:     v.GetInt("SCORING_MAX_SCORE"),
		},
		Auth: AuthConfig{
			JWTSecret: v.GetString("AUTH_JWT_SECRET"),
			Issuer:    v.GetString("AUTH_JWT_ISSUER"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			TTL:      v.GetDuration("REDIS_TTL"),
		},
		RabbitMQ: RabbitMQConfig{
			URL:      v.GetString("RABBITMQ_URL"),
			Exchange: v.GetString("RABBITMQ_EXCHANGE"),
		},
		S3: S3Config{
			Bucket:    v.GetString("S3_BUCKET"),
			Region:    v.GetString("S3_REGION"),
			Endpoint:  v.GetString("S3_ENDPOINT"),
			AccessKey: v.GetString("S3_ACCESS_KEY"),
			SecretKey: v.GetString("S3_SECRET_KEY"),
		},
		Worker: WorkerConfig{
			Concurrency:       v.GetInt("WORKER_CONCURRENCY"),
			RetryMaxAttempts:  v.GetInt("RETRY_MAX_ATTEMPTS"),
			RetryInitialDelay: v.GetDuration("RETRY_INITIAL_DELAY"),
			PollInterval:      v.GetDuration("WORKER_POLL_INTERVAL"),
		},
		Log: LogConfig{
			JSON:  v.GetBool("LOG_JSON"),
			Debug: v.GetBool("LOG_DEBUG"),
		},
	}
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}
