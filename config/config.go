// config/config.go
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port        string   `mapstructure:"port"`
	CORSOrigins []string `mapstructure:"corsOrigins"`
}

type MongoConfig struct {
	URI    string `mapstructure:"uri"`
	DBName string `mapstructure:"dbName"`
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

// AdminConfig is the account seeded on first start so the review endpoints
// are reachable. Seeding is skipped when Email is empty.
type AdminConfig struct {
	Email    string `mapstructure:"email"`
	Name     string `mapstructure:"name"`
	Password string `mapstructure:"password"`
}

type MailConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

// Enabled reports whether an SMTP relay is configured.
func (m MailConfig) Enabled() bool { return m.Host != "" && m.From != "" }

const (
	NotifyInline = "inline"
	NotifyKafka  = "kafka"
)

// NotifyConfig selects where status emails are sent from: inside the API
// process ("inline") or by cmd/notifier reading Kafka ("kafka").
type NotifyConfig struct {
	Mode    string        `mapstructure:"mode"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
	GroupID string   `mapstructure:"groupID"`
}

func (k KafkaConfig) Enabled() bool { return len(k.Brokers) > 0 && k.Topic != "" }

type S3Config struct {
	Bucket          string `mapstructure:"bucket"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"accessKeyID"`
	SecretAccessKey string `mapstructure:"secretAccessKey"`
	Prefix          string `mapstructure:"prefix"`
}

func (s S3Config) Enabled() bool { return s.Bucket != "" }

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Mongo   MongoConfig   `mapstructure:"mongo"`
	JWT     JWTConfig     `mapstructure:"jwt"`
	Admin   AdminConfig   `mapstructure:"admin"`
	Mail    MailConfig    `mapstructure:"mail"`
	Notify  NotifyConfig  `mapstructure:"notify"`
	Kafka   KafkaConfig   `mapstructure:"kafka"`
	S3      S3Config      `mapstructure:"s3"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

var envBindings = map[string]string{
	"server.port":        "SERVER_PORT",
	"server.corsOrigins": "CORS_ORIGINS",
	"mongo.uri":          "MONGO_URI",
	"mongo.dbName":       "MONGO_DBNAME",
	"jwt.secret":         "JWT_SECRET",
	"jwt.expiration":     "JWT_EXPIRATION",
	"admin.email":        "ADMIN_EMAIL",
	"admin.name":         "ADMIN_NAME",
	"admin.password":     "ADMIN_PASSWORD",
	"mail.host":          "SMTP_HOST",
	"mail.port":          "SMTP_PORT",
	"mail.username":      "SMTP_USERNAME",
	"mail.password":      "SMTP_PASSWORD",
	"mail.from":          "SMTP_FROM",
	"notify.mode":        "NOTIFY_MODE",
	"notify.timeout":     "NOTIFY_TIMEOUT",
	"kafka.brokers":      "KAFKA_BROKERS",
	"kafka.topic":        "KAFKA_TOPIC",
	"kafka.groupID":      "KAFKA_GROUP_ID",
	"s3.bucket":          "S3_BUCKET",
	"s3.region":          "S3_REGION",
	"s3.accessKeyID":     "S3_ACCESS_KEY_ID",
	"s3.secretAccessKey": "S3_SECRET_ACCESS_KEY",
	"s3.prefix":          "S3_PREFIX",
	"metrics.enabled":    "METRICS_ENABLED",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.corsOrigins", []string{"*"})
	v.SetDefault("mongo.dbName", "shop")
	v.SetDefault("jwt.expiration", "24h")
	v.SetDefault("mail.port", 587)
	v.SetDefault("notify.mode", NotifyInline)
	v.SetDefault("notify.timeout", "10s")
	v.SetDefault("kafka.topic", "bulkorder.events")
	v.SetDefault("kafka.groupID", "bulkorder-notifier")
	v.SetDefault("s3.prefix", "bulk-orders")
	v.SetDefault("metrics.enabled", true)
}

// LoadConfig reads config.yaml from path and overrides it with environment
// variables. A missing file is fine; the environment alone is enough.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	setDefaults(v)

	for key, env := range envBindings {
		if err = v.BindEnv(key, env); err != nil {
			return
		}
	}

	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return
		}
		err = nil
	}

	if err = v.Unmarshal(&config); err != nil {
		return
	}

	config.Notify.Mode = strings.ToLower(strings.TrimSpace(config.Notify.Mode))
	return
}

// Validate rejects configurations the API server cannot start with.
func (c Config) Validate() error {
	if c.Mongo.URI == "" {
		return errors.New("mongo.uri is required")
	}
	if c.JWT.Secret == "" {
		return errors.New("jwt.secret is required")
	}
	switch c.Notify.Mode {
	case NotifyInline:
	case NotifyKafka:
		if !c.Kafka.Enabled() {
			return errors.New("notify.mode=kafka requires kafka.brokers and kafka.topic")
		}
	default:
		return errors.New("notify.mode must be inline or kafka")
	}
	return nil
}
