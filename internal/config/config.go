package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	ProjectID    string
	Region       string
	LogLevel     string
	Port         string
	DatabaseURL  string
	KMSKeyName   string
	VertexModel  string
	AITTL        time.Duration
	AppName      string
	ReminderDays int

	SendgridAPIKey       string
	SendgridAPIKeySecret string
	MailFromAddress      string
	MailFromName         string
}

// New reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real env vars win over it.
func New() *Config {
	_ = godotenv.Load()
	return fromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", ""))
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("LOGLEVEL", "info")
	v.SetDefault("AITTL", "720h")
	v.SetDefault("APPNAME", "5KI")
	v.SetDefault("REMINDERDAYS", 3)
	v.SetDefault("MAILFROMNAME", "5KI Cooperative")
	return v
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		ProjectID:            v.GetString("PROJECTID"),
		Region:               v.GetString("REGION"),
		LogLevel:             v.GetString("LOGLEVEL"),
		Port:                 v.GetString("PORT"),
		DatabaseURL:          v.GetString("DATABASEURL"),
		KMSKeyName:           v.GetString("KMSKEYNAME"),
		VertexModel:          v.GetString("VERTEXMODEL"),
		AITTL:                v.GetDuration("AITTL"),
		AppName:              v.GetString("APPNAME"),
		ReminderDays:         v.GetInt("REMINDERDAYS"),
		SendgridAPIKey:       v.GetString("SENDGRIDAPIKEY"),
		SendgridAPIKeySecret: v.GetString("SENDGRIDAPIKEYSECRET"),
		MailFromAddress:      v.GetString("MAILFROMADDRESS"),
		MailFromName:         v.GetString("MAILFROMNAME"),
	}
}

func (c *Config) Addr() string {
	return ":" + c.Port
}
