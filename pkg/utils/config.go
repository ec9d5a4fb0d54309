package utils

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App         AppConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Reservation ReservationConfig
	Upload      UploadConfig
	Chart       ChartConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type ReservationConfig struct {
	HoldTTL              time.Duration
	SweepInterval        time.Duration
	MaxSeatsPerSelection int
	OrganizerToken       string
}

type UploadConfig struct {
	MaxSizeMB    int
	AllowedTypes []string
	Dir          string
}

type ChartConfig struct {
	// OverlapEpsilon is the minimum distance between two seats in
	// normalized units; placements closer than this are rejected.
	OverlapEpsilon float64
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("HOLD_TTL_MINUTES", 5)
	viper.SetDefault("HOLD_SWEEP_SECONDS", 30)
	viper.SetDefault("MAX_SEATS_PER_SELECTION", 8)
	viper.SetDefault("ORGANIZER_TOKEN", "box-office")
	viper.SetDefault("UPLOAD_MAX_SIZE_MB", 10)
	viper.SetDefault("UPLOAD_ALLOWED_TYPES", "image/png,image/jpeg")
	viper.SetDefault("UPLOAD_DIR", "uploads/")
	viper.SetDefault("CHART_OVERLAP_EPSILON", 0.5)

	if err := viper.ReadInConfig(); err != nil {
		// A missing .env is fine; environment variables still apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Reservation: ReservationConfig{
			HoldTTL:              time.Duration(viper.GetInt("HOLD_TTL_MINUTES")) * time.Minute,
			SweepInterval:        time.Duration(viper.GetInt("HOLD_SWEEP_SECONDS")) * time.Second,
			MaxSeatsPerSelection: viper.GetInt("MAX_SEATS_PER_SELECTION"),
			OrganizerToken:       viper.GetString("ORGANIZER_TOKEN"),
		},
		Upload: UploadConfig{
			MaxSizeMB:    viper.GetInt("UPLOAD_MAX_SIZE_MB"),
			AllowedTypes: strings.Split(viper.GetString("UPLOAD_ALLOWED_TYPES"), ","),
			Dir:          viper.GetString("UPLOAD_DIR"),
		},
		Chart: ChartConfig{
			OverlapEpsilon: viper.GetFloat64("CHART_OVERLAP_EPSILON"),
		},
	}

	return config, nil
}
