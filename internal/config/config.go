package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config представляет конфигурацию приложения
type Config struct {
	Server    ServerConfig    `json:"server"`
	Database  DatabaseConfig  `json:"database"`
	Redis     RedisConfig     `json:"redis"`
	Kafka     KafkaConfig     `json:"kafka"`
	Logger    LoggerConfig    `json:"logger"`
	Cache     CacheConfig     `json:"cache"`
	RateLimit RateLimitConfig `json:"rate_limit"`
	Route     RouteConfig     `json:"route"`
	Estimate  EstimateConfig  `json:"estimate"`
}

// CacheConfig представляет конфигурацию кеширования
type CacheConfig struct {
	Enabled    bool `json:"enabled"`
	DefaultTTL int  `json:"default_ttl"`  // TTL для обычных данных (секунды)
	HotDataTTL int  `json:"hot_data_ttl"` // TTL для горячих данных (секунды)
}

// RateLimitConfig представляет конфигурацию ограничения запросов
type RateLimitConfig struct {
	Enabled     bool `json:"enabled"`
	DefaultRPM  int  `json:"default_rpm"`
	VIPRPM      int  `json:"vip_rpm"`
	BanDuration int  `json:"ban_duration"` // секунды
}

// ServerConfig представляет конфигурацию HTTP сервера
type ServerConfig struct {
	Port         string `json:"port"`
	Host         string `json:"host"`
	ReadTimeout  int    `json:"read_timeout"`
	WriteTimeout int    `json:"write_timeout"`
}

// DatabaseConfig представляет конфигурацию базы данных
type DatabaseConfig struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	DBName   string `json:"db_name"`
	SSLMode  string `json:"ssl_mode"`
}

// RedisConfig представляет конфигурацию Redis
type RedisConfig struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

// KafkaConfig представляет конфигурацию Kafka
type KafkaConfig struct {
	Brokers []string `json:"brokers"`
	GroupID string   `json:"group_id"`
	Topics  Topics   `json:"topics"`
}

// Topics представляет список топиков Kafka
type Topics struct {
	Routes string `json:"routes"`
	Access string `json:"access"`
}

// LoggerConfig представляет конфигурацию логгера
type LoggerConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
	File   string `json:"file"`
}

// RouteConfig представляет параметры выдачи маршрутных ссылок
type RouteConfig struct {
	BaseURL            string `json:"base_url"`
	RoutePage          string `json:"route_page"`
	DefaultExpiryHours int    `json:"default_expiry_hours"`
	MaxExpiryHours     int    `json:"max_expiry_hours"`
	MaxRecentCodes     int    `json:"max_recent_codes"`
	QRCodeSize         int    `json:"qr_code_size"`
	WhatsAppMessage    string `json:"whatsapp_message"`
	LocationsFile      string `json:"locations_file"`
	HistoryKey         string `json:"history_key"`
	PassRetentionHours int    `json:"pass_retention_hours"`
	PurgeInterval      int    `json:"purge_interval"` // минуты
}

// EstimateConfig представляет параметры оценки маршрута по прямой
type EstimateConfig struct {
	AverageSpeedKmh float64 `json:"average_speed_kmh"`
}

// Load загружает конфигурацию из переменных окружения.
// Если рядом лежит .env, его значения подхватываются первыми.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			ReadTimeout:  getEnvAsInt("SERVER_READ_TIMEOUT", 10),
			WriteTimeout: getEnvAsInt("SERVER_WRITE_TIMEOUT", 10),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "routes_user"),
			Password: getEnv("DB_PASSWORD", "routes_pass"),
			DBName:   getEnv("DB_NAME", "truck_routes"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Kafka: KafkaConfig{
			Brokers: strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			GroupID: getEnv("KAFKA_GROUP_ID", "truck-route-service"),
			Topics: Topics{
				Routes: getEnv("KAFKA_TOPIC_ROUTES", "routes"),
				Access: getEnv("KAFKA_TOPIC_ACCESS", "route-access"),
			},
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
			File:   getEnv("LOG_FILE", ""),
		},
		Cache: CacheConfig{
			Enabled:    getEnv("CACHE_ENABLED", "true") == "true",
			DefaultTTL: getEnvAsInt("CACHE_DEFAULT_TTL", 300), // 5 минут
			HotDataTTL: getEnvAsInt("CACHE_HOT_DATA_TTL", 60), // 1 минута
		},
		RateLimit: RateLimitConfig{
			Enabled:     getEnv("RATE_LIMIT_ENABLED", "true") == "true",
			DefaultRPM:  getEnvAsInt("RATE_LIMIT_DEFAULT_RPM", 60),
			VIPRPM:      getEnvAsInt("RATE_LIMIT_VIP_RPM", 600),
			BanDuration: getEnvAsInt("RATE_LIMIT_BAN_DURATION", 300),
		},
		Route: RouteConfig{
			BaseURL:            strings.TrimRight(getEnv("ROUTE_BASE_URL", "http://localhost:8080"), "/"),
			RoutePage:          getEnv("ROUTE_PAGE", "rota.html"),
			DefaultExpiryHours: getEnvAsInt("ROUTE_DEFAULT_EXPIRY_HOURS", 1),
			MaxExpiryHours:     getEnvAsInt("ROUTE_MAX_EXPIRY_HOURS", 24),
			MaxRecentCodes:     getEnvAsInt("ROUTE_MAX_RECENT_CODES", 50),
			QRCodeSize:         getEnvAsInt("ROUTE_QR_CODE_SIZE", 256),
			WhatsAppMessage:    getEnv("ROUTE_WHATSAPP_MESSAGE", "🚛 Acesse sua rota de navegação: "),
			LocationsFile:      getEnv("ROUTE_LOCATIONS_FILE", ""),
			HistoryKey:         getEnv("ROUTE_HISTORY_KEY", "rotas_caminhoneiros:recent_codes"),
			PassRetentionHours: getEnvAsInt("ROUTE_PASS_RETENTION_HOURS", 168),
			PurgeInterval:      getEnvAsInt("ROUTE_PURGE_INTERVAL", 60),
		},
		Estimate: EstimateConfig{
			AverageSpeedKmh: getEnvAsFloat("ESTIMATE_AVERAGE_SPEED_KMH", 50),
		},
	}
}

// getEnv получает значение переменной окружения с значением по умолчанию
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt получает значение переменной окружения как int с значением по умолчанию
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsFloat получает значение переменной окружения как float64 с значением по умолчанию
func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}
