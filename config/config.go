package config

import (
	"context"
	"database/sql"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
)

// Load reads a .env file when one is present. Real environment variables win.
func Load() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[config] failed to read .env: %v", err)
	}
}

func PostgresDSN() string {
	return "host=" + GetEnv("DB_HOST", "localhost") +
		" port=" + GetEnv("DB_PORT", "5432") +
		" user=" + GetEnv("DB_USER", "postgres") +
		" password=" + GetEnv("DB_PASSWORD", "postgres") +
		" dbname=" + GetEnv("DB_NAME", "food_delivery") +
		" sslmode=" + GetEnv("DB_SSLMODE", "disable")
}

func MustInitPostgres() *sql.DB {
	db, err := sql.Open("postgres", PostgresDSN())
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err = db.Ping(); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	return db
}

func MustInitRedis() *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     GetEnv("REDIS_HOST", "localhost") + ":" + GetEnv("REDIS_PORT", "6379"),
		Password: GetEnv("REDIS_PASSWORD", ""),
		DB:       GetEnvAsInt("REDIS_DB", 0),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	return client
}

func NewKafkaReader(topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{GetEnv("KAFKA_BROKER", "localhost:9092")},
		Topic:   topic,
		GroupID: groupID,
	})
}

func NewKafkaWriter(topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(GetEnv("KAFKA_BROKER", "localhost:9092")),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
}

func OrdersTopic() string {
	return GetEnv("ORDERS_TOPIC", "orders")
}

func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func GetEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		log.Printf("[config] %s=%q is not an integer, using %d", key, value, defaultValue)
	}
	return defaultValue
}

func GetEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("[config] %s=%q is not a duration, using %s", key, value, defaultValue)
	}
	return defaultValue
}
