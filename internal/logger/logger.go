package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New создаёт логгер в зависимости от окружения.
// В production — JSON на stdout, иначе — цветной консольный вывод.
// Уровень логирования переопределяется переменной LOG_LEVEL.
func New() (*zap.Logger, error) {
	if os.Getenv("ENV") == "production" {
		return newProduction()
	}
	return newDevelopment()
}

// newDevelopment настраивает консольный логгер для разработки.
func newDevelopment() (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
	cfg.Level = zap.NewAtomicLevelAt(levelFromEnv(zapcore.DebugLevel))
	return cfg.Build()
}

// newProduction настраивает JSON-логгер для production.
func newProduction() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.Level = zap.NewAtomicLevelAt(levelFromEnv(zapcore.InfoLevel))
	return cfg.Build()
}

// levelFromEnv читает уровень логирования из LOG_LEVEL.
func levelFromEnv(fallback zapcore.Level) zapcore.Level {
	raw := os.Getenv("LOG_LEVEL")
	if raw == "" {
		return fallback
	}
	level, err := zapcore.ParseLevel(raw)
	if err != nil {
		return fallback
	}
	return level
}
