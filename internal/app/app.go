package app

import (
	"os"

	"go-staffdir/internal/middleware"
	"go-staffdir/internal/shared/connection"

	"github.com/gin-gonic/gin"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

func BuildApp(router *gin.Engine) error {
	logger := zap.L().Named("app")

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	redisClient, err := connection.ConnectRedisWithRetry(redisAddr, 5)
	if err != nil {
		return err
	}

	// Events are optional; without a broker the publisher is a noop.
	var kafkaWriter *kafkago.Writer
	if broker := os.Getenv("KAFKA_BROKER"); broker != "" {
		kafkaWriter = connection.NewKafkaWriter(broker)
		logger.Info("kafka events enabled", zap.String("broker", broker))
	} else {
		logger.Info("KAFKA_BROKER not set, lifecycle events disabled")
	}

	router.Use(middleware.RequestID())

	return registerModules(router, redisClient, kafkaWriter, logger)
}
