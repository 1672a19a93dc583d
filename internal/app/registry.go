package app

import (
	"go-staffdir/internal/employee"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

func registerModules(
	router *gin.Engine,
	rdb *redis.Client,
	kafkaWriter *kafkago.Writer,
	logger *zap.Logger,
) error {
	var publisher employee.EventPublisher = employee.NewNoopEventPublisher()
	if kafkaWriter != nil {
		publisher = employee.NewKafkaEventPublisher(kafkaWriter)
	}

	// --- Employee module ---
	store := employee.NewRedisStore(rdb, logger)
	state := employee.NewStateStore(logger)
	service := employee.NewService(store, state, rdb, publisher, logger)

	// HTTP clients confirm destructive operations on their side, so the
	// server-side confirmer always answers yes.
	mutator := employee.NewMutator(state, store, employee.AutoConfirm{}, publisher, logger)

	handler := employee.NewHandler(service, mutator, logger)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		employee.RegisterRoutes(api, handler, logger)
	}

	return nil
}
