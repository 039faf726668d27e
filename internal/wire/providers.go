package wire

import (
	"context"

	"benovitz-content-api/internal/application/usage"
	"benovitz-content-api/internal/config"
	"benovitz-content-api/internal/domain/service"
	"benovitz-content-api/internal/infrastructure/persistence/postgres"
	"benovitz-content-api/internal/infrastructure/persistence/redis"
	"benovitz-content-api/internal/interfaces/http/handler"
	"benovitz-content-api/internal/interfaces/http/middleware"
	"benovitz-content-api/pkg/logger"
)

// ProvidePostgresClientOptional 启用用量流水时连接 PostgreSQL 并迁移表结构；不可达时禁用流水
func ProvidePostgresClientOptional(ctx context.Context, cfg *config.Config) (*postgres.Client, func(), error) {
	if !cfg.Features.UsageLedger.Enabled {
		return nil, func() {}, nil
	}

	client, err := postgres.NewClient(ctx, &cfg.Database.Postgres)
	if err != nil {
		logger.Warn(ctx, "postgres not available, usage ledger disabled", "error", err.Error())
		return nil, func() {}, nil
	}
	if err := client.AutoMigrate(ctx); err != nil {
		_ = client.Close()
		return nil, nil, err
	}

	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideRedisClientOptional 启用限流时连接 Redis；不可达时不限流
func ProvideRedisClientOptional(ctx context.Context, cfg *config.Config) (*redis.Client, func(), error) {
	if !cfg.Security.RateLimit.Enabled {
		return nil, func() {}, nil
	}

	client, err := redis.NewClient(ctx, &cfg.Cache.Redis)
	if err != nil {
		logger.Warn(ctx, "redis not available, rate limiting disabled", "error", err.Error())
		return nil, func() {}, nil
	}

	cleanup := func() {
		_ = client.Close()
	}
	return client, cleanup, nil
}

// ProvideUsageRecorder 提供用量记录器，未连接数据库时返回 nil
func ProvideUsageRecorder(client *postgres.Client) service.LLMUsageRecorder {
	if client == nil {
		return nil
	}
	return usage.NewLLMUsageRecorder(postgres.NewLLMUsageEventRepository(client))
}

// ProvideRateLimiter 提供限流器，未连接 Redis 时返回 nil
func ProvideRateLimiter(client *redis.Client) middleware.RateLimiter {
	if client == nil {
		return nil
	}
	return redis.NewRateLimiter(client)
}

// ProvideInfoHandler 提供服务信息处理器
func ProvideInfoHandler(cfg *config.Config) *handler.InfoHandler {
	return handler.NewInfoHandler(cfg.App.Version)
}

// ProvideHealthHandler 提供健康检查处理器，只检查已连接的依赖
func ProvideHealthHandler(cfg *config.Config, pg *postgres.Client, rc *redis.Client) *handler.HealthHandler {
	h := handler.NewHealthHandler(cfg.App.Name)
	if pg != nil {
		h.WithCheck("postgres", pg)
	}
	if rc != nil {
		h.WithCheck("redis", rc)
	}
	return h
}
