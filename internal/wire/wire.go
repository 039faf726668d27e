//go:build wireinject
// +build wireinject

// Package wire 提供依赖注入配置
package wire

import (
	"context"

	"github.com/google/wire"

	"benovitz-content-api/internal/application/content"
	"benovitz-content-api/internal/config"
	"benovitz-content-api/internal/infrastructure/llm"
	"benovitz-content-api/internal/interfaces/http/handler"
	"benovitz-content-api/internal/interfaces/http/router"
	"benovitz-content-api/internal/workflow/port"
	workflowprompt "benovitz-content-api/internal/workflow/prompt"
)

// InitializeApp 初始化整个应用（带路由器）
func InitializeApp(ctx context.Context, cfg *config.Config) (*router.Router, func(), error) {
	wire.Build(
		DataSet,
		ContentSet,
		RouterSet,
	)
	return nil, nil, nil
}

// DataSet 可选数据层（Postgres 用量流水、Redis 限流）
var DataSet = wire.NewSet(
	ProvidePostgresClientOptional,
	ProvideRedisClientOptional,
	ProvideUsageRecorder,
	ProvideRateLimiter,
)

// ContentSet 内容生成提供者集合
var ContentSet = wire.NewSet(
	workflowprompt.NewRegistry,
	llm.NewEinoFactory,
	wire.Bind(new(port.ChatModelFactory), new(*llm.EinoFactory)),
	content.NewService,
)

// RouterSet 路由器提供者集合
var RouterSet = wire.NewSet(
	ProvideInfoHandler,
	ProvideHealthHandler,
	handler.NewContentHandler,
	wire.Bind(new(handler.ContentService), new(*content.Service)),
	wire.Struct(new(router.Handlers), "*"),
	router.New,
)
