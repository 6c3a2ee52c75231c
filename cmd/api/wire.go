//go:build wireinject
// +build wireinject

// Wire依赖注入配置
// 修改Provider后运行 `wire gen ./cmd/api` 重新生成wire_gen.go

package main

import (
	"github.com/google/wire"
	"go.uber.org/zap"

	appuser "github.com/xiebiao/storefront/internal/application/user"
	"github.com/xiebiao/storefront/internal/domain/book"
	"github.com/xiebiao/storefront/internal/infrastructure/config"
	"github.com/xiebiao/storefront/internal/infrastructure/events"
	"github.com/xiebiao/storefront/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/storefront/internal/interface/http/handler"
)

// infrastructureSet 数据库、Redis、指标、消息
var infrastructureSet = wire.NewSet(
	provideDB,
	provideRedis,
	provideRegistry,
	provideMetrics,
	providePublisher,
	events.NewBus,
)

// repositorySet 仓储与存储
var repositorySet = wire.NewSet(
	mysql.NewUserRepository,
	mysql.NewBookRepository,
	mysql.NewOrderRepository,
	mysql.NewTxManager,
	provideSessionStore,
	provideGuestCartStore,
	provideRemoteCartStore,
)

// domainSet 领域服务
var domainSet = wire.NewSet(
	provideUserService,
	book.NewService,
	providePricing,
)

// cartSet 购物车会话
var cartSet = wire.NewSet(
	provideCatalog,
	provideCatalogEvictor,
	provideCartObserver,
	provideSessionManager,
)

// applicationSet 用例
var applicationSet = wire.NewSet(
	appuser.NewRegisterUseCase,
	provideLoginUseCase,
	provideLogoutUseCase,
	appuser.NewRefreshUseCase,
	providePublishBookUseCase,
	provideListBooksUseCase,
	provideGetBookUseCase,
	provideSetActiveUseCase,
	provideCheckoutUseCase,
	provideQueryUseCase,
	provideCancelOrderUseCase,
)

// interfaceSet 中间件、处理器与HTTP服务
var interfaceSet = wire.NewSet(
	provideJWTManager,
	provideAuthMiddleware,
	handler.NewUserHandler,
	handler.NewBookHandler,
	provideCartHandler,
	handler.NewOrderHandler,
	provideEngine,
	provideServer,
)

// InitializeApp 组装应用;cleanup按创建的逆序释放资源
func InitializeApp(cfg *config.Config, log *zap.Logger) (*App, func(), error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		cartSet,
		applicationSet,
		interfaceSet,
		newApp,
	)
	return nil, nil, nil
}
