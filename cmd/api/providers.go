package main

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	goredis "github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	appbook "github.com/xiebiao/storefront/internal/application/book"
	cartapp "github.com/xiebiao/storefront/internal/application/cart"
	apporder "github.com/xiebiao/storefront/internal/application/order"
	"github.com/xiebiao/storefront/internal/application/session"
	appuser "github.com/xiebiao/storefront/internal/application/user"
	"github.com/xiebiao/storefront/internal/domain/book"
	"github.com/xiebiao/storefront/internal/domain/cart"
	"github.com/xiebiao/storefront/internal/domain/order"
	"github.com/xiebiao/storefront/internal/domain/user"
	"github.com/xiebiao/storefront/internal/infrastructure/breaker"
	"github.com/xiebiao/storefront/internal/infrastructure/config"
	"github.com/xiebiao/storefront/internal/infrastructure/events"
	"github.com/xiebiao/storefront/internal/infrastructure/observer"
	"github.com/xiebiao/storefront/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/storefront/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/storefront/internal/interface/http/handler"
	"github.com/xiebiao/storefront/internal/interface/http/middleware"
	"github.com/xiebiao/storefront/internal/interface/http/router"
	"github.com/xiebiao/storefront/pkg/jwt"
	"github.com/xiebiao/storefront/pkg/metrics"
	"github.com/xiebiao/storefront/pkg/mq"
)

// App 组装完成的应用
type App struct {
	Config   *config.Config
	Server   *http.Server
	Sessions *session.Manager
	Log      *zap.Logger
}

func newApp(cfg *config.Config, srv *http.Server, sessions *session.Manager, log *zap.Logger) *App {
	return &App{Config: cfg, Server: srv, Sessions: sessions, Log: log}
}

// ========================================
// 基础设施
// ========================================

func provideDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, func(), error) {
	db, err := mysql.NewDB(cfg.Database, cfg.Server.Mode, log)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return db, cleanup, nil
}

func provideRedis(cfg *config.Config, log *zap.Logger) (*goredis.Client, func(), error) {
	client, err := redis.NewClient(cfg.Redis, log)
	if err != nil {
		return nil, nil, err
	}
	return client, func() { _ = client.Close() }, nil
}

// provideRegistry 独立的Registry,附带Go运行时与进程指标
func provideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func provideMetrics(reg *prometheus.Registry) *metrics.Metrics {
	return metrics.New(reg)
}

func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}

func provideSessionStore(client *goredis.Client) *redis.SessionStore {
	return redis.NewSessionStore(client)
}

func provideGuestCartStore(cfg *config.Config, client *goredis.Client) *redis.GuestCartStore {
	return redis.NewGuestCartStore(client, cfg.Cart.GuestTTL)
}

// provideRemoteCartStore MySQL购物车仓储外包一层熔断
func provideRemoteCartStore(cfg *config.Config, db *gorm.DB, m *metrics.Metrics, log *zap.Logger) *breaker.RemoteStore {
	return breaker.NewRemoteStore(mysql.NewCartRepository(db), cfg.Breaker, m, log)
}

// providePublisher 启用MQ时发布到RabbitMQ,否则只写日志
func providePublisher(cfg *config.Config, log *zap.Logger) (events.Publisher, func(), error) {
	if !cfg.MQ.Enabled {
		return events.NewLogPublisher(log), func() {}, nil
	}
	pub, err := mq.NewPublisher(cfg.MQ.URL, cfg.MQ.Exchange, mq.ExchangeTopic, log)
	if err != nil {
		return nil, nil, fmt.Errorf("连接消息队列失败: %w", err)
	}
	return pub, func() { _ = pub.Close() }, nil
}

// ========================================
// 领域与应用
// ========================================

func provideUserService(repo user.Repository) user.Service {
	return user.NewService(repo, user.DefaultBcryptCost)
}

func providePricing(cfg *config.Config) cart.Pricing {
	return cart.Pricing{
		TaxRateBasisPoints: cfg.Cart.TaxRateBP,
		ExpressFeeCents:    cfg.Cart.ExpressFeeCents,
	}
}

// provideCatalog 目录查询,catalog_cache_ttl>0时加Redis缓存
func provideCatalog(cfg *config.Config, svc book.Service, client *goredis.Client) cart.Catalog {
	catalog := appbook.NewCatalog(svc)
	if cfg.Cart.CatalogCacheTTL <= 0 {
		return catalog
	}
	return redis.NewCatalogCache(catalog, client, cfg.Cart.CatalogCacheTTL)
}

// provideCatalogEvictor 目录未缓存时返回nil
func provideCatalogEvictor(catalog cart.Catalog) appbook.CatalogEvictor {
	if e, ok := catalog.(appbook.CatalogEvictor); ok {
		return e
	}
	return nil
}

// provideCartObserver 日志、指标、事件三路观察者
func provideCartObserver(log *zap.Logger, m *metrics.Metrics, bus *events.Bus) cartapp.Observer {
	return cartapp.Observers{
		observer.NewLogging(log),
		observer.NewMetrics(m),
		bus,
	}
}

func provideSessionManager(
	cfg *config.Config,
	local *redis.GuestCartStore,
	remote *breaker.RemoteStore,
	catalog cart.Catalog,
	obs cartapp.Observer,
	pricing cart.Pricing,
	m *metrics.Metrics,
	log *zap.Logger,
) (*session.Manager, func()) {
	mgr := session.NewManager(session.Options{
		Local:          local,
		Remote:         remote,
		Catalog:        catalog,
		Observer:       obs,
		Pricing:        pricing,
		GuestKeyPrefix: cfg.Cart.GuestKeyPrefix,
		IdleTimeout:    cfg.Cart.SessionIdle,
		Logger:         log,
		Active:         m.CartSessionsActive,
	})
	return mgr, mgr.Close
}

func providePublishBookUseCase(cfg *config.Config, svc book.Service) *appbook.PublishBookUseCase {
	return appbook.NewPublishBookUseCase(svc, cfg.Cart.Currency)
}

func provideListBooksUseCase(cfg *config.Config, svc book.Service) *appbook.ListBooksUseCase {
	return appbook.NewListBooksUseCase(svc, cfg.Cart.Currency)
}

func provideGetBookUseCase(cfg *config.Config, svc book.Service) *appbook.GetBookUseCase {
	return appbook.NewGetBookUseCase(svc, cfg.Cart.Currency)
}

func provideSetActiveUseCase(cfg *config.Config, svc book.Service, evictor appbook.CatalogEvictor) *appbook.SetActiveUseCase {
	return appbook.NewSetActiveUseCase(svc, cfg.Cart.Currency, evictor)
}

func provideLoginUseCase(
	cfg *config.Config,
	svc user.Service,
	jwtManager *jwt.Manager,
	sessions *redis.SessionStore,
	carts *session.Manager,
	log *zap.Logger,
) *appuser.LoginUseCase {
	return appuser.NewLoginUseCase(svc, jwtManager, sessions, carts, cfg.JWT.RefreshTokenExpire, log)
}

func provideLogoutUseCase(sessions *redis.SessionStore, carts *session.Manager, log *zap.Logger) *appuser.LogoutUseCase {
	return appuser.NewLogoutUseCase(sessions, carts, log)
}

func provideCheckoutUseCase(
	cfg *config.Config,
	orders order.Repository,
	books book.Repository,
	tx *mysql.TxManager,
	remote *breaker.RemoteStore,
	carts *session.Manager,
	pricing cart.Pricing,
	bus *events.Bus,
	m *metrics.Metrics,
	log *zap.Logger,
) *apporder.CheckoutUseCase {
	return apporder.NewCheckoutUseCase(apporder.CheckoutDeps{
		Orders:    orders,
		Books:     books,
		Tx:        tx,
		CartStore: remote,
		Sessions:  carts,
		Pricing:   pricing,
		Currency:  cfg.Cart.Currency,
		Notifier:  bus,
		Metrics:   m,
		Logger:    log,
	})
}

func provideQueryUseCase(cfg *config.Config, orders order.Repository) *apporder.QueryUseCase {
	return apporder.NewQueryUseCase(orders, cfg.Cart.Currency)
}

func provideCancelOrderUseCase(cfg *config.Config, orders order.Repository, books book.Repository, tx *mysql.TxManager) *apporder.CancelOrderUseCase {
	return apporder.NewCancelOrderUseCase(orders, books, tx, cfg.Cart.Currency)
}

// ========================================
// 接口层
// ========================================

func provideAuthMiddleware(jwtManager *jwt.Manager, sessions *redis.SessionStore) *middleware.AuthMiddleware {
	return middleware.NewAuthMiddleware(jwtManager, sessions)
}

func provideCartHandler(cfg *config.Config) *handler.CartHandler {
	return handler.NewCartHandler(cfg.Cart.MaxQuantity, cfg.Cart.Currency)
}

func provideEngine(
	cfg *config.Config,
	log *zap.Logger,
	reg *prometheus.Registry,
	m *metrics.Metrics,
	auth *middleware.AuthMiddleware,
	carts *session.Manager,
	bindings *redis.SessionStore,
	users *handler.UserHandler,
	books *handler.BookHandler,
	cartHandler *handler.CartHandler,
	orders *handler.OrderHandler,
) *gin.Engine {
	return router.New(router.Deps{
		Mode:     cfg.Server.Mode,
		Logger:   log,
		Gatherer: reg,
		Metrics:  m,
		CORS:     cfg.CORS,
		Auth:     auth,
		Sessions: carts,
		Bindings: bindings,
		Users:    users,
		Books:    books,
		Carts:    cartHandler,
		Orders:   orders,
	})
}

// provideServer 入口处开启HTTP span;未启用tracing时为no-op
func provideServer(cfg *config.Config, engine *gin.Engine) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      otelhttp.NewHandler(engine, cfg.Tracing.ServiceName),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
