// Package router 注册HTTP路由
package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/xiebiao/storefront/docs"
	"github.com/xiebiao/storefront/internal/infrastructure/config"
	"github.com/xiebiao/storefront/internal/interface/http/handler"
	"github.com/xiebiao/storefront/internal/interface/http/middleware"
	"github.com/xiebiao/storefront/pkg/metrics"
	"github.com/xiebiao/storefront/pkg/response"
)

// Deps 路由依赖
type Deps struct {
	Mode          string // debug | release | test
	Logger        *zap.Logger
	SlowThreshold time.Duration
	Gatherer      prometheus.Gatherer
	Metrics       *metrics.Metrics
	CORS          config.CORSConfig

	Auth     *middleware.AuthMiddleware
	Sessions middleware.CartSessions
	Bindings middleware.CartBindings // 可为nil

	Users  *handler.UserHandler
	Books  *handler.BookHandler
	Carts  *handler.CartHandler
	Orders *handler.OrderHandler
}

// New 创建Gin引擎并注册全部路由
func New(d Deps) *gin.Engine {
	switch d.Mode {
	case gin.ReleaseMode, gin.TestMode:
		gin.SetMode(d.Mode)
	}
	if d.SlowThreshold <= 0 {
		d.SlowThreshold = 500 * time.Millisecond
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(d.CORS))
	r.Use(middleware.Logger(d.Logger, d.SlowThreshold))
	if d.Metrics != nil {
		r.Use(middleware.Metrics(d.Metrics))
	}

	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{"message": "pong", "status": "healthy"})
	})
	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	// 访问 /swagger/index.html 查看API文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	cartSession := middleware.CartSession(d.Sessions, d.Bindings)

	v1 := r.Group("/api/v1")

	users := v1.Group("/users")
	{
		users.POST("/register", d.Users.Register)
		users.POST("/login", d.Users.Login)
		users.POST("/refresh", d.Users.Refresh)
		users.POST("/logout", d.Auth.RequireAuth(), cartSession, d.Users.Logout)
		users.GET("/me", d.Auth.RequireAuth(), d.Users.Me)
	}

	books := v1.Group("/books")
	{
		books.GET("", d.Books.ListBooks)
		books.GET("/:id", d.Books.GetBook)
		books.POST("", d.Auth.RequireAuth(), d.Books.PublishBook)
		books.PATCH("/:id/active", d.Auth.RequireAuth(), d.Books.SetActive)
	}

	// 购物车:访客与登录用户共用,会话由X-Cart-Session标识
	cart := v1.Group("/cart")
	cart.Use(d.Auth.OptionalAuth(), cartSession)
	{
		cart.GET("", d.Carts.Get)
		cart.DELETE("", d.Carts.Clear)
		cart.POST("/items", d.Carts.AddItem)
		cart.PATCH("/items/:book_id", d.Carts.UpdateQuantity)
		cart.DELETE("/items/:book_id", d.Carts.RemoveItem)
		cart.PUT("/shipping", d.Carts.SetShipping)
	}

	orders := v1.Group("/orders")
	orders.Use(d.Auth.RequireAuth())
	{
		orders.POST("/checkout", cartSession, d.Orders.Checkout)
		orders.GET("", d.Orders.ListOrders)
		orders.GET("/:order_no", d.Orders.GetOrder)
		orders.POST("/:order_no/cancel", d.Orders.CancelOrder)
	}

	return r
}
