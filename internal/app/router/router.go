package router

import (
	"net/http"
	"path/filepath"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"shop_backend/internal/api"
	"shop_backend/internal/app/di"
	"shop_backend/internal/config"
	"shop_backend/internal/feature/auth/domain/entity"
	"shop_backend/internal/platform/http/handler"
	"shop_backend/internal/platform/http/middleware"
)

func NewRouter(cfg *config.Config, c *di.Container) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger())
	// cors.New は許可オリジンが空だとpanicする
	if len(cfg.CORS.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.HeaderRequestID},
			ExposeHeaders:    []string{middleware.HeaderRequestID, "Retry-After"},
			AllowCredentials: true,
		}))
	}

	// 導通確認用
	health := handler.Health(cfg.App.Name)
	r.GET("/healthz", health)
	r.HEAD("/healthz", health)
	r.GET("/readyz", handler.Ready(c.ReadyChecks))

	// 認証エンドポイント（レート制限あり）
	limited := r.Group("/", c.RateLimiter.Middleware())
	{
		limited.POST("/registro", c.AuthHandler.Register)
		limited.POST("/login", c.AuthHandler.Login)
		limited.POST("/admin-login", c.AuthHandler.AdminLogin)
	}
	r.GET("/logout", c.AuthHandler.Logout)

	apiRoutes := r.Group("/api")
	apiRoutes.GET("/user-status", c.Sessions.Optional(), c.AuthHandler.UserStatus)
	// 商品詳細は誰でも参照可能
	apiRoutes.GET("/productos/:id", c.ProductHandler.Get)

	user := apiRoutes.Group("/", c.Sessions.RequireRole(entity.RoleUser))
	{
		user.GET("/obtener-perfil", c.ProfileHandler.GetProfile)
		user.POST("/actualizar-perfil", c.ProfileHandler.UpdateProfile)
		user.POST("/comprar/:productId", c.PurchaseHandler.Purchase)
		user.GET("/mis-compras", c.PurchaseHandler.History)
	}

	admin := apiRoutes.Group("/", c.Sessions.RequireRole(entity.RoleAdmin))
	{
		admin.GET("/productos", c.ProductHandler.List)
		admin.POST("/productos", c.ProductHandler.Create)
		admin.PUT("/productos/:id", c.ProductHandler.Update)
		admin.DELETE("/productos/:id", c.ProductHandler.Delete)
		admin.POST("/productos/:id/sugerir-descripcion", c.ProductHandler.SuggestDescription)

		admin.GET("/usuarios", c.UserHandler.List)
		admin.GET("/usuarios/:id", c.UserHandler.Get)
		admin.PUT("/usuarios/:id", c.UserHandler.Update)
		admin.DELETE("/usuarios/:id", c.UserHandler.Delete)
	}

	if dir := cfg.Server.PublicDir; dir != "" {
		registerPages(r, c, dir)
	}

	return r
}

// registerPages はpublicディレクトリのHTMLページと静的ファイルを配信します。
func registerPages(r *gin.Engine, c *di.Container, dir string) {
	page := func(name string) gin.HandlerFunc {
		path := filepath.Join(dir, name)
		return func(ctx *gin.Context) { ctx.File(path) }
	}

	r.GET("/", page("index.html"))
	r.GET("/productos", page("productos.html"))
	r.GET("/novedades", page("novedades.html"))
	r.GET("/login", page("login.html"))
	r.GET("/registro", page("registro.html"))
	r.GET("/admin-login", page("admin-login.html"))
	r.GET("/perfil", c.Sessions.RequirePage(entity.RoleUser, "/login"), page("perfil.html"))
	r.GET("/admin", c.Sessions.RequirePage(entity.RoleAdmin, "/admin-login"), page("admin.html"))

	// それ以外（css, js, 画像）はファイルサーバーで返す
	files := http.FileServer(http.Dir(dir))
	r.NoRoute(func(ctx *gin.Context) {
		if ctx.Request.Method != http.MethodGet && ctx.Request.Method != http.MethodHead {
			ctx.JSON(http.StatusNotFound, api.ErrorResponse{Error: "not found", Message: "not found"})
			return
		}
		files.ServeHTTP(ctx.Writer, ctx.Request)
	})
}
