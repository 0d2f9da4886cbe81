// Package di はアプリケーションの依存関係を組み立てます。
package di

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"shop_backend/internal/config"
	authadapters "shop_backend/internal/feature/auth/adapters"
	authhandler "shop_backend/internal/feature/auth/transport/handler"
	authmw "shop_backend/internal/feature/auth/transport/middleware"
	authusecase "shop_backend/internal/feature/auth/usecase"
	catalogadapters "shop_backend/internal/feature/catalog/adapters"
	"shop_backend/internal/feature/catalog/adapters/gemini"
	cataloghandler "shop_backend/internal/feature/catalog/transport/handler"
	catalogusecase "shop_backend/internal/feature/catalog/usecase"
	purchaseadapters "shop_backend/internal/feature/purchase/adapters"
	purchasehandler "shop_backend/internal/feature/purchase/transport/handler"
	purchaseusecase "shop_backend/internal/feature/purchase/usecase"
	"shop_backend/internal/platform/cache"
	platformdb "shop_backend/internal/platform/db"
	platformhttp "shop_backend/internal/platform/http"
	"shop_backend/internal/platform/http/handler"
	"shop_backend/internal/shared/ratelimiter"
)

// AdminSeeder は初期管理者を作成します。
type AdminSeeder interface {
	EnsureDefaultAdmin(ctx context.Context, username, email, password string) (bool, error)
}

// Container はルーターとmainが必要とするコンポーネントをまとめたものです。
type Container struct {
	SessionManager *authusecase.SessionManager
	AdminSeeder    AdminSeeder

	Sessions    *authmw.Sessions
	RateLimiter *ratelimiter.RateLimiter

	AuthHandler     *authhandler.AuthHandler
	ProfileHandler  *authhandler.ProfileHandler
	UserHandler     *authhandler.UserHandler
	ProductHandler  *cataloghandler.ProductHandler
	PurchaseHandler *purchasehandler.PurchaseHandler

	ReadyChecks map[string]handler.Pinger
}

// Build は設定とDB・Redis接続から全コンポーネントを生成します。rdbはnilでもかまいません。
func Build(ctx context.Context, cfg *config.Config, db *gorm.DB, rdb *redis.Client) (*Container, error) {
	// Repository
	userRepo := authadapters.NewUserRepository(db)
	adminRepo := authadapters.NewAdminRepository(db)
	sessionRepo := NewSessionRepository(rdb, db, cfg.Session.KeyPrefix)
	productRepo := catalogadapters.NewProductRepository(db)
	orderRepo := purchaseadapters.NewOrderRepository(db)

	// Redisキャッシュでラップ
	cachedProducts := cache.NewCachingProductRepository(rdb, cfg.Cache.ProductTTL, productRepo, cfg.Cache.Namespace)

	var copywriter catalogusecase.Copywriter
	if cfg.Gemini.Enabled {
		cw, err := gemini.NewCopywriter(ctx, cfg.Gemini.Model, platformhttp.NewClient(cfg.Gemini.Timeout))
		if err != nil {
			return nil, err
		}
		copywriter = cw
		slog.Info("gemini copywriter enabled", "model", cfg.Gemini.Model)
	}

	// Usecase
	authUC := authusecase.NewAuthUsecase(userRepo, adminRepo)
	sessionMgr := authusecase.NewSessionManager(sessionRepo, cfg.Session.TTL)
	catalogUC := catalogusecase.NewCatalogUsecase(cachedProducts, copywriter)
	// トランザクション内ではキャッシュを経由しないリポジトリを使い、コミット後に無効化します
	purchaseUC := purchaseusecase.NewPurchaseUsecase(platformdb.NewTransactor(db), productRepo, orderRepo, cachedProducts)

	cookie := authmw.Cookie{Name: cfg.Session.CookieName, Secure: cfg.Session.SecureCookie}

	c := &Container{
		SessionManager: sessionMgr,
		AdminSeeder:    authUC,
		Sessions:       authmw.NewSessions(sessionMgr, cookie),
		RateLimiter:    ratelimiter.NewRateLimiter(rdb, cfg.RateLimit.Requests, cfg.RateLimit.Period, cfg.RateLimit.Burst, "ratelimit"),

		AuthHandler:     authhandler.NewAuthHandler(authUC, sessionMgr, cookie),
		ProfileHandler:  authhandler.NewProfileHandler(authUC),
		UserHandler:     authhandler.NewUserHandler(authUC, sessionMgr),
		ProductHandler:  cataloghandler.NewProductHandler(catalogUC),
		PurchaseHandler: purchasehandler.NewPurchaseHandler(purchaseUC),

		ReadyChecks: map[string]handler.Pinger{
			"database": handler.PingFunc(func(ctx context.Context) error {
				sqlDB, err := db.DB()
				if err != nil {
					return err
				}
				return sqlDB.PingContext(ctx)
			}),
		},
	}
	if rdb != nil {
		c.ReadyChecks["redis"] = handler.PingFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	}
	return c, nil
}
