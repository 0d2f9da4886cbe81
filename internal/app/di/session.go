package di

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	authadapters "shop_backend/internal/feature/auth/adapters"
	"shop_backend/internal/feature/auth/usecase"
	"shop_backend/internal/platform/session"
)

// NewSessionRepository はSessionRepositoryの実装を生成します。
// Redisが利用可能な場合はRedis実装を、そうでない場合はSQLテーブルにフォールバックします。
func NewSessionRepository(rdb *redis.Client, db *gorm.DB, prefix string) usecase.SessionRepository {
	if rdb != nil {
		return session.NewSessionRedis(rdb, prefix)
	}
	return authadapters.NewSessionRepository(db)
}
