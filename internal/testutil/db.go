// Package testutil 提供测试用的基础设施
//
// 仓储、用例和HTTP测试共用一个内存SQLite数据库,
// 通过与生产相同的GORM模型迁移表结构,不依赖外部MySQL。
package testutil

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/postboard/internal/infrastructure/persistence/mysql"
)

// NewDB 创建已迁移的内存数据库,测试结束自动关闭
//
// 注意:连接池限制为1个连接,内存库只存在于这个连接上;
// 事务内必须通过context里的事务DB访问,否则会阻塞
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, mysql.Migrate(db))

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}

// CountPosts 统计未删除的帖子数
func CountPosts(t testing.TB, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&mysql.PostModel{}).Count(&n).Error)
	return n
}

// SetLikes 直接修改点赞数(服务本身不提供点赞接口)
func SetLikes(t testing.TB, db *gorm.DB, id uint, likes int) {
	t.Helper()
	require.NoError(t, db.Model(&mysql.PostModel{}).Where("id = ?", id).UpdateColumn("likes", likes).Error)
}
