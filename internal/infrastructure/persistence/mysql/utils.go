package mysql

import (
	"context"

	"gorm.io/gorm"
)

// txKey context中存放事务DB的key
type txKey struct{}

// withTx 将事务DB注入到Context中
func withTx(ctx context.Context, tx *gorm.DB) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// dbFromContext 从context获取事务DB,如果没有则使用默认DB
// 所有Repository方法都必须通过它取DB,否则不会参与TxManager开启的事务
func dbFromContext(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}
