package mysql

import (
	"context"

	"gorm.io/gorm"
)

// TxManager 事务管理器
// 1. 封装GORM的Transaction方法
// 2. 通过context传递事务DB(避免全局变量)
// 3. 支持嵌套事务(GORM自动使用Savepoint)
type TxManager struct {
	db *gorm.DB
}

// NewTxManager 创建事务管理器
func NewTxManager(db *gorm.DB) *TxManager {
	return &TxManager{db: db}
}

// Transaction 执行事务
// fn内的所有Repository操作都在同一事务中执行:fn返回error时ROLLBACK,返回nil时COMMIT
//
// 使用示例(浏览帖子):
//
//	err := txManager.Transaction(ctx, func(ctx context.Context) error {
//	    // 1. 原子递增浏览数
//	    if err := postRepo.IncrementViews(ctx, id); err != nil {
//	        return err // 自动回滚
//	    }
//	    // 2. 读取本次递增后的记录
//	    p, err = postRepo.FindByID(ctx, id)
//	    return err
//	})
func (m *TxManager) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	// 已在事务中时复用外层事务(GORM会创建Savepoint)
	db := dbFromContext(ctx, m.db)
	return db.Transaction(func(tx *gorm.DB) error {
		return fn(withTx(ctx, tx))
	})
}
