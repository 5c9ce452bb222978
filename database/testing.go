package database

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenTestDB 创建迁移好的内存 SQLite 数据库，测试结束后自动关闭
// 连接数限制为 1，保证同一测试内所有事务串行访问同一个内存库
func OpenTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	return openSQLite(t, dsn, 1)
}

// OpenConcurrentTestDB 创建基于临时文件的 WAL 模式 SQLite，允许多个连接并发读写。
// 写锁冲突由 busy_timeout 等待；事务以 BEGIN IMMEDIATE 开始，避免读快照升级写锁失败。
func OpenConcurrentTestDB(t testing.TB, maxConns int) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "finance.db")
	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_busy_timeout=10000&_txlock=immediate", path)
	return openSQLite(t, dsn, maxConns)
}

func openSQLite(t testing.TB, dsn string, maxConns int) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(maxConns)
	t.Cleanup(func() { sqlDB.Close() })

	if err := AutoMigrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

// UseTestDB 将全局 DB 替换为测试库
func UseTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	db := OpenTestDB(t)
	old := DB
	DB = db
	t.Cleanup(func() { DB = old })
	return db
}
