package database

import (
	"fmt"
	"log"
	"strings"

	"familyfinance/config"
	"familyfinance/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Init 初始化数据库连接并执行迁移
func Init(cfg *config.Config) error {
	var err error
	DB, err = gorm.Open(mysql.Open(cfg.Database.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(parseLogLevel(cfg.Log.SQLLevel)),
	})
	if err != nil {
		return fmt.Errorf("连接数据库失败: %w", err)
	}

	// 获取底层 *sql.DB 连接池配置
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)

	switch cfg.Database.MigrateMode {
	case "sql":
		if err := RunMigrations(sqlDB); err != nil {
			return err
		}
	case "none":
	default:
		if err := AutoMigrate(DB); err != nil {
			return err
		}
	}

	if err := SeedCategories(DB); err != nil {
		return err
	}

	log.Println("数据库初始化成功")
	return nil
}

// AutoMigrate 自动迁移全部表
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("自动迁移失败: %w", err)
	}
	return nil
}

// SeedCategories 初始化默认支出类别（仅当表为空时）
func SeedCategories(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.ExpenseCategory{}).Count(&count).Error; err != nil {
		return fmt.Errorf("统计支出类别失败: %w", err)
	}
	if count > 0 {
		return nil
	}
	cats := models.DefaultCategories()
	if err := db.Create(&cats).Error; err != nil {
		return fmt.Errorf("写入默认支出类别失败: %w", err)
	}
	return nil
}

func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}
