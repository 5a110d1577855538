package models

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite" // 纯 Go SQLite 驱动（基于 modernc.org/sqlite）
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// DBPoolConfig 数据库连接池配置
type DBPoolConfig struct {
	MaxOpenConns           int
	MaxIdleConns           int
	ConnMaxLifetimeSeconds int
	ConnMaxIdleTimeSeconds int
}

// InitDB 初始化数据库连接
func InitDB(driver, dsn, mode string, pool DBPoolConfig) error {
	db, err := OpenDB(driver, dsn, mode)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	applyDBPool(sqlDB, pool)
	DB = db
	return nil
}

// OpenDB 按驱动打开数据库，不修改全局实例
func OpenDB(driver, dsn, mode string) (*gorm.DB, error) {
	dialector, err := buildDialector(driver, dsn)
	if err != nil {
		return nil, err
	}
	level := logger.Warn
	if strings.EqualFold(strings.TrimSpace(mode), "debug") {
		level = logger.Info
	}
	return gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
}

func buildDialector(driver, dsn string) (gorm.Dialector, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "sqlite":
		// glebarez/sqlite 是基于 modernc.org/sqlite 的纯 Go 驱动
		return sqlite.Open(dsn), nil
	case "postgres", "postgresql":
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
}

func applyDBPool(sqlDB *sql.DB, pool DBPoolConfig) {
	if sqlDB == nil {
		return
	}
	if pool.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.MaxIdleConns >= 0 {
		sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	}
	if pool.ConnMaxLifetimeSeconds > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(pool.ConnMaxLifetimeSeconds) * time.Second)
	}
	if pool.ConnMaxIdleTimeSeconds > 0 {
		sqlDB.SetConnMaxIdleTime(time.Duration(pool.ConnMaxIdleTimeSeconds) * time.Second)
	}
}

// ContentModels 返回需要迁移的全部内容表
func ContentModels() []interface{} {
	return []interface{}{
		&Author{},
		&Category{},
		&Tag{},
		&Post{},
		&PostTag{},
		&Comment{},
		&Setting{},
	}
}

// AutoMigrate 自动迁移所有数据库表
func AutoMigrate() error {
	return Migrate(DB)
}

// Migrate 对指定连接执行迁移
func Migrate(db *gorm.DB) error {
	if db == nil {
		return fmt.Errorf("database not initialized")
	}
	if err := db.AutoMigrate(ContentModels()...); err != nil {
		return err
	}
	return backfillSearchColumns(db)
}

// backfillSearchColumns 为新增检索列之前写入的数据补齐小写副本
func backfillSearchColumns(db *gorm.DB) error {
	var posts []Post
	err := db.Select("id", "title", "content").
		Where("title <> '' AND (search_title IS NULL OR search_title = '')").
		FindInBatches(&posts, 200, func(_ *gorm.DB, _ int) error {
			for _, post := range posts {
				if err := db.Model(&Post{}).Where("id = ?", post.ID).UpdateColumns(map[string]interface{}{
					"search_title":   strings.ToLower(post.Title),
					"search_content": strings.ToLower(post.Content),
				}).Error; err != nil {
					return err
				}
			}
			return nil
		}).Error
	if err != nil {
		return fmt.Errorf("backfill post search columns: %w", err)
	}

	var tags []Tag
	err = db.Select("id", "name").
		Where("name <> '' AND (search_name IS NULL OR search_name = '')").
		FindInBatches(&tags, 200, func(_ *gorm.DB, _ int) error {
			for _, tag := range tags {
				if err := db.Model(&Tag{}).Where("id = ?", tag.ID).
					UpdateColumn("search_name", strings.ToLower(tag.Name)).Error; err != nil {
					return err
				}
			}
			return nil
		}).Error
	if err != nil {
		return fmt.Errorf("backfill tag search columns: %w", err)
	}
	return nil
}
