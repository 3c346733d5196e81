package db

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const defaultSQLitePath = "portfolio.db"

// OpenSQLite 打开 SQLite 数据库并执行自动迁移。
// databasePath 为空时回退到默认值 portfolio.db。
func OpenSQLite(databasePath string) (*gorm.DB, error) {
	path := strings.TrimSpace(databasePath)
	if path == "" {
		path = defaultSQLitePath
	}

	if !strings.HasPrefix(path, "file:") {
		if err := ensureParentDir(path); err != nil {
			return nil, err
		}
	}

	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	if err := Migrate(gdb); err != nil {
		return nil, err
	}
	return gdb, nil
}

// Migrate 为核心模型创建表与索引。
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(&Post{}, &PostTag{})
}

// NewSQLiteConnector 返回一个懒加载的 SQLite 连接句柄。
func NewSQLiteConnector(databasePath string) *Connector[*gorm.DB] {
	return NewConnector(Dialer[*gorm.DB]{
		Name: "sqlite",
		Open: func(ctx context.Context) (*gorm.DB, error) {
			return OpenSQLite(databasePath)
		},
		Ping: func(ctx context.Context, gdb *gorm.DB) error {
			sqlDB, err := gdb.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		Close: func(ctx context.Context, gdb *gorm.DB) error {
			sqlDB, err := gdb.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("database path parent is not a directory")
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}

	return err
}
