package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

// GORMStorage 基于 GORM + SQLite 的翻译记录存储
type GORMStorage struct {
	db            *gorm.DB
	config        *GORMConfig
	cleanupTicker *time.Ticker
	stopCleanup   chan struct{}
}

// NewGORMStorage 在 logDir 下建立 translations.db
func NewGORMStorage(logDir string) (*GORMStorage, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %v", err)
	}

	dbPath := filepath.Join(logDir, "translations.db")
	config := DefaultGORMConfig(dbPath)

	// modernc.org/sqlite 驱动，WAL 模式减少锁冲突
	db, err := gorm.Open(sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        dbPath + "?_journal_mode=WAL&_timeout=5000&_busy_timeout=5000",
	}, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(config.MaxOpenConns)
	sqlDB.SetMaxIdleConns(config.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(config.ConnMaxLifetime)

	pragmas := []string{
		"PRAGMA synchronous = NORMAL",
		"PRAGMA temp_store = memory",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			fmt.Printf("Warning: Failed to set pragma %s: %v\n", pragma, err)
		}
	}

	if err := db.AutoMigrate(&TranslationLog{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %v", err)
	}
	if err := createIndexes(db); err != nil {
		return nil, fmt.Errorf("failed to create indexes: %v", err)
	}

	storage := &GORMStorage{
		db:          db,
		config:      config,
		stopCleanup: make(chan struct{}),
	}
	storage.startBackgroundCleanup()

	return storage, nil
}

// SaveLog 保存一条翻译记录。
// 静默失败，不阻塞翻译主流程；SQLITE_BUSY 时做短重试。
func (g *GORMStorage) SaveLog(log *TranslationLog) {
	const maxRetries = 3
	for attempt := 0; attempt < maxRetries; attempt++ {
		err := g.db.Create(log).Error
		if err == nil {
			return
		}
		if strings.Contains(err.Error(), "database is locked") ||
			strings.Contains(err.Error(), "SQLITE_BUSY") {
			time.Sleep(time.Duration(attempt+1) * 10 * time.Millisecond)
			continue
		}
		return
	}
}

// GetLogs 按时间倒序分页返回记录和总条数。
func (g *GORMStorage) GetLogs(limit, offset int, failedOnly bool) ([]*TranslationLog, int, error) {
	query := g.db.Model(&TranslationLog{})
	if failedOnly {
		query = query.Where("success = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count logs: %v", err)
	}

	var logs []*TranslationLog
	err := query.Order("timestamp DESC").Limit(limit).Offset(offset).Find(&logs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query logs: %v", err)
	}

	return logs, int(total), nil
}

// CleanupLogsByDays 删除 days 天之前的记录，返回删除条数。
func (g *GORMStorage) CleanupLogsByDays(days int) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	result := g.db.Where("timestamp < ?", cutoff).Delete(&TranslationLog{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to cleanup logs: %v", result.Error)
	}
	return result.RowsAffected, nil
}

func (g *GORMStorage) startBackgroundCleanup() {
	g.cleanupTicker = time.NewTicker(g.config.CleanupInterval)
	go func() {
		for {
			select {
			case <-g.cleanupTicker.C:
				g.CleanupLogsByDays(g.config.RetentionDays)
			case <-g.stopCleanup:
				return
			}
		}
	}()
}

func (g *GORMStorage) Close() error {
	if g.cleanupTicker != nil {
		g.cleanupTicker.Stop()
	}
	close(g.stopCleanup)

	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
