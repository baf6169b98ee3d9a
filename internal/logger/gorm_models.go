package logger

import (
	"time"

	"gorm.io/gorm"
)

// TranslationLog 一次入站翻译请求的完整记录（包含全部重试）。
type TranslationLog struct {
	ID               uint      `gorm:"primarykey" json:"id"`
	Timestamp        time.Time `gorm:"index" json:"timestamp"`
	RequestID        string    `gorm:"index;size:64" json:"request_id"`
	ClientID         string    `gorm:"index;size:16" json:"client_id"`
	SourceText       string    `gorm:"type:text" json:"source_text"`
	ResultText       string    `gorm:"type:text" json:"result_text"`
	Success          bool      `gorm:"index" json:"success"`
	Attempts         int       `json:"attempts"`
	DurationMs       int64     `json:"duration_ms"`
	PromptTokens     int       `json:"prompt_tokens"`
	CompletionTokens int       `json:"completion_tokens"`
	Error            string    `gorm:"size:512" json:"error,omitempty"`
}

func (TranslationLog) TableName() string {
	return "translation_logs"
}

// GORMConfig 存储层调优参数
type GORMConfig struct {
	DBPath          string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	RetentionDays   int
	CleanupInterval time.Duration
}

func DefaultGORMConfig(dbPath string) *GORMConfig {
	return &GORMConfig{
		DBPath:          dbPath,
		MaxOpenConns:    4,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Hour,
		RetentionDays:   30,
		CleanupInterval: 6 * time.Hour,
	}
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_translation_logs_ts_success ON translation_logs(timestamp, success)",
		"CREATE INDEX IF NOT EXISTS idx_translation_logs_client_ts ON translation_logs(client_id, timestamp)",
	}
	for _, stmt := range indexes {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
