package logger

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"xunity-llm-translate-server/internal/utils"
)

// 入库文本的截断上限，超长的原文/译文只保留前缀
const maxStoredTextLen = 4096

type LogConfig struct {
	Level        string
	LogDirectory string
}

// Logger 结构化日志 + 翻译记录存储。
type Logger struct {
	logger  *logrus.Logger
	storage StorageInterface
	config  LogConfig
}

// StorageInterface defines the interface for translation log storage backends.
type StorageInterface interface {
	SaveLog(log *TranslationLog)
	GetLogs(limit, offset int, failedOnly bool) ([]*TranslationLog, int, error)
	CleanupLogsByDays(days int) (int64, error)
	Close() error
}

func NewLogger(config LogConfig) (*Logger, error) {
	l := logrus.New()

	level, err := logrus.ParseLevel(config.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	l.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
	})

	storage, err := NewGORMStorage(config.LogDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize translation log storage: %v", err)
	}

	return &Logger{
		logger:  l,
		storage: storage,
		config:  config,
	}, nil
}

// LogTranslation 记录一次完整翻译请求（含全部重试）。
func (l *Logger) LogTranslation(log *TranslationLog) {
	log.SourceText = utils.TruncateBody(log.SourceText, maxStoredTextLen)
	log.ResultText = utils.TruncateBody(log.ResultText, maxStoredTextLen)

	// 总是写入存储，方便事后查看
	if l.storage != nil {
		l.storage.SaveLog(log)
	}

	fields := logrus.Fields{
		"request_id":  log.RequestID,
		"client_id":   log.ClientID,
		"duration_ms": log.DurationMs,
		"attempts":    log.Attempts,
	}
	if log.PromptTokens > 0 || log.CompletionTokens > 0 {
		fields["prompt_tokens"] = log.PromptTokens
		fields["completion_tokens"] = log.CompletionTokens
	}

	if log.Success {
		l.logger.WithFields(fields).Info("Translation completed")
	} else {
		l.logger.WithFields(fields).Error("Translation failed")
	}
}

func (l *Logger) Info(msg string, fields ...logrus.Fields) {
	if len(fields) > 0 {
		l.logger.WithFields(fields[0]).Info(msg)
	} else {
		l.logger.Info(msg)
	}
}

func (l *Logger) Error(msg string, err error, fields ...logrus.Fields) {
	baseFields := logrus.Fields{}
	if err != nil {
		baseFields["error"] = err.Error()
	}
	if len(fields) > 0 {
		for k, v := range fields[0] {
			baseFields[k] = v
		}
	}
	l.logger.WithFields(baseFields).Error(msg)
}

func (l *Logger) Debug(msg string, fields ...logrus.Fields) {
	if len(fields) > 0 {
		l.logger.WithFields(fields[0]).Debug(msg)
	} else {
		l.logger.Debug(msg)
	}
}

func (l *Logger) GetLogs(limit, offset int, failedOnly bool) ([]*TranslationLog, int, error) {
	if l.storage == nil {
		return []*TranslationLog{}, 0, nil
	}
	return l.storage.GetLogs(limit, offset, failedOnly)
}

func (l *Logger) CleanupLogsByDays(days int) (int64, error) {
	if l.storage == nil {
		return 0, fmt.Errorf("storage not available")
	}
	return l.storage.CleanupLogsByDays(days)
}

// Close closes the logger and its storage backend.
func (l *Logger) Close() error {
	if l.storage != nil {
		return l.storage.Close()
	}
	return nil
}
