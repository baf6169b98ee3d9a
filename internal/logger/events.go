package logger

// EventSink 宿主界面事件回调：运行日志、进度与 token 用量。
// 翻译流程只依赖这四个方法；图形界面、TUI 或纯日志实现都可以接上来。
type EventSink interface {
	LogMessage(msg string)
	WorkStarted()
	WorkFinished(success bool)
	TokenUsage(promptTokens, completionTokens int)
}

// LogSink 默认实现：事件只写入结构化日志。
type LogSink struct {
	logger *Logger
}

func NewLogSink(l *Logger) *LogSink {
	return &LogSink{logger: l}
}

func (s *LogSink) LogMessage(msg string) {
	s.logger.Info(msg)
}

func (s *LogSink) WorkStarted() {
	s.logger.Debug("work started")
}

func (s *LogSink) WorkFinished(success bool) {
	s.logger.Debug("work finished", map[string]interface{}{"success": success})
}

func (s *LogSink) TokenUsage(promptTokens, completionTokens int) {
	s.logger.Info("token usage", map[string]interface{}{
		"prompt_tokens":     promptTokens,
		"completion_tokens": completionTokens,
	})
}
