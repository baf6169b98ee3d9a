package proxy

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"xunity-llm-translate-server/internal/i18n"
	"xunity-llm-translate-server/internal/logger"
	"xunity-llm-translate-server/internal/utils"
)

// handleTranslate 入站翻译入口：GET /?text=...
func (s *Server) handleTranslate(c *gin.Context) {
	// 有界工作池：拿到空位之前一直排队
	s.sem <- struct{}{}
	defer func() { <-s.sem }()

	if !c.Request.URL.Query().Has("text") {
		c.Data(http.StatusOK, "text/plain", nil)
		return
	}

	text := strings.TrimSpace(c.Query("text"))
	if text == "" {
		c.Data(http.StatusOK, "text/plain; charset=utf-8", nil)
		return
	}

	cfg := s.store.Current()
	lang := i18n.Normalize(cfg.Language)

	requestID := uuid.NewString()
	clientIP := c.ClientIP()
	clientID := utils.ClientID(clientIP)

	s.sink.LogMessage(i18n.T(lang, "request_received") + utils.SingleLine(text))
	s.sink.WorkStarted()

	start := time.Now()
	result := s.translator.Translate(s.rootCtx, text, clientIP)
	duration := time.Since(start)

	success := result.Text != ""
	if s.rootCtx.Err() != nil {
		// 服务停止：无论结果如何都按失败上报
		s.sink.WorkFinished(false)
	} else {
		s.sink.WorkFinished(success)
	}

	translationLog := &logger.TranslationLog{
		Timestamp:        start.UTC(),
		RequestID:        requestID,
		ClientID:         clientID,
		SourceText:       text,
		ResultText:       result.Text,
		Success:          success,
		Attempts:         result.Attempts,
		DurationMs:       duration.Milliseconds(),
		PromptTokens:     result.PromptTokens,
		CompletionTokens: result.CompletionTokens,
	}
	if !success {
		translationLog.Error = "translation failed"
	}
	s.logger.LogTranslation(translationLog)

	if result.Text == "" {
		c.Data(http.StatusInternalServerError, "text/plain", []byte("Translation Failed"))
		return
	}
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(result.Text))
}
