package proxy

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"xunity-llm-translate-server/internal/config"
	"xunity-llm-translate-server/internal/escape"
	"xunity-llm-translate-server/internal/i18n"
	"xunity-llm-translate-server/internal/logger"
	"xunity-llm-translate-server/internal/memory"
	"xunity-llm-translate-server/internal/upstream"
	"xunity-llm-translate-server/internal/utils"
)

const (
	maxRetryCount  = 5
	retryDelay     = time.Second
	attemptTimeout = 40 * time.Second
)

// Glossary 术语表协作方。
type Glossary interface {
	ContextPrompt(text string) string
	AddNewTerm(src, dst string) bool
}

// Rules 前后处理规则协作方。
type Rules interface {
	ProcessPre(text string) string
	ProcessPost(text string) string
}

// Result 一次入站请求的翻译结果汇总。
type Result struct {
	Text             string
	Attempts         int
	PromptTokens     int
	CompletionTokens int
}

// Translator 驱动重试循环与单次上游尝试。
type Translator struct {
	store    *config.Store
	contexts *memory.Store
	glossary Glossary
	rules    Rules
	client   *upstream.Client
	sink     logger.EventSink
}

func NewTranslator(store *config.Store, contexts *memory.Store, g Glossary, r Rules, client *upstream.Client, sink logger.EventSink) *Translator {
	return &Translator{
		store:    store,
		contexts: contexts,
		glossary: g,
		rules:    r,
		client:   client,
		sink:     sink,
	}
}

// Translate 有界重试直到拿到有效译文。ctx 取消（服务停止）立即放弃。
func (t *Translator) Translate(ctx context.Context, text, clientIP string) Result {
	var res Result
	lang := i18n.Normalize(t.store.Current().Language)

	for retry := 0; retry < maxRetryCount; retry++ {
		if ctx.Err() != nil {
			t.sink.LogMessage(i18n.T(lang, "aborted"))
			return res
		}

		if retry > 0 {
			t.sink.LogMessage(i18n.Tf(lang, "retry_attempt", retry+1, maxRetryCount))
			select {
			case <-ctx.Done():
				return res
			case <-time.After(retryDelay):
			}
		}

		res.Attempts = retry + 1
		attemptText, usage := t.attemptOnce(ctx, text, clientIP)
		if usage != nil {
			res.PromptTokens += usage.PromptTokens
			res.CompletionTokens += usage.CompletionTokens
		}

		if ctx.Err() != nil {
			return res
		}

		if isValidResult(attemptText) {
			if retry > 0 {
				t.sink.LogMessage(i18n.T(lang, "retry_success"))
			}
			res.Text = attemptText
			return res
		}
	}

	t.sink.LogMessage(i18n.T(lang, "retry_failed"))
	return res
}

// isValidResult 过滤空结果与模型自述的失败文案。
func isValidResult(result string) bool {
	if result == "" {
		return false
	}
	lower := strings.ToLower(result)
	if strings.HasPrefix(lower, "error") {
		return false
	}
	if strings.Contains(lower, "翻译失败") || strings.Contains(lower, "translation failed") {
		return false
	}
	return true
}

// attemptOnce 单次上游尝试。
// 每次尝试重新取配置快照，重试期间的热重载在下一次尝试生效。
func (t *Translator) attemptOnce(ctx context.Context, text, clientIP string) (string, *upstream.Usage) {
	if ctx.Err() != nil {
		return "", nil
	}

	cfg := t.store.Current()
	lang := i18n.Normalize(cfg.Language)

	apiKey, ok := t.store.Ring().Next()
	if !ok {
		t.sink.LogMessage("❌ " + i18n.T(lang, "err_invalid_key"))
		return "", nil
	}

	// 第 1 步：冻结易碎片段，escape map 只活在本次尝试内
	frozen, escapes := escape.Freeze(text)
	if cfg.EnableGlossary {
		frozen = t.rules.ProcessPre(frozen)
	}

	clientID := utils.ClientID(clientIP)

	systemPrompt := cfg.SystemPrompt + translationRules
	performExtraction := false
	if cfg.EnableGlossary {
		if glossaryContext := t.glossary.ContextPrompt(frozen); glossaryContext != "" {
			systemPrompt += "\n" + glossaryContext
		}
		if utf8.RuneCountInString(text) > 5 {
			performExtraction = true
			systemPrompt += termExtractionRules
		}
	}

	messages := []upstream.ChatMessage{{Role: "system", Content: systemPrompt}}
	for _, entry := range t.contexts.Read(clientID, cfg.ContextNum) {
		messages = append(messages,
			upstream.ChatMessage{Role: "user", Content: entry.User},
			upstream.ChatMessage{Role: "assistant", Content: entry.Assistant},
		)
	}
	userContent := cfg.PrePrompt + frozen
	messages = append(messages, upstream.ChatMessage{Role: "user", Content: userContent})

	attemptCtx, cancel := context.WithTimeout(ctx, attemptTimeout)
	defer cancel()

	resp, err := t.client.Complete(attemptCtx, &upstream.ChatRequest{
		Model:       cfg.Model,
		Temperature: cfg.Temperature,
		Messages:    messages,
	}, cfg.APIBase, apiKey)

	// usage 事件先于 choices 检查：响应残缺时用量也要上报
	var usage *upstream.Usage
	if resp != nil && resp.Usage != nil && (resp.Usage.PromptTokens > 0 || resp.Usage.CompletionTokens > 0) {
		usage = resp.Usage
		t.sink.TokenUsage(resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
	}

	if err != nil {
		switch {
		case ctx.Err() != nil:
			// 服务停止，静默放弃
		case errors.Is(attemptCtx.Err(), context.DeadlineExceeded):
			t.sink.LogMessage("❌ Request Timeout")
		case errors.Is(err, upstream.ErrBadJSON):
			t.sink.LogMessage("❌ " + i18n.T(lang, "err_json"))
		case errors.Is(err, upstream.ErrNoChoices):
			t.sink.LogMessage("❌ " + i18n.T(lang, "err_format"))
		default:
			t.sink.LogMessage("❌ Network Error: " + err.Error())
		}
		return "", usage
	}

	cleanContent := upstream.StripThink(resp.Choices[0].Message.Content)

	if performExtraction {
		cleanContent = upstream.ExtractTerms(cleanContent, frozen, func(src, dst string) {
			t.glossary.AddNewTerm(src, dst)
			t.sink.LogMessage(i18n.T(lang, "new_term") + src + " = " + dst)
		})
	}

	result := upstream.ExtractTranslation(cleanContent)

	// 第 2 步：解冻
	result = escape.Thaw(result, escapes)
	if cfg.EnableGlossary {
		result = t.rules.ProcessPost(result)
	}

	t.sink.LogMessage("  -> " + result)

	if !isValidResult(result) {
		return "", usage
	}

	t.contexts.Append(clientID, userContent, result, cfg.ContextNum)
	return result, usage
}
