package i18n

import "fmt"

// 服务器日志字典 / Server log dictionary
// 每条消息两列：0 = English, 1 = 简体中文，由配置项 language 选择。

type Lang int

const (
	English Lang = 0
	Chinese Lang = 1
)

// Normalize 把越界的 language 值收敛到默认的中文。
func Normalize(v int) Lang {
	if v == 0 {
		return English
	}
	return Chinese
}

var messages = map[string][2]string{
	"server_start":     {"Server started. Port: %d, Threads: %d", "服务已启动，端口：%d，并发线程数：%d"},
	"server_stop":      {"Server stopped", "服务已停止"},
	"request_received": {"Request received: ", "收到请求: "},
	"err_invalid_key":  {"Error: Invalid API Key", "错误：API 密钥无效"},
	"err_format":       {"Error: Invalid Response Format", "错误：响应格式无效"},
	"err_json":         {"Error: JSON Parse Error", "错误：JSON 解析失败"},
	"new_term":         {"✨ New Term Discovered: ", "✨ 发现新术语: "},
	"retry_attempt":    {"🔄 Retry translation (%d/%d): ", "🔄 重试翻译 (%d/%d): "},
	"retry_success":    {"✅ Retry successful", "✅ 重试成功"},
	"retry_failed":     {"❌ Retry failed, skipping text", "❌ 重试失败，跳过文本"},
	"aborted":          {"⛔ Translation Aborted", "⛔ 翻译已终止"},
	"context_cleared":  {"🧹 Context memory cleared.", "🧹 上下文记忆已清空。"},
	"config_reloaded":  {"🔁 Configuration reloaded.", "🔁 配置已重新加载。"},
}

// T 返回指定语言的消息文本；未知 key 原样返回。
func T(lang Lang, key string) string {
	if pair, ok := messages[key]; ok {
		return pair[lang]
	}
	return key
}

// Tf 带格式化参数的 T。
func Tf(lang Lang, key string, args ...interface{}) string {
	return fmt.Sprintf(T(lang, key), args...)
}
