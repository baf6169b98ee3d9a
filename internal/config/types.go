package config

// Config 进程级配置快照。全部为值类型，赋值即深拷贝。
// 持久化为 INI 文件的 [Settings] 段，字段名即 INI key。
type Config struct {
	APIBase      string  `ini:"api_base"`      // 上游端点前缀，如 https://api.openai.com/v1
	APIKeys      string  `ini:"api_keys"`      // 逗号分隔的多个密钥，轮换使用
	Model        string  `ini:"model"`
	Port         int     `ini:"port"`
	SystemPrompt string  `ini:"system_prompt"`
	PrePrompt    string  `ini:"pre_prompt"`    // 追加在每次输入前的用户提示
	ContextNum   int     `ini:"context_num"`   // 每个客户端保留的历史轮数
	Temperature  float64 `ini:"temperature"`
	MaxThreads   int     `ini:"max_threads"`   // 工作池大小
	Language     int     `ini:"language"`      // 0: English, 1: Chinese
	// --- 术语表相关设置 ---
	EnableGlossary bool   `ini:"enable_glossary"`
	GlossaryPath   string `ini:"glossary_path"`
	RulesPath      string `ini:"rules_path"` // 前后处理规则文件（可选）
	// --- 日志 ---
	LogLevel     string `ini:"log_level"`
	LogDirectory string `ini:"log_directory"`
	// --- 出站代理（可选） ---
	ProxyType     string `ini:"proxy_type"` // "" | "http" | "socks5"
	ProxyAddress  string `ini:"proxy_address"`
	ProxyUsername string `ini:"proxy_username"`
	ProxyPassword string `ini:"proxy_password"`
}

// DefaultConfig 返回默认配置。
func DefaultConfig() Config {
	return Config{
		APIBase:      "https://api.openai.com/v1",
		APIKeys:      "sk-xxxxxxxx",
		Model:        "gpt-3.5-turbo",
		Port:         6800,
		SystemPrompt: "你是一名专业的游戏文本翻译引擎。将输入的游戏文本准确翻译成简体中文，语义忠实、行文自然，人称与语气贴合语境，完整保留原文中的标签与占位符，只输出翻译结果。",
		PrePrompt:    "将下面的文本翻译成简体中文：",
		ContextNum:   5,
		Temperature:  1.0,
		MaxThreads:   8,
		Language:     1,
		LogLevel:     "info",
		LogDirectory: "./logs",
	}
}
