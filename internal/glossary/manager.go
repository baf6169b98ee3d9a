package glossary

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Manager 术语表：原文 → 译文。
// 模型在翻译时通过系统提示获知已有术语，抽取到的新术语写回文件。
type Manager struct {
	mu    sync.Mutex
	path  string
	terms map[string]string
}

type glossaryFile struct {
	Terms map[string]string `yaml:"terms"`
}

func NewManager() *Manager {
	return &Manager{
		terms: make(map[string]string),
	}
}

// SetFilePath 切换术语表文件并载入内容。文件不存在时从空表开始。
func (m *Manager) SetFilePath(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.path = path
	m.terms = make(map[string]string)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read glossary file: %v", err)
	}

	var file glossaryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse glossary file: %v", err)
	}
	if file.Terms != nil {
		m.terms = file.Terms
	}
	return nil
}

// ContextPrompt 返回在 text 中出现过的已知术语清单，作为系统提示附加段。
// 没有命中时返回空串。
func (m *Manager) ContextPrompt(text string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.terms) == 0 {
		return ""
	}

	lower := strings.ToLower(text)
	var hits []string
	for src, dst := range m.terms {
		if strings.Contains(lower, strings.ToLower(src)) {
			hits = append(hits, src+"="+dst)
		}
	}
	if len(hits) == 0 {
		return ""
	}
	sort.Strings(hits) // 输出稳定，便于缓存与测试

	return "【Glossary】(已有术语，必须沿用):\n" + strings.Join(hits, "\n")
}

// AddNewTerm 登记一个新术语并立即持久化。
// 已存在的原文不覆盖（先到先得），返回 false。
func (m *Manager) AddNewTerm(src, dst string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.terms[src]; exists {
		return false
	}
	m.terms[src] = dst
	m.save()
	return true
}

// Has 判断原文术语是否已登记。
func (m *Manager) Has(src string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.terms[src]
	return ok
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.terms)
}

// 持有锁时调用。写失败只能忽略：术语表丢失不影响翻译主流程。
func (m *Manager) save() {
	if m.path == "" {
		return
	}
	data, err := yaml.Marshal(&glossaryFile{Terms: m.terms})
	if err != nil {
		return
	}
	os.WriteFile(m.path, data, 0644)
}
