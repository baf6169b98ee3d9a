package escape

import (
	"fmt"
	"regexp"
	"strings"
)

// 冻结/解冻：把易被模型破坏的片段（花括号占位符、标签、换行转义）换成
// 稳定的 [T_n] 占位符，翻译完成后原样还原。
// Freeze/thaw: swap fragile substrings for stable [T_n] tokens around the
// upstream call so the model cannot corrupt them.

var (
	// 匹配 {{...}}、<...>、字面转义序列（\r\n 等）以及真实控制字符
	freezePattern = regexp.MustCompile("\\{\\{.*?\\}\\}|<[^>]+>|\\\\r\\\\n|\\\\n|\\\\r|\\\\t|\r\n|\n|\r|\t")

	// 匹配 [T_数字] 及其周围可能存在的空白
	thawPattern = regexp.MustCompile(`\s*\[T_(\d+)\]\s*`)
)

// Map 记录单次上游尝试内 [T_n] → 原文片段的映射。
// 生命周期仅限一次尝试，不得跨请求共享。
type Map struct {
	tokens  map[string]string
	counter int
}

// Len returns the number of frozen fragments.
func (m *Map) Len() int {
	return len(m.tokens)
}

// Lookup returns the original fragment for a token key like "[T_0]".
func (m *Map) Lookup(key string) (string, bool) {
	v, ok := m.tokens[key]
	return v, ok
}

// Freeze 从左到右扫描输入，把每个匹配片段替换为 " [T_k] "。
// 前后各加一个空格，防止相邻占位符被模型吞掉。
func Freeze(input string) (string, *Map) {
	m := &Map{tokens: make(map[string]string)}

	var b strings.Builder
	last := 0
	for _, loc := range freezePattern.FindAllStringIndex(input, -1) {
		b.WriteString(input[last:loc[0]])

		key := fmt.Sprintf("[T_%d]", m.counter)
		m.counter++
		m.tokens[key] = input[loc[0]:loc[1]]

		b.WriteString(" ")
		b.WriteString(key)
		b.WriteString(" ")

		last = loc[1]
	}
	b.WriteString(input[last:])

	return b.String(), m
}

// Thaw 把 [T_n] 占位符（连同周围空白）还原为原文片段。
// 映射中不存在的 key 原样保留，但去掉周围空白。
func Thaw(input string, m *Map) string {
	var b strings.Builder
	last := 0
	for _, loc := range thawPattern.FindAllStringSubmatchIndex(input, -1) {
		b.WriteString(input[last:loc[0]])

		key := "[T_" + input[loc[2]:loc[3]] + "]"
		if original, ok := m.tokens[key]; ok {
			b.WriteString(original)
		} else {
			b.WriteString(key)
		}

		last = loc[1]
	}
	b.WriteString(input[last:])

	return b.String()
}
