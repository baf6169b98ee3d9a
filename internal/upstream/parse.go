package upstream

import (
	"regexp"
	"strings"
)

var (
	thinkPattern    = regexp.MustCompile(`(?s)<think>.*?</think>`)
	termPattern     = regexp.MustCompile(`(?s)<tm>\s*(.*?)\s*=\s*(.*?)\s*</tm>`)
	tlPattern       = regexp.MustCompile(`(?s)<tl>(.*?)</tl>`)
	tlLiteral       = regexp.MustCompile(`(?i)</?tl>`)
	tokenPattern    = regexp.MustCompile(`\[T_\d+\]`)
	termCodePattern = regexp.MustCompile(`Z[A-Z]{2}Z`)
)

// StripThink 去掉推理模型输出的 <think>…</think> 段。
func StripThink(content string) string {
	return thinkPattern.ReplaceAllString(content, "")
}

// ExtractTerms 处理模型按提示附加的 <tm>原文=译文</tm> 标注。
//
// 标注可能嵌在句子中间，所以不能直接删除：每个 <tm> 段替换为译文本身，
// 保证有效文本不丢。两侧都非空、不含 [T_n] 占位符和 Z??Z 术语码、且原文
// 在冻结输入里出现过（忽略大小写）的术语，通过 onTerm 回调上报。
func ExtractTerms(content, frozenInput string, onTerm func(src, dst string)) string {
	matches := termPattern.FindAllStringSubmatchIndex(content, -1)
	if len(matches) == 0 {
		return content
	}

	lowerInput := strings.ToLower(frozenInput)

	var b strings.Builder
	last := 0
	for _, loc := range matches {
		b.WriteString(content[last:loc[0]])

		src := strings.TrimSpace(content[loc[2]:loc[3]])
		dst := strings.TrimSpace(content[loc[4]:loc[5]])

		if isValidTerm(src, dst) && strings.Contains(lowerInput, strings.ToLower(src)) {
			if onTerm != nil {
				onTerm(src, dst)
			}
		}

		// 用译文顶替整个 <tm> 段
		b.WriteString(dst)

		last = loc[1]
	}
	b.WriteString(content[last:])

	return b.String()
}

func isValidTerm(src, dst string) bool {
	if src == "" || dst == "" {
		return false
	}
	if tokenPattern.MatchString(src) || tokenPattern.MatchString(dst) {
		return false
	}
	if termCodePattern.MatchString(src) || termCodePattern.MatchString(dst) {
		return false
	}
	return true
}

// ExtractTranslation 取第一个 <tl>…</tl> 的内部文本；没有标签时取整段。
// 残留的 <tl>/</tl> 字面量一并清除。
func ExtractTranslation(content string) string {
	var result string
	if m := tlPattern.FindStringSubmatch(content); m != nil {
		result = strings.TrimSpace(m[1])
	} else {
		result = strings.TrimSpace(content)
	}
	return tlLiteral.ReplaceAllString(result, "")
}
