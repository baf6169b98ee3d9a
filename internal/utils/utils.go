package utils

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
)

// ClientID 取远端 IP 字符串 MD5 的前 8 个十六进制字符。
// 不是安全原语，只用来区分上下文记忆的归属；碰撞可以接受。
func ClientID(ip string) string {
	sum := md5.Sum([]byte(ip))
	return hex.EncodeToString(sum[:])[:8]
}

var lineBreakReplacer = strings.NewReplacer("\r\n", "[LF]", "\n", "[LF]", "\r", "[LF]")

// SingleLine 把换行显示为 [LF]，用于单行日志输出。
func SingleLine(s string) string {
	return lineBreakReplacer.Replace(s)
}

// TruncateBody keeps the first maxLen bytes of body and appends a
// "... [truncated]" marker; bodies of at most maxLen bytes pass through.
func TruncateBody(body string, maxLen int) string {
	if len(body) <= maxLen {
		return body
	}
	return body[:maxLen] + "... [truncated]"
}
