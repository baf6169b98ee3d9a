package keyring

import (
	"strings"
	"sync"
)

// Ring 按声明顺序严格轮换 API key。
// 所有操作串行在同一把互斥锁上。
type Ring struct {
	mu    sync.Mutex
	keys  []string
	index int
}

func New() *Ring {
	return &Ring{}
}

// ParseKeys 拆分逗号分隔的 key 串，去掉首尾空白并跳过空项。
func ParseKeys(raw string) []string {
	var keys []string
	for _, part := range strings.Split(raw, ",") {
		key := strings.TrimSpace(part)
		if key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}

// Set 整体替换 key 列表并把游标归零。
func (r *Ring) Set(keys []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys = keys
	r.index = 0
}

// Next 返回当前 key 并推进游标；列表为空时返回 false。
func (r *Ring) Next() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.keys) == 0 {
		return "", false
	}
	key := r.keys[r.index]
	r.index = (r.index + 1) % len(r.keys)
	return key, true
}

func (r *Ring) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.keys)
}
