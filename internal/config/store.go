package config

import (
	"sync"

	"xunity-llm-translate-server/internal/keyring"
)

// Store 持有当前配置快照。快照整体换入换出：每次上游尝试开始时
// Current 拷贝一次，之后该次尝试不再受重载影响。
//
// Update 同时重置 key 轮换环。两把锁从不嵌套持有（环内部自己加锁），
// 因此不存在锁顺序问题。
type Store struct {
	mu      sync.Mutex
	current Config
	ring    *keyring.Ring
}

func NewStore(cfg Config, ring *keyring.Ring) *Store {
	s := &Store{ring: ring}
	s.Update(cfg)
	return s
}

// Current 返回当前快照的副本。
func (s *Store) Current() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Update 整体替换快照并用新的 api_keys 重置轮换环。
func (s *Store) Update(cfg Config) {
	s.ring.Set(keyring.ParseKeys(cfg.APIKeys))

	s.mu.Lock()
	s.current = cfg
	s.mu.Unlock()
}

// Ring 返回与快照联动的 key 轮换环。
func (s *Store) Ring() *keyring.Ring {
	return s.ring
}
