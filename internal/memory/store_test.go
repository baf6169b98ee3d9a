package memory

import (
	"fmt"
	"testing"
)

func TestAppendAndRead(t *testing.T) {
	s := NewStore()
	s.Append("c1", "hello", "你好", 5)
	s.Append("c1", "world", "世界", 5)

	entries := s.Read("c1", 5)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].User != "hello" || entries[0].Assistant != "你好" {
		t.Errorf("unexpected first entry: %+v", entries[0])
	}
	if entries[1].User != "world" || entries[1].Assistant != "世界" {
		t.Errorf("unexpected second entry: %+v", entries[1])
	}
}

func TestBoundedHistory(t *testing.T) {
	s := NewStore()
	for i := 0; i < 10; i++ {
		s.Append("c1", fmt.Sprintf("u%d", i), fmt.Sprintf("a%d", i), 3)
	}

	entries := s.Read("c1", 3)
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	// 保留的应是最新三轮
	if entries[0].User != "u7" || entries[2].User != "u9" {
		t.Errorf("oldest entries not discarded: %+v", entries)
	}
}

func TestShrinkMaxLen(t *testing.T) {
	s := NewStore()
	for i := 0; i < 5; i++ {
		s.Append("c1", fmt.Sprintf("u%d", i), "a", 5)
	}

	// 上限收紧后，下一次读取先丢弃最旧条目
	entries := s.Read("c1", 2)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries after shrink, got %d", len(entries))
	}
	if entries[0].User != "u3" || entries[1].User != "u4" {
		t.Errorf("wrong entries survived shrink: %+v", entries)
	}
}

func TestZeroMaxLen(t *testing.T) {
	s := NewStore()
	s.Append("c1", "u", "a", 0)
	if got := s.Read("c1", 0); len(got) != 0 {
		t.Errorf("maxLen=0 should retain nothing, got %d entries", len(got))
	}
}

func TestClientsAreIsolated(t *testing.T) {
	s := NewStore()
	s.Append("c1", "u1", "a1", 5)
	s.Append("c2", "u2", "a2", 5)

	if e := s.Read("c1", 5); len(e) != 1 || e[0].User != "u1" {
		t.Errorf("c1 history polluted: %+v", e)
	}
	if e := s.Read("c2", 5); len(e) != 1 || e[0].User != "u2" {
		t.Errorf("c2 history polluted: %+v", e)
	}
}

func TestClear(t *testing.T) {
	s := NewStore()
	s.Append("c1", "u", "a", 5)
	s.Append("c2", "u", "a", 5)
	s.Clear()

	if s.Size("c1") != 0 || s.Size("c2") != 0 {
		t.Error("Clear did not drop all contexts")
	}
}

func TestReadReturnsCopy(t *testing.T) {
	s := NewStore()
	s.Append("c1", "u", "a", 5)

	entries := s.Read("c1", 5)
	entries[0].User = "mutated"

	if fresh := s.Read("c1", 5); fresh[0].User != "u" {
		t.Error("Read must return a copy, not the backing slice")
	}
}
