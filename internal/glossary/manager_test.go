package glossary

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadGlossaryFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glossary.yaml")
	content := "terms:\n  リオン: 里昂\n  エリス: 艾莉丝\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	m := NewManager()
	if err := m.SetFilePath(path); err != nil {
		t.Fatalf("SetFilePath failed: %v", err)
	}
	if m.Len() != 2 {
		t.Errorf("expected 2 terms, got %d", m.Len())
	}
	if !m.Has("リオン") {
		t.Error("missing term リオン")
	}
}

func TestSetFilePathMissingFile(t *testing.T) {
	m := NewManager()
	if err := m.SetFilePath(filepath.Join(t.TempDir(), "absent.yaml")); err != nil {
		t.Fatalf("missing file should start empty, got error: %v", err)
	}
	if m.Len() != 0 {
		t.Errorf("expected empty glossary, got %d terms", m.Len())
	}
}

func TestContextPrompt(t *testing.T) {
	m := NewManager()
	m.AddNewTerm("リオン", "里昂")
	m.AddNewTerm("エリス", "艾莉丝")

	prompt := m.ContextPrompt("勇者リオン登场")
	if !strings.Contains(prompt, "リオン=里昂") {
		t.Errorf("prompt missing matched term: %q", prompt)
	}
	if strings.Contains(prompt, "エリス") {
		t.Errorf("prompt contains unmatched term: %q", prompt)
	}

	if got := m.ContextPrompt("无术语文本"); got != "" {
		t.Errorf("no-hit prompt should be empty, got %q", got)
	}
}

func TestContextPromptCaseInsensitive(t *testing.T) {
	m := NewManager()
	m.AddNewTerm("Lion", "里昂")

	if got := m.ContextPrompt("the LION appears"); !strings.Contains(got, "Lion=里昂") {
		t.Errorf("case-insensitive match failed: %q", got)
	}
}

func TestAddNewTermPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glossary.yaml")

	m := NewManager()
	if err := m.SetFilePath(path); err != nil {
		t.Fatal(err)
	}
	if !m.AddNewTerm("リオン", "里昂") {
		t.Fatal("first AddNewTerm should succeed")
	}

	// 重新加载验证持久化
	m2 := NewManager()
	if err := m2.SetFilePath(path); err != nil {
		t.Fatal(err)
	}
	if !m2.Has("リオン") {
		t.Error("term was not persisted")
	}
}

func TestAddNewTermFirstWriterWins(t *testing.T) {
	m := NewManager()
	m.AddNewTerm("リオン", "里昂")

	if m.AddNewTerm("リオン", "莱恩") {
		t.Error("existing term must not be overwritten")
	}
	if got := m.ContextPrompt("リオン"); !strings.Contains(got, "リオン=里昂") {
		t.Errorf("original translation lost: %q", got)
	}
}
