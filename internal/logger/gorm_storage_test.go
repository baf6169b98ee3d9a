package logger

import (
	"testing"
	"time"
)

func newTestStorage(t *testing.T) *GORMStorage {
	t.Helper()
	storage, err := NewGORMStorage(t.TempDir())
	if err != nil {
		t.Fatalf("NewGORMStorage failed: %v", err)
	}
	t.Cleanup(func() { storage.Close() })
	return storage
}

func TestSaveAndGetLogs(t *testing.T) {
	storage := newTestStorage(t)

	storage.SaveLog(&TranslationLog{
		Timestamp:  time.Now().UTC(),
		RequestID:  "req-1",
		ClientID:   "abcd1234",
		SourceText: "Hello",
		ResultText: "你好",
		Success:    true,
		Attempts:   1,
	})
	storage.SaveLog(&TranslationLog{
		Timestamp: time.Now().UTC().Add(time.Second),
		RequestID: "req-2",
		ClientID:  "abcd1234",
		Success:   false,
		Attempts:  5,
		Error:     "translation failed",
	})

	logs, total, err := storage.GetLogs(10, 0, false)
	if err != nil {
		t.Fatalf("GetLogs failed: %v", err)
	}
	if total != 2 || len(logs) != 2 {
		t.Fatalf("expected 2 logs, got total=%d len=%d", total, len(logs))
	}
	// 时间倒序
	if logs[0].RequestID != "req-2" {
		t.Errorf("expected newest first, got %s", logs[0].RequestID)
	}
}

func TestGetLogsFailedOnly(t *testing.T) {
	storage := newTestStorage(t)

	storage.SaveLog(&TranslationLog{Timestamp: time.Now().UTC(), RequestID: "ok", Success: true})
	storage.SaveLog(&TranslationLog{Timestamp: time.Now().UTC(), RequestID: "bad", Success: false})

	logs, total, err := storage.GetLogs(10, 0, true)
	if err != nil {
		t.Fatalf("GetLogs failed: %v", err)
	}
	if total != 1 || len(logs) != 1 || logs[0].RequestID != "bad" {
		t.Errorf("failedOnly filter broken: total=%d logs=%+v", total, logs)
	}
}

func TestCleanupLogsByDays(t *testing.T) {
	storage := newTestStorage(t)

	storage.SaveLog(&TranslationLog{Timestamp: time.Now().UTC().AddDate(0, 0, -40), RequestID: "old"})
	storage.SaveLog(&TranslationLog{Timestamp: time.Now().UTC(), RequestID: "new"})

	deleted, err := storage.CleanupLogsByDays(30)
	if err != nil {
		t.Fatalf("CleanupLogsByDays failed: %v", err)
	}
	if deleted != 1 {
		t.Errorf("expected 1 deleted, got %d", deleted)
	}

	_, total, _ := storage.GetLogs(10, 0, false)
	if total != 1 {
		t.Errorf("expected 1 remaining, got %d", total)
	}
}
