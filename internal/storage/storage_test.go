package storage

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

// mockModel for testing
type mockModel struct {
	Data  string `json:"data"`
	Value int    `json:"value"`
}

func (m *mockModel) Save(w io.Writer) error {
	return json.NewEncoder(w).Encode(m)
}

func (m *mockModel) Load(r io.Reader) error {
	return json.NewDecoder(r).Decode(m)
}

func testStorage(t *testing.T) *Storage {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(t.TempDir(), logger)
}

func TestStorage_SaveLoad(t *testing.T) {
	s := testStorage(t)

	if s.ModelExists() {
		t.Error("expected model to not exist initially")
	}

	original := &mockModel{Data: "test data", Value: 42}
	if err := s.SaveModel(original); err != nil {
		t.Fatalf("SaveModel error: %v", err)
	}

	if !s.ModelExists() {
		t.Error("expected model to exist after save")
	}

	loaded := &mockModel{}
	if err := s.LoadModel(loaded); err != nil {
		t.Fatalf("LoadModel error: %v", err)
	}

	if loaded.Data != original.Data || loaded.Value != original.Value {
		t.Errorf("loaded %+v, expected %+v", loaded, original)
	}
}

func TestStorage_LoadMissing(t *testing.T) {
	s := testStorage(t)

	if err := s.LoadModel(&mockModel{}); err == nil {
		t.Error("expected error loading a missing model")
	}
}

func TestStorage_SaveOverwrites(t *testing.T) {
	s := testStorage(t)

	if err := s.SaveModel(&mockModel{Value: 1}); err != nil {
		t.Fatalf("SaveModel error: %v", err)
	}
	if err := s.SaveModel(&mockModel{Value: 2}); err != nil {
		t.Fatalf("SaveModel error: %v", err)
	}

	loaded := &mockModel{}
	if err := s.LoadModel(loaded); err != nil {
		t.Fatalf("LoadModel error: %v", err)
	}
	if loaded.Value != 2 {
		t.Errorf("expected latest value 2, got %d", loaded.Value)
	}

	// No temp file left behind.
	if _, err := os.Stat(s.ModelPath() + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file was not cleaned up")
	}
}

func TestStorage_GetModelInfo(t *testing.T) {
	s := testStorage(t)

	info := s.GetModelInfo()
	if info.Exists {
		t.Error("expected no model info before save")
	}

	if err := s.SaveModel(&mockModel{Data: "x"}); err != nil {
		t.Fatalf("SaveModel error: %v", err)
	}

	info = s.GetModelInfo()
	if !info.Exists {
		t.Fatal("expected model info after save")
	}
	if info.Size == 0 {
		t.Error("expected non-zero artifact size")
	}
	if filepath.Base(info.Path) != "drainfox_model.json" {
		t.Errorf("unexpected artifact path %q", info.Path)
	}
}

func TestStorage_DeleteModel(t *testing.T) {
	s := testStorage(t)

	// Deleting a missing model is not an error.
	if err := s.DeleteModel(); err != nil {
		t.Fatalf("DeleteModel on empty dir: %v", err)
	}

	if err := s.SaveModel(&mockModel{}); err != nil {
		t.Fatalf("SaveModel error: %v", err)
	}
	if err := s.DeleteModel(); err != nil {
		t.Fatalf("DeleteModel error: %v", err)
	}
	if s.ModelExists() {
		t.Error("model still exists after delete")
	}
}
