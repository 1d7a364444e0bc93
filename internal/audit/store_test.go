package audit

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fieldlens/fieldlens/internal/schema"
)

func testContract() *schema.FieldContract {
	return &schema.FieldContract{
		ToolSlug:  "GMAIL_SEND_EMAIL",
		Objective: "send an email",
		PrimaryFields: []schema.PrimaryField{
			{FieldKey: "recipient_email", Label: "Recipient", IsDynamic: true},
		},
	}
}

func TestWrite_FilenameAndContent(t *testing.T) {
	store := NewStore(t.TempDir(), 30)
	store.now = func() time.Time {
		return time.Date(2026, 2, 18, 9, 30, 0, 0, time.UTC)
	}

	path, err := store.Write("GMAIL_SEND_EMAIL", "send an email to sam", testContract())
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	name := filepath.Base(path)
	if name != "20260218T093000_GMAIL_SEND_EMAIL.json" {
		t.Errorf("filename: got %q", name)
	}

	records, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("records: got %d, want 1", len(records))
	}
	rec := records[0]
	if rec.ToolID != "GMAIL_SEND_EMAIL" || rec.UserQuery != "send an email to sam" {
		t.Errorf("record fields wrong: %+v", rec)
	}
	if rec.Contract == nil || rec.Contract.ToolSlug != "GMAIL_SEND_EMAIL" {
		t.Errorf("contract not persisted: %+v", rec.Contract)
	}
}

func TestList_MissingDir(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "nope"), 30)
	records, err := store.List()
	if err != nil {
		t.Fatalf("List on missing dir: %v", err)
	}
	if records != nil {
		t.Errorf("expected nil, got %v", records)
	}
}

func TestSweep_RemovesExpired(t *testing.T) {
	store := NewStore(t.TempDir(), 30)

	old := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	recent := time.Date(2026, 2, 17, 12, 0, 0, 0, time.UTC)

	store.now = func() time.Time { return old }
	if _, err := store.Write("OLD_TOOL", "old", testContract()); err != nil {
		t.Fatal(err)
	}
	store.now = func() time.Time { return recent }
	if _, err := store.Write("NEW_TOOL", "new", testContract()); err != nil {
		t.Fatal(err)
	}

	store.now = func() time.Time {
		return time.Date(2026, 2, 18, 12, 0, 0, 0, time.UTC)
	}
	removed, err := store.Sweep()
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed: got %d, want 1", removed)
	}

	records, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].ToolID != "NEW_TOOL" {
		t.Errorf("wrong survivor: %+v", records)
	}
}

func TestSweep_DisabledRetention(t *testing.T) {
	store := NewStore(t.TempDir(), 0)
	store.now = func() time.Time {
		return time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	if _, err := store.Write("T", "q", testContract()); err != nil {
		t.Fatal(err)
	}
	store.now = time.Now

	removed, err := store.Sweep()
	if err != nil {
		t.Fatal(err)
	}
	if removed != 0 {
		t.Errorf("non-positive retention must keep everything, removed %d", removed)
	}
}

func TestSweep_IgnoresForeignFiles(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir, 1)
	if err := os.WriteFile(filepath.Join(dir, "README.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.json"), []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	removed, err := store.Sweep()
	if err != nil {
		t.Fatal(err)
	}
	if removed != 0 {
		t.Errorf("foreign files removed: %d", removed)
	}
	entries, _ := os.ReadDir(dir)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	if len(names) != 2 {
		t.Errorf("files lost: %s", strings.Join(names, ", "))
	}
}
