package inventory

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestStore_ActiveBeforeLoad(t *testing.T) {
	s := NewStore("missing.xlsx", false, FormatSpec{})
	if _, err := s.Active(); !errors.Is(err, ErrNotLoaded) {
		t.Errorf("err = %v, want ErrNotLoaded", err)
	}
}

func TestStore_LoadFileCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "warehouse.csv")
	content := testHeader + "PH-6002CEP;3;A1;12;yes;new;;да\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewStore(path, false, FormatSpec{Delimiter: ";"})
	ds, err := s.LoadFile()
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if ds.Len() != 1 {
		t.Fatalf("rows = %d, want 1", ds.Len())
	}

	active, err := s.Active()
	if err != nil {
		t.Fatalf("Active: %v", err)
	}
	if active != ds {
		t.Error("Active did not return the loaded dataset")
	}
}

func TestStore_UploadRejectsWrongExtension(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "warehouse.xlsx"), false, FormatSpec{})
	for _, name := range []string{"notes.txt", "warehouse.csv", "archive.zip"} {
		if _, err := s.ReplaceFromUpload(name, []byte("x")); !errors.Is(err, ErrNotSpreadsheet) {
			t.Errorf("ReplaceFromUpload(%q) err = %v, want ErrNotSpreadsheet", name, err)
		}
	}
	// Extension check is case-insensitive, so .XLSX gets past it and fails
	// later on content.
	if _, err := s.ReplaceFromUpload("W.XLSX", []byte("x")); errors.Is(err, ErrNotSpreadsheet) {
		t.Errorf(".XLSX rejected on extension, want content error, got %v", err)
	}
}

func TestStore_FailedUploadKeepsActiveDataset(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "warehouse.xlsx")
	if err := os.WriteFile(path, xlsxBytes(t, testXLSXRows()), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewStore(path, false, FormatSpec{})
	before, err := s.LoadFile()
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	// Upload a workbook with the part number column missing.
	bad := xlsxBytes(t, [][]any{{"Quantity", "Shelf"}, {3, "A1"}})
	if _, err := s.ReplaceFromUpload("bad.xlsx", bad); err == nil {
		t.Fatal("ReplaceFromUpload accepted a broken workbook")
	}

	after, err := s.Active()
	if err != nil {
		t.Fatalf("Active: %v", err)
	}
	if after != before {
		t.Error("failed upload replaced the active dataset")
	}

	// The on-disk serving copy is untouched too.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(data, bad) {
		t.Error("failed upload overwrote the source file")
	}
}

func TestStore_UploadPersistsAndBacksUp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "warehouse.xlsx")
	if err := os.WriteFile(path, xlsxBytes(t, testXLSXRows()), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewStore(path, true, FormatSpec{})
	if _, err := s.LoadFile(); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	fresh := xlsxBytes(t, [][]any{
		{"PartNumber", "Quantity", "Shelf", "Location", "Passport", "Category", "SerialNumber", "Check"},
		{"NEW-1", 9, "C3", "1", "yes", "new", "", "да"},
	})
	ds, err := s.ReplaceFromUpload("fresh.xlsx", fresh)
	if err != nil {
		t.Fatalf("ReplaceFromUpload: %v", err)
	}
	if ds.Len() != 1 || ds.Records[0].PartNumber != "NEW-1" {
		t.Errorf("records = %v", ds.Records)
	}

	if _, err := os.Stat(path + ".bak"); err != nil {
		t.Errorf("backup missing: %v", err)
	}
	active, _ := s.Active()
	if active != ds {
		t.Error("Active did not switch to the uploaded dataset")
	}
}

func TestStore_UploadRemovesStaleSnapshot(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "warehouse.xlsx")
	if err := os.WriteFile(path+".gob", []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewStore(path, false, FormatSpec{})
	if _, err := s.ReplaceFromUpload("fresh.xlsx", xlsxBytes(t, testXLSXRows())); err != nil {
		t.Fatalf("ReplaceFromUpload: %v", err)
	}
	if _, err := os.Stat(path + ".gob"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("stale snapshot still present: %v", err)
	}
}

func TestStore_SnapshotTakesPriority(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "warehouse.xlsx")
	if err := os.WriteFile(path, xlsxBytes(t, testXLSXRows()), 0o644); err != nil {
		t.Fatal(err)
	}

	snap := &Dataset{Source: "snapshot.xlsx", Records: []Record{
		{PartNumber: "SNAP-1", Normalized: "snap1", Quantity: 1, Category: CategoryNew},
	}}
	if err := SaveSnapshot(snap, path+".gob"); err != nil {
		t.Fatalf("SaveSnapshot: %v", err)
	}

	s := NewStore(path, false, FormatSpec{})
	ds, err := s.LoadFile()
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if ds.Source != "snapshot.xlsx" || ds.Len() != 1 {
		t.Errorf("loaded %q with %d rows, want the snapshot", ds.Source, ds.Len())
	}
}

func TestStore_CorruptSnapshotFallsBack(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "warehouse.xlsx")
	if err := os.WriteFile(path, xlsxBytes(t, testXLSXRows()), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path+".gob", []byte("not a gob stream"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewStore(path, false, FormatSpec{})
	ds, err := s.LoadFile()
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if ds.Len() != 2 {
		t.Errorf("rows = %d, want 2 from the source workbook", ds.Len())
	}
}
