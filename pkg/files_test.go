package mada

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestScanMadaFiles(t *testing.T) {
	config, err := ParseMadaConfig([]byte(madaConfigJSON))
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	touch(t, dir, "GBKB-00_0000.mada", "GBKB-00_0001.mada", "GBKB-13_0000.mada", "GBKB-13_0001.mada", "GBKB-13_0002.mada")

	files, err := ScanMadaFiles(dir, config, 0, 1)
	if err != nil {
		t.Fatalf("ScanMadaFiles: %v", err)
	}
	var names []string
	for _, file := range files {
		names = append(names, filepath.Base(file.Path))
	}
	want := []string{"GBKB-00_0000.mada", "GBKB-13_0000.mada", "GBKB-00_0001.mada", "GBKB-13_0001.mada"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("files = %v, want %v", names, want)
	}

	boards := GroupFilesByBoard(files)
	if len(boards) != 2 || boards[0].Board != "GBKB-00" || boards[1].Board != "GBKB-13" {
		t.Fatalf("boards = %+v", boards)
	}
	wantFiles := []string{filepath.Join(dir, "GBKB-13_0000.mada"), filepath.Join(dir, "GBKB-13_0001.mada")}
	if !reflect.DeepEqual(boards[1].Files, wantFiles) {
		t.Errorf("GBKB-13 files = %v, want %v", boards[1].Files, wantFiles)
	}
}

func TestScanMadaFilesMissing(t *testing.T) {
	config, err := ParseMadaConfig([]byte(madaConfigJSON))
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	touch(t, dir, "GBKB-00_0000.mada")

	_, err = ScanMadaFiles(dir, config, 0, 0)
	var notFound *ErrFileNotFound
	if !errors.As(err, &notFound) || filepath.Base(notFound.Path) != "GBKB-13_0000.mada" {
		t.Errorf("err = %v, want ErrFileNotFound for GBKB-13_0000.mada", err)
	}

	if _, err := ScanMadaFiles(dir, config, 2, 1); err == nil {
		t.Error("expected an error for an inverted period range")
	}
}

func TestMadaFileName(t *testing.T) {
	if got := MadaFileName("GBKB-03", 12); got != "GBKB-03_0012.mada" {
		t.Errorf("MadaFileName = %q", got)
	}
}
