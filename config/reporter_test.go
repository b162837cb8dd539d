package config

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readArchive(t *testing.T, name string) map[string]string {
	t.Helper()

	zr, err := zip.OpenReader(name)
	if err != nil {
		t.Fatalf("failed to open report: %v", err)
	}
	defer zr.Close()

	files := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("failed to open %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("failed to read %s: %v", f.Name, err)
		}
		files[f.Name] = string(data)
	}
	return files
}

func TestReport_Archive(t *testing.T) {
	tmpDir := t.TempDir()

	conf := ReporterConfig{Destination: filepath.Join(tmpDir, "report.zip")}
	r, err := conf.Prepare()
	if err != nil {
		t.Fatalf("Prepare() error: %v", err)
	}

	stored := filepath.Join(tmpDir, "input.yaml")
	if err := os.WriteFile(stored, []byte("title: x\n"), 0644); err != nil {
		t.Fatal(err)
	}
	dir := filepath.Join(tmpDir, "out")
	if err := os.MkdirAll(filepath.Join(dir, "nested"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "nested", "page.html"), []byte("<p>"), 0644); err != nil {
		t.Fatal(err)
	}

	r.Store("source", stored)
	r.Store("output", dir)
	r.Store("missing", filepath.Join(tmpDir, "absent"))
	r.StoreData("styles.css", []byte("#a{}"))
	r.StoreData("styles.css", []byte("#b{}"))

	if err := r.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	files := readArchive(t, conf.Destination)
	if files["source"] != "title: x\n" {
		t.Errorf("source = %q", files["source"])
	}
	if files["output/nested/page.html"] != "<p>" {
		t.Errorf("directory was not archived, got %v", files)
	}
	if _, ok := files["missing"]; ok {
		t.Error("absent file must not be archived")
	}
	if files["styles.css"] != "#a{}" {
		t.Errorf("styles.css = %q", files["styles.css"])
	}
	versioned := 0
	for name, data := range files {
		if strings.HasPrefix(name, "styles.css-") && data == "#b{}" {
			versioned++
		}
	}
	if versioned != 1 {
		t.Errorf("expected one versioned data entry, got %d", versioned)
	}
	if !strings.Contains(files["MANIFEST"], "source") {
		t.Errorf("MANIFEST does not list entries: %q", files["MANIFEST"])
	}
}

func TestReport_StoreConflict(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	r.Store("file", "/a")
	r.Store("file", "/a")

	defer func() {
		if recover() == nil {
			t.Error("expected panic when path for the same name changes")
		}
	}()
	r.Store("file", "/b")
}

func TestReport_NilReport(t *testing.T) {
	var r *Report
	r.Store("a", "b")
	r.StoreData("a", nil)
	if r.Name() != "" {
		t.Error("nil report should have no name")
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close on nil report should not error, got: %v", err)
	}
}

func TestReportClose_NilFile(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	if err := r.Close(); err != nil {
		t.Errorf("Close with nil file should not error, got: %v", err)
	}
}
