package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	bookmarkChapter = 0

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func setupStore(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("MYQURAN_STORE", "sqlite")
	t.Setenv("MYQURAN_SQLITE_PATH", filepath.Join(dir, "myquran.db"))
	t.Setenv("MYQURAN_LOG_LEVEL", "error")
	t.Setenv("MYQURAN_PRETTY_LOG", "false")
	t.Setenv("MYQURAN_CONFIG_FILE", "")
	return dir
}

func TestBookmarksImportListRemove(t *testing.T) {
	dir := setupStore(t)

	file := filepath.Join(dir, "in.yaml")
	content := `version: 1
bookmarks:
  - chapterNumber: 2
    verseNumber: 255
    chapterName: Al-Baqarah
    translationText: Allah, tidak ada tuhan selain Dia
  - chapterNumber: 36
    verseNumber: 1
    chapterName: Ya-Sin
`
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	out, err := run(t, "bookmarks", "import", file)
	if err != nil {
		t.Fatalf("import error: %v", err)
	}
	if !strings.Contains(out, "imported 2 bookmarks") {
		t.Errorf("import output = %q", out)
	}

	out, err = run(t, "bookmarks", "list", "--chapter", "36")
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if !strings.Contains(out, "36:1") || strings.Contains(out, "2:255") {
		t.Errorf("list --chapter 36 output = %q", out)
	}

	out, err = run(t, "bookmarks", "remove", "2", "255")
	if err != nil || !strings.Contains(out, "removed 2:255") {
		t.Fatalf("remove output = %q, error %v", out, err)
	}

	export := filepath.Join(dir, "out", "bookmarks.yaml")
	out, err = run(t, "bookmarks", "export", export)
	if err != nil || !strings.Contains(out, "exported 1 bookmarks") {
		t.Fatalf("export output = %q, error %v", out, err)
	}
	data, err := os.ReadFile(export)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.Contains(string(data), "36:1") || strings.Contains(string(data), "2:255") {
		t.Errorf("export file = %s", data)
	}

	out, err = run(t, "bookmarks", "clear")
	if err != nil || !strings.Contains(out, "cleared 1 bookmarks") {
		t.Fatalf("clear output = %q, error %v", out, err)
	}
	out, _ = run(t, "bookmarks", "list")
	if !strings.Contains(out, "no bookmarks") {
		t.Errorf("list after clear = %q", out)
	}
}

func TestBookmarksRemoveRejectsBadVerse(t *testing.T) {
	setupStore(t)

	if _, err := run(t, "bookmarks", "remove", "115", "1"); err == nil {
		t.Error("remove 115:1 should fail")
	}
	if _, err := run(t, "bookmarks", "remove", "x", "1"); err == nil {
		t.Error("remove x:1 should fail")
	}
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatalf("version error: %v", err)
	}
	if !strings.HasPrefix(out, "myquran ") {
		t.Errorf("version output = %q", out)
	}
}
