package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGetFileExtension(t *testing.T) {
	tests := []struct {
		filename string
		expected string
	}{
		{"screenshot.png", "png"},
		{"photo.JPEG", "jpeg"},
		{"archive.tar.gz", "gz"},
		{"noextension", ""},
		{".hidden", "hidden"},
	}

	for _, tt := range tests {
		if got := GetFileExtension(tt.filename); got != tt.expected {
			t.Errorf("GetFileExtension(%q) = %q, want %q", tt.filename, got, tt.expected)
		}
	}
}

func TestIsImageFile(t *testing.T) {
	for _, name := range []string{"a.png", "b.jpg", "c.JPEG", "d.webp", "e.gif", "f.bmp"} {
		if !IsImageFile(name) {
			t.Errorf("IsImageFile(%q) = false, want true", name)
		}
	}
	for _, name := range []string{"a.txt", "b.pdf", "noext", "c.png.exe"} {
		if IsImageFile(name) {
			t.Errorf("IsImageFile(%q) = true, want false", name)
		}
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"normal.png", "normal.png"},
		{"path/to/file.png", "path_to_file.png"},
		{`bad:*?"<>|name`, "bad_______name"},
		{"  spaced.png  ", "spaced.png"},
	}

	for _, tt := range tests {
		if got := SanitizeFilename(tt.input); got != tt.expected {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestSaveUpload(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")

	path, err := SaveUpload(dir, "shot.PNG", strings.NewReader("payload"))
	if err != nil {
		t.Fatalf("SaveUpload failed: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("Upload stored outside target dir: %s", path)
	}
	if !strings.HasSuffix(path, ".png") {
		t.Errorf("Expected lowercased original extension, got %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "payload" {
		t.Errorf("Stored content mismatch: %q", data)
	}

	// A second upload with the same original name must not collide.
	path2, err := SaveUpload(dir, "shot.PNG", strings.NewReader("other"))
	if err != nil {
		t.Fatal(err)
	}
	if path2 == path {
		t.Error("Expected unique names for repeated uploads")
	}
}

func TestSaveUploadDefaultExtension(t *testing.T) {
	dir := t.TempDir()
	path, err := SaveUpload(dir, "pasted-image", strings.NewReader("x"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(path, ".png") {
		t.Errorf("Expected png fallback extension, got %s", path)
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "exists.txt")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	if !FileExists(file) {
		t.Error("Expected FileExists to be true for a regular file")
	}
	if FileExists(filepath.Join(dir, "missing.txt")) {
		t.Error("Expected FileExists to be false for a missing file")
	}
	if FileExists(dir) {
		t.Error("Expected FileExists to be false for a directory")
	}
}
