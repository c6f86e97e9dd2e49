package upload

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"
)

func multipartFile(t *testing.T, filename, content string) (multipart.File, *multipart.FileHeader) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("attachments", filename)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := io.WriteString(fw, content); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if err := req.ParseMultipartForm(1 << 20); err != nil {
		t.Fatalf("parse multipart form: %v", err)
	}

	header := req.MultipartForm.File["attachments"][0]
	file, err := header.Open()
	if err != nil {
		t.Fatalf("open form file: %v", err)
	}
	t.Cleanup(func() { file.Close() })
	return file, header
}

func TestSaveAndOpen(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	file, header := multipartFile(t, "receipt.PDF", "attachment body")
	rel, err := store.Save(file, header)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if !strings.HasSuffix(rel, ".pdf") {
		t.Errorf("stored path %q should keep a lowercased extension", rel)
	}
	if strings.Contains(rel, "receipt") {
		t.Errorf("stored path %q should not leak the original name", rel)
	}

	f, err := store.Open(rel)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(data) != "attachment body" {
		t.Errorf("stored content = %q", data)
	}
}

func TestOpenRejectsTraversal(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}

	for _, rel := range []string{"../outside", "/etc/passwd", "../../x"} {
		if _, err := store.Open(rel); err == nil {
			t.Errorf("Open(%q) should fail", rel)
		}
		if err := store.Remove(rel); err == nil {
			t.Errorf("Remove(%q) should fail", rel)
		}
	}
}

func TestRemoveMissingFileIsNoError(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if err := store.Remove("2026/01/deadbeef.png"); err != nil {
		t.Errorf("Remove() on missing file error = %v", err)
	}
}
