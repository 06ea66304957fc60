// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"studiosite/internal/middleware"
	"studiosite/internal/models"
	"studiosite/internal/store"
)

func TestGenerateThumbnail(t *testing.T) {
	t.Run("jpeg thumbnail", func(t *testing.T) {
		img := image.NewRGBA(image.Rect(0, 0, 800, 600))
		for y := 0; y < 600; y++ {
			for x := 0; x < 800; x++ {
				img.Set(x, y, color.RGBA{R: 100, G: 150, B: 200, A: 255})
			}
		}
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
			t.Fatal(err)
		}

		thumb, err := generateThumbnail(bytes.NewReader(buf.Bytes()), 400)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if thumb == nil {
			t.Fatal("expected thumbnail, got nil")
		}

		thumbImg, err := jpeg.Decode(bytes.NewReader(thumb))
		if err != nil {
			t.Fatalf("failed to decode thumbnail: %v", err)
		}
		bounds := thumbImg.Bounds()
		if bounds.Dx() != 400 {
			t.Errorf("width: got %d, want 400", bounds.Dx())
		}
		// Height should be proportional: 600 * (400/800) = 300
		if bounds.Dy() != 300 {
			t.Errorf("height: got %d, want 300", bounds.Dy())
		}
	})

	t.Run("png thumbnail", func(t *testing.T) {
		img := image.NewRGBA(image.Rect(0, 0, 1200, 900))
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			t.Fatal(err)
		}

		thumb, err := generateThumbnail(bytes.NewReader(buf.Bytes()), 400)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if thumb == nil {
			t.Fatal("expected thumbnail, got nil")
		}
	})

	t.Run("skip small image", func(t *testing.T) {
		img := image.NewRGBA(image.Rect(0, 0, 200, 150))
		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, img, nil); err != nil {
			t.Fatal(err)
		}

		thumb, err := generateThumbnail(bytes.NewReader(buf.Bytes()), 400)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if thumb != nil {
			t.Error("expected nil for small image, got thumbnail data")
		}
	})
}

func TestExtensionFromType(t *testing.T) {
	tests := []struct {
		contentType string
		want        string
	}{
		{"image/jpeg", ".jpg"},
		{"image/png", ".png"},
		{"image/gif", ".gif"},
		{"image/webp", ".webp"},
		{"application/octet-stream", ""},
	}

	for _, tt := range tests {
		t.Run(tt.contentType, func(t *testing.T) {
			if got := extensionFromType(tt.contentType); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

// multipartImage builds a multipart body with one "file" part containing a
// JPEG of the given dimensions.
func multipartImage(t *testing.T, filename string, width, height int) (*bytes.Buffer, string) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	var imgBuf bytes.Buffer
	if err := jpeg.Encode(&imgBuf, img, nil); err != nil {
		t.Fatal(err)
	}

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	part.Write(imgBuf.Bytes())
	mw.Close()
	return body, mw.FormDataContentType()
}

func TestUploadToLocalDisk(t *testing.T) {
	db := testDB(t)
	uploads := store.NewUploadStore(db)
	dir := t.TempDir()
	h := NewUploads(uploads, nil, dir)

	blogs := EntityByType(models.ContentTypeBlog)
	user := testAdmin()
	db.Exec(`INSERT INTO users (id, email, password_hash, name, role) VALUES ($1, $2, 'x', $3, $4)`,
		user.ID, user.Email, user.Name, user.Role)
	t.Cleanup(func() {
		db.Exec(`DELETE FROM users WHERE id = $1`, user.ID)
	})

	body, contentType := multipartImage(t, "cover.jpg", 800, 600)
	r := httptest.NewRequest("POST", "/api/admin/blogs/upload", body)
	r.Header.Set("Content-Type", contentType)
	r = r.WithContext(middleware.WithUser(r.Context(), user))

	w := httptest.NewRecorder()
	h.Upload(*blogs)(w, r)

	if w.Code != 201 {
		t.Fatalf("status: got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		URL      string `json:"url"`
		ThumbURL string `json:"thumbUrl"`
		Filename string `json:"filename"`
		Type     string `json:"type"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Type != "image/jpeg" {
		t.Errorf("type: got %q, want image/jpeg", resp.Type)
	}
	if resp.ThumbURL == "" {
		t.Error("expected a thumbnail for an 800px image")
	}

	// The original must exist on disk under the uploads dir.
	key := resp.URL[len("/uploads/"):]
	if _, err := os.Stat(filepath.Join(dir, filepath.FromSlash(key))); err != nil {
		t.Errorf("stored file missing: %v", err)
	}
}

func TestUploadRejectsNonImage(t *testing.T) {
	h := NewUploads(nil, nil, t.TempDir())
	blogs := EntityByType(models.ContentTypeBlog)

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, _ := mw.CreateFormFile("file", "notes.txt")
	part.Write([]byte("plain text pretending to be an image"))
	mw.Close()

	r := httptest.NewRequest("POST", "/api/admin/blogs/upload", body)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	r = r.WithContext(middleware.WithUser(r.Context(), testAdmin()))

	w := httptest.NewRecorder()
	h.Upload(*blogs)(w, r)

	if w.Code != 400 {
		t.Fatalf("status: got %d, want 400: %s", w.Code, w.Body.String())
	}
}
