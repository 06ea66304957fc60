// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif" // register GIF decoder
	"image/jpeg"
	_ "image/png" // register PNG decoder
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder

	"studiosite/internal/middleware"
	"studiosite/internal/models"
	"studiosite/internal/storage"
	"studiosite/internal/store"
)

const (
	// maxUploadSize is the maximum allowed image upload size (10 MB).
	maxUploadSize = 10 << 20

	// thumbMaxWidth is the maximum thumbnail width in pixels.
	thumbMaxWidth = 400

	// thumbQuality is the JPEG quality for generated thumbnails.
	thumbQuality = 80

	// maxImagePixels caps decoded size to prevent memory bombs.
	// 10000x10000 = 100 million pixels, ~400 MB decoded in RGBA.
	maxImagePixels = 100_000_000
)

// allowedImageTypes defines MIME types accepted for upload. The type is
// determined by sniffing content, never by the file name.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// thumbableTypes are image types that get a thumbnail. GIF is excluded to
// preserve animation.
var thumbableTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// Uploads handles image uploads for content types that accept them.
// Files go to S3-compatible object storage when configured, otherwise to
// a local directory served under /uploads.
type Uploads struct {
	uploads    *store.UploadStore
	storage    *storage.Client // nil when S3 is not configured
	uploadsDir string
}

// NewUploads creates an Uploads handler group.
func NewUploads(uploads *store.UploadStore, storageClient *storage.Client, uploadsDir string) *Uploads {
	return &Uploads{uploads: uploads, storage: storageClient, uploadsDir: uploadsDir}
}

// Upload accepts a multipart image upload for the given entity.
// POST /api/admin/{path}/upload.
func (h *Uploads) Upload(e Entity) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFromCtx(r.Context())

		// Body limit leaves headroom for the multipart framing.
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize+1024)
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			respondError(w, http.StatusBadRequest, "File too large. Maximum size is 10 MB.")
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			respondError(w, http.StatusBadRequest, "No file provided")
			return
		}
		defer file.Close()

		if header.Size > maxUploadSize {
			respondError(w, http.StatusBadRequest, "File too large. Maximum size is 10 MB.")
			return
		}

		// Sniff the first 512 bytes; the declared type is untrusted.
		sniffBuf := make([]byte, 512)
		n, err := file.Read(sniffBuf)
		if err != nil && err != io.EOF {
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		contentType := http.DetectContentType(sniffBuf[:n])

		if !allowedImageTypes[contentType] {
			respondError(w, http.StatusBadRequest,
				fmt.Sprintf("File type %q is not allowed", contentType))
			return
		}

		if _, err := file.Seek(0, io.SeekStart); err != nil {
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		fileBytes, err := io.ReadAll(file)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		now := time.Now()
		ext := extensionFromType(contentType)
		fileID := uuid.New().String()
		key := fmt.Sprintf("%s/%d/%02d/%s%s", e.Path, now.Year(), now.Month(), fileID, ext)

		if err := h.save(r, key, contentType, fileBytes); err != nil {
			slog.Error("upload store failed", "error", err, "key", key)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		// Thumbnail failures never fail the upload.
		var thumbKey *string
		if thumbableTypes[contentType] {
			thumbData, err := generateThumbnail(bytes.NewReader(fileBytes), thumbMaxWidth)
			if err != nil {
				slog.Warn("thumbnail generation failed", "error", err, "key", key)
			} else if thumbData != nil {
				tk := fmt.Sprintf("%s/%d/%02d/%s_thumb.jpg", e.Path, now.Year(), now.Month(), fileID)
				if err := h.save(r, tk, "image/jpeg", thumbData); err != nil {
					slog.Warn("thumbnail store failed", "error", err, "key", tk)
				} else {
					thumbKey = &tk
				}
			}
		}

		upload := &models.Upload{
			Filename:     fileID + ext,
			OriginalName: header.Filename,
			ContentType:  contentType,
			SizeBytes:    int64(len(fileBytes)),
			Storage:      h.storageName(),
			Key:          key,
			ThumbKey:     thumbKey,
			URL:          h.fileURL(key),
			UploaderID:   user.ID,
		}

		created, err := h.uploads.Create(upload)
		if err != nil {
			slog.Error("upload db insert failed", "error", err, "key", key)
			respondError(w, http.StatusInternalServerError, "Internal server error")
			return
		}

		var thumbURL string
		if created.ThumbKey != nil {
			thumbURL = h.fileURL(*created.ThumbKey)
		}

		slog.Info("upload accepted", "key", key, "type", contentType, "size", created.SizeBytes)
		respondJSON(w, http.StatusCreated, map[string]any{
			"id":       created.ID,
			"url":      created.URL,
			"thumbUrl": thumbURL,
			"filename": created.OriginalName,
			"size":     created.SizeBytes,
			"type":     created.ContentType,
		})
	}
}

// List returns recent uploads. GET /api/admin/uploads.
func (h *Uploads) List(w http.ResponseWriter, r *http.Request) {
	_, limit := pageParams(r, 50, 200)

	uploads, err := h.uploads.List(limit)
	if err != nil {
		slog.Error("upload list failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if uploads == nil {
		uploads = []models.Upload{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"uploads": uploads})
}

// Delete removes an upload record and its stored files.
// DELETE /api/admin/uploads/{id}.
func (h *Uploads) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid ID")
		return
	}

	upload, err := h.uploads.FindByID(id)
	if err != nil {
		slog.Error("upload lookup failed", "id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if upload == nil {
		respondError(w, http.StatusNotFound, "Not found")
		return
	}

	if err := h.uploads.Delete(upload.ID); err != nil {
		slog.Error("upload delete failed", "id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	// File cleanup is best-effort.
	h.remove(r, upload.Key)
	if upload.ThumbKey != nil {
		h.remove(r, *upload.ThumbKey)
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Deleted"})
}

func (h *Uploads) storageName() string {
	if h.storage != nil {
		return "s3"
	}
	return "local"
}

// save writes the file to object storage or, when S3 is not configured,
// under the local uploads directory.
func (h *Uploads) save(r *http.Request, key, contentType string, data []byte) error {
	if h.storage != nil {
		return h.storage.Upload(r.Context(), key, contentType, bytes.NewReader(data), int64(len(data)))
	}

	path := filepath.Join(h.uploadsDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create upload dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write upload: %w", err)
	}
	return nil
}

func (h *Uploads) remove(r *http.Request, key string) {
	if h.storage != nil {
		if err := h.storage.Delete(r.Context(), key); err != nil {
			slog.Warn("s3 delete failed", "error", err, "key", key)
		}
		return
	}
	if err := os.Remove(filepath.Join(h.uploadsDir, filepath.FromSlash(key))); err != nil && !os.IsNotExist(err) {
		slog.Warn("local delete failed", "error", err, "key", key)
	}
}

func (h *Uploads) fileURL(key string) string {
	if h.storage != nil {
		return h.storage.FileURL(key)
	}
	return "/uploads/" + key
}

// generateThumbnail creates a JPEG thumbnail constrained to maxWidth while
// preserving aspect ratio. Returns nil if the image is already small enough.
func generateThumbnail(src io.Reader, maxWidth int) ([]byte, error) {
	// Config-only decode first to check dimensions cheaply.
	imgCfg, _, err := image.DecodeConfig(src)
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if int64(imgCfg.Width)*int64(imgCfg.Height) > maxImagePixels {
		return nil, fmt.Errorf("image too large: %dx%d exceeds %d pixels",
			imgCfg.Width, imgCfg.Height, maxImagePixels)
	}

	if imgCfg.Width <= maxWidth {
		return nil, nil
	}

	seeker, ok := src.(io.Seeker)
	if !ok {
		return nil, fmt.Errorf("source does not support seeking")
	}
	if _, err := seeker.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek: %w", err)
	}

	img, _, err := image.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bounds := img.Bounds()
	ratio := float64(maxWidth) / float64(bounds.Dx())
	newHeight := int(float64(bounds.Dy()) * ratio)

	dst := image.NewRGBA(image.Rect(0, 0, maxWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: thumbQuality}); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}

// extensionFromType returns a file extension for the accepted MIME types.
func extensionFromType(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}
