package controllers

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/priyamehta/aarohi/pkg/reqid"
	"github.com/priyamehta/aarohi/pkg/response"
	"github.com/priyamehta/aarohi/pkg/storage"
)

// maxUploadBytes caps a single multipart upload (8 MB).
const maxUploadBytes = 8 << 20

var allowedExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true,
}

// UploadController stores product media on the configured storage disk.
type UploadController struct{}

// NewUploadController returns an upload controller.
func NewUploadController() *UploadController {
	return &UploadController{}
}

// storedName builds a collision-resistant object key under uploads/.
func storedName(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	return fmt.Sprintf("uploads/%d-%s%s", time.Now().UnixNano(), reqid.New()[:8], ext)
}

func saveOne(r *http.Request, fh *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("file type %q is not allowed", ext)
	}

	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("opening upload: %w", err)
	}
	defer f.Close()

	key := storedName(fh.Filename)
	if err := storage.Put(r.Context(), key, f); err != nil {
		return "", fmt.Errorf("storing upload: %w", err)
	}
	return storage.URL(key), nil
}

// Single handles POST /api/uploads (admin): one file in the "file" field.
func (c *UploadController) Single(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		response.Fail(w, http.StatusBadRequest, "invalid multipart body")
		return
	}

	_, fh, err := r.FormFile("file")
	if err != nil {
		response.Fail(w, http.StatusBadRequest, "missing file field")
		return
	}

	url, err := saveOne(r, fh)
	if err != nil {
		response.Fail(w, http.StatusBadRequest, err.Error())
		return
	}
	response.Created(w, response.M{"url": url})
}

// Multiple handles POST /api/uploads/batch (admin): several files in the
// "files" field. All-or-nothing is not attempted; successes are reported.
func (c *UploadController) Multiple(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		response.Fail(w, http.StatusBadRequest, "invalid multipart body")
		return
	}

	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		response.Fail(w, http.StatusBadRequest, "missing files field")
		return
	}

	urls := make([]string, 0, len(files))
	failed := map[string]string{}
	for _, fh := range files {
		url, err := saveOne(r, fh)
		if err != nil {
			failed[fh.Filename] = err.Error()
			continue
		}
		urls = append(urls, url)
	}

	if len(urls) == 0 {
		response.Fail(w, http.StatusBadRequest, "no file could be stored")
		return
	}
	response.Created(w, response.M{"urls": urls, "failed": failed})
}
