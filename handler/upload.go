package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/aaraaapps/aaraa.app/config"
	"github.com/aaraaapps/aaraa.app/pkg/logger"
	"github.com/gin-gonic/gin"
)

// ObjectStore is the bucket as seen by the upload endpoint
type ObjectStore interface {
	Bucket() string
	BucketExists(ctx context.Context) (bool, error)
	Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	PublicURL(key string) string
	ObjectPath(key string) string
}

type UploadHandler struct {
	storage  ObjectStore
	maxBytes int64
	now      func() time.Time
}

func NewUploadHandler(storage ObjectStore, cfg *config.UploadConfig) *UploadHandler {
	return &UploadHandler{
		storage:  storage,
		maxBytes: int64(cfg.MaxSizeMB) << 20,
		now:      time.Now,
	}
}

var whitespace = regexp.MustCompile(`\s+`)

// responder writes at most one response per request
type responder struct {
	once sync.Once
	c    *gin.Context
}

func (r *responder) json(status int, body any) {
	r.once.Do(func() {
		r.c.JSON(status, body)
	})
}

func (r *responder) fail(status int, msg string) {
	r.json(status, gin.H{"success": false, "error": msg})
}

// defaultKey names an upload that arrived without a destination path
func defaultKey(now time.Time, filename string) string {
	name := whitespace.ReplaceAllString(filepath.Base(filename), "_")
	return fmt.Sprintf("uploads/%d-%s", now.UnixMilli(), name)
}

// cleanKey normalises a caller-supplied destination, rejecting traversal
func cleanKey(p string) (string, bool) {
	p = strings.TrimSpace(p)
	if p == "" {
		return "", true
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return "", false
		}
	}
	key := strings.TrimPrefix(path.Clean("/"+p), "/")
	return key, key != "" && key != "."
}

// Upload handles POST /api/upload: one multipart file streamed into the
// bucket under "path" or a generated key.
func (h *UploadHandler) Upload(c *gin.Context) {
	r := &responder{c: c}
	ctx := c.Request.Context()

	if h.maxBytes > 0 {
		if c.Request.ContentLength > h.maxBytes {
			r.fail(http.StatusRequestEntityTooLarge, fmt.Sprintf("File exceeds the %d MB limit", h.maxBytes>>20))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes)
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			r.fail(http.StatusRequestEntityTooLarge, fmt.Sprintf("File exceeds the %d MB limit", h.maxBytes>>20))
			return
		}
		r.fail(http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	key, ok := cleanKey(c.Request.FormValue("path"))
	if !ok {
		r.fail(http.StatusBadRequest, "Invalid destination path")
		return
	}
	if key == "" {
		key = defaultKey(h.now(), header.Filename)
	}

	exists, err := h.storage.BucketExists(ctx)
	if err != nil {
		logger.Error(ctx, "bucket check failed", "bucket", h.storage.Bucket(), "error", err)
		r.fail(http.StatusInternalServerError, "Cloud Storage Access Denied. Check IAM permissions.")
		return
	}
	if !exists {
		r.fail(http.StatusNotFound, fmt.Sprintf("Bucket '%s' not found.", h.storage.Bucket()))
		return
	}

	contentType := header.Header.Get("Content-Type")
	if err := h.storage.Put(ctx, key, file, header.Size, contentType); err != nil {
		logger.Error(ctx, "object write failed", "key", key, "error", err)
		cause := errors.Unwrap(err)
		if cause == nil {
			cause = err
		}
		r.fail(http.StatusInternalServerError, "Cloud Write Failure: "+cause.Error())
		return
	}

	logger.Info(ctx, "file uploaded",
		"key", key,
		"size", header.Size,
		"content_type", contentType,
	)
	r.json(http.StatusOK, gin.H{
		"success": true,
		"path":    h.storage.ObjectPath(key),
		"url":     h.storage.PublicURL(key),
	})
}
