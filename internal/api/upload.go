// ABOUTME: CSV upload as multipart form data to POST /api/upload
// ABOUTME: Streams the file body through a pipe instead of buffering it in memory

package api

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// uploadField is the multipart field the backend reads the file from.
const uploadField = "file"

// IsCSVName reports whether name carries the ".csv" suffix. Advisory only.
func IsCSVName(name string) bool {
	return strings.HasSuffix(name, ".csv")
}

// UploadFile opens path and uploads it under its base name.
func (c *Client) UploadFile(ctx context.Context, path string) (*UploadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening upload: %w", err)
	}
	defer f.Close()

	return c.Upload(ctx, filepath.Base(path), f)
}

// Upload sends r as a multipart file named filename and returns the import task.
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) (*UploadResult, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := mw.CreateFormFile(uploadField, filename)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, r); err != nil {
			pw.CloseWithError(err)
			return
		}
		pw.CloseWithError(mw.Close())
	}()

	req, err := c.newRequest(ctx, http.MethodPost, "/upload", pr)
	if err != nil {
		pr.Close()
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	var res UploadResult
	if err := c.do(c.stream, req, &res); err != nil {
		pr.CloseWithError(err)
		return nil, err
	}
	if res.TaskID == "" {
		return nil, fmt.Errorf("upload response missing task_id")
	}
	return &res, nil
}
