// ABOUTME: Upload controller: checks the .csv suffix, posts the file, starts progress tracking
// ABOUTME: Server failures show the backend detail; transport failures show the error text

package panel

import (
	"context"
	"log/slog"

	"github.com/2389/catalog-panel/internal/api"
)

// UploadController sends CSV files for import.
type UploadController struct {
	loop    *Loop
	backend Backend
	toaster *Toaster
	tracker *ProgressTracker
	logger  *slog.Logger
}

// Upload sends the file at path. Names without a ".csv" suffix are refused
// before any request is made.
func (u *UploadController) Upload(path string) {
	if !api.IsCSVName(path) {
		u.toaster.Error("Please upload a CSV file")
		return
	}

	u.logger.Info("uploading file", "path", path)
	Go(u.loop, func(ctx context.Context) (*api.UploadResult, error) {
		return u.backend.UploadFile(ctx, path)
	}, func(res *api.UploadResult, err error) {
		if err != nil {
			u.logger.Warn("upload failed", "path", path, "error", err)
			if api.IsAPIError(err) {
				u.toaster.Error(api.DetailOr(err, "Upload failed"))
			} else {
				u.toaster.Error("Error uploading file: " + err.Error())
			}
			return
		}

		u.logger.Info("upload accepted", "task_id", res.TaskID)
		u.toaster.Success("File uploaded successfully! Processing...")
		u.tracker.Track(res.TaskID)
	})
}
