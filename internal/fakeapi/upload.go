// ABOUTME: CSV upload handler and background product import job
// ABOUTME: Validates file name, size, and headers, then upserts rows in chunks while reporting progress

package fakeapi

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/2389/catalog-panel/internal/api"
	"github.com/2389/catalog-panel/internal/store"
)

// importChunkSize is how many rows are written per transaction.
const importChunkSize = 1000

// requiredColumns must appear in the CSV header, ignoring case and spaces.
var requiredColumns = []string{"sku", "name", "price"}

// handleUpload handles POST /api/upload.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	// Leave headroom for the multipart envelope around the file.
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes+1<<20)

	file, header, err := r.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			sendJSONError(w, http.StatusBadRequest, s.sizeDetail())
			return
		}
		sendJSONError(w, http.StatusUnprocessableEntity, "file is required")
		return
	}
	defer file.Close()

	if !strings.HasSuffix(header.Filename, ".csv") {
		sendJSONError(w, http.StatusBadRequest, "Only CSV files are allowed")
		return
	}

	content, err := io.ReadAll(io.LimitReader(file, s.opts.MaxUploadBytes+1))
	if err != nil {
		sendJSONError(w, http.StatusInternalServerError, fmt.Sprintf("Error uploading file: %v", err))
		return
	}
	if int64(len(content)) > s.opts.MaxUploadBytes {
		sendJSONError(w, http.StatusBadRequest, s.sizeDetail())
		return
	}

	records, err := readCSV(content)
	if err != nil {
		sendJSONError(w, http.StatusBadRequest, fmt.Sprintf("Invalid CSV format: %v", err))
		return
	}
	if len(records) == 0 {
		sendJSONError(w, http.StatusBadRequest, "CSV file is empty")
		return
	}
	if missing := missingColumns(records[0]); len(missing) > 0 {
		sendJSONError(w, http.StatusBadRequest, "Missing required headers: "+strings.Join(missing, ", "))
		return
	}

	taskID := uuid.New().String()
	s.progress.SetProgress(taskID, 0, "Queued for processing...", 100)

	s.jobs.Add(1)
	go func() {
		defer s.jobs.Done()
		s.runImport(context.Background(), taskID, records)
	}()

	s.logger.Info("import queued", "task_id", taskID, "file", header.Filename, "rows", len(records)-1)
	writeJSON(w, http.StatusAccepted, api.UploadResult{
		Message: "File uploaded successfully. Processing started.",
		TaskID:  taskID,
	})
}

func (s *Server) sizeDetail() string {
	return fmt.Sprintf("File size exceeds maximum allowed size of %d bytes", s.opts.MaxUploadBytes)
}

func readCSV(content []byte) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(content))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	return reader.ReadAll()
}

// columnIndex maps normalized header names to their positions.
func columnIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func missingColumns(header []string) []string {
	idx := columnIndex(header)
	var missing []string
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	return missing
}

// csvRow reads named cells from one record.
type csvRow struct {
	cols   map[string]int
	record []string
}

func (r csvRow) get(col string) (string, bool) {
	i, ok := r.cols[col]
	if !ok || i >= len(r.record) {
		return "", false
	}
	return strings.TrimSpace(r.record[i]), true
}

// product converts the row, reporting false when any field is invalid.
func (r csvRow) product() (*store.Product, bool) {
	sku, _ := r.get("sku")
	if !api.ValidSKU(sku) {
		return nil, false
	}
	name, _ := r.get("name")
	if name == "" {
		return nil, false
	}

	rawPrice, _ := r.get("price")
	price, err := strconv.ParseFloat(rawPrice, 64)
	if err != nil || price < 0 {
		return nil, false
	}

	p := &store.Product{SKU: sku, Name: name, Price: price, IsActive: true}
	p.Description, _ = r.get("description")

	if raw, ok := r.get("quantity"); ok && raw != "" {
		qty, err := strconv.Atoi(raw)
		if err != nil || qty < 0 {
			return nil, false
		}
		p.Quantity = qty
	}
	if raw, ok := r.get("is_active"); ok && raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, false
		}
		p.IsActive = active
	}
	return p, true
}

// runImport upserts records (header first) and reports progress under taskID.
func (s *Server) runImport(ctx context.Context, taskID string, records [][]string) {
	logger := s.logger.With("task_id", taskID)
	s.progress.SetProgress(taskID, 0, "Reading CSV file...", 100)

	total := len(records) - 1
	if total <= 0 {
		s.progress.SetError(taskID, "CSV file is empty")
		return
	}
	if missing := missingColumns(records[0]); len(missing) > 0 {
		s.progress.SetError(taskID, "Missing required columns: "+strings.Join(missing, ", "))
		return
	}

	s.progress.SetProgress(taskID, 0, fmt.Sprintf("Processing %d products...", total), total)

	cols := columnIndex(records[0])
	rows := records[1:]
	var created, updated, failed, processed int

	for start := 0; start < len(rows); start += importChunkSize {
		chunk := rows[start:min(start+importChunkSize, len(rows))]

		batch := make([]*store.Product, 0, len(chunk))
		for _, record := range chunk {
			p, ok := csvRow{cols: cols, record: record}.product()
			if !ok {
				failed++
				continue
			}
			batch = append(batch, p)
		}

		if len(batch) > 0 {
			result, err := s.store.UpsertProducts(ctx, batch)
			if err != nil {
				logger.Error("import failed", "error", err)
				s.progress.SetError(taskID, fmt.Sprintf("Error processing CSV: %v", err))
				return
			}
			created += result.Created
			updated += result.Updated
		}

		processed += len(chunk)
		s.progress.SetProgress(taskID, processed, fmt.Sprintf("Processed %d/%d products...", processed, total), total)
	}

	message := fmt.Sprintf("Import complete! Created: %d, Updated: %d, Errors: %d", created, updated, failed)
	logger.Info("import finished", "created", created, "updated", updated, "errors", failed)
	s.progress.SetComplete(taskID, message)
}
