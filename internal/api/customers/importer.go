package customers

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"customer-svc/internal/utils"
)

// ImportRow is one CSV line mapped onto a create request. Line is the
// 1-based line number in the uploaded file, kept for error reporting.
type ImportRow struct {
	Line    int
	Request CreateRequest
}

var importColumns = map[string]bool{
	"name": true, "email": true, "phone": true, "address": true,
	"dob": true, "nationality": true, "country": true,
}

// ParseImportCSV reads the uploaded file into rows that already passed create
// validation. Invalid rows are reported, not imported; one bad line never
// rejects the whole file.
func ParseImportCSV(data []byte) ([]ImportRow, []string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("CSV file is empty")
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}
	known := 0
	for _, h := range headers {
		if importColumns[h] {
			known++
		}
	}
	if known == 0 {
		return nil, nil, fmt.Errorf("CSV header row has no recognized columns")
	}

	var (
		rows     []ImportRow
		rowErrs  []string
		dataRows = records[1:]
	)
	for i, record := range dataRows {
		line := i + 2
		fields := map[string]string{}
		for j, value := range record {
			if j < len(headers) {
				fields[headers[j]] = strings.TrimSpace(value)
			}
		}

		req := CreateRequest{
			Name:        fields["name"],
			Email:       fields["email"],
			Phone:       fields["phone"],
			Address:     fields["address"],
			Dob:         fields["dob"],
			Nationality: fields["nationality"],
			Country:     fields["country"],
		}
		if err := ValidateCreateRequest(&req); err != nil {
			rowErrs = append(rowErrs, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		rows = append(rows, ImportRow{Line: line, Request: req})
	}

	return rows, rowErrs, nil
}

// ProcessImportJob inserts the job's rows one by one. Row failures are logged
// and counted; there is no rollback and no retry.
func (s *Service) ProcessImportJob(ctx context.Context, job ImportJob) {
	utils.Zlog.Info("Processing import job",
		zap.String("jobId", job.JobID),
		zap.Int("rows", len(job.Rows)))

	successful := 0
	failed := 0
	for _, row := range job.Rows {
		if _, err := s.Create(ctx, row.Request); err != nil {
			utils.Zlog.Error("Import row failed",
				zap.String("jobId", job.JobID),
				zap.Int("line", row.Line),
				zap.Error(err))
			failed++
			continue
		}
		successful++
	}

	utils.Zlog.Info("Import job completed",
		zap.String("jobId", job.JobID),
		zap.Int("successful", successful),
		zap.Int("failed", failed))
}
