package jobs

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/admarket/admarket/internal/repository"
)

// KindExportCampaigns is the task kind of the sponsor CSV export.
const KindExportCampaigns = "export_campaigns"

// ExportPayload identifies the sponsor whose campaigns to export.
type ExportPayload struct {
	SponsorID int64 `json:"sponsor_id"`
}

// CampaignExporter dumps a sponsor's campaigns, with their ad-request
// counts, to a CSV file on shared storage.
type CampaignExporter struct {
	postgres     *sqlx.DB
	campaignRepo *repository.CampaignRepository
	exportDir    string
}

// NewCampaignExporter creates an exporter writing into exportDir.
func NewCampaignExporter(postgres *sqlx.DB, exportDir string) *CampaignExporter {
	return &CampaignExporter{
		postgres:     postgres,
		campaignRepo: repository.NewCampaignRepository(),
		exportDir:    exportDir,
	}
}

// Handle implements the task handler. The result is the CSV file path.
func (e *CampaignExporter) Handle(ctx context.Context, payload []byte) (string, error) {
	var p ExportPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return "", fmt.Errorf("failed to decode export payload: %w", err)
	}

	campaigns, err := e.campaignRepo.ListForExport(e.postgres, p.SponsorID)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(e.exportDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	fileName := fmt.Sprintf("campaigns_%s_%d.csv", time.Now().Format("2006-01-02"), p.SponsorID)
	path := filepath.Join(e.exportDir, fileName)

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create export file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	header := []string{"id", "name", "description", "start_date", "end_date", "budget", "goals", "is_private", "is_flagged", "total_ad_count"}
	if err := writer.Write(header); err != nil {
		return "", fmt.Errorf("failed to write export header: %w", err)
	}
	for _, c := range campaigns {
		record := []string{
			strconv.FormatInt(c.ID, 10),
			c.Name,
			c.Description,
			c.StartDate.Format("2006-01-02"),
			c.EndDate.Format("2006-01-02"),
			strconv.FormatInt(c.Budget, 10),
			c.Goals,
			strconv.FormatBool(c.IsPrivate),
			strconv.FormatBool(c.IsFlagged),
			strconv.FormatInt(c.TotalAdCount, 10),
		}
		if err := writer.Write(record); err != nil {
			return "", fmt.Errorf("failed to write export row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("failed to flush export file: %w", err)
	}
	return path, nil
}
