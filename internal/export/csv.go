// Package export reads lead input files and writes partitioned pipeline
// results to CSV and XLSX.
package export

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/rotisserie/eris"

	"github.com/sparetex/leadgen-cli/internal/model"
)

// Row is the flat export shape of a lead. Slice fields are joined with "; "
// so the file stays spreadsheet-friendly.
type Row struct {
	Company              string  `csv:"company"`
	Country              string  `csv:"country"`
	Website              string  `csv:"website"`
	SourceType           string  `csv:"source_type"`
	Role                 string  `csv:"role"`
	RoleConfidence       float64 `csv:"role_confidence"`
	EntityType           string  `csv:"entity_type"`
	PriorityScore        int     `csv:"priority_score"`
	FinishingSignals     string  `csv:"finishing_signals"`
	OEMSignals           string  `csv:"oem_signals"`
	Emails               string  `csv:"emails"`
	Phones               string  `csv:"phones"`
	SCETotal             float64 `csv:"sce_total"`
	SCEConfidence        string  `csv:"sce_confidence"`
	SalesReady           bool    `csv:"sales_ready"`
	Tier                 int     `csv:"tier"`
	ValidationStatus     string  `csv:"validation_status"`
	FailReason           string  `csv:"fail_reason"`
	K1Count              int     `csv:"k1_count"`
	K2Count              int     `csv:"k2_count"`
	IsGolden             bool    `csv:"is_golden"`
	RejectionReason      string  `csv:"rejection_reason"`
	WebsiteSource        string  `csv:"website_source"`
	OriginalDirectoryURL string  `csv:"original_directory_url"`
}

func fromLead(lead model.Lead) Row {
	return Row{
		Company:              lead.Company,
		Country:              lead.Country,
		Website:              lead.Website,
		SourceType:           string(lead.SourceType),
		Role:                 string(lead.Role),
		RoleConfidence:       lead.RoleConfidence,
		EntityType:           string(lead.EntityType),
		PriorityScore:        lead.PriorityScore,
		FinishingSignals:     strings.Join(lead.FinishingSignals, "; "),
		OEMSignals:           strings.Join(lead.OEMSignals, "; "),
		Emails:               strings.Join(lead.Emails, "; "),
		Phones:               strings.Join(lead.Phones, "; "),
		SCETotal:             lead.SCE.Total,
		SCEConfidence:        string(lead.SCE.Confidence),
		SalesReady:           lead.SCE.SalesReady,
		Tier:                 lead.Tier,
		ValidationStatus:     lead.ValidationStatus,
		FailReason:           lead.FailReason,
		K1Count:              lead.K1Count,
		K2Count:              lead.K2Count,
		IsGolden:             lead.IsGolden,
		RejectionReason:      lead.RejectionReason,
		WebsiteSource:        lead.WebsiteSource,
		OriginalDirectoryURL: lead.OriginalDirectoryURL,
	}
}

// rowHeader and cells must stay in column lockstep with Row; the XLSX writer
// shares them so both formats emit identical columns.
var rowHeader = []string{
	"company", "country", "website", "source_type",
	"role", "role_confidence", "entity_type", "priority_score",
	"finishing_signals", "oem_signals", "emails", "phones",
	"sce_total", "sce_confidence", "sales_ready",
	"tier", "validation_status", "fail_reason",
	"k1_count", "k2_count", "is_golden",
	"rejection_reason", "website_source", "original_directory_url",
}

func (r Row) cells() []string {
	return []string{
		r.Company, r.Country, r.Website, r.SourceType,
		r.Role, strconv.FormatFloat(r.RoleConfidence, 'f', 2, 64), r.EntityType, strconv.Itoa(r.PriorityScore),
		r.FinishingSignals, r.OEMSignals, r.Emails, r.Phones,
		strconv.FormatFloat(r.SCETotal, 'f', 2, 64), r.SCEConfidence, strconv.FormatBool(r.SalesReady),
		strconv.Itoa(r.Tier), r.ValidationStatus, r.FailReason,
		strconv.Itoa(r.K1Count), strconv.Itoa(r.K2Count), strconv.FormatBool(r.IsGolden),
		r.RejectionReason, r.WebsiteSource, r.OriginalDirectoryURL,
	}
}

// inputRow is the shape of harvested lead files. Extra columns are ignored.
type inputRow struct {
	Company    string `csv:"company"`
	Country    string `csv:"country"`
	Website    string `csv:"website"`
	Context    string `csv:"context"`
	SourceType string `csv:"source_type"`
}

// ReadLeads parses a harvested lead CSV. Rows with an empty company cell are
// skipped here; everything else is left for the pipeline gates to judge.
func ReadLeads(path string) ([]model.Lead, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "export: read input file")
	}

	var rows []inputRow
	if err := csvutil.Unmarshal(data, &rows); err != nil {
		return nil, eris.Wrap(err, "export: parse input csv")
	}

	leads := make([]model.Lead, 0, len(rows))
	for _, row := range rows {
		if strings.TrimSpace(row.Company) == "" {
			continue
		}
		leads = append(leads, model.Lead{
			Company:    row.Company,
			Country:    row.Country,
			Website:    row.Website,
			Context:    row.Context,
			SourceType: model.SourceType(row.SourceType),
		})
	}
	return leads, nil
}

func toLead(r Row) model.Lead {
	return model.Lead{
		Company:              r.Company,
		Country:              r.Country,
		Website:              r.Website,
		SourceType:           model.SourceType(r.SourceType),
		Role:                 model.Role(r.Role),
		RoleConfidence:       r.RoleConfidence,
		EntityType:           model.EntityType(r.EntityType),
		PriorityScore:        r.PriorityScore,
		FinishingSignals:     splitJoined(r.FinishingSignals),
		OEMSignals:           splitJoined(r.OEMSignals),
		Emails:               splitJoined(r.Emails),
		Phones:               splitJoined(r.Phones),
		SCE:                  model.SCEScore{Total: r.SCETotal, SalesReady: r.SalesReady, Confidence: model.Confidence(r.SCEConfidence)},
		Tier:                 r.Tier,
		ValidationStatus:     r.ValidationStatus,
		FailReason:           r.FailReason,
		K1Count:              r.K1Count,
		K2Count:              r.K2Count,
		IsGolden:             r.IsGolden,
		RejectionReason:      r.RejectionReason,
		WebsiteSource:        r.WebsiteSource,
		OriginalDirectoryURL: r.OriginalDirectoryURL,
	}
}

func splitJoined(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "; ")
}

// ReadScored parses a previously exported partition CSV back into leads, so
// a finished run can be re-exported in another format.
func ReadScored(path string) ([]model.Lead, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "export: read scored file")
	}

	var rows []Row
	if err := csvutil.Unmarshal(data, &rows); err != nil {
		return nil, eris.Wrap(err, "export: parse scored csv")
	}

	leads := make([]model.Lead, len(rows))
	for i, row := range rows {
		leads[i] = toLead(row)
	}
	return leads, nil
}

func writeCSV(path string, leads []model.Lead) error {
	rows := make([]Row, len(leads))
	for i, lead := range leads {
		rows[i] = fromLead(lead)
	}

	data, err := csvutil.Marshal(rows)
	if err != nil {
		return eris.Wrap(err, "export: marshal csv")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return eris.Wrap(err, "export: write csv")
	}
	return nil
}

// Exporter writes the three run partitions to OutputDir in the configured
// format ("csv" or "xlsx").
type Exporter struct {
	OutputDir string
	Format    string
}

// Write persists the partitions and returns the paths it wrote. CSV output is
// one file per partition; XLSX output is a single workbook with per-tier,
// golden, and rejected sheets.
func (e Exporter) Write(accepted, rejected, golden []model.Lead) ([]string, error) {
	if err := os.MkdirAll(e.OutputDir, 0755); err != nil {
		return nil, eris.Wrap(err, "export: create output dir")
	}

	if e.Format == "xlsx" {
		path := filepath.Join(e.OutputDir, "leads.xlsx")
		if err := writeWorkbook(path, accepted, rejected, golden); err != nil {
			return nil, err
		}
		return []string{path}, nil
	}

	var paths []string
	for _, part := range []struct {
		name  string
		leads []model.Lead
	}{
		{"accepted.csv", accepted},
		{"rejected.csv", rejected},
		{"golden.csv", golden},
	} {
		path := filepath.Join(e.OutputDir, part.name)
		if err := writeCSV(path, part.leads); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
