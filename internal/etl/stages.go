package etl

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/JustJay7/legal-case-db/internal/database"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Case sheet columns.
const (
	colSlug              = "Case_snug"
	colRecordNumber      = "Record_Number"
	colCaption           = "Caption"
	colBriefDescription  = "Brief_Description"
	colFilingDate        = "Date_Action_Filed"
	colStatus            = "Status_Disposition"
	colPublished         = "Published_Opinions_binary"
	colClassAction       = "Class_Action_list"
	colResearcher        = "Researcher"
	colSignificance      = "Summary_of_Significance"
	colFactsActivity     = "Summary_Facts_Activity_to_Date"
	colRecentActivity    = "Most_Recent_Activity"
	colRecentActivityDay = "Most_Recent_Activity_Date"
	colDateAdded         = "Date_Added"
	colLastUpdate        = "Last_Update"
	colCourt             = "Jurisdiction_Filed"
	colJurisdictionType  = "Jurisdiction_Type_Text"
	colJurisdictionName  = "Jurisdiction_Name"

	// shared by the docket, document and secondary source sheets
	colCaseNumber = "Case_Number"
)

// taxonomyColumns maps each multi-value case column to its dimension.
var taxonomyColumns = []struct {
	column string
	dim    database.Dimension
}{
	{"Area_of_Application_List", database.AreaDimension},
	{"Issue_List", database.IssueDimension},
	{"Cause_of_Action_List", database.CauseDimension},
	{"Name_of_Algorithm_List", database.AlgorithmDimension},
	{"Organizations_involved", database.OrganizationDimension},
}

var errRowSkipped = errors.New("row skipped")

func (im *Importer) importCases(ctx context.Context) (map[int]uint, StageReport, error) {
	report := StageReport{Stage: "cases"}
	records := make(map[int]uint)

	rows, err := im.readSheet(ctx, CaseWorkbook)
	if err != nil {
		return nil, report, fmt.Errorf("import cases: %w", err)
	}
	report.Rows = len(rows)

	err = im.stage(ctx, report.Stage, func(tx *gorm.DB) error {
		for _, row := range rows {
			caseID, inserted, err := im.importCase(tx, &report, row)
			if errors.Is(err, errRowSkipped) {
				continue
			}
			if err != nil {
				return fmt.Errorf("row %d: %w", row.Line, err)
			}
			if inserted {
				report.Inserted++
			}

			if rn, _ := row.Int(colRecordNumber); rn != nil {
				records[*rn] = caseID
			}

			for _, tc := range taxonomyColumns {
				raw, ok := row.Raw(tc.column)
				if !ok {
					continue
				}
				for _, name := range ParseList(raw) {
					id, err := im.taxonID(tx, tc.dim, name)
					if err != nil {
						return fmt.Errorf("row %d: %w", row.Line, err)
					}
					if err := link(tx, tc.dim, caseID, id); err != nil {
						return fmt.Errorf("row %d: %w", row.Line, err)
					}
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, report, err
	}

	im.log.Info("Cases loaded", "rows", report.Rows, "inserted", report.Inserted, "skipped", report.Skipped)
	return records, report, nil
}

// importCase resolves the jurisdiction and inserts the case unless its slug is
// already present. It returns errRowSkipped after logging an unusable row.
func (im *Importer) importCase(tx *gorm.DB, report *StageReport, row Row) (uint, bool, error) {
	sheet := CaseWorkbook.Sheet

	slug := row.String(colSlug)
	if slug == nil {
		im.skip(report, sheet, row, "missing slug")
		return 0, false, errRowSkipped
	}

	court, kind, name := row.String(colCourt), row.String(colJurisdictionType), row.String(colJurisdictionName)
	if court == nil || kind == nil || name == nil {
		im.skip(report, sheet, row, "missing jurisdiction", "slug", *slug)
		return 0, false, errRowSkipped
	}
	if !slices.Contains(database.JurisdictionTypes, *kind) {
		im.skip(report, sheet, row, "invalid jurisdiction type", "slug", *slug, "jurisdiction_type", *kind)
		return 0, false, errRowSkipped
	}

	c, err := caseFromRow(row)
	if err != nil {
		im.skip(report, sheet, row, err.Error(), "slug", *slug)
		return 0, false, errRowSkipped
	}

	jurisdictionID, err := im.jurisdictionID(tx, *court, *kind, *name)
	if err != nil {
		return 0, false, err
	}
	c.JurisdictionID = &jurisdictionID

	res := tx.Omit(clause.Associations).Clauses(clause.OnConflict{DoNothing: true}).Create(c)
	if res.Error != nil {
		return 0, false, fmt.Errorf("failed to insert case %s: %w", c.Slug, res.Error)
	}
	if res.RowsAffected > 0 {
		return c.CaseID, true, nil
	}

	var existing database.Case
	err = tx.Select("case_id").Where("slug = ?", c.Slug).Take(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// the conflict was on record_number, held by a different slug
		im.skip(report, sheet, row, "record number already used", "slug", c.Slug)
		return 0, false, errRowSkipped
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to look up case %s: %w", c.Slug, err)
	}

	return existing.CaseID, false, nil
}

func caseFromRow(row Row) (*database.Case, error) {
	recordNumber, err := row.Int(colRecordNumber)
	if err != nil {
		return nil, err
	}

	dates := make(map[string]*database.Date)
	for _, col := range []string{colFilingDate, colRecentActivityDay, colDateAdded, colLastUpdate} {
		d, err := row.Date(col)
		if err != nil {
			return nil, err
		}
		dates[col] = d
	}

	published := row.Bool(colPublished)

	return &database.Case{
		Slug:                   *row.String(colSlug),
		RecordNumber:           recordNumber,
		Caption:                row.String(colCaption),
		BriefDescription:       row.String(colBriefDescription),
		FilingDate:             dates[colFilingDate],
		StatusDisposition:      row.String(colStatus),
		PublishedOpinionFlag:   &published,
		ClassActionStatus:      row.String(colClassAction),
		Researcher:             row.String(colResearcher),
		SummaryOfSignificance:  row.String(colSignificance),
		SummaryFactsActivity:   row.String(colFactsActivity),
		MostRecentActivity:     row.String(colRecentActivity),
		MostRecentActivityDate: dates[colRecentActivityDay],
		DateAdded:              dates[colDateAdded],
		LastUpdate:             dates[colLastUpdate],
	}, nil
}

// caseFor maps a child row's Case_Number onto a case imported by stage one.
func (im *Importer) caseFor(report *StageReport, sheet string, row Row, records map[int]uint) (uint, bool) {
	number, err := row.Int(colCaseNumber)
	if err != nil {
		im.skip(report, sheet, row, err.Error())
		return 0, false
	}
	if number == nil {
		im.skip(report, sheet, row, "missing case number")
		return 0, false
	}

	caseID, ok := records[*number]
	if !ok {
		im.skip(report, sheet, row, "unknown case number", "case_number", *number)
		return 0, false
	}
	return caseID, true
}

func (im *Importer) importDockets(ctx context.Context, records map[int]uint) (StageReport, error) {
	report := StageReport{Stage: "dockets"}
	sheet := DocketWorkbook.Sheet

	rows, err := im.readSheet(ctx, DocketWorkbook)
	if err != nil {
		return report, fmt.Errorf("import dockets: %w", err)
	}
	report.Rows = len(rows)

	err = im.stage(ctx, report.Stage, func(tx *gorm.DB) error {
		for _, row := range rows {
			caseID, ok := im.caseFor(&report, sheet, row, records)
			if !ok {
				continue
			}

			docket := database.Docket{
				CaseID:       caseID,
				Court:        row.String("court"),
				DocketNumber: row.String("number"),
				Link:         row.String("link"),
			}
			if err := tx.Omit(clause.Associations).Create(&docket).Error; err != nil {
				return fmt.Errorf("row %d: failed to insert docket: %w", row.Line, err)
			}
			report.Inserted++
		}
		return nil
	})
	if err != nil {
		return report, err
	}

	im.log.Info("Dockets loaded", "rows", report.Rows, "inserted", report.Inserted, "skipped", report.Skipped)
	return report, nil
}

// importDocuments attaches each document to its case's lowest-numbered docket.
func (im *Importer) importDocuments(ctx context.Context, records map[int]uint) (StageReport, error) {
	report := StageReport{Stage: "documents"}
	sheet := DocumentWorkbook.Sheet

	rows, err := im.readSheet(ctx, DocumentWorkbook)
	if err != nil {
		return report, fmt.Errorf("import documents: %w", err)
	}
	report.Rows = len(rows)

	err = im.stage(ctx, report.Stage, func(tx *gorm.DB) error {
		for _, row := range rows {
			caseID, ok := im.caseFor(&report, sheet, row, records)
			if !ok {
				continue
			}

			var docketIDs []uint
			err := tx.Model(&database.Docket{}).
				Where("case_id = ?", caseID).
				Order("docket_id").
				Limit(1).
				Pluck("docket_id", &docketIDs).Error
			if err != nil {
				return fmt.Errorf("row %d: failed to look up docket: %w", row.Line, err)
			}
			if len(docketIDs) == 0 {
				im.skip(&report, sheet, row, "case has no docket", "case_id", caseID)
				continue
			}

			filed, err := row.Date("date")
			if err != nil {
				im.skip(&report, sheet, row, err.Error())
				continue
			}

			doc := database.Document{
				DocketID:     docketIDs[0],
				DocumentType: row.String("document"),
				FilingDate:   filed,
				Link:         row.String("link"),
				Citation:     row.String("cite_or_reference"),
			}
			if err := tx.Create(&doc).Error; err != nil {
				return fmt.Errorf("row %d: failed to insert document: %w", row.Line, err)
			}
			report.Inserted++
		}
		return nil
	})
	if err != nil {
		return report, err
	}

	im.log.Info("Documents loaded", "rows", report.Rows, "inserted", report.Inserted, "skipped", report.Skipped)
	return report, nil
}

func (im *Importer) importSecondarySources(ctx context.Context, records map[int]uint) (StageReport, error) {
	report := StageReport{Stage: "secondary_sources"}
	sheet := SecondaryWorkbook.Sheet

	rows, err := im.readSheet(ctx, SecondaryWorkbook)
	if err != nil {
		return report, fmt.Errorf("import secondary sources: %w", err)
	}
	report.Rows = len(rows)

	err = im.stage(ctx, report.Stage, func(tx *gorm.DB) error {
		for _, row := range rows {
			caseID, ok := im.caseFor(&report, sheet, row, records)
			if !ok {
				continue
			}

			src := database.SecondarySource{
				CaseID: caseID,
				Title:  row.String("Secondary_Source_Title"),
				Link:   row.String("Secondary_Source_Link"),
			}
			if err := tx.Create(&src).Error; err != nil {
				return fmt.Errorf("row %d: failed to insert secondary source: %w", row.Line, err)
			}
			report.Inserted++
		}
		return nil
	})
	if err != nil {
		return report, err
	}

	im.log.Info("Secondary sources loaded", "rows", report.Rows, "inserted", report.Inserted, "skipped", report.Skipped)
	return report, nil
}
