// Package etl imports the case spreadsheets into the database.
//
// Stages run in dependency order (cases, dockets, documents, secondary
// sources) and each commits on its own. A failed stage leaves the earlier
// stages in place. Re-running is safe for jurisdictions, cases, taxonomy
// values and their links; dockets, documents and secondary sources are
// inserted again on every run.
package etl

import (
	"context"
	"fmt"
	"time"

	"github.com/JustJay7/legal-case-db/internal/cache"
	"github.com/JustJay7/legal-case-db/internal/database"
	"github.com/JustJay7/legal-case-db/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StageReport counts what one stage did with its sheet.
type StageReport struct {
	Stage    string `json:"stage"`
	Rows     int    `json:"rows"`
	Inserted int    `json:"inserted"`
	Skipped  int    `json:"skipped"`
}

type Report struct {
	Stages []StageReport `json:"stages"`

	// Records maps spreadsheet record numbers to case IDs.
	Records map[int]uint `json:"-"`

	Cache    cache.CacheStats `json:"cache"`
	Duration time.Duration    `json:"duration"`
}

type Importer struct {
	db     *gorm.DB
	source Source
	cache  cache.Cache
	log    *logger.Logger
}

func NewImporter(db *gorm.DB, source Source, log *logger.Logger) *Importer {
	return &Importer{
		db:     db,
		source: source,
		cache:  cache.NewCache(),
		log:    log,
	}
}

// Run executes every stage in order and stops at the first failing stage.
func (im *Importer) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	report := &Report{}

	im.log.Info("Starting import", "source", im.source.String())

	records, stage, err := im.importCases(ctx)
	report.Stages = append(report.Stages, stage)
	if err != nil {
		return report, err
	}
	report.Records = records

	steps := []func(context.Context, map[int]uint) (StageReport, error){
		im.importDockets,
		im.importDocuments,
		im.importSecondarySources,
	}
	for _, step := range steps {
		stage, err := step(ctx, records)
		report.Stages = append(report.Stages, stage)
		if err != nil {
			return report, err
		}
	}

	report.Cache = im.cache.Stats()
	report.Duration = time.Since(start)

	im.log.Info("Import finished",
		"cases", len(records),
		"duration", report.Duration,
		"cache_hits", report.Cache.Hits,
	)

	return report, nil
}

func (im *Importer) readSheet(ctx context.Context, wb Workbook) ([]Row, error) {
	rc, err := im.source.Open(ctx, wb.File)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	return ReadSheet(rc, wb.Sheet)
}

// stage runs fn in one transaction. Cached IDs may refer to rolled-back rows
// after a failure, so the cache is dropped with it.
func (im *Importer) stage(ctx context.Context, name string, fn func(tx *gorm.DB) error) error {
	err := im.db.WithContext(ctx).Transaction(fn)
	if err != nil {
		im.cache.Clear()
		im.log.Error("Import stage failed", "stage", name, "error", err)
		return fmt.Errorf("import %s: %w", name, err)
	}
	return nil
}

func (im *Importer) skip(report *StageReport, sheet string, row Row, reason string, kv ...interface{}) {
	report.Skipped++
	args := append([]interface{}{"stage", report.Stage, "sheet", sheet, "row", row.Line, "reason", reason}, kv...)
	im.log.Warn("Skipping row", args...)
}

// jurisdictionID inserts the triple if needed and returns its ID.
func (im *Importer) jurisdictionID(tx *gorm.DB, court, kind, name string) (uint, error) {
	key := cache.Key("jurisdiction", court, kind, name)
	if id, ok := im.cache.Get(key); ok {
		return id, nil
	}

	row := database.Jurisdiction{CourtName: &court, JurisdictionType: &kind, JurisdictionName: &name}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
		return 0, fmt.Errorf("failed to insert jurisdiction: %w", err)
	}

	var found database.Jurisdiction
	err := tx.Where("court_name = ? AND jurisdiction_type = ? AND jurisdiction_name = ?", court, kind, name).
		Take(&found).Error
	if err != nil {
		return 0, fmt.Errorf("failed to look up jurisdiction: %w", err)
	}

	im.cache.Set(key, found.JurisdictionID)
	return found.JurisdictionID, nil
}

// taxonID inserts name into the dimension's lookup table if needed and
// returns its ID.
func (im *Importer) taxonID(tx *gorm.DB, dim database.Dimension, name string) (uint, error) {
	key := cache.Key(dim.Key, name)
	if id, ok := im.cache.Get(key); ok {
		return id, nil
	}

	err := tx.Table(dim.Table).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(map[string]interface{}{"name": name}).Error
	if err != nil {
		return 0, fmt.Errorf("failed to insert %s %q: %w", dim.Key, name, err)
	}

	var ids []uint
	if err := tx.Table(dim.Table).Where("name = ?", name).Pluck(dim.PrimaryKey, &ids).Error; err != nil {
		return 0, fmt.Errorf("failed to look up %s %q: %w", dim.Key, name, err)
	}
	if len(ids) == 0 {
		return 0, fmt.Errorf("%s %q missing after insert", dim.Key, name)
	}

	im.cache.Set(key, ids[0])
	return ids[0], nil
}

// link attaches a taxonomy value to a case; existing links are kept.
func link(tx *gorm.DB, dim database.Dimension, caseID, taxonID uint) error {
	err := tx.Table(dim.JoinTable).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(map[string]interface{}{"case_id": caseID, dim.PrimaryKey: taxonID}).Error
	if err != nil {
		return fmt.Errorf("failed to link case %d to %s %d: %w", caseID, dim.Key, taxonID, err)
	}
	return nil
}
