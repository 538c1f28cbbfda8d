package etl

import (
	"context"
	"errors"
	"fmt"

	"github.com/JustJay7/legal-case-db/internal/database"
	"gorm.io/gorm"
)

// ErrCaseNotFound is returned by MigrateLegacy for an unknown case ID.
var ErrCaseNotFound = errors.New("case not found")

// MigrateLegacy attaches legacy comma-separated area and organization strings
// (e.g. "'Fraud','Housing'") to one existing case. Values keep their original
// casing. It returns the number of links written.
func (im *Importer) MigrateLegacy(ctx context.Context, caseID uint, areas, orgs string) (int, error) {
	linked := 0

	err := im.stage(ctx, "legacy", func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&database.Case{}).Where("case_id = ?", caseID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: %d", ErrCaseNotFound, caseID)
		}

		sets := []struct {
			dim    database.Dimension
			values []string
		}{
			{database.AreaDimension, parseLegacyList(areas)},
			{database.OrganizationDimension, parseLegacyList(orgs)},
		}

		for _, set := range sets {
			for _, name := range set.values {
				id, err := im.taxonID(tx, set.dim, name)
				if err != nil {
					return err
				}
				if err := link(tx, set.dim, caseID, id); err != nil {
					return err
				}
				linked++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	im.log.Info("Legacy metadata migrated", "case_id", caseID, "links", linked)
	return linked, nil
}
