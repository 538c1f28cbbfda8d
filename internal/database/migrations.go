package database

import (
	"fmt"

	"gorm.io/gorm"
)

// RunMigrations executes the migrations AutoMigrate cannot express
func RunMigrations(db *gorm.DB) error {
	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}

// createIndexes creates indexes for the date columns used by search
func createIndexes(db *gorm.DB) error {
	statements := []string{
		`CREATE INDEX IF NOT EXISTS idx_cases_filing_date
		ON cases(filing_date)`,
		`CREATE INDEX IF NOT EXISTS idx_cases_most_recent_activity_date
		ON cases(most_recent_activity_date)`,
		`CREATE INDEX IF NOT EXISTS idx_documents_filing_date
		ON documents(filing_date)`,
	}

	for _, stmt := range statements {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}

	return nil
}
