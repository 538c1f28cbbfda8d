package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestWithForeignKeys(t *testing.T) {
	tests := []struct {
		dsn  string
		want string
	}{
		{"data/cases.db", "data/cases.db?_foreign_keys=on"},
		{"file:x?mode=memory", "file:x?mode=memory&_foreign_keys=on"},
		{"cases.db?_fk=1", "cases.db?_fk=1"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, withForeignKeys(tt.dsn))
	}
}

func TestIsPostgres(t *testing.T) {
	assert.True(t, IsPostgres("postgresql://u:p@localhost:5432/db"))
	assert.True(t, IsPostgres("postgres://localhost/db"))
	assert.False(t, IsPostgres("data/cases.db"))
	assert.False(t, IsPostgres("./data/casedb.sqlite"))
}

func TestMigrateIsRepeatable(t *testing.T) {
	db, err := Open("file:TestMigrateIsRepeatable?mode=memory&cache=shared", logger.Silent)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	defer func() { _ = sqlDB.Close() }()

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))

	for _, table := range []string{"cases", "case_areas", "case_organizations", "jurisdictions", "secondary_sources"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
	assert.True(t, db.Migrator().HasIndex(&Case{}, "idx_cases_filing_date"))

	// cases point at jurisdictions, never the other way round
	var casesDDL, jurisdictionsDDL string
	require.NoError(t, db.Raw("SELECT sql FROM sqlite_master WHERE type = 'table' AND name = ?", "cases").Scan(&casesDDL).Error)
	require.NoError(t, db.Raw("SELECT sql FROM sqlite_master WHERE type = 'table' AND name = ?", "jurisdictions").Scan(&jurisdictionsDDL).Error)
	assert.Contains(t, casesDDL, "FOREIGN KEY (`jurisdiction_id`) REFERENCES `jurisdictions`(`jurisdiction_id`)")
	assert.NotContains(t, jurisdictionsDDL, "REFERENCES")

	court, kind, name := "Wis.", JurisdictionState, "Wisconsin"
	j := Jurisdiction{CourtName: &court, JurisdictionType: &kind, JurisdictionName: &name}
	require.NoError(t, db.Create(&j).Error)
	require.NoError(t, db.Create(&Case{Slug: "loomis", JurisdictionID: &j.JurisdictionID}).Error)
	assert.Error(t, db.Delete(&j).Error, "a jurisdiction in use cannot be deleted")

	var fk int
	require.NoError(t, db.Raw("PRAGMA foreign_keys").Scan(&fk).Error)
	assert.Equal(t, 1, fk)
}
