package repository

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/JustJay7/legal-case-db/internal/database"
	"github.com/JustJay7/legal-case-db/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type taxa struct {
	fraud, housing       uint
	privacy              uint
	negligence           uint
	compas               uint
	acme, civilRightsOrg uint
}

func seedTaxonomies(t *testing.T, db *gorm.DB) taxa {
	t.Helper()
	ctx := context.Background()

	create := func(id func(name string) (uint, error), name string) uint {
		v, err := id(name)
		require.NoError(t, err)
		return v
	}

	areas := NewAreas(db)
	area := func(name string) (uint, error) {
		row, err := areas.Create(ctx, TaxonomyCreate{Name: name})
		if err != nil {
			return 0, err
		}
		return row.AreaID, nil
	}
	issue := func(name string) (uint, error) {
		row, err := NewIssues(db).Create(ctx, TaxonomyCreate{Name: name})
		if err != nil {
			return 0, err
		}
		return row.IssueID, nil
	}
	cause := func(name string) (uint, error) {
		row, err := NewCauses(db).Create(ctx, TaxonomyCreate{Name: name})
		if err != nil {
			return 0, err
		}
		return row.CauseID, nil
	}
	algorithm := func(name string) (uint, error) {
		row, err := NewAlgorithms(db).Create(ctx, TaxonomyCreate{Name: name})
		if err != nil {
			return 0, err
		}
		return row.AlgorithmID, nil
	}
	org := func(name string) (uint, error) {
		row, err := NewOrganizations(db).Create(ctx, TaxonomyCreate{Name: name})
		if err != nil {
			return 0, err
		}
		return row.OrganizationID, nil
	}

	return taxa{
		fraud:          create(area, "Fraud"),
		housing:        create(area, "Housing"),
		privacy:        create(issue, "Privacy"),
		negligence:     create(cause, "Negligence"),
		compas:         create(algorithm, "Compas"),
		acme:           create(org, "Acme"),
		civilRightsOrg: create(org, "Aclu"),
	}
}

func taxonIDs[T database.Taxon](rows []T) []uint {
	ids := make([]uint, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.TaxonID())
	}
	return ids
}

func countRows(t *testing.T, db *gorm.DB, table, column string, value any) int64 {
	t.Helper()

	var n int64
	require.NoError(t, db.Table(table).Where(column+" = ?", value).Count(&n).Error)
	return n
}

// decodeUpdate builds a CaseUpdate the way the API does, so key presence is
// taken from real JSON.
func decodeUpdate(t *testing.T, body string) CaseUpdate {
	t.Helper()

	var in CaseUpdate
	require.NoError(t, json.Unmarshal([]byte(body), &in))
	return in
}

func fullCase(t *testing.T, db *gorm.DB, tx taxa) *database.Case {
	t.Helper()

	c, err := NewCases(db).Create(context.Background(), CaseCreate{
		Slug:            "state-v-loomis",
		RecordNumber:    testutil.Ptr(42),
		Caption:         testutil.Ptr("State v. Loomis"),
		Researcher:      testutil.Ptr("Jane Doe"),
		AreaIDs:         []uint{tx.fraud, tx.housing},
		IssueIDs:        []uint{tx.privacy},
		CauseIDs:        []uint{tx.negligence},
		AlgorithmIDs:    []uint{tx.compas},
		OrganizationIDs: []uint{tx.acme, tx.acme},
	})
	require.NoError(t, err)
	return c
}

func TestCaseCreateAttachesTaxonomies(t *testing.T) {
	db := testutil.NewDB(t)
	tx := seedTaxonomies(t, db)

	c := fullCase(t, db, tx)

	assert.Equal(t, "state-v-loomis", c.Slug)
	assert.Equal(t, 42, *c.RecordNumber)
	assert.False(t, *c.PublishedOpinionFlag)
	assert.ElementsMatch(t, []uint{tx.fraud, tx.housing}, taxonIDs(c.Areas))
	assert.ElementsMatch(t, []uint{tx.privacy}, taxonIDs(c.Issues))
	assert.ElementsMatch(t, []uint{tx.negligence}, taxonIDs(c.Causes))
	assert.ElementsMatch(t, []uint{tx.compas}, taxonIDs(c.Algorithms))
	assert.ElementsMatch(t, []uint{tx.acme}, taxonIDs(c.Organizations))
	assert.Empty(t, c.Dockets)
	assert.Nil(t, c.Jurisdiction)
}

func TestCaseUpdateRelations(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		body  string
		check func(t *testing.T, tx taxa, c *database.Case)
	}{
		{
			name: "empty list clears only that dimension",
			body: `{"issue_ids": []}`,
			check: func(t *testing.T, tx taxa, c *database.Case) {
				assert.Empty(t, c.Issues)
				assert.ElementsMatch(t, []uint{tx.fraud, tx.housing}, taxonIDs(c.Areas))
				assert.Len(t, c.Causes, 1)
				assert.Len(t, c.Algorithms, 1)
				assert.Len(t, c.Organizations, 1)
			},
		},
		{
			name: "absent keys leave relations alone",
			body: `{"caption": "Loomis v. Wisconsin"}`,
			check: func(t *testing.T, tx taxa, c *database.Case) {
				assert.Equal(t, "Loomis v. Wisconsin", *c.Caption)
				assert.ElementsMatch(t, []uint{tx.fraud, tx.housing}, taxonIDs(c.Areas))
				assert.ElementsMatch(t, []uint{tx.privacy}, taxonIDs(c.Issues))
			},
		},
		{
			name: "null list leaves relations alone",
			body: `{"area_ids": null}`,
			check: func(t *testing.T, tx taxa, c *database.Case) {
				assert.ElementsMatch(t, []uint{tx.fraud, tx.housing}, taxonIDs(c.Areas))
			},
		},
		{
			name: "non-empty list replaces the set",
			body: `{"organization_ids": [2]}`,
			check: func(t *testing.T, tx taxa, c *database.Case) {
				assert.ElementsMatch(t, []uint{tx.civilRightsOrg}, taxonIDs(c.Organizations))
				assert.ElementsMatch(t, []uint{tx.fraud, tx.housing}, taxonIDs(c.Areas))
			},
		},
		{
			name: "empty update changes nothing",
			body: `{}`,
			check: func(t *testing.T, tx taxa, c *database.Case) {
				assert.Equal(t, "State v. Loomis", *c.Caption)
				assert.Equal(t, "Jane Doe", *c.Researcher)
				assert.Equal(t, 42, *c.RecordNumber)
				assert.Len(t, c.Areas, 2)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := testutil.NewDB(t)
			tx := seedTaxonomies(t, db)
			cases := NewCases(db)

			existing, err := cases.Get(ctx, fullCase(t, db, tx).CaseID)
			require.NoError(t, err)

			updated, err := cases.Update(ctx, existing, decodeUpdate(t, tt.body))
			require.NoError(t, err)
			tt.check(t, tx, updated)

			reloaded, err := cases.Get(ctx, updated.CaseID)
			require.NoError(t, err)
			tt.check(t, tx, reloaded)
		})
	}
}

func TestCaseUnknownTaxonomyIDIsAtomic(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	tx := seedTaxonomies(t, db)
	cases := NewCases(db)

	c := fullCase(t, db, tx)
	existing, err := cases.Get(ctx, c.CaseID)
	require.NoError(t, err)

	_, err = cases.Update(ctx, existing, decodeUpdate(t, `{"caption": "changed", "issue_ids": [], "area_ids": [1, 999]}`))
	require.ErrorIs(t, err, ErrConstraintViolation)
	assert.Contains(t, err.Error(), "999")

	reloaded, err := cases.Get(ctx, c.CaseID)
	require.NoError(t, err)
	assert.Equal(t, "State v. Loomis", *reloaded.Caption)
	assert.Len(t, reloaded.Issues, 1)
	assert.Len(t, reloaded.Areas, 2)

	_, err = cases.Create(ctx, CaseCreate{Slug: "orphan", CauseIDs: []uint{12345}})
	require.ErrorIs(t, err, ErrConstraintViolation)

	_, err = cases.GetBySlug(ctx, "orphan")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCaseUniqueness(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	cases := NewCases(db)

	first, err := cases.Create(ctx, CaseCreate{Slug: "a", RecordNumber: testutil.Ptr(1)})
	require.NoError(t, err)

	found, err := cases.GetBySlug(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, first.CaseID, found.CaseID)

	_, err = cases.Create(ctx, CaseCreate{Slug: "a"})
	assert.ErrorIs(t, err, ErrConstraintViolation)

	_, err = cases.Create(ctx, CaseCreate{Slug: "b", RecordNumber: testutil.Ptr(1)})
	assert.ErrorIs(t, err, ErrConstraintViolation)

	var n int64
	require.NoError(t, db.Model(&database.Case{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)

	_, err = cases.Update(ctx, first, decodeUpdate(t, `{"slug": null}`))
	assert.ErrorIs(t, err, ErrInvalidInput)

	// blank slugs are rejected on create as on update
	_, err = cases.Create(ctx, CaseCreate{Slug: "   "})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = cases.Update(ctx, first, decodeUpdate(t, `{"slug": "   "}`))
	assert.ErrorIs(t, err, ErrInvalidInput)

	require.NoError(t, db.Model(&database.Case{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestCaseRemoveCascades(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	tx := seedTaxonomies(t, db)

	j, err := NewJurisdictions(db).Create(ctx, JurisdictionCreate{
		CourtName:        testutil.Ptr("Wisconsin Supreme Court"),
		JurisdictionType: testutil.Ptr(database.JurisdictionState),
		JurisdictionName: testutil.Ptr("Wisconsin"),
	})
	require.NoError(t, err)

	c := fullCase(t, db, tx)
	other := newCase(t, db, "other")

	cases := NewCases(db)
	existing, err := cases.Get(ctx, c.CaseID)
	require.NoError(t, err)
	_, err = cases.Update(ctx, existing, decodeUpdate(t, `{"jurisdiction_id": 1}`))
	require.NoError(t, err)

	docket, err := NewDockets(db).Create(ctx, DocketCreate{CaseID: c.CaseID})
	require.NoError(t, err)
	_, err = NewDocuments(db).Create(ctx, DocumentCreate{DocketID: docket.DocketID, DocumentType: testutil.Ptr("Opinion")})
	require.NoError(t, err)
	_, err = NewSecondarySources(db).Create(ctx, SecondarySourceCreate{CaseID: c.CaseID})
	require.NoError(t, err)
	_, err = NewSecondarySources(db).Create(ctx, SecondarySourceCreate{CaseID: other.CaseID})
	require.NoError(t, err)

	before, err := cases.Get(ctx, c.CaseID)
	require.NoError(t, err)
	require.NotNil(t, before.Jurisdiction)
	require.Len(t, before.Dockets, 1)
	require.Len(t, before.Dockets[0].Documents, 1)

	removed, err := cases.Remove(ctx, c.CaseID)
	require.NoError(t, err)
	assert.Equal(t, "state-v-loomis", removed.Slug)
	assert.Len(t, removed.Areas, 2)

	assert.Zero(t, countRows(t, db, "dockets", "case_id", c.CaseID))
	assert.Zero(t, countRows(t, db, "documents", "docket_id", docket.DocketID))
	assert.Zero(t, countRows(t, db, "secondary_sources", "case_id", c.CaseID))
	for _, dim := range database.Dimensions {
		assert.Zero(t, countRows(t, db, dim.JoinTable, "case_id", c.CaseID), dim.JoinTable)
	}

	assert.EqualValues(t, 1, countRows(t, db, "secondary_sources", "case_id", other.CaseID))
	assert.EqualValues(t, 1, countRows(t, db, "jurisdictions", "jurisdiction_id", j.JurisdictionID))
	assert.EqualValues(t, 1, countRows(t, db, "areas_of_application", "area_id", tx.fraud))
	assert.EqualValues(t, 1, countRows(t, db, "organizations", "organization_id", tx.acme))
}
