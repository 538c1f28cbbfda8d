package repository

import (
	"fmt"
	"strings"

	"github.com/JustJay7/legal-case-db/internal/database"
	"github.com/JustJay7/legal-case-db/internal/optional"
	"gorm.io/gorm"
)

// TaxonomyCreate is the body of POST /taxonomies/<kind>/.
type TaxonomyCreate struct {
	Name string `json:"name" binding:"required"`
}

// TaxonomyUpdate renames a taxonomy value.
type TaxonomyUpdate struct {
	Name optional.Value[string] `json:"name"`
}

func newTaxonomy[T any](db *gorm.DB, dim database.Dimension, id func(*T) uint, name func(*T) *string) *Repository[T, TaxonomyCreate, TaxonomyUpdate] {
	return New(db, Mapping[T, TaxonomyCreate, TaxonomyUpdate]{
		PrimaryKey:    dim.PrimaryKey,
		SearchColumns: []string{dim.PrimaryKey, "name"},
		ID:            id,
		Build: func(in TaxonomyCreate) *T {
			row := new(T)
			*name(row) = strings.TrimSpace(in.Name)
			return row
		},
		Validate: func(in TaxonomyCreate) error {
			if strings.TrimSpace(in.Name) == "" {
				return fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
			}
			return nil
		},
		Apply: func(row *T, in TaxonomyUpdate) error {
			v, ok := in.Name.Get()
			if in.Name.IsNull() || (ok && strings.TrimSpace(v) == "") {
				return fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
			}
			if ok {
				*name(row) = strings.TrimSpace(v)
			}
			return nil
		},
	})
}

// NewAreas returns the repository for areas of application.
func NewAreas(db *gorm.DB) *Repository[database.AreaOfApplication, TaxonomyCreate, TaxonomyUpdate] {
	return newTaxonomy(db, database.AreaDimension,
		func(t *database.AreaOfApplication) uint { return t.AreaID },
		func(t *database.AreaOfApplication) *string { return &t.Name })
}

// NewIssues returns the repository for issues.
func NewIssues(db *gorm.DB) *Repository[database.Issue, TaxonomyCreate, TaxonomyUpdate] {
	return newTaxonomy(db, database.IssueDimension,
		func(t *database.Issue) uint { return t.IssueID },
		func(t *database.Issue) *string { return &t.Name })
}

// NewCauses returns the repository for causes of action.
func NewCauses(db *gorm.DB) *Repository[database.CauseOfAction, TaxonomyCreate, TaxonomyUpdate] {
	return newTaxonomy(db, database.CauseDimension,
		func(t *database.CauseOfAction) uint { return t.CauseID },
		func(t *database.CauseOfAction) *string { return &t.Name })
}

// NewAlgorithms returns the repository for algorithms.
func NewAlgorithms(db *gorm.DB) *Repository[database.Algorithm, TaxonomyCreate, TaxonomyUpdate] {
	return newTaxonomy(db, database.AlgorithmDimension,
		func(t *database.Algorithm) uint { return t.AlgorithmID },
		func(t *database.Algorithm) *string { return &t.Name })
}

// NewOrganizations returns the repository for organizations.
func NewOrganizations(db *gorm.DB) *Repository[database.Organization, TaxonomyCreate, TaxonomyUpdate] {
	return newTaxonomy(db, database.OrganizationDimension,
		func(t *database.Organization) uint { return t.OrganizationID },
		func(t *database.Organization) *string { return &t.Name })
}
