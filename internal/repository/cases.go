package repository

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/JustJay7/legal-case-db/internal/database"
	"github.com/JustJay7/legal-case-db/internal/optional"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CaseCreate is the body of POST /cases/. The five ID lists attach existing
// taxonomy rows to the new case.
type CaseCreate struct {
	Slug                   string         `json:"slug" binding:"required"`
	RecordNumber           *int           `json:"record_number"`
	Caption                *string        `json:"caption"`
	BriefDescription       *string        `json:"brief_description"`
	FilingDate             *database.Date `json:"filing_date"`
	StatusDisposition      *string        `json:"status_disposition"`
	PublishedOpinionFlag   *bool          `json:"published_opinion_flag"`
	ClassActionStatus      *string        `json:"class_action_status"`
	Researcher             *string        `json:"researcher"`
	SummaryOfSignificance  *string        `json:"summary_of_significance"`
	SummaryFactsActivity   *string        `json:"summary_facts_activity"`
	MostRecentActivity     *string        `json:"most_recent_activity"`
	MostRecentActivityDate *database.Date `json:"most_recent_activity_date"`
	DateAdded              *database.Date `json:"date_added"`
	LastUpdate             *database.Date `json:"last_update"`
	JurisdictionID         *uint          `json:"jurisdiction_id"`

	AreaIDs         []uint `json:"area_ids"`
	IssueIDs        []uint `json:"issue_ids"`
	CauseIDs        []uint `json:"cause_ids"`
	AlgorithmIDs    []uint `json:"algorithm_ids"`
	OrganizationIDs []uint `json:"organization_ids"`
}

// CaseUpdate is the body of PUT /cases/:id. For the ID lists an absent key
// (or null) keeps the dimension, [] clears it and anything else replaces it.
type CaseUpdate struct {
	Slug                   optional.Value[string]        `json:"slug"`
	RecordNumber           optional.Value[int]           `json:"record_number"`
	Caption                optional.Value[string]        `json:"caption"`
	BriefDescription       optional.Value[string]        `json:"brief_description"`
	FilingDate             optional.Value[database.Date] `json:"filing_date"`
	StatusDisposition      optional.Value[string]        `json:"status_disposition"`
	PublishedOpinionFlag   optional.Value[bool]          `json:"published_opinion_flag"`
	ClassActionStatus      optional.Value[string]        `json:"class_action_status"`
	Researcher             optional.Value[string]        `json:"researcher"`
	SummaryOfSignificance  optional.Value[string]        `json:"summary_of_significance"`
	SummaryFactsActivity   optional.Value[string]        `json:"summary_facts_activity"`
	MostRecentActivity     optional.Value[string]        `json:"most_recent_activity"`
	MostRecentActivityDate optional.Value[database.Date] `json:"most_recent_activity_date"`
	DateAdded              optional.Value[database.Date] `json:"date_added"`
	LastUpdate             optional.Value[database.Date] `json:"last_update"`
	JurisdictionID         optional.Value[uint]          `json:"jurisdiction_id"`

	AreaIDs         optional.Value[[]uint] `json:"area_ids"`
	IssueIDs        optional.Value[[]uint] `json:"issue_ids"`
	CauseIDs        optional.Value[[]uint] `json:"cause_ids"`
	AlgorithmIDs    optional.Value[[]uint] `json:"algorithm_ids"`
	OrganizationIDs optional.Value[[]uint] `json:"organization_ids"`
}

// relation is one dimension's requested association set.
type relation struct {
	dim database.Dimension
	ids []uint
}

func (in CaseCreate) relations() []relation {
	var out []relation
	add := func(dim database.Dimension, ids []uint) {
		if len(ids) > 0 {
			out = append(out, relation{dim: dim, ids: ids})
		}
	}
	add(database.AreaDimension, in.AreaIDs)
	add(database.IssueDimension, in.IssueIDs)
	add(database.CauseDimension, in.CauseIDs)
	add(database.AlgorithmDimension, in.AlgorithmIDs)
	add(database.OrganizationDimension, in.OrganizationIDs)
	return out
}

func (in CaseUpdate) relations() []relation {
	var out []relation
	add := func(dim database.Dimension, v optional.Value[[]uint]) {
		if ids, ok := v.Get(); ok {
			out = append(out, relation{dim: dim, ids: ids})
		}
	}
	add(database.AreaDimension, in.AreaIDs)
	add(database.IssueDimension, in.IssueIDs)
	add(database.CauseDimension, in.CauseIDs)
	add(database.AlgorithmDimension, in.AlgorithmIDs)
	add(database.OrganizationDimension, in.OrganizationIDs)
	return out
}

var casePreloads = []string{
	"Jurisdiction",
	"Dockets.Documents",
	"SecondarySources",
	"Areas",
	"Issues",
	"Causes",
	"Algorithms",
	"Organizations",
}

var caseSearchColumns = []string{
	"case_id",
	"slug",
	"record_number",
	"caption",
	"filing_date",
	"status_disposition",
	"published_opinion_flag",
	"class_action_status",
	"researcher",
	"jurisdiction_id",
	"most_recent_activity_date",
}

// CaseRepository extends the generic repository with taxonomy reconciliation.
// CaseRepository adds taxonomy reconciliation and slug lookup to the
// generic case repository.
type CaseRepository struct {
	*Repository[database.Case, CaseCreate, CaseUpdate]
}

// NewCases creates the case repository
func NewCases(db *gorm.DB) *CaseRepository {
	return &CaseRepository{
		Repository: New(db, Mapping[database.Case, CaseCreate, CaseUpdate]{
			PrimaryKey:    "case_id",
			Preloads:      casePreloads,
			SearchColumns: caseSearchColumns,
			ID:            func(c *database.Case) uint { return c.CaseID },
			Build:         buildCase,
			Apply:         applyCase,
			Validate:      validateCase,
		}),
	}
}

// GetBySlug returns the case with the given slug, without associations.
func (r *CaseRepository) GetBySlug(ctx context.Context, slug string) (*database.Case, error) {
	var c database.Case
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).Take(&c).Error; err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

// Create inserts the case and attaches every non-empty ID list in one
// transaction.
func (r *CaseRepository) Create(ctx context.Context, in CaseCreate) (*database.Case, error) {
	if err := validateCase(in); err != nil {
		return nil, err
	}

	row := buildCase(in)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(row).Error; err != nil {
			return err
		}
		return reconcile(tx, row, in.relations())
	})
	if err != nil {
		return nil, translate(err)
	}

	return r.Get(ctx, row.CaseID)
}

// Update patches the base fields and replaces the present dimensions in one
// transaction.
func (r *CaseRepository) Update(ctx context.Context, existing *database.Case, in CaseUpdate) (*database.Case, error) {
	if err := applyCase(existing, in); err != nil {
		return nil, err
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(existing).Error; err != nil {
			return err
		}
		return reconcile(tx, existing, in.relations())
	})
	if err != nil {
		return nil, translate(err)
	}

	return r.Get(ctx, existing.CaseID)
}

// validateCase rejects a slug that is blank once trimmed; binding only checks
// that the key is present.
func validateCase(in CaseCreate) error {
	if strings.TrimSpace(in.Slug) == "" {
		return fmt.Errorf("%w: slug cannot be empty", ErrInvalidInput)
	}
	return nil
}

func buildCase(in CaseCreate) *database.Case {
	published := false
	if in.PublishedOpinionFlag != nil {
		published = *in.PublishedOpinionFlag
	}

	return &database.Case{
		Slug:                   strings.TrimSpace(in.Slug),
		RecordNumber:           in.RecordNumber,
		Caption:                in.Caption,
		BriefDescription:       in.BriefDescription,
		FilingDate:             in.FilingDate,
		StatusDisposition:      in.StatusDisposition,
		PublishedOpinionFlag:   &published,
		ClassActionStatus:      in.ClassActionStatus,
		Researcher:             in.Researcher,
		SummaryOfSignificance:  in.SummaryOfSignificance,
		SummaryFactsActivity:   in.SummaryFactsActivity,
		MostRecentActivity:     in.MostRecentActivity,
		MostRecentActivityDate: in.MostRecentActivityDate,
		DateAdded:              in.DateAdded,
		LastUpdate:             in.LastUpdate,
		JurisdictionID:         in.JurisdictionID,
	}
}

func applyCase(c *database.Case, in CaseUpdate) error {
	if slug, ok := in.Slug.Get(); in.Slug.IsNull() || (ok && strings.TrimSpace(slug) == "") {
		return fmt.Errorf("%w: slug cannot be empty", ErrInvalidInput)
	}

	in.Slug.ApplyValue(&c.Slug)
	c.Slug = strings.TrimSpace(c.Slug)
	in.RecordNumber.Apply(&c.RecordNumber)
	in.Caption.Apply(&c.Caption)
	in.BriefDescription.Apply(&c.BriefDescription)
	in.FilingDate.Apply(&c.FilingDate)
	in.StatusDisposition.Apply(&c.StatusDisposition)
	in.PublishedOpinionFlag.Apply(&c.PublishedOpinionFlag)
	in.ClassActionStatus.Apply(&c.ClassActionStatus)
	in.Researcher.Apply(&c.Researcher)
	in.SummaryOfSignificance.Apply(&c.SummaryOfSignificance)
	in.SummaryFactsActivity.Apply(&c.SummaryFactsActivity)
	in.MostRecentActivity.Apply(&c.MostRecentActivity)
	in.MostRecentActivityDate.Apply(&c.MostRecentActivityDate)
	in.DateAdded.Apply(&c.DateAdded)
	in.LastUpdate.Apply(&c.LastUpdate)
	if in.JurisdictionID.IsSet() {
		in.JurisdictionID.Apply(&c.JurisdictionID)
		// the preloaded row no longer matches
		c.Jurisdiction = nil
	}

	return nil
}

// replacers sets one dimension of a case to exactly the given IDs.
var replacers = map[string]func(*gorm.DB, *database.Case, database.Dimension, []uint) error{
	database.AreaDimension.Key:         replace[database.AreaOfApplication],
	database.IssueDimension.Key:        replace[database.Issue],
	database.CauseDimension.Key:        replace[database.CauseOfAction],
	database.AlgorithmDimension.Key:    replace[database.Algorithm],
	database.OrganizationDimension.Key: replace[database.Organization],
}

func reconcile(tx *gorm.DB, c *database.Case, relations []relation) error {
	for _, rel := range relations {
		if err := replacers[rel.dim.Key](tx, c, rel.dim, rel.ids); err != nil {
			return err
		}
	}
	return nil
}

func replace[T database.Taxon](tx *gorm.DB, c *database.Case, dim database.Dimension, ids []uint) error {
	assoc := tx.Model(c).Association(dim.Association)
	if assoc.Error != nil {
		return assoc.Error
	}

	if len(ids) == 0 {
		return assoc.Clear()
	}

	rows, err := resolve[T](tx, dim, ids)
	if err != nil {
		return err
	}

	return assoc.Replace(rows)
}

// resolve loads the taxonomy rows for ids. Any ID without a row fails the
// whole mutation.
func resolve[T database.Taxon](tx *gorm.DB, dim database.Dimension, ids []uint) ([]T, error) {
	ids = uniqueIDs(ids)

	var rows []T
	if err := tx.Where(fmt.Sprintf("%s IN ?", dim.PrimaryKey), ids).Find(&rows).Error; err != nil {
		return nil, err
	}

	if len(rows) == len(ids) {
		return rows, nil
	}

	found := make(map[uint]struct{}, len(rows))
	for _, row := range rows {
		found[row.TaxonID()] = struct{}{}
	}

	var missing []string
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, strconv.FormatUint(uint64(id), 10))
		}
	}

	return nil, &ConstraintError{
		Err: fmt.Errorf("unknown %s(s): %s", dim.PrimaryKey, strings.Join(missing, ", ")),
	}
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
