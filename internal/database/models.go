package database

// Jurisdiction types accepted by the jurisdictions CHECK constraint.
const (
	JurisdictionState         = "U.S. State"
	JurisdictionFederal       = "U.S. Federal"
	JurisdictionInternational = "International"
)

// JurisdictionTypes lists the allowed jurisdiction_type values.
var JurisdictionTypes = []string{JurisdictionState, JurisdictionFederal, JurisdictionInternational}

// Jurisdiction is a court, unique by court name, type and name.
type Jurisdiction struct {
	JurisdictionID   uint    `json:"jurisdiction_id" gorm:"primaryKey;column:jurisdiction_id"`
	CourtName        *string `json:"court_name" gorm:"type:text;uniqueIndex:idx_jurisdictions_triple"`
	JurisdictionType *string `json:"jurisdiction_type" gorm:"type:text;uniqueIndex:idx_jurisdictions_triple;check:chk_jurisdictions_type,jurisdiction_type IN ('U.S. State','U.S. Federal','International')"`
	JurisdictionName *string `json:"jurisdiction_name" gorm:"type:text;uniqueIndex:idx_jurisdictions_triple"`
}

// Case is the central record. Jurisdiction is a plain nullable reference:
// deleting a jurisdiction that still has cases is rejected by the database.
type Case struct {
	CaseID                 uint    `json:"case_id" gorm:"primaryKey;column:case_id"`
	Slug                   string  `json:"slug" gorm:"type:text;not null;uniqueIndex"`
	RecordNumber           *int    `json:"record_number" gorm:"uniqueIndex"`
	Caption                *string `json:"caption" gorm:"type:text"`
	BriefDescription       *string `json:"brief_description" gorm:"type:text"`
	FilingDate             *Date   `json:"filing_date"`
	StatusDisposition      *string `json:"status_disposition" gorm:"type:text"`
	PublishedOpinionFlag   *bool   `json:"published_opinion_flag"`
	ClassActionStatus      *string `json:"class_action_status" gorm:"type:text"`
	Researcher             *string `json:"researcher" gorm:"type:text"`
	SummaryOfSignificance  *string `json:"summary_of_significance" gorm:"type:text"`
	SummaryFactsActivity   *string `json:"summary_facts_activity" gorm:"type:text"`
	MostRecentActivity     *string `json:"most_recent_activity" gorm:"type:text"`
	MostRecentActivityDate *Date   `json:"most_recent_activity_date"`
	DateAdded              *Date   `json:"date_added"`
	LastUpdate             *Date   `json:"last_update"`
	JurisdictionID         *uint   `json:"jurisdiction_id" gorm:"index"`

	Jurisdiction     *Jurisdiction     `json:"jurisdiction,omitempty" gorm:"constraint:OnDelete:RESTRICT"`
	Dockets          []Docket          `json:"dockets" gorm:"foreignKey:CaseID;references:CaseID;constraint:OnDelete:CASCADE"`
	SecondarySources []SecondarySource `json:"secondary_sources" gorm:"foreignKey:CaseID;references:CaseID;constraint:OnDelete:CASCADE"`

	Areas         []AreaOfApplication `json:"areas" gorm:"many2many:case_areas;joinForeignKey:CaseID;joinReferences:AreaID;constraint:OnDelete:CASCADE"`
	Issues        []Issue             `json:"issues" gorm:"many2many:case_issues;joinForeignKey:CaseID;joinReferences:IssueID;constraint:OnDelete:CASCADE"`
	Causes        []CauseOfAction     `json:"causes" gorm:"many2many:case_causes;joinForeignKey:CaseID;joinReferences:CauseID;constraint:OnDelete:CASCADE"`
	Algorithms    []Algorithm         `json:"algorithms" gorm:"many2many:case_algorithms;joinForeignKey:CaseID;joinReferences:AlgorithmID;constraint:OnDelete:CASCADE"`
	Organizations []Organization      `json:"organizations" gorm:"many2many:case_organizations;joinForeignKey:CaseID;joinReferences:OrganizationID;constraint:OnDelete:CASCADE"`
}

// Docket is one court docket of a case. Deleted with its case.
type Docket struct {
	DocketID     uint    `json:"docket_id" gorm:"primaryKey;column:docket_id"`
	CaseID       uint    `json:"case_id" gorm:"not null;index"`
	Court        *string `json:"court" gorm:"type:text"`
	DocketNumber *string `json:"docket_number" gorm:"type:text"`
	Link         *string `json:"link" gorm:"type:text"`

	Documents []Document `json:"documents" gorm:"foreignKey:DocketID;references:DocketID;constraint:OnDelete:CASCADE"`
}

// Document is a filing on a docket.
type Document struct {
	DocumentID   uint    `json:"document_id" gorm:"primaryKey;column:document_id"`
	DocketID     uint    `json:"docket_id" gorm:"not null;index"`
	DocumentType *string `json:"document_type" gorm:"type:text"`
	FilingDate   *Date   `json:"filing_date"`
	Link         *string `json:"link" gorm:"type:text"`
	Citation     *string `json:"citation" gorm:"type:text"`
}

// SecondarySource is commentary or press coverage about a case.
type SecondarySource struct {
	SourceID uint    `json:"source_id" gorm:"primaryKey;column:source_id"`
	CaseID   uint    `json:"case_id" gorm:"not null;index"`
	Title    *string `json:"title" gorm:"type:text"`
	Link     *string `json:"link" gorm:"type:text"`
}

// Taxon is implemented by the five taxonomy lookup tables.
type Taxon interface {
	TaxonID() uint
	TaxonName() string
}

// AreaOfApplication, Issue, CauseOfAction, Algorithm and Organization are
// the taxonomy lookup tables, each unique by name.
type AreaOfApplication struct {
	AreaID uint   `json:"area_id" gorm:"primaryKey;column:area_id"`
	Name   string `json:"name" gorm:"type:text;not null;uniqueIndex"`
}

type Issue struct {
	IssueID uint   `json:"issue_id" gorm:"primaryKey;column:issue_id"`
	Name    string `json:"name" gorm:"type:text;not null;uniqueIndex"`
}

type CauseOfAction struct {
	CauseID uint   `json:"cause_id" gorm:"primaryKey;column:cause_id"`
	Name    string `json:"name" gorm:"type:text;not null;uniqueIndex"`
}

type Algorithm struct {
	AlgorithmID uint   `json:"algorithm_id" gorm:"primaryKey;column:algorithm_id"`
	Name        string `json:"name" gorm:"type:text;not null;uniqueIndex"`
}

type Organization struct {
	OrganizationID uint   `json:"organization_id" gorm:"primaryKey;column:organization_id"`
	Name           string `json:"name" gorm:"type:text;not null;uniqueIndex"`
}

func (a AreaOfApplication) TaxonID() uint     { return a.AreaID }
func (a AreaOfApplication) TaxonName() string { return a.Name }
func (i Issue) TaxonID() uint                 { return i.IssueID }
func (i Issue) TaxonName() string             { return i.Name }
func (c CauseOfAction) TaxonID() uint         { return c.CauseID }
func (c CauseOfAction) TaxonName() string     { return c.Name }
func (a Algorithm) TaxonID() uint             { return a.AlgorithmID }
func (a Algorithm) TaxonName() string         { return a.Name }
func (o Organization) TaxonID() uint          { return o.OrganizationID }
func (o Organization) TaxonName() string      { return o.Name }

func (Jurisdiction) TableName() string {
	return "jurisdictions"
}

func (Case) TableName() string {
	return "cases"
}

func (Docket) TableName() string {
	return "dockets"
}

func (Document) TableName() string {
	return "documents"
}

func (SecondarySource) TableName() string {
	return "secondary_sources"
}

func (AreaOfApplication) TableName() string {
	return "areas_of_application"
}

func (Issue) TableName() string {
	return "issues"
}

func (CauseOfAction) TableName() string {
	return "causes_of_action"
}

func (Algorithm) TableName() string {
	return "algorithms"
}

func (Organization) TableName() string {
	return "organizations"
}

// Dimension describes one Case-to-taxonomy many-to-many relationship.
type Dimension struct {
	Key         string // singular name, e.g. "area"
	Association string // Case field name
	Table       string
	PrimaryKey  string
	JoinTable   string
}

var (
	AreaDimension         = Dimension{Key: "area", Association: "Areas", Table: "areas_of_application", PrimaryKey: "area_id", JoinTable: "case_areas"}
	IssueDimension        = Dimension{Key: "issue", Association: "Issues", Table: "issues", PrimaryKey: "issue_id", JoinTable: "case_issues"}
	CauseDimension        = Dimension{Key: "cause", Association: "Causes", Table: "causes_of_action", PrimaryKey: "cause_id", JoinTable: "case_causes"}
	AlgorithmDimension    = Dimension{Key: "algorithm", Association: "Algorithms", Table: "algorithms", PrimaryKey: "algorithm_id", JoinTable: "case_algorithms"}
	OrganizationDimension = Dimension{Key: "organization", Association: "Organizations", Table: "organizations", PrimaryKey: "organization_id", JoinTable: "case_organizations"}
)

// Dimensions lists every taxonomy dimension in a fixed order.
var Dimensions = []Dimension{AreaDimension, IssueDimension, CauseDimension, AlgorithmDimension, OrganizationDimension}
