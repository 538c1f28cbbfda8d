package repository

import (
	"fmt"

	"github.com/JustJay7/legal-case-db/internal/database"
	"github.com/JustJay7/legal-case-db/internal/optional"
	"gorm.io/gorm"
)

// JurisdictionCreate is the body of POST /jurisdictions/.
type JurisdictionCreate struct {
	CourtName        *string `json:"court_name"`
	JurisdictionType *string `json:"jurisdiction_type"`
	JurisdictionName *string `json:"jurisdiction_name"`
}

// JurisdictionUpdate patches a jurisdiction; absent fields are kept.
type JurisdictionUpdate struct {
	CourtName        optional.Value[string] `json:"court_name"`
	JurisdictionType optional.Value[string] `json:"jurisdiction_type"`
	JurisdictionName optional.Value[string] `json:"jurisdiction_name"`
}

// Jurisdictions stores courts and where they sit.
type Jurisdictions = Repository[database.Jurisdiction, JurisdictionCreate, JurisdictionUpdate]

// NewJurisdictions creates the jurisdiction repository
func NewJurisdictions(db *gorm.DB) *Jurisdictions {
	return New(db, Mapping[database.Jurisdiction, JurisdictionCreate, JurisdictionUpdate]{
		PrimaryKey:    "jurisdiction_id",
		SearchColumns: []string{"jurisdiction_id", "court_name", "jurisdiction_type", "jurisdiction_name"},
		ID:            func(j *database.Jurisdiction) uint { return j.JurisdictionID },
		Build: func(in JurisdictionCreate) *database.Jurisdiction {
			return &database.Jurisdiction{
				CourtName:        in.CourtName,
				JurisdictionType: in.JurisdictionType,
				JurisdictionName: in.JurisdictionName,
			}
		},
		Apply: func(j *database.Jurisdiction, in JurisdictionUpdate) error {
			in.CourtName.Apply(&j.CourtName)
			in.JurisdictionType.Apply(&j.JurisdictionType)
			in.JurisdictionName.Apply(&j.JurisdictionName)
			return nil
		},
	})
}

// DocketCreate is the body of POST /dockets/.
type DocketCreate struct {
	CaseID       uint    `json:"case_id" binding:"required"`
	Court        *string `json:"court"`
	DocketNumber *string `json:"docket_number"`
	Link         *string `json:"link"`
}

// DocketUpdate patches a docket; case_id cannot be null.
type DocketUpdate struct {
	CaseID       optional.Value[uint]   `json:"case_id"`
	Court        optional.Value[string] `json:"court"`
	DocketNumber optional.Value[string] `json:"docket_number"`
	Link         optional.Value[string] `json:"link"`
}

// Dockets stores dockets with their documents preloaded.
type Dockets = Repository[database.Docket, DocketCreate, DocketUpdate]

// NewDockets creates the docket repository
func NewDockets(db *gorm.DB) *Dockets {
	return New(db, Mapping[database.Docket, DocketCreate, DocketUpdate]{
		PrimaryKey:    "docket_id",
		Preloads:      []string{"Documents"},
		SearchColumns: []string{"docket_id", "case_id", "court", "docket_number"},
		ID:            func(d *database.Docket) uint { return d.DocketID },
		Build: func(in DocketCreate) *database.Docket {
			return &database.Docket{
				CaseID:       in.CaseID,
				Court:        in.Court,
				DocketNumber: in.DocketNumber,
				Link:         in.Link,
			}
		},
		Apply: func(d *database.Docket, in DocketUpdate) error {
			if err := notNull("case_id", in.CaseID); err != nil {
				return err
			}
			in.CaseID.ApplyValue(&d.CaseID)
			in.Court.Apply(&d.Court)
			in.DocketNumber.Apply(&d.DocketNumber)
			in.Link.Apply(&d.Link)
			return nil
		},
	})
}

// DocumentCreate is the body of POST /documents/.
type DocumentCreate struct {
	DocketID     uint           `json:"docket_id" binding:"required"`
	DocumentType *string        `json:"document_type"`
	FilingDate   *database.Date `json:"filing_date"`
	Link         *string        `json:"link"`
	Citation     *string        `json:"citation"`
}

// DocumentUpdate patches a document; docket_id cannot be null.
type DocumentUpdate struct {
	DocketID     optional.Value[uint]          `json:"docket_id"`
	DocumentType optional.Value[string]        `json:"document_type"`
	FilingDate   optional.Value[database.Date] `json:"filing_date"`
	Link         optional.Value[string]        `json:"link"`
	Citation     optional.Value[string]        `json:"citation"`
}

// Documents stores filings attached to dockets.
type Documents = Repository[database.Document, DocumentCreate, DocumentUpdate]

// NewDocuments creates the document repository
func NewDocuments(db *gorm.DB) *Documents {
	return New(db, Mapping[database.Document, DocumentCreate, DocumentUpdate]{
		PrimaryKey:    "document_id",
		SearchColumns: []string{"document_id", "docket_id", "document_type", "filing_date", "citation"},
		ID:            func(d *database.Document) uint { return d.DocumentID },
		Build: func(in DocumentCreate) *database.Document {
			return &database.Document{
				DocketID:     in.DocketID,
				DocumentType: in.DocumentType,
				FilingDate:   in.FilingDate,
				Link:         in.Link,
				Citation:     in.Citation,
			}
		},
		Apply: func(d *database.Document, in DocumentUpdate) error {
			if err := notNull("docket_id", in.DocketID); err != nil {
				return err
			}
			in.DocketID.ApplyValue(&d.DocketID)
			in.DocumentType.Apply(&d.DocumentType)
			in.FilingDate.Apply(&d.FilingDate)
			in.Link.Apply(&d.Link)
			in.Citation.Apply(&d.Citation)
			return nil
		},
	})
}

// SecondarySourceCreate is the body of POST /secondary-sources/.
type SecondarySourceCreate struct {
	CaseID uint    `json:"case_id" binding:"required"`
	Title  *string `json:"title"`
	Link   *string `json:"link"`
}

// SecondarySourceUpdate patches a secondary source; case_id cannot be null.
type SecondarySourceUpdate struct {
	CaseID optional.Value[uint]   `json:"case_id"`
	Title  optional.Value[string] `json:"title"`
	Link   optional.Value[string] `json:"link"`
}

// SecondarySources stores commentary linked to a case.
type SecondarySources = Repository[database.SecondarySource, SecondarySourceCreate, SecondarySourceUpdate]

// NewSecondarySources creates the secondary source repository
func NewSecondarySources(db *gorm.DB) *SecondarySources {
	return New(db, Mapping[database.SecondarySource, SecondarySourceCreate, SecondarySourceUpdate]{
		PrimaryKey:    "source_id",
		SearchColumns: []string{"source_id", "case_id", "title"},
		ID:            func(s *database.SecondarySource) uint { return s.SourceID },
		Build: func(in SecondarySourceCreate) *database.SecondarySource {
			return &database.SecondarySource{
				CaseID: in.CaseID,
				Title:  in.Title,
				Link:   in.Link,
			}
		},
		Apply: func(s *database.SecondarySource, in SecondarySourceUpdate) error {
			if err := notNull("case_id", in.CaseID); err != nil {
				return err
			}
			in.CaseID.ApplyValue(&s.CaseID)
			in.Title.Apply(&s.Title)
			in.Link.Apply(&s.Link)
			return nil
		},
	})
}

// notNull rejects an explicit null for a NOT NULL column.
func notNull[T any](field string, v optional.Value[T]) error {
	if v.IsNull() {
		return fmt.Errorf("%w: %s cannot be null", ErrInvalidInput, field)
	}
	return nil
}
