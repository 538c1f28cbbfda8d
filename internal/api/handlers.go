package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/JustJay7/legal-case-db/internal/config"
	"github.com/JustJay7/legal-case-db/internal/database"
	"github.com/JustJay7/legal-case-db/internal/repository"
	"github.com/JustJay7/legal-case-db/pkg/logger"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const duplicateSlugMessage = "The case with this slug already exists in the system."

type (
	caseResource            = resource[database.Case, repository.CaseCreate, repository.CaseUpdate]
	jurisdictionResource    = resource[database.Jurisdiction, repository.JurisdictionCreate, repository.JurisdictionUpdate]
	docketResource          = resource[database.Docket, repository.DocketCreate, repository.DocketUpdate]
	documentResource        = resource[database.Document, repository.DocumentCreate, repository.DocumentUpdate]
	secondarySourceResource = resource[database.SecondarySource, repository.SecondarySourceCreate, repository.SecondarySourceUpdate]
)

// taxonomyRoute is a list/create endpoint for one taxonomy dimension.
type taxonomyRoute struct {
	path     string
	register func(g *gin.RouterGroup)
}

// Handlers holds all HTTP handlers
type Handlers struct {
	db     *gorm.DB
	logger *logger.Logger
	cfg    *config.Config

	cases            *caseResource
	jurisdictions    *jurisdictionResource
	dockets          *docketResource
	documents        *documentResource
	secondarySources *secondarySourceResource
	taxonomies       []taxonomyRoute
}

// NewHandlers creates a new handlers instance
func NewHandlers(db *gorm.DB, logger *logger.Logger, cfg *config.Config) *Handlers {
	h := &Handlers{
		db:     db,
		logger: logger,
		cfg:    cfg,
	}

	cases := repository.NewCases(db)
	h.cases = &caseResource{
		name:   "Case",
		store:  cases,
		search: caseSearch,
		h:      h,
		precheck: func(ctx context.Context, in repository.CaseCreate) error {
			_, err := cases.GetBySlug(ctx, strings.TrimSpace(in.Slug))
			switch {
			case err == nil:
				return repository.ErrDuplicate
			case errors.Is(err, repository.ErrNotFound):
				return nil
			default:
				return err
			}
		},
		duplicate: duplicateSlugMessage,
	}
	h.jurisdictions = &jurisdictionResource{
		name:   "Jurisdiction",
		store:  repository.NewJurisdictions(db),
		search: jurisdictionSearch,
		h:      h,
	}
	h.dockets = &docketResource{
		name:   "Docket",
		store:  repository.NewDockets(db),
		search: docketSearch,
		h:      h,
	}
	h.documents = &documentResource{
		name:   "Document",
		store:  repository.NewDocuments(db),
		search: documentSearch,
		h:      h,
	}
	h.secondarySources = &secondarySourceResource{
		name:   "Secondary source",
		store:  repository.NewSecondarySources(db),
		search: secondarySourceSearch,
		h:      h,
	}

	h.taxonomies = []taxonomyRoute{
		taxonomy[database.AreaOfApplication](h, "areas", "Area", repository.NewAreas(db)),
		taxonomy[database.Issue](h, "issues", "Issue", repository.NewIssues(db)),
		taxonomy[database.CauseOfAction](h, "causes", "Cause of action", repository.NewCauses(db)),
		taxonomy[database.Algorithm](h, "algorithms", "Algorithm", repository.NewAlgorithms(db)),
		taxonomy[database.Organization](h, "organizations", "Organization", repository.NewOrganizations(db)),
	}

	return h
}

func taxonomy[T any](h *Handlers, path, name string, s store[T, repository.TaxonomyCreate, repository.TaxonomyUpdate]) taxonomyRoute {
	r := &resource[T, repository.TaxonomyCreate, repository.TaxonomyUpdate]{
		name:  name,
		store: s,
		h:     h,
	}
	return taxonomyRoute{path: path, register: r.registerListCreate}
}

// HealthCheck reports whether the database answers a ping.
func (h *Handlers) HealthCheck(c *gin.Context) {
	status, code := "healthy", http.StatusOK

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	dbHealthy := true
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		h.logger.Warn("Database health check failed", "error", err)
		dbHealthy = false
		status, code = "unhealthy", http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":   status,
		"database": dbHealthy,
		"dialect":  h.db.Dialector.Name(),
		"time":     time.Now().Unix(),
	})
}
