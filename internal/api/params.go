package api

import (
	"fmt"
	"strconv"

	"github.com/JustJay7/legal-case-db/internal/database"
	"github.com/gin-gonic/gin"
)

type fieldKind int

const (
	textField fieldKind = iota
	intField
	boolField
	dateField
)

// searchField is a query parameter accepted by a /search/ endpoint. The name
// doubles as the column it filters.
type searchField struct {
	name string
	kind fieldKind
}

var (
	caseSearch = []searchField{
		{"case_id", intField},
		{"slug", textField},
		{"record_number", intField},
		{"caption", textField},
		{"filing_date", dateField},
		{"status_disposition", textField},
		{"published_opinion_flag", boolField},
		{"class_action_status", textField},
		{"researcher", textField},
		{"jurisdiction_id", intField},
		{"most_recent_activity_date", dateField},
	}

	jurisdictionSearch = []searchField{
		{"jurisdiction_id", intField},
		{"court_name", textField},
		{"jurisdiction_type", textField},
		{"jurisdiction_name", textField},
	}

	docketSearch = []searchField{
		{"docket_id", intField},
		{"case_id", intField},
		{"court", textField},
		{"docket_number", textField},
	}

	documentSearch = []searchField{
		{"document_id", intField},
		{"docket_id", intField},
		{"document_type", textField},
		{"filing_date", dateField},
		{"citation", textField},
	}

	secondarySourceSearch = []searchField{
		{"source_id", intField},
		{"case_id", intField},
		{"title", textField},
	}
)

// parseFilters reads the typed search parameters present in the query string.
// Parameters outside fields are ignored.
func parseFilters(c *gin.Context, fields []searchField) (map[string]any, error) {
	filters := make(map[string]any)

	for _, f := range fields {
		raw, ok := c.GetQuery(f.name)
		if !ok || raw == "" {
			continue
		}

		switch f.kind {
		case textField:
			filters[f.name] = raw
		case intField:
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%s must be an integer", f.name)
			}
			filters[f.name] = n
		case boolField:
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return nil, fmt.Errorf("%s must be true or false", f.name)
			}
			filters[f.name] = b
		case dateField:
			d, err := database.ParseDate(raw)
			if err != nil {
				return nil, fmt.Errorf("%s must be a date (YYYY-MM-DD)", f.name)
			}
			filters[f.name] = d
		}
	}

	return filters, nil
}

// parsePage reads skip and limit. A missing limit uses the configured
// default and a larger one is capped at the configured maximum.
func (h *Handlers) parsePage(c *gin.Context) (skip, limit int, err error) {
	skip, limit = 0, h.cfg.DefaultPageLimit

	if raw, ok := c.GetQuery("skip"); ok {
		skip, err = strconv.Atoi(raw)
		if err != nil || skip < 0 {
			return 0, 0, fmt.Errorf("skip must be a non-negative integer")
		}
	}

	if raw, ok := c.GetQuery("limit"); ok {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return 0, 0, fmt.Errorf("limit must be a positive integer")
		}
	}

	if limit > h.cfg.MaxPageLimit {
		limit = h.cfg.MaxPageLimit
	}

	return skip, limit, nil
}
