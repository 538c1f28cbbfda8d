package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JustJay7/legal-case-db/internal/config"
	"github.com/JustJay7/legal-case-db/internal/database"
	"github.com/JustJay7/legal-case-db/internal/testutil"
	"github.com/JustJay7/legal-case-db/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data"`
	Error      string          `json:"error"`
	Message    string          `json:"message"`
	ID         uint            `json:"id"`
	Pagination *struct {
		Skip  int `json:"skip"`
		Limit int `json:"limit"`
		Count int `json:"count"`
	} `json:"pagination"`
}

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{DefaultPageLimit: 2, MaxPageLimit: 5}
	router := gin.New()
	SetupRoutes(router, testutil.NewDB(t), logger.NewNop(), cfg)
	return router
}

func do(t *testing.T, router *gin.Engine, method, path string, body interface{}) (int, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestCaseEndpoints(t *testing.T) {
	router := setupRouter(t)

	code, env := do(t, router, http.MethodPost, "/api/v1/taxonomies/areas/", gin.H{"name": "Fraud"})
	require.Equal(t, http.StatusCreated, code, env.Error)
	area := decode[database.AreaOfApplication](t, env.Data)

	code, env = do(t, router, http.MethodPost, "/api/v1/jurisdictions/", gin.H{
		"court_name":        "Wisconsin Supreme Court",
		"jurisdiction_type": "U.S. State",
		"jurisdiction_name": "Wisconsin",
	})
	require.Equal(t, http.StatusCreated, code, env.Error)
	jurisdiction := decode[database.Jurisdiction](t, env.Data)

	code, env = do(t, router, http.MethodPost, "/api/v1/cases/", gin.H{
		"slug":            "state-v-loomis",
		"caption":         "State v. Loomis",
		"filing_date":     "2016-07-13",
		"jurisdiction_id": jurisdiction.JurisdictionID,
		"area_ids":        []uint{area.AreaID},
	})
	require.Equal(t, http.StatusCreated, code, env.Error)
	created := decode[database.Case](t, env.Data)
	assert.Equal(t, "state-v-loomis", created.Slug)
	assert.False(t, *created.PublishedOpinionFlag)
	require.Len(t, created.Areas, 1)
	assert.Equal(t, "Fraud", created.Areas[0].Name)
	require.NotNil(t, created.Jurisdiction)
	assert.Equal(t, "Wisconsin", *created.Jurisdiction.JurisdictionName)

	t.Run("duplicate slug", func(t *testing.T) {
		code, env := do(t, router, http.MethodPost, "/api/v1/cases/", gin.H{"slug": "state-v-loomis"})
		assert.Equal(t, http.StatusBadRequest, code)
		assert.False(t, env.Success)
		assert.Equal(t, duplicateSlugMessage, env.Error)
	})

	t.Run("duplicate slug with padding", func(t *testing.T) {
		code, env := do(t, router, http.MethodPost, "/api/v1/cases/", gin.H{"slug": "  state-v-loomis "})
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, duplicateSlugMessage, env.Error)
	})

	t.Run("get", func(t *testing.T) {
		code, env := do(t, router, http.MethodGet, fmt.Sprintf("/api/v1/cases/%d", created.CaseID), nil)
		require.Equal(t, http.StatusOK, code)
		got := decode[database.Case](t, env.Data)
		assert.Equal(t, "2016-07-13", got.FilingDate.String())
	})

	t.Run("update clears areas", func(t *testing.T) {
		path := fmt.Sprintf("/api/v1/cases/%d", created.CaseID)
		code, env := do(t, router, http.MethodPut, path, `{"researcher":"Jane Doe","area_ids":[]}`)
		require.Equal(t, http.StatusOK, code, env.Error)
		got := decode[database.Case](t, env.Data)
		assert.Equal(t, "Jane Doe", *got.Researcher)
		assert.Empty(t, got.Areas)
		assert.Equal(t, "State v. Loomis", *got.Caption)
	})

	t.Run("search", func(t *testing.T) {
		code, env := do(t, router, http.MethodGet, "/api/v1/cases/search/?researcher=jane&published_opinion_flag=false", nil)
		require.Equal(t, http.StatusOK, code, env.Error)
		require.NotNil(t, env.Pagination)
		assert.Equal(t, 1, env.Pagination.Count)

		code, env = do(t, router, http.MethodGet, "/api/v1/cases/search/?filing_date=2016-07-14", nil)
		require.Equal(t, http.StatusOK, code)
		assert.JSONEq(t, `[]`, string(env.Data))
	})

	t.Run("delete", func(t *testing.T) {
		path := fmt.Sprintf("/api/v1/cases/%d", created.CaseID)
		code, env := do(t, router, http.MethodDelete, path, nil)
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, "Case deleted successfully", env.Message)
		assert.Equal(t, created.CaseID, env.ID)

		code, env = do(t, router, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, code)
		assert.Equal(t, "Case not found", env.Error)
	})
}

func TestListPagination(t *testing.T) {
	router := setupRouter(t)

	for _, name := range []string{"A", "B", "C", "D", "E", "F"} {
		code, env := do(t, router, http.MethodPost, "/api/v1/taxonomies/issues/", gin.H{"name": name})
		require.Equal(t, http.StatusCreated, code, env.Error)
	}

	tests := []struct {
		name      string
		query     string
		wantLimit int
		wantCount int
		wantFirst string
	}{
		{"default limit", "", 2, 2, "A"},
		{"skip", "?skip=4", 2, 2, "E"},
		{"capped limit", "?limit=50", 5, 5, "A"},
		{"past the end", "?skip=10", 2, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env := do(t, router, http.MethodGet, "/api/v1/taxonomies/issues/"+tt.query, nil)
			require.Equal(t, http.StatusOK, code, env.Error)
			require.NotNil(t, env.Pagination)
			assert.Equal(t, tt.wantLimit, env.Pagination.Limit)
			assert.Equal(t, tt.wantCount, env.Pagination.Count)

			issues := decode[[]database.Issue](t, env.Data)
			require.Len(t, issues, tt.wantCount)
			if tt.wantCount > 0 {
				assert.Equal(t, tt.wantFirst, issues[0].Name)
			}
		})
	}
}

func TestBadRequests(t *testing.T) {
	router := setupRouter(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		want   string
	}{
		{"non numeric id", http.MethodGet, "/api/v1/dockets/abc", nil, "Invalid Docket ID"},
		{"negative skip", http.MethodGet, "/api/v1/cases/?skip=-1", nil, "skip must be a non-negative integer"},
		{"zero limit", http.MethodGet, "/api/v1/documents/?limit=0", nil, "limit must be a positive integer"},
		{"bad date filter", http.MethodGet, "/api/v1/documents/search/?filing_date=yesterday", nil, "filing_date must be a date (YYYY-MM-DD)"},
		{"bad int filter", http.MethodGet, "/api/v1/dockets/search/?case_id=x", nil, "case_id must be an integer"},
		{"bad bool filter", http.MethodGet, "/api/v1/cases/search/?published_opinion_flag=maybe", nil, "published_opinion_flag must be true or false"},
		{"malformed body", http.MethodPost, "/api/v1/jurisdictions/", "{", ""},
		{"missing slug", http.MethodPost, "/api/v1/cases/", gin.H{"caption": "x"}, ""},
		{"docket without case", http.MethodPost, "/api/v1/dockets/", gin.H{"court": "x"}, ""},
		{"blank slug", http.MethodPost, "/api/v1/cases/", gin.H{"slug": "   "}, "invalid input: slug cannot be empty"},
		{"blank taxonomy name", http.MethodPost, "/api/v1/taxonomies/areas/", gin.H{"name": "   "}, "invalid input: name cannot be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, env := do(t, router, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, code)
			assert.False(t, env.Success)
			if tt.want != "" {
				assert.Equal(t, tt.want, env.Error)
			} else {
				assert.NotEmpty(t, env.Error)
			}
		})
	}
}

func TestIntegrityErrors(t *testing.T) {
	router := setupRouter(t)

	code, env := do(t, router, http.MethodPost, "/api/v1/jurisdictions/", gin.H{"jurisdiction_type": "Galactic"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, env.Error, "Integrity Error: ")

	code, env = do(t, router, http.MethodPost, "/api/v1/cases/", gin.H{"slug": "x", "issue_ids": []uint{7}})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Integrity Error: unknown issue_id(s): 7", env.Error)

	code, env = do(t, router, http.MethodPost, "/api/v1/dockets/", gin.H{"case_id": 42})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, env.Error, "Integrity Error: ")

	code, _ = do(t, router, http.MethodPost, "/api/v1/taxonomies/algorithms/", gin.H{"name": "COMPAS"})
	require.Equal(t, http.StatusCreated, code)
	code, env = do(t, router, http.MethodPost, "/api/v1/taxonomies/algorithms/", gin.H{"name": "COMPAS"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, env.Error, "Integrity Error: ")

	code, env = do(t, router, http.MethodPost, "/api/v1/jurisdictions/", gin.H{
		"court_name": "Ninth Circuit", "jurisdiction_type": "U.S. Federal", "jurisdiction_name": "United States",
	})
	require.Equal(t, http.StatusCreated, code, env.Error)
	j := decode[database.Jurisdiction](t, env.Data)

	code, env = do(t, router, http.MethodPost, "/api/v1/cases/", gin.H{"slug": "in-use", "jurisdiction_id": j.JurisdictionID})
	require.Equal(t, http.StatusCreated, code, env.Error)

	code, env = do(t, router, http.MethodDelete, fmt.Sprintf("/api/v1/jurisdictions/%d", j.JurisdictionID), nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, env.Error, "Integrity Error: ")
}

func TestUpdateMissingResource(t *testing.T) {
	router := setupRouter(t)

	code, env := do(t, router, http.MethodPut, "/api/v1/secondary-sources/9", gin.H{"title": "x"})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Secondary source not found", env.Error)

	code, env = do(t, router, http.MethodDelete, "/api/v1/jurisdictions/9", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Jurisdiction not found", env.Error)
}

func TestHealthCheck(t *testing.T) {
	router := setupRouter(t)

	for _, path := range []string{"/health", "/api/v1/health"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, w.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "healthy", body["status"])
		assert.Equal(t, true, body["database"])
		assert.Equal(t, "sqlite", body["dialect"])
	}
}
