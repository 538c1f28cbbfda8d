package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/JustJay7/legal-case-db/internal/repository"
	"github.com/gin-gonic/gin"
)

// store is the repository surface a resource needs.
type store[T, C, U any] interface {
	Get(ctx context.Context, id uint) (*T, error)
	List(ctx context.Context, offset, limit int) ([]T, error)
	Filter(ctx context.Context, offset, limit int, filters map[string]any) ([]T, error)
	Create(ctx context.Context, in C) (*T, error)
	Update(ctx context.Context, existing *T, in U) (*T, error)
	Remove(ctx context.Context, id uint) (*T, error)
}

// resource serves one entity family: list, search, create, get, update and
// delete.
type resource[T, C, U any] struct {
	name   string
	store  store[T, C, U]
	search []searchField
	h      *Handlers

	// precheck runs before Create; ErrDuplicate from it is reported with
	// duplicate as the message.
	precheck  func(ctx context.Context, in C) error
	duplicate string
}

func (r *resource[T, C, U]) register(g *gin.RouterGroup) {
	r.registerListCreate(g)
	g.GET("/search/", r.Search)
	g.GET("/:id", r.Get)
	g.PUT("/:id", r.Update)
	g.DELETE("/:id", r.Delete)
}

func (r *resource[T, C, U]) registerListCreate(g *gin.RouterGroup) {
	g.GET("/", r.List)
	g.POST("/", r.Create)
}

func (r *resource[T, C, U]) List(c *gin.Context) {
	skip, limit, err := r.h.parsePage(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	rows, err := r.store.List(c.Request.Context(), skip, limit)
	if err != nil {
		r.fail(c, err)
		return
	}

	respondPage(c, rows, skip, limit)
}

func (r *resource[T, C, U]) Search(c *gin.Context) {
	skip, limit, err := r.h.parsePage(c)
	if err != nil {
		badRequest(c, err)
		return
	}

	filters, err := parseFilters(c, r.search)
	if err != nil {
		badRequest(c, err)
		return
	}

	rows, err := r.store.Filter(c.Request.Context(), skip, limit, filters)
	if err != nil {
		r.fail(c, err)
		return
	}

	respondPage(c, rows, skip, limit)
}

func (r *resource[T, C, U]) Create(c *gin.Context) {
	var in C
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	if r.precheck != nil {
		if err := r.precheck(ctx, in); err != nil {
			r.fail(c, err)
			return
		}
	}

	row, err := r.store.Create(ctx, in)
	if err != nil {
		r.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    row,
	})
}

func (r *resource[T, C, U]) Get(c *gin.Context) {
	id, ok := r.id(c)
	if !ok {
		return
	}

	row, err := r.store.Get(c.Request.Context(), id)
	if err != nil {
		r.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    row,
	})
}

func (r *resource[T, C, U]) Update(c *gin.Context) {
	id, ok := r.id(c)
	if !ok {
		return
	}

	var in U
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	existing, err := r.store.Get(ctx, id)
	if err != nil {
		r.fail(c, err)
		return
	}

	row, err := r.store.Update(ctx, existing, in)
	if err != nil {
		r.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    row,
	})
}

func (r *resource[T, C, U]) Delete(c *gin.Context) {
	id, ok := r.id(c)
	if !ok {
		return
	}

	if _, err := r.store.Remove(c.Request.Context(), id); err != nil {
		r.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": r.name + " deleted successfully",
		"id":      id,
	})
}

func (r *resource[T, C, U]) id(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Invalid " + r.name + " ID",
		})
		return 0, false
	}
	return uint(id), true
}

// fail maps repository errors onto HTTP responses.
func (r *resource[T, C, U]) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   r.name + " not found",
		})
	case errors.Is(err, repository.ErrDuplicate):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   r.duplicate,
		})
	case errors.Is(err, repository.ErrConstraintViolation):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "Integrity Error: " + err.Error(),
		})
	case errors.Is(err, repository.ErrInvalidInput):
		badRequest(c, err)
	default:
		r.h.logger.Error("Request failed",
			"resource", r.name,
			"path", c.Request.URL.Path,
			"error", err,
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "Internal server error",
		})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   err.Error(),
	})
}

func respondPage[T any](c *gin.Context, rows []T, skip, limit int) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    rows,
		"pagination": gin.H{
			"skip":  skip,
			"limit": limit,
			"count": len(rows),
		},
	})
}
