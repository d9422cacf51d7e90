package pagination

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPage = 1
	// PageSize is fixed for every listing.
	PageSize = 10
	// MaxPage keeps the computed offset within int.
	MaxPage = math.MaxInt / PageSize
)

// Params holds validated pagination parameters
type Params struct {
	Page   int
	Limit  int
	Offset int
}

// New clamps page into [1, MaxPage]. Pages past the end are kept as-is and
// simply yield no rows.
func New(page int) Params {
	switch {
	case page < 1:
		page = DefaultPage
	case page > MaxPage:
		page = MaxPage
	}
	return Params{
		Page:   page,
		Limit:  PageSize,
		Offset: (page - 1) * PageSize,
	}
}

// Parse extracts the page number from the query string. Unparseable values
// fall back to page 1, values too large for int to the last page.
func Parse(c *gin.Context) Params {
	raw := c.DefaultQuery("page", strconv.Itoa(DefaultPage))
	page, err := strconv.Atoi(raw)
	switch {
	case errors.Is(err, strconv.ErrRange) && !strings.HasPrefix(raw, "-"):
		page = MaxPage
	case err != nil:
		page = DefaultPage
	}
	return New(page)
}

// Meta describes a page of results for clients.
type Meta struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
	Pages   int   `json:"pages"`
	HasPrev bool  `json:"has_prev"`
	HasNext bool  `json:"has_next"`
}

func NewMeta(p Params, total int64) Meta {
	pages := int((total + int64(p.Limit) - 1) / int64(p.Limit))
	return Meta{
		Page:    p.Page,
		PerPage: p.Limit,
		Total:   total,
		Pages:   pages,
		HasPrev: p.Page > 1,
		HasNext: p.Page < pages,
	}
}
