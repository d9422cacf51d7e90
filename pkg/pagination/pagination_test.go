package pagination

import (
	"math"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestNewClampsLowPages(t *testing.T) {
	for _, page := range []int{-3, 0, 1} {
		p := New(page)
		assert.Equal(t, 1, p.Page)
		assert.Equal(t, 0, p.Offset)
		assert.Equal(t, PageSize, p.Limit)
	}
}

func TestNewKeepsPagesPastTheEnd(t *testing.T) {
	p := New(9999)
	assert.Equal(t, 9999, p.Page)
	assert.Equal(t, 9998*PageSize, p.Offset)
}

func TestNewNeverOverflowsOffset(t *testing.T) {
	for _, page := range []int{MaxPage, MaxPage + 1, 1e18, math.MaxInt} {
		p := New(page)
		assert.Equal(t, MaxPage, p.Page)
		assert.Positive(t, p.Offset)
		assert.Equal(t, (MaxPage-1)*PageSize, p.Offset)
	}
}

func TestParse(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := map[string]int{
		"/?page=3":   3,
		"/?page=abc": 1,
		"/":          1,
		"/?page=-2":  1,

		"/?page=99999999999999999999":  MaxPage,
		"/?page=-99999999999999999999": 1,
	}
	for url, want := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", url, nil)
		assert.Equal(t, want, Parse(c).Page, url)
	}
}

func TestNewMeta(t *testing.T) {
	m := NewMeta(New(2), 25)
	assert.Equal(t, 3, m.Pages)
	assert.True(t, m.HasPrev)
	assert.True(t, m.HasNext)

	m = NewMeta(New(9999), 3)
	assert.Equal(t, 1, m.Pages)
	assert.False(t, m.HasNext)
}
