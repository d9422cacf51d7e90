package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"sanogestion/internal/middleware"
	"sanogestion/internal/model"
	"sanogestion/internal/repository"
	"sanogestion/internal/service"
	"sanogestion/pkg/pagination"
	"sanogestion/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Form is an edit payload that knows how to apply itself to an entity.
type Form[T any] interface {
	Apply(e *T) error
}

// Access lists the roles admitted per operation. Administrator is always
// admitted; an empty list admits any authenticated actor.
type Access struct {
	List   []string
	Get    []string
	Write  []string
	Delete []string
}

// FormDescriptor is returned by the GET create and edit routes.
type FormDescriptor struct {
	Action  string                 `json:"action"`
	Method  string                 `json:"method"`
	Values  interface{}            `json:"values"`
	Choices map[string][]string    `json:"choices,omitempty"`
	Pickers map[string]interface{} `json:"pickers,omitempty"`
}

// EntityRoutes configures an EntityHandler.
type EntityRoutes[T any, F any] struct {
	Path     string
	Access   Access
	FormFrom func(e *T) F
	Choices  map[string][]string
	// Pickers loads dynamic option lists for the create and edit forms.
	Pickers func(ctx context.Context) (map[string]interface{}, error)
	// Scope narrows listings from request parameters, e.g. ?actifs=1.
	Scope func(c *gin.Context) func(*gorm.DB) *gorm.DB
}

// EntityHandler serves the uniform list/create/get/edit/delete routes of one entity.
type EntityHandler[T any, F any, PF interface {
	*F
	Form[T]
}] struct {
	svc    service.EntityService[T]
	routes EntityRoutes[T, F]
}

func NewEntityHandler[T any, F any, PF interface {
	*F
	Form[T]
}](svc service.EntityService[T], routes EntityRoutes[T, F]) *EntityHandler[T, F, PF] {
	return &EntityHandler[T, F, PF]{svc: svc, routes: routes}
}

func (h *EntityHandler[T, F, PF]) RegisterRoutes(router *gin.RouterGroup) {
	a := h.routes.Access
	get := a.Get
	if get == nil {
		get = a.List
	}

	group := router.Group(h.routes.Path, middleware.RequireAuth())
	{
		group.GET("", middleware.RequireRole(a.List...), h.List)
		group.GET("/create", middleware.RequireRole(a.Write...), h.CreateForm)
		group.POST("/create", middleware.RequireRole(a.Write...), h.Create)
		group.GET("/:id", middleware.RequireRole(get...), h.Get)
		group.GET("/:id/edit", middleware.RequireRole(a.Write...), h.EditForm)
		group.POST("/:id/edit", middleware.RequireRole(a.Write...), h.Update)
		group.POST("/:id/delete", middleware.RequireRole(a.Delete...), h.Delete)
	}
}

func (h *EntityHandler[T, F, PF]) detailPath(id uint) string {
	return fmt.Sprintf("%s/%d", h.routes.Path, id)
}

// listQuery reads search, page and filter parameters. Unknown filters are
// dropped by the repository.
func listQuery(c *gin.Context) repository.ListQuery {
	q := repository.ListQuery{
		Search:  c.Query("search"),
		Filters: map[string]string{},
		Page:    pagination.Parse(c),
	}
	if q.Search == "" {
		q.Search = c.Query("q")
	}
	for key, values := range c.Request.URL.Query() {
		if key == "search" || key == "q" || key == "page" || len(values) == 0 {
			continue
		}
		q.Filters[key] = values[0]
	}
	return q
}

func (h *EntityHandler[T, F, PF]) List(c *gin.Context) {
	q := listQuery(c)
	if h.routes.Scope != nil {
		q.Scope = h.routes.Scope(c)
	}
	items, meta, err := h.svc.List(c.Request.Context(), q)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, items, meta))
}

func (h *EntityHandler[T, F, PF]) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	e, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, e))
}

func (h *EntityHandler[T, F, PF]) descriptor(c *gin.Context, action string, values interface{}) (FormDescriptor, error) {
	d := FormDescriptor{
		Action:  action,
		Method:  http.MethodPost,
		Values:  values,
		Choices: h.routes.Choices,
	}
	if h.routes.Pickers != nil {
		pickers, err := h.routes.Pickers(c.Request.Context())
		if err != nil {
			return d, err
		}
		d.Pickers = pickers
	}
	return d, nil
}

func (h *EntityHandler[T, F, PF]) CreateForm(c *gin.Context) {
	var blank F
	d, err := h.descriptor(c, h.routes.Path+"/create", blank)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, d))
}

func (h *EntityHandler[T, F, PF]) EditForm(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	e, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	if !h.svc.CanModify(middleware.CurrentActor(c), e) {
		middleware.Forbidden(c, "Accès refusé : seul le créateur ou un administrateur peut modifier cet élément.")
		return
	}
	var values interface{} = e
	if h.routes.FormFrom != nil {
		values = h.routes.FormFrom(e)
	}
	d, err := h.descriptor(c, h.detailPath(id)+"/edit", values)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, d))
}

func (h *EntityHandler[T, F, PF]) bind(c *gin.Context) (PF, bool) {
	form := PF(new(F))
	if err := c.ShouldBind(form); err != nil {
		bindFailed(c, err)
		return nil, false
	}
	return form, true
}

func (h *EntityHandler[T, F, PF]) Create(c *gin.Context) {
	form, ok := h.bind(c)
	if !ok {
		return
	}
	e := new(T)
	if err := form.Apply(e); err != nil {
		writeError(c, err)
		return
	}
	if err := h.svc.Create(c.Request.Context(), middleware.CurrentActor(c), e); err != nil {
		writeError(c, err)
		return
	}
	res := response.Success(http.StatusCreated, e).
		WithMessage(label(h.svc.Entity()) + " créé avec succès.").
		WithRedirect(h.detailPath(any(e).(model.Identified).GetID()))
	c.JSON(http.StatusCreated, res)
}

func (h *EntityHandler[T, F, PF]) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	form, ok := h.bind(c)
	if !ok {
		return
	}
	e, err := h.svc.Update(c.Request.Context(), middleware.CurrentActor(c), id, form.Apply)
	if err != nil {
		writeError(c, err)
		return
	}
	res := response.Success(http.StatusOK, e).
		WithMessage(label(h.svc.Entity()) + " modifié avec succès.").
		WithRedirect(h.detailPath(id))
	c.JSON(http.StatusOK, res)
}

func (h *EntityHandler[T, F, PF]) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), middleware.CurrentActor(c), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Result(response.StatusSuccess, http.StatusOK,
		label(h.svc.Entity())+" supprimé avec succès.", h.routes.Path))
}

func label(entity string) string {
	s := strings.ToLower(strings.ReplaceAll(entity, "_", " "))
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
