package handler

import (
	"net/http"

	"sanogestion/internal/middleware"
	"sanogestion/internal/service"
	"sanogestion/pkg/response"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	dashboardService service.DashboardService
}

func NewDashboardHandler(dashboardService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

func (h *DashboardHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := middleware.RequireAuth()
	router.GET("/", auth, h.Dashboard)
	router.GET("/api/dashboard-data", auth, h.Dashboard)
	router.GET("/api/personnel-search", auth, h.PersonnelSearch)
}

// Dashboard godoc
// @Summary      Dashboard figures
// @Description  Personnel per department, row counts per ledger and pending reports
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  response.Response{data=model.DashboardData}
// @Failure      401  {object}  response.Response
// @Router       /api/dashboard-data [get]
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	data, err := h.dashboardService.Data(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, data))
}

// PersonnelSearch godoc
// @Summary      Search active personnel
// @Description  Up to 10 active personnel matching name, username or email
// @Tags         dashboard
// @Produce      json
// @Param        term  query  string  false  "Search term"
// @Success      200   {array}  model.PersonnelOption
// @Failure      401   {object}  response.Response
// @Router       /api/personnel-search [get]
func (h *DashboardHandler) PersonnelSearch(c *gin.Context) {
	options, err := h.dashboardService.PersonnelSearch(c.Request.Context(), c.Query("term"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, options)
}
