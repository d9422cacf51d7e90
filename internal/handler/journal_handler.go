package handler

import (
	"net/http"
	"strconv"

	"sanogestion/internal/middleware"
	"sanogestion/internal/model"
	"sanogestion/internal/repository"
	"sanogestion/internal/service"
	"sanogestion/internal/websocket"
	"sanogestion/pkg/pagination"
	"sanogestion/pkg/response"

	"github.com/gin-gonic/gin"
)

// JournalHandler exposes the audit journal, the login activity log and
// the live journal feed. All of it is reserved to administrators.
type JournalHandler struct {
	journalService  service.JournalService
	activityService service.ActivityService
	hub             *websocket.Hub
}

func NewJournalHandler(journalService service.JournalService, activityService service.ActivityService, hub *websocket.Hub) *JournalHandler {
	return &JournalHandler{journalService: journalService, activityService: activityService, hub: hub}
}

func (h *JournalHandler) RegisterRoutes(router *gin.RouterGroup) {
	adminOnly := middleware.RequireRole(model.RoleAdministrator)
	router.GET("/journal", adminOnly, h.ListJournal)
	router.GET("/activites", adminOnly, h.ListActivities)
	if h.hub != nil {
		router.GET("/ws/journal", adminOnly, h.Feed)
	}
}

func queryUint(c *gin.Context, key string) uint {
	v, err := strconv.ParseUint(c.Query(key), 10, 64)
	if err != nil {
		return 0
	}
	return uint(v)
}

// ListJournal godoc
// @Summary      Audit journal
// @Description  Journal entries newest first, with the acting personnel
// @Tags         journal
// @Produce      json
// @Param        action        query     string  false  "Action code, e.g. CREATION_TRADING"
// @Param        personnel_id  query     int     false  "Acting personnel"
// @Param        page          query     int     false  "Page number (default 1)"
// @Success      200           {object}  response.Response{data=response.Page}
// @Failure      403           {object}  response.Response
// @Router       /journal [get]
func (h *JournalHandler) ListJournal(c *gin.Context) {
	filter := repository.JournalFilter{Action: c.Query("action"), PersonnelID: queryUint(c, "personnel_id")}
	entries, meta, err := h.journalService.List(c.Request.Context(), filter, pagination.Parse(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, entries, meta))
}

// ListActivities godoc
// @Summary      Login activity
// @Description  Logins and logouts newest first
// @Tags         journal
// @Produce      json
// @Param        personnel_id  query     int  false  "Personnel"
// @Param        page          query     int  false  "Page number (default 1)"
// @Success      200           {object}  response.Response{data=response.Page}
// @Failure      403           {object}  response.Response
// @Router       /activites [get]
func (h *JournalHandler) ListActivities(c *gin.Context) {
	rows, meta, err := h.activityService.List(c.Request.Context(), queryUint(c, "personnel_id"), pagination.Parse(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, rows, meta))
}

// Feed godoc
// @Summary      Live journal feed
// @Description  Upgrades to a websocket receiving each committed journal entry as JSON
// @Tags         journal
// @Success      101
// @Failure      403  {object}  response.Response
// @Router       /ws/journal [get]
func (h *JournalHandler) Feed(c *gin.Context) {
	websocket.ServeWs(h.hub, c, middleware.CurrentActor(c).ID)
}
