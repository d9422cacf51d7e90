package handler

import (
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"

	"sanogestion/internal/middleware"
	"sanogestion/internal/model"
	"sanogestion/internal/service"
	"sanogestion/pkg/response"

	"github.com/gin-gonic/gin"
)

const fileField = "fichier"

var contentTypes = map[string]string{
	"pdf":  "application/pdf",
	"doc":  "application/msword",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

type RapportHandler struct {
	rapportService service.RapportService
	maxBytes       int64
}

func NewRapportHandler(rapportService service.RapportService, maxBytes int64) *RapportHandler {
	return &RapportHandler{rapportService: rapportService, maxBytes: maxBytes}
}

func (h *RapportHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/rapport", middleware.RequireAuth())
	{
		group.GET("", h.List)
		group.GET("/create", h.CreateForm)
		group.POST("/create", h.Create)
		group.POST("/bulk-action", middleware.RequireRole(model.RoleAdministrator), h.BulkAction)
		group.GET("/:id", h.Get)
		group.GET("/:id/edit", h.EditForm)
		group.POST("/:id/edit", h.Update)
		group.POST("/:id/delete", h.Delete)
		group.GET("/:id/download", h.Download)
	}
}

func (h *RapportHandler) choices(c *gin.Context) map[string][]string {
	statuts := []string{model.RapportBrouillon, model.RapportSoumis}
	if middleware.CurrentActor(c).IsAdmin() {
		statuts = model.StatutsRapport
	}
	return map[string][]string{"statut": statuts, "extension": {"pdf", "doc", "docx"}}
}

// upload reads the optional file part. The body is capped slightly above
// the file limit so oversized requests fail while still being parsed.
func (h *RapportHandler) upload(c *gin.Context) (*service.Upload, func(), error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBytes+1<<20)
	fh, err := c.FormFile(fileField)
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return nil, func() {}, nil
	case err != nil:
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, nil, service.NewValidationError(fileField, fmt.Sprintf("file exceeds %d MiB", h.maxBytes>>20))
		}
		return nil, nil, service.NewValidationError(fileField, "unreadable upload")
	}
	return openUpload(fh)
}

func openUpload(fh *multipart.FileHeader) (*service.Upload, func(), error) {
	f, err := fh.Open()
	if err != nil {
		return nil, nil, service.NewValidationError(fileField, "unreadable upload")
	}
	return &service.Upload{Name: fh.Filename, Size: fh.Size, Reader: f}, func() { _ = f.Close() }, nil
}

// List godoc
// @Summary      List reports
// @Description  Administrators see every report, others only their own
// @Tags         rapport
// @Produce      json
// @Param        search  query     string  false  "Search in title and file name"
// @Param        statut  query     string  false  "Status filter"
// @Param        page    query     int     false  "Page number (default 1)"
// @Success      200     {object}  response.Response{data=response.Page}
// @Failure      401     {object}  response.Response
// @Router       /rapport [get]
func (h *RapportHandler) List(c *gin.Context) {
	items, meta, err := h.rapportService.List(c.Request.Context(), middleware.CurrentActor(c), listQuery(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.SuccessWithPagination(http.StatusOK, items, meta))
}

// Get godoc
// @Summary      Get a report
// @Tags         rapport
// @Produce      json
// @Param        id   path      int  true  "Report ID"
// @Success      200  {object}  response.Response{data=model.Rapport}
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /rapport/{id} [get]
func (h *RapportHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	r, err := h.rapportService.Get(c.Request.Context(), middleware.CurrentActor(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, r))
}

func (h *RapportHandler) CreateForm(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, FormDescriptor{
		Action:  "/rapport/create",
		Method:  http.MethodPost,
		Values:  service.RapportForm{Statut: model.RapportSoumis},
		Choices: h.choices(c),
	}))
}

// Create godoc
// @Summary      Upload a weekly report
// @Description  Accepts pdf, doc and docx files up to the configured size
// @Tags         rapport
// @Accept       multipart/form-data
// @Produce      json
// @Param        fichier        formData  file    true   "Report file"
// @Param        titre          formData  string  false  "Title"
// @Param        semaine_debut  formData  string  true   "Week start (YYYY-MM-DD)"
// @Param        semaine_fin    formData  string  true   "Week end (YYYY-MM-DD)"
// @Success      201  {object}  response.Response{data=model.Rapport}
// @Failure      422  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /rapport/create [post]
func (h *RapportHandler) Create(c *gin.Context) {
	upload, done, err := h.upload(c)
	if err != nil {
		writeError(c, err)
		return
	}
	defer done()

	var form service.RapportForm
	if err := c.ShouldBind(&form); err != nil {
		bindFailed(c, err)
		return
	}
	r, err := h.rapportService.Create(c.Request.Context(), middleware.CurrentActor(c), form, upload)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, r).
		WithMessage("Rapport envoyé avec succès.").
		WithRedirect(fmt.Sprintf("/rapport/%d", r.ID)))
}

func (h *RapportHandler) EditForm(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	r, err := h.rapportService.Get(c.Request.Context(), middleware.CurrentActor(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, FormDescriptor{
		Action: fmt.Sprintf("/rapport/%d/edit", id),
		Method: http.MethodPost,
		Values: service.RapportForm{
			Titre:        r.Titre,
			SemaineDebut: service.Field(r.SemaineDebut.Format(service.DateLayout)),
			SemaineFin:   service.Field(r.SemaineFin.Format(service.DateLayout)),
			Statut:       r.Statut,
			Observations: r.Observations,
		},
		Choices: h.choices(c),
	}))
}

// Update godoc
// @Summary      Edit a report
// @Description  The file is optional; a new file replaces the previous one
// @Tags         rapport
// @Accept       multipart/form-data
// @Produce      json
// @Param        id       path      int   true   "Report ID"
// @Param        fichier  formData  file  false  "Replacement file"
// @Success      200  {object}  response.Response{data=model.Rapport}
// @Failure      403  {object}  response.Response
// @Failure      422  {object}  response.Response
// @Router       /rapport/{id}/edit [post]
func (h *RapportHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	upload, done, err := h.upload(c)
	if err != nil {
		writeError(c, err)
		return
	}
	defer done()

	var form service.RapportForm
	if err := c.ShouldBind(&form); err != nil {
		bindFailed(c, err)
		return
	}
	r, err := h.rapportService.Update(c.Request.Context(), middleware.CurrentActor(c), id, form, upload)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, r).
		WithMessage("Rapport modifié avec succès.").
		WithRedirect(fmt.Sprintf("/rapport/%d", r.ID)))
}

// Delete godoc
// @Summary      Delete a report and its file
// @Tags         rapport
// @Produce      json
// @Param        id   path      int  true  "Report ID"
// @Success      200  {object}  response.Response
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /rapport/{id}/delete [post]
func (h *RapportHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.rapportService.Delete(c.Request.Context(), middleware.CurrentActor(c), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Result(response.StatusSuccess, http.StatusOK, "Rapport supprimé avec succès.", "/rapport"))
}

// Download godoc
// @Summary      Download a report file
// @Tags         rapport
// @Produce      octet-stream
// @Param        id   path  int  true  "Report ID"
// @Success      200
// @Failure      403  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /rapport/{id}/download [get]
func (h *RapportHandler) Download(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	r, f, err := h.rapportService.Open(c.Request.Context(), middleware.CurrentActor(c), id)
	if err != nil {
		writeError(c, err)
		return
	}
	defer f.Close()

	contentType, ok := contentTypes[r.Extension]
	if !ok {
		contentType = "application/octet-stream"
	}
	size := r.Taille
	if info, err := f.Stat(); err == nil {
		size = info.Size()
	}
	c.DataFromReader(http.StatusOK, size, contentType, f, map[string]string{
		"Content-Disposition": mime.FormatMediaType("attachment", map[string]string{"filename": r.NomFichier}),
	})
}

// BulkAction godoc
// @Summary      Apply an action to several reports
// @Description  delete, validate or reject, in one transaction
// @Tags         rapport
// @Accept       json
// @Produce      json
// @Param        payload  body      service.BulkActionRequest  true  "Action and report ids"
// @Success      200      {object}  service.BulkActionResult
// @Failure      400      {object}  map[string]string
// @Failure      404      {object}  map[string]string
// @Router       /rapport/bulk-action [post]
func (h *RapportHandler) BulkAction(c *gin.Context) {
	var req service.BulkActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		message := "Requête invalide."
		var verr *service.ValidationError
		if errors.As(service.BindingError(err), &verr) {
			message = verr.Message
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": message})
		return
	}

	res, err := h.rapportService.BulkAction(c.Request.Context(), middleware.CurrentActor(c), req)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, res)
	case service.IsValidation(err):
		var verr *service.ValidationError
		errors.As(err, &verr)
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Un ou plusieurs rapports sont introuvables."})
	case errors.Is(err, service.ErrAccessDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "Accès refusé."})
	default:
		writeError(c, err)
	}
}
