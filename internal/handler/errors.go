package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"sanogestion/internal/middleware"
	"sanogestion/internal/service"
	"sanogestion/pkg/response"

	"github.com/gin-gonic/gin"
)

// writeError maps the service error taxonomy onto distinct HTTP outcomes.
func writeError(c *gin.Context, err error) {
	var verr *service.ValidationError
	var serr *service.StorageError
	switch {
	case errors.As(err, &verr):
		res := response.Result(response.StatusInvalid, http.StatusUnprocessableEntity, verr.Message, "")
		res.Error = verr.Field
		c.JSON(http.StatusUnprocessableEntity, res)
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, response.Result(response.StatusNotFound, http.StatusNotFound, err.Error(), ""))
	case errors.Is(err, service.ErrAccessDenied):
		middleware.Forbidden(c, err.Error())
	case errors.Is(err, service.ErrUnauthenticated):
		middleware.Unauthenticated(c, "Votre session a expiré, veuillez vous reconnecter.")
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, response.Result(response.StatusInvalid, http.StatusUnauthorized, "Identifiants invalides.", ""))
	case errors.As(err, &serr):
		log.Printf("ERROR: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Le fichier n'a pas pu être enregistré, l'opération a été annulée."))
	default:
		log.Printf("ERROR: %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "Internal server error"))
	}
}

// bindFailed answers a failed ShouldBind: broken binding rules are a
// validation error, anything else a malformed payload.
func bindFailed(c *gin.Context, err error) {
	if verr := service.BindingError(err); service.IsValidation(verr) {
		writeError(c, verr)
		return
	}
	badRequest(c, "Invalid request payload: "+err.Error())
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, message))
}

// parseID reads the :id path parameter. A malformed id is reported as not found.
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, response.Result(response.StatusNotFound, http.StatusNotFound, "Ressource introuvable.", ""))
		return 0, false
	}
	return uint(id), true
}
