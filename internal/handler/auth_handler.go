package handler

import (
	"log"
	"net/http"
	"net/url"

	"sanogestion/internal/middleware"
	"sanogestion/internal/service"
	"sanogestion/internal/session"
	"sanogestion/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService service.AuthService
	codec       *session.Codec
}

func NewAuthHandler(authService service.AuthService, codec *session.Codec) *AuthHandler {
	return &AuthHandler{authService: authService, codec: codec}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/login", h.LoginForm)
	router.POST("/login", h.Login)
	router.GET("/logout", h.Logout)
	router.GET("/me", middleware.RequireAuth(), h.Me)
}

type loginDescriptor struct {
	FormDescriptor
	AlreadyAuthenticated bool   `json:"already_authenticated"`
	Flash                string `json:"flash,omitempty"`
}

func client(c *gin.Context) service.ClientInfo {
	return service.ClientInfo{IP: c.ClientIP(), UserAgent: c.Request.UserAgent()}
}

// LoginForm godoc
// @Summary      Login form
// @Description  Describes the login form and reports a pending flash notice
// @Tags         auth
// @Produce      json
// @Param        next  query     string  false  "Local path to return to"
// @Success      200   {object}  response.Response
// @Router       /login [get]
func (h *AuthHandler) LoginForm(c *gin.Context) {
	d := loginDescriptor{
		FormDescriptor: FormDescriptor{
			Action: "/login",
			Method: http.MethodPost,
			Values: service.LoginRequest{Next: service.SafeRedirect(c.Query("next"))},
		},
		AlreadyAuthenticated: middleware.CurrentActor(c) != nil,
	}
	if raw, err := c.Cookie(middleware.FlashCookie); err == nil && raw != "" {
		d.Flash, _ = url.QueryUnescape(raw)
		c.SetCookie(middleware.FlashCookie, "", -1, "/", "", false, true)
	}
	res := response.Success(http.StatusOK, d)
	if d.AlreadyAuthenticated {
		res = res.WithRedirect("/")
	}
	c.JSON(http.StatusOK, res)
}

// Login godoc
// @Summary      Log in
// @Description  Opens a session for an active personnel and sets the session cookie
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.LoginRequest  true  "Credentials"
// @Success      200      {object}  response.Response{data=access.Actor}
// @Failure      401      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		bindFailed(c, err)
		return
	}
	if req.Next == "" {
		req.Next = c.Query("next")
	}

	res, err := h.authService.Login(c.Request.Context(), req, client(c))
	if err != nil {
		writeError(c, err)
		return
	}
	if err := h.codec.SetCookie(c, res.Actor.SessionID); err != nil {
		writeError(c, err)
		return
	}

	if middleware.WantsHTML(c) {
		c.Redirect(http.StatusSeeOther, res.Redirect)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, res.Actor).
		WithMessage("Connexion réussie.").
		WithRedirect(res.Redirect))
}

// Logout godoc
// @Summary      Log out
// @Description  Records the logout, destroys the session and clears the cookie
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /logout [get]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), middleware.CurrentActor(c), client(c)); err != nil {
		log.Printf("WARNING: record logout: %v", err)
	}
	h.codec.ClearCookie(c)

	if middleware.WantsHTML(c) {
		c.Redirect(http.StatusSeeOther, "/login")
		return
	}
	c.JSON(http.StatusOK, response.Result(response.StatusSuccess, http.StatusOK, "Vous êtes déconnecté.", "/login"))
}

// Me godoc
// @Summary      Current actor
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response{data=access.Actor}
// @Failure      401  {object}  response.Response
// @Router       /me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, middleware.CurrentActor(c)))
}
