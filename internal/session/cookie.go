package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const CookieName = "sano_session"

var ErrInvalidCookie = errors.New("invalid session cookie")

// Codec signs the opaque session id carried by the cookie. The token holds
// no authority on its own: the server-side Store decides.
type Codec struct {
	secret []byte
	secure bool
}

func NewCodec(secret string, secure bool) *Codec {
	return &Codec{secret: []byte(secret), secure: secure}
}

func (c *Codec) Encode(sid string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid": sid,
		"iat": time.Now().Unix(),
	})
	return token.SignedString(c.secret)
}

func (c *Codec) Decode(raw string) (string, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return c.secret, nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidCookie
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidCookie
	}
	sid, _ := claims["sid"].(string)
	if sid == "" {
		return "", ErrInvalidCookie
	}
	return sid, nil
}

// SetCookie writes the signed session cookie. It lives for the browser session only.
func (c *Codec) SetCookie(ctx *gin.Context, sid string) error {
	value, err := c.Encode(sid)
	if err != nil {
		return err
	}
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(CookieName, value, 0, "/", "", c.secure, true)
	return nil
}

func (c *Codec) ClearCookie(ctx *gin.Context) {
	ctx.SetSameSite(http.SameSiteLaxMode)
	ctx.SetCookie(CookieName, "", -1, "/", "", c.secure, true)
}

// SessionID reads and verifies the cookie. Missing or tampered cookies yield "".
func (c *Codec) SessionID(ctx *gin.Context) string {
	raw, err := ctx.Cookie(CookieName)
	if err != nil || raw == "" {
		return ""
	}
	sid, err := c.Decode(raw)
	if err != nil {
		return ""
	}
	return sid
}
