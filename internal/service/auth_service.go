package service

import (
	"context"
	"fmt"
	"strings"

	"sanogestion/internal/access"
	"sanogestion/internal/model"
	"sanogestion/internal/repository"
	"sanogestion/internal/session"
	"sanogestion/pkg/password"
)

type LoginRequest struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
	Next     string `form:"next" json:"next"`
}

// ClientInfo identifies the client behind a login or logout.
type ClientInfo struct {
	IP        string
	UserAgent string
}

type LoginResult struct {
	Actor    *access.Actor `json:"actor"`
	Redirect string        `json:"redirect"`
}

type AuthService interface {
	Login(ctx context.Context, req LoginRequest, client ClientInfo) (*LoginResult, error)
	Logout(ctx context.Context, actor *access.Actor, client ClientInfo) error
	// Resolve reloads the personnel behind a session. Inactive or removed
	// accounts return ErrUnauthenticated.
	Resolve(ctx context.Context, sess session.Session) (*access.Actor, error)
}

type authService struct {
	personnel  repository.PersonnelRepository
	activities repository.ActivityRepository
	sessions   *session.Store
}

// dummyHash keeps the response time of unknown usernames close to a real
// bcrypt comparison.
var dummyHash, _ = password.Hash("sano-logistic-dummy")

func NewAuthService(personnel repository.PersonnelRepository, activities repository.ActivityRepository, sessions *session.Store) AuthService {
	return &authService{personnel: personnel, activities: activities, sessions: sessions}
}

func (s *authService) Login(ctx context.Context, req LoginRequest, client ClientInfo) (*LoginResult, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return nil, ErrInvalidCredentials
	}

	p, err := s.personnel.GetByUsername(ctx, username)
	if err != nil {
		if !repository.IsNotFound(err) {
			return nil, fmt.Errorf("load personnel: %w", err)
		}
		password.Verify(req.Password, dummyHash)
		return nil, ErrInvalidCredentials
	}
	if !password.Verify(req.Password, p.Password) {
		return nil, ErrInvalidCredentials
	}
	if !p.IsActive() {
		return nil, accessDenied("account is no longer active")
	}

	if err := s.activities.Record(ctx, &model.UserActivity{
		PersonnelID: p.ID,
		Type:        model.ActivityLogin,
		IP:          client.IP,
		UserAgent:   truncate(client.UserAgent, 255),
	}); err != nil {
		return nil, fmt.Errorf("record login: %w", err)
	}

	sess := s.sessions.Create(p.ID)
	return &LoginResult{
		Actor:    s.actor(p, sess),
		Redirect: SafeRedirect(req.Next),
	}, nil
}

func (s *authService) Logout(ctx context.Context, actor *access.Actor, client ClientInfo) error {
	if actor == nil {
		return nil
	}
	s.sessions.Destroy(actor.SessionID)
	return s.activities.Record(ctx, &model.UserActivity{
		PersonnelID: actor.ID,
		Type:        model.ActivityLogout,
		IP:          client.IP,
		UserAgent:   truncate(client.UserAgent, 255),
	})
}

func (s *authService) Resolve(ctx context.Context, sess session.Session) (*access.Actor, error) {
	p, err := s.personnel.GetByID(ctx, sess.PersonnelID)
	if err != nil {
		if repository.IsNotFound(err) {
			s.sessions.Destroy(sess.ID)
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("load personnel: %w", err)
	}
	if !p.IsActive() {
		s.sessions.DestroyForPersonnel(p.ID)
		return nil, ErrUnauthenticated
	}
	return s.actor(p, sess), nil
}

func (s *authService) actor(p *model.Personnel, sess session.Session) *access.Actor {
	return &access.Actor{
		ID:        p.ID,
		Username:  p.Username,
		Nom:       p.Nom,
		Prenom:    p.Prenom,
		Role:      p.Role,
		SessionID: sess.ID,
		ExpiresAt: sess.ExpiresAt(s.sessions.IdleTimeout()),
	}
}

// SafeRedirect keeps only local absolute paths.
func SafeRedirect(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, "\\") {
		return "/"
	}
	return next
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
