package middleware

import (
	"context"
	"time"

	"eau-clair-web/internal/model"
	"eau-clair-web/pkg/supabase"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Session cookie names.
const (
	AccessTokenCookie  = "sb-access-token"
	RefreshTokenCookie = "sb-refresh-token"
	CodeVerifierCookie = "sb-code-verifier"
)

const (
	localsUser        = "user"
	localsAccessToken = "access_token"
	localsIsAdmin     = "is_admin"

	refreshTokenTTL = 30 * 24 * time.Hour
)

// SessionResolver turns session tokens into a user.
type SessionResolver interface {
	GetUser(ctx context.Context, accessToken string) (*supabase.User, error)
	RefreshSession(ctx context.Context, refreshToken string) (*supabase.Session, error)
}

// ProfileFinder looks up the profile row that carries the admin flag.
type ProfileFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Profile, error)
}

// LoadSession resolves the signed-in user from the session cookies and keeps
// it in the request locals. An expired access token is refreshed once. It
// never rejects a request; gating is left to RequireAuth and RequireAdmin.
func LoadSession(auth SessionResolver, secure bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		access := c.Cookies(AccessTokenCookie)
		refresh := c.Cookies(RefreshTokenCookie)
		if access == "" && refresh == "" {
			return c.Next()
		}

		ctx := c.UserContext()
		if access != "" {
			if user, err := auth.GetUser(ctx, access); err == nil {
				setUser(c, user, access)
				return c.Next()
			}
		}

		if refresh != "" {
			session, err := auth.RefreshSession(ctx, refresh)
			if err == nil {
				SetSessionCookies(c, session, secure)
				return c.Next()
			}
			zap.L().Debug("session refresh failed", zap.Error(err))
		}

		ClearSessionCookies(c, secure)
		return c.Next()
	}
}

// RequireAuth sends visitors without a session to the login page.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if CurrentUser(c) == nil {
			return c.Redirect("/login")
		}
		return c.Next()
	}
}

// RequireAdmin lets through only users whose profile is flagged admin. A
// failed or empty profile lookup counts as not admin.
func RequireAdmin(profiles ProfileFinder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return c.Redirect("/login")
		}

		profile, err := profiles.FindByID(c.UserContext(), user.ID)
		if err != nil {
			zap.L().Info("admin gate: profile lookup failed",
				zap.String("user_id", user.ID.String()),
				zap.Error(err),
			)
			return c.Redirect("/")
		}
		if profile == nil || !profile.IsAdmin {
			return c.Redirect("/")
		}

		c.Locals(localsIsAdmin, true)
		return c.Next()
	}
}

// CurrentUser returns the user LoadSession resolved, or nil.
func CurrentUser(c *fiber.Ctx) *supabase.User {
	user, _ := c.Locals(localsUser).(*supabase.User)
	return user
}

// AccessToken returns the access token of the current session, or "".
func AccessToken(c *fiber.Ctx) string {
	token, _ := c.Locals(localsAccessToken).(string)
	return token
}

// IsAdmin reports whether RequireAdmin passed for this request.
func IsAdmin(c *fiber.Ctx) bool {
	ok, _ := c.Locals(localsIsAdmin).(bool)
	return ok
}

func setUser(c *fiber.Ctx, user *supabase.User, accessToken string) {
	c.Locals(localsUser, user)
	c.Locals(localsAccessToken, accessToken)
}

// SetSessionCookies stores a session in HttpOnly cookies and makes it current for this request.
func SetSessionCookies(c *fiber.Ctx, session *supabase.Session, secure bool) {
	accessTTL := time.Duration(session.ExpiresIn) * time.Second
	if accessTTL <= 0 {
		accessTTL = time.Hour
	}
	now := time.Now()
	c.Cookie(&fiber.Cookie{
		Name:     AccessTokenCookie,
		Value:    session.AccessToken,
		Path:     "/",
		Expires:  now.Add(accessTTL),
		Secure:   secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	c.Cookie(&fiber.Cookie{
		Name:     RefreshTokenCookie,
		Value:    session.RefreshToken,
		Path:     "/",
		Expires:  now.Add(refreshTokenTTL),
		Secure:   secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	user := session.User
	setUser(c, &user, session.AccessToken)
}

// ClearSessionCookies expires both session cookies.
func ClearSessionCookies(c *fiber.Ctx, secure bool) {
	for _, name := range []string{AccessTokenCookie, RefreshTokenCookie} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			Expires:  time.Unix(0, 0),
			Secure:   secure,
			HTTPOnly: true,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	}
	c.Locals(localsUser, nil)
	c.Locals(localsAccessToken, nil)
}

// CacheVariant keys cached pages by visitor so a rendered nav bar is never
// shared between sessions.
func CacheVariant(c *fiber.Ctx) string {
	if user := CurrentUser(c); user != nil {
		return user.ID.String()
	}
	return "anon"
}
