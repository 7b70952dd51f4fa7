package handler

import (
	"net/url"
	"time"

	"eau-clair-web/internal/middleware"
	"eau-clair-web/internal/service"
	"eau-clair-web/internal/view"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// codeVerifierTTL bounds how long a reset link can be completed in this browser.
const codeVerifierTTL = time.Hour

type AuthHandler struct {
	service service.AuthService
	view    *view.Renderer
	secure  bool
}

func NewAuthHandler(s service.AuthService, v *view.Renderer, secureCookies bool) *AuthHandler {
	return &AuthHandler{service: s, view: v, secure: secureCookies}
}

func flashRedirect(c *fiber.Ctx, path, key, msg string) error {
	return c.Redirect(path + "?" + key + "=" + url.QueryEscape(msg))
}

func (h *AuthHandler) LoginPage(c *fiber.Ctx) error {
	return h.view.Render(c, view.PageLogin, fiber.Map{"Title": "Sign in"})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	email := c.FormValue("email")
	session, err := h.service.SignIn(c.UserContext(), email, c.FormValue("password"))
	if err != nil {
		c.Status(fiber.StatusUnauthorized)
		return h.view.Render(c, view.PageLogin, fiber.Map{"Title": "Sign in", "Email": email, "Error": userMessage(err)})
	}
	middleware.SetSessionCookies(c, session, h.secure)
	return c.Redirect("/")
}

func (h *AuthHandler) SignupPage(c *fiber.Ctx) error {
	return h.view.Render(c, view.PageSignup, fiber.Map{"Title": "Sign up"})
}

func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	in := service.SignUpInput{
		Email:    c.FormValue("email"),
		Password: c.FormValue("password"),
	}
	if _, err := h.service.SignUp(c.UserContext(), &in); err != nil {
		c.Status(fiber.StatusBadRequest)
		return h.view.Render(c, view.PageSignup, fiber.Map{"Title": "Sign up", "Email": in.Email, "Error": userMessage(err)})
	}
	return h.view.Render(c, view.PageSignup, fiber.Map{"Title": "Sign up", "Success": true})
}

func (h *AuthHandler) AdminLoginPage(c *fiber.Ctx) error {
	return h.view.Render(c, view.PageAdminLogin, fiber.Map{"Title": "Admin sign in"})
}

func (h *AuthHandler) AdminLogin(c *fiber.Ctx) error {
	email := c.FormValue("email")
	session, err := h.service.AdminSignIn(c.UserContext(), email, c.FormValue("password"))
	if err != nil {
		c.Status(fiber.StatusUnauthorized)
		return h.view.Render(c, view.PageAdminLogin, fiber.Map{"Title": "Admin sign in", "Email": email, "Error": userMessage(err)})
	}
	middleware.SetSessionCookies(c, session, h.secure)
	return c.Redirect("/admin")
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.service.SignOut(c.UserContext(), middleware.AccessToken(c)); err != nil {
		zap.L().Warn("sign out", zap.Error(err))
	}
	middleware.ClearSessionCookies(c, h.secure)
	return c.Redirect("/")
}

func (h *AuthHandler) ForgotPasswordPage(c *fiber.Ctx) error {
	return h.view.Render(c, view.PageForgotPassword, fiber.Map{"Title": "Forgot password"})
}

func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	email := c.FormValue("email")
	verifier, err := h.service.ForgotPassword(c.UserContext(), email)
	if err != nil {
		c.Status(fiber.StatusBadRequest)
		return h.view.Render(c, view.PageForgotPassword, fiber.Map{"Title": "Forgot password", "Email": email, "Error": userMessage(err)})
	}
	h.setVerifierCookie(c, verifier, time.Now().Add(codeVerifierTTL))
	return h.view.Render(c, view.PageForgotPassword, fiber.Map{"Title": "Forgot password", "Success": true})
}

// Callback is where reset links land. On success the session is stored and
// the visitor continues to the new-password form.
func (h *AuthHandler) Callback(c *fiber.Ctx) error {
	session, err := h.service.Callback(c.UserContext(),
		c.Query("code"),
		c.Cookies(middleware.CodeVerifierCookie),
		c.Query("token_hash"),
		c.Query("type"),
	)
	if err != nil {
		return flashRedirect(c, "/login", "error", "Could not authenticate")
	}
	if session != nil {
		middleware.SetSessionCookies(c, session, h.secure)
	}
	h.setVerifierCookie(c, "", time.Unix(0, 0))
	return c.Redirect("/reset-password")
}

// setVerifierCookie scopes the PKCE verifier to the callback path; clearing
// it must use the same path or the browser keeps the old one.
func (h *AuthHandler) setVerifierCookie(c *fiber.Ctx, value string, expires time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.CodeVerifierCookie,
		Value:    value,
		Path:     service.CallbackPath,
		Expires:  expires,
		Secure:   h.secure,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func (h *AuthHandler) ResetPasswordPage(c *fiber.Ctx) error {
	data := fiber.Map{"Title": "Reset password"}
	if middleware.CurrentUser(c) == nil {
		data["Error"] = service.ErrInvalidResetLink.Error()
	}
	return h.view.Render(c, view.PageResetPassword, data)
}

func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	in := service.ResetPasswordInput{
		Password:        c.FormValue("password"),
		ConfirmPassword: c.FormValue("confirmPassword"),
	}
	if err := h.service.ResetPassword(c.UserContext(), middleware.AccessToken(c), &in); err != nil {
		c.Status(fiber.StatusBadRequest)
		return h.view.Render(c, view.PageResetPassword, fiber.Map{"Title": "Reset password", "Error": userMessage(err)})
	}
	return h.view.Render(c, view.PageResetPassword, fiber.Map{"Title": "Reset password", "Success": true})
}
