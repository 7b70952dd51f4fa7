package supabase

import (
	"context"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrNoSession is returned when a token or code yields no usable session.
var ErrNoSession = errors.New("no active session")

// User is the authenticated account as the auth server reports it.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Session is the token pair issued on sign-in.
type Session struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	TokenType    string `json:"token_type"`
	User         User   `json:"user"`
}

// OTP types accepted by VerifyOTP.
const (
	OTPRecovery = "recovery"
	OTPSignup   = "signup"
	OTPEmail    = "email"
	OTPInvite   = "invite"
	OTPMagic    = "magiclink"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUp registers a new account. Depending on the project's confirmation
// setting the server answers with a bare user or with a session; both are accepted.
func (c *Client) SignUp(ctx context.Context, email, password string) (*User, error) {
	var resp struct {
		Session
		ID    uuid.UUID `json:"id"`
		Email string    `json:"email"`
	}
	a := c.authAgent(fiber.MethodPost, "/signup", "").JSON(credentials{Email: email, Password: password})
	if err := c.send(ctx, a, &resp); err != nil {
		return nil, err
	}
	if resp.User.ID != uuid.Nil {
		return &resp.User, nil
	}
	if resp.ID == uuid.Nil {
		return nil, errors.New("sign-up response carried no user")
	}
	return &User{ID: resp.ID, Email: resp.Email}, nil
}

// SignIn exchanges an email and password for a session.
func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	a := c.authAgent(fiber.MethodPost, "/token?grant_type=password", "").JSON(credentials{Email: email, Password: password})
	return c.session(ctx, a)
}

// RefreshSession trades a refresh token for a new session.
func (c *Client) RefreshSession(ctx context.Context, refreshToken string) (*Session, error) {
	if refreshToken == "" {
		return nil, ErrNoSession
	}
	a := c.authAgent(fiber.MethodPost, "/token?grant_type=refresh_token", "").
		JSON(map[string]string{"refresh_token": refreshToken})
	return c.session(ctx, a)
}

// ExchangeCode completes a PKCE flow started by SendPasswordReset.
func (c *Client) ExchangeCode(ctx context.Context, code, codeVerifier string) (*Session, error) {
	a := c.authAgent(fiber.MethodPost, "/token?grant_type=pkce", "").
		JSON(map[string]string{"auth_code": code, "code_verifier": codeVerifier})
	return c.session(ctx, a)
}

// VerifyOTP redeems a one-time token hash from an email link.
func (c *Client) VerifyOTP(ctx context.Context, tokenHash, otpType string) (*Session, error) {
	a := c.authAgent(fiber.MethodPost, "/verify", "").
		JSON(map[string]string{"token_hash": tokenHash, "type": otpType})
	return c.session(ctx, a)
}

func (c *Client) session(ctx context.Context, a *fiber.Agent) (*Session, error) {
	var s Session
	if err := c.send(ctx, a, &s); err != nil {
		return nil, err
	}
	if s.AccessToken == "" {
		return nil, ErrNoSession
	}
	return &s, nil
}

// SignOut revokes the session behind accessToken.
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return nil
	}
	return c.send(ctx, c.authAgent(fiber.MethodPost, "/logout", accessToken), nil)
}

// GetUser resolves the user an access token belongs to.
func (c *Client) GetUser(ctx context.Context, accessToken string) (*User, error) {
	if accessToken == "" {
		return nil, ErrNoSession
	}
	if c.verifier != nil {
		claims, err := c.verifier.ValidateToken(accessToken)
		if err != nil {
			return nil, &APIError{Status: fiber.StatusUnauthorized, Message: err.Error()}
		}
		id, _ := claims.UserID()
		return &User{ID: id, Email: claims.Email}, nil
	}

	var u User
	if err := c.send(ctx, c.authAgent(fiber.MethodGet, "/user", accessToken), &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdatePassword sets a new password for the session's user.
func (c *Client) UpdatePassword(ctx context.Context, accessToken, password string) error {
	if accessToken == "" {
		return ErrNoSession
	}
	a := c.authAgent(fiber.MethodPut, "/user", accessToken).JSON(map[string]string{"password": password})
	return c.send(ctx, a, nil)
}

// SendPasswordReset emails a recovery link that lands on redirectTo with a
// PKCE code; codeChallenge is the S256 challenge of the verifier kept by the caller.
func (c *Client) SendPasswordReset(ctx context.Context, email, redirectTo, codeChallenge string) error {
	body := map[string]string{"email": email}
	if codeChallenge != "" {
		body["code_challenge"] = codeChallenge
		body["code_challenge_method"] = "s256"
	}
	path := "/recover"
	if redirectTo != "" {
		path += "?redirect_to=" + url.QueryEscape(redirectTo)
	}
	return c.send(ctx, c.authAgent(fiber.MethodPost, path, "").JSON(body), nil)
}
