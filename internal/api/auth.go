package api

import (
    "context"
    "fmt"

    "github.com/cinephoria/cinephoria-go/internal/model"
)

// Credentials is the login request body shared by the three role
// endpoints.
type Credentials struct {
    Email    string `json:"email"`
    Password string `json:"password"`
}

// LoginResult is what a login endpoint returns.  Token is set by the
// bearer-token mechanism and empty for the cookie mechanism, where
// the server response instead names the role directly and the session
// cookie rides back in Set-Cookie.
type LoginResult struct {
    Token string `json:"token,omitempty"`
    Role  string `json:"role,omitempty"`
}

// loginPath maps a role to its login endpoint.  Each role has its own
// endpoint so the server can reject, say, a client credential on the
// employee form outright.
func loginPath(role model.Role) (string, error) {
    switch role {
    case model.RoleClient:
        return "/login-client", nil
    case model.RoleEmployee:
        return "/login-employee", nil
    case model.RoleAdmin:
        return "/login-admin", nil
    }
    return "", fmt.Errorf("no login endpoint for role %q", role)
}

// Login exchanges credentials at the endpoint for the given role.
// Bad credentials surface as ErrUnauthorized.
func (c *Client) Login(ctx context.Context, role model.Role, creds Credentials) (LoginResult, error) {
    p, err := loginPath(role)
    if err != nil {
        return LoginResult{}, err
    }
    var res LoginResult
    if err := c.post(ctx, p, creds, &res, nil); err != nil {
        return LoginResult{}, err
    }
    return res, nil
}

// CookieState is the payload of GET /cookie-check.
type CookieState struct {
    LoggedIn bool   `json:"loggedIn"`
    Role     string `json:"role,omitempty"`
}

// CookieCheck asks the server whether the session cookie held in the
// client's jar is still valid, and for which role.
func (c *Client) CookieCheck(ctx context.Context) (CookieState, error) {
    var state CookieState
    if err := c.get(ctx, "/cookie-check", &state); err != nil {
        return CookieState{}, err
    }
    return state, nil
}

// Logout invalidates the server-side cookie session.  Callers treat
// failures as best-effort; the local session is cleared regardless.
func (c *Client) Logout(ctx context.Context) error {
    return c.post(ctx, "/logout", nil, nil, nil)
}
