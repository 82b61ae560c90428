package guard

import (
    "context"
    "errors"
    "testing"

    "github.com/stretchr/testify/assert"

    "github.com/cinephoria/cinephoria-go/internal/model"
)

// fakeSessions returns a fixed snapshot (or error) and records forced
// logouts.
type fakeSessions struct {
    session   model.Session
    err       error
    loggedOut bool
}

func (f *fakeSessions) Snapshot() (model.Session, error) {
    return f.session, f.err
}

func (f *fakeSessions) Logout(context.Context) {
    f.loggedOut = true
    f.session = model.Anonymous()
}

type spyNotifier struct {
    messages []string
}

func (s *spyNotifier) Notify(message string) {
    s.messages = append(s.messages, message)
}

func TestCanEnterPublicRoute(t *testing.T) {
    sessions := &fakeSessions{session: model.Anonymous()}
    g := New(sessions, &spyNotifier{})

    decision := g.CanEnter(context.Background(), nil, "/films")
    assert.True(t, decision.Allowed)
    assert.False(t, sessions.loggedOut)
}

func TestCanEnterAnonymousRedirectsToLogin(t *testing.T) {
    tests := []struct {
        name     string
        required []model.Role
        wantPath string
    }{
        {"client area", []model.Role{model.RoleClient}, "/login-client"},
        {"employee area", []model.Role{model.RoleEmployee}, "/login-employee"},
        {"admin area", []model.Role{model.RoleAdmin}, "/login-admin"},
        {"admin beats employee", []model.Role{model.RoleEmployee, model.RoleAdmin}, "/login-admin"},
        {"employee beats client", []model.Role{model.RoleClient, model.RoleEmployee}, "/login-employee"},
    }
    for _, tt := range tests {
        t.Run(tt.name, func(t *testing.T) {
            sessions := &fakeSessions{session: model.Anonymous()}
            g := New(sessions, &spyNotifier{})

            decision := g.CanEnter(context.Background(), tt.required, "/restricted/page")
            assert.False(t, decision.Allowed)
            assert.Equal(t, tt.wantPath, decision.Path)
            assert.Equal(t, "/restricted/page", decision.ReturnURL)
            assert.False(t, sessions.loggedOut, "anonymous visitors are redirected, not logged out")
        })
    }
}

func TestCanEnterMatchingRoleAllowed(t *testing.T) {
    sessions := &fakeSessions{session: model.Session{Authenticated: true, Role: model.RoleEmployee}}
    g := New(sessions, &spyNotifier{})

    decision := g.CanEnter(context.Background(), []model.Role{model.RoleEmployee, model.RoleAdmin}, "/intranet")
    assert.True(t, decision.Allowed)
}

func TestCanEnterWrongRoleForcesLogout(t *testing.T) {
    sessions := &fakeSessions{session: model.Session{Authenticated: true, Role: model.RoleClient}}
    notifier := &spyNotifier{}
    g := New(sessions, notifier)

    decision := g.CanEnter(context.Background(), []model.Role{model.RoleEmployee}, "/intranet/planning")
    assert.False(t, decision.Allowed)
    assert.Equal(t, Landing, decision.Path)
    assert.Equal(t, "/intranet/planning", decision.ReturnURL)
    assert.True(t, sessions.loggedOut)
    assert.NotEmpty(t, notifier.messages)
}

func TestCanEnterAuthenticatedWithoutRoleDenied(t *testing.T) {
    sessions := &fakeSessions{session: model.Session{Authenticated: true, Role: model.RoleNone}}
    g := New(sessions, &spyNotifier{})

    decision := g.CanEnter(context.Background(), []model.Role{model.RoleClient}, "/account")
    assert.False(t, decision.Allowed)
    assert.Equal(t, Landing, decision.Path)
    assert.True(t, sessions.loggedOut)
}

func TestCanEnterSnapshotFailureNeverAllows(t *testing.T) {
    sessions := &fakeSessions{err: errors.New("role stream broken")}
    notifier := &spyNotifier{}
    g := New(sessions, notifier)

    decision := g.CanEnter(context.Background(), []model.Role{model.RoleAdmin}, "/admin")
    assert.False(t, decision.Allowed)
    assert.Equal(t, Landing, decision.Path)
    assert.True(t, sessions.loggedOut)
    assert.NotEmpty(t, notifier.messages)
}
