// Package auth owns the client's authorization session: whether the
// visitor is authenticated, under which role, and how that state was
// derived (decoded bearer token or server-confirmed cookie).  The
// session is a single object created at startup and injected into the
// route guard and the reservation coordinator; there are no package
// globals.
package auth

import (
    "context"
    "errors"
    "log"
    "sync"
    "time"

    "github.com/cinephoria/cinephoria-go/internal/api"
    "github.com/cinephoria/cinephoria-go/internal/model"
)

// subBufferSize is the buffer of each subscriber channel.  A slow
// subscriber loses intermediate transitions rather than blocking the
// publisher.
const subBufferSize = 16

// ErrLoginTimeout is returned by WaitForLogin when no authenticated
// transition arrives within the deadline.
var ErrLoginTimeout = errors.New("timed out waiting for login")

// TokenStore persists the single bearer token between runs.  Load
// returns an empty string when no token is stored.
type TokenStore interface {
    Load() (string, error)
    Save(token string) error
    Clear() error
}

// mechanism records which credential type currently backs the session.
type mechanism int

const (
    mechanismNone   mechanism = iota // anonymous
    mechanismToken                   // locally-held bearer token
    mechanismCookie                  // http-only server cookie
)

// Service resolves and broadcasts the session state.  Subscribers get
// replay-1 semantics: the current state on subscribe, then every
// transition.
type Service struct {
    client *api.Client
    tokens TokenStore

    mu      sync.Mutex
    current model.Session
    mech    mechanism
    subs    map[chan model.Session]struct{}
}

// NewService builds a Service starting anonymous.  Call Refresh to
// pick up a previously stored token or live cookie.
func NewService(client *api.Client, tokens TokenStore) *Service {
    return &Service{
        client:  client,
        tokens:  tokens,
        current: model.Anonymous(),
        subs:    make(map[chan model.Session]struct{}),
    }
}

// CurrentState returns a synchronous snapshot of the session.
func (s *Service) CurrentState() model.Session {
    s.mu.Lock()
    defer s.mu.Unlock()
    return s.current
}

// Snapshot returns the current state in the form the route guard
// consumes.  It never fails here; the error return exists so other
// session sources (or broken ones) can satisfy the same interface.
func (s *Service) Snapshot() (model.Session, error) {
    return s.CurrentState(), nil
}

// Subscribe returns a channel that first receives the current state
// and then every transition.  The subscription ends when ctx is
// cancelled, at which point the channel is closed.
func (s *Service) Subscribe(ctx context.Context) <-chan model.Session {
    ch := make(chan model.Session, subBufferSize)
    s.mu.Lock()
    ch <- s.current
    s.subs[ch] = struct{}{}
    s.mu.Unlock()

    go func() {
        <-ctx.Done()
        s.mu.Lock()
        delete(s.subs, ch)
        s.mu.Unlock()
        close(ch)
    }()
    return ch
}

// publish records the new state and fans it out.  Must be called
// without the lock held.
func (s *Service) publish(next model.Session, mech mechanism) {
    s.mu.Lock()
    s.current = next
    s.mech = mech
    for ch := range s.subs {
        select {
        case ch <- next:
        default: // subscriber lagging, drop
        }
    }
    s.mu.Unlock()
}

// LoginWithToken exchanges credentials at the role's login endpoint,
// stores the returned bearer token and publishes the session derived
// from the token's own role claim.
func (s *Service) LoginWithToken(ctx context.Context, role model.Role, creds api.Credentials) (model.Session, error) {
    res, err := s.client.Login(ctx, role, creds)
    if err != nil {
        return s.CurrentState(), err
    }
    if res.Token == "" {
        return s.CurrentState(), errors.New("login response carried no token")
    }
    if err := s.tokens.Save(res.Token); err != nil {
        log.Printf("auth: persist token: %v", err)
    }
    s.client.SetToken(res.Token)
    next := model.Session{Authenticated: true, Role: roleFromToken(res.Token)}
    s.publish(next, mechanismToken)
    return next, nil
}

// LoginWithCookie exchanges credentials at the role's login endpoint.
// The server sets an http-only cookie (kept by the API client's jar)
// and names the role in the response body; nothing is stored locally.
func (s *Service) LoginWithCookie(ctx context.Context, role model.Role, creds api.Credentials) (model.Session, error) {
    res, err := s.client.Login(ctx, role, creds)
    if err != nil {
        return s.CurrentState(), err
    }
    next := model.Session{Authenticated: true, Role: model.ParseRole(res.Role)}
    s.publish(next, mechanismCookie)
    return next, nil
}

// Refresh re-derives the session without fresh credentials: a stored,
// unexpired token wins; otherwise the server is asked whether the
// cookie session still stands.  Used at startup and by guards that
// need a blocking re-check.  Transport failures degrade to anonymous.
func (s *Service) Refresh(ctx context.Context) model.Session {
    if tok, err := s.tokens.Load(); err == nil && tok != "" {
        if tokenAlive(tok, time.Now()) {
            s.client.SetToken(tok)
            next := model.Session{Authenticated: true, Role: roleFromToken(tok)}
            s.publish(next, mechanismToken)
            return next
        }
        // Expired token is as good as no token.
        _ = s.tokens.Clear()
        s.client.SetToken("")
    }

    state, err := s.client.CookieCheck(ctx)
    if err != nil || !state.LoggedIn {
        if err != nil && !errors.Is(err, api.ErrUnauthorized) {
            log.Printf("auth: cookie check: %v", err)
        }
        next := model.Anonymous()
        s.publish(next, mechanismNone)
        return next
    }
    next := model.Session{Authenticated: true, Role: model.ParseRole(state.Role)}
    s.publish(next, mechanismCookie)
    return next
}

// Logout clears the local token, best-effort invalidates the server
// cookie session, and publishes the anonymous state.  It never fails:
// a dead server must not keep a visitor logged in.
func (s *Service) Logout(ctx context.Context) {
    s.mu.Lock()
    mech := s.mech
    s.mu.Unlock()

    if err := s.tokens.Clear(); err != nil {
        log.Printf("auth: clear token: %v", err)
    }
    s.client.SetToken("")
    if mech == mechanismCookie {
        if err := s.client.Logout(ctx); err != nil {
            log.Printf("auth: server logout: %v", err)
        }
    }
    s.publish(model.Anonymous(), mechanismNone)
}

// WaitForLogin blocks until the session transitions to authenticated,
// or the timeout elapses.  It exists for flows that trigger a login
// and must react to the resulting state change before navigating.
// Cancellation of the caller's context surfaces as its own error, not
// as a timeout.
func (s *Service) WaitForLogin(parent context.Context, timeout time.Duration) (model.Session, error) {
    ctx, cancel := context.WithTimeout(parent, timeout)
    defer cancel()

    sub := s.Subscribe(ctx)
    for {
        select {
        case state, ok := <-sub:
            if !ok {
                return model.Anonymous(), waitErr(parent)
            }
            if state.Authenticated {
                return state, nil
            }
        case <-ctx.Done():
            return model.Anonymous(), waitErr(parent)
        }
    }
}

// waitErr maps the end of a wait to the right error: the parent's own
// error when it was cancelled, otherwise the login timeout.
func waitErr(parent context.Context) error {
    if err := parent.Err(); err != nil {
        return err
    }
    return ErrLoginTimeout
}
