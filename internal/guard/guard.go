// Package guard decides whether a navigation into a role-restricted
// area may proceed.  The decision is made once per navigation attempt
// from a fresh session snapshot, and a role mismatch always tears the
// session down rather than silently allowing entry.
package guard

import (
    "context"
    "log"

    "github.com/cinephoria/cinephoria-go/internal/model"
    "github.com/cinephoria/cinephoria-go/internal/notify"
)

// Landing is the public page mismatched visitors are sent to.
const Landing = "/"

// Sessions is the slice of the auth session the guard needs: a
// point-in-time snapshot and the ability to force a logout.  Snapshot
// may fail when role resolution itself is broken; the guard treats
// that exactly like a role mismatch.
type Sessions interface {
    Snapshot() (model.Session, error)
    Logout(ctx context.Context)
}

// Decision is the outcome of a guard check.  When Allowed is false
// the caller must navigate to Path, carrying ReturnURL so the visitor
// can come back after authenticating.
type Decision struct {
    Allowed   bool
    Path      string
    ReturnURL string
}

func allow() Decision {
    return Decision{Allowed: true}
}

func redirect(path, returnURL string) Decision {
    return Decision{Path: path, ReturnURL: returnURL}
}

// Guard gates entry into restricted routes.
type Guard struct {
    sessions Sessions
    notifier notify.Notifier
}

func New(sessions Sessions, notifier notify.Notifier) *Guard {
    return &Guard{sessions: sessions, notifier: notifier}
}

// CanEnter applies the access rules for a route requiring one of
// requiredRoles.  An empty role list means a public route.  The same
// rules apply to top-level and child routes; there is no separate
// logic for nested entry.
func (g *Guard) CanEnter(ctx context.Context, requiredRoles []model.Role, currentURL string) Decision {
    if len(requiredRoles) == 0 {
        return allow()
    }

    session, err := g.sessions.Snapshot()
    if err != nil {
        // Broken role resolution is never an excuse to let someone
        // through.
        log.Printf("guard: session snapshot failed: %v", err)
        return g.deny(ctx, currentURL)
    }

    if !session.Authenticated {
        return redirect(loginPathFor(requiredRoles), currentURL)
    }
    for _, r := range requiredRoles {
        if session.Role == r && session.Role != model.RoleNone {
            return allow()
        }
    }
    return g.deny(ctx, currentURL)
}

// deny handles the authenticated-but-wrong-role case: force logout,
// tell the visitor, and send them to the landing page.
func (g *Guard) deny(ctx context.Context, currentURL string) Decision {
    g.sessions.Logout(ctx)
    g.notifier.Notify("You are not authorized to access this page.")
    return redirect(Landing, currentURL)
}

// loginPathFor picks the login page for an anonymous visitor by the
// first matching role in priority order Admin > Employee > Client,
// falling back to the landing page.
func loginPathFor(requiredRoles []model.Role) string {
    want := map[model.Role]bool{}
    for _, r := range requiredRoles {
        want[r] = true
    }
    switch {
    case want[model.RoleAdmin]:
        return "/login-admin"
    case want[model.RoleEmployee]:
        return "/login-employee"
    case want[model.RoleClient]:
        return "/login-client"
    }
    return Landing
}
