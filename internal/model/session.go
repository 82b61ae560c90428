package model

import "strings"

// Role identifies the access level of an authenticated visitor.  The
// values mirror the uppercased role claim carried in access tokens and
// in cookie-check responses.  RoleNone is the zero value and means the
// visitor has no resolved role.
type Role string

const (
    RoleNone     Role = ""         // no role resolved
    RoleClient   Role = "CLIENT"   // regular ticket-buying visitor
    RoleEmployee Role = "EMPLOYEE" // cinema staff
    RoleAdmin    Role = "ADMIN"    // back-office administrator
)

// ParseRole maps an arbitrary role claim to one of the known roles.
// The claim is trimmed and uppercased first; anything unrecognized or
// empty resolves to RoleNone rather than an error.
func ParseRole(claim string) Role {
    switch strings.ToUpper(strings.TrimSpace(claim)) {
    case string(RoleClient):
        return RoleClient
    case string(RoleEmployee):
        return RoleEmployee
    case string(RoleAdmin):
        return RoleAdmin
    }
    return RoleNone
}

// Session is the authorization state of the running client.
//
// Fields:
//  Authenticated – whether the visitor holds a live credential.
//  Role          – resolved role, RoleNone when unknown.
//
// Invariant: Role != RoleNone implies Authenticated == true.  The
// converse does not hold: during role resolution a session may be
// authenticated while the role is still RoleNone.
type Session struct {
    Authenticated bool // a valid token or server cookie exists
    Role          Role // resolved role claim
}

// Anonymous is the session every client process starts with.
func Anonymous() Session {
    return Session{Authenticated: false, Role: RoleNone}
}
