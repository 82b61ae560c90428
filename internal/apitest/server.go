// Package apitest runs an in-memory Cinephoria API for tests.  It
// implements the consumed REST surface — role logins (token or
// cookie), cookie-check, logout, film and room listings, seat
// snapshots and the reserve endpoint — over echo, with bcrypt-hashed
// fixture credentials and HS256 tokens, so package tests exercise the
// client against realistic wire behaviour instead of canned bytes.
package apitest

import (
    "net/http"
    "net/http/httptest"
    "strconv"
    "sync"
    "time"

    "github.com/golang-jwt/jwt/v5"
    "github.com/labstack/echo/v4"
    "golang.org/x/crypto/bcrypt"

    "github.com/cinephoria/cinephoria-go/internal/model"
)

const (
    // Secret signs fixture tokens.  Tests may decode them but the
    // client under test never needs it.
    Secret = "apitest-secret"

    sessionCookie = "cinephoria_session"
)

// User is a login fixture.  The password is stored bcrypt-hashed the
// way the real service stores it.
type User struct {
    Email        string
    PasswordHash string
    Role         model.Role
}

// HashPassword returns a bcrypt hash for fixture users.
func HashPassword(plain string) string {
    b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
    if err != nil {
        panic(err)
    }
    return string(b)
}

// ReserveCall records one POST /reserve for assertions.
type ReserveCall struct {
    ScreeningID    uint64
    SeatIDs        []uint64
    IdempotencyKey string
}

// Server is the fake API.  Mutate the exported fixture fields before
// issuing requests; the handlers read them under the server's mutex.
type Server struct {
    *httptest.Server

    // TokenLogin selects the bearer-token mechanism; when false the
    // login endpoints set an http-only session cookie instead.
    TokenLogin bool

    mu           sync.Mutex
    users        []User
    films        []model.Film
    rooms        map[uint64]model.Room
    seats        map[uint64][]model.Seat // by screening id
    reserveCalls []ReserveCall
    reserveFail  *failure
    nextResID    uint64
    cookieRole   model.Role
    cookieLive   bool
}

type failure struct {
    status  int
    message string
    code    string
}

// New starts the fake API.  Callers must Close it.
func New() *Server {
    s := &Server{
        rooms:     map[uint64]model.Room{},
        seats:     map[uint64][]model.Seat{},
        nextResID: 1,
    }
    e := echo.New()
    e.HideBanner = true

    e.POST("/login-client", s.login(model.RoleClient))
    e.POST("/login-employee", s.login(model.RoleEmployee))
    e.POST("/login-admin", s.login(model.RoleAdmin))
    e.GET("/cookie-check", s.cookieCheck)
    e.POST("/logout", s.logout)
    e.GET("/film", s.listFilms)
    e.GET("/film/:id", s.getFilm)
    e.GET("/rooms/:id", s.getRoom)
    e.GET("/screenings/:id/seats", s.screeningSeats)
    e.POST("/reserve", s.reserve)

    s.Server = httptest.NewServer(e)
    return s
}

// AddUser registers a login fixture.
func (s *Server) AddUser(u User) {
    s.mu.Lock()
    defer s.mu.Unlock()
    s.users = append(s.users, u)
}

// SetFilms replaces the film listing fixture.
func (s *Server) SetFilms(films ...model.Film) {
    s.mu.Lock()
    defer s.mu.Unlock()
    s.films = films
}

// SetRoom registers a room fixture.
func (s *Server) SetRoom(room model.Room) {
    s.mu.Lock()
    defer s.mu.Unlock()
    s.rooms[room.ID] = room
}

// SetSeats replaces the seat snapshot for a screening.
func (s *Server) SetSeats(screeningID uint64, seats ...model.Seat) {
    s.mu.Lock()
    defer s.mu.Unlock()
    s.seats[screeningID] = seats
}

// FailReserve makes the next reserve calls fail with the given
// status and message, e.g. a 409 booking conflict.
func (s *Server) FailReserve(status int, message, code string) {
    s.mu.Lock()
    defer s.mu.Unlock()
    s.reserveFail = &failure{status: status, message: message, code: code}
}

// PassReserve clears a previously installed reserve failure.
func (s *Server) PassReserve() {
    s.mu.Lock()
    defer s.mu.Unlock()
    s.reserveFail = nil
}

// ReserveCalls returns the recorded reserve requests.
func (s *Server) ReserveCalls() []ReserveCall {
    s.mu.Lock()
    defer s.mu.Unlock()
    return append([]ReserveCall(nil), s.reserveCalls...)
}

// ---- envelope helpers ----

func ok(c echo.Context, data any) error {
    return c.JSON(http.StatusOK, echo.Map{"success": true, "data": data})
}

func fail(c echo.Context, status int, message, code string) error {
    e := echo.Map{"message": message}
    if code != "" {
        e["code"] = code
    }
    return c.JSON(status, echo.Map{"success": false, "error": e})
}

// ---- handlers ----

type credsReq struct {
    Email    string `json:"email"`
    Password string `json:"password"`
}

// login verifies the credentials against the fixture users holding
// the endpoint's role, then either mints a bearer token or sets the
// session cookie depending on the server mechanism.
func (s *Server) login(role model.Role) echo.HandlerFunc {
    return func(c echo.Context) error {
        var req credsReq
        if err := c.Bind(&req); err != nil {
            return fail(c, http.StatusBadRequest, "invalid body", "")
        }
        s.mu.Lock()
        var found *User
        for i := range s.users {
            u := &s.users[i]
            if u.Email == req.Email && u.Role == role {
                found = u
                break
            }
        }
        s.mu.Unlock()
        if found == nil || bcrypt.CompareHashAndPassword([]byte(found.PasswordHash), []byte(req.Password)) != nil {
            return fail(c, http.StatusUnauthorized, "invalid credentials", "BAD_CREDENTIALS")
        }

        if s.TokenLogin {
            token, err := mintToken(found.Role)
            if err != nil {
                return fail(c, http.StatusInternalServerError, "token issue failed", "")
            }
            return ok(c, echo.Map{"token": token})
        }

        s.mu.Lock()
        s.cookieRole = found.Role
        s.cookieLive = true
        s.mu.Unlock()
        c.SetCookie(&http.Cookie{
            Name:     sessionCookie,
            Value:    "fixture-session",
            HttpOnly: true,
            Path:     "/",
        })
        return ok(c, echo.Map{"role": string(found.Role)})
    }
}

// mintToken signs an HS256 token with the claim layout the real
// service uses: userId, userRole and a numeric exp.
func mintToken(role model.Role) (string, error) {
    claims := jwt.MapClaims{
        "userId":   uint64(1),
        "userRole": string(role),
        "exp":      time.Now().Add(time.Hour).Unix(),
        "iat":      time.Now().Unix(),
    }
    t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    return t.SignedString([]byte(Secret))
}

func (s *Server) cookieCheck(c echo.Context) error {
    cookie, err := c.Cookie(sessionCookie)
    s.mu.Lock()
    live, role := s.cookieLive, s.cookieRole
    s.mu.Unlock()
    if err != nil || cookie.Value == "" || !live {
        return ok(c, echo.Map{"loggedIn": false})
    }
    return ok(c, echo.Map{"loggedIn": true, "role": string(role)})
}

func (s *Server) logout(c echo.Context) error {
    s.mu.Lock()
    s.cookieLive = false
    s.cookieRole = model.RoleNone
    s.mu.Unlock()
    return ok(c, nil)
}

func (s *Server) listFilms(c echo.Context) error {
    s.mu.Lock()
    films := make([]model.Film, len(s.films))
    for i, f := range s.films {
        f.Screenings = nil
        films[i] = f
    }
    s.mu.Unlock()
    return ok(c, films)
}

func (s *Server) getFilm(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil {
        return fail(c, http.StatusBadRequest, "invalid film id", "")
    }
    s.mu.Lock()
    defer s.mu.Unlock()
    for _, f := range s.films {
        if f.ID == id {
            return ok(c, f)
        }
    }
    return fail(c, http.StatusNotFound, "film not found", "")
}

func (s *Server) getRoom(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil {
        return fail(c, http.StatusBadRequest, "invalid room id", "")
    }
    s.mu.Lock()
    room, found := s.rooms[id]
    s.mu.Unlock()
    if !found {
        return fail(c, http.StatusNotFound, "room not found", "")
    }
    return ok(c, room)
}

func (s *Server) screeningSeats(c echo.Context) error {
    id, err := strconv.ParseUint(c.Param("id"), 10, 64)
    if err != nil {
        return fail(c, http.StatusBadRequest, "invalid screening id", "")
    }
    s.mu.Lock()
    seats := append([]model.Seat(nil), s.seats[id]...)
    s.mu.Unlock()
    return ok(c, seats)
}

type reserveReq struct {
    ScreeningID uint64   `json:"screeningId"`
    SeatIDs     []uint64 `json:"seatIds"`
}

// reserve books the seats, marking them reserved in the snapshot so a
// later fetch reflects the booking.  An installed failure wins.
func (s *Server) reserve(c echo.Context) error {
    var req reserveReq
    if err := c.Bind(&req); err != nil {
        return fail(c, http.StatusBadRequest, "invalid body", "")
    }
    s.mu.Lock()
    defer s.mu.Unlock()
    s.reserveCalls = append(s.reserveCalls, ReserveCall{
        ScreeningID:    req.ScreeningID,
        SeatIDs:        append([]uint64(nil), req.SeatIDs...),
        IdempotencyKey: c.Request().Header.Get("Idempotency-Key"),
    })
    if f := s.reserveFail; f != nil {
        return fail(c, f.status, f.message, f.code)
    }
    seats := s.seats[req.ScreeningID]
    for _, id := range req.SeatIDs {
        for i := range seats {
            if seats[i].ID == id {
                seats[i].IsReserved = true
            }
        }
    }
    id := s.nextResID
    s.nextResID++
    return ok(c, echo.Map{"reservationId": id})
}
