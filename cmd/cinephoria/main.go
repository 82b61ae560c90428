// Command cinephoria is the terminal ticketing client: browse the
// film program, inspect screenings and reserve seats.  Anonymous
// visitors can walk the whole reservation flow; the draft survives
// the login detour and is resumed automatically.
package main

import (
    "bufio"
    "context"
    "flag"
    "fmt"
    "log"
    "os"
    "strings"

    "github.com/cinephoria/cinephoria-go/internal/api"
    "github.com/cinephoria/cinephoria-go/internal/auth"
    "github.com/cinephoria/cinephoria-go/internal/config"
    "github.com/cinephoria/cinephoria-go/internal/enrich"
    "github.com/cinephoria/cinephoria-go/internal/guard"
    "github.com/cinephoria/cinephoria-go/internal/model"
    "github.com/cinephoria/cinephoria-go/internal/notify"
    "github.com/cinephoria/cinephoria-go/internal/reservation"
    "github.com/cinephoria/cinephoria-go/internal/store"
)

func main() {
    if len(os.Args) < 2 {
        usage()
        os.Exit(2)
    }

    cfg := config.Load()
    app, err := newApp(cfg)
    if err != nil {
        log.Fatal(err)
    }

    ctx := context.Background()
    switch os.Args[1] {
    case "films":
        err = app.films(ctx)
    case "screenings":
        err = app.screenings(ctx, os.Args[2:])
    case "login":
        err = app.login(ctx, os.Args[2:])
    case "logout":
        app.sessions.Logout(ctx)
        fmt.Println("logged out")
    case "whoami":
        app.whoami(ctx)
    case "dashboard":
        err = app.dashboard(ctx)
    case "reserve":
        err = app.reserve(ctx, os.Args[2:])
    default:
        usage()
        os.Exit(2)
    }
    if err != nil {
        log.Fatal(err)
    }
}

func usage() {
    fmt.Fprintln(os.Stderr, `usage: cinephoria <command>

commands:
  films                               list the current program
  screenings -film <id>               list screenings of a film
  login -role <client|employee|admin> log in
  logout                              log out
  whoami                              show the current session
  dashboard                           staff program overview (employee/admin)
  reserve -film <id> -screening <id> -seats A1,A2
                                      reserve seats on a screening`)
}

// app bundles the wired subsystems.
type app struct {
    cfg         config.Config
    client      *api.Client
    sessions    *auth.Service
    guard       *guard.Guard
    enricher    *enrich.Enricher
    coordinator *reservation.Coordinator
}

func newApp(cfg config.Config) (*app, error) {
    client, err := api.NewClient(api.ClientConfig{URL: cfg.APIBaseURL, Timeout: cfg.RequestTimeout})
    if err != nil {
        return nil, err
    }
    tokens, err := store.NewFileTokenStore(cfg.DataDir)
    if err != nil {
        return nil, err
    }

    // Kiosk installs share the draft slot through redis; everywhere
    // else the slot is a local file.
    var drafts store.DraftStore
    if rdb := config.NewRedisClient(cfg); rdb != nil {
        drafts = store.NewRedisDraftStore(rdb, hostKey())
    } else {
        drafts, err = store.NewFileDraftStore(cfg.DataDir)
        if err != nil {
            return nil, err
        }
    }

    sessions := auth.NewService(client, tokens)
    notifier := notify.Logger{}
    return &app{
        cfg:         cfg,
        client:      client,
        sessions:    sessions,
        guard:       guard.New(sessions, notifier),
        enricher:    enrich.New(client, cfg.VenueTimeZone),
        coordinator: reservation.New(client, sessions, drafts, notifier),
    }, nil
}

func hostKey() string {
    if h, err := os.Hostname(); err == nil && h != "" {
        return h
    }
    return "default"
}

func (a *app) films(ctx context.Context) error {
    films, err := a.client.Films(ctx)
    if err != nil {
        return err
    }
    for _, f := range films {
        fmt.Printf("%4d  %-40s %3d min  age %d+\n", f.ID, f.Title, f.DurationMinutes, f.MinimumAge)
    }
    return nil
}

func (a *app) screenings(ctx context.Context, args []string) error {
    fs := flag.NewFlagSet("screenings", flag.ExitOnError)
    filmID := fs.Uint64("film", 0, "film id")
    _ = fs.Parse(args)
    if *filmID == 0 {
        return fmt.Errorf("-film is required")
    }
    film, err := a.client.Film(ctx, *filmID)
    if err != nil {
        return err
    }
    for _, ext := range a.enricher.EnrichAll(ctx, film.Screenings, film.DurationMinutes) {
        fmt.Printf("%4d  %s  %s-%s  room %d (%s)  %.2f EUR\n",
            ext.ID, ext.Date.Format("2006-01-02"), ext.StartTime, ext.EndTime,
            ext.RoomNumber, ext.QualityLabel, ext.UnitPrice)
    }
    return nil
}

func (a *app) login(ctx context.Context, args []string) error {
    fs := flag.NewFlagSet("login", flag.ExitOnError)
    roleName := fs.String("role", "client", "client, employee or admin")
    cookie := fs.Bool("cookie", false, "use the cookie session mechanism")
    _ = fs.Parse(args)

    role := model.ParseRole(*roleName)
    if role == model.RoleNone {
        return fmt.Errorf("unknown role %q", *roleName)
    }
    creds, err := promptCredentials()
    if err != nil {
        return err
    }

    var session model.Session
    if *cookie {
        session, err = a.sessions.LoginWithCookie(ctx, role, creds)
    } else {
        session, err = a.sessions.LoginWithToken(ctx, role, creds)
    }
    if err != nil {
        return fmt.Errorf("login failed: %w", err)
    }
    fmt.Printf("logged in as %s\n", session.Role)

    // A draft persisted before the login detour is resumed here,
    // before any further navigation.
    if restored, err := a.coordinator.RestoreIfPending(); err == nil && restored {
        fmt.Println("your reservation draft was restored; run reserve again to confirm")
    }
    return nil
}

func (a *app) whoami(ctx context.Context) {
    session := a.sessions.Refresh(ctx)
    if !session.Authenticated {
        fmt.Println("anonymous")
        return
    }
    fmt.Printf("authenticated, role %s\n", session.Role)
}

// dashboard is the staff-only program overview.  Entry goes through
// the route guard against a fresh session, exactly like navigating
// into the intranet area: anonymous visitors are pointed at the staff
// login, a client session is logged out and sent to the landing page.
func (a *app) dashboard(ctx context.Context) error {
    a.sessions.Refresh(ctx)

    decision := a.guard.CanEnter(ctx, []model.Role{model.RoleEmployee, model.RoleAdmin}, "/intranet")
    if !decision.Allowed {
        return fmt.Errorf("access denied; log in at %s and retry", decision.Path)
    }

    films, err := a.client.Films(ctx)
    if err != nil {
        return err
    }
    fmt.Println("program overview")
    for _, f := range films {
        film, err := a.client.Film(ctx, f.ID)
        if err != nil {
            return err
        }
        fmt.Printf("%4d  %-40s %d screenings\n", f.ID, f.Title, len(film.Screenings))
    }
    return nil
}

func (a *app) reserve(ctx context.Context, args []string) error {
    fs := flag.NewFlagSet("reserve", flag.ExitOnError)
    filmID := fs.Uint64("film", 0, "film id")
    screeningID := fs.Uint64("screening", 0, "screening id")
    seatsArg := fs.String("seats", "", "comma-separated seat labels, e.g. A1,A2")
    _ = fs.Parse(args)
    if *filmID == 0 || *screeningID == 0 || *seatsArg == "" {
        return fmt.Errorf("-film, -screening and -seats are required")
    }
    wanted := strings.Split(*seatsArg, ",")

    a.sessions.Refresh(ctx)

    // A restored draft already carries the screening and selection;
    // otherwise build the draft from scratch.
    if a.coordinator.Phase() != reservation.PhaseComplete {
        film, err := a.client.Film(ctx, *filmID)
        if err != nil {
            return err
        }
        var target *model.ExtendedScreening
        for _, ext := range a.enricher.EnrichAll(ctx, film.Screenings, film.DurationMinutes) {
            if ext.ID == *screeningID {
                sc := ext
                target = &sc
                break
            }
        }
        if target == nil {
            return fmt.Errorf("screening %d not found for film %d", *screeningID, *filmID)
        }

        a.coordinator.SelectScreening(*target)
        if err := a.coordinator.LoadSeats(ctx); err != nil {
            return err
        }
        if !a.coordinator.ChooseSeatCount(len(wanted)) {
            return fmt.Errorf("not enough free seats for %d tickets", len(wanted))
        }
        for _, label := range wanted {
            label = strings.TrimSpace(label)
            for _, seat := range a.coordinator.Seats() {
                if strings.EqualFold(seat.Label(), label) {
                    a.coordinator.ToggleSeat(seat.ID)
                }
            }
        }
        if a.coordinator.Phase() != reservation.PhaseComplete {
            return fmt.Errorf("could not select all of %s; check availability", *seatsArg)
        }
    }

    total := a.coordinator.Total()
    outcome, err := a.coordinator.Confirm(ctx)
    if err != nil {
        return err
    }
    if outcome.Confirmed {
        fmt.Printf("reservation confirmed (#%d), total %.2f EUR, payment at the cinema\n",
            outcome.ReservationID, total)
        return nil
    }

    // Anonymous visitor: the draft is saved, authenticate and resume.
    fmt.Printf("please log in to finish your reservation (%s)\n", outcome.Redirect.LoginPath)
    creds, err := promptCredentials()
    if err != nil {
        return err
    }
    if _, err := a.sessions.LoginWithToken(ctx, model.RoleClient, creds); err != nil {
        return fmt.Errorf("login failed: %w", err)
    }
    if _, err := a.sessions.WaitForLogin(ctx, a.cfg.LoginWait); err != nil {
        return err
    }
    if restored, err := a.coordinator.RestoreIfPending(); err != nil {
        return err
    } else if !restored {
        return fmt.Errorf("no draft to resume")
    }

    outcome, err = a.coordinator.Confirm(ctx)
    if err != nil {
        return err
    }
    fmt.Printf("reservation confirmed (#%d), payment at the cinema\n", outcome.ReservationID)
    return nil
}

func promptCredentials() (api.Credentials, error) {
    in := bufio.NewReader(os.Stdin)
    fmt.Print("email: ")
    email, err := in.ReadString('\n')
    if err != nil {
        return api.Credentials{}, err
    }
    fmt.Print("password: ")
    password, err := in.ReadString('\n')
    if err != nil {
        return api.Credentials{}, err
    }
    return api.Credentials{
        Email:    strings.TrimSpace(email),
        Password: strings.TrimSpace(password),
    }, nil
}
