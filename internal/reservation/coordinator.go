// Package reservation owns the in-progress reservation: the chosen
// screening, the seat-count target, the selected seats and the
// computed total.  It is the workflow state machine of the client,
// and the one place where a draft is written to durable storage (on
// the login detour) and read back (exactly once, after the visitor
// authenticates).
package reservation

import (
    "context"
    "fmt"
    "log"
    "strings"
    "sync"

    "github.com/cinephoria/cinephoria-go/internal/api"
    "github.com/cinephoria/cinephoria-go/internal/model"
    "github.com/cinephoria/cinephoria-go/internal/notify"
    "github.com/cinephoria/cinephoria-go/internal/store"
)

// ReservationURL is the route the visitor returns to after the login
// detour.
const ReservationURL = "/reservation"

// Phase is where the reservation flow currently stands.
type Phase int

const (
    PhaseEmpty          Phase = iota // no screening chosen
    PhaseScreeningChosen             // screening picked, seats not fetched
    PhaseSeatsLoading                // availability fetch in flight
    PhaseSeatsReady                  // availability known (possibly zero seats)
    PhaseCountChosen                 // seat-count target set
    PhaseSelecting                   // some but not all seats picked
    PhaseComplete                    // selection full, ready to confirm
)

// API is the slice of the REST client the coordinator needs.
type API interface {
    ScreeningSeats(ctx context.Context, screeningID uint64) ([]model.Seat, error)
    Reserve(ctx context.Context, req api.ReserveRequest) (api.ReserveResult, error)
}

// Sessions is the slice of the auth session the coordinator needs.
type Sessions interface {
    CurrentState() model.Session
    Subscribe(ctx context.Context) <-chan model.Session
}

// Redirect tells the caller where to send an anonymous visitor who
// tried to confirm.  Either target resumes at ReturnURL afterwards.
type Redirect struct {
    LoginPath    string
    RegisterPath string
    ReturnURL    string
}

// Outcome is the result of Confirm: either the booking went through,
// or the visitor must authenticate first.
type Outcome struct {
    Confirmed     bool
    ReservationID uint64
    Redirect      *Redirect
}

// Coordinator is the reservation workflow state machine.  All state
// is guarded by mu; API calls happen outside the lock so a slow fetch
// never freezes the rest of the client.
type Coordinator struct {
    api      API
    sessions Sessions
    drafts   store.DraftStore
    notifier notify.Notifier

    mu        sync.Mutex
    phase     Phase
    screening *model.ExtendedScreening
    seats     []model.Seat
    seatCount int
    selected  []model.Seat
    total     float64

    loadGen   uint64 // invalidates in-flight seat fetches
    confirmed bool   // a booking succeeded for the last draft
    lastResID uint64
}

// New builds a Coordinator in the empty phase.
func New(apiClient API, sessions Sessions, drafts store.DraftStore, notifier notify.Notifier) *Coordinator {
    return &Coordinator{
        api:      apiClient,
        sessions: sessions,
        drafts:   drafts,
        notifier: notifier,
        phase:    PhaseEmpty,
    }
}

// Phase returns the current workflow phase.
func (c *Coordinator) Phase() Phase {
    c.mu.Lock()
    defer c.mu.Unlock()
    return c.phase
}

// Screening returns the active screening, nil when none is chosen.
func (c *Coordinator) Screening() *model.ExtendedScreening {
    c.mu.Lock()
    defer c.mu.Unlock()
    if c.screening == nil {
        return nil
    }
    sc := *c.screening
    return &sc
}

// Seats returns the last fetched availability snapshot.
func (c *Coordinator) Seats() []model.Seat {
    c.mu.Lock()
    defer c.mu.Unlock()
    return append([]model.Seat(nil), c.seats...)
}

// SeatCount returns the seat-count target, zero when unset.
func (c *Coordinator) SeatCount() int {
    c.mu.Lock()
    defer c.mu.Unlock()
    return c.seatCount
}

// Selected returns the seats picked so far.
func (c *Coordinator) Selected() []model.Seat {
    c.mu.Lock()
    defer c.mu.Unlock()
    return append([]model.Seat(nil), c.selected...)
}

// SelectedLabels returns the display labels of the selection, joined
// the way the draft stores them ("A1, A2").
func (c *Coordinator) SelectedLabels() string {
    c.mu.Lock()
    defer c.mu.Unlock()
    return joinLabels(c.selected)
}

// Total returns the computed price, zero until the selection is
// complete.
func (c *Coordinator) Total() float64 {
    c.mu.Lock()
    defer c.mu.Unlock()
    return c.total
}

// SelectScreening starts a fresh draft on the given screening.  Seat
// count, seat selection and total are always reset, and any in-flight
// seat fetch for the previous screening is invalidated.
func (c *Coordinator) SelectScreening(screening model.ExtendedScreening) {
    c.mu.Lock()
    defer c.mu.Unlock()
    sc := screening
    c.screening = &sc
    c.seats = nil
    c.seatCount = 0
    c.selected = nil
    c.total = 0
    c.confirmed = false
    c.lastResID = 0
    c.loadGen++
    c.phase = PhaseScreeningChosen
}

// LoadSeats fetches the availability snapshot for the active
// screening.  If the visitor switches screenings while the fetch is
// in flight, the late result is discarded and the state is left to
// whatever the new screening's own fetch produces.  A fetch failure
// leaves the flow on the screening step with no seats; it is never
// fatal.
func (c *Coordinator) LoadSeats(ctx context.Context) error {
    c.mu.Lock()
    if c.screening == nil {
        c.mu.Unlock()
        return fmt.Errorf("no screening selected")
    }
    screeningID := c.screening.ID
    gen := c.loadGen
    c.phase = PhaseSeatsLoading
    c.mu.Unlock()

    seats, err := c.api.ScreeningSeats(ctx, screeningID)

    c.mu.Lock()
    defer c.mu.Unlock()
    if gen != c.loadGen {
        // The visitor moved on to another screening; this response is
        // for an abandoned one.
        return nil
    }
    if err != nil {
        c.seats = nil
        c.phase = PhaseScreeningChosen
        return fmt.Errorf("load seats for screening %d: %w", screeningID, err)
    }
    c.seats = seats
    c.phase = PhaseSeatsReady
    return nil
}

// availableCount counts unreserved seats in the snapshot.  Callers
// hold mu.
func (c *Coordinator) availableCount() int {
    n := 0
    for _, s := range c.seats {
        if !s.IsReserved {
            n++
        }
    }
    return n
}

// ChooseSeatCount sets the seat-count target.  When fewer unreserved
// seats exist than requested, the transition is rejected: the state
// is left unchanged and a capacity warning goes to the notifier.  The
// return value reports whether the count was accepted.
func (c *Coordinator) ChooseSeatCount(n int) bool {
    c.mu.Lock()
    if c.phase != PhaseSeatsReady || n <= 0 {
        c.mu.Unlock()
        return false
    }
    if avail := c.availableCount(); avail < n {
        c.mu.Unlock()
        c.notifier.Notify(fmt.Sprintf("Only %d seats are still available for this screening.", avail))
        return false
    }
    c.seatCount = n
    c.selected = nil
    for i := range c.seats {
        c.seats[i].IsSelected = false
    }
    c.total = 0
    c.phase = PhaseCountChosen
    c.mu.Unlock()
    return true
}

// ToggleSeat selects or deselects a seat by id.  Reserved seats and
// unknown ids are silently ignored, as is an attempt to select past
// the target count.  Completing the selection computes the total;
// breaking it clears the total again.
func (c *Coordinator) ToggleSeat(seatID uint64) {
    c.mu.Lock()
    defer c.mu.Unlock()
    if c.seatCount == 0 || (c.phase != PhaseCountChosen && c.phase != PhaseSelecting && c.phase != PhaseComplete) {
        return
    }

    // Deselect when already selected.
    for i, sel := range c.selected {
        if sel.ID == seatID {
            c.selected = append(c.selected[:i], c.selected[i+1:]...)
            c.markSeat(seatID, false)
            c.total = 0
            c.phase = PhaseSelecting
            return
        }
    }

    if len(c.selected) >= c.seatCount {
        return
    }
    for i := range c.seats {
        if c.seats[i].ID != seatID {
            continue
        }
        if c.seats[i].IsReserved {
            return
        }
        c.seats[i].IsSelected = true
        c.selected = append(c.selected, c.seats[i])
        if len(c.selected) == c.seatCount {
            c.total = float64(c.seatCount) * c.screening.UnitPrice
            c.phase = PhaseComplete
        } else {
            c.phase = PhaseSelecting
        }
        return
    }
}

// markSeat sets the draft-local selection flag on the availability
// snapshot.  Callers hold mu.
func (c *Coordinator) markSeat(seatID uint64, selected bool) {
    for i := range c.seats {
        if c.seats[i].ID == seatID {
            c.seats[i].IsSelected = selected
            return
        }
    }
}

// Confirm finishes the draft.  An authenticated visitor books
// immediately; an anonymous one gets the draft persisted and a
// redirect target to authenticate, after which the draft is restored
// and Confirm can be called again.  A repeated Confirm after a
// successful booking issues no second request.
func (c *Coordinator) Confirm(ctx context.Context) (Outcome, error) {
    c.mu.Lock()
    if c.confirmed {
        out := Outcome{Confirmed: true, ReservationID: c.lastResID}
        c.mu.Unlock()
        return out, nil
    }
    if c.phase != PhaseComplete || c.screening == nil {
        c.mu.Unlock()
        return Outcome{}, fmt.Errorf("reservation is not complete")
    }

    if !c.sessions.CurrentState().Authenticated {
        draft := c.draftLocked()
        c.mu.Unlock()

        // Serialize first; the in-memory draft is only let go once the
        // durable copy exists.  A failed save leaves the selection
        // intact so the visitor can retry or confirm another way.
        if err := c.drafts.Save(draft); err != nil {
            return Outcome{}, fmt.Errorf("persist draft: %w", err)
        }

        c.mu.Lock()
        c.screening = nil
        c.phase = PhaseEmpty
        c.mu.Unlock()
        return Outcome{Redirect: &Redirect{
            LoginPath:    "/login-client",
            RegisterPath: "/register-client",
            ReturnURL:    ReservationURL,
        }}, nil
    }

    req := api.ReserveRequest{ScreeningID: c.screening.ID}
    for _, s := range c.selected {
        req.SeatIDs = append(req.SeatIDs, s.ID)
    }
    c.mu.Unlock()

    res, err := c.api.Reserve(ctx, req)
    if err != nil {
        // The draft stays put so the visitor can retry.  Conflicts
        // carry the server's own wording.
        return Outcome{}, fmt.Errorf("booking failed: %w", err)
    }

    c.mu.Lock()
    c.confirmed = true
    c.lastResID = res.ReservationID
    c.screening = nil
    c.seats = nil
    c.seatCount = 0
    c.selected = nil
    c.total = 0
    c.phase = PhaseEmpty
    c.mu.Unlock()

    if err := c.drafts.Clear(); err != nil {
        log.Printf("reservation: clear durable draft: %v", err)
    }
    return Outcome{Confirmed: true, ReservationID: res.ReservationID}, nil
}

// draftLocked assembles the durable draft from the in-memory state.
// Callers hold mu.
func (c *Coordinator) draftLocked() model.ReservationDraft {
    return model.ReservationDraft{
        CinemaID:           c.screening.CinemaID,
        FilmID:             c.screening.FilmID,
        ScreeningID:        c.screening.ID,
        SeatCount:          c.seatCount,
        SelectedSeats:      append([]model.Seat(nil), c.selected...),
        SelectedSeatLabels: joinLabels(c.selected),
        SelectedScreening:  []model.ExtendedScreening{*c.screening},
    }
}

// RestoreIfPending merges the durable draft back into memory and
// clears the slot.  It returns whether a draft was restored.  With no
// durable draft present it is a no-op, which is what makes the
// restore exactly-once: the first caller after login wins and every
// later attempt finds the slot empty.
func (c *Coordinator) RestoreIfPending() (bool, error) {
    draft, err := c.drafts.Load()
    if err != nil {
        return false, fmt.Errorf("load draft: %w", err)
    }
    if draft == nil {
        return false, nil
    }
    if err := c.drafts.Clear(); err != nil {
        log.Printf("reservation: clear restored draft: %v", err)
    }

    c.mu.Lock()
    defer c.mu.Unlock()
    sc := draft.Screening()
    if sc == nil {
        return false, nil
    }
    screening := *sc
    c.screening = &screening
    c.seats = nil
    c.seatCount = draft.SeatCount
    c.selected = append([]model.Seat(nil), draft.SelectedSeats...)
    c.confirmed = false
    c.lastResID = 0
    if c.seatCount > 0 && len(c.selected) == c.seatCount {
        c.total = float64(c.seatCount) * screening.UnitPrice
        c.phase = PhaseComplete
    } else {
        c.total = 0
        c.phase = PhaseSelecting
    }
    return true, nil
}

// Watch restores a pending draft whenever the session transitions
// from anonymous to authenticated.  It blocks until ctx is cancelled
// and is meant to run in its own goroutine for the life of the
// client.
func (c *Coordinator) Watch(ctx context.Context) {
    sub := c.sessions.Subscribe(ctx)
    wasAuthenticated := false
    for state := range sub {
        if state.Authenticated && !wasAuthenticated {
            if _, err := c.RestoreIfPending(); err != nil {
                log.Printf("reservation: restore after login: %v", err)
            }
        }
        wasAuthenticated = state.Authenticated
    }
}

func joinLabels(seats []model.Seat) string {
    labels := make([]string, len(seats))
    for i, s := range seats {
        labels[i] = s.Label()
    }
    return strings.Join(labels, ", ")
}
