package reservation_test

import (
    "context"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/cinephoria/cinephoria-go/internal/api"
    "github.com/cinephoria/cinephoria-go/internal/apitest"
    "github.com/cinephoria/cinephoria-go/internal/auth"
    "github.com/cinephoria/cinephoria-go/internal/enrich"
    "github.com/cinephoria/cinephoria-go/internal/model"
    "github.com/cinephoria/cinephoria-go/internal/notify"
    "github.com/cinephoria/cinephoria-go/internal/reservation"
    "github.com/cinephoria/cinephoria-go/internal/store"
)

// TestAnonymousReservationDetour walks the whole flow against the
// fake API: an anonymous visitor builds a draft for screening 55 of
// film 12 (unit price 15.50), is bounced to /login-client on confirm,
// logs in, and finds the very same draft restored with total 31.00
// before the booking goes through.
func TestAnonymousReservationDetour(t *testing.T) {
    srv := apitest.New()
    defer srv.Close()
    srv.TokenLogin = true
    srv.AddUser(apitest.User{Email: "c@example.com", PasswordHash: apitest.HashPassword("pw"), Role: model.RoleClient})

    screening := model.Screening{
        ID:       55,
        Date:     time.Date(2026, 9, 4, 18, 0, 0, 0, time.UTC),
        Status:   "active",
        CinemaID: 1,
        FilmID:   12,
        RoomID:   3,
    }
    srv.SetFilms(model.Film{ID: 12, Title: "Le Voyage", DurationMinutes: 110, Screenings: []model.Screening{screening}})
    srv.SetRoom(model.Room{ID: 3, Number: 7, CinemaID: 1, Quality: &model.Quality{ID: 2, Label: "4DX", Price: 15.5}})
    srv.SetSeats(55,
        model.Seat{ID: 1, Row: "A", Number: 1, RoomID: 3},
        model.Seat{ID: 2, Row: "A", Number: 2, RoomID: 3},
        model.Seat{ID: 3, Row: "B", Number: 1, RoomID: 3},
    )

    client, err := api.NewClient(api.ClientConfig{URL: srv.URL})
    require.NoError(t, err)
    tokens, err := store.NewFileTokenStore(t.TempDir())
    require.NoError(t, err)
    drafts, err := store.NewFileDraftStore(t.TempDir())
    require.NoError(t, err)
    sessions := auth.NewService(client, tokens)
    enricher := enrich.New(client, "Europe/Paris")
    coordinator := reservation.New(client, sessions, drafts, notify.Logger{})

    ctx := context.Background()

    // Browse: pick the screening off the enriched film listing.
    film, err := client.Film(ctx, 12)
    require.NoError(t, err)
    extended := enricher.EnrichAll(ctx, film.Screenings, film.DurationMinutes)
    require.Len(t, extended, 1)
    assert.Equal(t, 15.5, extended[0].UnitPrice)

    coordinator.SelectScreening(extended[0])
    require.NoError(t, coordinator.LoadSeats(ctx))
    require.True(t, coordinator.ChooseSeatCount(2))
    for _, seat := range coordinator.Seats() {
        if seat.Label() == "A1" || seat.Label() == "A2" {
            coordinator.ToggleSeat(seat.ID)
        }
    }
    require.Equal(t, reservation.PhaseComplete, coordinator.Phase())

    // Anonymous confirm: persisted draft plus a login redirect.
    outcome, err := coordinator.Confirm(ctx)
    require.NoError(t, err)
    require.NotNil(t, outcome.Redirect)
    assert.Equal(t, "/login-client", outcome.Redirect.LoginPath)

    // Login detour, then resume.
    _, err = sessions.LoginWithToken(ctx, model.RoleClient, api.Credentials{Email: "c@example.com", Password: "pw"})
    require.NoError(t, err)
    state, err := sessions.WaitForLogin(ctx, 2*time.Second)
    require.NoError(t, err)
    require.True(t, state.Authenticated)

    restored, err := coordinator.RestoreIfPending()
    require.NoError(t, err)
    require.True(t, restored)
    assert.Equal(t, uint64(55), coordinator.Screening().ID)
    assert.Equal(t, 2, coordinator.SeatCount())
    assert.Equal(t, "A1, A2", coordinator.SelectedLabels())
    assert.Equal(t, 31.0, coordinator.Total())

    outcome, err = coordinator.Confirm(ctx)
    require.NoError(t, err)
    assert.True(t, outcome.Confirmed)

    calls := srv.ReserveCalls()
    require.Len(t, calls, 1)
    assert.Equal(t, uint64(55), calls[0].ScreeningID)
    assert.ElementsMatch(t, []uint64{1, 2}, calls[0].SeatIDs)

    // The booked seats show as reserved on the next snapshot.
    seats, err := client.ScreeningSeats(ctx, 55)
    require.NoError(t, err)
    reserved := 0
    for _, s := range seats {
        if s.IsReserved {
            reserved++
        }
    }
    assert.Equal(t, 2, reserved)
}
