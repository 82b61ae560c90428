package api_test

import (
    "context"
    "net/http"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/cinephoria/cinephoria-go/internal/api"
    "github.com/cinephoria/cinephoria-go/internal/apitest"
    "github.com/cinephoria/cinephoria-go/internal/model"
)

func newClient(t *testing.T, srv *apitest.Server) *api.Client {
    t.Helper()
    client, err := api.NewClient(api.ClientConfig{URL: srv.URL})
    require.NoError(t, err)
    return client
}

func TestFilms(t *testing.T) {
    srv := apitest.New()
    defer srv.Close()
    srv.SetFilms(
        model.Film{ID: 12, Title: "Le Voyage", DurationMinutes: 110},
        model.Film{ID: 13, Title: "Nuit Blanche", DurationMinutes: 95},
    )

    films, err := newClient(t, srv).Films(context.Background())
    require.NoError(t, err)
    require.Len(t, films, 2)
    assert.Equal(t, "Le Voyage", films[0].Title)
}

func TestFilmNotFound(t *testing.T) {
    srv := apitest.New()
    defer srv.Close()

    _, err := newClient(t, srv).Film(context.Background(), 404)
    require.ErrorIs(t, err, api.ErrNotFound)
}

func TestLoginUnauthorized(t *testing.T) {
    srv := apitest.New()
    defer srv.Close()
    srv.TokenLogin = true

    _, err := newClient(t, srv).Login(context.Background(), model.RoleClient, api.Credentials{Email: "x", Password: "y"})
    require.ErrorIs(t, err, api.ErrUnauthorized)
}

func TestLoginUnknownRole(t *testing.T) {
    srv := apitest.New()
    defer srv.Close()

    _, err := newClient(t, srv).Login(context.Background(), model.RoleNone, api.Credentials{})
    require.Error(t, err)
}

func TestReserveCarriesIdempotencyKey(t *testing.T) {
    srv := apitest.New()
    defer srv.Close()
    srv.SetSeats(5, model.Seat{ID: 1, Row: "A", Number: 1})

    client := newClient(t, srv)
    _, err := client.Reserve(context.Background(), api.ReserveRequest{ScreeningID: 5, SeatIDs: []uint64{1}})
    require.NoError(t, err)
    _, err = client.Reserve(context.Background(), api.ReserveRequest{ScreeningID: 5, SeatIDs: []uint64{1}})
    require.NoError(t, err)

    calls := srv.ReserveCalls()
    require.Len(t, calls, 2)
    assert.NotEmpty(t, calls[0].IdempotencyKey)
    assert.NotEqual(t, calls[0].IdempotencyKey, calls[1].IdempotencyKey,
        "deliberate repeat confirms must not share a key")
}

func TestReserveConflictIsDetectable(t *testing.T) {
    srv := apitest.New()
    defer srv.Close()
    srv.FailReserve(http.StatusConflict, "seat A1 was just taken", "SEAT_TAKEN")

    _, err := newClient(t, srv).Reserve(context.Background(), api.ReserveRequest{ScreeningID: 5, SeatIDs: []uint64{1}})
    require.Error(t, err)
    assert.True(t, api.IsConflict(err))
    assert.Contains(t, err.Error(), "seat A1 was just taken", "server wording must survive")
}

func TestScreeningSeats(t *testing.T) {
    srv := apitest.New()
    defer srv.Close()
    srv.SetSeats(9,
        model.Seat{ID: 1, Row: "A", Number: 1, RoomID: 3},
        model.Seat{ID: 2, Row: "A", Number: 2, RoomID: 3, IsReserved: true},
    )

    seats, err := newClient(t, srv).ScreeningSeats(context.Background(), 9)
    require.NoError(t, err)
    require.Len(t, seats, 2)
    assert.True(t, seats[1].IsReserved)
}
