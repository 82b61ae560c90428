package api

import (
    "context"
    "strconv"

    "github.com/cinephoria/cinephoria-go/internal/model"
)

// Films lists the current program.  Screenings are not included here;
// fetch a single film for those.
func (c *Client) Films(ctx context.Context) ([]model.Film, error) {
    var films []model.Film
    if err := c.get(ctx, "/film", &films); err != nil {
        return nil, err
    }
    return films, nil
}

// Film fetches one film together with its upcoming screenings.
func (c *Client) Film(ctx context.Context, id uint64) (model.Film, error) {
    var film model.Film
    if err := c.get(ctx, joinPath("film", strconv.FormatUint(id, 10)), &film); err != nil {
        return model.Film{}, err
    }
    return film, nil
}

// Room fetches a room and its quality tier, needed to price and label
// a screening.
func (c *Client) Room(ctx context.Context, id uint64) (model.Room, error) {
    var room model.Room
    if err := c.get(ctx, joinPath("rooms", strconv.FormatUint(id, 10)), &room); err != nil {
        return model.Room{}, err
    }
    return room, nil
}

// ScreeningSeats fetches the seat availability snapshot for a
// screening.  The result reflects server state at fetch time only;
// the server remains the authority on double booking.
func (c *Client) ScreeningSeats(ctx context.Context, screeningID uint64) ([]model.Seat, error) {
    var seats []model.Seat
    p := joinPath("screenings", strconv.FormatUint(screeningID, 10), "seats")
    if err := c.get(ctx, p, &seats); err != nil {
        return nil, err
    }
    return seats, nil
}
