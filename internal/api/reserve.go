package api

import (
    "context"
    "net/http"

    "github.com/google/uuid"
)

// ReserveRequest is the booking confirmation body.
type ReserveRequest struct {
    ScreeningID uint64   `json:"screeningId"`
    SeatIDs     []uint64 `json:"seatIds"`
}

// ReserveResult is returned on a successful booking.
type ReserveResult struct {
    ReservationID uint64 `json:"reservationId"`
}

// Reserve confirms a booking.  Each call carries a fresh idempotency
// key so a retried request after a network failure cannot double-book
// while a deliberate second confirm still reads as a new request.
// A 409 from the server means a seat was taken between the fetch and
// the confirm; use IsConflict to detect it.
func (c *Client) Reserve(ctx context.Context, req ReserveRequest) (ReserveResult, error) {
    headers := http.Header{}
    headers.Set("Idempotency-Key", uuid.NewString())
    var res ReserveResult
    if err := c.post(ctx, "/reserve", req, &res, headers); err != nil {
        return ReserveResult{}, err
    }
    return res, nil
}
