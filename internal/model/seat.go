package model

import "strconv"

// Seat is one seat in a room together with its availability for the
// screening it was fetched for.  Seats are immutable once fetched
// except for IsSelected, which is draft-local state applied by the
// reservation coordinator and never sent back to the server.
//
// Fields:
//  ID         – primary identifier.
//  Row        – row letter ("A").
//  Number     – seat number within the row.
//  IsPmr      – reduced-mobility seat.
//  RoomID     – room the seat belongs to.
//  IsReserved – already booked for the fetched screening.
//  IsSelected – selected in the current draft (local only).
type Seat struct {
    ID         uint64 `json:"seatId"`
    Row        string `json:"row"`
    Number     uint32 `json:"number"`
    IsPmr      bool   `json:"isPmr"`
    RoomID     uint64 `json:"roomId"`
    IsReserved bool   `json:"isReserved"`
    IsSelected bool   `json:"-"`
}

// Label returns the display label for the seat, row followed by
// number ("A5").  Derived, never persisted.
func (s Seat) Label() string {
    return s.Row + strconv.FormatUint(uint64(s.Number), 10)
}
