package model

// ReservationDraft is the one entity the client persists across
// navigations: the in-progress reservation written to durable storage
// when an anonymous visitor is sent through login and read back,
// exactly once, after authentication succeeds.
//
// Fields:
//  CinemaID           – venue of the draft.
//  FilmID             – film of the draft.
//  ScreeningID        – the chosen screening.
//  SeatCount          – how many seats the visitor asked for.
//  SelectedSeats      – seats picked so far, never more than SeatCount
//                       and never containing a reserved seat.
//  SelectedSeatLabels – comma-joined display labels ("A1, A2").
//  SelectedScreening  – snapshot of the enriched screening; kept as a
//                       single-element list for continuity with the
//                       stored format.
type ReservationDraft struct {
    CinemaID           uint64              `json:"cinemaId"`
    FilmID             uint64              `json:"filmId"`
    ScreeningID        uint64              `json:"screeningId"`
    SeatCount          int                 `json:"seatCount"`
    SelectedSeats      []Seat              `json:"selectedSeats"`
    SelectedSeatLabels string              `json:"selectedSeatLabels"`
    SelectedScreening  []ExtendedScreening `json:"selectedScreening"`
}

// Screening returns the snapshot screening, or nil when the draft has
// none.  The slice holds at most one element.
func (d *ReservationDraft) Screening() *ExtendedScreening {
    if d == nil || len(d.SelectedScreening) == 0 {
        return nil
    }
    return &d.SelectedScreening[0]
}
