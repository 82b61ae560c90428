package model

import "time"

// Screening is a scheduled showing of a film in a room, as returned by
// the listing endpoints.  Times arrive as a single start timestamp; the
// end time is derived later from the film duration.
//
// Fields:
//  ID            – primary identifier.
//  Date          – when the screening starts.
//  Status        – server-side state (e.g. "active").
//  CinemaID      – venue hosting the screening.
//  FilmID        – film being shown.
//  RoomID        – room the screening takes place in.
type Screening struct {
    ID       uint64    `json:"screeningId"`
    Date     time.Time `json:"screeningDate"`
    Status   string    `json:"status"`
    CinemaID uint64    `json:"cinemaId"`
    FilmID   uint64    `json:"filmId"`
    RoomID   uint64    `json:"roomId"`
}

// ExtendedScreening is a screening enriched with everything the
// reservation flow needs to display and price it: clock times in the
// venue's local time zone, the room's quality label and unit price,
// and the room number.  It is derived data, recomputed on each
// enrichment and never mutated in place.
//
// Fields mirror Screening plus:
//  StartTime    – start clock time, 24-hour venue-local ("20:15").
//  EndTime      – end clock time (start + film duration).
//  QualityLabel – projection quality of the room ("4DX", "IMAX", ...).
//  UnitPrice    – price per seat for this screening, in euros.
//  RoomNumber   – display number of the room.
type ExtendedScreening struct {
    ID           uint64    `json:"screeningId"`
    Date         time.Time `json:"screeningDate"`
    Status       string    `json:"status"`
    CinemaID     uint64    `json:"cinemaId"`
    FilmID       uint64    `json:"filmId"`
    RoomID       uint64    `json:"roomId"`
    StartTime    string    `json:"startTime"`
    EndTime      string    `json:"endTime"`
    QualityLabel string    `json:"qualityLabel"`
    UnitPrice    float64   `json:"unitPrice"`
    RoomNumber   uint32    `json:"roomNumber"`
}
