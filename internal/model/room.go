package model

// Quality is the projection tier of a room.  It carries the label
// shown to visitors and the per-seat price all seats in the room are
// charged at.
//
// Fields:
//  ID    – primary identifier.
//  Label – tier name ("4K", "3D", "4DX", "IMAX").
//  Price – unit price per seat in euros.
type Quality struct {
    ID    uint64  `json:"qualityId"`
    Label string  `json:"label"`
    Price float64 `json:"price"`
}

// Room is a screening hall.  The Quality pointer may be nil when the
// server returns a room without its tier; callers must treat that as
// "cannot price this screening".
//
// Fields:
//  ID       – primary identifier.
//  Number   – display number within the cinema.
//  CinemaID – cinema the room belongs to.
//  Quality  – projection tier, nil when missing.
type Room struct {
    ID       uint64   `json:"roomId"`
    Number   uint32   `json:"number"`
    CinemaID uint64   `json:"cinemaId"`
    Quality  *Quality `json:"quality"`
}
