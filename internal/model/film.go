package model

// Cinema is a venue where screenings take place.  The client only
// needs the identifier and display fields; venue administration lives
// server-side.
//
// Fields:
//  ID      – primary identifier.
//  Name    – display name of the venue.
//  City    – city the venue is located in.
//  Address – street address shown on the cinema card.
type Cinema struct {
    ID      uint64 `json:"cinemaId"`
    Name    string `json:"name"`
    City    string `json:"city"`
    Address string `json:"address"`
}

// Film is a movie on the current program.  DurationMinutes feeds the
// screening end-time computation.
//
// Fields:
//  ID              – primary identifier.
//  Title           – film title.
//  Description     – synopsis shown on the film card.
//  DurationMinutes – running time, used to derive screening end times.
//  MinimumAge      – age rating.
//  Favorite        – whether the programmers flagged it as a staff pick.
//  Screenings      – upcoming screenings, present on GET /film/{id}.
type Film struct {
    ID              uint64      `json:"filmId"`
    Title           string      `json:"title"`
    Description     string      `json:"description"`
    DurationMinutes int         `json:"duration"`
    MinimumAge      int         `json:"minimumAge"`
    Favorite        bool        `json:"favorite"`
    Screenings      []Screening `json:"screenings,omitempty"`
}
