// Package enrich turns raw screenings into presentation-ready ones:
// venue-local start and end clock times, the room's quality label and
// the unit price.  A screening whose room or pricing tier cannot be
// resolved is simply not displayable and is filtered out, never a
// batch failure.
package enrich

import (
    "context"
    "log"
    "time"

    "github.com/cinephoria/cinephoria-go/internal/model"
)

// clockLayout is the 24-hour venue-local clock format.
const clockLayout = "15:04"

// RoomFetcher is the slice of the API client the enricher needs.
type RoomFetcher interface {
    Room(ctx context.Context, id uint64) (model.Room, error)
}

// Enricher computes ExtendedScreenings.  The time zone is the venue's
// local zone; all clock times are formatted in it.
type Enricher struct {
    rooms RoomFetcher
    zone  *time.Location
}

// New builds an Enricher for the named IANA zone.  An unknown zone
// falls back to UTC so the client keeps working with shifted clocks
// rather than not at all.
func New(rooms RoomFetcher, zoneName string) *Enricher {
    zone, err := time.LoadLocation(zoneName)
    if err != nil {
        log.Printf("enrich: unknown time zone %q, using UTC", zoneName)
        zone = time.UTC
    }
    return &Enricher{rooms: rooms, zone: zone}
}

// Enrich resolves the screening's room and pricing tier and computes
// the derived fields.  It returns nil when the room or its tier is
// missing; callers exclude such screenings from display.
func (e *Enricher) Enrich(ctx context.Context, screening model.Screening, filmDurationMinutes int) (*model.ExtendedScreening, error) {
    room, err := e.rooms.Room(ctx, screening.RoomID)
    if err != nil {
        return nil, err
    }
    if room.Quality == nil {
        return nil, nil
    }

    start := screening.Date.In(e.zone)
    end := start.Add(time.Duration(filmDurationMinutes) * time.Minute)

    return &model.ExtendedScreening{
        ID:           screening.ID,
        Date:         screening.Date,
        Status:       screening.Status,
        CinemaID:     screening.CinemaID,
        FilmID:       screening.FilmID,
        RoomID:       screening.RoomID,
        StartTime:    start.Format(clockLayout),
        EndTime:      end.Format(clockLayout),
        QualityLabel: room.Quality.Label,
        UnitPrice:    room.Quality.Price,
        RoomNumber:   room.Number,
    }, nil
}

// EnrichAll enriches each screening independently and joins the
// results.  A screening that fails to enrich, for whatever reason,
// is logged and dropped; the rest of the batch goes through.
func (e *Enricher) EnrichAll(ctx context.Context, screenings []model.Screening, filmDurationMinutes int) []model.ExtendedScreening {
    out := make([]model.ExtendedScreening, 0, len(screenings))
    for _, sc := range screenings {
        ext, err := e.Enrich(ctx, sc, filmDurationMinutes)
        if err != nil {
            log.Printf("enrich: screening %d: %v", sc.ID, err)
            continue
        }
        if ext == nil {
            continue
        }
        out = append(out, *ext)
    }
    return out
}
