// Package catalog arranges fetched seats for display: row grouping,
// labels, and the visual class of each seat in the picker.
package catalog

import (
    "sort"

    "github.com/cinephoria/cinephoria-go/internal/model"
)

// Class is how a seat is rendered in the picker.
type Class string

const (
    ClassReserved  Class = "reserved"  // already booked, never clickable
    ClassSelected  Class = "selected"  // part of the current draft
    ClassPmr       Class = "pmr"       // reduced-mobility seat, free
    ClassDisabled  Class = "disabled"  // free but selection cap reached
    ClassAvailable Class = "available" // free and selectable
)

// Row is one display row of the seat map.
type Row struct {
    Label string       // row letter
    Seats []model.Seat // seats sorted by number
}

// LabelFor returns the display label of a seat ("A5").
func LabelFor(seat model.Seat) string {
    return seat.Label()
}

// GroupByRow arranges seats into rows sorted lexicographically, with
// the seats of each row sorted numerically.  The input is not
// modified.
func GroupByRow(seats []model.Seat) []Row {
    byRow := make(map[string][]model.Seat)
    for _, s := range seats {
        byRow[s.Row] = append(byRow[s.Row], s)
    }
    labels := make([]string, 0, len(byRow))
    for label := range byRow {
        labels = append(labels, label)
    }
    sort.Strings(labels)

    rows := make([]Row, 0, len(labels))
    for _, label := range labels {
        rowSeats := append([]model.Seat(nil), byRow[label]...)
        sort.Slice(rowSeats, func(i, j int) bool {
            return rowSeats[i].Number < rowSeats[j].Number
        })
        rows = append(rows, Row{Label: label, Seats: rowSeats})
    }
    return rows
}

// Classify returns the display class of a seat given the current
// selection and the selection cap.  Precedence is fixed: reserved
// beats selected beats pmr beats disabled beats available.  A
// selected seat stays "selected" even past the cap.
func Classify(seat model.Seat, selection []model.Seat, cap int) Class {
    if seat.IsReserved {
        return ClassReserved
    }
    for _, sel := range selection {
        if sel.ID == seat.ID {
            return ClassSelected
        }
    }
    if seat.IsPmr {
        return ClassPmr
    }
    if cap > 0 && len(selection) >= cap {
        return ClassDisabled
    }
    return ClassAvailable
}
