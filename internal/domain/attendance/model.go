package attendance

import (
	"errors"
	"time"

	"attendseed/internal/domain/doc"
)

// Record type constants
const (
	TypeIn     = "in"
	TypeOut    = "out"
	TypeAbsent = "absent"
)

// Presence model constants. Simple is the canonical two-outcome roll;
// Weekly adds weekend-sensitive weights and partial clock-in outcomes.
const (
	ModelSimple = "simple"
	ModelWeekly = "weekly"
)

// DayFormat is the localDay layout.
const DayFormat = "2006-01-02"

// Domain errors
var (
	ErrMissingUser = errors.New("attendance record must reference a user")
	ErrInvalidType = errors.New("attendance type must be in, out or absent")
	ErrInvalidDay  = errors.New("localDay must be a valid YYYY-MM-DD date")
	ErrMissingTime = errors.New("attendance timestamp must be set")
)

// Record holds state for one attendance event.
// in/out records carry the seeded branch geolocation and a distance sample;
// absent records carry neither.
type Record struct {
	UserID     string
	UserName   string
	BranchID   string
	BranchName string
	ShiftID    string
	LocalDay   string // YYYY-MM-DD
	Type       string
	At         time.Time
	Lat        float64
	Lng        float64
	Distance   int
	CreatedAt  time.Time
}

// DocID derives the deterministic document key for the record.
// INVARIANT: Same (user, day, type) always yields the same key, making
// re-seeding overwrite rather than duplicate
func (r *Record) DocID() string {
	return r.UserID + "_" + r.LocalDay + "_" + r.Type
}

// Validate checks if the Record has valid data.
// PRE: Record struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (r *Record) Validate() error {
	if r.UserID == "" {
		return ErrMissingUser
	}
	if r.Type != TypeIn && r.Type != TypeOut && r.Type != TypeAbsent {
		return ErrInvalidType
	}
	if _, err := time.Parse(DayFormat, r.LocalDay); err != nil {
		return ErrInvalidDay
	}
	if r.At.IsZero() {
		return ErrMissingTime
	}
	return nil
}

// Doc converts the record to a store document. Geolocation and distance
// fields are omitted entirely for absent records, not zero-valued.
func (r Record) Doc() map[string]any {
	d := map[string]any{
		"userId":     r.UserID,
		"userName":   r.UserName,
		"branchId":   r.BranchID,
		"branchName": r.BranchName,
		"shiftId":    r.ShiftID,
		"localDay":   r.LocalDay,
		"type":       r.Type,
		"at":         r.At,
		"createdAt":  r.CreatedAt,
	}
	if r.Type != TypeAbsent {
		d["lat"] = r.Lat
		d["lng"] = r.Lng
		d["distance"] = r.Distance
	}
	return d
}

// FromDoc builds a Record from a store document.
func FromDoc(d map[string]any) Record {
	return Record{
		UserID:     doc.AsString(d, "userId"),
		UserName:   doc.AsString(d, "userName"),
		BranchID:   doc.AsString(d, "branchId"),
		BranchName: doc.AsString(d, "branchName"),
		ShiftID:    doc.AsString(d, "shiftId"),
		LocalDay:   doc.AsString(d, "localDay"),
		Type:       doc.AsString(d, "type"),
		At:         doc.AsTime(d, "at"),
		Lat:        doc.AsFloat(d, "lat"),
		Lng:        doc.AsFloat(d, "lng"),
		Distance:   doc.AsInt(d, "distance"),
		CreatedAt:  doc.AsTime(d, "createdAt"),
	}
}
