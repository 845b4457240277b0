package branch

import (
	"time"

	"attendseed/internal/domain/doc"
)

// Default branch constants, used when the branches collection is empty.
const (
	DefaultID           = "default-branch"
	DefaultName         = "Main Branch"
	DefaultCode         = "1"
	DefaultLat          = 31.25
	DefaultLng          = 29.97
	DefaultRadiusMeters = 150
)

// Geo is a branch location.
type Geo struct {
	Lat float64
	Lng float64
}

// Branch holds state for a physical work location.
type Branch struct {
	ID           string
	Name         string
	Code         string
	Address      string
	Geo          Geo
	RadiusMeters int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Default returns the branch persisted when no branches exist yet.
// POST: Returned branch has the fixed default ID so re-seeding is idempotent
func Default(now time.Time) Branch {
	return Branch{
		ID:           DefaultID,
		Name:         DefaultName,
		Code:         DefaultCode,
		Geo:          Geo{Lat: DefaultLat, Lng: DefaultLng},
		RadiusMeters: DefaultRadiusMeters,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Doc converts the branch to a store document.
func (b Branch) Doc() map[string]any {
	return map[string]any{
		"name":         b.Name,
		"code":         b.Code,
		"address":      b.Address,
		"geo":          map[string]any{"lat": b.Geo.Lat, "lng": b.Geo.Lng},
		"radiusMeters": b.RadiusMeters,
		"createdAt":    b.CreatedAt,
		"updatedAt":    b.UpdatedAt,
	}
}

// FromDoc builds a Branch from a store document.
// An empty stored name falls back to the document ID, so a branch is always
// displayable.
func FromDoc(id string, d map[string]any) Branch {
	name := doc.AsString(d, "name")
	if name == "" {
		name = id
	}
	geo := doc.AsMap(d, "geo")
	return Branch{
		ID:           id,
		Name:         name,
		Code:         doc.AsString(d, "code"),
		Address:      doc.AsString(d, "address"),
		Geo:          Geo{Lat: doc.AsFloat(geo, "lat"), Lng: doc.AsFloat(geo, "lng")},
		RadiusMeters: doc.AsInt(d, "radiusMeters"),
		CreatedAt:    doc.AsTime(d, "createdAt"),
		UpdatedAt:    doc.AsTime(d, "updatedAt"),
	}
}
