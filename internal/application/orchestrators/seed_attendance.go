package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"attendseed/internal/adapters/docstore"
	"attendseed/internal/application/randgen"
	"attendseed/internal/domain/attendance"
	"attendseed/internal/domain/branch"
	"attendseed/internal/domain/user"
)

// Clock-time constants: check-in around 09:00 (±20m), check-out around
// 17:00 (±30m), absences stamped at 09:00 sharp.
const (
	checkInHour      = 9
	checkInVariance  = 20
	checkOutHour     = 17
	checkOutVariance = 30
)

// Distance sample range in meters for present records.
const (
	distanceMin = 5
	distanceMax = 80
)

// Weekly-model weight factors: weekends halve the presence probability, and
// a tenth of the non-present band becomes a partial day (only an in or only
// an out record).
const (
	weekendPresenceFactor = 0.5
	partialShare          = 0.1
)

// AttendanceDeps holds what attendance seeding needs.
type AttendanceDeps struct {
	Store attendanceStore
	Rand  *randgen.Generator
}

type attendanceStore interface {
	Batch() docstore.Batch
}

// AttendanceParams configures one attendance seeding run.
type AttendanceParams struct {
	Dates       []time.Time // from daterange; already future-filtered
	PresentProb float64
	Model       string // attendance.ModelSimple or attendance.ModelWeekly
	Geo         branch.Geo
	Now         time.Time
	// Progress, when non-nil, is called after each user's batch commits.
	Progress func(done, total int)
}

// ExecuteSeedAttendance generates attendance documents for every (user, day)
// pair and commits them in one batch per user, so each user's history for
// the run lands atomically (to the extent the store driver supports it).
// POST: Returns the total number of documents committed
func ExecuteSeedAttendance(ctx context.Context, deps AttendanceDeps, params AttendanceParams, users []user.User) (int, error) {
	total := 0
	for i, u := range users {
		batch := deps.Store.Batch()
		for _, day := range params.Dates {
			for _, rec := range dayRecords(deps.Rand, u, day, params) {
				if err := rec.Validate(); err != nil {
					return total, fmt.Errorf("attendance %s: %w", rec.DocID(), err)
				}
				batch.Set(docstore.CollectionAttendance, rec.DocID(), rec.Doc(), true)
			}
		}
		n, err := batch.Commit(ctx)
		if err != nil {
			return total, fmt.Errorf("commit attendance for %s: %w", u.Code, err)
		}
		total += n
		if params.Progress != nil {
			params.Progress(i+1, len(users))
		}
	}

	slog.Info("seed_event", "event", "attendance_seeded",
		"users", len(users), "days", len(params.Dates), "documents", total, "model", params.Model)
	return total, nil
}

// dayRecords rolls presence for one (user, day) pair and emits its records.
//
// Simple model: one roll against PresentProb decides between an in/out pair
// and a single absent record.
// Weekly model: a three-way roll (present / partial / absent) whose weights
// depend on whether the day is a weekend; partial emits exactly one of in
// or out, chosen with equal probability.
// INVARIANT: Simple model yields exactly one absent record or exactly one
// in plus one out record, never both, never neither
func dayRecords(g *randgen.Generator, u user.User, day time.Time, params AttendanceParams) []attendance.Record {
	present := params.PresentProb
	partial := 0.0
	if params.Model == attendance.ModelWeekly {
		partial = partialShare * (1 - params.PresentProb)
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			present = params.PresentProb * weekendPresenceFactor
		}
	}

	roll := g.Float()
	switch {
	case roll < present:
		return []attendance.Record{
			presenceRecord(g, u, day, attendance.TypeIn, params),
			presenceRecord(g, u, day, attendance.TypeOut, params),
		}
	case roll < present+partial:
		t := attendance.TypeIn
		if g.Float() < 0.5 {
			t = attendance.TypeOut
		}
		return []attendance.Record{presenceRecord(g, u, day, t, params)}
	default:
		return []attendance.Record{{
			UserID:     u.Code,
			UserName:   u.Name,
			BranchID:   u.BranchID,
			BranchName: u.BranchName,
			ShiftID:    u.ShiftID,
			LocalDay:   day.Format(attendance.DayFormat),
			Type:       attendance.TypeAbsent,
			At:         time.Date(day.Year(), day.Month(), day.Day(), checkInHour, 0, 0, 0, day.Location()),
			CreatedAt:  params.Now,
		}}
	}
}

// presenceRecord builds one in or out record with a jittered clock time,
// the seeded branch geolocation and a random distance sample.
func presenceRecord(g *randgen.Generator, u user.User, day time.Time, recordType string, params AttendanceParams) attendance.Record {
	at := g.Clock(day, checkInHour, checkInVariance)
	if recordType == attendance.TypeOut {
		at = g.Clock(day, checkOutHour, checkOutVariance)
	}
	return attendance.Record{
		UserID:     u.Code,
		UserName:   u.Name,
		BranchID:   u.BranchID,
		BranchName: u.BranchName,
		ShiftID:    u.ShiftID,
		LocalDay:   day.Format(attendance.DayFormat),
		Type:       recordType,
		At:         at,
		Lat:        params.Geo.Lat,
		Lng:        params.Geo.Lng,
		Distance:   g.IntBetween(distanceMin, distanceMax),
		CreatedAt:  params.Now,
	}
}
