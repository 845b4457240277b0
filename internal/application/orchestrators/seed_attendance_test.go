package orchestrators

import (
	"context"
	"testing"
	"time"

	"attendseed/internal/adapters/docstore"
	"attendseed/internal/application/randgen"
	"attendseed/internal/domain/attendance"
	"attendseed/internal/domain/branch"
	"attendseed/internal/domain/user"
)

func attendanceUsers(n int) []user.User {
	users := make([]user.User, 0, n)
	for i := 1; i <= n; i++ {
		users = append(users, user.User{
			Code:       user.Code(i),
			Name:       "Test User",
			BranchID:   branch.DefaultID,
			BranchName: branch.DefaultName,
			ShiftID:    "A",
		})
	}
	return users
}

func attendanceParams(days int, presentProb float64, model string) AttendanceParams {
	dates := make([]time.Time, 0, days)
	for i := 0; i < days; i++ {
		dates = append(dates, time.Date(2025, 3, 3+i, 0, 0, 0, 0, time.Local))
	}
	return AttendanceParams{
		Dates:       dates,
		PresentProb: presentProb,
		Model:       model,
		Geo:         branch.Geo{Lat: branch.DefaultLat, Lng: branch.DefaultLng},
		Now:         refNow,
	}
}

// TestSeedAttendance_AllPresent verifies PresentProb=1 emits exactly one
// in/out pair per (user, day) and nothing else.
func TestSeedAttendance_AllPresent(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	users := attendanceUsers(3)
	params := attendanceParams(4, 1.0, attendance.ModelSimple)

	total, err := ExecuteSeedAttendance(ctx,
		AttendanceDeps{Store: store, Rand: randgen.New(1)}, params, users)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := 3 * 4 * 2 // users x days x (in + out)
	if total != want {
		t.Errorf("expected %d documents, got %d", want, total)
	}
	if store.Count(docstore.CollectionAttendance) != want {
		t.Errorf("expected %d stored documents, got %d", want, store.Count(docstore.CollectionAttendance))
	}

	for _, u := range users {
		for _, day := range params.Dates {
			local := day.Format(attendance.DayFormat)
			in, err := store.Get(ctx, docstore.CollectionAttendance, u.Code+"_"+local+"_in")
			if err != nil {
				t.Fatalf("missing in record for %s on %s", u.Code, local)
			}
			if _, err := store.Get(ctx, docstore.CollectionAttendance, u.Code+"_"+local+"_out"); err != nil {
				t.Fatalf("missing out record for %s on %s", u.Code, local)
			}
			if _, err := store.Get(ctx, docstore.CollectionAttendance, u.Code+"_"+local+"_absent"); err == nil {
				t.Errorf("absent record present alongside in/out for %s on %s", u.Code, local)
			}
			rec := attendance.FromDoc(in)
			if rec.Lat != branch.DefaultLat || rec.Lng != branch.DefaultLng {
				t.Errorf("in record missing branch geo: %+v", rec)
			}
			if rec.Distance < 5 || rec.Distance > 80 {
				t.Errorf("distance out of range: %d", rec.Distance)
			}
		}
	}
}

// TestSeedAttendance_AllAbsent verifies PresentProb=0 emits one absent record
// per (user, day), stamped at 09:00 with no geolocation.
func TestSeedAttendance_AllAbsent(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	users := attendanceUsers(2)
	params := attendanceParams(3, 0.0, attendance.ModelSimple)

	total, err := ExecuteSeedAttendance(ctx,
		AttendanceDeps{Store: store, Rand: randgen.New(1)}, params, users)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := 2 * 3
	if total != want {
		t.Errorf("expected %d documents, got %d", want, total)
	}

	for _, u := range users {
		for _, day := range params.Dates {
			local := day.Format(attendance.DayFormat)
			d, err := store.Get(ctx, docstore.CollectionAttendance, u.Code+"_"+local+"_absent")
			if err != nil {
				t.Fatalf("missing absent record for %s on %s", u.Code, local)
			}
			for _, key := range []string{"lat", "lng", "distance"} {
				if _, ok := d[key]; ok {
					t.Errorf("absent document for %s carries %q", u.Code, key)
				}
			}
			rec := attendance.FromDoc(d)
			if rec.At.Hour() != 9 || rec.At.Minute() != 0 {
				t.Errorf("absent timestamp not 09:00 sharp: %v", rec.At)
			}
		}
	}
}

// TestSeedAttendance_ExactlyOneOutcomePerDay verifies the day invariant under
// a mixed probability: every (user, day) pair has either an in/out pair or a
// single absent record, never both and never neither.
func TestSeedAttendance_ExactlyOneOutcomePerDay(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	users := attendanceUsers(5)
	params := attendanceParams(6, 0.5, attendance.ModelSimple)

	if _, err := ExecuteSeedAttendance(ctx,
		AttendanceDeps{Store: store, Rand: randgen.New(7)}, params, users); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, u := range users {
		for _, day := range params.Dates {
			local := day.Format(attendance.DayFormat)
			_, inErr := store.Get(ctx, docstore.CollectionAttendance, u.Code+"_"+local+"_in")
			_, outErr := store.Get(ctx, docstore.CollectionAttendance, u.Code+"_"+local+"_out")
			_, absErr := store.Get(ctx, docstore.CollectionAttendance, u.Code+"_"+local+"_absent")

			present := inErr == nil && outErr == nil
			absent := absErr == nil
			if present == absent {
				t.Errorf("%s on %s: present=%v absent=%v, want exactly one", u.Code, local, present, absent)
			}
			if (inErr == nil) != (outErr == nil) {
				t.Errorf("%s on %s: unpaired in/out in simple model", u.Code, local)
			}
		}
	}
}

// TestSeedAttendance_WeeklyModelPartialDays verifies the weekly model can
// emit single in-or-out records and still covers every day with at least one
// record.
func TestSeedAttendance_WeeklyModelPartialDays(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	users := attendanceUsers(25)
	// Mar 3 2025 is a Monday; include a weekend by spanning 7 days
	params := attendanceParams(7, 0.5, attendance.ModelWeekly)

	if _, err := ExecuteSeedAttendance(ctx,
		AttendanceDeps{Store: store, Rand: randgen.New(3)}, params, users); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sawPartial := false
	for _, u := range users {
		for _, day := range params.Dates {
			local := day.Format(attendance.DayFormat)
			_, inErr := store.Get(ctx, docstore.CollectionAttendance, u.Code+"_"+local+"_in")
			_, outErr := store.Get(ctx, docstore.CollectionAttendance, u.Code+"_"+local+"_out")
			_, absErr := store.Get(ctx, docstore.CollectionAttendance, u.Code+"_"+local+"_absent")

			clockRecords := 0
			if inErr == nil {
				clockRecords++
			}
			if outErr == nil {
				clockRecords++
			}
			if absErr == nil && clockRecords > 0 {
				t.Errorf("%s on %s: absent alongside clock records", u.Code, local)
			}
			if absErr != nil && clockRecords == 0 {
				t.Errorf("%s on %s: no record at all", u.Code, local)
			}
			if clockRecords == 1 {
				sawPartial = true
			}
		}
	}
	if !sawPartial {
		t.Error("expected at least one partial day over 175 user-days")
	}
}

// TestSeedAttendance_ProgressCallback verifies one callback per user batch.
func TestSeedAttendance_ProgressCallback(t *testing.T) {
	store := docstore.NewMemoryStore()
	users := attendanceUsers(4)
	params := attendanceParams(2, 1.0, attendance.ModelSimple)

	var calls []int
	params.Progress = func(done, total int) {
		if total != 4 {
			t.Errorf("progress total = %d, want 4", total)
		}
		calls = append(calls, done)
	}

	if _, err := ExecuteSeedAttendance(context.Background(),
		AttendanceDeps{Store: store, Rand: randgen.New(1)}, params, users); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(calls) != 4 || calls[0] != 1 || calls[3] != 4 {
		t.Errorf("progress calls = %v, want [1 2 3 4]", calls)
	}
}

// TestSeedAttendance_Idempotent verifies a re-run with the same outcome does
// not duplicate documents, because keys are deterministic.
func TestSeedAttendance_Idempotent(t *testing.T) {
	ctx := context.Background()
	store := docstore.NewMemoryStore()
	users := attendanceUsers(3)
	params := attendanceParams(4, 1.0, attendance.ModelSimple)
	deps := AttendanceDeps{Store: store, Rand: randgen.New(1)}

	if _, err := ExecuteSeedAttendance(ctx, deps, params, users); err != nil {
		t.Fatal(err)
	}
	first := store.Count(docstore.CollectionAttendance)

	deps.Rand = randgen.New(2)
	if _, err := ExecuteSeedAttendance(ctx, deps, params, users); err != nil {
		t.Fatal(err)
	}
	if got := store.Count(docstore.CollectionAttendance); got != first {
		t.Errorf("re-run changed document count: %d -> %d", first, got)
	}
}
