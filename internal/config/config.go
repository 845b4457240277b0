// Package config resolves the seeding run configuration from the
// environment and the document store credentials from their four possible
// sources. Everything fails fast: a malformed value aborts startup before
// any store writes happen.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"attendseed/internal/application/daterange"
	"attendseed/internal/domain/attendance"
)

// Store driver constants
const (
	DriverMongo  = "mongo"
	DriverSQLite = "sqlite"
	DriverMemory = "memory"
)

// Defaults
const (
	DefaultUserCount      = 20
	DefaultAttendanceDays = 7
	DefaultPresentProb    = 0.8
	DefaultSQLitePath     = "seed.db"
	DefaultUserPassword   = "attend12345!"
)

// Configuration errors
var (
	ErrBadDriver = errors.New("driver must be mongo, sqlite or memory")
	ErrBadModel  = errors.New("model must be simple or weekly")
)

// Config holds one run's settings.
type Config struct {
	UserCount      int
	Month          string // empty selects last-N-days mode
	AttendanceDays int
	SeedAttendance bool
	PresentProb    float64
	Model          string
	RandSeed       int64 // 0 means derive from the clock
	Driver         string
	SQLitePath     string
	UserPassword   string
	ReportTo       string
	ResendKey      string
	ResendFrom     string
}

// Load reads and validates configuration from the environment.
// POST: Returned config is internally consistent or an error is returned
func Load() (Config, error) {
	return load(os.Getenv)
}

// load is the testable body of Load, taking an environment lookup.
func load(getenv func(string) string) (Config, error) {
	cfg := Config{
		UserCount:      DefaultUserCount,
		AttendanceDays: DefaultAttendanceDays,
		SeedAttendance: true,
		PresentProb:    DefaultPresentProb,
		Model:          attendance.ModelSimple,
		Driver:         DriverMongo,
		SQLitePath:     DefaultSQLitePath,
		UserPassword:   DefaultUserPassword,
	}

	// EMP_COUNT wins over the legacy USERS_COUNT alias
	count := getenv("EMP_COUNT")
	if count == "" {
		count = getenv("USERS_COUNT")
	}
	if count != "" {
		n, err := strconv.Atoi(count)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("EMP_COUNT: %q is not a positive integer", count)
		}
		cfg.UserCount = n
	}

	if month := getenv("SEED_MONTH"); month != "" {
		if err := daterange.ValidateMonth(month); err != nil {
			return Config{}, fmt.Errorf("SEED_MONTH: %w", err)
		}
		cfg.Month = month
	}

	if v := getenv("SEED_ATTENDANCE"); v != "" {
		cfg.SeedAttendance = strings.ToLower(v) != "false"
	}

	if v := getenv("SEED_ATTENDANCE_DAYS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("SEED_ATTENDANCE_DAYS: %q is not a positive integer", v)
		}
		cfg.AttendanceDays = n
	}

	if v := getenv("PRESENT_PROB"); v != "" {
		p, err := strconv.ParseFloat(v, 64)
		if err != nil || p < 0 || p > 1 {
			return Config{}, fmt.Errorf("PRESENT_PROB: %q is not a probability in [0,1]", v)
		}
		cfg.PresentProb = p
	}

	if v := getenv("SEED_MODEL"); v != "" {
		if v != attendance.ModelSimple && v != attendance.ModelWeekly {
			return Config{}, fmt.Errorf("SEED_MODEL: %w", ErrBadModel)
		}
		cfg.Model = v
	}

	if v := getenv("SEED_RAND_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("SEED_RAND_SEED: %q is not an integer", v)
		}
		cfg.RandSeed = seed
	}

	if v := getenv("SEED_DRIVER"); v != "" {
		if v != DriverMongo && v != DriverSQLite && v != DriverMemory {
			return Config{}, fmt.Errorf("SEED_DRIVER: %w", ErrBadDriver)
		}
		cfg.Driver = v
	}
	if v := getenv("SEED_SQLITE_PATH"); v != "" {
		cfg.SQLitePath = v
	}
	if v := getenv("SEED_USER_PASSWORD"); v != "" {
		cfg.UserPassword = v
	}

	cfg.ReportTo = getenv("SEED_REPORT_TO")
	cfg.ResendKey = getenv("SEED_RESEND_KEY")
	cfg.ResendFrom = getenv("SEED_RESEND_FROM")
	if cfg.ResendFrom == "" {
		cfg.ResendFrom = "Attendance Seeder <noreply@attendseed.local>"
	}

	return cfg, nil
}
