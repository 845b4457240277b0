// Command seed populates the attendance application's document database with
// synthetic branches, shifts, employees and daily attendance records.
//
// Credentials for the deployed store come from SEED_CREDENTIALS (raw JSON),
// SEED_CREDENTIALS_BASE64, SEED_MONGO_URI/SEED_MONGO_DB, or a local
// store-credentials.json — whichever resolves first. SEED_DRIVER=sqlite and
// SEED_DRIVER=memory run the same pipeline against a local file or nothing
// at all.
package main

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/gosuri/uiprogress"

	"attendseed/internal/adapters/docstore"
	emailPkg "attendseed/internal/adapters/email"
	"attendseed/internal/application/daterange"
	"attendseed/internal/application/orchestrators"
	"attendseed/internal/application/randgen"
	"attendseed/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	started := time.Now()
	runID := uuid.New().String()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("configuration invalid: %v", err)
	}

	seed := cfg.RandSeed
	if seed == 0 {
		seed = started.UnixNano()
	}
	rng := randgen.New(seed)

	ctx := context.Background()
	store, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to open document store: %v", err)
	}
	defer store.Close(ctx)

	log.Printf("attendseed %s starting (run=%s, driver=%s, users=%d, seed=%d)",
		version, runID, cfg.Driver, cfg.UserCount, seed)

	branches, shifts, err := orchestrators.ExecuteLoadReference(ctx,
		orchestrators.ReferenceDeps{Store: store}, started)
	if err != nil {
		log.Fatalf("failed to load reference data: %v", err)
	}

	users, err := orchestrators.ExecuteSeedUsers(ctx,
		orchestrators.UsersDeps{Store: store, Rand: rng},
		orchestrators.UsersParams{Count: cfg.UserCount, Password: cfg.UserPassword, Now: started},
		branches, shifts)
	if err != nil {
		log.Fatalf("failed to seed users: %v", err)
	}

	var dates []time.Time
	attendanceDocs := 0
	if cfg.SeedAttendance {
		if cfg.Month != "" {
			dates, err = daterange.Month(cfg.Month, started)
			if err != nil {
				log.Fatalf("invalid seed month: %v", err)
			}
		} else {
			dates = daterange.LastN(started, cfg.AttendanceDays)
		}

		uiprogress.Start()
		bar := uiprogress.AddBar(len(users)).AppendCompleted().PrependElapsed()
		attendanceDocs, err = orchestrators.ExecuteSeedAttendance(ctx,
			orchestrators.AttendanceDeps{Store: store, Rand: rng},
			orchestrators.AttendanceParams{
				Dates:       dates,
				PresentProb: cfg.PresentProb,
				Model:       cfg.Model,
				Geo:         branches[0].Geo,
				Now:         started,
				Progress:    func(done, _ int) { bar.Set(done) },
			},
			users)
		uiprogress.Stop()
		if err != nil {
			log.Fatalf("failed to seed attendance: %v", err)
		}
	} else {
		log.Println("attendance seeding skipped (SEED_ATTENDANCE=false)")
	}

	summary := orchestrators.Summary{
		RunID:          runID,
		Driver:         cfg.Driver,
		Branches:       len(branches),
		Shifts:         len(shifts),
		Users:          len(users),
		AttendanceDocs: attendanceDocs,
		Days:           len(dates),
		Model:          cfg.Model,
		Duration:       time.Since(started),
	}
	if cfg.ReportTo != "" {
		sender := emailPkg.Sender(emailPkg.NewNoopSender())
		if cfg.ResendKey != "" {
			sender = emailPkg.NewResendSender(cfg.ResendKey, cfg.ResendFrom)
		}
		if err := orchestrators.ExecuteSendReport(ctx,
			orchestrators.ReportDeps{Sender: sender}, cfg.ReportTo, cfg.ResendFrom, summary); err != nil {
			log.Fatalf("failed to send report: %v", err)
		}
	}

	log.Printf("done: %d users, %d attendance docs in %s",
		summary.Users, summary.AttendanceDocs, summary.Duration.Round(time.Millisecond))
}

// openStore selects the store driver. Credentials are only resolved for the
// deployed store; the local drivers need none.
func openStore(ctx context.Context, cfg config.Config) (docstore.Store, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		return docstore.NewSQLiteStore(cfg.SQLitePath)
	case config.DriverMemory:
		log.Println("dry run: writes go to an in-memory store and are discarded")
		return docstore.NewMemoryStore(), nil
	default:
		creds, err := config.ResolveCredentials()
		if err != nil {
			return nil, err
		}
		return docstore.NewMongoStore(ctx, creds.URI, creds.Database)
	}
}
