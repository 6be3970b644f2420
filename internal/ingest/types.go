package ingest

import (
	"errors"
	"sync"

	"github.com/mauv0809/brawlboss/internal/brawlstars"
	"github.com/mauv0809/brawlboss/internal/metrics"
	"github.com/mauv0809/brawlboss/internal/notifier"
	"github.com/mauv0809/brawlboss/internal/store"
)

// ErrAlreadyRunning is returned when a run is requested while another one is
// still in progress.
var ErrAlreadyRunning = errors.New("ingest run already in progress")

// Pipeline pulls a club, its members and their battle logs into the store.
type Pipeline struct {
	client   brawlstars.Client
	store    store.Store
	notifier notifier.Notifier
	metrics  metrics.Metrics
	clubTag  string

	running sync.Mutex
}

// Result summarises one run.
type Result struct {
	RunID          string `json:"run_id"`
	ClubUpserted   bool   `json:"club_upserted"`
	Players        int    `json:"players"`
	NewPlayers     int    `json:"new_players"`
	// NewMembers counts members missing from the previously stored club.
	NewMembers     int    `json:"new_members"`
	Battles        int    `json:"battles"`
	NewBattles     int    `json:"new_battles"`
	SkippedMembers int    `json:"skipped_members"`
}

// Options tweak a single run.
type Options struct {
	// DryRun logs notifications instead of sending them.
	DryRun bool
}
