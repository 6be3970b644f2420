package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mauv0809/brawlboss/internal/brawlstars"
	"github.com/mauv0809/brawlboss/internal/metrics"
	"github.com/mauv0809/brawlboss/internal/notifier"
	"github.com/mauv0809/brawlboss/internal/store"
)

// New creates a new Pipeline for the given club.
func New(client brawlstars.Client, store store.Store, notifier notifier.Notifier, metrics metrics.Metrics, clubTag string) *Pipeline {
	return &Pipeline{
		client:   client,
		store:    store,
		notifier: notifier,
		metrics:  metrics,
		clubTag:  brawlstars.NormalizeTag(clubTag),
	}
}

// ClubTag returns the normalised tag of the club being ingested.
func (p *Pipeline) ClubTag() string {
	return p.clubTag
}

// Run performs one ingestion cycle. It returns ErrAlreadyRunning without doing
// anything when another cycle holds the pipeline. Absent upstream data is
// logged and skipped; transport and store errors end the cycle.
func (p *Pipeline) Run(ctx context.Context, opts Options) (Result, error) {
	if !p.running.TryLock() {
		p.metrics.IncIngestSkipped()
		log.Warn("Ingest run already in progress, skipping")
		return Result{}, ErrAlreadyRunning
	}
	defer p.running.Unlock()

	res := Result{RunID: uuid.NewString()}
	logger := log.With("run_id", res.RunID, "club", p.clubTag)

	p.metrics.IncIngestRuns()
	start := time.Now()
	defer func() {
		p.metrics.ObserveIngestDuration(time.Since(start).Seconds())
	}()

	logger.Info("Starting ingest run")
	if err := p.run(ctx, logger, opts, &res); err != nil {
		p.metrics.IncIngestFailures()
		logger.Error("Ingest run failed", "error", err, "players", res.Players, "battles", res.Battles)
		return res, err
	}
	logger.Info("Ingest run finished",
		"players", res.Players,
		"new_players", res.NewPlayers,
		"new_members", res.NewMembers,
		"battles", res.Battles,
		"new_battles", res.NewBattles,
		"skipped_members", res.SkippedMembers,
		"duration", time.Since(start),
	)
	return res, nil
}

func (p *Pipeline) run(ctx context.Context, logger *log.Logger, opts Options, res *Result) error {
	club, err := p.client.GetClub(ctx, p.clubTag)
	if errors.Is(err, brawlstars.ErrNoData) {
		p.metrics.IncAPINoData("club")
		logger.Warn("No club data returned, ending run")
		return nil
	}
	if err != nil {
		return fmt.Errorf("fetch club: %w", err)
	}

	known, err := p.knownMembers(ctx)
	if err != nil {
		return err
	}
	if known == nil {
		logger.Info("No stored club yet, recording the roster without welcomes")
	}

	isNew, err := p.store.UpsertClub(ctx, club)
	if err != nil {
		return err
	}
	p.metrics.IncUpserts(store.CollectionClub, isNew)
	res.ClubUpserted = true
	logger.Info("Club stored", "name", club.Name, "members", len(club.Members), "new", isNew)

	for _, member := range club.Members {
		if err := ctx.Err(); err != nil {
			return err
		}
		joined := known != nil && !known[member.Tag]
		if err := p.ingestMember(ctx, logger, member, joined, opts, res); err != nil {
			return err
		}
	}
	return nil
}

// knownMembers returns the member tags of the stored club, or nil when no club
// has been stored yet.
func (p *Pipeline) knownMembers(ctx context.Context) (map[string]bool, error) {
	club, err := p.store.GetClub(ctx, p.clubTag)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load stored club: %w", err)
	}
	known := make(map[string]bool, len(club.Members))
	for _, m := range club.Members {
		known[m.Tag] = true
	}
	return known, nil
}

func (p *Pipeline) ingestMember(ctx context.Context, logger *log.Logger, member brawlstars.Member, joined bool, opts Options, res *Result) error {
	logger = logger.With("tag", member.Tag)

	player, err := p.client.GetPlayer(ctx, member.Tag)
	if errors.Is(err, brawlstars.ErrNoData) {
		p.metrics.IncAPINoData("player")
		logger.Warn("No player data returned, skipping member", "name", member.Name)
		res.SkippedMembers++
		return nil
	}
	if err != nil {
		return fmt.Errorf("fetch player %s: %w", member.Tag, err)
	}

	isNew, err := p.store.UpsertPlayer(ctx, player)
	if err != nil {
		return err
	}
	p.metrics.IncUpserts(store.CollectionPlayer, isNew)
	res.Players++
	if isNew {
		res.NewPlayers++
		logger.Info("New player stored", "name", player.Name)
	}
	if joined {
		res.NewMembers++
		logger.Info("Member joined the club", "name", player.Name)
		// A failed welcome message must not end the run.
		if err := p.notifier.SendNewMember(ctx, player, opts.DryRun); err != nil {
			logger.Error("Failed to send new member notification", "error", err)
		}
	}

	battles, err := p.client.GetBattleLog(ctx, member.Tag)
	if errors.Is(err, brawlstars.ErrNoData) {
		p.metrics.IncAPINoData("battlelog")
		logger.Warn("No battle log returned")
		return nil
	}
	if err != nil {
		return fmt.Errorf("fetch battle log %s: %w", member.Tag, err)
	}

	newBattles := 0
	for _, battle := range battles {
		isNew, err := p.store.UpsertBattle(ctx, battle)
		if err != nil {
			return err
		}
		p.metrics.IncUpserts(store.CollectionBattle, isNew)
		res.Battles++
		if isNew {
			newBattles++
		}
	}
	res.NewBattles += newBattles
	logger.Debug("Battle log stored", "battles", len(battles), "new", newBattles)
	return nil
}
