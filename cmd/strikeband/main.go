// Package main is the entry point for the StrikeBand match simulator.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/samdwyer/strikeband/internal/entity"
	"github.com/samdwyer/strikeband/internal/feed"
	"github.com/samdwyer/strikeband/internal/gamedata"
	"github.com/samdwyer/strikeband/internal/match"
	"github.com/samdwyer/strikeband/internal/telemetry"
	"github.com/samdwyer/strikeband/internal/ui"
)

func main() {
	var (
		rounds     = flag.Int("rounds", 24, "maximum rounds in the match")
		difficulty = flag.String("difficulty", "medium", "bot difficulty: easy, medium, hard, expert")
		seed       = flag.Int64("seed", 0, "random seed, 0 for time-based")
		strategy   = flag.String("strategy", "default", "initial strategy for both sides")
		side       = flag.String("side", "t", "player team side: t or ct")
		headless   = flag.Bool("headless", false, "run without the terminal view, logging round results")
		feedAddr   = flag.String("feed", "", "address for the websocket spectator feed, e.g. :8080")
	)
	flag.Parse()

	// Load .env for local development; env vars may also be set directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("Note: .env file not loaded: %v", err)
	}

	ctx := context.Background()

	shutdown, err := telemetry.Setup(ctx)
	if err != nil {
		log.Printf("Warning: telemetry setup failed: %v", err)
		log.Printf("Simulation will run without observability")
	} else {
		defer func() {
			if err := shutdown(ctx); err != nil {
				log.Printf("Error shutting down telemetry: %v", err)
			}
		}()
	}

	if err := run(ctx, match.Config{
		MaxRounds:       *rounds,
		StartingSide:    entity.Side(*side),
		InitialStrategy: *strategy,
		Difficulty:      match.Difficulty(*difficulty),
		Seed:            *seed,
		AutoBuy:         true,
	}, *headless, *feedAddr); err != nil {
		log.Fatalf("Match error: %v", err)
	}
}

func run(ctx context.Context, cfg match.Config, headless bool, feedAddr string) error {
	catalog := gamedata.MustLoadTacticsCatalog()
	weapons := gamedata.MustLoadWeaponRegistry()
	equipment := gamedata.MustLoadEquipmentRegistry()
	names := gamedata.MustLoadCallsigns()

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	factory := entity.NewFactory(rand.New(rand.NewSource(seed)), names)
	playerRoster := factory.BuildRoster(cfg.StartingSide, 1.0)
	botRoster := factory.BuildRoster(cfg.StartingSide.Opponent(), cfg.Difficulty.SkillMultiplier())

	orchestrator, err := match.NewOrchestrator(cfg, catalog, weapons, equipment, playerRoster, botRoster)
	if err != nil {
		return err
	}

	if feedAddr != "" {
		broadcaster := feed.NewBroadcaster()
		defer broadcaster.Close()
		orchestrator.Subscribe(broadcaster.Publish)

		mux := http.NewServeMux()
		mux.Handle("/feed", broadcaster)
		server := &http.Server{Addr: feedAddr, Handler: mux}
		go func() {
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("feed server error: %v", err)
			}
		}()
		defer server.Shutdown(ctx)
		log.Printf("spectator feed on ws://%s/feed", feedAddr)
	}

	if headless {
		return runHeadless(ctx, orchestrator)
	}
	return runSpectator(ctx, orchestrator)
}

// runHeadless logs round results as they happen and prints a final
// report when the match ends.
func runHeadless(ctx context.Context, orchestrator *match.Orchestrator) error {
	lastRound := 0
	orchestrator.Subscribe(func(snap match.Snapshot) {
		if n := len(snap.History); n > lastRound {
			lastRound = n
			outcome := snap.History[n-1]
			log.Printf("round %d: %s win (%s), %d kills, score T %d : %d CT",
				outcome.Round, outcome.Winner.DisplayName(), outcome.Reason, outcome.Kills,
				snap.Match.Score[entity.SideT], snap.Match.Score[entity.SideCT])
		}
	})

	orchestrator.StartGameLoop(ctx)
	<-orchestrator.Done()
	printReport(orchestrator.Snapshot())
	return nil
}

// runSpectator drives the terminal view until the user quits or the
// match ends.
func runSpectator(ctx context.Context, orchestrator *match.Orchestrator) error {
	spectator, err := ui.NewSpectator(ui.Controls{
		Pause:  orchestrator.PauseMatch,
		Resume: orchestrator.ResumeMatch,
	})
	if err != nil {
		return err
	}
	orchestrator.Subscribe(spectator.Listener())

	viewCtx, cancel := context.WithCancel(ctx)
	go func() {
		<-orchestrator.Done()
		// Leave the final scoreboard up briefly before closing.
		time.Sleep(3 * time.Second)
		cancel()
	}()

	orchestrator.StartGameLoop(ctx)
	spectator.Run(viewCtx)
	cancel()
	orchestrator.StopGameLoop()

	printReport(orchestrator.Snapshot())
	return nil
}

// printReport writes the end-of-match stat table to stdout.
func printReport(snap match.Snapshot) {
	fmt.Fprintf(os.Stdout, "\nMatch %s, T %d : %d CT",
		snap.Match.ID, snap.Match.Score[entity.SideT], snap.Match.Score[entity.SideCT])
	if snap.Match.Winner.Valid() {
		fmt.Fprintf(os.Stdout, ", %s win\n", snap.Match.Winner.DisplayName())
	} else {
		fmt.Fprintln(os.Stdout, ", draw")
	}

	for _, side := range []entity.Side{entity.SideT, entity.SideCT} {
		team := snap.Teams[side]
		fmt.Fprintf(os.Stdout, "\n%s (%s)\n", team.Name, side.DisplayName())
		fmt.Fprintf(os.Stdout, "  %-12s %-16s %5s %5s %5s %6s %6s %7s\n",
			"NAME", "ROLE", "K", "D", "A", "UD", "FA", "IMPACT")
		for _, agent := range team.Agents {
			fmt.Fprintf(os.Stdout, "  %-12s %-16s %5d %5d %5d %6d %6d %7.2f\n",
				agent.Name, agent.Role,
				agent.Stats.Kills, agent.Stats.Deaths, agent.Stats.Assists,
				agent.Stats.UtilityDamage, agent.Stats.FlashAssists, agent.ImpactRating)
		}
	}
}
