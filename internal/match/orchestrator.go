package match

import (
	"context"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/strikeband/internal/combat"
	"github.com/samdwyer/strikeband/internal/economy"
	"github.com/samdwyer/strikeband/internal/entity"
	"github.com/samdwyer/strikeband/internal/gamedata"
	"github.com/samdwyer/strikeband/internal/movement"
	"github.com/samdwyer/strikeband/internal/telemetry"
)

// plantRange is how close an attacker must be to a site to plant, and a
// defender to the bomb to work on a defuse.
const plantRange = 15.0

// Defuse takes ten seconds of a defender on the bomb, five with a kit.
const (
	defuseTicks    = 10
	defuseKitTicks = 5
)

// Listener receives a fresh snapshot after every mutating operation.
type Listener func(Snapshot)

// Orchestrator owns authoritative match state and drives the tick loop.
// The loop goroutine is the single writer; public commands take the same
// lock and are idempotent no-ops when their preconditions fail.
type Orchestrator struct {
	mu sync.Mutex

	cfg     Config
	catalog *gamedata.TacticsCatalog

	matchID   string
	status    Status
	score     map[entity.Side]int
	winner    entity.Side
	startedAt time.Time
	endedAt   time.Time

	teams map[entity.Side]*entity.Team
	round *RoundEngine

	moveEngine   *movement.Engine
	combatEngine *combat.Engine
	buyEngine    *economy.BuyEngine

	clock         time.Duration // Simulated time since match start
	tickCount     int
	roundKills    int
	defuseSeconds int

	events       []combat.Event
	combatResult []combat.Event

	listeners []Listener
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewOrchestrator wires the engines together around the static catalogs.
// The configuration is validated and the rosters must be full; both are
// fail-fast errors because the match cannot run meaningfully without them.
func NewOrchestrator(cfg Config, catalog *gamedata.TacticsCatalog, weapons *gamedata.WeaponRegistry, equipment *gamedata.EquipmentRegistry, playerRoster, botRoster []*entity.Agent) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !catalog.HasStrategy(cfg.InitialStrategy) {
		return nil, errUnknownStrategy(cfg.InitialStrategy)
	}
	if len(playerRoster) != entity.RosterSize || len(botRoster) != entity.RosterSize {
		return nil, errRosterSize(len(playerRoster), len(botRoster))
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	playerSide := cfg.StartingSide
	botSide := playerSide.Opponent()
	teams := map[entity.Side]*entity.Team{
		playerSide: entity.NewTeam(playerSide, "Player Squad", cfg.InitialStrategy, playerRoster),
		botSide:    entity.NewTeam(botSide, "Bot Squad", cfg.InitialStrategy, botRoster),
	}
	for side, team := range teams {
		for _, agent := range team.Agents {
			agent.Side = side
			agent.Position = catalog.Spawn(string(side))
		}
	}

	o := &Orchestrator{
		cfg:          cfg,
		catalog:      catalog,
		matchID:      uuid.NewString(),
		status:       StatusPending,
		score:        map[entity.Side]int{entity.SideT: 0, entity.SideCT: 0},
		teams:        teams,
		round:        NewRoundEngine(cfg.InitialStrategy),
		moveEngine:   movement.NewEngine(catalog),
		combatEngine: combat.NewEngine(catalog, weapons, equipment, rng),
		buyEngine:    economy.NewBuyEngine(weapons, equipment),
		done:         make(chan struct{}),
	}
	return o, nil
}

// Done is closed when the match ends, whichever way it ends.
func (o *Orchestrator) Done() <-chan struct{} {
	return o.done
}

// Subscribe registers a listener. Every mutating operation delivers a
// complete snapshot synchronously to each listener in order.
func (o *Orchestrator) Subscribe(listener Listener) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.listeners = append(o.listeners, listener)
}

// StartGameLoop begins ticking at TickInterval. A no-op unless the match
// is pending.
func (o *Orchestrator) StartGameLoop(ctx context.Context) {
	o.mu.Lock()
	if o.status != StatusPending {
		o.mu.Unlock()
		return
	}
	o.status = StatusActive
	o.startedAt = time.Now()
	ctx, o.cancel = context.WithCancel(ctx)
	o.mu.Unlock()

	// cfg and matchID are immutable after construction.
	_, span := telemetry.Tracer("match").Start(ctx, "match.start")
	span.SetAttributes(
		attribute.String("match.id", o.matchID),
		attribute.Int("match.max_rounds", o.cfg.MaxRounds),
		attribute.String("match.difficulty", string(o.cfg.Difficulty)),
	)
	span.End()

	go o.loop(ctx)
	o.notify()
}

// StopGameLoop cancels future ticks. An in-flight tick completes since
// ticks are synchronous.
func (o *Orchestrator) StopGameLoop() {
	o.mu.Lock()
	cancel := o.cancel
	o.cancel = nil
	o.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// PauseMatch suspends ticking without losing state.
func (o *Orchestrator) PauseMatch() {
	o.mu.Lock()
	if o.status == StatusActive {
		o.status = StatusPaused
	}
	o.mu.Unlock()
	o.notify()
}

// ResumeMatch resumes a paused match.
func (o *Orchestrator) ResumeMatch() {
	o.mu.Lock()
	if o.status == StatusPaused {
		o.status = StatusActive
	}
	o.mu.Unlock()
	o.notify()
}

// UpdateStrategy changes a side's strategy. Legal only during freezetime
// with a known key; anything else is a logged no-op.
func (o *Orchestrator) UpdateStrategy(side entity.Side, key string) bool {
	o.mu.Lock()
	ok := o.catalog.HasStrategy(key) && o.round.SetStrategy(side, key)
	if ok {
		o.teams[side].Strategy = key
		o.moveEngine.InvalidateTeam(o.teams[side])
	} else {
		log.Printf("strategy change rejected: side=%s key=%s phase=%s", side, key, o.round.State().Phase)
	}
	o.mu.Unlock()
	if ok {
		o.notify()
	}
	return ok
}

// MakeMidRoundCall issues a transient positional override for a side.
// Legal only while live and only toward a known waypoint.
func (o *Orchestrator) MakeMidRoundCall(side entity.Side, waypoint string) bool {
	o.mu.Lock()
	_, known := o.catalog.Waypoint(waypoint)
	ok := known && o.round.MakeCall(side, waypoint, o.clock)
	if ok {
		o.moveEngine.InvalidateTeam(o.teams[side])
	} else {
		log.Printf("mid-round call rejected: side=%s waypoint=%s phase=%s", side, waypoint, o.round.State().Phase)
	}
	o.mu.Unlock()
	if ok {
		o.notify()
	}
	return ok
}

// ProcessBuy applies a loadout to an agent, debiting the team bank.
// Rejected when the agent is unknown or the cost exceeds team money.
func (o *Orchestrator) ProcessBuy(side entity.Side, agentID string, loadout economy.Loadout) bool {
	o.mu.Lock()
	ok := o.applyBuyLocked(side, agentID, loadout)
	o.mu.Unlock()
	if ok {
		o.notify()
	}
	return ok
}

func (o *Orchestrator) applyBuyLocked(side entity.Side, agentID string, loadout economy.Loadout) bool {
	team := o.teams[side]
	if team == nil {
		return false
	}
	agent := team.AgentByID(agentID)
	if agent == nil {
		log.Printf("buy rejected: unknown agent %s on side %s", agentID, side)
		return false
	}
	if !team.Spend(loadout.TotalCost) {
		log.Printf("buy rejected: %s costs %d, team %s has %d", agent.Name, loadout.TotalCost, side, team.Money)
		return false
	}
	agent.Weapons = append([]string(nil), loadout.Weapons...)
	agent.Equipment = nil
	for _, id := range loadout.Equipment {
		switch id {
		case "kevlar":
			agent.Armor = entity.MaxArmor
		case "helmet":
			// Helmet rides on top of kevlar; armor value is already set.
		default:
			agent.Equipment = append(agent.Equipment, id)
		}
	}
	return true
}

// ClearCombatResult drops the most recent combat pass from snapshots.
func (o *Orchestrator) ClearCombatResult() {
	o.mu.Lock()
	o.combatResult = nil
	o.mu.Unlock()
	o.notify()
}

// Snapshot builds a complete read-only state value.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.snapshotLocked()
}

func (o *Orchestrator) snapshotLocked() Snapshot {
	teams := make(map[entity.Side]TeamView, len(o.teams))
	for side, team := range o.teams {
		teams[side] = newTeamView(team)
	}
	return Snapshot{
		Match: MatchView{
			ID:        o.matchID,
			Status:    o.status,
			Round:     o.round.State().Number,
			MaxRounds: o.cfg.MaxRounds,
			Score: map[entity.Side]int{
				entity.SideT:  o.score[entity.SideT],
				entity.SideCT: o.score[entity.SideCT],
			},
			Winner:    o.winner,
			StartedAt: o.startedAt,
			EndedAt:   o.endedAt,
		},
		Round:        newRoundView(o.round.State()),
		Teams:        teams,
		History:      append([]Outcome(nil), o.round.History()...),
		Events:       append([]combat.Event(nil), o.events...),
		CombatResult: append([]combat.Event(nil), o.combatResult...),
	}
}

// loop runs the fixed-cadence tick loop until cancelled or match end.
func (o *Orchestrator) loop(ctx context.Context) {
	ticker := time.NewTicker(TickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			o.Tick(ctx, TickInterval)
			o.mu.Lock()
			ended := o.status == StatusEnded
			o.mu.Unlock()
			if ended {
				return
			}
		}
	}
}

// Tick advances the simulation by elapsed. Exported so tests and the
// loop share one code path. Ordering is fixed: call expiry, timer,
// movement, combat, consequence application, win check.
func (o *Orchestrator) Tick(ctx context.Context, elapsed time.Duration) {
	o.mu.Lock()
	if o.status != StatusActive {
		o.mu.Unlock()
		return
	}

	o.clock += elapsed
	o.tickCount++

	if o.round.ExpireCall(o.clock) {
		for _, team := range o.teams {
			o.moveEngine.InvalidateTeam(team)
		}
	}

	switch o.round.AdvanceTimer(elapsed, o.clock) {
	case TimerPhaseChanged:
		o.onPhaseChangedLocked()
	case TimerRoundEnded:
		o.settleRoundLocked(ctx)
	case TimerRoundOver:
		o.advanceToNextRoundLocked()
	}

	state := o.round.State()
	if state.Phase == PhaseLive || state.Phase == PhasePlanted {
		o.advanceMovementLocked(elapsed, state)
		o.runObjectivesLocked(ctx, state)

		// A defuse settles the round inside the objectives pass; once a
		// winner exists no further combat happens this tick.
		stillPlaying := state.Phase == PhaseLive || state.Phase == PhasePlanted
		if stillPlaying && o.tickCount%CombatCadence == 0 {
			o.runCombatLocked(ctx)
		}
	}

	o.mu.Unlock()
	o.notify()
}

// onPhaseChangedLocked handles warmup->freezetime and freezetime->live.
func (o *Orchestrator) onPhaseChangedLocked() {
	state := o.round.State()
	switch state.Phase {
	case PhaseFreezetime:
		o.prepareRoundLocked()
	case PhaseLive:
		// Buy period over; nothing to do, movement starts this tick.
	}
}

// prepareRoundLocked resets agents and runs the auto-buy at the top of
// freezetime.
func (o *Orchestrator) prepareRoundLocked() {
	o.roundKills = 0
	o.defuseSeconds = 0
	o.combatEngine.ResetRound()
	o.moveEngine.Reset()
	for side, team := range o.teams {
		spawn := o.catalog.Spawn(string(side))
		for _, agent := range team.Agents {
			agent.ResetForRound(spawn)
		}
	}
	if o.cfg.AutoBuy {
		o.autoBuyLocked()
	}
}

// autoBuyLocked purchases loadouts for both teams, tier chosen from the
// team's strategy and per-agent share.
func (o *Orchestrator) autoBuyLocked() {
	for _, team := range o.teams {
		share := team.Money / entity.RosterSize
		tier := economy.ParseTier(team.Strategy, share)
		for agentID, loadout := range o.buyEngine.TeamBuy(team, tier) {
			o.applyBuyLocked(team.Side, agentID, loadout)
		}
	}
}

// advanceMovementLocked runs the movement engine for both sides.
func (o *Orchestrator) advanceMovementLocked(elapsed time.Duration, state *RoundState) {
	for side, team := range o.teams {
		o.moveEngine.Advance(team, movement.Options{
			CallWaypoint: o.round.CallFor(side),
			BombPlanted:  state.BombPlanted,
			BombSite:     state.BombSite,
			Elapsed:      elapsed,
		})
	}
}

// runObjectivesLocked auto-plants and auto-defuses when agents reach the
// objective, standing in for the external triggers a UI would send.
func (o *Orchestrator) runObjectivesLocked(ctx context.Context, state *RoundState) {
	switch state.Phase {
	case PhaseLive:
		for _, agent := range o.teams[entity.SideT].Agents {
			if !agent.Alive {
				continue
			}
			for _, site := range o.catalog.Sites() {
				pos, ok := o.catalog.Site(site)
				if ok && agent.Position.DistanceTo(pos) <= plantRange {
					o.round.PlantBomb(site, o.clock)
					return
				}
			}
		}
	case PhasePlanted:
		bomb, ok := o.catalog.Site(state.BombSite)
		if !ok {
			return
		}
		onBomb := false
		hasKit := false
		for _, agent := range o.teams[entity.SideCT].Agents {
			if agent.Alive && agent.Position.DistanceTo(bomb) <= plantRange {
				onBomb = true
				hasKit = hasKit || agent.HasEquipment("defusekit")
			}
		}
		if !onBomb {
			o.defuseSeconds = 0
			return
		}
		o.defuseSeconds++
		needed := defuseTicks
		if hasKit {
			needed = defuseKitTicks
		}
		if o.defuseSeconds >= needed {
			o.round.DefuseBomb()
			o.settleRoundLocked(ctx)
		}
	}
}

// runCombatLocked resolves one combat pass and applies its consequences:
// the event log, the combat result, and the elimination win check. A
// round can end here before its timer expires.
func (o *Orchestrator) runCombatLocked(ctx context.Context) {
	events := o.combatEngine.Resolve(o.clock, o.teams[entity.SideT], o.teams[entity.SideCT])
	for _, event := range events {
		if event.Kind == combat.EventKill {
			o.roundKills++
		}
	}
	o.events = append(o.events, events...)
	if overflow := len(o.events) - EventLogCap; overflow > 0 {
		o.events = append([]combat.Event(nil), o.events[overflow:]...)
	}
	o.combatResult = events

	o.checkEliminationLocked(ctx)
}

// checkEliminationLocked ends the round as soon as one side is wiped,
// independent of the timers.
func (o *Orchestrator) checkEliminationLocked(ctx context.Context) {
	tAlive := o.teams[entity.SideT].AliveCount()
	ctAlive := o.teams[entity.SideCT].AliveCount()
	switch {
	case tAlive == 0 && ctAlive > 0:
		if o.round.EndRound(entity.SideCT, ReasonTEliminated) {
			o.settleRoundLocked(ctx)
		}
	case ctAlive == 0 && tAlive > 0:
		if o.round.EndRound(entity.SideT, ReasonCTEliminated) {
			o.settleRoundLocked(ctx)
		}
	case tAlive == 0 && ctAlive == 0:
		// Mutual wipe: the defenders hold the round by default.
		if o.round.EndRound(entity.SideCT, ReasonTEliminated) {
			o.settleRoundLocked(ctx)
		}
	}
}

// settleRoundLocked applies round-end economy, records the outcome, and
// checks for match end.
func (o *Orchestrator) settleRoundLocked(ctx context.Context) {
	state := o.round.State()
	winner := state.Winner
	if !winner.Valid() {
		return
	}
	loser := winner.Opponent()

	o.teams[winner].SettleWin()
	o.teams[loser].SettleLoss()
	o.score[winner]++

	for side, team := range o.teams {
		team.RecordStrategyOutcome(o.round.Strategy(side), side == winner)
		for _, agent := range team.Agents {
			agent.RecomputeImpactRating(state.Number)
		}
	}

	outcome := o.round.RecordOutcome(o.roundKills, o.clock)

	_, span := telemetry.Tracer("match").Start(ctx, "round.end")
	span.SetAttributes(
		attribute.Int("round.number", outcome.Round),
		attribute.String("round.winner", string(outcome.Winner)),
		attribute.String("round.reason", outcome.Reason),
		attribute.Int("round.kills", outcome.Kills),
		attribute.Int("score.t", o.score[entity.SideT]),
		attribute.Int("score.ct", o.score[entity.SideCT]),
	)
	span.End()

	o.checkMatchEndLocked(ctx)
}

// advanceToNextRoundLocked starts the next round after the post-round
// delay, unless the match is over.
func (o *Orchestrator) advanceToNextRoundLocked() {
	if o.status == StatusEnded {
		return
	}
	o.round.StartNextRound()
	o.prepareRoundLocked()
}

// checkMatchEndLocked applies the match-end rule: a side exceeding half
// of max rounds, or the round counter reaching max rounds. Equal scores
// at the limit are a draw with no winner.
func (o *Orchestrator) checkMatchEndLocked(ctx context.Context) {
	tScore := o.score[entity.SideT]
	ctScore := o.score[entity.SideCT]
	half := o.cfg.MaxRounds / 2
	finished := tScore > half || ctScore > half || o.round.State().Number >= o.cfg.MaxRounds
	if !finished {
		return
	}

	switch {
	case tScore > ctScore:
		o.winner = entity.SideT
	case ctScore > tScore:
		o.winner = entity.SideCT
	default:
		o.winner = entity.SideNone
	}
	o.status = StatusEnded
	o.endedAt = time.Now()

	_, span := telemetry.Tracer("match").Start(ctx, "match.end")
	span.SetAttributes(
		attribute.String("match.id", o.matchID),
		attribute.String("match.winner", string(o.winner)),
		attribute.Int("score.t", tScore),
		attribute.Int("score.ct", ctScore),
	)
	span.End()

	close(o.done)
}

// notify delivers a fresh snapshot to every listener.
func (o *Orchestrator) notify() {
	o.mu.Lock()
	snapshot := o.snapshotLocked()
	listeners := append([]Listener(nil), o.listeners...)
	o.mu.Unlock()
	for _, listener := range listeners {
		listener(snapshot)
	}
}
