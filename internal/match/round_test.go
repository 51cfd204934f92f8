package match

import (
	"testing"
	"time"

	"github.com/samdwyer/strikeband/internal/entity"
)

// stepTo ticks the engine one second at a time until the round reaches
// the wanted phase, returning the sim clock. Fails rather than spinning.
func stepTo(t *testing.T, r *RoundEngine, want Phase, clock time.Duration) time.Duration {
	t.Helper()
	for i := 0; i < 300; i++ {
		if r.State().Phase == want {
			return clock
		}
		clock += time.Second
		r.AdvanceTimer(time.Second, clock)
	}
	t.Fatalf("never reached phase %s, stuck at %s", want, r.State().Phase)
	return clock
}

func TestWarmupThroughLiveTimings(t *testing.T) {
	r := NewRoundEngine("default")
	clock := time.Duration(0)

	if r.State().Phase != PhaseWarmup || r.State().TimeLeft != WarmupTime {
		t.Fatalf("initial state = %s/%v, want warmup/%v", r.State().Phase, r.State().TimeLeft, WarmupTime)
	}

	for i := 0; i < 4; i++ {
		clock += time.Second
		if got := r.AdvanceTimer(time.Second, clock); got != TimerRunning {
			t.Fatalf("warmup tick %d = %v, want TimerRunning", i+1, got)
		}
	}
	clock += time.Second
	if got := r.AdvanceTimer(time.Second, clock); got != TimerPhaseChanged {
		t.Fatalf("warmup expiry = %v, want TimerPhaseChanged", got)
	}
	if r.State().Phase != PhaseFreezetime || r.State().TimeLeft != FreezeTime {
		t.Fatalf("after warmup = %s/%v, want freezetime/%v", r.State().Phase, r.State().TimeLeft, FreezeTime)
	}

	for i := 0; i < 14; i++ {
		clock += time.Second
		r.AdvanceTimer(time.Second, clock)
	}
	clock += time.Second
	if got := r.AdvanceTimer(time.Second, clock); got != TimerPhaseChanged {
		t.Fatalf("freezetime expiry = %v, want TimerPhaseChanged", got)
	}
	if r.State().Phase != PhaseLive || r.State().TimeLeft != RoundTime {
		t.Fatalf("after freezetime = %s/%v, want live/%v", r.State().Phase, r.State().TimeLeft, RoundTime)
	}
}

func TestRoundTimeoutFavorsDefenders(t *testing.T) {
	r := NewRoundEngine("default")
	clock := stepTo(t, r, PhaseLive, 0)

	var result TimerResult
	for i := 0; i < 115; i++ {
		clock += time.Second
		result = r.AdvanceTimer(time.Second, clock)
	}
	if result != TimerRoundEnded {
		t.Fatalf("round clock expiry = %v, want TimerRoundEnded", result)
	}

	state := r.State()
	if state.Phase != PhaseEnded || state.Winner != entity.SideCT || state.Reason != ReasonTimeout {
		t.Errorf("timeout state = %s/%s/%q, want ended/ct/%q", state.Phase, state.Winner, state.Reason, ReasonTimeout)
	}

	for i := 0; i < 4; i++ {
		clock += time.Second
		if got := r.AdvanceTimer(time.Second, clock); got != TimerRunning {
			t.Fatalf("post-round tick %d = %v, want TimerRunning", i+1, got)
		}
	}
	clock += time.Second
	if got := r.AdvanceTimer(time.Second, clock); got != TimerRoundOver {
		t.Errorf("post-round expiry = %v, want TimerRoundOver", got)
	}
}

func TestPlantAndDetonation(t *testing.T) {
	r := NewRoundEngine("default")
	clock := stepTo(t, r, PhaseLive, 0)

	if !r.PlantBomb("a_site", clock) {
		t.Fatal("PlantBomb() during live = false, want true")
	}
	state := r.State()
	if state.Phase != PhasePlanted || state.TimeLeft != BombTime || !state.BombPlanted || state.BombSite != "a_site" {
		t.Fatalf("planted state = %s/%v/%v/%q", state.Phase, state.TimeLeft, state.BombPlanted, state.BombSite)
	}
	if r.PlantBomb("b_site", clock) {
		t.Error("second PlantBomb() = true, want no-op")
	}

	var result TimerResult
	for i := 0; i < 40; i++ {
		clock += time.Second
		result = r.AdvanceTimer(time.Second, clock)
	}
	if result != TimerRoundEnded {
		t.Fatalf("fuse expiry = %v, want TimerRoundEnded", result)
	}
	if state.Winner != entity.SideT || state.Reason != ReasonDetonation {
		t.Errorf("detonation result = %s/%q, want t/%q", state.Winner, state.Reason, ReasonDetonation)
	}
}

func TestDefuseEndsPlantedRound(t *testing.T) {
	r := NewRoundEngine("default")
	clock := stepTo(t, r, PhaseLive, 0)
	r.PlantBomb("b_site", clock)

	if !r.DefuseBomb() {
		t.Fatal("DefuseBomb() during planted = false, want true")
	}
	state := r.State()
	if state.Winner != entity.SideCT || state.Reason != ReasonDefusal {
		t.Errorf("defusal result = %s/%q, want ct/%q", state.Winner, state.Reason, ReasonDefusal)
	}
	if r.DefuseBomb() {
		t.Error("DefuseBomb() after round end = true, want no-op")
	}
}

func TestTransitionGuards(t *testing.T) {
	r := NewRoundEngine("default")

	// Warmup: nothing is legal.
	if r.PlantBomb("a_site", 0) {
		t.Error("PlantBomb() during warmup = true")
	}
	if r.DefuseBomb() {
		t.Error("DefuseBomb() during warmup = true")
	}
	if r.EndRound(entity.SideT, ReasonCTEliminated) {
		t.Error("EndRound() during warmup = true")
	}
	if r.MakeCall(entity.SideT, "mid", 0) {
		t.Error("MakeCall() during warmup = true")
	}

	clock := stepTo(t, r, PhaseFreezetime, 0)
	if r.PlantBomb("a_site", clock) {
		t.Error("PlantBomb() during freezetime = true")
	}

	clock = stepTo(t, r, PhaseLive, clock)
	if r.DefuseBomb() {
		t.Error("DefuseBomb() during live = true")
	}
	if !r.EndRound(entity.SideCT, ReasonTEliminated) {
		t.Error("EndRound() during live = false, want true")
	}
}

func TestSetStrategyOnlyDuringFreezetime(t *testing.T) {
	r := NewRoundEngine("default")

	if r.SetStrategy(entity.SideT, "rush") {
		t.Error("SetStrategy() during warmup = true, want false")
	}

	clock := stepTo(t, r, PhaseFreezetime, 0)
	if !r.SetStrategy(entity.SideT, "rush") {
		t.Fatal("SetStrategy() during freezetime = false, want true")
	}
	if got := r.Strategy(entity.SideT); got != "rush" {
		t.Errorf("Strategy(t) = %q, want rush", got)
	}
	if r.SetStrategy(entity.SideNone, "split") {
		t.Error("SetStrategy() with invalid side = true, want false")
	}

	stepTo(t, r, PhaseLive, clock)
	if r.SetStrategy(entity.SideT, "split") {
		t.Error("SetStrategy() during live = true, want false")
	}
	if got := r.Strategy(entity.SideT); got != "rush" {
		t.Errorf("Strategy(t) after rejected change = %q, want rush", got)
	}
}

func TestMidRoundCallLifecycle(t *testing.T) {
	r := NewRoundEngine("default")
	clock := stepTo(t, r, PhaseLive, 0)

	if !r.MakeCall(entity.SideT, "mid", clock) {
		t.Fatal("MakeCall() during live = false, want true")
	}
	if got := r.CallFor(entity.SideT); got != "mid" {
		t.Errorf("CallFor(t) = %q, want mid", got)
	}
	if got := r.CallFor(entity.SideCT); got != "" {
		t.Errorf("CallFor(ct) = %q, want empty", got)
	}

	if r.ExpireCall(clock + CallLifetime - time.Second) {
		t.Error("ExpireCall() before deadline = true, want false")
	}
	if !r.ExpireCall(clock + CallLifetime) {
		t.Error("ExpireCall() at deadline = false, want true")
	}
	if got := r.CallFor(entity.SideT); got != "" {
		t.Errorf("CallFor(t) after expiry = %q, want empty", got)
	}
	if r.ExpireCall(clock + CallLifetime) {
		t.Error("ExpireCall() with no call = true, want false")
	}
}

func TestEndRoundClearsCall(t *testing.T) {
	r := NewRoundEngine("default")
	clock := stepTo(t, r, PhaseLive, 0)
	r.MakeCall(entity.SideCT, "b_site", clock)

	r.EndRound(entity.SideT, ReasonCTEliminated)

	if r.State().Call != nil {
		t.Error("call survived round end")
	}
}

func TestStartNextRoundCarriesStrategies(t *testing.T) {
	r := NewRoundEngine("default")
	clock := stepTo(t, r, PhaseFreezetime, 0)
	r.SetStrategy(entity.SideT, "rush")
	r.SetStrategy(entity.SideCT, "split")
	clock = stepTo(t, r, PhaseLive, clock)
	r.PlantBomb("a_site", clock)
	r.EndRound(entity.SideCT, ReasonDefusal)

	r.StartNextRound()

	state := r.State()
	if state.Number != 2 {
		t.Errorf("Number = %d, want 2", state.Number)
	}
	if state.Phase != PhaseFreezetime || state.TimeLeft != FreezeTime {
		t.Errorf("next round opens at %s/%v, want freezetime/%v", state.Phase, state.TimeLeft, FreezeTime)
	}
	if state.BombPlanted || state.BombSite != "" || state.Winner != entity.SideNone {
		t.Error("bomb or winner state leaked into the next round")
	}
	if got := r.Strategy(entity.SideT); got != "rush" {
		t.Errorf("Strategy(t) = %q, want carried rush", got)
	}
	if got := r.Strategy(entity.SideCT); got != "split" {
		t.Errorf("Strategy(ct) = %q, want carried split", got)
	}
}

func TestRecordOutcome(t *testing.T) {
	r := NewRoundEngine("default")
	clock := stepTo(t, r, PhaseLive, 0)
	liveAt := clock
	clock += 30 * time.Second
	r.AdvanceTimer(30*time.Second, clock)
	r.EndRound(entity.SideT, ReasonCTEliminated)

	outcome := r.RecordOutcome(7, clock)

	if outcome.Round != 1 || outcome.Winner != entity.SideT || outcome.Kills != 7 {
		t.Errorf("outcome = round %d winner %s kills %d", outcome.Round, outcome.Winner, outcome.Kills)
	}
	if outcome.Duration != clock-liveAt {
		t.Errorf("Duration = %v, want %v", outcome.Duration, clock-liveAt)
	}
	if outcome.Objective {
		t.Error("Objective = true with no plant")
	}
	if len(r.History()) != 1 {
		t.Fatalf("History() len = %d, want 1", len(r.History()))
	}
}
