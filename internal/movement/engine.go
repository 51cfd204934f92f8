// Package movement advances agents toward their tactic-derived targets.
package movement

import (
	"time"

	"github.com/samdwyer/strikeband/internal/entity"
	"github.com/samdwyer/strikeband/internal/gamedata"
)

const (
	// PathPoints is how many interpolated steps a cached path holds.
	PathPoints = 10
	// Speed is agent movement speed in map units per second.
	Speed = 20.0
	// MaxAllowedDistance is where the positioning score bottoms out.
	MaxAllowedDistance = 150.0
)

// Options selects how targets resolve for one advance pass.
type Options struct {
	// CallWaypoint overrides all route targets while a mid-round call is
	// active. Empty means no call.
	CallWaypoint string
	// BombPlanted redirects both sides to converge on the bomb site.
	BombPlanted bool
	// BombSite is the planted site letter, meaningful when BombPlanted.
	BombSite string
	// Elapsed is the simulated time this pass covers.
	Elapsed time.Duration
}

// path is a cached straight-line interpolation toward a target.
type path struct {
	points []gamedata.Position
	index  int
	target gamedata.Position
}

// Engine moves agents along lazily built paths. The path cache is keyed
// by agent ID and must be invalidated on strategy or call changes and
// cleared on round reset, or it serves stale targets.
type Engine struct {
	catalog *gamedata.TacticsCatalog
	paths   map[string]*path
}

// NewEngine creates a movement engine backed by the tactics catalog.
func NewEngine(catalog *gamedata.TacticsCatalog) *Engine {
	return &Engine{
		catalog: catalog,
		paths:   make(map[string]*path),
	}
}

// Reset clears the whole path cache, e.g. at round start.
func (e *Engine) Reset() {
	e.paths = make(map[string]*path)
}

// InvalidateAgent drops one agent's cached path.
func (e *Engine) InvalidateAgent(id string) {
	delete(e.paths, id)
}

// InvalidateTeam drops cached paths for a whole roster, used when the
// team's strategy or mid-round call changes.
func (e *Engine) InvalidateTeam(team *entity.Team) {
	for _, agent := range team.Agents {
		delete(e.paths, agent.ID)
	}
}

// Advance moves every living agent on the team toward its resolved
// target and refreshes positioning scores. Dead agents are untouched.
func (e *Engine) Advance(team *entity.Team, opts Options) {
	for _, agent := range team.Agents {
		if !agent.Alive {
			continue
		}
		target, ok := e.resolveTarget(agent, team.Strategy, opts)
		if !ok {
			continue
		}
		e.advanceAgent(agent, target, opts.Elapsed)

		dist := agent.Position.DistanceTo(target)
		score := 1 - dist/MaxAllowedDistance
		if score < 0 {
			score = 0
		}
		agent.Strategy.RecordPositioning(score)
	}
}

// resolveTarget picks the agent's destination: the active call waypoint
// first, the bomb site while planted, else the final waypoint of the
// agent's strategy route.
func (e *Engine) resolveTarget(agent *entity.Agent, strategy string, opts Options) (gamedata.Position, bool) {
	if opts.CallWaypoint != "" {
		if pos, ok := e.catalog.Waypoint(opts.CallWaypoint); ok {
			return pos, true
		}
	}
	if opts.BombPlanted {
		if pos, ok := e.catalog.Site(opts.BombSite); ok {
			return pos, true
		}
	}
	route := e.catalog.Route(strategy, string(agent.Side), agent.Role.ID())
	if len(route) == 0 {
		return gamedata.Position{}, false
	}
	return route[len(route)-1], true
}

// advanceAgent walks the agent along its cached path at constant speed,
// rebuilding the path when the target moved or none is cached.
func (e *Engine) advanceAgent(agent *entity.Agent, target gamedata.Position, elapsed time.Duration) {
	p := e.paths[agent.ID]
	if p == nil || p.target != target {
		p = buildPath(agent.Position, target)
		e.paths[agent.ID] = p
	}

	remaining := Speed * elapsed.Seconds()
	for remaining > 0 && p.index < len(p.points) {
		next := p.points[p.index]
		step := agent.Position.DistanceTo(next)
		if step <= remaining {
			agent.Position = next
			remaining -= step
			p.index++
			continue
		}
		// Partial step toward the next path point.
		frac := remaining / step
		agent.Position = gamedata.Position{
			X: agent.Position.X + (next.X-agent.Position.X)*frac,
			Y: agent.Position.Y + (next.Y-agent.Position.Y)*frac,
		}
		remaining = 0
	}
}

// buildPath interpolates a straight 10-point path from start to target.
func buildPath(start, target gamedata.Position) *path {
	points := make([]gamedata.Position, PathPoints)
	for i := 0; i < PathPoints; i++ {
		t := float64(i+1) / PathPoints
		points[i] = gamedata.Position{
			X: start.X + (target.X-start.X)*t,
			Y: start.Y + (target.Y-start.Y)*t,
		}
	}
	return &path{points: points, target: target}
}
