package entity

const (
	// RosterSize is the number of agents on each team.
	RosterSize = 5
	// MaxMoney caps a team's bank.
	MaxMoney = 16000
	// WinReward is the payout for winning a round.
	WinReward = 3250
	// LossBonusFloor is the base consolation income for losing a round.
	LossBonusFloor = 1400
	// LossBonusStep is the escalation per consecutive loss.
	LossBonusStep = 500
	// LossBonusCap bounds the escalating loss bonus.
	LossBonusCap = 3400
)

// StrategyRecord tracks how a strategy has fared for a team.
type StrategyRecord struct {
	Wins   int
	Rounds int
}

// SuccessRate returns wins over rounds played with the strategy.
func (r StrategyRecord) SuccessRate() float64 {
	if r.Rounds == 0 {
		return 0
	}
	return float64(r.Wins) / float64(r.Rounds)
}

// Team is one of the two five-agent squads in a match.
type Team struct {
	Side      Side
	Name      string
	Money     int
	LossBonus int
	RoundWins int
	Strategy  string // Active strategy key

	Agents []*Agent

	StrategyStats  map[string]*StrategyRecord
	LastSuccessful string // Most recent strategy that won a round
}

// NewTeam creates a team with a starting bank and loss bonus at the floor.
func NewTeam(side Side, name, strategy string, agents []*Agent) *Team {
	return &Team{
		Side:          side,
		Name:          name,
		Money:         800 * RosterSize,
		LossBonus:     LossBonusFloor,
		Strategy:      strategy,
		Agents:        agents,
		StrategyStats: make(map[string]*StrategyRecord),
	}
}

// AgentByID returns the roster agent with the given ID, or nil.
func (t *Team) AgentByID(id string) *Agent {
	for _, agent := range t.Agents {
		if agent.ID == id {
			return agent
		}
	}
	return nil
}

// AliveCount returns the number of living agents on the roster.
func (t *Team) AliveCount() int {
	count := 0
	for _, agent := range t.Agents {
		if agent.Alive {
			count++
		}
	}
	return count
}

// AddMoney credits the bank, clamping to [0, MaxMoney].
func (t *Team) AddMoney(amount int) {
	t.Money += amount
	if t.Money > MaxMoney {
		t.Money = MaxMoney
	}
	if t.Money < 0 {
		t.Money = 0
	}
}

// Spend debits the bank if funds suffice, reporting success.
func (t *Team) Spend(amount int) bool {
	if amount < 0 || amount > t.Money {
		return false
	}
	t.Money -= amount
	return true
}

// SettleWin applies round-win economy: the payout lands and the loss
// bonus resets to the floor.
func (t *Team) SettleWin() {
	t.RoundWins++
	t.AddMoney(WinReward)
	t.LossBonus = LossBonusFloor
}

// SettleLoss applies round-loss economy: floor income plus the current
// bonus, then the bonus escalates one step toward its cap.
func (t *Team) SettleLoss() {
	t.AddMoney(LossBonusFloor + t.LossBonus)
	t.LossBonus += LossBonusStep
	if t.LossBonus > LossBonusCap {
		t.LossBonus = LossBonusCap
	}
}

// RecordStrategyOutcome folds a round result into the per-strategy record.
func (t *Team) RecordStrategyOutcome(strategy string, won bool) {
	record := t.StrategyStats[strategy]
	if record == nil {
		record = &StrategyRecord{}
		t.StrategyStats[strategy] = record
	}
	record.Rounds++
	if won {
		record.Wins++
		t.LastSuccessful = strategy
	}
}

// StrategySuccessRate returns the win rate of a strategy for this team.
func (t *Team) StrategySuccessRate(strategy string) float64 {
	record := t.StrategyStats[strategy]
	if record == nil {
		return 0
	}
	return record.SuccessRate()
}
