package game

const DefaultStartingHealth = 30

// Player holds one side's health.
type Player struct {
	health    int
	maxHealth int
}

// NewPlayer creates a player at full health.
func NewPlayer(hp int) *Player {
	return &Player{health: hp, maxHealth: hp}
}

func (p *Player) Health() int    { return p.health }
func (p *Player) MaxHealth() int { return p.maxHealth }

// Alive reports whether the player still has health left.
func (p *Player) Alive() bool {
	return p.health > 0
}

// TakeDamage lowers health by amount, never below 0.
// Non-positive amounts are ignored.
func (p *Player) TakeDamage(amount int) {
	if amount <= 0 {
		return
	}
	p.health -= min(p.health, amount)
}
