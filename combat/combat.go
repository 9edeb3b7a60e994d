// Package combat resolves melee attacks with opposed d20 rolls.
package combat

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/jwebster45206/d20"

	"github.com/milk9111/isopath/agent"
)

// Attribute keys stored on each actor.
const (
	AttrStrength = "str"
	AttrDefense  = "def"
	AttrAccuracy = "acc"
)

var (
	ErrDown         = errors.New("combat: combatant is down")
	ErrFriendlyFire = errors.New("combat: same faction")
)

// Faction identifies teams for friendly-fire checks.
type Faction int

const (
	FactionNeutral Faction = iota
	FactionPlayer
	FactionEnemy
)

// Stats are the base numbers a combatant is built from.
type Stats struct {
	Strength int
	Defense  int
	Accuracy int
	HP       int
}

var (
	PlayerStats = Stats{Strength: 1, Defense: 1, Accuracy: 1, HP: 10}
	EnemyStats  = Stats{Strength: 0, Defense: 0, Accuracy: 0, HP: 5}
)

// Combatant pairs a d20 actor with its faction. ID is unique per combatant;
// Name is for display.
type Combatant struct {
	ID      string
	Name    string
	Faction Faction
	Actor   *d20.Actor
}

func NewCombatant(id string, faction Faction, s Stats) (*Combatant, error) {
	if s.HP <= 0 {
		return nil, fmt.Errorf("combat: %s needs positive HP, got %d", id, s.HP)
	}
	actor, err := d20.NewActor(id).
		WithHP(s.HP).
		WithAC(10 + s.Defense).
		WithAttributes(map[string]int{
			AttrStrength: s.Strength,
			AttrDefense:  s.Defense,
			AttrAccuracy: s.Accuracy,
		}).
		Build()
	if err != nil {
		return nil, fmt.Errorf("combat: build actor %s: %w", id, err)
	}
	return &Combatant{ID: id, Name: id, Faction: faction, Actor: actor}, nil
}

// ForAgent builds a combatant keyed by the agent's ID, so two agents that
// share a name stay distinct in events and logs.
func ForAgent(a *agent.Agent, faction Faction, s Stats) (*Combatant, error) {
	if a == nil {
		return nil, fmt.Errorf("combat: nil agent")
	}
	c, err := NewCombatant(a.ID.String(), faction, s)
	if err != nil {
		return nil, err
	}
	c.Name = a.Name
	return c, nil
}

// Attribute returns a stat, or 0 when it is not set.
func (c *Combatant) Attribute(name string) int {
	if c == nil || c.Actor == nil {
		return 0
	}
	v, _ := c.Actor.Attribute(name)
	return v
}

func (c *Combatant) HP() int {
	if c == nil || c.Actor == nil {
		return 0
	}
	return c.Actor.HP()
}

func (c *Combatant) Alive() bool {
	return c.HP() > 0
}

// Roller rolls a die with the given number of sides, returning 1..sides.
type Roller interface {
	Roll(sides int) int
}

// RandRoller rolls with math/rand/v2.
type RandRoller struct {
	r *rand.Rand
}

// NewRandRoller returns a seeded roller; a nil source uses the global one.
func NewRandRoller(src rand.Source) *RandRoller {
	if src == nil {
		return &RandRoller{}
	}
	return &RandRoller{r: rand.New(src)}
}

func (r *RandRoller) Roll(sides int) int {
	if sides <= 1 {
		return 1
	}
	if r == nil || r.r == nil {
		return rand.IntN(sides) + 1
	}
	return r.r.IntN(sides) + 1
}

func factionCanHit(attacker, target Faction) bool {
	if attacker == FactionNeutral || target == FactionNeutral {
		return true
	}
	return attacker != target
}
