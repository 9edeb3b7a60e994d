package combat

import "fmt"

// EventType defines the kind of combat event.
type EventType string

const (
	EventHit   EventType = "hit"
	EventMiss  EventType = "miss"
	EventDeath EventType = "death"
)

// Event is emitted for every resolved attack.
type Event struct {
	Type         EventType
	AttackerID   string
	AttackerName string
	TargetID     string
	TargetName   string
	AttackRoll   int
	DefenseRoll  int
	Damage       int
	TargetHP     int
}

func (e Event) String() string {
	switch e.Type {
	case EventMiss:
		return fmt.Sprintf("%s misses %s (%d vs %d)", e.AttackerName, e.TargetName, e.AttackRoll, e.DefenseRoll)
	case EventDeath:
		return fmt.Sprintf("%s hits %s for %d, %s is down", e.AttackerName, e.TargetName, e.Damage, e.TargetName)
	default:
		return fmt.Sprintf("%s hits %s for %d, %d HP left", e.AttackerName, e.TargetName, e.Damage, e.TargetHP)
	}
}

// Handler handles combat events.
type Handler func(evt Event)

// Emitter fans events out to handlers.
type Emitter struct {
	Handlers []Handler
}

func (e *Emitter) Emit(evt Event) {
	if e == nil || len(e.Handlers) == 0 {
		return
	}
	for _, h := range e.Handlers {
		if h != nil {
			h(evt)
		}
	}
}

// Resolver applies attacks between combatants.
type Resolver struct {
	Roller  Roller
	Emitter *Emitter
}

func NewResolver(r Roller) *Resolver {
	if r == nil {
		r = NewRandRoller(nil)
	}
	return &Resolver{Roller: r, Emitter: &Emitter{}}
}

// Attack rolls d20 + strength against d20 + defense. The margin, if
// positive, is subtracted from the defender's HP, which never drops below 0.
func (r *Resolver) Attack(attacker, defender *Combatant) (Event, error) {
	if attacker == nil || defender == nil {
		return Event{}, fmt.Errorf("combat: nil combatant")
	}
	if !attacker.Alive() {
		return Event{}, fmt.Errorf("%w: %s", ErrDown, attacker.ID)
	}
	if !defender.Alive() {
		return Event{}, fmt.Errorf("%w: %s", ErrDown, defender.ID)
	}
	if !factionCanHit(attacker.Faction, defender.Faction) {
		return Event{}, fmt.Errorf("%w: %s -> %s", ErrFriendlyFire, attacker.ID, defender.ID)
	}

	attack := r.Roller.Roll(20) + attacker.Attribute(AttrStrength)
	defense := r.Roller.Roll(20) + defender.Attribute(AttrDefense)
	damage := max(0, attack-defense)

	evt := Event{
		Type:         EventMiss,
		AttackerID:   attacker.ID,
		AttackerName: attacker.Name,
		TargetID:     defender.ID,
		TargetName:   defender.Name,
		AttackRoll:   attack,
		DefenseRoll:  defense,
		Damage:       damage,
		TargetHP:     defender.HP(),
	}

	if damage > 0 {
		hp := max(0, defender.HP()-damage)
		if err := defender.Actor.SetHP(hp); err != nil {
			return Event{}, fmt.Errorf("combat: set %s HP: %w", defender.ID, err)
		}
		evt.TargetHP = hp
		evt.Type = EventHit
		if hp == 0 {
			evt.Type = EventDeath
		}
	}

	r.Emitter.Emit(evt)
	return evt, nil
}
