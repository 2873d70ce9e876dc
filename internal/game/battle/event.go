package battle

// EventKind classifies a RoundEvent.
type EventKind int

const (
	EventAttack EventKind = iota
	EventHeal
	EventNoPotion
	EventNoPokeball
	EventCaptureFailed
	EventCaptured
	EventFleeFailed
	EventFled
	EventFainted
	EventSwitched
	EventWon
	EventLost
)

// RoundEvent records one thing that happened during a round.
type RoundEvent struct {
	Kind EventKind
	// Actor is the display name of the creature acting.
	Actor string
	// Target is the display name of the creature affected, if any.
	Target string
	// Amount is the damage dealt or HP restored; zero otherwise.
	Amount    int
	Narrative string
}

// Round is the full record of one Step.
type Round struct {
	Number int
	Action Action
	Events []RoundEvent
	// State is the battle state after the round.
	State State
}

// Outcome returns the round's terminal outcome, or OutcomeNone if the battle continues.
func (r Round) Outcome() Outcome { return outcomeOf(r.State) }
