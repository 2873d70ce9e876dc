package battle

// Action is the player's choice for one round.
// The zero value (ActionUnknown) is intentionally invalid.
type Action int

const (
	ActionUnknown Action = iota // zero value; intentionally invalid
	ActionAttack
	ActionPotion
	ActionCapture
	ActionFlee
)

// Actions lists the valid actions in menu order.
var Actions = []Action{ActionAttack, ActionPotion, ActionCapture, ActionFlee}

// Valid reports whether a is one of the four player actions.
func (a Action) Valid() bool {
	return a >= ActionAttack && a <= ActionFlee
}

// String returns the human-readable name of the action.
func (a Action) String() string {
	switch a {
	case ActionAttack:
		return "attack"
	case ActionPotion:
		return "potion"
	case ActionCapture:
		return "capture"
	case ActionFlee:
		return "flee"
	default:
		return "unknown"
	}
}

// State is a node of the battle state machine.
type State int

const (
	AwaitingPlayerAction State = iota
	AwaitingOpponentTurn
	Won
	Lost
	Caught
	Fled
)

// IsTerminal reports whether the battle has ended in s.
func (s State) IsTerminal() bool {
	switch s {
	case Won, Lost, Caught, Fled:
		return true
	default:
		return false
	}
}

// String returns the human-readable state name.
func (s State) String() string {
	switch s {
	case AwaitingPlayerAction:
		return "awaiting player action"
	case AwaitingOpponentTurn:
		return "awaiting opponent turn"
	case Won:
		return "won"
	case Lost:
		return "lost"
	case Caught:
		return "caught"
	case Fled:
		return "fled"
	default:
		return "unknown"
	}
}

// Outcome is the terminal result of a battle.
type Outcome int

const (
	OutcomeNone Outcome = iota // battle still running
	OutcomeWon
	OutcomeLost
	OutcomeCaught
	OutcomeFled
)

// String returns the human-readable outcome label.
func (o Outcome) String() string {
	switch o {
	case OutcomeWon:
		return "won"
	case OutcomeLost:
		return "lost"
	case OutcomeCaught:
		return "caught"
	case OutcomeFled:
		return "fled"
	default:
		return "none"
	}
}

// outcomeOf maps a terminal state onto its Outcome.
func outcomeOf(s State) Outcome {
	switch s {
	case Won:
		return OutcomeWon
	case Lost:
		return OutcomeLost
	case Caught:
		return OutcomeCaught
	case Fled:
		return OutcomeFled
	default:
		return OutcomeNone
	}
}
