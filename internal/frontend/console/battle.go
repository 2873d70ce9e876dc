package console

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/creatures/internal/game/battle"
	"github.com/cory-johannsen/creatures/internal/game/creature"
)

// actionKeys maps the battle menu entries to actions.
var actionKeys = map[string]battle.Action{
	"1": battle.ActionAttack,
	"2": battle.ActionPotion,
	"3": battle.ActionCapture,
	"4": battle.ActionFlee,
}

func (u *UI) exploreMenu() error {
	regions := u.sess.Regions.All()
	for {
		_ = u.conn.WriteLine(u.theme.Heading("EXPLORE"))
		_ = u.conn.WriteLine("Available regions:")
		for i, r := range regions {
			_ = u.conn.WriteLine(u.theme.Option(fmt.Sprint(i+1), r.DisplayName()))
		}
		_ = u.conn.WriteLine(u.theme.Option("V", "Back"))
		choice, err := u.conn.Ask("> ")
		if err != nil {
			return err
		}
		if strings.ToLower(choice) == "v" {
			return nil
		}
		var idx int
		if _, scanErr := fmt.Sscanf(choice, "%d", &idx); scanErr != nil || idx < 1 || idx > len(regions) {
			_ = u.conn.WriteLine(u.theme.Bad.Render("Invalid option."))
			continue
		}
		if err := u.explore(regions[idx-1].Name); err != nil {
			return err
		}
	}
}

func (u *UI) explore(regionName string) error {
	_ = u.conn.Writef("You explore %s...", regionName)
	wild, ok, err := u.sess.Explore(regionName)
	if err != nil {
		return err
	}
	if !ok {
		_ = u.conn.WriteLine(u.theme.Muted.Render("No encounter this time."))
		return nil
	}
	_ = u.conn.WriteLine(u.theme.Warn.Render(fmt.Sprintf("A wild %s appeared! (Lv%d)", wild.Species, wild.Level)))
	return u.fight(wild)
}

func (u *UI) chooseActive() (int, error) {
	t := u.sess.Trainer
	if !t.HasAble() {
		return -1, nil
	}
	_ = u.conn.WriteLine("Choose your active creature:")
	for i, c := range t.Roster {
		status := ""
		if c.IsFainted() {
			status = " " + u.theme.Bad.Render("(Fainted)")
		}
		_ = u.conn.Writef("%d) %s (%s) Lv%d%s", i+1, c.Nickname, c.Species, c.Level, status)
	}
	n, ok, err := u.conn.AskInt("> ", 1)
	if err != nil {
		return -1, err
	}
	c, cerr := t.Creature(n - 1)
	if !ok || cerr != nil || c.IsFainted() {
		_ = u.conn.WriteLine("Invalid choice. Using the first able creature.")
		return -1, nil
	}
	return n - 1, nil
}

func (u *UI) fight(wild *creature.Creature) error {
	if len(u.sess.Trainer.Roster) == 0 {
		_ = u.conn.WriteLine("You have no creatures to fight with!")
	} else if !u.sess.Trainer.HasAble() {
		_ = u.conn.WriteLine("No able creatures.")
	}
	active, err := u.chooseActive()
	if err != nil {
		return err
	}
	b := u.sess.StartBattle(wild, active)

	for !b.Over() {
		me := b.Active()
		_ = u.conn.Writef("You: %s Lv%d | %s", me.Nickname, me.Level, u.theme.HPBar(me))
		_ = u.conn.Writef("Wild: %s Lv%d | %s", wild.Species, wild.Level, u.theme.HPBar(wild))
		_ = u.conn.WriteLine("Actions:")
		_ = u.conn.WriteLine(u.theme.Option("1", "Attack"))
		_ = u.conn.WriteLine(u.theme.Option("2", "Use Potion"))
		_ = u.conn.WriteLine(u.theme.Option("3", "Try to capture"))
		_ = u.conn.WriteLine(u.theme.Option("4", "Flee"))
		choice, err := u.conn.Ask("> ")
		if err != nil {
			return err
		}
		action, ok := actionKeys[choice]
		if !ok {
			_ = u.conn.WriteLine(u.theme.Bad.Render("Invalid."))
			continue
		}
		round, err := b.Step(action)
		if err != nil {
			return err
		}
		u.narrate(round)
	}

	res, err := u.sess.Conclude(b)
	if err != nil {
		return err
	}
	switch res.Outcome {
	case battle.OutcomeCaught:
		_ = u.conn.WriteLine(u.theme.Gold.Render(fmt.Sprintf("You caught %s!", wild.Species)))
	case battle.OutcomeFled:
		_ = u.conn.WriteLine("You left the encounter.")
	case battle.OutcomeWon:
		_ = u.conn.WriteLine(u.theme.Good.Render(fmt.Sprintf("You won and defeated the wild %s! (+$%d)", wild.Species, res.Reward)))
	case battle.OutcomeLost:
		_ = u.conn.WriteLine(u.theme.Bad.Render("All your creatures fainted. They were healed at the Center automatically."))
	}
	return nil
}

func (u *UI) narrate(r battle.Round) {
	for _, ev := range r.Events {
		switch ev.Kind {
		case battle.EventFainted, battle.EventLost, battle.EventCaptureFailed, battle.EventFleeFailed:
			_ = u.conn.WriteLine(u.theme.Bad.Render(ev.Narrative))
		case battle.EventHeal, battle.EventCaptured, battle.EventWon, battle.EventSwitched:
			_ = u.conn.WriteLine(u.theme.Good.Render(ev.Narrative))
		default:
			_ = u.conn.WriteLine(ev.Narrative)
		}
	}
}
