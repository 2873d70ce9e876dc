package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/creatures/internal/game/creature"
	"github.com/cory-johannsen/creatures/internal/game/session"
	"github.com/cory-johannsen/creatures/internal/game/trainer"
)

// UI drives one session from a terminal.
type UI struct {
	conn   *Conn
	theme  Theme
	sess   *session.Session
	logger *zap.Logger
}

// New creates a UI reading commands from in and writing to out.
// A nil logger is replaced by a no-op logger.
//
// Precondition: sess must be non-nil.
func New(sess *session.Session, in io.Reader, out io.Writer, logger *zap.Logger) *UI {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UI{
		conn:   NewConn(in, out),
		theme:  NewTheme(out),
		sess:   sess,
		logger: logger,
	}
}

// Run offers a starter on the first run and then loops on the main menu
// until the player saves and exits. Input ending early also saves.
//
// Postcondition: the trainer has been saved unless an error is returned.
func (u *UI) Run(ctx context.Context) error {
	err := u.run(ctx)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	if err := u.sess.Save(ctx); err != nil {
		return err
	}
	_ = u.conn.WriteLine("Game saved. See you next time!")
	return nil
}

func (u *UI) run(ctx context.Context) error {
	if u.sess.NeedsStarter() {
		if err := u.chooseStarter(); err != nil {
			return err
		}
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		t := u.sess.Trainer
		_ = u.conn.WriteLine("")
		_ = u.conn.WriteLine(u.theme.Heading("CREATURE TERMINAL BATTLE"))
		_ = u.conn.Writef("Trainer: %s | Money: $%d | Wins: %d", t.Name, t.Money, t.Wins)
		for _, o := range [][2]string{
			{"1", "Creatures"}, {"2", "Pokedex"}, {"3", "Bag"}, {"4", "Explore"},
			{"5", "Profile"}, {"6", "Pokemon Center (heal)"}, {"0", "Save and exit"},
		} {
			_ = u.conn.WriteLine(u.theme.Option(o[0], o[1]))
		}
		choice, err := u.conn.Ask("> ")
		if err != nil {
			return err
		}
		switch choice {
		case "1":
			err = u.rosterMenu()
		case "2":
			u.showPokedex()
		case "3":
			err = u.bagMenu()
		case "4":
			err = u.exploreMenu()
		case "5":
			u.showProfile()
		case "6":
			u.sess.Heal()
			_ = u.conn.WriteLine(u.theme.Good.Render("Welcome to the Pokemon Center! All your creatures were healed."))
		case "0":
			return nil
		default:
			_ = u.conn.WriteLine(u.theme.Bad.Render("Invalid option."))
		}
		if err != nil {
			return err
		}
	}
}

func (u *UI) chooseStarter() error {
	_ = u.conn.WriteLine(u.theme.Heading("WELCOME"))
	_ = u.conn.WriteLine("Choose your starter:")
	for i, s := range trainer.Starters {
		_ = u.conn.WriteLine(u.theme.Option(fmt.Sprint(i+1), s))
	}
	n, ok, err := u.conn.AskInt("> ", 1)
	if err != nil {
		return err
	}
	idx := n - 1
	if !ok || idx < 0 || idx >= len(trainer.Starters) {
		idx = 0
	}
	c, err := u.sess.ChooseStarter(trainer.Starters[idx])
	if err != nil {
		return err
	}
	_ = u.conn.Writef("You received %s!", u.theme.Gold.Render(c.Nickname))
	return nil
}

func (u *UI) creatureLine(i int, c *creature.Creature) string {
	return fmt.Sprintf("%d) %s (%s) Lv%d | %s", i+1, c.Nickname, c.Species, c.Level, u.theme.HPBar(c))
}

// pickCreature lists the roster and asks for a 1-based index.
func (u *UI) pickCreature(prompt string) (*creature.Creature, int, error) {
	t := u.sess.Trainer
	for i, c := range t.Roster {
		_ = u.conn.WriteLine(u.creatureLine(i, c))
	}
	n, ok, err := u.conn.AskInt(prompt, 0)
	if err != nil {
		return nil, -1, err
	}
	c, cerr := t.Creature(n - 1)
	if !ok || cerr != nil {
		_ = u.conn.WriteLine(u.theme.Bad.Render("Invalid index."))
		return nil, -1, nil
	}
	return c, n - 1, nil
}

func (u *UI) rosterMenu() error {
	for {
		t := u.sess.Trainer
		_ = u.conn.WriteLine(u.theme.Heading("CREATURES"))
		if len(t.Roster) == 0 {
			_ = u.conn.WriteLine(u.theme.Muted.Render("You have no creatures yet."))
		}
		for i, c := range t.Roster {
			_ = u.conn.WriteLine(u.creatureLine(i, c))
		}
		_ = u.conn.WriteLine(u.theme.Option("A", "Add manually (debug)"))
		_ = u.conn.WriteLine(u.theme.Option("E", "Edit/heal a creature"))
		_ = u.conn.WriteLine(u.theme.Option("R", "Remove a creature"))
		_ = u.conn.WriteLine(u.theme.Option("V", "Back"))
		choice, err := u.conn.Ask("> ")
		if err != nil {
			return err
		}
		switch strings.ToLower(choice) {
		case "a":
			err = u.addCreature()
		case "e":
			err = u.editCreature()
		case "r":
			err = u.removeCreature()
		case "v":
			return nil
		default:
			_ = u.conn.WriteLine(u.theme.Bad.Render("Invalid option."))
		}
		if err != nil {
			return err
		}
	}
}

func (u *UI) addCreature() error {
	name, err := u.conn.Ask("Species name (e.g. Pikachu): ")
	if err != nil {
		return err
	}
	if name == "" {
		return nil
	}
	if !u.sess.Catalog.Has(name) {
		answer, err := u.conn.Ask("Species not in the catalog. Add it anyway? (y/N) ")
		if err != nil {
			return err
		}
		if strings.ToLower(answer) != "y" {
			return nil
		}
	}
	level, ok, err := u.conn.AskInt("Level (default 5): ", trainer.StarterLevel)
	if err != nil {
		return err
	}
	if !ok {
		_ = u.conn.WriteLine(u.theme.Bad.Render("Invalid level."))
		return nil
	}
	nick, err := u.conn.Ask("Nickname (optional): ")
	if err != nil {
		return err
	}
	c := creature.New(u.sess.Catalog.Lookup(name), level, nick)
	u.sess.Trainer.AddCreature(c)
	_ = u.conn.Writef("%s joined the team!", c.Nickname)
	return nil
}

func (u *UI) editCreature() error {
	if len(u.sess.Trainer.Roster) == 0 {
		_ = u.conn.WriteLine("No creatures.")
		return nil
	}
	c, _, err := u.pickCreature("Choose the number: ")
	if err != nil || c == nil {
		return err
	}
	_ = u.conn.WriteLine(u.theme.Option("1", "Heal fully"))
	_ = u.conn.WriteLine(u.theme.Option("2", "Raise level"))
	_ = u.conn.WriteLine(u.theme.Option("3", "Change nickname"))
	_ = u.conn.WriteLine(u.theme.Option("4", "Back"))
	choice, err := u.conn.Ask("> ")
	if err != nil {
		return err
	}
	switch choice {
	case "1":
		c.HealFull()
		_ = u.conn.Writef("%s was healed.", c.Nickname)
	case "2":
		by, ok, err := u.conn.AskInt("How many levels? ", 1)
		if err != nil {
			return err
		}
		if !ok {
			_ = u.conn.WriteLine(u.theme.Bad.Render("Invalid number."))
			return nil
		}
		c.LevelUp(u.sess.Catalog.Lookup(c.Species), by)
		_ = u.conn.Writef("%s is now Lv%d.", c.Nickname, c.Level)
	case "3":
		name, err := u.conn.Ask("New nickname: ")
		if err != nil {
			return err
		}
		if c.Rename(name) {
			_ = u.conn.WriteLine("Nickname changed.")
		}
	}
	return nil
}

func (u *UI) removeCreature() error {
	if len(u.sess.Trainer.Roster) == 0 {
		_ = u.conn.WriteLine("No creatures.")
		return nil
	}
	_, idx, err := u.pickCreature("Number to remove: ")
	if err != nil || idx < 0 {
		return err
	}
	removed, err := u.sess.Trainer.RemoveCreature(idx)
	if err != nil {
		return err
	}
	_ = u.conn.Writef("%s was released.", removed.Nickname)
	return nil
}

func (u *UI) showPokedex() {
	_ = u.conn.WriteLine(u.theme.Heading("POKEDEX"))
	known := u.sess.Trainer.Pokedex.Species()
	if len(known) == 0 {
		_ = u.conn.WriteLine(u.theme.Muted.Render("You have not registered any species yet."))
		return
	}
	for _, name := range known {
		if !u.sess.Catalog.Has(name) {
			_ = u.conn.Writef("- %s | Type: ? | Base HP: ?", name)
			continue
		}
		sp := u.sess.Catalog.Lookup(name)
		_ = u.conn.Writef("- %s | Type: %s | Base HP: %d", sp.Name, sp.Attribute, sp.BaseHP)
	}
}

func (u *UI) bagMenu() error {
	for {
		items := u.sess.Trainer.Items
		_ = u.conn.WriteLine(u.theme.Heading("BAG"))
		if len(items) == 0 {
			_ = u.conn.WriteLine(u.theme.Muted.Render("No items."))
		}
		for _, name := range items.Names() {
			_ = u.conn.Writef("- %s: %d", name, items.Count(name))
		}
		_ = u.conn.WriteLine(u.theme.Option("A", "Add item manually"))
		_ = u.conn.WriteLine(u.theme.Option("U", "Use item"))
		_ = u.conn.WriteLine(u.theme.Option("V", "Back"))
		choice, err := u.conn.Ask("> ")
		if err != nil {
			return err
		}
		switch strings.ToLower(choice) {
		case "a":
			err = u.addItem()
		case "u":
			err = u.useItem()
		case "v":
			return nil
		default:
			_ = u.conn.WriteLine(u.theme.Bad.Render("Invalid option."))
		}
		if err != nil {
			return err
		}
	}
}

func (u *UI) addItem() error {
	name, err := u.conn.Ask("Item name: ")
	if err != nil {
		return err
	}
	qty, ok, err := u.conn.AskInt("Quantity: ", 1)
	if err != nil {
		return err
	}
	if !ok {
		_ = u.conn.WriteLine(u.theme.Bad.Render("Invalid quantity."))
		return nil
	}
	if err := u.sess.Trainer.Items.Add(name, qty); err != nil {
		_ = u.conn.WriteLine(u.theme.Bad.Render("Item not added: " + err.Error()))
		return nil
	}
	_ = u.conn.WriteLine("Item added.")
	return nil
}

func (u *UI) useItem() error {
	t := u.sess.Trainer
	names := t.Items.Names()
	if len(names) == 0 {
		_ = u.conn.WriteLine("No items.")
		return nil
	}
	_ = u.conn.WriteLine("Choose an item:")
	for i, name := range names {
		_ = u.conn.Writef("%d) %s x%d", i+1, name, t.Items.Count(name))
	}
	n, ok, err := u.conn.AskInt("> ", 0)
	if err != nil {
		return err
	}
	if !ok || n < 1 || n > len(names) {
		_ = u.conn.WriteLine(u.theme.Bad.Render("Invalid index."))
		return nil
	}
	use, err := t.UseItem(names[n-1])
	switch {
	case errors.Is(err, trainer.ErrNoTarget):
		_ = u.conn.WriteLine("No creature is able to use that.")
	case errors.Is(err, trainer.ErrNoEffect):
		_ = u.conn.WriteLine("That item has no effect here.")
	case err != nil:
		return err
	default:
		_ = u.conn.Writef("%s recovered %d HP.", use.Target.Nickname, use.Healed)
	}
	return nil
}

func (u *UI) showProfile() {
	t := u.sess.Trainer
	_ = u.conn.WriteLine(u.theme.Heading("PROFILE"))
	_ = u.conn.WriteLine(u.theme.LabelValue("Name", t.Name))
	_ = u.conn.WriteLine(u.theme.LabelValue("Money", fmt.Sprintf("$%d", t.Money)))
	_ = u.conn.WriteLine(u.theme.LabelValue("Wins", t.Wins))
	_ = u.conn.WriteLine(u.theme.LabelValue("Pokedex", fmt.Sprintf("%d species", t.Pokedex.Len())))
	names := make([]string, 0, len(t.Roster))
	for _, c := range t.Roster {
		names = append(names, c.Nickname)
	}
	team := strings.Join(names, ", ")
	if team == "" {
		team = "None"
	}
	_ = u.conn.WriteLine(u.theme.LabelValue("Team", team))
}
