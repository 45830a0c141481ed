// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/ykrasik/jaci-sub001/pkg/hierarchy"
)

// pickHeight is the number of commands the list shows at once.
const pickHeight = 12

// ErrNoCommands is returned by PickCommand for a hierarchy without commands.
var ErrNoCommands = errors.New("the hierarchy has no commands")

// Commands returns every command below dir ordered by path.
func Commands(dir *hierarchy.Directory) []*hierarchy.Command {
	var out []*hierarchy.Command
	var walk func(d *hierarchy.Directory)
	walk = func(d *hierarchy.Directory) {
		out = append(out, d.Commands()...)
		for _, sub := range d.Directories() {
			walk(sub)
		}
	}
	walk(dir)
	slices.SortFunc(out, func(a, b *hierarchy.Command) int {
		return strings.Compare(a.Path(), b.Path())
	})
	return out
}

// PickCommand lets the user choose one of the commands below root.
func PickCommand(ctx context.Context, root *hierarchy.Directory, cfg Config) (*hierarchy.Command, error) {
	cmds := Commands(root)
	if len(cmds) == 0 {
		return nil, ErrNoCommands
	}

	options := make([]huh.Option[*hierarchy.Command], len(cmds))
	for i, c := range cmds {
		options[i] = huh.NewOption(optionLabel(c), c)
	}

	var picked *hierarchy.Command
	sel := huh.NewSelect[*hierarchy.Command]().
		Title("Command").
		Options(options...).
		Filtering(!cfg.Accessible).
		Value(&picked)
	if len(options) > pickHeight {
		sel = sel.Height(pickHeight)
	}

	if err := newForm(cfg, huh.NewGroup(sel)).RunWithContext(ctx); err != nil {
		return nil, abortErr(err)
	}
	if picked == nil {
		return nil, ErrAborted
	}
	return picked, nil
}

// optionLabel is the list entry of c: its path and the first line of its
// description.
func optionLabel(c *hierarchy.Command) string {
	desc, _, _ := strings.Cut(c.Description(), "\n")
	if desc == "" {
		return c.Path()
	}
	return c.Path() + "  " + desc
}
