package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gmanager/gmanager/internal/services"
)

// ListGroups prints every group with its account count.
func (a *App) ListGroups(ctx context.Context) error {
	groups, err := a.groupService.ListWithCounts(ctx)
	if err != nil {
		reportError(err)
		return err
	}
	for _, g := range groups {
		printlnFn(fmt.Sprintf("%s  %s  %s  %d account(s)", g.ID, g.Name, g.Color, g.AccountCount))
	}
	return nil
}

// AddGroup creates a group. The name is taken from the arguments, or prompted
// for when none are given.
func (a *App) AddGroup(ctx context.Context, args []string) error {
	name := strings.Join(args, " ")
	if name == "" {
		var err error
		name, err = getSimpleText(a.reader, "Enter group name", os.Stdout)
		if err != nil {
			return err
		}
	}

	group, err := a.groupService.Create(ctx, services.CreateGroupParams{Name: name})
	if err != nil {
		reportError(err)
		return err
	}

	printlnFn("Created group", group.ID)
	return nil
}

// RemoveGroup deletes a group. Accounts in it are kept and detached.
func (a *App) RemoveGroup(ctx context.Context, args []string) error {
	if len(args) != 1 {
		printlnFn("Usage: rmgroup <id>")
		return nil
	}

	if err := a.groupService.Delete(ctx, args[0]); err != nil {
		reportError(err)
		return err
	}

	printlnFn("Group removed.")
	return nil
}
