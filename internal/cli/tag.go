package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gmanager/gmanager/internal/services"
)

// ListTags prints every tag with its account count.
func (a *App) ListTags(ctx context.Context) error {
	tags, err := a.tagService.ListWithCounts(ctx)
	if err != nil {
		reportError(err)
		return err
	}
	for _, t := range tags {
		printlnFn(fmt.Sprintf("%s  %s  %s  %d account(s)", t.ID, t.Name, t.Color, t.AccountCount))
	}
	return nil
}

// AddTag creates a tag. The name is taken from the arguments, or prompted
// for when none are given.
func (a *App) AddTag(ctx context.Context, args []string) error {
	name := strings.Join(args, " ")
	if name == "" {
		var err error
		name, err = getSimpleText(a.reader, "Enter tag name", os.Stdout)
		if err != nil {
			return err
		}
	}

	tag, err := a.tagService.Create(ctx, services.CreateTagParams{Name: name})
	if err != nil {
		reportError(err)
		return err
	}

	printlnFn("Created tag", tag.ID)
	return nil
}

// RemoveTag deletes a tag and detaches it from every account.
func (a *App) RemoveTag(ctx context.Context, args []string) error {
	if len(args) != 1 {
		printlnFn("Usage: rmtag <id>")
		return nil
	}

	if err := a.tagService.Delete(ctx, args[0]); err != nil {
		reportError(err)
		return err
	}

	printlnFn("Tag removed.")
	return nil
}

// TagAccount attaches a tag to an account.
func (a *App) TagAccount(ctx context.Context, args []string) error {
	if len(args) != 2 {
		printlnFn("Usage: tag <account-id> <tag-id>")
		return nil
	}

	if err := a.tagService.Attach(ctx, args[0], args[1]); err != nil {
		reportError(err)
		return err
	}

	printlnFn("Tag attached.")
	return nil
}

// UntagAccount detaches a tag from an account.
func (a *App) UntagAccount(ctx context.Context, args []string) error {
	if len(args) != 2 {
		printlnFn("Usage: untag <account-id> <tag-id>")
		return nil
	}

	if err := a.tagService.Detach(ctx, args[0], args[1]); err != nil {
		reportError(err)
		return err
	}

	printlnFn("Tag detached.")
	return nil
}
