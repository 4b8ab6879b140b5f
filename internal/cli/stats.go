package cli

import (
	"context"
	"fmt"
	"strconv"
)

// ShowStats prints vault-wide counters: totals plus per-year, per-group and
// per-tag account breakdowns.
func (a *App) ShowStats(ctx context.Context) error {
	stats, err := a.statsService.Collect(ctx)
	if err != nil {
		reportError(err)
		return err
	}

	printlnFn("Accounts:", stats.AccountsCount)
	printlnFn("Groups:  ", stats.GroupsCount)
	printlnFn("Tags:    ", stats.TagsCount)
	printlnFn("Log rows:", stats.LogsCount)

	if len(stats.AccountsByYear) > 0 {
		printlnFn("By year:")
		for _, yc := range stats.AccountsByYear {
			printlnFn(fmt.Sprintf("  %d: %d", yc.Year, yc.Count))
		}
	}
	if len(stats.AccountsPerGroup) > 0 {
		printlnFn("By group:")
		for _, nc := range stats.AccountsPerGroup {
			printlnFn(fmt.Sprintf("  %s: %d", nc.Name, nc.Count))
		}
	}
	if len(stats.AccountsPerTag) > 0 {
		printlnFn("By tag:")
		for _, nc := range stats.AccountsPerTag {
			printlnFn(fmt.Sprintf("  %s: %d", nc.Name, nc.Count))
		}
	}
	return nil
}

// ShowLog prints recent operation-log entries, newest first.
//
//	log            — last 20 entries
//	log <n>        — last n entries
//	log purge <d>  — delete entries older than d days
func (a *App) ShowLog(ctx context.Context, args []string) error {
	if len(args) > 0 && args[0] == "purge" {
		if len(args) != 2 {
			printlnFn("Usage: log purge <days>")
			return nil
		}
		days, err := strconv.Atoi(args[1])
		if err != nil || days < 0 {
			printlnFn("Invalid number of days:", args[1])
			return nil
		}

		n, err := a.oplogService.Purge(ctx, days)
		if err != nil {
			reportError(err)
			return err
		}
		printlnFn(fmt.Sprintf("Purged %d log entries", n))
		return nil
	}

	limit := 20
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			printlnFn("Usage: log [n] | log purge <days>")
			return nil
		}
		limit = n
	}

	entries, err := a.oplogService.List(ctx, nil, limit)
	if err != nil {
		reportError(err)
		return err
	}
	for _, e := range entries {
		line := fmt.Sprintf("%s  %-10s", e.CreatedAt.UTC().Format("2006-01-02 15:04"), e.Action)
		if e.Details != nil {
			line += "  " + *e.Details
		}
		printlnFn(line)
	}
	printlnFn(fmt.Sprintf("%d log entries", len(entries)))
	return nil
}
