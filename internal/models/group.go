package models

import "time"

// DefaultGroupColor is assigned to groups created without an explicit color.
const DefaultGroupColor = "#6366f1"

// Group organizes accounts into named collections. Names are unique.
type Group struct {
	ID        string
	Name      string
	Color     string
	SortOrder int
	CreatedAt time.Time
}

// GroupWithCount is a group together with the number of accounts in it.
type GroupWithCount struct {
	Group
	AccountCount int
}
