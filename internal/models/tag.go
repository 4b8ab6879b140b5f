package models

import "time"

// DefaultTagColor is assigned to tags created without an explicit color.
const DefaultTagColor = "#10b981"

// Tag is a free-form label attachable to any number of accounts.
type Tag struct {
	ID        string
	Name      string
	Color     string
	CreatedAt time.Time
}

// TagWithCount is a tag together with the number of accounts carrying it.
type TagWithCount struct {
	Tag
	AccountCount int
}
