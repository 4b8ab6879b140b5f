package models

// YearCount is the number of accounts associated with one year.
type YearCount struct {
	Year  int
	Count int
}

// NameCount is the number of accounts under one named group or tag.
type NameCount struct {
	Name  string
	Count int
}

// Stats aggregates vault-wide counters for display.
type Stats struct {
	AccountsCount int
	GroupsCount   int
	TagsCount     int
	LogsCount     int

	AccountsByYear   []YearCount
	AccountsPerGroup []NameCount
	AccountsPerTag   []NameCount
}
