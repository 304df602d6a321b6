package branch

import (
	"regexp"
	"strings"
	"time"
)

type Branch struct {
	ID         string
	Name       string
	StaffRoles map[string]int
	Shifts     []Shift
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Shift times are "HH:MM" in 24-hour format.
type Shift struct {
	Name      string `json:"name"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// IDFromName derives the branch id from its display name.
func IDFromName(name string) string {
	slug := nonSlugChars.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
	return strings.Trim(slug, "-") + "-branch"
}
