package branch

// AllKeyword selects every branch in query strings and export file names.
const AllKeyword = "all"

// Scope is either a single branch or the All sentinel.
type Scope struct {
	all bool
	id  string
}

// All covers every branch.
var All = Scope{all: true}

// Only scopes to a single branch id.
func Only(id string) Scope {
	return Scope{id: id}
}

// ParseScope reads "all" (or an empty value) as All and anything else as a branch id.
func ParseScope(s string) Scope {
	if s == "" || s == AllKeyword {
		return All
	}
	return Only(s)
}

func (s Scope) IsAll() bool {
	return s.all
}

// ID is empty for All.
func (s Scope) ID() string {
	return s.id
}

func (s Scope) String() string {
	if s.all {
		return AllKeyword
	}
	return s.id
}
