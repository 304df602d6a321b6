package branch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDFromName(t *testing.T) {
	assert.Equal(t, "downtown-branch", IDFromName("Downtown"))
	assert.Equal(t, "nasr-city-2-branch", IDFromName("  Nasr City #2 "))
	assert.Equal(t, "a-b-branch", IDFromName("A--B"))
}

func TestParseScope(t *testing.T) {
	assert.True(t, ParseScope("all").IsAll())
	assert.True(t, ParseScope("").IsAll())

	s := ParseScope("downtown-branch")
	assert.False(t, s.IsAll())
	assert.Equal(t, "downtown-branch", s.ID())
	assert.Equal(t, "downtown-branch", s.String())
	assert.Equal(t, "all", All.String())
}

func TestCreateBranchRequest_Validate(t *testing.T) {
	req := CreateBranchRequest{
		Name:       "Downtown",
		StaffRoles: map[string]int{"cashier": 2},
		Shifts:     []Shift{{Name: "morning", StartTime: "08:00", EndTime: "16:00"}},
	}
	assert.NoError(t, req.Validate())

	bad := CreateBranchRequest{
		Name:   " ",
		Shifts: []Shift{{Name: "night", StartTime: "22:00", EndTime: "25:00"}},
	}
	err := bad.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "name: name is required")
	assert.Contains(t, err.Error(), "shifts[0].end_time")
}
