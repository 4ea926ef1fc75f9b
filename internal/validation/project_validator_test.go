package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateProjectID(t *testing.T) {
	v := NewProjectIDValidator()

	tests := []struct {
		name      string
		projectID string
		valid     bool
	}{
		{"empty means no prefix", "", true},
		{"simple ID", "TRBD004", true},
		{"lowercase", "aa01", true},
		{"underscore and hyphen", "P_017-b", true},
		{"single character", "P", true},
		{"leading hyphen", "-TRBD", false},
		{"path separator", "TRBD/004", false},
		{"spaces", "TRBD 004", false},
		{"dot traversal", "..", false},
		{"too long", strings.Repeat("A", 65), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateProjectID(tt.projectID)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.True(t, IsValidationError(err))
			}
		})
	}
}

func TestCleanProjectID(t *testing.T) {
	v := NewProjectIDValidator()

	assert.Equal(t, "TRBD004", v.CleanProjectID("  TRBD004 "))
}
