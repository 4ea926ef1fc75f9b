package validation

import (
	"regexp"
	"strings"
)

// projectIDPattern keeps project identifiers filename-safe: the ID is used
// verbatim as the log filename prefix.
var projectIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// ProjectIDValidator validates the optional project identifier given on the
// command line.
type ProjectIDValidator struct {
	maxLength int
}

// NewProjectIDValidator creates a new project ID validator
func NewProjectIDValidator() *ProjectIDValidator {
	return &ProjectIDValidator{maxLength: 64}
}

// ValidateProjectID checks an optional project identifier. The empty string
// is valid and means "no filename prefix".
func (v *ProjectIDValidator) ValidateProjectID(projectID string) error {
	if projectID == "" {
		return nil
	}

	validationErr := &ValidationError{}

	if len(projectID) > v.maxLength {
		validationErr.AddInvalidLengthError("project_id", projectID, v.maxLength)
	}
	if !projectIDPattern.MatchString(projectID) {
		validationErr.AddInvalidCharacterError("project_id", projectID)
	}

	if validationErr.HasErrors() {
		return validationErr
	}
	return nil
}

// CleanProjectID returns the trimmed project identifier
func (v *ProjectIDValidator) CleanProjectID(projectID string) string {
	return strings.TrimSpace(projectID)
}
