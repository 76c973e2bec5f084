package types

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// School identifies one of the four madhhabs of Islamic jurisprudence.
type School string

const (
	SchoolHanafi  School = "hanafi"
	SchoolMaliki  School = "maliki"
	SchoolSyafii  School = "syafii"
	SchoolHanbali School = "hanbali"
)

// Schools returns all known schools in canonical order. The order is fixed
// because comparison output and record IDs depend on it.
func Schools() []School {
	return []School{SchoolHanafi, SchoolMaliki, SchoolSyafii, SchoolHanbali}
}

// ParseSchool normalizes user input (case, common spelling variants) into a
// School. It fails with ErrInvalidArgument for anything outside the four.
func ParseSchool(s string) (School, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	// Common transliteration variants seen in user messages
	switch normalized {
	case "syafi'i", "shafii", "shafi'i", "syafie":
		normalized = "syafii"
	case "hambali":
		normalized = "hanbali"
	}

	school := School(normalized)
	if err := school.Validate(); err != nil {
		return "", err
	}
	return school, nil
}

// Validate checks if the School is one of the four known schools
func (s School) Validate() error {
	switch s {
	case SchoolHanafi, SchoolMaliki, SchoolSyafii, SchoolHanbali:
		return nil
	}
	return goerr.New("unknown school", goerr.V("school", string(s)), goerr.T(ErrTagInvalidArgument))
}

// String returns the string representation of School
func (s School) String() string {
	return string(s)
}

// Title returns the capitalized display name of the school
func (s School) Title() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}
