package types

import (
	"regexp"

	"github.com/m-mizutani/goerr/v2"
)

// Category classifies a knowledge record by the kind of content it holds.
type Category string

const (
	// CategoryBiography is the founder imam's biography of a school
	CategoryBiography Category = "biography"
	// CategoryMethodology is the legal methodology (usul) of a school
	CategoryMethodology Category = "methodology"
	// CategoryReference is the list of canonical reference works of a school
	CategoryReference Category = "reference"
	// CategoryRitualLaw is a fiqh ruling on a specific topic within a school
	CategoryRitualLaw Category = "ritual-law"
	// CategoryComparison is a cross-school comparison on a single topic
	CategoryComparison Category = "comparison"
	// CategorySpread is the geographical spread of a school
	CategorySpread Category = "spread"
	// CategoryEtiquette covers the adab of disagreement between schools
	CategoryEtiquette Category = "etiquette"
)

var categoryPattern = regexp.MustCompile(`^[a-z]+(-[a-z]+)*$`)

// Validate checks if the Category has a valid format
func (c Category) Validate() error {
	if c == "" {
		return goerr.New("category cannot be empty", goerr.T(ErrTagInvalidArgument))
	}
	if !categoryPattern.MatchString(string(c)) {
		return goerr.New("category must be lowercase with hyphens",
			goerr.V("category", string(c)), goerr.T(ErrTagInvalidArgument))
	}
	return nil
}

// String returns the string representation of Category
func (c Category) String() string {
	return string(c)
}
