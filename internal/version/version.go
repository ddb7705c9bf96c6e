// Package version maps LeekScript language versions onto semantic versions
// and answers which syntax features a version enables.
package version

import (
	"fmt"

	semver "github.com/Masterminds/semver/v3"
)

// Latest is the newest supported language version
const Latest = 4

// Feature is a piece of syntax enabled by a range of language versions
type Feature string

const (
	Classes           Feature = "classes"            // class, new, super, object literals
	ReferenceWarning  Feature = "reference-warning"  // '@' parameters are deprecated
	StrictKeywords    Feature = "strict-keywords"    // keywords cannot name variables
	CaseSensitive     Feature = "case-sensitive"     // keywords match exactly
	Maps              Feature = "maps"               // [k: v] literals and [:]
	Slices            Feature = "slices"             // x[a:b:c]
	NonNullAssertion  Feature = "non-null-assertion" // postfix '!'
	LegacyArrays      Feature = "legacy-arrays"      // [..] builds a legacy array
	NotAsVariableName Feature = "not-as-name"        // lone 'not' is an identifier
)

var featureConstraints = map[Feature]string{
	Classes:           ">= 2",
	ReferenceWarning:  ">= 2",
	StrictKeywords:    ">= 3",
	CaseSensitive:     ">= 3",
	Maps:              ">= 4",
	Slices:            ">= 4",
	NonNullAssertion:  ">= 4",
	LegacyArrays:      "< 4",
	NotAsVariableName: "< 2",
}

// Language is a resolved language version with its feature set
type Language struct {
	number   int
	semver   *semver.Version
	features map[Feature]bool
}

// New resolves a language version number (1 to Latest)
func New(number int) (*Language, error) {
	if number < 1 || number > Latest {
		return nil, fmt.Errorf("unsupported language version %d (expected 1..%d)", number, Latest)
	}
	sv, err := semver.NewVersion(fmt.Sprintf("%d.0.0", number))
	if err != nil {
		return nil, err
	}
	lang := &Language{number: number, semver: sv, features: make(map[Feature]bool, len(featureConstraints))}
	for feature, expr := range featureConstraints {
		con, err := semver.NewConstraint(expr)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", feature, err)
		}
		lang.features[feature] = con.Check(sv)
	}
	return lang, nil
}

// MustNew is New for constant arguments
func MustNew(number int) *Language {
	lang, err := New(number)
	if err != nil {
		panic(err)
	}
	return lang
}

// Number returns the language version number
func (l *Language) Number() int {
	return l.number
}

// Has reports whether the feature is enabled
func (l *Language) Has(f Feature) bool {
	return l.features[f]
}

// Satisfies checks the version against an arbitrary constraint such as ">= 3"
func (l *Language) Satisfies(constraint string) (bool, error) {
	con, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, err
	}
	return con.Check(l.semver), nil
}

func (l *Language) String() string {
	return fmt.Sprintf("v%d", l.number)
}
