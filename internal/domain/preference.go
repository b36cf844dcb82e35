package domain

import (
	"fmt"
	"slices"
)

type Climate string

const (
	ClimateUnknown  Climate = ""
	ClimateTropical Climate = "tropical"
	ClimateCold     Climate = "cold"
	ClimateModerate Climate = "moderate"
)

// Climates lists the supported climates in their fixed inference order.
var Climates = []Climate{ClimateTropical, ClimateCold, ClimateModerate}

type Interest string

const (
	InterestAdventure  Interest = "adventure"
	InterestCulture    Interest = "culture"
	InterestRelaxation Interest = "relaxation"
	InterestFood       Interest = "food"
)

// Interests lists the supported interest tags in their fixed order.
var Interests = []Interest{InterestAdventure, InterestCulture, InterestRelaxation, InterestFood}

const (
	MinDuration = 1
	MaxDuration = 14
	MinBudget   = 500
	MaxBudget   = 5000
)

func ParseClimate(s string) (Climate, error) {
	c := Climate(s)
	if !slices.Contains(Climates, c) {
		return ClimateUnknown, fmt.Errorf("%w: unknown climate %q", ErrInvalidPreference, s)
	}
	return c, nil
}

func ParseInterest(s string) (Interest, error) {
	i := Interest(s)
	if !slices.Contains(Interests, i) {
		return "", fmt.Errorf("%w: unknown interest %q", ErrInvalidPreference, s)
	}
	return i, nil
}

// Preference is a traveller's request. Build it with NewPreference; the zero
// value is not a valid preference.
type Preference struct {
	climate   Climate
	duration  int
	budget    int
	interests []Interest
}

// NewPreference validates the raw values and returns an immutable Preference.
// Duplicate interests are dropped, keeping first-seen order.
func NewPreference(climate string, duration, budget int, interests []string) (Preference, error) {
	c, err := ParseClimate(climate)
	if err != nil {
		return Preference{}, err
	}
	if duration < MinDuration || duration > MaxDuration {
		return Preference{}, fmt.Errorf("%w: duration %d outside [%d,%d]", ErrInvalidPreference, duration, MinDuration, MaxDuration)
	}
	if budget < MinBudget || budget > MaxBudget {
		return Preference{}, fmt.Errorf("%w: budget %d outside [%d,%d]", ErrInvalidPreference, budget, MinBudget, MaxBudget)
	}

	parsed := make([]Interest, 0, len(interests))
	for _, s := range interests {
		i, err := ParseInterest(s)
		if err != nil {
			return Preference{}, err
		}
		if !slices.Contains(parsed, i) {
			parsed = append(parsed, i)
		}
	}

	return Preference{
		climate:   c,
		duration:  duration,
		budget:    budget,
		interests: parsed,
	}, nil
}

func (p Preference) Climate() Climate { return p.climate }
func (p Preference) Duration() int    { return p.duration }
func (p Preference) Budget() int      { return p.budget }

// Interests returns a copy of the requested interests.
func (p Preference) Interests() []Interest { return slices.Clone(p.interests) }

func (p Preference) HasInterest(i Interest) bool {
	return slices.Contains(p.interests, i)
}

// InterestStrings returns the interests as plain strings, for prompts and logs.
func (p Preference) InterestStrings() []string {
	out := make([]string, len(p.interests))
	for i, in := range p.interests {
		out[i] = string(in)
	}
	return out
}
