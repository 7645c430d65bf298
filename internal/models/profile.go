// internal/models/profile.go
package models

import (
	"fmt"
	"sort"
)

// AgeGroup identifies one band of viewers in the household questionnaire.
type AgeGroup string

const (
	AgePreschool  AgeGroup = "preschool"
	AgeElementary AgeGroup = "elementary"
	AgeTweens     AgeGroup = "tweens"
	AgeTeens      AgeGroup = "teens"
	AgeAdults     AgeGroup = "adults"
)

// ageSeverity orders groups youngest-first. Lower value = more restrictive.
var ageSeverity = map[AgeGroup]int{
	AgePreschool:  0,
	AgeElementary: 1,
	AgeTweens:     2,
	AgeTeens:      3,
	AgeAdults:     4,
}

// ParseAgeGroup validates a questionnaire value.
func ParseAgeGroup(s string) (AgeGroup, error) {
	g := AgeGroup(s)
	if _, ok := ageSeverity[g]; !ok {
		return "", fmt.Errorf("unknown age group %q", s)
	}
	return g, nil
}

// Severity returns the restrictiveness rank of the group (0 = youngest).
func (g AgeGroup) Severity() int {
	return ageSeverity[g]
}

// Youngest returns the most restrictive group present. ok is false for an
// empty slice.
func Youngest(groups []AgeGroup) (AgeGroup, bool) {
	if len(groups) == 0 {
		return "", false
	}
	youngest := groups[0]
	for _, g := range groups[1:] {
		if ageSeverity[g] < ageSeverity[youngest] {
			youngest = g
		}
	}
	return youngest, true
}

// SortedAgeGroups returns a lexically sorted copy, used for deterministic
// cache keys.
func SortedAgeGroups(groups []AgeGroup) []AgeGroup {
	out := make([]AgeGroup, len(groups))
	copy(out, groups)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ContentPreferences holds the questionnaire's content-avoidance flags.
// The composite scorer accepts them but does not weight by them; they drive
// the content-warning annotations on results instead.
type ContentPreferences struct {
	AvoidGriefLoss        bool `json:"avoidGriefLoss"`
	AvoidSubstances       bool `json:"avoidSubstances"`
	AvoidRomanceSexuality bool `json:"avoidRomanceSexuality"`
	AvoidViolenceScare    bool `json:"avoidViolenceScare"`
	AvoidProfanity        bool `json:"avoidProfanity"`
	AvoidProductPlacement bool `json:"avoidProductPlacement"`
}

// FlagPairs renders the preference flags as sorted "name_value" pairs for
// cache-key construction.
func (p ContentPreferences) FlagPairs() []string {
	pairs := []string{
		fmt.Sprintf("avoidGriefLoss_%t", p.AvoidGriefLoss),
		fmt.Sprintf("avoidProductPlacement_%t", p.AvoidProductPlacement),
		fmt.Sprintf("avoidProfanity_%t", p.AvoidProfanity),
		fmt.Sprintf("avoidRomanceSexuality_%t", p.AvoidRomanceSexuality),
		fmt.Sprintf("avoidSubstances_%t", p.AvoidSubstances),
		fmt.Sprintf("avoidViolenceScare_%t", p.AvoidViolenceScare),
	}
	sort.Strings(pairs)
	return pairs
}

// ViewerProfile is the immutable per-session questionnaire result.
type ViewerProfile struct {
	AgeGroups   []AgeGroup         `json:"ageGroups"`
	Preferences ContentPreferences `json:"preferences"`
}
