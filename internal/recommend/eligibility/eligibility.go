// internal/recommend/eligibility/eligibility.go
//
// Maps household age groups to the certification labels retrieval may
// request. The policy is deliberately permissive: a mixed-age household is
// allowed content its most permissive member may watch, and the vibe/theme
// narrowing downstream is what actually protects younger viewers.
package eligibility

import (
	"family-movie-night/internal/models"
)

// certificationOrder is the canonical label order for deterministic output.
var certificationOrder = []string{"G", "PG", "PG-13", "R", "NC-17"}

// audienceByCertification maps each label to the age groups permitted to
// view it.
var audienceByCertification = map[string][]models.AgeGroup{
	"G":     {models.AgePreschool, models.AgeElementary, models.AgeTweens, models.AgeTeens, models.AgeAdults},
	"PG":    {models.AgePreschool, models.AgeElementary, models.AgeTweens, models.AgeTeens, models.AgeAdults},
	"PG-13": {models.AgeTweens, models.AgeTeens, models.AgeAdults},
	"R":     {models.AgeAdults},
	"NC-17": {models.AgeAdults},
}

func allows(certification string, group models.AgeGroup) bool {
	for _, g := range audienceByCertification[certification] {
		if g == group {
			return true
		}
	}
	return false
}

// Certifications returns the labels permissible for the household, ordered
// canonically (G through NC-17).
//
// Two cases are special:
//   - a household whose youngest member is a teen gets exactly {PG-13, PG},
//     favoring age-appropriate-but-not-babyish content;
//   - an empty household returns an empty set, which retrieval treats as
//     "no certification filter".
func Certifications(ageGroups []models.AgeGroup) []string {
	youngest, ok := models.Youngest(ageGroups)
	if !ok {
		return nil
	}

	if youngest == models.AgeTeens {
		return []string{"PG-13", "PG"}
	}

	var out []string
	for _, cert := range certificationOrder {
		for _, group := range ageGroups {
			if allows(cert, group) {
				out = append(out, cert)
				break
			}
		}
	}
	return out
}

// Intersect keeps the preferred certifications that are also eligible,
// preserving the preference order. An empty eligible set keeps everything:
// eligibility found no restriction to apply.
func Intersect(preferred, eligible []string) []string {
	if len(eligible) == 0 {
		out := make([]string, len(preferred))
		copy(out, preferred)
		return out
	}

	allowed := make(map[string]struct{}, len(eligible))
	for _, c := range eligible {
		allowed[c] = struct{}{}
	}

	var out []string
	for _, c := range preferred {
		if _, ok := allowed[c]; ok {
			out = append(out, c)
		}
	}
	return out
}
