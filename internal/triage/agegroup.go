package triage

// AgeGroupDetails is parent-facing context for an age group
type AgeGroupDetails struct {
	AgeGroup        AgeGroup `json:"ageGroup"`
	Label           string   `json:"label"`
	Description     string   `json:"description"`
	FeverThreshold  float64  `json:"feverThreshold"`
	SpecialConcerns []string `json:"specialConcerns"`
}

var ageGroupDetails = map[AgeGroup]AgeGroupDetails{
	AgeGroupNewborn: {
		AgeGroup:        AgeGroupNewborn,
		Label:           "Newborn",
		Description:     "0-2 months",
		FeverThreshold:  100.4,
		SpecialConcerns: []string{"Any fever requires immediate evaluation", "Feeding difficulties", "Excessive sleepiness"},
	},
	AgeGroupInfant: {
		AgeGroup:        AgeGroupInfant,
		Label:           "Infant",
		Description:     "2-12 months",
		FeverThreshold:  101,
		SpecialConcerns: []string{"High fever", "Poor feeding", "Unusual fussiness"},
	},
	AgeGroupToddler: {
		AgeGroup:        AgeGroupToddler,
		Label:           "Toddler",
		Description:     "1-3 years",
		FeverThreshold:  102,
		SpecialConcerns: []string{"Persistent symptoms", "Breathing difficulties", "Dehydration"},
	},
	AgeGroupChild: {
		AgeGroup:        AgeGroupChild,
		Label:           "Child",
		Description:     "3+ years",
		FeverThreshold:  102,
		SpecialConcerns: []string{"Severe symptoms", "Breathing problems", "Persistent illness"},
	},
}

// AgeGroupInfo returns the details for a, or false for an unknown group
func AgeGroupInfo(a AgeGroup) (AgeGroupDetails, bool) {
	d, ok := ageGroupDetails[a]
	if !ok {
		return AgeGroupDetails{}, false
	}
	d.SpecialConcerns = append([]string(nil), d.SpecialConcerns...)
	return d, true
}

// AllAgeGroupInfo returns details for every age group, youngest first
func AllAgeGroupInfo() []AgeGroupDetails {
	out := make([]AgeGroupDetails, 0, len(ageGroupDetails))
	for _, a := range AgeGroups() {
		d, _ := AgeGroupInfo(a)
		out = append(out, d)
	}
	return out
}
