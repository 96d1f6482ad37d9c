package triage

// DefaultRules is the clinical trigger table. Emergency rules come first,
// then call-doctor rules; anything else is home care.
func DefaultRules() []Rule {
	return []Rule{
		// Fever
		{
			Name:     "fever.newborn_temperature",
			Tier:     TierEmergency,
			Symptom:  SymptomFever,
			AgeGroup: AgeGroupNewborn,
			Reason:   "Temperature of 100.4°F or higher in a baby under 2 months",
			Matches:  atLeast("fever_temp", 100.4),
		},
		{
			Name:     "fever.infant_temperature",
			Tier:     TierEmergency,
			Symptom:  SymptomFever,
			AgeGroup: AgeGroupInfant,
			Reason:   "Temperature of 102°F or higher in an infant",
			Matches:  atLeast("fever_temp", 102),
		},
		{
			Name:    "fever.lethargic",
			Tier:    TierEmergency,
			Symptom: SymptomFever,
			Reason:  "Child is lethargic or will not wake up",
			Matches: answerIs("behavior", "Lethargic/won't wake up"),
		},

		// Breathing, checked for every symptom
		{
			Name:    "breathing.difficulty",
			Tier:    TierEmergency,
			Reason:  "Difficulty breathing",
			Matches: affirmative("breathing"),
		},
		{
			Name:    "breathing.color_changes",
			Tier:    TierEmergency,
			Reason:  "Blue or gray color around lips or face",
			Matches: affirmative("color_changes"),
		},
		{
			Name:    "breathing.cannot_speak",
			Tier:    TierEmergency,
			Reason:  "Too short of breath to speak",
			Matches: answerIs("speaking", "Cannot speak"),
		},

		// Rash
		{
			Name:    "rash.purple_spots",
			Tier:    TierEmergency,
			Symptom: SymptomRash,
			Reason:  "Purple or blood-colored spots that do not fade",
			Matches: answerIs("appearance", "Purple spots"),
		},
		{
			Name:    "rash.rapid_spread",
			Tier:    TierEmergency,
			Symptom: SymptomRash,
			Reason:  "Rash is spreading rapidly",
			Matches: answerIs("spreading", "Rapidly spreading"),
		},

		// Ear pain
		{
			Name:    "ear_pain.bloody_drainage",
			Tier:    TierEmergency,
			Symptom: SymptomEarPain,
			Reason:  "Blood draining from the ear",
			Matches: answerIs("drainage", "Blood"),
		},

		// Vomiting / diarrhea
		{
			Name:    "vomiting_diarrhea.blood_in_stool",
			Tier:    TierEmergency,
			Symptom: SymptomVomitingDiarrhea,
			Reason:  "Blood in stool or vomit",
			Matches: affirmative("blood_in_stool"),
		},
		{
			Name:    "vomiting_diarrhea.severe_dehydration",
			Tier:    TierEmergency,
			Symptom: SymptomVomitingDiarrhea,
			Reason:  "Signs of severe dehydration",
			Matches: answerIs("dehydration_signs", "Severe - won't wake up"),
		},
		{
			Name:    "vomiting_diarrhea.no_fluids",
			Tier:    TierEmergency,
			Symptom: SymptomVomitingDiarrhea,
			Reason:  "Unable to keep any fluids down",
			Matches: answerIs("fluid_intake", "Nothing staying down"),
		},

		// Injury
		{
			Name:    "injury.bone_visible",
			Tier:    TierEmergency,
			Symptom: SymptomInjury,
			Reason:  "Severe injury with bone visible",
			Matches: answerIs("injury_severity", "Very severe - bone visible"),
		},
		{
			Name:    "injury.heavy_bleeding",
			Tier:    TierEmergency,
			Symptom: SymptomInjury,
			Reason:  "Heavy bleeding that will not stop",
			Matches: answerIs("bleeding", "Heavy bleeding that won't stop"),
		},
		{
			Name:    "injury.not_conscious",
			Tier:    TierEmergency,
			Symptom: SymptomInjury,
			Reason:  "Child is not fully conscious",
			Matches: negative("consciousness"),
		},

		// Sore throat
		{
			Name:    "sore_throat.cannot_swallow",
			Tier:    TierEmergency,
			Symptom: SymptomSoreThroat,
			Reason:  "Unable to swallow or breathe",
			Matches: answerIs("difficulty_breathing_throat", "Cannot swallow/breathe"),
		},

		// Call doctor, any symptom whose protocol asks the question
		{
			Name:    "duration.prolonged",
			Tier:    TierCallDoctor,
			Reason:  "Symptoms have lasted longer than expected",
			Matches: answerIn("duration", "More than 3 days", "More than 3 weeks"),
		},
		{
			Name:    "fever.present",
			Tier:    TierCallDoctor,
			Reason:  "Fever accompanying the symptom",
			Matches: affirmative("fever"),
		},
		{
			Name:    "behavior.irritable",
			Tier:    TierCallDoctor,
			Reason:  "Child is unusually fussy or irritable",
			Matches: answerIn("behavior", "Very fussy/hard to console", "Very irritable"),
		},
	}
}

func answerIs(questionID, text string) func(Input) bool {
	return func(in Input) bool {
		return in.Answer(questionID).Equals(text)
	}
}

func answerIn(questionID string, texts ...string) func(Input) bool {
	return func(in Input) bool {
		v := in.Answer(questionID)
		for _, t := range texts {
			if v.Equals(t) {
				return true
			}
		}
		return false
	}
}

func affirmative(questionID string) func(Input) bool {
	return func(in Input) bool {
		return in.Answer(questionID).IsAffirmative()
	}
}

func negative(questionID string) func(Input) bool {
	return func(in Input) bool {
		return in.Answer(questionID).IsNegative()
	}
}

func atLeast(questionID string, threshold float64) func(Input) bool {
	return func(in Input) bool {
		return in.Answer(questionID).AtLeast(threshold)
	}
}
