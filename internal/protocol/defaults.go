package protocol

import "github.com/kidcare/afterhours/internal/triage"

// ReferenceProtocols returns the built-in protocol set: fever, rash, cough,
// ear pain and vomiting/diarrhea for every age group. Injury, breathing and
// sore throat have no protocol.
func ReferenceProtocols() []triage.Protocol {
	return []triage.Protocol{
		// Fever
		{
			Symptom:  triage.SymptomFever,
			AgeGroup: triage.AgeGroupNewborn,
			Questions: []triage.Question{
				critical(number("fever_temp", "What is your baby's temperature?", "°F"), 100.4, "emergency"),
				choice("behavior", "How is your baby behaving?", "Normal", "Fussy but consolable", "Lethargic/won't wake up"),
			},
			Guidelines: triage.Guidelines{
				Emergency:  []string{"Any fever in newborn (under 3 months)", "Lethargic behavior"},
				CallDoctor: []string{"Temperature over 100.4°F", "Fussy and not consolable"},
				HomeCare:   []string{},
			},
		},
		{
			Symptom:  triage.SymptomFever,
			AgeGroup: triage.AgeGroupInfant,
			Questions: []triage.Question{
				number("fever_temp", "What is your baby's temperature?", "°F"),
				choice("behavior", "How is your baby acting?", "Normal", "Slightly fussy", "Very irritable", "Lethargic/won't wake up"),
				choice("duration", "How long has the fever lasted?", "Less than 24 hours", "1-2 days", "More than 2 days"),
			},
			Guidelines: triage.Guidelines{
				Emergency:  []string{"Temperature over 102°F", "Lethargic behavior", "Won't eat or drink"},
				CallDoctor: []string{"Fever over 101°F lasting more than 24 hours", "Very irritable"},
				HomeCare:   []string{"Low-grade fever with normal behavior", "Good fluid intake"},
			},
		},
		{
			Symptom:  triage.SymptomFever,
			AgeGroup: triage.AgeGroupToddler,
			Questions: []triage.Question{
				number("fever_temp", "What is your child's temperature?", "°F"),
				choice("behavior", "How is your child acting?", "Normal", "Slightly fussy", "Very irritable", "Lethargic/won't wake up"),
				choice("duration", "How long has the fever lasted?", "Less than 24 hours", "1-2 days", "More than 2 days"),
			},
			Guidelines: triage.Guidelines{
				Emergency:  []string{"Temperature over 104°F", "Lethargic behavior", "Seizures"},
				CallDoctor: []string{"Fever over 102°F lasting more than 24 hours", "Very irritable", "Not drinking fluids"},
				HomeCare:   []string{"Low-grade fever with normal behavior", "Good fluid intake", "Playing and alert"},
			},
		},
		{
			Symptom:  triage.SymptomFever,
			AgeGroup: triage.AgeGroupChild,
			Questions: []triage.Question{
				number("fever_temp", "What is your child's temperature?", "°F"),
				choice("behavior", "How is your child acting?", "Normal", "Slightly tired", "Very irritable", "Lethargic/won't wake up"),
				choice("duration", "How long has the fever lasted?", "Less than 24 hours", "1-2 days", "More than 3 days"),
			},
			Guidelines: triage.Guidelines{
				Emergency:  []string{"Temperature over 104°F", "Lethargic behavior", "Seizures", "Difficulty breathing"},
				CallDoctor: []string{"Fever over 102°F lasting more than 2 days", "Very irritable", "Not drinking fluids"},
				HomeCare:   []string{"Low-grade fever with normal behavior", "Good fluid intake", "Playing and alert"},
			},
		},
		// Rash
		{
			Symptom:  triage.SymptomRash,
			AgeGroup: triage.AgeGroupNewborn,
			Questions: []triage.Question{
				choice("appearance", "What does the rash look like?", "Small red bumps", "Flat red patches", "Blisters", "Purple spots"),
				choice("location", "Where is the rash located?", "Diaper area", "Face/head", "Body/arms", "All over"),
				yesNo("fever_present", "Does your baby have a fever?"),
			},
			Guidelines: triage.Guidelines{
				Emergency:  []string{"Purple spots", "All over with fever", "Breathing problems"},
				CallDoctor: []string{"Blisters", "Spreading rapidly", "Fever with rash"},
				HomeCare:   []string{"Small red bumps in diaper area", "No fever", "Baby acting normal"},
			},
		},
		{
			Symptom:  triage.SymptomRash,
			AgeGroup: triage.AgeGroupInfant,
			Questions: []triage.Question{
				choice("appearance", "What does the rash look like?", "Small red bumps", "Flat red patches", "Blisters", "Purple spots"),
				choice("spreading", "Is the rash spreading?", "Not spreading", "Slowly spreading", "Rapidly spreading"),
				yesNo("fever_present", "Does your baby have a fever?"),
			},
			Guidelines: triage.Guidelines{
				Emergency:  []string{"Purple spots", "Rapidly spreading with fever", "Breathing problems"},
				CallDoctor: []string{"Blisters", "Rapidly spreading", "Fever with rash"},
				HomeCare:   []string{"Small red bumps", "Not spreading", "No fever"},
			},
		},
		{
			Symptom:  triage.SymptomRash,
			AgeGroup: triage.AgeGroupToddler,
			Questions: []triage.Question{
				choice("appearance", "What does the rash look like?", "Small red bumps", "Flat red patches", "Blisters", "Purple spots"),
				yesNo("itchy", "Is the rash itchy?"),
				yesNo("fever_present", "Does your child have a fever?"),
			},
			Guidelines: triage.Guidelines{
				Emergency:  []string{"Purple spots", "Difficulty breathing", "Very high fever"},
				CallDoctor: []string{"Blisters", "Very itchy", "Fever with rash"},
				HomeCare:   []string{"Small red bumps", "Mild itching", "No fever"},
			},
		},
		{
			Symptom:  triage.SymptomRash,
			AgeGroup: triage.AgeGroupChild,
			Questions: []triage.Question{
				choice("appearance", "What does the rash look like?", "Small red bumps", "Flat red patches", "Blisters", "Purple spots"),
				yesNo("itchy", "Is the rash itchy?"),
				yesNo("fever_present", "Does your child have a fever?"),
			},
			Guidelines: triage.Guidelines{
				Emergency:  []string{"Purple spots", "Difficulty breathing", "Very high fever"},
				CallDoctor: []string{"Blisters", "Very itchy and spreading", "Fever with rash"},
				HomeCare:   []string{"Small red bumps", "Mild itching", "No fever"},
			},
		},
		// Cough
		{
			Symptom:  triage.SymptomCough,
			AgeGroup: triage.AgeGroupNewborn,
			Questions: []triage.Question{
				choice("cough_type", "What type of cough?", "Dry cough", "Wet/mucus cough", "Barking cough", "Whooping cough"),
				yesNo("breathing", "Any breathing problems?"),
				yesNo("fever_present", "Does your baby have a fever?"),
			},
			Guidelines: triage.Guidelines{
				Emergency:  []string{"Breathing problems", "Whooping cough", "Blue lips"},
				CallDoctor: []string{"Barking cough", "Fever with cough", "Not eating"},
				HomeCare:   []string{"Mild dry cough", "No breathing problems", "Feeding well"},
			},
		},
		{
			Symptom:  triage.SymptomCough,
			AgeGroup: triage.AgeGroupInfant,
			Questions: []triage.Question{
				choice("cough_type", "What type of cough?", "Dry cough", "Wet/mucus cough", "Barking cough", "Whooping cough"),
				yesNo("breathing", "Any breathing problems?"),
				yesNo("fever_present", "Does your baby have a fever?"),
			},
			Guidelines: triage.Guidelines{
				Emergency:  []string{"Breathing problems", "Whooping cough", "Blue lips"},
				CallDoctor: []string{"Barking cough", "Fever with cough", "Not eating well"},
				HomeCare:   []string{"Mild dry cough", "No breathing problems", "Eating well"},
			},
		},
		{
			Symptom:  triage.SymptomCough,
			AgeGroup: triage.AgeGroupToddler,
			Questions: []triage.Question{
				choice("cough_type", "What type of cough?", "Dry cough", "Wet/mucus cough", "Barking cough", "Whooping cough"),
				yesNo("breathing", "Any breathing problems?"),
				yesNo("fever_present", "Does your child have a fever?"),
			},
			Guidelines: triage.Guidelines{
				Emergency:  []string{"Breathing problems", "Whooping cough", "Blue lips"},
				CallDoctor: []string{"Barking cough", "High fever with cough", "Not drinking"},
				HomeCare:   []string{"Mild cough", "No breathing problems", "Playing normally"},
			},
		},
		{
			Symptom:  triage.SymptomCough,
			AgeGroup: triage.AgeGroupChild,
			Questions: []triage.Question{
				choice("cough_type", "What type of cough?", "Dry cough", "Wet/mucus cough", "Barking cough", "Persistent cough"),
				yesNo("breathing", "Any breathing problems?"),
				yesNo("fever_present", "Does your child have a fever?"),
			},
			Guidelines: triage.Guidelines{
				Emergency:  []string{"Breathing problems", "Cannot speak due to cough", "Blue lips"},
				CallDoctor: []string{"Barking cough", "High fever with cough", "Persistent for over a week"},
				HomeCare:   []string{"Mild cough", "No breathing problems", "Acting normally"},
			},
		},
		// Ear Pain
		{
			Symptom:  triage.SymptomEarPain,
			AgeGroup: triage.AgeGroupNewborn,
			Questions: []triage.Question{
				choice("signs", "What signs do you notice?", "Crying/fussy", "Tugging at ear", "Not eating", "Fever"),
				choice("drainage", "Any drainage from ear?", "No drainage", "Clear fluid", "Yellow/green", "Blood"),
			},
			Guidelines: triage.Guidelines{
				Emergency:  []string{"Blood drainage", "High fever", "Extreme irritability"},
				CallDoctor: []string{"Any drainage", "Fever with ear signs", "Not eating"},
				HomeCare:   []string{"Mild fussiness", "No drainage", "Eating normally"},
			},
		},
		{
			Symptom:  triage.SymptomEarPain,
			AgeGroup: triage.AgeGroupInfant,
			Questions: []triage.Question{
				choice("pain_level", "How severe does the pain seem?", "Mild discomfort", "Moderate pain", "Severe crying"),
				choice("drainage", "Any drainage from ear?", "No drainage", "Clear fluid", "Yellow/green", "Blood"),
				yesNo("fever_present", "Does your baby have a fever?"),
			},
			Guidelines: triage.Guidelines{
				Emergency:  []string{"Blood drainage", "High fever with severe pain"},
				CallDoctor: []string{"Any drainage", "Fever with ear pain", "Severe crying"},
				HomeCare:   []string{"Mild discomfort", "No drainage", "No fever"},
			},
		},
		{
			Symptom:  triage.SymptomEarPain,
			AgeGroup: triage.AgeGroupToddler,
			Questions: []triage.Question{
				choice("pain_level", "How severe is the ear pain?", "Mild discomfort", "Moderate pain", "Severe crying"),
				choice("drainage", "Any drainage from ear?", "No drainage", "Clear fluid", "Yellow/green", "Blood"),
				yesNo("fever_present", "Does your child have a fever?"),
			},
			Guidelines: triage.Guidelines{
				Emergency:  []string{"Blood drainage", "High fever with severe pain"},
				CallDoctor: []string{"Any drainage", "Fever with ear pain", "Severe crying"},
				HomeCare:   []string{"Mild discomfort", "No drainage", "No fever"},
			},
		},
		{
			Symptom:  triage.SymptomEarPain,
			AgeGroup: triage.AgeGroupChild,
			Questions: []triage.Question{
				choice("pain_level", "How severe is the ear pain?", "Mild discomfort", "Moderate pain", "Severe pain"),
				choice("drainage", "Any drainage from ear?", "No drainage", "Clear fluid", "Yellow/green", "Blood"),
				yesNo("fever_present", "Does your child have a fever?"),
			},
			Guidelines: triage.Guidelines{
				Emergency:  []string{"Blood drainage", "High fever with severe pain"},
				CallDoctor: []string{"Any drainage", "Fever with ear pain", "Severe pain"},
				HomeCare:   []string{"Mild discomfort", "No drainage", "No fever"},
			},
		},
		// Vomiting / diarrhea
		{
			Symptom:  triage.SymptomVomitingDiarrhea,
			AgeGroup: triage.AgeGroupNewborn,
			Questions: []triage.Question{
				choice("frequency", "How often is the vomiting/diarrhea?", "Occasional", "Frequent", "Constant"),
				choice("dehydration_signs", "Any signs of dehydration?", "None", "Mild - dry mouth", "Severe - won't wake up"),
			},
			Guidelines: triage.Guidelines{
				Emergency:  []string{"Severe dehydration", "Blood in stool", "Won't wake up"},
				CallDoctor: []string{"Frequent episodes", "Mild dehydration", "Not keeping fluids down"},
				HomeCare:   []string{"Occasional episodes", "Good fluid intake", "Alert and active"},
			},
		},
		{
			Symptom:  triage.SymptomVomitingDiarrhea,
			AgeGroup: triage.AgeGroupInfant,
			Questions: []triage.Question{
				choice("frequency", "How often is the vomiting/diarrhea?", "Occasional", "Frequent", "Constant"),
				choice("dehydration_signs", "Any signs of dehydration?", "None", "Mild - dry mouth", "Severe - lethargic"),
				yesNo("blood_in_stool", "Any blood in stool or vomit?"),
			},
			Guidelines: triage.Guidelines{
				Emergency:  []string{"Blood in stool/vomit", "Severe dehydration", "Lethargic"},
				CallDoctor: []string{"Frequent episodes", "Mild dehydration", "Not keeping fluids down"},
				HomeCare:   []string{"Occasional episodes", "Good fluid intake", "Alert"},
			},
		},
		{
			Symptom:  triage.SymptomVomitingDiarrhea,
			AgeGroup: triage.AgeGroupToddler,
			Questions: []triage.Question{
				choice("frequency", "How often is the vomiting/diarrhea?", "Occasional", "Frequent", "Constant"),
				choice("dehydration_signs", "Any signs of dehydration?", "None", "Mild - dry mouth", "Severe - very tired"),
				yesNo("blood_in_stool", "Any blood in stool or vomit?"),
			},
			Guidelines: triage.Guidelines{
				Emergency:  []string{"Blood in stool/vomit", "Severe dehydration", "Very tired"},
				CallDoctor: []string{"Frequent episodes", "Mild dehydration", "Not drinking"},
				HomeCare:   []string{"Occasional episodes", "Good fluid intake", "Playing normally"},
			},
		},
		{
			Symptom:  triage.SymptomVomitingDiarrhea,
			AgeGroup: triage.AgeGroupChild,
			Questions: []triage.Question{
				choice("frequency", "How often is the vomiting/diarrhea?", "Occasional", "Frequent", "Constant"),
				choice("dehydration_signs", "Any signs of dehydration?", "None", "Mild - dry mouth", "Severe - very tired"),
				yesNo("blood_in_stool", "Any blood in stool or vomit?"),
			},
			Guidelines: triage.Guidelines{
				Emergency:  []string{"Blood in stool/vomit", "Severe dehydration", "Very tired"},
				CallDoctor: []string{"Frequent episodes", "Mild dehydration", "Not drinking"},
				HomeCare:   []string{"Occasional episodes", "Good fluid intake", "Acting normally"},
			},
		},
	}
}

func yesNo(id, text string) triage.Question {
	return triage.Question{ID: id, Text: text, Kind: triage.KindYesNo}
}

func choice(id, text string, options ...string) triage.Question {
	return triage.Question{ID: id, Text: text, Kind: triage.KindMultipleChoice, Options: options}
}

func number(id, text, unit string) triage.Question {
	return triage.Question{ID: id, Text: text, Kind: triage.KindNumber, Unit: unit}
}

func critical(q triage.Question, threshold float64, action string) triage.Question {
	q.Critical = &triage.Critical{Threshold: threshold, Action: action}
	return q
}
