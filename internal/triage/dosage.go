package triage

import (
	"fmt"
	"math"
)

// WeightUnit is the unit a child's weight is entered in
type WeightUnit string

const (
	WeightLbs WeightUnit = "lbs"
	WeightKg  WeightUnit = "kg"
)

// Medication is an over-the-counter fever reducer with a weight-based dose
type Medication string

const (
	MedicationAcetaminophen Medication = "acetaminophen"
	MedicationIbuprofen     Medication = "ibuprofen"
)

// TemperatureUnit is the scale a temperature reading is entered in
type TemperatureUnit string

const (
	Fahrenheit TemperatureUnit = "F"
	Celsius    TemperatureUnit = "C"
)

const lbsPerKg = 2.205

type doseRule struct {
	mgPerKg   float64
	frequency string
}

var doseRules = map[Medication]doseRule{
	MedicationAcetaminophen: {mgPerKg: 10, frequency: "every 4-6 hours"},
	MedicationIbuprofen:     {mgPerKg: 5, frequency: "every 6-8 hours (6+ months only)"},
}

// Dose is a single weight-based dose
type Dose struct {
	Medication Medication `json:"medication"`
	WeightKg   float64    `json:"weightKg"`
	DoseMg     float64    `json:"doseMg"`
	Frequency  string     `json:"frequency"`
	Text       string     `json:"text"`
}

// Dosage computes a single dose of med for a child weighing weight in unit.
// Weight and dose are rounded to one decimal.
func Dosage(weight float64, unit WeightUnit, med Medication) (Dose, error) {
	if math.IsNaN(weight) || math.IsInf(weight, 0) || weight <= 0 {
		return Dose{}, fmt.Errorf("weight must be a positive number")
	}
	rule, ok := doseRules[med]
	if !ok {
		return Dose{}, fmt.Errorf("unknown medication %q", med)
	}

	var kg float64
	switch unit {
	case WeightKg:
		kg = weight
	case WeightLbs:
		kg = weight / lbsPerKg
	default:
		return Dose{}, fmt.Errorf("unknown weight unit %q", unit)
	}

	mg := round1(kg * rule.mgPerKg)
	return Dose{
		Medication: med,
		WeightKg:   round1(kg),
		DoseMg:     mg,
		Frequency:  rule.frequency,
		Text:       fmt.Sprintf("%.1fmg %s", mg, rule.frequency),
	}, nil
}

// Temperature is one reading on both scales
type Temperature struct {
	Fahrenheit float64 `json:"fahrenheit"`
	Celsius    float64 `json:"celsius"`
}

// ConvertTemperature expresses value, read in unit, on both scales rounded
// to one decimal
func ConvertTemperature(value float64, unit TemperatureUnit) (Temperature, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Temperature{}, fmt.Errorf("temperature must be a number")
	}
	switch unit {
	case Fahrenheit:
		return Temperature{
			Fahrenheit: round1(value),
			Celsius:    round1((value - 32) * 5 / 9),
		}, nil
	case Celsius:
		return Temperature{
			Fahrenheit: round1(value*9/5 + 32),
			Celsius:    round1(value),
		}, nil
	}
	return Temperature{}, fmt.Errorf("unknown temperature unit %q", unit)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
