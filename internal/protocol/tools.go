package protocol

import (
	"net/http"
	"strconv"

	"github.com/kidcare/afterhours/internal/shared/errors"
	"github.com/kidcare/afterhours/internal/triage"
)

// GetDosage answers GET /dosage?weight=&unit=&medication=. unit defaults to lbs.
func (h *Handler) GetDosage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	unit := q.Get("unit")
	if unit == "" {
		unit = string(triage.WeightLbs)
	}

	weight, err := strconv.ParseFloat(q.Get("weight"), 64)
	if err != nil {
		errors.WriteError(w, errors.Validation("invalid dosage request", map[string]string{
			"weight": "must be a number",
		}))
		return
	}

	dose, err := triage.Dosage(weight, triage.WeightUnit(unit), triage.Medication(q.Get("medication")))
	if err != nil {
		errors.WriteError(w, errors.Validation("invalid dosage request", map[string]string{
			"dosage": err.Error(),
		}))
		return
	}
	errors.WriteJSON(w, http.StatusOK, dose)
}

// GetTemperature answers GET /temperature?value=&unit=. unit defaults to F.
func (h *Handler) GetTemperature(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	unit := q.Get("unit")
	if unit == "" {
		unit = string(triage.Fahrenheit)
	}

	value, err := strconv.ParseFloat(q.Get("value"), 64)
	if err != nil {
		errors.WriteError(w, errors.Validation("invalid temperature request", map[string]string{
			"value": "must be a number",
		}))
		return
	}

	temp, err := triage.ConvertTemperature(value, triage.TemperatureUnit(unit))
	if err != nil {
		errors.WriteError(w, errors.Validation("invalid temperature request", map[string]string{
			"temperature": err.Error(),
		}))
		return
	}
	errors.WriteJSON(w, http.StatusOK, temp)
}
