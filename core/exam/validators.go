package exam

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/mitihani/core"
)

var (
	dateOrderTag  = "date_order"
	dateOrderText = "end_date cannot be before start_date"

	slotOrderTag  = "slot_order"
	slotOrderText = "end_time must be after start_time"
)

// InitValidators registers the exam struct validations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	validate.RegisterStructValidation(parametersStructValidation, Parameters{})
	core.RegisterCustomTranslation(validate, translator, dateOrderTag, dateOrderText)

	validate.RegisterStructValidation(timeSlotStructValidation, TimeSlot{})
	core.RegisterCustomTranslation(validate, translator, slotOrderTag, slotOrderText)
}

// parametersStructValidation checks that the date range is not inverted.
func parametersStructValidation(sl validator.StructLevel) {
	p, ok := sl.Current().Interface().(Parameters)
	if !ok {
		return
	}
	if !p.StartDate.IsZero() && !p.EndDate.IsZero() && p.EndDate.Before(p.StartDate) {
		sl.ReportError(p.EndDate, "end_date", "EndDate", dateOrderTag, "")
	}
}

// timeSlotStructValidation checks start_time < end_time.
// "HH:MM" strings compare lexically in time order.
func timeSlotStructValidation(sl validator.StructLevel) {
	s, ok := sl.Current().Interface().(TimeSlot)
	if !ok {
		return
	}
	if s.StartTime != "" && s.EndTime != "" && s.StartTime >= s.EndTime {
		sl.ReportError(s.EndTime, "end_time", "EndTime", slotOrderTag, "")
	}
}
