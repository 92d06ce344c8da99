package controllers

import (
	"strings"
	"time"

	"github.com/yeremiapane/hostel-app/services"
	"github.com/yeremiapane/hostel-app/utils"
)

// parseDate reads a required date field; an empty value parses to the zero
// time and is left for the service's required check.
func parseDate(field, value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, nil
	}
	t, err := utils.ParseDate(value)
	if err != nil {
		return time.Time{}, &services.ValidationError{Message: field + ": " + err.Error()}
	}
	return t, nil
}

func parseOptionalDate(field string, value *string) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	t, err := parseDate(field, *value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
