package validation

import (
	"fmt"
	"math"
	"time"
)

// ConfigValidator provides a fluent interface for validating configuration values.
// It collects all validation errors rather than failing on the first one.
type ConfigValidator struct {
	result Result
	name   string // config struct name for error messages
}

// NewConfigValidator creates a new config validator with the given config name.
func NewConfigValidator(configName string) *ConfigValidator {
	return &ConfigValidator{name: configName}
}

// Required validates that a string field is not empty.
func (cv *ConfigValidator) Required(field, value string) *ConfigValidator {
	if value == "" {
		cv.fail(field, "required", "required field is empty")
	}
	return cv
}

// RangeInt validates that an int field is within [min, max].
func (cv *ConfigValidator) RangeInt(field string, value, min, max int) *ConfigValidator {
	if value < min || value > max {
		cv.fail(field, "range", "value %d is outside range [%d, %d]", value, min, max)
	}
	return cv
}

// NonNegative validates that an int field is >= 0.
func (cv *ConfigValidator) NonNegative(field string, value int) *ConfigValidator {
	if value < 0 {
		cv.fail(field, "min", "value %d must be non-negative", value)
	}
	return cv
}

// RangeFloat validates that a float field is within [min, max]. NaN always fails.
func (cv *ConfigValidator) RangeFloat(field string, value, min, max float64) *ConfigValidator {
	if math.IsNaN(value) || value < min || value > max {
		cv.fail(field, "range", "value %v is outside range [%v, %v]", value, min, max)
	}
	return cv
}

// Probability validates that a float field lies in [0, 1].
func (cv *ConfigValidator) Probability(field string, value float64) *ConfigValidator {
	if math.IsNaN(value) || value < 0 || value > 1 {
		cv.fail(field, "probability", "value %v is not a probability in [0, 1]", value)
	}
	return cv
}

// MinDuration validates that a duration is at least the minimum.
func (cv *ConfigValidator) MinDuration(field string, value, min time.Duration) *ConfigValidator {
	if value < min {
		cv.fail(field, "min", "duration %v is below minimum %v", value, min)
	}
	return cv
}

// OneOf validates that a string field is one of the allowed values.
func (cv *ConfigValidator) OneOf(field, value string, allowed []string) *ConfigValidator {
	for _, a := range allowed {
		if value == a {
			return cv
		}
	}
	cv.fail(field, "oneof", "value %q must be one of %v", value, allowed)
	return cv
}

// Custom applies a custom validation function.
func (cv *ConfigValidator) Custom(field string, fn func() error) *ConfigValidator {
	if err := fn(); err != nil {
		cv.fail(field, "custom", "%v", err)
	}
	return cv
}

// When conditionally applies validations if the condition is true.
func (cv *ConfigValidator) When(condition bool, validations func(*ConfigValidator)) *ConfigValidator {
	if condition {
		validations(cv)
	}
	return cv
}

// Struct runs the struct-tag rules on v and folds them into this validator.
func (cv *ConfigValidator) Struct(v any) *ConfigValidator {
	cv.result.Merge(Struct(v))
	return cv
}

// HasErrors returns true if any validation errors occurred.
func (cv *ConfigValidator) HasErrors() bool {
	return !cv.result.Valid()
}

// Result returns the itemized result.
func (cv *ConfigValidator) Result() Result {
	return cv.result
}

// Validate returns a combined error if any validations failed.
func (cv *ConfigValidator) Validate() error {
	return cv.result.Err(cv.name)
}

// String summarizes the validator state
func (cv *ConfigValidator) String() string {
	return fmt.Sprintf("%s: %d errors", cv.name, len(cv.result.Errors))
}

// fail records the first failure per field; later rules for the same field
// are dropped so a single bad value is reported once.
func (cv *ConfigValidator) fail(field, rule, format string, args ...any) {
	if cv.result.hasField(field) {
		return
	}
	cv.result.Add(field, rule, format, args...)
}

// DefaultOr returns the value if it's non-zero, otherwise returns the default.
func DefaultOr[T comparable](value, defaultValue T) T {
	var zero T
	if value == zero {
		return defaultValue
	}
	return value
}
