package validation

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/dd0wney/cluso-sirs/pkg/model"
)

func TestConfigValidator_Required(t *testing.T) {
	cv := NewConfigValidator("TestConfig")
	cv.Required("Name", "")

	if !cv.HasErrors() {
		t.Error("Expected error for empty required field")
	}

	cv2 := NewConfigValidator("TestConfig")
	cv2.Required("Name", "value")

	if cv2.HasErrors() {
		t.Error("Expected no error for non-empty required field")
	}
}

func TestConfigValidator_RangeInt(t *testing.T) {
	tests := []struct {
		name      string
		value     int
		min       int
		max       int
		expectErr bool
	}{
		{"below range", -1, 0, 50, true},
		{"above range", 51, 0, 50, true},
		{"at min", 0, 0, 50, false},
		{"at max", 50, 0, 50, false},
		{"in range", 20, 0, 50, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cv := NewConfigValidator("TestConfig")
			cv.RangeInt("Population", tt.value, tt.min, tt.max)

			if tt.expectErr && !cv.HasErrors() {
				t.Error("Expected error")
			}
			if !tt.expectErr && cv.HasErrors() {
				t.Errorf("Unexpected error: %v", cv.Validate())
			}
		})
	}
}

func TestConfigValidator_Probability(t *testing.T) {
	tests := []struct {
		name      string
		value     float64
		expectErr bool
	}{
		{"zero", 0, false},
		{"one", 1, false},
		{"middle", 0.4, false},
		{"negative", -0.01, true},
		{"above one", 1.01, true},
		{"NaN", math.NaN(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cv := NewConfigValidator("Params")
			cv.Probability("beta", tt.value)

			if cv.HasErrors() != tt.expectErr {
				t.Errorf("HasErrors() = %v, want %v", cv.HasErrors(), tt.expectErr)
			}
		})
	}
}

func TestConfigValidator_OneFailurePerField(t *testing.T) {
	cv := NewConfigValidator("Params")
	cv.RangeFloat("gamma", 2, 0, 1).Probability("gamma", 2).NonNegative("n", -1)

	res := cv.Result()
	if len(res.Errors) != 2 {
		t.Fatalf("got %d errors, want 2: %v", len(res.Errors), res.Errors)
	}
	if res.Errors[0].Rule != "range" {
		t.Errorf("first rule = %q, want range", res.Errors[0].Rule)
	}
}

func TestConfigValidator_MinDuration(t *testing.T) {
	cv := NewConfigValidator("TestConfig")
	cv.MinDuration("Interval", 5*time.Millisecond, 10*time.Millisecond)

	if !cv.HasErrors() {
		t.Error("Expected error for duration below minimum")
	}
}

func TestConfigValidator_OneOf(t *testing.T) {
	cv := NewConfigValidator("TestConfig")
	cv.OneOf("Level", "verbose", []string{"debug", "info"})

	if !cv.HasErrors() {
		t.Error("Expected error for value not in allowed list")
	}

	cv2 := NewConfigValidator("TestConfig")
	cv2.OneOf("Level", "info", []string{"debug", "info"})

	if cv2.HasErrors() {
		t.Error("Expected no error for allowed value")
	}
}

func TestConfigValidator_CustomAndWhen(t *testing.T) {
	cv := NewConfigValidator("TestConfig")
	cv.Custom("Addr", func() error { return errors.New("bad address") })
	cv.When(false, func(v *ConfigValidator) { v.Required("Skipped", "") })

	res := cv.Result()
	if len(res.Errors) != 1 || res.Errors[0].Field != "Addr" {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestConfigValidator_ValidateWrapsInvalidParameter(t *testing.T) {
	cv := NewConfigValidator("Params")
	if err := cv.Validate(); err != nil {
		t.Fatalf("empty validator returned %v", err)
	}

	cv.Probability("beta", 3).NonNegative("iterations", -2)
	err := cv.Validate()
	if !errors.Is(err, model.ErrInvalidParameter) {
		t.Fatalf("Validate() = %v, want ErrInvalidParameter in chain", err)
	}

	var verr *Error
	if !errors.As(err, &verr) {
		t.Fatalf("Validate() = %T, want *Error", err)
	}
	if len(verr.Fields) != 2 {
		t.Errorf("itemized %d fields, want 2", len(verr.Fields))
	}
}

func TestDefaultOr(t *testing.T) {
	if got := DefaultOr("", "info"); got != "info" {
		t.Errorf("DefaultOr(\"\") = %q", got)
	}
	if got := DefaultOr(3, 7); got != 3 {
		t.Errorf("DefaultOr(3) = %d", got)
	}
}
