package validation

import (
	"testing"
)

type sampleParams struct {
	Rate       float64 `yaml:"rate" validate:"min=0,max=1"`
	Population int     `yaml:"population" validate:"min=0,max=50"`
	Iterations int     `validate:"min=0"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name       string
		in         sampleParams
		wantFields []string
	}{
		{"valid", sampleParams{Rate: 0.5, Population: 10, Iterations: 3}, nil},
		{"rate too high", sampleParams{Rate: 1.5, Population: 10}, []string{"rate"}},
		{"everything wrong", sampleParams{Rate: -1, Population: 51, Iterations: -1}, []string{"rate", "population", "Iterations"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Struct(tt.in)

			got := res.Fields()
			if len(got) != len(tt.wantFields) {
				t.Fatalf("Fields() = %v, want %v", got, tt.wantFields)
			}
			for i := range got {
				if got[i] != tt.wantFields[i] {
					t.Errorf("Fields()[%d] = %q, want %q", i, got[i], tt.wantFields[i])
				}
			}
			if res.Valid() != (len(tt.wantFields) == 0) {
				t.Errorf("Valid() = %v", res.Valid())
			}
		})
	}
}

func TestStruct_Messages(t *testing.T) {
	res := Struct(sampleParams{Rate: 2})
	if len(res.Errors) != 1 {
		t.Fatalf("got %d errors", len(res.Errors))
	}
	e := res.Errors[0]
	if e.Rule != "max" {
		t.Errorf("Rule = %q, want max", e.Rule)
	}
	if e.Error() != "rate: value 2 must not exceed 1" {
		t.Errorf("Error() = %q", e.Error())
	}
}
