package model

import "fmt"

// Compartment is an individual's epidemiological state.
type Compartment uint8

const (
	Susceptible Compartment = iota
	Infected
	Recovered
)

// Compartments lists every compartment in generation order.
var Compartments = [...]Compartment{Susceptible, Infected, Recovered}

// String returns the lower-case compartment name
func (c Compartment) String() string {
	switch c {
	case Susceptible:
		return "susceptible"
	case Infected:
		return "infected"
	case Recovered:
		return "recovered"
	default:
		return fmt.Sprintf("compartment(%d)", uint8(c))
	}
}

// Valid reports whether c is one of the three known compartments
func (c Compartment) Valid() bool {
	return c <= Recovered
}

// MarshalText encodes the compartment by name.
func (c Compartment) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidParameter, c)
	}
	return []byte(c.String()), nil
}

// UnmarshalText accepts the names produced by MarshalText.
func (c *Compartment) UnmarshalText(text []byte) error {
	for _, k := range Compartments {
		if k.String() == string(text) {
			*c = k
			return nil
		}
	}
	return fmt.Errorf("%w: unknown compartment %q", ErrInvalidParameter, text)
}

// Counts holds one count per compartment.
type Counts struct {
	Susceptible int `json:"susceptible"`
	Infected    int `json:"infected"`
	Recovered   int `json:"recovered"`
}

// Total returns S+I+R
func (c Counts) Total() int {
	return c.Susceptible + c.Infected + c.Recovered
}

// Get returns the count for a compartment.
func (c Counts) Get(comp Compartment) int {
	switch comp {
	case Susceptible:
		return c.Susceptible
	case Infected:
		return c.Infected
	case Recovered:
		return c.Recovered
	default:
		return 0
	}
}

// Add adjusts the count for a compartment by delta.
func (c *Counts) Add(comp Compartment, delta int) {
	switch comp {
	case Susceptible:
		c.Susceptible += delta
	case Infected:
		c.Infected += delta
	case Recovered:
		c.Recovered += delta
	}
}

// Plus returns the element-wise sum of c and o.
func (c Counts) Plus(o Counts) Counts {
	return Counts{
		Susceptible: c.Susceptible + o.Susceptible,
		Infected:    c.Infected + o.Infected,
		Recovered:   c.Recovered + o.Recovered,
	}
}

// NonNegative reports whether every count is >= 0
func (c Counts) NonNegative() bool {
	return c.Susceptible >= 0 && c.Infected >= 0 && c.Recovered >= 0
}

func (c Counts) String() string {
	return fmt.Sprintf("S=%d I=%d R=%d", c.Susceptible, c.Infected, c.Recovered)
}
