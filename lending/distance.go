package lending

import (
	"fmt"
	"math"
)

const kilometersPerMile = 1.60934

// Distance is a non-negative length in kilometers.
type Distance struct {
	kilometers float64
}

// NewDistance rejects negative lengths.
func NewDistance(kilometers float64) (Distance, error) {
	if kilometers < 0 || math.IsNaN(kilometers) {
		return Distance{}, fmt.Errorf("%w: %v km", ErrNegativeDistance, kilometers)
	}

	return Distance{kilometers: kilometers}, nil
}

// DistanceFromMiles converts miles to a Distance.
func DistanceFromMiles(miles float64) (Distance, error) {
	return NewDistance(miles * kilometersPerMile)
}

func (d Distance) Kilometers() float64 {
	return d.kilometers
}

func (d Distance) Miles() float64 {
	return d.kilometers / kilometersPerMile
}

func (d Distance) Add(other Distance) Distance {
	return Distance{kilometers: d.kilometers + other.kilometers}
}

func (d Distance) LessThan(other Distance) bool {
	return d.kilometers < other.kilometers
}

func (d Distance) GreaterThan(other Distance) bool {
	return d.kilometers > other.kilometers
}

func (d Distance) Equal(other Distance) bool {
	return d.kilometers == other.kilometers
}

func (d Distance) String() string {
	return fmt.Sprintf("%.3f km", d.kilometers)
}
