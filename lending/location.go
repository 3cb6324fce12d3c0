package lending

import (
	"fmt"
	"math"
)

const earthRadiusKilometers = 6371.0

// Location is where a thing is stored or returned to.
// Implementations are PhysicalLocation, PhysicalArea and VirtualLocation.
type Location interface {
	// Contains reports whether other lies within this location.
	Contains(other Location) (bool, error)
	String() string
}

// Coordinates is a latitude/longitude pair in degrees.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// PostalAddress is the street address part of a physical location.
type PostalAddress struct {
	Street  string
	City    string
	State   string
	ZipCode string
	Country string
}

// PhysicalLocation is a postal address with optional coordinates.
type PhysicalLocation struct {
	Coordinates *Coordinates
	Address     PostalAddress
}

// NewPhysicalLocation builds a location with coordinates.
func NewPhysicalLocation(latitude, longitude float64, address PostalAddress) PhysicalLocation {
	return PhysicalLocation{
		Coordinates: &Coordinates{Latitude: latitude, Longitude: longitude},
		Address:     address,
	}
}

// Equal compares addresses, and coordinates only when both sides carry them.
func (l PhysicalLocation) Equal(other PhysicalLocation) bool {
	if l.Coordinates != nil && other.Coordinates != nil && *l.Coordinates != *other.Coordinates {
		return false
	}

	return l.Address.Street == other.Address.Street &&
		l.Address.City == other.Address.City &&
		l.Address.State == other.Address.State &&
		l.Address.ZipCode == other.Address.ZipCode
}

// Contains is equality: a point only contains itself.
func (l PhysicalLocation) Contains(other Location) (bool, error) {
	switch o := other.(type) {
	case PhysicalLocation:
		return l.Equal(o), nil
	case *PhysicalLocation:
		return o != nil && l.Equal(*o), nil
	default:
		return false, nil
	}
}

// DistanceTo is the haversine great-circle distance. Both sides need coordinates.
func (l PhysicalLocation) DistanceTo(other PhysicalLocation) (Distance, error) {
	if l.Coordinates == nil || other.Coordinates == nil {
		return Distance{}, ErrMissingCoordinates
	}

	lat1 := degreesToRadians(l.Coordinates.Latitude)
	lat2 := degreesToRadians(other.Coordinates.Latitude)
	dLat := lat2 - lat1
	dLon := degreesToRadians(other.Coordinates.Longitude - l.Coordinates.Longitude)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return NewDistance(earthRadiusKilometers * c)
}

func (l PhysicalLocation) String() string {
	a := l.Address
	return fmt.Sprintf("%s, %s, %s %s, %s", a.Street, a.City, a.State, a.ZipCode, a.Country)
}

func degreesToRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// PhysicalArea is a circle around a center point.
type PhysicalArea struct {
	Center PhysicalLocation
	Radius Distance
}

// ContainsLocation reports whether point lies strictly inside the radius.
func (a PhysicalArea) ContainsLocation(point PhysicalLocation) (bool, error) {
	d, err := a.Center.DistanceTo(point)
	if err != nil {
		return false, err
	}

	return d.LessThan(a.Radius), nil
}

// ContainsArea reports whether sub lies entirely inside: center offset plus sub radius below the radius.
func (a PhysicalArea) ContainsArea(sub PhysicalArea) (bool, error) {
	offset, err := a.Center.DistanceTo(sub.Center)
	if err != nil {
		return false, err
	}

	return offset.Add(sub.Radius).LessThan(a.Radius), nil
}

// Contains dispatches on the location kind. Virtual locations are not supported.
func (a PhysicalArea) Contains(other Location) (bool, error) {
	switch o := other.(type) {
	case PhysicalLocation:
		return a.ContainsLocation(o)
	case *PhysicalLocation:
		return a.ContainsLocation(*o)
	case PhysicalArea:
		return a.ContainsArea(o)
	case *PhysicalArea:
		return a.ContainsArea(*o)
	default:
		return false, fmt.Errorf("%w: %T inside a physical area", ErrUnsupportedLocation, other)
	}
}

func (a PhysicalArea) String() string {
	return fmt.Sprintf("%s around %s", a.Radius, a.Center)
}

// URL is an absolute web address.
type URL string

// VirtualLocation is a location on the web.
type VirtualLocation struct {
	URL URL
}

// Contains is URL equality.
func (v VirtualLocation) Contains(other Location) (bool, error) {
	switch o := other.(type) {
	case VirtualLocation:
		return v.URL == o.URL, nil
	case *VirtualLocation:
		return o != nil && v.URL == o.URL, nil
	default:
		return false, nil
	}
}

func (v VirtualLocation) String() string {
	return string(v.URL)
}

// MOPServer is a virtual location speaking a given protocol version.
type MOPServer struct {
	VirtualLocation
	Version string
}

// LocalMOPServer is the server used when a library has no public one.
func LocalMOPServer() MOPServer {
	return MOPServer{VirtualLocation: VirtualLocation{URL: "https://localhost"}, Version: "0.0.0"}
}
