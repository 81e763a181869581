package orbital

import (
	"fmt"
	"strings"
)

// Reference distances in km. Orbital radii sourced from the NASA fact
// sheets, gravitational parameters from JPL.
const (
	// AU is the astronomical unit in km.
	AU Distance = 149597870.7
	// EarthRadius is the mean equatorial radius of the Earth.
	EarthRadius Distance = 6378.137
	// LEORadius is a low Earth orbit radius (~200 km altitude).
	LEORadius Distance = 6578.0
	// GEORadius is the geostationary orbit radius.
	GEORadius Distance = 42164.0
)

// Body identifies a solar system body. The zero value is the Sun.
type Body uint8

const (
	Sun Body = iota
	Mercury
	Venus
	Earth
	Mars
	Jupiter
	Saturn
	Uranus
	Neptune
)

// Planets lists the eight planets in heliocentric order.
var Planets = [8]Body{Mercury, Venus, Earth, Mars, Jupiter, Saturn, Uranus, Neptune}

// CelestialObject defines a celestial object.
type CelestialObject struct {
	Name        string
	GM          GravParam // km^3/s^2
	Radius      Distance  // mean equatorial radius, km
	OrbitRadius Distance  // mean heliocentric semi-major axis, km (0 for the Sun)
}

// bodyData is the process-wide immutable table, indexed by Body.
var bodyData = [...]CelestialObject{
	Sun:     {"Sun", 1.32712440041e11, 696000.0, 0},
	Mercury: {"Mercury", 2.2032e4, 2439.7, 57909050.0},
	Venus:   {"Venus", 3.24859e5, 6051.8, 108208000.0},
	Earth:   {"Earth", 3.986004418e5, 6378.137, 149597870.7},
	Mars:    {"Mars", 4.28283714e4, 3396.2, 227939200.0},
	Jupiter: {"Jupiter", 1.266865349e8, 71492.0, 778570000.0},
	Saturn:  {"Saturn", 3.793120749e7, 60268.0, 1433530000.0},
	Uranus:  {"Uranus", 5.793939e6, 25559.0, 2872460000.0},
	Neptune: {"Neptune", 6.836529e6, 24764.0, 4495060000.0},
}

// String implements the Stringer interface.
func (b Body) String() string {
	if int(b) >= len(bodyData) {
		panic("unknown body")
	}
	return bodyData[b].Name
}

// GM returns the gravitational parameter of this body.
func (b Body) GM() GravParam {
	return bodyData[b].GM
}

// Radius returns the mean equatorial radius of this body.
func (b Body) Radius() Distance {
	return bodyData[b].Radius
}

// OrbitRadius returns the mean heliocentric semi-major axis of this body.
// Panics for the Sun.
func (b Body) OrbitRadius() Distance {
	if b == Sun {
		panic("the Sun does not orbit the Sun")
	}
	return bodyData[b].OrbitRadius
}

// HelioPeriod returns the heliocentric orbital period of this body.
func (b Body) HelioPeriod() Seconds {
	return Period(Sun.GM(), b.OrbitRadius())
}

// BodyFromString returns the body for the given name, case insensitive.
func BodyFromString(name string) (Body, error) {
	for b, data := range bodyData {
		if strings.EqualFold(data.Name, name) {
			return Body(b), nil
		}
	}
	return Sun, fmt.Errorf("unknown body %q", name)
}
