package planet

//go:generate go-enumprops planet.props

// PlanetProperties physical properties of a planet
type PlanetProperties struct {
	Mass   float64
	Radius float64
	Rings  bool
}

var rocky = PlanetProperties{Rings: false}
