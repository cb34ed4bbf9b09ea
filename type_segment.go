package taxreform

import "fmt"

// Segment classifies the business economic sector.
type Segment int

const (
	Industry Segment = iota + 1
	Commerce
	Services
	Agribusiness
	Other
)

func (s Segment) String() string {
	switch s {
	case Industry:
		return "industry"
	case Commerce:
		return "commerce"
	case Services:
		return "services"
	case Agribusiness:
		return "agribusiness"
	case Other:
		return "other"
	default:
		return fmt.Sprintf("segment %d", int(s))
	}
}

// Activity is the current federal taxation regime of the business.
type Activity int

const (
	SimplesNacional Activity = iota + 1
	LucroPresumido
	LucroReal
)

func (a Activity) String() string {
	switch a {
	case SimplesNacional:
		return "Simples Nacional"
	case LucroPresumido:
		return "Lucro Presumido"
	case LucroReal:
		return "Lucro Real"
	default:
		return fmt.Sprintf("activity %d", int(a))
	}
}

// CostBand is a coarse range of costs relative to invoicing.
type CostBand int

const (
	LowCosts    CostBand = iota + 1 // up to 30% of invoicing
	MediumCosts                     // 30% to 60%
	HighCosts                       // 60% to 90%
)
