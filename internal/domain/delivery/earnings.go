package delivery

import "math"

const (
	BaseFee         = 20.0
	BaselineMinutes = 30.0
	BonusPerMinute  = 0.5
	PartnerShare    = 0.85
	PlatformShare   = 0.15
)

type Earnings struct {
	Total    float64
	Partner  float64
	Platform float64
}

// ComputeEarnings prices a delivery. Every minute promised under the 30 minute
// baseline adds a bonus, pro rata for fractions; the 85/15 split does not
// depend on time.
func ComputeEarnings(estimatedTimeMinutes float64) Earnings {
	bonus := math.Max(0, (BaselineMinutes-estimatedTimeMinutes)*BonusPerMinute)
	total := BaseFee + bonus
	return Earnings{
		Total:    roundCents(total),
		Partner:  roundCents(total * PartnerShare),
		Platform: roundCents(total * PlatformShare),
	}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
