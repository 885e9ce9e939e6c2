package squad

// Position is a normalized playing-position category.
type Position string

const (
	PositionGoalkeeper Position = "Goalkeeper"
	PositionDefender   Position = "Defender"
	PositionMidfielder Position = "Midfielder"
	PositionForward    Position = "Forward"
	PositionUnknown    Position = "Unknown"
)

// Source identifies where a dataset came from.
type Source string

const (
	SourceLive     Source = "live"
	SourceFallback Source = "fallback"
)

// ExpiryUnknown is the sentinel for contract dates the extractor could not resolve.
const ExpiryUnknown = "Unknown"

// MinAge and MaxAge bound the plausible age range for a senior squad member.
const (
	MinAge = 16
	MaxAge = 50
)

// ValidAge reports whether age falls inside the plausible senior-squad range.
func ValidAge(age int) bool {
	return age >= MinAge && age <= MaxAge
}

// PlayerRecord represents one squad member in the five-column roster schema.
type PlayerRecord struct {
	Name            string   `json:"player_name"`
	Position        Position `json:"position"`
	Age             int      `json:"age"`
	MarketValue     float64  `json:"market_value_m_eur"`
	ContractExpires string   `json:"contract_expires"`
}

// Dataset is an ordered roster. Records keep the source table's row order
// and are never mutated after construction; aggregate views are computed on
// demand rather than stored.
type Dataset struct {
	Players []PlayerRecord `json:"players"`
}

// NewDataset wraps an extracted roster.
func NewDataset(players []PlayerRecord) *Dataset {
	return &Dataset{Players: players}
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	return len(d.Players)
}

// ValidAgeFraction returns the share of records with an in-range age.
func (d *Dataset) ValidAgeFraction() float64 {
	if len(d.Players) == 0 {
		return 0
	}
	valid := 0
	for _, p := range d.Players {
		if ValidAge(p.Age) {
			valid++
		}
	}
	return float64(valid) / float64(len(d.Players))
}

// DistinctPositions counts the distinct position categories present,
// Unknown included.
func (d *Dataset) DistinctPositions() int {
	positions := make(map[Position]struct{}, 5)
	for _, p := range d.Players {
		positions[p.Position] = struct{}{}
	}
	return len(positions)
}

// DistinctKnownPositions counts the distinct position categories present,
// Unknown excluded. Quality validation uses this so a roster of
// unclassifiable rows cannot pass as positionally diverse.
func (d *Dataset) DistinctKnownPositions() int {
	positions := make(map[Position]struct{}, 4)
	for _, p := range d.Players {
		if p.Position == PositionUnknown {
			continue
		}
		positions[p.Position] = struct{}{}
	}
	return len(positions)
}

// MeanAge returns the average age, 0 for an empty roster.
func (d *Dataset) MeanAge() float64 {
	if len(d.Players) == 0 {
		return 0
	}
	sum := 0
	for _, p := range d.Players {
		sum += p.Age
	}
	return float64(sum) / float64(len(d.Players))
}

// TotalMarketValue sums the roster's market values in millions of euros.
func (d *Dataset) TotalMarketValue() float64 {
	total := 0.0
	for _, p := range d.Players {
		total += p.MarketValue
	}
	return total
}
