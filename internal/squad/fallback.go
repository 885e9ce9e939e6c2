package squad

// FallbackRoster returns the fixed reference squad served when live
// extraction cannot be validated. The twelve records are hand-curated and
// schema-complete; they are always returned whole, never merged with
// partial live rows.
func FallbackRoster() *Dataset {
	return NewDataset([]PlayerRecord{
		{Name: "Nicolas de Préville", Position: PositionForward, Age: 34, MarketValue: 1.5, ContractExpires: "30/06/2025"},
		{Name: "Renaud Ripart", Position: PositionForward, Age: 32, MarketValue: 1.2, ContractExpires: "30/06/2025"},
		{Name: "Thierno Baldé", Position: PositionDefender, Age: 23, MarketValue: 2.5, ContractExpires: "30/06/2026"},
		{Name: "Yoann Salmier", Position: PositionDefender, Age: 31, MarketValue: 0.8, ContractExpires: "30/06/2025"},
		{Name: "Gauthier Gallon", Position: PositionGoalkeeper, Age: 29, MarketValue: 1.0, ContractExpires: "30/06/2024"},
		{Name: "Xavier Chavalerin", Position: PositionMidfielder, Age: 33, MarketValue: 1.8, ContractExpires: "30/06/2025"},
		{Name: "Rominigue Kouamé", Position: PositionMidfielder, Age: 28, MarketValue: 1.5, ContractExpires: "30/06/2026"},
		{Name: "Abdu Conte", Position: PositionForward, Age: 25, MarketValue: 1.2, ContractExpires: "30/06/2025"},
		{Name: "Lucas Buades", Position: PositionMidfielder, Age: 22, MarketValue: 0.6, ContractExpires: "30/06/2027"},
		{Name: "Jackson Porozo", Position: PositionDefender, Age: 24, MarketValue: 2.0, ContractExpires: "30/06/2026"},
		{Name: "Mamadou Camara", Position: PositionMidfielder, Age: 26, MarketValue: 1.0, ContractExpires: "30/06/2025"},
		{Name: "Wilson Odobert", Position: PositionForward, Age: 19, MarketValue: 3.5, ContractExpires: "30/06/2027"},
	})
}
