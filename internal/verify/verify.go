// Package verify compares an acquired dataset against the known baseline
// for the 2025/26 Troyes squad. It backs the standalone verification
// command used to spot silent parser drift after source markup changes.
package verify

import (
	"fmt"
	"log"
	"regexp"
	"strconv"

	"github.com/troyes-analytics/effectif/internal/acquire"
	"github.com/troyes-analytics/effectif/internal/squad"
)

// Baseline aggregates for the full squad page.
const (
	ExpectedPlayers    = 29
	ExpectedTotalValue = 27.93
	ExpectedAverageAge = 24.9
)

// Tolerances absorb routine market value revisions between checks.
const (
	totalValueTolerance  = 1.0
	averageAgeTolerance  = 1.0
	playerValueTolerance = 0.1
)

var expiryFormat = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)

type expectedPlayer struct {
	Position    squad.Position
	Age         int
	MarketValue float64
}

// keyPlayers are spot checks on the squad's headline names.
var keyPlayers = map[string]expectedPlayer{
	"Mathys Detourbet": {Position: squad.PositionForward, Age: 18, MarketValue: 4.0},
	"Tawfik Bentayeb":  {Position: squad.PositionForward, Age: 23, MarketValue: 3.0},
	"Jaurès Assoumou":  {Position: squad.PositionForward, Age: 23, MarketValue: 3.0},
	"Martin Adeline":   {Position: squad.PositionMidfielder, Age: 22, MarketValue: 3.0},
	"Ismaël Boura":     {Position: squad.PositionDefender, Age: 25, MarketValue: 2.5},
}

// Mismatch records one failed comparison.
type Mismatch struct {
	Subject  string
	Field    string
	Expected string
	Actual   string
}

// Report tallies every comparison made during a verification run.
type Report struct {
	Checks     int
	Mismatches []Mismatch
}

// OK reports whether every check passed.
func (r *Report) OK() bool {
	return len(r.Mismatches) == 0
}

// Log prints each mismatch and a closing tally.
func (r *Report) Log() {
	for _, m := range r.Mismatches {
		log.Printf("[verify] ❌ %s %s: expected %s, got %s", m.Subject, m.Field, m.Expected, m.Actual)
	}
	if r.OK() {
		log.Printf("[verify] ✓ all %d checks passed", r.Checks)
		return
	}
	log.Printf("[verify] %d/%d checks failed", len(r.Mismatches), r.Checks)
}

func (r *Report) add(subject, field, expected, actual string) {
	r.Mismatches = append(r.Mismatches, Mismatch{
		Subject:  subject,
		Field:    field,
		Expected: expected,
		Actual:   actual,
	})
}

func (r *Report) checkEqual(subject, field, expected, actual string) {
	r.Checks++
	if expected != actual {
		r.add(subject, field, expected, actual)
	}
}

func (r *Report) checkClose(subject, field string, expected, actual, tolerance float64) {
	r.Checks++
	diff := expected - actual
	if diff < 0 {
		diff = -diff
	}
	if diff > tolerance {
		r.add(subject, field, fmt.Sprintf("%.2f ±%.2f", expected, tolerance), fmt.Sprintf("%.2f", actual))
	}
}

// Run checks the result against the baseline and returns the full report.
func Run(result *acquire.Result) *Report {
	r := &Report{}
	d := result.Dataset

	r.checkEqual("dataset", "source", string(squad.SourceLive), string(result.Source))
	r.checkEqual("dataset", "player count", strconv.Itoa(ExpectedPlayers), strconv.Itoa(d.Len()))
	r.checkClose("dataset", "total market value", ExpectedTotalValue, d.TotalMarketValue(), totalValueTolerance)
	r.checkClose("dataset", "average age", ExpectedAverageAge, d.MeanAge(), averageAgeTolerance)

	index := make(map[string]squad.PlayerRecord, d.Len())
	for _, p := range d.Players {
		index[p.Name] = p
	}

	for name, want := range keyPlayers {
		r.Checks++
		got, ok := index[name]
		if !ok {
			r.add(name, "presence", "in dataset", "missing")
			continue
		}
		r.checkEqual(name, "position", string(want.Position), string(got.Position))
		r.checkEqual(name, "age", strconv.Itoa(want.Age), strconv.Itoa(got.Age))
		r.checkClose(name, "market value", want.MarketValue, got.MarketValue, playerValueTolerance)
	}

	for _, p := range d.Players {
		r.Checks++
		if p.ContractExpires != squad.ExpiryUnknown && !expiryFormat.MatchString(p.ContractExpires) {
			r.add(p.Name, "contract expiry format", "DD/MM/YYYY or Unknown", p.ContractExpires)
		}
	}

	return r
}
