package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	petfood "github.com/thaochithai/pet-food-analysis"
)

// Strategy is one heuristic for locating a field's raw value within a
// document scope. It returns "" on a miss.
type Strategy struct {
	Name string
	Fn   func(scope *goquery.Selection) string
}

// Chain is the ordered strategy list declared for one field. Strategies
// are tried in declared order and the first non-empty raw value wins;
// later strategies are never consulted once one succeeds.
type Chain struct {
	Field      string
	Strategies []Strategy
}

// Extract runs the chain against a scope. The returned result records
// which strategy produced the value; AbsentField when all missed.
func (c Chain) Extract(scope *goquery.Selection) petfood.FieldResult {
	for i, strat := range c.Strategies {
		if value := runStrategy(strat, scope); value != "" {
			return petfood.FieldResult{Value: value, Strategy: i}
		}
	}
	return petfood.AbsentField
}

// runStrategy isolates one strategy invocation. A panicking strategy is
// a miss, never a record-level failure.
func runStrategy(strat Strategy, scope *goquery.Selection) (value string) {
	defer func() {
		if recover() != nil {
			value = ""
		}
	}()
	return strings.TrimSpace(strat.Fn(scope))
}

// Detector is one presence heuristic for a boolean badge field.
type Detector struct {
	Name string
	Fn   func(scope *goquery.Selection) bool
}

// DetectorChain is the ordered detector list for a boolean field. The
// field is true when any detector fires; the default is false.
type DetectorChain struct {
	Field     string
	Detectors []Detector
}

// Detect runs the detectors in declared order.
func (c DetectorChain) Detect(scope *goquery.Selection) bool {
	for _, det := range c.Detectors {
		if runDetector(det, scope) {
			return true
		}
	}
	return false
}

func runDetector(det Detector, scope *goquery.Selection) (fired bool) {
	defer func() {
		if recover() != nil {
			fired = false
		}
	}()
	return det.Fn(scope)
}

// firstText returns a strategy that yields the text of the first node
// matching selector.
func firstText(selector string) func(scope *goquery.Selection) string {
	return func(scope *goquery.Selection) string {
		return text(queryOne(scope, selector))
	}
}

// firstAttr returns a strategy that yields an attribute of the first
// node matching selector.
func firstAttr(selector, name string) func(scope *goquery.Selection) string {
	return func(scope *goquery.Selection) string {
		return attr(queryOne(scope, selector), name)
	}
}

// anyPresent returns a detector that fires when any selector matches.
func anyPresent(selectors ...string) func(scope *goquery.Selection) bool {
	return func(scope *goquery.Selection) bool {
		for _, sel := range selectors {
			if scope.Find(sel).Length() > 0 {
				return true
			}
		}
		return false
	}
}
