// Package spotter proposes the legal questions a draft raises.
package spotter

import "legaldraft-analyzer/internal/model"

// Spotter maps draft text to an ordered list of issues. Implementations must
// be pure: no I/O and the same output for the same input.
type Spotter interface {
	Spot(text string) []model.Issue
}

// Func adapts a plain function to Spotter.
type Func func(text string) []model.Issue

func (f Func) Spot(text string) []model.Issue { return f(text) }

var placeholderIssues = []model.Issue{
	"Whether denial of hearing violates principles of natural justice under Article 14?",
	"Whether the impugned order suffers from lack of jurisdiction?",
	"Whether delay in filing appeal can be condoned under Section 5 of Limitation Act?",
}

// Placeholder ignores the text and returns the fixed starter questions until
// a trained model is plugged in.
type Placeholder struct{}

func (Placeholder) Spot(string) []model.Issue {
	out := make([]model.Issue, len(placeholderIssues))
	copy(out, placeholderIssues)
	return out
}
