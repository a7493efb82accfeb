// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package migrate

import "context"

// 📊 Outcome is what happened to a single target
type Outcome int

const (
	OutcomeUnknown        Outcome = iota
	OutcomeMissing                // Not found in any search directory
	OutcomeIgnored                // Matched an ignore pattern
	OutcomeAlreadyUpdated         // Already carries the new signature
	OutcomeNotApplicable          // Old signature not found
	OutcomeUpdated                // Rewritten (or would be, in a plan)
)

// String returns a string representation of Outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeMissing:
		return "missing"
	case OutcomeIgnored:
		return "ignored"
	case OutcomeAlreadyUpdated:
		return "already updated"
	case OutcomeNotApplicable:
		return "no matching signature found"
	case OutcomeUpdated:
		return "updated"
	default:
		return "unknown"
	}
}

// 📄 Result describes one target after it has been handled
type Result struct {
	Name         string  // Target file name
	Path         string  // Path relative to the base directory, empty when not found
	Dir          string  // Search directory the file was found in
	Outcome      Outcome // What happened
	Replacements int     // Signature and token replacements made
}

// 📈 Summary collects the results of a run, in target order
type Summary struct {
	Results []Result
	Updated int
}

func (s *Summary) add(res Result) {
	s.Results = append(s.Results, res)
	if res.Outcome == OutcomeUpdated {
		s.Updated++
	}
}

// Count returns how many results ended with the given outcome
func (s *Summary) Count(outcome Outcome) int {
	n := 0
	for _, res := range s.Results {
		if res.Outcome == outcome {
			n++
		}
	}
	return n
}

// 📢 Reporter receives the user-facing events of a run
type Reporter interface {
	// Skipped is called for a found file that was left alone
	Skipped(ctx context.Context, name string, outcome Outcome)
	// Updated is called after a file has been rewritten
	Updated(ctx context.Context, name string)
	// Missing is called for a target absent from every search directory
	Missing(ctx context.Context, name string)
	// Total is called once, after the last target
	Total(ctx context.Context, updated int)
}
