// Copyright 2025 Poiesic Systems
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


package fusion

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/poiesic/domus/core"
)

// Default confidence weights. They sum to 1 so the score stays in [0, 1],
// but Scorer does not enforce this; callers may retune.
const (
	DefaultAlpha      = 0.6
	DefaultBeta       = 0.3
	DefaultGamma      = 0.1
	DefaultHopPenalty = 2
)

// Scorer computes reproducible confidence scores for fused candidates.
//
//	confidence = alpha*semantic + beta*(1/(1+hop)) + gamma*relationWeight
//
// semantic is the candidate's similarity score clamped to [0, 1]. hop is 0
// when the candidate's id matched a graph record, else DefaultHop.
// relationWeight estimates the richness of the matched graph record.
type Scorer struct {
	Alpha      float64
	Beta       float64
	Gamma      float64
	DefaultHop int
}

// NewScorer returns a scorer with the default weights.
func NewScorer() *Scorer {
	return &Scorer{
		Alpha:      DefaultAlpha,
		Beta:       DefaultBeta,
		Gamma:      DefaultGamma,
		DefaultHop: DefaultHopPenalty,
	}
}

// Score computes the confidence value rounded to 4 decimal digits.
func (s *Scorer) Score(semantic float64, hop int, relationWeight float64) float64 {
	if hop < 0 {
		hop = 0
	}
	sem := clip(semantic, 0, 1)
	graph := 1.0 / (1.0 + float64(hop))
	rel := clip(relationWeight, 0, 1)
	return round(s.Alpha*sem+s.Beta*graph+s.Gamma*rel, 4)
}

// EstimateRelationWeight estimates how information-rich a graph record is,
// in [0.5, 1.0]. Richer records get a small boost so they outrank sparse
// ones at equal semantic similarity. A nil or empty record yields 0.5.
func (s *Scorer) EstimateRelationWeight(record core.GraphRecord) float64 {
	if len(record) == 0 {
		return 0.5
	}

	w := 0.5

	legal := strings.ToLower(attrText(record["legal_status"]))
	if strings.Contains(legal, "sổ đỏ") || strings.Contains(legal, "chính chủ") {
		w += 0.2
	}

	if hasValue(record["property_type"]) {
		w += 0.1
	}
	if hasValue(record["full_address"]) {
		w += 0.05
	}
	if hasValue(record["internal_amenities"]) {
		w += 0.05
	}
	if hasValue(record["near_facilities"]) {
		w += 0.05
	}

	return clip(w, 0.5, 1.0)
}

// Annotate attaches scoring fields to each candidate's attribute map:
// semantic, hop, relation_weight, and confidence. Candidates are matched
// against the identifier index by normalized id; unmatched candidates get
// the default hop penalty. The input slice is annotated in place and also
// returned for chaining.
func (s *Scorer) Annotate(candidates []core.Candidate, index map[string]core.GraphRecord) []core.Candidate {
	for i := range candidates {
		id := core.NormalizeKey(candidates[i].Key)

		record, matched := index[id]
		if id == "" {
			matched = false
		}

		hop := s.DefaultHop
		if matched {
			hop = 0
		}

		semantic := clip(candidates[i].Score, 0, 1)
		relWeight := s.EstimateRelationWeight(record)
		confidence := s.Score(semantic, hop, relWeight)

		if candidates[i].Attributes == nil {
			candidates[i].Attributes = make(map[string]any, 4)
		}
		candidates[i].Attributes["semantic"] = round(semantic, 4)
		candidates[i].Attributes["hop"] = hop
		candidates[i].Attributes["relation_weight"] = round(relWeight, 3)
		candidates[i].Attributes["confidence"] = confidence
	}
	return candidates
}

// RerankByConfidence sorts candidates by descending confidence. The sort is
// stable, so equal-confidence candidates keep their selection order. A
// candidate without a confidence attribute sorts as 0.
func RerankByConfidence(candidates []core.Candidate) []core.Candidate {
	sort.SliceStable(candidates, func(i, j int) bool {
		return confidenceOf(candidates[i]) > confidenceOf(candidates[j])
	})
	return candidates
}

func confidenceOf(c core.Candidate) float64 {
	if c.Attributes == nil {
		return 0
	}
	return asFloat(c.Attributes["confidence"])
}

// asFloat coerces attribute values to float64, treating anything
// non-numeric as 0.
func asFloat(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int64:
		return float64(x)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// attrText renders an attribute value as comparable text. Graph backends
// return list-valued attributes for some fields, so slices are joined.
func attrText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []string:
		return strings.Join(x, " ")
	case []any:
		parts := make([]string, 0, len(x))
		for _, e := range x {
			parts = append(parts, attrText(e))
		}
		return strings.Join(parts, " ")
	default:
		return core.NormalizeKey(x)
	}
}

// hasValue reports whether an attribute is present and non-empty.
func hasValue(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(x) != ""
	case []string:
		return len(x) > 0
	case []any:
		return len(x) > 0
	case map[string]any:
		return len(x) > 0
	default:
		return true
	}
}

func clip(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round(v float64, digits int) float64 {
	scale := math.Pow10(digits)
	return math.Round(v*scale) / scale
}
