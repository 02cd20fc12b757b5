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
	"context"

	"github.com/poiesic/domus/core"
)

// Fetcher performs exact-key candidate lookups, a secondary path distinct
// from ranked similarity search. Implementations return at most limit
// candidates and skip keys they cannot find.
type Fetcher interface {
	FetchByKeys(ctx context.Context, keys []string, limit int) ([]core.Candidate, error)
}

// SelectByPriority fuses graph ids and vector candidates into an ordered
// list of at most fillLimit candidates, applying three strict tiers:
//
//  1. Overlap: graph ids present in the vector result, in graph order.
//     Corroboration by both branches is the strongest relevance signal.
//  2. Backfill: remaining graph ids fetched by exact key, best effort.
//  3. Fallback: the vector ranking in native order, ids-optional.
//
// No non-empty id is selected twice. Partial fill is valid; exhausting all
// tiers below fillLimit is not an error. A nil fetcher skips tier 2.
func SelectByPriority(ctx context.Context, graphIds []string, vectorCandidates []core.Candidate, fetcher Fetcher, fillLimit int, monitor SearchMonitor) []core.Candidate {
	if fillLimit <= 0 {
		return []core.Candidate{}
	}
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	picked := make([]core.Candidate, 0, fillLimit)
	used := make(map[string]struct{}, fillLimit)

	ids := make([]string, 0, len(graphIds))
	for _, raw := range graphIds {
		if id := core.NormalizeKey(raw); id != "" {
			ids = append(ids, id)
		}
	}

	vectorById := make(map[string]core.Candidate, len(vectorCandidates))
	for _, c := range vectorCandidates {
		if id := core.NormalizeKey(c.Key); id != "" {
			vectorById[id] = c
		}
	}

	// Tier 1: overlap between graph and vector, in graph order.
	for _, id := range ids {
		c, ok := vectorById[id]
		if !ok {
			continue
		}
		if _, taken := used[id]; taken {
			continue
		}
		picked = append(picked, c)
		used[id] = struct{}{}
		monitor.OverlapHit(id, c)
		if len(picked) >= fillLimit {
			return picked
		}
	}

	// Tier 2: graph ids the vector search missed, fetched by exact key.
	var missing []string
	for _, id := range ids {
		if _, taken := used[id]; taken {
			continue
		}
		if _, inVector := vectorById[id]; inVector {
			continue
		}
		missing = append(missing, id)
	}
	if len(missing) > 0 && fetcher != nil {
		fetched, err := fetcher.FetchByKeys(ctx, missing, fillLimit-len(picked))
		if err != nil {
			// Best effort: a failed backfill degrades to fallback filling.
			monitor.BackfillFailed(missing, err)
		}
		for _, c := range fetched {
			id := core.NormalizeKey(c.Key)
			if id == "" {
				continue
			}
			if _, taken := used[id]; taken {
				continue
			}
			picked = append(picked, c)
			used[id] = struct{}{}
			monitor.BackfillHit(id, c)
			if len(picked) >= fillLimit {
				return picked
			}
		}
	}

	// Tier 3: remaining slots from the vector ranking, accepting candidates
	// without an id as last-resort filler.
	for _, c := range vectorCandidates {
		id := core.NormalizeKey(c.Key)
		if id != "" {
			if _, taken := used[id]; taken {
				continue
			}
			used[id] = struct{}{}
		}
		picked = append(picked, c)
		monitor.FallbackHit(c)
		if len(picked) >= fillLimit {
			break
		}
	}

	return picked
}

// BuildIdIndex maps normalized record ids to their graph records. Records
// without an id are excluded. Duplicate ids are last-write-wins, per the
// graph backend's contract.
func BuildIdIndex(records []core.GraphRecord) map[string]core.GraphRecord {
	index := make(map[string]core.GraphRecord, len(records))
	for _, r := range records {
		if id := r.Key(); id != "" {
			index[id] = r
		}
	}
	return index
}

// GraphIds extracts normalized, non-empty ids from graph records in the
// order the backend returned them. Order is preserved because it can carry
// ranking information from the query generator.
func GraphIds(records []core.GraphRecord) []string {
	ids := make([]string, 0, len(records))
	for _, r := range records {
		if id := r.Key(); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
