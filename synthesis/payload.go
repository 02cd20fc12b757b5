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


package synthesis

import (
	"encoding/json"
	"strings"

	"github.com/poiesic/domus/core"
)

// BuildPayload serializes candidates and their matched graph attributes into
// the structured evidence text consumed by the synthesis prompt. Each block
// carries the candidate id ("N/A" when absent), the matched graph record as
// JSON, and the candidate text. Blocks are separated by a horizontal rule so
// the model can tell listings apart.
func BuildPayload(candidates []core.Candidate, index map[string]core.GraphRecord) string {
	blocks := make([]string, 0, len(candidates))

	for _, c := range candidates {
		id := core.NormalizeKey(c.Key)

		var graphInfo core.GraphRecord
		if id != "" {
			graphInfo = index[id]
		}
		if graphInfo == nil {
			graphInfo = core.GraphRecord{}
		}

		graphJSON, err := json.Marshal(graphInfo)
		if err != nil {
			graphJSON = []byte("{}")
		}

		displayId := id
		if displayId == "" {
			displayId = "N/A"
		}

		var b strings.Builder
		b.WriteString("ID: ")
		b.WriteString(displayId)
		b.WriteString("\nGRAPH: ")
		b.Write(graphJSON)
		b.WriteString("\nTEXT: ")
		b.WriteString(strings.TrimSpace(c.Text))

		blocks = append(blocks, b.String())
	}

	return strings.Join(blocks, "\n\n---\n\n")
}
