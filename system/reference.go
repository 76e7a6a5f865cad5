// Copyright 2021 The Matrix.org Foundation C.I.C.
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

package system

import "github.com/HisEgo/BlueprintHell/packet"

// processReference implements ReferenceSystem's terminal behavior (spec.md
// §4.6): finalize delivery exactly once per packet, never forward. Sources
// only inject from the schedule (engine's concern); a reference system
// counts as a source iff it has a non-empty injection list bound to it,
// which the engine records in IsSource; this method does not consult it.
func (s *System) processReference(pkt *packet.Packet) ProcessResult {
	if s.processedByReference[pkt.ID] {
		return ProcessResult{Destroyed: true}
	}
	s.processedByReference[pkt.ID] = true
	pkt.Active = false
	pkt.Delivered = true
	s.DeliveredCount++
	return ProcessResult{}
}
