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

// Package ids defines the stable identifier types used to reference systems,
// wires and packets by id instead of by pointer (spec.md §9: "Back-references
// ... model as stable identifiers into owning collections, not direct
// handles").
package ids

import "github.com/google/uuid"

type SystemID string
type WireID string
type PacketID string
type LevelID string

// New generates a fresh random id. Pinecone has no ID-generation helper of
// its own (peers are addressed by public key); this uses google/uuid, the
// idiom observed in _examples/other_examples's Atsika-aznet package.
func New() string {
	return uuid.NewString()
}

func NewSystemID() SystemID { return SystemID(New()) }
func NewWireID() WireID     { return WireID(New()) }
func NewPacketID() PacketID { return PacketID(New()) }
func NewLevelID() LevelID   { return LevelID(New()) }
