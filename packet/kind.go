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

// Package packet implements the packet type hierarchy of spec.md §3/§4.4:
// common kinematic state shared by every packet plus per-kind behavior
// (messenger/confidential/protected/bulk/bit/trojan).
package packet

// Kind discriminates the packet variants. Behavior dispatches on Kind rather
// than through an inheritance hierarchy (spec.md §9).
type Kind int

const (
	KindSquareMessenger Kind = iota
	KindTriangleMessenger
	KindSmallMessenger
	KindProtected
	KindConfidential
	KindConfidentialProtected
	KindBulkSmall
	KindBulkLarge
	KindTrojan
	KindBit
)

func (k Kind) String() string {
	if info, ok := kindTable[k]; ok {
		return info.DisplayName
	}
	return "Unknown"
}

// IsMessenger reports whether k is one of the three plain messenger kinds.
func (k Kind) IsMessenger() bool {
	switch k {
	case KindSquareMessenger, KindTriangleMessenger, KindSmallMessenger:
		return true
	}
	return false
}

func (k Kind) IsBulk() bool {
	return k == KindBulkSmall || k == KindBulkLarge
}

// kindInfo is the static (displayName, baseSize, baseCoinValue) table from
// spec.md §3. Protected's size is derived at construction (2x the wrapped
// messenger's base size), so it has no fixed baseSize entry here.
type kindInfo struct {
	DisplayName   string
	BaseSize      int
	BaseCoinValue int
}

var kindTable = map[Kind]kindInfo{
	KindSquareMessenger:       {"Square Messenger", 2, 2},
	KindTriangleMessenger:     {"Triangle Messenger", 3, 3},
	KindSmallMessenger:        {"Small Messenger", 1, 1},
	KindProtected:             {"Protected", 0, 5},
	KindConfidential:          {"Confidential", 4, 3},
	KindConfidentialProtected: {"Confidential Protected", 6, 4},
	KindBulkSmall:             {"Bulk (Small)", 8, 8},
	KindBulkLarge:             {"Bulk (Large)", 10, 10},
	KindTrojan:                {"Trojan", 2, 0},
	KindBit:                   {"Bit", 1, 0},
}

func BaseSize(k Kind) int       { return kindTable[k].BaseSize }
func BaseCoinValue(k Kind) int  { return kindTable[k].BaseCoinValue }
func DisplayName(k Kind) string { return kindTable[k].DisplayName }

// MessengerKinds lists the three messenger kinds a Protected packet cycles
// through (spec.md §4.4: "re-randomize its current movement type among the
// three messenger types" on each new wire).
var MessengerKinds = [3]Kind{KindSquareMessenger, KindTriangleMessenger, KindSmallMessenger}
