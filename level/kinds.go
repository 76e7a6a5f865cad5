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

package level

import (
	"fmt"

	"github.com/HisEgo/BlueprintHell/packet"
	"github.com/HisEgo/BlueprintHell/port"
	"github.com/HisEgo/BlueprintHell/system"
)

// systemKindByName maps each level-file type tag to its policy (spec.md §6).
// system.Kind.String() already returns exactly these names.
var systemKindByName = map[string]system.Kind{
	"NormalSystem":      system.KindNormal,
	"ReferenceSystem":    system.KindReference,
	"SpySystem":          system.KindSpy,
	"SaboteurSystem":     system.KindSaboteur,
	"VPNSystem":          system.KindVPN,
	"AntiTrojanSystem":   system.KindAntiTrojan,
	"DistributorSystem":  system.KindDistributor,
	"MergerSystem":       system.KindMerger,
}

func parseSystemKind(s string) (system.Kind, error) {
	k, ok := systemKindByName[s]
	if !ok {
		return 0, fmt.Errorf("level: unknown system type %q", s)
	}
	return k, nil
}

// packetTypeByName is the level-file spelling of each PacketType (spec.md
// §3/§6), distinct from packet.Kind.String()'s spaced display name.
var packetTypeByName = map[string]packet.Kind{
	"SquareMessenger":       packet.KindSquareMessenger,
	"TriangleMessenger":     packet.KindTriangleMessenger,
	"SmallMessenger":        packet.KindSmallMessenger,
	"Protected":             packet.KindProtected,
	"Confidential":          packet.KindConfidential,
	"ConfidentialProtected": packet.KindConfidentialProtected,
	"BulkSmall":             packet.KindBulkSmall,
	"BulkLarge":             packet.KindBulkLarge,
	"Trojan":                packet.KindTrojan,
	"Bit":                   packet.KindBit,
}

var packetTypeNames = func() map[packet.Kind]string {
	out := make(map[packet.Kind]string, len(packetTypeByName))
	for name, k := range packetTypeByName {
		out[k] = name
	}
	return out
}()

func parsePacketType(s string) (packet.Kind, error) {
	k, ok := packetTypeByName[s]
	if !ok {
		return 0, fmt.Errorf("level: unknown packet type %q", s)
	}
	return k, nil
}

func packetTypeName(k packet.Kind) string {
	return packetTypeNames[k]
}

var portShapeByName = map[string]port.Shape{
	"SQUARE":   port.Square,
	"TRIANGLE": port.Triangle,
	"HEXAGON":  port.Hexagon,
}

func parsePortShape(s string) (port.Shape, error) {
	shape, ok := portShapeByName[s]
	if !ok {
		return 0, fmt.Errorf("level: unknown port shape %q", s)
	}
	return shape, nil
}
