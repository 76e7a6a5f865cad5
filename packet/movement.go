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

package packet

// Default kinematic constants. Bulk/Trojan speeds are pinned exactly by
// spec.md §4.4; messenger/confidential speeds are not given explicit
// numbers, only relative multiplier/acceleration rules, so this module picks
// a base speed and acceleration magnitude consistent with those rules.
const (
	BaseMessengerSpeed      = 60.0
	MessengerAcceleration   = 15.0
	BulkSmallStraightSpeed  = 100.0
	BulkSmallBendSpeed      = 150.0
	BulkLargeSpeed          = 80.0
	BulkLargeDeflectionEvery = 50.0
	ConfidentialBaseSpeed   = 55.0
	TrojanBaseSpeed         = 60.0
	BitBaseSpeed            = 60.0
)

// SpeedAndAcceleration returns the scalar base speed and tangential
// acceleration that should apply to this packet for the remainder of its
// current wire traversal, given whether the entry port was compatible and
// (for bulk packets) whether the wire currently being traversed has a bend.
// This implements the per-type rules of spec.md §4.4:
//
//   - SquareMessenger: full speed from a compatible port, half speed from an
//     incompatible one, no acceleration either way.
//   - SmallMessenger: base speed, accelerating from a compatible port and
//     decelerating from an incompatible one.
//   - TriangleMessenger: base speed, constant from a compatible port,
//     accelerating from an incompatible one.
//   - Protected: delegates to whichever messenger kind it is currently
//     wearing (see RerollMovementKind).
//   - BulkSmall/BulkLarge: fixed speeds, no acceleration.
//   - Confidential/Trojan/Bit: fixed base speed.
//   - ConfidentialProtected: base speed scaled by SpacingRatio, which
//     process.go nudges toward maintaining a target distance from the
//     nearest other on-network packet.
func (p *Packet) SpeedAndAcceleration(hasBend bool) (speed, accel float64) {
	switch p.Kind {
	case KindBulkSmall:
		if hasBend {
			return BulkSmallBendSpeed, 0
		}
		return BulkSmallStraightSpeed, 0
	case KindBulkLarge:
		return BulkLargeSpeed, 0
	case KindConfidential:
		return ConfidentialBaseSpeed, 0
	case KindConfidentialProtected:
		ratio := p.SpacingRatio
		if ratio <= 0 {
			ratio = 1
		}
		return ConfidentialBaseSpeed * ratio, 0
	case KindTrojan:
		return TrojanBaseSpeed, 0
	case KindBit:
		return BitBaseSpeed, 0
	}

	messengerKind, ok := p.EffectiveMessengerKind()
	if !ok {
		return BaseMessengerSpeed, 0
	}
	switch messengerKind {
	case KindSquareMessenger:
		if p.EntryCompatible {
			return BaseMessengerSpeed, 0
		}
		return BaseMessengerSpeed / 2, 0
	case KindSmallMessenger:
		if p.EntryCompatible {
			return BaseMessengerSpeed, MessengerAcceleration
		}
		return BaseMessengerSpeed, -MessengerAcceleration
	case KindTriangleMessenger:
		if p.EntryCompatible {
			return BaseMessengerSpeed, 0
		}
		return BaseMessengerSpeed, MessengerAcceleration
	}
	return BaseMessengerSpeed, 0
}

// AdvanceBulkDeflection tracks BulkLarge's periodic perpendicular deflection
// (every 50 units of distance traveled) and reports whether a deflection
// impulse should be applied this tick.
func (p *Packet) AdvanceBulkDeflection(distanceThisTick float64) bool {
	if p.Kind != KindBulkLarge || p.Bulk == nil {
		return false
	}
	prevCycles := int(p.Bulk.DistanceTraveled / BulkLargeDeflectionEvery)
	p.Bulk.DistanceTraveled += distanceThisTick
	newCycles := int(p.Bulk.DistanceTraveled / BulkLargeDeflectionEvery)
	return newCycles > prevCycles
}
