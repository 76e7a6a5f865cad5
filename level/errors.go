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

import "errors"

// EditingRejection sentinels (spec.md §7): WiringController reports one of
// these as the reason a wire/bend/system edit was refused, with no state
// change.
var (
	ErrSameSystem        = errors.New("level: cannot wire a system to itself")
	ErrSameDirection     = errors.New("level: both ports face the same direction")
	ErrPortAlreadyWired  = errors.New("level: port is already connected")
	ErrAlreadyConnected  = errors.New("level: these two systems already share a wire")
	ErrCrossesSystem     = errors.New("level: wire path crosses another system's footprint")
	ErrInsufficientBudget = errors.New("level: not enough remaining wire length")
	ErrUnknownWire       = errors.New("level: no wire with that id")
	ErrUnknownSystem     = errors.New("level: no system with that id")
	ErrPortIndex         = errors.New("level: port index out of range")
	ErrWiresNotShared    = errors.New("level: the two wires do not share a common port")
)
