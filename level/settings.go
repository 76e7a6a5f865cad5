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

// Settings holds the recognized configuration options of spec.md §6, with
// the defaults DefaultSettings applies. The level file has no settings
// block, so Decode always uses these defaults. SpeedDamageThreshold and
// SpeedDamageDeactivationTime are not read anywhere: system.ProcessDefault
// uses the system package's own constants of the same values.
type Settings struct {
	OffWireLossThreshold         float64 `json:"offWireLossThreshold"`
	SmoothWireCurves             bool    `json:"smoothWireCurves"`
	FailedSystemsGameOverPercent float64 `json:"failedSystemsGameOverPercent"`
	SpeedDamageThreshold         float64 `json:"speedDamageThreshold"`
	SpeedDamageDeactivationTime  float64 `json:"speedDamageDeactivationTime"`

	// ConfidentialTargetDistance resolves spec.md §9's open question on the
	// exact distance ConfidentialProtected packets try to maintain from
	// their neighbors.
	ConfidentialTargetDistance float64 `json:"confidentialTargetDistance"`
}

// DefaultSettings returns spec.md §6's documented defaults.
func DefaultSettings() Settings {
	return Settings{
		OffWireLossThreshold:         20.0,
		SmoothWireCurves:             true,
		FailedSystemsGameOverPercent: 50.0,
		SpeedDamageThreshold:         150.0,
		SpeedDamageDeactivationTime:  10.0,
		ConfidentialTargetDistance:   40.0,
	}
}
