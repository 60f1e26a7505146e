// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package component

import "encoding/json"

// Raw holds a payload the registry could not decode, either because its tag
// is not registered in this build or because the stored data no longer
// matches the schema. It is carried through load and save untouched.
type Raw struct {
	Tag  Type
	Data json.RawMessage
}

// ComponentType returns the original tag.
func (r Raw) ComponentType() Type { return r.Tag }

// MarshalJSON writes the original payload back unchanged.
func (r Raw) MarshalJSON() ([]byte, error) {
	if len(r.Data) == 0 {
		return []byte("null"), nil
	}
	return r.Data, nil
}
