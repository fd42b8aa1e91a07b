// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package typed

import "github.com/dacolabs/buildergen/internal/typestate"

// Helper renders the presence-resolution constraint and function the
// finalizer uses for optional fields.
func Helper(plan *typestate.Plan) (string, error) {
	return render("helper", struct {
		Presence string
		Resolve  string
	}{
		Presence: plan.Record.PresenceName(),
		Resolve:  plan.Record.ResolveName(),
	})
}
