// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package typed

import (
	"fmt"
	"strings"

	"github.com/dacolabs/buildergen/internal/typestate"
)

type builderData struct {
	ConstructorDoc    string
	Constructor       string
	ConstructorParams string
	Initial           string // builder type with every slot unset
	TypeDoc           string
	Builder           string
	Params            string
	Phantom           string
	Slots             []typestate.Slot
}

// Builder renders the builder type declaration and its zero-state constructor.
func Builder(plan *typestate.Plan) (string, error) {
	r := plan.Record
	return render("builder", builderData{
		ConstructorDoc:    constructorDoc(plan),
		Constructor:       r.ConstructorName(),
		ConstructorParams: typestate.TypeList(plan.RecordParams()),
		Initial:           plan.BuilderType(typestate.Unset),
		TypeDoc:           builderTypeDoc(plan),
		Builder:           r.BuilderName(),
		Params:            typestate.TypeList(plan.BuilderParams()),
		Phantom:           plan.Phantom,
		Slots:             plan.Slots,
	})
}

func constructorDoc(plan *typestate.Plan) string {
	r := plan.Record
	if r.Options.BuilderDoc != "" {
		return r.Options.BuilderDoc
	}
	if r.Options.NoDoc {
		return fmt.Sprintf("%s creates a builder for %s.", r.ConstructorName(), r.Name)
	}

	setters := make([]string, len(plan.Slots))
	converting := false
	for i, s := range plan.Slots {
		setters[i] = r.SetterName(s.Field)
		if !s.Field.Required() {
			setters[i] += " (optional)"
		}
		converting = converting || s.Conversion == typestate.Convert
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s creates a builder for building %s.\n", r.ConstructorName(), r.Name)
	if len(setters) > 0 {
		fmt.Fprintf(&sb, "Pass the builder through %s to set the fields.\n", strings.Join(setters, ", "))
	}
	if converting {
		sb.WriteString("Setters ending in From accept values of convertible types.\n")
	}
	fmt.Fprintf(&sb, "Finally, call %s to create the %s.", r.FinalizerName(), r.Name)
	return sb.String()
}

func builderTypeDoc(plan *typestate.Plan) string {
	r := plan.Record
	if r.Options.BuilderTypeDoc != "" {
		return r.Options.BuilderTypeDoc
	}
	if r.Options.NoDoc {
		return fmt.Sprintf("%s builds %s instances.", r.BuilderName(), r.Name)
	}
	return fmt.Sprintf("%s builds %s instances.\n\nSee %s for more info.", r.BuilderName(), r.Name, r.ConstructorName())
}
