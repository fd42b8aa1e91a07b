// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package typed

import (
	"fmt"
	"strings"

	"github.com/dacolabs/buildergen/internal/typestate"
)

type setterData struct {
	Doc         string
	Name        string
	Params      string
	Input       string
	ValueType   string
	Output      string
	Assignments []assignment
}

type assignment struct {
	Storage string
	Expr    string
}

// Setters renders the setters of every included field: the plain setter and,
// for fields that take converted values, its From variant.
func Setters(plan *typestate.Plan) (string, error) {
	var sb strings.Builder
	for _, slot := range plan.Slots {
		s, err := Setter(plan, slot)
		if err != nil {
			return "", err
		}
		sb.WriteString(s)
		sb.WriteString("\n")
		if slot.Conversion != typestate.Convert {
			continue
		}
		if s, err = ConvertSetter(plan, slot); err != nil {
			return "", err
		}
		sb.WriteString(s)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// Setter renders the transition that takes the builder with slot unset to the
// builder with slot set. Only slot's argument changes; the other slots stay
// generic and their values move across unchanged. The value parameter has
// the field type, so untyped constants, nil and assignable values are taken
// as they are.
func Setter(plan *typestate.Plan, slot typestate.Slot) (string, error) {
	return transition(plan, slot, plan.Record.SetterName(slot.Field), false)
}

// ConvertSetter renders the From variant of slot's setter. It accepts any
// value whose underlying type is the field type and converts it.
func ConvertSetter(plan *typestate.Plan, slot typestate.Slot) (string, error) {
	if slot.Conversion != typestate.Convert {
		return "", fmt.Errorf("field %s takes no converted values", slot.Field.Name)
	}
	return transition(plan, slot, plan.Record.ConvertSetterName(slot.Field), true)
}

func transition(plan *typestate.Plan, slot typestate.Slot, name string, convert bool) (string, error) {
	ordinal := slot.Field.Ordinal

	params := plan.RecordParams()
	var assignments []assignment
	for _, s := range plan.Slots {
		if s.Field.Ordinal == ordinal {
			expr := typestate.ValueParam
			if convert {
				expr = s.ConvertExpr()
			}
			assignments = append(assignments, assignment{
				Storage: s.Storage,
				Expr:    "shape.Of(" + expr + ")",
			})
			continue
		}
		params = append(params, s.Generic+" any")
		assignments = append(assignments, assignment{
			Storage: s.Storage,
			Expr:    typestate.BuilderParam + "." + s.Storage,
		})
	}

	valueType := slot.Field.Type
	if convert {
		params = append(params, slot.Generic+" "+slot.ValueConstraint())
		valueType = slot.Generic
	}

	return render("setter", setterData{
		Doc:         setterDoc(plan, slot, name, convert),
		Name:        name,
		Params:      typestate.TypeList(params),
		Input:       plan.BuilderType(typestate.With(ordinal, typestate.Unset, typestate.Generic)),
		ValueType:   valueType,
		Output:      plan.BuilderType(typestate.With(ordinal, setShape, typestate.Generic)),
		Assignments: assignments,
	})
}

func setShape(s typestate.Slot) string { return s.Set }

func setterDoc(plan *typestate.Plan, slot typestate.Slot, name string, convert bool) string {
	r := plan.Record
	if convert {
		return fmt.Sprintf("%s is %s for values of any type whose underlying type is %s.",
			name, r.SetterName(slot.Field), slot.Field.Type)
	}
	if slot.Field.Doc != "" {
		return name + " sets " + slot.Field.Name + ".\n\n" + slot.Field.Doc
	}
	doc := fmt.Sprintf("%s sets the %s field of a %s.", name, slot.Field.Name, r.BuilderName())
	if !slot.Field.Required() && !r.Options.NoDoc {
		doc += fmt.Sprintf(" It is optional and defaults to %s.", slot.Field.DefaultExpr())
	}
	return doc
}
