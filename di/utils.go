package di

import (
	"fmt"
	"reflect"
	"strings"

	"go.uber.org/dig"
)

var (
	errorType    = reflect.TypeFor[error]()
	digInType    = reflect.TypeFor[dig.In]()
	digOutType   = reflect.TypeFor[dig.Out]()
	lifetimeType = reflect.TypeFor[*Lifetime]()
)

// validateConstructor accepts func(...) T and func(...) (T, error). T may not be
// an error or a dig parameter or result object.
func validateConstructor(constructor any) error {
	fnType := reflect.TypeOf(constructor)
	if fnType == nil || fnType.Kind() != reflect.Func {
		return fmt.Errorf("constructor must be a function, got %T", constructor)
	}
	if !producesValue(fnType) {
		results := make([]string, 0, fnType.NumOut())
		for i := range fnType.NumOut() {
			results = append(results, fnType.Out(i).String())
		}
		return fmt.Errorf("constructor must return value or (value, error), returns (%s)", strings.Join(results, ", "))
	}

	_, err := requirementsOf(fnType)
	return err
}

func producesValue(fnType reflect.Type) bool {
	switch fnType.NumOut() {
	case 1:
	case 2:
		if !fnType.Out(1).AssignableTo(errorType) {
			return false
		}
	default:
		return false
	}

	value := fnType.Out(0)
	return !value.AssignableTo(errorType) && !isParamObject(value) && !isResultObject(value)
}

func isPointerToInterface(a any) bool {
	pType := reflect.TypeOf(a)
	if pType == nil || pType.Kind() != reflect.Pointer {
		return false
	}

	return pType.Elem().Kind() == reflect.Interface
}

// requirement is a single parameter a constructor or invoked function needs.
type requirement struct {
	t        reflect.Type
	optional bool
}

// requirementsOf flattens plain parameters and dig.In parameter objects.
func requirementsOf(fnType reflect.Type) ([]requirement, error) {
	reqs := make([]requirement, 0, fnType.NumIn())
	for i := range fnType.NumIn() {
		in := fnType.In(i)
		if !isParamObject(in) {
			reqs = append(reqs, requirement{t: in})
			continue
		}

		for j := range in.NumField() {
			field := in.Field(j)
			if field.Anonymous && field.Type == digInType {
				continue
			}
			if field.PkgPath != "" {
				continue
			}
			if field.Tag.Get("name") != "" || field.Tag.Get("group") != "" {
				return nil, fmt.Errorf("parameter %s.%s: named and grouped values are not supported", in, field.Name)
			}
			reqs = append(reqs, requirement{
				t:        field.Type,
				optional: field.Tag.Get("optional") == "true",
			})
		}
	}
	return reqs, nil
}

func isParamObject(t reflect.Type) bool {
	return embeds(t, digInType)
}

func isResultObject(t reflect.Type) bool {
	return embeds(t, digOutType)
}

func embeds(t, marker reflect.Type) bool {
	if t.Kind() != reflect.Struct {
		return false
	}
	for i := range t.NumField() {
		field := t.Field(i)
		if field.Anonymous && field.Type == marker {
			return true
		}
	}
	return false
}
