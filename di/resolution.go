package di

import (
	"fmt"
	"reflect"
	"sort"
)

type regEntry struct {
	reg Registration
	idx int
}

type slotState struct {
	register    regEntry
	hasRegister bool
	replace     regEntry
	hasReplace  bool
}

// resolvedSet is the outcome of slot resolution: one winning entry per capability.
type resolvedSet struct {
	winners []regEntry
	slots   map[reflect.Type]regEntry
}

func entriesFor(regs []Registration) []regEntry {
	entries := make([]regEntry, 0, len(regs))
	for i, reg := range regs {
		entries = append(entries, regEntry{reg: reg, idx: i})
	}
	return entries
}

func resolveEntries(entries []regEntry) (resolvedSet, error) {
	states := map[reflect.Type]*slotState{}

	for _, entry := range entries {
		if err := classifyEntry(entry, states); err != nil {
			return resolvedSet{}, err
		}
	}

	result := resolvedSet{slots: map[reflect.Type]regEntry{}}
	selected := map[int]bool{}
	for t, state := range states {
		chosen := state.register
		if state.hasReplace {
			chosen = state.replace
		}
		result.slots[t] = chosen
		selected[chosen.idx] = true
	}

	for _, entry := range entries {
		if selected[entry.idx] {
			result.winners = append(result.winners, entry)
		}
	}

	return result, nil
}

func classifyEntry(entry regEntry, states map[reflect.Type]*slotState) error {
	reg := entry.reg
	if err := reg.Error(); err != nil {
		return err
	}

	t := reg.Type()
	for _, capability := range reg.ExposedTypes() {
		if capability == lifetimeType {
			return fmt.Errorf("%w: %s is provided by every scope", ErrInvalidRegistration, lifetimeType)
		}
		if capability != t && !t.Implements(capability) {
			return fmt.Errorf("%w: %s does not implement %s", ErrInvalidRegistration, t, capability)
		}

		state := states[capability]
		if state == nil {
			state = &slotState{}
			states[capability] = state
		}
		if err := applyToState(state, capability, entry); err != nil {
			return err
		}
	}

	return nil
}

func applyToState(state *slotState, capability reflect.Type, entry regEntry) error {
	switch entry.reg.kind {
	case registrationKindRegister:
		if state.hasRegister {
			return fmt.Errorf("%w: %s is already bound to %s",
				ErrDuplicateRegistration, capability, describeRegistration(state.register.reg, state.register.idx).Constructor)
		}
		state.register = entry
		state.hasRegister = true
	case registrationKindReplace:
		if state.hasReplace {
			return fmt.Errorf("%w: %s is already replaced", ErrDuplicateRegistration, capability)
		}
		state.replace = entry
		state.hasReplace = true
	}

	return nil
}

// validateResolved checks that every winner's requirements are bound and that
// singletons never capture per-scope instances.
func validateResolved(res resolvedSet) error {
	for _, winner := range res.winners {
		reqs, err := requirementsOf(reflect.TypeOf(winner.reg.constructor))
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidRegistration, err)
		}

		for _, req := range reqs {
			if req.t == lifetimeType {
				continue
			}
			dep, ok := res.slots[req.t]
			if !ok {
				if req.optional {
					continue
				}
				return fmt.Errorf("%w: %s required by %s",
					ErrCapabilityNotRegistered, req.t, describeRegistration(winner.reg, winner.idx).Constructor)
			}
			if winner.reg.lifestyle == LifestyleSingleton && dep.reg.lifestyle != LifestyleSingleton {
				return fmt.Errorf("%w: singleton %s depends on %s %s",
					ErrLifestyleMismatch, winner.reg.Type(), dep.reg.lifestyle, req.t)
			}
		}
	}
	return nil
}

// missingRequirements lists the non-optional parameters of fnType the registry cannot satisfy.
func missingRequirements(fnType reflect.Type, provides func(reflect.Type) bool) ([]reflect.Type, error) {
	reqs, err := requirementsOf(fnType)
	if err != nil {
		return nil, err
	}
	var missing []reflect.Type
	for _, req := range reqs {
		if !req.optional && !provides(req.t) {
			missing = append(missing, req.t)
		}
	}
	return missing, nil
}

func sortedTypes(slots map[reflect.Type]regEntry) []reflect.Type {
	types := make([]reflect.Type, 0, len(slots))
	for t := range slots {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i].String() < types[j].String() })
	return types
}
