package di

import (
	"reflect"
	"runtime"
)

type RegistrationInfo struct {
	Index       int
	Key         string
	Constructor string
	File        string
	Line        int
	Type        string
	Lifestyle   string
}

type OverrideInfo struct {
	Capability string
	Previous   RegistrationInfo
	Next       RegistrationInfo
}

// DetectOverrides reports explicit replacements (di.Replace) by capability.
func DetectOverrides(regs Registrations) []OverrideInfo {
	seen := map[reflect.Type]RegistrationInfo{}
	overrides := make([]OverrideInfo, 0)

	for i, reg := range regs.List() {
		if reg.Error() != nil {
			continue
		}

		info := describeRegistration(reg, i)
		for _, capability := range reg.ExposedTypes() {
			if reg.kind == registrationKindReplace {
				if prev, ok := seen[capability]; ok {
					overrides = append(overrides, OverrideInfo{
						Capability: capability.String(),
						Previous:   prev,
						Next:       info,
					})
				}
				seen[capability] = info
				continue
			}
			if _, ok := seen[capability]; !ok {
				seen[capability] = info
			}
		}
	}

	return overrides
}

func describeRegistration(reg Registration, index int) RegistrationInfo {
	info := RegistrationInfo{Index: index, Lifestyle: reg.lifestyle.String()}

	if t := reg.Type(); t != nil {
		info.Type = t.String()
	}

	if reg.key != nil {
		info.Key = *reg.key
	}

	val := reflect.ValueOf(reg.constructor)
	if val.Kind() == reflect.Func {
		if pc := val.Pointer(); pc != 0 {
			if fn := runtime.FuncForPC(pc); fn != nil {
				info.Constructor = fn.Name()
				info.File, info.Line = fn.FileLine(pc)
			}
		}
	}

	if info.Constructor == "" {
		info.Constructor = info.Type
	}

	return info
}
