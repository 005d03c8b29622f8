package opterator

import (
	"fmt"

	"github.com/arran4/go-opterator/model"
)

// Legacy action tokens accepted in @param annotations.
const (
	ActionStoreTrue  = "store_true"
	ActionStoreFalse = "store_false"
	ActionStore      = "store"
	ActionAppend     = "append"
)

// InferPolicy maps a default value to the policy that handles its flag:
//
//	false           -> FlagTrue
//	true            -> FlagFalse
//	empty sequence  -> AppendUnbounded
//	other sequence  -> Append, the items being the allowed choices
//	text or absent  -> Store
func InferPolicy(d model.Default) (model.Policy, error) {
	switch d.Kind() {
	case model.DefaultBool:
		if d.Bool() {
			return model.FlagFalse, nil
		}
		return model.FlagTrue, nil
	case model.DefaultSequence:
		if len(d.Items()) == 0 {
			return model.AppendUnbounded, nil
		}
		return model.Append, nil
	case model.DefaultText, model.DefaultAbsent:
		return model.Store, nil
	}
	return 0, fmt.Errorf("unsupported default %s", d)
}

// PolicyForAction resolves a legacy action token against the default it will be applied
// to. The action wins over inference, but it must still make sense for the default's shape.
func PolicyForAction(action string, d model.Default) (model.Policy, error) {
	var policy model.Policy
	var accepts []model.DefaultKind
	switch action {
	case ActionStoreTrue:
		policy, accepts = model.FlagTrue, []model.DefaultKind{model.DefaultBool, model.DefaultAbsent}
	case ActionStoreFalse:
		policy, accepts = model.FlagFalse, []model.DefaultKind{model.DefaultBool, model.DefaultAbsent}
	case ActionStore:
		policy, accepts = model.Store, []model.DefaultKind{model.DefaultText, model.DefaultAbsent}
	case ActionAppend:
		policy, accepts = model.AppendUnbounded, []model.DefaultKind{model.DefaultSequence, model.DefaultAbsent}
	default:
		return 0, fmt.Errorf("unknown action %q", action)
	}
	for _, k := range accepts {
		if d.Kind() == k {
			return policy, nil
		}
	}
	return 0, fmt.Errorf("action %q cannot be used with %s default %s", action, d.Kind(), d)
}
