package composer

import (
	"encoding/json"

	"agencyui/internal/domain"
)

// Reduce applies an action and returns the next state. When the action does
// not apply in the current phase the input state is returned unchanged, with
// the same Version.
func Reduce(state State, action Action) State {
	next, changed := reduce(state, action)
	if !changed {
		return state
	}
	next.Version = state.Version + 1
	return next
}

func reduce(state State, action Action) (State, bool) {
	switch a := action.(type) {
	case CatalogLoaded:
		next := state
		next.Catalog = a.Catalog.Clone()
		next.CatalogLoaded = true
		if state.Phase == PhaseInitializing {
			next.Phase = PhaseReady
		}
		return next, true

	case CatalogFailed:
		return withError(state, a.Message), true

	case ItemDropped:
		if !state.AcceptsDrops() {
			return state, false
		}
		next := state
		composition := make(domain.Composition, len(state.Composition), len(state.Composition)+1)
		copy(composition, state.Composition)
		next.Composition = append(composition, a.Entry)
		return next, true

	case SubmitStarted:
		if state.Phase != PhaseReady {
			return state, false
		}
		next := state
		next.Phase = PhaseSubmitting
		next.Acknowledgment = ""
		return next, true

	case SubmitSucceeded:
		if state.Phase != PhaseSubmitting {
			return state, false
		}
		next := state
		next.Phase = PhaseReady
		next.Acknowledgment = domain.MessageAgencyCreated
		next.LastResponse = append(json.RawMessage(nil), a.Response...)
		return next, true

	case SubmitFailed:
		if state.Phase != PhaseSubmitting {
			return state, false
		}
		return withError(state, a.Message), true

	case ErrorDismissed:
		if state.Phase != PhaseError || !state.CatalogLoaded {
			return state, false
		}
		next := state
		next.Phase = PhaseReady
		next.Error = ""
		return next, true

	case AcknowledgmentDismissed:
		if state.Acknowledgment == "" {
			return state, false
		}
		next := state
		next.Acknowledgment = ""
		return next, true

	case Reloaded:
		return Initial(), true

	default:
		return state, false
	}
}

// withError replaces any prior message; the composition is left as is so a
// dismissed error can be retried without re-dragging.
func withError(state State, message string) State {
	next := state
	next.Phase = PhaseError
	next.Error = message
	next.Acknowledgment = ""
	return next
}
