package keygrip

// Transition is the classifier's verdict for a single input event.
type Transition int

const (
	// NoTransition means the event is noise as far as the recorder is
	// concerned; the caller treats it as a no-op.
	NoTransition Transition = iota
	// StartTransition means a manipulation began; Classification.Kind says
	// which.
	StartTransition
	// StopTransition means the in-progress manipulation was confirmed or
	// cancelled.
	StopTransition
)

// Classification is the result of classifying one input event.
type Classification struct {
	Transition Transition
	Kind       Kind // valid only when Transition is StartTransition
}

// classifyOrder is the fixed priority in which bindings are evaluated. If a
// host degenerately binds two kinds to the same tuple, the first match wins.
var classifyOrder = [...]Kind{KindTranslate, KindRotate, KindScale}

// stopKeys is the fixed confirm/cancel set whose release ends a manipulation.
// A release of any of these stops sampling regardless of pointer containment
// or which kind was active.
//
// Note this set is not coupled to the host's own operator lifecycle: an
// unrelated press of the same key while the recorder believes a manipulation
// is active will end sampling early. That coupling is intentionally loose.
var stopKeys = map[Key]struct{}{
	KeyLeftMouse:  {},
	KeyRightMouse: {},
	KeyReturn:     {},
	KeyEscape:     {},
	KeySpace:      {},
}

// IsStopKey reports whether a release of k would end a manipulation. Hosts
// whose input layer cannot deliver releases (terminals) use this to decide
// which presses need a synthesized release.
func IsStopKey(k Key) bool {
	_, ok := stopKeys[k]
	return ok
}

// Classify maps one raw input event to a session transition.
//
// A start fires only when the pointer is inside the viewport, the event is a
// press, and its (key, shift, ctrl, alt, meta) tuple exactly matches one of
// the configured trigger bindings. Bindings are resolved through the provider
// on every call so runtime rebinding takes effect immediately; an unset
// binding simply makes that kind unreachable.
//
// A stop fires on release of any key in the confirm/cancel set. Everything
// else is silent.
func Classify(ev Event, viewport Rect, bindings BindingProvider) Classification {
	if ev.Action == Press && viewport.Contains(ev.X, ev.Y) {
		for _, kind := range classifyOrder {
			b, ok := bindings.Lookup(kind)
			if ok && b.Matches(ev) {
				return Classification{Transition: StartTransition, Kind: kind}
			}
		}
	}

	if ev.Action == Release {
		if _, ok := stopKeys[ev.Key]; ok {
			return Classification{Transition: StopTransition}
		}
	}

	return Classification{}
}
