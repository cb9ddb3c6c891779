package hal

// LinkPredicate selects links during lookup and traversal. Predicates
// are plain function values; combine them with [And], [Or] and [Not].
type LinkPredicate func(Link) bool

// AnyLink matches every link.
func AnyLink() LinkPredicate {
	return func(Link) bool { return true }
}

// HavingType matches links whose media type equals the given one.
// Links without a type do not match.
func HavingType(mediaType string) LinkPredicate {
	return func(l Link) bool { return l.Type == mediaType }
}

// OptionallyHavingType matches links whose media type equals the given
// one or is unset.
func OptionallyHavingType(mediaType string) LinkPredicate {
	return func(l Link) bool { return l.Type == "" || l.Type == mediaType }
}

// HavingProfile matches links whose profile equals the given one.
// Links without a profile do not match.
func HavingProfile(profile string) LinkPredicate {
	return func(l Link) bool { return l.Profile == profile }
}

// OptionallyHavingProfile matches links whose profile equals the given
// one or is unset.
func OptionallyHavingProfile(profile string) LinkPredicate {
	return func(l Link) bool { return l.Profile == "" || l.Profile == profile }
}

// HavingName matches links whose name equals the given one.
func HavingName(name string) LinkPredicate {
	return func(l Link) bool { return l.Name == name }
}

// And matches links that satisfy all given predicates.
// With no predicates it matches everything.
func And(predicates ...LinkPredicate) LinkPredicate {
	return func(l Link) bool {
		for _, p := range predicates {
			if !p(l) {
				return false
			}
		}
		return true
	}
}

// Or matches links that satisfy at least one of the given predicates.
// With no predicates it matches nothing.
func Or(predicates ...LinkPredicate) LinkPredicate {
	return func(l Link) bool {
		for _, p := range predicates {
			if p(l) {
				return true
			}
		}
		return false
	}
}

// Not inverts a predicate.
func Not(predicate LinkPredicate) LinkPredicate {
	return func(l Link) bool { return !predicate(l) }
}
