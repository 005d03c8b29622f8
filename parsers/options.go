package parsers

// AllocatorOption configures a FlagAllocator.
type AllocatorOption func(*FlagAllocator)

// WithKebabCase makes long flags the kebab-case form of the parameter name.
func WithKebabCase(enabled bool) AllocatorOption {
	return func(fa *FlagAllocator) {
		fa.kebab = enabled
	}
}

// WithReserved pre-claims short flag characters, such as those of explicitly annotated
// short flags.
func WithReserved(chars ...rune) AllocatorOption {
	return func(fa *FlagAllocator) {
		for _, c := range chars {
			fa.claimed[c] = true
		}
	}
}
