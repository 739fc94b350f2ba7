package options

// Option configures a value of type T
type Option[T any] interface {
	Apply(v *T)
}

// OptionFunc is a function type that implements the Option interface
type OptionFunc[T any] func(v *T)

// Apply implements the Option interface for OptionFunc
func (fn OptionFunc[T]) Apply(v *T) {
	fn(v)
}

// ApplyAll applies opts in order to v and returns it
func ApplyAll[T any](v *T, opts ...Option[T]) *T {
	for _, opt := range opts {
		if opt != nil {
			opt.Apply(v)
		}
	}
	return v
}
