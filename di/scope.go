package di

// Scope controls how many instances a definition produces per context.
type Scope int

const (
	// Singleton is the default scope. The factory runs at most once per
	// context and every lookup returns the same instance.
	Singleton Scope = iota

	// Prototype runs the factory on every lookup.
	Prototype
)

// String returns the human-readable name of the scope.
func (s Scope) String() string {
	switch s {
	case Singleton:
		return "singleton"
	case Prototype:
		return "prototype"
	default:
		return "unknown"
	}
}

// Kind records how a definition was registered.
type Kind int

const (
	// KindBeanMethod is a factory registered under an explicit name via Provide.
	KindBeanMethod Kind = iota

	// KindComponent is a constructor registered via Component. Its name is
	// derived from the produced type.
	KindComponent

	// KindInstance is a ready-made value registered via Instance.
	KindInstance
)

func (k Kind) String() string {
	switch k {
	case KindBeanMethod:
		return "bean"
	case KindComponent:
		return "component"
	case KindInstance:
		return "instance"
	default:
		return "unknown"
	}
}
