// Package di provides a small application context for Go: bean definitions,
// singleton and prototype scopes, and lifecycle events.
//
// Two registration styles are supported:
//
//   - Bean methods: Provide registers a factory under an explicit name. This is
//     the usual shape for configuration structs whose methods produce values:
//
//     c.Provide("theBeanNumber", cfg.TheBeanNumber)
//     c.Provide("beanDemo", cfg.BeanDemo, di.Qualify("theBeanNumber"))
//
//   - Components: Component registers a constructor. The bean name is derived
//     from the produced type (*ComponentDemo becomes "componentDemo").
//
// A factory is any non-variadic function returning T or (T, error). Its
// parameters are resolved by type. When several beans share a type, Qualify
// picks one by name and Primary marks the default.
//
// # Field injection
//
// After construction, a bean that is a pointer to a struct has its tagged
// fields populated:
//
//	type Main struct {
//		ComponentDemo *ComponentDemo `inject:""`          // by type
//		Out           io.Writer      `inject:"stdout"`    // by name
//		PageSize      int            `value:"page.size" default:"20"`
//	}
//
// Context.Autowire does the same for values built outside the context.
//
// # Setter injection
//
// Wired, Injector and Injecting wire an object through its setters and record
// what was injected, for bean methods that need to call setters explicitly.
//
// # Lifecycle
//
// Refresh validates the graph, creates eager singletons, registers singleton
// listeners and publishes ContextRefreshedEvent. Close publishes
// ContextClosedEvent and closes singletons implementing io.Closer in reverse
// creation order.
//
// Import
//
//	"github.com/sijoonlee/beanlab/di"
package di
