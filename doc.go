// Package beanlab is a small dependency-injection laboratory for Go.
//
// It shows singleton scope, bean-method versus component registration,
// constructor, setter and field injection, and lifecycle event listeners:
//
//   - di: the application context used by every demonstration
//   - examples/singleton: two services built from one configuration share a dao
//   - examples/beanvscomponent: bean methods, components and a refresh listener
//   - examples/validatordemo: a generic CRUD repository behind a validated REST API
//   - cmd/beanlab: CLI running each demonstration
package beanlab
