/*
Package ast holds the parsed form of an executable document: operations, fragments,
selections, type references and input values.

Selection, Type and InputValue are closed sum types. Each is an interface with an
unexported marker method, so a type switch over the concrete node types listed in this
package covers every case. Every node records the span of source text it was parsed from.

The names of the Go types, whenever possible, match 1:1 with the names from
the [GraphQL specification].

[GraphQL specification]: https://spec.graphql.org
*/
package ast
