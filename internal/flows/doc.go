// Package flows contains the credential use-case orchestration, expressed
// as pure Run functions over injected dependency structs. Each flow returns
// a result carrying a failure-kind enum; the root package maps kinds to its
// public sentinel errors. Flows never import the root package.
package flows
