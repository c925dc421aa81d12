// Package builder provides a fluent alternative to hand-writing nested
// primitives.StateDecl literals. It is strictly a convenience over
// construct's input: the compiler never special-cases a config built this
// way versus one assembled by hand or decoded from JSON/YAML.
package builder
