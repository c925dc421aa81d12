// Package production provides production integrations for the interpreter:
// snapshot persistence, activity publishing, and visualization. Each type
// here implements a core interface using a concrete, swappable backend.
package production
