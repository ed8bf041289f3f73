package registry

import "fmt"

type registryError struct {
	msg string
}

func (e *registryError) Error() string { return e.msg }

var errEmptyName = &registryError{"name cannot be empty"}

func errAlreadyRegistered(name string) error {
	return &registryError{fmt.Sprintf("item with name %q already registered", name)}
}

func errNotRegistered(name string) error {
	return &registryError{fmt.Sprintf("item %q not found", name)}
}
