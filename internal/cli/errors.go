package cli

import "fmt"

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}

type missingFieldError struct {
	flag string
}

func (e missingFieldError) Error() string {
	return fmt.Sprintf("missing --%s (pass it or drop --no-input to be prompted)", e.flag)
}
