package e

import "fmt"

// Wrap prefixes err with msg, keeping it unwrappable.
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}

// WrapIfErr is Wrap for call sites that return err unconditionally.
func WrapIfErr(msg string, err error) error {
	if err == nil {
		return nil
	}
	return Wrap(msg, err)
}
