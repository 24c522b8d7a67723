package types

import "fmt"

func NewInvalidNameError(name string) error {
	return fmt.Errorf("invalid action name %q", name)
}

func NewNilFactoryError(name string) error {
	return fmt.Errorf("nil factory for action %v", name)
}

func NewHandlerFaultError(name string, cause error) error {
	return fmt.Errorf("handler %v failed: %w", name, cause)
}
