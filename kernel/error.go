package kernel

// Error describes a kernel error. Kernel errors are declared as package-level
// pointers to Error because the code that reports them runs before any
// allocator exists, which rules out errors.New and fmt.Errorf.
type Error struct {
	// The module where the error occurred.
	Module string

	// The error message
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}
