package muxsup

import "fmt"

// ServiceDescriptor describes one service to launch: a session name and the
// command line typed into that session to start it.
type ServiceDescriptor struct {
	// Name is the unique identifier for the service; it doubles as the
	// session name
	Name string

	// Command is the literal command line executed inside the session
	Command string
}

// Table is an ordered list of service descriptors. Order is the only
// scheduling guarantee the supervisor gives: services launch strictly in
// table order.
type Table []ServiceDescriptor

// Validate checks the table for empty names, empty commands, and duplicate
// names. It returns the first problem found.
func (t Table) Validate() error {
	if len(t) == 0 {
		return ErrEmptyTable
	}

	seen := make(map[string]struct{}, len(t))
	for i, svc := range t {
		if svc.Name == "" {
			return fmt.Errorf("descriptor %d: %w", i, ErrEmptyName)
		}
		if svc.Command == "" {
			return fmt.Errorf("descriptor %d (%s): %w", i, svc.Name, ErrEmptyCommand)
		}
		if _, dup := seen[svc.Name]; dup {
			return fmt.Errorf("descriptor %d (%s): %w", i, svc.Name, ErrDuplicateName)
		}
		seen[svc.Name] = struct{}{}
	}

	return nil
}

// Names returns the service names in table order
func (t Table) Names() []string {
	names := make([]string, len(t))
	for i, svc := range t {
		names[i] = svc.Name
	}
	return names
}
