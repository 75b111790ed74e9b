package cli

import "fmt"

type missingFlagError struct {
	flag string
}

func (e missingFlagError) Error() string {
	return fmt.Sprintf("missing %s", e.flag)
}
