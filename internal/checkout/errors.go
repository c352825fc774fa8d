package checkout

import "fmt"

// ValidationError rejects a client-declared line before any provider call
// is made. The whole session-creation attempt aborts on the first one.
type ValidationError struct {
	ProductID string
	Reason    string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid checkout line for product %q: %s", e.ProductID, e.Reason)
}
