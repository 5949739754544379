package analysis

import "fmt"

// EmptyDatasetError is returned when a query runs against a session table
// with zero rows. Queries never return degenerate aggregates (NaN,
// divide-by-zero ratios) in this case.
type EmptyDatasetError struct {
	Query string
}

func (e *EmptyDatasetError) Error() string {
	return fmt.Sprintf("%s: no sessions in the target year", e.Query)
}
