package collector

import "fmt"

// NotFoundError reports a symbol for which the source returned no bars.
type NotFoundError struct {
	Symbol string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no data available for ticker %s", e.Symbol)
}

// DataFetchError wraps any failure to obtain a usable series.
type DataFetchError struct {
	Symbol string
	Source string
	Err    error
}

func (e *DataFetchError) Error() string {
	return fmt.Sprintf("failed to fetch data for %s from %s: %v", e.Symbol, e.Source, e.Err)
}

func (e *DataFetchError) Unwrap() error { return e.Err }
