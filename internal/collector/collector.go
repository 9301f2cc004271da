package collector

import "context"

type Result[T any] struct {
	Result T
	Err    error
}

// Collector streams items until its source is exhausted or ctx is done, then
// closes the channel.
type Collector[T any] interface {
	Collect(ctx context.Context) (<-chan Result[T], error)
}
