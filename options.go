package xtn

import "fmt"

const (
	defaultMaxDepth = 10000
	defaultName     = "<input>"
)

// Option configures encoding and decoding.
type Option func(*options) error

type options struct {
	name     string
	maxDepth int
}

func newOptions(opts []Option) (*options, error) {
	o := &options{name: defaultName, maxDepth: defaultMaxDepth}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// Filename sets the name reported in parse errors.
func Filename(name string) Option {
	return func(o *options) error {
		if name == "" {
			return fmt.Errorf("xtn: file name must not be empty")
		}
		o.name = name
		return nil
	}
}

// MaxDepth sets the maximum nesting depth when mapping between trees and Go
// values. This guards against cyclic data when encoding and against very
// deep documents when decoding into Go values. Parsing itself is not
// limited.
//
// The depth n must be a positive integer.
func MaxDepth(n int) Option {
	return func(o *options) error {
		if n <= 0 {
			return fmt.Errorf("xtn: max depth must be a positive integer")
		}
		o.maxDepth = n
		return nil
	}
}
