// Package test runs the CLI in-process for command tests.
package test

import (
	"bytes"
	"io"
	"testing"

	"github.com/rymut/recipetool/cmd"
)

type Options struct {
	Args        []string
	Output      io.Writer
	ErrorOutput io.Writer
}

type Option func(*Options)

func WithArgs(args ...string) Option {
	return func(o *Options) {
		o.Args = args
	}
}

func WithOutput(w io.Writer) Option {
	return func(o *Options) {
		o.Output = w
	}
}

func WithErrorOutput(w io.Writer) Option {
	return func(o *Options) {
		o.ErrorOutput = w
	}
}

// Recipetool builds a fresh command tree and executes it with the given
// options, returning the execution error.
func Recipetool(t *testing.T, opts ...Option) error {
	t.Helper()

	options := &Options{
		Output:      new(bytes.Buffer),
		ErrorOutput: new(bytes.Buffer),
	}
	for _, opt := range opts {
		opt(options)
	}

	root := cmd.New()
	root.SetOut(options.Output)
	root.SetErr(options.ErrorOutput)
	root.SetArgs(options.Args)
	return root.Execute()
}
