package flags

import (
	"fmt"

	"github.com/spf13/pflag"
)

// Get looks up a flag by name, checks that it carries the expected custom
// Value type and converts its string form with convFunc.
func Get[T any](f *pflag.FlagSet, name string, ftype string, convFunc func(sval string) (T, error)) (T, error) {
	flag := f.Lookup(name)
	if flag == nil {
		return *new(T), fmt.Errorf("flag accessed but not defined: %s", name)
	}

	if flag.Value.Type() != ftype {
		return *new(T), fmt.Errorf("trying to get %s value of flag of type %s", ftype, flag.Value.Type())
	}

	result, err := convFunc(flag.Value.String())
	if err != nil {
		return *new(T), err
	}
	return result, nil
}
