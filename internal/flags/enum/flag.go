package enum

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/pflag"

	"github.com/rymut/recipetool/internal/flags"
)

const Type = "enum"

// Flag defines a string flag restricted to a fixed set of values. The first
// allowed value is the default.
type Flag struct {
	value   *string
	allowed []string
}

func (f *Flag) String() string {
	return *f.value
}

func (f *Flag) Set(s string) error {
	if !slices.Contains(f.allowed, s) {
		return fmt.Errorf("invalid value %q, must be one of [%s]", s, strings.Join(f.allowed, ", "))
	}
	*f.value = s
	return nil
}

func (f *Flag) Type() string {
	return Type
}

func Var(f *pflag.FlagSet, name string, allowed []string, usage string) {
	VarP(f, name, "", allowed, usage)
}

func VarP(f *pflag.FlagSet, name, shorthand string, allowed []string, usage string) {
	if len(allowed) == 0 {
		panic(fmt.Sprintf("enum flag %q declared without allowed values", name))
	}
	value := strings.Clone(allowed[0])
	flag := Flag{value: &value, allowed: allowed}
	f.VarP(&flag, name, shorthand, fmt.Sprintf("%s (must be one of [%s])", usage, strings.Join(allowed, ", ")))
}

func Get(f *pflag.FlagSet, name string) (string, error) {
	return flags.Get(f, name, Type, func(sval string) (string, error) {
		return sval, nil
	})
}
