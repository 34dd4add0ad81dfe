package semver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValid(t *testing.T) {
	cases := []struct {
		version string
		valid   bool
	}{
		{"1.2.3", true},
		{"0.0.0", true},
		{"1.0.0-0", true},
		{"1.0.0-rc.1", true},
		{"1.0.0-rc.1+build.001", true},
		{"1.0.0+001", true},
		{"1.2.3-4-gabc1234", true},

		{"1.0.0-01", false},
		{"1.00.0", false},
		{"01.0.0", false},
		{"1.2", false},
		{"1", false},
		{"v1.2.3", false},
		{"release-7", false},
		{"", false},
		{"1.2.3 ", false},
	}
	for _, tc := range cases {
		t.Run(tc.version, func(t *testing.T) {
			assert.Equal(t, tc.valid, Valid(tc.version))
		})
	}
}
