package types

import (
	"fmt"
	"strings"
)

// Version is a pacman-style package version split into its three
// comparison fields. Epoch defaults to 0 when absent; an empty Rel
// means the release was not specified and sorts below any explicit
// release of the same Ver.
type Version struct {
	Epoch int    `yaml:"epoch,omitempty"`
	Ver   string `yaml:"ver"`
	Rel   string `yaml:"rel,omitempty"`
}

func (v Version) String() string {
	var builder strings.Builder
	if v.Epoch > 0 {
		builder.WriteString(fmt.Sprintf("%d:", v.Epoch))
	}
	builder.WriteString(v.Ver)
	if v.Rel != "" {
		builder.WriteString("-")
		builder.WriteString(v.Rel)
	}
	return builder.String()
}

// IsZero reports whether the version carries no information, which is
// how "no local package found" is represented.
func (v Version) IsZero() bool {
	return v.Epoch == 0 && v.Ver == "" && v.Rel == ""
}
