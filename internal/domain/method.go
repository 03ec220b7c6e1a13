package domain

import "fmt"

// Method selects a grouping strategy.
type Method string

const (
	// MethodDefault fills groups sequentially in input order.
	MethodDefault Method = "default"

	// MethodCompact packs files first-fit-decreasing.
	MethodCompact Method = "compact"
)

// Methods lists the supported methods in display order.
var Methods = []Method{MethodCompact, MethodDefault}

// ParseMethod converts a string to a Method.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case MethodDefault, MethodCompact:
		return Method(s), nil
	}
	return "", &InvalidConfigError{Field: "method", Reason: fmt.Sprintf("unknown grouping method %q", s)}
}

func (m Method) String() string { return string(m) }
