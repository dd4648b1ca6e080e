package schema

import "fmt"

// CollationStrength is the comparison level of an index collation.
type CollationStrength int

const (
	CollationPrimary CollationStrength = iota + 1
	CollationSecondary
	CollationTertiary
	CollationQuaternary
	CollationIdentical
)

const defaultCollationLocale = "en"

// ParseCollationStrength maps a declared level onto a strength. Only 1 to 5 are valid.
func ParseCollationStrength(level int) (CollationStrength, error) {
	s := CollationStrength(level)
	if s < CollationPrimary || s > CollationIdentical {
		return 0, fmt.Errorf("%w: %d", ErrCollationStrength, level)
	}
	return s, nil
}

func (s CollationStrength) String() string {
	switch s {
	case CollationPrimary:
		return "primary"
	case CollationSecondary:
		return "secondary"
	case CollationTertiary:
		return "tertiary"
	case CollationQuaternary:
		return "quaternary"
	case CollationIdentical:
		return "identical"
	default:
		return fmt.Sprintf("CollationStrength(%d)", int(s))
	}
}
