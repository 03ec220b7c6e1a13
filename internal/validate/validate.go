// Package validate re-checks a finished partition against the files it was
// built from, independently of the strategy that produced it.
package validate

import (
	"fmt"
	"slices"

	"github.com/bft-labs/packship/internal/domain"
)

// Status is the overall outcome of a validation.
type Status int

const (
	// Valid means every invariant holds and no group exceeds the ceiling.
	Valid Status = iota

	// ValidWithWarnings means every invariant holds but at least one
	// oversize singleton is present.
	ValidWithWarnings

	// Invalid means an invariant is broken. This is an engine defect.
	Invalid
)

func (s Status) String() string {
	switch s {
	case Valid:
		return "valid"
	case ValidWithWarnings:
		return "valid with warnings"
	case Invalid:
		return "invalid"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Result reports what the validator found.
type Result struct {
	Status     Status
	Violations []string
	Warnings   []domain.Warning

	GroupCount  int
	FileCount   int
	ValidGroups int
}

// Err returns a *domain.InvariantError when the partition is invalid.
func (r Result) Err() error {
	if r.Status != Invalid {
		return nil
	}
	return &domain.InvariantError{Violations: slices.Clone(r.Violations)}
}

// Validate checks that p holds exactly the files of original, that each group
// total is recomputed correctly and stays within maxBytes (or is a singleton
// whose only file alone exceeds it), and that no group is empty.
// It does not modify p and returns the same result every time for the same input.
func Validate(p *domain.Partition, original []domain.FileRecord, maxBytes int64) Result {
	var res Result
	if p == nil {
		res.Status = Invalid
		res.Violations = []string{"partition is nil"}
		return res
	}

	res.GroupCount = len(p.Groups)

	remaining := make(map[domain.Key]int, len(original))
	for _, f := range original {
		remaining[f.Key()]++
	}

	for i, g := range p.Groups {
		if g == nil || len(g.Files) == 0 {
			res.Violations = append(res.Violations, fmt.Sprintf("group %d is empty", i+1))
			continue
		}

		var sum int64
		for _, f := range g.Files {
			res.FileCount++
			sum += f.SizeBytes

			k := f.Key()
			if remaining[k] == 0 {
				res.Violations = append(res.Violations, fmt.Sprintf("group %d holds %s which is duplicated or not an input file", i+1, f.Path))
				continue
			}
			remaining[k]--
		}

		if sum != g.TotalSizeBytes {
			res.Violations = append(res.Violations, fmt.Sprintf("group %d records total %d but members sum to %d", i+1, g.TotalSizeBytes, sum))
		}

		switch {
		case sum <= maxBytes:
			res.ValidGroups++
		case len(g.Files) == 1:
			res.Warnings = append(res.Warnings, domain.Warning{
				Kind:      domain.WarnOversize,
				Path:      g.Files[0].Path,
				SizeBytes: sum,
				Message:   fmt.Sprintf("group %d exceeds the ceiling of %d bytes with a single file", i+1, maxBytes),
			})
		default:
			res.Violations = append(res.Violations, fmt.Sprintf("group %d total %d exceeds the ceiling of %d bytes", i+1, sum, maxBytes))
		}
	}

	for _, f := range original {
		k := f.Key()
		if n := remaining[k]; n > 0 {
			res.Violations = append(res.Violations, fmt.Sprintf("input file %s is missing from the partition", f.Path))
			remaining[k] = n - 1
		}
	}

	switch {
	case len(res.Violations) > 0:
		res.Status = Invalid
	case len(res.Warnings) > 0:
		res.Status = ValidWithWarnings
	default:
		res.Status = Valid
	}
	return res
}
