package version

import (
	"fmt"
	"regexp"
	"strconv"

	"codeberg.org/mutker/crayontools/internal/errors"
)

// The dots around '=' match any character, so both "version = '" and
// "version.='" are accepted.
var literalPattern = regexp.MustCompile(`version.=.'(\d+)\.(\d+)\.(\d+)';`)

type Version struct {
	Major int
	Minor int
	Patch int
}

type Direction int

const (
	Increment Direction = 1
	Decrement Direction = -1
)

type Component int

const (
	Major Component = iota
	Minor
	Patch
)

func (d Direction) String() string {
	if d == Decrement {
		return "decrement"
	}
	return "increment"
}

func (c Component) String() string {
	switch c {
	case Major:
		return "major"
	case Minor:
		return "minor"
	default:
		return "patch"
	}
}

// ParseDirection maps "increment" or "decrement" to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "increment":
		return Increment, nil
	case "decrement":
		return Decrement, nil
	}

	return 0, errors.New().WithData(ErrInvalidArgument, fmt.Sprintf("unknown direction %q", s))
}

// ParseComponent maps "major", "minor" or "patch" to a Component.
func ParseComponent(s string) (Component, error) {
	switch s {
	case "major":
		return Major, nil
	case "minor":
		return Minor, nil
	case "patch":
		return Patch, nil
	}

	return 0, errors.New().WithData(ErrInvalidArgument, fmt.Sprintf("unknown component %q", s))
}

// Parse extracts the first version literal found in content.
func Parse(content string) (Version, error) {
	m := literalPattern.FindStringSubmatch(content)
	if m == nil {
		return Version{}, errors.New().New(ErrVersionNotFound)
	}

	var parts [3]int
	for i := range parts {
		n, err := strconv.Atoi(m[i+1])
		if err != nil {
			return Version{}, errors.New().Wrap(ErrVersionNotFound, err)
		}
		parts[i] = n
	}

	return Version{Major: parts[0], Minor: parts[1], Patch: parts[2]}, nil
}

// Bump moves one component by one step. Components of lower order are reset
// to zero.
func (v Version) Bump(d Direction, c Component) (Version, error) {
	next := v
	var changed *int

	switch c {
	case Major:
		changed = &next.Major
		next.Minor, next.Patch = 0, 0
	case Minor:
		changed = &next.Minor
		next.Patch = 0
	case Patch:
		changed = &next.Patch
	default:
		return v, errors.New().WithData(ErrInvalidArgument, fmt.Sprintf("unknown component %d", c))
	}

	*changed += int(d)
	if *changed < 0 {
		return v, errors.New().WithData(ErrVersionUnderflow, fmt.Sprintf("%s of %s", c, v))
	}

	return next, nil
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Format renders the version literal for the given label.
func (v Version) Format(label string) string {
	return fmt.Sprintf("%s.version = '%s';", label, v)
}

// Rewrite parses content, bumps the version and returns the replacement
// file content. The result holds only the new literal.
func Rewrite(content, label string, d Direction, c Component) (old, next Version, out string, err error) {
	old, err = Parse(content)
	if err != nil {
		return Version{}, Version{}, "", err
	}

	next, err = old.Bump(d, c)
	if err != nil {
		return old, old, "", err
	}

	return old, next, next.Format(label), nil
}
