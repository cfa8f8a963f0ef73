package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// TaskRef represents a parsed task reference.
type TaskRef struct {
	Num  int    // 1-based position in the loaded list, 0 when ByID
	ID   string // literal task ID when ByID
	ByID bool   // true if the reference is a task ID
}

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ParseTaskRef parses a task reference from args.
//
// Parsing rules:
//  1. No args → ErrTaskRefRequired
//  2. byID → the single arg is taken verbatim as a task ID
//  3. Single all-digits arg → position in the list as printed by `list`
//  4. Anything else → error: invalid task reference
//
// Extra arguments are rejected.
func ParseTaskRef(args []string, byID bool) (TaskRef, error) {
	if len(args) == 0 {
		return TaskRef{}, ErrTaskRefRequired
	}
	if len(args) > 1 {
		return TaskRef{}, fmt.Errorf("unexpected argument: %s", args[1])
	}

	arg := strings.TrimSpace(args[0])
	if byID {
		if arg == "" {
			return TaskRef{}, ErrTaskRefRequired
		}
		return TaskRef{ID: arg, ByID: true}, nil
	}

	if !isAllDigits(arg) {
		return TaskRef{}, fmt.Errorf("invalid task reference: %s", args[0])
	}
	num, err := strconv.Atoi(arg)
	if err != nil {
		return TaskRef{}, fmt.Errorf("invalid task reference: %s", args[0])
	}
	return TaskRef{Num: num}, nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
