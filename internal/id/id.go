package id

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is the entry kind a label encodes.
type Kind string

const (
	KindTransaction Kind = "transaction"
	KindJournal     Kind = "journal"
)

const (
	prefixTransaction = "TXN"
	prefixJournal     = "JE"
)

// FormatLabel returns a label like "TXN-000012" or "JE-000007".
func FormatLabel(kind Kind, n int64) string {
	return fmt.Sprintf("%s-%06d", prefix(kind), n)
}

func prefix(kind Kind) string {
	if kind == KindTransaction {
		return prefixTransaction
	}
	return prefixJournal
}

// ParseLabel parses "TXN-000012" into its kind and numeric id.
func ParseLabel(label string) (Kind, int64, error) {
	p, num, ok := strings.Cut(strings.ToUpper(strings.TrimSpace(label)), "-")
	if !ok {
		return "", 0, fmt.Errorf("invalid entry label format: %q", label)
	}

	var kind Kind
	switch p {
	case prefixTransaction:
		kind = KindTransaction
	case prefixJournal:
		kind = KindJournal
	default:
		return "", 0, fmt.Errorf("unknown entry label prefix in %q", label)
	}

	n, err := strconv.ParseInt(num, 10, 64)
	if err != nil || n <= 0 {
		return "", 0, fmt.Errorf("invalid number in entry label %q", label)
	}
	return kind, n, nil
}

// ParseRef accepts either a label or a bare numeric id. A bare id carries
// no kind.
func ParseRef(ref string) (Kind, int64, error) {
	if n, err := strconv.ParseInt(strings.TrimSpace(ref), 10, 64); err == nil {
		if n <= 0 {
			return "", 0, fmt.Errorf("invalid entry id %q", ref)
		}
		return "", n, nil
	}
	return ParseLabel(ref)
}
