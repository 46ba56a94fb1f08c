package accounts

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/cleared-dev/crania/internal/model"
)

// maxSuggestDistance bounds how far a name may be from the query and still
// be offered.
const maxSuggestDistance = 4

// UnknownAccountError reports an account reference that matched nothing.
type UnknownAccountError struct {
	Ref         string
	Suggestions []model.Account
}

func (e *UnknownAccountError) Error() string {
	msg := fmt.Sprintf("account %q not found", e.Ref)
	if len(e.Suggestions) == 0 {
		return msg
	}
	names := make([]string, len(e.Suggestions))
	for i, a := range e.Suggestions {
		names[i] = fmt.Sprintf("%s %s", a.Code, a.Name)
	}
	return msg + "; did you mean " + strings.Join(names, ", ") + "?"
}

func (e *UnknownAccountError) Is(target error) bool { return target == model.ErrNotFound }

// Suggest returns up to n accounts whose code or name is close to query.
func (s *Service) Suggest(query string, n int) []model.Account {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || n <= 0 {
		return nil
	}

	type scored struct {
		acct model.Account
		dist int
	}
	var candidates []scored
	for _, a := range s.accounts {
		d := levenshtein.ComputeDistance(q, strings.ToLower(a.Name))
		if a.Code != "" {
			if cd := levenshtein.ComputeDistance(q, a.Code); cd < d {
				d = cd
			}
		}
		if strings.Contains(strings.ToLower(a.Name), q) {
			d = 0
		}
		if d <= maxSuggestDistance {
			candidates = append(candidates, scored{acct: a, dist: d})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].dist < candidates[j].dist })
	if len(candidates) > n {
		candidates = candidates[:n]
	}
	result := make([]model.Account, len(candidates))
	for i, c := range candidates {
		result[i] = c.acct
	}
	return result
}
