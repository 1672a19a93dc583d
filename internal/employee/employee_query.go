package employee

import (
	"sort"
	"strings"
	"time"
)

// PageSize is the fixed page size of the list view.
const PageSize = 5

const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// Salary band filter values as they appear in persisted view state.
const (
	SalaryBandAll      = ""
	SalaryBandUnder50K = "lt50"
	SalaryBandMid      = "50to100"
	SalaryBandOver100K = "gt100"
)

type SortKey struct {
	Field     string
	Direction string
}

// QuerySpec is the full filter/sort/page state of the list view. Zero values
// mean "no filter". Status holds "active" or "inactive" in lowercase, the
// same representation the view state codec persists.
type QuerySpec struct {
	Text       string
	Status     string
	Position   string
	SalaryBand string
	SortKeys   []SortKey
	Page       int
}

func DefaultSpec() QuerySpec {
	return QuerySpec{Page: 1}
}

// ViewResult is one computed page of the list view. Page is the clamped page
// number actually served, which may differ from the requested one.
type ViewResult struct {
	PageRows      []Employee
	TotalMatching int
	TotalPages    int
	Page          int
}

// ComputeView runs the query pipeline over the collection: drop soft-deleted
// records, apply every active filter, stable multi-key sort, then paginate.
// The stage order is fixed; filters narrow the set before sort cost is paid
// and the sort fixes the total order pagination slices.
func ComputeView(collection []Employee, spec QuerySpec) ViewResult {
	matched := make([]Employee, 0, len(collection))
	for _, e := range collection {
		if e.Deleted {
			continue
		}
		if matchesFilters(e, spec) {
			matched = append(matched, e)
		}
	}

	if len(spec.SortKeys) > 0 {
		keys := spec.SortKeys
		sort.SliceStable(matched, func(i, j int) bool {
			for _, k := range keys {
				c := compareField(matched[i], matched[j], k.Field)
				if c == 0 {
					continue
				}
				if k.Direction == SortDesc {
					return c > 0
				}
				return c < 0
			}
			return false
		})
	}

	totalPages := (len(matched) + PageSize - 1) / PageSize
	if totalPages < 1 {
		totalPages = 1
	}

	page := spec.Page
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * PageSize
	end := start + PageSize
	if start > len(matched) {
		start = len(matched)
	}
	if end > len(matched) {
		end = len(matched)
	}

	return ViewResult{
		PageRows:      matched[start:end],
		TotalMatching: len(matched),
		TotalPages:    totalPages,
		Page:          page,
	}
}

func matchesFilters(e Employee, spec QuerySpec) bool {
	if q := strings.ToLower(strings.TrimSpace(spec.Text)); q != "" {
		hit := strings.Contains(strings.ToLower(e.Name), q) ||
			strings.Contains(strings.ToLower(e.Email), q)
		if !hit {
			return false
		}
	}

	if spec.Status != "" {
		if !strings.EqualFold(e.EffectiveStatus(), spec.Status) {
			return false
		}
	}

	if spec.Position != "" {
		if e.EffectivePosition() != spec.Position {
			return false
		}
	}

	switch spec.SalaryBand {
	case SalaryBandUnder50K:
		if !(e.Salary < 50000) {
			return false
		}
	case SalaryBandMid:
		// Inclusive on both ends; boundary salaries land here only.
		if !(e.Salary >= 50000 && e.Salary <= 100000) {
			return false
		}
	case SalaryBandOver100K:
		if !(e.Salary > 100000) {
			return false
		}
	}

	return true
}

// compareField returns -1/0/1 for one sort key. Salary compares numerically,
// dateJoined by parsed date with epoch for unparsable values, everything
// else as case-insensitive strings.
func compareField(a, b Employee, field string) int {
	switch field {
	case "salary":
		switch {
		case a.Salary < b.Salary:
			return -1
		case a.Salary > b.Salary:
			return 1
		}
		return 0
	case "dateJoined":
		ta, ok := a.JoinedAt()
		if !ok {
			ta = time.Unix(0, 0).UTC()
		}
		tb, ok := b.JoinedAt()
		if !ok {
			tb = time.Unix(0, 0).UTC()
		}
		switch {
		case ta.Before(tb):
			return -1
		case ta.After(tb):
			return 1
		}
		return 0
	default:
		return strings.Compare(
			strings.ToLower(fieldString(a, field)),
			strings.ToLower(fieldString(b, field)),
		)
	}
}

func fieldString(e Employee, field string) string {
	switch field {
	case "name":
		return e.Name
	case "email":
		return e.Email
	case "position":
		return e.Position
	case "role":
		return e.Role
	case "status":
		return e.Status
	case "employeeCode":
		return e.EmployeeCode
	default:
		return ""
	}
}

// Positions lists the distinct effective positions of non-deleted records,
// sorted; blank positions group under "Unknown".
func Positions(collection []Employee) []string {
	seen := make(map[string]bool)
	for _, e := range collection {
		if e.Deleted {
			continue
		}
		pos := e.EffectivePosition()
		if pos == "" {
			pos = "Unknown"
		}
		seen[pos] = true
	}

	out := make([]string, 0, len(seen))
	for pos := range seen {
		out = append(out, pos)
	}
	sort.Strings(out)
	return out
}
