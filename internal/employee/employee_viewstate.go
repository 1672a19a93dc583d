package employee

import (
	"net/url"
	"strconv"
	"strings"
)

// View state parameter names, matching the persisted URL scheme.
const (
	paramText     = "q"
	paramStatus   = "status"
	paramPosition = "position"
	paramSalary   = "salary"
	paramSort     = "sort"
	paramPage     = "page"
)

// DecodeViewState turns flat string parameters into a QuerySpec. Missing or
// default-valued parameters fall back to the default spec, so decoding an
// empty map yields DefaultSpec().
func DecodeViewState(params url.Values) QuerySpec {
	spec := DefaultSpec()

	spec.Text = strings.TrimSpace(params.Get(paramText))

	switch strings.ToLower(strings.TrimSpace(params.Get(paramStatus))) {
	case "active":
		spec.Status = "active"
	case "inactive":
		spec.Status = "inactive"
	}

	if pos := strings.TrimSpace(params.Get(paramPosition)); pos != "" && !strings.EqualFold(pos, "all") {
		spec.Position = pos
	}

	switch params.Get(paramSalary) {
	case SalaryBandUnder50K, SalaryBandMid, SalaryBandOver100K:
		spec.SalaryBand = params.Get(paramSalary)
	}

	spec.SortKeys = ParseSortKeys(params.Get(paramSort))

	if page, err := strconv.Atoi(params.Get(paramPage)); err == nil && page > 0 {
		spec.Page = page
	}

	return spec
}

// EncodeViewState is the inverse of DecodeViewState up to normalization.
// Default values produce no entry, so a pristine spec encodes to an empty
// map.
func EncodeViewState(spec QuerySpec) url.Values {
	params := url.Values{}

	if spec.Text != "" {
		params.Set(paramText, spec.Text)
	}
	if spec.Status != "" {
		params.Set(paramStatus, spec.Status)
	}
	if spec.Position != "" {
		params.Set(paramPosition, spec.Position)
	}
	if spec.SalaryBand != "" {
		params.Set(paramSalary, spec.SalaryBand)
	}
	if encoded := EncodeSortKeys(spec.SortKeys); encoded != "" {
		params.Set(paramSort, encoded)
	}
	if spec.Page > 1 {
		params.Set(paramPage, strconv.Itoa(spec.Page))
	}

	return params
}

// ParseSortKeys parses "field:dir,field:dir" preserving order; the first
// pair is the primary key. Unknown directions normalize to ascending.
func ParseSortKeys(s string) []SortKey {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	pairs := strings.Split(s, ",")
	keys := make([]SortKey, 0, len(pairs))
	for _, pair := range pairs {
		field, dir, _ := strings.Cut(pair, ":")
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		if dir != SortDesc {
			dir = SortAsc
		}
		keys = append(keys, SortKey{Field: field, Direction: dir})
	}
	return keys
}

func EncodeSortKeys(keys []SortKey) string {
	if len(keys) == 0 {
		return ""
	}
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k.Field + ":" + k.Direction
	}
	return strings.Join(parts, ",")
}

// ToggleSort returns the spec with the field's sort key cycled and the page
// reset to 1. Reordering invalidates the current page position, so every
// toggle lands back on the first page.
func (s QuerySpec) ToggleSort(field string) QuerySpec {
	s.SortKeys = ToggleSort(s.SortKeys, field)
	s.Page = 1
	return s
}

// ToggleSort cycles one field through unsorted -> ascending -> descending ->
// unsorted. A newly activated field is prepended at highest priority; the
// relative order of the other active keys never changes. The input slice is
// not modified.
func ToggleSort(keys []SortKey, field string) []SortKey {
	idx := -1
	for i, k := range keys {
		if k.Field == field {
			idx = i
			break
		}
	}

	switch {
	case idx == -1:
		next := make([]SortKey, 0, len(keys)+1)
		next = append(next, SortKey{Field: field, Direction: SortAsc})
		return append(next, keys...)
	case keys[idx].Direction == SortAsc:
		next := make([]SortKey, len(keys))
		copy(next, keys)
		next[idx].Direction = SortDesc
		return next
	default:
		next := make([]SortKey, 0, len(keys)-1)
		next = append(next, keys[:idx]...)
		return append(next, keys[idx+1:]...)
	}
}
