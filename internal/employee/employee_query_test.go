package employee_test

import (
	"testing"

	"go-staffdir/internal/employee"

	"github.com/stretchr/testify/assert"
)

func sampleCollection() []employee.Employee {
	return []employee.Employee{
		{ID: "1", Name: "Asha Rao", Email: "asha@example.com", Position: "Backend Developer", Status: "Active", Salary: 42000, DateJoined: "2024-01-15"},
		{ID: "2", Name: "Binod Shah", Email: "binod@example.com", Position: "Backend Developer", Status: "Inactive", Salary: 50000, DateJoined: "2023-06-01"},
		{ID: "3", Name: "Chitra Iyer", Email: "chitra@example.com", Position: "Frontend Developer", Status: "Active", Salary: 100000, DateJoined: "2022-11-20"},
		{ID: "4", Name: "Dev Patel", Email: "dev@example.com", Position: "HR Executive", Status: "Active", Salary: 120000, DateJoined: "2025-03-10"},
		{ID: "5", Name: "Esha Nair", Email: "esha@example.com", Role: "UI-UX Designer", Salary: 75000, DateJoined: "not-a-date"},
		{ID: "6", Name: "Farid Khan", Email: "farid@example.com", Position: "Backend Developer", Status: "Active", Salary: 30000, DateJoined: "2024-08-01"},
		{ID: "7", Name: "Gita Menon", Email: "gita@example.com", Position: "Frontend Developer", Status: "Active", Salary: 99000, DateJoined: "2024-08-01"},
		{ID: "8", Name: "Hidden Person", Email: "hidden@example.com", Position: "Backend Developer", Status: "Active", Salary: 60000, DateJoined: "2024-02-02", Deleted: true},
	}
}

func ids(rows []employee.Employee) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return out
}

func TestComputeView_ExcludesDeleted(t *testing.T) {
	view := employee.ComputeView(sampleCollection(), employee.DefaultSpec())

	assert.Equal(t, 7, view.TotalMatching)
	for _, r := range view.PageRows {
		assert.False(t, r.Deleted)
		assert.NotEqual(t, "8", r.ID)
	}
}

func TestComputeView_Filters(t *testing.T) {
	t.Run("text matches name or email, case-insensitive", func(t *testing.T) {
		spec := employee.DefaultSpec()
		spec.Text = "ASHA"
		view := employee.ComputeView(sampleCollection(), spec)
		assert.Equal(t, []string{"1"}, ids(view.PageRows))

		spec.Text = "gita@"
		view = employee.ComputeView(sampleCollection(), spec)
		assert.Equal(t, []string{"7"}, ids(view.PageRows))
	})

	t.Run("blank status counts as Active", func(t *testing.T) {
		spec := employee.DefaultSpec()
		spec.Status = "active"
		view := employee.ComputeView(sampleCollection(), spec)
		// Record 5 has no status field at all.
		assert.Contains(t, ids(view.PageRows), "5")
		assert.NotContains(t, ids(view.PageRows), "2")
	})

	t.Run("position falls back to legacy role", func(t *testing.T) {
		spec := employee.DefaultSpec()
		spec.Position = "UI-UX Designer"
		view := employee.ComputeView(sampleCollection(), spec)
		assert.Equal(t, []string{"5"}, ids(view.PageRows))
	})

	t.Run("salary band boundaries are inclusive in the middle band only", func(t *testing.T) {
		spec := employee.DefaultSpec()
		spec.SalaryBand = employee.SalaryBandMid
		view := employee.ComputeView(sampleCollection(), spec)
		// 50000 and 100000 land here, not in the outer bands.
		assert.ElementsMatch(t, []string{"2", "3", "5", "7"}, ids(view.PageRows))

		spec.SalaryBand = employee.SalaryBandUnder50K
		view = employee.ComputeView(sampleCollection(), spec)
		assert.ElementsMatch(t, []string{"1", "6"}, ids(view.PageRows))

		spec.SalaryBand = employee.SalaryBandOver100K
		view = employee.ComputeView(sampleCollection(), spec)
		assert.ElementsMatch(t, []string{"4"}, ids(view.PageRows))
	})

	t.Run("filters combine with AND", func(t *testing.T) {
		spec := employee.DefaultSpec()
		spec.Position = "Backend Developer"
		spec.SalaryBand = employee.SalaryBandUnder50K
		spec.Status = "active"
		view := employee.ComputeView(sampleCollection(), spec)
		assert.ElementsMatch(t, []string{"1", "6"}, ids(view.PageRows))
	})
}

func TestComputeView_SalaryBandScenario(t *testing.T) {
	// 7 active records; exactly the 50k-100k subset matches, paginated at
	// page size 5.
	spec := employee.DefaultSpec()
	spec.SalaryBand = employee.SalaryBandMid
	spec.Status = ""

	view := employee.ComputeView(sampleCollection(), spec)

	assert.Equal(t, 4, view.TotalMatching)
	assert.Equal(t, 1, view.TotalPages)
	assert.Len(t, view.PageRows, 4)
	for _, r := range view.PageRows {
		assert.GreaterOrEqual(t, r.Salary, float64(50000))
		assert.LessOrEqual(t, r.Salary, float64(100000))
	}
}

func TestComputeView_Sort(t *testing.T) {
	t.Run("single key numeric", func(t *testing.T) {
		spec := employee.DefaultSpec()
		spec.SortKeys = []employee.SortKey{{Field: "salary", Direction: employee.SortAsc}}
		view := employee.ComputeView(sampleCollection(), spec)
		assert.Equal(t, "6", view.PageRows[0].ID) // 30000 first
	})

	t.Run("unparsable dates sort as epoch", func(t *testing.T) {
		spec := employee.DefaultSpec()
		spec.SortKeys = []employee.SortKey{{Field: "dateJoined", Direction: employee.SortAsc}}
		view := employee.ComputeView(sampleCollection(), spec)
		assert.Equal(t, "5", view.PageRows[0].ID)
	})

	t.Run("multi-key falls through only on equality", func(t *testing.T) {
		spec := employee.DefaultSpec()
		spec.SortKeys = []employee.SortKey{
			{Field: "dateJoined", Direction: employee.SortAsc},
			{Field: "salary", Direction: employee.SortDesc},
		}
		view := employee.ComputeView(sampleCollection(), spec)

		// Records 6 and 7 share the same dateJoined; the secondary salary
		// key (desc) puts 7 (99000) before 6 (30000).
		pos6, pos7 := -1, -1
		all := append(view.PageRows, employee.ComputeView(sampleCollection(), withPage(spec, 2)).PageRows...)
		for i, r := range all {
			if r.ID == "6" {
				pos6 = i
			}
			if r.ID == "7" {
				pos7 = i
			}
		}
		assert.True(t, pos7 < pos6, "secondary key should order 7 before 6")
	})

	t.Run("stable on equal keys", func(t *testing.T) {
		spec := employee.DefaultSpec()
		spec.SortKeys = []employee.SortKey{{Field: "position", Direction: employee.SortAsc}}
		view := employee.ComputeView(sampleCollection(), spec)
		// Backend Developers keep input order 1, 2, 6.
		backend := make([]string, 0, 3)
		all := append(view.PageRows, employee.ComputeView(sampleCollection(), withPage(spec, 2)).PageRows...)
		for _, r := range all {
			if r.Position == "Backend Developer" {
				backend = append(backend, r.ID)
			}
		}
		assert.Equal(t, []string{"1", "2", "6"}, backend)
	})
}

func withPage(spec employee.QuerySpec, page int) employee.QuerySpec {
	spec.Page = page
	return spec
}

func TestComputeView_Pagination(t *testing.T) {
	t.Run("clamps out-of-range pages", func(t *testing.T) {
		base := employee.DefaultSpec()

		low := employee.ComputeView(sampleCollection(), withPage(base, -3))
		assert.Equal(t, 1, low.Page)

		high := employee.ComputeView(sampleCollection(), withPage(base, 99))
		assert.Equal(t, high.TotalPages, high.Page)

		// Clamped result equals an explicit in-range request.
		explicit := employee.ComputeView(sampleCollection(), withPage(base, high.TotalPages))
		assert.Equal(t, ids(explicit.PageRows), ids(high.PageRows))
	})

	t.Run("second page holds the remainder", func(t *testing.T) {
		view := employee.ComputeView(sampleCollection(), withPage(employee.DefaultSpec(), 2))
		assert.Equal(t, 7, view.TotalMatching)
		assert.Equal(t, 2, view.TotalPages)
		assert.Len(t, view.PageRows, 2)
	})

	t.Run("empty collection yields one empty page", func(t *testing.T) {
		view := employee.ComputeView(nil, employee.DefaultSpec())
		assert.Equal(t, 0, view.TotalMatching)
		assert.Equal(t, 1, view.TotalPages)
		assert.Equal(t, 1, view.Page)
		assert.Empty(t, view.PageRows)
	})

	t.Run("zero matches yields one empty page", func(t *testing.T) {
		spec := employee.DefaultSpec()
		spec.Text = "no-such-person"
		view := employee.ComputeView(sampleCollection(), spec)
		assert.Equal(t, 1, view.TotalPages)
		assert.Empty(t, view.PageRows)
	})
}

func TestPositions(t *testing.T) {
	got := employee.Positions(sampleCollection())

	// Sorted, distinct, legacy role included, deleted records excluded.
	assert.Equal(t, []string{
		"Backend Developer",
		"Frontend Developer",
		"HR Executive",
		"UI-UX Designer",
	}, got)
}
