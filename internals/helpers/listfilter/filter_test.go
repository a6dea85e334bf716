package listfilter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	Name   string
	Class  string
	Amount float64
	Due    *time.Time
}

func day(d int) *time.Time {
	t := time.Date(2025, 1, d, 8, 0, 0, 0, time.UTC)
	return &t
}

func fixtures() []row {
	return []row{
		{Name: "Ahmad", Class: "7A", Amount: 300, Due: day(10)},
		{Name: "Budi", Class: "7B", Amount: 100, Due: day(3)},
		{Name: "Aisyah", Class: "7a", Amount: 200, Due: nil},
		{Name: "Citra", Class: "8A", Amount: 50, Due: day(20)},
	}
}

func names(rs []row) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.Name
	}
	return out
}

func TestApply_NoCriteriaReturnsInput(t *testing.T) {
	items := fixtures()
	got := Apply(items, Criteria[row]{
		Query:  "  ",
		Equals: []Equality[row]{{Value: "all", Field: func(r row) string { return r.Class }}},
	})
	assert.Equal(t, items, got)
}

func TestApply_QueryMatchesAnyField(t *testing.T) {
	crit := Criteria[row]{
		Query:        "A",
		SearchFields: func(r row) []string { return []string{r.Name, r.Class} },
	}
	got := Apply(fixtures(), crit)

	// setiap hasil memuat query di salah satu field
	for _, r := range got {
		assert.True(t, matchesQuery([]string{r.Name, r.Class}, "a"), r.Name)
	}
	assert.Equal(t, []string{"Ahmad", "Aisyah", "Citra"}, names(got))
}

func TestApply_EqualityIsCaseInsensitive(t *testing.T) {
	got := Apply(fixtures(), Criteria[row]{
		Equals: []Equality[row]{{Value: "7A", Field: func(r row) string { return r.Class }}},
	})
	assert.Equal(t, []string{"Ahmad", "Aisyah"}, names(got))
}

func TestApply_SentinelValues(t *testing.T) {
	for _, v := range []string{"", "all", "ALL", "semua", " Semua "} {
		assert.True(t, IsSentinel(v), v)
	}
	assert.False(t, IsSentinel("7A"))
}

func TestApply_DateRangeInclusive(t *testing.T) {
	got := Apply(fixtures(), Criteria[row]{
		DateFrom: day(3),
		DateTo:   day(10),
		DateOf:   func(r row) *time.Time { return r.Due },
	})
	assert.Equal(t, []string{"Ahmad", "Budi"}, names(got))
}

func TestApply_SortStable(t *testing.T) {
	items := []row{
		{Name: "x", Amount: 1}, {Name: "y", Amount: 1}, {Name: "z", Amount: 0},
	}
	got := Apply(items, Criteria[row]{Less: ByNumber(func(r row) float64 { return r.Amount }, false)})
	assert.Equal(t, []string{"z", "x", "y"}, names(got))
}

func TestByTime_MissingLastBothDirections(t *testing.T) {
	due := func(r row) *time.Time { return r.Due }

	asc := Apply(fixtures(), Criteria[row]{Less: ByTime(due, false)})
	assert.Equal(t, []string{"Budi", "Ahmad", "Citra", "Aisyah"}, names(asc))

	desc := Apply(fixtures(), Criteria[row]{Less: ByTime(due, true)})
	assert.Equal(t, []string{"Citra", "Ahmad", "Budi", "Aisyah"}, names(desc))
}

func TestSorters_Pick(t *testing.T) {
	s := Sorters[row]{
		"name": func(desc bool) func(a, b row) bool { return ByString(func(r row) string { return r.Name }, desc) },
	}
	require.NotNil(t, s.Pick("name", true))
	assert.Nil(t, s.Pick("unknown", false))

	got := Apply(fixtures(), Criteria[row]{Less: s.Pick("name", true)})
	assert.Equal(t, []string{"Citra", "Budi", "Aisyah", "Ahmad"}, names(got))
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	page, meta := Paginate(items, 2, 2)
	assert.Equal(t, []int{3, 4}, page)
	assert.Equal(t, 3, meta.TotalPages)
	assert.Equal(t, 2, meta.Count)
	assert.True(t, meta.HasNext)
	assert.True(t, meta.HasPrev)

	page, meta = Paginate(items, 3, 2)
	assert.Equal(t, []int{5}, page)
	assert.False(t, meta.HasNext)

	page, meta = Paginate(items, 9, 2)
	assert.Empty(t, page)
	assert.Equal(t, 0, meta.Count)
	assert.Equal(t, int64(5), meta.Total)
}

func TestPaginate_Empty(t *testing.T) {
	page, meta := Paginate([]int{}, 1, 0)
	assert.Empty(t, page)
	assert.Equal(t, 20, meta.PerPage)
	assert.Equal(t, 1, meta.TotalPages)
}
