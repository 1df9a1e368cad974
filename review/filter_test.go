package review

import (
	"reflect"
	"testing"
)

func sampleTable() *Table {
	return NewTable(
		[]string{"date_publication", "produit", " Assureur ", "avis_en", "note"},
		[][]string{
			{"2021-01-02", "auto", "A", "Great service", "5"},
			{"2021-01-03", "auto", "B", "Slow response", "2"},
			{"2021-01-04", "sante", "A", "", "4"},
			{"2021-01-05", "vie", "C", "Fair price", "5"},
		},
	)
}

func TestFilterByInsurer(t *testing.T) {
	table := sampleTable()
	cols := DefaultColumns().Resolve(table)

	for _, sel := range []string{"Tous", "All", "all", ""} {
		if got := FilterByInsurer(table, cols, sel); got != table {
			t.Errorf("%q: expected the full table", sel)
		}
	}

	got := FilterByInsurer(table, cols, "A")
	if got.Len() != 2 {
		t.Fatalf("A: rows = %d, want 2", got.Len())
	}
	if got.Cell(0, "avis_en") != "Great service" {
		t.Errorf("first row review = %q", got.Cell(0, "avis_en"))
	}

	if got := FilterByInsurer(table, cols, "a"); got.Len() != 0 {
		t.Errorf("match should be exact, got %d rows", got.Len())
	}
	if got := FilterByInsurer(table, cols, "Z"); got.Len() != 0 {
		t.Errorf("unknown insurer: rows = %d", got.Len())
	}
}

func TestFilterTwoRowScenario(t *testing.T) {
	table := NewTable([]string{"assureur", "avis_en"}, [][]string{{"A", "Great service"}, {"B", "Slow response"}})
	got := FilterByInsurer(table, DefaultColumns(), "A")
	want := [][]string{{"A", "Great service"}}
	if !reflect.DeepEqual(got.Project("assureur", "avis_en"), want) {
		t.Errorf("rows = %v, want %v", got.Project("assureur", "avis_en"), want)
	}
}

func TestInsurers(t *testing.T) {
	table := sampleTable()
	got := Insurers(table, DefaultColumns())
	want := []string{"A", "B", "C"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("insurers = %v, want %v", got, want)
	}
}

func TestRatingDistribution(t *testing.T) {
	table := sampleTable()
	cols := DefaultColumns()
	buckets, ok := RatingDistribution(table, cols)
	if !ok {
		t.Fatal("rating column not found")
	}
	want := []RatingBucket{
		{Value: 2, Label: "2", Count: 1},
		{Value: 4, Label: "4", Count: 1},
		{Value: 5, Label: "5", Count: 2},
	}
	if !reflect.DeepEqual(buckets, want) {
		t.Errorf("buckets = %+v, want %+v", buckets, want)
	}

	filtered := FilterByInsurer(table, cols, "A")
	buckets, _ = RatingDistribution(filtered, cols)
	if len(buckets) != 2 || buckets[0].Value != 4 || buckets[1].Value != 5 {
		t.Errorf("filtered buckets = %+v", buckets)
	}
}

func TestRatingDistributionWithoutColumn(t *testing.T) {
	table := NewTable([]string{"assureur"}, [][]string{{"A"}})
	if _, ok := RatingDistribution(table, DefaultColumns()); ok {
		t.Error("expected missing rating column to be reported")
	}
}

func TestExampleReviewsSkipsBlanks(t *testing.T) {
	got := ExampleReviews(sampleTable(), DefaultColumns(), 3)
	want := []string{"Great service", "Slow response", "Fair price"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("examples = %v, want %v", got, want)
	}
}

func TestHead(t *testing.T) {
	table := sampleTable()
	if got := table.Head(2).Len(); got != 2 {
		t.Errorf("Head(2) = %d rows", got)
	}
	if table.Head(10) != table || table.Head(-1) != table {
		t.Error("Head beyond length should return the table itself")
	}
}

func TestExampleReviewsKeepsText(t *testing.T) {
	table := NewTable([]string{"avis_en"}, [][]string{{"   "}, {" Slow response\n"}})
	got := ExampleReviews(table, DefaultColumns(), 2)
	if !reflect.DeepEqual(got, []string{" Slow response\n"}) {
		t.Errorf("examples = %q", got)
	}
	if table.Cell(1, "avis_en") != "Slow response" || table.RawCell(1, "avis_en") != " Slow response\n" {
		t.Errorf("Cell = %q, RawCell = %q", table.Cell(1, "avis_en"), table.RawCell(1, "avis_en"))
	}
}
