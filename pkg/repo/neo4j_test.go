package repo

import (
	"context"
	"strings"
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

type fakeResult struct {
	records []*neo4j.Record
	i       int
}

func (f *fakeResult) Next(context.Context) bool {
	if f.i >= len(f.records) {
		return false
	}
	f.i++
	return true
}

func (f *fakeResult) Record() *neo4j.Record { return f.records[f.i-1] }

type fakeRunner struct {
	cypher string
	params map[string]any
	res    *fakeResult
	closed bool
}

func (f *fakeRunner) Run(_ context.Context, cypher string, params map[string]any) (result, error) {
	f.cypher = cypher
	f.params = params
	if f.res == nil {
		f.res = &fakeResult{}
	}
	return f.res, nil
}

func (f *fakeRunner) Close(context.Context) error {
	f.closed = true
	return nil
}

func fakeRepo(fr *fakeRunner, opts ...Neo4jOption[string, string]) *Neo4jRepo[string, string] {
	r := NewNeo4jRepo[string, string](nil, "Vehicle", func(rec *neo4j.Record) (string, error) {
		return rec.Values[0].(string), nil
	}, opts...)
	r.newSession = func(context.Context) runner { return fr }
	return r
}

func TestListFiltersAndOrders(t *testing.T) {
	fr := &fakeRunner{res: &fakeResult{records: []*neo4j.Record{
		{Keys: []string{"n"}, Values: []any{"corolla"}},
		{Keys: []string{"n"}, Values: []any{"civic"}},
	}}}
	r := fakeRepo(fr)

	items, err := r.List(context.Background(), ListOpts{
		Filter:  map[string]any{"user_id": "u1"},
		OrderBy: "id",
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 || items[0] != "corolla" {
		t.Errorf("unexpected items: %v", items)
	}
	if !strings.Contains(fr.cypher, "WHERE n.user_id = $f_user_id") {
		t.Errorf("missing filter clause: %q", fr.cypher)
	}
	if !strings.Contains(fr.cypher, "ORDER BY n.id") {
		t.Errorf("missing order clause: %q", fr.cypher)
	}
	if fr.params["f_user_id"] != "u1" {
		t.Errorf("filter param not bound: %v", fr.params)
	}
	if !fr.closed {
		t.Error("session not closed")
	}
}

func TestListDeterministicFilterOrder(t *testing.T) {
	fr := &fakeRunner{}
	r := fakeRepo(fr)

	if _, err := r.List(context.Background(), ListOpts{
		Filter: map[string]any{"year": 2020, "make": "Toyota"},
	}); err != nil {
		t.Fatal(err)
	}
	// Sorted keys: make before year.
	if !strings.Contains(fr.cypher, "n.make = $f_make AND n.year = $f_year") {
		t.Errorf("filter clauses not sorted: %q", fr.cypher)
	}
}

func TestListDefaultLimit(t *testing.T) {
	fr := &fakeRunner{}
	r := fakeRepo(fr)

	if _, err := r.List(context.Background(), ListOpts{}); err != nil {
		t.Fatal(err)
	}
	if fr.params["limit"] != 100 {
		t.Errorf("expected default limit 100, got %v", fr.params["limit"])
	}
	if strings.Contains(fr.cypher, "WHERE") || strings.Contains(fr.cypher, "ORDER BY") {
		t.Errorf("empty opts must not add clauses: %q", fr.cypher)
	}
}

func TestDeleteDetaches(t *testing.T) {
	fr := &fakeRunner{}
	r := fakeRepo(fr)

	if err := r.Delete(context.Background(), "v1"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(fr.cypher, "DETACH DELETE n") {
		t.Errorf("delete must detach relationships: %q", fr.cypher)
	}
	if fr.params["id"] != "v1" {
		t.Errorf("id not bound: %v", fr.params)
	}
}

func TestDeleteHonorsIDKey(t *testing.T) {
	fr := &fakeRunner{}
	r := fakeRepo(fr, WithIDKey[string, string]("vin"))

	if err := r.Delete(context.Background(), "1HGCM82633A004352"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(fr.cypher, "{vin: $id}") {
		t.Errorf("custom id key not used: %q", fr.cypher)
	}
}
