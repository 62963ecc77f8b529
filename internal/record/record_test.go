package record

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() []Record {
	return []Record{
		{ID: 1, Title: "Buy milk", Completed: false},
		{ID: 2, Title: "Clean house", Completed: true},
	}
}

func TestFilter_Substring(t *testing.T) {
	got := Filter(sample(), "mi")
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].ID)
}

func TestFilter_EmptyQueryReturnsAll(t *testing.T) {
	records := sample()
	got := Filter(records, "")
	assert.Equal(t, records, got)
}

func TestFilter_NoMatch(t *testing.T) {
	got := Filter(sample(), "zzz")
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFilter_CaseInsensitive(t *testing.T) {
	got := Filter(sample(), "CLEAN")
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].ID)

	got = Filter([]Record{{ID: 7, Title: "WATER plants"}}, "water")
	require.Len(t, got, 1)
}

func TestFilter_PreservesOrder(t *testing.T) {
	records := []Record{
		{ID: 5, Title: "alpha one"},
		{ID: 3, Title: "beta"},
		{ID: 9, Title: "alpha two"},
		{ID: 1, Title: "ALPHA three"},
	}
	got := Filter(records, "alpha")

	var ids []int
	for _, r := range got {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []int{5, 9, 1}, ids)
}

func TestFilter_Idempotent(t *testing.T) {
	records := []Record{
		{ID: 1, Title: "delectus aut autem"},
		{ID: 2, Title: "quis ut nam facilis"},
		{ID: 3, Title: "fugiat veniam minus"},
		{ID: 4, Title: "et porro tempora"},
	}
	for _, q := range []string{"", "ut", "a", "ET", "nothing here"} {
		once := Filter(records, q)
		twice := Filter(once, q)
		assert.Equal(t, once, twice, "query %q", q)
	}
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	records := sample()
	_ = Filter(records, "house")
	assert.Equal(t, sample(), records)
}

func TestFilter_WhitespaceQueryIsLiteral(t *testing.T) {
	got := Filter([]Record{{ID: 1, Title: "one"}, {ID: 2, Title: "two words"}}, " ")
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].ID)
}

func TestCounts(t *testing.T) {
	done, pending := Counts(sample())
	assert.Equal(t, 1, done)
	assert.Equal(t, 1, pending)

	done, pending = Counts(nil)
	assert.Zero(t, done)
	assert.Zero(t, pending)
}

func TestRecord_DecodeIgnoresUnknownFields(t *testing.T) {
	var got []Record
	err := json.Unmarshal([]byte(`[{"userId":1,"id":1,"title":"delectus aut autem","completed":false}]`), &got)
	require.NoError(t, err)
	assert.Equal(t, []Record{{ID: 1, Title: "delectus aut autem"}}, got)
}
