package sqlload

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/viant/assertly"

	"tabula/scalar"
)

// fakeRows serves fixed values through the pgx.Rows surface.
type fakeRows struct {
	names  []string
	values [][]any
	pos    int
	err    error
}

var _ pgx.Rows = (*fakeRows)(nil)

func (r *fakeRows) Close()                        {}
func (r *fakeRows) Err() error                    { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag { return pgconn.CommandTag{} }

func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription {
	out := make([]pgconn.FieldDescription, len(r.names))
	for i, name := range r.names {
		out[i].Name = name
	}
	return out
}

func (r *fakeRows) Next() bool {
	if r.err != nil || r.pos >= len(r.values) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Scan(dest ...any) error { return fmt.Errorf("not implemented") }
func (r *fakeRows) Values() ([]any, error) { return r.values[r.pos-1], nil }
func (r *fakeRows) RawValues() [][]byte    { return nil }
func (r *fakeRows) Conn() *pgx.Conn        { return nil }

func TestFromPGX_WidensAndPromotes(t *testing.T) {
	rows := &fakeRows{
		names: []string{"id", "name", "score"},
		values: [][]any{
			{int32(1), "ada", float32(9.5)},
			{int32(2), "grace", float32(8.25)},
		},
	}

	df, err := FromPGX(rows, Options{IndexColumns: []string{"id"}, Cached: true})
	if !assert.Nil(t, err) {
		return
	}
	assertly.AssertValues(t, []any{int64(1), int64(2)}, df.Index().ToList(), "int32 labels widen to int64")
	assertly.AssertValues(t, [][]any{{"ada", 9.5}, {"grace", 8.25}}, df.ToRows(), "float32 cells widen to float64")

	pos, err := df.Index().GetLoc(int64(2))
	assert.Nil(t, err)
	assert.EqualValues(t, 1, pos)
}

func TestFromPGX_MultiLevel(t *testing.T) {
	rows := &fakeRows{
		names: []string{"region", "name", "qty"},
		values: [][]any{
			{"north", "apple", int64(10)},
			{"south", "apple", int64(30)},
		},
	}

	df, err := FromPGX(rows, Options{IndexColumns: []string{"region", "name"}})
	if !assert.Nil(t, err) {
		return
	}
	pos, err := df.Multi().GetLoc(scalar.Tuple{"south", "apple"})
	assert.Nil(t, err)
	assert.EqualValues(t, 1, pos)
	assertly.AssertValues(t, []any{"qty"}, df.Columns().ToList(), "remaining columns")
}

func TestFromPGX_EmptyResult(t *testing.T) {
	rows := &fakeRows{names: []string{"region", "name"}}

	df, err := FromPGX(rows, Options{IndexColumns: []string{"region", "name"}})
	if !assert.Nil(t, err) {
		return
	}
	r, c := df.Shape()
	assert.EqualValues(t, 0, r)
	assert.EqualValues(t, 0, c)
	assert.EqualValues(t, 2, df.Multi().Levels(), "level count survives an empty result")
}

func TestFromPGX_ErrPropagates(t *testing.T) {
	boom := errors.New("connection reset")
	rows := &fakeRows{names: []string{"a"}, values: [][]any{{int64(1)}}, err: boom}

	_, err := FromPGX(rows, Options{})
	assert.True(t, errors.Is(err, boom), "driver error must surface, got %v", err)
}
