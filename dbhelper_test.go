package dbhelper_test

import (
	"dbhelper"
	"dbhelper/access"
	"dbhelper/bvalue"
	"dbhelper/codec"
	"dbhelper/engine"
	"dbhelper/predicate"
	"dbhelper/storage"
	"dbhelper/txid"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Person struct {
	ID   string `bson:"_id"`
	Name string `bson:"name"`
	Age  int    `bson:"age"`
}

func (*Person) EntityName() string       { return "person" }
func (p *Person) RecordID() bvalue.Value { return bvalue.FromString(p.ID) }

var backends = map[string]func(t *testing.T) storage.Storage[[]byte]{
	"prefix tree": func(*testing.T) storage.Storage[[]byte] {
		return storage.NewPrefixTreeStorage[[]byte]()
	},
	"ordered": func(*testing.T) storage.Storage[[]byte] {
		return storage.NewOrderedStorage[[]byte]()
	},
	"sqlite": func(t *testing.T) storage.Storage[[]byte] {
		stg, err := storage.OpenSQLite(filepath.Join(t.TempDir(), "people.db"))
		require.NoError(t, err)
		return stg
	},
}

func arrange(t *testing.T, stg storage.Storage[[]byte]) *engine.Engine {
	t.Helper()

	model := engine.NewModel()
	require.NoError(t, engine.Register(model, codec.NewBsonCodec[*Person]()))

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	e := engine.New(stg, model, &txid.MxIssuer{}, engine.WithLogger(log))
	t.Cleanup(func() { e.Close() })
	return e
}

func people(t *testing.T, e *engine.Engine) dbhelper.RecordStore[*Person, predicate.Predicate] {
	t.Helper()

	ctx := access.NewContext(e)
	t.Cleanup(func() { ctx.Close() })
	s, err := access.Use[*Person](ctx)
	require.NoError(t, err)
	return s
}

func names(recs []*Person) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Name
	}
	return out
}

func TestPeopleByAge(t *testing.T) {
	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			// arrange
			e := arrange(t, open(t))
			store := people(t, e)
			for _, p := range []*Person{{"a", "ann", 20}, {"b", "ben", 30}, {"c", "cid", 40}} {
				require.NoError(t, store.Create(p))
			}
			older := mo.Some(predicate.Field("age").Gt(25))

			// act
			all, allErr := store.Fetch(older, mo.None[int]()).Get()
			one, oneErr := store.Fetch(older, mo.Some(1)).Get()
			none, noneErr := store.FetchFirst(mo.Some(predicate.Field("age").Gt(100))).Get()

			// assert
			require.NoError(t, allErr)
			require.NoError(t, oneErr)
			require.NoError(t, noneErr)
			assert.ElementsMatch(t, []string{"ben", "cid"}, names(all))
			require.Len(t, one, 1)
			assert.Contains(t, []string{"ben", "cid"}, one[0].Name)
			assert.False(t, none.IsPresent())
		})
	}
}

func TestContractProperties(t *testing.T) {
	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			e := arrange(t, open(t))
			store := people(t, e)
			ann := &Person{"a", "ann", 20}
			require.NoError(t, store.Create(ann))
			require.NoError(t, store.Create(&Person{"b", "ben", 30}))
			isAnn := mo.Some(predicate.Field("_id").Eq("a"))

			// round trip through a fresh context
			found, err := people(t, e).Fetch(isAnn, mo.None[int]()).Get()
			require.NoError(t, err)
			require.Len(t, found, 1)
			assert.Equal(t, *ann, *found[0])

			// fetching twice gives the same answer
			first, _ := store.Fetch(mo.None[predicate.Predicate](), mo.None[int]()).Get()
			second, _ := store.Fetch(mo.None[predicate.Predicate](), mo.None[int]()).Get()
			assert.Equal(t, first, second)

			// limits
			zero, _ := store.Fetch(mo.None[predicate.Predicate](), mo.Some(0)).Get()
			many, _ := store.Fetch(mo.None[predicate.Predicate](), mo.Some(10)).Get()
			assert.Empty(t, zero)
			assert.Len(t, many, 2)

			// fetchFirst agrees with a limit of one
			head, _ := store.FetchFirst(mo.None[predicate.Predicate]()).Get()
			assert.Equal(t, many[0], head.MustGet())

			// deleted records are gone
			require.NoError(t, store.Delete(ann))
			gone, err := people(t, e).Fetch(isAnn, mo.None[int]()).Get()
			require.NoError(t, err)
			assert.Empty(t, gone)
		})
	}
}
