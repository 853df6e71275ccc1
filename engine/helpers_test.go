package engine

import (
	"dbhelper/bvalue"
	"dbhelper/codec"
	"dbhelper/storage"
	"dbhelper/txid"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/golang-cz/devslog"
	"github.com/stretchr/testify/require"
)

type person struct {
	ID   string `bson:"id"`
	Name string `bson:"name"`
	Age  int    `bson:"age"`
}

func (*person) EntityName() string       { return "person" }
func (p *person) RecordID() bvalue.Value { return bvalue.FromString(p.ID) }

type pet struct {
	ID      string `bson:"id"`
	Species string `bson:"species"`
}

func (*pet) EntityName() string       { return "pet" }
func (p *pet) RecordID() bvalue.Value { return bvalue.FromString(p.ID) }

// failingStorage lets tests break the storage underneath a session.
type failingStorage struct {
	storage.Storage[[]byte]
	applyErr error
	rangeErr error
}

func (f *failingStorage) Apply(b *storage.Batch[[]byte]) error {
	if f.applyErr != nil {
		return f.applyErr
	}
	return f.Storage.Apply(b)
}

func (f *failingStorage) Range(prefix string) (storage.Range[string, []byte], error) {
	if f.rangeErr != nil {
		return nil, f.rangeErr
	}
	return f.Storage.Range(prefix)
}

func testLogger() *slog.Logger {
	if !testing.Verbose() {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(devslog.NewHandler(os.Stdout, &devslog.Options{
		HandlerOptions: &slog.HandlerOptions{Level: slog.LevelDebug, AddSource: true},
	}))
}

func arrange(t *testing.T) (*Engine, *failingStorage) {
	t.Helper()

	model := NewModel()
	require.NoError(t, Register(model, codec.NewBsonCodec[*person]()))
	require.NoError(t, Register(model, codec.NewJsonCodec[*pet]()))

	stg := &failingStorage{Storage: storage.NewPrefixTreeStorage[[]byte]()}
	return New(stg, model, &txid.MxIssuer{}, WithLogger(testLogger())), stg
}

func seed(t *testing.T, e *Engine, people ...*person) {
	t.Helper()

	s := e.NewSession()
	defer s.Close()
	for _, p := range people {
		require.NoError(t, s.Insert(p))
	}
	require.NoError(t, s.Save())
}

func fetchAll(t *testing.T, s *Session) []*person {
	t.Helper()

	recs, err := s.Fetch(FetchRequest{Entity: "person"})
	require.NoError(t, err)

	out := make([]*person, len(recs))
	for i, r := range recs {
		out[i] = r.(*person)
	}
	return out
}

func ids(people []*person) []string {
	out := make([]string, len(people))
	for i, p := range people {
		out[i] = p.ID
	}
	return out
}
