package access

import (
	"dbhelper/bvalue"
	"dbhelper/codec"
	"dbhelper/engine"
	"dbhelper/storage"
	"dbhelper/txid"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

type person struct {
	ID   string `bson:"id"`
	Name string `bson:"name"`
	Age  int    `bson:"age"`
}

func (*person) EntityName() string       { return "person" }
func (p *person) RecordID() bvalue.Value { return bvalue.FromString(p.ID) }

type brokenStorage struct {
	storage.Storage[[]byte]
	err error
}

func (b *brokenStorage) Apply(batch *storage.Batch[[]byte]) error {
	if b.err != nil {
		return b.err
	}
	return b.Storage.Apply(batch)
}

func arrange(t *testing.T) (*engine.Engine, *brokenStorage) {
	t.Helper()

	model := engine.NewModel()
	require.NoError(t, engine.Register(model, codec.NewBsonCodec[*person]()))

	stg := &brokenStorage{Storage: storage.NewOrderedStorage[[]byte]()}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return engine.New(stg, model, txid.NewAtomicIssuer(), engine.WithLogger(log)), stg
}

func people(t *testing.T, e *engine.Engine) *Store[*person] {
	t.Helper()

	ctx := NewContext(e)
	t.Cleanup(func() { ctx.Close() })
	s, err := Use[*person](ctx)
	require.NoError(t, err)
	return s
}
