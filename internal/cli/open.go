package cli

import (
	"dbhelper/codec"
	"dbhelper/config"
	"dbhelper/engine"
	"dbhelper/storage"
	"dbhelper/txid"
	"fmt"
)

func (o *RootOptions) openEngine() (*engine.Engine, error) {
	model := engine.NewModel()
	var err error
	switch o.cfg.Codec {
	case "json":
		err = engine.Register(model, codec.NewJsonCodec[*Contact]())
	default:
		err = engine.Register(model, codec.NewBsonCodec[*Contact]())
	}
	if err != nil {
		return nil, err
	}

	var stg storage.Storage[[]byte]
	switch o.cfg.Storage.Backend {
	case config.BackendMemory:
		stg = storage.NewPrefixTreeStorage[[]byte]()
	case config.BackendOrdered:
		stg = storage.NewOrderedStorage[[]byte]()
	case config.BackendSQLite:
		sqlite, err := storage.OpenSQLite(o.cfg.Storage.Path)
		if err != nil {
			return nil, WrapExitError(ExitFailure, "opening database", err)
		}
		stg = sqlite
	default:
		return nil, fmt.Errorf("unknown backend %q", o.cfg.Storage.Backend)
	}

	o.log.Debug("opened storage", "backend", o.cfg.Storage.Backend, "path", o.cfg.Storage.Path, "codec", o.cfg.Codec)
	return engine.New(stg, model, &txid.MxIssuer{}, engine.WithLogger(o.log)), nil
}
