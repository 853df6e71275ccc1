package engine

import (
	"dbhelper/key"
	"dbhelper/predicate"
	"fmt"
	"slices"

	"github.com/samber/mo"
)

// FetchRequest describes one query. A nil Predicate matches every record of
// the entity, an absent Limit means unbounded.
type FetchRequest struct {
	Entity    string
	Predicate predicate.Predicate
	Limit     mo.Option[int]
}

// Fetch returns the records of req.Entity matching req.Predicate, ordered by
// storage key. The predicate sees the session's view: tracked records as they
// are in memory, staged inserts included and staged deletes left out. Matches
// become tracked by the session.
func (s *Session) Fetch(req FetchRequest) ([]Record, error) {
	if s.closed {
		return nil, ErrSessionClosed
	}
	ent, err := s.engine.model.entity(req.Entity)
	if err != nil {
		return nil, err
	}

	limit, bounded := req.Limit.Get()
	if bounded && limit < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLimit, limit)
	}

	out := []Record{}
	if bounded && limit == 0 {
		return out, nil
	}

	rng, err := s.engine.storage.Range(key.Prefix(ent.name))
	if err != nil {
		return nil, fmt.Errorf("range %s: %w", ent.name, err)
	}

	stored := make(map[string][]byte)
	var keys []string
	for rng.Next() {
		k, v := rng.Value()
		stored[k] = v
		keys = append(keys, k)
	}
	for k, t := range s.objects {
		if _, ok := stored[k]; !ok && t.entity == ent && t.state == stateInserted {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)

	for _, k := range keys {
		t, isTracked := s.objects[k]
		if isTracked && t.state == stateDeleted {
			continue
		}

		var rec Record
		if isTracked {
			rec = t.rec
		} else {
			rec, err = ent.decode(stored[k])
			if err != nil {
				return nil, fmt.Errorf("decode %s: %w", k, err)
			}
		}

		if req.Predicate != nil {
			ok, err := req.Predicate.Match(rec, ent.tag)
			if err != nil {
				return nil, fmt.Errorf("evaluate %s on %s: %w", req.Predicate, k, err)
			}
			if !ok {
				continue
			}
		}

		if !isTracked {
			if err := s.attach(&tracked{rec: rec, entity: ent, key: k, snapshot: stored[k], state: statePersistent}); err != nil {
				return nil, err
			}
		}

		out = append(out, rec)
		if bounded && len(out) == limit {
			break
		}
	}

	s.log.Debug("fetched", "entity", ent.name, "predicate", describe(req.Predicate), "limit", req.Limit.OrElse(-1), "matched", len(out))
	return out, nil
}

func describe(p predicate.Predicate) string {
	if p == nil {
		return "<all>"
	}
	return p.String()
}
