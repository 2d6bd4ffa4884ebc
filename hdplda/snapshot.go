package hdplda

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/klauspost/compress/zstd"
)

// Save writes a zstd-compressed JSON snapshot of the state to w. Only the
// corpus, the hyperparameters and the seating are stored; every count is
// rebuilt by Load.
func (s *State) Save(w io.Writer) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return fmt.Errorf("hdplda: save: %w", err)
	}
	if err := json.NewEncoder(enc).Encode(s.save()); err != nil {
		_ = enc.Close()
		return fmt.Errorf("hdplda: save: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("hdplda: save: %w", err)
	}
	s.logger.Debug("hdplda: snapshot saved", "entities", s.NEntities(), "tables", s.M(), "topics", s.NTopics())
	return nil
}

// Load restores a State written by Save. Table and dish ids are preserved.
func Load(r io.Reader, opts ...Option) (*State, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("hdplda: load: %w", err)
	}
	defer dec.Close()

	var js stateJSON
	if err := json.NewDecoder(dec).Decode(&js); err != nil {
		return nil, fmt.Errorf("hdplda: load: %v: %w", err, ErrInvalidConfig)
	}
	s, err := load(&js, buildOptions(opts))
	if err != nil {
		return nil, err
	}
	s.logger.Debug("hdplda: snapshot loaded", "entities", s.NEntities(), "tables", s.M(), "topics", s.NTopics())
	return s, nil
}

func load(js *stateJSON, o options) (*State, error) {
	if js.Version != snapshotVersion {
		return nil, fmt.Errorf("hdplda: load: snapshot version %v, want %v: %w", js.Version, snapshotVersion, ErrInvalidConfig)
	}
	if len(js.Restaurants) != len(js.Docs) {
		return nil, fmt.Errorf("hdplda: load: %v restaurants for %v documents: %w", len(js.Restaurants), len(js.Docs), ErrInvalidConfig)
	}
	def, err := NewModelDefinition(js.N, js.V)
	if err != nil {
		return nil, err
	}
	s, err := newEmptyState(def, js.Alpha, js.Beta, js.Gamma, js.Docs, o)
	if err != nil {
		return nil, err
	}

	dishes := make(map[int]struct{})
	for _, rj := range js.Restaurants {
		for _, tj := range rj.Tables {
			if tj.Dish != 0 {
				dishes[tj.Dish] = struct{}{}
			}
		}
	}
	ids := make([]int, 0, len(dishes))
	for k := range dishes {
		ids = append(ids, k)
	}
	sort.Ints(ids)
	for _, k := range ids {
		if k < 1 || k > MaxID || !s.dishes.createWithID(k) {
			return nil, fmt.Errorf("hdplda: load: dish id (%v) out of range [1, %v]: %w", k, MaxID, ErrInvalidIndex)
		}
	}

	for j, rj := range js.Restaurants {
		for _, tj := range rj.Tables {
			if err := s.AddTable(j, tj.ID, j); err != nil {
				return nil, err
			}
			if tj.Dish != 0 {
				if _, err := s.SeatAtDish(j, tj.ID, Existing(tj.Dish)); err != nil {
					return nil, err
				}
			}
		}
		if len(rj.TermTable) != len(js.Docs[j]) {
			return nil, fmt.Errorf("hdplda: load: entity (%v) has %v terms, %v table assignments: %w", j, len(js.Docs[j]), len(rj.TermTable), ErrInvalidConfig)
		}
		for i, t := range rj.TermTable {
			if t == 0 {
				continue
			}
			if err := s.SeatAtTable(j, i, t); err != nil {
				return nil, err
			}
		}
	}
	if err := s.ValidateNk(); err != nil {
		return nil, err
	}
	return s, nil
}
