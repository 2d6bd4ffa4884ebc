// Package hdplda holds the state of a collapsed Gibbs sampler for HDP-LDA in
// the Chinese restaurant franchise form: documents are restaurants, local
// clusters are tables and global topics are dishes.
//
// State keeps the partition and the sufficient statistics consistent while
// a driving loop unseats and reseats terms, tables and dishes. It performs
// no locking; callers serialize access.
package hdplda

import (
	"fmt"
	"log/slog"

	"github.com/cheggaaa/pb/v3"

	"github.com/tomoris/HDPLDA/dirichlet"
)

// MaxVocabularySize is the largest vocabulary a State supports.
const MaxVocabularySize = dirichlet.MaxVocabularySize

// MaxID is the largest table or dish id. Tables and dishes are stored in
// slices indexed by id, so ids are kept dense and bounded.
const MaxID = 1 << 20

// ModelDefinition fixes the number of entities (documents) and the
// vocabulary size.
type ModelDefinition struct {
	n int
	v int
}

// NewModelDefinition returns a ModelDefinition for n entities over a
// vocabulary of v terms.
func NewModelDefinition(n, v int) (ModelDefinition, error) {
	if n < 0 {
		return ModelDefinition{}, fmt.Errorf("hdplda: entity count (%v) is negative: %w", n, ErrInvalidConfig)
	}
	if v < 1 || v > MaxVocabularySize {
		return ModelDefinition{}, fmt.Errorf("hdplda: vocabulary size (%v) out of range [1, %v]: %w", v, MaxVocabularySize, ErrInvalidConfig)
	}
	return ModelDefinition{n: n, v: v}, nil
}

// N returns the number of entities.
func (def ModelDefinition) N() int { return def.n }

// V returns the vocabulary size.
func (def ModelDefinition) V() int { return def.v }

// Ref names either an existing table or dish, or asks for a fresh one.
type Ref struct {
	id    int
	fresh bool
}

// RequestNew asks the state to allocate a fresh table or dish.
var RequestNew = Ref{fresh: true}

// Existing refers to the table or dish id.
func Existing(id int) Ref {
	return Ref{id: id}
}

// IsNew reports whether r asks for a fresh id.
func (r Ref) IsNew() bool { return r.fresh }

// ID returns the referenced id, or 0 for RequestNew.
func (r Ref) ID() int { return r.id }

func (r Ref) String() string {
	if r.fresh {
		return "new"
	}
	return fmt.Sprintf("%d", r.id)
}

// Rand is the random source consumed by the initial seating.
// *random.Source implements it.
type Rand interface {
	Float64() float64
	Categorical(weights []float64) int
}

// State is the seating state of the sampler.
type State struct {
	def   ModelDefinition
	alpha float64 // concentration of each document's DP over tables
	beta  float64 // symmetric Dirichlet prior of each topic's word distribution
	gamma float64 // concentration of the top-level DP over dishes

	docs        [][]int // x_ji: term of each document and position
	restaurants []*restaurant
	dishes      *dishRegistry

	logger      *slog.Logger
	progress    bool
	parallelism int
}

// NewState builds the state for docs and seats every term with
// Chinese-restaurant draws from rng: an existing table with weight equal to
// its size, a new table with weight alpha, and for a new table an existing
// dish with weight equal to the tables serving it or a new dish with weight
// gamma.
func NewState(def ModelDefinition, alpha, beta, gamma float64, docs [][]int, rng Rand, opts ...Option) (*State, error) {
	if rng == nil {
		return nil, fmt.Errorf("hdplda: nil random source: %w", ErrInvalidConfig)
	}
	s, err := newEmptyState(def, alpha, beta, gamma, docs, buildOptions(opts))
	if err != nil {
		return nil, err
	}
	if err := s.seatAll(rng); err != nil {
		return nil, err
	}
	s.logger.Debug("hdplda: state initialized",
		"entities", s.NEntities(),
		"terms", s.totalTerms(),
		"tables", s.M(),
		"topics", s.NTopics())
	return s, nil
}

func newEmptyState(def ModelDefinition, alpha, beta, gamma float64, docs [][]int, o options) (*State, error) {
	if def.v == 0 {
		return nil, fmt.Errorf("hdplda: zero ModelDefinition, use NewModelDefinition: %w", ErrInvalidConfig)
	}
	if !(alpha > 0.0) || !(beta > 0.0) || !(gamma > 0.0) {
		return nil, fmt.Errorf("hdplda: hyperparameters must be positive (alpha %v, beta %v, gamma %v): %w", alpha, beta, gamma, ErrInvalidConfig)
	}
	if len(docs) != def.n {
		return nil, fmt.Errorf("hdplda: got %v documents, model defines %v: %w", len(docs), def.n, ErrInvalidConfig)
	}
	s := &State{
		def:         def,
		alpha:       alpha,
		beta:        beta,
		gamma:       gamma,
		docs:        make([][]int, len(docs)),
		restaurants: make([]*restaurant, len(docs)),
		logger:      o.logger,
		progress:    o.progress,
		parallelism: o.parallelism,
	}
	for j, doc := range docs {
		for i, v := range doc {
			if v < 0 || v >= def.v {
				return nil, fmt.Errorf("hdplda: term (%v) at document %v position %v out of range [0, %v): %w", v, j, i, def.v, ErrInvalidConfig)
			}
		}
		s.docs[j] = append([]int(nil), doc...)
		s.restaurants[j] = newRestaurant(len(doc))
	}
	s.dishes = newDishRegistry(def.v, beta, o.newStats(def.v, beta))
	return s, nil
}

func (s *State) seatAll(rng Rand) error {
	var bar *pb.ProgressBar
	if s.progress {
		bar = pb.StartNew(len(s.docs))
		defer bar.Finish()
	}
	weights := make([]float64, 0, 16)
	for j, doc := range s.docs {
		rst := s.restaurants[j]
		for i := range doc {
			tables := rst.tables.ids()
			weights = weights[:0]
			for _, t := range tables {
				weights = append(weights, float64(rst.customerCount[t]))
			}
			weights = append(weights, s.alpha)
			c := rng.Categorical(weights)
			if c < 0 || c > len(tables) {
				panic(fmt.Sprintf("sampling error in NewState. table draw (%v) out of range", c))
			}

			var tid int
			if c == len(tables) {
				dish := s.sampleDish(rng, weights)
				var err error
				tid, err = s.CreateTable(j, dish)
				if err != nil {
					return err
				}
			} else {
				tid = tables[c]
			}
			if err := s.SeatAtTable(j, i, tid); err != nil {
				return err
			}
		}
		if bar != nil {
			bar.Increment()
		}
	}
	return nil
}

func (s *State) sampleDish(rng Rand, buf []float64) Ref {
	dishes := s.dishes.dishes.ids()
	weights := buf[:0]
	for _, k := range dishes {
		weights = append(weights, float64(s.dishes.tableCount[k]))
	}
	weights = append(weights, s.gamma)
	c := rng.Categorical(weights)
	if c < 0 || c > len(dishes) {
		panic(fmt.Sprintf("sampling error in NewState. dish draw (%v) out of range", c))
	}
	if c == len(dishes) {
		return RequestNew
	}
	return Existing(dishes[c])
}

// CreateTable opens a fresh table in entity eid and seats it at dish,
// creating the dish first if dish is RequestNew. It returns the table id.
func (s *State) CreateTable(eid int, dish Ref) (int, error) {
	if err := s.checkEntity(eid); err != nil {
		return 0, err
	}
	if err := s.checkDishRef(dish); err != nil {
		return 0, err
	}
	rst := s.restaurants[eid]
	tid := rst.tables.acquire()
	rst.openTable(tid)
	s.seatAtDish(eid, tid, s.resolveDish(dish))
	return tid, nil
}

// AddTable attaches table tid to document did's table set with zero counts
// and no dish. Entities are documents, so did must equal eid. It changes no
// count.
func (s *State) AddTable(eid, tid, did int) error {
	if err := s.checkEntity(eid); err != nil {
		return err
	}
	if did != eid {
		return fmt.Errorf("hdplda: AddTable: document (%v) does not own entity (%v): %w", did, eid, ErrInvalidIndex)
	}
	if tid < 1 || tid > MaxID {
		return fmt.Errorf("hdplda: AddTable: table id (%v) out of range [1, %v]: %w", tid, MaxID, ErrInvalidIndex)
	}
	rst := s.restaurants[eid]
	if !rst.tables.claim(tid) {
		return fmt.Errorf("hdplda: AddTable: table (%v) of entity (%v) is already active: %w", tid, eid, ErrPrecondition)
	}
	rst.openTable(tid)
	return nil
}

// RemoveTable detaches table tid from its dish, folding its term counts
// out of the dish and deleting the dish if it serves no other table. The
// table slot stays active until DeleteTable.
func (s *State) RemoveTable(eid, tid int) error {
	if err := s.checkTable(eid, tid); err != nil {
		return err
	}
	if s.restaurants[eid].dish[tid] != 0 {
		s.leaveFromDish(eid, tid)
	}
	return nil
}

// DeleteTable frees table tid. The table must hold no term and be detached
// from its dish.
func (s *State) DeleteTable(eid, tid int) error {
	if err := s.checkTable(eid, tid); err != nil {
		return err
	}
	rst := s.restaurants[eid]
	if rst.customerCount[tid] != 0 {
		return fmt.Errorf("hdplda: DeleteTable: table (%v) of entity (%v) holds %v terms: %w", tid, eid, rst.customerCount[tid], ErrPrecondition)
	}
	if rst.dish[tid] != 0 {
		return fmt.Errorf("hdplda: DeleteTable: table (%v) of entity (%v) is seated at dish (%v): %w", tid, eid, rst.dish[tid], ErrPrecondition)
	}
	rst.closeTable(tid)
	return nil
}

// TableSize returns the number of terms at table tid.
func (s *State) TableSize(eid, tid int) (int, error) {
	if err := s.checkTable(eid, tid); err != nil {
		return 0, err
	}
	return s.restaurants[eid].customerCount[tid], nil
}

// CreateDish opens a fresh dish with baseline counts and returns its id.
// It serves no table until SeatAtDish, but is listed by Dishes() and the
// distribution views until it is seated and left or deleted.
func (s *State) CreateDish() int {
	return s.dishes.create()
}

// SeatAtDish seats table tid at dish, creating the dish first if dish is
// RequestNew, and returns the dish id. The table must not be seated.
func (s *State) SeatAtDish(eid, tid int, dish Ref) (int, error) {
	if err := s.checkTable(eid, tid); err != nil {
		return 0, err
	}
	if k := s.restaurants[eid].dish[tid]; k != 0 {
		return 0, fmt.Errorf("hdplda: SeatAtDish: table (%v) of entity (%v) is already seated at dish (%v): %w", tid, eid, k, ErrPrecondition)
	}
	if err := s.checkDishRef(dish); err != nil {
		return 0, err
	}
	k := s.resolveDish(dish)
	s.seatAtDish(eid, tid, k)
	return k, nil
}

// LeaveFromDish undoes SeatAtDish for table tid. If the dish serves no other
// table it is deleted.
func (s *State) LeaveFromDish(eid, tid int) error {
	if err := s.checkTable(eid, tid); err != nil {
		return err
	}
	if s.restaurants[eid].dish[tid] == 0 {
		return fmt.Errorf("hdplda: LeaveFromDish: table (%v) of entity (%v) is not seated: %w", tid, eid, ErrPrecondition)
	}
	s.leaveFromDish(eid, tid)
	return nil
}

// DeleteDish removes dish k. The dish must serve no table.
func (s *State) DeleteDish(k int) error {
	if err := s.checkDish(k); err != nil {
		return err
	}
	if n := s.dishes.tableCount[k]; n != 0 {
		return fmt.Errorf("hdplda: DeleteDish: dish (%v) serves %v tables: %w", k, n, ErrPrecondition)
	}
	if n := s.dishes.observed(k); n != 0 {
		return fmt.Errorf("hdplda: DeleteDish: dish (%v) still counts %v terms: %w", k, n, ErrPrecondition)
	}
	s.dishes.destroy(k)
	return nil
}

// SeatAtTable seats term i of entity eid at table tid. The term must not be
// assigned. If the table is seated at a dish, the dish counts follow.
func (s *State) SeatAtTable(eid, i, tid int) error {
	if err := s.checkTerm(eid, i); err != nil {
		return err
	}
	if err := s.checkTable(eid, tid); err != nil {
		return err
	}
	rst := s.restaurants[eid]
	if cur := rst.termTable[i]; cur != 0 {
		return fmt.Errorf("hdplda: SeatAtTable: term (%v) of entity (%v) already sits at table (%v): %w", i, eid, cur, ErrPrecondition)
	}
	v := s.docs[eid][i]
	rst.addCustomer(i, tid, v)
	if k := rst.dish[tid]; k != 0 {
		s.dishes.addTerm(k, v, 1)
	}
	return nil
}

// LeaveFromTable takes term i of entity eid off its table. A table left
// empty is detached from its dish and deleted.
func (s *State) LeaveFromTable(eid, i int) error {
	if err := s.checkTerm(eid, i); err != nil {
		return err
	}
	rst := s.restaurants[eid]
	if rst.termTable[i] == 0 {
		return fmt.Errorf("hdplda: LeaveFromTable: term (%v) of entity (%v) is not assigned: %w", i, eid, ErrPrecondition)
	}
	v := s.docs[eid][i]
	if k := rst.dish[rst.termTable[i]]; k != 0 {
		s.dishes.removeTerm(k, v, 1)
	}
	tid, empty := rst.removeCustomer(i, v)
	if empty {
		if rst.dish[tid] != 0 {
			s.leaveFromDish(eid, tid)
		}
		rst.closeTable(tid)
	}
	return nil
}

func (s *State) seatAtDish(eid, tid, k int) {
	rst := s.restaurants[eid]
	s.dishes.addTable(k)
	s.dishes.mergeIn(k, rst.termCount[tid])
	rst.dish[tid] = k
}

func (s *State) leaveFromDish(eid, tid int) {
	rst := s.restaurants[eid]
	k := rst.dish[tid]
	s.dishes.mergeOut(k, rst.termCount[tid])
	rst.dish[tid] = 0
	if s.dishes.removeTable(k) {
		s.dishes.destroy(k)
	}
}

func (s *State) resolveDish(dish Ref) int {
	if dish.fresh {
		return s.dishes.create()
	}
	return dish.id
}

func (s *State) checkEntity(eid int) error {
	if eid < 0 || eid >= len(s.docs) {
		return fmt.Errorf("hdplda: entity (%v) out of range [0, %v): %w", eid, len(s.docs), ErrInvalidIndex)
	}
	return nil
}

func (s *State) checkTerm(eid, i int) error {
	if err := s.checkEntity(eid); err != nil {
		return err
	}
	if i < 0 || i >= len(s.docs[eid]) {
		return fmt.Errorf("hdplda: term (%v) of entity (%v) out of range [0, %v): %w", i, eid, len(s.docs[eid]), ErrInvalidIndex)
	}
	return nil
}

func (s *State) checkTable(eid, tid int) error {
	if err := s.checkEntity(eid); err != nil {
		return err
	}
	if !s.restaurants[eid].tables.contains(tid) {
		return fmt.Errorf("hdplda: table (%v) of entity (%v) is not active: %w", tid, eid, ErrInvalidIndex)
	}
	return nil
}

func (s *State) checkDish(k int) error {
	if !s.dishes.contains(k) {
		return fmt.Errorf("hdplda: dish (%v) is not active: %w", k, ErrInvalidIndex)
	}
	return nil
}

func (s *State) checkDishRef(dish Ref) error {
	if dish.fresh {
		return nil
	}
	return s.checkDish(dish.id)
}
