package hdplda

import (
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/tomoris/HDPLDA/defaultdict"
)

// Alpha returns the document-level concentration.
func (s *State) Alpha() float64 { return s.alpha }

// Beta returns the topic-word Dirichlet prior.
func (s *State) Beta() float64 { return s.beta }

// Gamma returns the top-level concentration.
func (s *State) Gamma() float64 { return s.gamma }

// Definition returns the model definition.
func (s *State) Definition() ModelDefinition { return s.def }

// NEntities returns the number of documents.
func (s *State) NEntities() int { return len(s.docs) }

// NWords returns the vocabulary size.
func (s *State) NWords() int { return s.def.v }

// NTerms returns the length of document eid. It panics if eid is out of
// range.
func (s *State) NTerms(eid int) int {
	s.mustEntity(eid)
	return len(s.docs[eid])
}

// NTopics returns the number of active dishes.
func (s *State) NTopics() int { return s.dishes.dishes.len() }

// NTables returns the number of active tables in document eid. It panics
// if eid is out of range.
func (s *State) NTables(eid int) int {
	s.mustEntity(eid)
	return s.restaurants[eid].tables.len()
}

// M returns the number of active tables across all documents.
func (s *State) M() int { return s.dishes.m }

// Dishes returns the active dish ids, ascending.
func (s *State) Dishes() []int { return s.dishes.dishes.ids() }

// Tables returns the active table ids of document eid, ascending. It panics
// if eid is out of range.
func (s *State) Tables(eid int) []int {
	s.mustEntity(eid)
	return s.restaurants[eid].tables.ids()
}

// Stats returns the per-dish accumulator. Callers must not mutate it.
func (s *State) Stats() SuffStats { return s.dishes.stats }

// Document returns the terms of document eid. Callers must not mutate it.
// It panics if eid is out of range.
func (s *State) Document(eid int) []int {
	s.mustEntity(eid)
	return s.docs[eid]
}

// mustEntity is checkEntity for accessors that have no error result.
func (s *State) mustEntity(eid int) {
	if err := s.checkEntity(eid); err != nil {
		panic(err.Error())
	}
}

// TableCount returns m_k, the number of tables serving dish k.
// Inactive dishes read 0.
func (s *State) TableCount(k int) int {
	if !s.dishes.contains(k) {
		return 0
	}
	return s.dishes.tableCount[k]
}

// Nk returns n_k, the number of terms served by dish k plus beta * V.
// Inactive dishes read the baseline.
func (s *State) Nk(k int) float64 {
	return s.dishes.termTotal.Get(k)
}

// Nkv returns n_kv, the number of occurrences of term v served by dish k
// plus beta. Inactive dishes read the baseline.
func (s *State) Nkv(k, v int) float64 {
	if !s.dishes.contains(k) {
		return s.beta
	}
	return s.dishes.termCount[k].Get(v)
}

// DishOf returns the dish table tid is seated at, 0 if it is detached.
func (s *State) DishOf(eid, tid int) (int, error) {
	if err := s.checkTable(eid, tid); err != nil {
		return 0, err
	}
	return s.restaurants[eid].dish[tid], nil
}

// Assignments returns, for each document, the table of each term.
// 0 marks an unassigned term.
func (s *State) Assignments() [][]int {
	return s.TableAssignments()
}

// TableAssignments returns, for each document, the table of each term.
// 0 marks an unassigned term.
func (s *State) TableAssignments() [][]int {
	out := make([][]int, len(s.restaurants))
	for j, rst := range s.restaurants {
		out[j] = append([]int(nil), rst.termTable...)
	}
	return out
}

// DishAssignments returns, for each document, the dish of each table
// indexed by table id. Slot 0 and inactive slots read 0.
func (s *State) DishAssignments() [][]int {
	out := make([][]int, len(s.restaurants))
	for j, rst := range s.restaurants {
		row := make([]int, rst.tables.span())
		for _, t := range rst.tables.ids() {
			row[t] = rst.dish[t]
		}
		out[j] = row
	}
	return out
}

// WordDistribution returns the posterior mean word distribution of each
// active dish, in Dishes() order: p(v|k) = n_kv[k][v] / n_k[k]. Unseen terms
// read the default beta / n_k[k]. A dish from CreateDish that serves no
// table yet is listed with the uniform distribution 1/V.
func (s *State) WordDistribution() []*defaultdict.Map[int, float64] {
	dishes := s.Dishes()
	phi := make([]*defaultdict.Map[int, float64], len(dishes))
	for x, k := range dishes {
		nk := s.Nk(k)
		dist := defaultdict.New[int, float64](s.beta / nk)
		s.dishes.termCount[k].Range(func(v int, nkv float64) bool {
			dist.Set(v, nkv/nk)
			return true
		})
		phi[x] = dist
	}
	return phi
}

// DocumentDistribution returns, for each document, a distribution over
// topics. Column 0 is the mass reserved for an unseen topic and column x+1
// belongs to Dishes()[x]. Each row sums to 1. The column of a dish from
// CreateDish that serves no table yet reads 0.
func (s *State) DocumentDistribution() [][]float64 {
	dishes := s.Dishes()
	column := make(map[int]int, len(dishes))
	prior := make([]float64, len(dishes)+1)
	prior[0] = s.gamma
	for x, k := range dishes {
		column[k] = x + 1
		prior[x+1] = float64(s.dishes.tableCount[k])
	}
	floats.Scale(s.alpha/(float64(s.M())+s.gamma), prior)

	theta := make([][]float64, len(s.restaurants))
	for j, rst := range s.restaurants {
		p := append([]float64(nil), prior...)
		for _, t := range rst.tables.ids() {
			if k := rst.dish[t]; k != 0 {
				p[column[k]] += float64(rst.customerCount[t])
			}
		}
		floats.Scale(1.0/floats.Sum(p), p)
		theta[j] = p
	}
	return theta
}

// Perplexity returns exp of the negative mean log predictive probability of
// the corpus under WordDistribution and DocumentDistribution, with a
// uniform word distribution for the unseen topic. It returns NaN for an
// empty corpus. State is not modified.
func (s *State) Perplexity() float64 {
	phi := s.WordDistribution()
	theta := s.DocumentDistribution()
	uniform := 1.0 / float64(s.def.v)

	logLikelihoods := make([]float64, len(s.docs))
	var g errgroup.Group
	g.SetLimit(s.parallelism)
	for j, doc := range s.docs {
		g.Go(func() error {
			pjk := theta[j]
			ll := 0.0
			for _, v := range doc {
				p := pjk[0] * uniform
				for x, dist := range phi {
					p += pjk[x+1] * dist.Get(v)
				}
				ll += math.Log(p)
			}
			logLikelihoods[j] = ll
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		panic(fmt.Sprintf("perplexity error. %v", err))
	}

	n := s.totalTerms()
	if n == 0 {
		return math.NaN()
	}
	return math.Exp(-floats.Sum(logLikelihoods) / float64(n))
}

// ScoreAssignment is not implemented.
func (s *State) ScoreAssignment() (float64, error) {
	return 0, fmt.Errorf("hdplda: ScoreAssignment: %w", ErrNotImplemented)
}

// ScoreData is not implemented.
func (s *State) ScoreData(rng Rand) (float64, error) {
	return 0, fmt.Errorf("hdplda: ScoreData: %w", ErrNotImplemented)
}

// ValidateNk recomputes every dish aggregate from the data underneath it
// and returns ErrInvariantViolation on the first mismatch. It walks the
// whole state and is meant for tests and debugging.
func (s *State) ValidateNk() error {
	dishes := s.Dishes()
	served := make(map[int]int, len(dishes))
	tables := make(map[int]int, len(dishes))
	m := 0
	for j, rst := range s.restaurants {
		assigned := 0
		for _, t := range rst.tables.ids() {
			assigned += rst.customerCount[t]
			if rst.termCount[t].SumOffsets() != rst.customerCount[t] {
				return fmt.Errorf("hdplda: table (%v) of entity (%v) counts %v terms, its term map sums to %v: %w",
					t, j, rst.customerCount[t], rst.termCount[t].SumOffsets(), ErrInvariantViolation)
			}
			if k := rst.dish[t]; k != 0 {
				if !s.dishes.contains(k) {
					return fmt.Errorf("hdplda: table (%v) of entity (%v) is seated at inactive dish (%v): %w", t, j, k, ErrInvariantViolation)
				}
				served[k] += rst.customerCount[t]
				tables[k]++
				m++
			}
		}
		if n := rst.assignedTerms(); n != assigned {
			return fmt.Errorf("hdplda: entity (%v) has %v assigned terms, its tables hold %v: %w", j, n, assigned, ErrInvariantViolation)
		}
	}
	if m != s.dishes.m {
		return fmt.Errorf("hdplda: m is %v, tables seated at dishes number %v: %w", s.dishes.m, m, ErrInvariantViolation)
	}

	counting, _ := s.dishes.stats.(countingStats)
	for _, k := range dishes {
		nk := s.dishes.observed(k)
		sumNkv := s.dishes.termCount[k].SumOffsets()
		if nk != sumNkv {
			return fmt.Errorf("hdplda: dish (%v) n_k - beta*V is %v, sum of n_kv - beta is %v: %w", k, nk, sumNkv, ErrInvariantViolation)
		}
		if nk != float64(served[k]) {
			return fmt.Errorf("hdplda: dish (%v) n_k - beta*V is %v, its tables hold %v: %w", k, nk, served[k], ErrInvariantViolation)
		}
		if mk := s.dishes.tableCount[k]; mk != tables[k] {
			return fmt.Errorf("hdplda: dish (%v) m_k is %v, %v tables are seated at it: %w", k, mk, tables[k], ErrInvariantViolation)
		}
		if counting != nil {
			if total := counting.Total(k); float64(total) != nk {
				return fmt.Errorf("hdplda: dish (%v) accumulator holds %v terms, n_k - beta*V is %v: %w", k, total, nk, ErrInvariantViolation)
			}
			var mismatch error
			s.dishes.termCount[k].Range(func(v int, _ float64) bool {
				if c := counting.Count(k, v); float64(c) != s.dishes.termCount[k].Offset(v) {
					mismatch = fmt.Errorf("hdplda: dish (%v) accumulator counts term (%v) %v times, n_kv - beta is %v: %w",
						k, v, c, s.dishes.termCount[k].Offset(v), ErrInvariantViolation)
					return false
				}
				return true
			})
			if mismatch != nil {
				return mismatch
			}
		}
	}
	return nil
}

func (s *State) totalTerms() int {
	n := 0
	for _, doc := range s.docs {
		n += len(doc)
	}
	return n
}
