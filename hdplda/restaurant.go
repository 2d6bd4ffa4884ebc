package hdplda

import (
	"fmt"

	"github.com/tomoris/HDPLDA/defaultdict"
)

// restaurant is the partition of one document into tables.
type restaurant struct {
	tables        idPool
	customerCount []int                        // n_jt: number of terms at each table
	termCount     []*defaultdict.Map[int, int] // n_jtv: term to count at each table
	dish          []int                        // dish of each table, 0 = not seated
	termTable     []int                        // t_ji: table of each term, 0 = not assigned
}

func newRestaurant(nterms int) *restaurant {
	rst := new(restaurant)
	rst.tables = newIDPool()
	// slot 0 is never a real table
	rst.customerCount = make([]int, 1, 4)
	rst.termCount = make([]*defaultdict.Map[int, int], 1, 4)
	rst.dish = make([]int, 1, 4)
	rst.termTable = make([]int, nterms)
	return rst
}

// openTable materializes slot tid with zero counts and no dish.
func (rst *restaurant) openTable(tid int) {
	for len(rst.customerCount) <= tid {
		rst.customerCount = append(rst.customerCount, 0)
		rst.termCount = append(rst.termCount, nil)
		rst.dish = append(rst.dish, 0)
	}
	rst.customerCount[tid] = 0
	rst.termCount[tid] = defaultdict.New[int, int](0)
	rst.dish[tid] = 0
}

func (rst *restaurant) closeTable(tid int) {
	rst.tables.release(tid)
	rst.termCount[tid] = nil
}

func (rst *restaurant) addCustomer(i int, tid int, v int) {
	rst.termTable[i] = tid
	rst.customerCount[tid]++
	rst.termCount[tid].Add(v, 1)
}

// removeCustomer takes term i off its table and reports whether the table
// is now empty.
func (rst *restaurant) removeCustomer(i int, v int) (int, bool) {
	tid := rst.termTable[i]
	if rst.termCount[tid].Get(v) <= 0 {
		errMsg := fmt.Sprintf("remove error. term (%v) is not counted at table (%v)", v, tid)
		panic(errMsg)
	}
	rst.termTable[i] = 0
	rst.customerCount[tid]--
	rst.termCount[tid].Add(v, -1)
	if rst.termCount[tid].Get(v) == 0 {
		rst.termCount[tid].Delete(v)
	}
	return tid, rst.customerCount[tid] == 0
}

func (rst *restaurant) assignedTerms() int {
	n := 0
	for _, tid := range rst.termTable {
		if tid != 0 {
			n++
		}
	}
	return n
}
