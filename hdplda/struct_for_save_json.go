package hdplda

const snapshotVersion = 1

type tableJSON struct {
	ID   int
	Dish int // 0 = not seated
}

type restaurantJSON struct {
	Tables    []tableJSON
	TermTable []int // table of each term, 0 = not assigned
}

type stateJSON struct {
	Version int

	N     int
	V     int
	Alpha float64
	Beta  float64
	Gamma float64

	Docs        [][]int
	Restaurants []restaurantJSON
}

func (s *State) save() *stateJSON {
	js := &stateJSON{
		Version:     snapshotVersion,
		N:           s.def.n,
		V:           s.def.v,
		Alpha:       s.alpha,
		Beta:        s.beta,
		Gamma:       s.gamma,
		Docs:        s.docs,
		Restaurants: make([]restaurantJSON, len(s.restaurants)),
	}
	for j, rst := range s.restaurants {
		tables := rst.tables.ids()
		rj := restaurantJSON{
			Tables:    make([]tableJSON, len(tables)),
			TermTable: rst.termTable,
		}
		for x, t := range tables {
			rj.Tables[x] = tableJSON{ID: t, Dish: rst.dish[t]}
		}
		js.Restaurants[j] = rj
	}
	return js
}
