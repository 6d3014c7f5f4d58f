package experiment

import "github.com/programme-lv/algobench/internal/aggregate"

// Gatherer receives the driver's progress as it happens.
type Gatherer interface {
	StartFamily(fam Family, cfg Config)
	ReachParam(fam Family, n int)
	FinishResult(fam Family, res aggregate.Result)
	FinishFamily(out *Outcome)
}

// Gatherers fans events out to every member in order.
type Gatherers []Gatherer

func (gs Gatherers) StartFamily(fam Family, cfg Config) {
	for _, g := range gs {
		g.StartFamily(fam, cfg)
	}
}

func (gs Gatherers) ReachParam(fam Family, n int) {
	for _, g := range gs {
		g.ReachParam(fam, n)
	}
}

func (gs Gatherers) FinishResult(fam Family, res aggregate.Result) {
	for _, g := range gs {
		g.FinishResult(fam, res)
	}
}

func (gs Gatherers) FinishFamily(out *Outcome) {
	for _, g := range gs {
		g.FinishFamily(out)
	}
}
