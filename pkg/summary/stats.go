package summary

import (
	"context"

	"github.com/gnames/gncat/pkg/groups"
	"github.com/gnames/gncat/pkg/record"
	"golang.org/x/sync/errgroup"
)

// Stats are headline numbers of a collection.
type Stats struct {
	TotalRecords    int `json:"totalRecords"`
	TotalSpecimens  int `json:"totalSpecimens"`
	UniqueSpecies   int `json:"uniqueSpecies"`
	UniqueGenera    int `json:"uniqueGenera"`
	UniqueFamilies  int `json:"uniqueFamilies"`
	UniqueOrders    int `json:"uniqueOrders"`
	UniqueLocations int `json:"uniqueLocations"`
	UniqueCountries int `json:"uniqueCountries"`
	Incomplete      int `json:"incomplete"`
}

// NewStats computes Stats. Every record contributes at least one
// specimen.
func NewStats(recs []record.Record) Stats {
	res := Stats{TotalRecords: len(recs)}
	for _, r := range recs {
		res.TotalSpecimens += r.SpecimenCount()
		if !r.IsComplete() {
			res.Incomplete++
		}
	}
	res.UniqueSpecies = len(UniqueValues(recs, record.Species))
	res.UniqueGenera = len(UniqueValues(recs, record.Genus))
	res.UniqueFamilies = len(UniqueValues(recs, record.Family))
	res.UniqueOrders = len(UniqueValues(recs, record.Order))
	res.UniqueLocations = len(UniqueValues(recs, record.Location))
	res.UniqueCountries = len(UniqueValues(recs, record.Country))
	return res
}

// Dashboard holds every chart of the collection overview.
type Dashboard struct {
	Stats      Stats        `json:"stats"`
	Classes    Distribution `json:"classes"`
	Orders     Distribution `json:"orders"`
	Families   Distribution `json:"families"`
	Groups     Distribution `json:"groups"`
	Countries  Distribution `json:"countries"`
	States     Distribution `json:"states"`
	Years      Distribution `json:"years"`
	MissingGeo int          `json:"missingGeo"`
}

// BuildDashboard computes all charts concurrently. Options apply to the
// order, family, country and state charts.
func BuildDashboard(
	ctx context.Context,
	recs []record.Record,
	tbl groups.Table,
	opts ...Option,
) (Dashboard, error) {
	var res Dashboard
	g, ctx := errgroup.WithContext(ctx)

	task := func(f func()) {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f()
			return nil
		})
	}

	task(func() { res.Stats = NewStats(recs) })
	task(func() { res.Classes = ByField(recs, record.Class) })
	task(func() {
		o := append([]Option{OptOtherLabel("Other Orders")}, opts...)
		res.Orders = ByField(recs, record.Order, o...)
	})
	task(func() {
		o := append([]Option{OptOtherLabel("Other Families")}, opts...)
		res.Families = ByField(recs, record.Family, o...)
	})
	task(func() { res.Groups = ByGroup(recs, tbl) })
	task(func() { res.Countries = ByField(recs, record.Country, opts...) })
	task(func() { res.States = ByField(recs, record.StateProvince, opts...) })
	task(func() { res.Years = ByYear(recs) })
	task(func() { res.MissingGeo = MissingGeo(recs) })

	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}
	return res, nil
}
