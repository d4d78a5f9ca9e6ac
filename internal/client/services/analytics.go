package services

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/dmitrijs2005/vendorconsole/internal/client/models"
)

// Bucket is the number of records created in one period.
type Bucket struct {
	Period string
	Count  int
}

// Series groups one kind of record by creation year and by year-month.
type Series struct {
	Name    string
	ByYear  []Bucket
	ByMonth []Bucket
	// Undated counts records without a usable creation date.
	Undated int
}

type Analytics struct {
	Vendors       Series
	Customers     Series
	Subscriptions Series
}

// GroupByPeriod builds a Series from creation times. Buckets are sorted
// by period.
func GroupByPeriod(name string, created []time.Time) Series {
	years := map[string]int{}
	months := map[string]int{}
	s := Series{Name: name}

	for _, t := range created {
		if t.IsZero() {
			s.Undated++
			continue
		}
		years[t.Format("2006")]++
		months[t.Format("2006-01")]++
	}

	s.ByYear = buckets(years)
	s.ByMonth = buckets(months)
	return s
}

func buckets(m map[string]int) []Bucket {
	out := make([]Bucket, 0, len(m))
	for p, n := range m {
		out = append(out, Bucket{Period: p, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Period < out[j].Period })
	return out
}

func BuildAnalytics(vendors []models.Vendor, customers []models.Customer, subs []models.Subscription) Analytics {
	vt := make([]time.Time, 0, len(vendors))
	for _, v := range vendors {
		vt = append(vt, v.CreatedAt.Time)
	}
	ct := make([]time.Time, 0, len(customers))
	for _, c := range customers {
		ct = append(ct, c.CreatedAt.Time)
	}
	st := make([]time.Time, 0, len(subs))
	for _, s := range subs {
		t := s.CreatedAt.Time
		if t.IsZero() {
			t = s.StartDate.Time
		}
		st = append(st, t)
	}

	return Analytics{
		Vendors:       GroupByPeriod("vendors", vt),
		Customers:     GroupByPeriod("customers", ct),
		Subscriptions: GroupByPeriod("subscriptions", st),
	}
}

// WriteCSV exports the yearly and monthly buckets of every series.
func WriteCSV(w io.Writer, a Analytics) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"series", "granularity", "period", "count"}); err != nil {
		return err
	}
	for _, s := range []Series{a.Vendors, a.Customers, a.Subscriptions} {
		for _, b := range s.ByYear {
			if err := cw.Write([]string{s.Name, "year", b.Period, strconv.Itoa(b.Count)}); err != nil {
				return err
			}
		}
		for _, b := range s.ByMonth {
			if err := cw.Write([]string{s.Name, "month", b.Period, strconv.Itoa(b.Count)}); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}
