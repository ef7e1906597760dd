package testutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/turtacn/mini-spade/internal/domain/patent"
)

// MustPatent builds a patent or fails the test.
func MustPatent(t testing.TB, id, title, abstract string, inventors []string, published string, relevance float64, opts ...patent.Option) *patent.Patent {
	t.Helper()
	d, err := time.Parse(patent.DateLayout, published)
	require.NoError(t, err)
	p, err := patent.New(id, title, abstract, inventors, d, relevance, opts...)
	require.NoError(t, err)
	return p
}

// IrrigationCorpus is a small corpus in which US-1001 has two strong
// neighbours, one weak one and one unrelated patent.
func IrrigationCorpus(t testing.TB) []*patent.Patent {
	t.Helper()
	return []*patent.Patent{
		MustPatent(t, "US-1001", "Smart drip irrigation controller",
			"A smart irrigation system using soil moisture sensors to control water valves.",
			[]string{"Ada Lovelace", "Alan Turing"}, "2021-03-15", 9.5, patent.WithStatus("Active")),
		MustPatent(t, "US-1002", "Soil moisture based watering",
			"Soil moisture sensors drive an irrigation system that opens water valves on demand.",
			[]string{"Grace Hopper"}, "2020-06-01", 8.0, patent.WithAssignee("AgriCorp")),
		MustPatent(t, "US-1003", "Valve assembly",
			"A water valve with a smart actuator.",
			[]string{"Edsger Dijkstra"}, "2019-01-20", 7.0),
		MustPatent(t, "US-1004", "Battery chemistry",
			"A lithium battery cathode with improved energy density.",
			[]string{"Marie Curie"}, "2022-11-30", 6.5, patent.WithStatus("Pending")),
		MustPatent(t, "US-1005", "Greenhouse irrigation network",
			"An irrigation system for greenhouses with moisture sensors and remote valves.",
			[]string{"Ada Lovelace"}, "2018-08-08", 6.5),
	}
}

//Personal.AI order the ending
