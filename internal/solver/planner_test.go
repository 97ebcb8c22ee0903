package solver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GroveDG/gsolve/pkg/gsolve"
	"github.com/GroveDG/gsolve/pkg/gsolve/constraint"
	"github.com/GroveDG/gsolve/pkg/gsolve/geo"
	"github.com/GroveDG/gsolve/pkg/gsolve/sketch"
)

func TestPlannerPlans(t *testing.T) {
	type plan struct {
		Points []gsolve.Identifier
		Seeded bool
	}
	type tc struct {
		Name      string
		Build     func(t *testing.T) *sketch.Sketch
		Plans     []plan
		Unplanned []gsolve.Identifier
	}

	for _, tt := range []tc{
		{
			Name: "fully anchored",
			Build: func(t *testing.T) *sketch.Sketch {
				s := sketch.New()
				require.NoError(t, s.Anchor("a", geo.Vector{}))
				require.NoError(t, s.Anchor("b", geo.Vector{X: 4}))
				require.NoError(t, s.Constrain(constraint.Distance("a", "b", 4)))
				return s
			},
			Plans: []plan{{}},
		},
		{
			Name:  "triangle yields one gauge per orbiter",
			Build: triangleSketch,
			Plans: []plan{
				{Points: []gsolve.Identifier{"b", "c"}, Seeded: true},
				{Points: []gsolve.Identifier{"c", "b"}, Seeded: true},
			},
		},
		{
			Name: "under-constrained point is never seeded",
			Build: func(t *testing.T) *sketch.Sketch {
				s := sketch.New()
				require.NoError(t, s.Anchor("a", geo.Vector{}))
				require.NoError(t, s.Point("b"))
				require.NoError(t, s.Constrain(constraint.Distance("a", "b", 5)))
				return s
			},
			Unplanned: []gsolve.Identifier{"b"},
		},
		{
			Name: "restated constraint does not make a point discrete",
			Build: func(t *testing.T) *sketch.Sketch {
				s := sketch.New()
				require.NoError(t, s.Anchor("a", geo.Vector{}))
				require.NoError(t, s.Point("b"))
				require.NoError(t, s.Constrain(constraint.Distance("a", "b", 5)))
				require.NoError(t, s.Constrain(constraint.Distance("b", "a", 5)))
				return s
			},
			Unplanned: []gsolve.Identifier{"b"},
		},
		{
			Name: "pinned point needs no anchors",
			Build: func(t *testing.T) *sketch.Sketch {
				s := sketch.New()
				require.NoError(t, s.Point("p"))
				require.NoError(t, s.Constrain(constraint.Pin("p", geo.Vector{X: 2, Y: 3})))
				return s
			},
			Plans: []plan{{Points: []gsolve.Identifier{"p"}}},
		},
		{
			Name: "midpoint discretizes by itself",
			Build: func(t *testing.T) *sketch.Sketch {
				s := sketch.New()
				require.NoError(t, s.Anchor("a", geo.Vector{}))
				require.NoError(t, s.Anchor("b", geo.Vector{X: 4}))
				require.NoError(t, s.Point("m"))
				require.NoError(t, s.Constrain(constraint.Midpoint("m", "a", "b")))
				return s
			},
			Plans: []plan{{Points: []gsolve.Identifier{"m"}}},
		},
		{
			Name: "trilateration needs no gauge and no duplicate plan",
			Build: func(t *testing.T) *sketch.Sketch {
				s := sketch.New()
				require.NoError(t, s.Anchor("a", geo.Vector{}))
				require.NoError(t, s.Anchor("b", geo.Vector{X: 10}))
				require.NoError(t, s.Point("x"))
				require.NoError(t, s.Constrain(constraint.Distance("a", "x", 5)))
				require.NoError(t, s.Constrain(constraint.Distance("b", "x", 7)))
				return s
			},
			Plans: []plan{{Points: []gsolve.Identifier{"x"}}},
		},
		{
			Name: "chain resolves in constraint order",
			Build: func(t *testing.T) *sketch.Sketch {
				s := sketch.New()
				require.NoError(t, s.Anchor("a", geo.Vector{}))
				require.NoError(t, s.Anchor("b", geo.Vector{X: 4}))
				require.NoError(t, s.Point("c"))
				require.NoError(t, s.Point("d"))
				require.NoError(t, s.Constrain(constraint.Vertical("b", "c")))
				require.NoError(t, s.Constrain(constraint.Distance("b", "c", 4)))
				require.NoError(t, s.Constrain(constraint.Horizontal("c", "d")))
				require.NoError(t, s.Constrain(constraint.Distance("c", "d", 4)))
				return s
			},
			Plans: []plan{{Points: []gsolve.Identifier{"c", "d"}}},
		},
	} {
		t.Run(tt.Name, func(t *testing.T) {
			assert := assert.New(t)

			g, err := Compile(tt.Build(t))
			require.NoError(t, err)
			pl := NewPlanner(g)

			for i, want := range tt.Plans {
				got, err := pl.Next(context.Background())
				require.NoError(t, err)
				require.NotNil(t, got, "plan %d", i)

				var points []gsolve.Identifier
				for _, e := range got.Entries {
					points = append(points, g.ID(e.Point))
				}
				assert.Equal(want.Points, points, "plan %d", i)
				if len(got.Entries) > 0 {
					assert.Equal(want.Seeded, got.Entries[0].Seeded, "plan %d", i)
				}
			}

			got, err := pl.Next(context.Background())
			require.NoError(t, err)
			assert.Nil(got)

			if len(tt.Plans) == 0 {
				assert.Equal(tt.Unplanned, pl.Unplanned())
			}
		})
	}
}

func TestPlannerCredits(t *testing.T) {
	assert := assert.New(t)

	g, err := Compile(triangleSketch(t))
	require.NoError(t, err)
	pl := NewPlanner(g)

	got, err := pl.Next(context.Background())
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Entries, 2)

	// The orbiter is held by the one constraint evaluable from the
	// anchor; the second point collects both remaining distances.
	assert.Equal(1, got.Entries[0].Point)
	assert.Equal([]int{0}, got.Entries[0].Curves)
	assert.Empty(got.Entries[0].Filters)
	assert.True(got.Entries[0].Seeded)

	assert.Equal(2, got.Entries[1].Point)
	assert.Equal([]int{1, 2}, got.Entries[1].Curves)
	assert.False(got.Entries[1].Seeded)
}

func TestPlannerRecordsRegionFilter(t *testing.T) {
	assert := assert.New(t)

	s := sketch.New()
	require.NoError(t, s.Anchor("a", geo.Vector{}))
	require.NoError(t, s.Anchor("b", geo.Vector{X: 10}))
	require.NoError(t, s.Point("x"))
	require.NoError(t, s.Constrain(constraint.LeftOf("x", "a", "b")))
	require.NoError(t, s.Constrain(constraint.Distance("a", "x", 5)))
	require.NoError(t, s.Constrain(constraint.Distance("b", "x", 7)))

	g, err := Compile(s)
	require.NoError(t, err)

	got, err := NewPlanner(g).Next(context.Background())
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Entries, 1)

	assert.Equal([]int{1, 2}, got.Entries[0].Curves)
	assert.Equal([]int{0}, got.Entries[0].Filters)
	assert.False(got.Entries[0].Seeded)
}

func TestPlannerCancelled(t *testing.T) {
	g, err := Compile(triangleSketch(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = NewPlanner(g).Next(ctx)
	assert.ErrorIs(t, err, gsolve.ErrCancelled)
}
