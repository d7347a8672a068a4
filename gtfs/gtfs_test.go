package gtfs

import (
	"archive/zip"
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/transit-catalogue/catalogue"
	"github.com/theoremus-urban-solutions/transit-catalogue/router"
	"github.com/theoremus-urban-solutions/transit-catalogue/utils"
)

var sampleFeed = map[string]string{
	"stops.txt": "\ufeffstop_id,stop_name,stop_lat,stop_lon,location_type\n" +
		"S1,Central,55.750,37.600,0\n" +
		"S2,Market,55.760,37.610,\n" +
		"S3,Harbour,55.770,37.620,0\n" +
		"S4,Market,55.761,37.612,0\n" +
		"ST,Central Station,55.750,37.600,1\n",
	"routes.txt": "route_id,route_short_name,route_long_name\n" +
		"R1,1,Line One\n" +
		"R2,,Night Line\n" +
		"R3,3,\n",
	"trips.txt": "route_id,trip_id,direction_id,shape_id\n" +
		"R1,T1,0,SH1\n" +
		"R1,T2,0,\n" +
		"R1,T3,1,\n" +
		"R2,T4,0,\n" +
		"R3,T5,0,\n",
	"stop_times.txt": "trip_id,arrival_time,departure_time,stop_id,stop_sequence\n" +
		"T1,08:10:00,08:10:00,S3,30\n" +
		"T1,08:00:00,08:00:00,S1,10\n" +
		"T1,08:05:00,08:05:00,S2,20\n" +
		"T2,09:00:00,09:00:00,S1,1\n" +
		"T2,09:10:00,09:10:00,S3,2\n" +
		"T3,10:00:00,10:00:00,S3,1\n" +
		"T3,10:05:00,10:05:00,S4,2\n" +
		"T3,10:10:00,10:10:00,S1,3\n" +
		"T4,23:00:00,23:00:00,S2,1\n" +
		"T4,23:05:00,23:05:00,S2,2\n" +
		"T4,23:10:00,23:10:00,S3,3\n" +
		"T5,11:00:00,11:00:00,S1,1\n",
	"shapes.txt": "shape_id,shape_pt_lat,shape_pt_lon,shape_pt_sequence\n" +
		"SH1,55.770,37.620,4\n" +
		"SH1,55.750,37.600,1\n" +
		"SH1,55.755,37.630,2\n" +
		"SH1,55.760,37.610,3\n",
}

func buildZip(t *testing.T, files map[string]string, prefix string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(prefix + name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func withFile(name, content string) map[string]string {
	files := make(map[string]string, len(sampleFeed))
	for k, v := range sampleFeed {
		files[k] = v
	}
	if content == "" {
		delete(files, name)
	} else {
		files[name] = content
	}
	return files
}

func importSample(t *testing.T, d Disruptions) (*catalogue.Catalogue, Summary) {
	t.Helper()
	feed, err := ReadFeedFromBytes(buildZip(t, sampleFeed, ""))
	require.NoError(t, err)
	l := catalogue.NewLoader()
	sum, err := Import(feed, l, Options{WaitTime: 6, Velocity: 40, Disruptions: d})
	require.NoError(t, err)
	cat, err := l.Build()
	require.NoError(t, err)
	return cat, sum
}

func TestReadFeed(t *testing.T) {
	feed, err := ReadFeedFromBytes(buildZip(t, sampleFeed, ""))
	require.NoError(t, err)

	require.Len(t, feed.Stops, 4, "stations are skipped")
	assert.Equal(t, Stop{ID: "S1", Name: "Central", Coordinates: utils.Coordinates{Lat: 55.75, Lng: 37.6}}, feed.Stops[0])
	assert.Len(t, feed.Routes, 3)
	assert.Equal(t, Trip{ID: "T1", RouteID: "R1", DirectionID: "0", ShapeID: "SH1"}, feed.Trips[0])
	assert.Equal(t, []string{"S1", "S2", "S3"}, feed.StopTimes["T1"])
	require.Len(t, feed.Shapes["SH1"], 4)
	assert.Equal(t, utils.Coordinates{Lat: 55.755, Lng: 37.63}, feed.Shapes["SH1"][1])
}

func TestReadFeed_NestedFolder(t *testing.T) {
	feed, err := ReadFeedFromBytes(buildZip(t, sampleFeed, "gtfs/"))
	require.NoError(t, err)
	assert.Len(t, feed.Stops, 4)
}

func TestReadFeedFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feed.zip")
	require.NoError(t, os.WriteFile(path, buildZip(t, sampleFeed, ""), 0o644))

	feed, err := ReadFeedFromFile(path)
	require.NoError(t, err)
	assert.Len(t, feed.Trips, 5)

	_, err = ReadFeedFromFile(filepath.Join(t.TempDir(), "missing.zip"))
	assert.Error(t, err)
}

func TestReadFeed_Errors(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  error
	}{
		{"missing stop_times", withFile("stop_times.txt", ""), ErrMissingFile},
		{"bad latitude", withFile("stops.txt", "stop_id,stop_name,stop_lat,stop_lon\nS1,A,north,37.6\n"), ErrInvalidFeed},
		{"missing column", withFile("trips.txt", "route_id,direction_id\nR1,0\n"), ErrInvalidFeed},
		{"bad sequence", withFile("stop_times.txt", "trip_id,stop_id,stop_sequence\nT1,S1,first\n"), ErrInvalidFeed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadFeedFromBytes(buildZip(t, tt.files, ""))
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := ReadFeedFromBytes([]byte("not a zip"))
	assert.Error(t, err)
}

func TestBuildPatterns(t *testing.T) {
	feed, err := ReadFeedFromBytes(buildZip(t, sampleFeed, ""))
	require.NoError(t, err)

	patterns, err := BuildPatterns(feed, nil)
	require.NoError(t, err)
	require.Len(t, patterns, 3, "single-stop patterns are dropped")

	assert.Equal(t, Pattern{Name: "1", RouteID: "R1", DirectionID: "0", TripID: "T1", StopIDs: []string{"S1", "S2", "S3"}}, patterns[0])
	assert.Equal(t, Pattern{Name: "1/1", RouteID: "R1", DirectionID: "1", TripID: "T3", StopIDs: []string{"S3", "S4", "S1"}}, patterns[1])
	assert.Equal(t, Pattern{Name: "Night Line", RouteID: "R2", DirectionID: "0", TripID: "T4", StopIDs: []string{"S2", "S3"}}, patterns[2],
		"repeated consecutive stops collapse")
}

func TestBuildPatterns_Errors(t *testing.T) {
	t.Run("unknown stop", func(t *testing.T) {
		feed := &Feed{
			Routes:    []Route{{ID: "R1"}},
			Trips:     []Trip{{ID: "T1", RouteID: "R1"}},
			StopTimes: map[string][]string{"T1": {"nowhere"}},
		}
		_, err := BuildPatterns(feed, nil)
		assert.ErrorIs(t, err, ErrInvalidFeed)
	})
	t.Run("unknown route", func(t *testing.T) {
		feed := &Feed{Trips: []Trip{{ID: "T1", RouteID: "R9"}}}
		_, err := BuildPatterns(feed, nil)
		assert.ErrorIs(t, err, ErrInvalidFeed)
	})
}

func TestBuildPatterns_DuplicateNames(t *testing.T) {
	feed := &Feed{
		Stops:  []Stop{{ID: "A", Name: "A"}, {ID: "B", Name: "B", Coordinates: utils.Coordinates{Lat: 1}}},
		Routes: []Route{{ID: "X", ShortName: "7"}, {ID: "Y", ShortName: "7"}},
		Trips:  []Trip{{ID: "T1", RouteID: "X"}, {ID: "T2", RouteID: "Y"}},
		StopTimes: map[string][]string{
			"T1": {"A", "B"},
			"T2": {"B", "A"},
		},
	}
	patterns, err := BuildPatterns(feed, nil)
	require.NoError(t, err)
	require.Len(t, patterns, 2)
	assert.Equal(t, "7 [X]", patterns[0].Name)
	assert.Equal(t, "7 [Y]", patterns[1].Name)
}

func TestImport_BlankDirectionIsDefault(t *testing.T) {
	feed := &Feed{
		Stops: []Stop{
			{ID: "A", Name: "A", Coordinates: utils.Coordinates{Lat: 55.75, Lng: 37.60}},
			{ID: "B", Name: "B", Coordinates: utils.Coordinates{Lat: 55.76, Lng: 37.61}},
			{ID: "C", Name: "C", Coordinates: utils.Coordinates{Lat: 55.77, Lng: 37.62}},
		},
		Routes: []Route{{ID: "r1", ShortName: "10"}},
		Trips: []Trip{
			{ID: "t1", RouteID: "r1", DirectionID: ""},
			{ID: "t2", RouteID: "r1", DirectionID: "0"},
		},
		StopTimes: map[string][]string{
			"t1": {"A", "B"},
			"t2": {"A", "B", "C"},
		},
	}

	patterns, err := BuildPatterns(feed, nil)
	require.NoError(t, err)
	require.Len(t, patterns, 1)
	assert.Equal(t, Pattern{Name: "10", RouteID: "r1", DirectionID: "0", TripID: "t2", StopIDs: []string{"A", "B", "C"}}, patterns[0])

	l := catalogue.NewLoader()
	sum, err := Import(feed, l, Options{Velocity: 40})
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Routes)
}

func TestImport_StopNameClashesWithDisambiguatedName(t *testing.T) {
	feed := &Feed{
		Stops: []Stop{
			{ID: "S1", Name: "Market", Coordinates: utils.Coordinates{Lat: 55.75, Lng: 37.60}},
			{ID: "S2", Name: "Market", Coordinates: utils.Coordinates{Lat: 55.76, Lng: 37.61}},
			{ID: "S3", Name: "Market [S1]", Coordinates: utils.Coordinates{Lat: 55.77, Lng: 37.62}},
			{ID: "S4", Name: "", Coordinates: utils.Coordinates{Lat: 55.78, Lng: 37.63}},
		},
	}
	names := stopNames(feed.Stops)
	assert.Equal(t, map[string]string{
		"S1": "Market [S1] (2)",
		"S2": "Market [S2]",
		"S3": "Market [S1]",
		"S4": " [S4]",
	}, names)

	l := catalogue.NewLoader()
	sum, err := Import(feed, l, Options{})
	require.NoError(t, err)
	assert.Equal(t, 4, sum.Stops)
}

func TestImport(t *testing.T) {
	cat, sum := importSample(t, nil)

	assert.Equal(t, Summary{Stops: 4, Routes: 3, Distances: 4}, sum)

	for _, name := range []string{"Central", "Market [S2]", "Market [S4]", "Harbour"} {
		_, ok := cat.FindStop(name)
		assert.True(t, ok, name)
	}

	route, ok := cat.FindRoute("1")
	require.True(t, ok)
	assert.True(t, route.IsRoundTrip)
	assert.Len(t, route.Stops, 3)

	buses, ok := cat.GetBusesByStop("Central")
	require.True(t, ok)
	assert.Equal(t, []string{"1", "1/1"}, buses)

	settings, ok := cat.RoutingSettings()
	require.True(t, ok)
	assert.Equal(t, catalogue.RoutingSettings{WaitTimeMinutes: 6, BusVelocityKMH: 40}, settings)

	stat, err := cat.GetBusStat("Night Line")
	require.NoError(t, err)
	assert.Equal(t, 2, stat.StopCount)
}

func TestImport_DistancesFollowShapes(t *testing.T) {
	cat, _ := importSample(t, nil)
	central, _ := cat.FindStop("Central")
	market, _ := cat.FindStop("Market [S2]")
	harbour, _ := cat.FindStop("Harbour")

	detour := utils.Coordinates{Lat: 55.755, Lng: 37.63}
	alongShape := utils.GreatCircleDistance(central.Coordinates, detour) +
		utils.GreatCircleDistance(detour, market.Coordinates)

	d, ok := cat.GetDistance(central.ID, market.ID)
	require.True(t, ok)
	assert.Equal(t, math.Round(alongShape), d)
	assert.Greater(t, d, utils.GreatCircleDistance(central.Coordinates, market.Coordinates))

	d, ok = cat.GetDistance(market.ID, harbour.ID)
	require.True(t, ok)
	assert.Equal(t, math.Round(utils.GreatCircleDistance(market.Coordinates, harbour.Coordinates)), d)
}

func TestImport_RoutableCatalogue(t *testing.T) {
	cat, _ := importSample(t, nil)
	rt, err := router.New(cat)
	require.NoError(t, err)

	central, _ := cat.FindStop("Central")
	harbour, _ := cat.FindStop("Harbour")

	info, ok := rt.FindRoute(central.ID, harbour.ID)
	require.True(t, ok)
	require.Len(t, info.Legs, 1)
	assert.Equal(t, "1", info.Legs[0].Route)
	assert.Equal(t, 2, info.Legs[0].SpanCount)

	back, ok := rt.FindRoute(harbour.ID, central.ID)
	require.True(t, ok)
	assert.Equal(t, "1/1", back.Legs[0].Route)
}

func TestImport_WithoutVelocityLeavesSettingsUnset(t *testing.T) {
	feed, err := ReadFeedFromBytes(buildZip(t, sampleFeed, ""))
	require.NoError(t, err)
	l := catalogue.NewLoader()
	_, err = Import(feed, l, Options{})
	require.NoError(t, err)
	cat, err := l.Build()
	require.NoError(t, err)

	_, ok := cat.RoutingSettings()
	assert.False(t, ok)
}

func TestImport_DuplicateStopID(t *testing.T) {
	feed := &Feed{Stops: []Stop{{ID: "A", Name: "A"}, {ID: "A", Name: "B"}}}
	_, err := Import(feed, catalogue.NewLoader(), Options{})
	assert.ErrorIs(t, err, ErrInvalidFeed)
}

type fakeDisruptions struct {
	cancelled    map[string]bool
	skipped      map[[2]string]bool
	closedStops  map[string]bool
	closedRoutes map[string]bool
}

func (f fakeDisruptions) TripCancelled(tripID string) bool { return f.cancelled[tripID] }
func (f fakeDisruptions) StopSkipped(tripID, stopID string) bool {
	return f.skipped[[2]string{tripID, stopID}]
}
func (f fakeDisruptions) StopClosed(stopID string) bool   { return f.closedStops[stopID] }
func (f fakeDisruptions) RouteClosed(routeID string) bool { return f.closedRoutes[routeID] }

func TestImport_Disruptions(t *testing.T) {
	cat, sum := importSample(t, fakeDisruptions{
		cancelled:    map[string]bool{"T1": true},
		skipped:      map[[2]string]bool{{"T3", "S4"}: true},
		closedRoutes: map[string]bool{"R2": true},
	})

	assert.Equal(t, 2, sum.Routes)
	_, ok := cat.FindRoute("Night Line")
	assert.False(t, ok)

	route, ok := cat.FindRoute("1")
	require.True(t, ok)
	assert.Len(t, route.Stops, 2, "falls back to the next longest trip")

	route, ok = cat.FindRoute("1/1")
	require.True(t, ok)
	assert.Len(t, route.Stops, 2, "skipped stop is removed")

	buses, ok := cat.GetBusesByStop("Market [S4]")
	require.True(t, ok)
	assert.Empty(t, buses)
}

func TestImport_ClosedStop(t *testing.T) {
	cat, _ := importSample(t, fakeDisruptions{closedStops: map[string]bool{"S2": true}})

	_, ok := cat.FindRoute("Night Line")
	assert.False(t, ok, "a pattern left with one stop is dropped")

	route, ok := cat.FindRoute("1")
	require.True(t, ok)
	assert.Len(t, route.Stops, 2)
}
