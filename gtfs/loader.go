package gtfs

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/theoremus-urban-solutions/transit-catalogue/utils"
)

var (
	// ErrMissingFile is returned when a required table is absent from the archive.
	ErrMissingFile = errors.New("gtfs: required file missing")

	// ErrInvalidFeed is returned for rows that cannot be parsed or reference
	// unknown entities.
	ErrInvalidFeed = errors.New("gtfs: invalid feed")
)

var requiredFiles = []string{"stops.txt", "routes.txt", "trips.txt", "stop_times.txt"}

// ReadFeedFromFile parses the feed archive at filename.
func ReadFeedFromFile(filename string) (*Feed, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("open gtfs archive %s: %w", filename, err)
	}
	defer zr.Close()
	return readFeed(&zr.Reader)
}

// ReadFeedFromBytes parses a feed archive held in memory.
func ReadFeedFromBytes(data []byte) (*Feed, error) {
	return ReadFeed(bytes.NewReader(data), int64(len(data)))
}

// ReadFeed parses a feed archive of the given size.
func ReadFeed(r io.ReaderAt, size int64) (*Feed, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("open gtfs archive: %w", err)
	}
	return readFeed(zr)
}

func readFeed(zr *zip.Reader) (*Feed, error) {
	files := map[string]*zip.File{}
	for _, f := range zr.File {
		// some producers nest the tables in a folder
		files[strings.ToLower(path.Base(f.Name))] = f
	}
	for _, name := range requiredFiles {
		if _, ok := files[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingFile, name)
		}
	}

	feed := &Feed{
		StopTimes: map[string][]string{},
		Shapes:    map[string][]utils.Coordinates{},
	}
	steps := []struct {
		name  string
		parse func(*Feed, *table) error
	}{
		{"stops.txt", parseStops},
		{"routes.txt", parseRoutes},
		{"trips.txt", parseTrips},
		{"stop_times.txt", parseStopTimes},
		{"shapes.txt", parseShapes},
	}
	for _, step := range steps {
		f, ok := files[step.name]
		if !ok {
			continue
		}
		t, err := readTable(f)
		if err != nil {
			return nil, err
		}
		if err := step.parse(feed, t); err != nil {
			return nil, fmt.Errorf("%s: %w", step.name, err)
		}
	}
	return feed, nil
}

// table is a CSV file with its header resolved
type table struct {
	head map[string]int
	rows [][]string
}

func readTable(f *zip.File) (*table, error) {
	r, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer r.Close()

	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1
	rec, err := csvr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidFeed, f.Name, err)
	}
	t := &table{head: map[string]int{}}
	if len(rec) == 0 {
		return t, nil
	}
	for i, h := range rec[0] {
		h = strings.TrimPrefix(h, "\ufeff")
		t.head[strings.ToLower(strings.TrimSpace(h))] = i
	}
	t.rows = rec[1:]
	return t, nil
}

// col returns the index of a column, or -1
func (t *table) col(name string) int {
	if i, ok := t.head[name]; ok {
		return i
	}
	return -1
}

func (t *table) require(names ...string) ([]int, error) {
	idx := make([]int, len(names))
	for i, name := range names {
		idx[i] = t.col(name)
		if idx[i] < 0 {
			return nil, fmt.Errorf("%w: missing column %s", ErrInvalidFeed, name)
		}
	}
	return idx, nil
}

func field(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

func parseFloat(row []string, col int, line int, name string) (float64, error) {
	v, err := strconv.ParseFloat(field(row, col), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: line %d: %s: %v", ErrInvalidFeed, line, name, err)
	}
	return v, nil
}

func parseStops(feed *Feed, t *table) error {
	idx, err := t.require("stop_id", "stop_name", "stop_lat", "stop_lon")
	if err != nil {
		return err
	}
	locType := t.col("location_type")
	for i, row := range t.rows {
		line := i + 2
		// stations, entrances and nodes are not boarding points
		if lt := field(row, locType); lt != "" && lt != "0" {
			continue
		}
		lat, err := parseFloat(row, idx[2], line, "stop_lat")
		if err != nil {
			return err
		}
		lon, err := parseFloat(row, idx[3], line, "stop_lon")
		if err != nil {
			return err
		}
		feed.Stops = append(feed.Stops, Stop{
			ID:          field(row, idx[0]),
			Name:        field(row, idx[1]),
			Coordinates: utils.Coordinates{Lat: lat, Lng: lon},
		})
	}
	return nil
}

func parseRoutes(feed *Feed, t *table) error {
	idx, err := t.require("route_id")
	if err != nil {
		return err
	}
	short, long := t.col("route_short_name"), t.col("route_long_name")
	for _, row := range t.rows {
		feed.Routes = append(feed.Routes, Route{
			ID:        field(row, idx[0]),
			ShortName: field(row, short),
			LongName:  field(row, long),
		})
	}
	return nil
}

func parseTrips(feed *Feed, t *table) error {
	idx, err := t.require("route_id", "trip_id")
	if err != nil {
		return err
	}
	dir, shape := t.col("direction_id"), t.col("shape_id")
	for _, row := range t.rows {
		feed.Trips = append(feed.Trips, Trip{
			ID:          field(row, idx[1]),
			RouteID:     field(row, idx[0]),
			DirectionID: field(row, dir),
			ShapeID:     field(row, shape),
		})
	}
	return nil
}

func parseStopTimes(feed *Feed, t *table) error {
	idx, err := t.require("trip_id", "stop_id", "stop_sequence")
	if err != nil {
		return err
	}
	type stopAt struct {
		stop string
		seq  int
	}
	tmp := map[string][]stopAt{}
	for i, row := range t.rows {
		seq, err := strconv.Atoi(field(row, idx[2]))
		if err != nil {
			return fmt.Errorf("%w: line %d: stop_sequence: %v", ErrInvalidFeed, i+2, err)
		}
		trip := field(row, idx[0])
		tmp[trip] = append(tmp[trip], stopAt{stop: field(row, idx[1]), seq: seq})
	}
	for trip, arr := range tmp {
		sort.SliceStable(arr, func(i, j int) bool { return arr[i].seq < arr[j].seq })
		stops := make([]string, len(arr))
		for i, v := range arr {
			stops[i] = v.stop
		}
		feed.StopTimes[trip] = stops
	}
	return nil
}

func parseShapes(feed *Feed, t *table) error {
	idx, err := t.require("shape_id", "shape_pt_lat", "shape_pt_lon", "shape_pt_sequence")
	if err != nil {
		return err
	}
	type point struct {
		utils.Coordinates
		seq int
	}
	tmp := map[string][]point{}
	for i, row := range t.rows {
		line := i + 2
		lat, err := parseFloat(row, idx[1], line, "shape_pt_lat")
		if err != nil {
			return err
		}
		lon, err := parseFloat(row, idx[2], line, "shape_pt_lon")
		if err != nil {
			return err
		}
		seq, err := strconv.Atoi(field(row, idx[3]))
		if err != nil {
			return fmt.Errorf("%w: line %d: shape_pt_sequence: %v", ErrInvalidFeed, line, err)
		}
		shapeID := field(row, idx[0])
		tmp[shapeID] = append(tmp[shapeID], point{utils.Coordinates{Lat: lat, Lng: lon}, seq})
	}
	for shapeID, arr := range tmp {
		sort.SliceStable(arr, func(i, j int) bool { return arr[i].seq < arr[j].seq })
		pts := make([]utils.Coordinates, len(arr))
		for i, p := range arr {
			pts[i] = p.Coordinates
		}
		feed.Shapes[shapeID] = pts
	}
	return nil
}
