// Package coverage imports observation feeds published as GML multi-point
// coverages (WFS GetFeature responses with gmlcov:MultiPointCoverage results)
// into measurement observations, one time series per location and range field.
package coverage

import (
	"bufio"
	"cmp"
	"compress/gzip"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"slices"
	"strings"
	"time"

	"meascodec/pkg/meas"
	"meascodec/pkg/meas/xsd"
)

// DefaultUnit is used for range fields without a configured unit
const DefaultUnit = "1"

// MissingReason tags NaN range values
const MissingReason = "missing"

// Options control how coverage values become observations
type Options struct {
	// Units maps range field names to unit of measure codes
	Units map[string]string
	// FeaturePrefix is prepended to location identifiers to form the feature of interest
	FeaturePrefix string
}

// Location describes one sampled location of a coverage
type Location struct {
	ID     string
	Name   string
	Region string
	Lat    float64
	Lon    float64
}

// Position is one point of the coverage domain
type Position struct {
	Lat       float64
	Lon       float64
	Timestamp time.Time
}

// Read parses a feature collection, transparently decompressing gzip input
func Read(r io.Reader, opts Options) ([]*meas.Observation, error) {
	br := bufio.NewReader(r)
	magic, _ := br.Peek(2)
	if len(magic) == 2 && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gz.Close()
		return Parse(gz, opts)
	}
	return Parse(br, opts)
}

// Parse decodes a feature collection and converts every coverage observation
func Parse(r io.Reader, opts Options) ([]*meas.Observation, error) {
	var fc featureCollection
	if err := xml.NewDecoder(r).Decode(&fc); err != nil {
		return nil, fmt.Errorf("failed to decode XML: %w", err)
	}

	var result []*meas.Observation
	for i, member := range fc.Members {
		if member.Observation == nil {
			continue
		}
		observations, err := convert(member.Observation, opts)
		if err != nil {
			return nil, fmt.Errorf("member %d: %w", i, err)
		}
		result = append(result, observations...)
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("no observation data in feature collection")
	}
	return result, nil
}

type seriesKey struct {
	location string
	param    int
}

func convert(obs *gridSeriesObservation, opts Options) ([]*meas.Observation, error) {
	locations, byCoord := locationIndex(obs.Feature)
	params := rangeParameters(obs)

	positions, err := ParsePositions(obs.Coverage.Positions)
	if err != nil {
		return nil, fmt.Errorf("failed to parse positions: %w", err)
	}
	tuples, err := ParseTuples(obs.Coverage.Tuples)
	if err != nil {
		return nil, fmt.Errorf("failed to parse data values: %w", err)
	}
	if len(positions) != len(tuples) {
		return nil, fmt.Errorf("position count (%d) doesn't match data count (%d)", len(positions), len(tuples))
	}

	missing, err := meas.Bad(MissingReason)
	if err != nil {
		return nil, err
	}

	series := make(map[seriesKey]*meas.TimeSeriesFlexible)
	for i, pos := range positions {
		key := coordinateKey(pos.Lat, pos.Lon)
		id, ok := byCoord[key]
		if !ok {
			id = key
			locations[id] = &Location{ID: id, Lat: pos.Lat, Lon: pos.Lon}
			byCoord[key] = id
		}
		if len(tuples[i]) != len(params) {
			return nil, fmt.Errorf("tuple %d has %d values, expected %d", i, len(tuples[i]), len(params))
		}
		for j, v := range tuples[i] {
			sk := seriesKey{id, j}
			ts := series[sk]
			if ts == nil {
				ts = meas.NewTimeSeriesFlexible(unitOf(opts, params[j]))
				series[sk] = ts
			}
			quality := meas.Good()
			if math.IsNaN(v) {
				quality = missing
			}
			if err := ts.Add(pos.Timestamp, v, quality); err != nil {
				return nil, err
			}
		}
	}

	keys := make([]seriesKey, 0, len(series))
	for k := range series {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b seriesKey) int {
		return cmp.Or(cmp.Compare(a.location, b.location), cmp.Compare(a.param, b.param))
	})

	resultTime, err := xsd.ParseDateTime(strings.TrimSpace(obs.ResultTime))
	if err != nil || xsd.KindOfDateTime(resultTime) != xsd.DateTimeUTC {
		resultTime = time.Time{}
	}
	result := make([]*meas.Observation, 0, len(keys))
	for _, k := range keys {
		ts := series[k]
		loc := locations[k.location]

		o := meas.NewObservation(ts)
		o.Name = loc.Name
		o.Procedure = obs.Procedure.Href
		o.ObservedProperty = params[k.param]
		o.FeatureOfInterest = opts.FeaturePrefix + loc.ID
		if !resultTime.IsZero() {
			o.ResultTime = resultTime
		}
		if o.PhenomenonTime, err = phenomenonTime(ts); err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	return result, nil
}

// locationIndex returns the sampled locations by identifier and the
// identifiers by coordinate key. Points are matched to locations by name.
func locationIndex(feature samplingShape) (map[string]*Location, map[string]string) {
	locations := make(map[string]*Location)
	for _, l := range feature.Locations {
		id := strings.TrimSpace(l.Identifier)
		if id == "" {
			continue
		}
		loc := &Location{ID: id, Region: l.Region}
		for _, name := range l.Names {
			if strings.HasSuffix(name.CodeSpace, "/name") || name.CodeSpace == "" {
				loc.Name = name.Value
				break
			}
		}
		locations[id] = loc
	}

	byCoord := make(map[string]string)
	for _, p := range feature.Points {
		lat, lon, err := parseCoordinates(p.Pos)
		if err != nil {
			continue
		}
		for id, loc := range locations {
			if loc.Name == p.Name {
				loc.Lat, loc.Lon = lat, lon
				byCoord[coordinateKey(lat, lon)] = id
				break
			}
		}
	}
	return locations, byCoord
}

// rangeParameters names the tuple columns: from the coverage range type, else
// from the param= list of the observed property, else value1..valueN
func rangeParameters(obs *gridSeriesObservation) []string {
	var params []string
	for _, f := range obs.Coverage.Fields {
		params = append(params, f.Name)
	}
	if len(params) > 0 {
		return params
	}
	if params = parametersFromURL(obs.ObservedProperty.Href); len(params) > 0 {
		return params
	}

	width := 0
	if line, _, _ := strings.Cut(strings.TrimSpace(obs.Coverage.Tuples), "\n"); line != "" {
		width = len(strings.Fields(line))
	}
	for i := range width {
		params = append(params, fmt.Sprintf("value%d", i+1))
	}
	return params
}

func parametersFromURL(url string) []string {
	_, paramStr, ok := strings.Cut(url, "param=")
	if !ok {
		return nil
	}
	if ampIdx := strings.Index(paramStr, "&"); ampIdx >= 0 {
		paramStr = paramStr[:ampIdx]
	}
	var params []string
	for _, p := range strings.Split(paramStr, ",") {
		if p = strings.TrimSpace(p); p != "" {
			params = append(params, p)
		}
	}
	return params
}

// ParsePositions reads lat lon unix-time triplets
func ParsePositions(s string) ([]Position, error) {
	parts := strings.Fields(s)
	if len(parts)%3 != 0 {
		return nil, fmt.Errorf("invalid positions format: expected triplets, got %d values", len(parts))
	}

	positions := make([]Position, 0, len(parts)/3)
	for i := 0; i < len(parts); i += 3 {
		lat, err := xsd.ParseDouble(parts[i])
		if err != nil {
			return nil, fmt.Errorf("invalid latitude at position %d: %w", i, err)
		}
		lon, err := xsd.ParseDouble(parts[i+1])
		if err != nil {
			return nil, fmt.Errorf("invalid longitude at position %d: %w", i+1, err)
		}
		unixTime, err := xsd.ParseInt64(parts[i+2])
		if err != nil {
			return nil, fmt.Errorf("invalid timestamp at position %d: %w", i+2, err)
		}
		positions = append(positions, Position{Lat: lat, Lon: lon, Timestamp: time.Unix(unixTime, 0).UTC()})
	}
	return positions, nil
}

// ParseTuples reads one whitespace-separated tuple of doubles per line. NaN
// marks a missing value.
func ParseTuples(s string) ([][]float64, error) {
	var tuples [][]float64
	for _, line := range strings.Split(strings.TrimSpace(s), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		values, err := xsd.ParseDoubles(line)
		if err != nil {
			return nil, err
		}
		tuples = append(tuples, values)
	}
	return tuples, nil
}

func phenomenonTime(ts *meas.TimeSeriesFlexible) (meas.Item, error) {
	first, last := ts.Timestamps[0], ts.Timestamps[0]
	for _, t := range ts.Timestamps[1:] {
		if t.Before(first) {
			first = t
		}
		if t.After(last) {
			last = t
		}
	}
	if first.Equal(last) {
		return meas.NewTimeInstant(first)
	}
	return meas.NewTimeRange(first, last)
}

func unitOf(opts Options, param string) string {
	if u, ok := opts.Units[param]; ok && u != "" {
		return u
	}
	return DefaultUnit
}

func coordinateKey(lat, lon float64) string {
	return fmt.Sprintf("%.5f,%.5f", lat, lon)
}

func parseCoordinates(s string) (float64, float64, error) {
	parts := strings.Fields(s)
	if len(parts) < 2 {
		return 0, 0, fmt.Errorf("invalid coordinate string: %s", s)
	}
	lat, err := xsd.ParseDouble(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid latitude: %w", err)
	}
	lon, err := xsd.ParseDouble(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid longitude: %w", err)
	}
	return lat, lon, nil
}
