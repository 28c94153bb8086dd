package coverage

import (
	"encoding/xml"
)

// featureCollection is the root element of a WFS GetFeature response
type featureCollection struct {
	XMLName   xml.Name        `xml:"FeatureCollection"`
	TimeStamp string          `xml:"timeStamp,attr"`
	Members   []featureMember `xml:"member"`
}

type featureMember struct {
	Observation *gridSeriesObservation `xml:"GridSeriesObservation"`
}

// gridSeriesObservation is an O&M observation whose result is a coverage
type gridSeriesObservation struct {
	GmlID            string        `xml:"id,attr"`
	ResultTime       string        `xml:"resultTime>TimeInstant>timePosition"`
	Procedure        reference     `xml:"procedure"`
	ObservedProperty reference     `xml:"observedProperty"`
	Feature          samplingShape `xml:"featureOfInterest>SF_SpatialSamplingFeature"`
	Coverage         pointCoverage `xml:"result>MultiPointCoverage"`
}

type reference struct {
	Href string `xml:"href,attr"`
}

// samplingShape carries the sampled locations and their points
type samplingShape struct {
	Locations []location   `xml:"sampledFeature>LocationCollection>member>Location"`
	Points    []namedPoint `xml:"shape>MultiPoint>pointMember>Point"`
}

type location struct {
	Identifier string    `xml:"identifier"`
	Names      []gmlName `xml:"name"`
	Region     string    `xml:"region"`
}

type gmlName struct {
	CodeSpace string `xml:"codeSpace,attr"`
	Value     string `xml:",chardata"`
}

type namedPoint struct {
	Name string `xml:"name"`
	Pos  string `xml:"pos"`
}

// pointCoverage is a gmlcov:MultiPointCoverage: one tuple of range values per
// lat/lon/time position
type pointCoverage struct {
	Positions string       `xml:"domainSet>SimpleMultiPoint>positions"`
	Tuples    string       `xml:"rangeSet>DataBlock>doubleOrNilReasonTupleList"`
	Fields    []rangeField `xml:"rangeType>DataRecord>field"`
}

type rangeField struct {
	Name string `xml:"name,attr"`
	Href string `xml:"href,attr"`
}
