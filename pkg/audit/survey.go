package audit

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"

	"github.com/lintang-b-s/osm-wrangler/pkg/datastructure"
	"github.com/lintang-b-s/osm-wrangler/pkg/geo"
)

// Survey counts element names and tag keys over a document, to get an idea of what needs cleaning.
type Survey struct {
	Tags map[string]int
	Keys map[string]int
}

func NewSurvey() *Survey {
	return &Survey{
		Tags: make(map[string]int),
		Keys: make(map[string]int),
	}
}

func (s *Survey) addStart(t xml.StartElement) {
	s.Tags[t.Name.Local]++
	if t.Name.Local != "tag" {
		return
	}
	for _, a := range t.Attr {
		if a.Name.Local == "k" {
			s.Keys[a.Value]++
		}
	}
}

// SurveyXML counts every element of an xml document at any depth, the root included.
func SurveyXML(r io.Reader) (*Survey, error) {
	s := NewSurvey()
	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return s, nil
		}
		if err != nil {
			return s, fmt.Errorf("survey: %w", err)
		}
		if start, ok := tok.(xml.StartElement); ok {
			s.addStart(start)
		}
	}
}

// Add counts a top level element and its direct children. pbf extracts have no root element and no
// deeper nesting, so this covers them fully.
func (s *Survey) Add(el datastructure.SourceElement) {
	s.Tags[el.Name]++
	for _, child := range el.Children {
		s.Tags[child.Name]++
		if child.Kind != datastructure.ChildTag {
			continue
		}
		if k, ok := child.Attrs["k"]; ok {
			s.Keys[k]++
		}
	}
}

// RunSurvey counts through a Scanner. use SurveyXML for xml input, Scanner elements do not show the root.
func RunSurvey(scanner geo.Scanner) (*Survey, error) {
	s := NewSurvey()
	for scanner.Scan() {
		s.Add(scanner.Element())
	}
	if err := scanner.Err(); err != nil {
		return s, fmt.Errorf("survey: %w", err)
	}
	return s, nil
}
