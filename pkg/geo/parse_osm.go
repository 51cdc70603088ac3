package geo

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/lintang-b-s/osm-wrangler/pkg/datastructure"
)

// Scanner is a forward only iterator over the top level elements of an osm document.
// usage follows paulmach/osm scanners:
//
//	for scanner.Scan() {
//		el := scanner.Element()
//	}
//	if err := scanner.Err(); err != nil { ... }
type Scanner interface {
	Scan() bool
	Element() datastructure.SourceElement
	Err() error
	Close() error
}

var ErrUnexpectedEOF = errors.New("unexpected end of osm document")

// XMLScanner streams an osm xml document token by token. only one element and its children are
// held in memory at a time. every attribute is kept as is, including ones the typed osm decoders drop.
type XMLScanner struct {
	dec     *xml.Decoder
	closers []io.Closer

	depth   int
	current datastructure.SourceElement
	element datastructure.SourceElement
	err     error
	done    bool
}

func NewXMLScanner(r io.Reader, closers ...io.Closer) *XMLScanner {
	return &XMLScanner{
		dec:     xml.NewDecoder(r),
		closers: closers,
	}
}

func (s *XMLScanner) Scan() bool {
	if s.done {
		return false
	}
	for {
		tok, err := s.dec.Token()
		if err == io.EOF {
			s.done = true
			if s.depth > 0 {
				s.err = ErrUnexpectedEOF
			}
			return false
		}
		if err != nil {
			s.done = true
			if isTruncation(err) {
				s.err = fmt.Errorf("%w: %v", ErrUnexpectedEOF, err)
			} else {
				s.err = fmt.Errorf("decode osm xml: %w", err)
			}
			return false
		}

		switch t := tok.(type) {
		case xml.StartElement:
			s.depth++
			switch s.depth {
			case 2:
				s.current = datastructure.NewSourceElement(t.Name.Local, attrMap(t.Attr))
			case 3:
				s.current.Children = append(s.current.Children, newChild(t))
			}
		case xml.EndElement:
			s.depth--
			if s.depth == 1 {
				s.element = s.current
				s.current = datastructure.SourceElement{}
				return true
			}
		}
	}
}

// isTruncation reports whether err is the strict decoder hitting the end of input inside an element.
func isTruncation(err error) bool {
	var syntaxErr *xml.SyntaxError
	if errors.As(err, &syntaxErr) {
		return strings.HasPrefix(syntaxErr.Msg, "unexpected EOF")
	}
	return errors.Is(err, io.ErrUnexpectedEOF)
}

func (s *XMLScanner) Element() datastructure.SourceElement {
	return s.element
}

func (s *XMLScanner) Err() error {
	return s.err
}

func (s *XMLScanner) Close() error {
	s.done = true
	return closeAll(s.closers)
}

func attrMap(attrs []xml.Attr) map[string]string {
	m := make(map[string]string, len(attrs))
	for _, a := range attrs {
		m[a.Name.Local] = a.Value
	}
	return m
}

func newChild(t xml.StartElement) datastructure.Child {
	kind := datastructure.ChildOther
	switch t.Name.Local {
	case "tag":
		kind = datastructure.ChildTag
	case "nd":
		kind = datastructure.ChildNd
	}
	return datastructure.Child{
		Kind:  kind,
		Name:  t.Name.Local,
		Attrs: attrMap(t.Attr),
	}
}

func closeAll(closers []io.Closer) error {
	var errs []error
	// innermost reader first, the file last
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
