package geo

import (
	"io"
	"strconv"
	"time"

	"github.com/lintang-b-s/osm-wrangler/pkg/datastructure"

	"github.com/paulmach/osm"
)

const osmTimeFormat = "2006-01-02T15:04:05Z"

// ObjectScanner adapts a paulmach/osm scanner (osmpbf, osmxml) to Scanner.
type ObjectScanner struct {
	scanner osm.Scanner
	closers []io.Closer
	element datastructure.SourceElement
}

func NewObjectScanner(scanner osm.Scanner, closers ...io.Closer) *ObjectScanner {
	return &ObjectScanner{
		scanner: scanner,
		closers: closers,
	}
}

func (s *ObjectScanner) Scan() bool {
	if !s.scanner.Scan() {
		return false
	}
	s.element = FromObject(s.scanner.Object())
	return true
}

func (s *ObjectScanner) Element() datastructure.SourceElement {
	return s.element
}

func (s *ObjectScanner) Err() error {
	return s.scanner.Err()
}

func (s *ObjectScanner) Close() error {
	err := s.scanner.Close()
	if cerr := closeAll(s.closers); err == nil {
		err = cerr
	}
	return err
}

// FromObject converts a decoded osm object into the attribute/children form of the xml export.
func FromObject(o osm.Object) datastructure.SourceElement {
	switch obj := o.(type) {
	case *osm.Node:
		attrs := map[string]string{
			"id":  strconv.FormatInt(int64(obj.ID), 10),
			"lat": strconv.FormatFloat(obj.Lat, 'f', -1, 64),
			"lon": strconv.FormatFloat(obj.Lon, 'f', -1, 64),
		}
		putMeta(attrs, obj.Visible, obj.Version, int64(obj.ChangesetID), obj.Timestamp, obj.User, int64(obj.UserID))
		return datastructure.NewSourceElement("node", attrs, tagChildren(obj.Tags)...)

	case *osm.Way:
		attrs := map[string]string{
			"id": strconv.FormatInt(int64(obj.ID), 10),
		}
		putMeta(attrs, obj.Visible, obj.Version, int64(obj.ChangesetID), obj.Timestamp, obj.User, int64(obj.UserID))
		children := make([]datastructure.Child, 0, len(obj.Nodes)+len(obj.Tags))
		for _, wn := range obj.Nodes {
			children = append(children, datastructure.NewNd(strconv.FormatInt(int64(wn.ID), 10)))
		}
		children = append(children, tagChildren(obj.Tags)...)
		return datastructure.NewSourceElement("way", attrs, children...)

	case *osm.Relation:
		attrs := map[string]string{
			"id": strconv.FormatInt(int64(obj.ID), 10),
		}
		putMeta(attrs, obj.Visible, obj.Version, int64(obj.ChangesetID), obj.Timestamp, obj.User, int64(obj.UserID))
		children := make([]datastructure.Child, 0, len(obj.Members)+len(obj.Tags))
		for _, m := range obj.Members {
			children = append(children, datastructure.Child{
				Kind: datastructure.ChildOther,
				Name: "member",
				Attrs: map[string]string{
					"type": string(m.Type),
					"ref":  strconv.FormatInt(m.Ref, 10),
					"role": m.Role,
				},
			})
		}
		children = append(children, tagChildren(obj.Tags)...)
		return datastructure.NewSourceElement("relation", attrs, children...)
	}

	return datastructure.NewSourceElement(string(o.ObjectID().Type()), nil)
}

func putMeta(attrs map[string]string, visible bool, version int, changeset int64, ts time.Time, user string, uid int64) {
	attrs["visible"] = strconv.FormatBool(visible)
	if version != 0 {
		attrs["version"] = strconv.Itoa(version)
	}
	if changeset != 0 {
		attrs["changeset"] = strconv.FormatInt(changeset, 10)
	}
	if !ts.IsZero() {
		attrs["timestamp"] = ts.UTC().Format(osmTimeFormat)
	}
	if user != "" {
		attrs["user"] = user
	}
	if uid != 0 {
		attrs["uid"] = strconv.FormatInt(uid, 10)
	}
}

func tagChildren(tags osm.Tags) []datastructure.Child {
	children := make([]datastructure.Child, 0, len(tags))
	for _, t := range tags {
		children = append(children, datastructure.NewTag(t.Key, t.Value))
	}
	return children
}
