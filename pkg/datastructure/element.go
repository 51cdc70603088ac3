package datastructure

import "fmt"

type ElementKind string

const (
	KindNode  ElementKind = "node"
	KindWay   ElementKind = "way"
	KindOther ElementKind = "other"
)

func KindOf(name string) ElementKind {
	switch name {
	case "node":
		return KindNode
	case "way":
		return KindWay
	}
	return KindOther
}

type ChildKind string

const (
	ChildTag   ChildKind = "tag"
	ChildNd    ChildKind = "nd"
	ChildOther ChildKind = "other"
)

// Child is one direct child of an osm element. tag children carry k/v, nd children carry ref.
type Child struct {
	Kind  ChildKind
	Name  string
	Attrs map[string]string
}

func NewTag(k, v string) Child {
	return Child{Kind: ChildTag, Name: "tag", Attrs: map[string]string{"k": k, "v": v}}
}

func NewNd(ref string) Child {
	return Child{Kind: ChildNd, Name: "nd", Attrs: map[string]string{"ref": ref}}
}

// SourceElement is a top level element of an osm document (node, way, relation, bounds, ...).
// Name is the raw element name, Kind folds everything that is not a node or a way into KindOther.
type SourceElement struct {
	Kind     ElementKind
	Name     string
	Attrs    map[string]string
	Children []Child
}

func NewSourceElement(name string, attrs map[string]string, children ...Child) SourceElement {
	if attrs == nil {
		attrs = make(map[string]string)
	}
	return SourceElement{
		Kind:     KindOf(name),
		Name:     name,
		Attrs:    attrs,
		Children: children,
	}
}

// ID returns the id attribute or "?" when the element has none. only used for diagnostics.
func (e SourceElement) ID() string {
	id, ok := e.Attrs["id"]
	if !ok {
		return "?"
	}
	return id
}

func (e SourceElement) String() string {
	return fmt.Sprintf("%s/%s", e.Name, e.ID())
}
