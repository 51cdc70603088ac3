package datastructure

import (
	"encoding/json"
	"strings"
)

const (
	FieldType     = "type"
	FieldCreated  = "created"
	FieldPos      = "pos"
	FieldAddress  = "address"
	FieldNodeRefs = "node_refs"
)

// ShapedRecord model info
// @Description flat document produced from one osm node/way, ready for bulk import into a document store.
// sub documents (created, pos, address, node_refs) are left nil when they would be empty.
type ShapedRecord struct {
	Type     string            `msgpack:"type"`                // node or way
	Created  map[string]string `msgpack:"created,omitempty"`   // version, changeset, timestamp, user, uid
	Pos      []float64         `msgpack:"pos,omitempty"`       // [lat, lon]
	Address  map[string]string `msgpack:"address,omitempty"`   // addr:* tags without the prefix
	NodeRefs []string          `msgpack:"node_refs,omitempty"` // nd refs in document order
	// RegionFlag is the document key of the region mismatch flag (eg. not_in_Shanghai). empty if the city matched.
	RegionFlag string            `msgpack:"region_flag,omitempty"`
	Fields     map[string]string `msgpack:"fields,omitempty"` // flattened attributes and tags
}

func NewShapedRecord(tipe ElementKind) *ShapedRecord {
	return &ShapedRecord{
		Type:   string(tipe),
		Fields: make(map[string]string),
	}
}

func (r *ShapedRecord) ID() string {
	return r.Fields["id"]
}

// Document returns the record as a flat document. structural keys overwrite flattened fields with the same name.
func (r *ShapedRecord) Document() map[string]any {
	doc := make(map[string]any, len(r.Fields)+6)
	for k, v := range r.Fields {
		doc[k] = v
	}
	doc[FieldType] = r.Type
	if len(r.Created) != 0 {
		doc[FieldCreated] = r.Created
	}
	if len(r.Pos) != 0 {
		doc[FieldPos] = r.Pos
	}
	if len(r.Address) != 0 {
		doc[FieldAddress] = r.Address
	}
	if len(r.NodeRefs) != 0 {
		doc[FieldNodeRefs] = r.NodeRefs
	}
	if r.RegionFlag != "" {
		doc[r.RegionFlag] = true
	}
	return doc
}

func (r *ShapedRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Document())
}

// Value looks up a string value by document path. "created.user" and "address.postcode" reach into
// the nested documents, anything else is a top level field.
func (r *ShapedRecord) Value(path string) (string, bool) {
	if path == FieldType {
		return r.Type, r.Type != ""
	}
	parent, child, nested := strings.Cut(path, ".")
	if nested {
		switch parent {
		case FieldCreated:
			v, ok := r.Created[child]
			return v, ok
		case FieldAddress:
			v, ok := r.Address[child]
			return v, ok
		}
	}
	v, ok := r.Fields[path]
	return v, ok
}
