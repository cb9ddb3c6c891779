package hal

import (
	"bytes"
	"encoding/json"

	"github.com/waypost-dev/waypost/pkg/errors"
)

// wireLink is the encoding/json shape of a HAL link object. The rel is
// carried by the enclosing map key, never by the object itself.
type wireLink struct {
	Href        string `json:"href"`
	Templated   *bool  `json:"templated,omitempty"`
	Type        string `json:"type,omitempty"`
	HrefLang    string `json:"hreflang,omitempty"`
	Title       string `json:"title,omitempty"`
	Name        string `json:"name,omitempty"`
	Profile     string `json:"profile,omitempty"`
	Deprecation string `json:"deprecation,omitempty"`
}

// MarshalJSON encodes the link as a HAL link object. The templated
// flag is derived from the href and only written when true.
func (l Link) MarshalJSON() ([]byte, error) {
	w := wireLink{
		Href:        l.Href,
		Type:        l.Type,
		HrefLang:    l.HrefLang,
		Title:       l.Title,
		Name:        l.Name,
		Profile:     l.Profile,
		Deprecation: l.Deprecation,
	}
	if l.Templated() {
		templated := true
		w.Templated = &templated
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes a HAL link object. A missing href, or a
// declared templated flag disagreeing with the value derived from the
// href, is a DECODE error. The rel is not part of a link object; the
// receiver's Rel is left untouched for the caller to fill in from the
// enclosing map key.
func (l *Link) UnmarshalJSON(data []byte) error {
	var w wireLink
	if err := json.Unmarshal(data, &w); err != nil {
		return errors.Wrap(errors.ErrCodeDecode, err, "cannot decode link object")
	}
	if w.Href == "" {
		return errors.New(errors.ErrCodeDecode, "link object must have an href")
	}
	link := Link{
		Rel:         l.Rel,
		Href:        w.Href,
		Type:        w.Type,
		HrefLang:    w.HrefLang,
		Title:       w.Title,
		Name:        w.Name,
		Profile:     w.Profile,
		Deprecation: w.Deprecation,
	}
	if w.Templated != nil && *w.Templated != link.Templated() {
		return errors.New(errors.ErrCodeDecode, "templated flag %t disagrees with href %q", *w.Templated, w.Href)
	}
	*l = link
	return nil
}

// MarshalJSON encodes the collection as the value of a "_links"
// member: relation types in insertion order, each one a link object or
// an array of link objects according to its tag.
func (l Links) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range l.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeMember(&buf, e.rel, e.single, e.links); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes the value of a "_links" member. Relation-type
// keys are resolved against the registry built from the document's own
// curies; single-vs-array tags follow the JSON shape.
func (l *Links) UnmarshalJSON(data []byte) error {
	members, err := decodeOrderedObject(data)
	if err != nil {
		return errors.Wrap(errors.ErrCodeDecode, err, "cannot decode _links")
	}
	raw := Links{}
	for _, m := range members {
		if m.key == "" {
			return errors.New(errors.ErrCodeDecode, "relation type must not be empty")
		}
		var entry linkEntry
		switch firstByte(m.raw) {
		case '{':
			var link Link
			if err := json.Unmarshal(m.raw, &link); err != nil {
				return err
			}
			link.Rel = m.key
			entry = linkEntry{rel: m.key, single: true, links: []Link{link}}
		case '[':
			var links []Link
			if err := json.Unmarshal(m.raw, &links); err != nil {
				return err
			}
			for i := range links {
				links[i].Rel = m.key
			}
			entry = linkEntry{rel: m.key, single: false, links: links}
		case 'n':
			continue
		default:
			return errors.New(errors.ErrCodeDecode, "relation type %q must map to a link object or an array", m.key)
		}
		raw.setEntryRaw(entry)
	}
	curies := Curies{}
	for _, e := range raw.entries {
		if e.rel != RelCuries {
			continue
		}
		for _, curi := range e.links {
			curies, _ = curies.Register(curi)
		}
	}
	resolved, err := raw.resolveKeys(curies)
	if err != nil {
		return errors.Wrap(errors.ErrCodeDecode, err, "conflicting relation types in _links")
	}
	*l = resolved
	return nil
}

// setEntryRaw replaces the entry with the same raw key or appends a
// new one. Duplicate JSON keys therefore follow last-wins semantics.
func (l *Links) setEntryRaw(e linkEntry) {
	for i := range l.entries {
		if l.entries[i].rel == e.rel {
			l.entries[i] = e
			return
		}
	}
	l.entries = append(l.entries, e)
}

// MarshalJSON encodes the collection as the value of an "_embedded"
// member, mirroring the Links encoding.
func (e Embedded) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, entry := range e.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeMember(&buf, entry.rel, entry.single, entry.items); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes the value of an "_embedded" member. The curie
// registry for lookups is attached later by the enclosing
// representation's decoder.
func (e *Embedded) UnmarshalJSON(data []byte) error {
	members, err := decodeOrderedObject(data)
	if err != nil {
		return errors.Wrap(errors.ErrCodeDecode, err, "cannot decode _embedded")
	}
	decoded := Embedded{}
	for _, m := range members {
		if m.key == "" {
			return errors.New(errors.ErrCodeDecode, "relation type must not be empty")
		}
		var entry embeddedEntry
		switch firstByte(m.raw) {
		case '{':
			var item Representation
			if err := json.Unmarshal(m.raw, &item); err != nil {
				return err
			}
			entry = embeddedEntry{rel: m.key, single: true, items: []Representation{item}}
		case '[':
			var items []Representation
			if err := json.Unmarshal(m.raw, &items); err != nil {
				return err
			}
			entry = embeddedEntry{rel: m.key, single: false, items: items}
		case 'n':
			continue
		default:
			return errors.New(errors.ErrCodeDecode, "relation type %q must map to a representation or an array", m.key)
		}
		decoded = decoded.setEntry(entry)
	}
	*e = decoded
	return nil
}

// MarshalJSON encodes the representation as a HAL+JSON document:
// "_links" first, then "_embedded", then the opaque attributes in
// document order.
func (r Representation) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	needComma := false
	if !r.links.IsEmpty() {
		buf.WriteString(`"_links":`)
		data, err := json.Marshal(r.links)
		if err != nil {
			return nil, err
		}
		buf.Write(data)
		needComma = true
	}
	if !r.embedded.IsEmpty() {
		if needComma {
			buf.WriteByte(',')
		}
		buf.WriteString(`"_embedded":`)
		data, err := json.Marshal(r.embedded)
		if err != nil {
			return nil, err
		}
		buf.Write(data)
		needComma = true
	}
	for _, a := range r.attributes {
		if needComma {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(a.name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(a.value)
		needComma = true
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a HAL+JSON document. Unknown top-level members
// are kept as opaque attributes in document order; embedded
// sub-resources are merged with the document's curies so relation-type
// keys are consistent at every nesting depth.
func (r *Representation) UnmarshalJSON(data []byte) error {
	members, err := decodeOrderedObject(data)
	if err != nil {
		return errors.Wrap(errors.ErrCodeDecode, err, "cannot decode HAL document")
	}
	var (
		decoded     Representation
		embeddedRaw json.RawMessage
	)
	for _, m := range members {
		switch m.key {
		case "_links":
			if firstByte(m.raw) == 'n' {
				continue
			}
			if err := json.Unmarshal(m.raw, &decoded.links); err != nil {
				return err
			}
		case "_embedded":
			embeddedRaw = m.raw
		default:
			decoded.setAttributeRaw(m.key, m.raw)
		}
	}
	if embeddedRaw != nil && firstByte(embeddedRaw) != 'n' {
		var embedded Embedded
		if err := json.Unmarshal(embeddedRaw, &embedded); err != nil {
			return err
		}
		decoded.embedded = embedded.mergeWithEmbedding(decoded.links.curies)
	}
	*r = decoded
	return nil
}

func (r *Representation) setAttributeRaw(name string, value json.RawMessage) {
	for i := range r.attributes {
		if r.attributes[i].name == name {
			r.attributes[i].value = value
			return
		}
	}
	r.attributes = append(r.attributes, attribute{name: name, value: value})
}

// Parse decodes data as a HAL+JSON document. Syntax errors and HAL
// structure violations are DECODE errors.
func Parse(data []byte) (Representation, error) {
	var r Representation
	if err := json.Unmarshal(data, &r); err != nil {
		if errors.GetCode(err) != "" {
			return Representation{}, err
		}
		return Representation{}, errors.Wrap(errors.ErrCodeDecode, err, "cannot parse HAL document")
	}
	return r, nil
}

// member is one key/value pair of a JSON object, in document order.
type member struct {
	key string
	raw json.RawMessage
}

// decodeOrderedObject walks a JSON object token by token, preserving
// member order, which encoding/json maps would lose.
func decodeOrderedObject(data []byte) ([]member, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.New(errors.ErrCodeDecode, "expected a JSON object, got %v", tok)
	}
	var members []member
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, errors.New(errors.ErrCodeDecode, "expected an object key, got %v", keyTok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, err
		}
		members = append(members, member{key: key, raw: raw})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return members, nil
}

// firstByte returns the first non-whitespace byte of raw JSON, or 0
// for blank input.
func firstByte(raw json.RawMessage) byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}

// writeMember writes one `"rel": value` member where the value is a
// single object or an array according to the tag.
func writeMember[T any](buf *bytes.Buffer, rel string, single bool, values []T) error {
	key, err := json.Marshal(rel)
	if err != nil {
		return err
	}
	buf.Write(key)
	buf.WriteByte(':')
	if single && len(values) > 0 {
		data, err := json.Marshal(values[0])
		if err != nil {
			return err
		}
		buf.Write(data)
		return nil
	}
	if len(values) == 0 {
		buf.WriteString("[]")
		return nil
	}
	data, err := json.Marshal(values)
	if err != nil {
		return err
	}
	buf.Write(data)
	return nil
}
