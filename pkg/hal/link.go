package hal

import (
	"strings"
)

// Standard link-relation types used by the factory functions.
const (
	// RelSelf identifies the canonical URI of the enclosing resource.
	RelSelf = "self"
	// RelItem identifies a member of a collection resource.
	RelItem = "item"
	// RelCollection identifies the collection a resource belongs to.
	RelCollection = "collection"
	// RelCuries is the reserved relation type under which CURIE
	// definitions are published.
	RelCuries = "curies"
	// RelNext and RelPrev identify the neighbouring pages of a paged
	// collection resource.
	RelNext = "next"
	RelPrev = "prev"
)

// Link is a single hyperlink of a HAL document: a relation type, an href
// and optional metadata. Links are plain values and are never mutated;
// deriving a variant means constructing a new Link.
//
// The zero value is not a usable link. Rel and Href must be non-empty;
// this is enforced wherever links enter a collection or are decoded,
// not by the factory functions themselves.
type Link struct {
	Rel         string // Relation type ("self", "next", "x:product", ...)
	Href        string // Target URI, possibly a URI template
	Type        string // Media type hint of the target
	HrefLang    string // Language of the target
	Title       string // Human-readable label
	Name        string // Secondary key; mandatory for curies
	Profile     string // Profile URI of the target
	Deprecation string // URL documenting the deprecation, if deprecated
}

// NewLink creates a link with the given relation type and href.
func NewLink(rel, href string) Link {
	return Link{Rel: rel, Href: href}
}

// Self creates a link with relation type "self".
func Self(href string) Link {
	return NewLink(RelSelf, href)
}

// Item creates a link with relation type "item".
func Item(href string) Link {
	return NewLink(RelItem, href)
}

// Collection creates a link with relation type "collection".
func Collection(href string) Link {
	return NewLink(RelCollection, href)
}

// Profile creates a link with relation type "profile".
func Profile(href string) Link {
	return NewLink("profile", href)
}

// Curi creates a CURIE definition link: relation type "curies", the given
// name, and a templated href containing the {rel} placeholder. The
// placeholder requirement is checked when the link is registered or
// turned into a [CuriTemplate], not here.
func Curi(name, relTemplate string) Link {
	l := NewLink(RelCuries, relTemplate)
	l.Name = name
	return l
}

// Templated reports whether the href contains a URI-template expression.
// The flag is always derived from the href, never stored.
func (l Link) Templated() bool {
	return strings.Contains(l.Href, "{")
}

// IsEquivalentTo reports whether two links refer to the same target in
// the same role: equal rel, href, type and profile. Title, name,
// hreflang and deprecation are presentation details and are ignored.
func (l Link) IsEquivalentTo(other Link) bool {
	return l.Rel == other.Rel &&
		l.Href == other.Href &&
		l.Type == other.Type &&
		l.Profile == other.Profile
}

// String returns a compact "rel -> href" form for logs and errors.
func (l Link) String() string {
	return l.Rel + " -> " + l.Href
}

// LinkBuilder assembles a Link with optional metadata. Use [BuildLink]
// to create one and Build to obtain the finished value:
//
//	link := hal.BuildLink("search", "/search{?q}").
//	    WithType("application/hal+json").
//	    WithTitle("Full-text search").
//	    Build()
type LinkBuilder struct {
	link Link
}

// BuildLink starts a builder for a link with the given relation type
// and href.
func BuildLink(rel, href string) *LinkBuilder {
	return &LinkBuilder{link: NewLink(rel, href)}
}

// WithType sets the media type hint of the target.
func (b *LinkBuilder) WithType(mediaType string) *LinkBuilder {
	b.link.Type = mediaType
	return b
}

// WithHrefLang sets the language of the target.
func (b *LinkBuilder) WithHrefLang(hrefLang string) *LinkBuilder {
	b.link.HrefLang = hrefLang
	return b
}

// WithTitle sets the human-readable label.
func (b *LinkBuilder) WithTitle(title string) *LinkBuilder {
	b.link.Title = title
	return b
}

// WithName sets the secondary key.
func (b *LinkBuilder) WithName(name string) *LinkBuilder {
	b.link.Name = name
	return b
}

// WithProfile sets the profile URI of the target.
func (b *LinkBuilder) WithProfile(profile string) *LinkBuilder {
	b.link.Profile = profile
	return b
}

// WithDeprecation marks the link as deprecated, pointing at a URL that
// documents the deprecation.
func (b *LinkBuilder) WithDeprecation(deprecation string) *LinkBuilder {
	b.link.Deprecation = deprecation
	return b
}

// Build returns the assembled link.
func (b *LinkBuilder) Build() Link {
	return b.link
}
