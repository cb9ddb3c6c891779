package traverson

import (
	"context"
	"fmt"

	"github.com/yosida95/uritemplate/v3"

	"github.com/waypost-dev/waypost/pkg/errors"
	"github.com/waypost-dev/waypost/pkg/hal"
)

// LinkResolver fetches the raw document a link points at. Implementations
// own the transport concerns, such as headers, retries, and caching. By the
// time a link reaches the resolver its href is expanded and absolute.
type LinkResolver interface {
	ResolveLink(ctx context.Context, link hal.Link) ([]byte, error)
}

// ResolverFunc adapts a plain function to the LinkResolver interface.
type ResolverFunc func(ctx context.Context, link hal.Link) ([]byte, error)

// ResolveLink calls f.
func (f ResolverFunc) ResolveLink(ctx context.Context, link hal.Link) ([]byte, error) {
	return f(ctx, link)
}

// Vars holds template variables for link expansion. Strings and string
// slices pass through as-is, every other value is stringified.
type Vars map[string]any

// ExpandFunc expands a URI template with the given variables.
type ExpandFunc func(template string, vars Vars) (string, error)

// ExpandTemplate is the default ExpandFunc. It expands RFC 6570 URI
// templates; variables missing from vars expand to nothing.
func ExpandTemplate(template string, vars Vars) (string, error) {
	tmpl, err := uritemplate.New(template)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidTemplate, err, "cannot parse URI template %q", template)
	}
	values := make(uritemplate.Values, len(vars))
	for name, value := range vars {
		switch v := value.(type) {
		case string:
			values[name] = uritemplate.String(v)
		case []string:
			values[name] = uritemplate.List(v...)
		case fmt.Stringer:
			values[name] = uritemplate.String(v.String())
		default:
			values[name] = uritemplate.String(fmt.Sprint(v))
		}
	}
	expanded, err := tmpl.Expand(values)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidTemplate, err, "cannot expand URI template %q", template)
	}
	return expanded, nil
}
