package signal

import (
	"fmt"
	"strings"

	"github.com/ktritz/fdp/internal/logger"
	fdperrors "github.com/ktritz/fdp/pkg/errors"
)

// Parser expands descriptors into Specs, sharing a PathCache across calls.
type Parser struct {
	cache *PathCache
	log   *logger.Logger
}

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithPathCache sets the cache used for storage path resolution.
func WithPathCache(c *PathCache) ParserOption {
	return func(p *Parser) {
		if c != nil {
			p.cache = c
		}
	}
}

// WithParserLogger attaches a logger; permissive fallbacks are reported at
// debug level.
func WithParserLogger(log *logger.Logger) ParserOption {
	return func(p *Parser) {
		p.log = log.Component("signal")
	}
}

// NewParser returns a parser backed by DefaultPathCache unless configured
// otherwise.
func NewParser(opts ...ParserOption) *Parser {
	p := &Parser{cache: DefaultPathCache}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var defaultParser = NewParser()

// Parse expands d with the default parser.
func Parse(owner Owner, d Descriptor) ([]Spec, error) {
	return defaultParser.Parse(owner, d)
}

// Cache returns the parser's path cache.
func (p *Parser) Cache() *PathCache {
	return p.cache
}

// Parse expands d, owned by owner, into one Spec per selected index, or a
// single Spec when d has no range. Only a malformed range or namerange is an
// error; other malformed fields degrade to absent values.
func (p *Parser) Parse(owner Owner, d Descriptor) ([]Spec, error) {
	if owner == nil {
		return nil, fmt.Errorf("signal: descriptor %q has no owner", d.Name)
	}

	base := p.common(owner, d)

	if strings.TrimSpace(d.Range) == "" {
		spec := base
		spec.Name = d.Name
		spec.Title = d.Title
		spec.Desc = d.Desc
		entry := p.cache.Resolve(owner, d)
		spec.Path, spec.DimOf = entry.Path, entry.DimOf
		return []Spec{spec}, nil
	}

	numbers, err := parseRange(d.Range)
	if err != nil {
		return nil, fdperrors.NewMalformedDescriptorError(d.Name, "range", d.Range, err)
	}
	names := numbers
	if strings.TrimSpace(d.NameRange) != "" {
		parsed, err := parseRange(d.NameRange)
		if err != nil {
			return nil, fdperrors.NewMalformedDescriptorError(d.Name, "namerange", d.NameRange, err)
		}
		if parsed.count() == numbers.count() {
			names = parsed
		} else {
			p.log.Debug("namerange cardinality differs from range, naming from range",
				"signal", d.Name, "range", d.Range, "namerange", d.NameRange)
		}
	}

	width := padWidth(numbers.end)
	switch {
	case names.hasWidth:
		width = names.width
	case numbers.hasWidth:
		width = numbers.width
	}

	specs := make([]Spec, 0, numbers.count())
	for i := 0; i < numbers.count(); i++ {
		nameIndex := pad(names.start+i, width)
		nodeIndex := pad(numbers.start+i, width)

		spec := base
		spec.Axes = append(make([]string, 0, len(base.Axes)), base.Axes...)
		spec.Transpose = append([]int(nil), base.Transpose...)
		if base.AxesRefs != nil {
			spec.AxesRefs = append([]string(nil), base.AxesRefs...)
		}

		name, ok := substitute(d.Name, nameIndex)
		if !ok {
			name = d.Name + nameIndex
		}
		spec.Name = name
		spec.Title, _ = substitute(d.Title, nameIndex)
		spec.Desc, _ = substitute(d.Desc, nameIndex)

		entry := p.cache.Resolve(owner, d)
		spec.Path, _ = substitute(entry.Path, nodeIndex)
		spec.DimOf = entry.DimOf

		specs = append(specs, spec)
	}
	return specs, nil
}

// common resolves the fields shared by every Spec a descriptor produces.
func (p *Parser) common(owner Owner, d Descriptor) Spec {
	spec := Spec{Owner: owner}

	spec.Units = d.Units
	if spec.Units == "" {
		if units, ok := owner.Units(); ok {
			spec.Units = units
		}
	}

	axes, transpose, err := parseAxes(d.Axes)
	if err != nil {
		p.log.Debug("ignoring malformed axes", "signal", d.Name, "axes", d.Axes, "error", err.Error())
	}
	spec.Axes, spec.Transpose = axes, transpose

	refs, err := parseRefs(d.AxesRefs, transpose)
	if err != nil {
		p.log.Debug("ignoring malformed axes_refs", "signal", d.Name, "axes_refs", d.AxesRefs, "error", err.Error())
	}
	spec.AxesRefs = refs

	spec.Tree = d.MDSTree
	if spec.Tree == "" {
		if tree, ok := owner.MDSTree(); ok {
			spec.Tree = tree
		}
	}

	if d.Error != "" {
		spec.Error = d.Error
		if base, ok := basePath(owner, d); ok {
			spec.Error = JoinPath(base, d.Error)
		}
	}
	return spec
}

// ParseDefaults turns a method-defaults record into the attribute key it is
// stored under and its default argument values.
func ParseDefaults(method string, values map[string]string) (string, map[string]string, error) {
	method = strings.TrimSpace(method)
	if method == "" {
		return "", nil, fmt.Errorf("signal: defaults record has no method")
	}
	defaults := make(map[string]string, len(values))
	for key, value := range values {
		if key == "method" {
			continue
		}
		defaults[key] = value
	}
	return fmt.Sprintf("_%s_defaults", method), defaults, nil
}
