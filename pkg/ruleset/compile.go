package ruleset

import (
	"github.com/hashicorp/go-multierror"
	"gitlab.com/tozd/go/errors"
)

// Compile turns a definition into an immutable RuleSet. All problems in the
// definition are reported together rather than one at a time; a definition
// that fails to compile yields no rule set, which callers treat as a
// resolution failure (and fall back to defaults).
func (d *Definition) Compile() (*RuleSet, error) {
	var errs *multierror.Error

	if d.Name == "" {
		errs = multierror.Append(errs, errors.New("profile name is required"))
	}

	rs := &RuleSet{
		Name:     d.Name,
		Version:  normalizeVersion(d.Version),
		Keywords: append([]string(nil), d.Keywords...),
	}

	for _, pd := range d.Patterns {
		if pd == nil {
			continue
		}
		matcher, err := pd.matcher()
		if err != nil {
			errs = multierror.Append(errs, errors.Errorf("pattern %q: %w", pd.Name, err))
			continue
		}
		kind := TokenKind(pd.Kind)
		if kind == "" {
			kind = KindUnknown
		}
		rs.Patterns = append(rs.Patterns, TokenPattern{
			Name:     pd.Name,
			Matcher:  matcher,
			Kind:     kind,
			Class:    pd.Class,
			Priority: pd.Priority,
		})
	}

	if d.Completion != nil {
		rs.Completion.KeywordPriority = d.Completion.KeywordPriority
		for _, md := range d.Completion.StaticMembers {
			if md == nil {
				continue
			}
			rs.Completion.StaticMembers = append(rs.Completion.StaticMembers, StaticMember{
				Label:         md.Label,
				InsertText:    insertTextOrLabel(md.InsertText, md.Label),
				Kind:          md.Kind,
				Detail:        md.Detail,
				Documentation: md.Documentation,
				Priority:      md.Priority,
			})
		}
		for _, sd := range d.Completion.Snippets {
			if sd == nil {
				continue
			}
			rs.Completion.Snippets = append(rs.Completion.Snippets, Snippet{
				Label:         sd.Label,
				InsertText:    insertTextOrLabel(sd.InsertText, sd.Label),
				Detail:        sd.Detail,
				Documentation: sd.Documentation,
				Priority:      sd.Priority,
				Statements:    append([]string(nil), sd.Statements...),
			})
		}
	}

	for _, vd := range d.Validation {
		if vd == nil {
			continue
		}
		matcher, err := vd.matcherOf()
		if err != nil {
			errs = multierror.Append(errs, errors.Errorf("rule %q: %w", vd.Name, err))
			continue
		}
		severity, err := parseSeverity(vd.Severity)
		if err != nil {
			errs = multierror.Append(errs, errors.Errorf("rule %q: %w", vd.Name, err))
			continue
		}
		if vd.Message == "" {
			errs = multierror.Append(errs, errors.Errorf("rule %q: message is required", vd.Name))
			continue
		}
		rs.Validation = append(rs.Validation, ValidationRule{
			Name:     vd.Name,
			Matcher:  matcher,
			Message:  vd.Message,
			Severity: severity,
		})
	}

	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}

	rs.normalize()
	return rs, nil
}

func (pd *PatternDefinition) matcher() (Matcher, error) {
	return matcherFrom(pd.Literal, pd.Match)
}

func (vd *ValidationDefinition) matcherOf() (Matcher, error) {
	return matcherFrom(vd.Literal, vd.Match)
}

func matcherFrom(literal, match string) (Matcher, error) {
	switch {
	case literal != "" && match != "":
		return Matcher{}, errors.New("literal and match are mutually exclusive")
	case literal != "":
		return Literal(literal), nil
	case match != "":
		return Regexp(match)
	default:
		return Matcher{}, errors.New("one of literal or match is required")
	}
}

func parseSeverity(raw string) (Severity, error) {
	switch Severity(raw) {
	case "":
		return SeverityWarning, nil
	case SeverityError, SeverityWarning, SeverityInfo, SeverityHint:
		return Severity(raw), nil
	default:
		return "", errors.Errorf("unknown severity %q", raw)
	}
}

func insertTextOrLabel(insert, label string) string {
	if insert != "" {
		return insert
	}
	return label
}
