package ruleset

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/spf13/afero"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"
)

// Bundle is the on-disk / on-wire form of one or more rule profiles.
// YAML, HCL, and JSON spellings all decode into the same structures.
type Bundle struct {
	Profiles []*Definition `json:"profiles" yaml:"profiles" hcl:"profile,block"`
}

// Definition is the serializable form of a rule set, before compilation.
type Definition struct {
	Name       string                  `json:"name" yaml:"name" hcl:"name,label"`
	Version    string                  `json:"version,omitempty" yaml:"version,omitempty" hcl:"version,optional"`
	Keywords   []string                `json:"keywords,omitempty" yaml:"keywords,omitempty" hcl:"keywords,optional"`
	Patterns   []*PatternDefinition    `json:"patterns" yaml:"patterns" hcl:"pattern,block"`
	Completion *CompletionDefinition   `json:"completion,omitempty" yaml:"completion,omitempty" hcl:"completion,block"`
	Validation []*ValidationDefinition `json:"validation,omitempty" yaml:"validation,omitempty" hcl:"rule,block"`
}

// PatternDefinition declares one token pattern. Exactly one of Literal or
// Match must be set; Match is a regular expression anchored at compile time.
type PatternDefinition struct {
	Name     string `json:"name" yaml:"name" hcl:"name,label"`
	Literal  string `json:"literal,omitempty" yaml:"literal,omitempty" hcl:"literal,optional"`
	Match    string `json:"match,omitempty" yaml:"match,omitempty" hcl:"match,optional"`
	Kind     string `json:"kind,omitempty" yaml:"kind,omitempty" hcl:"kind,optional"`
	Class    string `json:"class,omitempty" yaml:"class,omitempty" hcl:"class,optional"`
	Priority int    `json:"priority,omitempty" yaml:"priority,omitempty" hcl:"priority,optional"`
}

type CompletionDefinition struct {
	KeywordPriority int                       `json:"keyword_priority,omitempty" yaml:"keyword_priority,omitempty" hcl:"keyword_priority,optional"`
	StaticMembers   []*StaticMemberDefinition `json:"static_members,omitempty" yaml:"static_members,omitempty" hcl:"static_member,block"`
	Snippets        []*SnippetDefinition      `json:"snippets,omitempty" yaml:"snippets,omitempty" hcl:"snippet,block"`
}

type StaticMemberDefinition struct {
	Label         string `json:"label" yaml:"label" hcl:"label,label"`
	InsertText    string `json:"insert_text,omitempty" yaml:"insert_text,omitempty" hcl:"insert_text,optional"`
	Kind          string `json:"kind,omitempty" yaml:"kind,omitempty" hcl:"kind,optional"`
	Detail        string `json:"detail,omitempty" yaml:"detail,omitempty" hcl:"detail,optional"`
	Documentation string `json:"documentation,omitempty" yaml:"documentation,omitempty" hcl:"documentation,optional"`
	Priority      int    `json:"priority,omitempty" yaml:"priority,omitempty" hcl:"priority,optional"`
}

type SnippetDefinition struct {
	Label         string   `json:"label" yaml:"label" hcl:"label,label"`
	InsertText    string   `json:"insert_text" yaml:"insert_text" hcl:"insert_text"`
	Detail        string   `json:"detail,omitempty" yaml:"detail,omitempty" hcl:"detail,optional"`
	Documentation string   `json:"documentation,omitempty" yaml:"documentation,omitempty" hcl:"documentation,optional"`
	Priority      int      `json:"priority,omitempty" yaml:"priority,omitempty" hcl:"priority,optional"`
	Statements    []string `json:"statements,omitempty" yaml:"statements,omitempty" hcl:"statements,optional"`
}

// ValidationDefinition declares one validation rule. Like patterns, exactly
// one of Literal or Match must be set.
type ValidationDefinition struct {
	Name     string `json:"name" yaml:"name" hcl:"name,label"`
	Literal  string `json:"literal,omitempty" yaml:"literal,omitempty" hcl:"literal,optional"`
	Match    string `json:"match,omitempty" yaml:"match,omitempty" hcl:"match,optional"`
	Message  string `json:"message" yaml:"message" hcl:"message"`
	Severity string `json:"severity,omitempty" yaml:"severity,omitempty" hcl:"severity,optional"`
}

// LoadBundle reads and parses a bundle file, choosing the parser by
// extension: .yaml/.yml, .json, anything else is treated as HCL.
func LoadBundle(fs afero.Fs, path string) (*Bundle, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Errorf("reading bundle file: %w", err)
	}
	return ParseBundle(data, path)
}

// ParseBundle parses bundle data. The path is only used to pick the format
// and to label HCL parse errors.
func ParseBundle(data []byte, path string) (*Bundle, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var bundle Bundle
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&bundle); err != nil {
			return nil, errors.Errorf("parsing YAML bundle: %w", err)
		}
		return &bundle, nil

	case ".json":
		var bundle Bundle
		if err := json.Unmarshal(data, &bundle); err != nil {
			return nil, errors.Errorf("parsing JSON bundle: %w", err)
		}
		return &bundle, nil

	default:
		parser := hclparse.NewParser()
		hclFile, diags := parser.ParseHCL(data, path)
		if diags.HasErrors() {
			return nil, errors.Errorf("parsing HCL bundle: %s", diags.Error())
		}

		evalCtx := &hcl.EvalContext{
			Variables: map[string]cty.Value{},
		}

		var bundle Bundle
		diags = gohcl.DecodeBody(hclFile.Body, evalCtx, &bundle)
		if diags.HasErrors() {
			return nil, errors.Errorf("decoding HCL bundle: %s", diags.Error())
		}
		return &bundle, nil
	}
}

// Find returns the profile matching name and version, or nil. An empty
// version on either side means "default".
func (b *Bundle) Find(name, version string) *Definition {
	version = normalizeVersion(version)
	for _, def := range b.Profiles {
		if def == nil {
			continue
		}
		if strings.EqualFold(def.Name, name) && normalizeVersion(def.Version) == version {
			return def
		}
	}
	return nil
}
