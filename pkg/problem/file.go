package problem

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vito/unify/pkg/sig"
	"github.com/vito/unify/pkg/term"
)

// File is the on-disk form of a problem file. Terms are kept as source
// strings until Build or Parse resolves them.
type File struct {
	Options     Options        `toml:"options" yaml:"options"`
	Data        []DataDecl     `toml:"data" yaml:"data"`
	Postulates  []Decl         `toml:"postulate" yaml:"postulate"`
	Functions   []FunctionDecl `toml:"function" yaml:"function"`
	Definitions []Decl         `toml:"definition" yaml:"definition"`
	Problems    []ProblemDecl  `toml:"problem" yaml:"problem"`

	// Path is where the file was loaded from, if anywhere.
	Path string `toml:"-" yaml:"-"`
}

// Decl declares a name with a type and, for definitions, a body.
type Decl struct {
	Name string `toml:"name" yaml:"name"`
	Type string `toml:"type" yaml:"type"`
	Body string `toml:"body,omitempty" yaml:"body,omitempty"`
}

// DataDecl declares a type former and its constructors.
type DataDecl struct {
	Name         string `toml:"name" yaml:"name"`
	Type         string `toml:"type" yaml:"type"`
	Constructors []Decl `toml:"constructors" yaml:"constructors"`
}

// FunctionDecl declares a pattern-matching function. Clauses are written
// "f p1 .. pn = body".
type FunctionDecl struct {
	Name    string   `toml:"name" yaml:"name"`
	Type    string   `toml:"type" yaml:"type"`
	Clauses []string `toml:"clauses" yaml:"clauses"`
}

// ProblemDecl is a standalone set of equations over declared
// metavariables, written "X : type" and "lhs = rhs" with ?X references.
type ProblemDecl struct {
	Name      string   `toml:"name" yaml:"name"`
	Metas     []string `toml:"metas" yaml:"metas"`
	Equations []string `toml:"equations" yaml:"equations"`
}

// Format is the serialization of a problem file.
type Format int

const (
	TOML Format = iota
	YAML
)

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return TOML, nil
	case ".yaml", ".yml":
		return YAML, nil
	}
	return 0, errors.Errorf("%s: unknown problem file extension (want .toml, .yaml or .yml)", path)
}

// Load reads and decodes a problem file.
func Load(path string) (*File, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	f, err := Decode(data, format)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	f.Path = path
	return f, nil
}

// Decode decodes a problem file from memory.
func Decode(data []byte, format Format) (*File, error) {
	var f File
	switch format {
	case TOML:
		md, err := toml.NewDecoder(bytes.NewReader(data)).Decode(&f)
		if err != nil {
			return nil, err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, errors.Errorf("unknown keys: %v", undecoded)
		}
	case YAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			return nil, err
		}
	default:
		return nil, errors.Errorf("unknown format %d", format)
	}
	return &f, nil
}

// Read decodes a problem file from memory and builds it.
func Read(data []byte, format Format) (*Module, error) {
	f, err := Decode(data, format)
	if err != nil {
		return nil, err
	}
	return f.Build()
}

// Module is a File with its signature built. Definitions and problems stay
// unparsed because they may refer to definitions accepted before them.
type Module struct {
	Signature   *sig.Signature
	Options     Options
	Definitions []Decl
	Problems    []ProblemDecl
	Source      string
}

// Build resolves data types, postulates and functions into a signature.
// Function types are added before any clause is parsed, so functions may
// be mutually recursive.
func (f *File) Build() (*Module, error) {
	source := f.Path
	s := sig.New()

	for _, d := range f.Data {
		typ, err := ParseTerm(s, nil, nil, source, d.Type)
		if err != nil {
			return nil, errors.Wrapf(err, "data %s", d.Name)
		}
		if err := s.Add(&sig.Symbol{Name: d.Name, Kind: sig.TypeFormer, Type: typ, Arity: sig.Arity(typ)}); err != nil {
			return nil, err
		}
		for _, c := range d.Constructors {
			ctyp, err := ParseTerm(s, nil, nil, source, c.Type)
			if err != nil {
				return nil, errors.Wrapf(err, "constructor %s", c.Name)
			}
			if err := s.Add(&sig.Symbol{
				Name:  c.Name,
				Kind:  sig.Constructor,
				Type:  ctyp,
				Arity: sig.Arity(ctyp),
				Data:  d.Name,
			}); err != nil {
				return nil, err
			}
		}
	}

	for _, p := range f.Postulates {
		typ, err := ParseTerm(s, nil, nil, source, p.Type)
		if err != nil {
			return nil, errors.Wrapf(err, "postulate %s", p.Name)
		}
		if err := s.Add(&sig.Symbol{Name: p.Name, Kind: sig.Postulate, Type: typ, Arity: sig.Arity(typ)}); err != nil {
			return nil, err
		}
	}

	for _, fn := range f.Functions {
		typ, err := ParseTerm(s, nil, nil, source, fn.Type)
		if err != nil {
			return nil, errors.Wrapf(err, "function %s", fn.Name)
		}
		if err := s.Add(&sig.Symbol{Name: fn.Name, Kind: sig.Function, Type: typ}); err != nil {
			return nil, err
		}
	}
	for _, fn := range f.Functions {
		var clauses []sig.Clause
		for i, src := range fn.Clauses {
			cl, err := ParseClause(s, fn.Name, fmt.Sprintf("%s clause %d", fn.Name, i+1), src)
			if err != nil {
				return nil, errors.Wrapf(err, "function %s", fn.Name)
			}
			clauses = append(clauses, cl)
		}
		if err := s.Define(fn.Name, clauses); err != nil {
			return nil, err
		}
	}

	return &Module{
		Signature:   s,
		Options:     f.Options,
		Definitions: f.Definitions,
		Problems:    f.Problems,
		Source:      source,
	}, nil
}

// Definition is a parsed definition whose body may contain holes.
type Definition struct {
	Name string
	Type term.Term
	Body term.Term
	// Holes gives the origin of every placeholder in Type and Body.
	Holes map[term.MetaID]string
}

// Parse resolves a definition against the signature as it stands.
func (d Decl) Parse(s *sig.Signature, source string) (*Definition, error) {
	ph := NewPlaceholders()
	label := d.Name
	if source != "" {
		label = source + ":" + d.Name
	}
	typ, err := ParseTerm(s, nil, ph, label+":type", d.Type)
	if err != nil {
		return nil, err
	}
	body, err := ParseTerm(s, nil, ph, label, d.Body)
	if err != nil {
		return nil, err
	}
	return &Definition{Name: d.Name, Type: typ, Body: body, Holes: ph.Holes}, nil
}

// MetaDecl is a declared metavariable of a problem. ID is its placeholder.
type MetaDecl struct {
	Name string
	ID   term.MetaID
	Type term.Term
}

// Equation is a parsed problem equation, closed except for placeholders.
type Equation struct {
	LHS    term.Term
	RHS    term.Term
	Source string
}

// Problem is a parsed ProblemDecl.
type Problem struct {
	Name      string
	Metas     []MetaDecl
	Equations []Equation
}

// Parse resolves a problem against the signature.
func (pd ProblemDecl) Parse(s *sig.Signature) (*Problem, error) {
	ph := NewPlaceholders()
	prob := &Problem{Name: pd.Name}

	type pending struct {
		name, typ string
		id        term.MetaID
	}
	var decls []pending
	for _, src := range pd.Metas {
		name, typ, ok := strings.Cut(src, ":")
		name = strings.TrimPrefix(strings.TrimSpace(name), "?")
		if !ok || name == "" {
			return nil, errors.Errorf("problem %s: metavariable declaration %q must be \"X : type\"", pd.Name, src)
		}
		if _, dup := ph.Named[name]; dup {
			return nil, errors.Errorf("problem %s: ?%s declared twice", pd.Name, name)
		}
		decls = append(decls, pending{name: name, typ: typ, id: ph.Declare(name)})
	}
	for _, d := range decls {
		typ, err := ParseTerm(s, nil, ph, pd.Name+" ?"+d.name, d.typ)
		if err != nil {
			return nil, err
		}
		prob.Metas = append(prob.Metas, MetaDecl{Name: d.name, ID: d.id, Type: typ})
	}
	for i, src := range pd.Equations {
		label := fmt.Sprintf("%s equation %d", pd.Name, i+1)
		lhs, rhs, err := ParseEquation(s, ph, label, src)
		if err != nil {
			return nil, err
		}
		prob.Equations = append(prob.Equations, Equation{LHS: lhs, RHS: rhs, Source: label})
	}
	if len(ph.Holes) > 0 {
		return nil, errors.Errorf("problem %s: equations may not contain holes, declare a metavariable instead", pd.Name)
	}
	return prob, nil
}
