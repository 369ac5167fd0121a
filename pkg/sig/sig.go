package sig

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/vito/unify/pkg/term"
)

// Kind says how a global symbol behaves under reduction and unification.
type Kind int

const (
	// TypeFormer is a data type such as List or Nat. Rigid and injective.
	TypeFormer Kind = iota
	// Constructor is a data constructor such as cons. Rigid and injective.
	Constructor
	// Function is defined by clauses and reduces when they match.
	Function
	// Postulate has no definition. Rigid but not a constructor.
	Postulate
)

func (k Kind) String() string {
	switch k {
	case TypeFormer:
		return "type former"
	case Constructor:
		return "constructor"
	case Function:
		return "function"
	case Postulate:
		return "postulate"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Symbol is an entry of the global symbol table.
type Symbol struct {
	Name string
	Kind Kind
	Type term.Term
	// Arity is the number of arguments a Function needs before its clauses
	// are tried, or the declared argument count of a constructor or type
	// former.
	Arity   int
	Clauses []Clause
	// Data names the type former a constructor belongs to.
	Data string
}

// Rigid reports whether applications headed by the symbol are in normal
// form and compared structurally.
func (s *Symbol) Rigid() bool {
	return s.Kind == TypeFormer || s.Kind == Constructor
}

// Clause is one defining equation of a Function. Pattern variables are
// numbered left to right; in Body the last one is #0.
type Clause struct {
	Patterns []Pattern
	Vars     []string
	Body     term.Term
}

func (c Clause) String() string {
	parts := make([]string, len(c.Patterns))
	for i, p := range c.Patterns {
		parts[i] = patternAtom(p)
	}
	body := term.Named(c.Context(), c.Body)
	return fmt.Sprintf("%s = %s", strings.Join(parts, " "), body)
}

// Context returns the clause's pattern variables as an untyped local
// context.
func (c Clause) Context() term.Context {
	ctx := make(term.Context, len(c.Vars))
	for i, v := range c.Vars {
		ctx[i] = term.Binding{Name: v}
	}
	return ctx
}

// Signature is the global symbol table: name-resolved data types,
// constructors, functions and postulates. Lookups never fail silently;
// callers use Lookup's boolean.
type Signature struct {
	symbols map[string]*Symbol
	order   []string
	// generation increases whenever a function is added, so cached analyses
	// can tell they are stale.
	generation int
}

// New creates an empty signature.
func New() *Signature {
	return &Signature{symbols: map[string]*Symbol{}}
}

// Add registers a symbol. Redefinition is an error.
func (s *Signature) Add(sym *Symbol) error {
	if sym.Name == "" {
		return errors.New("symbol has no name")
	}
	if _, exists := s.symbols[sym.Name]; exists {
		return errors.Errorf("%s is already defined", sym.Name)
	}
	if sym.Kind == Function {
		if err := checkClauses(sym.Name, sym.Arity, sym.Clauses); err != nil {
			return err
		}
	}
	s.symbols[sym.Name] = sym
	s.order = append(s.order, sym.Name)
	s.generation++
	return nil
}

// Define sets the clauses of a function added without them. The arity is
// taken from the clauses.
func (s *Signature) Define(name string, clauses []Clause) error {
	sym, ok := s.symbols[name]
	if !ok {
		return errors.Errorf("define %s: no such function", name)
	}
	if sym.Kind != Function {
		return errors.Errorf("define %s: it is a %s", name, sym.Kind)
	}
	if len(sym.Clauses) > 0 {
		return errors.Errorf("define %s: already has clauses", name)
	}
	arity := 0
	if len(clauses) > 0 {
		arity = len(clauses[0].Patterns)
	}
	if err := checkClauses(name, arity, clauses); err != nil {
		return err
	}
	sym.Arity = arity
	sym.Clauses = clauses
	s.generation++
	return nil
}

func checkClauses(name string, arity int, clauses []Clause) error {
	for i, cl := range clauses {
		if len(cl.Patterns) != arity {
			return errors.Errorf("%s: clause %d has %d patterns, expected %d",
				name, i+1, len(cl.Patterns), arity)
		}
		if n := countVars(cl.Patterns); n != len(cl.Vars) {
			return errors.Errorf("%s: clause %d binds %d variables but names %d",
				name, i+1, n, len(cl.Vars))
		}
	}
	return nil
}

// Lookup finds a symbol by name.
func (s *Signature) Lookup(name string) (*Symbol, bool) {
	sym, ok := s.symbols[name]
	return sym, ok
}

// Symbols returns every symbol in definition order.
func (s *Signature) Symbols() []*Symbol {
	syms := make([]*Symbol, 0, len(s.order))
	for _, name := range s.order {
		syms = append(syms, s.symbols[name])
	}
	return syms
}

// Generation changes whenever the signature does.
func (s *Signature) Generation() int {
	return s.generation
}

// Clone returns a copy that can be extended independently.
func (s *Signature) Clone() *Signature {
	c := New()
	for _, name := range s.order {
		c.symbols[name] = s.symbols[name]
		c.order = append(c.order, name)
	}
	c.generation = s.generation
	return c
}

// AddData registers a type former together with its constructors.
func (s *Signature) AddData(name string, typ term.Term, ctors ...*Symbol) error {
	if err := s.Add(&Symbol{Name: name, Kind: TypeFormer, Type: typ, Arity: Arity(typ)}); err != nil {
		return err
	}
	for _, c := range ctors {
		c.Kind = Constructor
		c.Data = name
		if c.Type != nil {
			c.Arity = Arity(c.Type)
		}
		if err := s.Add(c); err != nil {
			return errors.Wrapf(err, "data %s", name)
		}
	}
	return nil
}

// Arity counts the leading Pi binders of a type.
func Arity(typ term.Term) int {
	n := 0
	for {
		pi, ok := typ.(term.Pi)
		if !ok {
			return n
		}
		n++
		typ = pi.Codomain
	}
}
