// Package catalog loads the declarative function-definition file and exposes
// it as an immutable registry, built once at startup and read-only
// thereafter.
package catalog

import (
	"os"

	"github.com/pkg/errors"
	"github.com/valyala/fastjson"

	"github.com/datafn/tabcalc/execution"
	"github.com/datafn/tabcalc/functions"
	"github.com/datafn/tabcalc/tabcalc"
)

var ErrFunctionNotFound = errors.New("function not found")

type Parameter struct {
	Name string
	Type tabcalc.Type
}

// Definition is one catalog entry: the declared shape of a function plus the
// built-in computation bound to it by name.
type Definition struct {
	ID          int
	Name        string
	Kind        tabcalc.FunctionKind
	Params      []Parameter
	ReturnType  tabcalc.Type
	Computation execution.Computation
}

// ArgumentTypes returns the declared parameter types in declaration order.
func (d Definition) ArgumentTypes() []tabcalc.Type {
	out := make([]tabcalc.Type, len(d.Params))
	for i := range d.Params {
		out[i] = d.Params[i].Type
	}
	return out
}

// FieldNames returns the declared parameter names, which double as the
// output field names of table-kind functions.
func (d Definition) FieldNames() []string {
	out := make([]string, len(d.Params))
	for i := range d.Params {
		out[i] = d.Params[i].Name
	}
	return out
}

type Registry struct {
	byID   map[int]Definition
	byName map[string]Definition
}

// NewRegistry builds the lookup maps, rejecting definitions that share an id
// or a name with an earlier one.
func NewRegistry(definitions []Definition) (*Registry, error) {
	byID := make(map[int]Definition, len(definitions))
	byName := make(map[string]Definition, len(definitions))
	for _, def := range definitions {
		if _, ok := byID[def.ID]; ok {
			return nil, errors.Errorf("duplicate function id %d", def.ID)
		}
		if _, ok := byName[def.Name]; ok {
			return nil, errors.Errorf("duplicate function name %q", def.Name)
		}
		byID[def.ID] = def
		byName[def.Name] = def
	}
	return &Registry{
		byID:   byID,
		byName: byName,
	}, nil
}

func (r *Registry) LookupID(id int) (Definition, error) {
	def, ok := r.byID[id]
	if !ok {
		return Definition{}, errors.Wrapf(ErrFunctionNotFound, "id %d", id)
	}
	return def, nil
}

func (r *Registry) Lookup(name string) (Definition, error) {
	def, ok := r.byName[name]
	if !ok {
		return Definition{}, errors.Wrapf(ErrFunctionNotFound, "name %q", name)
	}
	return def, nil
}

func (r *Registry) Definitions() []Definition {
	out := make([]Definition, 0, len(r.byName))
	for _, def := range r.byName {
		out = append(out, def)
	}
	return out
}

// Load reads the JSON function-definition file at path and binds each entry
// to its built-in computation.
func Load(path string, builtins map[string]functions.Details) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't read function definitions")
	}
	return Parse(data, builtins)
}

func Parse(data []byte, builtins map[string]functions.Details) (*Registry, error) {
	var p fastjson.Parser
	v, err := p.ParseBytes(data)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't parse function definitions")
	}

	entries := v.GetArray("functions")
	if entries == nil {
		return nil, errors.New("function definitions are missing the functions list")
	}

	definitions := make([]Definition, 0, len(entries))
	for i, entry := range entries {
		name := string(entry.GetStringBytes("name"))
		if name == "" {
			return nil, errors.Errorf("function %d has no name", i)
		}

		kindName := string(entry.GetStringBytes("kind"))
		kind, ok := tabcalc.ParseFunctionKind(kindName)
		if !ok {
			return nil, errors.Errorf("function %q has invalid kind %q", name, kindName)
		}

		returnTypeName := string(entry.GetStringBytes("returnType"))
		returnType, ok := tabcalc.ParseType(returnTypeName)
		if !ok {
			return nil, errors.Errorf("function %q has invalid return type %q", name, returnTypeName)
		}

		var params []Parameter
		for j, paramEntry := range entry.GetArray("params") {
			paramName := string(paramEntry.GetStringBytes("name"))
			if paramName == "" {
				return nil, errors.Errorf("function %q parameter %d has no name", name, j)
			}
			typeName := string(paramEntry.GetStringBytes("type"))
			paramType, ok := tabcalc.ParseType(typeName)
			if !ok {
				return nil, errors.Errorf("function %q parameter %q has invalid type %q", name, paramName, typeName)
			}
			params = append(params, Parameter{
				Name: paramName,
				Type: paramType,
			})
		}

		builtin, ok := builtins[name]
		if !ok {
			return nil, errors.Errorf("no computation registered for function %q", name)
		}
		if builtin.Kind != kind {
			return nil, errors.Errorf("function %q declared as %s, registered computation is %s", name, kind, builtin.Kind)
		}

		definitions = append(definitions, Definition{
			ID:          entry.GetInt("id"),
			Name:        name,
			Kind:        kind,
			Params:      params,
			ReturnType:  returnType,
			Computation: builtin.Computation,
		})
	}

	return NewRegistry(definitions)
}
