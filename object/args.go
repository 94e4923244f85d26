package object

// Param declares one parameter of a callable. A nil Default means the
// parameter is required.
type Param struct {
	Name    string
	Default Object
}

// BindArgs matches positional and named arguments against params and
// returns one value per parameter, in declared order. Positional arguments
// are applied first, then named arguments, then defaults. Mismatches are
// reported as ArgumentError exceptions.
func BindArgs(s *Space, name string, params []Param, args []Object, named []NamedArg) ([]Object, error) {
	arity := len(params)
	given := len(args) + len(named)
	if given > arity {
		return nil, s.ArgumentErrorf("%s() got too many arguments (got %d, expected %d)",
			name, given, arity)
	}
	values := make([]Object, arity)
	copy(values, args)
	for _, arg := range named {
		index := -1
		for i, p := range params {
			if p.Name == arg.Name {
				index = i
				break
			}
		}
		if index < 0 {
			return nil, s.ArgumentErrorf("%s() got an unexpected keyword argument '%s'", name, arg.Name)
		}
		if values[index] != nil {
			return nil, s.ArgumentErrorf("%s() got multiple values for argument '%s'", name, arg.Name)
		}
		values[index] = arg.Value
	}
	missing := 0
	for i, p := range params {
		if values[i] != nil {
			continue
		}
		if p.Default != nil {
			values[i] = p.Default
			continue
		}
		missing++
	}
	if missing > 0 {
		return nil, s.ArgumentErrorf("%s() got too few arguments (got %d, expected %d, missing %d)",
			name, arity-missing, arity, missing)
	}
	return values, nil
}
