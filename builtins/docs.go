package builtins

// FuncSpec describes a builtin function.
type FuncSpec struct {
	Name    string
	Doc     string
	Args    []string
	Returns string
	Example string
}

// Docs returns documentation for all builtin functions.
func Docs() []FuncSpec {
	return builtinDocs
}

var builtinDocs = []FuncSpec{
	{
		Name:    "len",
		Doc:     "Return the length of a list or string",
		Args:    []string{"obj"},
		Returns: "int",
		Example: "len([1, 2, 3])",
	},
	{
		Name:    "print",
		Doc:     "Print values separated by spaces, followed by a newline",
		Args:    []string{"...values"},
		Returns: "none",
		Example: "print(\"total:\", 55)",
	},
	{
		Name:    "str",
		Doc:     "Convert a value to a string",
		Args:    []string{"value?"},
		Returns: "str",
		Example: "str(42)",
	},
	{
		Name:    "type",
		Doc:     "Return the class of a value",
		Args:    []string{"obj"},
		Returns: "type",
		Example: "type(\"abc\")",
	},
}
