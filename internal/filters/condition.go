package filters

// Condition is a comparison qualifier accepted by the ViewFilter
// syntax. The literal spellings are dictated by the vendor and are
// embedded verbatim in rendered filter strings.
type Condition string

const (
	EqualTo     Condition = "Equal To"
	NotEqualTo  Condition = "Not Equal To"
	Contains    Condition = "Contains"
	NotContains Condition = "Not Contains"
	After       Condition = "After"
	Before      Condition = "Before"
	Between     Condition = "Is Between"
	On          Condition = "On"
	Blank       Condition = "Blank"
	NotBlank    Condition = "Not Blank"
)

// Conditions lists every qualifier the vendor DSL accepts, in a stable
// order for error messages and validation.
var Conditions = []Condition{
	EqualTo, NotEqualTo, Contains, NotContains,
	After, Before, Between, On, Blank, NotBlank,
}

// Valid reports whether c is a known qualifier.
func (c Condition) Valid() bool {
	for _, known := range Conditions {
		if c == known {
			return true
		}
	}
	return false
}

// Valueless reports whether the qualifier takes no comparison value.
func (c Condition) Valueless() bool {
	return c == Blank || c == NotBlank
}

// Kind tags the filter variant in the ViewFilter syntax.
type Kind string

const (
	// KindField filters on a field of the cursor's own category.
	KindField Kind = "F"
	// KindConnectedItem filters on the existence of a connection to a
	// named item in another category.
	KindConnectedItem Kind = "CTI"
	// KindConnectedField filters on a field of a connected item.
	KindConnectedField Kind = "CTCF"
	// KindConnectedItemField filters through a two-hop connection
	// chain to a named item.
	KindConnectedItemField Kind = "CTCTI"
)
