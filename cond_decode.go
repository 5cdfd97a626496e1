package dbrepo

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Nesting limit of decoded conditions. Also stops alias cycles.
const maxCondDepth = 64

/*
Converts a dynamic condition description into a `Cond`:

	nil, ""          ->  nil, no condition
	string           ->  Raw
	Cond             ->  as-is
	*yaml.Node       ->  decoded, see `ParseCondYAML`
	map[string]any   ->  Where with keys in sorted order
	anything else    ->  nil

Map values follow the same grammar as `ParseCondYAML`: `[]any` is a term
tuple, a nested map is a group, anything else is a value.

Go maps don't preserve order. Use `Where` or YAML/JSON text when the clause
order matters, which it does for mixed AND/OR conjunctions.
*/
func ParseCond(src any) Cond {
	switch src := src.(type) {
	case nil:
		return nil
	case string:
		if src == `` {
			return nil
		}
		return Raw(src)
	case Cond:
		return src
	case *yaml.Node:
		return decodeCond(src)
	case map[string]any:
		return condFromMap(src)
	default:
		return nil
	}
}

/*
Decodes a condition from YAML or JSON text. Mapping order is preserved.
Grammar:

	cond  = string | mapping
	entry = field: value | field: [value, op?, conj?, raw?] | group: mapping
	value = scalar | [scalar, ...] | [[value, op?, conj?, raw?], ...]

Examples:

	{"status": 1, "id": [[1, 2, 3], "IN"], "age": [[18, 65], "BETWEEN_AND", "OR"]}

	a: [[[15, ">", OR], [5, "<"], [32, "!="]], FIELD_GROUP]

	created: ["NOW()", "<", AND, true]

A sequence value is always a term tuple, so a list operand is written as a
nested sequence in the first slot. Keys that aren't strings are skipped, as are
malformed entries. Only invalid YAML syntax produces an error, which wraps
`ErrInvalidInput`.
*/
func ParseCondYAML(src []byte) (Cond, error) {
	if isBlank(string(src)) {
		return nil, nil
	}
	var node yaml.Node
	err := yaml.Unmarshal(src, &node)
	if err != nil {
		return nil, ErrInvalidInput.while(`decoding condition`).because(err)
	}
	return decodeCond(&node), nil
}

func decodeCond(node *yaml.Node) Cond {
	node = resolveNode(node)
	if node == nil {
		return nil
	}

	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil
		}
		return decodeCond(node.Content[0])
	case yaml.ScalarNode:
		if node.Tag == `!!str` && node.Value != `` {
			return Raw(node.Value)
		}
		return nil
	case yaml.MappingNode:
		where := decodeWhere(node, 0)
		if len(where) == 0 {
			return nil
		}
		return where
	default:
		return nil
	}
}

func decodeWhere(node *yaml.Node, depth int) Where {
	if depth > maxCondDepth {
		return nil
	}

	var out Where
	for ind := 0; ind+1 < len(node.Content); ind += 2 {
		key := resolveNode(node.Content[ind])
		if key == nil || key.Kind != yaml.ScalarNode || key.Tag != `!!str` {
			continue
		}
		term, ok := decodeTerm(node.Content[ind+1], depth+1)
		if ok {
			out = out.And(key.Value, term)
		}
	}
	return out
}

func decodeTerm(node *yaml.Node, depth int) (Term, bool) {
	node = resolveNode(node)
	if node == nil || depth > maxCondDepth {
		return Term{}, false
	}

	switch node.Kind {
	case yaml.ScalarNode:
		return Lit(decodeScalar(node)), true

	case yaml.MappingNode:
		return Term{Val: decodeWhere(node, depth+1)}, true

	case yaml.SequenceNode:
		slots := node.Content
		if len(slots) == 0 {
			return Term{}, false
		}
		var term Term
		term.Val = decodeValue(slots[0], depth+1)
		if len(slots) > 1 {
			term.Op = Op(decodeText(slots[1]))
		}
		if len(slots) > 2 {
			term.Conj = Conj(decodeText(slots[2]))
		}
		if len(slots) > 3 {
			term.Raw = decodeFlag(slots[3])
		}
		return term, true

	default:
		return Term{}, false
	}
}

// First slot of a term tuple.
func decodeValue(node *yaml.Node, depth int) any {
	node = resolveNode(node)
	if node == nil || depth > maxCondDepth {
		return nil
	}

	switch node.Kind {
	case yaml.ScalarNode:
		return decodeScalar(node)
	case yaml.MappingNode:
		return decodeWhere(node, depth+1)
	case yaml.SequenceNode:
		out := make(List, 0, len(node.Content))
		for _, elem := range node.Content {
			out = append(out, decodeElem(elem, depth+1))
		}
		return out
	default:
		return nil
	}
}

// Element of a list operand: a scalar, or a term tuple for FIELD_GROUP.
func decodeElem(node *yaml.Node, depth int) any {
	node = resolveNode(node)
	if node == nil {
		return nil
	}
	if node.Kind == yaml.SequenceNode {
		term, ok := decodeTerm(node, depth)
		if ok {
			return term
		}
		return nil
	}
	return decodeValue(node, depth)
}

func decodeScalar(node *yaml.Node) any {
	switch node.Tag {
	case `!!null`:
		return nil
	case `!!bool`:
		var val bool
		if node.Decode(&val) == nil {
			return val
		}
	case `!!int`:
		var val int64
		if node.Decode(&val) == nil {
			return val
		}
		var uval uint64
		if node.Decode(&uval) == nil {
			return uval
		}
	case `!!float`:
		var val float64
		if node.Decode(&val) == nil {
			return val
		}
	}
	return node.Value
}

func decodeText(node *yaml.Node) string {
	node = resolveNode(node)
	if node == nil || node.Kind != yaml.ScalarNode || node.Tag == `!!null` {
		return ``
	}
	return node.Value
}

func decodeFlag(node *yaml.Node) bool {
	node = resolveNode(node)
	if node == nil || node.Kind != yaml.ScalarNode {
		return false
	}
	var val bool
	if node.Decode(&val) == nil {
		return val
	}
	text := strings.TrimSpace(node.Value)
	return text != `` && text != `0`
}

func resolveNode(node *yaml.Node) *yaml.Node {
	for ind := 0; node != nil && node.Kind == yaml.AliasNode; ind++ {
		if ind > maxCondDepth {
			return nil
		}
		node = node.Alias
	}
	return node
}

func condFromMap(src map[string]any) Cond {
	where := whereFromMap(src, 0)
	if len(where) == 0 {
		return nil
	}
	return where
}

func whereFromMap(src map[string]any, depth int) Where {
	if depth > maxCondDepth {
		return nil
	}

	keys := make([]string, 0, len(src))
	for key := range src {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var out Where
	for _, key := range keys {
		term, ok := termFromAny(src[key], depth+1)
		if ok {
			out = out.And(key, term)
		}
	}
	return out
}

/*
Same shapes as the YAML grammar: `[]any` is a term tuple
`[value, op?, conj?, raw?]`, a nested map is a group, anything else is a
plain value. Empty tuples are dropped.
*/
func termFromAny(val any, depth int) (Term, bool) {
	if depth > maxCondDepth {
		return Term{}, false
	}

	switch val := val.(type) {
	case Term:
		return val, true
	case map[string]any:
		return Term{Val: whereFromMap(val, depth+1)}, true
	case []any:
		if len(val) == 0 {
			return Term{}, false
		}
		var term Term
		term.Val = valueFromAny(val[0], depth+1)
		if len(val) > 1 {
			term.Op = Op(textFromAny(val[1]))
		}
		if len(val) > 2 {
			term.Conj = Conj(textFromAny(val[2]))
		}
		if len(val) > 3 {
			term.Raw = flagFromAny(val[3])
		}
		return term, true
	default:
		return Lit(val), true
	}
}

// First slot of a term tuple. A `[]any` is a list operand whose `[]any`
// elements are term tuples, for FIELD_GROUP.
func valueFromAny(val any, depth int) any {
	switch val := val.(type) {
	case map[string]any:
		return whereFromMap(val, depth+1)
	case []any:
		out := make(List, 0, len(val))
		for _, elem := range val {
			if tuple, ok := elem.([]any); ok {
				term, ok := termFromAny(tuple, depth+1)
				if ok {
					out = append(out, term)
				} else {
					out = append(out, nil)
				}
				continue
			}
			out = append(out, elem)
		}
		return out
	default:
		return val
	}
}

func textFromAny(val any) string {
	switch val := val.(type) {
	case nil:
		return ``
	case string:
		return val
	case Op:
		return string(val)
	case Conj:
		return string(val)
	default:
		return fmt.Sprint(val)
	}
}

func flagFromAny(val any) bool {
	switch val := val.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		text := strings.TrimSpace(val)
		return text != `` && text != `0` && !strings.EqualFold(text, `false`)
	default:
		return flagFromAny(fmt.Sprint(val))
	}
}
