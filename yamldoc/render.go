package yamldoc

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/token"

	"go.branchpoint.dev/confupdate/route"
	"go.branchpoint.dev/confupdate/tree"
)

// Render writes root back out as YAML, re-attaching every Section's and
// Entry's captured comments to the AST nodes it builds, then printing the
// assembled document tree. Building our own ast.Node tree (rather than
// going through yaml.Marshal on a plain Go value) is what lets comments
// and key order, neither of which a plain Go map would carry, survive the
// round trip.
func Render(root *tree.Section) ([]byte, error) {
	mapping, err := renderSection(root)
	if err != nil {
		return nil, err
	}

	doc := ast.Document(tok("", ""), mapping)

	return []byte(doc.String() + "\n"), nil
}

func renderSection(sec *tree.Section) (*ast.MappingNode, error) {
	mapping := ast.Mapping(tok("", ""), false)

	for _, key := range sec.Keys() {
		keyStr, ok := key.(string)
		if !ok {
			keyStr = fmt.Sprintf("%v", key)
		}

		block, _ := sec.GetBlock(key)

		valueNode, err := renderBlock(block)
		if err != nil {
			return nil, err
		}

		keyNode := ast.String(tok(keyStr, keyStr))
		mvn := ast.MappingValue(tok("", ""), keyNode, valueNode)

		attachComments(mvn, block.Comments())

		mapping.Values = append(mapping.Values, mvn)
	}

	return mapping, nil
}

func renderBlock(block tree.Block) (ast.Node, error) {
	if sec, ok := block.(*tree.Section); ok {
		return renderSection(sec)
	}

	entry, ok := block.(*tree.Entry)
	if !ok {
		return nil, fmt.Errorf("yamldoc: unknown block type %T", block)
	}

	return renderValue(entry.Value)
}

func renderValue(v any) (ast.Node, error) {
	switch x := v.(type) {
	case nil:
		return ast.Null(tok("null", "null")), nil
	case bool:
		return ast.Bool(tok(strconv.FormatBool(x), strconv.FormatBool(x))), nil
	case string:
		return ast.String(tok(x, x)), nil
	case int:
		return ast.Integer(tok(strconv.Itoa(x), strconv.Itoa(x))), nil
	case int64:
		s := strconv.FormatInt(x, 10)

		return ast.Integer(tok(s, s)), nil
	case *big.Int:
		s := x.String()

		return ast.Integer(tok(s, s)), nil
	case float64:
		s := strconv.FormatFloat(x, 'g', -1, 64)

		return ast.Float(tok(s, s)), nil
	case []any:
		seq := ast.Sequence(tok("", ""), false)

		for _, elem := range x {
			node, err := renderValue(elem)
			if err != nil {
				return nil, err
			}

			seq.Values = append(seq.Values, node)
		}

		return seq, nil
	case map[string]any:
		// A raw map slipped in without going through tree.Set; wrap it as
		// an ad hoc mapping rather than failing the whole render.
		sec := tree.NewSection(route.ModeString)
		for k, elem := range x {
			sec.SetChild(k, tree.NewEntry(elem))
		}

		return renderSection(sec)
	default:
		return nil, fmt.Errorf("yamldoc: unsupported value type %T", v)
	}
}

func attachComments(mvn *ast.MappingValueNode, c *tree.Comments) {
	if c == nil || c.IsEmpty() {
		return
	}

	if c.Head != "" {
		_ = mvn.SetComment(commentGroup(c.Head))
	}

	if c.Line != "" && mvn.Value != nil {
		_ = mvn.Value.SetComment(commentGroup(c.Line))
	}
}

func commentGroup(text string) *ast.CommentGroupNode {
	lines := strings.Split(text, "\n")
	tokens := make([]*token.Token, len(lines))

	for i, line := range lines {
		raw := "# " + line
		tokens[i] = token.New(raw, raw, pos())
	}

	return ast.CommentGroup(tokens)
}

func tok(value, org string) *token.Token {
	return token.New(value, org, pos())
}

func pos() *token.Position {
	return &token.Position{}
}
