// Package yamldoc bridges YAML documents and [go.branchpoint.dev/confupdate/tree]
// Sections, preserving comments and key order across a parse/render
// round-trip. It is built on goccy/go-yaml's AST package rather than its
// plain Unmarshal/Marshal path, since only the AST carries the head/line/
// foot comment groups a Section needs to keep.
package yamldoc

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/goccy/go-yaml/ast"
	"github.com/goccy/go-yaml/parser"

	"go.branchpoint.dev/confupdate/route"
	"go.branchpoint.dev/confupdate/tree"
)

// Parse reads a YAML document into a root *tree.Section in string key
// mode. Top-level scalars and sequences are rejected: a document must be a
// mapping at its root, since a Section always has map semantics.
func Parse(data []byte) (*tree.Section, error) {
	file, err := parser.ParseBytes(data, parser.ParseComments)
	if err != nil {
		return nil, fmt.Errorf("yamldoc: parsing yaml: %w", err)
	}

	if len(file.Docs) == 0 {
		return tree.NewSection(route.ModeString), nil
	}

	body := unwrapNode(file.Docs[0].Body)

	root := tree.NewSection(route.ModeString)
	if body == nil {
		return root, nil
	}

	mapping, ok := body.(*ast.MappingNode)
	if !ok {
		return nil, fmt.Errorf("yamldoc: document root is %T, not a mapping", body)
	}

	if err := parseMapping(mapping, root); err != nil {
		return nil, err
	}

	return root, nil
}

func parseMapping(mapping *ast.MappingNode, into *tree.Section) error {
	for _, mvn := range mapping.Values {
		key, err := mappingKeyString(mvn)
		if err != nil {
			return err
		}

		value := unwrapNode(mvn.Value)

		comments := extractComments(mvn)

		switch v := value.(type) {
		case *ast.MappingNode:
			child := tree.NewSection(route.ModeString)
			*child.Comments() = comments

			if err := parseMapping(v, child); err != nil {
				return err
			}

			into.SetChild(key, child)
		case nil:
			entry := tree.NewEntry(nil)
			*entry.Comments() = comments
			into.SetChild(key, entry)
		default:
			raw, err := scalarValue(value)
			if err != nil {
				return err
			}

			entry := tree.NewEntry(raw)
			*entry.Comments() = comments
			into.SetChild(key, entry)
		}
	}

	return nil
}

func mappingKeyString(mvn *ast.MappingValueNode) (string, error) {
	keyNode, ok := mvn.Key.(ast.Node)
	if !ok {
		return "", fmt.Errorf("yamldoc: mapping key %v is not a node", mvn.Key)
	}

	v, err := scalarValue(unwrapNode(keyNode))
	if err != nil {
		return "", fmt.Errorf("yamldoc: non-scalar mapping key: %w", err)
	}

	s, ok := v.(string)
	if !ok {
		s = fmt.Sprintf("%v", v)
	}

	return s, nil
}

// unwrapNode resolves tag and anchor wrapper nodes to the underlying value
// node, mirroring the same unwrapping the schema generator's AST walk does.
func unwrapNode(node ast.Node) ast.Node {
	for {
		switch n := node.(type) {
		case *ast.TagNode:
			node = n.Value
		case *ast.AnchorNode:
			node = n.Value
		default:
			return node
		}
	}
}

func scalarValue(node ast.Node) (any, error) {
	switch n := node.(type) {
	case nil:
		return nil, nil
	case *ast.NullNode:
		return nil, nil
	case *ast.BoolNode:
		return n.Value, nil
	case *ast.StringNode:
		return n.Value, nil
	case *ast.LiteralNode:
		return n.String(), nil
	case *ast.IntegerNode:
		return integerValue(n)
	case *ast.FloatNode:
		return n.Value, nil
	case *ast.SequenceNode:
		out := make([]any, len(n.Values))

		for i, elem := range n.Values {
			v, err := scalarValue(unwrapNode(elem))
			if err != nil {
				return nil, err
			}

			out[i] = v
		}

		return out, nil
	default:
		return nil, fmt.Errorf("yamldoc: unsupported node type %T", node)
	}
}

func integerValue(n *ast.IntegerNode) (any, error) {
	switch v := n.Value.(type) {
	case int64:
		return v, nil
	case uint64:
		return int64(v), nil
	case *big.Int:
		return v, nil
	default:
		return fmt.Sprintf("%v", v), nil
	}
}

// extractComments collects the head, inline, and foot comment groups
// attached around a mapping entry into a [tree.Comments] triad. Foot
// comments (trailing comments with no following key at the same level)
// aren't separately exposed by the AST per-entry, so only head and line
// are populated here; Render reattaches whatever was captured.
func extractComments(mvn *ast.MappingValueNode) tree.Comments {
	var c tree.Comments

	if head := mvn.GetComment(); head != nil {
		c.Head = cleanComment(head.String())
	}

	if mvn.Value != nil {
		if line := mvn.Value.GetComment(); line != nil {
			c.Line = cleanComment(line.String())
		}
	}

	if c.Line == "" {
		if keyNode, ok := mvn.Key.(ast.Node); ok {
			if line := keyNode.GetComment(); line != nil {
				c.Line = cleanComment(line.String())
			}
		}
	}

	return c
}

// cleanComment strips "#" markers and surrounding whitespace, joining a
// multi-line comment group with newlines so Render can re-emit each
// original line as its own "# " prefixed comment line.
func cleanComment(s string) string {
	lines := strings.Split(s, "\n")
	cleaned := make([]string, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		line = strings.TrimPrefix(line, "#")
		line = strings.TrimPrefix(line, " ")

		if line != "" {
			cleaned = append(cleaned, line)
		}
	}

	return strings.Join(cleaned, "\n")
}
