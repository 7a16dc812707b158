package schema

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// documentNode is one node of a schema document. Exactly one of Type or
// OneOf must be set; fields/items qualify object and array nodes.
type documentNode struct {
	Type     string                   `yaml:"type"`
	Required bool                     `yaml:"required"`
	Fields   map[string]*documentNode `yaml:"fields"`
	Items    *documentNode            `yaml:"items"`
	OneOf    []*documentNode          `yaml:"oneOf"`
}

type document struct {
	Schemas map[string]*documentNode `yaml:"schemas"`
}

// Parse decodes a schema document and returns its named definitions.
// Documents are YAML; JSON documents parse as well since YAML is a
// superset. The format mirrors the definition variants:
//
//	schemas:
//	  EstimateFee:
//	    type: object
//	    fields:
//	      overall_fee: {type: numeric-string, required: true}
//	      gas_price: {type: numeric-string}
//	  DeployResponse:
//	    oneOf:
//	      - type: object
//	        fields:
//	          contract_address: {type: felt, required: true}
func Parse(data []byte) (map[string]Definition, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("schema: parse document: %w", err)
	}
	if len(doc.Schemas) == 0 {
		return nil, &DocumentError{Err: fmt.Errorf("no schemas declared")}
	}

	defs := make(map[string]Definition, len(doc.Schemas))
	for name, node := range doc.Schemas {
		def, err := buildDefinition(name, node)
		if err != nil {
			return nil, err
		}
		defs[name] = def
	}
	return defs, nil
}

// LoadFile reads and parses a schema document from disk.
func LoadFile(path string) (map[string]Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schema: read document: %w", err)
	}
	return Parse(data)
}

func buildDefinition(path string, node *documentNode) (Definition, error) {
	if node == nil {
		return nil, &DocumentError{Path: path, Err: fmt.Errorf("node is empty")}
	}

	if len(node.OneOf) > 0 {
		if node.Type != "" {
			return nil, &DocumentError{Path: path, Err: fmt.Errorf("node declares both type and oneOf")}
		}
		alts := make([]Definition, len(node.OneOf))
		for i, alt := range node.OneOf {
			def, err := buildDefinition(fmt.Sprintf("%s.oneOf[%d]", path, i), alt)
			if err != nil {
				return nil, err
			}
			alts[i] = def
		}
		return &OneOf{Alternatives: alts}, nil
	}

	switch node.Type {
	case "object":
		fields := make(map[string]Field, len(node.Fields))
		for name, fieldNode := range node.Fields {
			def, err := buildDefinition(buildPath(path, name), fieldNode)
			if err != nil {
				return nil, err
			}
			fields[name] = Field{Definition: def, Required: fieldNode.Required}
		}
		return &Object{Fields: fields}, nil

	case "array":
		if node.Items == nil {
			return nil, &DocumentError{Path: path, Err: fmt.Errorf("array node is missing items")}
		}
		elem, err := buildDefinition(path+".items", node.Items)
		if err != nil {
			return nil, err
		}
		return &Array{Elem: elem}, nil

	case string(String), string(Number), string(Boolean), string(NumericString),
		string(HexString), string(Felt), string(UUID), string(Any):
		return &Primitive{Type: PrimitiveKind(node.Type)}, nil

	case "":
		return nil, &DocumentError{Path: path, Err: fmt.Errorf("node declares neither type nor oneOf")}

	default:
		return nil, &DocumentError{Path: path, Err: fmt.Errorf("unknown type %q", node.Type)}
	}
}
