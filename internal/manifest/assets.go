package manifest

import (
	"fmt"

	"go.yaml.in/yaml/v3"
)

// Assets holds asset handles or file references. Manifests declare them
// either as a single string or as a list of strings.
type Assets []string

// UnmarshalYAML accepts a scalar or a sequence of scalars.
func (a *Assets) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		*a = Assets{s}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*a = list
		return nil
	default:
		return fmt.Errorf("line %d: asset reference must be a string or a list of strings", node.Line)
	}
}
