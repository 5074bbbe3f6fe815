package discovery

import (
	"gopkg.in/yaml.v3"
)

// SchemaFile is the on-disk form of a set of model types.
type SchemaFile struct {
	Types []TypeEntry `yaml:"types" json:"types"`
}

type TypeEntry struct {
	Name   string       `yaml:"name" json:"name"`
	Fields []FieldEntry `yaml:"fields,omitempty" json:"fields,omitempty"`
}

type FieldEntry struct {
	Name   string `yaml:"name" json:"name"`
	Type   string `yaml:"type" json:"type"`
	Static bool   `yaml:"static,omitempty" json:"static,omitempty"`
}

// Parse decodes schema data. JSON is a subset of YAML, so both are accepted.
func Parse(data []byte) (*SchemaFile, error) {
	var sf SchemaFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, wrapDiscovery(err, "parse schema")
	}
	return &sf, nil
}

// Marshal serializes a schema file to YAML.
func Marshal(sf *SchemaFile) ([]byte, error) {
	return yaml.Marshal(sf)
}
