package labelindex

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/neargo/model"
)

// yamlObject is the on-disk shape of one object declaration.
type yamlObject struct {
	ID         uint64   `yaml:"id"`
	Labels     []string `yaml:"labels"`
	ExternalID string   `yaml:"external_id"`
}

type yamlDocument struct {
	Objects []yamlObject `yaml:"objects"`
}

// ReadYAMLSource decodes an object source from a YAML document:
//
//	objects:
//	  - id: 1
//	    labels: [alpha, north-station]
//	    external_id: NS-001
//	  - id: 2
//	    labels: [beta]
//
// The result is a plain SliceSource; the file is read once, eagerly.
func ReadYAMLSource(r io.Reader) (SliceSource, error) {
	var doc yamlDocument

	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("label index: decoding yaml source: %w", err)
	}

	src := make(SliceSource, 0, len(doc.Objects))
	for _, o := range doc.Objects {
		src = append(src, model.Object{
			ID:         model.ObjectID(o.ID),
			Labels:     o.Labels,
			ExternalID: o.ExternalID,
		})
	}
	return src, nil
}

// OpenYAMLSource reads a YAML object source from a file.
func OpenYAMLSource(path string) (SliceSource, error) {
	f, err := os.Open(path) //nolint:gosec // G304: Path is configurable
	if err != nil {
		return nil, fmt.Errorf("label index: opening yaml source: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ReadYAMLSource(f)
}
