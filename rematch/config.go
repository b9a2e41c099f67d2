package main

import (
	"bytes"
	"fmt"
	"io"

	"github.com/alecthomas/kong"
	"sigs.k8s.io/yaml"
)

// configPaths are loaded in order when they exist, later files take precedence.
var configPaths = []string{
	"~/.config/rematch/config.yaml",
	".rematch.yaml",
}

// yamlLoader resolves flag defaults from a YAML document. Keys are flag names
// with dashes replaced by underscores, e.g.
//
//	color: never
//	files_with_matches: true
func yamlLoader(r io.Reader) (kong.Resolver, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		data = []byte("{}")
	}

	j, err := yaml.YAMLToJSON(data)
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return kong.JSON(bytes.NewReader(j))
}
