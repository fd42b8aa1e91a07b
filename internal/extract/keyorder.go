// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package extract

import (
	"bytes"
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v3"
)

// keyOrderFromJSON returns, for every "properties" object in a JSON document,
// its keys in document order. Keys are dotted paths such as "properties" or
// "$defs.address.properties".
func keyOrderFromJSON(raw []byte) map[string][]string {
	result := make(map[string][]string)

	var walk func(dec *json.Decoder, path string)
	walk = func(dec *json.Decoder, path string) {
		token, err := dec.Token()
		if err != nil {
			return
		}
		delim, ok := token.(json.Delim)
		if !ok {
			return
		}
		switch delim {
		case '{':
			var keys []string
			for dec.More() {
				keyToken, err := dec.Token()
				if err != nil {
					return
				}
				key, ok := keyToken.(string)
				if !ok {
					continue
				}
				keys = append(keys, key)
				walk(dec, joinPath(path, key))
			}
			_, _ = dec.Token()
			if isPropertiesPath(path) {
				result[path] = keys
			}
		case '[':
			for dec.More() {
				walk(dec, path)
			}
			_, _ = dec.Token()
		}
	}
	walk(json.NewDecoder(bytes.NewReader(raw)), "")
	return result
}

// keyOrderFromYAML is keyOrderFromJSON for a parsed YAML document.
func keyOrderFromYAML(root *yaml.Node) map[string][]string {
	result := make(map[string][]string)

	var walk func(n *yaml.Node, path string)
	walk = func(n *yaml.Node, path string) {
		switch n.Kind {
		case yaml.DocumentNode, yaml.SequenceNode:
			for _, c := range n.Content {
				walk(c, path)
			}
		case yaml.MappingNode:
			var keys []string
			for i := 0; i+1 < len(n.Content); i += 2 {
				key := n.Content[i].Value
				keys = append(keys, key)
				walk(n.Content[i+1], joinPath(path, key))
			}
			if isPropertiesPath(path) {
				result[path] = keys
			}
		}
	}
	walk(root, "")
	return result
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

func isPropertiesPath(path string) bool {
	return path == "properties" || strings.HasSuffix(path, ".properties")
}
