package services

import (
	"encoding/json"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/empire-ledger/internal/core/domain"
)

// encodeData renders a handler's value for the response envelope. YAML is
// carried as a JSON string so every envelope stays JSON.
func encodeData(v any, format string) (json.RawMessage, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, &domain.SerializationError{Msg: "encode data", Err: err}
	}
	if format != domain.FormatYAML {
		return data, nil
	}
	text, err := JSONToYAML(data)
	if err != nil {
		return nil, err
	}
	data, err = json.Marshal(text)
	if err != nil {
		return nil, &domain.SerializationError{Msg: "encode yaml", Err: err}
	}
	return data, nil
}

// JSONToYAML converts a JSON document to block-style YAML, keeping key
// order.
func JSONToYAML(data []byte) (string, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return "", &domain.SerializationError{Msg: "read json as yaml", Err: err}
	}
	blockStyle(&doc)
	out, err := yaml.Marshal(&doc)
	if err != nil {
		return "", &domain.SerializationError{Msg: "encode yaml", Err: err}
	}
	return string(out), nil
}

// blockStyle drops the flow and quoting styles inherited from JSON.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}
