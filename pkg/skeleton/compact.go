package skeleton

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// DecodeCompactDetail reads a CATMAID compact-detail payload:
// a JSON array whose first element is the node list and whose second element
// is the connector list. Further elements (tags, annotations) are ignored.
// Each node is [id, parent|null, user, x, y, z, radius, confidence, ...].
func DecodeCompactDetail(r io.Reader) ([]Record, []Connector, error) {
	var payload []json.RawMessage
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return nil, nil, fmt.Errorf("failed to decode compact-detail: %w", err)
	}
	if len(payload) == 0 {
		return nil, nil, fmt.Errorf("compact-detail payload is empty")
	}

	var rawNodes [][]json.RawMessage
	if err := json.Unmarshal(payload[0], &rawNodes); err != nil {
		return nil, nil, fmt.Errorf("failed to decode nodes: %w", err)
	}

	records := make([]Record, 0, len(rawNodes))
	for i, raw := range rawNodes {
		rec, err := recordFromFields(raw)
		if err != nil {
			return nil, nil, fmt.Errorf("node %d: %w", i, err)
		}
		records = append(records, rec)
	}

	var connectors []Connector
	if len(payload) > 1 {
		if err := json.Unmarshal(payload[1], &connectors); err != nil {
			return nil, nil, fmt.Errorf("failed to decode connectors: %w", err)
		}
	}

	return records, connectors, nil
}

// ReadCompactDetail decodes a compact-detail JSON file
func ReadCompactDetail(path string) ([]Record, []Connector, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	records, connectors, err := DecodeCompactDetail(file)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, connectors, nil
}

// Load reads a compact-detail file and builds its tree
func Load(path string) (*Tree, error) {
	records, connectors, err := ReadCompactDetail(path)
	if err != nil {
		return nil, err
	}

	tree, err := Build(records, connectors)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tree, nil
}

// recordFromFields converts one node array. Only the first eight fields are
// interpreted; a null parent marks the root.
func recordFromFields(raw []json.RawMessage) (Record, error) {
	if len(raw) < 8 {
		return Record{}, fmt.Errorf("expected at least 8 fields, got %d", len(raw))
	}

	fields := make([]json.Number, 8)
	for j := range fields {
		text := bytes.TrimSpace(raw[j])
		if bytes.Equal(text, []byte("null")) {
			continue
		}
		fields[j] = json.Number(text)
	}

	var rec Record
	var err error
	if rec.NodeID, err = fields[0].Int64(); err != nil {
		return Record{}, fmt.Errorf("invalid node id %q: %w", fields[0], err)
	}
	if fields[1] != "" {
		parent, err := fields[1].Int64()
		if err != nil {
			return Record{}, fmt.Errorf("invalid parent id %q: %w", fields[1], err)
		}
		rec.ParentID = &parent
	}
	if rec.UserID, err = fields[2].Int64(); err != nil {
		return Record{}, fmt.Errorf("invalid user id %q: %w", fields[2], err)
	}

	coords := [4]*float64{&rec.X, &rec.Y, &rec.Z, &rec.Radius}
	for j, dst := range coords {
		if *dst, err = fields[3+j].Float64(); err != nil {
			return Record{}, fmt.Errorf("invalid field %d %q: %w", 3+j, fields[3+j], err)
		}
	}

	confidence, err := fields[7].Int64()
	if err != nil {
		return Record{}, fmt.Errorf("invalid confidence %q: %w", fields[7], err)
	}
	rec.Confidence = int(confidence)

	return rec, nil
}
