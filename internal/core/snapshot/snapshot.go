// Package snapshot encodes requirement collections as lockfile documents.
//
// The current format is a versioned object:
//
//	{
//	  "version": "2",
//	  "digest": "<blake3 hex>",
//	  "requirements": [
//	    {"id": "REQ-1", "description": "...", "critical": false, "parents": [], "completed": false}
//	  ]
//	}
//
// Version 1 lockfiles are a bare array of requirement objects keyed by
// "req_id" (or "id") with parent references under "children". They are
// still read, and can be written when a tool downstream expects them.
package snapshot

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/zeebo/blake3"
	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/reqsnake/internal/core/domain"
)

// Snapshot format versions.
const (
	VersionLegacy  = "1"
	VersionCurrent = "2"
)

// Snapshot errors.
var (
	// ErrUnsupportedVersion indicates a version tag this package cannot handle.
	ErrUnsupportedVersion = errors.New("unsupported snapshot version")

	// ErrDigestMismatch indicates the stored digest does not match the
	// requirements in the document.
	ErrDigestMismatch = errors.New("snapshot digest mismatch")

	// ErrMalformed indicates the document could not be decoded.
	ErrMalformed = errors.New("malformed snapshot")
)

// digestKey is the BLAKE3 key for snapshot digests: the ASCII name of the
// domain, zero-padded to 32 bytes.
var digestKey = [32]byte{
	'r', 'e', 'q', 's', 'n', 'a', 'k', 'e', '.', 's', 'n', 'a', 'p', 's', 'h', 'o', 't',
}

// Record is the flattened form of a requirement.
type Record struct {
	ID          string   `json:"id" yaml:"id"`
	Description string   `json:"description" yaml:"description"`
	Critical    bool     `json:"critical" yaml:"critical"`
	Parents     []string `json:"parents" yaml:"parents"`
	Completed   bool     `json:"completed" yaml:"completed"`
}

// Document is the version 2 lockfile.
type Document struct {
	Version      string   `json:"version" yaml:"version"`
	Digest       string   `json:"digest,omitempty" yaml:"digest,omitempty"`
	Requirements []Record `json:"requirements" yaml:"requirements"`
}

// legacyRecord is one element of a version 1 lockfile.
type legacyRecord struct {
	ReqID       string   `json:"req_id,omitempty" yaml:"req_id,omitempty"`
	ID          string   `json:"id,omitempty" yaml:"id,omitempty"`
	Description string   `json:"description" yaml:"description"`
	Critical    bool     `json:"critical" yaml:"critical"`
	Children    []string `json:"children" yaml:"children"`
	Completed   bool     `json:"completed" yaml:"completed"`
}

// FromRequirements flattens requirements into records. Parents is never
// nil so that encoders write an empty list.
func FromRequirements(reqs []domain.Requirement) []Record {
	records := make([]Record, len(reqs))
	for i, r := range reqs {
		parents := r.Parents()
		if parents == nil {
			parents = []string{}
		}
		records[i] = Record{
			ID:          r.ID(),
			Description: r.Description(),
			Critical:    r.Critical(),
			Parents:     parents,
			Completed:   r.Completed(),
		}
	}
	return records
}

// ToRequirements rebuilds requirements from records.
func ToRequirements(records []Record) []domain.Requirement {
	reqs := make([]domain.Requirement, len(records))
	for i, rec := range records {
		reqs[i] = domain.NewRequirement(rec.ID, rec.Description,
			domain.WithCritical(rec.Critical),
			domain.WithCompleted(rec.Completed),
			domain.WithParents(rec.Parents...),
		)
	}
	return reqs
}

// Digest returns the keyed BLAKE3 hash of the canonical JSON encoding of
// reqs, hex encoded. Equal collections in the same order have equal
// digests.
func Digest(reqs []domain.Requirement) string {
	canonical, err := json.Marshal(FromRequirements(reqs))
	if err != nil {
		// Records hold only strings and bools.
		panic("snapshot: marshal records: " + err.Error())
	}
	hasher, err := blake3.NewKeyed(digestKey[:])
	if err != nil {
		panic("snapshot: blake3 keyed hash: " + err.Error())
	}
	_, _ = hasher.Write(canonical)
	return hex.EncodeToString(hasher.Sum(nil))
}

// Encode writes reqs in the given format and version.
func Encode(version string, format domain.SnapshotFormat, reqs []domain.Requirement) ([]byte, error) {
	var v any
	switch version {
	case VersionCurrent:
		v = Document{
			Version:      VersionCurrent,
			Digest:       Digest(reqs),
			Requirements: FromRequirements(reqs),
		}
	case VersionLegacy:
		legacy := make([]legacyRecord, len(reqs))
		for i, rec := range FromRequirements(reqs) {
			legacy[i] = legacyRecord{
				ReqID:       rec.ID,
				Description: rec.Description,
				Critical:    rec.Critical,
				Children:    rec.Parents,
				Completed:   rec.Completed,
			}
		}
		v = legacy
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedVersion, version)
	}

	switch format {
	case domain.SnapshotFormatJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode snapshot: %w", err)
		}
		return append(data, '\n'), nil
	case domain.SnapshotFormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return nil, fmt.Errorf("encode snapshot: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode snapshot: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("%w: snapshot format %q", domain.ErrUnsupportedType, format)
	}
}

// Decode reads a lockfile of either version. A version 2 document with a
// digest that does not match its requirements fails with
// ErrDigestMismatch.
func Decode(format domain.SnapshotFormat, data []byte) (*domain.Lockfile, error) {
	legacy, err := isLegacy(format, data)
	if err != nil {
		return nil, err
	}
	if legacy {
		return decodeLegacy(format, data)
	}

	var doc Document
	if err := unmarshal(format, data, &doc); err != nil {
		return nil, err
	}
	if doc.Version != VersionCurrent {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedVersion, doc.Version)
	}
	if err := checkRecords(doc.Requirements); err != nil {
		return nil, err
	}
	reqs := ToRequirements(doc.Requirements)
	if doc.Digest != "" {
		if got := Digest(reqs); got != doc.Digest {
			return nil, fmt.Errorf("%w: stored %s, computed %s", ErrDigestMismatch, doc.Digest, got)
		}
	}
	return &domain.Lockfile{Version: doc.Version, Digest: doc.Digest, Requirements: reqs}, nil
}

func decodeLegacy(format domain.SnapshotFormat, data []byte) (*domain.Lockfile, error) {
	var legacy []legacyRecord
	if err := unmarshal(format, data, &legacy); err != nil {
		return nil, err
	}
	records := make([]Record, len(legacy))
	for i, l := range legacy {
		id := l.ReqID
		if id == "" {
			id = l.ID
		}
		records[i] = Record{
			ID:          id,
			Description: l.Description,
			Critical:    l.Critical,
			Parents:     l.Children,
			Completed:   l.Completed,
		}
	}
	if err := checkRecords(records); err != nil {
		return nil, err
	}
	reqs := ToRequirements(records)
	return &domain.Lockfile{Version: VersionLegacy, Digest: Digest(reqs), Requirements: reqs}, nil
}

// isLegacy reports whether the top-level value is an array.
func isLegacy(format domain.SnapshotFormat, data []byte) (bool, error) {
	switch format {
	case domain.SnapshotFormatJSON:
		trimmed := bytes.TrimSpace(data)
		if len(trimmed) == 0 {
			return false, fmt.Errorf("%w: empty document", ErrMalformed)
		}
		return trimmed[0] == '[', nil
	case domain.SnapshotFormatYAML:
		var node yaml.Node
		if err := yaml.Unmarshal(data, &node); err != nil {
			return false, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		if len(node.Content) == 0 {
			return false, fmt.Errorf("%w: empty document", ErrMalformed)
		}
		return node.Content[0].Kind == yaml.SequenceNode, nil
	default:
		return false, fmt.Errorf("%w: snapshot format %q", domain.ErrUnsupportedType, format)
	}
}

func unmarshal(format domain.SnapshotFormat, data []byte, v any) error {
	var err error
	if format == domain.SnapshotFormatYAML {
		err = yaml.Unmarshal(data, v)
	} else {
		err = json.Unmarshal(data, v)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return nil
}

func checkRecords(records []Record) error {
	for i, rec := range records {
		if rec.ID == "" {
			return fmt.Errorf("%w: requirement %d has no id", ErrMalformed, i)
		}
	}
	return nil
}
