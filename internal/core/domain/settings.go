package domain

import (
	"errors"
	"fmt"
)

const unknownDescription = "Unknown"

// UnknownAttributePolicy defines what the parser does with attribute
// lines that match no keyword.
type UnknownAttributePolicy string

// Available policies.
const (
	// UnknownAttributeError rejects the document (strict mode).
	UnknownAttributeError UnknownAttributePolicy = "error"

	// UnknownAttributeIgnore skips the line (lenient mode).
	UnknownAttributeIgnore UnknownAttributePolicy = "ignore"
)

// IsValid returns true if the policy is recognised.
func (p UnknownAttributePolicy) IsValid() bool {
	return p == UnknownAttributeError || p == UnknownAttributeIgnore
}

// String returns the string representation.
func (p UnknownAttributePolicy) String() string {
	return string(p)
}

// Description returns a human-readable description of the policy.
func (p UnknownAttributePolicy) Description() string {
	switch p {
	case UnknownAttributeError:
		return "Strict (unknown attributes are errors)"
	case UnknownAttributeIgnore:
		return "Lenient (unknown attributes are ignored)"
	default:
		return unknownDescription
	}
}

// SnapshotFormat is the encoding of the lockfile.
type SnapshotFormat string

// Available snapshot formats.
const (
	SnapshotFormatJSON SnapshotFormat = "json"
	SnapshotFormatYAML SnapshotFormat = "yaml"
)

// IsValid returns true if the format is recognised.
func (f SnapshotFormat) IsValid() bool {
	return f == SnapshotFormatJSON || f == SnapshotFormatYAML
}

// String returns the string representation.
func (f SnapshotFormat) String() string {
	return string(f)
}

// ParserSettings configures requirement extraction.
type ParserSettings struct {
	UnknownAttributes UnknownAttributePolicy
}

// ValidationSettings configures the optional validators.
type ValidationSettings struct {
	// MissingParents enables the check that every child-of target exists.
	MissingParents bool
}

// LockfileSettings configures the snapshot file.
type LockfileSettings struct {
	// Path is relative to the project directory unless absolute.
	Path   string
	Format SnapshotFormat
}

// SourceSettings configures document discovery.
type SourceSettings struct {
	// Include holds glob patterns selecting documents (matched on base name
	// and on the relative path).
	Include []string

	// IgnoreFile is the name of the gitignore-style file at the project root.
	IgnoreFile string
}

// SiteSettings configures the rendered requirement pages.
type SiteSettings struct {
	Output string
	HTML   bool
}

// HistorySettings configures the lock/check history database.
type HistorySettings struct {
	Enabled bool
	Path    string
}

// GitHubSettings configures the GitHub document source.
type GitHubSettings struct {
	// TokenEnv names the environment variable holding the access token.
	TokenEnv string
}

// Settings holds every configurable option of the tool.
type Settings struct {
	Parser     ParserSettings
	Validation ValidationSettings
	Lockfile   LockfileSettings
	Source     SourceSettings
	Site       SiteSettings
	History    HistorySettings
	GitHub     GitHubSettings
}

// DefaultSettings returns the settings used when no config file exists.
func DefaultSettings() *Settings {
	return &Settings{
		Parser: ParserSettings{
			UnknownAttributes: UnknownAttributeError,
		},
		Validation: ValidationSettings{
			MissingParents: false,
		},
		Lockfile: LockfileSettings{
			Path:   "requirements.lock",
			Format: SnapshotFormatJSON,
		},
		Source: SourceSettings{
			Include:    []string{"*.md"},
			IgnoreFile: ".requirementsignore",
		},
		Site: SiteSettings{
			Output: "site/reqsnake",
		},
		History: HistorySettings{
			Enabled: true,
			Path:    ".reqsnake",
		},
		GitHub: GitHubSettings{
			TokenEnv: "GITHUB_TOKEN",
		},
	}
}

// Lenient reports whether unknown attributes are ignored.
func (s *Settings) Lenient() bool {
	return s.Parser.UnknownAttributes == UnknownAttributeIgnore
}

// Validate checks the settings for values the tool cannot act on.
func (s *Settings) Validate() error {
	var errs []error
	if !s.Parser.UnknownAttributes.IsValid() {
		errs = append(errs, fmt.Errorf("parser.unknown_attributes: %q is not one of error, ignore",
			s.Parser.UnknownAttributes))
	}
	if !s.Lockfile.Format.IsValid() {
		errs = append(errs, fmt.Errorf("lockfile.format: %q is not one of json, yaml", s.Lockfile.Format))
	}
	if s.Lockfile.Path == "" {
		errs = append(errs, errors.New("lockfile.path: must not be empty"))
	}
	if len(s.Source.Include) == 0 {
		errs = append(errs, errors.New("source.include: at least one pattern is required"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidInput, errors.Join(errs...))
	}
	return nil
}
