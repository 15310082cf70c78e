package parser

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/reqsnake/internal/core/domain"
)

// Attribute keywords, compared after trimming and lower-casing.
const (
	attrCritical  = "critical"
	attrCompleted = "completed"
	attrChildOf   = "child-of"
)

var idPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*-[0-9]+$`)

// Options controls parsing.
type Options struct {
	// Lenient skips unknown attribute lines instead of failing.
	Lenient bool
}

// OptionsFromSettings derives parser options from settings.
func OptionsFromSettings(s domain.ParserSettings) Options {
	return Options{Lenient: s.UnknownAttributes == domain.UnknownAttributeIgnore}
}

// ValidateID checks that id is ASCII and matches the identifier pattern:
// a letter, then letters, digits, '_' or '-', ending in '-' and digits.
func ValidateID(id string) error {
	for i := 0; i < len(id); i++ {
		if id[i] >= utf8.RuneSelf {
			return domain.NewInvalidIDError(id, "must contain only ASCII characters")
		}
	}
	if !idPattern.MatchString(id) {
		return domain.NewInvalidIDError(id,
			"must start with a letter, contain only letters, digits, '_' or '-', and end with '-' followed by digits")
	}
	return nil
}

// ParseBlock converts one block-quote into a requirement. ok is false
// when the block is not a requirement; err is then nil.
func ParseBlock(block string, opts Options) (req domain.Requirement, ok bool, err error) {
	lines := blockLines(block)
	if len(lines) < 2 {
		return domain.Requirement{}, false, nil
	}

	// Only a plain space marks prose; other whitespace is an invalid ID.
	id := lines[0]
	if strings.ContainsRune(id, ' ') {
		return domain.Requirement{}, false, nil
	}
	if err := ValidateID(id); err != nil {
		return domain.Requirement{}, false, err
	}

	var (
		critical, completed bool
		parents             []string
		seen                = make(map[string]struct{})
	)
	for _, line := range lines[2:] {
		switch strings.ToLower(line) {
		case attrCritical:
			critical = true
			continue
		case attrCompleted:
			completed = true
			continue
		}

		parent, isChildOf := childOf(line)
		if !isChildOf {
			if opts.Lenient {
				continue
			}
			return domain.Requirement{}, false, domain.NewUnknownAttributeError(id, line)
		}
		if parent == "" {
			continue
		}
		key := parentKey(parent)
		if _, dup := seen[key]; dup {
			return domain.Requirement{}, false, domain.NewDuplicateParentError(id, parent)
		}
		seen[key] = struct{}{}
		parents = append(parents, parent)
	}

	return domain.NewRequirement(id, lines[1],
		domain.WithCritical(critical),
		domain.WithCompleted(completed),
		domain.WithParents(parents...),
	), true, nil
}

// childOf reports whether line is a child-of attribute and returns the
// parent ID in its original case. The keyword may be followed by ':'.
func childOf(line string) (string, bool) {
	if len(line) < len(attrChildOf) || !strings.EqualFold(line[:len(attrChildOf)], attrChildOf) {
		return "", false
	}
	rest := strings.TrimSpace(line[len(attrChildOf):])
	rest = strings.TrimPrefix(rest, ":")
	return strings.TrimSpace(rest), true
}

// parentKey folds a parent ID for duplicate detection.
func parentKey(parent string) string {
	return strings.ToUpper(strings.Join(strings.Fields(parent), ""))
}

// ParseDocument parses every block in text, in document order.
//
// Invalid IDs are collected: the offending block is dropped and parsing
// continues, and all of them are returned joined once the text is done.
// Attribute errors stop the document immediately.
func ParseDocument(text string, opts Options) ([]domain.Requirement, error) {
	return parseDocument(text, "", opts)
}

func parseDocument(text, source string, opts Options) ([]domain.Requirement, error) {
	var (
		reqs []domain.Requirement
		errs []error
	)
	for block := range Blocks(text) {
		req, ok, err := ParseBlock(block, opts)
		if err != nil {
			err = attribute(err, source)
			errs = append(errs, err)
			if !errors.Is(err, domain.ErrInvalidID) {
				return nil, join(errs)
			}
			continue
		}
		if ok {
			reqs = append(reqs, req)
		}
	}
	if len(errs) > 0 {
		return nil, join(errs)
	}
	return reqs, nil
}

// ParseDocuments parses each document in order and tags every requirement
// with the document's source token. It stops at the first document that
// fails; the error names that document.
func ParseDocuments(docs []domain.SourceDocument, opts Options) ([]domain.ParsedRequirement, error) {
	var parsed []domain.ParsedRequirement
	for _, doc := range docs {
		reqs, err := parseDocument(doc.Content, doc.Source, opts)
		if err != nil {
			return nil, err
		}
		for _, r := range reqs {
			parsed = append(parsed, domain.ParsedRequirement{Requirement: r, Source: doc.Source})
		}
	}
	return parsed, nil
}

func attribute(err error, source string) error {
	if source == "" {
		return err
	}
	if e, ok := domain.AsError(err); ok {
		return e.WithSource(source)
	}
	return err
}

func join(errs []error) error {
	if len(errs) == 1 {
		return errs[0]
	}
	return errors.Join(errs...)
}

// FormatBlock renders a requirement as a block-quote that ParseBlock reads
// back into an equal requirement.
func FormatBlock(req domain.Requirement) string {
	var b strings.Builder
	b.WriteString(blockStart + req.ID() + "\n")
	b.WriteString(blockStart + req.Description() + "\n")
	if req.Critical() {
		b.WriteString(blockStart + attrCritical + "\n")
	}
	if req.Completed() {
		b.WriteString(blockStart + attrCompleted + "\n")
	}
	for _, p := range req.Parents() {
		b.WriteString(blockStart + attrChildOf + ": " + p + "\n")
	}
	return b.String()
}

// FormatDocument renders requirements as consecutive blocks separated by
// blank lines.
func FormatDocument(reqs []domain.Requirement) string {
	blocks := make([]string, len(reqs))
	for i, r := range reqs {
		blocks[i] = FormatBlock(r)
	}
	return strings.Join(blocks, "\n")
}
