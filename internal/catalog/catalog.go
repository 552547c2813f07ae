// Package catalog reads word lists from YAML and loads them into a
// store.WordStore.
//
// A catalog file looks like:
//
//	words:
//	  - source: casa
//	    target: house
//	    difficulty: 1
//	    approved: true
//
// Entries without an explicit id get one derived from their source and
// target text, so importing the same file twice does not duplicate words.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/lexis/internal/domain"
	"github.com/phrazzld/lexis/internal/store"
	"gopkg.in/yaml.v3"
)

// wordNamespace seeds the name-based IDs of entries without an explicit id.
var wordNamespace = uuid.MustParse("6f1c1d64-7d0e-4a57-9a55-3b0f5d3c2a10")

// Entry is one word in a catalog file.
type Entry struct {
	ID         string `yaml:"id,omitempty"`
	Source     string `yaml:"source"`
	Target     string `yaml:"target"`
	Difficulty int    `yaml:"difficulty"`
	Approved   bool   `yaml:"approved"`
}

// Catalog is the decoded contents of a catalog file.
type Catalog struct {
	Entries []Entry `yaml:"words"`
}

// Parse decodes a catalog from r. Unknown keys are rejected.
func Parse(r io.Reader) (*Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		if errors.Is(err, io.EOF) {
			return &Catalog{}, nil
		}
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	return &c, nil
}

// LoadFile reads and parses the catalog at path.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
	}()

	return Parse(f)
}

// EntryError reports an invalid catalog entry by its position in the file.
type EntryError struct {
	Index int
	Err   error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("catalog entry %d: %v", e.Index+1, e.Err)
}

func (e *EntryError) Unwrap() error {
	return e.Err
}

// Words converts the catalog to domain words stamped with now. approveAll
// marks every word approved regardless of its entry. All entries are
// validated before any word is returned; the errors of every invalid entry
// are joined.
func (c *Catalog) Words(approveAll bool, now time.Time) ([]*domain.Word, error) {
	words := make([]*domain.Word, 0, len(c.Entries))
	seen := make(map[uuid.UUID]int, len(c.Entries))
	var errs []error

	for i, e := range c.Entries {
		w, err := e.toWord(now)
		if err != nil {
			errs = append(errs, &EntryError{Index: i, Err: err})
			continue
		}
		if first, dup := seen[w.ID]; dup {
			errs = append(errs, &EntryError{Index: i, Err: fmt.Errorf("duplicates entry %d", first+1)})
			continue
		}
		seen[w.ID] = i

		if approveAll {
			w.Approved = true
		}
		words = append(words, w)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return words, nil
}

func (e Entry) toWord(now time.Time) (*domain.Word, error) {
	source := strings.TrimSpace(e.Source)
	target := strings.TrimSpace(e.Target)

	id := uuid.NewSHA1(wordNamespace, []byte(strings.ToLower(source)+"\x00"+strings.ToLower(target)))
	if e.ID != "" {
		parsed, err := uuid.Parse(e.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidID, e.ID)
		}
		id = parsed
	}

	w := &domain.Word{
		ID:              id,
		SourceText:      source,
		TargetText:      target,
		DifficultyLevel: e.Difficulty,
		Approved:        e.Approved,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return w, nil
}

// ImportResult counts what Import did.
type ImportResult struct {
	Created int
	Skipped int
}

// Import creates each word in ws. Words that already exist are skipped.
// Import stops at the first other error and reports the counts so far.
func Import(ctx context.Context, ws store.WordStore, words []*domain.Word, log *slog.Logger) (ImportResult, error) {
	if log == nil {
		log = slog.Default()
	}
	log = log.With(slog.String("component", "catalog_import"))

	var res ImportResult
	for _, w := range words {
		err := ws.Create(ctx, w)
		switch {
		case err == nil:
			res.Created++
		case errors.Is(err, store.ErrDuplicate):
			res.Skipped++
			log.Debug("word already exists", slog.String("word_id", w.ID.String()))
		default:
			return res, fmt.Errorf("failed to import %q: %w", w.SourceText, err)
		}
	}

	log.Info("catalog imported",
		slog.Int("created", res.Created),
		slog.Int("skipped", res.Skipped))
	return res, nil
}
