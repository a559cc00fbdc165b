package index

import (
	"log/slog"
	"path"
	"strings"

	"github.com/starford/ansuz/internal/checksum"
	"github.com/starford/ansuz/internal/models"
	"github.com/starford/ansuz/internal/parser"
	"github.com/starford/ansuz/internal/storage"
)

// Outcome classifies what a sync did with one document.
type Outcome string

const (
	OutcomeInserted Outcome = "inserted"
	OutcomeUpdated  Outcome = "updated"
	OutcomeSkipped  Outcome = "skipped"
	OutcomeError    Outcome = "error"
)

// Default library layout under the root.
const (
	DefaultSkillsDir  = "skills"
	DefaultPromptsDir = "prompts"
	DefaultConfigsDir = "prompt_configs"
)

// EventCallback receives one notification per document whose sync outcome
// touched the index. Skipped documents are not reported.
type EventCallback func(kind models.DocKind, path string, outcome Outcome)

// SyncOptions locates the library directories relative to the storage root.
type SyncOptions struct {
	SkillsDir  string
	PromptsDir string
	ConfigsDir string
	OnEvent    EventCallback
}

func (o SyncOptions) withDefaults() SyncOptions {
	if o.SkillsDir == "" {
		o.SkillsDir = DefaultSkillsDir
	}
	if o.PromptsDir == "" {
		o.PromptsDir = DefaultPromptsDir
	}
	if o.ConfigsDir == "" {
		o.ConfigsDir = DefaultConfigsDir
	}
	return o
}

// FileResult is the outcome for a single document.
type FileResult struct {
	Path    string         `json:"path"`
	Kind    models.DocKind `json:"kind"`
	Outcome Outcome        `json:"outcome"`
	Err     string         `json:"error,omitempty"`
}

// Report tallies one sync pass.
type Report struct {
	Inserted int          `json:"inserted"`
	Updated  int          `json:"updated"`
	Skipped  int          `json:"skipped"`
	Errors   int          `json:"errors"`
	Files    []FileResult `json:"files,omitempty"`
}

// Total returns the number of documents the pass looked at.
func (r *Report) Total() int {
	return r.Inserted + r.Updated + r.Skipped + r.Errors
}

func (r *Report) add(kind models.DocKind, p string, outcome Outcome, err error) {
	res := FileResult{Path: p, Kind: kind, Outcome: outcome}
	if err != nil {
		res.Err = err.Error()
	}
	r.Files = append(r.Files, res)
	switch outcome {
	case OutcomeInserted:
		r.Inserted++
	case OutcomeUpdated:
		r.Updated++
	case OutcomeSkipped:
		r.Skipped++
	case OutcomeError:
		r.Errors++
	}
}

// SyncAll walks the library and brings the index up to date:
//   - skills/**/*.md are parsed, classified, and upserted
//   - prompts/*.md are upserted verbatim
//   - prompt_configs/*.yaml descriptors are paired with a co-located .md file
//     of the same basename, upserted, and their skill associations rebuilt
//
// Per-file failures are logged and counted; they never abort the batch. Files
// removed from disk stay in the index until deleted explicitly.
func SyncAll(db *DB, store storage.Provider, opts SyncOptions, logger *slog.Logger) (*Report, error) {
	opts = opts.withDefaults()
	report := &Report{}

	if err := syncSkills(db, store, opts, logger, report); err != nil {
		return report, err
	}
	if err := syncPrompts(db, store, opts, logger, report); err != nil {
		return report, err
	}
	if err := syncDescriptors(db, store, opts, logger, report); err != nil {
		return report, err
	}

	logger.Info("sync: done",
		slog.Int("inserted", report.Inserted),
		slog.Int("updated", report.Updated),
		slog.Int("skipped", report.Skipped),
		slog.Int("errors", report.Errors))
	return report, nil
}

func syncSkills(db *DB, store storage.Provider, opts SyncOptions, logger *slog.Logger, report *Report) error {
	metas, err := store.List(opts.SkillsDir, ".md")
	if err != nil {
		return err
	}
	hashes, err := db.SkillHashes()
	if err != nil {
		return err
	}

	for _, m := range metas {
		if hashes[m.Path] == m.Checksum {
			// Unchanged on disk; no need to read or parse it again.
			report.add(models.KindSkill, m.Path, OutcomeSkipped, nil)
			continue
		}
		outcome, err := syncSkillFile(db, store, m, opts.SkillsDir)
		report.add(models.KindSkill, m.Path, outcome, err)
		notify(opts, models.KindSkill, m.Path, outcome)
		if err != nil {
			logger.Warn("sync: skill failed",
				slog.String("path", m.Path), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: skill indexed",
				slog.String("path", m.Path), slog.String("outcome", string(outcome)))
		}
	}
	return nil
}

// syncSkillFile reads and indexes one skill document.
func syncSkillFile(db *DB, store storage.Provider, m models.FileMeta, skillsDir string) (Outcome, error) {
	data, err := store.Read(m.Path)
	if err != nil {
		return OutcomeError, err
	}
	return indexSkill(db, m.Path, data, skillsDir)
}

// indexSkill parses data and upserts it as the skill at p. Shared by the
// batch sync and the watcher.
func indexSkill(db *DB, p string, data []byte, skillsDir string) (Outcome, error) {
	doc, err := parser.Parse(data)
	if err != nil {
		return OutcomeError, err
	}
	cls := parser.Classify(p, skillsDir)

	return db.UpsertSkill(SkillRow{
		Path:        p,
		Category:    cls.Category,
		Name:        cls.Name,
		Title:       doc.Title,
		Description: doc.Description,
		Content:     doc.Body,
		FileHash:    checksum.Sum(data),
		SizeBytes:   int64(len(data)),
		TokenCount:  int64(parser.EstimateTokens(doc.Body)),
	})
}

// syncPrompts indexes the flat prompt files. The stored content is the file
// verbatim; frontmatter only feeds the title, description, and author fields.
func syncPrompts(db *DB, store storage.Provider, opts SyncOptions, logger *slog.Logger, report *Report) error {
	metas, err := store.List(opts.PromptsDir, ".md")
	if err != nil {
		return err
	}

	for _, m := range metas {
		if path.Dir(m.Path) != opts.PromptsDir {
			continue
		}
		outcome, err := syncPromptFile(db, store, m)
		report.add(models.KindPrompt, m.Path, outcome, err)
		notify(opts, models.KindPrompt, m.Path, outcome)
		if err != nil {
			logger.Warn("sync: prompt failed",
				slog.String("path", m.Path), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: prompt indexed",
				slog.String("path", m.Path), slog.String("outcome", string(outcome)))
		}
	}
	return nil
}

func syncPromptFile(db *DB, store storage.Provider, m models.FileMeta) (Outcome, error) {
	data, err := store.Read(m.Path)
	if err != nil {
		return OutcomeError, err
	}
	doc, err := parser.Parse(data)
	if err != nil {
		return OutcomeError, err
	}
	name := strings.TrimSuffix(path.Base(m.Path), path.Ext(m.Path))

	return db.UpsertPrompt(PromptRow{
		Name:        name,
		Path:        m.Path,
		Title:       doc.Title,
		Description: doc.Description,
		Author:      doc.Author,
		Content:     string(data),
		FileHash:    m.Checksum,
		SizeBytes:   m.Size,
		TokenCount:  int64(parser.EstimateTokens(string(data))),
	})
}

// syncDescriptors indexes descriptor-defined prompts and rebuilds their skill
// associations. The join rows are rebuilt even for skipped prompts, so a
// skill that appeared after the descriptor still gets linked.
func syncDescriptors(db *DB, store storage.Provider, opts SyncOptions, logger *slog.Logger, report *Report) error {
	metas, err := store.List(opts.ConfigsDir, ".yaml")
	if err != nil {
		return err
	}

	for _, m := range metas {
		name, desc, outcome, err := syncDescriptorFile(db, store, m, logger)
		report.add(models.KindPrompt, m.Path, outcome, err)
		notify(opts, models.KindPrompt, m.Path, outcome)
		if err != nil {
			logger.Warn("sync: descriptor failed",
				slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		logger.Debug("sync: descriptor indexed",
			slog.String("path", m.Path), slog.String("outcome", string(outcome)))

		if err := rebuildAssociations(db, m.Path, name, desc, logger); err != nil {
			logger.Warn("sync: associations failed",
				slog.String("path", m.Path), slog.String("error", err.Error()))
		}
	}
	return nil
}

// syncDescriptorFile upserts one descriptor-defined prompt and returns the
// prompt name it resolved to, along with the parsed descriptor for the
// association rebuild.
func syncDescriptorFile(db *DB, store storage.Provider, m models.FileMeta, logger *slog.Logger) (string, *parser.Descriptor, Outcome, error) {
	data, err := store.Read(m.Path)
	if err != nil {
		return "", nil, OutcomeError, err
	}
	desc, err := parser.ParseDescriptor(data)
	if err != nil {
		return "", nil, OutcomeError, err
	}
	name := desc.Name
	if name == "" {
		name = strings.TrimSuffix(path.Base(m.Path), path.Ext(m.Path))
	}

	// The descriptor's content lives next to it with the same basename.
	contentPath := strings.TrimSuffix(m.Path, path.Ext(m.Path)) + ".md"
	content, err := store.Read(contentPath)
	if err != nil {
		logger.Debug("sync: descriptor has no content file",
			slog.String("path", m.Path), slog.String("content_path", contentPath))
		content = nil
	}

	outcome, err := db.UpsertPrompt(PromptRow{
		Name:        name,
		Path:        m.Path,
		Title:       desc.Title,
		Description: desc.Description,
		Author:      desc.Author,
		Content:     string(content),
		FileHash:    checksum.SumParts(data, content),
		SizeBytes:   m.Size + int64(len(content)),
		TokenCount:  int64(parser.EstimateTokens(string(content))),
	})
	return name, desc, outcome, err
}

// rebuildAssociations resolves the descriptor's skill paths against the index
// and rewrites the prompt's fragment and reference rows. Unresolvable paths
// are logged and skipped without failing the prompt.
func rebuildAssociations(db *DB, descPath, promptName string, desc *parser.Descriptor, logger *slog.Logger) error {
	prompt, err := db.GetPromptByName(promptName)
	if err != nil {
		return err
	}

	resolve := func(paths []string) []SkillRow {
		var rows []SkillRow
		for _, p := range paths {
			s, err := db.GetSkillByPath(path.Clean(p))
			if err != nil {
				logger.Warn("sync: skill reference not found",
					slog.String("descriptor", descPath), slog.String("skill", p))
				continue
			}
			rows = append(rows, *s)
		}
		return rows
	}

	return db.RebuildPromptLinks(prompt.ID, resolve(desc.Fragments), resolve(desc.References))
}

func notify(opts SyncOptions, kind models.DocKind, p string, outcome Outcome) {
	if opts.OnEvent == nil || outcome == OutcomeSkipped {
		return
	}
	opts.OnEvent(kind, p, outcome)
}
