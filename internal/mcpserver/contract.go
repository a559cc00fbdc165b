package mcpserver

// SkillFormatContract describes the canonical Markdown skill document format
// that LLM consumers should follow when authoring library content.
const SkillFormatContract = `# Ansuz Skill Format Contract

Every Markdown skill document stored in an Ansuz library SHOULD follow this
structure.

## Structure

` + "```" + `markdown
---
title: Human-readable title         # OPTIONAL – falls back to the first H1
description: One-line summary       # OPTIONAL – shown in listings and search
author: Who wrote it                # OPTIONAL
---

# Error wrapping

Body text in standard Markdown describing one reusable skill.
` + "```" + `

## Rules

1. **Frontmatter is optional.** When present, the ` + "`" + `---` + "`" + ` fences must be the
   first thing in the file (no leading blank lines).
2. **Title resolution:** the frontmatter ` + "`" + `title` + "`" + ` wins; otherwise the first
   ` + "`" + `# H1` + "`" + ` heading in the body is used; otherwise the title stays empty.
3. **Malformed frontmatter never blocks indexing.** A file with broken YAML
   between the fences is indexed whole, as plain body text.
4. **Category comes from the path.** The directory run between ` + "`" + `skills/` + "`" + ` and
   the filename is the category (` + "`" + `skills/go/errors.md` + "`" + ` → ` + "`" + `go` + "`" + `, nested
   directories join with ` + "`" + `/` + "`" + `). Files directly inside ` + "`" + `skills/` + "`" + ` land in
   ` + "`" + `uncategorized` + "`" + `.
5. **Name is the filename stem** (no ` + "`" + `.md` + "`" + ` extension). Keep stems unique
   enough to address a skill by name alone.
6. **File paths** end with ` + "`" + `.md` + "`" + ` and use forward slashes. **Encoding** is
   UTF-8 with a trailing newline.

## Prompts

Prompts live next to skills and come in two shapes:

- Flat prompts: ` + "`" + `prompts/<name>.md` + "`" + `, indexed verbatim (frontmatter feeds
  title, description and author).
- Described prompts: ` + "`" + `prompt_configs/<name>.yaml` + "`" + ` plus an optional sibling
  ` + "`" + `<name>.md` + "`" + ` with the prose. The descriptor lists skills the prompt builds
  on:

` + "```" + `yaml
name: build-api
title: Build an HTTP API
fragments:                 # skills embedded into the prompt, in order
  - skills/go/errors.md
references:                # related skills, linked but not embedded
  - skills/go/http.md
` + "```" + `

## Example

` + "```" + `markdown
---
title: Error wrapping
description: Wrap errors with context at every boundary
---

# Error wrapping

Wrap with ` + "`" + `fmt.Errorf("doing x: %w", err)` + "`" + ` so callers can match with
` + "`" + `errors.Is` + "`" + `.
` + "```" + `
`
