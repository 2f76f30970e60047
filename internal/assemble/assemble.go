// Package assemble renders the context blob handed to the model: a
// repository header, the directory tree, then selected file bodies in
// priority order. The header and tree are navigational and are not
// charged against the character budget; only file bodies are, and those
// arrive already budgeted by the selector.
package assemble

import (
	"fmt"
	"strings"

	"github.com/kevinmichaelchen/repo-lens/internal/classify"
	"github.com/kevinmichaelchen/repo-lens/internal/models"
)

// RenderHeader produces the <repo_info> block.
func RenderHeader(info models.RepoInfo) string {
	var b strings.Builder
	b.WriteString("<repo_info>\n")
	fmt.Fprintf(&b, "Repository: %s\n", info.FullName())
	fmt.Fprintf(&b, "Default branch: %s\n", info.DefaultBranch)
	if info.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", info.Description)
	}
	if info.Language != "" {
		fmt.Fprintf(&b, "Primary language: %s\n", info.Language)
	}
	if len(info.Topics) > 0 {
		fmt.Fprintf(&b, "Topics: %s\n", strings.Join(info.Topics, ", "))
	}
	b.WriteString("</repo_info>")
	return b.String()
}

// RenderTree produces the <directory_tree> block: every non-excluded
// file, indented by depth. Directory structure is implied by the paths.
// An empty listing renders the root alone.
func RenderTree(listing []models.RepositoryEntry) string {
	var b strings.Builder
	b.WriteString("<directory_tree>\n./\n")
	for _, e := range listing {
		if e.Kind != models.KindFile || classify.Excluded(e.Path) {
			continue
		}
		depth := strings.Count(e.Path, "/")
		b.WriteString(strings.Repeat("  ", depth+1))
		b.WriteString(baseName(e.Path))
		b.WriteByte('\n')
	}
	b.WriteString("</directory_tree>")
	return b.String()
}

// Assemble concatenates header, tree, and file blocks in selection order.
// The result's length is at most the configured character budget plus the
// header and tree lengths and per-file block framing.
func Assemble(header, tree string, selections []models.SelectedFile) string {
	sections := make([]string, 0, len(selections)+2)
	sections = append(sections, header, tree)
	for _, sf := range selections {
		open := fmt.Sprintf("<file path=%q>", sf.Path)
		if sf.Truncated {
			open = fmt.Sprintf("<file path=%q truncated=\"true\">", sf.Path)
		}
		sections = append(sections, open+"\n"+sf.Content+"\n</file>")
	}
	return strings.Join(sections, "\n\n")
}

func baseName(p string) string {
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		return p[i+1:]
	}
	return p
}
