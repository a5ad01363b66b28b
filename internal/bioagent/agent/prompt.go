package agent

import (
	"strings"

	"github.com/kiosk404/bioagent/internal/bioagent/entity"
)

const basePrompt = `You are a biomedical research assistant with access to specialized tools for querying scientific databases, literature, and bioinformatics resources.

Guidelines:
- Use the available tools to ground answers in real data; prefer tool results over recall.
- Cite the source database or identifier (PMID, gene symbol, accession) when a tool provides one.
- When a query is ambiguous, state your interpretation before answering.
- If a tool fails or returns nothing, say so explicitly and continue with what you have.
- Keep answers precise and suitable for a research audience.`

// systemPrompt assembles the system message for one model invocation,
// folding in the current research context when one is set.
func systemPrompt(rc *entity.ResearchContext) string {
	if rc.IsEmpty() {
		return basePrompt
	}

	var b strings.Builder
	b.WriteString(basePrompt)
	b.WriteString("\n\n")
	b.WriteString(rc.Summary())
	b.WriteString("\nKeep this research focus in mind when selecting tools and framing answers.")
	return b.String()
}
