package entity

import (
	"fmt"
	"strings"

	"github.com/jinzhu/copier"
)

// ResearchContext describes the current investigative focus. It conditions
// every subsequent model invocation and is replaced wholesale by the caller;
// past turns are never rewritten when it changes.
type ResearchContext struct {
	Domain           string            `json:"domain,omitempty"`
	Organism         string            `json:"organism,omitempty"`
	Dataset          string            `json:"dataset,omitempty"`
	ResearchQuestion string            `json:"research_question,omitempty"`
	Keywords         []string          `json:"keywords,omitempty"`
	Metadata         map[string]string `json:"metadata,omitempty"`
}

// Clone returns a deep copy so snapshots recorded per turn-cycle cannot be
// mutated retroactively through the live context.
func (rc *ResearchContext) Clone() *ResearchContext {
	if rc == nil {
		return nil
	}
	out := &ResearchContext{}
	if err := copier.CopyWithOption(out, rc, copier.Option{DeepCopy: true}); err != nil {
		// copier only fails on incompatible types; ours are plain.
		return &ResearchContext{
			Domain:           rc.Domain,
			Organism:         rc.Organism,
			Dataset:          rc.Dataset,
			ResearchQuestion: rc.ResearchQuestion,
		}
	}
	return out
}

// IsEmpty reports whether no focus has been set yet.
func (rc *ResearchContext) IsEmpty() bool {
	if rc == nil {
		return true
	}
	return rc.Domain == "" && rc.Organism == "" && rc.Dataset == "" &&
		rc.ResearchQuestion == "" && len(rc.Keywords) == 0 && len(rc.Metadata) == 0
}

// Summary renders the context as prompt-ready lines.
func (rc *ResearchContext) Summary() string {
	if rc.IsEmpty() {
		return ""
	}
	var b strings.Builder
	b.WriteString("Current research context:\n")
	if rc.Domain != "" {
		fmt.Fprintf(&b, "- Domain: %s\n", rc.Domain)
	}
	if rc.Organism != "" {
		fmt.Fprintf(&b, "- Organism: %s\n", rc.Organism)
	}
	if rc.Dataset != "" {
		fmt.Fprintf(&b, "- Dataset: %s\n", rc.Dataset)
	}
	if rc.ResearchQuestion != "" {
		fmt.Fprintf(&b, "- Research question: %s\n", rc.ResearchQuestion)
	}
	if len(rc.Keywords) > 0 {
		fmt.Fprintf(&b, "- Keywords: %s\n", strings.Join(rc.Keywords, ", "))
	}
	for k, v := range rc.Metadata {
		fmt.Fprintf(&b, "- %s: %s\n", k, v)
	}
	return b.String()
}
