package session

import (
	"sort"
	"strings"

	"github.com/kiosk404/bioagent/internal/bioagent/entity"
)

// Progress summarizes how a research session has gone so far.
type Progress struct {
	SessionID       string         `json:"session_id"`
	DurationMinutes float64        `json:"duration_minutes"`
	TurnCount       int            `json:"turn_count"`
	ToolUsage       map[string]int `json:"tool_usage"`
	Themes          []string       `json:"themes"`
	NextSteps       []string       `json:"next_steps"`
}

// themeTerms are the investigative terms scanned for in user messages.
var themeTerms = []string{
	"gene expression", "differential expression", "pathway", "protein",
	"variant", "mutation", "sequencing", "rna-seq", "single-cell",
	"clinical trial", "drug", "biomarker", "phenotype", "genome",
	"transcriptome", "immune", "cancer", "microbiome",
}

// Analyze derives a progress report from the session history. Pure and
// read-only; callable at any point in the session's life.
func Analyze(s *entity.Session) *Progress {
	p := &Progress{
		SessionID: s.ID,
		TurnCount: len(s.Turns),
		ToolUsage: make(map[string]int),
	}

	if last := s.LastTurn(); last != nil {
		p.DurationMinutes = last.CreatedAt.Sub(s.CreatedAt).Minutes()
	}

	themeCounts := make(map[string]int)
	if s.Context != nil {
		for _, kw := range s.Context.Keywords {
			themeCounts[strings.ToLower(kw)] += 2 // explicit focus outweighs mentions
		}
	}

	for _, turn := range s.Turns {
		switch turn.Role {
		case entity.RoleTool:
			for _, res := range turn.ToolResults {
				p.ToolUsage[res.ToolName]++
			}
		case entity.RoleUser:
			content := strings.ToLower(turn.Content)
			for _, term := range themeTerms {
				if strings.Contains(content, term) {
					themeCounts[term]++
				}
			}
		}
	}

	p.Themes = rankThemes(themeCounts)
	p.NextSteps = suggestNextSteps(s, p)
	return p
}

// rankThemes orders themes by frequency, ties broken alphabetically.
func rankThemes(counts map[string]int) []string {
	themes := make([]string, 0, len(counts))
	for t := range counts {
		themes = append(themes, t)
	}
	sort.Slice(themes, func(i, j int) bool {
		if counts[themes[i]] != counts[themes[j]] {
			return counts[themes[i]] > counts[themes[j]]
		}
		return themes[i] < themes[j]
	})
	return themes
}

func suggestNextSteps(s *entity.Session, p *Progress) []string {
	var steps []string

	if s.Context.IsEmpty() {
		steps = append(steps, "Set a research context (domain, organism, question) to focus the investigation.")
	}
	if len(p.ToolUsage) == 0 && p.TurnCount > 0 {
		steps = append(steps, "No tools used yet; try querying the connected data sources.")
	}
	if s.Context != nil && s.Context.ResearchQuestion != "" && p.TurnCount >= 4 {
		steps = append(steps, "Summarize findings so far against the research question.")
	}
	if len(steps) == 0 {
		steps = append(steps, "Continue the current line of investigation or export the session.")
	}
	return steps
}
