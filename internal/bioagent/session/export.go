// Package session provides pure transforms over a recorded session:
// serialization for export/import and read-only progress analysis. Nothing
// here mutates the session.
package session

import (
	"fmt"
	"strings"

	"github.com/kiosk404/bioagent/internal/bioagent/entity"
	"github.com/kiosk404/bioagent/pkg/utils/json"
)

// ExportJSON serializes the session, preserving turn order, correlation ids
// and the research context so ImportJSON can rebuild it losslessly.
func ExportJSON(s *entity.Session) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export session %s: %w", s.ID, err)
	}
	return data, nil
}

// ImportJSON reconstructs a session previously produced by ExportJSON.
func ImportJSON(data []byte) (*entity.Session, error) {
	s := &entity.Session{}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("import session: %w", err)
	}
	if s.Turns == nil {
		s.Turns = make([]*entity.Turn, 0)
	}
	return s, nil
}

// ExportMarkdown renders the session as a human-readable transcript.
func ExportMarkdown(s *entity.Session) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Research Session %s\n\n", s.ID)
	fmt.Fprintf(&b, "Started: %s\n\n", s.CreatedAt.Format("2006-01-02 15:04:05"))

	if !s.Context.IsEmpty() {
		b.WriteString("## Research Context\n\n")
		b.WriteString(s.Context.Summary())
		b.WriteString("\n")
	}

	b.WriteString("## Conversation\n\n")
	for _, turn := range s.Turns {
		switch turn.Role {
		case entity.RoleUser:
			fmt.Fprintf(&b, "### User\n\n%s\n\n", turn.Content)
		case entity.RoleAssistant:
			b.WriteString("### Assistant\n\n")
			if turn.Content != "" {
				b.WriteString(turn.Content)
				b.WriteString("\n\n")
			}
			for _, tc := range turn.ToolCalls {
				fmt.Fprintf(&b, "- requested tool `%s` (%s)\n", tc.Name, tc.ID)
			}
			if len(turn.ToolCalls) > 0 {
				b.WriteString("\n")
			}
			if turn.Warning != "" {
				fmt.Fprintf(&b, "> Warning: %s\n\n", turn.Warning)
			}
		case entity.RoleTool:
			b.WriteString("### Tool Results\n\n")
			for _, res := range turn.ToolResults {
				fmt.Fprintf(&b, "**%s** (%s, %dms)\n\n", res.ToolName, res.Status, res.DurationMs)
				if res.Status == entity.CallSuccess {
					fmt.Fprintf(&b, "```\n%s\n```\n\n", res.Output)
				} else {
					fmt.Fprintf(&b, "> %s\n\n", res.ErrorMessage)
				}
			}
		}
	}

	return b.String()
}
