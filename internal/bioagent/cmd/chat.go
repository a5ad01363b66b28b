package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/kiosk404/bioagent/internal/bioagent/agent"
	"github.com/kiosk404/bioagent/internal/bioagent/entity"
	"github.com/kiosk404/bioagent/internal/bioagent/options"
	"github.com/kiosk404/bioagent/internal/bioagent/session"
	"github.com/kiosk404/bioagent/pkg/utils/json"
)

var chatExample = heredoc.Doc(`
	# Interactive research session
	bioagent chat

	# Single message mode
	bioagent chat "What is known about BRCA1 variants in breast cancer?"

	# Use a specific model
	bioagent chat --model.provider=anthropic --model.name=claude-sonnet-4-5`)

// NewCmdChat creates the `chat` command.
func NewCmdChat(opts *options.Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "chat [message]",
		Short:   "Start a research conversation",
		Example: chatExample,
		Long: heredoc.Doc(`
			Start a conversation with the research agent.

			Without arguments an interactive session opens; with a message
			argument the agent answers once and exits. Inside the interactive
			session, slash commands manage the research context:

			  /context                  show the current research context
			  /context key=value ...    set context fields (domain, organism,
			                            dataset, question, keywords)
			  /progress                 show a progress analysis
			  /tools                    list available tools
			  /export [json|markdown]   print the session transcript
			  /quit                     save the session and exit`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := createConfig(opts)
			if err != nil {
				return err
			}
			rt, err := newRuntime(cfg)
			if err != nil {
				return err
			}
			defer rt.close()

			ctx := cmd.Context()
			if err := rt.connect(ctx); err != nil {
				// Keep going with zero tools; `bioagent servers` shows
				// which servers are down.
				color.Yellow("warning: %v", err)
			}

			ag, err := rt.newAgent(ctx)
			if err != nil {
				return err
			}

			if len(args) > 0 {
				return runOnce(ctx, rt, ag, strings.Join(args, " "))
			}
			return runInteractive(ctx, rt, ag)
		},
	}
	return cmd
}

func runOnce(ctx context.Context, rt *runtime, ag *agent.ResearchAgent, message string) error {
	turn, err := ag.ProcessMessage(ctx, message)
	if err != nil {
		return err
	}
	printAssistantTurn(turn)
	return rt.store.Save(ctx, ag.Session())
}

func runInteractive(ctx context.Context, rt *runtime, ag *agent.ResearchAgent) error {
	color.Cyan("bioagent research session %s", ag.Session().ID)
	fmt.Printf("%d tools available from %d servers. Type /quit to exit, /context to set focus.\n\n",
		len(rt.registry.Tools()), len(rt.registry.ServerIDs()))

	scanner := bufio.NewScanner(os.Stdin)
	prompt := color.New(color.FgGreen, color.Bold)

	for {
		prompt.Print("you> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if quit := runSlashCommand(ctx, rt, ag, line); quit {
				break
			}
			continue
		}

		turn, err := ag.ProcessMessage(ctx, line)
		if err != nil {
			color.Red("error: %v", err)
			continue
		}
		printAssistantTurn(turn)

		if err := rt.store.Save(ctx, ag.Session()); err != nil {
			color.Red("failed to save session: %v", err)
		}
	}

	if err := rt.store.Save(ctx, ag.Session()); err != nil {
		return err
	}
	fmt.Printf("session %s saved\n", ag.Session().ID)
	return nil
}

// runSlashCommand handles an interactive slash command; it returns true when
// the session should end.
func runSlashCommand(ctx context.Context, rt *runtime, ag *agent.ResearchAgent, line string) bool {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/quit", "/exit":
		return true

	case "/context":
		if len(fields) == 1 {
			rc := ag.Context()
			if rc.IsEmpty() {
				fmt.Println("no research context set")
			} else {
				fmt.Print(rc.Summary())
			}
			return false
		}
		ag.UpdateContext(parseContextArgs(ag.Context(), fields[1:]))
		color.Cyan("research context updated")

	case "/progress":
		progress := session.Analyze(ag.Session())
		data, _ := json.MarshalIndent(progress, "", "  ")
		fmt.Println(string(data))

	case "/tools":
		for _, td := range rt.registry.Tools() {
			fmt.Printf("  %s (%s): %s\n", td.Name, td.ServerID, td.Description)
		}

	case "/export":
		format := "markdown"
		if len(fields) > 1 {
			format = fields[1]
		}
		if format == "json" {
			data, err := session.ExportJSON(ag.Session())
			if err != nil {
				color.Red("export failed: %v", err)
				return false
			}
			fmt.Println(string(data))
		} else {
			fmt.Print(session.ExportMarkdown(ag.Session()))
		}

	default:
		color.Yellow("unknown command %s", fields[0])
	}
	return false
}

// parseContextArgs applies key=value updates on top of the current context.
// The result still replaces the session context wholesale.
func parseContextArgs(rc *entity.ResearchContext, args []string) *entity.ResearchContext {
	if rc == nil {
		rc = &entity.ResearchContext{}
	}
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			continue
		}
		switch strings.ToLower(key) {
		case "domain":
			rc.Domain = value
		case "organism":
			rc.Organism = value
		case "dataset":
			rc.Dataset = value
		case "question":
			rc.ResearchQuestion = value
		case "keywords":
			rc.Keywords = strings.Split(value, ",")
		default:
			if rc.Metadata == nil {
				rc.Metadata = make(map[string]string)
			}
			rc.Metadata[key] = value
		}
	}
	return rc
}

// printAssistantTurn renders the assistant's markdown answer for the terminal.
func printAssistantTurn(turn *entity.Turn) {
	out, err := glamour.Render(turn.Content, "dark")
	if err != nil {
		out = turn.Content + "\n"
	}
	fmt.Print(out)
	if turn.Warning != "" {
		color.Yellow("warning: %s", turn.Warning)
	}
}
