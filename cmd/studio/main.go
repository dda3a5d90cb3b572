// Command studio is a terminal front-end for the flashcard generation
// pipeline: paste source text, review proposals, save accepted cards.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"ai-flashcards-be/internal/pkg/logger"
	"ai-flashcards-be/pkg/apiclient"
	"ai-flashcards-be/pkg/studio"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	baseURL := os.Getenv("API_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}
	token := os.Getenv("API_TOKEN")
	if token == "" {
		log.Fatal("Error: API_TOKEN is not set")
	}

	client := apiclient.NewClient(baseURL, token)
	drafts := studio.NewMemoryDraftStore(studio.DraftKeyPrefix + "terminal")
	sysLogger := logger.NewZapLogger("logs/studio.log", false)

	machine := studio.NewMachine(client, drafts, sysLogger)
	defer machine.Close()

	fmt.Println("Flashcard studio. Type 'help' for commands.")
	repl(machine)
}

func repl(machine *studio.Machine) {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 64*1024), 64*1024)
	ctx := context.Background()

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		cmd, args := fields[0], fields[1:]

		switch cmd {
		case "help":
			printHelp()
		case "text":
			fmt.Println("Paste source text, end with a line containing only '.'")
			machine.SetSourceText(readBlock(scanner))
			printSource(machine.Snapshot())
		case "status":
			printStatus(machine.Snapshot())
		case "generate":
			if err := machine.Generate(ctx); err != nil {
				fmt.Println("error:", err)
				continue
			}
			waitForGeneration(machine)
		case "list":
			printProposals(machine.Snapshot())
		case "accept":
			withIndex(args, func(i int) error { return machine.AcceptProposal(i) })
		case "reject":
			withIndex(args, func(i int) error { return machine.RejectProposal(i) })
		case "front", "back":
			if len(args) < 2 {
				fmt.Printf("usage: %s <n> <text>\n", cmd)
				continue
			}
			i, err := strconv.Atoi(args[0])
			if err != nil {
				fmt.Println("error: index must be a number")
				continue
			}
			field := studio.FieldFront
			if cmd == "back" {
				field = studio.FieldBack
			}
			value := strings.Join(args[1:], " ")
			if err := machine.EditProposalField(i, field, value); err != nil {
				fmt.Println("error:", err)
			}
		case "save":
			if err := machine.SaveAccepted(ctx); err != nil {
				fmt.Println("error:", err)
				continue
			}
			printSummary(machine.Snapshot())
		case "retry":
			withIndex(args, func(i int) error { return machine.RetrySaveItem(ctx, i) })
			printSummary(machine.Snapshot())
		case "reset":
			machine.Reset()
			fmt.Println("reset.")
		case "quit", "exit":
			return
		default:
			fmt.Println("unknown command:", cmd)
		}
	}
}

func printHelp() {
	fmt.Println(`commands:
  text            enter source text (end with '.')
  status          show validation / phase / counts
  generate        request proposals
  list            show proposals
  accept <n>      accept proposal n
  reject <n>      reject proposal n
  front <n> <t>   edit front of proposal n
  back <n> <t>    edit back of proposal n
  save            save accepted proposals
  retry <n>       retry failed save item for proposal n
  reset           discard everything
  quit`)
}

func readBlock(scanner *bufio.Scanner) string {
	var sb strings.Builder
	for scanner.Scan() {
		line := scanner.Text()
		if line == "." {
			break
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String()
}

func withIndex(args []string, fn func(int) error) {
	if len(args) != 1 {
		fmt.Println("usage: <command> <n>")
		return
	}
	i, err := strconv.Atoi(args[0])
	if err != nil {
		fmt.Println("error: index must be a number")
		return
	}
	if err := fn(i); err != nil {
		fmt.Println("error:", err)
	}
}

// waitForGeneration blocks on machine updates until the attempt settles.
func waitForGeneration(machine *studio.Machine) {
	for range machine.Updates() {
		snap := machine.Snapshot()
		switch snap.Phase {
		case studio.PhaseGenerating:
			fmt.Printf("\rgenerating... %s", studio.FormatElapsedTime(snap.Generation.ElapsedTime))
		case studio.PhaseProposalsReady:
			fmt.Printf("\rgenerated %d proposals\n", len(snap.Proposals))
			printProposals(snap)
			return
		case studio.PhaseRateLimited:
			fmt.Printf("\rrate limited, retry in %ds\n", snap.RateLimit.RetryAfter)
			return
		case studio.PhaseFailed:
			if snap.Generation.Error != nil {
				fmt.Printf("\rgeneration failed: %s\n", snap.Generation.Error.Message)
			} else {
				fmt.Println("\rgeneration failed")
			}
			return
		}
	}
}

func printSource(snap studio.Snapshot) {
	if snap.Source.IsValid {
		fmt.Printf("source ok (%d characters)\n", snap.Source.CharCount)
	} else {
		fmt.Println("source invalid:", snap.Source.ValidationError)
	}
}

func printStatus(snap studio.Snapshot) {
	printSource(snap)
	fmt.Println("phase:", snap.Phase)
	if len(snap.Proposals) > 0 {
		c := snap.Counts
		fmt.Printf("proposals: %d pending, %d accepted, %d edited, %d rejected\n",
			c.Pending, c.Accepted, c.Edited, c.Rejected)
	}
}

func printProposals(snap studio.Snapshot) {
	for i, p := range snap.Proposals {
		marker := " "
		if p.IsEdited {
			marker = "*"
		}
		fmt.Printf("[%d] (%s)%s %s | %s\n", i, p.Status, marker, p.CurrentFront, p.CurrentBack)
	}
}

func printSummary(snap studio.Snapshot) {
	if snap.Summary == nil {
		return
	}
	s := snap.Summary
	fmt.Printf("saved %d/%d (unedited %d, edited %d, duplicates %d, errors %d)\n",
		s.SuccessCount, s.TotalAttempted, s.UneditedCount, s.EditedCount, s.DuplicateCount, s.ErrorCount)
	for _, e := range s.Errors {
		fmt.Printf("  failed: %s | %s: %s\n", e.Front, e.Back, e.Error)
	}
}
