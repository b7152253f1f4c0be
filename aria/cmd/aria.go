// Command-line session for local development: drive the scheduling tools
// against the real store without a media gateway.
package main

import (
	"aria/aria/agents/core"
	"aria/aria/config"
	"aria/aria/services/llm"
	"aria/aria/sources/psql"
	"aria/aria/sources/psql/dao"
	"aria/aria/utils/logging"
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func main() {
	logging.InitLogger()
	cfg := config.LoadConfig()

	rates, err := config.LoadRates(cfg.RatesFile)
	if err != nil {
		logging.AppLogger.Warn("rates file unreadable, using defaults", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	args := os.Args[1:]
	if len(args) < 1 || args[0] != "connect" {
		fmt.Println("aria CLI usage:")
		fmt.Println("  aria connect   # Start an interactive scheduling session")
		os.Exit(1)
	}

	db, err := psql.NewDatabase(ctx, cfg)
	if err != nil {
		logging.ErrorLogger.Error("database connection error", zap.Error(err))
		os.Exit(1)
	}
	defer db.Close()
	store := dao.NewStore(db.DB)

	sessionID := fmt.Sprintf("cli-%s", uuid.New().String()[:8])
	session := core.NewSession(sessionID, store, rates)
	if cfg.SummarizerAPIKey != "" {
		client := llm.NewCerebrasClient(cfg.SummarizerBaseURL, cfg.SummarizerAPIKey)
		session.AttachSummarizer(llm.NewSummarizer(client, cfg.SummarizerModel))
	}

	fmt.Println("Session:", sessionID)
	fmt.Println()
	fmt.Println(core.Greeting)
	session.OnAgentText(core.Greeting)
	fmt.Println()
	fmt.Println("Commands (arguments separated by |):")
	fmt.Println("  identify <phone> | [name]")
	fmt.Println("  slots [date]")
	fmt.Println("  book <date> | <time> | [purpose]")
	fmt.Println("  list [status]")
	fmt.Println("  cancel <appointment-id>")
	fmt.Println("  modify <appointment-id> | [new date] | [new time]")
	fmt.Println("  note <text> | [category]")
	fmt.Println("  exit")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("aria> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			printResult(session.EndConversation(context.Background(), "yes"))
			fmt.Println("Goodbye!")
			break
		}

		session.OnCallerText(line)
		printResult(dispatch(session, line))
	}
}

func dispatch(session *core.Session, line string) core.ToolResult {
	cmd, rest, _ := strings.Cut(line, " ")
	parts := strings.Split(rest, "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	arg := func(i int) string {
		if i < len(parts) {
			return parts[i]
		}
		return ""
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch cmd {
	case "identify":
		return session.IdentifyUser(ctx, arg(0), arg(1))
	case "slots":
		return session.FetchSlots(ctx, arg(0))
	case "book":
		return session.BookAppointment(ctx, arg(0), arg(1), arg(2))
	case "list":
		return session.RetrieveAppointments(ctx, arg(0))
	case "cancel":
		return session.CancelAppointment(ctx, arg(0))
	case "modify":
		return session.ModifyAppointment(ctx, arg(0), arg(1), arg(2))
	case "note":
		return session.CapturePreference(ctx, arg(0), arg(1))
	default:
		return core.ToolResult{
			Tool:    cmd,
			Status:  core.StatusError,
			Message: "unknown command",
			Kind:    core.ErrNotFound,
		}
	}
}

func printResult(result core.ToolResult) {
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Println(result.Message)
		return
	}
	fmt.Println(string(out))
}
