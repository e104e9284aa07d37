package assistant

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/maticai/matic/internal/ai"
	"github.com/maticai/matic/internal/cli"
)

const (
	roleUser      = "user"
	roleAssistant = "assistant"
	roleSystem    = "system"
)

type ChatCmd struct {
	Message []string `arg:"" optional:"" help:"Ask one question and exit; without it an interactive session starts."`
	Today   bool     `help:"Share today's meal totals with the assistant."`
}

func (c *ChatCmd) Run(ctx *cli.Context) error {
	client, err := ctx.RequireAI()
	if err != nil {
		return err
	}

	var history []ai.Message
	if c.Today {
		summary, err := todaySummary(ctx)
		if err != nil {
			return err
		}
		history = append(history, ai.Message{Role: roleSystem, Content: summary})
	}

	if len(c.Message) > 0 {
		_, err := ask(ctx, client, history, strings.Join(c.Message, " "))
		return err
	}

	ctx.Printf("Nutrition assistant. Empty line or 'exit' to quit.\n")
	scanner := bufio.NewScanner(ctx.Stdin())
	for {
		ctx.Printf("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line == "exit" || line == "quit" {
			break
		}
		if history, err = ask(ctx, client, history, line); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// ask sends one user turn and prints the reply, returning the extended history.
func ask(ctx *cli.Context, client *ai.Client, history []ai.Message, question string) ([]ai.Message, error) {
	history = append(history, ai.Message{Role: roleUser, Content: question})
	reply, err := client.Chat(context.Background(), history)
	if err != nil {
		return history, ctx.Report(err, "assistant request failed")
	}
	ctx.Printf("%s\n", strings.TrimSpace(reply))
	return append(history, ai.Message{Role: roleAssistant, Content: reply}), nil
}

func todaySummary(ctx *cli.Context) (string, error) {
	day, err := ctx.Tracker.Day("")
	if err != nil {
		return "", err
	}
	totals, err := ctx.Tracker.MealTotals(day)
	if err != nil {
		return "", ctx.Report(err, "failed to load meals")
	}
	var b strings.Builder
	fmt.Fprintf(&b, "On %s the user has eaten %d kcal (protein %.1fg, carbs %.1fg, fat %.1fg).",
		totals.Date, totals.Total.Calories, totals.Total.Protein, totals.Total.Carbs, totals.Total.Fat)
	for _, m := range totals.Meals {
		fmt.Fprintf(&b, " %s: %g × %s.", m.Entry.Category, m.Entry.Servings, m.Food.Name)
	}
	return b.String(), nil
}
