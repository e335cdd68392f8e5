package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/shanilnc/night-mind/internal/chat"
	"github.com/shanilnc/night-mind/internal/journal"
	"github.com/shanilnc/night-mind/internal/models"
)

// cli is the local single-user boundary adapter over the engine. Plain
// input is a chat turn; slash commands drive the journal and stores.
type cli struct {
	conversations *chat.Store
	journal       *journal.Service
	logger        *zap.Logger
}

func newCLI(conversations *chat.Store, journalSvc *journal.Service, logger *zap.Logger) *cli {
	return &cli{
		conversations: conversations,
		journal:       journalSvc,
		logger:        logger,
	}
}

func (c *cli) Run() error {
	fmt.Println("NightMind. Type /help for commands, /quit to exit.")

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 64*1024), 64*1024)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "/quit" || line == "/exit" {
			return nil
		}
		if strings.HasPrefix(line, "/") {
			c.handleCommand(line)
			continue
		}
		c.handleTurn(line)
	}
}

func (c *cli) handleTurn(content string) {
	ctx := context.Background()
	turn, err := c.conversations.AddMessage(ctx, content, "")
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	if turn == nil {
		fmt.Println("No active conversation. Start one with /new.")
		return
	}
	if turn.Warning != nil {
		c.logger.Warn("Turn completed with degraded reply", zap.Error(turn.Warning))
		fmt.Println("(warning:", turn.Warning, ")")
	}
	fmt.Println(turn.Assistant.Content)
}

func (c *cli) handleCommand(line string) {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "/help":
		fmt.Print(`Commands:
  /new                 start a conversation
  /end [anxiety 1-10]  end and archive the conversation
  /history             list archived conversations
  /resume <id>         resume an archived conversation
  /save                turn the last archived conversation into a journal entry
  /journal <text>      write a manual journal entry
  /entries [search]    list journal entries
  /mood <1-10> [notes] record a mood check-in
  /insights            list insights
  /stats               show journal statistics
  /style <s>           set communication style (empathetic|direct|analytical)
  /quit                exit
`)
	case "/new":
		conv, err := c.conversations.NewConversation()
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		fmt.Println("Started", conv.Title)
	case "/end":
		var anxiety *int
		if len(args) > 0 {
			v, err := strconv.Atoi(args[0])
			if err != nil {
				fmt.Println("anxiety level must be a number")
				return
			}
			anxiety = &v
		}
		conv, err := c.conversations.EndConversation(context.Background(), anxiety)
		if err != nil && conv == nil {
			fmt.Println("error:", err)
			return
		}
		if conv == nil {
			fmt.Println("Nothing to end.")
			return
		}
		if err != nil {
			fmt.Println("(archived without analysis:", err, ")")
		}
		fmt.Printf("Archived %s (%d messages)\n", conv.Title, len(conv.Messages))
	case "/history":
		for _, conv := range c.conversations.Archive() {
			fmt.Printf("%s  %s  %d messages  %s\n",
				conv.ID, conv.Title, len(conv.Messages), conv.Mood)
		}
	case "/resume":
		if len(args) == 0 {
			fmt.Println("usage: /resume <id>")
			return
		}
		conv, err := c.conversations.Resume(args[0])
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		fmt.Println("Resumed", conv.Title)
	case "/save":
		archive := c.conversations.Archive()
		if len(archive) == 0 {
			fmt.Println("No archived conversations.")
			return
		}
		entry, err := c.journal.CreateFromConversation(archive[len(archive)-1])
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		fmt.Printf("Saved journal entry %q (tags: %s)\n", entry.Title, strings.Join(entry.Tags, ", "))
	case "/journal":
		if len(args) == 0 {
			fmt.Println("usage: /journal <text>")
			return
		}
		entry, err := c.journal.CreateEntry(journal.CreateEntryParams{
			Content: strings.Join(args, " "),
		})
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		fmt.Println("Saved", entry.Title)
	case "/entries":
		filter := journal.EntryFilter{Limit: 20, Page: 1}
		if len(args) > 0 {
			filter.Search = strings.Join(args, " ")
		}
		entries, total, err := c.journal.ListEntries(filter)
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		for _, e := range entries {
			fmt.Printf("%s  %s  [%s]\n", e.Timestamp.Format("2006-01-02"), e.Title, strings.Join(e.Tags, ", "))
		}
		fmt.Printf("%d total\n", total)
	case "/mood":
		if len(args) == 0 {
			fmt.Println("usage: /mood <1-10> [notes]")
			return
		}
		mood, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Println("mood must be a number")
			return
		}
		entry, err := c.journal.TrackMood(journal.TrackMoodParams{
			Mood:  mood,
			Notes: strings.Join(args[1:], " "),
		})
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		fmt.Printf("Recorded mood %d\n", entry.Mood)
	case "/insights":
		insights, err := c.journal.ListInsights("")
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		for _, in := range insights {
			fmt.Printf("[%s] %s (x%d)\n  %s\n", in.Type, in.Title, in.Frequency, in.Description)
			if in.Actionable != "" {
				fmt.Printf("  → %s\n", in.Actionable)
			}
		}
	case "/stats":
		stats, err := c.journal.Stats(journal.TimeRange{})
		if err != nil {
			fmt.Println("error:", err)
			return
		}
		fmt.Printf("Entries: %d (%d from conversations, %d manual)\n",
			stats.TotalEntries, stats.ConversationEntries, stats.ManualEntries)
		fmt.Printf("Mood check-ins: %d, average mood: %.1f\n",
			stats.TotalMoodEntries, stats.AverageMood)
		for _, t := range stats.TopTags {
			fmt.Printf("  #%s x%d\n", t.Tag, t.Count)
		}
		for _, p := range stats.MoodByDate {
			fmt.Printf("  %s  %.1f\n", p.Date, p.AverageMood)
		}
		fmt.Printf("Insights: %d\n", stats.Insights)
	case "/style":
		if len(args) == 0 {
			fmt.Println("usage: /style <empathetic|direct|analytical>")
			return
		}
		style := models.CommunicationStyle(args[0])
		if _, err := c.conversations.UpdateProfile(chat.ProfileUpdate{PreferredStyle: &style}); err != nil {
			fmt.Println("error:", err)
			return
		}
		fmt.Println("Style set to", style)
	default:
		fmt.Println("Unknown command. Try /help.")
	}
}
