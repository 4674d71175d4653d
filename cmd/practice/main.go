// cmd/practice/main.go
//
// Interactive terminal practice client. Runs the conversation services
// in-process, so it works with or without a configured provider.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/lingualife/lingualife/internal/app"
	"github.com/lingualife/lingualife/internal/config"
	"github.com/lingualife/lingualife/internal/di"
	"github.com/lingualife/lingualife/internal/models"
	"github.com/lingualife/lingualife/internal/services"
	"github.com/lingualife/lingualife/internal/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load configuration: %v", err)
	}

	if err := utils.InitLogger(filepath.Join(cfg.LogDir, "practice.log")); err != nil {
		log.Fatalf("initialize logger: %v", err)
	}
	// Keep stdout for the conversation itself.
	utils.GetLogger().Enable(false)

	if err := app.InitServices(cfg); err != nil {
		log.Fatalf("initialize services: %v", err)
	}

	container := di.GetContainer()
	conversations := container.Get("conversation").(*services.ConversationService)
	scenarios := container.Get("scenario").(*services.ScenarioService)
	vocabulary := container.Get("vocabulary").(*services.VocabularyService)

	printHeader()

	reader := bufio.NewReader(os.Stdin)

	language := chooseLanguage(reader, conversations)
	scenario := chooseScenario(reader, scenarios)

	opening := conversations.OpenConversation(language, scenario)
	printAssistant(opening)

	printHelp()

	for {
		printPrompt(language)

		input, err := reader.ReadString('\n')
		if err != nil {
			printGoodbye()
			return
		}
		text := strings.TrimSpace(input)
		if text == "" {
			continue
		}

		switch {
		case text == "/quit" || text == "/exit":
			printGoodbye()
			return
		case text == "/clear":
			conversations.ClearConversation(language, scenario)
			color.New(color.FgYellow).Println("Conversation cleared.")
			opening := conversations.OpenConversation(language, scenario)
			printAssistant(opening)
			continue
		case text == "/help":
			printHelp()
			continue
		case strings.HasPrefix(text, "/save "):
			word := strings.TrimSpace(strings.TrimPrefix(text, "/save "))
			saveWord(conversations, vocabulary, word, language)
			continue
		case text == "/words":
			listWords(vocabulary)
			continue
		}

		reply := conversations.GenerateResponse(context.Background(), text, language, scenario)
		printAssistant(reply)
	}
}

func printHeader() {
	cyan := color.New(color.FgCyan, color.Bold)

	cyan.Println("╔══════════════════════════════════════════════════════════════╗")
	cyan.Println("║                         LinguaLife                           ║")
	cyan.Println("║                 Language Practice Terminal                   ║")
	cyan.Println("╚══════════════════════════════════════════════════════════════╝")
	fmt.Println()
}

func printHelp() {
	green := color.New(color.FgGreen, color.Bold)
	white := color.New(color.FgWhite)

	green.Println("┌─ Commands ──────────────────────────────────────────────────┐")
	white.Println("│ /save <word>   save a word to your vocabulary               │")
	white.Println("│ /words         list saved vocabulary                        │")
	white.Println("│ /clear         restart the conversation                     │")
	white.Println("│ /quit          leave                                        │")
	green.Println("└─────────────────────────────────────────────────────────────┘")
	fmt.Println()
}

func printPrompt(language string) {
	blue := color.New(color.FgBlue, color.Bold)
	blue.Printf("%s> ", language)
}

func printAssistant(reply models.Reply) {
	magenta := color.New(color.FgMagenta, color.Bold)
	magenta.Printf("Partner: %s\n", reply.Message)
	if reply.TranslationHint != "" {
		color.New(color.FgHiBlack).Printf("         %s\n", reply.TranslationHint)
	}
	if reply.Degraded {
		color.New(color.FgYellow).Println("         (offline practice mode)")
	}
	fmt.Println()
}

func printGoodbye() {
	green := color.New(color.FgGreen, color.Bold)
	green.Println("¡Hasta luego! 👋")
}

func chooseLanguage(reader *bufio.Reader, conversations *services.ConversationService) string {
	languages := conversations.Catalog().Languages()

	color.New(color.FgGreen, color.Bold).Println("Choose a language:")
	for i, l := range languages {
		fmt.Printf("  %d. %s %s\n", i+1, l.Flag, l.Name)
	}
	fmt.Print("> ")

	input, _ := reader.ReadString('\n')
	choice := strings.TrimSpace(input)
	for i, l := range languages {
		if choice == fmt.Sprintf("%d", i+1) || strings.EqualFold(choice, l.Name) {
			return l.Name
		}
	}

	color.New(color.FgYellow).Println("Unrecognized choice, starting with Spanish.")
	return "Spanish"
}

func chooseScenario(reader *bufio.Reader, scenarios *services.ScenarioService) string {
	list := scenarios.ListScenarios()

	color.New(color.FgGreen, color.Bold).Println("Choose a scenario (enter for free talk):")
	for i, sc := range list {
		fmt.Printf("  %d. %s (%s)\n", i+1, sc.Title, sc.Difficulty)
	}
	fmt.Print("> ")

	input, _ := reader.ReadString('\n')
	choice := strings.TrimSpace(input)
	if choice == "" {
		return ""
	}
	for i, sc := range list {
		if choice == fmt.Sprintf("%d", i+1) || strings.EqualFold(choice, sc.Title) {
			return sc.Title
		}
	}

	color.New(color.FgYellow).Println("Unrecognized choice, starting free talk.")
	return ""
}

func saveWord(conversations *services.ConversationService, vocabulary *services.VocabularyService, word, language string) {
	if word == "" {
		color.New(color.FgRed).Println("Usage: /save <word>")
		return
	}

	code := ""
	if l, ok := conversations.Catalog().LanguageByName(language); ok {
		code = l.Code
	}

	item, err := vocabulary.AddFromHighlight(word, "", code, "")
	if err != nil {
		color.New(color.FgRed).Printf("Could not save %q: %v\n", word, err)
		return
	}

	color.New(color.FgGreen).Printf("Saved %q", item.Word)
	if item.Translation != "" {
		fmt.Printf(" = %q", item.Translation)
	}
	fmt.Println()
}

func listWords(vocabulary *services.VocabularyService) {
	items := vocabulary.List()
	if len(items) == 0 {
		color.New(color.FgYellow).Println("No saved vocabulary yet.")
		return
	}

	color.New(color.FgGreen, color.Bold).Printf("Saved vocabulary (%d):\n", len(items))
	for _, item := range items {
		fmt.Printf("  %s", item.Word)
		if item.Translation != "" {
			fmt.Printf(" = %s", item.Translation)
		}
		fmt.Printf("  [%s]\n", item.Language)
	}
	fmt.Println()
}
