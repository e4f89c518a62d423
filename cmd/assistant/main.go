// Command assistant runs the CitizenVoice conversational session in a
// terminal: the transcript, language negotiation, voice output queue and
// one-shot voice input, all against a remote assistant gateway.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/citizenvoice/assistant/internal/client"
	"github.com/citizenvoice/assistant/internal/config"
	"github.com/citizenvoice/assistant/internal/model/chat"
	"github.com/citizenvoice/assistant/internal/service/dispatch"
	"github.com/citizenvoice/assistant/internal/service/session"
	"github.com/citizenvoice/assistant/internal/service/voice"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
	}

	cfg, err := config.Load(os.Getenv("ASSISTANT_CONFIG"))
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	app := newApp(ctx, cfg)
	app.bootstrap(ctx)
	app.run(ctx)
}

// app bundles the session components behind the terminal loop.
type app struct {
	cli        *client.Client
	store      *session.Store
	queue      *voice.OutputQueue
	capture    *voice.Capture
	dispatcher *dispatch.Dispatcher

	languages map[string]string
	// pending holds a voice transcript awaiting user confirmation; it is
	// candidate input, never auto-submitted.
	pending chan string
}

func newApp(_ context.Context, cfg *config.Config) *app {
	cli := client.New(cfg.Client.GatewayURL, cfg.Client.AuthToken, cfg.Client.Timeout)
	store := session.New()
	queue := voice.NewOutputQueue(cli, voice.NewFFPlayPlayer(cfg.Client.FFPlayPath))

	a := &app{
		cli:     cli,
		store:   store,
		queue:   queue,
		pending: make(chan string, 1),
	}

	var device voice.Device
	if d := voice.NewExecDevice(cfg.Client.CaptureCommand); d != nil {
		device = d
	}
	a.capture = voice.NewCapture(device, func(transcript string) {
		select {
		case a.pending <- transcript:
		default:
		}
		fmt.Printf("\n[voice] heard: %q, use /send to submit\n", transcript)
	})

	a.dispatcher = dispatch.New(store, cli, queue)
	return a
}

// bootstrap loads the language table and any server-side history, degrading
// to the fallback table and the welcome message when the gateway is
// unreachable.
func (a *app) bootstrap(ctx context.Context) {
	languages, err := a.cli.Languages(ctx)
	if err != nil {
		log.Printf("[assistant] language listing unavailable, using fallback: %v", err)
		languages = chat.FallbackLanguages()
	}
	a.languages = languages

	messages, err := a.cli.History(ctx)
	if err != nil {
		log.Printf("[assistant] no server-side history: %v", err)
	}
	a.store.LoadHistory(messages)

	for _, msg := range a.store.Messages() {
		printMessage(msg)
	}
	a.printSuggestions(a.dispatcher.Suggestions())
}

func (a *app) run(ctx context.Context) {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println(`Type a question, a suggestion number, or /help for commands.`)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		select {
		case <-ctx.Done():
			a.shutdown()
			return
		default:
		}

		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case strings.HasPrefix(line, "/"):
			if done := a.command(ctx, line); done {
				a.shutdown()
				return
			}
		default:
			a.submit(ctx, a.resolveInput(line))
		}
	}
	a.shutdown()
}

// resolveInput maps a bare number onto the matching suggested question.
func (a *app) resolveInput(line string) string {
	if n, err := strconv.Atoi(line); err == nil {
		suggestions := a.dispatcher.Suggestions()
		if n >= 1 && n <= len(suggestions) {
			a.store.SetSuggestionsVisible(false)
			return suggestions[n-1]
		}
	}
	return line
}

func (a *app) submit(ctx context.Context, text string) {
	before := a.store.Len()
	if err := a.dispatcher.Submit(ctx, text); err != nil {
		if err == dispatch.ErrInFlight {
			fmt.Println("(still waiting on the previous question)")
			return
		}
		log.Printf("[assistant] query failed: %v", err)
	}
	for _, msg := range a.store.Messages()[before:] {
		printMessage(msg)
	}
}

func (a *app) command(ctx context.Context, line string) (quit bool) {
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "/help":
		fmt.Print(helpText)
	case "/quit", "/exit":
		return true
	case "/lang":
		a.setLanguage(arg)
	case "/auto":
		a.store.SetAutoDetect(true)
		fmt.Println("language auto-detection enabled")
	case "/languages":
		a.printLanguages()
	case "/voice":
		a.setVoice(arg)
	case "/listen":
		a.startListening()
	case "/stop":
		a.capture.StopListening()
	case "/send":
		select {
		case transcript := <-a.pending:
			a.submit(ctx, transcript)
		default:
			fmt.Println("no voice transcript pending")
		}
	case "/suggest":
		a.printSuggestions(a.dispatcher.Suggestions())
	case "/clear":
		a.clear(ctx)
	default:
		fmt.Printf("unknown command %s, try /help\n", cmd)
	}
	return false
}

func (a *app) setLanguage(code string) {
	if code == "" {
		fmt.Println("usage: /lang <code>, see /languages")
		return
	}
	if _, ok := a.languages[code]; !ok {
		fmt.Printf("unsupported language %q, see /languages\n", code)
		return
	}
	a.store.SetLanguage(code)
	fmt.Printf("language pinned to %s (%s)\n", code, a.languages[code])
}

func (a *app) printLanguages() {
	codes := make([]string, 0, len(a.languages))
	for code := range a.languages {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	current, auto := a.store.Language()
	for _, code := range codes {
		marker := "  "
		if code == current {
			marker = "* "
		}
		fmt.Printf("%s%s  %s\n", marker, code, a.languages[code])
	}
	if auto {
		fmt.Println("(auto-detection on)")
	}
}

func (a *app) setVoice(arg string) {
	switch arg {
	case "on":
		a.queue.Enable()
		fmt.Println("voice output enabled")
	case "off":
		a.queue.Disable()
		fmt.Println("voice output disabled")
	default:
		fmt.Println("usage: /voice on|off")
	}
}

func (a *app) startListening() {
	if !a.capture.Available() {
		fmt.Println("voice input is not configured on this host (set ASSISTANT_CAPTURE_COMMAND)")
		return
	}
	if a.capture.Listening() {
		fmt.Println("already listening")
		return
	}
	lang, _ := a.store.Language()
	a.capture.StartListening(lang)
	fmt.Println("listening... (/stop to cancel)")
}

func (a *app) clear(ctx context.Context) {
	if err := a.cli.ClearHistory(ctx); err != nil {
		log.Printf("[assistant] failed to clear server-side history: %v", err)
	} else {
		a.store.ForgetHistory()
	}
	a.store.Clear()
	for _, msg := range a.store.Messages() {
		printMessage(msg)
	}
}

func (a *app) printSuggestions(suggestions []string) {
	if !a.store.SuggestionsVisible() || len(suggestions) == 0 {
		return
	}
	fmt.Println("suggested questions:")
	for i, q := range suggestions {
		fmt.Printf("  %d. %s\n", i+1, q)
	}
}

func (a *app) shutdown() {
	a.queue.Disable()
	a.capture.StopListening()
	a.dispatcher.Wait()
}

func printMessage(msg chat.Message) {
	who := "you"
	if msg.Sender == chat.SenderBot {
		who = "assistant"
	}
	fmt.Printf("%s: %s\n", who, msg.Content)
}

const helpText = `commands:
  /lang <code>   pin the conversation language
  /auto          re-enable language auto-detection
  /languages     list supported languages
  /voice on|off  toggle spoken responses
  /listen        capture one voice utterance
  /stop          cancel an active capture
  /send          submit the captured transcript
  /suggest       show suggested questions
  /clear         clear the conversation
  /quit          leave
`
