// Command termfolio renders the portfolio in a terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/Zachkp/rootaccess/internal/anim"
	"github.com/Zachkp/rootaccess/internal/site"
	"github.com/gdamore/tcell/v2"
)

const taglineDelay = time.Second

var (
	styleText   = tcell.StyleDefault.Foreground(tcell.NewRGBColor(208, 255, 216))
	styleGreen  = tcell.StyleDefault.Foreground(tcell.NewRGBColor(0, 255, 65))
	styleDim    = tcell.StyleDefault.Foreground(tcell.NewRGBColor(95, 127, 102))
	styleFocus  = styleGreen.Bold(true).Reverse(true)
	styleBanner = styleGreen.Bold(true)
)

func main() {
	contentPath := flag.String("content", os.Getenv("CONTENT_PATH"), "site content YAML, embedded default when empty")
	flag.Parse()

	content, err := site.Load(*contentPath)
	if err != nil {
		log.Fatal("Failed to load site content: ", err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatal(err)
	}
	if err := screen.Init(); err != nil {
		log.Fatal(err)
	}

	t := newTerm(screen, content)
	t.run(context.Background())
	screen.Fini()
}

// term owns the screen. Animations write to the board; only the run loop
// draws.
type term struct {
	screen  tcell.Screen
	site    *site.Site
	scanner *anim.Scanner
	board   *anim.Board
	stage   *anim.Stage

	texts   map[string]string
	percent int
	focus   int
	input   []rune
}

func newTerm(screen tcell.Screen, content *site.Site) *term {
	t := &term{
		screen:  screen,
		site:    content,
		scanner: anim.NewScanner(content.Waveform()),
		board:   anim.NewBoard(),
		texts:   make(map[string]string),
		focus:   -1,
	}
	for _, svc := range content.Services {
		t.texts[serviceTarget(svc.ID)] = svc.Title
	}
	return t
}

func serviceTarget(id string) string { return "service-" + id }

func (t *term) run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	t.stage = anim.NewStage(ctx, anim.DefaultNoise)
	defer t.stage.Close()

	if _, err := t.stage.Play("tagline", anim.NewTypewriter(t.site.Hero.Tagline), taglineDelay, t.board.Surface("tagline")); err != nil {
		return
	}

	events := make(chan tcell.Event)
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	scans := make(chan int, 1)
	go t.scanner.Watch(ctx, anim.FrameInterval, func(p int) {
		select {
		case scans <- p:
		case <-ctx.Done():
		}
	})

	for {
		t.draw()
		select {
		case ev := <-events:
			if !t.handle(ev) {
				return
			}
		case p := <-scans:
			t.percent = p
		case <-t.board.Notify():
			t.apply(t.board.Drain())
		}
	}
}

func (t *term) apply(frames []anim.Frame) {
	for _, f := range frames {
		t.texts[f.Target] = f.Text
	}
}

// handle reacts to one input event and reports whether to keep running.
func (t *term) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyTab:
			t.moveFocus(1)
		case tcell.KeyBacktab:
			t.moveFocus(-1)
		case tcell.KeyEnter:
			// The prompt is decorative; nothing typed is run
			t.input = t.input[:0]
		case tcell.KeyBackspace, tcell.KeyBackspace2:
			if len(t.input) > 0 {
				t.input = t.input[:len(t.input)-1]
			}
		case tcell.KeyRune:
			t.input = append(t.input, ev.Rune())
		}
	case *tcell.EventResize:
		t.screen.Sync()
	}
	return true
}

// moveFocus selects the next card and scrambles its title, the terminal's
// version of hovering it.
func (t *term) moveFocus(delta int) {
	n := len(t.site.Services)
	if n == 0 {
		return
	}
	if t.focus < 0 && delta < 0 {
		t.focus = 0
	}
	t.focus = ((t.focus+delta)%n + n) % n

	svc := t.site.Services[t.focus]
	target := serviceTarget(svc.ID)
	if t.stage == nil {
		return
	}
	if _, err := t.stage.Play(target, anim.NewScramble(svc.Title), 0, t.board.Surface(target)); err != nil {
		t.texts[target] = svc.Title
	}
}

func (t *term) draw() {
	s := t.screen
	s.Clear()
	w, h := s.Size()

	hdr := t.site.Header
	put(s, 1, 0, ">_ "+hdr.Banner, styleBanner)
	status := fmt.Sprintf("SYS.STATUS: %s  IP: %s  UPTIME: %s", hdr.Status, hdr.IP, hdr.Uptime)
	put(s, w-len([]rune(status))-1, 0, status, styleDim)

	label := fmt.Sprintf("SCANNING %3d%% ", t.percent)
	put(s, 1, 1, label, styleGreen)
	drawBar(s, 1+len(label), 1, w-len(label)-2, t.percent)

	put(s, 1, 3, t.site.Hero.Title, styleBanner)
	put(s, 1, 4, "// "+t.site.Hero.Subtitle, styleDim)
	put(s, 1, 6, "| "+t.texts["tagline"], styleText)

	put(s, 1, 8, "ATTACK_VECTORS", styleGreen)
	y := 9
	for i, svc := range t.site.Services {
		style := styleGreen
		if i == t.focus {
			style = styleFocus
		}
		put(s, 1, y, "[ "+t.texts[serviceTarget(svc.ID)]+" ]", style)
		put(s, 3, y+1, svc.Text, styleText)
		put(s, 3, y+2, strings.Join(svc.Tags, " · "), styleDim)
		y += 4
	}

	put(s, 1, y, "CREDENTIALS", styleGreen)
	for _, c := range t.site.Certifications {
		y++
		put(s, 3, y, fmt.Sprintf("%s  %s, %d", c.Name, c.Issuer, c.Year), styleText)
	}

	prompt := t.site.Prompt + " "
	put(s, 0, h-1, prompt, styleBanner)
	put(s, len([]rune(prompt)), h-1, string(t.input), styleText)
	s.ShowCursor(len([]rune(prompt))+len(t.input), h-1)

	s.Show()
}

func put(s tcell.Screen, x, y int, text string, style tcell.Style) {
	w, h := s.Size()
	if y < 0 || y >= h {
		return
	}
	for _, r := range text {
		if x >= w {
			return
		}
		if x >= 0 {
			s.SetContent(x, y, r, nil, style)
		}
		x++
	}
}

func drawBar(s tcell.Screen, x, y, width, percent int) {
	if width <= 0 {
		return
	}
	filled := percent * width / 100
	for i := 0; i < width; i++ {
		r, style := '░', styleDim
		if i < filled {
			r, style = '█', styleGreen
		}
		s.SetContent(x+i, y, r, nil, style)
	}
}
