package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"

	"github.com/Zachkp/rootaccess/internal/anim"
	"github.com/Zachkp/rootaccess/internal/site"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const taglineTarget = "tagline"

// A surface is one browser tab listening on /effects/stream. Its stage owns
// every reveal timer for that tab.
type surface struct {
	id    string
	stage *anim.Stage
	board *anim.Board
}

type effects struct {
	site    *site.Site
	scanner *anim.Scanner
	cfg     Config

	mu       sync.Mutex
	surfaces map[string]*surface
}

func newEffects(content *site.Site, cfg Config) *effects {
	return &effects{
		site:     content,
		scanner:  anim.NewScanner(content.Waveform()),
		cfg:      cfg,
		surfaces: make(map[string]*surface),
	}
}

func (e *effects) open(ctx context.Context) *surface {
	s := &surface{
		id:    uuid.NewString(),
		stage: anim.NewStage(ctx, anim.DefaultNoise),
		board: anim.NewBoard(),
	}
	e.mu.Lock()
	e.surfaces[s.id] = s
	e.mu.Unlock()
	return s
}

func (e *effects) close(s *surface) {
	e.mu.Lock()
	delete(e.surfaces, s.id)
	e.mu.Unlock()
	s.stage.Close()
}

func (e *effects) lookup(id string) (*surface, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.surfaces[id]
	return s, ok
}

// count reports how many surfaces are connected.
func (e *effects) count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.surfaces)
}

func serviceTarget(id string) string { return "service-" + id }

// stream is the display surface for one tab: scan progress and reveal frames
// as Server-Sent Events until the client goes away.
func (e *effects) stream(c *gin.Context) {
	ctx := c.Request.Context()
	s := e.open(ctx)
	defer e.close(s)

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.SSEvent("surface", s.id)
	c.Writer.Flush()

	tagline := anim.NewTypewriter(e.site.Hero.Tagline)
	if _, err := s.stage.Play(taglineTarget, tagline, e.cfg.TypewriterDelay, s.board.Surface(taglineTarget)); err != nil {
		log.Printf("Error starting tagline on surface %s: %v", s.id, err)
		return
	}

	scans := make(chan int, 1)
	go e.scanner.Watch(ctx, e.cfg.ScanInterval, func(p int) {
		select {
		case scans <- p:
		case <-ctx.Done():
		}
	})

	for {
		select {
		case <-ctx.Done():
			return
		case p := <-scans:
			c.SSEvent("scan", p)
			c.Writer.Flush()
		case <-s.board.Notify():
			for _, f := range s.board.Drain() {
				c.SSEvent("reveal", f)
			}
			c.Writer.Flush()
		}
	}
}

// scramble (re)starts the title scramble of a service card on a surface.
func (e *effects) scramble(c *gin.Context) {
	s, ok := e.lookup(c.Param("surface"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown surface"})
		return
	}
	svc, ok := e.site.Service(c.Param("target"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown target"})
		return
	}

	target := serviceTarget(svc.ID)
	_, err := s.stage.Play(target, anim.NewScramble(svc.Title), 0, s.board.Surface(target))
	if errors.Is(err, anim.ErrStageClosed) {
		c.JSON(http.StatusNotFound, gin.H{"error": "surface closed"})
		return
	}
	if err != nil {
		log.Printf("Error starting scramble %s on surface %s: %v", target, s.id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start effect"})
		return
	}
	c.Status(http.StatusNoContent)
}

// scanFragment serves the progress bar for clients polling with HTMX.
func (e *effects) scanFragment(c *gin.Context) {
	c.HTML(http.StatusOK, "scan.html", gin.H{
		"percent": e.scanner.Progress(),
	})
}
