package main

import (
	"log"
	"net/http"
	"os"

	_ "github.com/joho/godotenv/autoload"

	"github.com/Zachkp/rootaccess/internal/site"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := loadConfig(os.Environ())
	if err != nil {
		log.Fatal("Invalid configuration: ", err)
	}
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	content, err := site.Load(cfg.ContentPath)
	if err != nil {
		log.Fatal("Failed to load site content: ", err)
	}

	r, err := newRouter(cfg, content, newEffects(content, cfg))
	if err != nil {
		log.Fatal("Failed to build router: ", err)
	}

	log.Printf("Serving portfolio on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal(err)
	}
}

func newRouter(cfg Config, content *site.Site, fx *effects) (*gin.Engine, error) {
	r := gin.Default()
	if cfg.TrackVisitors {
		r.Use(visitorLoggingMiddleware(newVisitorHasher()))
		log.Println("Privacy: Visitor logging enabled with hashed IP addresses")
	}

	r.LoadHTMLGlob(cfg.TemplateGlob)
	r.Static("/static", "./static")

	resume, err := newResumeExporter(cfg.TemplateGlob, content)
	if err != nil {
		return nil, err
	}

	// Home page route
	r.GET("/", func(c *gin.Context) {
		c.HTML(http.StatusOK, "index.html", gin.H{
			"site":    content,
			"prompt":  content.Prompt,
			"percent": fx.scanner.Progress(),
		})
	})

	// HTMX poll fallback for the scan bar
	r.GET("/scan", fx.scanFragment)

	// Animation surfaces
	r.GET("/effects/stream", fx.stream)
	r.POST("/effects/:surface/scramble/:target", fx.scramble)

	// Footer prompt
	r.POST("/command", commandHandler(content))

	r.GET("/resume.md", resume.handle)

	setupPrivacyRoutes(r, cfg)
	return r, nil
}
