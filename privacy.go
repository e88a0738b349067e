// privacy.go - visitor logging without storing who visited
package main

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// Paths that are never logged as visits
var untrackedPrefixes = []string{
	"/static/",
	"/images/",
	"/effects/",
	"/scan",
	"/favicon",
	"/privacy",
}

// visitorHasher hashes client IPs with a per-process salt, so the same
// visitor is recognisable within one run and never after a restart.
type visitorHasher struct {
	salt string
}

func newVisitorHasher() visitorHasher {
	return visitorHasher{salt: randomHex(32)}
}

func randomHex(n int) string {
	bytes := make([]byte, n)
	if _, err := rand.Read(bytes); err != nil {
		log.Fatal("Failed to generate random salt:", err)
	}
	return hex.EncodeToString(bytes)
}

func (h visitorHasher) hash(ip string) string {
	sum := sha256.New()
	sum.Write([]byte(ip + h.salt))
	return hex.EncodeToString(sum.Sum(nil))[:16] // Truncated, only used to correlate log lines
}

// Privacy-conscious visitor logging middleware
func visitorLoggingMiddleware(h visitorHasher) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, prefix := range untrackedPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		// Respect Do Not Track header
		if c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}

		log.Printf("Visit %s %s from %s", c.Request.Method, path, h.hash(c.ClientIP()))
		c.Next()
	}
}

func setupPrivacyRoutes(r *gin.Engine, cfg Config) {
	r.GET("/privacy", func(c *gin.Context) {
		c.HTML(http.StatusOK, "privacy.html", gin.H{
			"title":         "Privacy Policy",
			"trackVisitors": cfg.TrackVisitors,
		})
	})
}
