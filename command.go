package main

import (
	"net/http"
	"strings"

	"github.com/Zachkp/rootaccess/internal/site"
	"github.com/gin-gonic/gin"
)

// commandHandler backs the footer prompt. It is decorative: whatever is typed
// is thrown away and never run.
func commandHandler(content *site.Site) gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.TrimSpace(c.PostForm("command")) == "" {
			// Nothing typed, leave the prompt as it is
			c.Status(http.StatusNoContent)
			return
		}

		// Swap in an empty prompt
		c.HTML(http.StatusOK, "prompt.html", gin.H{
			"prompt": content.Prompt,
		})
	}
}
