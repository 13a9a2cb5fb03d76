package utils

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// StaticHandler serves the frontend bundle from dir for any GET or HEAD request
// that no API route matched. "/" maps to index.html.
func StaticHandler(dir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		method := c.Request.Method
		if (method != http.MethodGet && method != http.MethodHead) || strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}

		name := path.Clean("/" + c.Request.URL.Path)
		if name == "/" {
			name = "/index.html"
		}

		full := filepath.Join(dir, filepath.FromSlash(name))
		info, err := os.Stat(full)
		if err != nil || info.IsDir() {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}

		c.File(full)
	}
}
