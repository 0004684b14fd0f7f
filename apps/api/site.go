package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// staticSiteHandler serves the marketing site from the configured web root.
// Unknown GET paths fall back to index.html so the single-page site handles
// its own anchors and section routes.
func (a *App) staticSiteHandler(c *gin.Context) {
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "not_found", "message": "Not found"})
		return
	}

	resolved, err := a.resolveWebRootPath(c.Request.URL.Path)
	if err == nil && fileExists(resolved) {
		c.File(resolved)
		return
	}

	index := filepath.Join(filepath.Clean(a.cfg.WebRoot), "index.html")
	if fileExists(index) {
		c.File(index)
		return
	}

	c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "not_found", "message": "Not found"})
}

// resolveWebRootPath maps a request path to a file under the web root and
// rejects anything that would escape it.
func (a *App) resolveWebRootPath(requestPath string) (string, error) {
	clean := filepath.Clean("/" + strings.TrimSpace(requestPath))
	if clean == "/" {
		clean = "/index.html"
	}

	root := filepath.Clean(a.cfg.WebRoot)
	resolved := filepath.Clean(filepath.Join(root, clean))
	relative, err := filepath.Rel(root, resolved)
	if err != nil {
		return "", err
	}
	if relative == ".." || strings.HasPrefix(relative, ".."+string(os.PathSeparator)) {
		return "", fmt.Errorf("resolved path escapes web root")
	}

	return resolved, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
