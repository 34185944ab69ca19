// Command chibi-crawl walks the game-resource repository for chibi sprite
// assets and writes the grouped operator tree to data/chibi-data.json.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/myrtle-moe/arkauth/crawl"
)

const defaultRepo = "yuanyan3060/ArknightsGameResource"

func main() {
	repo := os.Getenv("CHIBI_REPO")
	if repo == "" {
		repo = defaultRepo
	}
	owner, name, ok := strings.Cut(repo, "/")
	if !ok {
		fmt.Fprintf(os.Stderr, "CHIBI_REPO must be owner/name, got %q\n", repo)
		os.Exit(1)
	}

	crawler := crawl.New(os.Getenv("GITHUB_TOKEN"))
	ctx := context.Background()

	fmt.Println("Crawling chararts...")
	chararts, err := crawler.Walk(ctx, owner, name, "chararts")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Chararts crawl failed: %s\n", err)
		os.Exit(1)
	}
	fmt.Println("Crawling skinpack...")
	skinpack, err := crawler.Walk(ctx, owner, name, "skinpack")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Skinpack crawl failed: %s\n", err)
		os.Exit(1)
	}

	operators := crawl.GroupOperators(chararts, skinpack)
	fmt.Printf("Found %d operator(s)\n", len(operators))

	outPath := filepath.Join("data", "chibi-data.json")
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create data directory: %s\n", err)
		os.Exit(1)
	}
	payload, err := json.MarshalIndent(operators, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode chibi data: %s\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile(outPath, payload, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write %s: %s\n", outPath, err)
		os.Exit(1)
	}
	fmt.Printf("Saved chibi data to %s\n", outPath)
}
