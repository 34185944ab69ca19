// Command arkauth performs a one-shot email-code login and proves the
// resulting session with a data sync round-trip.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/myrtle-moe/arkauth/arknights"
)

func main() {
	email := os.Getenv("AK_EMAIL")
	if email == "" {
		fmt.Fprintln(os.Stderr, "AK_EMAIL environment variable is required")
		os.Exit(1)
	}

	region := arknights.RegionEN
	if raw := os.Getenv("AK_REGION"); raw != "" {
		var err error
		region, err = arknights.ParseRegion(raw)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Invalid AK_REGION: %s\n", err)
			os.Exit(1)
		}
	}

	client := arknights.NewClient(region, arknights.WithEventHook(func(e arknights.Event) {
		fmt.Println(e)
	}))
	ctx := context.Background()

	code := os.Getenv("AK_CODE")
	if code == "" {
		if err := client.SendCode(ctx, email, region); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to send code: %s\n", err)
			os.Exit(1)
		}
		fmt.Printf("Code sent to %s.\n", email)
		code = prompt("Enter code: ")
	}

	sess, err := client.Login(ctx, email, code, region, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Login failed: %s\n", err)
		os.Exit(1)
	}
	fmt.Printf("UID: %s\nSecret: %s\nSeqnum: %d\n", sess.UID, sess.Secret, sess.Seqnum)

	data, err := client.AuthRequest(ctx, "account/syncData", sess, &arknights.RequestArgs{
		Body: map[string]int{"platform": 1},
	}, region)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Sync failed: %s\n", err)
		os.Exit(1)
	}

	var sync struct {
		User json.RawMessage `json:"user"`
	}
	if err := json.Unmarshal(data, &sync); err != nil || sync.User == nil {
		fmt.Printf("Synced %d bytes of player data.\n", len(data))
		return
	}
	fmt.Printf("Synced %d bytes of player data (%d bytes of user state).\n", len(data), len(sync.User))
}

func prompt(label string) string {
	fmt.Print(label)
	line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	return strings.TrimSpace(line)
}
