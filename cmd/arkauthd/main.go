// Command arkauthd exposes the Arknights auth subsystem to the site frontend
// as a small JSON API and keeps the per-region server configuration fresh on
// a cron schedule.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/adhocore/gronx"
	"github.com/myrtle-moe/arkauth/arknights"
	"github.com/myrtle-moe/arkauth/notify"
)

func main() {
	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":8080"
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

	schedule := os.Getenv("SCHEDULE")
	if schedule == "" {
		schedule = "0 */6 * * *"
	}
	gron := gronx.New()
	if !gron.IsValid(schedule) {
		fmt.Fprintf(os.Stderr, "Invalid cron expression: %s\n", schedule)
		os.Exit(1)
	}

	var notifier notify.Notifier
	if webhook := os.Getenv("DISCORD_WEBHOOK"); webhook != "" {
		notifier = &notify.Discord{
			WebhookURL: webhook,
			UserID:     os.Getenv("DISCORD_USER"),
			Title:      "arkauthd config reload",
		}
	}

	client := arknights.NewClient(region, arknights.WithEventHook(func(e arknights.Event) {
		log.Println(e)
	}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go reloadLoop(ctx, client, schedule, notifier)

	srv := &http.Server{
		Addr:    addr,
		Handler: newRouter(client),
	}
	go func() {
		log.Printf("Listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %s", err)
		}
	}()

	<-ctx.Done()
	log.Println("Received signal, shutting down.")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown failed: %s", err)
	}
}

// reloadLoop refreshes the network and version configs for every region on
// the cron schedule. Failures degrade to stale config and are reported, never
// fatal.
func reloadLoop(ctx context.Context, client *arknights.Client, schedule string, notifier notify.Notifier) {
	reloadAll(ctx, client, notifier)

	for {
		nextTime, err := gronx.NextTick(schedule, false)
		if err != nil {
			log.Printf("Failed to compute next tick: %s", err)
			return
		}
		log.Printf("Next config reload at %s", nextTime.Format(time.RFC3339))

		timer := time.NewTimer(time.Until(nextTime))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			reloadAll(ctx, client, notifier)
		}
	}
}

func reloadAll(ctx context.Context, client *arknights.Client, notifier notify.Notifier) {
	mlog := &notify.MessageLog{}
	for _, region := range arknights.Regions() {
		if err := client.LoadNetworkConfig(ctx, region); err != nil {
			mlog.Error(fmt.Sprintf("Network config reload failed for %s: %s", region, err))
		}
		if err := client.LoadVersionConfig(ctx, region); err != nil {
			mlog.Error(fmt.Sprintf("Version config reload failed for %s: %s", region, err))
		}
	}

	if mlog.HasError && notifier != nil {
		if err := notifier.Send(mlog); err != nil {
			log.Printf("Failed to send notification: %s", err)
		}
	}
}
