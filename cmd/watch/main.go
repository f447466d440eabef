package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shenikar/road_incident_system/internal/expiry"
	"github.com/shenikar/road_incident_system/internal/models"
	"github.com/shenikar/road_incident_system/internal/poller"
	"github.com/shenikar/road_incident_system/pkg/apiclient"
	"github.com/shenikar/road_incident_system/pkg/logger"
	"github.com/spf13/cobra"
)

var (
	apiURL     string
	interval   time.Duration
	activeOnly bool
	logLevel   string

	rootCmd = &cobra.Command{
		Use:   "watch",
		Short: "Watch the road incident map from the terminal",
		Long: `Polls the incident API on a fixed interval and prints the full list on every cycle.
Mirrors the behaviour of the map clients: no delta sync, the collection is replaced wholesale.`,
		Run: func(cmd *cobra.Command, args []string) {
			runWatch()
		},
	}
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVar(&apiURL, "api-url", "http://localhost:8080", "Base URL of the incident API.")
	rootCmd.Flags().DurationVar(&interval, "interval", 30*time.Second, "Poll interval. Use 5s for an operator console.")
	rootCmd.Flags().BoolVar(&activeOnly, "active", false, "Request only non-expired incidents.")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "warn", "The logging level to use.")
}

func runWatch() {
	log := logger.New(logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := apiclient.New(apiURL)
	p := poller.New(client, log, interval, activeOnly)
	p.Start(ctx)
	defer p.Stop()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Первый снимок печатаем с небольшой задержкой,
	// чтобы успел завершиться первый опрос
	printTimer := time.NewTimer(time.Second)
	defer printTimer.Stop()

	for {
		select {
		case <-quit:
			fmt.Println("\nStopping watch...")
			return
		case <-printTimer.C:
			printSnapshot(p.Snapshot())
		case <-ticker.C:
			printSnapshot(p.Snapshot())
		}
	}
}

func printSnapshot(snap poller.Snapshot) {
	now := time.Now()

	fmt.Printf("--- %s", now.Format(time.RFC3339))
	if snap.Stale {
		fmt.Printf(" (stale, last error: %v)", snap.LastErr)
	}
	fmt.Printf(" | %d incident(s) ---\n", len(snap.Incidents))

	for _, incident := range snap.Incidents {
		printIncident(incident, now)
	}
}

func printIncident(incident *models.Incident, now time.Time) {
	name := incident.Type
	if t, ok := models.TypeByCode(incident.Type); ok {
		name = t.Name
	}

	fmt.Printf("%s  %-20s  %-40s  %s\n",
		incident.ID,
		name,
		incident.Description,
		expiry.FormatRemaining(now, incident.ExpiryTime),
	)
}
