package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
)

// snapshot mirrors the JSON the dashboard publishes after every poll.
type snapshot struct {
	TicketStatus struct {
		AvailableTickets int64 `json:"availableTickets"`
		SoldTickets      int64 `json:"soldTickets"`
		RemainingTickets int64 `json:"remainingTickets"`
		TotalTickets     int64 `json:"totalTickets"`
	} `json:"ticket_status"`
	LogCount int       `json:"log_count"`
	Healthy  bool      `json:"healthy"`
	PolledAt time.Time `json:"polled_at"`
}

var (
	redisURL  = flag.String("redis", "localhost:6379", "Redis URL (host:port)")
	redisPass = flag.String("password", "", "Redis password")
	channel   = flag.String("channel", "dashboard:snapshot", "Snapshot channel")
)

func main() {
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rdb := redis.NewClient(&redis.Options{
		Addr:     *redisURL,
		Password: *redisPass,
	})
	defer rdb.Close()

	if err := rdb.Ping(ctx).Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to Redis: %v\n", err)
		os.Exit(1)
	}

	latest, err := rdb.Get(ctx, *channel+":latest").Result()
	switch {
	case errors.Is(err, redis.Nil):
		fmt.Println("No snapshot published yet")
	case err != nil:
		fmt.Fprintf(os.Stderr, "Failed to read latest snapshot: %v\n", err)
	default:
		printSnapshot(latest)
	}

	sub := rdb.Subscribe(ctx, *channel)
	defer sub.Close()

	fmt.Printf("Watching %s (Ctrl+C to stop)\n", *channel)
	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			printSnapshot(msg.Payload)
		}
	}
}

func printSnapshot(payload string) {
	var s snapshot
	if err := json.Unmarshal([]byte(payload), &s); err != nil {
		fmt.Fprintf(os.Stderr, "Bad snapshot: %v\n", err)
		return
	}

	health := "ok"
	if !s.Healthy {
		health = "DEGRADED"
	}
	fmt.Printf("[%s] available=%d sold=%d remaining=%d total=%d logs=%d sync=%s\n",
		s.PolledAt.Format(time.TimeOnly),
		s.TicketStatus.AvailableTickets,
		s.TicketStatus.SoldTickets,
		s.TicketStatus.RemainingTickets,
		s.TicketStatus.TotalTickets,
		s.LogCount,
		health,
	)
}
