// Command seed fires randomized score submissions at a running podium
// server and prints the resulting top-N, for manual smoke testing.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"time"
)

const requestTimeout = 5 * time.Second

type submission struct {
	GameID   string `json:"game_id"`
	Username string `json:"username"`
	Score    int64  `json:"score"`
}

type submitResponse struct {
	Status    string `json:"status"`
	TopScores []struct {
		Username string `json:"username"`
		Score    int64  `json:"score"`
		Movement string `json:"movement"`
	} `json:"top_scores"`
}

func main() {
	var (
		baseURL = flag.String("url", "http://localhost:9080", "server base URL")
		gameID  = flag.String("game", "seed-game", "game id to submit into")
		users   = flag.Int("users", 10, "number of distinct users")
		rounds  = flag.Int("rounds", 3, "submissions per user")
		maxGap  = flag.Duration("gap", 50*time.Millisecond, "pause between submissions")
	)
	flag.Parse()

	client := &http.Client{Timeout: requestTimeout}
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	var last *submitResponse
	for round := 0; round < *rounds; round++ {
		for u := 0; u < *users; u++ {
			sub := submission{
				GameID:   *gameID,
				Username: fmt.Sprintf("user-%02d", u),
				Score:    rng.Int63n(1000),
			}
			resp, err := post(client, *baseURL+"/submit", sub)
			if err != nil {
				fmt.Fprintf(os.Stderr, "submit %s: %v\n", sub.Username, err)
				os.Exit(1)
			}
			last = resp
			time.Sleep(*maxGap)
		}
	}

	if last == nil {
		fmt.Println("nothing submitted")
		return
	}
	fmt.Printf("top scores for %s:\n", *gameID)
	for i, entry := range last.TopScores {
		fmt.Printf("%2d. %-10s %6d  %s\n", i+1, entry.Username, entry.Score, entry.Movement)
	}
}

func post(client *http.Client, url string, sub submission) (*submitResponse, error) {
	body, err := json.Marshal(sub)
	if err != nil {
		return nil, err
	}
	resp, err := client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	var out submitResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}
