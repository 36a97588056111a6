// Package main provides a diagnostic client that tails the discussion
// change stream for a post.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/websocket"
)

func main() {
	host := flag.String("host", "localhost:8473", "API server host")
	email := flag.String("email", "root@alcove.local", "User email")
	password := flag.String("password", "Password123!", "User password")
	postID := flag.Uint("post", 1, "Post ID to watch")
	flag.Parse()

	log.Printf("👀 Watching discussion for post %d on %s", *postID, *host)

	token, err := login(*host, *email, *password)
	if err != nil {
		log.Fatalf("❌ Login failed: %v", err)
	}
	log.Printf("✅ Logged in successfully")

	u := url.URL{
		Scheme:   "ws",
		Host:     *host,
		Path:     fmt.Sprintf("/ws/posts/%d", *postID),
		RawQuery: "token=" + url.QueryEscape(token),
	}

	c, resp, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("❌ Dial failed: %v", err)
	}
	if resp != nil && resp.Body != nil {
		defer func() { _ = resp.Body.Close() }()
	}
	defer func() { _ = c.Close() }()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				log.Printf("connection closed: %v", err)
				return
			}
			// Frames carry the bare event name (comment_created, vote_changed...).
			log.Printf("<- %s", message)
		}
	}()

	select {
	case <-interrupt:
		log.Println("🛑 Interrupted, closing connection")
		_ = c.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		<-done
	case <-done:
	}
}

func login(host, email, password string) (string, error) {
	loginURL := fmt.Sprintf("http://%s/api/auth/login", host)
	payload := map[string]string{
		"email":    email,
		"password": password,
	}
	body, _ := json.Marshal(payload)

	resp, err := http.Post(loginURL, "application/json", bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("login failed with status %d", resp.StatusCode)
	}

	var result struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}

	return result.Token, nil
}
