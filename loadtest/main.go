package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

const (
	BaseURL   = "http://localhost:8080"
	WSURL     = "ws://localhost:8080/ws"
	PairCount = 250 // pairs of users chatting with each other
	MsgCount  = 20  // messages per user
)

type profileResponse struct {
	ID string `json:"id"`
}

var pushesReceived atomic.Int64

func main() {
	log.Printf("🔥 STARTING STRESS TEST: %d users, %d messages each...", PairCount*2, MsgCount)
	var wg sync.WaitGroup

	for i := 0; i < PairCount; i++ {
		wg.Add(1)
		go func(pairID int) {
			defer wg.Done()
			runPair(pairID)
		}(i)
	}

	wg.Wait()
	log.Printf("✅ LOAD TEST COMPLETE: %d pushes delivered live", pushesReceived.Load())
}

func runPair(pairID int) {
	emailA := fmt.Sprintf("u_%d_a@loadtest.local", pairID)
	emailB := fmt.Sprintf("u_%d_b@loadtest.local", pairID)
	pass := "password123"

	tokenA, idA := authenticate(emailA, pass)
	tokenB, idB := authenticate(emailB, pass)
	if tokenA == "" || tokenB == "" {
		return
	}

	// Both sides listen on websockets and spam each other over REST.
	var wsWg sync.WaitGroup
	wsWg.Add(2)
	go listen(&wsWg, tokenA, MsgCount)
	go listen(&wsWg, tokenB, MsgCount)

	var sendWg sync.WaitGroup
	sendWg.Add(2)
	go spam(&sendWg, tokenA, idB, emailA)
	go spam(&sendWg, tokenB, idA, emailB)
	sendWg.Wait()
	wsWg.Wait()
}

// authenticate signs up (ignoring "already exists") and logs in, returning
// the session token and the user's own ID.
func authenticate(email, password string) (string, string) {
	postJSON("/api/auth/signup", map[string]string{
		"full_name": "Load Tester",
		"email":     email,
		"password":  password,
	}, "")

	resp, err := postJSON("/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, "")
	if err != nil {
		log.Printf("❌ Login failed [%s]: %v", email, err)
		return "", ""
	}
	defer resp.Body.Close()

	var profile profileResponse
	json.NewDecoder(resp.Body).Decode(&profile)

	for _, c := range resp.Cookies() {
		if c.Name == "jwt" {
			return c.Value, profile.ID
		}
	}
	log.Printf("❌ No session cookie for %s", email)
	return "", ""
}

// listen connects a websocket and counts pushes until it has seen the
// expected number or the deadline passes.
func listen(wg *sync.WaitGroup, token string, expect int) {
	defer wg.Done()

	conn, _, err := websocket.DefaultDialer.Dial(fmt.Sprintf("%s?token=%s", WSURL, token), nil)
	if err != nil {
		log.Printf("❌ WS connect failed: %v", err)
		return
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(30 * time.Second))
	for i := 0; i < expect; i++ {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
		pushesReceived.Add(1)
	}
}

func spam(wg *sync.WaitGroup, token, receiverID, sender string) {
	defer wg.Done()

	for i := 0; i < MsgCount; i++ {
		body := map[string]string{"text": fmt.Sprintf("LoadTest msg %d from %s", i, sender)}
		resp, err := postJSON("/api/messages/"+receiverID, body, token)
		if err != nil {
			log.Printf("❌ Send failed [%s]: %v", sender, err)
			return
		}
		if resp.StatusCode != http.StatusCreated {
			log.Printf("❌ Send got %d [%s]", resp.StatusCode, sender)
		}
		resp.Body.Close()
		// Small sleep to prevent instant localhost bottleneck (simulate real network)
		time.Sleep(10 * time.Millisecond)
	}
}

func postJSON(endpoint string, data interface{}, token string) (*http.Response, error) {
	jsonData, _ := json.Marshal(data)
	req, err := http.NewRequest(http.MethodPost, BaseURL+endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return http.DefaultClient.Do(req)
}
