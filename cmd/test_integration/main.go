package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

const (
	baseURL = "http://localhost:8080"
)

func main() {
	// Wait for server to start
	time.Sleep(2 * time.Second)

	fmt.Println("Starting Integration Test...")

	// 1. Create an item directly
	fmt.Println("1. Creating Item...")
	draft := map[string]interface{}{
		"name":        "Buy groceries",
		"description": "Milk, eggs, bread",
		"listName":    "Personal",
		"objectType":  "Task",
		"isTask":      true,
		"tags":        []string{"errands"},
	}
	if !sendRequest("POST", "/items", draft) {
		fmt.Println("FAILED: Create item")
		os.Exit(1)
	}
	fmt.Println("PASSED: Create item")

	// 2. Chat turn that should retrieve the item
	fmt.Println("2. Running Chat Turn...")
	chatPayload := map[string]string{
		"message": "What do I need to buy?",
	}
	if !sendRequest("POST", "/chat", chatPayload) {
		fmt.Println("FAILED: Chat turn")
		os.Exit(1)
	}
	fmt.Println("PASSED: Chat turn")

	// 3. Similarity lookup
	fmt.Println("3. Searching Similar Items...")
	similarPayload := map[string]interface{}{
		"query": "groceries",
		"k":     3,
	}
	if !sendRequest("POST", "/similar", similarPayload) {
		fmt.Println("FAILED: Similar search")
		os.Exit(1)
	}
	fmt.Println("PASSED: Similar search")

	// 4. History should hold the turn
	fmt.Println("4. Fetching History...")
	if !sendRequest("GET", "/history", nil) {
		fmt.Println("FAILED: History")
		os.Exit(1)
	}
	fmt.Println("PASSED: History")
}

func sendRequest(method, endpoint string, payload interface{}) bool {
	var body io.Reader
	if payload != nil {
		jsonBytes, _ := json.Marshal(payload)
		body = bytes.NewBuffer(jsonBytes)
	}

	req, err := http.NewRequest(method, baseURL+endpoint, body)
	if err != nil {
		fmt.Printf("Error creating request: %v\n", err)
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error sending request: %v\n", err)
		return false
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	fmt.Printf("Response (%d): %s\n", resp.StatusCode, truncate(string(respBody), 300))

	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
