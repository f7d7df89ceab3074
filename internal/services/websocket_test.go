package services

import (
	"sync"
	"testing"
	"time"
)

// Concurrent sends to a stalled client exercise the drop path in
// BroadcastToUser, which mutates the client map and so must hold the
// write lock.
func TestBroadcastDropsStalledClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := &Client{ID: 7, Send: make(chan []byte, 1), Hub: hub}
	hub.register <- client

	// Registration is processed by the hub goroutine; wait for it to land.
	deadline := time.Now().Add(time.Second)
	for hub.GetConnectedClients() != 1 {
		if time.Now().After(deadline) {
			t.Fatal("client was never registered")
		}
		time.Sleep(time.Millisecond)
	}

	// Fill the buffer so every further send takes the drop path.
	client.Send <- []byte("stall")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hub.BroadcastToUser(7, []byte("update"))
		}()
	}
	wg.Wait()

	if n := hub.GetConnectedClients(); n != 0 {
		t.Errorf("stalled client should have been dropped, %d still connected", n)
	}
}
