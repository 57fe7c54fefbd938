package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/triporia/travelsearch/backend/internal/domain/entities"
	"github.com/triporia/travelsearch/backend/internal/domain/providers"
)

// SSEHandler handles Server-Sent Events for live search activity, backing
// operator dashboards that watch searches as they happen.
type SSEHandler struct {
	eventBus providers.EventBus
	clients  map[string]map[chan *entities.SearchEvent]bool // channel -> clients
	mu       sync.RWMutex
}

// NewSSEHandler creates a new SSE handler
func NewSSEHandler(eventBus providers.EventBus) *SSEHandler {
	return &SSEHandler{
		eventBus: eventBus,
		clients:  make(map[string]map[chan *entities.SearchEvent]bool),
	}
}

// StreamSearches handles SSE connections for all completed searches
// GET /api/stream/searches
func (h *SSEHandler) StreamSearches(w http.ResponseWriter, r *http.Request) {
	h.stream(w, r, providers.EventChannelSearches, map[string]interface{}{
		"scope":     "all",
		"timestamp": time.Now(),
	})
}

// StreamDomainSearches handles SSE connections for one search domain
// GET /api/stream/searches/{domain}
func (h *SSEHandler) StreamDomainSearches(w http.ResponseWriter, r *http.Request) {
	domain := r.PathValue("domain")
	switch domain {
	case entities.SearchDomainHotels, entities.SearchDomainFlights, entities.SearchDomainCars:
	default:
		respondWithError(w, http.StatusBadRequest, "unknown search domain")
		return
	}

	h.stream(w, r, providers.GetDomainChannel(domain), map[string]interface{}{
		"scope":     domain,
		"timestamp": time.Now(),
	})
}

func (h *SSEHandler) stream(w http.ResponseWriter, r *http.Request, channel string, hello map[string]interface{}) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	// Set headers for SSE
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	// Create client channel
	clientChan := make(chan *entities.SearchEvent, 10)

	// Register client
	h.registerClient(channel, clientChan)
	defer h.unregisterClient(channel, clientChan)

	// Subscribe to events
	eventChan, err := h.eventBus.Subscribe(r.Context(), channel)
	if err != nil {
		log.Printf("Failed to subscribe to channel %s: %v", channel, err)
		return
	}

	// Send initial connection event
	h.sendEvent(w, "connected", hello)
	flusher.Flush()

	// Start forwarding events
	go h.forwardEvents(r.Context(), eventChan, clientChan)

	// Keep connection alive and send events
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			log.Printf("Client disconnected from search stream: %s", channel)
			return
		case <-ticker.C:
			// Send heartbeat
			h.sendEvent(w, "heartbeat", map[string]interface{}{
				"timestamp": time.Now(),
			})
			flusher.Flush()
		case event := <-clientChan:
			if event == nil {
				continue
			}
			h.sendEvent(w, "search", event)
			flusher.Flush()
		}
	}
}

// forwardEvents pumps bus events into the client channel until the context
// ends.
func (h *SSEHandler) forwardEvents(ctx context.Context, eventChan <-chan *entities.SearchEvent, clientChan chan *entities.SearchEvent) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			select {
			case clientChan <- event:
			default:
				// Client is slow, drop the event rather than block the bus
			}
		}
	}
}

func (h *SSEHandler) registerClient(channel string, clientChan chan *entities.SearchEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[channel] == nil {
		h.clients[channel] = make(map[chan *entities.SearchEvent]bool)
	}
	h.clients[channel][clientChan] = true
}

func (h *SSEHandler) unregisterClient(channel string, clientChan chan *entities.SearchEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if clients, ok := h.clients[channel]; ok {
		delete(clients, clientChan)
		if len(clients) == 0 {
			delete(h.clients, channel)
		}
	}
	close(clientChan)
}

// GetClientCount returns the number of connected SSE clients.
func (h *SSEHandler) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	count := 0
	for _, clients := range h.clients {
		count += len(clients)
	}
	return count
}

// sendEvent writes one SSE event frame.
func (h *SSEHandler) sendEvent(w http.ResponseWriter, eventType string, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		log.Printf("Failed to marshal SSE event: %v", err)
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", eventType, payload)
}
