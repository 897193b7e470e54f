package events

import (
	"context"
	"sync"
	"time"

	"github.com/craftlaunch/craftlaunch/pkg/errors"
)

// EventType represents different event types in the launcher
type EventType string

const (
	DownloadStarted   EventType = "download.started"
	DownloadProgress  EventType = "download.progress"
	DownloadCompleted EventType = "download.completed"
	DownloadFailed    EventType = "download.failed"
	JavaDetected      EventType = "java.detected"
	JavaInstalled     EventType = "java.installed"
	VersionInstalled  EventType = "version.installed"
	LoaderInstalled   EventType = "loader.installed"
	GameLaunched      EventType = "game.launched"
	GameExited        EventType = "game.exited"
	SettingsUpdated   EventType = "settings.updated"
)

// Event represents a launcher event
type Event struct {
	Type      EventType
	Data      interface{}
	Timestamp int64
}

// NewEvent creates an event stamped with the current time
func NewEvent(eventType EventType, data interface{}) Event {
	return Event{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	}
}

// EventHandler handles launcher events
type EventHandler interface {
	Handle(ctx context.Context, event Event) error
	SupportedEvents() []EventType
}

// EventBus manages event publishing and subscription
type EventBus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType EventType, handler EventHandler) error
	Unsubscribe(eventType EventType, handler EventHandler) error
}

// InMemoryEventBus is a simple in-memory event bus implementation
type InMemoryEventBus struct {
	handlers map[EventType][]EventHandler
	mutex    sync.RWMutex
}

// NewInMemoryEventBus creates a new in-memory event bus for decoupled component communication
func NewInMemoryEventBus() *InMemoryEventBus {
	return &InMemoryEventBus{
		handlers: make(map[EventType][]EventHandler),
	}
}

// Publish sends an event to all registered handlers concurrently
func (b *InMemoryEventBus) Publish(ctx context.Context, event Event) error {
	b.mutex.RLock()
	handlers, exists := b.handlers[event.Type]
	b.mutex.RUnlock()

	if !exists {
		return nil
	}
	var wg sync.WaitGroup
	errs := make([]error, 0)
	errorMutex := sync.Mutex{}

	for _, handler := range handlers {
		wg.Add(1)
		go func(h EventHandler) {
			defer wg.Done()
			if err := h.Handle(ctx, event); err != nil {
				errorMutex.Lock()
				errs = append(errs, err)
				errorMutex.Unlock()
			}
		}(handler)
	}

	wg.Wait()

	if len(errs) > 0 {
		return errors.JoinErrors(errs...)
	}

	return nil
}

// Subscribe registers an event handler to receive events of a specific type
func (b *InMemoryEventBus) Subscribe(eventType EventType, handler EventHandler) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	if b.handlers[eventType] == nil {
		b.handlers[eventType] = make([]EventHandler, 0)
	}

	b.handlers[eventType] = append(b.handlers[eventType], handler)
	return nil
}

// Unsubscribe removes an event handler from receiving events of a specific type
func (b *InMemoryEventBus) Unsubscribe(eventType EventType, handler EventHandler) error {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	handlers, exists := b.handlers[eventType]
	if !exists {
		return nil
	}

	for i, h := range handlers {
		if h == handler {
			b.handlers[eventType] = append(handlers[:i], handlers[i+1:]...)
			break
		}
	}

	return nil
}

// DownloadEventData contains download-specific event data
type DownloadEventData struct {
	TaskID     string
	URL        string
	Path       string
	Downloaded int64
	Total      int64
	Error      error
}

// JavaEventData contains Java toolchain event data
type JavaEventData struct {
	Path         string
	Version      string
	MajorVersion int
	Vendor       string
}

// VersionEventData contains game version event data
type VersionEventData struct {
	VersionID string
	Kind      string
}

// GameEventData contains running game event data
type GameEventData struct {
	VersionID string
	PID       int
	ExitCode  int
}
