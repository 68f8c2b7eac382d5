package messages

import (
	"sync"
	"time"

	"github.com/google/uuid"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/openHPI/herostore/pkg/dto"
	"github.com/openHPI/herostore/pkg/logging"
	"github.com/openHPI/herostore/pkg/monitoring"
)

// Sink is the audit channel the hero store reports its operation outcomes to.
// Add is fire-and-forget and must never block the calling operation.
type Sink interface {
	// Add appends a message to the sink.
	Add(text string)
}

// Journal is an append-only, thread-safe Sink that retains all messages
// until they are cleared.
type Journal struct {
	mu      sync.RWMutex
	entries []dto.Message
}

func NewJournal() *Journal {
	return &Journal{}
}

// Add appends a message to the journal.
func (j *Journal) Add(text string) {
	entry := dto.Message{
		ID:        uuid.NewString(),
		Text:      text,
		Timestamp: time.Now().UTC().Format(logging.TimestampFormat),
	}

	j.mu.Lock()
	j.entries = append(j.entries, entry)
	count := len(j.entries)
	j.mu.Unlock()

	p := influxdb2.NewPointWithMeasurement(monitoring.MeasurementMessages)
	p.AddTag("id", entry.ID)
	p.AddField("count", count)
	monitoring.WriteInfluxPoint(p)
}

// List returns all messages in insertion order.
func (j *Journal) List() []dto.Message {
	j.mu.RLock()
	defer j.mu.RUnlock()
	entries := make([]dto.Message, len(j.entries))
	copy(entries, j.entries)
	return entries
}

// Clear removes all messages from the journal.
func (j *Journal) Clear() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = nil
}

// Length returns the number of retained messages.
func (j *Journal) Length() uint {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return uint(len(j.entries))
}
