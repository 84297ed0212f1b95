package pubsub

import (
	"context"
	"sync"

	"qrcode-shopify-layer/internal/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ScanEventChannel represents a subscription channel
type ScanEventChannel struct {
	ID     string
	Filter *ScanEventFilter
	Events chan *domain.ScanEvent
	Done   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
}

// ScanEventFilter filters scan events
type ScanEventFilter struct {
	Shop     string // Filter by shop domain
	QRCodeID int64  // Filter by QR code, 0 matches all
}

// ScanPubSub fans scan events out to subscribers
type ScanPubSub struct {
	mu       sync.RWMutex
	channels map[string]*ScanEventChannel
	logger   zerolog.Logger
}

// NewScanPubSub creates a new scan pub/sub system
func NewScanPubSub(logger zerolog.Logger) *ScanPubSub {
	return &ScanPubSub{
		channels: make(map[string]*ScanEventChannel),
		logger:   logger,
	}
}

// Subscribe creates a subscription that lives until ctx is done or Unsubscribe is called
func (ps *ScanPubSub) Subscribe(ctx context.Context, filter *ScanEventFilter) *ScanEventChannel {
	subCtx, cancel := context.WithCancel(ctx)

	channel := &ScanEventChannel{
		ID:     uuid.NewString(),
		Filter: filter,
		Events: make(chan *domain.ScanEvent, 16),
		Done:   make(chan struct{}),
		ctx:    subCtx,
		cancel: cancel,
	}

	ps.mu.Lock()
	ps.channels[channel.ID] = channel
	ps.mu.Unlock()

	ps.logger.Debug().
		Str("channelId", channel.ID).
		Interface("filter", filter).
		Msg("Scan subscription created")

	go func() {
		<-subCtx.Done()
		ps.Unsubscribe(channel.ID)
	}()

	return channel
}

// Unsubscribe removes a subscription channel
func (ps *ScanPubSub) Unsubscribe(channelID string) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	channel, exists := ps.channels[channelID]
	if !exists {
		return
	}

	close(channel.Events)
	close(channel.Done)
	channel.cancel()
	delete(ps.channels, channelID)

	ps.logger.Debug().
		Str("channelId", channelID).
		Msg("Scan subscription removed")
}

// Publish delivers event to every matching subscriber without blocking. A subscriber
// whose buffer is full misses the event.
func (ps *ScanPubSub) Publish(event *domain.ScanEvent) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	delivered := 0
	for _, channel := range ps.channels {
		if !matchesFilter(event, channel.Filter) {
			continue
		}
		select {
		case channel.Events <- event:
			delivered++
		default:
			ps.logger.Warn().
				Str("channelId", channel.ID).
				Msg("Channel buffer full, dropping scan event")
		}
	}

	if delivered > 0 {
		ps.logger.Debug().
			Int64("qrCodeId", event.QRCodeID).
			Str("shop", event.Shop).
			Int("subscribers", delivered).
			Msg("Published scan event")
	}
}

func matchesFilter(event *domain.ScanEvent, filter *ScanEventFilter) bool {
	if filter == nil {
		return true
	}
	if filter.Shop != "" && event.Shop != filter.Shop {
		return false
	}
	if filter.QRCodeID != 0 && event.QRCodeID != filter.QRCodeID {
		return false
	}
	return true
}

// Subscribers returns the number of active subscriptions
func (ps *ScanPubSub) Subscribers() int {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	return len(ps.channels)
}
