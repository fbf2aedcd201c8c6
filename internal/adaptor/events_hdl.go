package adaptor

import (
	"encoding/json"
	"net/http"
	"sync/atomic"

	"booking-platform/internal/notify"
	"booking-platform/pkg/utils"

	"github.com/google/uuid"
	"github.com/r3labs/sse/v2"
	"go.uber.org/zap"
)

const adminStream = "all"

func customerStream(customerID uuid.UUID) string {
	return "customer:" + customerID.String()
}

// EventsHandler streams booking status changes as Server-Sent Events. The
// stream carries only changes made after the client connected; clients
// re-query bookings on (re)connect.
//
// One hub subscription relays every event to the admin stream and to the
// stream of the booking's customer. Customer streams exist only while that
// customer is connected.
type EventsHandler struct {
	server *sse.Server
	relay  *notify.Subscription
	closed atomic.Bool
	log    *zap.Logger
}

func NewEventsHandler(hub *notify.Hub, log *zap.Logger) *EventsHandler {
	server := sse.New()
	server.AutoReplay = false
	server.AutoStream = true
	server.Headers = map[string]string{"X-Accel-Buffering": "no"}
	server.CreateStream(adminStream)

	h := &EventsHandler{
		server: server,
		log:    log.With(zap.String("handler", "events")),
	}
	h.relay = hub.OnStatusChange(h.forward)
	return h
}

func (h *EventsHandler) forward(event notify.Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.log.Error("Failed to encode status event", zap.Error(err))
		return
	}

	for _, stream := range []string{adminStream, customerStream(event.CustomerID)} {
		if !h.server.StreamExists(stream) {
			continue
		}
		if !h.server.TryPublish(stream, &sse.Event{Event: []byte("status"), Data: payload}) {
			h.log.Warn("Status event dropped for slow stream",
				zap.String("stream", stream),
				zap.String("booking_id", event.BookingID.String()),
			)
		}
	}
}

// Close stops relaying and ends every open stream.
func (h *EventsHandler) Close() {
	if h.closed.Swap(true) {
		return
	}
	h.relay.Close()
	h.server.Close()
}

// AllEvents handles GET /api/admin/events
func (h *EventsHandler) AllEvents(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, adminStream)
}

// MyEvents handles GET /api/events; only the caller's bookings are sent.
func (h *EventsHandler) MyEvents(w http.ResponseWriter, r *http.Request) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}
	h.serve(w, r, customerStream(userID))
}

func (h *EventsHandler) serve(w http.ResponseWriter, r *http.Request, stream string) {
	if h.closed.Load() {
		utils.ResponseJSON(w, http.StatusServiceUnavailable, false, "Event stream closed", nil, nil)
		return
	}

	// The stream is picked server side; clients cannot name one.
	r = r.Clone(r.Context())
	query := r.URL.Query()
	query.Set("stream", stream)
	r.URL.RawQuery = query.Encode()
	r.Header.Del("Last-Event-ID")

	h.log.Debug("Event stream opened", zap.String("stream", stream))
	h.server.ServeHTTP(w, r)
	h.log.Debug("Event stream closed", zap.String("stream", stream))
}
