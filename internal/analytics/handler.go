package analytics

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/2beens/nutrifit/internal/telemetry/tracing"
	"github.com/2beens/nutrifit/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const maxEventBodyBytes = 16 * 1024

type Handler struct {
	sink Sink
	now  func() time.Time
}

func NewHandler(sink Sink) *Handler {
	return &Handler{
		sink: sink,
		now:  time.Now,
	}
}

// HandleEvent accepts a single event forwarded by the UI.
// The response does not depend on what the sinks do with it.
func (h *Handler) HandleEvent(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.analytics.event")
	defer span.End()

	if r.Header.Get("Content-Type") != "application/json" {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var event Event
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxEventBodyBytes)).Decode(&event); err != nil {
		if errors.Is(err, ErrUnknownKind) {
			http.Error(w, "unknown event kind", http.StatusBadRequest)
			return
		}
		log.Errorf("analytics event, unmarshal json: %s", err)
		http.Error(w, "invalid event", http.StatusBadRequest)
		return
	}
	span.SetAttributes(attribute.String("kind", event.Kind.String()))

	if event.Timestamp.IsZero() {
		event.Timestamp = h.now()
	}

	Emit(ctx, h.sink, event)

	pkg.WriteResponse(w, "", "accepted", http.StatusAccepted)
}
