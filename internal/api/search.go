package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/openHPI/herostore/internal/config"
	"github.com/openHPI/herostore/internal/search"
	"github.com/openHPI/herostore/pkg/dto"
	"github.com/openHPI/herostore/pkg/logging"
	"github.com/openHPI/herostore/pkg/monitoring"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

// liveSearch handles the live search route.
// It upgrades the connection to a WebSocket, feeds every received text frame
// as a search term into a pipeline dispatching on the repository and writes
// each published result batch back as a JSON array. The connection gets its
// own pipeline, terms of different clients do not interleave.
func (h *HeroController) liveSearch(writer http.ResponseWriter, request *http.Request) {
	connection, err := upgrader.Upgrade(writer, request, nil)
	if err != nil {
		// Upgrade has already written the error response.
		log.WithContext(request.Context()).WithError(err).Warn("Connection upgrade failed")
		return
	}

	searchConfig := config.Config.Search
	pipeline := search.NewPipeline(monitoredSearcher{inner: h.repository},
		time.Duration(searchConfig.DebounceMilliseconds)*time.Millisecond, searchConfig.SubscriberBuffer)

	ctx, cancel := context.WithCancel(request.Context())
	defer cancel()
	go func() {
		// A server shutdown closes the remaining live search connections.
		select {
		case <-h.ctx.Done():
			cancel()
		case <-ctx.Done():
		}
	}()
	go pipeline.Run(ctx)

	feed, subscriberID := pipeline.Subscribe()
	defer pipeline.Unsubscribe(subscriberID)

	go readTermsLoop(ctx, cancel, connection, pipeline)
	writeBatchesLoop(ctx, cancel, connection, feed)
}

// monitoredSearcher records every dispatched live search as an influx point.
// The live search route has no request per term, so the HTTP monitoring
// middleware never sees them.
type monitoredSearcher struct {
	inner search.Searcher
}

func (m monitoredSearcher) Search(ctx context.Context, term string) []dto.Hero {
	heroes := m.inner.Search(ctx, term)

	p := influxdb2.NewPointWithMeasurement(monitoring.MeasurementSearches)
	p.AddTag("term", logging.RemoveNewlineSymbol(term))
	p.AddField("matches", len(heroes))
	monitoring.WriteInfluxPoint(p)

	return heroes
}

// readTermsLoop forwards the text frames of the connection into the pipeline
// until the connection or the context is closed.
func readTermsLoop(ctx context.Context, cancel context.CancelFunc,
	connection *websocket.Conn, pipeline *search.Pipeline) {
	defer cancel()
	for {
		_, frame, err := connection.ReadMessage()
		if err != nil {
			if ctx.Err() == nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithError(err).Debug("Reading from live search connection failed")
			}
			return
		}
		pipeline.Submit(string(frame))
	}
}

// writeBatchesLoop writes every published result batch to the connection.
func writeBatchesLoop(ctx context.Context, cancel context.CancelFunc,
	connection *websocket.Conn, feed <-chan []dto.Hero) {
	defer func() {
		_ = connection.Close()
	}()
	for {
		select {
		case <-ctx.Done():
			message := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
			_ = connection.WriteMessage(websocket.CloseMessage, message)
			return
		case batch := <-feed:
			if err := connection.WriteJSON(batch); err != nil {
				log.WithError(err).Debug("Writing to live search connection failed")
				cancel()
				return
			}
		}
	}
}
