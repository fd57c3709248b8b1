package pairing

import (
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Gate is the controller surface the development bearer talks to. The
// shipped product carries these payloads over a short-range wireless
// bearer; for host builds an HTTP server stands in, speaking the exact
// same payloads.
type Gate interface {
	AddressInfo() string
	StatusPayload() string
	SubmitNetworkConfig(payload string)
	SubmitControl(command string) error
}

const maxBearerPayload = 512

// NewHTTPBearer serves the pairing payloads over HTTP.
//
//	GET  /pairing/address  -> address-info payload
//	GET  /pairing/status   -> status payload
//	POST /pairing/network  -> network-config write (body is the payload)
//	POST /pairing/control  -> "enter_pairing" or "unpair"
func NewHTTPBearer(gate Gate) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)

	r.Get("/pairing/address", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, gate.AddressInfo())
	})

	r.Get("/pairing/status", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, gate.StatusPayload())
	})

	r.Post("/pairing/network", func(w http.ResponseWriter, req *http.Request) {
		body, err := io.ReadAll(io.LimitReader(req.Body, maxBearerPayload))
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		gate.SubmitNetworkConfig(strings.TrimSpace(string(body)))
		w.WriteHeader(http.StatusAccepted)
	})

	r.Post("/pairing/control", func(w http.ResponseWriter, req *http.Request) {
		body, err := io.ReadAll(io.LimitReader(req.Body, maxBearerPayload))
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if err := gate.SubmitControl(strings.TrimSpace(string(body))); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusAccepted)
	})

	return r
}
