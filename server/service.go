// Package server exposes the controller over a small JSON HTTP API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/fernandosanchezjr/govalon/devices/valon"
	"github.com/fernandosanchezjr/govalon/devices/valon/protocol"
	"github.com/julienschmidt/httprouter"
	log "github.com/sirupsen/logrus"
)

const DefaultAddress = "127.0.0.1:8090"

type Service struct {
	controller *valon.Controller
	address    string
	server     *http.Server
}

func NewService(controller *valon.Controller, address string) *Service {
	if address == "" {
		address = DefaultAddress
	}
	s := &Service{controller: controller, address: address}
	s.server = &http.Server{Addr: address, Handler: s.Router()}
	return s
}

func (s *Service) Router() *httprouter.Router {
	router := httprouter.New()
	router.GET("/status", s.GetStatus)
	router.GET("/synth/:id", s.GetSynth)
	router.GET("/synth/:id/registers", s.GetRegisters)
	router.PUT("/synth/:id/frequency", s.PutFrequency)
	router.PUT("/synth/:id/rflevel", s.PutRFLevel)
	router.PUT("/synth/:id/label", s.PutLabel)
	router.PUT("/synth/:id/options", s.PutOptions)
	router.PUT("/synth/:id/vco", s.PutVCORange)
	router.POST("/synth/:id/sweep", s.PostSweep)
	router.GET("/reference", s.GetReference)
	router.PUT("/reference", s.PutReference)
	router.POST("/flash", s.PostFlash)
	return router
}

// Start serves until Stop is called. It returns nil after a clean shutdown.
func (s *Service) Start() error {
	log.WithField("address", s.address).Infoln("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

type errorResponse struct {
	Error string `json:"error"`
}

func statusCode(err error) int {
	var invalid *protocol.InvalidArgumentError
	switch {
	case errors.As(err, &invalid):
		return http.StatusBadRequest
	case protocol.IsTimeout(err):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Error("Error writing response")
	}
}

func writeError(w http.ResponseWriter, request *http.Request, code int, err error) {
	log.WithFields(log.Fields{
		"path":   request.URL.Path,
		"method": request.Method,
		"status": code,
		"error":  err,
	}).Warnln("Request failed")
	writeJSON(w, code, errorResponse{Error: err.Error()})
}

func readJSON(w http.ResponseWriter, request *http.Request, v interface{}) bool {
	decoder := json.NewDecoder(request.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		writeError(w, request, http.StatusBadRequest, err)
		return false
	}
	return true
}

func synthID(w http.ResponseWriter, request *http.Request, params httprouter.Params) (protocol.SynthID, bool) {
	id, err := protocol.ParseSynthID(params.ByName("id"))
	if err != nil {
		writeError(w, request, http.StatusNotFound, err)
		return id, false
	}
	return id, true
}

func logRequest(request *http.Request, startTime time.Time) {
	log.WithFields(log.Fields{
		"elapsedTime": time.Since(startTime),
		"path":        request.URL.Path,
		"method":      request.Method,
	}).Debugln("API request")
}
