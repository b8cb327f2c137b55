package server

import (
	"net/http"
	"time"

	"github.com/fernandosanchezjr/govalon/devices/valon"
	"github.com/fernandosanchezjr/govalon/devices/valon/protocol"
	"github.com/julienschmidt/httprouter"
)

type frequencyRequest struct {
	Frequency float64 `json:"frequency"`
	Spacing   float64 `json:"spacing,omitempty"`
}

type rfLevelRequest struct {
	Level int32 `json:"level"`
}

type labelRequest struct {
	Label string `json:"label"`
}

type referenceBody struct {
	Reference uint32 `json:"reference,omitempty"`
	External  *bool  `json:"external,omitempty"`
}

type registersResponse struct {
	Registers [protocol.RegisterCount]uint32 `json:"registers"`
}

func (s *Service) GetStatus(w http.ResponseWriter, request *http.Request, _ httprouter.Params) {
	defer logRequest(request, time.Now())
	status, err := s.controller.Status()
	if err != nil {
		writeError(w, request, statusCode(err), err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *Service) GetSynth(w http.ResponseWriter, request *http.Request, params httprouter.Params) {
	defer logRequest(request, time.Now())
	id, ok := synthID(w, request, params)
	if !ok {
		return
	}
	s.writeChannelStatus(w, request, id)
}

func (s *Service) writeChannelStatus(w http.ResponseWriter, request *http.Request, id protocol.SynthID) {
	status, err := s.controller.ChannelStatus(id)
	if err != nil {
		writeError(w, request, statusCode(err), err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *Service) GetRegisters(w http.ResponseWriter, request *http.Request, params httprouter.Params) {
	defer logRequest(request, time.Now())
	id, ok := synthID(w, request, params)
	if !ok {
		return
	}
	regs, err := s.controller.Registers(id)
	if err != nil {
		writeError(w, request, statusCode(err), err)
		return
	}
	writeJSON(w, http.StatusOK, registersResponse{Registers: regs.Words()})
}

func (s *Service) PutFrequency(w http.ResponseWriter, request *http.Request, params httprouter.Params) {
	defer logRequest(request, time.Now())
	id, ok := synthID(w, request, params)
	if !ok {
		return
	}
	var body frequencyRequest
	if !readJSON(w, request, &body) {
		return
	}
	if body.Spacing == 0 {
		body.Spacing = valon.DefaultChannelSpacing
	}
	if err := s.controller.SetFrequency(id, body.Frequency, body.Spacing); err != nil {
		writeError(w, request, statusCode(err), err)
		return
	}
	s.writeChannelStatus(w, request, id)
}

func (s *Service) PutRFLevel(w http.ResponseWriter, request *http.Request, params httprouter.Params) {
	defer logRequest(request, time.Now())
	id, ok := synthID(w, request, params)
	if !ok {
		return
	}
	var body rfLevelRequest
	if !readJSON(w, request, &body) {
		return
	}
	if err := s.controller.SetRFLevel(id, body.Level); err != nil {
		writeError(w, request, statusCode(err), err)
		return
	}
	s.writeChannelStatus(w, request, id)
}

func (s *Service) PutLabel(w http.ResponseWriter, request *http.Request, params httprouter.Params) {
	defer logRequest(request, time.Now())
	id, ok := synthID(w, request, params)
	if !ok {
		return
	}
	var body labelRequest
	if !readJSON(w, request, &body) {
		return
	}
	if err := s.controller.SetLabel(id, []byte(body.Label)); err != nil {
		writeError(w, request, statusCode(err), err)
		return
	}
	s.writeChannelStatus(w, request, id)
}

func (s *Service) PutOptions(w http.ResponseWriter, request *http.Request, params httprouter.Params) {
	defer logRequest(request, time.Now())
	id, ok := synthID(w, request, params)
	if !ok {
		return
	}
	var body valon.Options
	if !readJSON(w, request, &body) {
		return
	}
	if err := s.controller.SetOptions(id, body); err != nil {
		writeError(w, request, statusCode(err), err)
		return
	}
	s.writeChannelStatus(w, request, id)
}

func (s *Service) PutVCORange(w http.ResponseWriter, request *http.Request, params httprouter.Params) {
	defer logRequest(request, time.Now())
	id, ok := synthID(w, request, params)
	if !ok {
		return
	}
	var body protocol.VCORange
	if !readJSON(w, request, &body) {
		return
	}
	if err := s.controller.SetVCORange(id, body); err != nil {
		writeError(w, request, statusCode(err), err)
		return
	}
	s.writeChannelStatus(w, request, id)
}

func (s *Service) PostSweep(w http.ResponseWriter, request *http.Request, params httprouter.Params) {
	defer logRequest(request, time.Now())
	id, ok := synthID(w, request, params)
	if !ok {
		return
	}
	plan, err := ParseSweepPlan(request.URL.Query())
	if err != nil {
		writeError(w, request, http.StatusBadRequest, err)
		return
	}
	points, err := s.controller.Sweep(request.Context(), id, plan, nil)
	if err != nil {
		writeError(w, request, statusCode(err), err)
		return
	}
	writeJSON(w, http.StatusOK, points)
}

func (s *Service) GetReference(w http.ResponseWriter, request *http.Request, _ httprouter.Params) {
	defer logRequest(request, time.Now())
	s.writeReference(w, request)
}

func (s *Service) writeReference(w http.ResponseWriter, request *http.Request) {
	ref, err := s.controller.Reference()
	if err != nil {
		writeError(w, request, statusCode(err), err)
		return
	}
	external, err := s.controller.RefSelect()
	if err != nil {
		writeError(w, request, statusCode(err), err)
		return
	}
	writeJSON(w, http.StatusOK, referenceBody{Reference: ref, External: &external})
}

// PutReference changes the reference frequency, the reference source, or both.
func (s *Service) PutReference(w http.ResponseWriter, request *http.Request, _ httprouter.Params) {
	defer logRequest(request, time.Now())
	var body referenceBody
	if !readJSON(w, request, &body) {
		return
	}
	if body.Reference != 0 {
		if err := s.controller.SetReference(body.Reference); err != nil {
			writeError(w, request, statusCode(err), err)
			return
		}
	}
	if body.External != nil {
		if err := s.controller.SetRefSelect(*body.External); err != nil {
			writeError(w, request, statusCode(err), err)
			return
		}
	}
	s.writeReference(w, request)
}

func (s *Service) PostFlash(w http.ResponseWriter, request *http.Request, _ httprouter.Params) {
	defer logRequest(request, time.Now())
	if err := s.controller.Flash(); err != nil {
		writeError(w, request, statusCode(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
