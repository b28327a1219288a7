/*
 * === This file is part of ALICE O² ===
 *
 * Copyright 2019-2023 CERN and copyright holders of ALICE O².
 * Author: Claire Guyot <claire.eloise.guyot@cern.ch>
 * Author: Teo Mrnjavac <teo.m@cern.ch>
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
 * In applying this license CERN does not waive the privileges and
 * immunities granted to it by virtue of its status as an
 * Intergovernmental Organization or submit itself to any jurisdiction.
 */

package lampd

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/AliceO2Group/LampControl/common/utils/uid"
	"github.com/AliceO2Group/LampControl/core/lamp"
	"github.com/AliceO2Group/LampControl/core/sm"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/viper"
)

// Lamp is the part of a lamp controller served over HTTP.
type Lamp interface {
	ID() uid.ID
	State() lamp.State
	Fire(trigger lamp.Trigger) (sm.Outcome, error)
	PermittedTriggers() []lamp.Trigger
	Info() sm.MachineInfo
	Dot() string
}

type StateResponse struct {
	Id                uid.ID   `json:"id"`
	State             string   `json:"state"`
	PermittedTriggers []string `json:"permittedTriggers"`
	Daemon            string   `json:"daemon,omitempty"`
}

type TriggerResponse struct {
	Id      uid.ID `json:"id"`
	Trigger string `json:"trigger"`
	Outcome string `json:"outcome"`
	State   string `json:"state"`
	Error   string `json:"error,omitempty"`
}

type HttpService struct {
	lamp   Lamp
	daemon *DaemonState
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	response, err := json.MarshalIndent(payload, "", "\t")
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = fmt.Fprintln(w, err)
		return
	}
	w.WriteHeader(status)
	_, _ = fmt.Fprintln(w, string(response))
}

func (httpsvc *HttpService) stateResponse() StateResponse {
	permitted := httpsvc.lamp.PermittedTriggers()
	names := make([]string, len(permitted))
	for i, t := range permitted {
		names[i] = t.String()
	}
	response := StateResponse{
		Id:                httpsvc.lamp.ID(),
		State:             httpsvc.lamp.State().String(),
		PermittedTriggers: names,
	}
	if httpsvc.daemon != nil {
		response.Daemon = httpsvc.daemon.Current()
	}
	return response
}

func (httpsvc *HttpService) ApiGetState(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	switch format {
	case "text":
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintln(w, httpsvc.lamp.State().String())
	case "json":
		fallthrough
	default:
		writeJSON(w, http.StatusOK, httpsvc.stateResponse())
	}
}

func (httpsvc *HttpService) ApiFireTrigger(w http.ResponseWriter, r *http.Request) {
	queryParams := mux.Vars(r)
	triggerS, hasTrigger := queryParams["trigger"]
	if !hasTrigger {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = fmt.Fprintln(w, "trigger not provided")
		return
	}

	if httpsvc.daemon != nil && !httpsvc.daemon.AcceptsTriggers() {
		writeJSON(w, http.StatusServiceUnavailable, TriggerResponse{
			Id:      httpsvc.lamp.ID(),
			Trigger: triggerS,
			State:   httpsvc.lamp.State().String(),
			Error:   "lampd is " + strings.ToLower(httpsvc.daemon.Current()),
		})
		return
	}

	trigger, err := lamp.TriggerFromString(triggerS)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, TriggerResponse{
			Id:      httpsvc.lamp.ID(),
			Trigger: triggerS,
			State:   httpsvc.lamp.State().String(),
			Error:   err.Error(),
		})
		return
	}

	outcome, err := httpsvc.lamp.Fire(trigger)
	response := TriggerResponse{
		Id:      httpsvc.lamp.ID(),
		Trigger: trigger.String(),
		Outcome: outcome.String(),
		State:   httpsvc.lamp.State().String(),
	}
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, response)
	case errors.Is(err, sm.ErrUnsupportedTransition):
		response.Error = err.Error()
		writeJSON(w, http.StatusConflict, response)
	case errors.Is(err, lamp.ErrControllerClosed):
		response.Error = err.Error()
		writeJSON(w, http.StatusServiceUnavailable, response)
	default:
		response.Error = err.Error()
		writeJSON(w, http.StatusInternalServerError, response)
	}
}

func (httpsvc *HttpService) ApiGetGraph(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/vnd.graphviz")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintln(w, httpsvc.lamp.Dot())
}

func (httpsvc *HttpService) ApiGetInfo(w http.ResponseWriter, r *http.Request) {
	info := httpsvc.lamp.Info()

	format := r.URL.Query().Get("format")
	switch strings.ToLower(format) {
	case "yaml":
		out, err := info.YAML()
		if err != nil {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = fmt.Fprintln(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(out)
	case "json", "":
		writeJSON(w, http.StatusOK, info)
	default:
		w.WriteHeader(http.StatusBadRequest)
		_, _ = fmt.Fprintf(w, "unsupported format %q\n", format)
	}
}

// requestLogger tags every request with an X-Request-Id, reusing the
// client's if it sent one.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestId := r.Header.Get("X-Request-Id")
		if len(requestId) == 0 {
			requestId = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", requestId)

		start := time.Now()
		next.ServeHTTP(w, r)
		log.WithField("requestId", requestId).
			WithField("method", r.Method).
			WithField("path", r.URL.Path).
			WithField("elapsed", time.Since(start)).
			Debug("request served")
	})
}

func newHandlerForHttpService(httpsvc *HttpService) http.Handler {
	router := mux.NewRouter()
	router.Use(requestLogger)

	// GET /state
	router.HandleFunc("/state", httpsvc.ApiGetState).Methods(http.MethodGet)
	router.HandleFunc("/state/", httpsvc.ApiGetState).Methods(http.MethodGet)

	// POST /triggers/{trigger}
	router.HandleFunc("/triggers/{trigger}", httpsvc.ApiFireTrigger).Methods(http.MethodPost)
	router.HandleFunc("/triggers/{trigger}/", httpsvc.ApiFireTrigger).Methods(http.MethodPost)

	// GET /graph returns the transition table as DOT
	router.HandleFunc("/graph", httpsvc.ApiGetGraph).Methods(http.MethodGet)

	// GET /info?format=yaml|json
	router.HandleFunc("/info", httpsvc.ApiGetInfo).Methods(http.MethodGet)

	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	return router
}

// NewHttpService serves l on the configured listenPort. daemon may be nil,
// in which case triggers are always accepted.
func NewHttpService(l Lamp, daemon *DaemonState) (svr *http.Server) {
	httpsvc := &HttpService{
		lamp:   l,
		daemon: daemon,
	}
	return &http.Server{
		Handler:      newHandlerForHttpService(httpsvc),
		Addr:         ":" + strconv.Itoa(viper.GetInt("listenPort")),
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}
}
