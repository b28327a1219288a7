/*
 * === This file is part of ALICE O² ===
 *
 * Copyright 2018 CERN and copyright holders of ALICE O².
 * Author: Teo Mrnjavac <teo.mrnjavac@cern.ch>
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

// Package lampctl implements the Lamp Control Utility, a client of the
// lampd HTTP API.
package lampctl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/AliceO2Group/LampControl/common/logger"
	"github.com/AliceO2Group/LampControl/core/sm"
	"github.com/AliceO2Group/LampControl/lampd"
	"github.com/sirupsen/logrus"
)

var log = logger.New(logrus.StandardLogger(), "lampctl")

const HttpTimeout = 30 * time.Second

type Client struct {
	baseUrl string
	http    *http.Client
}

// NewClient returns a client for the lampd instance at endpoint, given
// either as HOST:PORT or as a full URL.
func NewClient(endpoint string) *Client {
	base := strings.TrimSuffix(endpoint, "/")
	if !strings.Contains(base, "://") {
		base = "http://" + base
	}
	return &Client{
		baseUrl: base,
		http:    &http.Client{Timeout: HttpTimeout},
	}
}

func (c *Client) Endpoint() string {
	return c.baseUrl
}

// StatusError is returned for any non-2xx lampd response.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("lampd returned %d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.Message)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values) ([]byte, error) {
	target := c.baseUrl + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return nil, err
	}

	log.WithField("method", method).
		WithField("url", target).
		Debug("calling lampd")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cannot reach lampd at %s: %w", c.baseUrl, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message := strings.TrimSpace(string(body))
		errResponse := lampd.TriggerResponse{}
		if json.Unmarshal(body, &errResponse) == nil && len(errResponse.Error) > 0 {
			message = errResponse.Error
		}
		return body, &StatusError{StatusCode: resp.StatusCode, Message: message}
	}
	return body, nil
}

func (c *Client) GetState(ctx context.Context) (*lampd.StateResponse, error) {
	body, err := c.do(ctx, http.MethodGet, "/state", url.Values{"format": {"json"}})
	if err != nil {
		return nil, err
	}
	response := &lampd.StateResponse{}
	if err = json.Unmarshal(body, response); err != nil {
		return nil, fmt.Errorf("cannot decode state: %w", err)
	}
	return response, nil
}

// FireTrigger asks lampd to fire the named trigger. A rejected trigger is
// not an error.
func (c *Client) FireTrigger(ctx context.Context, trigger string) (*lampd.TriggerResponse, error) {
	body, err := c.do(ctx, http.MethodPost, "/triggers/"+url.PathEscape(trigger), nil)
	if err != nil {
		return nil, err
	}
	response := &lampd.TriggerResponse{}
	if err = json.Unmarshal(body, response); err != nil {
		return nil, fmt.Errorf("cannot decode trigger response: %w", err)
	}
	return response, nil
}

func (c *Client) GetGraph(ctx context.Context) (string, error) {
	body, err := c.do(ctx, http.MethodGet, "/graph", nil)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (c *Client) GetInfo(ctx context.Context) (*sm.MachineInfo, error) {
	body, err := c.do(ctx, http.MethodGet, "/info", url.Values{"format": {"json"}})
	if err != nil {
		return nil, err
	}
	info := &sm.MachineInfo{}
	if err = json.Unmarshal(body, info); err != nil {
		return nil, fmt.Errorf("cannot decode description: %w", err)
	}
	return info, nil
}
